package editor

import (
	"strings"
	"time"

	"janus/internal/docparse"
	"janus/internal/errs"
	"janus/internal/idgen"
)

// NewTicketParams are the caller-supplied fields for CreateTicket. Title
// and Description may originate from an untrusted source (e.g. a remote
// issue); they are sanitized before composition.
type NewTicketParams struct {
	Title       string
	Description string
	Type        string
	Priority    int
	Size        string
	ExternalRef string
	Parent      string
	SpawnedFrom string
	Untrusted   bool
}

// CreateTicket mints a unique id and uuid, sanitizes untrusted text,
// composes the new ticket file, and writes it to the repository.
// Returns the minted id.
func (e *Editor) CreateTicket(p NewTicketParams) (string, error) {
	title := p.Title
	description := p.Description

	if p.Untrusted {
		title = docparse.Sanitize(title)
		description = docparse.Sanitize(description)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return "", errs.ErrEmptyTitle
	}

	existing, err := e.Repo.FindTickets()
	if err != nil {
		return "", err
	}

	existingSet := make(map[string]bool, len(existing))
	for _, id := range existing {
		existingSet[id] = true
	}

	id, err := idgen.Unique(func(candidate string) bool { return existingSet[candidate] })
	if err != nil {
		return "", err
	}

	meta := &docparse.TicketMetadata{
		ID:          id,
		UUID:        idgen.NewUUID(),
		Status:      "new",
		Type:        p.Type,
		Priority:    p.Priority,
		Size:        p.Size,
		ExternalRef: p.ExternalRef,
		Parent:      p.Parent,
		SpawnedFrom: p.SpawnedFrom,
		Created:     time.Now(),
		Title:       title,
		Description: description,
	}

	if err := e.Repo.WriteNewTicket(meta); err != nil {
		return "", err
	}

	meta.FilePath = e.Repo.TicketPath(id)
	e.Store.UpsertTicket(meta)
	e.Hook.AfterWrite(id, meta.FilePath)

	return id, nil
}
