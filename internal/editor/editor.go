// Package editor implements the edit protocol: validate, lock, read,
// transform, write atomically, unlock, notify. Every exported mutator
// goes through Apply so the lock always spans the full
// read-parse-mutate-write cycle.
package editor

import (
	"os"

	"janus/internal/docparse"
	"janus/internal/errs"
	"janus/internal/fsx"
	"janus/internal/graph"
	"janus/internal/repo"
	"janus/internal/store"
	"janus/internal/warn"
)

// HookRunner is the post-write notification point. The core only
// provides the call; running an actual external hook process is out of
// scope here.
type HookRunner interface {
	AfterWrite(stem, path string)
}

// NoopHookRunner does nothing. It is the default when no HookRunner is
// configured.
type NoopHookRunner struct{}

func (NoopHookRunner) AfterWrite(string, string) {}

// ticketFieldWhitelist is the set of frontmatter fields a mutator may
// target directly. status and priority are the common single-value
// edits; deps/links go through the array-field mutators instead, which
// validate independently.
var ticketFieldWhitelist = map[string]bool{
	"status":       true,
	"priority":     true,
	"size":         true,
	"type":         true,
	"assignee":     true,
	"external-ref": true,
	"remote":       true,
	"parent":       true,
	"triaged":      true,
}

// Editor applies field and section mutations to tickets and plans under
// the repository's file locking discipline, keeping the store in sync
// with every write it makes itself (the watcher keeps it in sync with
// everyone else's).
type Editor struct {
	Repo  *repo.Repository
	Store *store.Store
	Hook  HookRunner
	Warn  warn.Sink
}

// New returns an Editor. A nil HookRunner defaults to NoopHookRunner; a
// nil warn.Sink defaults to warn.Discard.
func New(r *repo.Repository, st *store.Store, hook HookRunner, w warn.Sink) *Editor {
	if hook == nil {
		hook = NoopHookRunner{}
	}

	if w == nil {
		w = warn.Discard
	}

	return &Editor{Repo: r, Store: st, Hook: hook, Warn: w}
}

// Apply locks path, reads its current contents, runs mutate over them,
// and writes the result back atomically, all under the same lock. On any
// error the original file is left untouched. The lock is always
// released, even on error.
func (e *Editor) Apply(path string, mutate func(raw string) (string, error)) error {
	lock, err := fsx.LockExclusive(path)
	if err != nil {
		return &errs.StorageError{Op: "lock", Path: path, Source: err}
	}

	defer lock.Close()

	raw, err := readFile(path)
	if err != nil {
		return err
	}

	newRaw, err := mutate(raw)
	if err != nil {
		return err
	}

	if err := fsx.WriteFileAtomic(e.Warn, path, []byte(newRaw)); err != nil {
		return err
	}

	return nil
}

// SetTicketField sets a single frontmatter field on a ticket, validating
// the field name against the whitelist first.
func (e *Editor) SetTicketField(stem, field string, value any) error {
	if !ticketFieldWhitelist[field] {
		return &errs.InvalidFormat{Path: stem, Detail: "field " + field + " is not editable"}
	}

	path := e.Repo.TicketPath(stem)

	err := e.Apply(path, func(raw string) (string, error) {
		fm, body, splitErr := docparse.Split(raw)
		if splitErr != nil {
			return "", splitErr
		}

		newFm, setErr := docparse.SetField(fm, field, value)
		if setErr != nil {
			return "", setErr
		}

		return docparse.Join(newFm, body), nil
	})
	if err != nil {
		return err
	}

	e.refreshTicket(stem)
	e.Hook.AfterWrite(stem, path)

	return nil
}

// AddToArrayField appends value to a ticket's deps or links field,
// no-op if already present. field must be "deps" or "links".
func (e *Editor) AddToArrayField(stem, field, value string) (added bool, err error) {
	if field != "deps" && field != "links" {
		return false, &errs.InvalidFormat{Path: stem, Detail: "field " + field + " is not an array field"}
	}

	path := e.Repo.TicketPath(stem)

	err = e.Apply(path, func(raw string) (string, error) {
		if field == "deps" {
			if cycleErr := e.checkDepCycle(stem, value); cycleErr != nil {
				return "", cycleErr
			}
		}

		fm, body, splitErr := docparse.Split(raw)
		if splitErr != nil {
			return "", splitErr
		}

		newFm, wasAdded, addErr := docparse.AddToArrayField(fm, field, value)
		if addErr != nil {
			return "", addErr
		}

		added = wasAdded

		return docparse.Join(newFm, body), nil
	})
	if err != nil {
		return false, err
	}

	e.refreshTicket(stem)
	e.Hook.AfterWrite(stem, path)

	return added, nil
}

// RemoveFromArrayField removes value from a ticket's deps or links field.
func (e *Editor) RemoveFromArrayField(stem, field, value string) (removed bool, err error) {
	if field != "deps" && field != "links" {
		return false, &errs.InvalidFormat{Path: stem, Detail: "field " + field + " is not an array field"}
	}

	path := e.Repo.TicketPath(stem)

	err = e.Apply(path, func(raw string) (string, error) {
		fm, body, splitErr := docparse.Split(raw)
		if splitErr != nil {
			return "", splitErr
		}

		newFm, wasRemoved, removeErr := docparse.RemoveFromArrayField(fm, field, value)
		if removeErr != nil {
			return "", removeErr
		}

		removed = wasRemoved

		return docparse.Join(newFm, body), nil
	})
	if err != nil {
		return false, err
	}

	e.refreshTicket(stem)
	e.Hook.AfterWrite(stem, path)

	return removed, nil
}

// HasInArrayField is a read-only check; it does not lock.
func (e *Editor) HasInArrayField(stem, field, value string) (bool, error) {
	raw, err := e.Repo.ReadTicketRaw(stem)
	if err != nil {
		return false, err
	}

	fm, _, err := docparse.Split(raw)
	if err != nil {
		return false, err
	}

	return docparse.HasInArrayField(fm, field, value)
}

// checkDepCycle rejects AddDep(stem, dep) if dep already (transitively)
// depends on stem.
func (e *Editor) checkDepCycle(stem, dep string) error {
	tickets, _ := e.Store.SnapshotAll()

	deps := make(map[string][]string, len(tickets))
	for id, t := range tickets {
		deps[id] = t.Deps
	}

	return graph.CheckCycle(deps, stem, dep)
}

func (e *Editor) refreshTicket(stem string) {
	meta, err := e.Repo.GetTicket(stem)
	if err != nil {
		e.Warn.Warnf("refreshing store after edit to %s: %v", stem, err)

		return
	}

	e.Store.UpsertTicket(meta)
	e.Store.InvalidateEmbedding(stem)
}

func readFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &errs.TicketNotFound{Query: path}
		}

		return "", &errs.StorageError{Op: "read", Path: path, Source: err}
	}

	return string(raw), nil
}
