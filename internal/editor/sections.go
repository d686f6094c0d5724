package editor

import (
	"regexp"
	"strings"
	"time"

	"janus/internal/docparse"
	"janus/internal/errs"
)

// AddNote appends a timestamped entry to a ticket's "## Notes" section,
// creating the section if it does not exist yet.
func (e *Editor) AddNote(stem, text string) error {
	if strings.TrimSpace(text) == "" {
		return errs.ErrEmptyNote
	}

	path := e.Repo.TicketPath(stem)
	entry := "**" + time.Now().UTC().Format(time.RFC3339) + "**\n\n" + text

	err := e.Apply(path, func(raw string) (string, error) {
		fm, body, splitErr := docparse.Split(raw)
		if splitErr != nil {
			return "", splitErr
		}

		return docparse.Join(fm, appendSection(body, "Notes", entry)), nil
	})
	if err != nil {
		return err
	}

	e.refreshTicket(stem)
	e.Hook.AfterWrite(stem, path)

	return nil
}

// UpdateDescription rewrites the body text between the title (H1) line
// and the first H2, or clears it entirely if clear is true.
func (e *Editor) UpdateDescription(stem, value string, clear bool) error {
	path := e.Repo.TicketPath(stem)

	err := e.Apply(path, func(raw string) (string, error) {
		fm, body, splitErr := docparse.Split(raw)
		if splitErr != nil {
			return "", splitErr
		}

		newValue := value
		if clear {
			newValue = ""
		}

		newBody := replaceDescription(body, newValue)

		return docparse.Join(fm, newBody), nil
	})
	if err != nil {
		return err
	}

	e.refreshTicket(stem)
	e.Hook.AfterWrite(stem, path)

	return nil
}

// ReplaceSection replaces (or appends, if absent) a named H2 section's
// content, matched case-insensitively.
func (e *Editor) ReplaceSection(stem, name, content string) error {
	path := e.Repo.TicketPath(stem)

	err := e.Apply(path, func(raw string) (string, error) {
		fm, body, splitErr := docparse.Split(raw)
		if splitErr != nil {
			return "", splitErr
		}

		newBody := replaceOrAppendSection(body, name, content)

		return docparse.Join(fm, newBody), nil
	})
	if err != nil {
		return err
	}

	e.refreshTicket(stem)
	e.Hook.AfterWrite(stem, path)

	return nil
}

var titleLineRe = regexp.MustCompile(`(?m)^#\s+.*$`)

// replaceDescription rewrites the free text between the H1 title line and
// the first H2 (or EOF), leaving the title and every section after the
// first H2 untouched.
func replaceDescription(body, newDescription string) string {
	loc := titleLineRe.FindStringIndex(body)
	if loc == nil {
		// No title; treat the whole body as the description region.
		if newDescription == "" {
			return ""
		}

		return newDescription + "\n"
	}

	titleEnd := loc[1]
	rest := body[titleEnd:]

	h2Start := len(rest)
	if idx := h2LineRe.FindStringIndex(rest); idx != nil {
		h2Start = idx[0]
	}

	tail := rest[h2Start:]
	if tail != "" {
		tail = "\n" + tail
	}

	if newDescription == "" {
		return body[:titleEnd] + "\n" + tail
	}

	return body[:titleEnd] + "\n\n" + strings.TrimSpace(newDescription) + "\n" + tail
}

var sectionHeadingRe = regexp.MustCompile(`(?m)^##\s+(.*)$`)

// replaceOrAppendSection replaces the named H2 section's content (matched
// case-insensitively), or appends a new section at the end if absent.
func replaceOrAppendSection(body, name, content string) string {
	headings := sectionHeadingRe.FindAllStringSubmatchIndex(body, -1)

	for i, h := range headings {
		heading := strings.TrimSpace(body[h[2]:h[3]])
		if !strings.EqualFold(heading, name) {
			continue
		}

		start := h[1]

		end := len(body)
		if i+1 < len(headings) {
			end = headings[i+1][0]
		}

		return body[:start] + "\n\n" + strings.TrimSpace(content) + "\n" + body[end:]
	}

	sep := ""
	if !strings.HasSuffix(body, "\n\n") {
		if strings.HasSuffix(body, "\n") {
			sep = "\n"
		} else {
			sep = "\n\n"
		}
	}

	return body + sep + "## " + name + "\n\n" + strings.TrimSpace(content) + "\n"
}

// appendSection appends entry to name's section, creating it if absent.
// It treats the existing content (if any) as a list of prior entries
// separated by blank lines.
func appendSection(body, name, entry string) string {
	if existing, ok := docparse.ExtractSection(body, name); ok && existing != "" {
		return replaceOrAppendSection(body, name, existing+"\n\n"+entry)
	}

	return replaceOrAppendSection(body, name, entry)
}
