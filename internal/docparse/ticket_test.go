package docparse

import (
	"errors"
	"testing"

	"janus/internal/errs"
)

func validTicketDoc() string {
	return "---\n" +
		"id: j-1\n" +
		"uuid: 11111111-1111-1111-1111-111111111111\n" +
		"status: new\n" +
		"deps:\n" +
		"  - j-0\n" +
		"created: 2024-01-01T00:00:00Z\n" +
		"type: task\n" +
		"priority: 1\n" +
		"---\n" +
		"# My Ticket\n" +
		"\n" +
		"Some description.\n" +
		"\n" +
		"## Notes\n" +
		"\n" +
		"A note.\n"
}

func TestParseTicketStrict_Basic(t *testing.T) {
	t.Parallel()

	meta, err := ParseTicketStrict(validTicketDoc())
	if err != nil {
		t.Fatalf("ParseTicketStrict failed: %v", err)
	}

	if meta.ID != "j-1" {
		t.Errorf("ID = %q", meta.ID)
	}

	if meta.Title != "My Ticket" {
		t.Errorf("Title = %q", meta.Title)
	}

	if meta.Description != "Some description." {
		t.Errorf("Description = %q", meta.Description)
	}

	if got := meta.Sections["Notes"]; got != "A note." {
		t.Errorf("Sections[Notes] = %q", got)
	}

	if len(meta.Deps) != 1 || meta.Deps[0] != "j-0" {
		t.Errorf("Deps = %v", meta.Deps)
	}
}

func TestParseTicketStrict_UnknownField(t *testing.T) {
	t.Parallel()

	doc := "---\n" +
		"id: j-1\n" +
		"uuid: 11111111-1111-1111-1111-111111111111\n" +
		"bogus-field: true\n" +
		"---\n" +
		"# T\n"

	_, err := ParseTicketStrict(doc)

	var invalid *errs.InvalidFormat
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *errs.InvalidFormat, got %v", err)
	}
}

func TestParseTicketStrict_InvalidStatus(t *testing.T) {
	t.Parallel()

	doc := "---\n" +
		"id: j-1\n" +
		"uuid: 11111111-1111-1111-1111-111111111111\n" +
		"status: bogus\n" +
		"---\n" +
		"# T\n"

	_, err := ParseTicketStrict(doc)
	if err == nil {
		t.Fatal("expected error for invalid status")
	}
}

func TestExtractSection_TerminatesAtNextH2(t *testing.T) {
	t.Parallel()

	body := "# Title\n\n## Notes\n\nfirst\n\n## Completion Summary\n\nsecond\n"

	got, ok := ExtractSection(body, "notes")
	if !ok {
		t.Fatal("expected Notes section to be found")
	}

	if got != "first" {
		t.Errorf("Notes section = %q, want %q", got, "first")
	}
}
