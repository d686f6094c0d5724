package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"janus/internal/docparse"
	"janus/internal/errs"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	tmp := t.TempDir()

	return New(filepath.Join(tmp, "items"), filepath.Join(tmp, "plans"), nil)
}

func writeTicketFile(t *testing.T, r *Repository, stem, body string) {
	t.Helper()

	if err := os.MkdirAll(r.ItemsDir, 0o750); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	path := filepath.Join(r.ItemsDir, stem+".md")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

const minimalTicket = "---\nid: %s\nuuid: u-1\n---\n# Title\n"

func TestFindTickets_EmptyDirIsNotError(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)

	got, err := r.FindTickets()
	if err != nil {
		t.Fatalf("FindTickets failed: %v", err)
	}

	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestFindTickets_ListsStemsSorted(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	writeTicketFile(t, r, "j-2", "b")
	writeTicketFile(t, r, "j-1", "a")

	got, err := r.FindTickets()
	if err != nil {
		t.Fatalf("FindTickets failed: %v", err)
	}

	want := []string{"j-1", "j-2"}

	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFindByPartialID(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	writeTicketFile(t, r, "abc123", "x")
	writeTicketFile(t, r, "abc999", "x")

	if _, err := r.FindByPartialID("abc"); err == nil {
		t.Fatal("expected ambiguous error")
	} else {
		var ambiguous *errs.AmbiguousID
		if !errors.As(err, &ambiguous) {
			t.Errorf("got %T, want *errs.AmbiguousID", err)
		}
	}

	got, err := r.FindByPartialID("123")
	if err != nil || got != "abc123" {
		t.Errorf("got %q, %v", got, err)
	}

	if _, err := r.FindByPartialID("nope"); err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestFindByPartialID_ExactMatchWinsOverSubstring(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	writeTicketFile(t, r, "j-1", "x")
	writeTicketFile(t, r, "j-10", "x")

	got, err := r.FindByPartialID("j-1")
	if err != nil || got != "j-1" {
		t.Errorf("got %q, %v, want exact match to win", got, err)
	}
}

func TestGetTicket_EnforcesStemAuthority(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	writeTicketFile(t, r, "j-1", "---\nid: wrong-id\nuuid: u-1\n---\n# T\n")

	meta, err := r.GetTicket("j-1")
	if err != nil {
		t.Fatalf("GetTicket failed: %v", err)
	}

	if meta.ID != "j-1" {
		t.Errorf("ID = %q, want stem to win", meta.ID)
	}
}

func TestGetTicket_NotFound(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)

	_, err := r.GetTicket("missing")

	var notFound *errs.TicketNotFound
	if !errors.As(err, &notFound) {
		t.Errorf("got %T, want *errs.TicketNotFound", err)
	}
}

func TestGetAllTickets_SkipsInvalidAndReportsFailures(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	writeTicketFile(t, r, "good", "---\nid: good\nuuid: u-1\n---\n# T\n")
	writeTicketFile(t, r, "bad", "not frontmatter at all")

	tickets, failures := r.GetAllTickets()

	if len(tickets) != 1 || tickets[0].ID != "good" {
		t.Errorf("tickets = %+v", tickets)
	}

	if len(failures) != 1 || failures[0].Stem != "bad" {
		t.Errorf("failures = %+v", failures)
	}
}

func TestWriteNewTicket_RefusesOverwrite(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)

	meta := &docparse.TicketMetadata{ID: "j-1", UUID: "u-1", Title: "T", Priority: 2}

	if err := r.WriteNewTicket(meta); err != nil {
		t.Fatalf("first write failed: %v", err)
	}

	if err := r.WriteNewTicket(meta); err == nil {
		t.Fatal("expected second write to the same stem to fail")
	}

	got, err := r.GetTicket("j-1")
	if err != nil {
		t.Fatalf("GetTicket failed: %v", err)
	}

	if got.Title != "T" {
		t.Errorf("Title = %q", got.Title)
	}
}

func TestReadWriteTicketRaw_RoundTrips(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	writeTicketFile(t, r, "j-1", "---\nid: j-1\nuuid: u-1\n---\n# T\n")

	raw, err := r.ReadTicketRaw("j-1")
	if err != nil {
		t.Fatalf("ReadTicketRaw failed: %v", err)
	}

	if err := r.WriteTicketRaw("j-1", raw+"\nmore text\n"); err != nil {
		t.Fatalf("WriteTicketRaw failed: %v", err)
	}

	raw2, err := r.ReadTicketRaw("j-1")
	if err != nil {
		t.Fatalf("ReadTicketRaw failed: %v", err)
	}

	if raw2 != raw+"\nmore text\n" {
		t.Errorf("raw2 = %q", raw2)
	}
}
