// Package repo is the filesystem-backed accessor beneath the in-memory
// store: it lists, reads, and writes ticket and plan files and enforces
// stem authority on every read. It holds no index of its own; the store
// is the process's authoritative in-memory view.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"janus/internal/docparse"
	"janus/internal/errs"
	"janus/internal/fsx"
	"janus/internal/graph"
	"janus/internal/warn"
)

// Repository reads and writes the ticket and plan directories beneath a
// Janus root.
type Repository struct {
	ItemsDir string
	PlansDir string
	Warn     warn.Sink
}

// New returns a Repository rooted at itemsDir/plansDir. A nil warn.Sink is
// replaced with warn.Discard.
func New(itemsDir, plansDir string, w warn.Sink) *Repository {
	if w == nil {
		w = warn.Discard
	}

	return &Repository{ItemsDir: itemsDir, PlansDir: plansDir, Warn: w}
}

// FindTickets returns the stems (filename without ".md") of every ticket
// file in the items directory, sorted. A missing directory is not an
// error: it yields an empty set.
func (r *Repository) FindTickets() ([]string, error) {
	return stems(r.ItemsDir)
}

// FindPlans returns the stems of every plan file in the plans directory.
func (r *Repository) FindPlans() ([]string, error) {
	return stems(r.PlansDir)
}

func stems(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}

		return nil, &errs.StorageError{Op: "readdir", Path: dir, Source: err}
	}

	out := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}

		out = append(out, strings.TrimSuffix(e.Name(), ".md"))
	}

	sort.Strings(out)

	return out, nil
}

// FindByPartialID resolves q against the ticket stems in the items
// directory: exact match wins, otherwise substring match across all
// stems. Zero matches is *errs.TicketNotFound, more than one is
// *errs.AmbiguousID.
func (r *Repository) FindByPartialID(q string) (string, error) {
	ids, err := r.FindTickets()
	if err != nil {
		return "", err
	}

	return graph.Resolve(q, ids)
}

// FindPlanByPartialID is FindByPartialID over the plans directory.
func (r *Repository) FindPlanByPartialID(q string) (string, error) {
	ids, err := r.FindPlans()
	if err != nil {
		return "", err
	}

	return graph.Resolve(q, ids)
}

// TicketPath returns the path a ticket with the given stem lives at,
// whether or not it exists.
func (r *Repository) TicketPath(stem string) string {
	return filepath.Join(r.ItemsDir, stem+".md")
}

// PlanPath returns the path a plan with the given stem lives at.
func (r *Repository) PlanPath(stem string) string {
	return filepath.Join(r.PlansDir, stem+".md")
}

// ReadFailure records a file that failed to parse during a bulk scan,
// alongside the stem and the error, so callers can report without
// aborting the whole scan.
type ReadFailure struct {
	Stem string
	Path string
	Err  error
}

// GetTicket reads and parses a single ticket by stem, enforcing I1: if
// the frontmatter's id disagrees with the filename stem, the stem wins
// and a warning is emitted.
func (r *Repository) GetTicket(stem string) (*docparse.TicketMetadata, error) {
	path := r.TicketPath(stem)

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errs.TicketNotFound{Query: stem}
		}

		return nil, &errs.StorageError{Op: "read", Path: path, Source: err}
	}

	meta, err := docparse.ParseTicketStrict(string(raw))
	if err != nil {
		return nil, err
	}

	meta.FilePath = path
	r.enforceStemAuthority(stem, &meta.ID)

	return meta, nil
}

func (r *Repository) enforceStemAuthority(stem string, id *string) {
	if *id != stem {
		r.Warn.Warnf("ticket %s: frontmatter id %q disagrees with filename, filename wins", stem, *id)
		*id = stem
	}
}

// GetAllTickets scans the items directory and parses every file, logging
// and skipping files that fail to parse rather than aborting the scan.
// It returns the successfully parsed tickets and the list of failures;
// callers decide whether a non-empty failure list should be surfaced or
// merely logged.
func (r *Repository) GetAllTickets() ([]*docparse.TicketMetadata, []ReadFailure) {
	stemList, err := r.FindTickets()
	if err != nil {
		return nil, []ReadFailure{{Err: err}}
	}

	tickets := make([]*docparse.TicketMetadata, 0, len(stemList))

	var failures []ReadFailure

	for _, stem := range stemList {
		meta, err := r.GetTicket(stem)
		if err != nil {
			r.Warn.Warnf("skipping ticket %s: %v", stem, err)

			failures = append(failures, ReadFailure{Stem: stem, Path: r.TicketPath(stem), Err: err})

			continue
		}

		tickets = append(tickets, meta)
	}

	return tickets, failures
}

// WriteNewTicket renders meta and writes it to its stem's path. The
// caller is responsible for the stem/id already agreeing. WriteNewTicket
// refuses to overwrite a file that exists when it checks; the check and
// the write are not atomic with each other, and no lock is taken.
func (r *Repository) WriteNewTicket(meta *docparse.TicketMetadata) error {
	path := r.TicketPath(meta.ID)

	exists, err := fsx.Exists(path)
	if err != nil {
		return err
	}

	if exists {
		return &errs.StorageError{Op: "create", Path: path, Source: fmt.Errorf("ticket %s already exists", meta.ID)}
	}

	return fsx.WriteFileAtomic(r.Warn, path, []byte(docparse.FormatNewTicket(meta)))
}

// WriteTicketRaw overwrites an existing ticket file's full contents,
// atomically. It takes no lock; the editor does not use it and writes
// through its own locked Apply instead.
func (r *Repository) WriteTicketRaw(stem, raw string) error {
	return fsx.WriteFileAtomic(r.Warn, r.TicketPath(stem), []byte(raw))
}

// ReadTicketRaw returns a ticket's full raw file contents, for editors
// that need to round-trip through the YAML-node-preserving mutators in
// docparse.
func (r *Repository) ReadTicketRaw(stem string) (string, error) {
	path := r.TicketPath(stem)

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &errs.TicketNotFound{Query: stem}
		}

		return "", &errs.StorageError{Op: "read", Path: path, Source: err}
	}

	return string(raw), nil
}

// GetPlan reads and parses a single plan by stem.
func (r *Repository) GetPlan(stem string) (*docparse.PlanMetadata, error) {
	path := r.PlanPath(stem)

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errs.TicketNotFound{Query: stem}
		}

		return nil, &errs.StorageError{Op: "read", Path: path, Source: err}
	}

	meta, err := docparse.ParsePlanTolerant(string(raw))
	if err != nil {
		return nil, err
	}

	meta.FilePath = path
	r.enforceStemAuthority(stem, &meta.ID)

	return meta, nil
}

// GetAllPlans scans the plans directory, parsing every file and skipping
// failures the same way GetAllTickets does.
func (r *Repository) GetAllPlans() ([]*docparse.PlanMetadata, []ReadFailure) {
	stemList, err := r.FindPlans()
	if err != nil {
		return nil, []ReadFailure{{Err: err}}
	}

	plans := make([]*docparse.PlanMetadata, 0, len(stemList))

	var failures []ReadFailure

	for _, stem := range stemList {
		meta, err := r.GetPlan(stem)
		if err != nil {
			r.Warn.Warnf("skipping plan %s: %v", stem, err)

			failures = append(failures, ReadFailure{Stem: stem, Path: r.PlanPath(stem), Err: err})

			continue
		}

		plans = append(plans, meta)
	}

	return plans, failures
}

// WritePlanRaw overwrites an existing plan file's full contents,
// atomically.
func (r *Repository) WritePlanRaw(stem, raw string) error {
	return fsx.WriteFileAtomic(r.Warn, r.PlanPath(stem), []byte(raw))
}
