// Package errs defines the error taxonomy shared across the document store
// and reactive cache. Sentinel values are compared with errors.Is; the
// structured kinds carry payload through errors.As.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingFrontmatter = errors.New("missing frontmatter")
	ErrEmptyFrontmatter   = errors.New("empty frontmatter")
	ErrEmptyNote          = errors.New("note text is empty")
	ErrEmptyTitle         = errors.New("title is empty")
	ErrNotLinked          = errors.New("ticket is not linked to a remote")
	ErrAlreadyBound       = errors.New("store or watcher already bound to a different instance")
	ErrRootMissing        = errors.New("janus root directory does not exist")
)

// InvalidFormat is a YAML parse error, invalid enum, or schema violation
// discovered while loading a document.
type InvalidFormat struct {
	Path   string
	Detail string
}

func (e *InvalidFormat) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid format: %s", e.Detail)
	}

	return fmt.Sprintf("invalid format in %s: %s", e.Path, e.Detail)
}

// CorruptedTicket reports that a typed consumer required a field the
// metadata does not have.
type CorruptedTicket struct {
	ID    string
	Field string
}

func (e *CorruptedTicket) Error() string {
	return fmt.Sprintf("ticket %s: missing required field %q", e.ID, e.Field)
}

// TicketNotFound reports that no entity matched a resolver query.
type TicketNotFound struct {
	Query string
}

func (e *TicketNotFound) Error() string {
	return fmt.Sprintf("no ticket matches %q", e.Query)
}

// AmbiguousID reports that a resolver query matched more than one entity.
type AmbiguousID struct {
	Query      string
	Candidates []string
}

func (e *AmbiguousID) Error() string {
	return fmt.Sprintf("%q is ambiguous, candidates: %s", e.Query, strings.Join(e.Candidates, ", "))
}

// CircularDependency reports that applying an edge would create a cycle in
// the deps graph. Path is ordered start-to-end, e.g. ["A", "B", "C", "A"].
type CircularDependency struct {
	Path []string
}

func (e *CircularDependency) Error() string {
	return fmt.Sprintf("circular dependency: %s", strings.Join(e.Path, " -> "))
}

// AlreadyLinked reports that a ticket is already linked to a remote
// identifier and a second link was attempted.
type AlreadyLinked struct {
	Remote string
}

func (e *AlreadyLinked) Error() string {
	return fmt.Sprintf("already linked to %s", e.Remote)
}

// StorageError wraps a filesystem I/O failure, retaining enough context for
// callers to make NotFound/Exist decisions via errors.Is on Source.
type StorageError struct {
	Op     string
	Path   string
	Source error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Source)
}

func (e *StorageError) Unwrap() error {
	return e.Source
}

// WatcherError reports initialization or rebinding failure in the watcher.
type WatcherError struct {
	Detail string
}

func (e *WatcherError) Error() string {
	return fmt.Sprintf("watcher: %s", e.Detail)
}
