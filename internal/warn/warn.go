// Package warn collects recoverable-issue diagnostics ("Warning: ..." lines)
// on a dedicated stream, separate from error returns.
package warn

import (
	"fmt"
	"io"
	"sync"
)

// Sink is the narrow interface the rest of the core depends on, so callers
// can substitute a no-op, a buffering test sink, or a real stream.
type Sink interface {
	Warnf(format string, args ...any)
}

// Warner writes "Warning: ..." lines to out, serialized under a mutex since
// the watcher, the edit protocol, and bulk scans all warn concurrently.
type Warner struct {
	mu  sync.Mutex
	out io.Writer
}

// New returns a Warner that writes to out. A nil out discards warnings.
func New(out io.Writer) *Warner {
	return &Warner{out: out}
}

func (w *Warner) Warnf(format string, args ...any) {
	if w == nil || w.out == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	fmt.Fprintf(w.out, "Warning: %s\n", fmt.Sprintf(format, args...))
}

// Discard is a Sink that drops every warning, for call sites that have no
// stream wired up yet (e.g. early construction before a Warner is chosen).
var Discard Sink = discard{}

type discard struct{}

func (discard) Warnf(string, ...any) {}
