package cli

import (
	"fmt"
	"io"
)

// IO handles command output, deferring any collected warnings to stderr
// so they're visible regardless of truncation or piping.
type IO struct {
	out      io.Writer
	errOut   io.Writer
	warnings []string
	flushed  int
	started  bool
}

// NewIO creates a new IO instance.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{out: out, errOut: errOut}
}

// Warn records a warning to be flushed to stderr around the command's
// normal output. Any warnings bump the exit code to 1 even if the
// command otherwise succeeded, so partial results still flag attention.
func (o *IO) Warn(format string, args ...any) {
	o.warnings = append(o.warnings, fmt.Sprintf(format, args...))
}

// Println writes to stdout.
func (o *IO) Println(a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout.
func (o *IO) Printf(format string, a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// ErrPrintln writes to stderr, unconditionally.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Finish flushes any remaining warnings to stderr and returns the exit
// code contribution from warnings alone: 1 if any were recorded, 0
// otherwise.
func (o *IO) Finish() int {
	o.flushWarningsStart()

	for _, w := range o.warnings[o.flushed:] {
		_, _ = fmt.Fprintln(o.errOut, "warning:", w)
	}

	if len(o.warnings) > 0 {
		return 1
	}

	return 0
}

func (o *IO) flushWarningsStart() {
	if !o.started && len(o.warnings) > 0 {
		for _, w := range o.warnings {
			_, _ = fmt.Fprintln(o.errOut, "warning:", w)
		}

		o.flushed = len(o.warnings)
		o.started = true
	}
}
