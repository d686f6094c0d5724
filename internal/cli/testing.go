package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CLI drives Run against a temp Janus root for tests.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string
}

// NewCLI creates a CLI rooted at a fresh temp directory with an
// items/ and plans/ directory already present.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	dir := t.TempDir()

	root := filepath.Join(dir, ".janus")
	if err := os.MkdirAll(filepath.Join(root, "items"), 0o750); err != nil {
		t.Fatalf("MkdirAll items: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(root, "plans"), 0o750); err != nil {
		t.Fatalf("MkdirAll plans: %v", err)
	}

	return &CLI{t: t, Dir: dir, Env: map[string]string{}}
}

// Run executes the CLI with args, returning stdout, stderr, and exit code.
func (c *CLI) Run(args ...string) (string, string, int) {
	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"janus", "--cwd", c.Dir}, args...)
	code := Run(nil, &outBuf, &errBuf, fullArgs, c.Env, nil)

	return outBuf.String(), errBuf.String(), code
}

// MustRun executes the CLI and fails the test on non-zero exit. Returns
// trimmed stdout.
func (c *CLI) MustRun(args ...string) string {
	c.t.Helper()

	stdout, stderr, code := c.Run(args...)
	if code != 0 {
		c.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail executes the CLI and fails the test if it succeeds. Returns
// trimmed stderr.
func (c *CLI) MustFail(args ...string) string {
	c.t.Helper()

	stdout, stderr, code := c.Run(args...)
	if code == 0 {
		c.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// ItemPath returns the path a ticket stem would be written to.
func (c *CLI) ItemPath(stem string) string {
	return filepath.Join(c.Dir, ".janus", "items", stem+".md")
}
