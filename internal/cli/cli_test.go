package cli_test

import (
	"strings"
	"testing"

	"janus/internal/cli"
)

func TestCreateAndShow(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	id := c.MustRun("create", "Fix the widget", "-d", "It is broken", "-t", "bug", "-p", "1")

	stdout := c.MustRun("show", id)

	if !strings.Contains(stdout, "id: "+id) {
		t.Errorf("show output missing id:\n%s", stdout)
	}

	if !strings.Contains(stdout, "Fix the widget") {
		t.Errorf("show output missing title:\n%s", stdout)
	}
}

func TestCreate_RequiresTitle(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stderr := c.MustFail("create")
	if !strings.Contains(stderr, "title is required") {
		t.Errorf("stderr = %q, want to contain 'title is required'", stderr)
	}
}

func TestShow_UnknownIDFails(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stderr := c.MustFail("show", "nonexistent")
	if stderr == "" {
		t.Error("expected a not-found error on stderr")
	}
}

func TestLs_FiltersByType(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	id1 := c.MustRun("create", "Bug one", "-t", "bug")
	c.MustRun("create", "Feature one", "-t", "feature")

	stdout := c.MustRun("ls", "--type", "bug")
	if !strings.Contains(stdout, id1) {
		t.Errorf("ls --type bug missing %s:\n%s", id1, stdout)
	}

	if strings.Contains(stdout, "Feature one") {
		t.Errorf("ls --type bug should not list the feature ticket:\n%s", stdout)
	}
}

func TestSetAndReady(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	a := c.MustRun("create", "Ticket A")
	b := c.MustRun("create", "Ticket B")

	c.MustRun("add-dep", b, a)

	readyBefore := c.MustRun("ready")
	if strings.Contains(readyBefore, b) {
		t.Errorf("%s should not be ready before %s completes:\n%s", b, a, readyBefore)
	}

	c.MustRun("set", a, "status", "complete")

	readyAfter := c.MustRun("ready")
	if !strings.Contains(readyAfter, b) {
		t.Errorf("%s should be ready once %s is complete:\n%s", b, a, readyAfter)
	}
}

func TestAddDep_RejectsCycle(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	a := c.MustRun("create", "Ticket A")
	b := c.MustRun("create", "Ticket B")

	c.MustRun("add-dep", b, a)

	stderr := c.MustFail("add-dep", a, b)
	if stderr == "" {
		t.Error("expected a cycle error on stderr")
	}
}

func TestNote_AppendsTimestampedEntry(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	id := c.MustRun("create", "Ticket A")

	c.MustRun("note", id, "investigated root cause")

	stdout := c.MustRun("show", id)
	if !strings.Contains(stdout, "investigated root cause") {
		t.Errorf("show output missing note:\n%s", stdout)
	}

	if !strings.Contains(stdout, "## Notes") {
		t.Errorf("show output missing Notes section:\n%s", stdout)
	}
}

func TestDescribe_ReplacesDescription(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	id := c.MustRun("create", "Ticket A", "-d", "original description")

	c.MustRun("describe", id, "updated description")

	stdout := c.MustRun("show", id)
	if strings.Contains(stdout, "original description") {
		t.Errorf("original description should be gone:\n%s", stdout)
	}

	if !strings.Contains(stdout, "updated description") {
		t.Errorf("updated description missing:\n%s", stdout)
	}
}
