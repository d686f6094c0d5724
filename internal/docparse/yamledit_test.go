package docparse

import (
	"strings"
	"testing"
)

const commentedFrontmatter = `id: j-1
# keep this comment
status: new
extra_field: keep-me
priority: 2
`

// P2: unknown-field preservation.
func TestSetField_PreservesUnrelatedKeysAndComments(t *testing.T) {
	t.Parallel()

	out, err := SetField(commentedFrontmatter, "status", "in-progress")
	if err != nil {
		t.Fatalf("SetField failed: %v", err)
	}

	val, ok, err := GetField(out, "extra_field")
	if err != nil || !ok || val != "keep-me" {
		t.Errorf("extra_field = %q, %v, %v", val, ok, err)
	}

	status, ok, err := GetField(out, "status")
	if err != nil || !ok || status != "in-progress" {
		t.Errorf("status = %q, %v, %v", status, ok, err)
	}

	if !strings.Contains(out, "# keep this comment") {
		t.Errorf("comment was dropped:\n%s", out)
	}
}

func TestSetField_InsertsNewKeyAtTop(t *testing.T) {
	t.Parallel()

	out, err := SetField("id: j-1\n", "status", "new")
	if err != nil {
		t.Fatalf("SetField failed: %v", err)
	}

	id, _, _ := GetField(out, "id")
	status, ok, _ := GetField(out, "status")

	if id != "j-1" || !ok || status != "new" {
		t.Errorf("out = %q", out)
	}
}

func TestRemoveField(t *testing.T) {
	t.Parallel()

	out, err := RemoveField("id: j-1\nstatus: new\n", "status")
	if err != nil {
		t.Fatalf("RemoveField failed: %v", err)
	}

	if _, ok, _ := GetField(out, "status"); ok {
		t.Errorf("status should have been removed:\n%s", out)
	}

	if id, ok, _ := GetField(out, "id"); !ok || id != "j-1" {
		t.Errorf("id = %q, %v", id, ok)
	}
}

func TestAddToArrayField(t *testing.T) {
	t.Parallel()

	raw := "id: j-1\ndeps:\n  - existing-dep\n"

	out, added, err := AddToArrayField(raw, "deps", "new-dep")
	if err != nil || !added {
		t.Fatalf("AddToArrayField: added=%v err=%v", added, err)
	}

	deps, err := GetArrayField(out, "deps")
	if err != nil {
		t.Fatalf("GetArrayField failed: %v", err)
	}

	if len(deps) != 2 || deps[0] != "existing-dep" || deps[1] != "new-dep" {
		t.Errorf("deps = %v", deps)
	}

	// Adding the same value again is a no-op.
	out2, added2, err := AddToArrayField(out, "deps", "new-dep")
	if err != nil || added2 {
		t.Fatalf("expected no-op add, got added=%v err=%v", added2, err)
	}

	if out2 != out {
		t.Errorf("no-op add mutated the document")
	}
}

func TestRemoveFromArrayField(t *testing.T) {
	t.Parallel()

	raw := "deps:\n  - a\n  - b\n"

	out, removed, err := RemoveFromArrayField(raw, "deps", "a")
	if err != nil || !removed {
		t.Fatalf("RemoveFromArrayField: removed=%v err=%v", removed, err)
	}

	deps, _ := GetArrayField(out, "deps")
	if len(deps) != 1 || deps[0] != "b" {
		t.Errorf("deps = %v", deps)
	}
}

// Tolerant fallback: editing an array field succeeds even when the
// document as a whole would fail strict ticket validation.
func TestAddToArrayField_TolerantUnderUnknownKey(t *testing.T) {
	t.Parallel()

	raw := "id: j-1\nuuid: u-1\nsome-unknown-key: true\ndeps:\n  - existing-dep\n"

	out, added, err := AddToArrayField(raw, "deps", "new-dep")
	if err != nil || !added {
		t.Fatalf("AddToArrayField: added=%v err=%v", added, err)
	}

	if _, err := ParseTicketStrict("---\n" + out + "---\n# T\n"); err == nil {
		t.Fatal("expected the document to still fail strict parsing")
	}

	val, ok, _ := GetField(out, "some-unknown-key")
	if !ok || val != "true" {
		t.Errorf("unknown key not preserved: %q ok=%v", val, ok)
	}
}
