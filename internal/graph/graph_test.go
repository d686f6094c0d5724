package graph

import (
	"errors"
	"testing"

	"janus/internal/docparse"
	"janus/internal/errs"
)

func TestResolve_ExactMatchWins(t *testing.T) {
	t.Parallel()

	got, err := Resolve("j-1", []string{"j-1", "j-10", "j-11"})
	if err != nil || got != "j-1" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestResolve_UniqueSubstring(t *testing.T) {
	t.Parallel()

	got, err := Resolve("abc", []string{"j-abc-1", "j-xyz-2"})
	if err != nil || got != "j-abc-1" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestResolve_Ambiguous(t *testing.T) {
	t.Parallel()

	_, err := Resolve("j", []string{"j-1", "j-2"})

	var ambiguous *errs.AmbiguousID
	if !errors.As(err, &ambiguous) {
		t.Fatalf("got %T, want *errs.AmbiguousID", err)
	}

	if len(ambiguous.Candidates) != 2 {
		t.Errorf("candidates = %v", ambiguous.Candidates)
	}
}

func TestResolve_NotFound(t *testing.T) {
	t.Parallel()

	_, err := Resolve("zzz", []string{"j-1", "j-2"})

	var notFound *errs.TicketNotFound
	if !errors.As(err, &notFound) {
		t.Errorf("got %T, want *errs.TicketNotFound", err)
	}
}

func TestCheckCycle_DirectCase(t *testing.T) {
	t.Parallel()

	deps := map[string][]string{
		"B": {"A"},
	}

	err := CheckCycle(deps, "A", "B")

	var cyc *errs.CircularDependency
	if !errors.As(err, &cyc) {
		t.Fatalf("got %T, want *errs.CircularDependency", err)
	}
}

func TestCheckCycle_TransitiveCase(t *testing.T) {
	t.Parallel()

	deps := map[string][]string{
		"B": {"C"},
		"C": {"A"},
	}

	err := CheckCycle(deps, "A", "B")

	var cyc *errs.CircularDependency
	if !errors.As(err, &cyc) {
		t.Fatalf("got %T, want *errs.CircularDependency", err)
	}

	want := []string{"A", "B", "C", "A"}

	if len(cyc.Path) != len(want) {
		t.Fatalf("path = %v, want %v", cyc.Path, want)
	}

	for i := range want {
		if cyc.Path[i] != want[i] {
			t.Errorf("path[%d] = %q, want %q", i, cyc.Path[i], want[i])
		}
	}
}

func TestCheckCycle_NoCycle(t *testing.T) {
	t.Parallel()

	deps := map[string][]string{
		"B": {"C"},
	}

	if err := CheckCycle(deps, "A", "B"); err != nil {
		t.Errorf("unexpected cycle: %v", err)
	}
}

func TestRollupPhases(t *testing.T) {
	t.Parallel()

	tickets := map[string]*docparse.TicketMetadata{
		"t1": {ID: "t1", Status: "complete"},
		"t2": {ID: "t2", Status: "in-progress"},
		"t3": {ID: "t3", Status: "new", Deps: []string{"t4"}},
		"t4": {ID: "t4", Status: "new"},
		"t5": {ID: "t5", Status: "new"},
	}

	phases := []*docparse.PhaseSection{
		{Number: "1", TicketIDs: []string{"t1"}},
		{Number: "2", TicketIDs: []string{"t2", "t1"}},
		{Number: "3", TicketIDs: []string{"t3"}},
		{Number: "4", TicketIDs: []string{"t5"}},
	}

	rollups := RollupPhases(phases, tickets)

	want := []PhaseStatus{PhaseComplete, PhaseInProgress, PhaseBlocked, PhasePending}

	for i, r := range rollups {
		if r.Status != want[i] {
			t.Errorf("phase %d status = %q, want %q", i, r.Status, want[i])
		}
	}

	if got := OverallStatus(rollups); got != PhaseInProgress {
		t.Errorf("OverallStatus = %q, want %q", got, PhaseInProgress)
	}

	next := NextActionable(rollups, tickets)
	if len(next) != 1 || next[0] != "t2" {
		t.Errorf("NextActionable = %v, want [t2]", next)
	}
}
