package graph

import "janus/internal/docparse"

// PhaseStatus is the roll-up status of one phase of a phased plan.
type PhaseStatus string

const (
	PhasePending    PhaseStatus = "pending"
	PhaseBlocked    PhaseStatus = "blocked"
	PhaseInProgress PhaseStatus = "in-progress"
	PhaseComplete   PhaseStatus = "complete"
)

const (
	statusComplete  = "complete"
	statusCancelled = "cancelled"
	statusInProg    = "in-progress"
)

// PhaseRollup pairs a phase with its computed status.
type PhaseRollup struct {
	Phase  *docparse.PhaseSection
	Status PhaseStatus
}

// RollupPhases computes each phase's status from the current ticket
// snapshot: complete iff every ticket in the phase is complete or
// cancelled; in-progress iff any ticket is in-progress, or some but not
// all are complete; blocked iff no ticket is in-progress and at least one
// has an unresolved (non-complete) dependency; pending otherwise.
func RollupPhases(phases []*docparse.PhaseSection, tickets map[string]*docparse.TicketMetadata) []PhaseRollup {
	out := make([]PhaseRollup, len(phases))

	for i, phase := range phases {
		out[i] = PhaseRollup{Phase: phase, Status: rollupOne(phase, tickets)}
	}

	return out
}

func rollupOne(phase *docparse.PhaseSection, tickets map[string]*docparse.TicketMetadata) PhaseStatus {
	if len(phase.TicketIDs) == 0 {
		return PhasePending
	}

	allDone := true
	anyDone := false
	anyInProgress := false
	anyBlocked := false

	for _, id := range phase.TicketIDs {
		t, ok := tickets[id]
		if !ok {
			allDone = false

			continue
		}

		done := t.Status == statusComplete || t.Status == statusCancelled
		if done {
			anyDone = true
		} else {
			allDone = false
		}

		if t.Status == statusInProg {
			anyInProgress = true
		}

		if !done && hasUnresolvedDep(t, tickets) {
			anyBlocked = true
		}
	}

	switch {
	case allDone:
		return PhaseComplete
	case anyInProgress || anyDone:
		return PhaseInProgress
	case anyBlocked:
		return PhaseBlocked
	default:
		return PhasePending
	}
}

func hasUnresolvedDep(t *docparse.TicketMetadata, tickets map[string]*docparse.TicketMetadata) bool {
	for _, dep := range t.Deps {
		d, ok := tickets[dep]
		if !ok || (d.Status != statusComplete && d.Status != statusCancelled) {
			return true
		}
	}

	return false
}

// OverallStatus is the plan's status as the progression over its phases
// in order: the plan is complete once every phase is, otherwise it takes
// the status of the earliest non-complete phase.
func OverallStatus(rollups []PhaseRollup) PhaseStatus {
	for _, r := range rollups {
		if r.Status != PhaseComplete {
			return r.Status
		}
	}

	return PhaseComplete
}

// NextActionable returns the ticket ids in the earliest non-complete
// phase whose dependencies are all complete (or have none).
func NextActionable(rollups []PhaseRollup, tickets map[string]*docparse.TicketMetadata) []string {
	for _, r := range rollups {
		if r.Status == PhaseComplete {
			continue
		}

		var actionable []string

		for _, id := range r.Phase.TicketIDs {
			t, ok := tickets[id]
			if !ok || t.Status == statusComplete || t.Status == statusCancelled {
				continue
			}

			if !hasUnresolvedDep(t, tickets) {
				actionable = append(actionable, id)
			}
		}

		return actionable
	}

	return nil
}
