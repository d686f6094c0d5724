package store

import "janus/internal/docparse"

const (
	statusComplete  = "complete"
	statusNew       = "new"
	statusNext      = "next"
	statusCancelled = "cancelled"
)

// Ready returns every ticket whose status is "new" or "next" and whose
// dependencies are all complete (or has none). Computed on demand against
// a snapshot; there is no stored secondary index.
func (s *Store) Ready() []*docparse.TicketMetadata {
	tickets, _ := s.SnapshotAll()

	var out []*docparse.TicketMetadata

	for _, t := range tickets {
		if t.Status != statusNew && t.Status != statusNext {
			continue
		}

		if allDepsComplete(tickets, t.Deps) {
			out = append(out, t)
		}
	}

	return out
}

// Blocked returns every ticket that is not itself complete or cancelled
// and has at least one non-complete dependency.
func (s *Store) Blocked() []*docparse.TicketMetadata {
	tickets, _ := s.SnapshotAll()

	var out []*docparse.TicketMetadata

	for _, t := range tickets {
		if t.Status == statusComplete || t.Status == statusCancelled {
			continue
		}

		if len(t.Deps) > 0 && !allDepsComplete(tickets, t.Deps) {
			out = append(out, t)
		}
	}

	return out
}

func allDepsComplete(tickets map[string]*docparse.TicketMetadata, deps []string) bool {
	for _, dep := range deps {
		d, ok := tickets[dep]
		if !ok || d.Status != statusComplete {
			return false
		}
	}

	return true
}

// SpawnedFrom returns every ticket whose spawned-from field names id.
func (s *Store) SpawnedFrom(id string) []*docparse.TicketMetadata {
	tickets, _ := s.SnapshotAll()

	var out []*docparse.TicketMetadata

	for _, t := range tickets {
		if t.SpawnedFrom == id {
			out = append(out, t)
		}
	}

	return out
}

// ChildrenCount returns the number of tickets whose parent field names
// id.
func (s *Store) ChildrenCount(id string) int {
	tickets, _ := s.SnapshotAll()

	count := 0

	for _, t := range tickets {
		if t.Parent == id {
			count++
		}
	}

	return count
}
