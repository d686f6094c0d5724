// Package graph implements partial-id resolution, circular-dependency
// detection, and phased-plan status roll-up: the pure, in-memory
// algorithms that sit on top of the store's snapshots.
package graph

import (
	"sort"

	"janus/internal/errs"
)

// Resolve implements the exact-then-substring partial-id rule shared by
// the repository (over filesystem stems) and the store (over its
// in-memory keys): an exact match wins outright; otherwise every key
// containing q as a substring is a candidate. Zero candidates is
// *errs.TicketNotFound; two or more is *errs.AmbiguousID.
func Resolve(q string, keys []string) (string, error) {
	for _, k := range keys {
		if k == q {
			return k, nil
		}
	}

	var candidates []string

	for _, k := range keys {
		if containsSubstring(k, q) {
			candidates = append(candidates, k)
		}
	}

	switch len(candidates) {
	case 0:
		return "", &errs.TicketNotFound{Query: q}
	case 1:
		return candidates[0], nil
	default:
		sort.Strings(candidates)

		return "", &errs.AmbiguousID{Query: q, Candidates: candidates}
	}
}

func containsSubstring(s, substr string) bool {
	if substr == "" {
		return true
	}

	if len(substr) > len(s) {
		return false
	}

	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}

	return false
}
