// Package idgen generates ticket ids (sortable, timestamp-derived) and
// stable uuids (opaque, never reused).
package idgen

import (
	"encoding/base32"
	"time"

	"github.com/google/uuid"
)

// crockfordBase32 is a sortable base32 alphabet (digits before letters).
const crockfordBase32 = "0123456789abcdefghjkmnpqrstvwxyz"

var crockfordEncoding = base32.NewEncoding(crockfordBase32).WithPadding(base32.NoPadding)

const timestampBytes = 4

// NewTicketID creates a lexicographically sortable ticket id: a
// base32-encoded Unix-seconds timestamp (7 chars). Sorts correctly until
// the year 2106, matching creation order for ids minted in the same
// process run.
func NewTicketID() string {
	return NewTicketIDAt(time.Now())
}

// NewTicketIDAt is NewTicketID with an explicit clock, for deterministic
// tests.
func NewTicketIDAt(t time.Time) string {
	sec := t.Unix()

	buf := make([]byte, timestampBytes)
	for i := timestampBytes - 1; i >= 0; i-- {
		buf[i] = byte(sec & 0xFF)
		sec >>= 8
	}

	return crockfordEncoding.EncodeToString(buf)
}

const maxSuffixLength = 4

// ErrExhausted is returned by Unique when every suffix up to
// maxSuffixLength has already been taken for the current timestamp.
var ErrExhausted = errExhausted{}

type errExhausted struct{}

func (errExhausted) Error() string { return "id generation exhausted available suffixes" }

// Unique returns a ticket id that exists returns false for, appending
// letter suffixes on collision: a, b, ..., z, za, zb, ..., matching the
// base-26-over-letters scheme so suffixed ids still sort after their base.
func Unique(exists func(id string) bool) (string, error) {
	base := NewTicketID()
	if !exists(base) {
		return base, nil
	}

	suffix := ""

	for {
		suffix = nextSuffix(suffix)
		candidate := base + suffix

		if !exists(candidate) {
			return candidate, nil
		}

		if len(suffix) > maxSuffixLength {
			return "", ErrExhausted
		}
	}
}

func nextSuffix(suffix string) string {
	if suffix == "" {
		return "a"
	}

	runes := []rune(suffix)

	for idx := len(runes) - 1; idx >= 0; idx-- {
		if runes[idx] < 'z' {
			runes[idx]++

			return string(runes)
		}

		runes[idx] = 'a'
	}

	return suffix + "a"
}

// NewUUID returns a stable opaque identifier for a new ticket's uuid field.
func NewUUID() string {
	return uuid.NewString()
}
