package search

import (
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

// NewPropertyThreshold is how long after registration a listing counts as new.
const NewPropertyThreshold = 48 * time.Hour

// RegistrationDate falls back to the entry creation time.
func RegistrationDate(e *domain.Entry) time.Time {
	if t, ok := e.Time("registrationDate"); ok {
		return t
	}
	if e == nil {
		return time.Time{}
	}
	return e.Sys.CreatedAt
}

// IsNewEntry reports whether the entry is flagged new or was registered within the threshold.
// The boundary is inclusive.
func IsNewEntry(e *domain.Entry, now time.Time) bool {
	if e == nil {
		return false
	}
	if e.Bool("isNew") {
		return true
	}
	registered := RegistrationDate(e)
	if registered.IsZero() {
		return false
	}
	return now.Sub(registered) <= NewPropertyThreshold
}

// CountNew counts the entries classified as new at the given instant.
func CountNew(entries []*domain.Entry, now time.Time) int {
	n := 0
	for _, e := range entries {
		if IsNewEntry(e, now) {
			n++
		}
	}
	return n
}
