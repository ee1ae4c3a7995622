package view

import (
	"time"

	"github.com/noah-isme/tapp-client/internal/models"
)

// ResolveWageRate returns the pay rate for a chunk. An explicit chunk rate
// wins. A session without rate2 pays rate1 for every chunk. Otherwise the
// boundary is December 31 of the session's start-date year: a chunk whose
// start and end both fall on or before the boundary pays rate1, anything
// else pays rate2.
//
// A chunk straddling the boundary is not split; it pays rate2 wholesale,
// matching the backend's payroll computation.
func ResolveWageRate(session models.Session, chunk models.WageChunk) float64 {
	if chunk.Rate != nil {
		return *chunk.Rate
	}
	if session.Rate2 == nil {
		return session.Rate1
	}

	sessionStart, ok := parseDate(session.StartDate)
	if !ok {
		return *session.Rate2
	}
	boundary := time.Date(sessionStart.Year(), time.December, 31, 23, 59, 59, 0, time.UTC)

	start, okStart := parseDate(chunk.StartDate)
	end, okEnd := parseDate(chunk.EndDate)
	if okStart && okEnd && !start.After(boundary) && !end.After(boundary) {
		return session.Rate1
	}
	return *session.Rate2
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
