package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/tapp-client/internal/models"
)

func f(v float64) *float64 { return &v }

func TestResolveWageRateExplicitRateWins(t *testing.T) {
	session := models.Session{Rate1: 40, Rate2: f(50), StartDate: "2019-09-08"}
	chunk := models.WageChunk{StartDate: "2020-01-01", EndDate: "2020-04-30", Rate: f(33.25)}
	assert.Equal(t, 33.25, ResolveWageRate(session, chunk))
}

func TestResolveWageRateSingleRateSession(t *testing.T) {
	session := models.Session{Rate1: 40, StartDate: "2019-09-08"}
	chunk := models.WageChunk{StartDate: "2020-01-01", EndDate: "2020-04-30"}
	assert.Equal(t, 40.0, ResolveWageRate(session, chunk))
}

func TestResolveWageRateYearBoundary(t *testing.T) {
	session := models.Session{Rate1: 40, Rate2: f(50), StartDate: "2019-09-08"}

	tests := []struct {
		name       string
		start, end string
		want       float64
	}{
		{"fully before boundary", "2019-09-08", "2019-12-31", 40},
		{"fully after boundary", "2020-01-01", "2020-04-30", 50},
		{"straddling pays second rate wholesale", "2019-09-08", "2020-04-30", 50},
		{"ends on the boundary day", "2019-10-01", "2019-12-31", 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := models.WageChunk{StartDate: tt.start, EndDate: tt.end}
			assert.Equal(t, tt.want, ResolveWageRate(session, chunk))
		})
	}
}

func TestResolveWageRateUnparsableDates(t *testing.T) {
	session := models.Session{Rate1: 40, Rate2: f(50), StartDate: "not a date"}
	chunk := models.WageChunk{StartDate: "2019-09-08", EndDate: "2019-12-31"}
	// Without a usable session start date the boundary is unknown, so the
	// second rate applies.
	assert.Equal(t, 50.0, ResolveWageRate(session, chunk))

	session.StartDate = "2019-09-08"
	chunk = models.WageChunk{StartDate: "???", EndDate: "2019-12-31"}
	assert.Equal(t, 50.0, ResolveWageRate(session, chunk))
}

func TestResolveWageRateRFC3339Dates(t *testing.T) {
	session := models.Session{Rate1: 40, Rate2: f(50), StartDate: "2019-09-08T00:00:00Z"}
	chunk := models.WageChunk{StartDate: "2019-09-08T00:00:00Z", EndDate: "2019-12-31T00:00:00Z"}
	assert.Equal(t, 40.0, ResolveWageRate(session, chunk))
}
