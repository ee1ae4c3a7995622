// Package view reconstructs relationally complete records from the flat
// collections in the store. Selectors are pure reads: they never mutate the
// store, never fail, and degrade missing relations to empty values so the
// consumer side stays total.
package view

import (
	"github.com/noah-isme/tapp-client/internal/models"
)

// WageChunk is a wage chunk with its pay rate resolved against the owning
// session's rate schedule.
type WageChunk struct {
	ID           int     `json:"id"`
	AssignmentID int     `json:"assignment_id"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Hours        float64 `json:"hours"`
	Rate         float64 `json:"rate"`
}

// Assignment is the denormalized assignment view: foreign keys replaced with
// the referenced records, wage chunks attached only when loaded for this
// exact assignment and consistent with the derived hours, and the offer log
// attached from the offer index.
type Assignment struct {
	ID        int              `json:"id"`
	Applicant models.Applicant `json:"applicant"`
	Position  models.Position  `json:"position"`
	StartDate *string          `json:"start_date,omitempty"`
	EndDate   *string          `json:"end_date,omitempty"`
	Hours     float64          `json:"hours"`
	Note      *string          `json:"note,omitempty"`

	// WageChunks is nil unless the chunks were fetched for this assignment
	// and either sum to Hours or are empty.
	WageChunks []WageChunk `json:"wage_chunks"`

	Offers            []models.Offer `json:"offers,omitempty"`
	ActiveOffer       *models.Offer  `json:"active_offer,omitempty"`
	ActiveOfferStatus *string        `json:"active_offer_status,omitempty"`
}

// Position is the denormalized position view.
type Position struct {
	models.Position
	Instructors      []models.Instructor     `json:"instructors"`
	ContractTemplate models.ContractTemplate `json:"contract_template"`
}

// Ddah is the denormalized DDAH view with its derived status and hour total.
type Ddah struct {
	models.Ddah
	Assignment Assignment        `json:"assignment"`
	Status     models.DdahStatus `json:"status"`
	TotalHours float64           `json:"total_hours"`
}

// PostingPosition is a posting/position link with the position resolved.
type PostingPosition struct {
	models.PostingPosition
	Position models.Position `json:"position"`
}

// Posting is the denormalized posting view.
type Posting struct {
	models.Posting
	PostingPositions []PostingPosition `json:"posting_positions"`
}

// DdahStatusOf derives the DDAH status from its milestone dates. Accepted
// takes priority over emailed; an accepted and approved form reports the
// combined status; a form with no milestone dates reports the empty status.
func DdahStatusOf(d models.Ddah) models.DdahStatus {
	switch {
	case d.AcceptedDate != nil && d.ApprovedDate != nil:
		return models.DdahStatusAcceptedApproved
	case d.AcceptedDate != nil:
		return models.DdahStatusAccepted
	case d.RejectedDate != nil:
		return models.DdahStatusRejected
	case d.EmailedDate != nil:
		return models.DdahStatusEmailed
	default:
		return ""
	}
}

// DdahTotalHours sums the itemized duty hours.
func DdahTotalHours(d models.Ddah) float64 {
	var total float64
	for _, duty := range d.Duties {
		total += duty.Hours
	}
	return total
}
