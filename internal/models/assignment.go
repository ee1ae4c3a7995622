package models

// Assignment pairs one applicant with one position for some number of hours.
// Hours is derived server side from the associated wage chunks; when the
// assignment has no explicit dates it inherits its position's dates.
type Assignment struct {
	ID                  int      `json:"id"`
	ApplicantID         int      `json:"applicant_id"`
	PositionID          int      `json:"position_id"`
	StartDate           *string  `json:"start_date,omitempty"`
	EndDate             *string  `json:"end_date,omitempty"`
	Hours               float64  `json:"hours"`
	Note                *string  `json:"note,omitempty"`
	ContractOverridePDF *string  `json:"contract_override_pdf,omitempty"`
	ActiveOfferStatus   *string  `json:"active_offer_status,omitempty"`
	ActiveOfferURLToken *string  `json:"active_offer_url_token,omitempty"`
	ActiveOfferRecent   *string  `json:"active_offer_recent_activity_date,omitempty"`
	ActiveOfferNags     *int     `json:"active_offer_nag_count,omitempty"`
	WageChunkIDs        []int    `json:"wage_chunk_ids,omitempty"`
}

// WageChunk is a dated sub-interval of an assignment's hours. Rate, if unset,
// is computed from the owning session's rate1/rate2 split at the calendar-year
// boundary.
type WageChunk struct {
	ID           int      `json:"id"`
	AssignmentID int      `json:"assignment_id"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Hours        float64  `json:"hours"`
	Rate         *float64 `json:"rate,omitempty"`
}

// WageChunkUpsert is a partial payload for setting an assignment's wage
// chunks.
type WageChunkUpsert struct {
	ID        *int     `json:"id,omitempty"`
	StartDate *string  `json:"start_date,omitempty"`
	EndDate   *string  `json:"end_date,omitempty"`
	Hours     *float64 `json:"hours,omitempty" validate:"omitempty,gte=0"`
	Rate      *float64 `json:"rate,omitempty" validate:"omitempty,gt=0"`
}

// AssignmentUpsert is a partial payload for creating or updating an
// assignment. Supplying WageChunks triggers the three-step upsert protocol
// (upsert, set chunks, re-fetch).
type AssignmentUpsert struct {
	ID          *int              `json:"id,omitempty"`
	ApplicantID *int              `json:"applicant_id,omitempty"`
	Applicant   *Applicant        `json:"-"`
	PositionID  *int              `json:"position_id,omitempty"`
	Position    *Position         `json:"-"`
	StartDate   *string           `json:"start_date,omitempty"`
	EndDate     *string           `json:"end_date,omitempty"`
	Hours       *float64          `json:"hours,omitempty" validate:"omitempty,gte=0"`
	Note        *string           `json:"note,omitempty"`
	WageChunks  []WageChunkUpsert `json:"-"`
}

// Flatten folds nested relation objects down to their id fields. Absent
// relations pass through untouched.
func (u *AssignmentUpsert) Flatten() {
	if u.Applicant != nil && u.ApplicantID == nil {
		id := u.Applicant.ID
		u.ApplicantID = &id
	}
	u.Applicant = nil
	if u.Position != nil && u.PositionID == nil {
		id := u.Position.ID
		u.PositionID = &id
	}
	u.Position = nil
}
