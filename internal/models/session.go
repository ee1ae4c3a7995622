package models

// Session is a hiring term scoping most other entities. Rate2 is optional;
// absence means a single flat rate applies for the whole session.
type Session struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Rate1     float64  `json:"rate1"`
	Rate2     *float64 `json:"rate2,omitempty"`
}

// SessionUpsert is a partial payload for creating or updating a session.
type SessionUpsert struct {
	ID        *int     `json:"id,omitempty"`
	Name      *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	StartDate *string  `json:"start_date,omitempty"`
	EndDate   *string  `json:"end_date,omitempty"`
	Rate1     *float64 `json:"rate1,omitempty" validate:"omitempty,gt=0"`
	Rate2     *float64 `json:"rate2,omitempty" validate:"omitempty,gt=0"`
}
