package models

// Application is an applicant's request for a position within a session.
type Application struct {
	ID          int     `json:"id"`
	ApplicantID int     `json:"applicant_id"`
	PositionID  int     `json:"position_id"`
	Status      string  `json:"status"`
	Comments    *string `json:"comments,omitempty"`
	Program     *string `json:"program,omitempty"`
	Department  *string `json:"department,omitempty"`
	YearInProg  *int    `json:"yip,omitempty"`
	Annotation  *string `json:"annotation,omitempty"`
}

// ApplicationUpsert is a partial payload for creating or updating an
// application.
type ApplicationUpsert struct {
	ID          *int       `json:"id,omitempty"`
	ApplicantID *int       `json:"applicant_id,omitempty"`
	Applicant   *Applicant `json:"-"`
	PositionID  *int       `json:"position_id,omitempty"`
	Position    *Position  `json:"-"`
	Status      *string    `json:"status,omitempty"`
	Comments    *string    `json:"comments,omitempty"`
	Annotation  *string    `json:"annotation,omitempty"`
}

// Flatten folds nested relation objects down to their id fields.
func (u *ApplicationUpsert) Flatten() {
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
