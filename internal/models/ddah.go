package models

// Duty is one itemized line of a DDAH form.
type Duty struct {
	ID          int     `json:"id"`
	Description string  `json:"description"`
	Hours       float64 `json:"hours"`
	Order       int     `json:"order"`
}

// DdahStatus is derived from the milestone dates, never stored.
type DdahStatus string

const (
	DdahStatusAcceptedApproved DdahStatus = "accepted_and_approved"
	DdahStatusAccepted         DdahStatus = "accepted"
	DdahStatusRejected         DdahStatus = "rejected"
	DdahStatusEmailed          DdahStatus = "emailed"
)

// Ddah is a Description of Duties and Allocation of Hours form attached to
// one assignment. Changing the duty set after the form has been accepted or
// emailed clears the sign-off dates and signature server side.
type Ddah struct {
	ID           int     `json:"id"`
	AssignmentID int     `json:"assignment_id"`
	Duties       []Duty  `json:"duties"`
	AcceptedDate *string `json:"accepted_date,omitempty"`
	ApprovedDate *string `json:"approved_date,omitempty"`
	EmailedDate  *string `json:"emailed_date,omitempty"`
	RejectedDate *string `json:"rejected_date,omitempty"`
	Signature    *string `json:"signature,omitempty"`
	URLToken     *string `json:"url_token,omitempty"`
}

// DutyUpsert is one duty line in a DDAH upsert payload.
type DutyUpsert struct {
	Description string  `json:"description"`
	Hours       float64 `json:"hours" validate:"gte=0"`
	Order       int     `json:"order"`
}

// DdahUpsert is a partial payload for creating or updating a DDAH.
type DdahUpsert struct {
	ID           *int         `json:"id,omitempty"`
	AssignmentID *int         `json:"assignment_id,omitempty"`
	Assignment   *Assignment  `json:"-"`
	Duties       []DutyUpsert `json:"duties,omitempty"`
}

// Flatten folds the nested assignment relation down to its id field.
func (u *DdahUpsert) Flatten() {
	if u.Assignment != nil && u.AssignmentID == nil {
		id := u.Assignment.ID
		u.AssignmentID = &id
	}
	u.Assignment = nil
}
