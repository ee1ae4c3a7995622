package models

// OfferStatus tracks the lifecycle of a contract offer.
type OfferStatus string

const (
	OfferStatusProvisional OfferStatus = "provisional"
	OfferStatusPending     OfferStatus = "pending"
	OfferStatusAccepted    OfferStatus = "accepted"
	OfferStatusRejected    OfferStatus = "rejected"
	OfferStatusWithdrawn   OfferStatus = "withdrawn"
)

// Offer is one row of an assignment's append-only contract log, enriched at
// read time with contract text and contact fields. Offers are never mutated;
// every verb appends a new row, and the active offer is the most recently
// created row for the assignment.
type Offer struct {
	ID                 int         `json:"id"`
	AssignmentID       int         `json:"assignment_id"`
	Status             OfferStatus `json:"status"`
	FirstName          string      `json:"first_name"`
	LastName           string      `json:"last_name"`
	Email              string      `json:"email"`
	PositionCode       string      `json:"position_code"`
	PositionTitle      string      `json:"position_title"`
	PositionStartDate  string      `json:"position_start_date"`
	PositionEndDate    string      `json:"position_end_date"`
	Hours              float64     `json:"hours"`
	PayPeriodDesc      *string     `json:"pay_period_desc,omitempty"`
	InstructorContact  *string     `json:"instructor_contact_desc,omitempty"`
	CoordinatorContact *string     `json:"ta_coordinator_email,omitempty"`
	EmailedDate        *string     `json:"emailed_date,omitempty"`
	AcceptedDate       *string     `json:"accepted_date,omitempty"`
	RejectedDate       *string     `json:"rejected_date,omitempty"`
	WithdrawnDate      *string     `json:"withdrawn_date,omitempty"`
	Signature          *string     `json:"signature,omitempty"`
	NagCount           int         `json:"nag_count"`
	URLToken           *string     `json:"url_token,omitempty"`
	CreatedAt          *string     `json:"created_at,omitempty"`
}
