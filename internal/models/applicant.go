package models

// Applicant is a potential TA. The record itself is session-independent;
// session scoping happens through the fetch route.
type Applicant struct {
	ID            int     `json:"id"`
	UTORid        string  `json:"utorid"`
	StudentNumber string  `json:"student_number"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Email         string  `json:"email"`
	Phone         *string `json:"phone,omitempty"`
}

// ApplicantUpsert is a partial payload for creating or updating an applicant.
type ApplicantUpsert struct {
	ID            *int    `json:"id,omitempty"`
	UTORid        *string `json:"utorid,omitempty" validate:"omitempty,min=1"`
	StudentNumber *string `json:"student_number,omitempty"`
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string `json:"phone,omitempty"`
}
