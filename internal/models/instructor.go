package models

// Instructor teaches one or more positions.
type Instructor struct {
	ID        int    `json:"id"`
	UTORid    string `json:"utorid"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// InstructorUpsert is a partial payload for creating or updating an instructor.
type InstructorUpsert struct {
	ID        *int    `json:"id,omitempty"`
	UTORid    *string `json:"utorid,omitempty" validate:"omitempty,min=1"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
}
