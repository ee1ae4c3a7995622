package models

// Position is a course posting TAs can be assigned to. InstructorIDs and
// ContractTemplateID are foreign keys resolved by the view layer.
type Position struct {
	ID                 int      `json:"id"`
	PositionCode       string   `json:"position_code"`
	PositionTitle      string   `json:"position_title"`
	HoursPerAssignment *float64 `json:"hours_per_assignment,omitempty"`
	StartDate          *string  `json:"start_date,omitempty"`
	EndDate            *string  `json:"end_date,omitempty"`
	Duties             *string  `json:"duties,omitempty"`
	Qualifications     *string  `json:"qualifications,omitempty"`
	DesiredNumAssigned *int     `json:"desired_num_assignments,omitempty"`
	CurrentEnrollment  *int     `json:"current_enrollment,omitempty"`
	CurrentWaitlisted  *int     `json:"current_waitlisted,omitempty"`
	InstructorIDs      []int    `json:"instructor_ids"`
	ContractTemplateID int      `json:"contract_template_id"`
}

// PositionUpsert is a partial payload for creating or updating a position.
// Relation objects, when present, are flattened to their id fields before
// transmission.
type PositionUpsert struct {
	ID                 *int              `json:"id,omitempty"`
	PositionCode       *string           `json:"position_code,omitempty" validate:"omitempty,min=1"`
	PositionTitle      *string           `json:"position_title,omitempty"`
	HoursPerAssignment *float64          `json:"hours_per_assignment,omitempty" validate:"omitempty,gte=0"`
	StartDate          *string           `json:"start_date,omitempty"`
	EndDate            *string           `json:"end_date,omitempty"`
	Duties             *string           `json:"duties,omitempty"`
	Qualifications     *string           `json:"qualifications,omitempty"`
	DesiredNumAssigned *int              `json:"desired_num_assignments,omitempty"`
	CurrentEnrollment  *int              `json:"current_enrollment,omitempty"`
	CurrentWaitlisted  *int              `json:"current_waitlisted,omitempty"`
	InstructorIDs      []int             `json:"instructor_ids,omitempty"`
	Instructors        []Instructor      `json:"-"`
	ContractTemplateID *int              `json:"contract_template_id,omitempty"`
	ContractTemplate   *ContractTemplate `json:"-"`
}

// Flatten folds nested relation objects down to their id fields. Absent
// relations pass through untouched.
func (u *PositionUpsert) Flatten() {
	if len(u.Instructors) > 0 && u.InstructorIDs == nil {
		ids := make([]int, 0, len(u.Instructors))
		for _, inst := range u.Instructors {
			ids = append(ids, inst.ID)
		}
		u.InstructorIDs = ids
	}
	u.Instructors = nil
	if u.ContractTemplate != nil && u.ContractTemplateID == nil {
		id := u.ContractTemplate.ID
		u.ContractTemplateID = &id
	}
	u.ContractTemplate = nil
}
