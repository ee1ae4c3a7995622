package models

// InstructorPreference records an instructor's ranking of an application for
// one of their positions. It is keyed by the (application, position) pair,
// not a synthetic id.
type InstructorPreference struct {
	ApplicationID   int     `json:"application_id"`
	PositionID      int     `json:"position_id"`
	PreferenceLevel int     `json:"preference_level"`
	Comment         *string `json:"comment,omitempty"`
}

// PreferenceKey identifies an instructor preference.
type PreferenceKey struct {
	ApplicationID int
	PositionID    int
}

// Key returns the composite identity of the preference.
func (p InstructorPreference) Key() PreferenceKey {
	return PreferenceKey{ApplicationID: p.ApplicationID, PositionID: p.PositionID}
}
