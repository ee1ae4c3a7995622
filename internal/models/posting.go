package models

// Posting is a session-scoped job ad linked to positions.
type Posting struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	Intro              *string `json:"intro,omitempty"`
	OpenDate           *string `json:"open_date,omitempty"`
	CloseDate          *string `json:"close_date,omitempty"`
	OpenStatus         bool    `json:"open_status"`
	URLToken           *string `json:"url_token,omitempty"`
	PostingPositionIDs []int   `json:"posting_position_ids,omitempty"`
}

// PostingPosition links a posting to a position it advertises.
type PostingPosition struct {
	PostingID          int      `json:"posting_id"`
	PositionID         int      `json:"position_id"`
	Hours              *float64 `json:"hours,omitempty"`
	NumPositions       *int     `json:"num_positions,omitempty"`
}

// PostingPositionKey identifies a posting/position link.
type PostingPositionKey struct {
	PostingID  int
	PositionID int
}

// Key returns the composite identity of the link.
func (p PostingPosition) Key() PostingPositionKey {
	return PostingPositionKey{PostingID: p.PostingID, PositionID: p.PositionID}
}

// PostingUpsert is a partial payload for creating or updating a posting.
type PostingUpsert struct {
	ID         *int    `json:"id,omitempty"`
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Intro      *string `json:"intro,omitempty"`
	OpenDate   *string `json:"open_date,omitempty"`
	CloseDate  *string `json:"close_date,omitempty"`
	OpenStatus *bool   `json:"open_status,omitempty"`
}
