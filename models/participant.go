package models

// Participant belongs to exactly one room. Deleting a participant leaves
// historical participations pointing at the stale id.
type Participant struct {
	ID       string  `json:"id" gorm:"primaryKey"`
	Name     string  `json:"name" gorm:"not null;index"`
	Pronouns *string `json:"pronouns,omitempty"`
	RoomID   string  `json:"room_id" gorm:"not null;index"`
}

// ParticipantUpdate carries only the fields a caller wants to change.
type ParticipantUpdate struct {
	Name     *string `json:"name,omitempty"`
	Pronouns *string `json:"pronouns,omitempty"`
}

// ParticipantRequest creates a participant when ID is absent, otherwise updates it.
type ParticipantRequest struct {
	ID       *string `json:"id,omitempty"`
	Name     *string `json:"name,omitempty"`
	Pronouns *string `json:"pronouns,omitempty"`
	RoomID   *string `json:"room_id,omitempty"`
}
