package models

import (
	"time"
)

// Room is one scored event. CurrentRoundID is only ever written by round advancement.
type Room struct {
	ID                     string    `json:"id" gorm:"primaryKey"`
	Name                   string    `json:"name" gorm:"not null"`
	CreatedAt              time.Time `json:"created_at" gorm:"not null;index"`
	CurrentRoundID         *string   `json:"current_round_id,omitempty"`
	CurrentParticipationID *string   `json:"current_participation_id,omitempty"`
}

// RoomUpdate carries only the fields a caller wants to change.
type RoomUpdate struct {
	Name *string `json:"name,omitempty"`
}

// RoomRequest is the body of POST /data/room
type RoomRequest struct {
	Name string `json:"name"`
}

// RoomDetail is the composite read view of a room
type RoomDetail struct {
	Room         Room          `json:"room"`
	Participants []Participant `json:"participants"`
	Rounds       []Round       `json:"rounds"`
}
