package models

import (
	"time"
)

// Live event types published after a write commits
const (
	EventRoundAdvanced       = "round.advanced"
	EventScoreRecorded       = "score.recorded"
	EventParticipationScored = "participation.scored"
	EventParticipationTimed  = "participation.timed"
)

// LiveEvent is the JSON text message pushed to live listeners
type LiveEvent struct {
	Type    string    `json:"type"`
	RoomID  string    `json:"room_id,omitempty"`
	Payload any       `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}
