package models

import (
	"time"
)

// Round is one numbered heat of a room. Immutable once created.
type Round struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	RoundNumber int       `json:"round_number" gorm:"not null;uniqueIndex:idx_rounds_room_number"`
	RoomID      string    `json:"room_id" gorm:"not null;index;uniqueIndex:idx_rounds_room_number"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Participation is one participant's slot in one round.
// PerformanceOrder is the zero-based position supplied when the round was created.
type Participation struct {
	ID                         string   `json:"id" gorm:"primaryKey"`
	RoundID                    string   `json:"round_id" gorm:"not null;index;uniqueIndex:idx_participations_round_order"`
	ParticipantID              string   `json:"participant_id" gorm:"not null;index"`
	PerformanceOrder           int      `json:"performance_order" gorm:"not null;uniqueIndex:idx_participations_round_order"`
	PerformanceLengthInSeconds *int     `json:"performance_length_in_seconds,omitempty"`
	PerformanceNotes           *string  `json:"performance_notes,omitempty"`
	Deduction                  *float64 `json:"deduction,omitempty"`
	Score                      *float64 `json:"score,omitempty"`
}

// ParticipationDetail is a participation joined with its participant.
// Participant is nil when the participant has since been deleted.
type ParticipationDetail struct {
	Participation
	Participant *Participant `json:"participant"`
}

// RoundDetail is a round with its participations in performance order
type RoundDetail struct {
	Round          Round                 `json:"round"`
	Participations []ParticipationDetail `json:"participations"`
}

// AdvanceRequest is the body of POST /data/room/:id/advance
type AdvanceRequest struct {
	ParticipantIDs []string `json:"participant_ids"`
}

// TimingUpdate carries only the timing fields a caller wants to change
type TimingUpdate struct {
	PerformanceLengthInSeconds *int    `json:"performance_length_in_seconds,omitempty"`
	PerformanceNotes           *string `json:"performance_notes,omitempty"`
}

// TimingResult reports a timing update and the deduction now stored
type TimingResult struct {
	Updated   int64    `json:"updated"`
	Deduction *float64 `json:"deduction"`
}
