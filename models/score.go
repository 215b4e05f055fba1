package models

import (
	"time"
)

// Score is one raw judge score. A judge may submit more than once.
type Score struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	ParticipationID string    `json:"participation_id" gorm:"not null;index"`
	SubmitterID     *string   `json:"submitter_id,omitempty"`
	Value           float64   `json:"value" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// ScoreRequest is the body of POST /data/score
type ScoreRequest struct {
	ParticipationID string   `json:"participation_id"`
	Value           *float64 `json:"value"`
	SubmitterID     *string  `json:"submitter_id,omitempty"`
}
