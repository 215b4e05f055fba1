package models

import (
	"time"
)

// Standings is the per-round result table of a room
type Standings struct {
	Room        Room             `json:"room"`
	Rounds      []RoundStandings `json:"rounds"`
	GeneratedAt time.Time        `json:"generated_at"`
}

type RoundStandings struct {
	Round   Round           `json:"round"`
	Entries []StandingEntry `json:"entries"`
}

// StandingEntry.Net is Score minus Deduction, absent until the participation is scored
type StandingEntry struct {
	ParticipationID  string   `json:"participation_id"`
	ParticipantID    string   `json:"participant_id"`
	ParticipantName  string   `json:"participant_name,omitempty"`
	PerformanceOrder int      `json:"performance_order"`
	Score            *float64 `json:"score,omitempty"`
	Deduction        *float64 `json:"deduction,omitempty"`
	Net              *float64 `json:"net,omitempty"`
}
