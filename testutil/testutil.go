// Package testutil opens throwaway databases and seeds fixtures for tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"slam-scoring-system/config"
	"slam-scoring-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SetupTestDB opens a fresh SQLite database in the test's temp dir with the
// full schema migrated. It is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.OpenDatabase(config.Database{
		Driver: config.DriverSQLite,
		URL:    filepath.Join(t.TempDir(), "slam.db"),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateTestRoom inserts a room created at the given time.
func CreateTestRoom(t *testing.T, db *gorm.DB, name string, createdAt time.Time) models.Room {
	t.Helper()

	room := models.Room{ID: uuid.NewString(), Name: name, CreatedAt: createdAt.UTC()}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("Failed to create test room: %v", err)
	}
	return room
}

// CreateTestParticipant inserts a participant into roomID.
func CreateTestParticipant(t *testing.T, db *gorm.DB, roomID, name string) models.Participant {
	t.Helper()

	p := models.Participant{ID: uuid.NewString(), Name: name, RoomID: roomID}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("Failed to create test participant: %v", err)
	}
	return p
}

// CreateTestRound inserts a round with one participation per participant id,
// in order. It does not move the room's current round.
func CreateTestRound(t *testing.T, db *gorm.DB, roomID string, number int, participantIDs ...string) (models.Round, []models.Participation) {
	t.Helper()

	round := models.Round{ID: uuid.NewString(), RoomID: roomID, RoundNumber: number}
	if err := db.Create(&round).Error; err != nil {
		t.Fatalf("Failed to create test round: %v", err)
	}

	participations := make([]models.Participation, 0, len(participantIDs))
	for i, pid := range participantIDs {
		p := models.Participation{
			ID:               uuid.NewString(),
			RoundID:          round.ID,
			ParticipantID:    pid,
			PerformanceOrder: i,
		}
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("Failed to create test participation: %v", err)
		}
		participations = append(participations, p)
	}
	return round, participations
}

// AddTestScores writes raw scores straight to the store, skipping aggregation.
func AddTestScores(t *testing.T, db *gorm.DB, participationID string, values ...float64) {
	t.Helper()

	for _, v := range values {
		s := models.Score{ID: uuid.NewString(), ParticipationID: participationID, Value: v}
		if err := db.Create(&s).Error; err != nil {
			t.Fatalf("Failed to create test score: %v", err)
		}
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
