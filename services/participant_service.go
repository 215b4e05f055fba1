package services

import (
	"context"
	"log/slog"

	"slam-scoring-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ParticipantService enforces participant identity rules.
//
// Name uniqueness is checked across every room, not per room. That is the
// behavior organizers rely on today; narrowing it needs a product decision.
type ParticipantService struct {
	DB    *gorm.DB
	names *keyedLocks
}

func NewParticipantService(db *gorm.DB) *ParticipantService {
	return &ParticipantService{DB: db, names: newKeyedLocks()}
}

// CreateParticipant fails with ErrConflict when the name is taken and with
// ErrNotFound when the room does not exist. Nothing is inserted in either case.
func (s *ParticipantService) CreateParticipant(ctx context.Context, name string, pronouns *string, roomID string) (*models.Participant, error) {
	name, err := requireName("participant", name)
	if err != nil {
		return nil, err
	}
	if err := requireID("room", roomID); err != nil {
		return nil, err
	}

	unlock := s.names.Lock(name)
	defer unlock()

	participant := &models.Participant{
		ID:       uuid.NewString(),
		Name:     name,
		Pronouns: pronouns,
		RoomID:   roomID,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.Participant{}).Where("name = ?", name).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return conflict("participant name %q is already taken", name)
		}
		if err := tx.Select("id").First(&models.Room{}, "id = ?", roomID).Error; err != nil {
			return err
		}
		return tx.Create(participant).Error
	})
	if err != nil {
		return nil, storeErr("room "+roomID, err)
	}
	slog.Info("participant created", "participant_id", participant.ID, "room_id", roomID)
	return participant, nil
}

func (s *ParticipantService) GetParticipant(ctx context.Context, id string) (*models.Participant, error) {
	var p models.Participant
	if err := s.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, storeErr("participant "+id, err)
	}
	return &p, nil
}

// UpdateParticipant applies the present fields of u. Renames are not checked
// for uniqueness.
func (s *ParticipantService) UpdateParticipant(ctx context.Context, id string, u models.ParticipantUpdate) (int64, error) {
	updates := map[string]any{}
	if u.Name != nil {
		name, err := requireName("participant", *u.Name)
		if err != nil {
			return 0, err
		}
		updates["name"] = name
	}
	if u.Pronouns != nil {
		updates["pronouns"] = *u.Pronouns
	}

	var updated int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Participant{}, "id = ?", id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		res := tx.Model(&models.Participant{}).Where("id = ?", id).Updates(updates)
		updated = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, storeErr("participant "+id, err)
	}
	return updated, nil
}

// DeleteParticipant removes only the participant row.
func (s *ParticipantService) DeleteParticipant(ctx context.Context, id string) (int64, error) {
	res := s.DB.WithContext(ctx).Delete(&models.Participant{}, "id = ?", id)
	if res.Error != nil {
		return 0, storeErr("delete participant "+id, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, notFound("participant", id)
	}
	return res.RowsAffected, nil
}

// ListParticipants returns every participant, or those of one room when roomID is set.
func (s *ParticipantService) ListParticipants(ctx context.Context, roomID *string) ([]models.Participant, error) {
	participants := []models.Participant{}
	q := s.DB.WithContext(ctx).Order("name ASC")
	if roomID != nil {
		q = q.Where("room_id = ?", *roomID)
	}
	if err := q.Find(&participants).Error; err != nil {
		return nil, storeErr("list participants", err)
	}
	return participants, nil
}
