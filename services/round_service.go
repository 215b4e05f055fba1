package services

import (
	"context"
	"errors"
	"log/slog"

	"slam-scoring-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoundService advances rooms from round to round.
type RoundService struct {
	DB      *gorm.DB
	Live    Publisher
	Metrics *Metrics
	rooms   *keyedLocks
}

func NewRoundService(db *gorm.DB, live Publisher, metrics *Metrics) *RoundService {
	return &RoundService{DB: db, Live: live, Metrics: metrics, rooms: newKeyedLocks()}
}

// AdvanceRoom creates the room's next round with one participation per entry
// of ordered, in that order, and makes it the room's current round. The list
// is trusted as given: no dedup, no membership check.
//
// Round, participations and the room pointer are written in one transaction.
// Advancement of a single room is serialized in-process and by a row lock on
// the room; the (room_id, round_number) unique index rejects anything that
// slips past both.
func (s *RoundService) AdvanceRoom(ctx context.Context, roomID string, ordered []models.Participant) (*models.Round, error) {
	if err := requireID("room", roomID); err != nil {
		return nil, err
	}

	unlock := s.rooms.Lock(roomID)
	defer unlock()

	var round *models.Round
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, "id = ?", roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("room", roomID)
			}
			return err
		}

		next, err := nextRoundNumber(tx, roomID)
		if err != nil {
			return err
		}

		round = &models.Round{
			ID:          uuid.NewString(),
			RoundNumber: next,
			RoomID:      roomID,
		}
		if err := tx.Create(round).Error; err != nil {
			return err
		}

		if len(ordered) > 0 {
			participations := make([]models.Participation, len(ordered))
			for i, p := range ordered {
				participations[i] = models.Participation{
					ID:               uuid.NewString(),
					RoundID:          round.ID,
					ParticipantID:    p.ID,
					PerformanceOrder: i,
				}
			}
			if err := tx.Create(&participations).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Room{}).Where("id = ?", roomID).Update("current_round_id", round.ID).Error
	})
	if err != nil {
		return nil, storeErr("advance room "+roomID, err)
	}

	s.Metrics.roundAdvanced()
	slog.Info("room advanced", "room_id", roomID, "round_id", round.ID, "round_number", round.RoundNumber, "participations", len(ordered))
	publish(s.Live, models.LiveEvent{Type: models.EventRoundAdvanced, RoomID: roomID, Payload: round})
	return round, nil
}

// nextRoundNumber orders by round_number explicitly; storage order is never trusted.
func nextRoundNumber(tx *gorm.DB, roomID string) (int, error) {
	var latest models.Round
	err := tx.Where("room_id = ?", roomID).Order("round_number DESC").Limit(1).Take(&latest).Error
	switch {
	case err == nil:
		return latest.RoundNumber + 1, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return 1, nil
	default:
		return 0, err
	}
}

// ResolveParticipants loads participants by id and returns them in the order
// given, repeats included. Any unknown id fails the whole call.
func (s *RoundService) ResolveParticipants(ctx context.Context, ids []string) ([]models.Participant, error) {
	if len(ids) == 0 {
		return []models.Participant{}, nil
	}
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if err := requireID("participant", id); err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	var found []models.Participant
	if err := s.DB.WithContext(ctx).Where("id IN ?", unique).Find(&found).Error; err != nil {
		return nil, storeErr("resolve participants", err)
	}
	byID := make(map[string]models.Participant, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	ordered := make([]models.Participant, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, notFound("participant", id)
		}
		ordered = append(ordered, p)
	}
	return ordered, nil
}

// GetRoundDetail returns the round with participations sorted by performance order.
func (s *RoundService) GetRoundDetail(ctx context.Context, roundID string) (*models.RoundDetail, error) {
	return loadRoundDetail(s.DB.WithContext(ctx), roundID)
}

func loadRoundDetail(db *gorm.DB, roundID string) (*models.RoundDetail, error) {
	var round models.Round
	if err := db.First(&round, "id = ?", roundID).Error; err != nil {
		return nil, storeErr("round "+roundID, err)
	}

	var participations []models.Participation
	if err := db.Where("round_id = ?", roundID).Order("performance_order ASC").Find(&participations).Error; err != nil {
		return nil, storeErr("participations of round "+roundID, err)
	}

	ids := make([]string, 0, len(participations))
	for _, p := range participations {
		ids = append(ids, p.ParticipantID)
	}
	byID := map[string]*models.Participant{}
	if len(ids) > 0 {
		var participants []models.Participant
		if err := db.Where("id IN ?", ids).Find(&participants).Error; err != nil {
			return nil, storeErr("participants of round "+roundID, err)
		}
		for i := range participants {
			byID[participants[i].ID] = &participants[i]
		}
	}

	detail := &models.RoundDetail{Round: round, Participations: make([]models.ParticipationDetail, 0, len(participations))}
	for _, p := range participations {
		detail.Participations = append(detail.Participations, models.ParticipationDetail{
			Participation: p,
			Participant:   byID[p.ParticipantID],
		})
	}
	return detail, nil
}
