package services

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"slam-scoring-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScoreService records judge scores and timing for participations and keeps
// each participation's aggregated score.
type ScoreService struct {
	DB             *gorm.DB
	Live           Publisher
	Metrics        *Metrics
	participations *keyedLocks
}

func NewScoreService(db *gorm.DB, live Publisher, metrics *Metrics) *ScoreService {
	return &ScoreService{DB: db, Live: live, Metrics: metrics, participations: newKeyedLocks()}
}

// ScoreInput is one judge submission
type ScoreInput struct {
	ParticipationID string
	Value           float64
	SubmitterID     *string
}

// RecordScore persists the score unconditionally. When the participation's
// score count becomes exactly AggregationThreshold its final score is set to
// the trimmed sum; later submissions never touch it again.
func (s *ScoreService) RecordScore(ctx context.Context, in ScoreInput) (*models.Score, error) {
	if err := requireID("participation", in.ParticipationID); err != nil {
		return nil, err
	}
	if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) {
		return nil, invalid("score value must be a finite number")
	}

	unlock := s.participations.Lock(in.ParticipationID)
	defer unlock()

	score := &models.Score{
		ID:              uuid.NewString(),
		ParticipationID: in.ParticipationID,
		SubmitterID:     in.SubmitterID,
		Value:           in.Value,
	}
	var (
		participation models.Participation
		aggregated    *float64
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockParticipation(tx, in.ParticipationID, &participation); err != nil {
			return err
		}
		if err := tx.Create(score).Error; err != nil {
			return err
		}
		var err error
		aggregated, err = aggregate(tx, in.ParticipationID)
		return err
	})
	if err != nil {
		return nil, storeErr("record score for participation "+in.ParticipationID, err)
	}

	s.Metrics.scoreRecorded()
	roomID := s.roomOf(ctx, participation.RoundID)
	publish(s.Live, models.LiveEvent{Type: models.EventScoreRecorded, RoomID: roomID, Payload: score})
	if aggregated != nil {
		s.scored(roomID, in.ParticipationID, *aggregated)
	}
	return score, nil
}

// ReconcilePending aggregates participations that hold exactly
// AggregationThreshold scores but no final score, e.g. rows written to the
// store directly. It returns how many participations were scored.
func (s *ScoreService) ReconcilePending(ctx context.Context) (int, error) {
	var ids []string
	err := s.DB.WithContext(ctx).
		Model(&models.Score{}).
		Joins("JOIN participations ON participations.id = scores.participation_id").
		Where("participations.score IS NULL").
		Group("scores.participation_id").
		Having("COUNT(*) = ?", AggregationThreshold).
		Pluck("scores.participation_id", &ids).Error
	if err != nil {
		return 0, storeErr("find pending participations", err)
	}

	scored := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return scored, err
		}
		ok, err := s.reconcile(ctx, id)
		if err != nil {
			return scored, err
		}
		if ok {
			scored++
		}
	}
	return scored, nil
}

func (s *ScoreService) reconcile(ctx context.Context, participationID string) (bool, error) {
	unlock := s.participations.Lock(participationID)
	defer unlock()

	var (
		participation models.Participation
		aggregated    *float64
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockParticipation(tx, participationID, &participation); err != nil {
			return err
		}
		var err error
		aggregated, err = aggregate(tx, participationID)
		return err
	})
	if err != nil {
		return false, storeErr("reconcile participation "+participationID, err)
	}
	if aggregated == nil {
		return false, nil
	}
	s.scored(s.roomOf(ctx, participation.RoundID), participationID, *aggregated)
	return true, nil
}

// RecordTiming stores the performance length and notes that are present in u.
// A new length always recomputes the deduction, clearing it when the
// performance is within the limit. The score is never touched.
func (s *ScoreService) RecordTiming(ctx context.Context, participationID string, u models.TimingUpdate) (*models.TimingResult, error) {
	if err := requireID("participation", participationID); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if u.PerformanceNotes != nil {
		updates["performance_notes"] = *u.PerformanceNotes
	}
	if u.PerformanceLengthInSeconds != nil {
		length := *u.PerformanceLengthInSeconds
		if length < 0 {
			return nil, invalid("performance length must not be negative")
		}
		updates["performance_length_in_seconds"] = length
		if d := TimeDeduction(length); d != nil {
			updates["deduction"] = *d
		} else {
			updates["deduction"] = nil
		}
	}

	result := &models.TimingResult{}
	var participation models.Participation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&participation, "id = ?", participationID).Error; err != nil {
			return err
		}
		if len(updates) > 0 {
			res := tx.Model(&models.Participation{}).Where("id = ?", participationID).Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			result.Updated = res.RowsAffected
		}
		return tx.First(&participation, "id = ?", participationID).Error
	})
	if err != nil {
		return nil, storeErr("participation "+participationID, err)
	}
	result.Deduction = participation.Deduction

	if result.Updated > 0 {
		publish(s.Live, models.LiveEvent{
			Type:    models.EventParticipationTimed,
			RoomID:  s.roomOf(ctx, participation.RoundID),
			Payload: participation,
		})
	}
	return result, nil
}

// ListScores returns every score, or those of one participation, lowest value first.
func (s *ScoreService) ListScores(ctx context.Context, participationID *string) ([]models.Score, error) {
	scores := []models.Score{}
	q := s.DB.WithContext(ctx).Order("value ASC").Order("created_at ASC").Order("id ASC")
	if participationID != nil {
		q = q.Where("participation_id = ?", *participationID)
	}
	if err := q.Find(&scores).Error; err != nil {
		return nil, storeErr("list scores", err)
	}
	return scores, nil
}

func (s *ScoreService) scored(roomID, participationID string, total float64) {
	s.Metrics.participationScored()
	slog.Info("participation scored", "participation_id", participationID, "score", total)
	publish(s.Live, models.LiveEvent{
		Type:   models.EventParticipationScored,
		RoomID: roomID,
		Payload: map[string]any{
			"participation_id": participationID,
			"score":            total,
		},
	})
}

// roomOf is best effort; events still go out without a room id.
func (s *ScoreService) roomOf(ctx context.Context, roundID string) string {
	var round models.Round
	if err := s.DB.WithContext(ctx).Select("room_id").First(&round, "id = ?", roundID).Error; err != nil {
		return ""
	}
	return round.RoomID
}

func lockParticipation(tx *gorm.DB, id string, dest *models.Participation) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(dest, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("participation", id)
	}
	return err
}

// aggregate is the check-and-set step. It must run inside the transaction
// that holds the participation lock. It returns the stored total, or nil when
// the count is not exactly AggregationThreshold or a score was already set.
func aggregate(tx *gorm.DB, participationID string) (*float64, error) {
	var values []float64
	err := tx.Model(&models.Score{}).
		Where("participation_id = ?", participationID).
		Order("value ASC").
		Order("created_at ASC").
		Order("id ASC").
		Pluck("value", &values).Error
	if err != nil {
		return nil, err
	}
	total, ok := TrimmedSum(values)
	if !ok {
		return nil, nil
	}
	res := tx.Model(&models.Participation{}).
		Where("id = ? AND score IS NULL", participationID).
		Update("score", total)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &total, nil
}
