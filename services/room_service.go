package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"slam-scoring-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecentRoomsLimit caps ListRooms.
const RecentRoomsLimit = 10

type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

// ListRooms returns the most recently created rooms, newest first.
func (s *RoomService) ListRooms(ctx context.Context) ([]models.Room, error) {
	rooms := []models.Room{}
	err := s.DB.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(RecentRoomsLimit).
		Find(&rooms).Error
	if err != nil {
		return nil, storeErr("list rooms", err)
	}
	return rooms, nil
}

func (s *RoomService) CreateRoom(ctx context.Context, name string) (*models.Room, error) {
	name, err := requireName("room", name)
	if err != nil {
		return nil, err
	}
	room := &models.Room{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.DB.WithContext(ctx).Create(room).Error; err != nil {
		return nil, storeErr("create room", err)
	}
	slog.Info("room created", "room_id", room.ID)
	return room, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, storeErr("room "+id, err)
	}
	return &room, nil
}

// GetRoomDetail returns the room with its participants and its rounds in round order.
func (s *RoomService) GetRoomDetail(ctx context.Context, id string) (*models.RoomDetail, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &models.RoomDetail{Room: *room, Participants: []models.Participant{}, Rounds: []models.Round{}}
	db := s.DB.WithContext(ctx)
	if err := db.Where("room_id = ?", id).Order("name ASC").Find(&detail.Participants).Error; err != nil {
		return nil, storeErr("participants of room "+id, err)
	}
	if err := db.Where("room_id = ?", id).Order("round_number ASC").Find(&detail.Rounds).Error; err != nil {
		return nil, storeErr("rounds of room "+id, err)
	}
	return detail, nil
}

// UpdateRoom applies the present fields of u and returns the number of rooms changed.
func (s *RoomService) UpdateRoom(ctx context.Context, id string, u models.RoomUpdate) (int64, error) {
	updates := map[string]any{}
	if u.Name != nil {
		name, err := requireName("room", *u.Name)
		if err != nil {
			return 0, err
		}
		updates["name"] = name
	}

	var updated int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Room{}, "id = ?", id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		res := tx.Model(&models.Room{}).Where("id = ?", id).Updates(updates)
		updated = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, storeErr("room "+id, err)
	}
	return updated, nil
}

// DeleteRoom removes the room and its participants together and returns the
// number of participants removed. Rounds, participations and scores stay as history.
func (s *RoomService) DeleteRoom(ctx context.Context, id string) (int64, error) {
	var participants int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Room{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound("room", id)
		}
		res = tx.Where("room_id = ?", id).Delete(&models.Participant{})
		participants = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, storeErr("delete room "+id, err)
	}
	slog.Info("room deleted", "room_id", id, "participants_deleted", participants)
	return participants, nil
}

// GetCurrentRound resolves the room's current round. A room that was never
// advanced yields ErrNoCurrentRound.
func (s *RoomService) GetCurrentRound(ctx context.Context, roomID string) (*models.RoundDetail, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.CurrentRoundID == nil {
		return nil, ErrNoCurrentRound
	}
	return loadRoundDetail(s.DB.WithContext(ctx), *room.CurrentRoundID)
}

// Standings builds the result table for every round of the room. Scored
// entries are ranked by net score, unscored ones follow in performance order.
func (s *RoomService) Standings(ctx context.Context, roomID string) (*models.Standings, error) {
	detail, err := s.GetRoomDetail(ctx, roomID)
	if err != nil {
		return nil, err
	}
	out := &models.Standings{
		Room:        detail.Room,
		Rounds:      make([]models.RoundStandings, 0, len(detail.Rounds)),
		GeneratedAt: time.Now().UTC(),
	}
	db := s.DB.WithContext(ctx)
	for _, round := range detail.Rounds {
		rd, err := loadRoundDetail(db, round.ID)
		if err != nil {
			return nil, err
		}
		entries := make([]models.StandingEntry, 0, len(rd.Participations))
		for _, p := range rd.Participations {
			e := models.StandingEntry{
				ParticipationID:  p.ID,
				ParticipantID:    p.ParticipantID,
				PerformanceOrder: p.PerformanceOrder,
				Score:            p.Score,
				Deduction:        p.Deduction,
			}
			if p.Participant != nil {
				e.ParticipantName = p.Participant.Name
			}
			if p.Score != nil {
				net := *p.Score
				if p.Deduction != nil {
					net -= *p.Deduction
				}
				e.Net = &net
			}
			entries = append(entries, e)
		}
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i], entries[j]
			if (a.Net == nil) != (b.Net == nil) {
				return a.Net != nil
			}
			if a.Net != nil && *a.Net != *b.Net {
				return *a.Net > *b.Net
			}
			return a.PerformanceOrder < b.PerformanceOrder
		})
		out.Rounds = append(out.Rounds, models.RoundStandings{Round: round, Entries: entries})
	}
	return out, nil
}
