package handlers

import (
	"context"
	"encoding/json"
	"time"

	"slam-scoring-system/models"
	"slam-scoring-system/services"
	"slam-scoring-system/utils"

	"github.com/gofiber/fiber/v2"
)

// ResultsArchive stores a JSON document and returns its public URL.
type ResultsArchive interface {
	PutJSON(ctx context.Context, key string, body []byte) (string, error)
}

type RoomHandler struct {
	Rooms   *services.RoomService
	Rounds  *services.RoundService
	Archive ResultsArchive // nil when no archive storage is configured
}

func SetupRoomRoutes(r fiber.Router, h *RoomHandler) {
	r.Get("/room", h.ListRooms)
	r.Post("/room", h.CreateRoom)
	r.Get("/room/:id", h.GetRoom)
	r.Patch("/room/:id", h.UpdateRoom)
	r.Delete("/room/:id", h.DeleteRoom)

	r.Get("/room/:id/current-round", h.GetCurrentRound)
	r.Post("/room/:id/advance", h.AdvanceRoom)
	r.Get("/room/:id/standings", h.GetStandings)
	r.Post("/room/:id/archive", h.ArchiveStandings)
}

func (h *RoomHandler) ListRooms(c *fiber.Ctx) error {
	rooms, err := h.Rooms.ListRooms(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(rooms)
}

func (h *RoomHandler) CreateRoom(c *fiber.Ctx) error {
	var req models.RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON")
	}
	room, err := h.Rooms.CreateRoom(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(room)
}

func (h *RoomHandler) GetRoom(c *fiber.Ctx) error {
	detail, err := h.Rooms.GetRoomDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

func (h *RoomHandler) UpdateRoom(c *fiber.Ctx) error {
	var req models.RoomUpdate
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON")
	}
	n, err := h.Rooms.UpdateRoom(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"updated": n})
}

func (h *RoomHandler) DeleteRoom(c *fiber.Ctx) error {
	participants, err := h.Rooms.DeleteRoom(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deleted": 1, "participants_deleted": participants})
}

func (h *RoomHandler) GetCurrentRound(c *fiber.Ctx) error {
	detail, err := h.Rooms.GetCurrentRound(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

// AdvanceRoom resolves the ordered participant ids and starts the next round.
func (h *RoomHandler) AdvanceRoom(c *fiber.Ctx) error {
	var req models.AdvanceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON")
	}
	ctx := c.UserContext()
	ordered, err := h.Rounds.ResolveParticipants(ctx, req.ParticipantIDs)
	if err != nil {
		return err
	}
	round, err := h.Rounds.AdvanceRoom(ctx, c.Params("id"), ordered)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(round)
}

func (h *RoomHandler) GetStandings(c *fiber.Ctx) error {
	standings, err := h.Rooms.Standings(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(standings)
}

// ArchiveStandings uploads the current standings snapshot and returns its URL.
func (h *RoomHandler) ArchiveStandings(c *fiber.Ctx) error {
	if h.Archive == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "archive storage not configured")
	}
	ctx := c.UserContext()
	standings, err := h.Rooms.Standings(ctx, c.Params("id"))
	if err != nil {
		return err
	}
	body, err := json.Marshal(standings)
	if err != nil {
		return err
	}
	key := utils.ArchiveKey(standings.Room.Name, standings.Room.ID, standings.GeneratedAt)

	uploadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	url, err := h.Archive.PutJSON(uploadCtx, key, body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"key": key, "url": url})
}
