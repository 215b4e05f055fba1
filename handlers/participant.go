package handlers

import (
	"slam-scoring-system/models"
	"slam-scoring-system/services"

	"github.com/gofiber/fiber/v2"
)

type ParticipantHandler struct {
	Participants *services.ParticipantService
}

func SetupParticipantRoutes(r fiber.Router, h *ParticipantHandler) {
	r.Get("/participant", h.ListParticipants)
	r.Post("/participant", h.SaveParticipant)
	r.Get("/participant/:id", h.GetParticipant)
	r.Delete("/participant/:id", h.DeleteParticipant)
}

// ListParticipants handles GET /data/participant?room_id=
func (h *ParticipantHandler) ListParticipants(c *fiber.Ctx) error {
	var roomID *string
	if v := c.Query("room_id"); v != "" {
		roomID = &v
	}
	participants, err := h.Participants.ListParticipants(c.UserContext(), roomID)
	if err != nil {
		return err
	}
	return c.JSON(participants)
}

// SaveParticipant updates when the body carries an id, otherwise creates.
// Creating requires both name and room_id.
func (h *ParticipantHandler) SaveParticipant(c *fiber.Ctx) error {
	var req models.ParticipantRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON")
	}
	ctx := c.UserContext()

	if req.ID != nil {
		n, err := h.Participants.UpdateParticipant(ctx, *req.ID, models.ParticipantUpdate{
			Name:     req.Name,
			Pronouns: req.Pronouns,
		})
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"updated": n})
	}

	if req.Name == nil || req.RoomID == nil {
		return fiber.NewError(fiber.StatusBadRequest, "name and room_id are required")
	}
	participant, err := h.Participants.CreateParticipant(ctx, *req.Name, req.Pronouns, *req.RoomID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(participant)
}

func (h *ParticipantHandler) GetParticipant(c *fiber.Ctx) error {
	p, err := h.Participants.GetParticipant(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *ParticipantHandler) DeleteParticipant(c *fiber.Ctx) error {
	n, err := h.Participants.DeleteParticipant(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deleted": n})
}
