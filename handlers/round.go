package handlers

import (
	"slam-scoring-system/models"
	"slam-scoring-system/services"

	"github.com/gofiber/fiber/v2"
)

type RoundHandler struct {
	Rounds *services.RoundService
	Scores *services.ScoreService
}

func SetupRoundRoutes(r fiber.Router, h *RoundHandler) {
	r.Get("/round/:id", h.GetRound)
	r.Patch("/participation/:id", h.UpdateTiming)
}

func (h *RoundHandler) GetRound(c *fiber.Ctx) error {
	detail, err := h.Rounds.GetRoundDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

// UpdateTiming handles PATCH /data/participation/:id
func (h *RoundHandler) UpdateTiming(c *fiber.Ctx) error {
	var req models.TimingUpdate
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON")
	}
	result, err := h.Scores.RecordTiming(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
