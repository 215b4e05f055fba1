package handlers

import (
	"slam-scoring-system/models"
	"slam-scoring-system/services"

	"github.com/gofiber/fiber/v2"
)

type ScoreHandler struct {
	Scores *services.ScoreService
}

func SetupScoreRoutes(r fiber.Router, h *ScoreHandler) {
	r.Get("/score", h.ListScores)
	r.Post("/score", h.SubmitScore)
}

// ListScores handles GET /data/score?participation_id=
func (h *ScoreHandler) ListScores(c *fiber.Ctx) error {
	var participationID *string
	if v := c.Query("participation_id"); v != "" {
		participationID = &v
	}
	scores, err := h.Scores.ListScores(c.UserContext(), participationID)
	if err != nil {
		return err
	}
	return c.JSON(scores)
}

func (h *ScoreHandler) SubmitScore(c *fiber.Ctx) error {
	var req models.ScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON")
	}
	if req.ParticipationID == "" || req.Value == nil {
		return fiber.NewError(fiber.StatusBadRequest, "participation_id and value are required")
	}
	score, err := h.Scores.RecordScore(c.UserContext(), services.ScoreInput{
		ParticipationID: req.ParticipationID,
		Value:           *req.Value,
		SubmitterID:     req.SubmitterID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(score)
}
