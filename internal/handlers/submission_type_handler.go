package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/submission-validator/internal/services"
)

type SubmissionTypeHandler struct {
	registry *services.Registry
}

func NewSubmissionTypeHandler(registry *services.Registry) *SubmissionTypeHandler {
	return &SubmissionTypeHandler{registry: registry}
}

// HandleList handles GET /submission-types
func (h *SubmissionTypeHandler) HandleList(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"submissionTypes": h.registry.Profiles(),
	})
}
