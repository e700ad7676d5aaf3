package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/submission-validator/internal/models"
	"alfredoptarigan/submission-validator/internal/services"
)

// ConfidenceHeader tells callers whether the report came from the analyzer
// or from the local fallback.
const ConfidenceHeader = "X-Validation-Confidence"

type ValidationHandler struct {
	validator services.ValidatorService
}

func NewValidationHandler(validator services.ValidatorService) *ValidationHandler {
	return &ValidationHandler{validator: validator}
}

// HandleValidate handles POST /validate-submission
func (h *ValidationHandler) HandleValidate(c *fiber.Ctx) error {
	var req models.ValidateSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid request payload",
		})
	}

	result, err := h.validator.Validate(c.UserContext(), models.ValidationRequest{
		FileName:         req.FileName,
		MimeType:         req.FileType,
		SizeBytes:        req.FileSize,
		DeclaredCategory: req.SubmissionType,
		ContentExcerpt:   req.FileContent,
	})
	if err != nil {
		return writeError(c, err)
	}

	c.Set(ConfidenceHeader, string(result.Confidence))
	return c.JSON(result.Report)
}
