package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/submission-validator/internal/models"
	"alfredoptarigan/submission-validator/internal/repositories"
	"alfredoptarigan/submission-validator/internal/services"
	"alfredoptarigan/submission-validator/internal/wizard"
)

// writeError maps domain errors to HTTP statuses. Anything unrecognized is
// a 500.
func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := err.Error()

	var aerr *services.AnalyzerError
	switch {
	case errors.As(err, &aerr):
		message = aerr.Message
		switch aerr.Kind {
		case services.KindRateLimited:
			status = fiber.StatusTooManyRequests
		case services.KindPaymentRequired:
			status = fiber.StatusPaymentRequired
		}
	case errors.Is(err, services.ErrUnauthorized):
		status = fiber.StatusUnauthorized
		message = "Unauthorized"
	case errors.Is(err, services.ErrInvalidRequest), errors.Is(err, wizard.ErrInvalidFile), errors.Is(err, wizard.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, repositories.ErrSessionNotFound):
		status = fiber.StatusNotFound
		message = "Session not found"
	case errors.Is(err, wizard.ErrInvalidTransition), errors.Is(err, wizard.ErrValidationInFlight):
		status = fiber.StatusConflict
	}

	return c.Status(status).JSON(models.ErrorResponse{Error: message})
}
