package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/submission-validator/internal/services"
)

type Routes struct {
	Verifier        services.CallerVerifier
	Validation      *ValidationHandler
	Sessions        *SessionHandler
	SubmissionTypes *SubmissionTypeHandler
}

// Register mounts the /api/v1 routes. Health is public; everything else
// requires a verified caller.
func Register(app *fiber.App, r Routes) {
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	secured := api.Group("", RequireCaller(r.Verifier))

	secured.Post("/validate-submission", r.Validation.HandleValidate)
	secured.Get("/submission-types", r.SubmissionTypes.HandleList)

	sessions := secured.Group("/sessions")
	sessions.Post("/", r.Sessions.HandleCreate)
	sessions.Get("/:id", r.Sessions.HandleGet)
	sessions.Put("/:id/file", r.Sessions.HandleSelectFile)
	sessions.Put("/:id/category", r.Sessions.HandleSelectCategory)
	sessions.Post("/:id/back", r.Sessions.HandleBack)
	sessions.Post("/:id/validate", r.Sessions.HandleValidate)
	sessions.Post("/:id/reset", r.Sessions.HandleReset)
}
