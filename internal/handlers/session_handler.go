package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/submission-validator/internal/models"
	"alfredoptarigan/submission-validator/internal/services"
	"alfredoptarigan/submission-validator/internal/wizard"
)

type SessionHandler struct {
	sessions services.SessionService
}

func NewSessionHandler(sessions services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// HandleCreate handles POST /sessions
func (h *SessionHandler) HandleCreate(c *fiber.Ctx) error {
	session, err := h.sessions.Create(c.UserContext(), callerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// HandleGet handles GET /sessions/:id
func (h *SessionHandler) HandleGet(c *fiber.Ctx) error {
	session, err := h.sessions.Get(c.UserContext(), callerID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(session)
}

// HandleSelectFile handles PUT /sessions/:id/file
func (h *SessionHandler) HandleSelectFile(c *fiber.Ctx) error {
	var req models.SelectFileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid request payload",
		})
	}

	session, err := h.sessions.SelectFile(c.UserContext(), callerID(c), c.Params("id"), wizard.File{
		Name:           req.FileName,
		MimeType:       req.FileType,
		SizeBytes:      req.FileSize,
		ContentExcerpt: req.FileContent,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(session)
}

// HandleSelectCategory handles PUT /sessions/:id/category
func (h *SessionHandler) HandleSelectCategory(c *fiber.Ctx) error {
	var req models.SelectCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid request payload",
		})
	}

	session, err := h.sessions.SelectCategory(c.UserContext(), callerID(c), c.Params("id"), req.SubmissionType, req.CustomType)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(session)
}

// HandleBack handles POST /sessions/:id/back
func (h *SessionHandler) HandleBack(c *fiber.Ctx) error {
	session, err := h.sessions.Back(c.UserContext(), callerID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(session)
}

// HandleValidate handles POST /sessions/:id/validate
func (h *SessionHandler) HandleValidate(c *fiber.Ctx) error {
	session, confidence, err := h.sessions.Validate(c.UserContext(), callerID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	c.Set(ConfidenceHeader, string(confidence))
	return c.JSON(session)
}

// HandleReset handles POST /sessions/:id/reset
func (h *SessionHandler) HandleReset(c *fiber.Ctx) error {
	session, err := h.sessions.Reset(c.UserContext(), callerID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(session)
}
