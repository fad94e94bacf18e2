package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/scholarcheck/internal/models"
	"alfredoptarigan/scholarcheck/internal/repositories"
	"alfredoptarigan/scholarcheck/internal/services"
)

type ControllerFactory func() *services.Controller

type SessionHandler struct {
	sessionRepo   repositories.SessionRepository
	renderer      services.ReportRenderer
	newController ControllerFactory
}

func NewSessionHandler(
	sessionRepo repositories.SessionRepository,
	renderer services.ReportRenderer,
	newController ControllerFactory,
) *SessionHandler {
	return &SessionHandler{
		sessionRepo:   sessionRepo,
		renderer:      renderer,
		newController: newController,
	}
}

// HandleCreate handles POST /sessions
func (h *SessionHandler) HandleCreate(c *fiber.Ctx) error {
	session := &repositories.Session{
		ID:         uuid.New(),
		Controller: h.newController(),
	}

	if err := h.sessionRepo.Create(session); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create session")
	}

	return c.Status(fiber.StatusCreated).JSON(buildSessionResponse(session.ID, session.Controller.State(), h.renderer))
}

// HandleGet handles GET /sessions/:id
func (h *SessionHandler) HandleGet(c *fiber.Ctx) error {
	session, err := findSession(c, h.sessionRepo)
	if err != nil {
		return err
	}

	return c.JSON(buildSessionResponse(session.ID, session.Controller.State(), h.renderer))
}

// HandleReset handles POST /sessions/:id/reset
func (h *SessionHandler) HandleReset(c *fiber.Ctx) error {
	session, err := findSession(c, h.sessionRepo)
	if err != nil {
		return err
	}

	session.Controller.Reset()

	return c.JSON(buildSessionResponse(session.ID, session.Controller.State(), h.renderer))
}

// HandleGetReport handles GET /sessions/:id/report
func (h *SessionHandler) HandleGetReport(c *fiber.Ctx) error {
	session, err := findSession(c, h.sessionRepo)
	if err != nil {
		return err
	}

	state := session.Controller.State()
	if state.Phase != models.PhaseReported || state.Result == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "No report available",
			"phase": string(state.Phase),
		})
	}

	return c.JSON(h.renderer.Render(state.Result))
}

// HandleDelete handles DELETE /sessions/:id
func (h *SessionHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	if err := h.sessionRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Session not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete session")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseSessionID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid session ID format")
	}
	return id, nil
}

// findSession resolves the :id param and marks the session as seen.
func findSession(c *fiber.Ctx, repo repositories.SessionRepository) (*repositories.Session, error) {
	id, err := parseSessionID(c)
	if err != nil {
		return nil, err
	}

	session, err := repo.FindByID(id)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
	}
	if err := repo.Touch(id); err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
	}

	return session, nil
}

func buildSessionResponse(id uuid.UUID, state models.SessionState, renderer services.ReportRenderer) models.SessionResponse {
	response := models.SessionResponse{
		ID:        id.String(),
		Phase:     string(state.Phase),
		FileName:  state.FileName,
		StartedAt: state.StartedAt,
		UpdatedAt: state.UpdatedAt,
	}

	if state.Phase == models.PhaseReported && state.Result != nil {
		response.Report = renderer.Render(state.Result)
	}

	if state.Phase == models.PhaseFailed && state.Error != "" {
		message := state.Error
		response.Error = &message
	}

	return response
}
