package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/bilgehangul/gymbuddy-expo/internal/models"
	"github.com/bilgehangul/gymbuddy-expo/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type SessionHandler struct {
	service sessionApplicationService
}

type sessionApplicationService interface {
	CreateSession(ctx context.Context, userID int64, input services.SessionInput) (*models.WorkoutSession, error)
	Discover(ctx context.Context, userID int64, now time.Time) (*services.DiscoveryResult, error)
	ListMySessions(ctx context.Context, userID int64) ([]models.WorkoutSession, error)
	UpdateSession(ctx context.Context, userID int64, sessionID int64, input services.SessionInput) (*models.WorkoutSession, error)
	CancelSession(ctx context.Context, userID int64, sessionID int64) (*models.WorkoutSession, error)
}

func NewSessionHandler(service *services.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

type sessionRequest struct {
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	Duration        int     `json:"duration"`
	WorkoutType     string  `json:"workoutType"`
	PreferredAgeMin int     `json:"preferredAgeMin"`
	PreferredAgeMax int     `json:"preferredAgeMax"`
	PreferredGender string  `json:"preferredGender"`
	Gym             string  `json:"gym"`
	Description     *string `json:"description"`
	MaxParticipants int     `json:"maxParticipants"`
}

func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	input, parseErr := parseSessionRequest(c)
	if parseErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": parseErr})
	}

	session, err := h.service.CreateSession(c.Context(), userID, *input)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session": session})
}

// Discover returns the caller's open sessions together with the ranked
// partner candidates for them.
func (h *SessionHandler) Discover(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	result, err := h.service.Discover(c.Context(), userID, time.Now().UTC())
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(result)
}

func (h *SessionHandler) ListMySessions(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessions, err := h.service.ListMySessions(c.Context(), userID)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{"sessions": sessions})
}

func (h *SessionHandler) UpdateSession(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || sessionID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	input, parseErr := parseSessionRequest(c)
	if parseErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": parseErr})
	}

	session, err := h.service.UpdateSession(c.Context(), userID, sessionID, *input)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) CancelSession(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || sessionID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	session, err := h.service.CancelSession(c.Context(), userID, sessionID)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{"session": session})
}

func parseSessionRequest(c *fiber.Ctx) (*services.SessionInput, string) {
	var req sessionRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, "Invalid request body"
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
	if err != nil {
		return nil, "date must be a valid YYYY-MM-DD date"
	}

	return &services.SessionInput{
		Date:            date,
		StartTime:       strings.TrimSpace(req.Time),
		DurationMinutes: req.Duration,
		WorkoutType:     req.WorkoutType,
		PreferredAgeMin: req.PreferredAgeMin,
		PreferredAgeMax: req.PreferredAgeMax,
		PreferredGender: req.PreferredGender,
		Gym:             strings.TrimSpace(req.Gym),
		Description:     req.Description,
		MaxParticipants: req.MaxParticipants,
	}, ""
}

func mapSessionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Session conflicts with an existing one"})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process session request"})
	}
}
