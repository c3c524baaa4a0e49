package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bilgehangul/gymbuddy-expo/internal/models"
	"github.com/bilgehangul/gymbuddy-expo/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type MatchHandler struct {
	service matchApplicationService
}

type matchApplicationService interface {
	CreateFromCandidate(ctx context.Context, actorID int64, ownSessionID int64, candidateSessionID int64, now time.Time) (*models.MatchDetail, error)
	ListMatches(ctx context.Context, userID int64, now time.Time) ([]models.MatchDetail, error)
	Accept(ctx context.Context, actorID int64, matchID int64, now time.Time) (*models.MatchDetail, error)
	Decline(ctx context.Context, actorID int64, matchID int64) (*models.MatchDetail, error)
}

func NewMatchHandler(service *services.MatchService) *MatchHandler {
	return &MatchHandler{service: service}
}

type createMatchRequest struct {
	SessionID       int64 `json:"sessionId"`
	TargetSessionID int64 `json:"targetSessionId"`
}

func (h *MatchHandler) ListMatches(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	matches, err := h.service.ListMatches(c.Context(), userID, time.Now().UTC())
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.JSON(fiber.Map{"matches": matches})
}

func (h *MatchHandler) CreateMatch(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	match, err := h.service.CreateFromCandidate(
		c.Context(),
		userID,
		req.SessionID,
		req.TargetSessionID,
		time.Now().UTC(),
	)
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"match": match})
}

func (h *MatchHandler) AcceptMatch(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	matchID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || matchID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid match id"})
	}

	match, err := h.service.Accept(c.Context(), userID, matchID, time.Now().UTC())
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.JSON(fiber.Map{"match": match})
}

func (h *MatchHandler) DeclineMatch(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	matchID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || matchID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid match id"})
	}

	match, err := h.service.Decline(c.Context(), userID, matchID)
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.JSON(fiber.Map{"match": match})
}

func mapMatchError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Sessions are not compatible"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Match already exists for these sessions"})
	case errors.Is(err, services.ErrMatchExpired):
		return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "Match has expired"})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Match not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process match request"})
	}
}
