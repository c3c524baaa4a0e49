package handlers

import (
	"errors"
	"math"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/bilgehangul/gymbuddy-expo/internal/models"
	"github.com/bilgehangul/gymbuddy-expo/internal/repository"
	"github.com/bilgehangul/gymbuddy-expo/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	minPasswordLength = 6
	minSignupAge      = 18
)

type AuthHandler struct {
	userRepo         *repository.UserRepository
	jwtSecret        string
	jwtRefreshSecret string
}

func NewAuthHandler(
	userRepo *repository.UserRepository,
	jwtSecret string,
	jwtRefreshSecret string,
) *AuthHandler {
	return &AuthHandler{
		userRepo:         userRepo,
		jwtSecret:        jwtSecret,
		jwtRefreshSecret: jwtRefreshSecret,
	}
}

type registerRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Name        string  `json:"name"`
	School      string  `json:"school"`
	Gender      string  `json:"gender"`
	Birthday    string  `json:"birthday"`
	HomeGym     string  `json:"homeGym"`
	Motivation  string  `json:"motivation"`
	Description *string `json:"description"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	parsedEmail, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email format"})
	}
	req.Email = strings.ToLower(parsedEmail.Address)
	if len(req.Password) < minPasswordLength {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Password must be at least 6 characters"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) < 2 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Name must be at least 2 characters"})
	}
	req.School = strings.TrimSpace(req.School)
	req.HomeGym = strings.TrimSpace(req.HomeGym)
	req.Motivation = strings.TrimSpace(req.Motivation)
	if req.School == "" || req.HomeGym == "" || req.Motivation == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "school, homeGym and motivation are required"})
	}
	if !models.ValidGender(req.Gender) {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "gender must be one of: male, female, other"})
	}

	birthday, err := parseBirthday(req.Birthday)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "birthday must be a valid YYYY-MM-DD date"})
	}
	age := ageFromBirthday(birthday, time.Now().UTC())
	if age < minSignupAge {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "You must be at least 18 years old"})
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to hash password"})
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hashed,
		Name:         req.Name,
		School:       req.School,
		Gender:       req.Gender,
		Birthday:     birthday,
		Age:          age,
		HomeGym:      req.HomeGym,
		Motivation:   req.Motivation,
		Description:  req.Description,
		Preferences:  defaultPreferences(age),
	}
	if err := h.userRepo.Create(c.Context(), user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return c.Status(fiber.StatusConflict).
				JSON(fiber.Map{"error": "Email already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to create user"})
	}

	return h.issueTokens(c, user, fiber.StatusCreated)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	parsedEmail, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email format"})
	}
	req.Email = strings.ToLower(parsedEmail.Address)

	user, err := h.userRepo.GetActiveByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"error": "Invalid email or password"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to lookup user"})
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"error": "Invalid email or password"})
	}

	return h.issueTokens(c, user, fiber.StatusOK)
}

// Refresh rotates the refresh token: the presented token must match the one
// stored for the user, and a new pair replaces it.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "refreshToken is required"})
	}

	claims, err := utils.ValidateToken(req.RefreshToken, h.jwtRefreshSecret)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired refresh token"})
	}
	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired refresh token"})
	}

	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired refresh token"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to lookup user"})
	}
	if !user.IsActive || user.RefreshToken == nil || *user.RefreshToken != req.RefreshToken {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired refresh token"})
	}

	return h.issueTokens(c, user, fiber.StatusOK)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if err := h.userRepo.SetRefreshToken(c.Context(), userID, nil); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to log out"})
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (h *AuthHandler) issueTokens(c *fiber.Ctx, user *models.User, status int) error {
	accessToken, refreshToken, err := utils.GenerateTokenPair(
		strconv.FormatInt(user.ID, 10),
		user.Email,
		h.jwtSecret,
		h.jwtRefreshSecret,
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to generate tokens"})
	}

	if err := h.userRepo.SetRefreshToken(c.Context(), user.ID, &refreshToken); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to store refresh token"})
	}

	return c.Status(status).JSON(fiber.Map{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user":         user,
	})
}

func defaultPreferences(age int) models.UserPreferences {
	ageMin := age - 5
	if ageMin < 18 {
		ageMin = 18
	}
	ageMax := age + 5
	if ageMax > 50 {
		ageMax = 50
	}
	return models.UserPreferences{
		AgeMin:          ageMin,
		AgeMax:          ageMax,
		PreferredGender: models.PreferredGenderAny,
		WorkoutTypes:    []string{models.WorkoutStrength, models.WorkoutCardio},
	}
}

func parseBirthday(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if birthday, err := time.Parse("2006-01-02", value); err == nil {
		return birthday, nil
	}
	return time.Parse(time.RFC3339, value)
}

// ageFromBirthday mirrors how the mobile client displays age: elapsed time
// divided by the mean year length, rounded down.
func ageFromBirthday(birthday, now time.Time) int {
	const yearHours = 365.25 * 24
	return int(math.Floor(now.Sub(birthday).Hours() / yearHours))
}
