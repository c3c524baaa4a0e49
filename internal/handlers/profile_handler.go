package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bilgehangul/gymbuddy-expo/internal/repository"
	"github.com/bilgehangul/gymbuddy-expo/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

const maxPhotoSizeBytes = 5 * 1024 * 1024

type ProfileHandler struct {
	userRepo       *repository.UserRepository
	storageService services.StorageService
}

func NewProfileHandler(
	userRepo *repository.UserRepository,
	storageService services.StorageService,
) *ProfileHandler {
	return &ProfileHandler{
		userRepo:       userRepo,
		storageService: storageService,
	}
}

type updateProfileRequest struct {
	Name        *string                `json:"name"`
	HomeGym     *string                `json:"homeGym"`
	Motivation  *string                `json:"motivation"`
	Description *string                `json:"description"`
	Birthday    *string                `json:"birthday"`
	Preferences *updatePreferencesBody `json:"preferences"`
}

type updatePreferencesBody struct {
	AgeMin          *int      `json:"ageMin"`
	AgeMax          *int      `json:"ageMax"`
	PreferredGender *string   `json:"preferredGender"`
	WorkoutTypes    *[]string `json:"workoutTypes"`
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{"user": user})
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateProfileUpdateRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	input := repository.UpdateProfileInput{
		Name:        req.Name,
		HomeGym:     req.HomeGym,
		Motivation:  req.Motivation,
		Description: req.Description,
	}
	if req.Birthday != nil {
		birthday, err := parseBirthday(*req.Birthday)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "birthday must be a valid YYYY-MM-DD date"})
		}
		age := ageFromBirthday(birthday, time.Now().UTC())
		if age < minSignupAge {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "You must be at least 18 years old"})
		}
		formatted := birthday.Format("2006-01-02")
		input.Birthday = &formatted
		input.Age = &age
	}
	if req.Preferences != nil {
		input.PrefAgeMin = req.Preferences.AgeMin
		input.PrefAgeMax = req.Preferences.AgeMax
		input.PrefGender = req.Preferences.PreferredGender
		input.PrefWorkoutList = req.Preferences.WorkoutTypes
	}

	user, err := h.userRepo.UpdateProfile(c.Context(), userID, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"user": user})
}

func (h *ProfileHandler) UploadPhoto(c *fiber.Ctx) error {
	if h.storageService == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Storage service is not configured"})
	}

	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "photo file is required"})
	}
	if fileHeader.Size <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "photo file is empty"})
	}
	if fileHeader.Size > maxPhotoSizeBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "photo file exceeds 5MB limit"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to open photo file"})
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "photo must be a jpg, jpeg, png, or webp file"})
	}

	filename := fmt.Sprintf("%d-%d%s", userID, time.Now().UnixNano(), ext)
	photoURL, err := h.storageService.UploadFile(c.Context(), file, filename, "avatars")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload photo"})
	}

	current, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}
	if current.PhotoURL != nil && *current.PhotoURL != "" && *current.PhotoURL != photoURL {
		_ = h.storageService.DeleteFile(c.Context(), *current.PhotoURL)
	}

	user, err := h.userRepo.UpdatePhotoURL(c.Context(), userID, photoURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{
		"photo_url": photoURL,
		"user":      user,
	})
}

func parseUserID(c *fiber.Ctx) (int64, error) {
	userIDValue := c.Locals("user_id")
	userIDStr, ok := userIDValue.(string)
	if !ok {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(userIDStr, 10, 64)
}
