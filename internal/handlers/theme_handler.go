package handlers

import (
	"errors"
	"strings"

	"github.com/bilgehangul/gymbuddy-expo/internal/models"
	"github.com/bilgehangul/gymbuddy-expo/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type ThemeHandler struct {
	themeRepo *repository.ThemeRepository
}

func NewThemeHandler(themeRepo *repository.ThemeRepository) *ThemeHandler {
	return &ThemeHandler{themeRepo: themeRepo}
}

func (h *ThemeHandler) ListThemes(c *fiber.Ctx) error {
	themes, err := h.themeRepo.ListActive(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch themes"})
	}

	return c.JSON(fiber.Map{"themes": themes})
}

// GetTheme falls back to the built-in default so the client always gets a
// usable theme, even for schools nobody branded yet.
func (h *ThemeHandler) GetTheme(c *fiber.Ctx) error {
	school := strings.TrimSpace(c.Params("school"))
	if school == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid school"})
	}

	theme, err := h.themeRepo.GetActiveBySchool(c.Context(), school)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			fallback := models.DefaultTheme()
			return c.JSON(fiber.Map{"theme": fallback})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch theme"})
	}

	return c.JSON(fiber.Map{"theme": theme})
}

func (h *ThemeHandler) ListSchools(c *fiber.Ctx) error {
	schools, err := h.themeRepo.ListSchools(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch schools"})
	}

	return c.JSON(fiber.Map{"schools": schools})
}
