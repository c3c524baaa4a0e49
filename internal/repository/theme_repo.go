package repository

import (
	"context"

	"github.com/bilgehangul/gymbuddy-expo/internal/models"
)

type ThemeRepository struct {
	db DBTX
}

func NewThemeRepository(db DBTX) *ThemeRepository {
	return &ThemeRepository{db: db}
}

func (r *ThemeRepository) GetActiveBySchool(ctx context.Context, school string) (*models.Theme, error) {
	query := `
		SELECT id, school, display_name, colors, logos, fonts, is_active, created_at, updated_at
		FROM themes
		WHERE school = $1 AND is_active = TRUE
	`

	var theme models.Theme
	err := r.db.QueryRow(ctx, query, school).Scan(
		&theme.ID,
		&theme.School,
		&theme.DisplayName,
		&theme.Colors,
		&theme.Logos,
		&theme.Fonts,
		&theme.IsActive,
		&theme.CreatedAt,
		&theme.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &theme, nil
}

func (r *ThemeRepository) ListActive(ctx context.Context) ([]models.ThemeSummary, error) {
	query := `
		SELECT school, display_name, colors
		FROM themes
		WHERE is_active = TRUE
		ORDER BY display_name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	themes := make([]models.ThemeSummary, 0)
	for rows.Next() {
		var theme models.ThemeSummary
		if err := rows.Scan(&theme.School, &theme.DisplayName, &theme.Colors); err != nil {
			return nil, err
		}
		themes = append(themes, theme)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return themes, nil
}

// ListSchools feeds the registration screen's school picker.
func (r *ThemeRepository) ListSchools(ctx context.Context) ([]models.SchoolOption, error) {
	query := `
		SELECT school, display_name
		FROM themes
		WHERE is_active = TRUE
		ORDER BY display_name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schools := make([]models.SchoolOption, 0)
	for rows.Next() {
		var school models.SchoolOption
		if err := rows.Scan(&school.School, &school.DisplayName); err != nil {
			return nil, err
		}
		schools = append(schools, school)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schools, nil
}
