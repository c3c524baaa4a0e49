package repository

import (
	"context"

	"github.com/bilgehangul/gymbuddy-expo/internal/models"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, password_hash, name, school, gender, birthday, age,
	home_gym, motivation, description, photo_url,
	pref_age_min, pref_age_max, pref_gender, pref_workout_types,
	is_active, refresh_token, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			email, password_hash, name, school, gender, birthday, age,
			home_gym, motivation, description,
			pref_age_min, pref_age_max, pref_gender, pref_workout_types
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, is_active, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.School,
		user.Gender,
		user.Birthday,
		user.Age,
		user.HomeGym,
		user.Motivation,
		user.Description,
		user.Preferences.AgeMin,
		user.Preferences.AgeMax,
		user.Preferences.PreferredGender,
		user.Preferences.WorkoutTypes,
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_active = TRUE`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

type UpdateProfileInput struct {
	Name            *string
	HomeGym         *string
	Motivation      *string
	Description     *string
	Birthday        *string
	Age             *int
	PrefAgeMin      *int
	PrefAgeMax      *int
	PrefGender      *string
	PrefWorkoutList *[]string
}

func (r *UserRepository) UpdateProfile(
	ctx context.Context,
	userID int64,
	input UpdateProfileInput,
) (*models.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($1, name),
			home_gym = COALESCE($2, home_gym),
			motivation = COALESCE($3, motivation),
			description = COALESCE($4, description),
			birthday = COALESCE($5::date, birthday),
			age = COALESCE($6, age),
			pref_age_min = COALESCE($7, pref_age_min),
			pref_age_max = COALESCE($8, pref_age_max),
			pref_gender = COALESCE($9, pref_gender),
			pref_workout_types = COALESCE($10, pref_workout_types),
			updated_at = NOW()
		WHERE id = $11
		RETURNING ` + userColumns + `
	`
	return scanUser(r.db.QueryRow(ctx, query,
		input.Name,
		input.HomeGym,
		input.Motivation,
		input.Description,
		input.Birthday,
		input.Age,
		input.PrefAgeMin,
		input.PrefAgeMax,
		input.PrefGender,
		input.PrefWorkoutList,
		userID,
	))
}

func (r *UserRepository) UpdatePhotoURL(
	ctx context.Context,
	userID int64,
	photoURL string,
) (*models.User, error) {
	query := `
		UPDATE users
		SET photo_url = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns + `
	`
	return scanUser(r.db.QueryRow(ctx, query, userID, photoURL))
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, userID int64, token *string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET refresh_token = $2, updated_at = NOW()
		WHERE id = $1
	`, userID, token)
	return err
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.School,
		&user.Gender,
		&user.Birthday,
		&user.Age,
		&user.HomeGym,
		&user.Motivation,
		&user.Description,
		&user.PhotoURL,
		&user.Preferences.AgeMin,
		&user.Preferences.AgeMax,
		&user.Preferences.PreferredGender,
		&user.Preferences.WorkoutTypes,
		&user.IsActive,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
