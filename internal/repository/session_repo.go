package repository

import (
	"context"
	"time"

	"github.com/bilgehangul/gymbuddy-expo/internal/models"
	"github.com/jackc/pgx/v5"
)

const sessionColumns = `id, creator_id, session_date, start_time, duration_min, workout_type,
	preferred_age_min, preferred_age_max, preferred_gender, gym, description,
	status, max_participants, created_at, updated_at`

type CreateSessionInput struct {
	CreatorID       int64
	Date            time.Time
	StartTime       string
	DurationMinutes int
	WorkoutType     string
	PreferredAgeMin int
	PreferredAgeMax int
	PreferredGender string
	Gym             string
	Description     *string
	MaxParticipants int
}

type UpdateSessionInput struct {
	Date            time.Time
	StartTime       string
	DurationMinutes int
	WorkoutType     string
	PreferredAgeMin int
	PreferredAgeMax int
	PreferredGender string
	Gym             string
	Description     *string
}

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(
	ctx context.Context,
	input CreateSessionInput,
) (*models.WorkoutSession, error) {
	query := `
		INSERT INTO sessions (
			creator_id, session_date, start_time, duration_min, workout_type,
			preferred_age_min, preferred_age_max, preferred_gender,
			gym, description, max_participants
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + sessionColumns + `
	`
	return scanSession(r.db.QueryRow(ctx, query,
		input.CreatorID,
		input.Date,
		input.StartTime,
		input.DurationMinutes,
		input.WorkoutType,
		input.PreferredAgeMin,
		input.PreferredAgeMax,
		input.PreferredGender,
		input.Gym,
		input.Description,
		input.MaxParticipants,
	))
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID int64) (*models.WorkoutSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	return scanSession(r.db.QueryRow(ctx, query, sessionID))
}

func (r *SessionRepository) GetByIDForUpdate(
	ctx context.Context,
	sessionID int64,
) (*models.WorkoutSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1 FOR UPDATE`
	return scanSession(r.db.QueryRow(ctx, query, sessionID))
}

// ListActiveByCreator returns the caller's own open sessions, soonest first.
func (r *SessionRepository) ListActiveByCreator(
	ctx context.Context,
	creatorID int64,
) ([]models.WorkoutSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE creator_id = $1 AND status = 'active'
		ORDER BY session_date ASC, start_time ASC, id ASC
	`
	return r.listSessions(ctx, query, creatorID)
}

// ListByCreator returns every session the member ever created, newest first.
func (r *SessionRepository) ListByCreator(
	ctx context.Context,
	creatorID int64,
) ([]models.WorkoutSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE creator_id = $1
		ORDER BY session_date DESC, start_time DESC, id DESC
	`
	return r.listSessions(ctx, query, creatorID)
}

// ListOpenPool returns every other active member's active session on or after
// the given day, paired with its creator's profile. This is the candidate
// universe the matching engine ranks.
func (r *SessionRepository) ListOpenPool(
	ctx context.Context,
	excludeCreatorID int64,
	from time.Time,
) ([]models.SessionWithOwner, error) {
	query := `
		SELECT
			s.id, s.creator_id, s.session_date, s.start_time, s.duration_min, s.workout_type,
			s.preferred_age_min, s.preferred_age_max, s.preferred_gender, s.gym, s.description,
			s.status, s.max_participants, s.created_at, s.updated_at,
			u.id, u.email, u.password_hash, u.name, u.school, u.gender, u.birthday, u.age,
			u.home_gym, u.motivation, u.description, u.photo_url,
			u.pref_age_min, u.pref_age_max, u.pref_gender, u.pref_workout_types,
			u.is_active, u.refresh_token, u.created_at, u.updated_at
		FROM sessions s
		JOIN users u ON u.id = s.creator_id
		WHERE s.creator_id <> $1
		  AND s.status = 'active'
		  AND s.session_date >= $2::date
		  AND u.is_active = TRUE
		ORDER BY s.session_date ASC, s.start_time ASC, s.id ASC
	`

	rows, err := r.db.Query(ctx, query, excludeCreatorID, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pool := make([]models.SessionWithOwner, 0)
	for rows.Next() {
		var entry models.SessionWithOwner
		if err := rows.Scan(
			&entry.Session.ID,
			&entry.Session.CreatorID,
			&entry.Session.Date,
			&entry.Session.StartTime,
			&entry.Session.DurationMinutes,
			&entry.Session.WorkoutType,
			&entry.Session.PreferredAgeMin,
			&entry.Session.PreferredAgeMax,
			&entry.Session.PreferredGender,
			&entry.Session.Gym,
			&entry.Session.Description,
			&entry.Session.Status,
			&entry.Session.MaxParticipants,
			&entry.Session.CreatedAt,
			&entry.Session.UpdatedAt,
			&entry.Owner.ID,
			&entry.Owner.Email,
			&entry.Owner.PasswordHash,
			&entry.Owner.Name,
			&entry.Owner.School,
			&entry.Owner.Gender,
			&entry.Owner.Birthday,
			&entry.Owner.Age,
			&entry.Owner.HomeGym,
			&entry.Owner.Motivation,
			&entry.Owner.Description,
			&entry.Owner.PhotoURL,
			&entry.Owner.Preferences.AgeMin,
			&entry.Owner.Preferences.AgeMax,
			&entry.Owner.Preferences.PreferredGender,
			&entry.Owner.Preferences.WorkoutTypes,
			&entry.Owner.IsActive,
			&entry.Owner.RefreshToken,
			&entry.Owner.CreatedAt,
			&entry.Owner.UpdatedAt,
		); err != nil {
			return nil, err
		}
		pool = append(pool, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return pool, nil
}

// UpdateByOwner replaces the mutable fields of a session, scoped to its
// creator so nobody can edit someone else's slot.
func (r *SessionRepository) UpdateByOwner(
	ctx context.Context,
	sessionID int64,
	creatorID int64,
	input UpdateSessionInput,
) (*models.WorkoutSession, error) {
	query := `
		UPDATE sessions
		SET session_date = $3,
			start_time = $4,
			duration_min = $5,
			workout_type = $6,
			preferred_age_min = $7,
			preferred_age_max = $8,
			preferred_gender = $9,
			gym = $10,
			description = COALESCE($11, description),
			updated_at = NOW()
		WHERE id = $1 AND creator_id = $2
		RETURNING ` + sessionColumns + `
	`
	return scanSession(r.db.QueryRow(ctx, query,
		sessionID,
		creatorID,
		input.Date,
		input.StartTime,
		input.DurationMinutes,
		input.WorkoutType,
		input.PreferredAgeMin,
		input.PreferredAgeMax,
		input.PreferredGender,
		input.Gym,
		input.Description,
	))
}

// CancelByOwner soft-deletes a session the way the mobile app expects: the
// row stays around for match history, only its status flips.
func (r *SessionRepository) CancelByOwner(
	ctx context.Context,
	sessionID int64,
	creatorID int64,
) (*models.WorkoutSession, error) {
	query := `
		UPDATE sessions
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND creator_id = $2
		RETURNING ` + sessionColumns + `
	`
	return scanSession(r.db.QueryRow(ctx, query, sessionID, creatorID))
}

func (r *SessionRepository) UpdateStatus(
	ctx context.Context,
	sessionID int64,
	status string,
) (*models.WorkoutSession, error) {
	query := `
		UPDATE sessions
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + sessionColumns + `
	`
	return scanSession(r.db.QueryRow(ctx, query, sessionID, status))
}

func (r *SessionRepository) listSessions(
	ctx context.Context,
	query string,
	args ...any,
) ([]models.WorkoutSession, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.WorkoutSession, 0)
	for rows.Next() {
		var session models.WorkoutSession
		if err := rows.Scan(
			&session.ID,
			&session.CreatorID,
			&session.Date,
			&session.StartTime,
			&session.DurationMinutes,
			&session.WorkoutType,
			&session.PreferredAgeMin,
			&session.PreferredAgeMax,
			&session.PreferredGender,
			&session.Gym,
			&session.Description,
			&session.Status,
			&session.MaxParticipants,
			&session.CreatedAt,
			&session.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

func scanSession(row pgx.Row) (*models.WorkoutSession, error) {
	var session models.WorkoutSession
	err := row.Scan(
		&session.ID,
		&session.CreatorID,
		&session.Date,
		&session.StartTime,
		&session.DurationMinutes,
		&session.WorkoutType,
		&session.PreferredAgeMin,
		&session.PreferredAgeMax,
		&session.PreferredGender,
		&session.Gym,
		&session.Description,
		&session.Status,
		&session.MaxParticipants,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}
