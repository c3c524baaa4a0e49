package repository

import (
	"context"
	"time"

	"github.com/bilgehangul/gymbuddy-expo/internal/models"
	"github.com/jackc/pgx/v5"
)

const matchColumns = `id, session_a, session_b, user_a, user_b, score, status,
	accepted_by, expires_at, chat_room_id, created_at, updated_at`

type CreateMatchInput struct {
	SessionAID int64
	SessionBID int64
	UserAID    int64
	UserBID    int64
	Score      int
	ExpiresAt  time.Time
	ChatRoomID string
}

type MatchRepository struct {
	db DBTX
}

func NewMatchRepository(db DBTX) *MatchRepository {
	return &MatchRepository{db: db}
}

// ExistsActivePair reports whether a live match already links the two
// sessions in either orientation.
func (r *MatchRepository) ExistsActivePair(
	ctx context.Context,
	sessionAID int64,
	sessionBID int64,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM matches
			WHERE ((session_a = $1 AND session_b = $2) OR (session_a = $2 AND session_b = $1))
			  AND status IN ('pending', 'accepted')
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, sessionAID, sessionBID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *MatchRepository) Create(
	ctx context.Context,
	input CreateMatchInput,
) (*models.Match, error) {
	query := `
		INSERT INTO matches (session_a, session_b, user_a, user_b, score, expires_at, chat_room_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + matchColumns + `
	`
	return scanMatch(r.db.QueryRow(ctx, query,
		input.SessionAID,
		input.SessionBID,
		input.UserAID,
		input.UserBID,
		input.Score,
		input.ExpiresAt,
		input.ChatRoomID,
	))
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID int64) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return scanMatch(r.db.QueryRow(ctx, query, matchID))
}

func (r *MatchRepository) GetByIDForUpdate(ctx context.Context, matchID int64) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR UPDATE`
	return scanMatch(r.db.QueryRow(ctx, query, matchID))
}

func (r *MatchRepository) UpdateAcceptance(
	ctx context.Context,
	matchID int64,
	acceptedBy []int64,
	status string,
) (*models.Match, error) {
	query := `
		UPDATE matches
		SET accepted_by = $2, status = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + matchColumns + `
	`
	return scanMatch(r.db.QueryRow(ctx, query, matchID, acceptedBy, status))
}

func (r *MatchRepository) UpdateStatus(
	ctx context.Context,
	matchID int64,
	status string,
) (*models.Match, error) {
	query := `
		UPDATE matches
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + matchColumns + `
	`
	return scanMatch(r.db.QueryRow(ctx, query, matchID, status))
}

const matchDetailQuery = `
	SELECT
		m.id, m.session_a, m.session_b, m.user_a, m.user_b, m.score, m.status,
		m.accepted_by, m.expires_at, m.chat_room_id, m.created_at, m.updated_at,
		sa.id, sa.creator_id, sa.session_date, sa.start_time, sa.duration_min, sa.workout_type,
		sa.preferred_age_min, sa.preferred_age_max, sa.preferred_gender, sa.gym, sa.description,
		sa.status, sa.max_participants, sa.created_at, sa.updated_at,
		sb.id, sb.creator_id, sb.session_date, sb.start_time, sb.duration_min, sb.workout_type,
		sb.preferred_age_min, sb.preferred_age_max, sb.preferred_gender, sb.gym, sb.description,
		sb.status, sb.max_participants, sb.created_at, sb.updated_at,
		ua.id, ua.name, ua.school, ua.gender, ua.age, ua.home_gym, ua.motivation, ua.description, ua.photo_url,
		ub.id, ub.name, ub.school, ub.gender, ub.age, ub.home_gym, ub.motivation, ub.description, ub.photo_url
	FROM matches m
	JOIN sessions sa ON sa.id = m.session_a
	JOIN sessions sb ON sb.id = m.session_b
	JOIN users ua ON ua.id = m.user_a
	JOIN users ub ON ub.id = m.user_b
`

// GetDetail returns a single match populated with both sessions and both
// members' public profiles.
func (r *MatchRepository) GetDetail(ctx context.Context, matchID int64) (*models.MatchDetail, error) {
	rows, err := r.db.Query(ctx, matchDetailQuery+` WHERE m.id = $1`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, pgx.ErrNoRows
	}

	detail, err := scanMatchDetail(rows)
	if err != nil {
		return nil, err
	}
	return detail, rows.Err()
}

// ListDetailsForUser returns the member's live matches (pending or accepted,
// not yet expired), newest first, fully populated.
func (r *MatchRepository) ListDetailsForUser(
	ctx context.Context,
	userID int64,
	now time.Time,
) ([]models.MatchDetail, error) {
	query := matchDetailQuery + `
		WHERE (m.user_a = $1 OR m.user_b = $1)
		  AND m.status IN ('pending', 'accepted')
		  AND m.expires_at > $2
		ORDER BY m.created_at DESC, m.id DESC
	`

	rows, err := r.db.Query(ctx, query, userID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]models.MatchDetail, 0)
	for rows.Next() {
		detail, err := scanMatchDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return details, nil
}

func scanMatch(row pgx.Row) (*models.Match, error) {
	var match models.Match
	err := row.Scan(
		&match.ID,
		&match.SessionAID,
		&match.SessionBID,
		&match.UserAID,
		&match.UserBID,
		&match.Score,
		&match.Status,
		&match.AcceptedBy,
		&match.ExpiresAt,
		&match.ChatRoomID,
		&match.CreatedAt,
		&match.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func scanMatchDetail(row pgx.Row) (*models.MatchDetail, error) {
	var detail models.MatchDetail
	err := row.Scan(
		&detail.ID,
		&detail.SessionAID,
		&detail.SessionBID,
		&detail.UserAID,
		&detail.UserBID,
		&detail.Score,
		&detail.Status,
		&detail.AcceptedBy,
		&detail.ExpiresAt,
		&detail.ChatRoomID,
		&detail.CreatedAt,
		&detail.UpdatedAt,
		&detail.SessionA.ID,
		&detail.SessionA.CreatorID,
		&detail.SessionA.Date,
		&detail.SessionA.StartTime,
		&detail.SessionA.DurationMinutes,
		&detail.SessionA.WorkoutType,
		&detail.SessionA.PreferredAgeMin,
		&detail.SessionA.PreferredAgeMax,
		&detail.SessionA.PreferredGender,
		&detail.SessionA.Gym,
		&detail.SessionA.Description,
		&detail.SessionA.Status,
		&detail.SessionA.MaxParticipants,
		&detail.SessionA.CreatedAt,
		&detail.SessionA.UpdatedAt,
		&detail.SessionB.ID,
		&detail.SessionB.CreatorID,
		&detail.SessionB.Date,
		&detail.SessionB.StartTime,
		&detail.SessionB.DurationMinutes,
		&detail.SessionB.WorkoutType,
		&detail.SessionB.PreferredAgeMin,
		&detail.SessionB.PreferredAgeMax,
		&detail.SessionB.PreferredGender,
		&detail.SessionB.Gym,
		&detail.SessionB.Description,
		&detail.SessionB.Status,
		&detail.SessionB.MaxParticipants,
		&detail.SessionB.CreatedAt,
		&detail.SessionB.UpdatedAt,
		&detail.UserA.ID,
		&detail.UserA.Name,
		&detail.UserA.School,
		&detail.UserA.Gender,
		&detail.UserA.Age,
		&detail.UserA.HomeGym,
		&detail.UserA.Motivation,
		&detail.UserA.Description,
		&detail.UserA.PhotoURL,
		&detail.UserB.ID,
		&detail.UserB.Name,
		&detail.UserB.School,
		&detail.UserB.Gender,
		&detail.UserB.Age,
		&detail.UserB.HomeGym,
		&detail.UserB.Motivation,
		&detail.UserB.Description,
		&detail.UserB.PhotoURL,
	)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}
