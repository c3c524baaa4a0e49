package services

import (
	"context"
	"errors"
	"time"

	"github.com/bilgehangul/gymbuddy-expo/internal/matching"
	"github.com/bilgehangul/gymbuddy-expo/internal/models"
	"github.com/bilgehangul/gymbuddy-expo/internal/repository"
)

var (
	ErrForbidden              = errors.New("forbidden")
	ErrConflict               = errors.New("conflict")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrMatchExpired           = errors.New("match expired")
	ErrMatchNotAccepted       = errors.New("match not accepted")
)

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type SessionService struct {
	sessionRepo *repository.SessionRepository
	userRepo    userReader
}

func NewSessionService(
	sessionRepo *repository.SessionRepository,
	userRepo userReader,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
	}
}

type SessionInput struct {
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

// DiscoveryResult is what the home screen renders: the caller's own open
// sessions plus the engine's ranked partner candidates for them.
type DiscoveryResult struct {
	UserSessions []models.WorkoutSession `json:"userSessions"`
	Candidates   []matching.Candidate    `json:"potentialMatches"`
}

func (s *SessionService) CreateSession(
	ctx context.Context,
	userID int64,
	input SessionInput,
) (*models.WorkoutSession, error) {
	if err := validateSessionInput(&input); err != nil {
		return nil, err
	}

	return s.sessionRepo.Create(ctx, repository.CreateSessionInput{
		CreatorID:       userID,
		Date:            input.Date,
		StartTime:       input.StartTime,
		DurationMinutes: input.DurationMinutes,
		WorkoutType:     input.WorkoutType,
		PreferredAgeMin: input.PreferredAgeMin,
		PreferredAgeMax: input.PreferredAgeMax,
		PreferredGender: input.PreferredGender,
		Gym:             input.Gym,
		Description:     input.Description,
		MaxParticipants: input.MaxParticipants,
	})
}

// Discover loads the caller's open sessions and every other member's future
// active session, then lets the matching engine rank the pool. The supplied
// now decides which calendar days still count as future.
func (s *SessionService) Discover(
	ctx context.Context,
	userID int64,
	now time.Time,
) (*DiscoveryResult, error) {
	caller, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ownSessions, err := s.sessionRepo.ListActiveByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &DiscoveryResult{
		UserSessions: ownSessions,
		Candidates:   []matching.Candidate{},
	}
	if len(ownSessions) == 0 {
		return result, nil
	}

	pool, err := s.sessionRepo.ListOpenPool(ctx, userID, startOfDay(now))
	if err != nil {
		return nil, err
	}

	result.Candidates = matching.RankCandidates(*caller, ownSessions, pool)
	return result, nil
}

func (s *SessionService) ListMySessions(
	ctx context.Context,
	userID int64,
) ([]models.WorkoutSession, error) {
	return s.sessionRepo.ListByCreator(ctx, userID)
}

func (s *SessionService) UpdateSession(
	ctx context.Context,
	userID int64,
	sessionID int64,
	input SessionInput,
) (*models.WorkoutSession, error) {
	if err := validateSessionInput(&input); err != nil {
		return nil, err
	}

	return s.sessionRepo.UpdateByOwner(ctx, sessionID, userID, repository.UpdateSessionInput{
		Date:            input.Date,
		StartTime:       input.StartTime,
		DurationMinutes: input.DurationMinutes,
		WorkoutType:     input.WorkoutType,
		PreferredAgeMin: input.PreferredAgeMin,
		PreferredAgeMax: input.PreferredAgeMax,
		PreferredGender: input.PreferredGender,
		Gym:             input.Gym,
		Description:     input.Description,
	})
}

func (s *SessionService) CancelSession(
	ctx context.Context,
	userID int64,
	sessionID int64,
) (*models.WorkoutSession, error) {
	return s.sessionRepo.CancelByOwner(ctx, sessionID, userID)
}

func validateSessionInput(input *SessionInput) error {
	if input.Date.IsZero() {
		return ErrInvalidInput
	}
	if !validClock(input.StartTime) {
		return ErrInvalidInput
	}
	if input.DurationMinutes < models.SessionMinDuration ||
		input.DurationMinutes > models.SessionMaxDuration {
		return ErrInvalidInput
	}
	if !models.ValidWorkoutType(input.WorkoutType) {
		return ErrInvalidInput
	}
	if input.Gym == "" {
		return ErrInvalidInput
	}

	if input.PreferredAgeMin == 0 {
		input.PreferredAgeMin = 18
	}
	if input.PreferredAgeMax == 0 {
		input.PreferredAgeMax = 30
	}
	if input.PreferredAgeMin < 18 || input.PreferredAgeMax > 100 ||
		input.PreferredAgeMin >= input.PreferredAgeMax {
		return ErrInvalidInput
	}

	if input.PreferredGender == "" {
		input.PreferredGender = models.PreferredGenderAny
	}
	if !models.ValidPreferredGender(input.PreferredGender) {
		return ErrInvalidInput
	}

	if input.MaxParticipants == 0 {
		input.MaxParticipants = 2
	}
	if input.MaxParticipants < 2 || input.MaxParticipants > 10 {
		return ErrInvalidInput
	}

	return nil
}

// validClock accepts 24h "HH:MM" wall-clock strings, the only time format
// the matching engine understands.
func validClock(clock string) bool {
	if len(clock) != 5 && len(clock) != 4 {
		return false
	}
	sep := len(clock) - 3
	if clock[sep] != ':' {
		return false
	}

	hours := 0
	for i := 0; i < sep; i++ {
		if clock[i] < '0' || clock[i] > '9' {
			return false
		}
		hours = hours*10 + int(clock[i]-'0')
	}
	if hours > 23 {
		return false
	}

	minutes := 0
	for i := sep + 1; i < len(clock); i++ {
		if clock[i] < '0' || clock[i] > '9' {
			return false
		}
		minutes = minutes*10 + int(clock[i]-'0')
	}
	return minutes <= 59
}

func startOfDay(now time.Time) time.Time {
	year, month, day := now.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
