package services

import (
	"context"
	"time"

	"github.com/bilgehangul/gymbuddy-expo/internal/matching"
	"github.com/bilgehangul/gymbuddy-expo/internal/models"
	"github.com/bilgehangul/gymbuddy-expo/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MatchService struct {
	db        *pgxpool.Pool
	matchRepo *repository.MatchRepository
	userRepo  userReader
}

func NewMatchService(
	db *pgxpool.Pool,
	matchRepo *repository.MatchRepository,
	userRepo userReader,
) *MatchService {
	return &MatchService{
		db:        db,
		matchRepo: matchRepo,
		userRepo:  userRepo,
	}
}

// CreateFromCandidate turns a discovery candidate the caller picked into a
// persisted pending match. The pairing is re-validated against the engine's
// gates and the score is recomputed server-side, so a stale or forged
// candidate cannot produce a match the engine would not surface.
func (s *MatchService) CreateFromCandidate(
	ctx context.Context,
	actorID int64,
	ownSessionID int64,
	candidateSessionID int64,
	now time.Time,
) (*models.MatchDetail, error) {
	if ownSessionID <= 0 || candidateSessionID <= 0 || ownSessionID == candidateSessionID {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSessionRepo := repository.NewSessionRepository(tx)
	txMatchRepo := repository.NewMatchRepository(tx)

	ownSession, err := txSessionRepo.GetByIDForUpdate(ctx, ownSessionID)
	if err != nil {
		return nil, err
	}
	if ownSession.CreatorID != actorID {
		return nil, ErrForbidden
	}

	candidateSession, err := txSessionRepo.GetByIDForUpdate(ctx, candidateSessionID)
	if err != nil {
		return nil, err
	}
	if candidateSession.CreatorID == actorID {
		return nil, ErrInvalidInput
	}
	if ownSession.Status != models.SessionStatusActive ||
		candidateSession.Status != models.SessionStatusActive {
		return nil, ErrInvalidStateTransition
	}

	exists, err := txMatchRepo.ExistsActivePair(ctx, ownSessionID, candidateSessionID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	counterpart, err := s.userRepo.GetByID(ctx, candidateSession.CreatorID)
	if err != nil {
		return nil, err
	}

	if !sameCalendarDay(ownSession.Date, candidateSession.Date) ||
		ownSession.WorkoutType != candidateSession.WorkoutType ||
		!matching.IsGenderCompatible(*ownSession, *actor, *candidateSession, *counterpart) {
		return nil, ErrInvalidInput
	}
	score, _ := matching.ScorePair(*ownSession, *actor, *candidateSession, *counterpart)
	if score < matching.AdmissionThreshold {
		return nil, ErrInvalidInput
	}

	match, err := txMatchRepo.Create(ctx, repository.CreateMatchInput{
		SessionAID: ownSessionID,
		SessionBID: candidateSessionID,
		UserAID:    actorID,
		UserBID:    candidateSession.CreatorID,
		Score:      score,
		ExpiresAt:  now.Add(models.MatchTTL),
		ChatRoomID: uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return s.matchRepo.GetDetail(ctx, match.ID)
}

func (s *MatchService) ListMatches(
	ctx context.Context,
	userID int64,
	now time.Time,
) ([]models.MatchDetail, error) {
	return s.matchRepo.ListDetailsForUser(ctx, userID, now)
}

// Accept records one side's acceptance. Once both participants have
// accepted, the match flips to accepted and both sessions to matched, all in
// one transaction so concurrent accepts cannot double-fire.
func (s *MatchService) Accept(
	ctx context.Context,
	actorID int64,
	matchID int64,
	now time.Time,
) (*models.MatchDetail, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMatchRepo := repository.NewMatchRepository(tx)
	txSessionRepo := repository.NewSessionRepository(tx)

	match, err := txMatchRepo.GetByIDForUpdate(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasParticipant(actorID) {
		return nil, ErrForbidden
	}
	if match.Expired(now) {
		return nil, ErrMatchExpired
	}
	if match.Status != models.MatchStatusPending && match.Status != models.MatchStatusAccepted {
		return nil, ErrInvalidStateTransition
	}

	acceptedBy := match.AcceptedBy
	if !match.AcceptedByUser(actorID) {
		acceptedBy = append(acceptedBy, actorID)
	}

	status := match.Status
	if len(acceptedBy) == 2 && status != models.MatchStatusAccepted {
		status = models.MatchStatusAccepted
		if _, err := txSessionRepo.UpdateStatus(ctx, match.SessionAID, models.SessionStatusMatched); err != nil {
			return nil, err
		}
		if _, err := txSessionRepo.UpdateStatus(ctx, match.SessionBID, models.SessionStatusMatched); err != nil {
			return nil, err
		}
	}

	if _, err := txMatchRepo.UpdateAcceptance(ctx, matchID, acceptedBy, status); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return s.matchRepo.GetDetail(ctx, matchID)
}

func (s *MatchService) Decline(
	ctx context.Context,
	actorID int64,
	matchID int64,
) (*models.MatchDetail, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasParticipant(actorID) {
		return nil, ErrForbidden
	}

	if _, err := s.matchRepo.UpdateStatus(ctx, matchID, models.MatchStatusDeclined); err != nil {
		return nil, err
	}

	return s.matchRepo.GetDetail(ctx, matchID)
}

func sameCalendarDay(a, b time.Time) bool {
	yearA, monthA, dayA := a.Date()
	yearB, monthB, dayB := b.Date()
	return yearA == yearB && monthA == monthB && dayA == dayB
}
