package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bilgehangul/gymbuddy-expo/internal/models"
	"github.com/bilgehangul/gymbuddy-expo/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

var (
	testDBOnce sync.Once
	testDBPool *pgxpool.Pool
	testDBErr  error
)

func TestMatchLifecycleFlow(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)

	userRepo := repository.NewUserRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	matchRepo := repository.NewMatchRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	sessionService := NewSessionService(sessionRepo, userRepo)
	matchService := NewMatchService(pool, matchRepo, userRepo)
	chatService := NewChatService(pool, matchRepo, messageRepo)

	memberA := createTestMember(t, ctx, pool, "Alex")
	memberB := createTestMember(t, ctx, pool, "Blake")
	t.Cleanup(func() { cleanupTestMembers(t, ctx, pool, memberA, memberB) })

	day := time.Date(2030, 5, 10, 0, 0, 0, 0, time.UTC)
	sessionA, err := sessionService.CreateSession(ctx, memberA, SessionInput{
		Date:            day,
		StartTime:       "18:00",
		DurationMinutes: 60,
		WorkoutType:     models.WorkoutStrength,
		Gym:             "Campus Rec Center",
	})
	if err != nil {
		t.Fatalf("CreateSession A: %v", err)
	}
	sessionB, err := sessionService.CreateSession(ctx, memberB, SessionInput{
		Date:            day,
		StartTime:       "18:15",
		DurationMinutes: 60,
		WorkoutType:     models.WorkoutStrength,
		Gym:             "Campus Rec Center",
	})
	if err != nil {
		t.Fatalf("CreateSession B: %v", err)
	}

	now := time.Now().UTC()
	discovery, err := sessionService.Discover(ctx, memberA, now)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	foundCandidate := false
	for _, candidate := range discovery.Candidates {
		if candidate.Session.ID == sessionB.ID {
			foundCandidate = true
			if candidate.UserSessionID != sessionA.ID {
				t.Fatalf("candidate tied to session %d, want %d", candidate.UserSessionID, sessionA.ID)
			}
		}
	}
	if !foundCandidate {
		t.Fatalf("expected session %d among candidates, got %+v", sessionB.ID, discovery.Candidates)
	}

	match, err := matchService.CreateFromCandidate(ctx, memberA, sessionA.ID, sessionB.ID, now)
	if err != nil {
		t.Fatalf("CreateFromCandidate: %v", err)
	}
	if match.Status != models.MatchStatusPending {
		t.Fatalf("expected pending match, got %q", match.Status)
	}
	if match.ChatRoomID == "" {
		t.Fatal("expected a chat room id")
	}

	// Duplicate creation in the opposite orientation must be rejected.
	if _, err := matchService.CreateFromCandidate(ctx, memberB, sessionB.ID, sessionA.ID, now); err != ErrConflict {
		t.Fatalf("expected ErrConflict for duplicate, got %v", err)
	}

	// Chat stays closed until both sides accept.
	if _, err := chatService.SendMessage(ctx, memberA, match.ID, "hey", ""); err != ErrMatchNotAccepted {
		t.Fatalf("expected ErrMatchNotAccepted before acceptance, got %v", err)
	}

	afterFirst, err := matchService.Accept(ctx, memberA, match.ID, now)
	if err != nil {
		t.Fatalf("Accept by A: %v", err)
	}
	if afterFirst.Status != models.MatchStatusPending {
		t.Fatalf("expected still pending after one acceptance, got %q", afterFirst.Status)
	}

	afterBoth, err := matchService.Accept(ctx, memberB, match.ID, now)
	if err != nil {
		t.Fatalf("Accept by B: %v", err)
	}
	if afterBoth.Status != models.MatchStatusAccepted {
		t.Fatalf("expected accepted match, got %q", afterBoth.Status)
	}
	if afterBoth.SessionA.Status != models.SessionStatusMatched ||
		afterBoth.SessionB.Status != models.SessionStatusMatched {
		t.Fatalf("expected both sessions matched, got %q and %q",
			afterBoth.SessionA.Status, afterBoth.SessionB.Status)
	}

	delivery, err := chatService.SendMessage(ctx, memberA, match.ID, "See you at six!", "")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if delivery.RecipientID != memberB {
		t.Fatalf("expected recipient %d, got %d", memberB, delivery.RecipientID)
	}

	history, err := chatService.ListMessages(ctx, memberB, match.ID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(history) != 1 || history[0].Body != "See you at six!" {
		t.Fatalf("unexpected history: %+v", history)
	}
	if !history[0].ReadByUser(memberB) {
		t.Fatalf("expected message marked read for recipient, got %v", history[0].ReadBy)
	}
}

func TestMatchDeclineLeavesSessionsActive(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)

	userRepo := repository.NewUserRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	matchRepo := repository.NewMatchRepository(pool)

	sessionService := NewSessionService(sessionRepo, userRepo)
	matchService := NewMatchService(pool, matchRepo, userRepo)

	memberA := createTestMember(t, ctx, pool, "Casey")
	memberB := createTestMember(t, ctx, pool, "Drew")
	t.Cleanup(func() { cleanupTestMembers(t, ctx, pool, memberA, memberB) })

	day := time.Date(2030, 6, 2, 0, 0, 0, 0, time.UTC)
	sessionA, err := sessionService.CreateSession(ctx, memberA, SessionInput{
		Date:            day,
		StartTime:       "07:00",
		DurationMinutes: 45,
		WorkoutType:     models.WorkoutCardio,
		Gym:             "Campus Rec Center",
	})
	if err != nil {
		t.Fatalf("CreateSession A: %v", err)
	}
	sessionB, err := sessionService.CreateSession(ctx, memberB, SessionInput{
		Date:            day,
		StartTime:       "07:10",
		DurationMinutes: 45,
		WorkoutType:     models.WorkoutCardio,
		Gym:             "Campus Rec Center",
	})
	if err != nil {
		t.Fatalf("CreateSession B: %v", err)
	}

	now := time.Now().UTC()
	match, err := matchService.CreateFromCandidate(ctx, memberA, sessionA.ID, sessionB.ID, now)
	if err != nil {
		t.Fatalf("CreateFromCandidate: %v", err)
	}

	declined, err := matchService.Decline(ctx, memberB, match.ID)
	if err != nil {
		t.Fatalf("Decline: %v", err)
	}
	if declined.Status != models.MatchStatusDeclined {
		t.Fatalf("expected declined match, got %q", declined.Status)
	}
	if declined.SessionA.Status != models.SessionStatusActive ||
		declined.SessionB.Status != models.SessionStatusActive {
		t.Fatalf("expected sessions to stay active, got %q and %q",
			declined.SessionA.Status, declined.SessionB.Status)
	}
}

func integrationTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	testDBOnce.Do(func() {
		_ = godotenv.Load(".env")
		_ = godotenv.Load(filepath.Join("..", "..", ".env"))

		dbURL := os.Getenv("TEST_DB_URL")
		if dbURL == "" {
			dbURL = os.Getenv("DB_URL")
		}
		if dbURL == "" {
			testDBErr = fmt.Errorf("TEST_DB_URL is not set")
			return
		}

		cfg, err := pgxpool.ParseConfig(dbURL)
		if err != nil {
			testDBErr = err
			return
		}

		testDBPool, testDBErr = pgxpool.NewWithConfig(context.Background(), cfg)
		if testDBErr != nil {
			return
		}
		testDBErr = testDBPool.Ping(context.Background())
	})

	if testDBErr != nil {
		t.Skipf("skipping integration test: %v", testDBErr)
	}
	return testDBPool
}

func createTestMember(t *testing.T, ctx context.Context, pool *pgxpool.Pool, name string) int64 {
	t.Helper()

	userRepo := repository.NewUserRepository(pool)
	user := &models.User{
		Email:        fmt.Sprintf("match-test-%s-%d@example.com", name, time.Now().UnixNano()),
		PasswordHash: "test-hash",
		Name:         name,
		School:       "state-u",
		Gender:       models.GenderFemale,
		Birthday:     time.Date(2004, 1, 15, 0, 0, 0, 0, time.UTC),
		Age:          22,
		HomeGym:      "Campus Rec Center",
		Motivation:   "consistency",
		Preferences: models.UserPreferences{
			AgeMin:          18,
			AgeMax:          30,
			PreferredGender: models.PreferredGenderAny,
			WorkoutTypes:    []string{models.WorkoutStrength, models.WorkoutCardio},
		},
	}
	if err := userRepo.Create(ctx, user); err != nil {
		t.Fatalf("Create user %s: %v", name, err)
	}
	return user.ID
}

func cleanupTestMembers(t *testing.T, ctx context.Context, pool *pgxpool.Pool, userIDs ...int64) {
	t.Helper()

	if len(userIDs) == 0 {
		return
	}

	if _, err := pool.Exec(ctx, "DELETE FROM messages WHERE sender_id = ANY($1) OR match_id IN (SELECT id FROM matches WHERE user_a = ANY($1) OR user_b = ANY($1))", userIDs); err != nil {
		t.Fatalf("cleanup messages: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM matches WHERE user_a = ANY($1) OR user_b = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup matches: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM sessions WHERE creator_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup sessions: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM users WHERE id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup users: %v", err)
	}
}
