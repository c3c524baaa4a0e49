package matching

import (
	"fmt"
	"testing"
	"time"

	"github.com/bilgehangul/gymbuddy-expo/internal/models"
)

var rankDay = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func buildPoolEntry(sessionID int64, day time.Time, startTime, workoutType string) models.SessionWithOwner {
	return models.SessionWithOwner{
		Session: models.WorkoutSession{
			ID:              sessionID,
			CreatorID:       sessionID + 1000,
			Date:            day,
			StartTime:       startTime,
			WorkoutType:     workoutType,
			PreferredAgeMin: 18,
			PreferredAgeMax: 100,
			PreferredGender: models.PreferredGenderAny,
			Status:          models.SessionStatusActive,
		},
		Owner: models.User{
			ID:         sessionID + 1000,
			Age:        25,
			Gender:     models.GenderFemale,
			School:     "UBC",
			Motivation: "health",
		},
	}
}

func buildCallerSession(sessionID int64, day time.Time, startTime, workoutType string) models.WorkoutSession {
	return models.WorkoutSession{
		ID:              sessionID,
		Date:            day,
		StartTime:       startTime,
		WorkoutType:     workoutType,
		PreferredAgeMin: 18,
		PreferredAgeMax: 100,
		PreferredGender: models.PreferredGenderAny,
		Status:          models.SessionStatusActive,
	}
}

func rankCaller() models.User {
	return models.User{
		ID:         1,
		Age:        25,
		Gender:     models.GenderMale,
		School:     "SFU",
		Motivation: "social",
	}
}

func TestRankCandidatesAppliesGatesAndThreshold(t *testing.T) {
	caller := rankCaller()
	own := []models.WorkoutSession{buildCallerSession(1, rankDay, "09:00", models.WorkoutStrength)}

	otherDay := buildPoolEntry(2, rankDay.AddDate(0, 0, 1), "09:00", models.WorkoutStrength)
	otherType := buildPoolEntry(3, rankDay, "09:00", models.WorkoutCardio)
	genderBlocked := buildPoolEntry(4, rankDay, "09:00", models.WorkoutStrength)
	genderBlocked.Session.PreferredGender = models.PreferredGenderFemale
	// 45 minutes away and mutual age fit only: 30 is right on the threshold,
	// but the next one at 60 minutes with a narrowed window falls below.
	atThreshold := buildPoolEntry(5, rankDay, "09:45", models.WorkoutStrength)
	belowThreshold := buildPoolEntry(6, rankDay, "10:00", models.WorkoutStrength)
	belowThreshold.Session.PreferredAgeMin = 60
	belowThreshold.Session.PreferredAgeMax = 70
	belowThreshold.Owner.Age = 65

	candidates := RankCandidates(caller, own, []models.SessionWithOwner{
		otherDay, otherType, genderBlocked, atThreshold, belowThreshold,
	})

	if len(candidates) != 1 {
		t.Fatalf("expected exactly one surviving candidate, got %d", len(candidates))
	}
	if candidates[0].Session.ID != 5 {
		t.Fatalf("expected session 5 to survive, got %d", candidates[0].Session.ID)
	}
	if candidates[0].Score != 30 {
		t.Fatalf("expected threshold score 30, got %d", candidates[0].Score)
	}
	if candidates[0].UserSessionID != 1 {
		t.Fatalf("expected candidate tagged with caller session 1, got %d", candidates[0].UserSessionID)
	}
}

func TestRankCandidatesCapsPerSessionAtTen(t *testing.T) {
	caller := rankCaller()
	own := []models.WorkoutSession{buildCallerSession(1, rankDay, "09:00", models.WorkoutStrength)}

	pool := make([]models.SessionWithOwner, 0, 15)
	for i := int64(0); i < 15; i++ {
		pool = append(pool, buildPoolEntry(100+i, rankDay, "09:00", models.WorkoutStrength))
	}

	candidates := RankCandidates(caller, own, pool)
	if len(candidates) != 10 {
		t.Fatalf("expected per-session cap of 10, got %d", len(candidates))
	}
}

func TestRankCandidatesCapsMergedResultAtTwenty(t *testing.T) {
	caller := rankCaller()
	own := []models.WorkoutSession{
		buildCallerSession(1, rankDay, "09:00", models.WorkoutStrength),
		buildCallerSession(2, rankDay, "09:00", models.WorkoutStrength),
		buildCallerSession(3, rankDay, "09:00", models.WorkoutStrength),
	}

	pool := make([]models.SessionWithOwner, 0, 12)
	for i := int64(0); i < 12; i++ {
		pool = append(pool, buildPoolEntry(100+i, rankDay, "09:00", models.WorkoutStrength))
	}

	candidates := RankCandidates(caller, own, pool)
	if len(candidates) != 20 {
		t.Fatalf("expected merged cap of 20, got %d", len(candidates))
	}
}

func TestRankCandidatesOrdersByScoreDescending(t *testing.T) {
	caller := rankCaller()
	own := []models.WorkoutSession{buildCallerSession(1, rankDay, "09:00", models.WorkoutStrength)}

	near := buildPoolEntry(10, rankDay, "09:05", models.WorkoutStrength)
	exact := buildPoolEntry(11, rankDay, "09:00", models.WorkoutStrength)
	far := buildPoolEntry(12, rankDay, "09:25", models.WorkoutStrength)

	candidates := RankCandidates(caller, own, []models.SessionWithOwner{near, exact, far})
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Score > candidates[i-1].Score {
			t.Fatalf("candidates out of order: %d before %d",
				candidates[i-1].Score, candidates[i].Score)
		}
	}
	if candidates[0].Session.ID != 11 {
		t.Fatalf("expected exact-time session first, got %d", candidates[0].Session.ID)
	}
}

func TestRankCandidatesTiesKeepEncounterOrder(t *testing.T) {
	caller := rankCaller()
	own := []models.WorkoutSession{buildCallerSession(1, rankDay, "09:00", models.WorkoutStrength)}

	pool := []models.SessionWithOwner{
		buildPoolEntry(21, rankDay, "09:00", models.WorkoutStrength),
		buildPoolEntry(22, rankDay, "09:00", models.WorkoutStrength),
		buildPoolEntry(23, rankDay, "09:00", models.WorkoutStrength),
	}

	candidates := RankCandidates(caller, own, pool)
	for i, want := range []int64{21, 22, 23} {
		if candidates[i].Session.ID != want {
			t.Fatalf("tie order broken at %d: expected %d, got %d",
				i, want, candidates[i].Session.ID)
		}
	}
}

func TestRankCandidatesEmptyInputsYieldEmptyList(t *testing.T) {
	caller := rankCaller()

	if got := RankCandidates(caller, nil, nil); len(got) != 0 {
		t.Fatalf("expected empty result for no sessions, got %d", len(got))
	}

	own := []models.WorkoutSession{buildCallerSession(1, rankDay, "09:00", models.WorkoutStrength)}
	if got := RankCandidates(caller, own, nil); len(got) != 0 {
		t.Fatalf("expected empty result for empty pool, got %d", len(got))
	}
}

func TestRankCandidatesExampleFromProductSpecExercise(t *testing.T) {
	// 09:00 vs 09:15, mutual age fit, different school and motivation:
	// 20 + 30 = 50 with a single age reason.
	caller := models.User{ID: 1, Age: 24, Gender: models.GenderMale, School: "SFU", Motivation: "social"}
	own := []models.WorkoutSession{{
		ID: 1, Date: rankDay, StartTime: "09:00",
		WorkoutType:     models.WorkoutStrength,
		PreferredAgeMin: 20, PreferredAgeMax: 30,
		PreferredGender: models.PreferredGenderAny,
	}}
	pool := []models.SessionWithOwner{{
		Session: models.WorkoutSession{
			ID: 2, CreatorID: 9, Date: rankDay, StartTime: "09:15",
			WorkoutType:     models.WorkoutStrength,
			PreferredAgeMin: 20, PreferredAgeMax: 30,
			PreferredGender: models.PreferredGenderAny,
		},
		Owner: models.User{ID: 9, Age: 26, Gender: models.GenderFemale, School: "UBC", Motivation: "health"},
	}}

	candidates := RankCandidates(caller, own, pool)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].Score != 50 {
		t.Fatalf("expected score 50, got %d", candidates[0].Score)
	}
	if len(candidates[0].Reasons) != 1 || candidates[0].Reasons[0] != "Compatible age preferences" {
		t.Fatalf("unexpected reasons: %v", candidates[0].Reasons)
	}
}

func BenchmarkRankCandidates(b *testing.B) {
	caller := rankCaller()
	own := make([]models.WorkoutSession, 0, 5)
	for i := int64(0); i < 5; i++ {
		own = append(own, buildCallerSession(i, rankDay, fmt.Sprintf("0%d:00", 7+i), models.WorkoutStrength))
	}
	pool := make([]models.SessionWithOwner, 0, 200)
	for i := int64(0); i < 200; i++ {
		pool = append(pool, buildPoolEntry(100+i, rankDay, "09:00", models.WorkoutStrength))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		RankCandidates(caller, own, pool)
	}
}
