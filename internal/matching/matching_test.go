package matching

import (
	"reflect"
	"testing"

	"github.com/bilgehangul/gymbuddy-expo/internal/models"
)

func buildSession(startTime string, ageMin, ageMax int, preferredGender string) models.WorkoutSession {
	return models.WorkoutSession{
		StartTime:       startTime,
		PreferredAgeMin: ageMin,
		PreferredAgeMax: ageMax,
		PreferredGender: preferredGender,
		WorkoutType:     models.WorkoutStrength,
	}
}

func buildUser(age int, gender, school, motivation string) models.User {
	return models.User{
		Age:        age,
		Gender:     gender,
		School:     school,
		Motivation: motivation,
	}
}

func TestScorePairIdenticalTimesAwardFullTimeScore(t *testing.T) {
	sessionA := buildSession("09:00", 20, 30, models.PreferredGenderAny)
	sessionB := buildSession("09:00", 40, 50, models.PreferredGenderAny)
	userA := buildUser(35, models.GenderMale, "UBC", "health")
	userB := buildUser(35, models.GenderFemale, "SFU", "social")

	score, reasons := ScorePair(sessionA, userA, sessionB, userB)
	if score != 40 {
		t.Fatalf("expected time-only score 40, got %d", score)
	}
	if !reflect.DeepEqual(reasons, []string{"Similar workout times"}) {
		t.Fatalf("unexpected reasons: %v", reasons)
	}
}

func TestScorePairTimeDifferenceBeyondWindowScoresZero(t *testing.T) {
	sessionA := buildSession("09:00", 20, 30, models.PreferredGenderAny)
	sessionB := buildSession("09:45", 40, 50, models.PreferredGenderAny)
	userA := buildUser(35, models.GenderMale, "UBC", "health")
	userB := buildUser(35, models.GenderFemale, "SFU", "social")

	score, reasons := ScorePair(sessionA, userA, sessionB, userB)
	if score != 0 {
		t.Fatalf("expected score 0, got %d", score)
	}
	if len(reasons) != 0 {
		t.Fatalf("expected no reasons, got %v", reasons)
	}
}

func TestScorePairFifteenMinuteGapScoresTwentyWithoutReason(t *testing.T) {
	// Δ=15 → round(40*(1-15/30)) = 20, below the 30-point reason threshold.
	sessionA := buildSession("09:00", 20, 30, models.PreferredGenderAny)
	sessionB := buildSession("09:15", 20, 30, models.PreferredGenderAny)
	userA := buildUser(24, models.GenderMale, "UBC", "health")
	userB := buildUser(26, models.GenderFemale, "SFU", "social")

	score, reasons := ScorePair(sessionA, userA, sessionB, userB)
	if score != 50 {
		t.Fatalf("expected 20 time + 30 age = 50, got %d", score)
	}
	if !reflect.DeepEqual(reasons, []string{"Compatible age preferences"}) {
		t.Fatalf("unexpected reasons: %v", reasons)
	}
}

func TestScorePairMutualAgeFitAwardsFullAgeScore(t *testing.T) {
	sessionA := buildSession("06:00", 20, 30, models.PreferredGenderAny)
	sessionB := buildSession("18:00", 20, 30, models.PreferredGenderAny)
	userA := buildUser(24, models.GenderMale, "UBC", "health")
	userB := buildUser(26, models.GenderFemale, "SFU", "social")

	score, _ := ScorePair(sessionA, userA, sessionB, userB)
	if score != 30 {
		t.Fatalf("expected age-only score 30, got %d", score)
	}
}

func TestScorePairOneSidedAgeFitAwardsHalfCredit(t *testing.T) {
	// userA (24) fits B's window; userB (60) misses A's → fraction 0.5 → 15.
	sessionA := buildSession("06:00", 20, 30, models.PreferredGenderAny)
	sessionB := buildSession("18:00", 20, 30, models.PreferredGenderAny)
	userA := buildUser(24, models.GenderMale, "UBC", "health")
	userB := buildUser(60, models.GenderFemale, "SFU", "social")

	score, reasons := ScorePair(sessionA, userA, sessionB, userB)
	if score != 15 {
		t.Fatalf("expected one-sided age score 15, got %d", score)
	}
	if !reflect.DeepEqual(reasons, []string{"Compatible age preferences"}) {
		t.Fatalf("unexpected reasons: %v", reasons)
	}
}

func TestScorePairWindowIntersectionFallback(t *testing.T) {
	// Neither age fits, windows [20,30] and [28,48] intersect on [28,30]:
	// fraction 2/20 → round(30*0.1) = 3.
	sessionA := buildSession("06:00", 20, 30, models.PreferredGenderAny)
	sessionB := buildSession("18:00", 28, 48, models.PreferredGenderAny)
	userA := buildUser(55, models.GenderMale, "UBC", "health")
	userB := buildUser(55, models.GenderFemale, "SFU", "social")

	score, reasons := ScorePair(sessionA, userA, sessionB, userB)
	if score != 3 {
		t.Fatalf("expected intersection score 3, got %d", score)
	}
	if len(reasons) != 0 {
		t.Fatalf("expected no reasons below thresholds, got %v", reasons)
	}
}

func TestScorePairDisjointWindowsAndAgesScoreZero(t *testing.T) {
	sessionA := buildSession("09:00", 18, 25, models.PreferredGenderAny)
	sessionB := buildSession("09:45", 40, 50, models.PreferredGenderAny)
	userA := buildUser(60, models.GenderMale, "UBC", "health")
	userB := buildUser(60, models.GenderFemale, "SFU", "social")

	score, reasons := ScorePair(sessionA, userA, sessionB, userB)
	if score != 0 {
		t.Fatalf("expected score 0, got %d", score)
	}
	if len(reasons) != 0 {
		t.Fatalf("expected no reasons, got %v", reasons)
	}
}

func TestScorePairBonusesAreAdditiveAndClamped(t *testing.T) {
	sessionA := buildSession("09:00", 20, 30, models.PreferredGenderAny)
	sessionB := buildSession("09:00", 20, 30, models.PreferredGenderAny)
	userA := buildUser(24, models.GenderMale, "UBC", "get strong")
	userB := buildUser(26, models.GenderFemale, "UBC", "get strong")

	score, reasons := ScorePair(sessionA, userA, sessionB, userB)
	if score != 100 {
		t.Fatalf("expected clamped score 100, got %d", score)
	}
	expected := []string{
		"Similar workout times",
		"Compatible age preferences",
		"Same school",
		"Similar motivation",
	}
	if !reflect.DeepEqual(reasons, expected) {
		t.Fatalf("expected reasons %v, got %v", expected, reasons)
	}
}

func TestScorePairStaysWithinBounds(t *testing.T) {
	times := []string{"00:00", "09:00", "09:10", "23:59"}
	ages := []int{18, 24, 60, 100}
	for _, timeA := range times {
		for _, timeB := range times {
			for _, ageA := range ages {
				for _, ageB := range ages {
					sessionA := buildSession(timeA, 18, 100, models.PreferredGenderAny)
					sessionB := buildSession(timeB, 18, 100, models.PreferredGenderAny)
					userA := buildUser(ageA, models.GenderMale, "UBC", "health")
					userB := buildUser(ageB, models.GenderFemale, "UBC", "health")

					score, _ := ScorePair(sessionA, userA, sessionB, userB)
					if score < 0 || score > 100 {
						t.Fatalf("score %d out of bounds for times %s/%s ages %d/%d",
							score, timeA, timeB, ageA, ageB)
					}
				}
			}
		}
	}
}

func TestIsGenderCompatibleRequiresBothDirections(t *testing.T) {
	anySession := buildSession("09:00", 18, 30, models.PreferredGenderAny)
	maleOnly := buildSession("09:00", 18, 30, models.PreferredGenderMale)
	female := buildUser(24, models.GenderFemale, "UBC", "health")
	male := buildUser(24, models.GenderMale, "UBC", "health")

	// A accepts anyone but B requires male, and the A-side user is female.
	if IsGenderCompatible(anySession, female, maleOnly, male) {
		t.Fatal("expected rejection when only one direction accepts")
	}
	if !IsGenderCompatible(anySession, male, maleOnly, male) {
		t.Fatal("expected acceptance when both directions accept")
	}
}

func TestIsGenderCompatibleOtherOnlyPassesAnyPreference(t *testing.T) {
	anySession := buildSession("09:00", 18, 30, models.PreferredGenderAny)
	femaleOnly := buildSession("09:00", 18, 30, models.PreferredGenderFemale)
	other := buildUser(24, models.GenderOther, "UBC", "health")
	female := buildUser(24, models.GenderFemale, "UBC", "health")

	if !IsGenderCompatible(anySession, female, anySession, other) {
		t.Fatal("expected other gender to pass an any preference")
	}
	if IsGenderCompatible(femaleOnly, female, anySession, other) {
		t.Fatal("expected other gender to fail an explicit preference")
	}
}
