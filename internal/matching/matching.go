// Package matching scores compatibility between proposed workout sessions and
// ranks partner candidates. Everything in here is pure: inputs are snapshots
// supplied by the caller and nothing is persisted.
package matching

import (
	"math"
	"strconv"
	"strings"

	"github.com/bilgehangul/gymbuddy-expo/internal/models"
)

const (
	timeWindowMinutes = 30
	maxTimeScore      = 40
	maxAgeScore       = 30
	schoolBonus       = 20
	motivationBonus   = 10
	maxScore          = 100

	timeReasonThreshold = 30
	ageReasonThreshold  = 15
)

// IsGenderCompatible reports whether both sessions accept the counterpart's
// gender. "any" accepts everyone; otherwise the preference must equal the
// other member's gender exactly. A member whose gender is "other" therefore
// only passes a preference of "any" — there is no "other" preference value.
func IsGenderCompatible(sessionA models.WorkoutSession, userA models.User, sessionB models.WorkoutSession, userB models.User) bool {
	aAcceptsB := sessionA.PreferredGender == models.PreferredGenderAny ||
		sessionA.PreferredGender == userB.Gender
	bAcceptsA := sessionB.PreferredGender == models.PreferredGenderAny ||
		sessionB.PreferredGender == userA.Gender

	return aAcceptsB && bAcceptsA
}

// ScorePair computes the 0-100 compatibility score between two session/owner
// pairs together with the human-readable reasons the client shows. Reasons
// keep a fixed evaluation order: time, age, school, motivation.
//
// Inputs are assumed well-formed ("HH:MM" start times, numeric ages,
// min<=max preference windows); validation happens at the API boundary.
func ScorePair(sessionA models.WorkoutSession, userA models.User, sessionB models.WorkoutSession, userB models.User) (int, []string) {
	score := 0
	reasons := make([]string, 0, 4)

	// Time proximity within ±30 minutes: up to 40 points.
	timeDiff := clockMinutes(sessionA.StartTime) - clockMinutes(sessionB.StartTime)
	if timeDiff < 0 {
		timeDiff = -timeDiff
	}
	if timeDiff <= timeWindowMinutes {
		timeScore := int(math.Round(maxTimeScore * (1 - float64(timeDiff)/timeWindowMinutes)))
		score += timeScore
		if timeScore >= timeReasonThreshold {
			reasons = append(reasons, "Similar workout times")
		}
	}

	// Age preference overlap: up to 30 points.
	overlap := ageOverlap(
		sessionA.PreferredAgeMin, sessionA.PreferredAgeMax,
		sessionB.PreferredAgeMin, sessionB.PreferredAgeMax,
		userA.Age, userB.Age,
	)
	if overlap > 0 {
		ageScore := int(math.Round(maxAgeScore * overlap))
		score += ageScore
		if ageScore >= ageReasonThreshold {
			reasons = append(reasons, "Compatible age preferences")
		}
	}

	if userA.School == userB.School {
		score += schoolBonus
		reasons = append(reasons, "Same school")
	}

	if userA.Motivation == userB.Motivation {
		score += motivationBonus
		reasons = append(reasons, "Similar motivation")
	}

	if score > maxScore {
		score = maxScore
	}
	return score, reasons
}

// ageOverlap returns a fraction in [0,1]: full credit when each member's age
// falls inside the other session's preferred window, half credit when only
// one does, otherwise the relative intersection of the two windows.
func ageOverlap(minA, maxA, minB, maxB, ageA, ageB int) float64 {
	aInBRange := ageA >= minB && ageA <= maxB
	bInARange := ageB >= minA && ageB <= maxA

	if aInBRange && bInARange {
		return 1
	}
	if aInBRange || bInARange {
		return 0.5
	}

	overlapMin := minA
	if minB > overlapMin {
		overlapMin = minB
	}
	overlapMax := maxA
	if maxB < overlapMax {
		overlapMax = maxB
	}

	if overlapMin <= overlapMax {
		widest := maxA - minA
		if maxB-minB > widest {
			widest = maxB - minB
		}
		if widest == 0 {
			// Two touching zero-width windows carry no usable signal.
			return 0
		}
		return float64(overlapMax-overlapMin) / float64(widest)
	}

	return 0
}

// clockMinutes converts an "HH:MM" wall-clock string to minutes since
// midnight. Malformed components count as zero.
func clockMinutes(clock string) int {
	hours, minutes, _ := strings.Cut(clock, ":")
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	return h*60 + m
}
