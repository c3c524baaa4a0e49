package matching

import (
	"sort"

	"github.com/bilgehangul/gymbuddy-expo/internal/models"
)

const (
	// AdmissionThreshold is the minimum score worth surfacing to a member.
	AdmissionThreshold = 30

	perSessionLimit = 10
	resultLimit     = 20
)

// Candidate is an ephemeral, recomputed pairing between one of the caller's
// sessions and another member's session. It is never persisted; accepting one
// turns it into a Match downstream.
type Candidate struct {
	Session       models.WorkoutSession `json:"session"`
	User          models.PublicUser     `json:"user"`
	Score         int                   `json:"score"`
	Reasons       []string              `json:"reasons"`
	UserSessionID int64                 `json:"userSession"`
}

// RankCandidates evaluates every pool session against each of the caller's
// sessions and returns the merged ranked list. A candidate must share the
// calendar day and workout type, pass the gender filter both ways, and score
// at least AdmissionThreshold. Each caller session contributes at most 10
// candidates and the merged result is capped at 20. Sorts are stable, so ties
// keep encounter order.
//
// Empty inputs yield an empty list; there is no error path.
func RankCandidates(caller models.User, callerSessions []models.WorkoutSession, pool []models.SessionWithOwner) []Candidate {
	merged := make([]Candidate, 0)

	for _, own := range callerSessions {
		sessionMatches := make([]Candidate, 0)

		for _, entry := range pool {
			if !sameCalendarDay(own, entry.Session) {
				continue
			}
			if own.WorkoutType != entry.Session.WorkoutType {
				continue
			}
			if !IsGenderCompatible(own, caller, entry.Session, entry.Owner) {
				continue
			}

			score, reasons := ScorePair(own, caller, entry.Session, entry.Owner)
			if score < AdmissionThreshold {
				continue
			}

			sessionMatches = append(sessionMatches, Candidate{
				Session:       entry.Session,
				User:          entry.Owner.Public(),
				Score:         score,
				Reasons:       reasons,
				UserSessionID: own.ID,
			})
		}

		sort.SliceStable(sessionMatches, func(i, j int) bool {
			return sessionMatches[i].Score > sessionMatches[j].Score
		})
		if len(sessionMatches) > perSessionLimit {
			sessionMatches = sessionMatches[:perSessionLimit]
		}
		merged = append(merged, sessionMatches...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > resultLimit {
		merged = merged[:resultLimit]
	}

	return merged
}

func sameCalendarDay(a, b models.WorkoutSession) bool {
	yearA, monthA, dayA := a.Date.Date()
	yearB, monthB, dayB := b.Date.Date()
	return yearA == yearB && monthA == monthB && dayA == dayB
}
