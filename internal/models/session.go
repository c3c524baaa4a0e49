package models

import "time"

const (
	WorkoutStrength    = "strength"
	WorkoutCardio      = "cardio"
	WorkoutFlexibility = "flexibility"
	WorkoutSports      = "sports"

	SessionStatusActive    = "active"
	SessionStatusMatched   = "matched"
	SessionStatusCompleted = "completed"
	SessionStatusCancelled = "cancelled"

	SessionMinDuration = 30
	SessionMaxDuration = 180
)

// WorkoutSession is a member-proposed workout slot looking for a partner.
// StartTime keeps the "HH:MM" wall-clock string the mobile client sends;
// Date carries only the calendar day.
type WorkoutSession struct {
	ID              int64     `json:"id"`
	CreatorID       int64     `json:"creator_id"`
	Date            time.Time `json:"date"`
	StartTime       string    `json:"time"`
	DurationMinutes int       `json:"duration"`
	WorkoutType     string    `json:"workout_type"`
	PreferredAgeMin int       `json:"preferred_age_min"`
	PreferredAgeMax int       `json:"preferred_age_max"`
	PreferredGender string    `json:"preferred_gender"`
	Gym             string    `json:"gym"`
	Description     *string   `json:"description"`
	Status          string    `json:"status"`
	MaxParticipants int       `json:"max_participants"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SessionWithOwner pairs a pool session with its creator's profile, the unit
// the matching engine scores against.
type SessionWithOwner struct {
	Session WorkoutSession
	Owner   User
}

func ValidWorkoutType(workoutType string) bool {
	switch workoutType {
	case WorkoutStrength, WorkoutCardio, WorkoutFlexibility, WorkoutSports:
		return true
	default:
		return false
	}
}

func ValidPreferredGender(preference string) bool {
	switch preference {
	case PreferredGenderMale, PreferredGenderFemale, PreferredGenderAny:
		return true
	default:
		return false
	}
}

func ValidGender(gender string) bool {
	switch gender {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}
