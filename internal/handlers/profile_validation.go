package handlers

import (
	"strings"

	"github.com/bilgehangul/gymbuddy-expo/internal/models"
)

func validateProfileUpdateRequest(req updateProfileRequest) string {
	if req.Name != nil && len(strings.TrimSpace(*req.Name)) < 2 {
		return "name must be at least 2 characters"
	}
	if req.HomeGym != nil && strings.TrimSpace(*req.HomeGym) == "" {
		return "homeGym must not be empty"
	}
	if req.Motivation != nil && strings.TrimSpace(*req.Motivation) == "" {
		return "motivation must not be empty"
	}
	if req.Preferences != nil {
		if err := validatePreferences(*req.Preferences); err != "" {
			return err
		}
	}
	return ""
}

func validatePreferences(prefs updatePreferencesBody) string {
	if prefs.AgeMin != nil && (*prefs.AgeMin < 18 || *prefs.AgeMin > 100) {
		return "preferences.ageMin must be between 18 and 100"
	}
	if prefs.AgeMax != nil && (*prefs.AgeMax < 18 || *prefs.AgeMax > 100) {
		return "preferences.ageMax must be between 18 and 100"
	}
	if prefs.AgeMin != nil && prefs.AgeMax != nil && *prefs.AgeMin >= *prefs.AgeMax {
		return "preferences.ageMin must be less than preferences.ageMax"
	}
	if prefs.PreferredGender != nil && !models.ValidPreferredGender(*prefs.PreferredGender) {
		return "preferences.preferredGender must be one of: male, female, any"
	}
	if prefs.WorkoutTypes != nil {
		if len(*prefs.WorkoutTypes) == 0 {
			return "preferences.workoutTypes must contain at least one item"
		}
		for _, workoutType := range *prefs.WorkoutTypes {
			if !models.ValidWorkoutType(workoutType) {
				return "preferences.workoutTypes must only contain: strength, cardio, flexibility, sports"
			}
		}
	}
	return ""
}
