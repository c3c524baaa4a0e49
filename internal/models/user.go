package models

import "time"

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"

	PreferredGenderMale   = "male"
	PreferredGenderFemale = "female"
	PreferredGenderAny    = "any"
)

type UserPreferences struct {
	AgeMin          int      `json:"ageMin"`
	AgeMax          int      `json:"ageMax"`
	PreferredGender string   `json:"preferredGender"`
	WorkoutTypes    []string `json:"workoutTypes"`
}

type User struct {
	ID           int64           `json:"id"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Name         string          `json:"name"`
	School       string          `json:"school"`
	Gender       string          `json:"gender"`
	Birthday     time.Time       `json:"birthday"`
	Age          int             `json:"age"`
	HomeGym      string          `json:"home_gym"`
	Motivation   string          `json:"motivation"`
	Description  *string         `json:"description"`
	PhotoURL     *string         `json:"photo_url"`
	Preferences  UserPreferences `json:"preferences"`
	IsActive     bool            `json:"is_active"`
	RefreshToken *string         `json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PublicUser is the shape other members are allowed to see: the full record
// minus credentials and account plumbing.
type PublicUser struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	School      string  `json:"school"`
	Gender      string  `json:"gender"`
	Age         int     `json:"age"`
	HomeGym     string  `json:"home_gym"`
	Motivation  string  `json:"motivation"`
	Description *string `json:"description"`
	PhotoURL    *string `json:"photo_url"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Name:        u.Name,
		School:      u.School,
		Gender:      u.Gender,
		Age:         u.Age,
		HomeGym:     u.HomeGym,
		Motivation:  u.Motivation,
		Description: u.Description,
		PhotoURL:    u.PhotoURL,
	}
}
