package models

import "time"

type ThemeColors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Surface    string `json:"surface"`
	Text       string `json:"text"`
}

type ThemeLogos struct {
	Main   string `json:"main"`
	Icon   string `json:"icon"`
	Splash string `json:"splash"`
}

type ThemeFonts struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// Theme is per-school branding the mobile client applies at startup.
type Theme struct {
	ID          int64       `json:"id,omitempty"`
	School      string      `json:"school"`
	DisplayName string      `json:"displayName"`
	Colors      ThemeColors `json:"colors"`
	Logos       ThemeLogos  `json:"logos"`
	Fonts       ThemeFonts  `json:"fonts"`
	IsActive    bool        `json:"is_active,omitempty"`
	CreatedAt   time.Time   `json:"created_at,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at,omitempty"`
}

// ThemeSummary is the trimmed shape of the theme listing endpoints.
type ThemeSummary struct {
	School      string      `json:"school"`
	DisplayName string      `json:"displayName"`
	Colors      ThemeColors `json:"colors"`
}

// SchoolOption is what the registration screen's school picker consumes.
type SchoolOption struct {
	School      string `json:"school"`
	DisplayName string `json:"displayName"`
}

// DefaultTheme is served when a school has no branding of its own.
func DefaultTheme() Theme {
	return Theme{
		School:      "default",
		DisplayName: "Default",
		Colors: ThemeColors{
			Primary:    "#6366f1",
			Secondary:  "#8b5cf6",
			Accent:     "#06b6d4",
			Background: "#ffffff",
			Surface:    "#f8fafc",
			Text:       "#1e293b",
		},
		Logos: ThemeLogos{
			Main:   "/assets/logo-main.png",
			Icon:   "/assets/logo-icon.png",
			Splash: "/assets/logo-splash.png",
		},
		Fonts: ThemeFonts{
			Primary:   "Inter",
			Secondary: "Inter",
		},
	}
}
