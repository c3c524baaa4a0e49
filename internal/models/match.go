package models

import "time"

const (
	MatchStatusPending  = "pending"
	MatchStatusAccepted = "accepted"
	MatchStatusDeclined = "declined"
	MatchStatusExpired  = "expired"

	// Matches that nobody acts on disappear after a day.
	MatchTTL = 24 * time.Hour
)

type Match struct {
	ID         int64     `json:"id"`
	SessionAID int64     `json:"session_a"`
	SessionBID int64     `json:"session_b"`
	UserAID    int64     `json:"user_a"`
	UserBID    int64     `json:"user_b"`
	Score      int       `json:"score"`
	Status     string    `json:"status"`
	AcceptedBy []int64   `json:"accepted_by"`
	ExpiresAt  time.Time `json:"expires_at"`
	ChatRoomID string    `json:"chat_room_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MatchDetail is a match populated with both sessions and both members,
// the shape the client renders on the matches screen.
type MatchDetail struct {
	Match
	SessionA WorkoutSession `json:"sessionA"`
	SessionB WorkoutSession `json:"sessionB"`
	UserA    PublicUser     `json:"userA"`
	UserB    PublicUser     `json:"userB"`
}

func (m *Match) HasParticipant(userID int64) bool {
	return m.UserAID == userID || m.UserBID == userID
}

func (m *Match) AcceptedByUser(userID int64) bool {
	for _, id := range m.AcceptedBy {
		if id == userID {
			return true
		}
	}
	return false
}

func (m *Match) Expired(now time.Time) bool {
	return m.Status == MatchStatusExpired || !m.ExpiresAt.After(now)
}

// CounterpartID returns the other participant of the match.
func (m *Match) CounterpartID(userID int64) int64 {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}
