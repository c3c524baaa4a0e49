package models

import "time"

const (
	MessageTypeText   = "text"
	MessageTypeImage  = "image"
	MessageTypeSystem = "system"

	MessageMaxLength = 1000
)

type Message struct {
	ID          int64     `json:"id"`
	MatchID     int64     `json:"match_id"`
	SenderID    int64     `json:"sender_id"`
	Body        string    `json:"text"`
	MessageType string    `json:"message_type"`
	ReadBy      []int64   `json:"read_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// MessageWithSender carries the sender fields the chat list renders next to
// each bubble.
type MessageWithSender struct {
	Message
	SenderName     string  `json:"sender_name"`
	SenderPhotoURL *string `json:"sender_photo_url"`
}

func (m *Message) ReadByUser(userID int64) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}
