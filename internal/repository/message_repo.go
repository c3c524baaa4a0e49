package repository

import (
	"context"

	"github.com/bilgehangul/gymbuddy-expo/internal/models"
)

type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(
	ctx context.Context,
	matchID int64,
	senderID int64,
	body string,
	messageType string,
) (*models.Message, error) {
	// The sender has trivially read their own message.
	query := `
		INSERT INTO messages (match_id, sender_id, body, message_type, read_by)
		VALUES ($1, $2, $3, $4, ARRAY[$2]::bigint[])
		RETURNING id, match_id, sender_id, body, message_type, read_by, created_at
	`

	var message models.Message
	err := r.db.QueryRow(ctx, query, matchID, senderID, body, messageType).Scan(
		&message.ID,
		&message.MatchID,
		&message.SenderID,
		&message.Body,
		&message.MessageType,
		&message.ReadBy,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &message, nil
}

// ListByMatch returns a match's full message history, oldest first, with the
// sender fields the chat screen renders.
func (r *MessageRepository) ListByMatch(
	ctx context.Context,
	matchID int64,
) ([]models.MessageWithSender, error) {
	query := `
		SELECT m.id, m.match_id, m.sender_id, m.body, m.message_type, m.read_by, m.created_at,
			   u.name, u.photo_url
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.match_id = $1
		ORDER BY m.created_at ASC, m.id ASC
	`

	rows, err := r.db.Query(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.MessageWithSender, 0)
	for rows.Next() {
		var message models.MessageWithSender
		if err := rows.Scan(
			&message.ID,
			&message.MatchID,
			&message.SenderID,
			&message.Body,
			&message.MessageType,
			&message.ReadBy,
			&message.CreatedAt,
			&message.SenderName,
			&message.SenderPhotoURL,
		); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

// MarkMatchRead records the reader on every counterpart message they have
// not seen yet.
func (r *MessageRepository) MarkMatchRead(
	ctx context.Context,
	matchID int64,
	readerID int64,
) error {
	_, err := r.db.Exec(ctx, `
		UPDATE messages
		SET read_by = array_append(read_by, $2)
		WHERE match_id = $1
		  AND sender_id <> $2
		  AND NOT ($2 = ANY(read_by))
	`, matchID, readerID)
	return err
}
