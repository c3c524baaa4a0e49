package services

import (
	"context"
	"strings"
	"time"

	"github.com/bilgehangul/gymbuddy-expo/internal/models"
	"github.com/bilgehangul/gymbuddy-expo/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatService struct {
	db          *pgxpool.Pool
	matchRepo   *repository.MatchRepository
	messageRepo *repository.MessageRepository
}

func NewChatService(
	db *pgxpool.Pool,
	matchRepo *repository.MatchRepository,
	messageRepo *repository.MessageRepository,
) *ChatService {
	return &ChatService{
		db:          db,
		matchRepo:   matchRepo,
		messageRepo: messageRepo,
	}
}

// ChatDelivery carries a stored message together with who should receive it,
// so the websocket hub can fan it out without re-reading the match.
type ChatDelivery struct {
	Match       *models.Match
	Message     *models.Message
	RecipientID int64
}

// ListMessages returns the match's history for a participant and marks the
// counterpart's messages as read in the same transaction, so the history the
// caller sees is the history they are recorded as having seen.
func (s *ChatService) ListMessages(
	ctx context.Context,
	userID int64,
	matchID int64,
) ([]models.MessageWithSender, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasParticipant(userID) {
		return nil, ErrForbidden
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMessageRepo := repository.NewMessageRepository(tx)
	if err := txMessageRepo.MarkMatchRead(ctx, matchID, userID); err != nil {
		return nil, err
	}
	messages, err := txMessageRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return messages, nil
}

// SendMessage validates and persists a chat message. Chat only opens once
// both sides have accepted the match.
func (s *ChatService) SendMessage(
	ctx context.Context,
	senderID int64,
	matchID int64,
	body string,
	messageType string,
) (*ChatDelivery, error) {
	body = strings.TrimSpace(body)
	if body == "" || len(body) > models.MessageMaxLength {
		return nil, ErrInvalidInput
	}
	if messageType == "" {
		messageType = models.MessageTypeText
	}
	if messageType != models.MessageTypeText && messageType != models.MessageTypeImage {
		return nil, ErrInvalidInput
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasParticipant(senderID) {
		return nil, ErrForbidden
	}
	if match.Status != models.MatchStatusAccepted {
		return nil, ErrMatchNotAccepted
	}

	message, err := s.messageRepo.Create(ctx, matchID, senderID, body, messageType)
	if err != nil {
		return nil, err
	}

	return &ChatDelivery{
		Match:       match,
		Message:     message,
		RecipientID: match.CounterpartID(senderID),
	}, nil
}

// Counterpart resolves who sits on the other side of a match, for realtime
// relays that carry no message body.
func (s *ChatService) Counterpart(
	ctx context.Context,
	userID int64,
	matchID int64,
) (int64, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return 0, err
	}
	if !match.HasParticipant(userID) {
		return 0, ErrForbidden
	}
	return match.CounterpartID(userID), nil
}

// FormatChatTimestamp renders timestamps the way the mobile client expects
// them on the wire.
func FormatChatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
