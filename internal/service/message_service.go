package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/observability"
	"warbler/internal/repository"
	"warbler/internal/validation"
)

// MessageService handles writing, reading and removing messages.
type MessageService struct {
	messageRepo repository.MessageRepository
	now         func() time.Time
}

// NewMessageService returns a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo, now: time.Now}
}

// Post stores a new message by authorID, stamped with the current UTC time.
func (s *MessageService) Post(ctx context.Context, authorID uint, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if err := validation.ValidateMessageText(text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	msg := &models.Message{
		Text:      text,
		Timestamp: s.now().UTC(),
		UserID:    authorID,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	observability.MessageEvents.WithLabelValues("posted").Inc()
	return msg, nil
}

func (s *MessageService) Get(ctx context.Context, id uint) (*models.Message, error) {
	return s.messageRepo.GetByID(ctx, id)
}

// Delete removes messageID on behalf of actorID, who must be its author.
func (s *MessageService) Delete(ctx context.Context, actorID, messageID uint) error {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.UserID != actorID {
		middleware.Logger.WarnContext(ctx, "refused to delete another user's message",
			slog.Uint64("message_id", uint64(messageID)),
			slog.Uint64("author_id", uint64(msg.UserID)),
		)
		return models.NewUnauthorizedError("Access unauthorized.")
	}

	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return err
	}
	observability.MessageEvents.WithLabelValues("deleted").Inc()
	return nil
}

// ForUser lists userID's messages, newest first.
func (s *MessageService) ForUser(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return s.messageRepo.ListByUser(ctx, userID, limit)
}
