package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/observability"
	"warbler/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultFeedLimit bounds a home feed when no limit is configured.
const DefaultFeedLimit = 100

// FeedService assembles home timelines.
type FeedService struct {
	messageRepo  repository.MessageRepository
	defaultLimit int
}

// NewFeedService returns a FeedService whose feeds hold at most defaultLimit messages.
func NewFeedService(messageRepo repository.MessageRepository, defaultLimit int) *FeedService {
	if defaultLimit <= 0 {
		defaultLimit = DefaultFeedLimit
	}
	return &FeedService{messageRepo: messageRepo, defaultLimit: defaultLimit}
}

// Home returns the newest messages by viewerID and everyone viewerID follows.
// A non-positive limit uses the service default.
func (s *FeedService) Home(ctx context.Context, viewerID uint, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}

	span, ctx := observability.NewSpan(ctx, "feed.home",
		attribute.Int64("viewer.id", int64(viewerID)),
		attribute.Int("feed.limit", limit),
	)
	defer span.End()

	msgs, err := s.messageRepo.Feed(ctx, viewerID, limit)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	span.AddAttributes(attribute.Int("feed.size", len(msgs)))
	observability.FeedSize.Observe(float64(len(msgs)))
	return msgs, nil
}
