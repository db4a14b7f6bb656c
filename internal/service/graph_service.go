package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/observability"
	"warbler/internal/repository"
)

// ProfileStats are the counters shown in a profile header.
type ProfileStats struct {
	Messages  int64
	Following int64
	Followers int64
}

// GraphService manages who follows whom.
type GraphService struct {
	followRepo  repository.FollowRepository
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
}

// NewGraphService returns a new GraphService.
func NewGraphService(followRepo repository.FollowRepository, userRepo repository.UserRepository, messageRepo repository.MessageRepository) *GraphService {
	return &GraphService{
		followRepo:  followRepo,
		userRepo:    userRepo,
		messageRepo: messageRepo,
	}
}

// IsFollowing reports whether userID follows otherID.
func (s *GraphService) IsFollowing(ctx context.Context, userID, otherID uint) (bool, error) {
	return s.followRepo.Exists(ctx, userID, otherID)
}

// IsFollowedBy reports whether otherID follows userID.
func (s *GraphService) IsFollowedBy(ctx context.Context, userID, otherID uint) (bool, error) {
	return s.followRepo.Exists(ctx, otherID, userID)
}

// Follow makes userID follow otherID. Following someone twice is a no-op.
func (s *GraphService) Follow(ctx context.Context, userID, otherID uint) error {
	if userID == otherID {
		return models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, otherID); err != nil {
		return err
	}
	if err := s.followRepo.Create(ctx, userID, otherID); err != nil {
		return err
	}
	observability.FollowEvents.WithLabelValues("follow").Inc()
	return nil
}

// Unfollow removes the edge userID -> otherID if present.
func (s *GraphService) Unfollow(ctx context.Context, userID, otherID uint) error {
	if err := s.followRepo.Delete(ctx, userID, otherID); err != nil {
		return err
	}
	observability.FollowEvents.WithLabelValues("unfollow").Inc()
	return nil
}

func (s *GraphService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followRepo.Following(ctx, userID)
}

func (s *GraphService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followRepo.Followers(ctx, userID)
}

// Stats counts messages, followings and followers for userID.
func (s *GraphService) Stats(ctx context.Context, userID uint) (ProfileStats, error) {
	var stats ProfileStats
	var err error

	if stats.Messages, err = s.messageRepo.CountByUser(ctx, userID); err != nil {
		return ProfileStats{}, err
	}
	if stats.Following, err = s.followRepo.CountFollowing(ctx, userID); err != nil {
		return ProfileStats{}, err
	}
	if stats.Followers, err = s.followRepo.CountFollowers(ctx, userID); err != nil {
		return ProfileStats{}, err
	}
	return stats, nil
}
