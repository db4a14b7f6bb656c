package service

import (
	"context"
	"strings"

	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
	identity *IdentityService
}

// UpdateProfileInput carries a profile edit. Nil fields are left unchanged.
// Password is the user's current password and is always required.
type UpdateProfileInput struct {
	UserID         uint
	Password       string
	Username       *string
	Email          *string
	ImageURL       *string
	HeaderImageURL *string
	Bio            *string
	Location       *string
}

func NewUserService(userRepo repository.UserRepository, identity *IdentityService) *UserService {
	return &UserService{userRepo: userRepo, identity: identity}
}

// Search lists users whose username contains q, ignoring case.
func (s *UserService) Search(ctx context.Context, q string, limit, offset int) ([]models.User, error) {
	return s.userRepo.Search(ctx, q, limit, offset)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	const maxBioLen = 500
	const maxLocationLen = 100

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	stored, err := s.userRepo.GetByUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	if !s.identity.VerifyPassword(stored, in.Password) {
		return nil, models.NewUnauthorizedError("Wrong password, please try again.")
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if err := validation.ValidateUsername(username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = username
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if err := validation.ValidateEmail(email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = email
	}
	if in.ImageURL != nil {
		imageURL := strings.TrimSpace(*in.ImageURL)
		if err := validation.ValidateImageURL(imageURL); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if imageURL == "" {
			imageURL = models.DefaultImageURL
		}
		user.ImageURL = imageURL
	}
	if in.HeaderImageURL != nil {
		headerURL := strings.TrimSpace(*in.HeaderImageURL)
		if err := validation.ValidateImageURL(headerURL); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if headerURL == "" {
			headerURL = models.DefaultHeaderImageURL
		}
		user.HeaderImageURL = headerURL
	}
	if in.Bio != nil {
		if len(*in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = *in.Bio
	}
	if in.Location != nil {
		if len(*in.Location) > maxLocationLen {
			return nil, models.NewValidationError("Location too long (max 100 characters)")
		}
		user.Location = strings.TrimSpace(*in.Location)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account with its messages and follow edges.
func (s *UserService) Delete(ctx context.Context, userID uint) error {
	return s.userRepo.Delete(ctx, userID)
}
