package service

import (
	"context"
	"log/slog"
	"strings"

	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/observability"
	"warbler/internal/repository"
	"warbler/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// SignupInput is the data collected by the signup form.
type SignupInput struct {
	Username string `validate:"required,username"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=6,maxbytes=72"`
	ImageURL string `validate:"omitempty,imageurl" label:"image URL"`
}

// AuthReason explains an authentication outcome. It is logged and counted,
// never shown to the user.
type AuthReason string

const (
	AuthOK          AuthReason = "ok"
	AuthUnknownUser AuthReason = "unknown_user"
	AuthBadPassword AuthReason = "bad_password"
	AuthError       AuthReason = "error"
)

// AuthResult is the outcome of Authenticate.
type AuthResult struct {
	User   *models.User
	Reason AuthReason
}

// OK reports whether the credentials were accepted.
func (r AuthResult) OK() bool {
	return r.Reason == AuthOK && r.User != nil
}

// IdentityService owns account creation and credential checks.
type IdentityService struct {
	userRepo   repository.UserRepository
	bcryptCost int
}

// NewIdentityService returns an IdentityService hashing at bcryptCost.
// A non-positive cost selects bcrypt.DefaultCost.
func NewIdentityService(userRepo repository.UserRepository, bcryptCost int) *IdentityService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &IdentityService{userRepo: userRepo, bcryptCost: bcryptCost}
}

// BuildUser validates in and returns an unsaved user with a hashed password.
func (s *IdentityService) BuildUser(in SignupInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	imageURL := in.ImageURL
	if imageURL == "" {
		imageURL = models.DefaultImageURL
	}

	return &models.User{
		Username:       in.Username,
		Email:          in.Email,
		Password:       string(hash),
		ImageURL:       imageURL,
		HeaderImageURL: models.DefaultHeaderImageURL,
	}, nil
}

// Signup builds and stores a new user. A taken username or email yields a
// CONFLICT error matching models.ErrUniquenessViolation.
func (s *IdentityService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	user, err := s.BuildUser(in)
	if err != nil {
		observability.SignupsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		outcome := "error"
		if models.IsCode(err, models.CodeConflict) {
			outcome = "conflict"
		}
		observability.SignupsTotal.WithLabelValues(outcome).Inc()
		return nil, err
	}

	observability.SignupsTotal.WithLabelValues("created").Inc()
	middleware.Logger.InfoContext(ctx, "user signed up",
		slog.Uint64("new_user_id", uint64(user.ID)),
		slog.String("username", user.Username),
	)
	return user, nil
}

// Authenticate checks a username and password pair. Bad credentials are not
// errors; callers branch on AuthResult.OK.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string) AuthResult {
	result := s.authenticate(ctx, strings.TrimSpace(username), password)
	observability.LoginAttempts.WithLabelValues(string(result.Reason)).Inc()
	if !result.OK() {
		middleware.Logger.InfoContext(ctx, "authentication rejected",
			slog.String("username", username),
			slog.String("reason", string(result.Reason)),
		)
	}
	return result
}

func (s *IdentityService) authenticate(ctx context.Context, username, password string) AuthResult {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "user lookup failed during authentication", slog.String("error", err.Error()))
		return AuthResult{Reason: AuthError}
	}
	if user == nil {
		return AuthResult{Reason: AuthUnknownUser}
	}
	if !s.VerifyPassword(user, password) {
		return AuthResult{Reason: AuthBadPassword}
	}
	return AuthResult{User: user, Reason: AuthOK}
}

// VerifyPassword compares password with the user's stored hash. Users read
// through the cache carry no hash and never verify.
func (s *IdentityService) VerifyPassword(user *models.User, password string) bool {
	if user == nil || user.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}
