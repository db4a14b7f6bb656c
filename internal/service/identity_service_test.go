package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestIdentityService_BuildUser(t *testing.T) {
	t.Parallel()
	svc := NewIdentityService(noopUserRepo(), bcrypt.MinCost)

	t.Run("hashes password and fills placeholders", func(t *testing.T) {
		t.Parallel()
		user, err := svc.BuildUser(SignupInput{
			Username: " hector ",
			Email:    "hector@foo.com",
			Password: "abc124",
		})
		require.NoError(t, err)
		assert.Equal(t, "hector", user.Username)
		assert.Zero(t, user.ID, "BuildUser does not persist")
		assert.NotEqual(t, "abc124", user.Password)
		assert.True(t, strings.HasPrefix(user.Password, "$2"), "stored value is a bcrypt hash")
		assert.Equal(t, models.DefaultImageURL, user.ImageURL)
		assert.Equal(t, models.DefaultHeaderImageURL, user.HeaderImageURL)
		assert.True(t, svc.VerifyPassword(user, "abc124"))
	})

	t.Run("keeps a supplied image", func(t *testing.T) {
		t.Parallel()
		user, err := svc.BuildUser(SignupInput{
			Username: "irene",
			Email:    "irene@foo.com",
			Password: "abc125",
			ImageURL: "https://example.com/irene.png",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/irene.png", user.ImageURL)
	})

	invalid := []struct {
		name string
		in   SignupInput
	}{
		{"empty username", SignupInput{Email: "a@b.com", Password: "abcdef"}},
		{"bad username", SignupInput{Username: "a b", Email: "a@b.com", Password: "abcdef"}},
		{"bad email", SignupInput{Username: "abc", Email: "nope", Password: "abcdef"}},
		{"short password", SignupInput{Username: "abc", Email: "a@b.com", Password: "abc"}},
		{"long password", SignupInput{Username: "abc", Email: "a@b.com", Password: strings.Repeat("x", 73)}},
	}
	for _, tt := range invalid {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.BuildUser(tt.in)
			assertValidationError(t, err)
		})
	}
}

func TestIdentityService_Signup(t *testing.T) {
	t.Parallel()

	t.Run("persists the built user", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		var saved *models.User
		repo.createFn = func(_ context.Context, u *models.User) error {
			u.ID = 7
			saved = u
			return nil
		}
		svc := NewIdentityService(repo, bcrypt.MinCost)

		user, err := svc.Signup(context.Background(), SignupInput{Username: "george", Email: "george@foo.com", Password: "abc123"})
		require.NoError(t, err)
		assert.Equal(t, uint(7), user.ID)
		assert.Same(t, saved, user)
	})

	t.Run("duplicate surfaces as uniqueness violation", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.createFn = func(context.Context, *models.User) error {
			return models.NewConflictError("Username or email already taken", errors.New("duplicate key"))
		}
		svc := NewIdentityService(repo, bcrypt.MinCost)

		_, err := svc.Signup(context.Background(), SignupInput{Username: "george", Email: "george@foo.com", Password: "abc123"})
		assert.ErrorIs(t, err, models.ErrUniquenessViolation)
	})

	t.Run("invalid input never reaches the repository", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.createFn = func(context.Context, *models.User) error {
			t.Fatal("create should not be called")
			return nil
		}
		svc := NewIdentityService(repo, bcrypt.MinCost)

		_, err := svc.Signup(context.Background(), SignupInput{Username: "george", Email: "george@foo.com", Password: "abc"})
		assertValidationError(t, err)
	})
}

func TestIdentityService_Authenticate(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.User{ID: 3, Username: "testuser", Password: string(hash)}

	repo := noopUserRepo()
	repo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		switch username {
		case "testuser":
			return stored, nil
		case "broken":
			return nil, models.NewInternalError(errors.New("connection reset"))
		}
		return nil, nil
	}
	svc := NewIdentityService(repo, bcrypt.MinCost)

	tests := []struct {
		name     string
		username string
		password string
		reason   AuthReason
	}{
		{"valid", "testuser", "password", AuthOK},
		{"valid with padding", " testuser ", "password", AuthOK},
		{"wrong password", "testuser", "wrong", AuthBadPassword},
		{"unknown user", "nobody", "password", AuthUnknownUser},
		{"storage failure", "broken", "password", AuthError},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := svc.Authenticate(context.Background(), tt.username, tt.password)
			assert.Equal(t, tt.reason, res.Reason)
			assert.Equal(t, tt.reason == AuthOK, res.OK())
			if res.OK() {
				assert.Equal(t, uint(3), res.User.ID)
			} else {
				assert.Nil(t, res.User)
			}
		})
	}
}

func TestIdentityService_VerifyPassword(t *testing.T) {
	t.Parallel()
	svc := NewIdentityService(noopUserRepo(), bcrypt.MinCost)

	assert.False(t, svc.VerifyPassword(nil, "x"))
	assert.False(t, svc.VerifyPassword(&models.User{Username: "cached"}, ""), "users without a hash never verify")
	assert.False(t, svc.VerifyPassword(&models.User{Password: "not-a-hash"}, "not-a-hash"))
}
