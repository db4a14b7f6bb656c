// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"warbler/internal/database"
	"warbler/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewTestDB returns an isolated, migrated in-memory SQLite database.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// HashPassword hashes with the minimum bcrypt cost to keep tests fast.
func HashPassword(t testing.TB, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// CreateUser inserts a user whose email is derived from the username.
func CreateUser(t testing.TB, db *gorm.DB, username, password string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: HashPassword(t, password),
		ImageURL: models.DefaultImageURL,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// Follow makes follower follow followee.
func Follow(t testing.TB, db *gorm.DB, follower, followee *models.User) {
	t.Helper()
	edge := &models.Follow{UserBeingFollowedID: followee.ID, UserFollowingID: follower.ID}
	require.NoError(t, db.Omit("UserBeingFollowed", "UserFollowing").Create(edge).Error)
}

// CreateMessage inserts a message by author at the given time.
func CreateMessage(t testing.TB, db *gorm.DB, author *models.User, text string, at time.Time) *models.Message {
	t.Helper()
	msg := &models.Message{Text: text, Timestamp: at.UTC(), UserID: author.ID}
	require.NoError(t, db.Omit("User").Create(msg).Error)
	return msg
}
