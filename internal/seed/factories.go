// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"warbler/internal/models"
	"warbler/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DemoPassword is the password of every seeded user.
const DemoPassword = "password123"

// FactoryOptions tune generated data.
type FactoryOptions struct {
	// Seed makes generated content reproducible. Zero picks a time based seed.
	Seed int64
	// BcryptCost used for the shared demo password hash.
	BcryptCost int
	// MaxDays bounds how far back message timestamps are spread.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db    *gorm.DB
	opts  FactoryOptions
	faker *gofakeit.Faker
	now   func() time.Time

	passwordHash string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts FactoryOptions) *Factory {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Factory{db: db, opts: opts, faker: gofakeit.New(seed), now: time.Now}
}

func (f *Factory) demoHash() (string, error) {
	if f.passwordHash != "" {
		return f.passwordHash, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), f.opts.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash demo password: %w", err)
	}
	f.passwordHash = string(hash)
	return f.passwordHash, nil
}

// BuildUser constructs a user with DemoPassword without persisting it.
// The username carries n so that names stay unique within one run.
func (f *Factory) BuildUser(n int) (*models.User, error) {
	hash, err := f.demoHash()
	if err != nil {
		return nil, err
	}

	username := Username(f.faker.Username(), n)
	return &models.User{
		Username:       username,
		Email:          username + "@" + f.faker.DomainName(),
		Password:       hash,
		ImageURL:       fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
		HeaderImageURL: models.DefaultHeaderImageURL,
		Bio:            truncate(f.faker.Sentence(8), 500),
		Location:       truncate(f.faker.City()+", "+f.faker.Country(), 100),
	}, nil
}

// CreateUser builds and persists a user. Overrides run before the insert.
func (f *Factory) CreateUser(n int, overrides ...func(*models.User)) (*models.User, error) {
	user, err := f.BuildUser(n)
	if err != nil {
		return nil, err
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildMessage constructs a message by author with a timestamp spread over
// the last MaxDays days.
func (f *Factory) BuildMessage(author *models.User) *models.Message {
	back := time.Duration(f.faker.Number(0, f.opts.MaxDays*24*60)) * time.Minute
	return &models.Message{
		Text:      truncate(f.faker.Sentence(f.faker.Number(3, 18)), validation.MaxMessageLength),
		Timestamp: f.now().Add(-back).UTC(),
		UserID:    author.ID,
	}
}

// CreateMessagesBatch persists messages in batches.
func (f *Factory) CreateMessagesBatch(msgs []*models.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return f.db.Omit("User").CreateInBatches(msgs, 100).Error
}

// Follow stores the edge follower -> followee, ignoring duplicates.
func (f *Factory) Follow(follower, followee *models.User) error {
	edge := &models.Follow{UserBeingFollowedID: followee.ID, UserFollowingID: follower.ID}
	return f.db.Omit("UserBeingFollowed", "UserFollowing").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(edge).Error
}

// Username turns raw into a valid username: letters and digits only, with n
// appended and the result kept within the allowed length.
func Username(raw string, n int) string {
	var b strings.Builder
	for _, r := range raw {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	suffix := fmt.Sprintf("%d", n)
	base := b.String()
	if base == "" {
		base = "warbler"
	}
	if limit := validation.MaxUsernameLength - len(suffix); len(base) > limit {
		base = base[:limit]
	}
	name := base + suffix
	for len(name) < validation.MinUsernameLength {
		name += "0"
	}
	return name
}

func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return strings.TrimSpace(string(runes[:maxRunes]))
}
