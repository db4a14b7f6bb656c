package seed

import (
	"fmt"
	"log"

	"warbler/internal/database"
	"warbler/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers          int
	MessagesPerUser   int
	MaxFollowsPerUser int
	ShouldClean       bool
	FactoryOptions
}

// Result counts what a Seed run created.
type Result struct {
	Users    int
	Follows  int
	Messages int
}

// Seed populates the database with demo users, a random follow mesh and
// messages. Every user can log in with DemoPassword.
func Seed(db *gorm.DB, opts Options) (*Result, error) {
	log.Printf("Starting database seeding with %d users and %d messages per user...", opts.NumUsers, opts.MessagesPerUser)

	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return nil, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	var existing int64
	if err := db.Model(&models.User{}).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	f := NewFactory(db, opts.FactoryOptions)
	res := &Result{}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser(int(existing) + i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to create user %d: %w", i, err)
		}
		users = append(users, user)
	}
	res.Users = len(users)
	log.Printf("✓ %d users created", res.Users)

	for i, user := range users {
		n := f.faker.Number(0, min(opts.MaxFollowsPerUser, len(users)-1))
		for _, j := range f.pickOthers(len(users), n, i) {
			if err := f.Follow(user, users[j]); err != nil {
				return nil, fmt.Errorf("failed to follow: %w", err)
			}
			res.Follows++
		}
	}
	log.Printf("✓ %d follows created", res.Follows)

	msgs := make([]*models.Message, 0, len(users)*opts.MessagesPerUser)
	for _, user := range users {
		for i := 0; i < opts.MessagesPerUser; i++ {
			msgs = append(msgs, f.BuildMessage(user))
		}
	}
	if err := f.CreateMessagesBatch(msgs); err != nil {
		return nil, fmt.Errorf("failed to create messages: %w", err)
	}
	res.Messages = len(msgs)
	log.Printf("✓ %d messages created", res.Messages)

	log.Println("Database seeding completed successfully!")
	return res, nil
}

// pickOthers returns n distinct indexes below total, skipping self.
func (f *Factory) pickOthers(total, n, self int) []int {
	if n <= 0 || total < 2 {
		return nil
	}
	n = min(n, total-1)
	chosen := map[int]bool{self: true}
	out := make([]int, 0, n)
	for len(out) < n {
		idx := f.faker.Number(0, total-1)
		if chosen[idx] {
			continue
		}
		chosen[idx] = true
		out = append(out, idx)
	}
	return out
}

// Clean removes every user, message and follow edge.
func Clean(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	if db.Dialector.Name() == database.DialectPostgres {
		return db.Exec(`TRUNCATE TABLE follows, messages, users RESTART IDENTITY CASCADE;`).Error
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"follows", "messages", "users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
