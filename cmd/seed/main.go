// Command seed populates the Warbler database with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"warbler/internal/config"
	"warbler/internal/database"
	"warbler/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	numMessages := flag.Int("messages", 10, "Number of messages per user")
	maxFollows := flag.Int("follows", 15, "Maximum number of users each user follows")
	shouldClean := flag.Bool("clean", false, "Clean database before seeding")
	seedValue := flag.Int64("seed", 0, "Random seed for reproducible data (0 = time based)")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d users, %d messages each, clean=%v\n", *numUsers, *numMessages, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.ApplySchema(context.Background(), db, cfg); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	res, err := seed.Seed(db, seed.Options{
		NumUsers:          *numUsers,
		MessagesPerUser:   *numMessages,
		MaxFollowsPerUser: *maxFollows,
		ShouldClean:       *shouldClean,
		FactoryOptions: seed.FactoryOptions{
			Seed:       *seedValue,
			BcryptCost: cfg.BcryptCost,
		},
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("All done! %d users, %d follows, %d messages.", res.Users, res.Follows, res.Messages)
	log.Printf("All demo users have the password: %s", seed.DemoPassword)
}
