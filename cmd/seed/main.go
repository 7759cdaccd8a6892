// Command main runs the database seeder for Ideabox.
package main

import (
	"flag"
	"log"

	"ideabox/internal/config"
	"ideabox/internal/database"
	"ideabox/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numIdeas := flag.Int("ideas", 200, "Number of ideas to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d users, %d ideas, clean=%v\n", *numUsers, *numIdeas, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	ideas, err := s.SeedIdeas(users, *numIdeas)
	if err != nil {
		log.Fatalf("Idea seeding failed: %v", err)
	}
	if err := s.SeedLikes(users, ideas); err != nil {
		log.Fatalf("Like seeding failed: %v", err)
	}

	log.Printf("Done: %d users, %d ideas seeded.", len(users), len(ideas))
	log.Printf("All test users have the password: %s", seed.DefaultPassword)
}
