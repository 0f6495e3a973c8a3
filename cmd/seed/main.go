// Command main populates the database with demo portfolio content.
package main

import (
	"flag"
	"log"

	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/seed"
)

func main() {
	numPosts := flag.Int("posts", 20, "Number of posts to create")
	numPoems := flag.Int("poems", 10, "Number of poems to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	posts, err := s.SeedPosts(*numPosts)
	if err != nil {
		log.Fatalf("Post seeding failed: %v", err)
	}
	poems, err := s.SeedPoems(*numPoems)
	if err != nil {
		log.Fatalf("Poem seeding failed: %v", err)
	}

	if err := s.SeedEngagement(append(posts, poems...), 6, 4); err != nil {
		log.Fatalf("Engagement seeding failed: %v", err)
	}

	log.Printf("Seeded %d posts and %d poems with engagement.", len(posts), len(poems))
}
