// Command main runs the database seeder for Quill.
package main

import (
	"flag"
	"log"

	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	numThreads := flag.Int("threads", 200, "Number of threads to create")
	maxDays := flag.Int("max-days", 90, "Spread thread timestamps over this many days")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fixtures := flag.String("fixtures", "", "Apply a YAML fixture file instead of random data")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	if *fixtures != "" {
		log.Printf("Applying fixtures from %s (ignoring count flags)\n", *fixtures)
	} else {
		log.Printf("Target: %d users, %d threads, clean=%v\n", *numUsers, *numThreads, *shouldClean)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *fixtures != "" {
		set, err := seed.LoadFixtures(*fixtures)
		if err != nil {
			log.Fatalf("❌ Fixture loading failed: %v", err)
		}
		if *shouldClean {
			if err := seed.Clear(db); err != nil {
				log.Fatalf("❌ Cleanup failed: %v", err)
			}
		}
		if err := seed.ApplyFixtures(db, set, seed.Options{}); err != nil {
			log.Fatalf("❌ Fixture seeding failed: %v", err)
		}
	} else {
		err = seed.Seed(db, seed.Options{
			NumUsers:    *numUsers,
			NumThreads:  *numThreads,
			MaxDays:     *maxDays,
			ShouldClean: *shouldClean,
		})
		if err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
