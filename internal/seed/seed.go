package seed

import (
	"fmt"
	"log"

	"quill/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumThreads  int
	MaxDays     int
	ShouldClean bool
	DryRun      bool
	SkipBcrypt  bool
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d threads...", opts.NumUsers, opts.NumThreads)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := Clear(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	users, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	threads, err := createThreads(f, users, opts.NumThreads)
	if err != nil {
		return fmt.Errorf("failed to create threads: %w", err)
	}
	log.Printf("✓ %d threads created", len(threads))

	follows, err := createFollowMesh(f, users)
	if err != nil {
		return fmt.Errorf("failed to create follow mesh: %w", err)
	}
	log.Printf("✓ %d follow edges created", follows)

	votes, err := createVotes(f, users, threads)
	if err != nil {
		return fmt.Errorf("failed to create votes: %w", err)
	}
	log.Printf("✓ %d votes created", votes)

	if err := createViews(f, threads); err != nil {
		return fmt.Errorf("failed to create views: %w", err)
	}

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

// Clear truncates all seeded tables. Postgres only.
func Clear(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE thread_views, votes, follows, threads, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(f *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include some specific users for consistency if cleaning
	if count >= 3 {
		baseHandles := []string{"quill", "penny", "test"}
		for _, h := range baseHandles {
			handle := h
			user, err := f.CreateUser(func(u *models.User) {
				u.Handle = handle
				u.Email = fmt.Sprintf("%s@example.com", handle)
				u.Name = "One of the OGs"
				u.Bio = "Here since day one."
			})
			if err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	// A couple of accounts that signed up but never finished their profile,
	// so profile-gated paths have something to trip on in dev.
	if count >= 5 {
		for i := 0; i < 2; i++ {
			_, err := f.CreateUser(func(u *models.User) {
				u.Name = ""
				u.Handle = ""
				u.Bio = ""
				u.IsProfileComplete = false
			})
			if err != nil {
				log.Printf("Failed to create incomplete user: %v", err)
			}
		}
	}

	return users, nil
}

func createThreads(f *Factory, users []*models.User, count int) ([]*models.Thread, error) {
	if len(users) == 0 {
		return nil, nil
	}

	threads := make([]*models.Thread, 0, count)
	for i := 0; i < count; i++ {
		author := users[f.rng.Intn(len(users))]

		// Roughly a third of the corpus are replies once enough
		// top-level threads exist.
		if len(threads) > 3 && f.rng.Float32() < 0.35 {
			parent := threads[f.rng.Intn(len(threads))]
			for parent.ParentID != nil {
				parent = threads[f.rng.Intn(len(threads))]
			}
			reply, err := f.CreateReply(author, parent)
			if err != nil {
				return nil, err
			}
			threads = append(threads, reply)
			continue
		}

		thread, err := f.CreateThread(author)
		if err != nil {
			return nil, err
		}
		threads = append(threads, thread)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d threads...", i)
		}
	}

	return threads, nil
}

func createFollowMesh(f *Factory, users []*models.User) (int, error) {
	if len(users) < 2 {
		return 0, nil
	}

	created := 0
	seen := make(map[[2]uint]bool)
	for _, follower := range users {
		edges := f.rng.Intn(5) + 1
		for i := 0; i < edges; i++ {
			followee := users[f.rng.Intn(len(users))]
			if followee.ID == follower.ID {
				continue
			}
			key := [2]uint{follower.ID, followee.ID}
			if seen[key] {
				continue
			}
			seen[key] = true
			if err := f.CreateFollow(follower, followee); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

func createVotes(f *Factory, users []*models.User, threads []*models.Thread) (int, error) {
	if len(users) == 0 || len(threads) == 0 {
		return 0, nil
	}

	created := 0
	seen := make(map[[2]uint]bool)
	target := len(threads) * 3
	for i := 0; i < target; i++ {
		user := users[f.rng.Intn(len(users))]
		thread := threads[f.rng.Intn(len(threads))]
		key := [2]uint{user.ID, thread.ID}
		// One reaction per user per thread.
		if seen[key] {
			continue
		}
		seen[key] = true

		reaction := models.ReactionUp
		if f.rng.Float32() < 0.2 {
			reaction = models.ReactionDown
		}
		if err := f.CreateVote(user, thread, reaction); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func createViews(f *Factory, threads []*models.Thread) error {
	for _, thread := range threads {
		if f.rng.Float32() < 0.3 {
			continue
		}
		if err := f.CreateViews(thread, f.rng.Intn(500)); err != nil {
			return err
		}
	}
	return nil
}
