// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Factory{db: db, opts: opts, rng: rng, nextID: 1000}
}

// generateHandle produces a handle that satisfies the profile validation
// rules: lowercase letters, digits, and underscores, 3 to 24 characters.
func (f *Factory) generateHandle() string {
	base := strings.ToLower(gofakeit.Username())
	var sb strings.Builder
	for _, r := range base {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			sb.WriteRune(r)
		}
	}
	handle := sb.String()
	if len(handle) > 18 {
		handle = handle[:18]
	}
	return fmt.Sprintf("%s%d", handle, gofakeit.Number(100, 999))
}

// CreateUser constructs and persists a sample `models.User` with a complete
// profile. Optional override functions may modify the generated user before
// saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	handle := f.generateHandle()
	user := &models.User{
		Email:             gofakeit.Email(),
		Name:              gofakeit.Name(),
		Handle:            handle,
		Bio:               gofakeit.Sentence(10),
		Avatar:            fmt.Sprintf("https://i.pravatar.cc/150?u=%s", handle),
		IsProfileComplete: true,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: handle=%s email=%s", user.Handle, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildThread constructs a thread for the given author without persisting
// it. Useful for batching.
func (f *Factory) BuildThread(author *models.User, overrides ...func(*models.Thread)) *models.Thread {
	thread := &models.Thread{
		Content: gofakeit.Paragraph(1, 3, 8, " "),
		UserID:  author.ID,
	}

	// roughly half the posts carry a title, like real traffic
	if f.rng.Intn(2) == 0 {
		thread.Title = gofakeit.Sentence(4)
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	thread.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(thread)
	}
	return thread
}

// CreateThread constructs and persists a sample top-level `models.Thread`
// for the given author.
func (f *Factory) CreateThread(author *models.User, overrides ...func(*models.Thread)) (*models.Thread, error) {
	thread := f.BuildThread(author, overrides...)

	if f.opts.DryRun {
		f.nextID++
		thread.ID = f.nextID
		log.Printf("[dry-run] CreateThread: user=%d len=%d", thread.UserID, len(thread.Content))
		return thread, nil
	}

	if err := f.db.Create(thread).Error; err != nil {
		return nil, err
	}
	return thread, nil
}

// CreateReply constructs and persists a reply to the given parent thread.
// The reply's created_at always lands after the parent's.
func (f *Factory) CreateReply(author *models.User, parent *models.Thread, overrides ...func(*models.Thread)) (*models.Thread, error) {
	reply := &models.Thread{
		Content:  gofakeit.Sentence(12),
		UserID:   author.ID,
		ParentID: &parent.ID,
	}

	gap := time.Duration(f.rng.Intn(72)+1) * time.Hour
	reply.CreatedAt = parent.CreatedAt.Add(gap)
	if reply.CreatedAt.After(time.Now()) {
		reply.CreatedAt = time.Now()
	}

	for _, override := range overrides {
		override(reply)
	}

	if f.opts.DryRun {
		f.nextID++
		reply.ID = f.nextID
		return reply, nil
	}

	if err := f.db.Create(reply).Error; err != nil {
		return nil, err
	}
	return reply, nil
}

// CreateThreadsBatch persists multiple threads in a single DB call when possible.
func (f *Factory) CreateThreadsBatch(threads []*models.Thread) error {
	if f.opts.DryRun {
		for _, th := range threads {
			f.nextID++
			th.ID = f.nextID
		}
		log.Printf("[dry-run] CreateThreadsBatch: %d threads (no DB write)", len(threads))
		return nil
	}
	return f.db.Create(&threads).Error
}

// CreateFollow persists a follow edge from `follower` to `followee`.
func (f *Factory) CreateFollow(follower, followee *models.User) error {
	if f.opts.DryRun {
		return nil
	}
	follow := &models.Follow{
		FollowerID: follower.ID,
		FolloweeID: followee.ID,
	}
	return f.db.Create(follow).Error
}

// CreateVote persists a reaction from `user` on `thread`.
func (f *Factory) CreateVote(user *models.User, thread *models.Thread, reaction models.Reaction) error {
	if f.opts.DryRun {
		return nil
	}
	vote := &models.Vote{
		UserID:   user.ID,
		ThreadID: thread.ID,
		Reaction: reaction,
	}
	return f.db.Create(vote).Error
}

// CreateViews sets the view counter for a thread.
func (f *Factory) CreateViews(thread *models.Thread, count int) error {
	if f.opts.DryRun {
		return nil
	}
	view := &models.ThreadView{
		ThreadID:  thread.ID,
		ViewCount: count,
	}
	return f.db.Create(view).Error
}
