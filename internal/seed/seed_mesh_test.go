package seed

import (
	"testing"

	"quill/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSeedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if migrateErr := db.AutoMigrate(
		&models.User{},
		&models.Thread{},
		&models.ThreadView{},
		&models.Follow{},
		&models.Vote{},
	); migrateErr != nil {
		t.Fatalf("migrate: %v", migrateErr)
	}
	return db
}

func TestSeed_PopulatesSocialMesh(t *testing.T) {
	t.Parallel()

	db := openSeedDB(t)

	err := Seed(db, Options{
		NumUsers:   8,
		NumThreads: 20,
		MaxDays:    30,
		SkipBcrypt: true,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	// 8 requested plus the deliberately incomplete accounts.
	if userCount < 8 {
		t.Fatalf("expected at least 8 users, got %d", userCount)
	}

	var threadCount int64
	if err := db.Model(&models.Thread{}).Count(&threadCount).Error; err != nil {
		t.Fatalf("count threads: %v", err)
	}
	if threadCount != 20 {
		t.Fatalf("expected 20 threads, got %d", threadCount)
	}

	// Replies must reference existing top-level threads.
	var orphanReplies int64
	if err := db.Model(&models.Thread{}).
		Where("parent_id IS NOT NULL AND parent_id NOT IN (SELECT id FROM threads)").
		Count(&orphanReplies).Error; err != nil {
		t.Fatalf("count orphans: %v", err)
	}
	if orphanReplies != 0 {
		t.Fatalf("found %d orphan replies", orphanReplies)
	}

	// No self-follows and no duplicate edges.
	var selfFollows int64
	if err := db.Model(&models.Follow{}).
		Where("follower_id = followee_id").
		Count(&selfFollows).Error; err != nil {
		t.Fatalf("count self follows: %v", err)
	}
	if selfFollows != 0 {
		t.Fatalf("found %d self-follow edges", selfFollows)
	}

	// At most one vote per user/thread pair.
	var dupVotes int64
	if err := db.Raw(`SELECT COUNT(*) FROM (
		SELECT user_id, thread_id FROM votes GROUP BY user_id, thread_id HAVING COUNT(*) > 1
	)`).Scan(&dupVotes).Error; err != nil {
		t.Fatalf("count duplicate votes: %v", err)
	}
	if dupVotes != 0 {
		t.Fatalf("found %d duplicated user/thread votes", dupVotes)
	}
}

func TestApplyFixtures_DeterministicDataSet(t *testing.T) {
	t.Parallel()

	db := openSeedDB(t)

	fixtures := &Fixtures{
		Users: []UserFixture{
			{Email: "ada@example.com", Handle: "ada", Name: "Ada"},
			{Email: "brin@example.com", Handle: "brin", Name: "Brin"},
		},
		Threads: []ThreadFixture{
			{
				Author:  "ada",
				Content: "First post",
				Replies: []ReplyFixture{{Author: "brin", Content: "Welcome!"}},
			},
		},
		Follows: []FollowFixture{{Follower: "brin", Followee: "ada"}},
		Votes:   []VoteFixture{{Voter: "brin", Thread: 0, Reaction: "up"}},
	}

	if err := ApplyFixtures(db, fixtures, Options{SkipBcrypt: true}); err != nil {
		t.Fatalf("apply fixtures: %v", err)
	}

	var ada models.User
	if err := db.Where("handle = ?", "ada").First(&ada).Error; err != nil {
		t.Fatalf("load ada: %v", err)
	}

	var threadCount int64
	if err := db.Model(&models.Thread{}).Count(&threadCount).Error; err != nil {
		t.Fatalf("count threads: %v", err)
	}
	if threadCount != 2 {
		t.Fatalf("expected thread and reply, got %d rows", threadCount)
	}

	var followCount int64
	if err := db.Model(&models.Follow{}).
		Where("followee_id = ?", ada.ID).
		Count(&followCount).Error; err != nil {
		t.Fatalf("count follows: %v", err)
	}
	if followCount != 1 {
		t.Fatalf("expected one follower for ada, got %d", followCount)
	}

	var voteCount int64
	if err := db.Model(&models.Vote{}).Count(&voteCount).Error; err != nil {
		t.Fatalf("count votes: %v", err)
	}
	if voteCount != 1 {
		t.Fatalf("expected one vote, got %d", voteCount)
	}
}

func TestApplyFixtures_UnknownHandleFails(t *testing.T) {
	t.Parallel()

	db := openSeedDB(t)

	fixtures := &Fixtures{
		Users:   []UserFixture{{Email: "ada@example.com", Handle: "ada", Name: "Ada"}},
		Threads: []ThreadFixture{{Author: "ghost", Content: "Who wrote this?"}},
	}

	if err := ApplyFixtures(db, fixtures, Options{SkipBcrypt: true}); err == nil {
		t.Fatal("expected error for unknown author handle")
	}
}
