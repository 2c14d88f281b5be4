package seed

import (
	"fmt"
	"os"

	"quill/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixtures is a deterministic data set loaded from a YAML file. Unlike the
// random seeder, fixtures produce the same accounts and threads every run,
// which demo environments and manual QA rely on.
type Fixtures struct {
	Users   []UserFixture   `yaml:"users"`
	Threads []ThreadFixture `yaml:"threads"`
	Follows []FollowFixture `yaml:"follows"`
	Votes   []VoteFixture   `yaml:"votes"`
}

// UserFixture describes one seeded account.
type UserFixture struct {
	Email  string `yaml:"email"`
	Handle string `yaml:"handle"`
	Name   string `yaml:"name"`
	Bio    string `yaml:"bio"`
	Avatar string `yaml:"avatar"`
}

// ThreadFixture describes one top-level thread and its replies. Authors are
// referenced by handle.
type ThreadFixture struct {
	Author  string         `yaml:"author"`
	Title   string         `yaml:"title"`
	Content string         `yaml:"content"`
	Replies []ReplyFixture `yaml:"replies"`
}

// ReplyFixture describes one reply inside a thread fixture.
type ReplyFixture struct {
	Author  string `yaml:"author"`
	Content string `yaml:"content"`
}

// FollowFixture describes a follow edge between two handles.
type FollowFixture struct {
	Follower string `yaml:"follower"`
	Followee string `yaml:"followee"`
}

// VoteFixture describes a reaction on a thread. Thread is the zero-based
// index into the threads section.
type VoteFixture struct {
	Voter    string `yaml:"voter"`
	Thread   int    `yaml:"thread"`
	Reaction string `yaml:"reaction"`
}

// LoadFixtures reads and parses a YAML fixture file.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture paths come from the operator
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures Fixtures
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &fixtures, nil
}

// ApplyFixtures persists the fixture data set. All authors referenced by
// threads and follows must appear in the users section.
func ApplyFixtures(db *gorm.DB, fixtures *Fixtures, opts Options) error {
	f := NewFactory(db, opts)

	usersByHandle := make(map[string]*models.User, len(fixtures.Users))
	for _, uf := range fixtures.Users {
		fixture := uf
		user, err := f.CreateUser(func(u *models.User) {
			u.Email = fixture.Email
			u.Handle = fixture.Handle
			u.Name = fixture.Name
			u.Bio = fixture.Bio
			if fixture.Avatar != "" {
				u.Avatar = fixture.Avatar
			}
		})
		if err != nil {
			return fmt.Errorf("fixture user %q: %w", fixture.Handle, err)
		}
		usersByHandle[user.Handle] = user
	}

	lookup := func(handle string) (*models.User, error) {
		user, ok := usersByHandle[handle]
		if !ok {
			return nil, fmt.Errorf("fixture references unknown handle %q", handle)
		}
		return user, nil
	}

	threads := make([]*models.Thread, 0, len(fixtures.Threads))
	for i, tf := range fixtures.Threads {
		author, err := lookup(tf.Author)
		if err != nil {
			return err
		}
		fixture := tf
		thread, err := f.CreateThread(author, func(t *models.Thread) {
			t.Title = fixture.Title
			t.Content = fixture.Content
		})
		if err != nil {
			return fmt.Errorf("fixture thread %d: %w", i, err)
		}
		threads = append(threads, thread)

		for j, rf := range tf.Replies {
			replier, err := lookup(rf.Author)
			if err != nil {
				return err
			}
			replyContent := rf.Content
			if _, err := f.CreateReply(replier, thread, func(t *models.Thread) {
				t.Content = replyContent
			}); err != nil {
				return fmt.Errorf("fixture thread %d reply %d: %w", i, j, err)
			}
		}
	}

	for _, ff := range fixtures.Follows {
		follower, err := lookup(ff.Follower)
		if err != nil {
			return err
		}
		followee, err := lookup(ff.Followee)
		if err != nil {
			return err
		}
		if err := f.CreateFollow(follower, followee); err != nil {
			return fmt.Errorf("fixture follow %s -> %s: %w", ff.Follower, ff.Followee, err)
		}
	}

	for _, vf := range fixtures.Votes {
		voter, err := lookup(vf.Voter)
		if err != nil {
			return err
		}
		if vf.Thread < 0 || vf.Thread >= len(threads) {
			return fmt.Errorf("fixture vote references unknown thread index %d", vf.Thread)
		}
		reaction := models.Reaction(vf.Reaction)
		if !reaction.Valid() {
			return fmt.Errorf("fixture vote has invalid reaction %q", vf.Reaction)
		}
		if err := f.CreateVote(voter, threads[vf.Thread], reaction); err != nil {
			return fmt.Errorf("fixture vote %s on thread %d: %w", vf.Voter, vf.Thread, err)
		}
	}

	return nil
}
