package seed

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFixtures_ParsesYAML(t *testing.T) {
	t.Parallel()

	raw := `
users:
  - email: ada@example.com
    handle: ada
    name: Ada
    bio: First user
  - email: brin@example.com
    handle: brin
    name: Brin
threads:
  - author: ada
    content: Hello world
    replies:
      - author: brin
        content: Hi back
follows:
  - follower: brin
    followee: ada
`
	path := filepath.Join(t.TempDir(), "fixtures.yml")
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write fixture file: %v", err)
	}

	fixtures, err := LoadFixtures(path)
	if err != nil {
		t.Fatalf("load fixtures: %v", err)
	}

	if len(fixtures.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(fixtures.Users))
	}
	if fixtures.Users[0].Handle != "ada" {
		t.Fatalf("unexpected first handle %q", fixtures.Users[0].Handle)
	}
	if len(fixtures.Threads) != 1 || len(fixtures.Threads[0].Replies) != 1 {
		t.Fatal("expected one thread with one reply")
	}
	if fixtures.Follows[0].Follower != "brin" {
		t.Fatalf("unexpected follower %q", fixtures.Follows[0].Follower)
	}
}

func TestLoadFixtures_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadFixtures(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
