package service

import (
	"context"
	"testing"
	"time"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeUser(id uint, handle string) *models.User {
	return &models.User{ID: id, Handle: handle, Name: handle, IsProfileComplete: true}
}

func followUserRepo(viewer, target *models.User) *userRepoStub {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		if viewer == nil || id != viewer.ID {
			return nil, models.NewNotFoundError("User", id)
		}
		return viewer, nil
	}
	repo.getByHandleFn = func(_ context.Context, handle string) (*models.User, error) {
		if target == nil || handle != target.Handle {
			return nil, models.NewNotFoundByHandleError(handle)
		}
		return target, nil
	}
	return repo
}

func TestFollowServiceFollow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		viewer        *models.User
		target        *models.User
		targetHandle  string
		alreadyExists bool
		expectedCode  string
	}{
		{
			name:         "success",
			viewer:       completeUser(1, "ada"),
			target:       completeUser(2, "lin"),
			targetHandle: "lin",
		},
		{
			name:         "target missing",
			viewer:       completeUser(1, "ada"),
			targetHandle: "ghost",
			expectedCode: models.CodeNotFound,
		},
		{
			name:         "viewer profile incomplete",
			viewer:       &models.User{ID: 1},
			target:       completeUser(2, "lin"),
			targetHandle: "lin",
			expectedCode: models.CodeProfileNotCreated,
		},
		{
			name:         "target profile incomplete",
			viewer:       completeUser(1, "ada"),
			target:       &models.User{ID: 2, Handle: "lin"},
			targetHandle: "lin",
			expectedCode: models.CodeProfileNotCreated,
		},
		{
			name:         "self follow",
			viewer:       completeUser(1, "ada"),
			target:       completeUser(1, "ada"),
			targetHandle: "ada",
			expectedCode: models.CodeSelfFollow,
		},
		{
			name:          "already followed",
			viewer:        completeUser(1, "ada"),
			target:        completeUser(2, "lin"),
			targetHandle:  "lin",
			alreadyExists: true,
			expectedCode:  models.CodeAlreadyFollowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			followRepo := noopFollowRepo()
			followRepo.existsFn = func(context.Context, uint, uint) (bool, error) {
				return tt.alreadyExists, nil
			}
			var createdFollower, createdFollowee uint
			followRepo.createFn = func(_ context.Context, followerID, followeeID uint) error {
				createdFollower, createdFollowee = followerID, followeeID
				return nil
			}

			svc := NewFollowService(followRepo, followUserRepo(tt.viewer, tt.target))
			err := svc.Follow(context.Background(), 1, tt.targetHandle)

			if tt.expectedCode != "" {
				assertAppError(t, err, tt.expectedCode)
				assert.Zero(t, createdFollower, "no edge may be written on a gate failure")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(1), createdFollower)
			assert.Equal(t, uint(2), createdFollowee)
		})
	}
}

func TestFollowServiceUnfollow(t *testing.T) {
	t.Parallel()

	t.Run("not followed", func(t *testing.T) {
		t.Parallel()

		followRepo := noopFollowRepo()
		followRepo.deleteFn = func(context.Context, uint, uint) error {
			return models.NewNotFollowedError()
		}

		svc := NewFollowService(followRepo, followUserRepo(completeUser(1, "ada"), completeUser(2, "lin")))
		err := svc.Unfollow(context.Background(), 1, "lin")
		assertAppError(t, err, models.CodeNotFollowed)
	})

	t.Run("self unfollow", func(t *testing.T) {
		t.Parallel()

		svc := NewFollowService(noopFollowRepo(), followUserRepo(completeUser(1, "ada"), completeUser(1, "ada")))
		err := svc.Unfollow(context.Background(), 1, "ada")
		assertAppError(t, err, models.CodeSelfFollow)
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		svc := NewFollowService(noopFollowRepo(), followUserRepo(completeUser(1, "ada"), completeUser(2, "lin")))
		assert.NoError(t, svc.Unfollow(context.Background(), 1, "lin"))
	})
}

func TestFollowServiceListFollowers(t *testing.T) {
	t.Parallel()

	followedAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	followRepo := noopFollowRepo()
	followRepo.listFollowersFn = func(context.Context, uint, models.CursorClaims, int) ([]*models.Follower, error) {
		return []*models.Follower{
			{ID: 3, Handle: "lin", FollowedAt: followedAt},
			{ID: 4, Handle: "kay", FollowedAt: followedAt.Add(-time.Hour)},
		}, nil
	}

	svc := NewFollowService(followRepo, followUserRepo(completeUser(1, "ada"), completeUser(2, "ada")))
	followers, next, err := svc.ListFollowers(context.Background(), "ada", models.DefaultCursorClaims(), 10)
	require.NoError(t, err)
	require.Len(t, followers, 2)

	claims, ok := models.DecodeCursor(next)
	require.True(t, ok)
	assert.Equal(t, uint(4), claims.ID)
	assert.True(t, claims.CreatedAt.Equal(followedAt.Add(-time.Hour)), "next page resumes from the follow time")
}

func TestFollowServiceCounts(t *testing.T) {
	t.Parallel()

	followRepo := noopFollowRepo()
	followRepo.countFollowersFn = func(context.Context, uint) (int64, error) { return 7, nil }
	followRepo.countFollowingFn = func(context.Context, uint) (int64, error) { return 2, nil }

	svc := NewFollowService(followRepo, noopUserRepo())
	followers, following, err := svc.Counts(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), followers)
	assert.Equal(t, int64(2), following)
}
