package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/repository"

	"golang.org/x/sync/errgroup"
)

// FollowService provides follow-graph business logic.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow creates a follow edge from the viewer to the user behind
// targetHandle. Checks run in order: target existence, profile completeness
// on both sides, self-follow, then the already-followed state.
func (s *FollowService) Follow(ctx context.Context, viewerID uint, targetHandle string) error {
	viewer, target, err := s.resolvePair(ctx, viewerID, targetHandle)
	if err != nil {
		return err
	}
	if viewer.ID == target.ID {
		return models.NewSelfFollowError()
	}

	exists, err := s.followRepo.Exists(ctx, viewer.ID, target.ID)
	if err != nil {
		return err
	}
	if exists {
		return models.NewAlreadyFollowedError()
	}

	return s.followRepo.Create(ctx, viewer.ID, target.ID)
}

// Unfollow removes the viewer's follow edge to the user behind targetHandle.
func (s *FollowService) Unfollow(ctx context.Context, viewerID uint, targetHandle string) error {
	viewer, target, err := s.resolvePair(ctx, viewerID, targetHandle)
	if err != nil {
		return err
	}
	if viewer.ID == target.ID {
		return models.NewSelfFollowError()
	}

	return s.followRepo.Delete(ctx, viewer.ID, target.ID)
}

// resolvePair loads viewer and target concurrently and enforces the
// profile-completeness gate on both.
func (s *FollowService) resolvePair(ctx context.Context, viewerID uint, targetHandle string) (*models.User, *models.User, error) {
	var viewer, target *models.User

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		viewer, err = s.userRepo.GetByID(gctx, viewerID)
		return err
	})
	g.Go(func() error {
		var err error
		target, err = s.userRepo.GetByHandle(gctx, targetHandle)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if !viewer.IsProfileComplete || !target.IsProfileComplete {
		return nil, nil, models.NewProfileNotCreatedError()
	}

	return viewer, target, nil
}

// Counts returns follower and following counts for a user.
func (s *FollowService) Counts(ctx context.Context, userID uint) (followers, following int64, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		followers, err = s.followRepo.CountFollowers(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		following, err = s.followRepo.CountFollowing(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

// ListFollowers returns the followers of the user behind handle, most recent
// first, paginated on follow time.
func (s *FollowService) ListFollowers(ctx context.Context, handle string, claims models.CursorClaims, limit int) ([]*models.Follower, string, error) {
	user, err := s.resolveProfile(ctx, handle)
	if err != nil {
		return nil, "", err
	}

	followers, err := s.followRepo.ListFollowers(ctx, user.ID, claims, limit)
	if err != nil {
		return nil, "", err
	}
	return followers, nextFollowerCursor(followers), nil
}

// ListFollowing returns the users followed by the user behind handle.
func (s *FollowService) ListFollowing(ctx context.Context, handle string, claims models.CursorClaims, limit int) ([]*models.Follower, string, error) {
	user, err := s.resolveProfile(ctx, handle)
	if err != nil {
		return nil, "", err
	}

	following, err := s.followRepo.ListFollowing(ctx, user.ID, claims, limit)
	if err != nil {
		return nil, "", err
	}
	return following, nextFollowerCursor(following), nil
}

func (s *FollowService) resolveProfile(ctx context.Context, handle string) (*models.User, error) {
	user, err := s.userRepo.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if !user.IsProfileComplete {
		return nil, models.NewProfileNotCreatedError()
	}
	return user, nil
}

func nextFollowerCursor(followers []*models.Follower) string {
	if len(followers) == 0 {
		return ""
	}
	last := followers[len(followers)-1]
	return models.EncodeCursor(models.CursorClaims{ID: last.ID, CreatedAt: last.FollowedAt})
}
