package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/repository"

	"golang.org/x/sync/errgroup"
)

// VotesService provides reaction business logic. A user holds at most one
// reaction per thread; switching polarity means cancel then react.
type VotesService struct {
	voteRepo   repository.VoteRepository
	threadRepo repository.ThreadRepository
	userRepo   repository.UserRepository
}

// NewVotesService returns a new VotesService.
func NewVotesService(voteRepo repository.VoteRepository, threadRepo repository.ThreadRepository, userRepo repository.UserRepository) *VotesService {
	return &VotesService{voteRepo: voteRepo, threadRepo: threadRepo, userRepo: userRepo}
}

// React records the viewer's reaction on a thread. Any held reaction,
// regardless of polarity, makes this AlreadyReacted.
func (s *VotesService) React(ctx context.Context, viewerID, threadID uint, reaction models.Reaction) error {
	if !reaction.Valid() {
		return models.NewValidationError(`Reaction must be "up" or "down"`)
	}

	if err := s.validateReactionTarget(ctx, viewerID, threadID); err != nil {
		return err
	}

	existing, err := s.voteRepo.Get(ctx, viewerID, threadID)
	if err != nil {
		return err
	}
	if existing != nil {
		return models.NewAlreadyReactedError()
	}

	return s.voteRepo.Create(ctx, &models.Vote{
		UserID:   viewerID,
		ThreadID: threadID,
		Reaction: reaction,
	})
}

// CancelReaction removes the viewer's reaction from a thread. The polarity is
// checked for shape only; the stored reaction is removed regardless, since a
// user holds at most one per thread.
func (s *VotesService) CancelReaction(ctx context.Context, viewerID, threadID uint, reaction models.Reaction) error {
	if !reaction.Valid() {
		return models.NewValidationError(`Reaction must be "up" or "down"`)
	}
	if err := s.validateReactionTarget(ctx, viewerID, threadID); err != nil {
		return err
	}
	return s.voteRepo.Delete(ctx, viewerID, threadID)
}

// validateReactionTarget checks viewer profile completeness and thread
// existence concurrently.
func (s *VotesService) validateReactionTarget(ctx context.Context, viewerID, threadID uint) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		viewer, err := s.userRepo.GetByID(gctx, viewerID)
		if err != nil {
			return err
		}
		if !viewer.IsProfileComplete {
			return models.NewProfileNotCreatedError()
		}
		return nil
	})
	g.Go(func() error {
		_, err := s.threadRepo.GetByID(gctx, threadID)
		return err
	})
	return g.Wait()
}

// ListUpvoted returns the threads the viewer upvoted, most recent reaction
// first.
func (s *VotesService) ListUpvoted(ctx context.Context, viewerID uint, claims models.CursorClaims, limit int) ([]*models.Thread, string, error) {
	return s.listReacted(ctx, viewerID, models.ReactionUp, claims, limit)
}

// ListDownvoted returns the threads the viewer downvoted.
func (s *VotesService) ListDownvoted(ctx context.Context, viewerID uint, claims models.CursorClaims, limit int) ([]*models.Thread, string, error) {
	return s.listReacted(ctx, viewerID, models.ReactionDown, claims, limit)
}

func (s *VotesService) listReacted(ctx context.Context, viewerID uint, reaction models.Reaction, claims models.CursorClaims, limit int) ([]*models.Thread, string, error) {
	threads, err := s.voteRepo.ListReacted(ctx, viewerID, reaction, claims, limit)
	if err != nil {
		return nil, "", err
	}

	attachAuthors(ctx, s.userRepo, threads)
	return threads, nextReactedCursor(threads), nil
}

// nextReactedCursor paginates on reaction time, which ListReacted surfaces
// through Thread.ReactedAt.
func nextReactedCursor(threads []*models.Thread) string {
	if len(threads) == 0 {
		return ""
	}
	last := threads[len(threads)-1]
	claims := models.CursorClaims{ID: last.ID}
	if last.ReactedAt != nil {
		claims.CreatedAt = *last.ReactedAt
	} else {
		claims.CreatedAt = last.CreatedAt
	}
	return models.EncodeCursor(claims)
}
