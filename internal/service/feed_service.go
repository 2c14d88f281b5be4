package service

import (
	"context"
	"sort"
	"time"

	"quill/internal/featureflags"
	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/repository"

	"golang.org/x/sync/errgroup"
)

// FeedService assembles the recommended feed from the ranking sources.
type FeedService struct {
	threadRepo repository.ThreadRepository
	userRepo   repository.UserRepository
	flags      *featureflags.Manager
}

// NewFeedService returns a new FeedService.
func NewFeedService(threadRepo repository.ThreadRepository, userRepo repository.UserRepository, flags *featureflags.Manager) *FeedService {
	return &FeedService{threadRepo: threadRepo, userRepo: userRepo, flags: flags}
}

// ListRecommended fans out to the ranking sources concurrently, merges the
// results by creation time, and truncates to the page size.
//
// Each source is queried with the full page limit, and the merge keeps
// duplicates: a thread that is both popular and recent appears once per
// source. The feed_dedup feature flag collapses duplicates for flagged users.
// Personal feeds (viewerID != 0) add the by-following source; pages may
// under-fill and are not backfilled.
func (s *FeedService) ListRecommended(ctx context.Context, viewerID uint, claims models.CursorClaims, limit int) ([]*models.Thread, string, error) {
	defer observability.ObserveFeedFanout("recommended", time.Now())

	var popular, recent, followed []*models.Thread

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		popular, err = s.threadRepo.ListByPopularity(gctx, claims, limit)
		if err != nil {
			observability.FeedSourceErrors.WithLabelValues("popularity").Inc()
		}
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.threadRepo.ListByRecency(gctx, claims, limit)
		if err != nil {
			observability.FeedSourceErrors.WithLabelValues("recency").Inc()
		}
		return err
	})
	if viewerID != 0 {
		g.Go(func() error {
			var err error
			followed, err = s.threadRepo.ListByFollowing(gctx, viewerID, claims, limit)
			if err != nil {
				observability.FeedSourceErrors.WithLabelValues("following").Inc()
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	combined := make([]*models.Thread, 0, len(popular)+len(recent)+len(followed))
	combined = append(combined, popular...)
	combined = append(combined, recent...)
	combined = append(combined, followed...)

	if s.flags.Enabled("feed_dedup", viewerID) {
		combined = dedupeThreads(combined)
	}

	// Stable sort on created_at only, so equal-timestamp threads keep
	// their source order.
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].CreatedAt.After(combined[j].CreatedAt)
	})

	if len(combined) > limit {
		combined = combined[:limit]
	}

	attachAuthors(ctx, s.userRepo, combined)
	return combined, models.NextCursor(combined), nil
}

// dedupeThreads drops repeated thread ids, keeping the first occurrence.
func dedupeThreads(threads []*models.Thread) []*models.Thread {
	seen := make(map[uint]struct{}, len(threads))
	out := threads[:0]
	for _, thread := range threads {
		if _, ok := seen[thread.ID]; ok {
			continue
		}
		seen[thread.ID] = struct{}{}
		out = append(out, thread)
	}
	return out
}
