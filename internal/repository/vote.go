package repository

import (
	"context"
	"errors"

	"quill/internal/cache"
	"quill/internal/models"

	"gorm.io/gorm"
)

// VoteRepository defines persistence operations for thread reactions.
type VoteRepository interface {
	Get(ctx context.Context, userID, threadID uint) (*models.Vote, error)
	Create(ctx context.Context, vote *models.Vote) error
	Delete(ctx context.Context, userID, threadID uint) error
	ListReacted(ctx context.Context, userID uint, reaction models.Reaction, claims models.CursorClaims, limit int) ([]*models.Thread, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository returns a new VoteRepository implementation.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Get returns the caller's reaction on a thread, or nil when none exists.
func (r *voteRepository) Get(ctx context.Context, userID, threadID uint) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND thread_id = ?", userID, threadID).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewStoreError(err)
	}
	return &vote, nil
}

func (r *voteRepository) Create(ctx context.Context, vote *models.Vote) error {
	if err := r.db.WithContext(ctx).Create(vote).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewAlreadyReactedError()
		}
		return models.NewStoreError(err)
	}
	cache.InvalidateThread(ctx, vote.ThreadID)
	return nil
}

func (r *voteRepository) Delete(ctx context.Context, userID, threadID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND thread_id = ?", userID, threadID).
		Delete(&models.Vote{})
	if result.Error != nil {
		return models.NewStoreError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotReactedError()
	}
	cache.InvalidateThread(ctx, threadID)
	return nil
}

// ListReacted returns threads the user reacted to with the given reaction,
// paginated by reaction time rather than thread creation time. ReactedAt is
// populated so callers can derive the next cursor.
func (r *voteRepository) ListReacted(ctx context.Context, userID uint, reaction models.Reaction, claims models.CursorClaims, limit int) ([]*models.Thread, error) {
	var threads []*models.Thread
	err := r.db.WithContext(ctx).Model(&models.Thread{}).
		Select(threadDetailColumns + ", votes.created_at as reacted_at").
		Joins("JOIN votes ON votes.thread_id = threads.id AND votes.user_id = ? AND votes.reaction = ?", userID, string(reaction)).
		Where("votes.created_at < ?", claims.CreatedAt).
		Order("votes.created_at DESC").
		Limit(limit).
		Find(&threads).Error
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return threads, nil
}
