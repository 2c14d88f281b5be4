// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/observability"

	"gorm.io/gorm"
)

// ThreadRepository defines persistence operations for threads, including the
// ranking sources consumed by feed assembly. Every listing accepts cursor
// claims and returns at most limit threads strictly older than the cursor.
type ThreadRepository interface {
	Create(ctx context.Context, thread *models.Thread) error
	GetByID(ctx context.Context, id uint) (*models.Thread, error)
	Update(ctx context.Context, thread *models.Thread) error
	Delete(ctx context.Context, id uint) error
	RecordView(ctx context.Context, threadID uint) error

	ListByAuthor(ctx context.Context, authorID uint, claims models.CursorClaims, limit int) ([]*models.Thread, error)
	ListByFollowing(ctx context.Context, viewerID uint, claims models.CursorClaims, limit int) ([]*models.Thread, error)
	ListByPopularity(ctx context.Context, claims models.CursorClaims, limit int) ([]*models.Thread, error)
	ListByRecency(ctx context.Context, claims models.CursorClaims, limit int) ([]*models.Thread, error)
	ListByParent(ctx context.Context, parentID uint, claims models.CursorClaims, limit int) ([]*models.Thread, error)
}

type threadRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewThreadRepository creates a new thread repository
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db, metrics: observability.NewDatabaseMetrics()}
}

func (r *threadRepository) Create(ctx context.Context, thread *models.Thread) error {
	if err := r.db.WithContext(ctx).Create(thread).Error; err != nil {
		return models.NewStoreError(err)
	}
	return nil
}

func (r *threadRepository) GetByID(ctx context.Context, id uint) (*models.Thread, error) {
	var thread models.Thread
	key := cache.ThreadKey(id)

	err := cache.Aside(ctx, key, &thread, cache.ThreadTTL, func() error {
		if err := r.applyThreadDetails(r.db.WithContext(ctx)).
			First(&thread, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Thread", id)
			}
			return models.NewStoreError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepository) Update(ctx context.Context, thread *models.Thread) error {
	if err := r.db.WithContext(ctx).Save(thread).Error; err != nil {
		return models.NewStoreError(err)
	}
	cache.InvalidateThread(ctx, thread.ID)
	return nil
}

func (r *threadRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Thread{}, id).Error; err != nil {
		return models.NewStoreError(err)
	}
	cache.InvalidateThread(ctx, id)
	return nil
}

// RecordView upserts the per-thread view counter. View counts are
// best-effort; callers treat failures as non-fatal.
func (r *threadRepository) RecordView(ctx context.Context, threadID uint) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO thread_views (thread_id, view_count, created_at, updated_at)
		 VALUES (?, 1, ?, ?)
		 ON CONFLICT (thread_id) DO UPDATE SET view_count = thread_views.view_count + 1, updated_at = ?`,
		threadID, now, now, now,
	).Error
	if err != nil {
		return models.NewStoreError(err)
	}
	cache.InvalidateThread(ctx, threadID)
	return nil
}

func (r *threadRepository) ListByAuthor(ctx context.Context, authorID uint, claims models.CursorClaims, limit int) ([]*models.Thread, error) {
	defer r.metrics.TrackQuery("list_by_author", "threads")()

	var threads []*models.Thread
	err := r.applyThreadDetails(r.db.WithContext(ctx)).
		Where("threads.user_id = ? AND threads.created_at < ? AND threads.id > ?",
			authorID, claims.CreatedAt, claims.ID).
		Order("threads.created_at DESC, threads.id DESC").
		Limit(limit).
		Find(&threads).Error
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return threads, nil
}

func (r *threadRepository) ListByFollowing(ctx context.Context, viewerID uint, claims models.CursorClaims, limit int) ([]*models.Thread, error) {
	defer r.metrics.TrackQuery("list_by_following", "threads")()

	var threads []*models.Thread
	err := r.applyThreadDetails(r.db.WithContext(ctx)).
		Joins("JOIN follows ON follows.followee_id = threads.user_id AND follows.follower_id = ?", viewerID).
		Where("threads.parent_id IS NULL AND threads.created_at < ?", claims.CreatedAt).
		Order("threads.created_at DESC").
		Limit(limit).
		Find(&threads).Error
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return threads, nil
}

func (r *threadRepository) ListByPopularity(ctx context.Context, claims models.CursorClaims, limit int) ([]*models.Thread, error) {
	defer r.metrics.TrackQuery("list_by_popularity", "threads")()

	var threads []*models.Thread
	err := r.applyThreadDetails(r.db.WithContext(ctx)).
		Where("threads.parent_id IS NULL AND threads.created_at < ?", claims.CreatedAt).
		Order(r.popularityExpr() + " DESC, threads.created_at DESC").
		Limit(limit).
		Find(&threads).Error
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return threads, nil
}

func (r *threadRepository) ListByRecency(ctx context.Context, claims models.CursorClaims, limit int) ([]*models.Thread, error) {
	defer r.metrics.TrackQuery("list_by_recency", "threads")()

	var threads []*models.Thread
	err := r.applyThreadDetails(r.db.WithContext(ctx)).
		Where("threads.parent_id IS NULL AND threads.created_at < ?", claims.CreatedAt).
		Order("threads.created_at DESC").
		Limit(limit).
		Find(&threads).Error
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return threads, nil
}

func (r *threadRepository) ListByParent(ctx context.Context, parentID uint, claims models.CursorClaims, limit int) ([]*models.Thread, error) {
	defer r.metrics.TrackQuery("list_by_parent", "threads")()

	var threads []*models.Thread
	err := r.applyThreadDetails(r.db.WithContext(ctx)).
		Where("threads.parent_id = ? AND threads.created_at < ?", parentID, claims.CreatedAt).
		Order("vote_score DESC, threads.created_at DESC").
		Limit(limit).
		Find(&threads).Error
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return threads, nil
}

// threadDetailColumns fetches vote score, view count, and reply count as
// subqueries alongside the thread row. The aliases are referenced in ORDER BY
// at the same query level, which both supported dialects allow.
const threadDetailColumns = "threads.*, " +
	"COALESCE((SELECT SUM(CASE WHEN votes.reaction = 'up' THEN 1 WHEN votes.reaction = 'down' THEN -1 ELSE 0 END) FROM votes WHERE votes.thread_id = threads.id), 0) as vote_score, " +
	"COALESCE((SELECT thread_views.view_count FROM thread_views WHERE thread_views.thread_id = threads.id), 0) as view_count, " +
	"(SELECT COUNT(*) FROM threads replies WHERE replies.parent_id = threads.id AND replies.deleted_at IS NULL) as reply_count"

func (r *threadRepository) applyThreadDetails(db *gorm.DB) *gorm.DB {
	return db.Select(threadDetailColumns)
}

// popularityExpr builds the hot-ranking expression:
// (upvotes*2 + views*0.5) / (age_hours + 2)^1.5
// SQLite builds lack POWER, so the decay falls back to a quadratic curve
// there; ordering matches Postgres except for near-tied scores.
func (r *threadRepository) popularityExpr() string {
	const score = "((SELECT COUNT(*) FROM votes WHERE votes.thread_id = threads.id AND votes.reaction = 'up') * 2.0 + " +
		"COALESCE((SELECT thread_views.view_count FROM thread_views WHERE thread_views.thread_id = threads.id), 0) * 0.5)"

	if r.db.Dialector.Name() == "sqlite" {
		const age = "((strftime('%s','now') - strftime('%s', threads.created_at)) / 3600.0 + 2)"
		return score + " / (" + age + " * " + age + ")"
	}

	return score + " / POWER(EXTRACT(EPOCH FROM (NOW() - threads.created_at)) / 3600.0 + 2, 1.5)"
}
