package repository

import (
	"context"

	"quill/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines persistence operations for the follow graph.
type FollowRepository interface {
	Create(ctx context.Context, followerID, followeeID uint) error
	Delete(ctx context.Context, followerID, followeeID uint) error
	Exists(ctx context.Context, followerID, followeeID uint) (bool, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
	ListFollowers(ctx context.Context, userID uint, claims models.CursorClaims, limit int) ([]*models.Follower, error)
	ListFollowing(ctx context.Context, userID uint, claims models.CursorClaims, limit int) ([]*models.Follower, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, followerID, followeeID uint) error {
	follow := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	if err := r.db.WithContext(ctx).Create(&follow).Error; err != nil {
		// A concurrent follow can slip past the service's Exists check; the
		// unique index on the pair settles it.
		if isUniqueConstraintError(err) {
			return models.NewAlreadyFollowedError()
		}
		return models.NewStoreError(err)
	}
	return nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID uint) error {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return models.NewStoreError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFollowedError()
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, models.NewStoreError(err)
	}
	return count > 0, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("followee_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewStoreError(err)
	}
	return count, nil
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewStoreError(err)
	}
	return count, nil
}

const followerColumns = "users.id, users.name, users.handle, users.avatar, follows.created_at as followed_at"

// ListFollowers returns the users following userID, most recent follow first.
// FollowedAt drives pagination, not account creation time.
func (r *followRepository) ListFollowers(ctx context.Context, userID uint, claims models.CursorClaims, limit int) ([]*models.Follower, error) {
	var followers []*models.Follower
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select(followerColumns).
		Joins("JOIN follows ON follows.follower_id = users.id AND follows.followee_id = ?", userID).
		Where("follows.created_at < ?", claims.CreatedAt).
		Order("follows.created_at DESC").
		Limit(limit).
		Find(&followers).Error
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return followers, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uint, claims models.CursorClaims, limit int) ([]*models.Follower, error) {
	var followers []*models.Follower
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select(followerColumns).
		Joins("JOIN follows ON follows.followee_id = users.id AND follows.follower_id = ?", userID).
		Where("follows.created_at < ?", claims.CreatedAt).
		Order("follows.created_at DESC").
		Limit(limit).
		Find(&followers).Error
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return followers, nil
}
