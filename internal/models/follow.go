package models

import "time"

// Follow represents a directed follow edge between two users.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follow_pair;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	Follower User `gorm:"foreignKey:FollowerID" json:"-"`
	Followee User `gorm:"foreignKey:FolloweeID" json:"-"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}

// Follower is a row in a follower/following listing: a public profile plus
// the time the follow edge was created, which drives pagination.
type Follower struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Handle     string    `json:"handle"`
	Avatar     string    `json:"avatar"`
	FollowedAt time.Time `json:"followed_at"`
}
