package models

import (
	"time"

	"gorm.io/gorm"
)

// Thread represents a post in the Quill application. Threads are
// self-referential: a thread with a non-nil ParentID is a reply.
type Thread struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Title    string  `gorm:"size:255" json:"title,omitempty"`
	Content  string  `gorm:"type:text;not null" json:"content"`
	UserID   uint    `gorm:"not null;index" json:"user_id"`
	User     User    `gorm:"foreignKey:UserID" json:"-"`
	ParentID *uint   `gorm:"index" json:"parent_id,omitempty"`
	Parent   *Thread `gorm:"foreignKey:ParentID" json:"-"`
	// VoteScore is not persisted; computed at query time (upvotes - downvotes)
	VoteScore int `gorm:"->" json:"vote_score"`
	// ViewCount is not persisted; read from thread_views at query time
	ViewCount int `gorm:"->" json:"view_count"`
	// ReplyCount is not persisted; computed at query time
	ReplyCount int            `gorm:"->" json:"reply_count"`
	Author     *PublicProfile `gorm:"-" json:"author,omitempty"`
	// ReactedAt is only populated by the upvoted/downvoted listings, where
	// pagination runs on reaction time instead of thread creation time.
	ReactedAt  *time.Time     `gorm:"->" json:"reacted_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// ThreadView tracks the view counter for a thread. One row per thread,
// incremented on detail reads.
type ThreadView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ThreadID  uint      `gorm:"not null;uniqueIndex" json:"thread_id"`
	ViewCount int       `gorm:"not null;default:0" json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (ThreadView) TableName() string {
	return "thread_views"
}
