package models

import "time"

// Reaction is the polarity of a vote.
type Reaction string

const (
	// ReactionUp is an upvote.
	ReactionUp Reaction = "up"
	// ReactionDown is a downvote.
	ReactionDown Reaction = "down"
)

// Valid reports whether the reaction is a known polarity.
func (r Reaction) Valid() bool {
	return r == ReactionUp || r == ReactionDown
}

// Vote represents a user's reaction to a thread. A user holds at most one
// reaction per thread; switching polarity is cancel-then-react.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_vote_user_thread" json:"user_id"`
	ThreadID  uint      `gorm:"not null;uniqueIndex:idx_vote_user_thread;index" json:"thread_id"`
	Reaction  Reaction  `gorm:"type:varchar(8);not null" json:"reaction"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Thread Thread `gorm:"foreignKey:ThreadID" json:"-"`
}

// TableName specifies the table name for GORM
func (Vote) TableName() string {
	return "votes"
}
