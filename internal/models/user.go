// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the Quill application. An account is created
// at signup with only email and password; the public profile (name, handle,
// avatar, bio) is filled in later and gates most social operations.
type User struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Email             string         `gorm:"unique;not null" json:"email"`
	Password          string         `gorm:"not null" json:"-"`
	Name              string         `json:"name"`
	Handle            string         `gorm:"uniqueIndex" json:"handle"`
	Avatar            string         `json:"avatar"`
	Bio               string         `json:"bio"`
	IsProfileComplete bool           `gorm:"not null;default:false" json:"is_profile_complete"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	Threads           []Thread       `gorm:"foreignKey:UserID" json:"threads,omitempty"`
}

// PublicProfile is the author payload embedded in thread listings.
type PublicProfile struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Handle string `json:"handle"`
	Avatar string `json:"avatar"`
}

// Public returns the user's public profile.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:     u.ID,
		Name:   u.Name,
		Handle: u.Handle,
		Avatar: u.Avatar,
	}
}

// Profile is a public profile enriched with follow counts, returned by the
// user detail endpoints.
type Profile struct {
	PublicProfile
	Bio            string `json:"bio"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
}
