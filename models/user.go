package models

import (
	"time"

	"gorm.io/gorm"
)

const UserTable = "users"

// User is soft-deleted so that borrow/disposal audit references stay resolvable.
// Username and email stay reserved after deletion.
type User struct {
	ID         string  `gorm:"primaryKey;size:36" json:"id"`
	Username   string  `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email      string  `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password   string  `gorm:"size:255;not null" json:"-"` // bcrypt hash, never plaintext
	FullName   string  `gorm:"size:100;not null" json:"fullName"`
	Role       Role    `gorm:"size:20;not null;default:'user'" json:"role"`
	Department *string `gorm:"size:100" json:"department,omitempty"`
	IsActive   bool    `gorm:"not null;default:true" json:"isActive"`

	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	LastSeenAt *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	LoginCount int64      `gorm:"not null;default:0" json:"loginCount"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return UserTable }

// UserRef is the public projection of a user embedded in other payloads.
type UserRef struct {
	ID         string  `json:"id"`
	Username   string  `json:"username,omitempty"`
	FullName   string  `json:"fullName"`
	Email      string  `json:"email,omitempty"`
	Department *string `json:"department,omitempty"`
}

func (UserRef) TableName() string { return UserTable }
