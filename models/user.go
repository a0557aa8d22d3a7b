package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username string `gorm:"size:150;uniqueIndex" json:"username"`
	Email    string `gorm:"size:254;uniqueIndex" json:"email"`
	Password string `gorm:"size:255" json:"-"`
	FullName string `gorm:"size:200" json:"full_name"`
	IsAdmin  bool   `gorm:"default:false" json:"is_admin"`

	Profile *UserProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// DisplayName prefers the full name, falling back to the username.
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return u.Username
}

type UserProfile struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint `gorm:"uniqueIndex" json:"user_id"`

	Phone          string `gorm:"size:15" json:"phone"`
	Whatsapp       string `gorm:"size:15" json:"whatsapp"`
	ProfilePicture string `gorm:"size:255" json:"profile_picture"`
	Bio            string `gorm:"size:500" json:"bio"`
	IsHost         bool   `gorm:"default:false" json:"is_host"`
}
