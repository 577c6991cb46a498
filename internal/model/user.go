package model

import "time"

// User is anyone who can sign in: requesters, technicians, managers, admins.
type User struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Name         string `gorm:"size:255;not null;index" json:"name"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Phone        string `gorm:"size:50" json:"phone"`

	Department string `gorm:"size:100" json:"department"`
	JobTitle   string `gorm:"size:255" json:"job_title"`

	// "user", "technician", "manager" or "admin".
	Role         string `gorm:"size:50;not null;default:user" json:"role"`
	IsTechnician bool   `gorm:"index" json:"is_technician"` // can be assigned to requests
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	AvatarURL string `gorm:"size:500" json:"avatar_url"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
