package model

import "time"

// PushSubscription holds a browser push subscription used for overdue-request
// reminders. A user can register several (one per browser/device).
type PushSubscription struct {
	Endpoint string `gorm:"primaryKey" json:"endpoint"`
	P256DH   string `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth     string `gorm:"not null" json:"auth"`
	UserID   string `gorm:"size:36;not null;index" json:"user_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
