package model

import "time"

// Team is a maintenance crew requests and equipment can be assigned to.
type Team struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Name        string `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	// Associations
	Members []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

// TeamMember links a user into a team. A user belongs to a team at most once.
type TeamMember struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	TeamID string `gorm:"size:36;not null;uniqueIndex:uq_team_user" json:"team_id"`
	UserID string `gorm:"size:36;not null;uniqueIndex:uq_team_user" json:"user_id"`

	// Associations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}
