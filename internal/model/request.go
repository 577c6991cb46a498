package model

import "time"

// MaintenanceRequest is the core transactional record: a repair or preventive
// maintenance job moving through the new/in_progress/repaired/scrap workflow.
type MaintenanceRequest struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	Reference string `gorm:"uniqueIndex;size:50" json:"reference"`

	Subject     string `gorm:"size:500;not null" json:"subject"`
	Description string `gorm:"type:text" json:"description"`

	// "corrective" (breakdown) or "preventive" (scheduled).
	RequestType string `gorm:"size:20;not null;index" json:"request_type"`

	// Workflow stage, one of the lifecycle statuses.
	Status string `gorm:"size:20;not null;default:new;index" json:"status"`

	// "low", "medium" or "high".
	Priority string `gorm:"size:20;default:medium" json:"priority"`

	EquipmentID       *string `gorm:"size:36;index" json:"equipment_id"`
	Category          string  `gorm:"size:100" json:"category"` // auto-filled from equipment
	MaintenanceTeamID *string `gorm:"size:36;index" json:"maintenance_team_id"`
	AssignedTo        *string `gorm:"size:36;index" json:"assigned_to"`
	CreatedBy         string  `gorm:"size:36;not null" json:"created_by"`

	ScheduledDate *time.Time `json:"scheduled_date"`
	StartedAt     *time.Time `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	DurationHours float64    `gorm:"default:0" json:"duration_hours"`

	Notes        string `gorm:"type:text" json:"notes"`
	Instructions string `gorm:"type:text" json:"instructions"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Equipment       *Equipment `gorm:"foreignKey:EquipmentID;constraint:OnDelete:SET NULL" json:"equipment,omitempty"`
	MaintenanceTeam *Team      `gorm:"foreignKey:MaintenanceTeamID;constraint:OnDelete:SET NULL" json:"maintenance_team,omitempty"`
	Technician      *User      `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL" json:"technician,omitempty"`
}

// RequestHistory is the audit trail of stage transitions for a request.
type RequestHistory struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	RequestID string `gorm:"size:36;not null;index" json:"request_id"`

	FromStage string `gorm:"size:20" json:"from_stage"` // empty for initial creation
	ToStage   string `gorm:"size:20;not null" json:"to_stage"`
	ChangedBy string `gorm:"size:36" json:"changed_by"`

	Comment          string  `gorm:"type:text" json:"comment"`
	DurationAtChange float64 `gorm:"default:0" json:"duration_at_change"`

	ChangedAt time.Time `gorm:"not null" json:"changed_at"`
}
