package model

import "time"

// Equipment is the asset registry entry maintenance requests point at.
type Equipment struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Name         string `gorm:"size:255;not null;index" json:"name"`
	SerialNumber string `gorm:"uniqueIndex;size:100;not null" json:"serial_number"`
	Category     string `gorm:"size:100;not null;index" json:"category"`
	Department   string `gorm:"size:100;index" json:"department"`
	Location     string `gorm:"size:255" json:"location"`

	MaintenanceTeamID   *string `gorm:"size:36" json:"maintenance_team_id"`
	DefaultTechnicianID *string `gorm:"size:36" json:"default_technician_id"`

	PurchaseDate   *time.Time `json:"purchase_date"`
	PurchaseCost   float64    `json:"purchase_cost"`
	WarrantyExpiry *time.Time `json:"warranty_expiry"`
	WarrantyInfo   string     `gorm:"type:text" json:"warranty_info"`

	// 0-100; below 30 the equipment counts as critical on the dashboard.
	HealthPercentage int `gorm:"not null;default:100" json:"health_percentage"`

	// "active", "maintenance", "scrapped" or "retired".
	Status string `gorm:"size:50;not null;default:active" json:"status"`

	Notes string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// IsCritical reports whether the equipment needs attention on the dashboard.
func (e *Equipment) IsCritical() bool {
	return e.HealthPercentage < 30
}

// IsScrapped reports whether the equipment has been written off.
func (e *Equipment) IsScrapped() bool {
	return e.Status == "scrapped"
}

// EquipmentScrapLog records a decommissioning, usually triggered by a
// maintenance request reaching the scrap stage.
type EquipmentScrapLog struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	EquipmentID string  `gorm:"size:36;not null;index" json:"equipment_id"`
	RequestID   *string `gorm:"size:36" json:"request_id"`
	ScrappedBy  *string `gorm:"size:36" json:"scrapped_by"`

	Reason         string  `gorm:"type:text;not null" json:"reason"`
	ScrapValue     float64 `json:"scrap_value"`
	DisposalMethod string  `gorm:"size:100" json:"disposal_method"`

	ScrappedAt time.Time `gorm:"not null" json:"scrapped_at"`
}
