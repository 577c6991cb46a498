package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/model"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/store"
)

// equipmentView adds the derived flags the dashboard and lists display.
type equipmentView struct {
	model.Equipment
	IsCritical bool `json:"is_critical"`
	IsScrapped bool `json:"is_scrapped"`
}

func equipmentViewOf(e model.Equipment) equipmentView {
	return equipmentView{Equipment: e, IsCritical: e.IsCritical(), IsScrapped: e.IsScrapped()}
}

// ListEquipment handles GET /api/equipment with optional filters.
func (h *Handler) ListEquipment(c *gin.Context) {
	q := h.store.DB().WithContext(c.Request.Context()).Model(&model.Equipment{})

	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if department := c.Query("department"); department != "" {
		q = q.Where("department = ?", department)
	}
	if scrapped := c.Query("is_scrapped"); scrapped != "" {
		if scrapped == "true" {
			q = q.Where("status = ?", "scrapped")
		} else {
			q = q.Where("status <> ?", "scrapped")
		}
	}
	if search := c.Query("search"); search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}

	var items []model.Equipment
	if err := q.Order("name ASC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve equipment"})
		return
	}

	views := make([]equipmentView, 0, len(items))
	for _, e := range items {
		views = append(views, equipmentViewOf(e))
	}
	c.JSON(http.StatusOK, gin.H{"items": views, "total": len(views)})
}

type equipmentBody struct {
	Name                string  `json:"name" binding:"required"`
	SerialNumber        string  `json:"serial_number" binding:"required"`
	Category            string  `json:"category" binding:"required"`
	Department          string  `json:"department"`
	Location            string  `json:"location"`
	MaintenanceTeamID   *string `json:"maintenance_team_id"`
	DefaultTechnicianID *string `json:"default_technician_id"`
	PurchaseDate        string  `json:"purchase_date"`
	PurchaseCost        float64 `json:"purchase_cost"`
	WarrantyExpiry      string  `json:"warranty_expiry"`
	WarrantyInfo        string  `json:"warranty_info"`
	HealthPercentage    *int    `json:"health_percentage"`
	Notes               string  `json:"notes"`
}

// CreateEquipment handles POST /api/equipment.
func (h *Handler) CreateEquipment(c *gin.Context) {
	var body equipmentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	purchase, err := parseDate(body.PurchaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid purchase_date"})
		return
	}
	warranty, err := parseDate(body.WarrantyExpiry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid warranty_expiry"})
		return
	}

	equipment := model.Equipment{
		ID:                  uuid.NewString(),
		Name:                body.Name,
		SerialNumber:        body.SerialNumber,
		Category:            body.Category,
		Department:          body.Department,
		Location:            body.Location,
		MaintenanceTeamID:   body.MaintenanceTeamID,
		DefaultTechnicianID: body.DefaultTechnicianID,
		PurchaseDate:        purchase,
		PurchaseCost:        body.PurchaseCost,
		WarrantyExpiry:      warranty,
		WarrantyInfo:        body.WarrantyInfo,
		HealthPercentage:    100,
		Status:              "active",
		Notes:               body.Notes,
	}
	if body.HealthPercentage != nil {
		equipment.HealthPercentage = *body.HealthPercentage
	}

	db := h.store.DB().WithContext(c.Request.Context())
	var existing model.Equipment
	if err := db.First(&existing, "serial_number = ?", body.SerialNumber).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"detail": "Serial number already exists"})
		return
	} else if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to check serial number"})
		return
	}

	if err := db.Create(&equipment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create equipment"})
		return
	}

	h.reloadSnapshot(c.Request.Context())
	c.JSON(http.StatusCreated, equipmentViewOf(equipment))
}

// GetEquipment handles GET /api/equipment/:id.
func (h *Handler) GetEquipment(c *gin.Context) {
	var equipment model.Equipment
	err := h.store.DB().WithContext(c.Request.Context()).
		First(&equipment, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Equipment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve equipment"})
		return
	}
	c.JSON(http.StatusOK, equipmentViewOf(equipment))
}

type equipmentUpdateBody struct {
	Name                *string `json:"name"`
	Category            *string `json:"category"`
	Department          *string `json:"department"`
	Location            *string `json:"location"`
	MaintenanceTeamID   *string `json:"maintenance_team_id"`
	DefaultTechnicianID *string `json:"default_technician_id"`
	HealthPercentage    *int    `json:"health_percentage"`
	Status              *string `json:"status" binding:"omitempty,oneof=active maintenance scrapped retired"`
	Notes               *string `json:"notes"`
}

// UpdateEquipment handles PUT /api/equipment/:id.
func (h *Handler) UpdateEquipment(c *gin.Context) {
	var body equipmentUpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	db := h.store.DB().WithContext(c.Request.Context())
	var equipment model.Equipment
	if err := db.First(&equipment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Equipment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve equipment"})
		return
	}

	if body.Name != nil {
		equipment.Name = *body.Name
	}
	if body.Category != nil {
		equipment.Category = *body.Category
	}
	if body.Department != nil {
		equipment.Department = *body.Department
	}
	if body.Location != nil {
		equipment.Location = *body.Location
	}
	if body.MaintenanceTeamID != nil {
		equipment.MaintenanceTeamID = body.MaintenanceTeamID
	}
	if body.DefaultTechnicianID != nil {
		equipment.DefaultTechnicianID = body.DefaultTechnicianID
	}
	if body.HealthPercentage != nil {
		equipment.HealthPercentage = *body.HealthPercentage
	}
	if body.Status != nil {
		equipment.Status = *body.Status
	}
	if body.Notes != nil {
		equipment.Notes = *body.Notes
	}
	equipment.UpdatedAt = time.Now().UTC()

	if err := db.Save(&equipment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update equipment"})
		return
	}

	h.reloadSnapshot(c.Request.Context())
	c.JSON(http.StatusOK, equipmentViewOf(equipment))
}

// DeleteEquipment handles DELETE /api/equipment/:id. Requests pointing at the
// equipment keep existing with the reference cleared.
func (h *Handler) DeleteEquipment(c *gin.Context) {
	if err := h.store.DeleteEquipment(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Equipment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete equipment"})
		return
	}
	h.reloadSnapshot(c.Request.Context())
	c.Status(http.StatusNoContent)
}
