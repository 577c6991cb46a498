package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/lifecycle"
)

// GetDashboardKPIs handles GET /api/dashboard/kpis: the three headline
// numbers computed from the snapshot.
func (h *Handler) GetDashboardKPIs(c *gin.Context) {
	snap, err := h.holder.Ensure(c.Request.Context(), h.store)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load dashboard data"})
		return
	}

	now := time.Now().UTC()

	criticalEquipment := 0
	for _, e := range snap.Equipment {
		if e.IsCritical() && !e.IsScrapped() {
			criticalEquipment++
		}
	}

	totalTechnicians := 0
	for _, u := range snap.Users {
		if u.IsTechnician && u.IsActive {
			totalTechnicians++
		}
	}

	pending, inProgress, overdue := 0, 0, 0
	busyTechnicians := make(map[string]struct{})
	for _, req := range snap.Requests {
		switch lifecycle.Status(req.Status) {
		case lifecycle.StatusNew:
			pending++
		case lifecycle.StatusInProgress:
			inProgress++
			if req.AssignedTo != nil {
				busyTechnicians[*req.AssignedTo] = struct{}{}
			}
		}
		if lifecycle.IsOverdue(&req, now) {
			overdue++
		}
	}

	utilization := 0.0
	if totalTechnicians > 0 {
		utilization = float64(len(busyTechnicians)) / float64(totalTechnicians) * 100
	}

	c.JSON(http.StatusOK, gin.H{
		"critical_equipment": gin.H{
			"count":     criticalEquipment,
			"threshold": 30,
		},
		"technician_load": gin.H{
			"utilization_percentage": utilization,
			"active_technicians":     len(busyTechnicians),
			"total_technicians":      totalTechnicians,
		},
		"open_requests": gin.H{
			"pending_count":     pending,
			"in_progress_count": inProgress,
			"overdue_count":     overdue,
		},
		"last_updated": snap.LoadedAt,
	})
}

// GetRecentActivity handles GET /api/dashboard/recent-activity: the latest
// requests
// in reverse update order.
func (h *Handler) GetRecentActivity(c *gin.Context) {
	snap, err := h.holder.Ensure(c.Request.Context(), h.store)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load dashboard data"})
		return
	}

	userNames := make(map[string]string, len(snap.Users))
	for _, u := range snap.Users {
		userNames[u.ID] = u.Name
	}
	equipmentNames := make(map[string]string, len(snap.Equipment))
	for _, e := range snap.Equipment {
		equipmentNames[e.ID] = e.Name
	}

	const limit = 10
	type activityItem struct {
		RequestID     string    `json:"request_id"`
		Reference     string    `json:"reference"`
		Subject       string    `json:"subject"`
		Status        string    `json:"status"`
		CreatedByName string    `json:"created_by_name"`
		EquipmentName string    `json:"equipment_name,omitempty"`
		UpdatedAt     time.Time `json:"updated_at"`
	}

	items := make([]activityItem, 0, limit)
	// Snapshot is in creation order; walk backwards for the newest first.
	for i := len(snap.Requests) - 1; i >= 0 && len(items) < limit; i-- {
		req := snap.Requests[i]
		item := activityItem{
			RequestID:     req.ID,
			Reference:     req.Reference,
			Subject:       req.Subject,
			Status:        req.Status,
			CreatedByName: userNames[req.CreatedBy],
			UpdatedAt:     req.UpdatedAt,
		}
		if req.EquipmentID != nil {
			item.EquipmentName = equipmentNames[*req.EquipmentID]
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, items)
}
