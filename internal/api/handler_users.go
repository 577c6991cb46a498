package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/model"
)

// ListUsers handles GET /api/users, used for assignee pickers.
func (h *Handler) ListUsers(c *gin.Context) {
	q := h.store.DB().WithContext(c.Request.Context()).Model(&model.User{})

	if tech := c.Query("is_technician"); tech != "" {
		q = q.Where("is_technician = ?", tech == "true")
	}
	if department := c.Query("department"); department != "" {
		q = q.Where("department = ?", department)
	}

	var users []model.User
	if err := q.Order("name ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": users, "total": len(users)})
}
