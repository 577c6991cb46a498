package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/model"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/mw"
)

type putSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	P256DH   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

// PutSubscription registers or replaces a push subscription for the
// authenticated user, who then receives overdue-request reminders.
func (h *Handler) PutSubscription(c *gin.Context) {
	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	claims := mw.ClaimsFrom(c)
	subscription := model.PushSubscription{
		Endpoint: req.Endpoint,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
		UserID:   claims.UserID,
	}

	err := h.store.DB().WithContext(c.Request.Context()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "user_id"}),
	}).Create(&subscription).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to save subscription"})
		return
	}

	c.Status(http.StatusCreated)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription removes a push subscription.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	err := h.store.DB().WithContext(c.Request.Context()).
		Delete(&model.PushSubscription{Endpoint: req.Endpoint}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete subscription"})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSubscriptions lists the authenticated user's push subscriptions.
func (h *Handler) GetSubscriptions(c *gin.Context) {
	claims := mw.ClaimsFrom(c)

	var subscriptions []model.PushSubscription
	err := h.store.DB().WithContext(c.Request.Context()).
		Where("user_id = ?", claims.UserID).
		Find(&subscriptions).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve subscriptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": subscriptions})
}
