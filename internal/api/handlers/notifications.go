package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/KarthicSuRa/mcm-alerts/internal/db"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) ListNotifications(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	status := c.Query("status")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	switch status {
	case "", string(db.NotificationNew), string(db.NotificationAcknowledged), string(db.NotificationResolved):
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	notifications, err := h.store.ListNotifications(status, limit, (page-1)*limit)
	if err != nil {
		h.logger.Error("Failed to list notifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *Handler) GetNotification(c *gin.Context) {
	id := c.Param("id")

	notification, err := h.store.GetNotification(id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		h.logger.Error("Failed to get notification", zap.Error(err), zap.String("notification_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, notification)
}

func (h *Handler) AcknowledgeNotification(c *gin.Context) {
	h.setNotificationStatus(c, db.NotificationAcknowledged)
}

func (h *Handler) ResolveNotification(c *gin.Context) {
	h.setNotificationStatus(c, db.NotificationResolved)
}

// setNotificationStatus is the dashboard's lifecycle mutation. The pipeline
// itself only ever creates notifications in the "new" state.
func (h *Handler) setNotificationStatus(c *gin.Context, status db.NotificationStatus) {
	id := c.Param("id")

	if err := h.store.UpdateNotificationStatus(id, status); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		h.logger.Error("Failed to update notification", zap.Error(err), zap.String("notification_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}
