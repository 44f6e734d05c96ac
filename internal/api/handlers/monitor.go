package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TriggerMonitorRun executes one probe cycle on demand. Same code path as
// the scheduled cycle.
func (h *Handler) TriggerMonitorRun(c *gin.Context) {
	summary, err := h.runner.Run(c.Request.Context())
	if err != nil {
		h.logger.Error("Monitor run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Checked %d sites", summary.SitesChecked),
	})
}
