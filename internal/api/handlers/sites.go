package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/KarthicSuRa/mcm-alerts/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateSiteRequest struct {
	Name      string   `json:"name" binding:"required,min=1,max=255"`
	URL       string   `json:"url" binding:"required,url"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (h *Handler) CreateSite(c *gin.Context) {
	var req CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	site := &db.Site{
		ID:        uuid.New().String(),
		Name:      req.Name,
		URL:       req.URL,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateSite(site); err != nil {
		h.logger.Error("Failed to create site", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create site"})
		return
	}

	h.logger.Info("Site created",
		zap.String("site_id", site.ID),
		zap.String("url", site.URL),
	)

	c.JSON(http.StatusCreated, site)
}

func (h *Handler) GetSite(c *gin.Context) {
	siteID := c.Param("id")

	site, err := h.store.GetSite(siteID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
			return
		}
		h.logger.Error("Failed to get site", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	logs, err := h.store.GetPingLogsBySite(siteID, 20)
	if err != nil {
		h.logger.Error("Failed to get ping logs", zap.Error(err), zap.String("site_id", siteID))
		logs = []*db.PingLog{}
	}

	c.JSON(http.StatusOK, gin.H{
		"site":         site,
		"recent_pings": logs,
	})
}

func (h *Handler) ListSites(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	offset := (page - 1) * limit

	sites, err := h.store.ListSites(limit, offset)
	if err != nil {
		h.logger.Error("Failed to list sites", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	total, _ := h.store.CountSites()

	c.JSON(http.StatusOK, gin.H{
		"sites": sites,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func (h *Handler) PauseSite(c *gin.Context) {
	h.toggleSite(c, true)
}

func (h *Handler) ResumeSite(c *gin.Context) {
	h.toggleSite(c, false)
}

func (h *Handler) toggleSite(c *gin.Context, paused bool) {
	siteID := c.Param("id")

	if err := h.store.SetSitePaused(siteID, paused); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
			return
		}
		h.logger.Error("Failed to update site", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update site"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": siteID, "is_paused": paused})
}
