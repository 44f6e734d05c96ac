package handlers

import (
	"net/http"
	"time"

	"github.com/KarthicSuRa/mcm-alerts/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateSourceRequest struct {
	Name       string  `json:"name" binding:"required,min=1,max=255"`
	SourceType string  `json:"source_type" binding:"required,oneof=generic payment"`
	TopicID    *string `json:"topic_id" binding:"omitempty,uuid"`
}

func (h *Handler) CreateWebhookSource(c *gin.Context) {
	var req CreateSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	source := &db.WebhookSource{
		ID:         uuid.New().String(),
		Name:       req.Name,
		SourceType: db.SourceType(req.SourceType),
		TopicID:    req.TopicID,
		CreatedAt:  time.Now(),
	}

	if err := h.store.CreateWebhookSource(source); err != nil {
		h.logger.Error("Failed to create webhook source", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create webhook source"})
		return
	}

	h.logger.Info("Webhook source created",
		zap.String("source_id", source.ID),
		zap.String("source_type", string(source.SourceType)),
	)

	c.JSON(http.StatusCreated, source)
}

func (h *Handler) ListWebhookSources(c *gin.Context) {
	sources, err := h.store.ListWebhookSources()
	if err != nil {
		h.logger.Error("Failed to list webhook sources", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sources": sources})
}

type CreateTopicRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

func (h *Handler) CreateTopic(c *gin.Context) {
	var req CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	topic := &db.Topic{
		ID:        uuid.New().String(),
		Name:      req.Name,
		CreatedAt: time.Now(),
	}

	if err := h.store.CreateTopic(topic); err != nil {
		h.logger.Error("Failed to create topic", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create topic"})
		return
	}

	c.JSON(http.StatusCreated, topic)
}

func (h *Handler) ListTopics(c *gin.Context) {
	topics, err := h.store.ListTopics()
	if err != nil {
		h.logger.Error("Failed to list topics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"topics": topics})
}
