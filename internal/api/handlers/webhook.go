package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/KarthicSuRa/mcm-alerts/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceiveWebhook ingests one third-party event. The raw payload is persisted
// before any transformation runs, so a transform bug never loses the audit
// trail. The sender only sees a failure for its own mistakes (bad source id,
// bad JSON) or a genuine internal fault; "no alert produced" is a 200.
func (h *Handler) ReceiveWebhook(c *gin.Context) {
	sourceID := c.Query("source_id")
	if sourceID == "" {
		h.metrics.RecordWebhookReject("missing_source_id")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source_id"})
		return
	}

	source, err := h.store.GetWebhookSource(sourceID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			h.metrics.RecordWebhookReject("unknown_source")
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown webhook source"})
			return
		}
		h.logger.Error("Failed to look up webhook source", zap.Error(err), zap.String("source_id", sourceID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		h.metrics.RecordWebhookReject("malformed_json")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON body"})
		return
	}

	event := &db.WebhookEvent{
		ID:         uuid.New().String(),
		SourceID:   source.ID,
		Payload:    payload,
		ReceivedAt: time.Now(),
	}
	if err := h.store.CreateWebhookEvent(event); err != nil {
		h.logger.Error("Failed to persist webhook event", zap.Error(err), zap.String("source_id", source.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record event"})
		return
	}

	alerted, err := h.processEvent(c, source, payload)
	if err != nil {
		// The audit row is already committed; this is the only case where
		// the sender sees a 500 for a stored event.
		h.logger.Error("Failed to process webhook event",
			zap.Error(err),
			zap.String("source_id", source.ID),
			zap.String("event_id", event.ID),
		)
		h.metrics.RecordWebhookEvent(source.SourceType, false)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process webhook"})
		return
	}

	h.metrics.RecordWebhookEvent(source.SourceType, alerted)
	c.JSON(http.StatusOK, gin.H{"message": "Webhook processed successfully"})
}

// processEvent runs the source's transform and persists a notification when
// one is produced. Sources without a linked topic keep the audit trail only.
func (h *Handler) processEvent(c *gin.Context, source *db.WebhookSource, payload map[string]interface{}) (bool, error) {
	if source.TopicID == nil {
		return false, nil
	}

	draft, err := h.registry.Get(source.SourceType).Apply(payload)
	if err != nil {
		return false, err
	}
	if draft == nil {
		return false, nil
	}

	metadata := db.JSONB{
		"source_type": string(source.SourceType),
		"source_id":   source.ID,
	}
	for k, v := range draft.Metadata {
		metadata[k] = v
	}

	notification := &db.Notification{
		ID:        uuid.New().String(),
		Type:      draft.Type,
		Title:     draft.Title,
		Message:   draft.Message,
		Severity:  draft.Severity,
		Status:    db.NotificationNew,
		TopicID:   source.TopicID,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}

	if err := h.store.CreateNotification(notification); err != nil {
		return false, err
	}

	// Push dispatch is best effort; the webhook sender never waits on it.
	if _, err := h.dispatcher.Dispatch(c.Request.Context(), notification); err != nil {
		h.logger.Error("Failed to dispatch webhook notification",
			zap.Error(err),
			zap.String("notification_id", notification.ID),
		)
	}

	return true, nil
}
