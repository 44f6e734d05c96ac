package handlers

import (
	"context"

	"github.com/KarthicSuRa/mcm-alerts/internal/db"
	"github.com/KarthicSuRa/mcm-alerts/internal/monitor"
	"github.com/KarthicSuRa/mcm-alerts/internal/notify"
	"github.com/KarthicSuRa/mcm-alerts/internal/transform"
	"go.uber.org/zap"
)

// Store is what the handlers need from the repository.
type Store interface {
	CreateSite(s *db.Site) error
	GetSite(id string) (*db.Site, error)
	ListSites(limit, offset int) ([]*db.Site, error)
	CountSites() (int, error)
	SetSitePaused(id string, paused bool) error
	GetPingLogsBySite(siteID string, limit int) ([]*db.PingLog, error)

	CreateWebhookSource(s *db.WebhookSource) error
	GetWebhookSource(id string) (*db.WebhookSource, error)
	ListWebhookSources() ([]*db.WebhookSource, error)
	CreateWebhookEvent(e *db.WebhookEvent) error

	CreateNotification(n *db.Notification) error
	GetNotification(id string) (*db.Notification, error)
	ListNotifications(status string, limit, offset int) ([]*db.Notification, error)
	UpdateNotificationStatus(id string, status db.NotificationStatus) error

	CreateTopic(t *db.Topic) error
	ListTopics() ([]*db.Topic, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, n *db.Notification) (*notify.Result, error)
}

type MonitorRunner interface {
	Run(ctx context.Context) (*monitor.Summary, error)
}

type Recorder interface {
	RecordWebhookEvent(sourceType db.SourceType, alerted bool)
	RecordWebhookReject(reason string)
}

type Handler struct {
	store      Store
	registry   *transform.Registry
	dispatcher Dispatcher
	runner     MonitorRunner
	metrics    Recorder
	logger     *zap.Logger
}

func NewHandler(store Store, registry *transform.Registry, dispatcher Dispatcher, runner MonitorRunner, metrics Recorder, logger *zap.Logger) *Handler {
	return &Handler{
		store:      store,
		registry:   registry,
		dispatcher: dispatcher,
		runner:     runner,
		metrics:    metrics,
		logger:     logger,
	}
}
