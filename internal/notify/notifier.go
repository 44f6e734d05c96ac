package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/KarthicSuRa/mcm-alerts/internal/db"
	"github.com/KarthicSuRa/mcm-alerts/pkg/onesignal"
	"go.uber.org/zap"
)

// Store is the subset of the repository the notifier reads to resolve
// delivery targets.
type Store interface {
	GetSubscriptionsByTopic(topicID string) ([]*db.TopicSubscription, error)
	GetDevicesBySubscribers(subscriberIDs []string) ([]*db.PushDevice, error)
}

// Pusher is the external delivery provider.
type Pusher interface {
	CreateNotification(ctx context.Context, req onesignal.NotificationRequest) (*onesignal.NotificationResponse, error)
}

// Recorder observes push delivery outcomes.
type Recorder interface {
	RecordNotification(severity db.Severity, success bool, latencySeconds float64)
}

// Result reports what happened to one dispatch. Skipped is a normal outcome
// when nothing is subscribed, not an error.
type Result struct {
	Skipped    bool
	Reason     string
	ProviderID string
	Recipients int
}

type Notifier struct {
	store   Store
	push    Pusher
	metrics Recorder
	logger  *zap.Logger
}

func NewNotifier(store Store, push Pusher, metrics Recorder, logger *zap.Logger) *Notifier {
	return &Notifier{
		store:   store,
		push:    push,
		metrics: metrics,
		logger:  logger,
	}
}

// Dispatch resolves the topic's subscribers to device tokens and sends one
// push covering all of them. The notification is already persisted; a
// delivery failure here never unwinds it.
func (n *Notifier) Dispatch(ctx context.Context, notification *db.Notification) (*Result, error) {
	if notification.TopicID == nil {
		return &Result{Skipped: true, Reason: "no topic"}, nil
	}

	subs, err := n.store.GetSubscriptionsByTopic(*notification.TopicID)
	if err != nil {
		return nil, fmt.Errorf("resolve subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return &Result{Skipped: true, Reason: "no subscribers"}, nil
	}

	subscriberIDs := make([]string, 0, len(subs))
	for _, s := range subs {
		subscriberIDs = append(subscriberIDs, s.SubscriberID)
	}

	devices, err := n.store.GetDevicesBySubscribers(subscriberIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve devices: %w", err)
	}
	if len(devices) == 0 {
		return &Result{Skipped: true, Reason: "no devices"}, nil
	}

	playerIDs := make([]string, 0, len(devices))
	for _, d := range devices {
		playerIDs = append(playerIDs, d.PlayerID)
	}

	start := time.Now()
	resp, err := n.push.CreateNotification(ctx, onesignal.NotificationRequest{
		IncludePlayerIDs: playerIDs,
		Headings:         map[string]string{"en": notification.Title},
		Contents:         map[string]string{"en": notification.Message},
		Subtitle:         map[string]string{"en": subtitle(notification)},
		Data: map[string]interface{}{
			"notification": notification,
		},
		Priority: priorityFor(notification.Severity),
	})
	n.metrics.RecordNotification(notification.Severity, err == nil, time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	n.logger.Info("Push dispatched",
		zap.String("notification_id", notification.ID),
		zap.String("provider_id", resp.ID),
		zap.Int("recipients", resp.Recipients),
	)

	return &Result{ProviderID: resp.ID, Recipients: resp.Recipients}, nil
}

func subtitle(n *db.Notification) string {
	if name, ok := n.Metadata["site_name"].(string); ok && name != "" {
		return fmt.Sprintf("%s - %s", name, n.Severity)
	}
	return string(n.Severity)
}

func priorityFor(severity db.Severity) int {
	if severity == db.SeverityHigh {
		return 10
	}
	return 5
}
