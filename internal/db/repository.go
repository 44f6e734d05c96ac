package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	db *sqlx.DB
}

func NewConnection(databaseURL string, maxConns, maxIdle int) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Site operations

func (r *Repository) CreateSite(s *Site) error {
	query := `
		INSERT INTO sites (id, name, url, is_paused, latitude, longitude, created_at, updated_at)
		VALUES (:id, :name, :url, :is_paused, :latitude, :longitude, :created_at, :updated_at)`

	_, err := r.db.NamedExec(query, s)
	return err
}

func (r *Repository) GetSite(id string) (*Site, error) {
	var s Site
	err := r.db.Get(&s, `SELECT * FROM sites WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return &s, err
}

func (r *Repository) ListSites(limit, offset int) ([]*Site, error) {
	sites := []*Site{}
	query := `SELECT * FROM sites ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	err := r.db.Select(&sites, query, limit, offset)
	return sites, err
}

func (r *Repository) CountSites() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM sites`)
	return count, err
}

// GetActiveSites returns the sites the monitor probes each cycle.
func (r *Repository) GetActiveSites() ([]*Site, error) {
	sites := []*Site{}
	query := `SELECT * FROM sites WHERE is_paused = false ORDER BY created_at`
	err := r.db.Select(&sites, query)
	return sites, err
}

func (r *Repository) SetSitePaused(id string, paused bool) error {
	res, err := r.db.Exec(
		`UPDATE sites SET is_paused = $1, updated_at = NOW() WHERE id = $2`,
		paused, id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping log operations

func (r *Repository) InsertPingLogs(logs []*PingLog) error {
	if len(logs) == 0 {
		return nil
	}
	query := `
		INSERT INTO ping_logs (id, site_id, is_up, status_code, status_text, response_time_ms, error_message, checked_at)
		VALUES (:id, :site_id, :is_up, :status_code, :status_text, :response_time_ms, :error_message, :checked_at)`

	_, err := r.db.NamedExec(query, logs)
	return err
}

func (r *Repository) GetPingLogsBySite(siteID string, limit int) ([]*PingLog, error) {
	logs := []*PingLog{}
	query := `SELECT * FROM ping_logs WHERE site_id = $1 ORDER BY checked_at DESC LIMIT $2`
	err := r.db.Select(&logs, query, siteID, limit)
	return logs, err
}

// Webhook source operations

func (r *Repository) CreateWebhookSource(s *WebhookSource) error {
	query := `
		INSERT INTO webhook_sources (id, name, source_type, topic_id, created_at)
		VALUES (:id, :name, :source_type, :topic_id, :created_at)`

	_, err := r.db.NamedExec(query, s)
	return err
}

func (r *Repository) GetWebhookSource(id string) (*WebhookSource, error) {
	var s WebhookSource
	err := r.db.Get(&s, `SELECT * FROM webhook_sources WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return &s, err
}

func (r *Repository) ListWebhookSources() ([]*WebhookSource, error) {
	sources := []*WebhookSource{}
	err := r.db.Select(&sources, `SELECT * FROM webhook_sources ORDER BY created_at DESC`)
	return sources, err
}

// Webhook event operations

func (r *Repository) CreateWebhookEvent(e *WebhookEvent) error {
	query := `
		INSERT INTO webhook_events (id, source_id, payload, received_at)
		VALUES (:id, :source_id, :payload, :received_at)`

	_, err := r.db.NamedExec(query, e)
	return err
}

// Notification operations

func (r *Repository) CreateNotification(n *Notification) error {
	query := `
		INSERT INTO notifications (id, type, title, message, severity, status, site_id, topic_id, metadata, created_at)
		VALUES (:id, :type, :title, :message, :severity, :status, :site_id, :topic_id, :metadata, :created_at)`

	_, err := r.db.NamedExec(query, n)
	return err
}

func (r *Repository) GetNotification(id string) (*Notification, error) {
	var n Notification
	err := r.db.Get(&n, `SELECT * FROM notifications WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return &n, err
}

func (r *Repository) ListNotifications(status string, limit, offset int) ([]*Notification, error) {
	notifications := []*Notification{}
	if status != "" {
		query := `SELECT * FROM notifications WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		err := r.db.Select(&notifications, query, status, limit, offset)
		return notifications, err
	}
	query := `SELECT * FROM notifications ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	err := r.db.Select(&notifications, query, limit, offset)
	return notifications, err
}

// UpdateNotificationStatus drives the acknowledge/resolve lifecycle. Only the
// operator-facing API mutates status; the pipeline itself never does.
func (r *Repository) UpdateNotificationStatus(id string, status NotificationStatus) error {
	res, err := r.db.Exec(`UPDATE notifications SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Topic operations

func (r *Repository) CreateTopic(t *Topic) error {
	query := `INSERT INTO topics (id, name, created_at) VALUES (:id, :name, :created_at)`
	_, err := r.db.NamedExec(query, t)
	return err
}

func (r *Repository) GetTopicByName(name string) (*Topic, error) {
	var t Topic
	err := r.db.Get(&t, `SELECT * FROM topics WHERE name = $1`, name)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return &t, err
}

func (r *Repository) ListTopics() ([]*Topic, error) {
	topics := []*Topic{}
	err := r.db.Select(&topics, `SELECT * FROM topics ORDER BY name`)
	return topics, err
}

// Subscription and device lookups used by the notifier

func (r *Repository) GetSubscriptionsByTopic(topicID string) ([]*TopicSubscription, error) {
	subs := []*TopicSubscription{}
	query := `SELECT * FROM topic_subscriptions WHERE topic_id = $1`
	err := r.db.Select(&subs, query, topicID)
	return subs, err
}

func (r *Repository) GetDevicesBySubscribers(subscriberIDs []string) ([]*PushDevice, error) {
	devices := []*PushDevice{}
	if len(subscriberIDs) == 0 {
		return devices, nil
	}
	query := `SELECT * FROM push_devices WHERE subscriber_id = ANY($1)`
	err := r.db.Select(&devices, query, pq.Array(subscriberIDs))
	return devices, err
}
