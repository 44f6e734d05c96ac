package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type NotificationStatus string

const (
	NotificationNew          NotificationStatus = "new"
	NotificationAcknowledged NotificationStatus = "acknowledged"
	NotificationResolved     NotificationStatus = "resolved"
)

type SourceType string

const (
	SourceTypeGeneric SourceType = "generic"
	SourceTypePayment SourceType = "payment"
)

type Site struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	URL       string    `json:"url" db:"url"`
	IsPaused  bool      `json:"is_paused" db:"is_paused"`
	Latitude  *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude *float64  `json:"longitude,omitempty" db:"longitude"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PingLog is append-only. One row per site per probing cycle.
type PingLog struct {
	ID             string    `json:"id" db:"id"`
	SiteID         string    `json:"site_id" db:"site_id"`
	IsUp           bool      `json:"is_up" db:"is_up"`
	StatusCode     int       `json:"status_code" db:"status_code"`
	StatusText     string    `json:"status_text" db:"status_text"`
	ResponseTimeMs int       `json:"response_time_ms" db:"response_time_ms"`
	ErrorMessage   *string   `json:"error_message,omitempty" db:"error_message"`
	CheckedAt      time.Time `json:"checked_at" db:"checked_at"`
}

type WebhookSource struct {
	ID         string     `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	SourceType SourceType `json:"source_type" db:"source_type"`
	TopicID    *string    `json:"topic_id,omitempty" db:"topic_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// WebhookEvent is the append-only audit trail. Every accepted inbound
// webhook writes exactly one row, whether or not it produces a notification.
type WebhookEvent struct {
	ID         string    `json:"id" db:"id"`
	SourceID   string    `json:"source_id" db:"source_id"`
	Payload    JSONB     `json:"payload" db:"payload"`
	ReceivedAt time.Time `json:"received_at" db:"received_at"`
}

type Notification struct {
	ID        string             `json:"id" db:"id"`
	Type      string             `json:"type" db:"type"`
	Title     string             `json:"title" db:"title"`
	Message   string             `json:"message" db:"message"`
	Severity  Severity           `json:"severity" db:"severity"`
	Status    NotificationStatus `json:"status" db:"status"`
	SiteID    *string            `json:"site_id,omitempty" db:"site_id"`
	TopicID   *string            `json:"topic_id,omitempty" db:"topic_id"`
	Metadata  JSONB              `json:"metadata,omitempty" db:"metadata"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
}

type Topic struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type TopicSubscription struct {
	ID           string    `json:"id" db:"id"`
	TopicID      string    `json:"topic_id" db:"topic_id"`
	SubscriberID string    `json:"subscriber_id" db:"subscriber_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// PushDevice maps a subscriber to a provider player token. Rows are written
// by the device registration flow, which lives outside this service; the
// pipeline only reads them to resolve delivery targets.
type PushDevice struct {
	PlayerID     string    `json:"player_id" db:"player_id"`
	SubscriberID string    `json:"subscriber_id" db:"subscriber_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// JSONB maps to a PostgreSQL jsonb column.
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = make(map[string]interface{})
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("jsonb scan: unexpected type %T", value)
	}
	return json.Unmarshal(b, j)
}
