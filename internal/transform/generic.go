package transform

import (
	"encoding/json"

	"github.com/KarthicSuRa/mcm-alerts/internal/db"
)

const maxDumpLen = 500

// GenericTransform handles sources without a dedicated transform. It only
// alerts when the payload itself signals a failure.
type GenericTransform struct{}

func (GenericTransform) Apply(payload map[string]interface{}) (*Draft, error) {
	if !genericAlertWorthy(payload) {
		return nil, nil
	}

	title := firstString(payload, "eventName", "title")
	if title == "" {
		title = "External service alert"
	}

	message := firstString(payload, "message", "summary", "error")
	if message == "" {
		message = truncatedDump(payload)
	}

	return &Draft{
		Type:     "webhook_alert",
		Title:    title,
		Message:  message,
		Severity: db.SeverityHigh,
		Metadata: map[string]interface{}{},
	}, nil
}

func genericAlertWorthy(payload map[string]interface{}) bool {
	// Senders spell severity many ways; collapse through the shared mapping.
	if s, ok := payload["severity"].(string); ok && MapSeverity(s) == db.SeverityHigh {
		return true
	}
	if s, _ := payload["status"].(string); s == "failed" {
		return true
	}
	if _, ok := payload["error"]; ok {
		return true
	}
	return false
}

func firstString(payload map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func truncatedDump(payload map[string]interface{}) string {
	b, err := json.Marshal(payload)
	if err != nil {
		return "unparseable payload"
	}
	if len(b) > maxDumpLen {
		return string(b[:maxDumpLen]) + "..."
	}
	return string(b)
}
