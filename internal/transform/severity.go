package transform

import (
	"strings"

	"github.com/KarthicSuRa/mcm-alerts/internal/db"
)

// MapSeverity collapses the severity vocabulary seen across webhook payloads
// into the three buckets the notification model stores. Unrecognized input
// lands in the medium bucket.
func MapSeverity(raw string) db.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low", "info":
		return db.SeverityLow
	case "medium", "warning":
		return db.SeverityMedium
	case "high", "critical", "error":
		return db.SeverityHigh
	default:
		return db.SeverityMedium
	}
}
