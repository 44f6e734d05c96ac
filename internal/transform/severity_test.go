package transform

import (
	"testing"

	"github.com/KarthicSuRa/mcm-alerts/internal/db"
	"github.com/stretchr/testify/assert"
)

func TestMapSeverity(t *testing.T) {
	cases := map[string]db.Severity{
		"low":      db.SeverityLow,
		"info":     db.SeverityLow,
		"medium":   db.SeverityMedium,
		"warning":  db.SeverityMedium,
		"high":     db.SeverityHigh,
		"critical": db.SeverityHigh,
		"error":    db.SeverityHigh,
		"HIGH":     db.SeverityHigh,
		" info ":   db.SeverityLow,
		"":         db.SeverityMedium,
		"bogus":    db.SeverityMedium,
	}

	for input, want := range cases {
		assert.Equal(t, want, MapSeverity(input), "input=%q", input)
	}
}
