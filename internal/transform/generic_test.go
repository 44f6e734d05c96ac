package transform

import (
	"strings"
	"testing"

	"github.com/KarthicSuRa/mcm-alerts/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneric_HealthyPayloadProducesNoAlert(t *testing.T) {
	draft, err := GenericTransform{}.Apply(map[string]interface{}{
		"status":  "ok",
		"message": "all good",
	})
	require.NoError(t, err)
	assert.Nil(t, draft)
}

func TestGeneric_FailedStatusAlerts(t *testing.T) {
	draft, err := GenericTransform{}.Apply(map[string]interface{}{
		"status":  "failed",
		"message": "db down",
	})
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, db.SeverityHigh, draft.Severity)
	assert.Equal(t, "db down", draft.Message)
}

func TestGeneric_HighSeverityAlerts(t *testing.T) {
	draft, err := GenericTransform{}.Apply(map[string]interface{}{
		"severity": "high",
		"title":    "disk pressure",
		"summary":  "volume at 95%",
	})
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, "disk pressure", draft.Title)
	assert.Equal(t, "volume at 95%", draft.Message)
}

func TestGeneric_CriticalSeverityCollapsesToHigh(t *testing.T) {
	draft, err := GenericTransform{}.Apply(map[string]interface{}{
		"severity": "critical",
		"message":  "cert expired",
	})
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, db.SeverityHigh, draft.Severity)
}

func TestGeneric_ErrorFieldAlerts(t *testing.T) {
	draft, err := GenericTransform{}.Apply(map[string]interface{}{
		"error": "connection reset",
	})
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, "External service alert", draft.Title)
	assert.Equal(t, "connection reset", draft.Message)
}

func TestGeneric_TitlePrefersEventName(t *testing.T) {
	draft, err := GenericTransform{}.Apply(map[string]interface{}{
		"status":    "failed",
		"eventName": "backup.failed",
		"title":     "ignored",
		"message":   "m",
	})
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, "backup.failed", draft.Title)
}

func TestGeneric_MessageFallsBackToTruncatedDump(t *testing.T) {
	payload := map[string]interface{}{
		"status": "failed",
		"blob":   strings.Repeat("x", 1000),
	}

	draft, err := GenericTransform{}.Apply(payload)
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Len(t, draft.Message, maxDumpLen+3)
	assert.True(t, strings.HasSuffix(draft.Message, "..."))
}
