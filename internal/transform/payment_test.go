package transform

import (
	"testing"

	"github.com/KarthicSuRa/mcm-alerts/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paymentPayload(eventCode, success string, extra map[string]interface{}) map[string]interface{} {
	item := map[string]interface{}{
		"eventCode":         eventCode,
		"success":           success,
		"pspReference":      "PSP1234567890REF",
		"merchantReference": "order-42",
	}
	for k, v := range extra {
		item[k] = v
	}
	return map[string]interface{}{
		"live": "false",
		"notificationItems": []interface{}{
			map[string]interface{}{"NotificationRequestItem": item},
		},
	}
}

func TestPayment_SuccessfulAuthorisationSuppressed(t *testing.T) {
	draft, err := PaymentTransform{}.Apply(paymentPayload("AUTHORISATION", "true", nil))
	require.NoError(t, err)
	assert.Nil(t, draft)
}

func TestPayment_FailedAuthorisationAlerts(t *testing.T) {
	draft, err := PaymentTransform{}.Apply(paymentPayload("AUTHORISATION", "false", map[string]interface{}{
		"reason": "Expired Card",
	}))
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, db.SeverityHigh, draft.Severity)
	assert.Equal(t, "Payment authorisation failed", draft.Title)
	assert.Contains(t, draft.Message, "Reason: Expired Card")
	assert.Contains(t, draft.Message, "Merchant Reference: order-42")
}

func TestPayment_ChargebackAlwaysAlerts(t *testing.T) {
	for _, success := range []string{"true", "false", ""} {
		draft, err := PaymentTransform{}.Apply(paymentPayload("CHARGEBACK", success, nil))
		require.NoError(t, err)
		require.NotNil(t, draft, "success=%q", success)
		assert.Equal(t, db.SeverityHigh, draft.Severity)
		assert.Equal(t, "Chargeback received", draft.Title)
	}
}

func TestPayment_TerminalFailuresAlwaysAlert(t *testing.T) {
	for _, code := range []string{"CAPTURE_FAILED", "REFUND_FAILED", "NOTIFICATION_OF_CHARGEBACK", "THROTTLE_REACHED"} {
		draft, err := PaymentTransform{}.Apply(paymentPayload(code, "true", nil))
		require.NoError(t, err)
		require.NotNil(t, draft, "event=%s", code)
	}
}

func TestPayment_UnknownEventSuppressed(t *testing.T) {
	draft, err := PaymentTransform{}.Apply(paymentPayload("REPORT_AVAILABLE", "true", nil))
	require.NoError(t, err)
	assert.Nil(t, draft)
}

func TestPayment_AmountAndMaskedReferenceInMessage(t *testing.T) {
	draft, err := PaymentTransform{}.Apply(paymentPayload("CAPTURE_FAILED", "false", map[string]interface{}{
		"amount": map[string]interface{}{"currency": "EUR", "value": float64(4250)},
	}))
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Contains(t, draft.Message, "Amount: EUR 42.50")
	assert.Contains(t, draft.Message, "PSP Reference: PSP1****0REF")
	assert.NotContains(t, draft.Message, "PSP1234567890REF")
}

func TestPayment_MissingItemsIsHardError(t *testing.T) {
	_, err := PaymentTransform{}.Apply(map[string]interface{}{"live": "false"})
	require.Error(t, err)

	_, err = PaymentTransform{}.Apply(map[string]interface{}{
		"notificationItems": []interface{}{map[string]interface{}{"unexpected": "shape"}},
	})
	require.Error(t, err)
}

func TestRegistry_FallsBackToGeneric(t *testing.T) {
	r := NewRegistry()
	assert.IsType(t, PaymentTransform{}, r.Get(db.SourceTypePayment))
	assert.IsType(t, GenericTransform{}, r.Get(db.SourceTypeGeneric))
	assert.IsType(t, GenericTransform{}, r.Get(db.SourceType("unknown")))
}
