package transform

import (
	"fmt"
	"strings"

	"github.com/KarthicSuRa/mcm-alerts/internal/db"
)

// Event codes sent by the payment service provider.
const (
	eventAuthorisation    = "AUTHORISATION"
	eventCapture          = "CAPTURE"
	eventRefund           = "REFUND"
	eventCancellation     = "CANCELLATION"
	eventCaptureFailed    = "CAPTURE_FAILED"
	eventRefundFailed     = "REFUND_FAILED"
	eventChargeback       = "CHARGEBACK"
	eventChargebackNotice = "NOTIFICATION_OF_CHARGEBACK"
	eventThrottleReached  = "THROTTLE_REACHED"
)

// Terminal failures alert unconditionally.
var alwaysAlert = map[string]bool{
	eventCaptureFailed:    true,
	eventRefundFailed:     true,
	eventChargeback:       true,
	eventChargebackNotice: true,
	eventThrottleReached:  true,
}

// Normally-successful events alert only when their success flag is false.
var alertOnFailure = map[string]bool{
	eventAuthorisation: true,
	eventCapture:       true,
	eventRefund:        true,
	eventCancellation:  true,
}

var eventTitles = map[string]string{
	eventAuthorisation:    "Payment authorisation failed",
	eventCapture:          "Payment capture failed",
	eventRefund:           "Refund failed",
	eventCancellation:     "Payment cancellation failed",
	eventCaptureFailed:    "Payment capture failed",
	eventRefundFailed:     "Refund failed",
	eventChargeback:       "Chargeback received",
	eventChargebackNotice: "Chargeback notice received",
	eventThrottleReached:  "PSP request throttle reached",
}

// PaymentTransform handles the PSP webhook shape: a notificationItems array
// whose entries wrap a NotificationRequestItem.
type PaymentTransform struct{}

func (PaymentTransform) Apply(payload map[string]interface{}) (*Draft, error) {
	item, err := extractNotificationItem(payload)
	if err != nil {
		return nil, err
	}

	eventCode, _ := item["eventCode"].(string)
	success, _ := item["success"].(string)

	switch {
	case alwaysAlert[eventCode]:
		// alert regardless of success flag
	case alertOnFailure[eventCode] && success != "true":
		// failed outcome of a normally-successful event
	default:
		return nil, nil
	}

	title, ok := eventTitles[eventCode]
	if !ok {
		title = fmt.Sprintf("Payment event: %s", eventCode)
	}

	return &Draft{
		Type:     "payment_alert",
		Title:    title,
		Message:  buildPaymentMessage(eventCode, item),
		Severity: db.SeverityHigh,
		Metadata: map[string]interface{}{
			"event_code":         eventCode,
			"success":            success,
			"psp_reference":      stringField(item, "pspReference"),
			"merchant_reference": stringField(item, "merchantReference"),
		},
	}, nil
}

// extractNotificationItem digs out notificationItems[0].NotificationRequestItem.
// A payload without that structure is malformed for this source type.
func extractNotificationItem(payload map[string]interface{}) (map[string]interface{}, error) {
	items, ok := payload["notificationItems"].([]interface{})
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf("payment payload missing notificationItems")
	}
	wrapper, ok := items[0].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("payment payload has malformed notification item")
	}
	item, ok := wrapper["NotificationRequestItem"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("payment payload missing NotificationRequestItem")
	}
	return item, nil
}

func buildPaymentMessage(eventCode string, item map[string]interface{}) string {
	lines := []string{fmt.Sprintf("Event: %s", eventCode)}

	if amount := formatAmount(item); amount != "" {
		lines = append(lines, fmt.Sprintf("Amount: %s", amount))
	}
	if psp := stringField(item, "pspReference"); psp != "" {
		lines = append(lines, fmt.Sprintf("PSP Reference: %s", maskReference(psp)))
	}
	if ref := stringField(item, "merchantReference"); ref != "" {
		lines = append(lines, fmt.Sprintf("Merchant Reference: %s", ref))
	}
	if reason := stringField(item, "reason"); reason != "" {
		lines = append(lines, fmt.Sprintf("Reason: %s", reason))
	}

	return strings.Join(lines, "\n")
}

func formatAmount(item map[string]interface{}) string {
	amount, ok := item["amount"].(map[string]interface{})
	if !ok {
		return ""
	}
	currency, _ := amount["currency"].(string)
	value, ok := amount["value"].(float64)
	if !ok || currency == "" {
		return ""
	}
	// PSP amounts arrive in minor units
	return fmt.Sprintf("%s %.2f", currency, value/100)
}

// maskReference hides the middle of a PSP reference so alerts can be shared
// outside the payments team.
func maskReference(ref string) string {
	if len(ref) <= 8 {
		return ref
	}
	return ref[:4] + "****" + ref[len(ref)-4:]
}

func stringField(item map[string]interface{}, key string) string {
	s, _ := item[key].(string)
	return s
}
