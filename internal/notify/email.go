package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/noah-isme/storefront/internal/events"
)

func subjectFor(topic string) string {
	switch topic {
	case events.TopicOrderCreated:
		return "We received your order"
	case events.TopicOrderApproved:
		return "Your order was approved"
	case events.TopicOrderRejected:
		return "Your order was rejected"
	case events.TopicBookingCreated:
		return "Your pickup booking"
	case events.TopicBookingCancelled:
		return "Your pickup booking was cancelled"
	default:
		return fmt.Sprintf("Notification: %s", topic)
	}
}

func bodyFor(topic string, payload map[string]any, occurred time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(subjectFor(topic)))
	fmt.Fprintf(&b, "<p>Time: %s</p>", occurred.UTC().Format(time.RFC3339))
	if id := stringField(payload, "orderId"); id != "" {
		fmt.Fprintf(&b, "<p>Order: %s</p>", html.EscapeString(id))
	}
	if id := stringField(payload, "bookingId"); id != "" {
		fmt.Fprintf(&b, "<p>Booking: %s</p>", html.EscapeString(id))
	}
	if date := stringField(payload, "pickupDate"); date != "" {
		fmt.Fprintf(&b, "<p>Pickup date: %s</p>", html.EscapeString(date))
	}
	for _, key := range []string{"finalAmount", "totalAmount"} {
		if amount := stringField(payload, key); amount != "" {
			fmt.Fprintf(&b, "<p>Total: %s</p>", html.EscapeString(amount))
			break
		}
	}
	return b.String()
}

// stringField reads a string or number from the decoded event payload.
// Decimals are serialised as JSON strings.
func stringField(payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return ""
	}
}
