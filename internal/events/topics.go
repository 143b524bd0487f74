package events

// Topic constants for domain events emitted by the storefront.
const (
	TopicOrderCreated     = "order.created"
	TopicOrderApproved    = "order.approved"
	TopicOrderRejected    = "order.rejected"
	TopicBookingCreated   = "booking.created"
	TopicBookingCancelled = "booking.cancelled"
)

// TaskNotify is the queue task kind carrying {"eventId": ...} for the notification worker.
const TaskNotify = "event:notify"

// DefaultTopics returns the topics that trigger customer notifications.
func DefaultTopics() []string {
	return []string{
		TopicOrderCreated,
		TopicOrderApproved,
		TopicOrderRejected,
		TopicBookingCreated,
		TopicBookingCancelled,
	}
}
