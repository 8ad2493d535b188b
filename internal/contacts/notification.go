package contacts

import "context"

// NotificationResult is the outcome of a best-effort operator notification.
// A zero value means nothing was attempted.
type NotificationResult struct {
	Attempted bool
	Provider  string
	Err       error
}

// Status is the metrics label for the result.
func (r NotificationResult) Status() string {
	switch {
	case !r.Attempted:
		return "skipped"
	case r.Err != nil:
		return "failed"
	default:
		return "sent"
	}
}

// Notifier sends operator notifications for new contacts.
type Notifier interface {
	Enabled() bool
	NotifyContact(ctx context.Context, c *Contact) NotificationResult
	SendTest(ctx context.Context) NotificationResult
}
