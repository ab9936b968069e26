// Package notify provides the notification sink and the sticky reminder task.
package notify

import "time"

// Notification represents a notification to be delivered to the user.
type Notification struct {
	Title   string
	Message string
	Time    time.Time
	Kind    string
	Actions []string
}

// Notifier delivers notifications. Delivery is fire-and-forget; errors are
// reported to the caller but never retried by the notifier itself.
type Notifier interface {
	Send(notification Notification) error
}
