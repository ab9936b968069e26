package notify

import (
	"fmt"
	"io"
)

// StdoutNotifier prints notifications to a writer. Used for headless runs
// and testing.
type StdoutNotifier struct {
	out io.Writer
}

// NewStdoutNotifier creates a notifier writing to out.
func NewStdoutNotifier(out io.Writer) *StdoutNotifier {
	return &StdoutNotifier{out: out}
}

// Send prints the notification.
func (n *StdoutNotifier) Send(notification Notification) error {
	_, err := fmt.Fprintf(n.out, "[NOTIFICATION] %s: %s (%s)\n",
		notification.Title,
		notification.Message,
		notification.Kind)
	return err
}
