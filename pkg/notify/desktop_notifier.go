package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notifyService = "org.freedesktop.Notifications"
	notifyPath    = "/org/freedesktop/Notifications"
	notifyMethod  = "org.freedesktop.Notifications.Notify"
)

// DesktopNotifier delivers notifications over the session bus using
// org.freedesktop.Notifications.
type DesktopNotifier struct {
	conn    *dbus.Conn
	appName string
}

// NewDesktopNotifier connects to the session bus.
func NewDesktopNotifier(appName string) (*DesktopNotifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &DesktopNotifier{conn: conn, appName: appName}, nil
}

// Send delivers the notification to the desktop notification service.
func (n *DesktopNotifier) Send(notification Notification) error {
	actions := make([]string, 0, len(notification.Actions)*2)
	for _, a := range notification.Actions {
		// Action keys double as labels; the tracker only cares that the
		// notification is acknowledgeable.
		actions = append(actions, a, a)
	}

	obj := n.conn.Object(notifyService, notifyPath)
	call := obj.Call(notifyMethod, 0,
		n.appName,                    // app_name
		uint32(0),                    // replaces_id
		"appointment-soon",           // app_icon
		notification.Title,           // summary
		notification.Message,         // body
		actions,                      // actions
		map[string]dbus.Variant{ // hints
			"urgency": dbus.MakeVariant(byte(1)),
		},
		int32(10000), // expire_timeout (10 seconds)
	)
	if call.Err != nil {
		return fmt.Errorf("failed to send notification: %w", call.Err)
	}

	return nil
}

// Close releases the bus connection.
func (n *DesktopNotifier) Close() error {
	return n.conn.Close()
}
