package activity

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	screenSaverService = "org.freedesktop.ScreenSaver"
	screenSaverPath    = "/org/freedesktop/ScreenSaver"
	idleTimeMethod     = "org.freedesktop.ScreenSaver.GetSessionIdleTime"
)

// DBusSource reads session idle time from the desktop's screensaver service.
type DBusSource struct {
	conn *dbus.Conn
}

// NewDBusSource connects to the session bus.
func NewDBusSource() (*DBusSource, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &DBusSource{conn: conn}, nil
}

// IdleTime queries GetSessionIdleTime, which reports whole seconds.
func (s *DBusSource) IdleTime() (time.Duration, error) {
	obj := s.conn.Object(screenSaverService, screenSaverPath)
	call := obj.Call(idleTimeMethod, 0)
	if call.Err != nil {
		return 0, fmt.Errorf("failed to query session idle time: %w", call.Err)
	}

	var seconds uint32
	if err := call.Store(&seconds); err != nil {
		return 0, fmt.Errorf("failed to parse session idle time: %w", err)
	}

	return time.Duration(seconds) * time.Second, nil
}

// Name identifies the source in logs.
func (s *DBusSource) Name() string {
	return "dbus-screensaver"
}

// Close releases the bus connection.
func (s *DBusSource) Close() error {
	return s.conn.Close()
}
