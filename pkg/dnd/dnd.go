// Package dnd toggles the desktop's do-not-disturb state.
package dnd

import (
	"fmt"
	"os/exec"

	"github.com/godbus/dbus/v5"
)

// GnomeController drives GNOME's do-not-disturb switch via gsettings and
// pauses third-party notifier daemons over the session bus.
type GnomeController struct {
	conn        *dbus.Conn
	cmdExecutor func(name string, args ...string) ([]byte, error)
}

// NewGnomeController connects to the session bus.
func NewGnomeController() (*GnomeController, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &GnomeController{conn: conn, cmdExecutor: runCommand}, nil
}

func runCommand(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.CombinedOutput()
}

// SetDoNotDisturb flips GNOME's show-banners setting. show-banners=false is
// do-not-disturb.
func (c *GnomeController) SetDoNotDisturb(enabled bool) error {
	showBanners := "true"
	if enabled {
		showBanners = "false"
	}
	out, err := c.cmdExecutor("gsettings", "set",
		"org.gnome.desktop.notifications", "show-banners", showBanners)
	if err != nil {
		return fmt.Errorf("gsettings failed: %w (%s)", err, string(out))
	}
	return nil
}

// SetThirdPartyDND pauses or resumes a standalone notification daemon
// (dunst) if one is on the bus. Absence of the daemon is not an error.
func (c *GnomeController) SetThirdPartyDND(enabled bool) error {
	obj := c.conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.dunstproject.cmd0.SetPaused", 0, enabled)
	if call.Err != nil {
		// Not running dunst; nothing to pause.
		return nil
	}
	return nil
}

// Close releases the bus connection.
func (c *GnomeController) Close() error {
	return c.conn.Close()
}

// NoopController is used when no DND surface is available.
type NoopController struct{}

// SetDoNotDisturb does nothing.
func (NoopController) SetDoNotDisturb(bool) error { return nil }

// SetThirdPartyDND does nothing.
func (NoopController) SetThirdPartyDND(bool) error { return nil }
