package callwatch

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// hostPattern extracts a hostname-looking token from a window title. Meeting
// tabs usually carry the service host in the title.
var hostPattern = regexp.MustCompile(`[a-z0-9][a-z0-9.-]*\.[a-z]{2,}`)

// XWindowProbe inspects the focused X11 window via xdotool. Best effort: the
// tab host is only visible while the browser owns the focused window.
type XWindowProbe struct {
	cmdExecutor func(name string, args ...string) ([]byte, error)
}

// NewXWindowProbe creates the xdotool-backed window probe.
func NewXWindowProbe() *XWindowProbe {
	return &XWindowProbe{cmdExecutor: runCommand}
}

func runCommand(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.Output()
}

// ForegroundApp returns the class name of the focused window.
func (p *XWindowProbe) ForegroundApp() (string, bool) {
	class, err := p.activeWindowField("getwindowclassname")
	if err != nil || class == "" {
		return "", false
	}
	return strings.ToLower(class), true
}

// ActiveBrowserTabHost extracts a meeting-service host from the focused
// browser window's title.
func (p *XWindowProbe) ActiveBrowserTabHost(browser string) (string, bool) {
	class, ok := p.ForegroundApp()
	if !ok || !strings.Contains(class, strings.ToLower(browser)) {
		return "", false
	}

	title, err := p.activeWindowField("getwindowname")
	if err != nil {
		return "", false
	}

	host := hostPattern.FindString(strings.ToLower(title))
	if host == "" {
		return "", false
	}
	return host, true
}

func (p *XWindowProbe) activeWindowField(query string) (string, error) {
	output, err := p.cmdExecutor("xdotool", "getactivewindow", query)
	if err != nil {
		return "", fmt.Errorf("xdotool %s failed: %w", query, err)
	}
	return strings.TrimSpace(string(output)), nil
}
