// Package callwatch decides whether the user is currently in a communication
// call, from process presence, browser tab inspection and a manual override.
package callwatch

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/fastswitch/tracker/pkg/interfaces"
)

// Detector reports call state as a level; edge detection against the
// previous tick is the ledger's job.
type Detector struct {
	registry interfaces.ProcessRegistry
	windows  interfaces.WindowProbe
	logger   *slog.Logger

	apps    []string
	browser string
	domains []string

	mu       sync.Mutex
	degraded bool
}

// NewDetector creates a call detector. apps is the communication-application
// process set, browser the single process refined via its active tab, and
// domains the meeting-service hosts that make a browser tab count as a call.
func NewDetector(registry interfaces.ProcessRegistry, windows interfaces.WindowProbe, logger *slog.Logger, apps []string, browser string, domains []string) *Detector {
	return &Detector{
		registry: registry,
		windows:  windows,
		logger:   logger,
		apps:     apps,
		browser:  browser,
		domains:  domains,
	}
}

// InCall evaluates the current call level. Any failing refinement degrades
// to process-presence-only detection; it never fails.
func (d *Detector) InCall(manualOverride bool) bool {
	if manualOverride {
		return true
	}

	if len(d.registry.Running(d.apps)) > 0 {
		return true
	}

	return d.browserTabInMeeting()
}

// browserTabInMeeting checks whether the configured browser has a meeting
// tab in front.
func (d *Detector) browserTabInMeeting() bool {
	if d.browser == "" || d.windows == nil {
		return false
	}
	if len(d.registry.Running([]string{d.browser})) == 0 {
		return false
	}

	host, ok := d.windows.ActiveBrowserTabHost(d.browser)
	if !ok {
		d.noteDegraded()
		return false
	}
	d.noteRecovered()

	for _, domain := range d.domains {
		if hostMatches(host, domain) {
			return true
		}
	}
	return false
}

// hostMatches reports whether host equals domain or is a subdomain of it.
func hostMatches(host, domain string) bool {
	host = strings.ToLower(host)
	domain = strings.ToLower(domain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func (d *Detector) noteDegraded() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.degraded {
		d.logger.Warn("browser tab inspection unavailable, using process presence only",
			"browser", d.browser)
		d.degraded = true
	}
}

func (d *Detector) noteRecovered() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.degraded = false
}
