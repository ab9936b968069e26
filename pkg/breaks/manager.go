// Package breaks fires work-duration break reminders with at-most-once
// semantics per threshold per session.
package breaks

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/fastswitch/tracker/pkg/notify"
)

// Manager tracks which break thresholds have fired for the current session
// and drives the sticky retry loop for the most recent reminder.
type Manager struct {
	logger *slog.Logger
	sticky *notify.Sticky

	mu         sync.Mutex
	thresholds []time.Duration
	notified   map[time.Duration]struct{}
	enabled    bool
}

// NewManager creates a reminder manager with an ascending threshold list.
func NewManager(logger *slog.Logger, sticky *notify.Sticky, thresholds []time.Duration, enabled bool) *Manager {
	m := &Manager{
		logger:   logger,
		sticky:   sticky,
		notified: make(map[time.Duration]struct{}),
		enabled:  enabled,
	}
	m.setThresholds(thresholds)
	return m
}

// Evaluate fires at most one reminder per tick: the lowest crossed threshold
// not yet notified. While disabled, crossed thresholds are still marked so
// that re-enabling mid-session does not replay them.
func (m *Manager) Evaluate(totalActive time.Duration) {
	m.mu.Lock()

	var fired time.Duration
	found := false
	for _, t := range m.thresholds {
		if _, done := m.notified[t]; done {
			continue
		}
		if totalActive < t {
			break
		}
		m.notified[t] = struct{}{}
		fired = t
		found = true
		break
	}
	enabled := m.enabled
	m.mu.Unlock()

	if !found {
		return
	}
	if !enabled {
		m.logger.Debug("break threshold crossed while notifications disabled", "threshold", fired)
		return
	}

	m.logger.Info("break reminder", "threshold", fired, "total_active", totalActive)
	m.sticky.Start(notify.Notification{
		Title:   "Time for a break",
		Message: fmt.Sprintf("You have been working for %s. Step away for a few minutes.", formatDuration(fired)),
		Time:    time.Now(),
		Kind:    "break-reminder",
		Actions: []string{"Start break"},
	})
}

// Acknowledge cancels the pending sticky retries. Idempotent; called when
// the user acknowledges the reminder or starts a break.
func (m *Manager) Acknowledge() {
	m.sticky.Cancel()
}

// SetEnabled toggles firing. Disabling does not clear the notified set.
func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	m.enabled = enabled
	m.mu.Unlock()
	if !enabled {
		m.sticky.Cancel()
	}
}

// SetThresholds replaces the threshold list. Already-notified thresholds
// stay notified for the current session.
func (m *Manager) SetThresholds(thresholds []time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setThresholds(thresholds)
}

func (m *Manager) setThresholds(thresholds []time.Duration) {
	sorted := append([]time.Duration(nil), thresholds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	m.thresholds = sorted
}

// Reset clears the notified set and any pending retries. A threshold that
// fired before the reset can fire again afterwards.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.notified = make(map[time.Duration]struct{})
	m.mu.Unlock()
	m.sticky.Cancel()
}

// Notified reports whether the given threshold already fired this session.
func (m *Manager) Notified(threshold time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.notified[threshold]
	return ok
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}
