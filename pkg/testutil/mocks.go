// Package testutil provides thread-safe fakes for the tracker's capability
// interfaces.
package testutil

import (
	"sync"
	"time"

	"github.com/fastswitch/tracker/pkg/notify"
	"github.com/fastswitch/tracker/pkg/types"
)

// MockNotifier records every notification it is asked to deliver.
type MockNotifier struct {
	mu            sync.Mutex
	notifications []notify.Notification
	sendErr       error
}

// NewMockNotifier creates an empty mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Send implements notify.Notifier.
func (m *MockNotifier) Send(n notify.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.notifications = append(m.notifications, n)
	return m.sendErr
}

// Notifications returns a copy of all recorded notifications.
func (m *MockNotifier) Notifications() []notify.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]notify.Notification, len(m.notifications))
	copy(out, m.notifications)
	return out
}

// CountKind counts recorded notifications of one kind.
func (m *MockNotifier) CountKind(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, n := range m.notifications {
		if n.Kind == kind {
			count++
		}
	}
	return count
}

// SetError makes subsequent Send calls return err. Attempts are still
// recorded.
func (m *MockNotifier) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendErr = err
}

// Clear drops all recorded notifications.
func (m *MockNotifier) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = nil
}

// MockActivityProbe returns a settable idle duration.
type MockActivityProbe struct {
	mu   sync.Mutex
	idle time.Duration
}

// NewMockActivityProbe creates a probe reporting the given idle time.
func NewMockActivityProbe(idle time.Duration) *MockActivityProbe {
	return &MockActivityProbe{idle: idle}
}

// TimeSinceLastInput implements interfaces.ActivityProbe.
func (m *MockActivityProbe) TimeSinceLastInput() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idle
}

// SetIdle changes the reported idle time.
func (m *MockActivityProbe) SetIdle(idle time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idle = idle
}

// MockProcessRegistry reports a settable set of live process names.
type MockProcessRegistry struct {
	mu   sync.Mutex
	live map[string]bool
}

// NewMockProcessRegistry creates a registry with the given live processes.
func NewMockProcessRegistry(live ...string) *MockProcessRegistry {
	m := &MockProcessRegistry{live: make(map[string]bool)}
	m.SetRunning(live...)
	return m
}

// Running implements interfaces.ProcessRegistry.
func (m *MockProcessRegistry) Running(names []string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found []string
	for _, name := range names {
		if m.live[name] {
			found = append(found, name)
		}
	}
	return found
}

// SetRunning replaces the live process set.
func (m *MockProcessRegistry) SetRunning(live ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.live = make(map[string]bool, len(live))
	for _, name := range live {
		m.live[name] = true
	}
}

// MockWindowProbe returns settable foreground and tab-host answers.
type MockWindowProbe struct {
	mu         sync.Mutex
	foreground string
	tabHost    string
	tabOK      bool
}

// NewMockWindowProbe creates an empty window probe.
func NewMockWindowProbe() *MockWindowProbe {
	return &MockWindowProbe{}
}

// ForegroundApp implements interfaces.WindowProbe.
func (m *MockWindowProbe) ForegroundApp() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.foreground, m.foreground != ""
}

// ActiveBrowserTabHost implements interfaces.WindowProbe.
func (m *MockWindowProbe) ActiveBrowserTabHost(string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tabHost, m.tabOK
}

// SetForeground sets the focused application.
func (m *MockWindowProbe) SetForeground(app string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.foreground = app
}

// SetTabHost sets the active browser tab host; ok=false simulates an
// unavailable probe.
func (m *MockWindowProbe) SetTabHost(host string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tabHost = host
	m.tabOK = ok
}

// MockDNDController records do-not-disturb toggles.
type MockDNDController struct {
	mu      sync.Mutex
	desktop []bool
	third   []bool
	err     error
}

// NewMockDNDController creates an empty DND controller.
func NewMockDNDController() *MockDNDController {
	return &MockDNDController{}
}

// SetDoNotDisturb implements interfaces.DNDController.
func (m *MockDNDController) SetDoNotDisturb(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.desktop = append(m.desktop, enabled)
	return m.err
}

// SetThirdPartyDND implements interfaces.DNDController.
func (m *MockDNDController) SetThirdPartyDND(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.third = append(m.third, enabled)
	return m.err
}

// DesktopToggles returns the recorded desktop DND toggles in order.
func (m *MockDNDController) DesktopToggles() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.desktop...)
}

// SetError makes subsequent toggles return err.
func (m *MockDNDController) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// MockSnapshotSink records persisted snapshots.
type MockSnapshotSink struct {
	mu        sync.Mutex
	snapshots []types.SessionSnapshot
	err       error
}

// NewMockSnapshotSink creates an empty sink.
func NewMockSnapshotSink() *MockSnapshotSink {
	return &MockSnapshotSink{}
}

// PersistSessionSnapshot implements interfaces.SnapshotSink.
func (m *MockSnapshotSink) PersistSessionSnapshot(snapshot types.SessionSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, snapshot)
	return m.err
}

// Snapshots returns a copy of the recorded snapshots.
func (m *MockSnapshotSink) Snapshots() []types.SessionSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.SessionSnapshot(nil), m.snapshots...)
}
