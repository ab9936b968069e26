// Package tracker composes the probes, ledger, reminders and focus
// controller under one periodic tick.
package tracker

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fastswitch/tracker/pkg/breaks"
	"github.com/fastswitch/tracker/pkg/callwatch"
	"github.com/fastswitch/tracker/pkg/focus"
	"github.com/fastswitch/tracker/pkg/interfaces"
	"github.com/fastswitch/tracker/pkg/schedule"
	"github.com/fastswitch/tracker/pkg/session"
	"github.com/fastswitch/tracker/pkg/types"
)

// Options configures a Coordinator.
type Options struct {
	TickInterval     time.Duration
	Thresholds       session.Thresholds
	SnapshotInterval time.Duration
}

// Coordinator owns the 1-second tick that drives
// probe -> detector -> ledger -> reminders, and composes the independently
// timed focus controller. It is the only writer of the ledger.
type Coordinator struct {
	logger    *slog.Logger
	clock     schedule.Clock
	scheduler schedule.Scheduler

	probe     interfaces.ActivityProbe
	calls     *callwatch.Detector
	windows   interfaces.WindowProbe
	reminders *breaks.Manager
	focus     *focus.Controller
	sink      interfaces.SnapshotSink

	opts Options

	mu           sync.Mutex
	ledger       *session.Ledger
	tickTask     schedule.Task
	snapshotTask schedule.Task
	manualCall   bool
	running      bool
}

// NewCoordinator wires the tick pipeline. sink may be nil when no
// persistence collaborator is attached.
func NewCoordinator(logger *slog.Logger, clock schedule.Clock, scheduler schedule.Scheduler, probe interfaces.ActivityProbe, calls *callwatch.Detector, windows interfaces.WindowProbe, reminders *breaks.Manager, focusCtl *focus.Controller, sink interfaces.SnapshotSink, opts Options) *Coordinator {
	return &Coordinator{
		logger:    logger,
		clock:     clock,
		scheduler: scheduler,
		probe:     probe,
		calls:     calls,
		windows:   windows,
		reminders: reminders,
		focus:     focusCtl,
		sink:      sink,
		opts:      opts,
	}
}

// Start begins a tracking run. Starting while already running is a no-op.
func (c *Coordinator) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	now := c.clock.Now()
	if c.ledger == nil {
		c.ledger = session.NewLedger(c.logger, c.opts.Thresholds, c.opts.TickInterval, now)
	}

	c.tickTask = c.scheduler.Every(c.opts.TickInterval, c.tick)
	if c.tickTask == nil {
		return fmt.Errorf("failed to schedule tracking tick")
	}

	if c.sink != nil && c.opts.SnapshotInterval > 0 {
		c.snapshotTask = c.scheduler.Every(c.opts.SnapshotInterval, c.snapshot)
		if c.snapshotTask == nil {
			// Snapshot cadence is an optional collaborator; tracking goes on.
			c.logger.Error("failed to schedule snapshot hand-off")
		}
	}

	c.running = true
	c.logger.Info("tracking started", "tick", c.opts.TickInterval)
	return nil
}

// Stop ends the run: the tick loop, the snapshot cadence and any pending
// sticky retries are all canceled, and the open segment is closed.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	if c.tickTask != nil {
		c.tickTask.Cancel()
		c.tickTask = nil
	}
	if c.snapshotTask != nil {
		c.snapshotTask.Cancel()
		c.snapshotTask = nil
	}
	ledger := c.ledger
	now := c.clock.Now()
	c.mu.Unlock()

	ledger.EndContinuousSegment(now)
	c.reminders.Acknowledge()
	c.logger.Info("tracking stopped")
}

// Reset truncates the session and clears the notified-threshold set, so
// thresholds that already fired can fire again.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	ledger := c.ledger
	now := c.clock.Now()
	c.mu.Unlock()

	if ledger != nil {
		ledger.ResetSession(now)
	}
	c.reminders.Reset()
}

// tick runs the synchronous pipeline. Ticks are serialized by the scheduler;
// no two run concurrently.
func (c *Coordinator) tick() {
	c.mu.Lock()
	ledger := c.ledger
	manual := c.manualCall
	c.mu.Unlock()
	if ledger == nil {
		return
	}

	now := c.clock.Now()
	sinceInput := c.probe.TimeSinceLastInput()
	inCall := c.calls.InCall(manual)

	var foreground string
	if c.windows != nil {
		if app, ok := c.windows.ForegroundApp(); ok {
			foreground = app
		}
	}

	ledger.Tick(now, sinceInput, inCall, foreground)
	c.reminders.Evaluate(ledger.SessionDuration())
}

// snapshot hands the current ledger state to the persistence collaborator.
func (c *Coordinator) snapshot() {
	c.mu.Lock()
	ledger := c.ledger
	c.mu.Unlock()
	if ledger == nil {
		return
	}

	snap := ledger.Snapshot(c.clock.Now())
	snap.FocusSessions = c.focus.CompletedSessions()
	if err := c.sink.PersistSessionSnapshot(snap); err != nil {
		c.logger.Warn("snapshot hand-off failed", "error", err)
	}
}

// CurrentSessionDuration returns the session's total active time.
func (c *Coordinator) CurrentSessionDuration() time.Duration {
	if l := c.currentLedger(); l != nil {
		return l.SessionDuration()
	}
	return 0
}

// CurrentContinuousSessionDuration returns the open segment's duration.
func (c *Coordinator) CurrentContinuousSessionDuration() time.Duration {
	if l := c.currentLedger(); l != nil {
		return l.ContinuousDuration()
	}
	return 0
}

// IsInCall reports the ledger's call level.
func (c *Coordinator) IsInCall() bool {
	if l := c.currentLedger(); l != nil {
		return l.InCall()
	}
	return false
}

// AppUsageSnapshot returns a copy of per-application active time.
func (c *Coordinator) AppUsageSnapshot() map[string]time.Duration {
	if l := c.currentLedger(); l != nil {
		return l.AppUsageSnapshot()
	}
	return map[string]time.Duration{}
}

// ToggleManualCallOverride flips the manual in-call override and returns the
// new value. The override is OR'd into detection on the next tick.
func (c *Coordinator) ToggleManualCallOverride() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.manualCall = !c.manualCall
	c.logger.Info("manual call override toggled", "active", c.manualCall)
	return c.manualCall
}

// StartBreak closes the continuous segment, marks a break open and cancels
// any pending break-reminder retries.
func (c *Coordinator) StartBreak() {
	if l := c.currentLedger(); l != nil {
		l.StartBreak(c.clock.Now())
	}
	c.reminders.Acknowledge()
}

// EndBreak records the finished break.
func (c *Coordinator) EndBreak() {
	if l := c.currentLedger(); l != nil {
		l.EndBreak(c.clock.Now())
	}
}

// SetNotificationThresholds replaces the reminder thresholds.
func (c *Coordinator) SetNotificationThresholds(thresholds []time.Duration) {
	c.reminders.SetThresholds(thresholds)
}

// SetNotificationsEnabled toggles reminder firing without clearing the
// notified set.
func (c *Coordinator) SetNotificationsEnabled(enabled bool) {
	c.reminders.SetEnabled(enabled)
}

// EnableFocus starts a deep-focus session; zero means the configured
// default duration.
func (c *Coordinator) EnableFocus(d time.Duration) error {
	return c.focus.Enable(d)
}

// DisableFocus ends the deep-focus session and returns its elapsed time.
func (c *Coordinator) DisableFocus() time.Duration {
	return c.focus.Disable()
}

// ExtendFocus adds time to the running deep-focus session.
func (c *Coordinator) ExtendFocus(by time.Duration) error {
	return c.focus.Extend(by)
}

// RemainingFocusTime returns the time left in the deep-focus session.
func (c *Coordinator) RemainingFocusTime() time.Duration {
	return c.focus.Remaining()
}

// Snapshot captures the full tracking state, focus sessions included.
func (c *Coordinator) Snapshot() types.SessionSnapshot {
	l := c.currentLedger()
	if l == nil {
		return types.SessionSnapshot{TakenAt: c.clock.Now()}
	}
	snap := l.Snapshot(c.clock.Now())
	snap.FocusSessions = c.focus.CompletedSessions()
	return snap
}

func (c *Coordinator) currentLedger() *session.Ledger {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger
}
