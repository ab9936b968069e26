// Package focus implements the timed do-not-disturb mode with an extendable
// completion timer.
package focus

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastswitch/tracker/pkg/interfaces"
	"github.com/fastswitch/tracker/pkg/notify"
	"github.com/fastswitch/tracker/pkg/schedule"
	"github.com/fastswitch/tracker/pkg/types"
)

// ErrNotEnabled is returned by Extend when no focus session is running.
var ErrNotEnabled = errors.New("deep focus is not enabled")

// ErrScheduling is returned when the completion timer cannot be scheduled.
// The controller disables itself immediately in that case.
var ErrScheduling = errors.New("failed to schedule focus completion timer")

// Controller is the deep-focus state machine. It owns its timers and state
// exclusively; nothing here is shared with the tick loop.
type Controller struct {
	clock     schedule.Clock
	scheduler schedule.Scheduler
	notifier  notify.Notifier
	sticky    *notify.Sticky
	dnd       interfaces.DNDController
	logger    *slog.Logger

	defaultDuration time.Duration

	mu         sync.Mutex
	enabled    bool
	startedAt  time.Time
	configured time.Duration
	extension  time.Duration
	completion schedule.Task
	completed  []types.FocusSession
}

// NewController creates a disabled controller.
func NewController(clock schedule.Clock, scheduler schedule.Scheduler, notifier notify.Notifier, sticky *notify.Sticky, dnd interfaces.DNDController, logger *slog.Logger, defaultDuration time.Duration) *Controller {
	return &Controller{
		clock:           clock,
		scheduler:       scheduler,
		notifier:        notifier,
		sticky:          sticky,
		dnd:             dnd,
		logger:          logger,
		defaultDuration: defaultDuration,
	}
}

// Enable starts a focus session of the given duration (the configured
// default when d is zero). Calling Enable while already enabled is a no-op.
func (c *Controller) Enable(d time.Duration) error {
	c.mu.Lock()
	if c.enabled {
		c.mu.Unlock()
		return nil
	}
	if d <= 0 {
		d = c.defaultDuration
	}
	now := c.clock.Now()

	completion := c.scheduler.After(d, c.complete)
	if completion == nil {
		c.mu.Unlock()
		c.logger.Error("deep focus disabled: completion timer could not be scheduled")
		return ErrScheduling
	}

	c.enabled = true
	c.startedAt = now
	c.configured = d
	c.extension = 0
	c.completion = completion
	c.mu.Unlock()

	c.setDND(true)
	c.logger.Info("deep focus enabled", "duration", d)
	c.sticky.Start(notify.Notification{
		Title:   "Deep Focus on",
		Message: "Notifications are silenced for " + d.String() + ".",
		Time:    now,
		Kind:    "focus-start",
		Actions: []string{"Got it"},
	})
	return nil
}

// Disable ends the session, cancels both timers and reports the elapsed
// focus time. Disabling while already disabled returns zero.
func (c *Controller) Disable() time.Duration {
	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		return 0
	}
	now := c.clock.Now()
	elapsed := now.Sub(c.startedAt)
	c.stopLocked(now, elapsed)
	c.mu.Unlock()

	c.sticky.Cancel()
	c.setDND(false)
	c.logger.Info("deep focus disabled", "elapsed", elapsed)
	return elapsed
}

// Extend adds by to the configured duration, preserving elapsed time:
// remaining after the call equals previous remaining plus by.
func (c *Controller) Extend(by time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return ErrNotEnabled
	}
	if by <= 0 {
		return nil
	}

	c.extension += by
	remaining := c.remainingLocked(c.clock.Now())

	if c.completion != nil {
		c.completion.Cancel()
	}
	c.completion = c.scheduler.After(remaining, c.complete)
	if c.completion == nil {
		now := c.clock.Now()
		elapsed := now.Sub(c.startedAt)
		c.stopLocked(now, elapsed)
		c.logger.Error("deep focus disabled: completion timer could not be rescheduled")
		go func() {
			c.sticky.Cancel()
			c.setDND(false)
		}()
		return ErrScheduling
	}

	c.logger.Info("deep focus extended", "by", by, "remaining", remaining)
	return nil
}

// Remaining returns the time left in the current session, zero when
// disabled.
func (c *Controller) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return 0
	}
	return c.remainingLocked(c.clock.Now())
}

// Enabled reports whether a focus session is running.
func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// CompletedSessions returns the focus sessions finished since construction.
func (c *Controller) CompletedSessions() []types.FocusSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.FocusSession(nil), c.completed...)
}

// complete fires when the completion timer elapses: auto-disable, notify,
// then lift DND.
func (c *Controller) complete() {
	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		return
	}
	now := c.clock.Now()
	elapsed := now.Sub(c.startedAt)
	c.stopLocked(now, elapsed)
	c.mu.Unlock()

	c.sticky.Cancel()
	c.logger.Info("deep focus completed", "elapsed", elapsed)
	if err := c.notifier.Send(notify.Notification{
		Title:   "Deep Focus complete",
		Message: "Focus session finished after " + elapsed.Round(time.Second).String() + ".",
		Time:    now,
		Kind:    "focus-complete",
	}); err != nil {
		c.logger.Warn("notification delivery failed", "kind", "focus-complete", "error", err)
	}
	c.setDND(false)
}

// stopLocked records the finished session and clears timer state. Callers
// hold the mutex.
func (c *Controller) stopLocked(now time.Time, elapsed time.Duration) {
	if c.completion != nil {
		c.completion.Cancel()
		c.completion = nil
	}
	c.completed = append(c.completed, types.FocusSession{
		ID:       uuid.NewString(),
		Start:    c.startedAt,
		Duration: elapsed,
	})
	c.enabled = false
	c.startedAt = time.Time{}
	c.configured = 0
	c.extension = 0
}

func (c *Controller) remainingLocked(now time.Time) time.Duration {
	remaining := c.configured + c.extension - now.Sub(c.startedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// setDND toggles both the desktop and third-party DND surfaces. Failures are
// logged, never propagated: losing DND must not take down focus tracking.
func (c *Controller) setDND(enabled bool) {
	if c.dnd == nil {
		return
	}
	if err := c.dnd.SetDoNotDisturb(enabled); err != nil {
		c.logger.Warn("failed to toggle do-not-disturb", "enabled", enabled, "error", err)
	}
	if err := c.dnd.SetThirdPartyDND(enabled); err != nil {
		c.logger.Warn("failed to toggle third-party dnd", "enabled", enabled, "error", err)
	}
}
