package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fastswitch/tracker/pkg/schedule"
)

// Sticky re-sends a reminder on a fixed interval until it is acknowledged or
// a cumulative time cap elapses. One Sticky carries at most one reminder at a
// time; starting a new one replaces any pending retries.
type Sticky struct {
	scheduler schedule.Scheduler
	notifier  Notifier
	logger    *slog.Logger
	interval  time.Duration
	cap       time.Duration

	mu      sync.Mutex
	task    schedule.Task
	current Notification
	elapsed time.Duration
	active  bool
}

// NewSticky creates a sticky reminder task. interval is the retry period and
// cap the cumulative retry limit.
func NewSticky(scheduler schedule.Scheduler, notifier Notifier, logger *slog.Logger, interval, cap time.Duration) *Sticky {
	return &Sticky{
		scheduler: scheduler,
		notifier:  notifier,
		logger:    logger,
		interval:  interval,
		cap:       cap,
	}
}

// Start sends n immediately and begins the retry loop.
func (s *Sticky) Start(n Notification) {
	s.mu.Lock()
	s.cancelLocked()
	s.current = n
	s.elapsed = 0
	s.active = true
	if s.interval > 0 {
		s.task = s.scheduler.Every(s.interval, s.resend)
		if s.task == nil {
			// Degrade to a one-shot reminder.
			s.logger.Error("failed to schedule sticky retries", "title", n.Title)
			s.active = false
		}
	}
	s.mu.Unlock()

	s.send(n)
}

// Cancel stops any pending retries. It is idempotent and reachable from any
// state.
func (s *Sticky) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Active reports whether a retry loop is currently running.
func (s *Sticky) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Sticky) cancelLocked() {
	if s.task != nil {
		s.task.Cancel()
		s.task = nil
	}
	s.active = false
}

// resend fires on every retry interval until the cap is exhausted.
func (s *Sticky) resend() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.elapsed += s.interval
	if s.elapsed > s.cap {
		s.cancelLocked()
		s.mu.Unlock()
		return
	}
	n := s.current
	s.mu.Unlock()

	s.send(n)
}

func (s *Sticky) send(n Notification) {
	if err := s.notifier.Send(n); err != nil {
		// Delivery failures never mutate reminder state.
		s.logger.Warn("notification delivery failed", "title", n.Title, "error", err)
	}
}
