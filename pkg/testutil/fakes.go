package testutil

import (
	"sync"
	"time"

	"github.com/fastswitch/tracker/pkg/schedule"
)

// FakeClock is a manually advanced clock.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock creates a clock set to start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now implements schedule.Clock.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set jumps the clock to t.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// FakeTask is the handle returned by FakeScheduler. Tests fire it manually.
type FakeTask struct {
	Interval time.Duration
	OneShot  bool

	mu       sync.Mutex
	fn       func()
	canceled bool
}

// Cancel implements schedule.Task.
func (t *FakeTask) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.canceled = true
}

// Canceled reports whether the task was canceled.
func (t *FakeTask) Canceled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.canceled
}

// Fire runs the callback unless the task is canceled. One-shot tasks cancel
// themselves after firing, matching timer semantics.
func (t *FakeTask) Fire() {
	t.mu.Lock()
	if t.canceled {
		t.mu.Unlock()
		return
	}
	if t.OneShot {
		t.canceled = true
	}
	fn := t.fn
	t.mu.Unlock()

	fn()
}

// FakeScheduler hands out manually fired tasks. Setting Fail makes the next
// scheduling call return nil, simulating a scheduling failure.
type FakeScheduler struct {
	mu    sync.Mutex
	tasks []*FakeTask
	fail  bool
}

// NewFakeScheduler creates an empty scheduler.
func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{}
}

// Every implements schedule.Scheduler.
func (s *FakeScheduler) Every(interval time.Duration, fn func()) schedule.Task {
	return s.add(&FakeTask{Interval: interval, fn: fn})
}

// After implements schedule.Scheduler.
func (s *FakeScheduler) After(d time.Duration, fn func()) schedule.Task {
	return s.add(&FakeTask{Interval: d, OneShot: true, fn: fn})
}

func (s *FakeScheduler) add(t *FakeTask) schedule.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil
	}
	s.tasks = append(s.tasks, t)
	return t
}

// SetFail makes subsequent scheduling calls return nil tasks.
func (s *FakeScheduler) SetFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

// Tasks returns every task handed out so far, in creation order.
func (s *FakeScheduler) Tasks() []*FakeTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*FakeTask(nil), s.tasks...)
}

// LastTask returns the most recently scheduled task, or nil.
func (s *FakeScheduler) LastTask() *FakeTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tasks) == 0 {
		return nil
	}
	return s.tasks[len(s.tasks)-1]
}
