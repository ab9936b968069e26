package focus

import (
	"errors"
	"testing"
	"time"

	"github.com/fastswitch/tracker/pkg/notify"
	"github.com/fastswitch/tracker/pkg/testutil"
)

var focusT0 = time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)

func newTestController() (*Controller, *testutil.MockNotifier, *testutil.FakeScheduler, *testutil.FakeClock, *testutil.MockDNDController) {
	clock := testutil.NewFakeClock(focusT0)
	scheduler := testutil.NewFakeScheduler()
	notifier := testutil.NewMockNotifier()
	dnd := testutil.NewMockDNDController()
	sticky := notify.NewSticky(scheduler, notifier, testutil.DiscardLogger(), 15*time.Second, 60*time.Second)
	c := NewController(clock, scheduler, notifier, sticky, dnd, testutil.DiscardLogger(), time.Hour)
	return c, notifier, scheduler, clock, dnd
}

func TestController_EnableIsIdempotent(t *testing.T) {
	c, notifier, scheduler, _, dnd := newTestController()

	if err := c.Enable(time.Hour); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if err := c.Enable(30 * time.Minute); err != nil {
		t.Fatalf("second Enable() error = %v", err)
	}

	if !c.Enabled() {
		t.Fatal("controller should be enabled")
	}
	if got := c.Remaining(); got != time.Hour {
		t.Errorf("Remaining() = %v, want %v (second Enable is a no-op)", got, time.Hour)
	}
	// One completion timer, one sticky retry loop.
	if got := len(scheduler.Tasks()); got != 2 {
		t.Errorf("scheduled tasks = %d, want 2", got)
	}
	if got := notifier.CountKind("focus-start"); got != 1 {
		t.Errorf("focus-start notifications = %d, want 1", got)
	}
	if toggles := dnd.DesktopToggles(); len(toggles) != 1 || !toggles[0] {
		t.Errorf("dnd toggles = %v, want [true]", toggles)
	}
}

func TestController_ExtendPreservesElapsed(t *testing.T) {
	c, _, _, clock, _ := newTestController()

	if err := c.Enable(3600 * time.Second); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}

	clock.Advance(3000 * time.Second)
	if err := c.Extend(900 * time.Second); err != nil {
		t.Fatalf("Extend() error = %v", err)
	}

	if got := c.Remaining(); got != 1500*time.Second {
		t.Errorf("Remaining() = %v, want 1500s", got)
	}
}

func TestController_ExtendWhileDisabled(t *testing.T) {
	c, _, _, _, _ := newTestController()

	if err := c.Extend(time.Minute); !errors.Is(err, ErrNotEnabled) {
		t.Errorf("Extend() error = %v, want ErrNotEnabled", err)
	}
}

func TestController_DisableReportsElapsed(t *testing.T) {
	c, _, _, clock, dnd := newTestController()

	if err := c.Enable(time.Hour); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	clock.Advance(20 * time.Minute)

	if got := c.Disable(); got != 20*time.Minute {
		t.Errorf("Disable() = %v, want 20m", got)
	}
	if c.Enabled() {
		t.Error("controller should be disabled")
	}
	// Second disable returns zero.
	if got := c.Disable(); got != 0 {
		t.Errorf("second Disable() = %v, want 0", got)
	}

	toggles := dnd.DesktopToggles()
	if len(toggles) != 2 || toggles[1] {
		t.Errorf("dnd toggles = %v, want [true false]", toggles)
	}

	sessions := c.CompletedSessions()
	if len(sessions) != 1 || sessions[0].Duration != 20*time.Minute {
		t.Errorf("completed sessions = %+v, want one 20m session", sessions)
	}
}

func TestController_CompletionAutoDisables(t *testing.T) {
	c, notifier, scheduler, clock, dnd := newTestController()

	if err := c.Enable(30 * time.Minute); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}

	completion := scheduler.Tasks()[0]
	if !completion.OneShot {
		t.Fatal("first scheduled task should be the one-shot completion timer")
	}

	clock.Advance(30 * time.Minute)
	completion.Fire()

	if c.Enabled() {
		t.Error("controller should auto-disable on completion")
	}
	if got := notifier.CountKind("focus-complete"); got != 1 {
		t.Errorf("focus-complete notifications = %d, want 1", got)
	}
	toggles := dnd.DesktopToggles()
	if len(toggles) != 2 || toggles[1] {
		t.Errorf("dnd toggles = %v, want [true false]", toggles)
	}
	if got := c.Remaining(); got != 0 {
		t.Errorf("Remaining() after completion = %v, want 0", got)
	}
}

func TestController_StickyRetriesCapped(t *testing.T) {
	c, notifier, scheduler, _, _ := newTestController()

	if err := c.Enable(time.Hour); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}

	retry := scheduler.LastTask()
	for i := 0; i < 10; i++ {
		retry.Fire()
	}

	// 1 initial + at most 4 retries within the 60s cap.
	if got := notifier.CountKind("focus-start"); got != 5 {
		t.Errorf("focus-start sends = %d, want 5", got)
	}
}

func TestController_SchedulingFailureDisables(t *testing.T) {
	c, _, scheduler, _, _ := newTestController()

	scheduler.SetFail(true)
	if err := c.Enable(time.Hour); !errors.Is(err, ErrScheduling) {
		t.Fatalf("Enable() error = %v, want ErrScheduling", err)
	}
	if c.Enabled() {
		t.Error("controller must stay disabled when the timer cannot be scheduled")
	}
}
