package breaks

import (
	"testing"
	"time"

	"github.com/fastswitch/tracker/pkg/notify"
	"github.com/fastswitch/tracker/pkg/testutil"
)

func newTestManager(thresholds []time.Duration, enabled bool) (*Manager, *testutil.MockNotifier, *testutil.FakeScheduler) {
	notifier := testutil.NewMockNotifier()
	scheduler := testutil.NewFakeScheduler()
	sticky := notify.NewSticky(scheduler, notifier, testutil.DiscardLogger(), 15*time.Second, 60*time.Second)
	return NewManager(testutil.DiscardLogger(), sticky, thresholds, enabled), notifier, scheduler
}

func TestManager_FiresEachThresholdOnce(t *testing.T) {
	thresholds := []time.Duration{60 * time.Second, 300 * time.Second, 600 * time.Second}
	m, notifier, _ := newTestManager(thresholds, true)

	// One evaluation per simulated second from t=0 to t=350.
	for sec := 0; sec <= 350; sec++ {
		m.Evaluate(time.Duration(sec) * time.Second)
	}

	if got := notifier.CountKind("break-reminder"); got != 2 {
		t.Errorf("reminders fired = %d, want 2 (60s and 300s)", got)
	}
	if !m.Notified(60*time.Second) || !m.Notified(300*time.Second) {
		t.Error("60s and 300s thresholds should be marked notified")
	}
	if m.Notified(600 * time.Second) {
		t.Error("600s threshold should not have fired")
	}
}

func TestManager_OneNotificationPerTick(t *testing.T) {
	thresholds := []time.Duration{time.Minute, 2 * time.Minute, 3 * time.Minute}
	m, notifier, _ := newTestManager(thresholds, true)

	// A single evaluation far past every threshold fires only the lowest.
	m.Evaluate(time.Hour)
	if got := notifier.CountKind("break-reminder"); got != 1 {
		t.Fatalf("reminders after one tick = %d, want 1", got)
	}

	// Subsequent ticks drain the remaining thresholds one at a time.
	m.Evaluate(time.Hour)
	m.Evaluate(time.Hour)
	m.Evaluate(time.Hour)
	if got := notifier.CountKind("break-reminder"); got != 3 {
		t.Errorf("reminders after four ticks = %d, want 3", got)
	}
}

func TestManager_DisabledMarksWithoutFiring(t *testing.T) {
	thresholds := []time.Duration{time.Minute}
	m, notifier, _ := newTestManager(thresholds, false)

	m.Evaluate(2 * time.Minute)
	if got := len(notifier.Notifications()); got != 0 {
		t.Fatalf("notifications while disabled = %d, want 0", got)
	}

	// Re-enabling must not replay the already-crossed threshold.
	m.SetEnabled(true)
	m.Evaluate(2 * time.Minute)
	if got := len(notifier.Notifications()); got != 0 {
		t.Errorf("notifications after re-enable = %d, want 0", got)
	}
}

func TestManager_ResetAllowsRefire(t *testing.T) {
	thresholds := []time.Duration{time.Minute}
	m, notifier, _ := newTestManager(thresholds, true)

	m.Evaluate(2 * time.Minute)
	m.Reset()
	m.Evaluate(2 * time.Minute)

	if got := notifier.CountKind("break-reminder"); got != 2 {
		t.Errorf("reminders across a reset = %d, want 2", got)
	}
}

func TestManager_StickyRetriesCapped(t *testing.T) {
	thresholds := []time.Duration{time.Minute}
	m, notifier, scheduler := newTestManager(thresholds, true)

	m.Evaluate(2 * time.Minute)

	retry := scheduler.LastTask()
	if retry == nil {
		t.Fatal("expected a sticky retry task")
	}
	// Fire well past the cap; only 4 retries (60s / 15s) may go out.
	for i := 0; i < 10; i++ {
		retry.Fire()
	}

	if got := notifier.CountKind("break-reminder"); got != 5 {
		t.Errorf("total sends = %d, want 5 (1 initial + 4 retries)", got)
	}
}

func TestManager_AcknowledgeStopsRetries(t *testing.T) {
	thresholds := []time.Duration{time.Minute}
	m, notifier, scheduler := newTestManager(thresholds, true)

	m.Evaluate(2 * time.Minute)
	m.Acknowledge()
	// Idempotent.
	m.Acknowledge()

	retry := scheduler.LastTask()
	retry.Fire()
	retry.Fire()

	if got := notifier.CountKind("break-reminder"); got != 1 {
		t.Errorf("sends after acknowledge = %d, want 1", got)
	}
}

func TestManager_UnsortedThresholds(t *testing.T) {
	m, notifier, _ := newTestManager([]time.Duration{10 * time.Minute, time.Minute}, true)

	m.Evaluate(90 * time.Second)
	if got := notifier.CountKind("break-reminder"); got != 1 {
		t.Errorf("reminders = %d, want 1 (the 1m threshold)", got)
	}
	if m.Notified(10 * time.Minute) {
		t.Error("10m threshold should not be marked")
	}
}
