package notify_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fastswitch/tracker/pkg/notify"
	"github.com/fastswitch/tracker/pkg/testutil"
)

func newSticky(interval, cap time.Duration) (*notify.Sticky, *testutil.MockNotifier, *testutil.FakeScheduler) {
	notifier := testutil.NewMockNotifier()
	scheduler := testutil.NewFakeScheduler()
	s := notify.NewSticky(scheduler, notifier, testutil.DiscardLogger(), interval, cap)
	return s, notifier, scheduler
}

func TestSticky_SendsImmediately(t *testing.T) {
	s, notifier, _ := newSticky(15*time.Second, 60*time.Second)

	s.Start(notify.Notification{Title: "reminder", Kind: "test"})

	if got := len(notifier.Notifications()); got != 1 {
		t.Errorf("sends after Start = %d, want 1", got)
	}
	if !s.Active() {
		t.Error("sticky should be active after Start")
	}
}

func TestSticky_RetryCap(t *testing.T) {
	s, notifier, scheduler := newSticky(15*time.Second, 60*time.Second)

	s.Start(notify.Notification{Title: "reminder", Kind: "test"})

	retry := scheduler.LastTask()
	for i := 0; i < 20; i++ {
		retry.Fire()
	}

	// 1 initial send + 4 retries (60s cap / 15s interval), then auto-stop.
	if got := len(notifier.Notifications()); got != 5 {
		t.Errorf("total sends = %d, want 5", got)
	}
	if s.Active() {
		t.Error("sticky should auto-stop at the cap")
	}
}

func TestSticky_CancelIsIdempotent(t *testing.T) {
	s, notifier, scheduler := newSticky(15*time.Second, 60*time.Second)

	s.Start(notify.Notification{Title: "reminder", Kind: "test"})
	s.Cancel()
	s.Cancel()

	retry := scheduler.LastTask()
	retry.Fire()

	if got := len(notifier.Notifications()); got != 1 {
		t.Errorf("sends after cancel = %d, want 1", got)
	}
	if !retry.Canceled() {
		t.Error("cancel must clear the pending retry timer")
	}
}

func TestSticky_CancelWithoutStart(t *testing.T) {
	s, _, _ := newSticky(15*time.Second, 60*time.Second)
	// Reachable from any state.
	s.Cancel()
}

func TestSticky_RestartReplacesReminder(t *testing.T) {
	s, notifier, scheduler := newSticky(15*time.Second, 60*time.Second)

	s.Start(notify.Notification{Title: "first", Kind: "test"})
	first := scheduler.LastTask()
	s.Start(notify.Notification{Title: "second", Kind: "test"})

	if !first.Canceled() {
		t.Error("starting a new reminder must cancel the previous retry loop")
	}

	scheduler.LastTask().Fire()
	sent := notifier.Notifications()
	if got := len(sent); got != 3 {
		t.Fatalf("total sends = %d, want 3", got)
	}
	if sent[2].Title != "second" {
		t.Errorf("retry resent %q, want %q", sent[2].Title, "second")
	}
}

func TestSticky_DeliveryFailureDoesNotStopRetries(t *testing.T) {
	s, notifier, scheduler := newSticky(15*time.Second, 60*time.Second)
	notifier.SetError(errors.New("bus gone"))

	s.Start(notify.Notification{Title: "reminder", Kind: "test"})
	scheduler.LastTask().Fire()

	// Attempts are recorded even though delivery failed.
	if got := len(notifier.Notifications()); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
	if !s.Active() {
		t.Error("delivery failure must not cancel the reminder")
	}
}
