package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fastswitch/tracker/pkg/testutil"
)

var t0 = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func newTestLedger(now time.Time) *Ledger {
	return NewLedger(testutil.DiscardLogger(), Thresholds{
		Idle:     30 * time.Second,
		CallIdle: 120 * time.Second,
	}, time.Second, now)
}

// runTicks advances the ledger one second at a time, feeding sinceInput from
// the supplied function of elapsed seconds.
func runTicks(l *Ledger, start time.Time, seconds int, sinceInput func(sec int) time.Duration, inCall func(sec int) bool, app string) time.Time {
	now := start
	for i := 1; i <= seconds; i++ {
		now = start.Add(time.Duration(i) * time.Second)
		call := false
		if inCall != nil {
			call = inCall(i)
		}
		l.Tick(now, sinceInput(i), call, app)
	}
	return now
}

func TestLedger_ActiveAccrual(t *testing.T) {
	l := newTestLedger(t0)

	runTicks(l, t0, 60, func(int) time.Duration { return 0 }, nil, "code.editor")

	assert.Equal(t, 60*time.Second, l.SessionDuration())
	assert.Equal(t, 60*time.Second, l.ContinuousDuration())
	assert.Equal(t, StateActive, l.State())
	assert.Equal(t, 60*time.Second, l.AppUsageSnapshot()["code.editor"])
}

func TestLedger_IdleEdge(t *testing.T) {
	l := newTestLedger(t0)

	// No input for 31 consecutive ticks crosses the 30s threshold.
	now := runTicks(l, t0, 31, func(sec int) time.Duration {
		return time.Duration(sec) * time.Second
	}, nil, "code.editor")
	assert.Equal(t, StateIdle, l.State())

	accrued := l.SessionDuration()

	// A single input tick transitions straight back to active.
	now = now.Add(time.Second)
	l.Tick(now, 0, false, "code.editor")
	assert.Equal(t, StateActive, l.State())
	assert.Equal(t, accrued+time.Second, l.SessionDuration())
}

func TestLedger_IdleDoesNotAccrue(t *testing.T) {
	l := newTestLedger(t0)

	runTicks(l, t0, 100, func(sec int) time.Duration {
		return time.Duration(sec) * time.Second
	}, nil, "browser")

	// Active for the first 29 full ticks only (sinceInput < 30s).
	assert.Equal(t, 29*time.Second, l.SessionDuration())
	assert.Equal(t, StateIdle, l.State())
	// Idle time is never attributed to an app.
	assert.Equal(t, 29*time.Second, l.AppUsageSnapshot()["browser"])
	// Idle does not close the continuous segment.
	assert.Equal(t, 29*time.Second, l.ContinuousDuration())
}

func TestLedger_CallAccrualAcrossCycles(t *testing.T) {
	l := newTestLedger(t0)

	inCall := func(sec int) bool {
		return (sec > 10 && sec <= 40) || (sec > 100 && sec <= 130)
	}
	now := runTicks(l, t0, 150, func(int) time.Duration { return 0 }, inCall, "")

	// Calls on (10s,40s] and (100s,130s]: two closed 30s intervals.
	assert.Equal(t, 60*time.Second, l.CallTime(now))
	assert.False(t, l.InCall())
}

func TestLedger_OpenCallIntervalCounts(t *testing.T) {
	l := newTestLedger(t0)

	now := runTicks(l, t0, 50, func(int) time.Duration { return 0 }, func(sec int) bool {
		return sec >= 20
	}, "")

	assert.True(t, l.InCall())
	assert.Equal(t, 30*time.Second, l.CallTime(now))
	// The open interval keeps growing with wall time.
	assert.Equal(t, 40*time.Second, l.CallTime(now.Add(10*time.Second)))
}

func TestLedger_CallIdleThreshold(t *testing.T) {
	l := newTestLedger(t0)

	// Active with input until t=100, then a call starts and input stops.
	lastInput := t0.Add(100 * time.Second)
	now := t0
	for i := 1; i <= 215; i++ {
		now = t0.Add(time.Duration(i) * time.Second)
		sinceInput := time.Duration(0)
		if now.After(lastInput) {
			sinceInput = now.Sub(lastInput)
		}
		l.Tick(now, sinceInput, i > 100, "")
	}

	// At t=215 only 115s have passed without input; the in-call cutoff is
	// 120s, so the user still counts as active.
	assert.Equal(t, StateActive, l.State())

	for i := 216; i <= 225; i++ {
		now = t0.Add(time.Duration(i) * time.Second)
		l.Tick(now, now.Sub(lastInput), true, "")
	}
	assert.Equal(t, StateIdle, l.State())
}

func TestLedger_TickGapCapped(t *testing.T) {
	l := newTestLedger(t0)

	l.Tick(t0.Add(time.Second), 0, false, "")
	// Process suspended for an hour; the late tick contributes at most one
	// nominal tick interval.
	l.Tick(t0.Add(time.Hour), 0, false, "")

	assert.Equal(t, 2*time.Second, l.SessionDuration())
}

func TestLedger_EndContinuousSegment(t *testing.T) {
	l := newTestLedger(t0)

	now := runTicks(l, t0, 40, func(int) time.Duration { return 0 }, nil, "")
	l.EndContinuousSegment(now)

	assert.Equal(t, time.Duration(0), l.ContinuousDuration())
	assert.Equal(t, 40*time.Second, l.LongestSegment())

	// A shorter follow-up segment does not override the maximum.
	runTicks(l, now, 10, func(int) time.Duration { return 0 }, nil, "")
	assert.Equal(t, 10*time.Second, l.ContinuousDuration())
	assert.Equal(t, 40*time.Second, l.LongestSegment())
}

func TestLedger_BreakRecords(t *testing.T) {
	l := newTestLedger(t0)

	now := runTicks(l, t0, 30, func(int) time.Duration { return 0 }, nil, "")
	l.StartBreak(now)
	// Double-start is a no-op.
	l.StartBreak(now.Add(time.Second))
	l.EndBreak(now.Add(5 * time.Minute))

	snap := l.Snapshot(now.Add(5 * time.Minute))
	assert.Len(t, snap.Breaks, 1)
	assert.Equal(t, 5*time.Minute, snap.Breaks[0].Duration)
	assert.Equal(t, now, snap.Breaks[0].Start)
}

func TestLedger_ResetSession(t *testing.T) {
	l := newTestLedger(t0)

	now := runTicks(l, t0, 100, func(int) time.Duration { return 0 }, func(sec int) bool {
		return sec > 50
	}, "mail.client")
	l.EndContinuousSegment(now)

	reset := now.Add(time.Second)
	l.ResetSession(reset)

	assert.Equal(t, time.Duration(0), l.SessionDuration())
	assert.Equal(t, time.Duration(0), l.ContinuousDuration())
	assert.Equal(t, time.Duration(0), l.LongestSegment())
	assert.Empty(t, l.AppUsageSnapshot())

	// The call level survives a reset but its accumulated time restarts.
	assert.True(t, l.InCall())
	assert.Equal(t, 10*time.Second, l.CallTime(reset.Add(10*time.Second)))

	snap := l.Snapshot(reset)
	assert.Empty(t, snap.PastSegments)
	assert.Empty(t, snap.Breaks)
}

func TestLedger_SnapshotIsCopy(t *testing.T) {
	l := newTestLedger(t0)

	now := runTicks(l, t0, 10, func(int) time.Duration { return 0 }, nil, "editor")
	snap := l.Snapshot(now)
	snap.Session.AppUsage["editor"] = time.Hour

	assert.Equal(t, 10*time.Second, l.AppUsageSnapshot()["editor"])
}

func TestLedger_NegativeElapsedIgnored(t *testing.T) {
	l := newTestLedger(t0)

	l.Tick(t0.Add(time.Second), 0, false, "")
	// Clock stepped backwards; nothing accrues.
	l.Tick(t0.Add(-time.Hour), 0, false, "")

	assert.Equal(t, time.Second, l.SessionDuration())
}
