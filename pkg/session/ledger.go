// Package session owns the active/idle state machine and the work, call and
// break time ledgers for one tracking run.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fastswitch/tracker/pkg/types"
)

// State is the user's effective working state.
type State int

const (
	// StateActive means input was seen within the effective idle threshold.
	StateActive State = iota
	// StateIdle means no input for at least the effective idle threshold.
	// Idle does not close the open continuous segment.
	StateIdle
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// Thresholds holds the idle cutoffs for normal work and in-call work. Calls
// get the longer cutoff because listening produces no input events.
type Thresholds struct {
	Idle     time.Duration
	CallIdle time.Duration
}

// Ledger is the session accounting state machine. All mutation goes through
// Tick and the explicit break/reset operations; a single mutex guards it for
// concurrent reads by reporting callers.
type Ledger struct {
	mu sync.Mutex

	logger       *slog.Logger
	thresholds   Thresholds
	tickInterval time.Duration

	session      *types.Session
	state        State
	lastActivity time.Time
	lastTick     time.Time

	segment        types.ContinuousSegment
	pastSegments   []types.ContinuousSegment
	longestSegment time.Duration

	call types.CallState

	breaks     []types.BreakRecord
	breakStart time.Time
}

// NewLedger creates a ledger for a tracking run starting at now.
func NewLedger(logger *slog.Logger, thresholds Thresholds, tickInterval time.Duration, now time.Time) *Ledger {
	return &Ledger{
		logger:       logger,
		thresholds:   thresholds,
		tickInterval: tickInterval,
		session:      types.NewSession(now),
		state:        StateActive,
		lastActivity: now,
		lastTick:     now,
		segment:      types.ContinuousSegment{Start: now},
	}
}

// Tick advances the ledger by one scheduling tick. sinceInput is the probe's
// time since last input, inCall the detector's current level, foregroundApp
// the focused application (empty when unknown). Ticks are serialized by the
// coordinator; the mutex only protects against concurrent readers.
func (l *Ledger) Tick(now time.Time, sinceInput time.Duration, inCall bool, foregroundApp string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// A tick that arrives late (process suspended, laptop asleep) must not
	// back-attribute the missing wall time as active work.
	elapsed := now.Sub(l.lastTick)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > l.tickInterval {
		elapsed = l.tickInterval
	}
	l.lastTick = now

	l.applyCallEdge(now, inCall)

	threshold := l.thresholds.Idle
	if l.call.Active {
		threshold = l.thresholds.CallIdle
	}

	if sinceInput < threshold {
		if l.state == StateIdle {
			l.logger.Debug("user active again", "idle_for", now.Sub(l.lastActivity))
		}
		l.state = StateActive
		l.lastActivity = now
		l.session.TotalActiveDuration += elapsed
		l.segment.Duration += elapsed
		if l.segment.Duration > l.longestSegment {
			l.longestSegment = l.segment.Duration
		}
		if foregroundApp != "" {
			l.session.AppUsage[foregroundApp] += elapsed
		}
		return
	}

	if l.state == StateActive {
		l.logger.Debug("user idle", "since_input", sinceInput, "threshold", threshold)
	}
	l.state = StateIdle
}

// applyCallEdge diffs the detector's level against the previous tick and
// updates call accrual exactly once per edge pair.
func (l *Ledger) applyCallEdge(now time.Time, inCall bool) {
	if inCall == l.call.Active {
		return
	}
	if inCall {
		l.call.Active = true
		l.call.StartedAt = now
		l.logger.Info("call started")
		return
	}
	l.call.AccumulatedDuration += now.Sub(l.call.StartedAt)
	l.call.Active = false
	l.call.StartedAt = time.Time{}
	l.logger.Info("call ended", "call_time", l.call.AccumulatedDuration)
}

// EndContinuousSegment closes the open segment, appends it to history and
// opens a fresh one starting at now. Called when a break begins or tracking
// stops.
func (l *Ledger) EndContinuousSegment(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeSegmentLocked(now)
}

func (l *Ledger) closeSegmentLocked(now time.Time) {
	if l.segment.Duration > 0 {
		l.pastSegments = append(l.pastSegments, l.segment)
		if l.segment.Duration > l.longestSegment {
			l.longestSegment = l.segment.Duration
		}
	}
	l.segment = types.ContinuousSegment{Start: now}
}

// StartBreak closes the continuous segment and marks a break open. A second
// StartBreak without an EndBreak is a no-op.
func (l *Ledger) StartBreak(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.breakStart.IsZero() {
		return
	}
	l.closeSegmentLocked(now)
	l.breakStart = now
	l.logger.Info("break started")
}

// EndBreak records the finished break. Reporting only; the segment was
// already reopened by StartBreak.
func (l *Ledger) EndBreak(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.breakStart.IsZero() {
		return
	}
	record := types.BreakRecord{Start: l.breakStart, Duration: now.Sub(l.breakStart)}
	l.breaks = append(l.breaks, record)
	l.breakStart = time.Time{}
	l.segment = types.ContinuousSegment{Start: now}
	l.logger.Info("break ended", "duration", record.Duration)
}

// ResetSession truncates everything to a fresh run starting at now. The open
// segment is discarded, not appended. An open call interval survives as a
// level but its accumulated time restarts.
func (l *Ledger) ResetSession(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.session = types.NewSession(now)
	l.segment = types.ContinuousSegment{Start: now}
	l.pastSegments = nil
	l.longestSegment = 0
	l.breaks = nil
	l.breakStart = time.Time{}
	l.lastActivity = now
	l.lastTick = now
	l.state = StateActive

	l.call.AccumulatedDuration = 0
	if l.call.Active {
		l.call.StartedAt = now
	}
	l.logger.Info("session reset")
}

// State returns the current working state.
func (l *Ledger) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// SessionDuration returns the session's total active time.
func (l *Ledger) SessionDuration() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.session.TotalActiveDuration
}

// ContinuousDuration returns the open segment's duration.
func (l *Ledger) ContinuousDuration() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.segment.Duration
}

// LongestSegment returns the running maximum over closed and open segments.
func (l *Ledger) LongestSegment() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.longestSegment
}

// InCall reports the current call level.
func (l *Ledger) InCall() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.call.Active
}

// CallTime returns accumulated call time plus any open interval at now.
func (l *Ledger) CallTime(now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.call.Total(now)
}

// AppUsageSnapshot returns a copy of per-application active time.
func (l *Ledger) AppUsageSnapshot() map[string]time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]time.Duration, len(l.session.AppUsage))
	for app, d := range l.session.AppUsage {
		out[app] = d
	}
	return out
}

// Snapshot captures the full ledger state for the persistence collaborator.
func (l *Ledger) Snapshot(now time.Time) types.SessionSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	session := *l.session
	session.AppUsage = make(map[string]time.Duration, len(l.session.AppUsage))
	for app, d := range l.session.AppUsage {
		session.AppUsage[app] = d
	}

	snapshot := types.SessionSnapshot{
		TakenAt:        now,
		Session:        session,
		OpenSegment:    l.segment,
		PastSegments:   append([]types.ContinuousSegment(nil), l.pastSegments...),
		LongestSegment: l.longestSegment,
		CallTime:       l.call.Total(now),
		Breaks:         append([]types.BreakRecord(nil), l.breaks...),
	}
	return snapshot
}
