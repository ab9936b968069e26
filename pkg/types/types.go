// Package types contains shared data structures used across the tracker.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Session is the cumulative active-time ledger for one tracking run.
// It is created on tracking start and replaced wholesale on reset.
type Session struct {
	ID                  string
	Start               time.Time
	TotalActiveDuration time.Duration
	AppUsage            map[string]time.Duration
}

// NewSession creates a fresh session starting at the given time.
func NewSession(start time.Time) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Start:    start,
		AppUsage: make(map[string]time.Duration),
	}
}

// ContinuousSegment is a maximal span of work uninterrupted by an explicit
// break. Being merely idle does not close a segment.
type ContinuousSegment struct {
	Start    time.Time
	Duration time.Duration
}

// CallState tracks whether the user is in a communication call and how much
// call time has accumulated across completed call intervals.
type CallState struct {
	Active              bool
	StartedAt           time.Time
	AccumulatedDuration time.Duration
}

// Total returns accumulated call time plus the open interval, if any.
func (c CallState) Total(now time.Time) time.Duration {
	if !c.Active {
		return c.AccumulatedDuration
	}
	return c.AccumulatedDuration + now.Sub(c.StartedAt)
}

// BreakRecord is appended when a break ends. Reporting only.
type BreakRecord struct {
	Start    time.Time
	Duration time.Duration
}

// FocusSession records one completed deep-focus run.
type FocusSession struct {
	ID       string
	Start    time.Time
	Duration time.Duration
}

// SessionSnapshot is the unit handed to the persistence collaborator on a
// cadence the tracker controls. Serialization is the collaborator's concern.
type SessionSnapshot struct {
	TakenAt        time.Time
	Session        Session
	OpenSegment    ContinuousSegment
	PastSegments   []ContinuousSegment
	LongestSegment time.Duration
	CallTime       time.Duration
	Breaks         []BreakRecord
	FocusSessions  []FocusSession
}
