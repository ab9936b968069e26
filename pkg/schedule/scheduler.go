// Package schedule provides cancelable timer primitives and an injectable
// clock for the tracker's periodic work.
package schedule

import (
	"sync"
	"time"
)

// Task is a handle to scheduled work. Cancel is idempotent and safe to call
// from any goroutine.
type Task interface {
	Cancel()
}

// Scheduler schedules recurring and one-shot work. Callbacks fire on their
// own goroutine and must return promptly; the scheduler never runs two
// firings of the same task concurrently. A nil Task return means scheduling
// failed and no callback will ever fire.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Task
	After(d time.Duration, fn func()) Task
}

// TimerScheduler runs tasks on standard library timers.
type TimerScheduler struct{}

// NewTimerScheduler creates a scheduler backed by time.Ticker and time.Timer.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

type tickerTask struct {
	stop chan struct{}
	once sync.Once
}

func (t *tickerTask) Cancel() {
	t.once.Do(func() { close(t.stop) })
}

// Every fires fn every interval until the task is canceled.
func (s *TimerScheduler) Every(interval time.Duration, fn func()) Task {
	if interval <= 0 {
		return nil
	}
	t := &tickerTask{stop: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return t
}

type timerTask struct {
	timer *time.Timer
}

func (t *timerTask) Cancel() {
	t.timer.Stop()
}

// After fires fn once after d unless canceled first.
func (s *TimerScheduler) After(d time.Duration, fn func()) Task {
	if d < 0 {
		return nil
	}
	return &timerTask{timer: time.AfterFunc(d, fn)}
}
