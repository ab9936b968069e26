// Package activity probes the host for time since the last user input event.
package activity

import (
	"log/slog"
	"math"
	"sync"
	"time"
)

// InfiniteIdle is reported when no probe can answer. Marking the user idle is
// the fail-safe direction: it stops accrual instead of inventing active time.
const InfiniteIdle = time.Duration(math.MaxInt64)

// Source queries the host for input-idle time. Sources may fail; the
// FailsafeProbe turns failures into InfiniteIdle.
type Source interface {
	IdleTime() (time.Duration, error)
	Name() string
}

// FailsafeProbe adapts a Source into an ActivityProbe that never fails.
type FailsafeProbe struct {
	source Source
	logger *slog.Logger

	mu     sync.Mutex
	warned bool
}

// NewFailsafeProbe wraps source.
func NewFailsafeProbe(source Source, logger *slog.Logger) *FailsafeProbe {
	return &FailsafeProbe{source: source, logger: logger}
}

// TimeSinceLastInput returns the host idle time, or InfiniteIdle when the
// underlying source is unavailable. The warning is logged once per failure
// streak, not once per tick.
func (p *FailsafeProbe) TimeSinceLastInput() time.Duration {
	idle, err := p.source.IdleTime()

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		if !p.warned {
			p.logger.Warn("input idle probe unavailable, treating user as idle",
				"probe", p.source.Name(), "error", err)
			p.warned = true
		}
		return InfiniteIdle
	}
	if p.warned {
		p.logger.Info("input idle probe recovered", "probe", p.source.Name())
		p.warned = false
	}
	return idle
}
