package activity

import (
	"log/slog"

	"github.com/fastswitch/tracker/pkg/interfaces"
)

// NewProbe picks the best available idle source and wraps it so that probe
// failures degrade to "infinitely idle" instead of propagating.
func NewProbe(logger *slog.Logger) interfaces.ActivityProbe {
	if src, err := NewDBusSource(); err == nil {
		if _, probeErr := src.IdleTime(); probeErr == nil {
			return NewFailsafeProbe(src, logger)
		}
		_ = src.Close()
	}

	return NewFailsafeProbe(NewExecSource(), logger)
}
