// Package interfaces defines the capability interfaces the tracker consumes.
package interfaces

import (
	"time"

	"github.com/fastswitch/tracker/pkg/types"
)

// ActivityProbe reports the time elapsed since the last user input event.
// Implementations never block and never fail; an unavailable probe reports
// the user as idle.
type ActivityProbe interface {
	TimeSinceLastInput() time.Duration
}

// ProcessRegistry answers which of a set of process names currently have a
// live process.
type ProcessRegistry interface {
	Running(names []string) []string
}

// WindowProbe exposes foreground-window information.
type WindowProbe interface {
	// ForegroundApp returns the identifier of the application owning the
	// focused window, if one can be determined.
	ForegroundApp() (string, bool)
	// ActiveBrowserTabHost returns the host of the browser's active tab.
	// The second result is false when the browser is not focused or the
	// probe cannot answer.
	ActiveBrowserTabHost(browser string) (string, bool)
}

// DNDController toggles the desktop's do-not-disturb state.
type DNDController interface {
	SetDoNotDisturb(enabled bool) error
	SetThirdPartyDND(enabled bool) error
}

// SnapshotSink receives session snapshots for persistence. The tracker calls
// it on a cadence and treats failures as non-fatal.
type SnapshotSink interface {
	PersistSessionSnapshot(snapshot types.SessionSnapshot) error
}
