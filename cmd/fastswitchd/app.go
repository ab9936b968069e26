package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fastswitch/tracker/pkg/activity"
	"github.com/fastswitch/tracker/pkg/breaks"
	"github.com/fastswitch/tracker/pkg/callwatch"
	"github.com/fastswitch/tracker/pkg/config"
	"github.com/fastswitch/tracker/pkg/dnd"
	"github.com/fastswitch/tracker/pkg/focus"
	"github.com/fastswitch/tracker/pkg/interfaces"
	"github.com/fastswitch/tracker/pkg/notify"
	"github.com/fastswitch/tracker/pkg/report"
	"github.com/fastswitch/tracker/pkg/schedule"
	"github.com/fastswitch/tracker/pkg/session"
	"github.com/fastswitch/tracker/pkg/tracker"
)

// Dependencies holds all the wired components of the daemon.
type Dependencies struct {
	Config      *config.Config
	Logger      *slog.Logger
	Notifier    notify.Notifier
	Probe       interfaces.ActivityProbe
	Registry    interfaces.ProcessRegistry
	Windows     interfaces.WindowProbe
	DND         interfaces.DNDController
	Reminders   *breaks.Manager
	Focus       *focus.Controller
	Coordinator *tracker.Coordinator

	closers []func() error
}

// NewDependencies creates all components with the given configuration.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, Logger: logger}

	clock := schedule.RealClock{}
	scheduler := schedule.NewTimerScheduler()

	notifier, err := buildNotifier(cfg, deps)
	if err != nil {
		return nil, err
	}
	if cfg.Quiet {
		notifier = notify.NewStdoutNotifier(os.Stderr)
	}
	deps.Notifier = notifier

	deps.Probe = activity.NewProbe(logger)
	deps.Registry = callwatch.NewProcRegistry()
	deps.Windows = callwatch.NewXWindowProbe()

	detector := callwatch.NewDetector(deps.Registry, deps.Windows, logger,
		cfg.CommunicationApps, cfg.BrowserProcess, cfg.MeetingDomains)

	breakSticky := notify.NewSticky(scheduler, notifier, logger,
		cfg.StickyInterval.Std(), cfg.StickyCap.Std())
	deps.Reminders = breaks.NewManager(logger, breakSticky,
		cfg.BreakThresholdDurations(), cfg.NotificationsEnabled && !cfg.Quiet)

	deps.DND = buildDND(logger, deps)
	focusSticky := notify.NewSticky(scheduler, notifier, logger,
		cfg.StickyInterval.Std(), cfg.StickyCap.Std())
	deps.Focus = focus.NewController(clock, scheduler, notifier, focusSticky,
		deps.DND, logger, cfg.FocusDuration.Std())

	sink := report.NewFileStore(cfg.ExportFilePath())

	deps.Coordinator = tracker.NewCoordinator(logger, clock, scheduler,
		deps.Probe, detector, deps.Windows, deps.Reminders, deps.Focus, sink,
		tracker.Options{
			TickInterval: cfg.TickInterval.Std(),
			Thresholds: session.Thresholds{
				Idle:     cfg.IdleThreshold.Std(),
				CallIdle: cfg.CallIdleThreshold.Std(),
			},
			SnapshotInterval: cfg.SnapshotInterval.Std(),
		})

	return deps, nil
}

func buildNotifier(cfg *config.Config, deps *Dependencies) (notify.Notifier, error) {
	switch cfg.Notifier {
	case "stdout":
		return notify.NewStdoutNotifier(os.Stdout), nil
	default:
		desktop, err := notify.NewDesktopNotifier("FastSwitch")
		if err != nil {
			return nil, fmt.Errorf("failed to create desktop notifier: %w", err)
		}
		deps.closers = append(deps.closers, desktop.Close)
		return desktop, nil
	}
}

func buildDND(logger *slog.Logger, deps *Dependencies) interfaces.DNDController {
	controller, err := dnd.NewGnomeController()
	if err != nil {
		logger.Warn("do-not-disturb control unavailable", "error", err)
		return dnd.NoopController{}
	}
	deps.closers = append(deps.closers, controller.Close)
	return controller
}

// Close releases bus connections and stops tracking.
func (d *Dependencies) Close() {
	if d.Coordinator != nil {
		d.Coordinator.Stop()
	}
	for _, closeFn := range d.closers {
		_ = closeFn()
	}
}
