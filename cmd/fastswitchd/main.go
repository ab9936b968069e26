package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/fastswitch/tracker/pkg/config"
	"github.com/fastswitch/tracker/pkg/notify"
)

func main() {
	var (
		configPath string
		quiet      bool
		help       bool
	)

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.BoolVar(&quiet, "quiet", false, "Log notifications to stderr instead of the desktop")
	flag.BoolVar(&help, "help", false, "Show help message")
	flag.Parse()

	if help {
		printUsage()
		os.Exit(0)
	}

	if configPath != "" {
		if err := os.Setenv("FASTSWITCH_CONFIG", configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error setting config path: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if quiet {
		cfg.Quiet = true
	}

	logger := newLogger(cfg.LogLevel)

	deps, err := NewDependencies(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	if err := deps.Coordinator.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting tracker: %v\n", err)
		os.Exit(1)
	}

	if cfg.StartupNotify && !cfg.Quiet {
		startTracking(deps)
	}

	logger.Info("fastswitchd running",
		"idle_threshold", cfg.IdleThreshold.Std(),
		"call_idle_threshold", cfg.CallIdleThreshold.Std())

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	deps.Coordinator.Stop()
	logger.Info("shutdown complete")
}

func startTracking(deps *Dependencies) {
	n := notify.Notification{
		Title:   "FastSwitch tracking started",
		Message: "Work session tracking is running.",
		Time:    time.Now(),
		Kind:    "startup",
	}
	if err := deps.Notifier.Send(n); err != nil {
		deps.Logger.Warn("startup notification failed", "error", err)
	}
}

// newLogger builds the process-wide structured logger.
func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l})
	return slog.New(h)
}

func printUsage() {
	fmt.Println("fastswitchd - background work-session tracker")
	fmt.Println()
	fmt.Println("Usage: fastswitchd [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  FASTSWITCH_CONFIG               Path to config file")
	fmt.Println("  FASTSWITCH_TICK_INTERVAL        Tick interval (default: 1s)")
	fmt.Println("  FASTSWITCH_IDLE_THRESHOLD       Idle cutoff (default: 30s)")
	fmt.Println("  FASTSWITCH_CALL_IDLE_THRESHOLD  In-call idle cutoff (default: 2m)")
	fmt.Println("  FASTSWITCH_NOTIFIER             Notification backend: desktop or stdout")
	fmt.Println("  FASTSWITCH_QUIET                Disable desktop notifications (true/false)")
	fmt.Println("  FASTSWITCH_EXPORT_PATH          Usage export file (default: ~/.local/share/fastswitch/usage.json)")
	fmt.Println("  FASTSWITCH_LOG_LEVEL            debug, info, warn or error")
	fmt.Println()
	fmt.Println("Configuration file: ~/.config/fastswitch/config.yaml")
}
