// Package config loads tracker configuration from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s"
// as well as plain nanosecond integers.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(time.Duration(v))
	default:
		return fmt.Errorf("invalid duration value %v", raw)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds all configuration for the tracker daemon.
type Config struct {
	// Tick loop
	TickInterval Duration `yaml:"tick_interval" env:"FASTSWITCH_TICK_INTERVAL"`

	// Idle detection. The 300s/1800s pair from older builds is a legacy
	// profile; these are the canonical cutoffs.
	IdleThreshold     Duration `yaml:"idle_threshold" env:"FASTSWITCH_IDLE_THRESHOLD"`
	CallIdleThreshold Duration `yaml:"call_idle_threshold" env:"FASTSWITCH_CALL_IDLE_THRESHOLD"`

	// Break reminders
	BreakThresholds      []Duration `yaml:"break_thresholds"`
	NotificationsEnabled bool       `yaml:"notifications_enabled"`
	StickyInterval       Duration   `yaml:"sticky_interval"`
	StickyCap            Duration   `yaml:"sticky_cap"`

	// Call detection
	CommunicationApps []string `yaml:"communication_apps"`
	BrowserProcess    string   `yaml:"browser_process"`
	MeetingDomains    []string `yaml:"meeting_domains"`

	// Deep focus
	FocusDuration Duration `yaml:"focus_duration"`

	// Snapshot hand-off to the persistence collaborator
	SnapshotInterval Duration `yaml:"snapshot_interval"`
	ExportPath       string   `yaml:"export_path" env:"FASTSWITCH_EXPORT_PATH"`

	// Notification backend: "desktop" or "stdout"
	Notifier string `yaml:"notifier" env:"FASTSWITCH_NOTIFIER"`

	// Behavior flags
	Quiet         bool   `yaml:"quiet" env:"FASTSWITCH_QUIET"`
	StartupNotify bool   `yaml:"startup_notify"`
	LogLevel      string `yaml:"log_level" env:"FASTSWITCH_LOG_LEVEL"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		TickInterval:      Duration(1 * time.Second),
		IdleThreshold:     Duration(30 * time.Second),
		CallIdleThreshold: Duration(120 * time.Second),
		BreakThresholds: []Duration{
			Duration(45 * time.Minute),
			Duration(90 * time.Minute),
			Duration(135 * time.Minute),
		},
		NotificationsEnabled: true,
		StickyInterval:       Duration(15 * time.Second),
		StickyCap:            Duration(60 * time.Second),
		CommunicationApps: []string{
			"zoom", "teams", "slack", "discord", "webex", "skype",
		},
		BrowserProcess: "firefox",
		MeetingDomains: []string{
			"meet.google.com", "zoom.us", "teams.microsoft.com",
			"whereby.com", "meet.jit.si",
		},
		FocusDuration:    Duration(1 * time.Hour),
		SnapshotInterval: Duration(5 * time.Minute),
		Notifier:         "desktop",
		StartupNotify:    true,
		LogLevel:         "info",
	}
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPath()
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getConfigPath returns the config file path.
func getConfigPath() string {
	if path := os.Getenv("FASTSWITCH_CONFIG"); path != "" {
		return path
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "fastswitch", "config.yaml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "fastswitch", "config.yaml")
	}

	return ""
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - The config file path comes from trusted sources (env var or standard locations)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// loadFromEnv loads configuration from environment variables.
func loadFromEnv(cfg *Config) error {
	durations := map[string]*Duration{
		"FASTSWITCH_TICK_INTERVAL":       &cfg.TickInterval,
		"FASTSWITCH_IDLE_THRESHOLD":      &cfg.IdleThreshold,
		"FASTSWITCH_CALL_IDLE_THRESHOLD": &cfg.CallIdleThreshold,
	}
	for key, dst := range durations {
		raw := os.Getenv(key)
		if raw == "" {
			continue
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = Duration(d)
	}

	if notifier := os.Getenv("FASTSWITCH_NOTIFIER"); notifier != "" {
		cfg.Notifier = notifier
	}

	if level := os.Getenv("FASTSWITCH_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if path := os.Getenv("FASTSWITCH_EXPORT_PATH"); path != "" {
		cfg.ExportPath = path
	}

	if quiet := os.Getenv("FASTSWITCH_QUIET"); quiet != "" {
		switch quiet {
		case "true", "1", "yes":
			cfg.Quiet = true
		case "false", "0", "no":
			cfg.Quiet = false
		default:
			return fmt.Errorf("invalid FASTSWITCH_QUIET value: %q (use true/false)", quiet)
		}
	}

	return nil
}

// validate validates the configuration.
func validate(cfg *Config) error {
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive")
	}

	if cfg.IdleThreshold <= 0 || cfg.CallIdleThreshold <= 0 {
		return fmt.Errorf("idle thresholds must be positive")
	}

	for i := 1; i < len(cfg.BreakThresholds); i++ {
		if cfg.BreakThresholds[i] <= cfg.BreakThresholds[i-1] {
			return fmt.Errorf("break_thresholds must be strictly ascending")
		}
	}
	if len(cfg.BreakThresholds) > 0 && cfg.BreakThresholds[0] <= 0 {
		return fmt.Errorf("break_thresholds must be positive")
	}

	if cfg.StickyInterval <= 0 {
		return fmt.Errorf("sticky_interval must be positive")
	}
	if cfg.StickyCap < cfg.StickyInterval {
		return fmt.Errorf("sticky_cap must be at least sticky_interval")
	}

	switch cfg.Notifier {
	case "desktop", "stdout":
	default:
		return fmt.Errorf("notifier must be %q or %q, got %q", "desktop", "stdout", cfg.Notifier)
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	}

	if cfg.FocusDuration <= 0 {
		return fmt.Errorf("focus_duration must be positive")
	}

	return nil
}

// ExportFilePath returns the configured export path, or the default under the
// user data directory when unset.
func (c *Config) ExportFilePath() string {
	if c.ExportPath != "" {
		return c.ExportPath
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "fastswitch", "usage.json")
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "fastswitch", "usage.json")
	}

	return "usage.json"
}

// BreakThresholdDurations converts the configured thresholds to time.Duration.
func (c *Config) BreakThresholdDurations() []time.Duration {
	out := make([]time.Duration, len(c.BreakThresholds))
	for i, d := range c.BreakThresholds {
		out[i] = d.Std()
	}
	return out
}
