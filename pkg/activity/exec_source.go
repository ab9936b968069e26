package activity

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ExecSource shells out to xprintidle, which prints the X11 idle time in
// milliseconds. It is the fallback for desktops without a screensaver
// service on the bus.
type ExecSource struct {
	cmdExecutor func(name string, args ...string) ([]byte, error)
}

// NewExecSource creates the xprintidle-backed source.
func NewExecSource() *ExecSource {
	return &ExecSource{cmdExecutor: defaultCmdExecutor}
}

func defaultCmdExecutor(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.Output()
}

// IdleTime runs xprintidle and parses its output.
func (s *ExecSource) IdleTime() (time.Duration, error) {
	output, err := s.cmdExecutor("xprintidle")
	if err != nil {
		return 0, fmt.Errorf("xprintidle failed: %w", err)
	}

	millis, err := strconv.ParseInt(strings.TrimSpace(string(output)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse xprintidle output: %w", err)
	}

	return time.Duration(millis) * time.Millisecond, nil
}

// Name identifies the source in logs.
func (s *ExecSource) Name() string {
	return "xprintidle"
}
