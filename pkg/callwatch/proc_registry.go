package callwatch

import (
	"os"
	"path/filepath"
	"strings"
)

// procCommLen is the kernel's truncation length for /proc/<pid>/comm.
const procCommLen = 15

// ProcRegistry answers process-presence queries by scanning /proc.
type ProcRegistry struct {
	root string
}

// NewProcRegistry creates a registry reading the real /proc.
func NewProcRegistry() *ProcRegistry {
	return &ProcRegistry{root: "/proc"}
}

// NewProcRegistryAt creates a registry rooted at an alternate directory,
// for testing.
func NewProcRegistryAt(root string) *ProcRegistry {
	return &ProcRegistry{root: root}
}

// Running reports which of the given process names have a live process.
// Matching is case-insensitive and tolerates the kernel's comm truncation.
// An unreadable /proc yields an empty result, never an error: the fail-safe
// direction for call detection is "no call".
func (r *ProcRegistry) Running(names []string) []string {
	if len(names) == 0 {
		return nil
	}

	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil
	}

	live := make(map[string]bool)
	for _, entry := range entries {
		if !entry.IsDir() || !isPid(entry.Name()) {
			continue
		}
		comm, err := os.ReadFile(filepath.Join(r.root, entry.Name(), "comm"))
		if err != nil {
			continue
		}
		live[strings.ToLower(strings.TrimSpace(string(comm)))] = true
	}

	var found []string
	for _, name := range names {
		if matchesLive(live, strings.ToLower(name)) {
			found = append(found, name)
		}
	}
	return found
}

func matchesLive(live map[string]bool, name string) bool {
	if live[name] {
		return true
	}
	if len(name) > procCommLen && live[name[:procCommLen]] {
		return true
	}
	return false
}

func isPid(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
