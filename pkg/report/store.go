package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fastswitch/tracker/pkg/types"
)

// FileStore persists session snapshots into the daily export file consumed by
// the analysis CLI. Each snapshot overwrites the current day's aggregates,
// since the tracker hands over cumulative state.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// PersistSessionSnapshot merges the snapshot into the export file.
func (s *FileStore) PersistSessionSnapshot(snap types.SessionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	export, err := s.load()
	if err != nil {
		return err
	}

	export.DailyData[snap.TakenAt.Format("2006-01-02")] = dayFromSnapshot(snap)
	return s.save(export)
}

func (s *FileStore) load() (*Export, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &Export{DailyData: make(map[string]DayUsage)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}

	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("invalid export file: %w", err)
	}
	if export.DailyData == nil {
		export.DailyData = make(map[string]DayUsage)
	}
	return &export, nil
}

func (s *FileStore) save(export *Export) error {
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	// Write-then-rename so a crash mid-write never corrupts the export.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace export: %w", err)
	}
	return nil
}

func dayFromSnapshot(snap types.SessionSnapshot) DayUsage {
	day := DayUsage{
		TotalSessionTime: snap.Session.TotalActiveDuration.Seconds(),
		CallTime:         snap.CallTime.Seconds(),
		AppUsage:         make(map[string]float64, len(snap.Session.AppUsage)),
	}

	for app, d := range snap.Session.AppUsage {
		day.AppUsage[app] = d.Seconds()
	}
	for _, b := range snap.Breaks {
		day.TotalBreakTime += b.Duration.Seconds()
	}
	for _, f := range snap.FocusSessions {
		day.DeepFocusSessions = append(day.DeepFocusSessions,
			DurationEntry{Duration: f.Duration.Seconds()})
	}
	for _, seg := range snap.PastSegments {
		day.ContinuousWorkSessions = append(day.ContinuousWorkSessions,
			DurationEntry{Duration: seg.Duration.Seconds()})
	}
	if snap.OpenSegment.Duration > 0 {
		day.ContinuousWorkSessions = append(day.ContinuousWorkSessions,
			DurationEntry{Duration: snap.OpenSegment.Duration.Seconds()})
	}
	return day
}
