// Package report analyzes exported usage data and renders usage insights.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// Export is the shape of the exported usage file: daily aggregates keyed by
// ISO date (YYYY-MM-DD).
type Export struct {
	DailyData map[string]DayUsage `json:"dailyData"`
}

// DayUsage is one day's aggregates. Durations are in seconds, matching the
// exporter.
type DayUsage struct {
	TotalSessionTime       float64            `json:"totalSessionTime"`
	TotalBreakTime         float64            `json:"totalBreakTime"`
	CallTime               float64            `json:"callTime"`
	AppUsage               map[string]float64 `json:"appUsage"`
	DeepFocusSessions      []DurationEntry    `json:"deepFocusSessions"`
	ContinuousWorkSessions []DurationEntry    `json:"continuousWorkSessions"`
}

// DurationEntry is a recorded span within a day.
type DurationEntry struct {
	Duration float64 `json:"duration"`
}

// Load reads and parses an exported usage file.
func Load(path string) (*Export, error) {
	// #nosec G304 - path is a user-supplied CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}

	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("invalid export file: %w", err)
	}
	return &export, nil
}

// AppUsage is one application's share of the total work time.
type AppUsage struct {
	App        string
	Seconds    float64
	Percentage float64
}

// Summary holds the computed insights for a whole export.
type Summary struct {
	Days             int
	TotalSessionTime float64
	TotalBreakTime   float64
	TotalCallTime    float64
	AverageDaily     float64

	TopApps []AppUsage

	FocusSessions    int
	TotalFocusTime   float64
	AverageFocusTime float64

	ContinuousSessions int
	LongestSession     float64
	AverageSession     float64

	// WeekdayAverages maps weekday name to average work seconds; only
	// populated when the export covers at least a week.
	WeekdayAverages map[string]float64
}

// Summarize computes the summary for an export.
func Summarize(export *Export) Summary {
	var s Summary
	s.Days = len(export.DailyData)

	appTotals := make(map[string]float64)
	for _, day := range export.DailyData {
		s.TotalSessionTime += day.TotalSessionTime
		s.TotalBreakTime += day.TotalBreakTime
		s.TotalCallTime += day.CallTime
		for app, secs := range day.AppUsage {
			appTotals[app] += secs
		}
		for _, f := range day.DeepFocusSessions {
			s.FocusSessions++
			s.TotalFocusTime += f.Duration
		}
		for _, w := range day.ContinuousWorkSessions {
			s.ContinuousSessions++
			s.AverageSession += w.Duration
			if w.Duration > s.LongestSession {
				s.LongestSession = w.Duration
			}
		}
	}

	if s.Days > 0 {
		s.AverageDaily = s.TotalSessionTime / float64(s.Days)
	}
	if s.FocusSessions > 0 {
		s.AverageFocusTime = s.TotalFocusTime / float64(s.FocusSessions)
	}
	if s.ContinuousSessions > 0 {
		s.AverageSession /= float64(s.ContinuousSessions)
	}

	s.TopApps = rankApps(appTotals, s.TotalSessionTime)

	if s.Days >= 7 {
		s.WeekdayAverages = weekdayAverages(export.DailyData)
	}

	return s
}

// rankApps sorts applications by usage, keeping the top ten.
func rankApps(totals map[string]float64, totalWork float64) []AppUsage {
	ranked := make([]AppUsage, 0, len(totals))
	for app, secs := range totals {
		usage := AppUsage{App: shortAppName(app), Seconds: secs}
		if totalWork > 0 {
			usage.Percentage = secs / totalWork * 100
		}
		ranked = append(ranked, usage)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Seconds != ranked[j].Seconds {
			return ranked[i].Seconds > ranked[j].Seconds
		}
		return ranked[i].App < ranked[j].App
	})
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}
	return ranked
}

// shortAppName trims reverse-DNS application identifiers to their last
// component.
func shortAppName(app string) string {
	if idx := strings.LastIndex(app, "."); idx >= 0 && idx < len(app)-1 {
		return app[idx+1:]
	}
	return app
}

// weekdayAverages averages work time per weekday across the export.
func weekdayAverages(days map[string]DayUsage) map[string]float64 {
	totals := make(map[string]float64)
	counts := make(map[string]int)
	for dateStr, day := range days {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		weekday := date.Weekday().String()
		totals[weekday] += day.TotalSessionTime
		counts[weekday]++
	}

	averages := make(map[string]float64, len(totals))
	for weekday, total := range totals {
		averages[weekday] = total / float64(counts[weekday])
	}
	return averages
}

// Render writes the human-readable report.
func (s Summary) Render(w io.Writer, summaryOnly bool) {
	fmt.Fprintln(w, "FastSwitch Usage Analysis")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "\nData Range: %d days\n", s.Days)
	fmt.Fprintf(w, "Total Work Time: %s\n", FormatSeconds(s.TotalSessionTime))
	fmt.Fprintf(w, "Total Break Time: %s\n", FormatSeconds(s.TotalBreakTime))
	fmt.Fprintf(w, "Total Call Time: %s\n", FormatSeconds(s.TotalCallTime))
	if s.Days > 0 {
		fmt.Fprintf(w, "Average Daily Work: %s\n", FormatSeconds(s.AverageDaily))
	}

	if summaryOnly {
		return
	}

	if len(s.TopApps) > 0 {
		fmt.Fprintf(w, "\nTop Applications:\n")
		for i, app := range s.TopApps {
			fmt.Fprintf(w, "  %2d. %-20s: %8s (%4.1f%%)\n",
				i+1, app.App, FormatSeconds(app.Seconds), app.Percentage)
		}
	}

	if s.FocusSessions > 0 {
		fmt.Fprintf(w, "\nDeep Focus:\n")
		fmt.Fprintf(w, "   Sessions: %d\n", s.FocusSessions)
		fmt.Fprintf(w, "   Total Time: %s\n", FormatSeconds(s.TotalFocusTime))
		fmt.Fprintf(w, "   Average Session: %s\n", FormatSeconds(s.AverageFocusTime))
	}

	if s.ContinuousSessions > 0 {
		fmt.Fprintf(w, "\nWork Patterns:\n")
		fmt.Fprintf(w, "   Continuous Sessions: %d\n", s.ContinuousSessions)
		fmt.Fprintf(w, "   Longest Session: %s\n", FormatSeconds(s.LongestSession))
		fmt.Fprintf(w, "   Average Session: %s\n", FormatSeconds(s.AverageSession))
	}

	if len(s.WeekdayAverages) > 0 {
		fmt.Fprintf(w, "\nWeekly Patterns:\n")
		for _, weekday := range []string{
			"Monday", "Tuesday", "Wednesday", "Thursday",
			"Friday", "Saturday", "Sunday",
		} {
			if avg, ok := s.WeekdayAverages[weekday]; ok {
				fmt.Fprintf(w, "   %-9s: %s\n", weekday, FormatSeconds(avg))
			}
		}
	}
}

// FormatSeconds renders a second count as "1h 5m" or "12m".
func FormatSeconds(seconds float64) string {
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
