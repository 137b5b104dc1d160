package reporter

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/SpeedsterCollective/Tweeks/internal/config"
	"github.com/SpeedsterCollective/Tweeks/internal/database"
	"github.com/SpeedsterCollective/Tweeks/internal/models"
	"github.com/SpeedsterCollective/Tweeks/pkg/matcher"
)

// Reporter turns stored session transitions into playtime reports.
type Reporter struct {
	config *config.Config
	repo   *database.Repository
	now    func() time.Time
}

// New creates a new reporter
func New(cfg *config.Config, repo *database.Repository) *Reporter {
	return &Reporter{
		config: cfg,
		repo:   repo,
		now:    time.Now,
	}
}

// GenerateReport generates a playtime report for the specified period
func (r *Reporter) GenerateReport(periodType string) (*models.Report, error) {
	period, err := r.getPeriod(periodType)
	if err != nil {
		return nil, err
	}

	events, err := r.repo.GetEventsSince(period.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to get session events: %w", err)
	}

	summaries := SummarizeSessions(events, r.now())

	var totalSeconds int64
	for _, s := range summaries {
		totalSeconds += s.TotalSeconds
	}
	if totalSeconds > 0 {
		for i := range summaries {
			summaries[i].Percentage = (float64(summaries[i].TotalSeconds) / float64(totalSeconds)) * 100.0
		}
	}

	return &models.Report{
		Period:       *period,
		Targets:      summaries,
		TotalSeconds: totalSeconds,
		TotalHours:   float64(totalSeconds) / 3600.0,
		GeneratedAt:  r.now(),
	}, nil
}

// SummarizeSessions pairs state transitions into play sessions per target.
// A transition into any not-stopped state opens a session; the next
// transition to not-running closes it. A session still open at the end of
// the event stream is counted up to now.
func SummarizeSessions(events []*models.SessionEvent, now time.Time) []models.PlaySummary {
	type open struct {
		since time.Time
		ok    bool
	}

	totals := make(map[string]int64)
	sessions := make(map[string]int)
	opened := make(map[string]open)

	for _, ev := range events {
		running := ev.ToState != matcher.StateNotRunning
		cur := opened[ev.Target]

		switch {
		case running && !cur.ok:
			opened[ev.Target] = open{since: ev.Timestamp, ok: true}
			sessions[ev.Target]++
		case !running && cur.ok:
			totals[ev.Target] += int64(ev.Timestamp.Sub(cur.since).Seconds())
			opened[ev.Target] = open{}
		}
	}

	for name, cur := range opened {
		if cur.ok && now.After(cur.since) {
			totals[name] += int64(now.Sub(cur.since).Seconds())
		}
	}

	var summaries []models.PlaySummary
	for name, total := range totals {
		summaries = append(summaries, models.PlaySummary{
			Target:       name,
			TotalSeconds: total,
			TotalMinutes: float64(total) / 60.0,
			TotalHours:   float64(total) / 3600.0,
			Sessions:     sessions[name],
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].TotalSeconds > summaries[j].TotalSeconds
	})

	return summaries
}

// getPeriod calculates the time range for the report
func (r *Reporter) getPeriod(periodType string) (*models.ReportPeriod, error) {
	now := r.now()
	var start, end time.Time

	switch periodType {
	case "day", "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end = start.Add(24 * time.Hour)

	case "week":
		// Start of week (Monday)
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday = 7
		}
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(weekday - 1))
		end = start.AddDate(0, 0, 7)

	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, 0)

	default:
		return nil, fmt.Errorf("invalid period type: %s (valid: day, week, month)", periodType)
	}

	return &models.ReportPeriod{
		Start: start,
		End:   end,
		Type:  periodType,
	}, nil
}

// FormatReportText formats the report as human-readable text
func (r *Reporter) FormatReportText(report *models.Report) string {
	output := fmt.Sprintf("Playtime Report - %s\n", report.Period.Type)
	output += fmt.Sprintf("Period: %s to %s\n",
		report.Period.Start.Format("2006-01-02 15:04"),
		report.Period.End.Format("2006-01-02 15:04"))
	output += fmt.Sprintf("Total Time: %.2fh\n\n", report.TotalHours)

	if len(report.Targets) == 0 {
		output += "No play sessions recorded for this period.\n"
		return output
	}

	output += fmt.Sprintf("%-25s %10s %10s %10s\n", "Target", "Hours", "Sessions", "Percent")
	output += fmt.Sprintf("%s\n", "-----------------------------------------------------------")

	for _, t := range report.Targets {
		output += fmt.Sprintf("%-25s %10.2f %10d %9.1f%%\n",
			t.Target, t.TotalHours, t.Sessions, t.Percentage)
	}

	return output
}

// FormatReportJSON formats the report as JSON
func (r *Reporter) FormatReportJSON(report *models.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data), nil
}
