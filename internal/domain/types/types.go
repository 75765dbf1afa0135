// Package types contains common types used across the application
package types

import "time"

// DayFormat is the UTC calendar-day bucket key format.
const DayFormat = "2006-01-02"

// Metric identifies a dashboard metric backed by a fixed set of event names.
type Metric string

// Supported metrics.
const (
	MetricPlacements     Metric = "placements"
	MetricInterviews     Metric = "interviews"
	MetricCVSent         Metric = "cv_sent"
	MetricTasksCompleted Metric = "tasks_completed"
	MetricStageMoves     Metric = "stage_moves"
)

// EventNames returns the allow-listed event names backing the metric.
// The mapping is fixed; adding a metric means extending this table.
func (m Metric) EventNames() []string {
	switch m {
	case MetricPlacements:
		return []string{"placement_created"}
	case MetricInterviews:
		return []string{"interview_scheduled"}
	case MetricCVSent:
		return []string{"cv_sent"}
	case MetricTasksCompleted:
		return []string{"task_completed"}
	case MetricStageMoves:
		return []string{"stage_changed", "candidate_moved"}
	default:
		return nil
	}
}

// Valid reports whether the metric is part of the fixed catalog.
func (m Metric) Valid() bool {
	return m.EventNames() != nil
}

// ParseMetric maps a query-string value to a Metric. An empty value
// defaults to placements; unknown values report ok=false.
func ParseMetric(s string) (Metric, bool) {
	if s == "" {
		return MetricPlacements, true
	}
	m := Metric(s)
	return m, m.Valid()
}

// Range is a dashboard lookback window measured in whole UTC days.
type Range string

// Supported ranges.
const (
	Range7d  Range = "7d"
	Range30d Range = "30d"
	Range90d Range = "90d"
)

// Days returns the number of calendar days covered by the range.
func (r Range) Days() int {
	switch r {
	case Range7d:
		return 7
	case Range30d:
		return 30
	case Range90d:
		return 90
	default:
		return 0
	}
}

// Valid reports whether r is a supported range.
func (r Range) Valid() bool {
	return r.Days() > 0
}

// ParseRange maps a query-string value to a Range. An empty value
// defaults to 30d; unknown values report ok=false.
func ParseRange(s string) (Range, bool) {
	if s == "" {
		return Range30d, true
	}
	r := Range(s)
	return r, r.Valid()
}

// Window returns the half-open interval [start, end) covering Days()
// consecutive UTC days ending on now's UTC date. With prev set, both
// bounds shift back by Days() to produce the previous-period window.
func (r Range) Window(now time.Time, prev bool) (time.Time, time.Time) {
	days := r.Days()
	end := now.UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -days)
	if prev {
		start = start.AddDate(0, 0, -days)
		end = end.AddDate(0, 0, -days)
	}
	return start, end
}

// Point is one zero-filled timeseries bucket.
type Point struct {
	T string `json:"t"`
	V int    `json:"v"`
}

// Cell is one sparse heatmap bucket; days without events are omitted.
type Cell struct {
	D string `json:"d"`
	V int    `json:"v"`
}

// TeammateRow is a per-user placement count on the teammates leaderboard.
type TeammateRow struct {
	UserID     string `json:"userId"`
	Placements int    `json:"placements"`
}

// CompanyRow is a per-company conversion summary on the companies leaderboard.
type CompanyRow struct {
	Company       string `json:"company"`
	CVSent        int    `json:"cvSent"`
	Placements    int    `json:"placements"`
	ConversionPct int    `json:"conversionPct"`
}

// LeaderboardType selects the grouping dimension for the leaderboard.
type LeaderboardType string

// Supported leaderboard types.
const (
	LeaderboardTeammates LeaderboardType = "teammates"
	LeaderboardCompanies LeaderboardType = "companies"
)

// ParseLeaderboardType maps a query-string value to a LeaderboardType.
// An empty value defaults to teammates; unknown values report ok=false.
func ParseLeaderboardType(s string) (LeaderboardType, bool) {
	switch LeaderboardType(s) {
	case "", LeaderboardTeammates:
		return LeaderboardTeammates, true
	case LeaderboardCompanies:
		return LeaderboardCompanies, true
	default:
		return LeaderboardType(s), false
	}
}
