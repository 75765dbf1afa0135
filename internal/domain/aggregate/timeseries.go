// Package aggregate turns raw event rows into dashboard-shaped summaries.
// Every function here is a pure, stateless reduction over its input; the
// same events and parameters always produce the same output.
package aggregate

import (
	"time"

	"github.com/hirewire/pulse/internal/domain/model"
	"github.com/hirewire/pulse/internal/domain/types"
)

// Timeseries buckets events into one point per UTC calendar day, starting
// at start and covering days consecutive days. Every day in range appears
// in the output with an explicit zero so consumers can assume a
// fixed-length, ascending series. Events outside the range are ignored.
func Timeseries(events []model.Event, start time.Time, days int) []types.Point {
	if days <= 0 {
		return []types.Point{}
	}

	keys := make([]string, 0, days)
	counts := make(map[string]int, days)
	day := start.UTC().Truncate(24 * time.Hour)
	for i := 0; i < days; i++ {
		k := day.Format(types.DayFormat)
		keys = append(keys, k)
		counts[k] = 0
		day = day.AddDate(0, 0, 1)
	}

	for _, e := range events {
		k := e.TS.UTC().Format(types.DayFormat)
		if _, ok := counts[k]; ok {
			counts[k]++
		}
	}

	points := make([]types.Point, 0, days)
	for _, k := range keys {
		points = append(points, types.Point{T: k, V: counts[k]})
	}
	return points
}
