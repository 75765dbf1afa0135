package aggregate

import (
	"sort"

	"github.com/hirewire/pulse/internal/domain/model"
	"github.com/hirewire/pulse/internal/domain/types"
)

// Heatmap buckets events into per-UTC-day cells. Unlike Timeseries there
// is no zero-fill: only days with at least one event appear, sorted by
// date ascending.
func Heatmap(events []model.Event) []types.Cell {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.TS.UTC().Format(types.DayFormat)]++
	}

	cells := make([]types.Cell, 0, len(counts))
	for d, v := range counts {
		cells = append(cells, types.Cell{D: d, V: v})
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].D < cells[j].D })
	return cells
}
