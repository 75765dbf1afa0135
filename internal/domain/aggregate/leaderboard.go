package aggregate

import (
	"math"
	"sort"

	"github.com/hirewire/pulse/internal/domain/model"
	"github.com/hirewire/pulse/internal/domain/types"
)

// Pagination bounds shared by both leaderboard modes.
const (
	minLimit = 1
	maxLimit = 100
)

// ClampPage normalizes leaderboard pagination: limit is clamped to
// [1,100] and offset to >= 0.
func ClampPage(limit, offset int) (int, int) {
	if limit < minLimit {
		limit = minLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Teammates groups placement events by user, counts per group, and
// returns the requested page sorted by count descending (user id
// ascending on ties, for stable output). Events without a user
// dimension are skipped. The returned total is the full group count
// before slicing.
func Teammates(events []model.Event, limit, offset int) ([]types.TeammateRow, int) {
	limit, offset = ClampPage(limit, offset)

	counts := make(map[string]int)
	for _, e := range events {
		if e.UserID == "" {
			continue
		}
		counts[e.UserID]++
	}

	rows := make([]types.TeammateRow, 0, len(counts))
	for id, n := range counts {
		rows = append(rows, types.TeammateRow{UserID: id, Placements: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Placements != rows[j].Placements {
			return rows[i].Placements > rows[j].Placements
		}
		return rows[i].UserID < rows[j].UserID
	})

	total := len(rows)
	return page(rows, limit, offset), total
}

// Companies builds per-company conversion rows from two independent
// event sets: cv_sent events and placement events. The conversion
// percentage is round(placements/cvSent*100) and defined as 0 when a
// company has no cv_sent events; that zero is a policy choice to avoid
// division by zero, not a "no data" signal. Rows sort by conversion
// percentage descending, tie-broken by placement count descending then
// company name ascending. Events without a company dimension are
// skipped. The returned total is the full group count before slicing.
func Companies(cvSent, placements []model.Event, limit, offset int) ([]types.CompanyRow, int) {
	limit, offset = ClampPage(limit, offset)

	sent := make(map[string]int)
	for _, e := range cvSent {
		if e.Company == "" {
			continue
		}
		sent[e.Company]++
	}
	placed := make(map[string]int)
	for _, e := range placements {
		if e.Company == "" {
			continue
		}
		placed[e.Company]++
	}

	names := make(map[string]struct{}, len(sent)+len(placed))
	for c := range sent {
		names[c] = struct{}{}
	}
	for c := range placed {
		names[c] = struct{}{}
	}

	rows := make([]types.CompanyRow, 0, len(names))
	for c := range names {
		row := types.CompanyRow{Company: c, CVSent: sent[c], Placements: placed[c]}
		if row.CVSent > 0 {
			row.ConversionPct = int(math.Round(float64(row.Placements) / float64(row.CVSent) * 100))
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ConversionPct != rows[j].ConversionPct {
			return rows[i].ConversionPct > rows[j].ConversionPct
		}
		if rows[i].Placements != rows[j].Placements {
			return rows[i].Placements > rows[j].Placements
		}
		return rows[i].Company < rows[j].Company
	})

	total := len(rows)
	return page(rows, limit, offset), total
}

// page slices rows by a clamped (limit, offset) pair.
func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}
