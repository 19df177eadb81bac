package tracking

import (
	"sort"

	"github.com/resolvely/resolution-tracker/internal/models"
)

// Streak computes the consecutive-day streak ending on today. Entries are
// walked in descending date order from today; the walk stops at the first
// gap. Entries dated after today are skipped over without breaking the
// streak.
func Streak(entries []models.ProgressEntry, today string) int {
	sorted := make([]models.ProgressEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})

	streak := 0
	expected := today
	for _, entry := range sorted {
		if entry.Date == expected {
			streak++
			expected = nextDate(expected, -1)
		} else if entry.Date < expected {
			break
		}
	}
	return streak
}
