package analytics

import (
	"sort"
	"time"
)

const (
	// LowEnergyThreshold is the highest daily mean that still counts as a low day
	LowEnergyThreshold = 2.0

	// LowStreakDays is the run length that raises the alert
	LowStreakDays = 5
)

// HasConsecutiveLow reports whether the most recent logged days form an
// unbroken run of at least LowStreakDays days with a mean level at or below
// LowEnergyThreshold.
//
// Only days with entries are considered, so a day without any log does not
// break the run.
func HasConsecutiveLow(c *EntryCollection, loc *time.Location) bool {
	byDay := groupByDay(c.all(), loc)

	dates := make([]string, 0, len(byDay))
	for date := range byDay {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	consecutive := 0
	for _, date := range dates {
		if meanInts(byDay[date]) > LowEnergyThreshold {
			break
		}
		consecutive++
		if consecutive >= LowStreakDays {
			return true
		}
	}

	return false
}
