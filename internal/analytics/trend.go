package analytics

import (
	"time"

	"github.com/JonnyWalker81/energylog/backend/internal/models"
)

const (
	// WeeklyTrendDays is the window of the weekly widget
	WeeklyTrendDays = 7

	// MonthlyTrendDays is the window of the history view
	MonthlyTrendDays = 30

	// WeeklyLabelLayout renders short weekday names ("Mon")
	WeeklyLabelLayout = "Mon"

	// MonthlyLabelLayout renders month and day ("Jan 2")
	MonthlyLabelLayout = "Jan 2"

	// minDaysForDirection is the number of populated days needed for a direction
	minDaysForDirection = 2
)

// DailySeries builds one TrendPoint per calendar day for the days ending at
// today (inclusive), oldest first. Days without entries get an average of 0.
func DailySeries(c *EntryCollection, today time.Time, days int, loc *time.Location, labelLayout string) []models.TrendPoint {
	if days <= 0 {
		return []models.TrendPoint{}
	}

	byDay := groupByDay(c.all(), loc)

	y, m, d := today.In(loc).Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, loc)

	points := make([]models.TrendPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i)
		key := day.Format(dateLayout)

		var avg float64
		if levels, ok := byDay[key]; ok {
			avg = round1(meanInts(levels))
		}

		points = append(points, models.TrendPoint{
			Date:    key,
			Label:   day.Format(labelLayout),
			Average: avg,
		})
	}

	return points
}

// TrendDirection compares the first and second half of the populated days.
// The first half takes the extra day when the count is odd. It returns nil
// when fewer than two days have data or the halves are equal.
func TrendDirection(points []models.TrendPoint) *models.Direction {
	withData := make([]float64, 0, len(points))
	for _, p := range points {
		if p.HasData() {
			withData = append(withData, p.Average)
		}
	}

	if len(withData) < minDaysForDirection {
		return nil
	}

	split := (len(withData) + 1) / 2
	avgFirst := mean(withData[:split])
	avgSecond := mean(withData[split:])

	var direction models.Direction
	switch {
	case avgSecond > avgFirst:
		direction = models.DirectionUp
	case avgSecond < avgFirst:
		direction = models.DirectionDown
	default:
		return nil
	}

	return &direction
}

// TodayEntries returns the entries logged on today's calendar date, newest first
func TodayEntries(c *EntryCollection, today time.Time, loc *time.Location) []models.EnergyLog {
	key := dayKey(today, loc)

	out := make([]models.EnergyLog, 0)
	for _, e := range c.Entries() {
		if dayKey(e.Timestamp, loc) == key {
			out = append(out, e)
		}
	}
	return out
}
