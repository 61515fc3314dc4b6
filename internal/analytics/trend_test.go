package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/energylog/backend/internal/models"
)

// weeklyFromLevels builds a series from per-day levels, one entry per day.
// levels[i] is the level logged i days into the window (0 = no entry).
func weeklyFromLevels(t *testing.T, levels ...int) []models.TrendPoint {
	t.Helper()
	var entries []models.EnergyLog
	for i, level := range levels {
		if level == 0 {
			continue
		}
		entries = append(entries, entryAt(len(levels)-1-i, level))
	}
	return DailySeries(mustCollection(t, entries...), testNow, len(levels), time.UTC, WeeklyLabelLayout)
}

func TestDailySeries_Weekly(t *testing.T) {
	c := mustCollection(t,
		entryAt(0, 4), entryAt(0, 5), entryAt(0, 5),
		entryAt(2, 3),
		entryAt(8, 1), // outside the window
	)

	points := DailySeries(c, testNow, WeeklyTrendDays, time.UTC, WeeklyLabelLayout)
	require.Len(t, points, 7)

	assert.Equal(t, "2025-03-09", points[0].Date)
	assert.Equal(t, "Sun", points[0].Label)
	assert.Equal(t, "2025-03-15", points[6].Date)
	assert.Equal(t, "Sat", points[6].Label)

	assert.Equal(t, 4.7, points[6].Average)
	assert.Equal(t, 3.0, points[4].Average)
	for _, i := range []int{0, 1, 2, 3, 5} {
		assert.Equal(t, 0.0, points[i].Average, "day %d should carry the no-data sentinel", i)
		assert.False(t, points[i].HasData())
	}
}

func TestDailySeries_Monthly(t *testing.T) {
	c := mustCollection(t, entryAt(29, 2), entryAt(30, 5))

	points := DailySeries(c, testNow, MonthlyTrendDays, time.UTC, MonthlyLabelLayout)
	require.Len(t, points, 30)

	assert.Equal(t, "2025-02-14", points[0].Date)
	assert.Equal(t, "Feb 14", points[0].Label)
	assert.Equal(t, 2.0, points[0].Average)
	assert.Equal(t, "Mar 15", points[29].Label)
}

func TestDailySeries_UsesConfiguredLocation(t *testing.T) {
	tokyo := time.FixedZone("UTC+9", 9*60*60)

	c := mustCollection(t,
		models.EnergyLog{Timestamp: time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC), Level: 5}, // 05:00 on the 15th in Tokyo
		models.EnergyLog{Timestamp: time.Date(2025, 3, 15, 16, 0, 0, 0, time.UTC), Level: 1}, // 01:00 on the 16th in Tokyo
	)

	// testNow is 21:00 on the 15th in Tokyo
	points := DailySeries(c, testNow, 2, tokyo, WeeklyLabelLayout)
	require.Len(t, points, 2)
	assert.Equal(t, "2025-03-15", points[1].Date)
	assert.Equal(t, 5.0, points[1].Average)
	assert.Equal(t, 0.0, points[0].Average)

	today := TodayEntries(c, testNow, tokyo)
	require.Len(t, today, 1)
	assert.Equal(t, 5, today[0].Level)

	utcPoints := DailySeries(c, testNow, 2, time.UTC, WeeklyLabelLayout)
	assert.Equal(t, 5.0, utcPoints[0].Average)
	assert.Equal(t, 1.0, utcPoints[1].Average)
}

func TestDailySeries_NonPositiveWindow(t *testing.T) {
	assert.Empty(t, DailySeries(mustCollection(t, entryAt(0, 3)), testNow, 0, time.UTC, WeeklyLabelLayout))
}

func TestTrendDirection(t *testing.T) {
	up := models.DirectionUp
	down := models.DirectionDown

	tests := []struct {
		name   string
		levels []int
		want   *models.Direction
	}{
		{
			name:   "no data",
			levels: []int{0, 0, 0, 0, 0, 0, 0},
			want:   nil,
		},
		{
			name:   "single populated day",
			levels: []int{0, 0, 0, 4, 0, 0, 0},
			want:   nil,
		},
		{
			name:   "low first days then high",
			levels: []int{2, 2, 2, 4, 4, 4, 4},
			want:   &up,
		},
		{
			name:   "high first days then low",
			levels: []int{5, 5, 4, 4, 1, 1, 1},
			want:   &down,
		},
		{
			name: "odd count puts the extra day in the first half",
			// populated {1,1,5,2,2}: ceil split 2.33 vs 2.0 is down, a floor split would be up
			levels: []int{0, 1, 1, 5, 0, 2, 2},
			want:   &down,
		},
		{
			name:   "equal halves",
			levels: []int{3, 0, 0, 0, 0, 0, 3},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrendDirection(weeklyFromLevels(t, tt.levels...))
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestTodayEntries(t *testing.T) {
	c := mustCollection(t, entryAt(0, 2), entryAt(1, 4), entryAt(0, 5))

	today := TodayEntries(c, testNow, time.UTC)
	require.Len(t, today, 2)
	for _, e := range today {
		assert.Equal(t, "2025-03-15", e.Timestamp.Format("2006-01-02"))
	}

	assert.Empty(t, TodayEntries(mustCollection(t, entryAt(3, 3)), testNow, time.UTC))
}
