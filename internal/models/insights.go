package models

// Direction represents the direction of a correlation or trend
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Discovery is a tag whose presence shifts the average energy level by more
// than the relative-deviation threshold.
type Discovery struct {
	Factor     string    `json:"factor"`
	Percentage int       `json:"percentage"` // absolute, rounded
	Direction  Direction `json:"direction"`
	AvgWith    float64   `json:"avg_with"`    // 1 decimal
	AvgWithout float64   `json:"avg_without"` // 1 decimal
	SampleSize int       `json:"sample_size"` // entries carrying the factor
}

// TrendPoint is one calendar day of a rolling daily-average series.
// An Average of 0 means no entries were logged that day.
type TrendPoint struct {
	Date    string  `json:"date"`  // YYYY-MM-DD
	Label   string  `json:"label"` // "Mon" or "Jan 2"
	Average float64 `json:"avg"`
}

// HasData reports whether the day has at least one entry
func (p TrendPoint) HasData() bool {
	return p.Average > 0
}

// CrossTrackerInsights holds the optional messages derived from adjacent trackers
type CrossTrackerInsights struct {
	SleepInsight       *string `json:"sleep_insight,omitempty"`
	ConsumptionInsight *string `json:"consumption_insight,omitempty"`
	WithdrawalInsight  *string `json:"withdrawal_insight,omitempty"`
}

// Messages returns the present insights in display order
func (c CrossTrackerInsights) Messages() []string {
	out := make([]string, 0, 3)
	for _, m := range []*string{c.SleepInsight, c.ConsumptionInsight, c.WithdrawalInsight} {
		if m != nil {
			out = append(out, *m)
		}
	}
	return out
}

// InsightBundle is the complete result of one analysis pass
type InsightBundle struct {
	Discoveries         []Discovery          `json:"discoveries"`
	DiscoveriesUnlocked bool                 `json:"discoveries_unlocked"`
	EntriesUntilUnlock  int                  `json:"entries_until_unlock"`
	TodayEntries        []EnergyLog          `json:"today_entries"`
	WeeklyTrend         []TrendPoint         `json:"weekly_trend"`
	TrendDirection      *Direction           `json:"trend_direction"`
	MonthlyTrend        []TrendPoint         `json:"monthly_trend"`
	CrossTracker        CrossTrackerInsights `json:"cross_tracker"`
	HasConsecutiveLow   bool                 `json:"has_consecutive_low"`
	TotalEntries        int                  `json:"total_entries"`
	AsOf                string               `json:"as_of"` // calendar date the series end on
}

// DiscoveriesResponse is the API response for the discoveries widget
type DiscoveriesResponse struct {
	Discoveries        []Discovery `json:"discoveries"`
	Unlocked           bool        `json:"unlocked"`
	EntriesUntilUnlock int         `json:"entries_until_unlock"`
	TotalEntries       int         `json:"total_entries"`
}

// HistoryResponse is the API response for the history view
type HistoryResponse struct {
	MonthlyTrend []TrendPoint `json:"monthly_trend"`
	Discoveries  []Discovery  `json:"discoveries"`
	TotalEntries int          `json:"total_entries"`
}
