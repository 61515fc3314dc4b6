package analytics

import (
	"time"

	"github.com/JonnyWalker81/energylog/backend/internal/logger"
	"github.com/JonnyWalker81/energylog/backend/internal/models"
)

// Observer receives the outcome of every analysis pass (e.g. for metrics)
type Observer interface {
	ObserveAnalysis(duration time.Duration, bundle *models.InsightBundle)
}

// Analyzer runs the full insight pipeline over one EntryCollection.
// It keeps only configuration, so one Analyzer may be shared across requests.
type Analyzer struct {
	location    *time.Location
	now         func() time.Time
	weeklyDays  int
	monthlyDays int
	log         logger.Logger
	observer    Observer
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithLocation sets the time zone used to derive calendar dates
func WithLocation(loc *time.Location) Option {
	return func(a *Analyzer) {
		if loc != nil {
			a.location = loc
		}
	}
}

// WithClock sets the source of "now"
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// WithWindows overrides the weekly and monthly series lengths
func WithWindows(weeklyDays, monthlyDays int) Option {
	return func(a *Analyzer) {
		if weeklyDays > 0 {
			a.weeklyDays = weeklyDays
		}
		if monthlyDays > 0 {
			a.monthlyDays = monthlyDays
		}
	}
}

// WithLogger sets the logger used for analysis summaries
func WithLogger(l logger.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.log = l
		}
	}
}

// WithObserver registers an observer notified after each pass
func WithObserver(o Observer) Option {
	return func(a *Analyzer) {
		a.observer = o
	}
}

// NewAnalyzer creates an Analyzer. Defaults: UTC, wall clock, 7/30 day windows.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		location:    time.UTC,
		now:         time.Now,
		weeklyDays:  WeeklyTrendDays,
		monthlyDays: MonthlyTrendDays,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.Default()
	}
	return a
}

// Location returns the time zone used for calendar dates
func (a *Analyzer) Location() *time.Location {
	return a.location
}

// Analyze computes the complete insight bundle for the given snapshot.
// The four analyses run independently over the same entries; the result
// depends only on the inputs and the analyzer's clock.
func (a *Analyzer) Analyze(entries *EntryCollection, signals models.AdjacentSignals) *models.InsightBundle {
	start := time.Now()
	now := a.now()

	weekly := DailySeries(entries, now, a.weeklyDays, a.location, WeeklyLabelLayout)

	bundle := &models.InsightBundle{
		Discoveries:         Discoveries(entries),
		DiscoveriesUnlocked: DiscoveriesUnlocked(entries),
		EntriesUntilUnlock:  EntriesUntilUnlock(entries),
		TodayEntries:        TodayEntries(entries, now, a.location),
		WeeklyTrend:         weekly,
		TrendDirection:      TrendDirection(weekly),
		MonthlyTrend:        DailySeries(entries, now, a.monthlyDays, a.location, MonthlyLabelLayout),
		CrossTracker:        CrossTracker(entries, signals, now, a.location),
		HasConsecutiveLow:   HasConsecutiveLow(entries, a.location),
		TotalEntries:        entries.Len(),
		AsOf:                dayKey(now, a.location),
	}

	elapsed := time.Since(start)

	a.log.Debug("energy analysis completed",
		logger.Int("total_entries", bundle.TotalEntries),
		logger.Int("discoveries", len(bundle.Discoveries)),
		logger.Int("cross_tracker_insights", len(bundle.CrossTracker.Messages())),
		logger.Bool("has_consecutive_low", bundle.HasConsecutiveLow),
		logger.Duration("duration", elapsed),
	)

	if a.observer != nil {
		a.observer.ObserveAnalysis(elapsed, bundle)
	}

	return bundle
}
