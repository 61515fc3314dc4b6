// Package metrics exposes Prometheus instrumentation for the insight pipeline.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JonnyWalker81/energylog/backend/internal/models"
)

const namespace = "energylog"

// Recorder implements analytics.Observer and service.FetchFailureRecorder
type Recorder struct {
	analyses         prometheus.Counter
	duration         prometheus.Histogram
	discoveries      prometheus.Histogram
	fetchFailures    *prometheus.CounterVec
	lowStreakAlerts  prometheus.Counter
	crossTrackerHits *prometheus.CounterVec
}

var (
	defaultRecorder *Recorder
	defaultOnce     sync.Once
)

// Default returns the process-wide recorder registered with the default
// Prometheus registry. Registration happens once.
func Default() *Recorder {
	defaultOnce.Do(func() {
		defaultRecorder = NewRecorder(prometheus.DefaultRegisterer)
	})
	return defaultRecorder
}

// NewRecorder creates a recorder whose collectors are registered with reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		analyses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Total number of insight bundles computed",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Duration of one analysis pass in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		discoveries: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "discoveries_emitted",
			Help:      "Number of discoveries per insight bundle",
			Buckets:   []float64{0, 1, 2, 3, 4},
		}),
		fetchFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adjacent_fetch_failures_total",
			Help:      "Adjacent tracker fetches that failed and were replaced by an empty set",
		}, []string{"tracker"}),
		lowStreakAlerts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "low_streak_alerts_total",
			Help:      "Insight bundles that raised the consecutive low energy alert",
		}),
		crossTrackerHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cross_tracker_insights_total",
			Help:      "Cross-tracker insights produced, by tracker",
		}, []string{"tracker"}),
	}
}

// ObserveAnalysis records one analysis pass
func (r *Recorder) ObserveAnalysis(duration time.Duration, bundle *models.InsightBundle) {
	r.analyses.Inc()
	r.duration.Observe(duration.Seconds())
	if bundle == nil {
		return
	}

	r.discoveries.Observe(float64(len(bundle.Discoveries)))
	if bundle.HasConsecutiveLow {
		r.lowStreakAlerts.Inc()
	}
	if bundle.CrossTracker.SleepInsight != nil {
		r.crossTrackerHits.WithLabelValues("sleep").Inc()
	}
	if bundle.CrossTracker.ConsumptionInsight != nil {
		r.crossTrackerHits.WithLabelValues("consumption").Inc()
	}
	if bundle.CrossTracker.WithdrawalInsight != nil {
		r.crossTrackerHits.WithLabelValues("withdrawal").Inc()
	}
}

// RecordAdjacentFetchFailure counts a fail-soft tracker fetch
func (r *Recorder) RecordAdjacentFetchFailure(tracker string) {
	r.fetchFailures.WithLabelValues(tracker).Inc()
}
