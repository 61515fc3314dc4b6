// Package analytics computes energy insights from a snapshot of a user's
// energy log entries and adjacent-tracker signals.
//
// Every function in this package is a pure, synchronous transformation of its
// inputs. Nothing here fetches, caches or persists data; callers re-run the
// analysis whenever the underlying entries change.
package analytics

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/JonnyWalker81/energylog/backend/internal/models"
)

var (
	// ErrInvalidLevel indicates an entry level outside 1..5
	ErrInvalidLevel = errors.New("energy level must be between 1 and 5")
	// ErrMissingTimestamp indicates an entry without a timestamp
	ErrMissingTimestamp = errors.New("energy log timestamp is required")
)

// dateLayout is the calendar-day key used for all bucketing
const dateLayout = "2006-01-02"

// EntryCollection is the validated, immutable working set of one user's
// energy entries, ordered newest first.
type EntryCollection struct {
	entries []models.EnergyLog
}

// NewEntryCollection validates and copies entries into a collection.
// Malformed entries are rejected rather than computed over.
func NewEntryCollection(entries []models.EnergyLog) (*EntryCollection, error) {
	copied := make([]models.EnergyLog, 0, len(entries))
	for i, e := range entries {
		if e.Level < models.MinEnergyLevel || e.Level > models.MaxEnergyLevel {
			return nil, fmt.Errorf("entry %d: %w: got %d", i, ErrInvalidLevel, e.Level)
		}
		if e.Timestamp.IsZero() {
			return nil, fmt.Errorf("entry %d: %w", i, ErrMissingTimestamp)
		}

		e.Timestamp = e.Timestamp.UTC()
		e.Factors = uniqueFactors(e.Factors)
		copied = append(copied, e)
	}

	// Newest first; ties keep caller order so the result stays reproducible
	sort.SliceStable(copied, func(i, j int) bool {
		return copied[i].Timestamp.After(copied[j].Timestamp)
	})

	return &EntryCollection{entries: copied}, nil
}

// Len returns the number of entries
func (c *EntryCollection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns a copy of the entries, newest first
func (c *EntryCollection) Entries() []models.EnergyLog {
	if c == nil {
		return []models.EnergyLog{}
	}
	out := make([]models.EnergyLog, len(c.entries))
	for i, e := range c.entries {
		factors := make([]string, len(e.Factors))
		copy(factors, e.Factors)
		e.Factors = factors
		out[i] = e
	}
	return out
}

// all exposes the backing slice to the analyses in this package, which only read it
func (c *EntryCollection) all() []models.EnergyLog {
	if c == nil {
		return nil
	}
	return c.entries
}

// uniqueFactors drops duplicate tags while keeping first-seen order
func uniqueFactors(factors []string) []string {
	out := make([]string, 0, len(factors))
	seen := make(map[string]struct{}, len(factors))
	for _, f := range factors {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// =============================================================================
// Helpers
// =============================================================================

// dayKey returns the calendar date of t in loc
func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

// meanLevel returns the arithmetic mean level of entries. Callers must not pass an empty slice.
func meanLevel(entries []models.EnergyLog) float64 {
	var sum int
	for _, e := range entries {
		sum += e.Level
	}
	return float64(sum) / float64(len(entries))
}

// mean returns the arithmetic mean of values, or 0 for an empty slice
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// round1 rounds to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// groupByDay buckets entry levels by calendar date in loc
func groupByDay(entries []models.EnergyLog, loc *time.Location) map[string][]int {
	days := make(map[string][]int)
	for _, e := range entries {
		key := dayKey(e.Timestamp, loc)
		days[key] = append(days[key], e.Level)
	}
	return days
}

// meanInts returns the mean of levels, or 0 for an empty slice
func meanInts(levels []int) float64 {
	if len(levels) == 0 {
		return 0
	}
	var sum int
	for _, l := range levels {
		sum += l
	}
	return float64(sum) / float64(len(levels))
}
