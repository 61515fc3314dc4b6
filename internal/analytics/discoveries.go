package analytics

import (
	"math"
	"sort"

	"github.com/JonnyWalker81/energylog/backend/internal/models"
)

const (
	// MinEntriesForDiscoveries is the global gate; below it discoveries stay locked
	MinEntriesForDiscoveries = 10

	// MinFactorSampleSize is the smallest qualifying "with factor" partition
	MinFactorSampleSize = 6

	// DiscoveryThresholdPercent is the relative deviation a factor must exceed
	DiscoveryThresholdPercent = 15.0

	// MaxDiscoveries caps the number of discoveries returned
	MaxDiscoveries = 4
)

// Discoveries correlates the presence of each tag with the energy level.
// It returns at most MaxDiscoveries results, strongest first, ties broken by
// factor name.
func Discoveries(c *EntryCollection) []models.Discovery {
	results := make([]models.Discovery, 0, MaxDiscoveries)

	entries := c.all()
	if len(entries) < MinEntriesForDiscoveries {
		return results
	}

	for _, factor := range distinctFactors(entries) {
		d, ok := correlateFactor(entries, factor)
		if !ok {
			continue
		}
		results = append(results, d)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Percentage != results[j].Percentage {
			return results[i].Percentage > results[j].Percentage
		}
		return results[i].Factor < results[j].Factor
	})

	if len(results) > MaxDiscoveries {
		results = results[:MaxDiscoveries]
	}

	return results
}

// DiscoveriesUnlocked reports whether enough entries exist to compute discoveries
func DiscoveriesUnlocked(c *EntryCollection) bool {
	return c.Len() >= MinEntriesForDiscoveries
}

// EntriesUntilUnlock returns how many more entries are needed before discoveries unlock
func EntriesUntilUnlock(c *EntryCollection) int {
	remaining := MinEntriesForDiscoveries - c.Len()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// correlateFactor computes the discovery for a single factor, if it qualifies
func correlateFactor(entries []models.EnergyLog, factor string) (models.Discovery, bool) {
	withFactor := make([]models.EnergyLog, 0)
	withoutFactor := make([]models.EnergyLog, 0)
	for _, e := range entries {
		if e.HasFactor(factor) {
			withFactor = append(withFactor, e)
		} else {
			withoutFactor = append(withoutFactor, e)
		}
	}

	if len(withFactor) < MinFactorSampleSize || len(withoutFactor) == 0 {
		return models.Discovery{}, false
	}

	avgWith := meanLevel(withFactor)
	avgWithout := meanLevel(withoutFactor)
	if avgWithout == 0 {
		return models.Discovery{}, false
	}

	percentage := (avgWith - avgWithout) / avgWithout * 100
	if math.Abs(percentage) <= DiscoveryThresholdPercent {
		return models.Discovery{}, false
	}

	direction := models.DirectionDown
	if percentage > 0 {
		direction = models.DirectionUp
	}

	return models.Discovery{
		Factor:     factor,
		Percentage: int(math.Round(math.Abs(percentage))),
		Direction:  direction,
		AvgWith:    round1(avgWith),
		AvgWithout: round1(avgWithout),
		SampleSize: len(withFactor),
	}, true
}

// distinctFactors collects every tag observed across entries, sorted
func distinctFactors(entries []models.EnergyLog) []string {
	seen := make(map[string]struct{})
	for _, e := range entries {
		for _, f := range e.Factors {
			seen[f] = struct{}{}
		}
	}

	factors := make([]string, 0, len(seen))
	for f := range seen {
		factors = append(factors, f)
	}
	sort.Strings(factors)

	return factors
}
