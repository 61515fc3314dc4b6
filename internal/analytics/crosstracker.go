package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/JonnyWalker81/energylog/backend/internal/models"
)

const (
	// GoodSleepScore is the minimum sleep score that counts as good sleep
	GoodSleepScore = 75.0

	// GoodSleepFactor is the entry tag compared against the sleep tracker
	GoodSleepFactor = "Good sleep"

	// WithdrawalWindow is the length of the early and recent cessation windows
	WithdrawalWindow = 7 * 24 * time.Hour

	// minWithdrawalEvents is the number of cessation records needed for an insight
	minWithdrawalEvents = 2
)

// CrossTracker runs the three adjacent-tracker analyses independently.
// Each one contributes nothing when its data is empty or insufficient.
func CrossTracker(c *EntryCollection, signals models.AdjacentSignals, now time.Time, loc *time.Location) models.CrossTrackerInsights {
	return models.CrossTrackerInsights{
		SleepInsight:       SleepInsight(c, signals.Sleep),
		ConsumptionInsight: ConsumptionInsight(c, signals.Consumption, loc),
		WithdrawalInsight:  WithdrawalInsight(c, signals.Withdrawal, now),
	}
}

// SleepInsight compares entries tagged "Good sleep" against entries without
// the tag. The sleep tracker only acts as a gate: any record scoring at least
// GoodSleepScore enables the comparison. Scores are not aligned to entry dates.
func SleepInsight(c *EntryCollection, sleep []models.SleepSignal) *string {
	if len(sleep) == 0 {
		return nil
	}

	hasGoodSleep := false
	for _, s := range sleep {
		if s.Score >= GoodSleepScore {
			hasGoodSleep = true
			break
		}
	}

	var good, other []models.EnergyLog
	for _, e := range c.all() {
		tagged := e.HasFactor(GoodSleepFactor)
		if tagged && hasGoodSleep {
			good = append(good, e)
		}
		if !tagged {
			other = append(other, e)
		}
	}

	if len(good) == 0 || len(other) == 0 {
		return nil
	}

	msg := fmt.Sprintf("After good sleep (score %d+), energy averages %.1f/5 vs %.1f/5",
		int(GoodSleepScore), meanLevel(good), meanLevel(other))
	return &msg
}

// ConsumptionInsight reports how much lower energy is on days with a
// consumption record. It never reports the reverse direction.
func ConsumptionInsight(c *EntryCollection, consumption []models.ConsumptionSignal, loc *time.Location) *string {
	if len(consumption) == 0 {
		return nil
	}

	tobaccoDays := make(map[string]struct{}, len(consumption))
	for _, s := range consumption {
		if s.Timestamp.IsZero() {
			continue
		}
		tobaccoDays[dayKey(s.Timestamp, loc)] = struct{}{}
	}

	var with, without []models.EnergyLog
	for _, e := range c.all() {
		if _, ok := tobaccoDays[dayKey(e.Timestamp, loc)]; ok {
			with = append(with, e)
		} else {
			without = append(without, e)
		}
	}

	if len(with) == 0 || len(without) == 0 {
		return nil
	}

	avgWith := meanLevel(with)
	if avgWith == 0 {
		return nil
	}
	pct := int(math.Round((meanLevel(without) - avgWith) / avgWith * 100))
	if pct <= 0 {
		return nil
	}

	msg := fmt.Sprintf("Your energy is %d%% lower on days you log tobacco use", pct)
	return &msg
}

// WithdrawalInsight compares the first week after the earliest cessation
// record with the trailing week ending at now. It only reports improvement.
func WithdrawalInsight(c *EntryCollection, events []models.WithdrawalEvent, now time.Time) *string {
	if len(events) < minWithdrawalEvents {
		return nil
	}

	ordered := make([]models.WithdrawalEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})
	start := ordered[0].Timestamp

	var early, recent []models.EnergyLog
	for _, e := range c.all() {
		sinceStart := e.Timestamp.Sub(start)
		if sinceStart >= 0 && sinceStart < WithdrawalWindow {
			early = append(early, e)
		}
		if now.Sub(e.Timestamp) < WithdrawalWindow {
			recent = append(recent, e)
		}
	}

	if len(early) == 0 || len(recent) == 0 {
		return nil
	}

	avgEarly := meanLevel(early)
	if avgEarly == 0 {
		return nil
	}
	pct := int(math.Round((meanLevel(recent) - avgEarly) / avgEarly * 100))
	if pct <= 0 {
		return nil
	}

	msg := fmt.Sprintf("Average energy has increased %d%% since day 1 of cessation", pct)
	return &msg
}
