package models

import "time"

// Energy level bounds
const (
	MinEnergyLevel = 1
	MaxEnergyLevel = 5
)

// EnergyLog is a single energy entry. Entries are append-only.
type EnergyLog struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Level     int       `json:"level"`
	Factors   []string  `json:"factors"`
}

// HasFactor reports whether the entry carries the given tag
func (e EnergyLog) HasFactor(factor string) bool {
	for _, f := range e.Factors {
		if f == factor {
			return true
		}
	}
	return false
}

// SleepSignal is a sleep-quality record from the sleep tracker
type SleepSignal struct {
	Score float64 `json:"score"`
}

// ConsumptionSignal is a tobacco/consumption record from the consumption tracker
type ConsumptionSignal struct {
	Timestamp time.Time `json:"timestamp"`
}

// WithdrawalEvent is a cessation record from the withdrawal tracker
type WithdrawalEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// AdjacentSignals bundles the snapshots of the three adjacent trackers.
// A tracker that could not be fetched is represented by an empty slice.
type AdjacentSignals struct {
	Sleep       []SleepSignal       `json:"sleep"`
	Consumption []ConsumptionSignal `json:"consumption"`
	Withdrawal  []WithdrawalEvent   `json:"withdrawal"`
}

// CreateEnergyLogRequest represents the request to log an energy level
type CreateEnergyLogRequest struct {
	ID        *string    `json:"id"`
	Level     int        `json:"level" binding:"required,min=1,max=5"`
	Factors   []string   `json:"factors" binding:"omitempty,max=20,dive,max=64"`
	Timestamp *time.Time `json:"timestamp"`
}

// CreateEnergyLogResponse is returned after an entry has been appended.
// The bundle is recomputed from a fresh fetch that includes the new entry.
type CreateEnergyLogResponse struct {
	Entry    EnergyLog      `json:"entry"`
	Insights *InsightBundle `json:"insights,omitempty"`
}

// AnalysisSnapshot is the offline input format for the analyze command
type AnalysisSnapshot struct {
	Entries []EnergyLog     `json:"entries"`
	Signals AdjacentSignals `json:"signals"`
}
