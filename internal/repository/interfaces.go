package repository

import (
	"context"

	"github.com/JonnyWalker81/energylog/backend/internal/models"
)

// EnergyLogRepository defines the interface for energy log data access.
// Entries are append-only: there is no update or delete.
type EnergyLogRepository interface {
	Create(ctx context.Context, log *models.EnergyLog) (*models.EnergyLog, error)
	// GetByUserID returns one page of entries, newest first
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]models.EnergyLog, error)
	// GetAllByUserID pages through every entry of the user, newest first
	GetAllByUserID(ctx context.Context, userID string) ([]models.EnergyLog, error)
}

// SleepRepository reads sleep-quality records from the sleep tracker
type SleepRepository interface {
	GetByUserID(ctx context.Context, userID string) ([]models.SleepSignal, error)
}

// ConsumptionRepository reads tobacco records from the consumption tracker
type ConsumptionRepository interface {
	GetByUserID(ctx context.Context, userID string) ([]models.ConsumptionSignal, error)
}

// WithdrawalRepository reads cessation records from the withdrawal tracker, oldest first
type WithdrawalRepository interface {
	GetByUserID(ctx context.Context, userID string) ([]models.WithdrawalEvent, error)
}
