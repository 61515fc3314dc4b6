package service

import (
	"context"

	"github.com/JonnyWalker81/energylog/backend/internal/models"
)

// EnergyLogService defines the interface for energy log business logic
type EnergyLogService interface {
	// LogEnergy appends an entry and returns it with the recomputed insights
	LogEnergy(ctx context.Context, userID string, req *models.CreateEnergyLogRequest) (*models.CreateEnergyLogResponse, error)
	GetUserLogs(ctx context.Context, userID string, limit, offset int) ([]models.EnergyLog, error)
}

// InsightService defines the interface for insight business logic.
// Every call recomputes from a fresh snapshot; nothing is cached.
type InsightService interface {
	GetInsights(ctx context.Context, userID string) (*models.InsightBundle, error)
	GetDiscoveries(ctx context.Context, userID string) (*models.DiscoveriesResponse, error)
	GetHistory(ctx context.Context, userID string) (*models.HistoryResponse, error)
}

// FetchFailureRecorder counts adjacent-tracker fetches that failed soft
type FetchFailureRecorder interface {
	RecordAdjacentFetchFailure(tracker string)
}
