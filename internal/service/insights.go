package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/JonnyWalker81/energylog/backend/internal/analytics"
	"github.com/JonnyWalker81/energylog/backend/internal/logger"
	"github.com/JonnyWalker81/energylog/backend/internal/models"
	"github.com/JonnyWalker81/energylog/backend/internal/repository"
)

// Adjacent tracker names used in logs and metrics
const (
	TrackerSleep       = "sleep"
	TrackerConsumption = "consumption"
	TrackerWithdrawal  = "withdrawal"
)

type insightService struct {
	energyRepo      repository.EnergyLogRepository
	sleepRepo       repository.SleepRepository
	consumptionRepo repository.ConsumptionRepository
	withdrawalRepo  repository.WithdrawalRepository
	analyzer        *analytics.Analyzer
	failures        FetchFailureRecorder
}

// NewInsightService creates a new insight service. failures may be nil.
func NewInsightService(
	energyRepo repository.EnergyLogRepository,
	sleepRepo repository.SleepRepository,
	consumptionRepo repository.ConsumptionRepository,
	withdrawalRepo repository.WithdrawalRepository,
	analyzer *analytics.Analyzer,
	failures FetchFailureRecorder,
) InsightService {
	return &insightService{
		energyRepo:      energyRepo,
		sleepRepo:       sleepRepo,
		consumptionRepo: consumptionRepo,
		withdrawalRepo:  withdrawalRepo,
		analyzer:        analyzer,
		failures:        failures,
	}
}

func (s *insightService) GetInsights(ctx context.Context, userID string) (*models.InsightBundle, error) {
	entries, err := s.loadEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	signals := s.fetchSignals(ctx, userID)

	return s.analyzer.Analyze(entries, signals), nil
}

func (s *insightService) GetDiscoveries(ctx context.Context, userID string) (*models.DiscoveriesResponse, error) {
	entries, err := s.loadEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.DiscoveriesResponse{
		Discoveries:        analytics.Discoveries(entries),
		Unlocked:           analytics.DiscoveriesUnlocked(entries),
		EntriesUntilUnlock: analytics.EntriesUntilUnlock(entries),
		TotalEntries:       entries.Len(),
	}, nil
}

func (s *insightService) GetHistory(ctx context.Context, userID string) (*models.HistoryResponse, error) {
	bundle, err := s.GetInsights(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.HistoryResponse{
		MonthlyTrend: bundle.MonthlyTrend,
		Discoveries:  bundle.Discoveries,
		TotalEntries: bundle.TotalEntries,
	}, nil
}

// loadEntries fetches the user's full entry history. A fetch failure fails
// the whole request; there is no partial result.
func (s *insightService) loadEntries(ctx context.Context, userID string) (*analytics.EntryCollection, error) {
	logs, err := s.energyRepo.GetAllByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch energy logs: %w", err)
	}

	entries, err := analytics.NewEntryCollection(logs)
	if err != nil {
		return nil, fmt.Errorf("stored energy logs are invalid: %w", err)
	}

	return entries, nil
}

// fetchSignals loads the three adjacent trackers concurrently. A tracker that
// cannot be fetched is logged and replaced by an empty set.
func (s *insightService) fetchSignals(ctx context.Context, userID string) models.AdjacentSignals {
	signals := models.AdjacentSignals{
		Sleep:       []models.SleepSignal{},
		Consumption: []models.ConsumptionSignal{},
		Withdrawal:  []models.WithdrawalEvent{},
	}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		if sleep, err := s.sleepRepo.GetByUserID(ctx, userID); err != nil {
			s.fetchFailed(ctx, TrackerSleep, err)
		} else if sleep != nil {
			signals.Sleep = sleep
		}
	}()

	go func() {
		defer wg.Done()
		if consumption, err := s.consumptionRepo.GetByUserID(ctx, userID); err != nil {
			s.fetchFailed(ctx, TrackerConsumption, err)
		} else if consumption != nil {
			signals.Consumption = consumption
		}
	}()

	go func() {
		defer wg.Done()
		if withdrawal, err := s.withdrawalRepo.GetByUserID(ctx, userID); err != nil {
			s.fetchFailed(ctx, TrackerWithdrawal, err)
		} else if withdrawal != nil {
			signals.Withdrawal = withdrawal
		}
	}()

	wg.Wait()
	return signals
}

func (s *insightService) fetchFailed(ctx context.Context, tracker string, err error) {
	logger.Ctx(ctx).Warn("adjacent tracker unavailable, continuing without it",
		logger.String("tracker", tracker),
		logger.Err(err),
	)
	if s.failures != nil {
		s.failures.RecordAdjacentFetchFailure(tracker)
	}
}
