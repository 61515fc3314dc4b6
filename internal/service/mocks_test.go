package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/JonnyWalker81/energylog/backend/internal/models"
)

// fixedNow is a Saturday at noon UTC
var fixedNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// mockEnergyLogRepository is an in-memory EnergyLogRepository
type mockEnergyLogRepository struct {
	mu          sync.Mutex
	logs        []models.EnergyLog
	createCalls int
	nextID      int
	getErr      error
	createErr   error
	lastLimit   int
	lastOffset  int
}

func (m *mockEnergyLogRepository) Create(ctx context.Context, log *models.EnergyLog) (*models.EnergyLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	created := *log
	if created.ID == "" {
		m.nextID++
		created.ID = fmt.Sprintf("mock-%d", m.nextID)
	}
	m.logs = append(m.logs, created)
	return &created, nil
}

func (m *mockEnergyLogRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]models.EnergyLog, error) {
	m.mu.Lock()
	m.lastLimit, m.lastOffset = limit, offset
	m.mu.Unlock()

	all, err := m.GetAllByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *mockEnergyLogRepository) GetAllByUserID(ctx context.Context, userID string) ([]models.EnergyLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	var result []models.EnergyLog
	for i := len(m.logs) - 1; i >= 0; i-- {
		if m.logs[i].UserID == userID {
			result = append(result, m.logs[i])
		}
	}
	return result, nil
}

type mockSleepRepository struct {
	signals []models.SleepSignal
	err     error
}

func (m *mockSleepRepository) GetByUserID(ctx context.Context, userID string) ([]models.SleepSignal, error) {
	return m.signals, m.err
}

type mockConsumptionRepository struct {
	signals []models.ConsumptionSignal
	err     error
}

func (m *mockConsumptionRepository) GetByUserID(ctx context.Context, userID string) ([]models.ConsumptionSignal, error) {
	return m.signals, m.err
}

type mockWithdrawalRepository struct {
	events []models.WithdrawalEvent
	err    error
}

func (m *mockWithdrawalRepository) GetByUserID(ctx context.Context, userID string) ([]models.WithdrawalEvent, error) {
	return m.events, m.err
}

// recordingFailures counts fail-soft tracker fetches
type recordingFailures struct {
	mu       sync.Mutex
	trackers []string
}

func (r *recordingFailures) RecordAdjacentFetchFailure(tracker string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trackers = append(r.trackers, tracker)
}

// seedLogs appends n entries for user-1 logged daysAgo days before fixedNow
func seedLogs(repo *mockEnergyLogRepository, n, daysAgo, level int, factors ...string) {
	for i := 0; i < n; i++ {
		repo.logs = append(repo.logs, models.EnergyLog{
			ID:        fmt.Sprintf("seed-%d-%d-%d", daysAgo, level, len(repo.logs)),
			UserID:    "user-1",
			Timestamp: fixedNow.AddDate(0, 0, -daysAgo),
			Level:     level,
			Factors:   factors,
		})
	}
}
