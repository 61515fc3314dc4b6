package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JonnyWalker81/energylog/backend/internal/analytics"
	"github.com/JonnyWalker81/energylog/backend/internal/logger"
	"github.com/JonnyWalker81/energylog/backend/internal/models"
)

type insightFixture struct {
	energy      *mockEnergyLogRepository
	sleep       *mockSleepRepository
	consumption *mockConsumptionRepository
	withdrawal  *mockWithdrawalRepository
	failures    *recordingFailures
	service     InsightService
}

func newInsightFixture() *insightFixture {
	f := &insightFixture{
		energy:      &mockEnergyLogRepository{},
		sleep:       &mockSleepRepository{},
		consumption: &mockConsumptionRepository{},
		withdrawal:  &mockWithdrawalRepository{},
		failures:    &recordingFailures{},
	}
	f.service = NewInsightService(f.energy, f.sleep, f.consumption, f.withdrawal,
		analytics.NewAnalyzer(analytics.WithClock(fixedClock)), f.failures)
	return f
}

func TestInsightService_GetInsights(t *testing.T) {
	f := newInsightFixture()
	seedLogs(f.energy, 6, 1, 5, "Exercise")
	seedLogs(f.energy, 6, 2, 3)
	f.sleep.signals = []models.SleepSignal{{Score: 90}}

	bundle, err := f.service.GetInsights(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 12, bundle.TotalEntries)
	require.Len(t, bundle.Discoveries, 1)
	assert.Equal(t, "Exercise", bundle.Discoveries[0].Factor)
	assert.Len(t, bundle.WeeklyTrend, 7)
	assert.Empty(t, f.failures.trackers)
}

func TestInsightService_EntryFetchFailureFailsRequest(t *testing.T) {
	f := newInsightFixture()
	f.energy.getErr = errors.New("connection refused")

	_, err := f.service.GetInsights(context.Background(), "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestInsightService_AdjacentFailuresFailSoft(t *testing.T) {
	f := newInsightFixture()
	seedLogs(f.energy, 3, 0, 4, analytics.GoodSleepFactor)
	seedLogs(f.energy, 3, 1, 2)
	f.sleep.err = errors.New("sleep tracker down")
	f.consumption.err = errors.New("consumption tracker down")
	f.withdrawal.err = errors.New("withdrawal tracker down")

	core, observed := observer.New(zapcore.WarnLevel)
	ctx := logger.WithLogger(context.Background(), logger.NewZapLoggerFrom(zap.New(core), logger.LevelWarn))

	bundle, err := f.service.GetInsights(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 6, bundle.TotalEntries)
	assert.Empty(t, bundle.CrossTracker.Messages())
	assert.ElementsMatch(t, []string{TrackerSleep, TrackerConsumption, TrackerWithdrawal}, f.failures.trackers)
	assert.Equal(t, 3, observed.FilterMessage("adjacent tracker unavailable, continuing without it").Len())
}

func TestInsightService_OneTrackerFailingKeepsTheOthers(t *testing.T) {
	f := newInsightFixture()
	seedLogs(f.energy, 2, 0, 5, analytics.GoodSleepFactor)
	seedLogs(f.energy, 2, 1, 2)
	f.sleep.signals = []models.SleepSignal{{Score: 80}}
	f.consumption.err = errors.New("timeout")

	bundle, err := f.service.GetInsights(context.Background(), "user-1")
	require.NoError(t, err)

	require.NotNil(t, bundle.CrossTracker.SleepInsight)
	assert.Equal(t, "After good sleep (score 75+), energy averages 5.0/5 vs 2.0/5", *bundle.CrossTracker.SleepInsight)
	assert.Equal(t, []string{TrackerConsumption}, f.failures.trackers)
}

func TestInsightService_StoredEntryInvalid(t *testing.T) {
	f := newInsightFixture()
	seedLogs(f.energy, 1, 0, 9)

	_, err := f.service.GetInsights(context.Background(), "user-1")
	assert.ErrorIs(t, err, analytics.ErrInvalidLevel)
}

func TestInsightService_GetDiscoveries(t *testing.T) {
	f := newInsightFixture()
	seedLogs(f.energy, 7, 1, 3)

	resp, err := f.service.GetDiscoveries(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, resp.Unlocked)
	assert.Equal(t, 3, resp.EntriesUntilUnlock)
	assert.Equal(t, 7, resp.TotalEntries)
	assert.NotNil(t, resp.Discoveries)
}

func TestInsightService_GetHistory(t *testing.T) {
	f := newInsightFixture()
	seedLogs(f.energy, 1, 29, 2)
	seedLogs(f.energy, 1, 0, 4)

	resp, err := f.service.GetHistory(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, resp.MonthlyTrend, 30)
	assert.Equal(t, 2.0, resp.MonthlyTrend[0].Average)
	assert.Equal(t, 4.0, resp.MonthlyTrend[29].Average)
	assert.Equal(t, 2, resp.TotalEntries)
}
