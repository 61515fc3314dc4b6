package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/energylog/backend/internal/analytics"
	"github.com/JonnyWalker81/energylog/backend/internal/models"
)

func testAnalyzer() *analytics.Analyzer {
	now := time.Date(2025, 3, 15, 18, 0, 0, 0, time.UTC)
	return analytics.NewAnalyzer(analytics.WithClock(func() time.Time { return now }))
}

func TestAnalyzeSnapshot(t *testing.T) {
	snapshot := `{
		"entries": [
			{"id": "a", "timestamp": "2025-03-15T09:00:00Z", "level": 4, "factors": ["Coffee"]},
			{"id": "b", "timestamp": "2025-03-14T09:00:00Z", "level": 2, "factors": []}
		],
		"signals": {"consumption": [{"timestamp": "2025-03-14T08:00:00Z"}]}
	}`

	var out bytes.Buffer
	require.NoError(t, analyzeSnapshot(strings.NewReader(snapshot), &out, testAnalyzer()))

	var bundle models.InsightBundle
	require.NoError(t, json.Unmarshal(out.Bytes(), &bundle))

	assert.Equal(t, 2, bundle.TotalEntries)
	assert.Equal(t, "2025-03-15", bundle.AsOf)
	assert.False(t, bundle.DiscoveriesUnlocked)
	assert.Equal(t, 8, bundle.EntriesUntilUnlock)
	require.Len(t, bundle.TodayEntries, 1)
	assert.Equal(t, "a", bundle.TodayEntries[0].ID)
	assert.Len(t, bundle.WeeklyTrend, 7)
	assert.Len(t, bundle.MonthlyTrend, 30)
}

func TestAnalyzeSnapshot_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "malformed json", input: `{"entries": [`, wantErr: "failed to decode snapshot"},
		{name: "level out of range", input: `{"entries": [{"timestamp": "2025-03-15T09:00:00Z", "level": 9}]}`, wantErr: "invalid snapshot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := analyzeSnapshot(strings.NewReader(tt.input), &out, testAnalyzer())
			assert.ErrorContains(t, err, tt.wantErr)
			assert.Zero(t, out.Len())
		})
	}
}
