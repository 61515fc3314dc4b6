package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/JonnyWalker81/energylog/backend/internal/models"
	"github.com/JonnyWalker81/energylog/backend/pkg/supabase"
)

const (
	energyLogsTable = "energy_logs"

	// pageSize matches the PostgREST max-rows default of a Supabase project
	pageSize = 1000
)

// ErrDuplicateEntry indicates an entry with the same ID already exists
var ErrDuplicateEntry = errors.New("energy log already exists")

type energyLogRepository struct {
	client *supabase.Client
}

// NewEnergyLogRepository creates a new energy log repository
func NewEnergyLogRepository(client *supabase.Client) EnergyLogRepository {
	return &energyLogRepository{client: client}
}

func (r *energyLogRepository) Create(ctx context.Context, log *models.EnergyLog) (*models.EnergyLog, error) {
	factors := log.Factors
	if factors == nil {
		// factors column is NOT NULL
		factors = []string{}
	}

	data := map[string]interface{}{
		"user_id":   log.UserID,
		"timestamp": log.Timestamp,
		"level":     log.Level,
		"factors":   factors,
	}

	// Use client-provided ID if present (offline-first clients mint UUIDv7)
	if log.ID != "" {
		data["id"] = log.ID
	}

	body, err := r.client.Insert(ctx, energyLogsTable, data)
	if err != nil {
		var sbErr *supabase.Error
		if errors.As(err, &sbErr) && sbErr.StatusCode == http.StatusConflict {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEntry, log.ID)
		}
		return nil, fmt.Errorf("failed to create energy log: %w", err)
	}

	var logs []models.EnergyLog
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(logs) == 0 {
		return nil, fmt.Errorf("no energy log returned")
	}

	return &logs[0], nil
}

func (r *energyLogRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]models.EnergyLog, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"order":   "timestamp.desc",
		"limit":   limit,
		"offset":  offset,
	}

	body, err := r.client.Query(ctx, energyLogsTable, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get energy logs: %w", err)
	}

	var logs []models.EnergyLog
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return logs, nil
}

func (r *energyLogRepository) GetAllByUserID(ctx context.Context, userID string) ([]models.EnergyLog, error) {
	all := make([]models.EnergyLog, 0)
	for offset := 0; ; offset += pageSize {
		page, err := r.GetByUserID(ctx, userID, pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}
