package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JonnyWalker81/energylog/backend/internal/models"
	"github.com/JonnyWalker81/energylog/backend/pkg/supabase"
)

// Adjacent tracker tables
const (
	sleepLogsTable       = "sleep_logs"
	consumptionLogsTable = "consumption_logs"
	withdrawalLogsTable  = "withdrawal_logs"
)

type sleepRepository struct {
	client *supabase.Client
}

// NewSleepRepository creates a new sleep tracker repository
func NewSleepRepository(client *supabase.Client) SleepRepository {
	return &sleepRepository{client: client}
}

func (r *sleepRepository) GetByUserID(ctx context.Context, userID string) ([]models.SleepSignal, error) {
	var signals []models.SleepSignal
	err := queryInto(ctx, r.client, sleepLogsTable, map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"select":  "score",
	}, &signals)
	if err != nil {
		return nil, fmt.Errorf("failed to get sleep logs: %w", err)
	}
	return signals, nil
}

type consumptionRepository struct {
	client *supabase.Client
}

// NewConsumptionRepository creates a new consumption tracker repository
func NewConsumptionRepository(client *supabase.Client) ConsumptionRepository {
	return &consumptionRepository{client: client}
}

func (r *consumptionRepository) GetByUserID(ctx context.Context, userID string) ([]models.ConsumptionSignal, error) {
	var signals []models.ConsumptionSignal
	err := queryInto(ctx, r.client, consumptionLogsTable, map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"select":  "timestamp",
		"order":   "timestamp.desc",
	}, &signals)
	if err != nil {
		return nil, fmt.Errorf("failed to get consumption logs: %w", err)
	}
	return signals, nil
}

type withdrawalRepository struct {
	client *supabase.Client
}

// NewWithdrawalRepository creates a new withdrawal tracker repository
func NewWithdrawalRepository(client *supabase.Client) WithdrawalRepository {
	return &withdrawalRepository{client: client}
}

func (r *withdrawalRepository) GetByUserID(ctx context.Context, userID string) ([]models.WithdrawalEvent, error) {
	var events []models.WithdrawalEvent
	err := queryInto(ctx, r.client, withdrawalLogsTable, map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"select":  "timestamp",
		"order":   "timestamp.asc",
	}, &events)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal logs: %w", err)
	}
	return events, nil
}

// queryInto runs a table query and decodes the JSON array into out
func queryInto(ctx context.Context, client *supabase.Client, table string, query map[string]interface{}, out interface{}) error {
	body, err := client.Query(ctx, table, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
