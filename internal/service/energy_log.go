package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonnyWalker81/energylog/backend/internal/analytics"
	"github.com/JonnyWalker81/energylog/backend/internal/logger"
	"github.com/JonnyWalker81/energylog/backend/internal/models"
	"github.com/JonnyWalker81/energylog/backend/internal/repository"
)

// Pagination limits for GetUserLogs
const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// InputError ties a rejected request to the field that caused it
type InputError struct {
	Field string
	Err   error
}

func (e *InputError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *InputError) Unwrap() error {
	return e.Err
}

type energyLogService struct {
	energyRepo repository.EnergyLogRepository
	insights   InsightService
	now        func() time.Time
}

// NewEnergyLogService creates a new energy log service. now may be nil for the wall clock.
func NewEnergyLogService(energyRepo repository.EnergyLogRepository, insights InsightService, now func() time.Time) EnergyLogService {
	if now == nil {
		now = time.Now
	}
	return &energyLogService{
		energyRepo: energyRepo,
		insights:   insights,
		now:        now,
	}
}

func (s *energyLogService) LogEnergy(ctx context.Context, userID string, req *models.CreateEnergyLogRequest) (*models.CreateEnergyLogResponse, error) {
	if req.Level < models.MinEnergyLevel || req.Level > models.MaxEnergyLevel {
		return nil, &InputError{Field: "level", Err: fmt.Errorf("%w: got %d", analytics.ErrInvalidLevel, req.Level)}
	}

	now := s.now()
	entry := &models.EnergyLog{
		UserID:    userID,
		Level:     req.Level,
		Factors:   normalizeFactors(req.Factors),
		Timestamp: now.UTC(),
	}

	// Validate client-provided ID; offline clients mint UUIDv7 at log time
	if req.ID != nil && *req.ID != "" {
		if err := ValidateEntryID(*req.ID, now); err != nil {
			return nil, &InputError{Field: "id", Err: err}
		}
		entry.ID = *req.ID
		entry.Timestamp = EntryIDTimestamp(*req.ID)
	}

	if req.Timestamp != nil {
		if req.Timestamp.After(now.Add(MaxFutureSkew)) {
			return nil, &InputError{
				Field: "timestamp",
				Err:   fmt.Errorf("%w: %v", ErrFutureTimestamp, req.Timestamp.Format(time.RFC3339)),
			}
		}
		entry.Timestamp = req.Timestamp.UTC()
	}

	created, err := s.energyRepo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to log energy: %w", err)
	}

	ctx = logger.WithEntryID(ctx, created.ID)
	log := logger.Ctx(ctx)
	log.Info("energy logged",
		logger.Int("level", created.Level),
		logger.Int("factors", len(created.Factors)),
	)

	resp := &models.CreateEnergyLogResponse{Entry: *created}

	// The append already succeeded; a failed recompute only drops the bundle
	bundle, err := s.insights.GetInsights(ctx, userID)
	if err != nil {
		log.Warn("failed to recompute insights after append", logger.Err(err))
		return resp, nil
	}
	resp.Insights = bundle

	return resp, nil
}

func (s *energyLogService) GetUserLogs(ctx context.Context, userID string, limit, offset int) ([]models.EnergyLog, error) {
	// Set default pagination limits
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	logs, err := s.energyRepo.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get energy logs: %w", err)
	}
	if logs == nil {
		logs = []models.EnergyLog{}
	}
	return logs, nil
}

// normalizeFactors trims tags and drops blanks and repeats
func normalizeFactors(factors []string) []string {
	out := make([]string, 0, len(factors))
	seen := make(map[string]struct{}, len(factors))
	for _, f := range factors {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
