package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sevalink/marketplace_server/internal/repository"
)

// MaintenanceResult reports what a sweep matched and what it changed.
type MaintenanceResult struct {
	Matched  int64 `json:"matched"`
	Affected int64 `json:"affected"`
	DryRun   bool  `json:"dry_run"`
}

// MaintenanceService runs the housekeeping sweeps shared by the cron
// scheduler and the cleanup command.
type MaintenanceService struct {
	entRepo   *repository.EntitlementRepository
	orderRepo *repository.PaymentOrderRepository
	now       func() time.Time
}

func NewMaintenanceService(entRepo *repository.EntitlementRepository, orderRepo *repository.PaymentOrderRepository) *MaintenanceService {
	return &MaintenanceService{
		entRepo:   entRepo,
		orderRepo: orderRepo,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ExpireOrders marks checkouts left open for longer than after as abandoned.
func (s *MaintenanceService) ExpireOrders(ctx context.Context, after time.Duration, dryRun bool) (*MaintenanceResult, error) {
	cutoff := s.now().Add(-after)

	matched, err := s.orderRepo.CountStale(cutoff)
	if err != nil {
		return nil, err
	}
	result := &MaintenanceResult{Matched: matched, DryRun: dryRun}
	if dryRun || matched == 0 {
		return result, nil
	}

	result.Affected, err = s.orderRepo.AbandonStale(cutoff)
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Int64("orders", result.Affected).Time("cutoff", cutoff).Msg("abandoned stale checkouts")
	return result, nil
}

// PurgeConnections deletes lapsed grants whose review was already requested
// and which expired more than retention ago. Active grants are never touched.
func (s *MaintenanceService) PurgeConnections(ctx context.Context, retention time.Duration, dryRun bool) (*MaintenanceResult, error) {
	before := s.now().Add(-retention)

	matched, err := s.entRepo.CountPurgeable(before)
	if err != nil {
		return nil, err
	}
	result := &MaintenanceResult{Matched: matched, DryRun: dryRun}
	if dryRun || matched == 0 {
		return result, nil
	}

	result.Affected, err = s.entRepo.DeletePurgeable(before)
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Int64("connections", result.Affected).Time("before", before).Msg("purged lapsed connections")
	return result, nil
}
