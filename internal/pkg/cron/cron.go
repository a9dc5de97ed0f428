package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/sevalink/marketplace_server/internal/service"
)

// OrderExpirer is the sweep the scheduler runs.
type OrderExpirer interface {
	ExpireOrders(ctx context.Context, after time.Duration, dryRun bool) (*service.MaintenanceResult, error)
}

type Service struct {
	expirer      OrderExpirer
	abandonAfter time.Duration
	schedule     string
	cron         *cron.Cron
	cancel       context.CancelFunc
	ctx          context.Context
}

func NewService(expirer OrderExpirer, schedule string, abandonAfter time.Duration) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		expirer:      expirer,
		abandonAfter: abandonAfter,
		schedule:     schedule,
		cron:         cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Service) Start() error {
	if s.expirer == nil {
		return fmt.Errorf("cron: no order expirer configured")
	}
	if s.abandonAfter <= 0 {
		return fmt.Errorf("cron: abandon window must be positive, got %s", s.abandonAfter)
	}
	if _, err := s.cron.AddFunc(s.schedule, s.RunNow); err != nil {
		return fmt.Errorf("cron: invalid abandon_orders_schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	log.Info().Str("schedule", s.schedule).Dur("abandon_after", s.abandonAfter).Msg("cron service started")
	return nil
}

// Stop cancels running jobs and waits for them to return.
func (s *Service) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	log.Info().Msg("cron service stopped")
}

// RunNow runs the abandoned-order sweep once.
func (s *Service) RunNow() {
	result, err := s.expirer.ExpireOrders(s.ctx, s.abandonAfter, false)
	if err != nil {
		log.Error().Err(err).Msg("abandoned order sweep failed")
		return
	}
	if result.Affected > 0 {
		log.Info().Int64("orders", result.Affected).Msg("abandoned order sweep completed")
	}
}
