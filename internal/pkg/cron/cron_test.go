package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevalink/marketplace_server/internal/model"
	"github.com/sevalink/marketplace_server/internal/repository"
	"github.com/sevalink/marketplace_server/internal/service"
	"github.com/sevalink/marketplace_server/internal/testutil"
)

type fakeExpirer struct {
	mu    sync.Mutex
	calls []time.Duration
	err   error
}

func (f *fakeExpirer) ExpireOrders(ctx context.Context, after time.Duration, dryRun bool) (*service.MaintenanceResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, after)
	if f.err != nil {
		return nil, f.err
	}
	return &service.MaintenanceResult{Matched: 1, Affected: 1, DryRun: dryRun}, nil
}

func (f *fakeExpirer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestService_StartValidates(t *testing.T) {
	tests := []struct {
		name     string
		expirer  OrderExpirer
		schedule string
		after    time.Duration
	}{
		{"nil expirer", nil, "@every 1m", time.Hour},
		{"zero window", &fakeExpirer{}, "@every 1m", 0},
		{"bad schedule", &fakeExpirer{}, "every minute", time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.expirer, tt.schedule, tt.after)
			assert.Error(t, svc.Start())
		})
	}
}

func TestService_RunsOnSchedule(t *testing.T) {
	expirer := &fakeExpirer{}
	svc := NewService(expirer, "@every 1s", time.Hour)
	require.NoError(t, svc.Start())
	defer svc.Stop()

	assert.Eventually(t, func() bool { return expirer.count() > 0 }, 3*time.Second, 50*time.Millisecond)
	expirer.mu.Lock()
	defer expirer.mu.Unlock()
	assert.Equal(t, time.Hour, expirer.calls[0])
}

func TestService_RunNowSurvivesErrors(t *testing.T) {
	expirer := &fakeExpirer{err: errors.New("db down")}
	svc := NewService(expirer, "@every 1h", time.Hour)

	assert.NotPanics(t, svc.RunNow)
	assert.Equal(t, 1, expirer.count())
}

func TestService_AbandonsStaleOrders(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.TestUser(t, db)
	category := testutil.TestCategory(t, db)
	provider := testutil.TestProvider(t, db, category.ID)

	stale := &model.PaymentOrder{
		OrderID: "order_stale", Receipt: "rcpt_stale", UserID: user.ID, ProviderID: provider.ID,
		TierID: model.TierSevenDay, Amount: 9900, Currency: "INR", Status: model.OrderStatusCreated,
	}
	fresh := &model.PaymentOrder{
		OrderID: "order_fresh", Receipt: "rcpt_fresh", UserID: user.ID, ProviderID: provider.ID,
		TierID: model.TierSevenDay, Amount: 9900, Currency: "INR", Status: model.OrderStatusCreated,
	}
	require.NoError(t, db.Create(stale).Error)
	require.NoError(t, db.Create(fresh).Error)
	require.NoError(t, db.Model(stale).Update("created_at", time.Now().UTC().Add(-2*time.Hour)).Error)

	maintenance := service.NewMaintenanceService(
		repository.NewEntitlementRepository(db),
		repository.NewPaymentOrderRepository(db),
	)
	NewService(maintenance, "@every 1h", time.Hour).RunNow()

	var got model.PaymentOrder
	require.NoError(t, db.Where("order_id = ?", "order_stale").First(&got).Error)
	assert.Equal(t, model.OrderStatusAbandoned, got.Status)
	require.NoError(t, db.Where("order_id = ?", "order_fresh").First(&got).Error)
	assert.Equal(t, model.OrderStatusCreated, got.Status)
}
