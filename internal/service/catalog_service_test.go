package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevalink/marketplace_server/internal/model"
	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/repository"
	"github.com/sevalink/marketplace_server/internal/testutil"
)

func intPtr(n int) *int { return &n }

func TestSnapshot_FreeOfferedOnlyWithoutPaidTiers(t *testing.T) {
	paid := model.AccessTier{ID: model.TierSevenDay, Price: 99, DurationDays: intPtr(7), Enabled: true}
	settings := model.SiteSettings{FreeAccessFallbackEnabled: true, FreeAccessDurationMinutes: 30}

	snap := NewSnapshot([]model.AccessTier{paid}, settings)
	assert.False(t, snap.FreeOffered())
	require.Len(t, snap.EnabledTiers(), 1)
	assert.Equal(t, model.TierSevenDay, snap.EnabledTiers()[0].ID)
	_, ok := snap.Tier(model.TierFree)
	assert.False(t, ok)

	paid.Enabled = false
	snap = NewSnapshot([]model.AccessTier{paid}, settings)
	assert.True(t, snap.FreeOffered())
	free, ok := snap.Tier(model.TierFree)
	require.True(t, ok)
	assert.Equal(t, 30, free.DurationMinutes)
	assert.Zero(t, free.Price)

	_, ok = snap.Tier(model.TierSevenDay)
	assert.False(t, ok)
	_, ok = snap.AnyTier(model.TierSevenDay)
	assert.True(t, ok)

	settings.FreeAccessFallbackEnabled = false
	snap = NewSnapshot([]model.AccessTier{paid}, settings)
	assert.False(t, snap.FreeOffered())
	assert.Empty(t, snap.EnabledTiers())
}

func TestCatalogService_ListEnabledTiers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	testutil.TestTier(t, db, model.TierOneTime, 49, 1, true)
	testutil.TestTier(t, db, model.TierSevenDay, 99, 7, false)
	testutil.TestTier(t, db, model.TierLifetime, 999, 0, true)
	testutil.TestSettings(t, db, true, 30)

	service := NewCatalogService(repository.NewCatalogRepository(db), "INR")
	resp, err := service.ListEnabledTiers(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.Tiers, 2)
	assert.False(t, resp.FreeFallback)
	for _, tier := range resp.Tiers {
		assert.NotEqual(t, model.TierSevenDay, tier.ID)
		assert.Equal(t, "INR", tier.Currency)
		if tier.ID == model.TierLifetime {
			assert.True(t, tier.IsLifetime)
			assert.Nil(t, tier.DurationDays)
		}
	}
}

func TestCatalogService_UpdateTier(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	testutil.TestTier(t, db, model.TierSevenDay, 99, 7, true)
	service := NewCatalogService(repository.NewCatalogRepository(db), "INR")

	t.Run("updates price and disables", func(t *testing.T) {
		price := int64(149)
		enabled := false
		tier, err := service.UpdateTier(model.TierSevenDay, &dto.UpdateTierRequest{Price: &price, Enabled: &enabled})
		require.NoError(t, err)
		assert.Equal(t, int64(149), tier.Price)
		assert.False(t, tier.Enabled)
	})

	t.Run("free and unknown ids are rejected", func(t *testing.T) {
		_, err := service.UpdateTier(model.TierFree, &dto.UpdateTierRequest{})
		assert.ErrorIs(t, err, ErrInvalidTier)
		_, err = service.UpdateTier("weekly", &dto.UpdateTierRequest{})
		assert.ErrorIs(t, err, ErrInvalidTier)
	})

	t.Run("timed tier needs a positive duration", func(t *testing.T) {
		_, err := service.UpdateTier(model.TierSevenDay, &dto.UpdateTierRequest{DurationDays: intPtr(0)})
		assert.ErrorIs(t, err, ErrInvalidTier)
	})

	t.Run("enabled tier needs a price", func(t *testing.T) {
		price := int64(0)
		enabled := true
		_, err := service.UpdateTier(model.TierSevenDay, &dto.UpdateTierRequest{Price: &price, Enabled: &enabled})
		assert.ErrorIs(t, err, ErrInvalidTier)
	})

	t.Run("lifetime drops duration", func(t *testing.T) {
		price := int64(999)
		enabled := true
		tier, err := service.UpdateTier(model.TierLifetime, &dto.UpdateTierRequest{Price: &price, Enabled: &enabled, DurationDays: intPtr(5)})
		require.NoError(t, err)
		assert.Nil(t, tier.DurationDays)
	})
}

func TestCatalogService_UpdateSettings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := NewCatalogService(repository.NewCatalogRepository(db), "INR")

	enabled := true
	minutes := 45
	settings, err := service.UpdateSettings(&dto.UpdateSettingsRequest{
		FreeAccessFallbackEnabled: &enabled,
		FreeAccessDurationMinutes: &minutes,
	})
	require.NoError(t, err)
	assert.True(t, settings.FreeAccessFallbackEnabled)
	assert.Equal(t, 45, settings.FreeAccessDurationMinutes)

	_, all, err := service.ListAllTiers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 45, all.FreeAccessDurationMinutes)

	zero := 0
	_, err = service.UpdateSettings(&dto.UpdateSettingsRequest{FreeAccessDurationMinutes: &zero})
	assert.ErrorIs(t, err, ErrInvalidTier)
}
