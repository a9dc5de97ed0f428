package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevalink/marketplace_server/internal/model"
	"github.com/sevalink/marketplace_server/internal/testutil"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestEntitlementRepository_UpsertOverwrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewEntitlementRepository(db)

	expires := t0.Add(7 * 24 * time.Hour)
	first := &model.Entitlement{
		ID: model.EntitlementKey(1, 2), UserID: 1, ProviderID: 2,
		AccessType: model.TierSevenDay, GrantedAt: t0, ExpiresAt: &expires,
		PaymentID: testutil.StringPtr("pay_1"), ReviewRequested: true,
	}
	require.NoError(t, repo.Upsert(first))

	second := &model.Entitlement{
		ID: model.EntitlementKey(1, 2), UserID: 1, ProviderID: 2,
		AccessType: model.TierLifetime, GrantedAt: t0.Add(time.Hour),
	}
	require.NoError(t, repo.Upsert(second))

	got, err := repo.Get(1, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.TierLifetime, got.AccessType)
	assert.Nil(t, got.ExpiresAt)
	assert.Nil(t, got.PaymentID)
	assert.False(t, got.ReviewRequested)

	var count int64
	db.Model(&model.Entitlement{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEntitlementRepository_GetMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	got, err := NewEntitlementRepository(db).Get(1, 2)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEntitlementRepository_ClaimReviewRequest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewEntitlementRepository(db)
	expires := t0.Add(24 * time.Hour)
	testutil.TestEntitlement(t, db, 1, 2, model.TierOneTime, t0, &expires)

	rows, err := repo.ClaimReviewRequest(1, 2, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, rows, "not expired yet")

	rows, err = repo.ClaimReviewRequest(1, 2, expires)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repo.ClaimReviewRequest(1, 2, expires.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, rows, "second claim must lose")

	testutil.TestEntitlement(t, db, 1, 3, model.TierLifetime, t0, nil)
	rows, err = repo.ClaimReviewRequest(1, 3, expires.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, rows, "lifetime never lapses")
}

func TestEntitlementRepository_MarkReviewRequestedIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewEntitlementRepository(db)
	testutil.TestEntitlement(t, db, 1, 2, model.TierLifetime, t0, nil)

	require.NoError(t, repo.MarkReviewRequested(1, 2))
	require.NoError(t, repo.MarkReviewRequested(1, 2))

	got, err := repo.Get(1, 2)
	require.NoError(t, err)
	assert.True(t, got.ReviewRequested)
}

func TestEntitlementRepository_ListAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewEntitlementRepository(db)
	category := testutil.TestCategory(t, db)
	p1 := testutil.TestProvider(t, db, category.ID)
	p2 := testutil.TestProvider(t, db, category.ID)
	testutil.TestEntitlement(t, db, 7, p1.ID, model.TierLifetime, t0, nil)
	testutil.TestEntitlement(t, db, 7, p2.ID, model.TierLifetime, t0.Add(time.Hour), nil)
	testutil.TestEntitlement(t, db, 8, p1.ID, model.TierLifetime, t0, nil)

	mine, err := repo.ListByUser(7)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, p2.ID, mine[0].ProviderID, "newest first")
	require.NotNil(t, mine[0].Provider)

	_, total, err := repo.List(EntitlementFilter{ProviderID: p1.ID}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	existed, err := repo.Delete(7, p1.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = repo.Delete(7, p1.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestEntitlementRepository_Purgeable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewEntitlementRepository(db)
	old := t0.Add(24 * time.Hour)
	recent := t0.Add(60 * 24 * time.Hour)

	testutil.TestEntitlement(t, db, 1, 1, model.TierOneTime, t0, &old)
	testutil.TestEntitlement(t, db, 1, 2, model.TierOneTime, t0, &old)
	testutil.TestEntitlement(t, db, 1, 3, model.TierOneTime, t0, &recent)
	require.NoError(t, repo.MarkReviewRequested(1, 1))
	require.NoError(t, repo.MarkReviewRequested(1, 3))

	cutoff := t0.Add(30 * 24 * time.Hour)
	count, err := repo.CountPurgeable(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	deleted, err := repo.DeletePurgeable(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	gone, err := repo.Get(1, 1)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
