package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sevalink/marketplace_server/internal/model"
)

type EntitlementRepository struct {
	db *gorm.DB
}

func NewEntitlementRepository(db *gorm.DB) *EntitlementRepository {
	return &EntitlementRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *EntitlementRepository) WithTx(tx *gorm.DB) *EntitlementRepository {
	return &EntitlementRepository{db: tx}
}

// EntitlementFilter narrows admin listings. Zero values are ignored.
type EntitlementFilter struct {
	UserID     int64
	ProviderID int64
	AccessType string
}

// Upsert writes e at its key, replacing any earlier grant entirely.
func (r *EntitlementRepository) Upsert(e *model.Entitlement) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id", "provider_id", "access_type", "granted_at",
			"expires_at", "payment_id", "review_requested", "updated_at",
		}),
	}).Create(e).Error
}

// Get returns the grant for (user, provider), or nil when there is none.
func (r *EntitlementRepository) Get(userID, providerID int64) (*model.Entitlement, error) {
	var e model.Entitlement
	err := r.db.Where("id = ?", model.EntitlementKey(userID, providerID)).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ClaimReviewRequest flips review_requested for a lapsed grant. It affects
// no row when the flag is already set or the grant was renewed meanwhile.
func (r *EntitlementRepository) ClaimReviewRequest(userID, providerID int64, now time.Time) (int64, error) {
	result := r.db.Model(&model.Entitlement{}).
		Where("id = ? AND review_requested = ? AND expires_at IS NOT NULL AND expires_at <= ?",
			model.EntitlementKey(userID, providerID), false, now).
		Update("review_requested", true)
	return result.RowsAffected, result.Error
}

// MarkReviewRequested sets the flag unconditionally. Setting it twice is a no-op.
func (r *EntitlementRepository) MarkReviewRequested(userID, providerID int64) error {
	return r.db.Model(&model.Entitlement{}).
		Where("id = ?", model.EntitlementKey(userID, providerID)).
		Update("review_requested", true).Error
}

// ListByUser returns the user's grants, newest first, with providers loaded.
func (r *EntitlementRepository) ListByUser(userID int64) ([]*model.Entitlement, error) {
	var list []*model.Entitlement
	err := r.db.Preload("Provider").Preload("Provider.Category").
		Where("user_id = ?", userID).
		Order("granted_at DESC").
		Find(&list).Error
	return list, err
}

func (r *EntitlementRepository) List(filter EntitlementFilter, page, pageSize int) ([]*model.Entitlement, int64, error) {
	var list []*model.Entitlement
	var total int64

	query := r.db.Model(&model.Entitlement{})
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.ProviderID > 0 {
		query = query.Where("provider_id = ?", filter.ProviderID)
	}
	if filter.AccessType != "" {
		query = query.Where("access_type = ?", filter.AccessType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("granted_at DESC").Offset(offset).Limit(pageSize).Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Delete hard-deletes the grant. It reports whether a row existed.
func (r *EntitlementRepository) Delete(userID, providerID int64) (bool, error) {
	result := r.db.Where("id = ?", model.EntitlementKey(userID, providerID)).Delete(&model.Entitlement{})
	return result.RowsAffected > 0, result.Error
}

// CountPurgeable counts lapsed grants whose review was already requested and
// whose expiry is older than before.
func (r *EntitlementRepository) CountPurgeable(before time.Time) (int64, error) {
	var count int64
	err := r.purgeable(before).Model(&model.Entitlement{}).Count(&count).Error
	return count, err
}

// DeletePurgeable removes the rows CountPurgeable counts.
func (r *EntitlementRepository) DeletePurgeable(before time.Time) (int64, error) {
	result := r.purgeable(before).Delete(&model.Entitlement{})
	return result.RowsAffected, result.Error
}

func (r *EntitlementRepository) purgeable(before time.Time) *gorm.DB {
	return r.db.Where("review_requested = ? AND expires_at IS NOT NULL AND expires_at < ?", true, before)
}
