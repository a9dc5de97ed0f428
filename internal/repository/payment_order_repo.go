package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sevalink/marketplace_server/internal/model"
)

type PaymentOrderRepository struct {
	db *gorm.DB
}

func NewPaymentOrderRepository(db *gorm.DB) *PaymentOrderRepository {
	return &PaymentOrderRepository{db: db}
}

func (r *PaymentOrderRepository) Create(order *model.PaymentOrder) error {
	return r.db.Create(order).Error
}

func (r *PaymentOrderRepository) GetByOrderID(orderID string) (*model.PaymentOrder, error) {
	var order model.PaymentOrder
	err := r.db.Where("order_id = ?", orderID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindReusable returns the newest still-open order for the same purchase
// created after since, or nil.
func (r *PaymentOrderRepository) FindReusable(userID, providerID int64, tierID string, since time.Time) (*model.PaymentOrder, error) {
	var order model.PaymentOrder
	err := r.db.Where("user_id = ? AND provider_id = ? AND tier_id = ? AND status = ? AND created_at >= ?",
		userID, providerID, tierID, model.OrderStatusCreated, since).
		Order("created_at DESC").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ClaimPaid records paymentID on the order and marks it paid, but only while
// the order is in one of the from statuses. Zero rows means someone else won.
func (r *PaymentOrderRepository) ClaimPaid(orderID, paymentID string, from []string) (int64, error) {
	result := r.db.Model(&model.PaymentOrder{}).
		Where("order_id = ? AND status IN ?", orderID, from).
		Updates(map[string]interface{}{
			"status":         model.OrderStatusPaid,
			"payment_id":     paymentID,
			"failure_reason": "",
		})
	return result.RowsAffected, result.Error
}

// Transition moves the order to status when it is currently in from.
func (r *PaymentOrderRepository) Transition(orderID string, from []string, status, reason string) (int64, error) {
	result := r.db.Model(&model.PaymentOrder{}).
		Where("order_id = ? AND status IN ?", orderID, from).
		Updates(map[string]interface{}{
			"status":         status,
			"failure_reason": reason,
		})
	return result.RowsAffected, result.Error
}

// CountStale counts open orders created before cutoff.
func (r *PaymentOrderRepository) CountStale(cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.PaymentOrder{}).
		Where("status = ? AND created_at < ?", model.OrderStatusCreated, cutoff).
		Count(&count).Error
	return count, err
}

// AbandonStale marks open orders created before cutoff as abandoned.
func (r *PaymentOrderRepository) AbandonStale(cutoff time.Time) (int64, error) {
	result := r.db.Model(&model.PaymentOrder{}).
		Where("status = ? AND created_at < ?", model.OrderStatusCreated, cutoff).
		Update("status", model.OrderStatusAbandoned)
	return result.RowsAffected, result.Error
}

func (r *PaymentOrderRepository) List(status string, page, pageSize int) ([]*model.PaymentOrder, int64, error) {
	var orders []*model.PaymentOrder
	var total int64

	query := r.db.Model(&model.PaymentOrder{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
