package repository

import (
	"gorm.io/gorm"

	"github.com/sevalink/marketplace_server/internal/model"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *BookingRepository) WithTx(tx *gorm.DB) *BookingRepository {
	return &BookingRepository{db: tx}
}

func (r *BookingRepository) Create(booking *model.Booking) error {
	return r.db.Create(booking).Error
}

func (r *BookingRepository) GetByID(id string) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.Preload("Provider").Where("id = ?", id).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// CountPending counts the user's bookings still awaiting a review, across
// all providers.
func (r *BookingRepository) CountPending(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Booking{}).
		Where("user_id = ? AND is_reviewed_by_customer = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *BookingRepository) ListPending(userID int64) ([]*model.Booking, error) {
	var bookings []*model.Booking
	err := r.db.Preload("Provider").
		Where("user_id = ? AND is_reviewed_by_customer = ?", userID, false).
		Order("created_at ASC").
		Find(&bookings).Error
	return bookings, err
}

// MarkReviewed flags the booking reviewed. Zero rows means it was already
// reviewed or does not belong to userID.
func (r *BookingRepository) MarkReviewed(id string, userID int64) (int64, error) {
	result := r.db.Model(&model.Booking{}).
		Where("id = ? AND user_id = ? AND is_reviewed_by_customer = ?", id, userID, false).
		Update("is_reviewed_by_customer", true)
	return result.RowsAffected, result.Error
}
