package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/sevalink/marketplace_server/internal/model"
)

type ComplaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

func (r *ComplaintRepository) Create(c *model.Complaint) error {
	return r.db.Create(c).Error
}

func (r *ComplaintRepository) GetByID(id int64) (*model.Complaint, error) {
	var c model.Complaint
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ComplaintRepository) List(status string, page, pageSize int) ([]*model.Complaint, int64, error) {
	var list []*model.Complaint
	var total int64

	query := r.db.Model(&model.Complaint{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Resolve closes an open complaint. Zero rows means it was already resolved.
func (r *ComplaintRepository) Resolve(id int64, resolution string, at time.Time) (int64, error) {
	result := r.db.Model(&model.Complaint{}).
		Where("id = ? AND status = ?", id, model.ComplaintStatusOpen).
		Updates(map[string]interface{}{
			"status":      model.ComplaintStatusResolved,
			"resolution":  resolution,
			"resolved_at": at,
		})
	return result.RowsAffected, result.Error
}
