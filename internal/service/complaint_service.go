package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/sevalink/marketplace_server/internal/model"
	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/repository"
)

type ComplaintService struct {
	complaintRepo *repository.ComplaintRepository
	providerRepo  *repository.ProviderRepository
}

func NewComplaintService(complaintRepo *repository.ComplaintRepository, providerRepo *repository.ProviderRepository) *ComplaintService {
	return &ComplaintService{
		complaintRepo: complaintRepo,
		providerRepo:  providerRepo,
	}
}

// Create files a complaint about a provider.
func (s *ComplaintService) Create(ctx context.Context, userID int64, req *dto.CreateComplaintRequest) (*model.Complaint, error) {
	if _, err := s.providerRepo.GetByID(req.ProviderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}

	complaint := &model.Complaint{
		UserID:     userID,
		ProviderID: req.ProviderID,
		Subject:    strings.TrimSpace(req.Subject),
		Message:    req.Message,
		Status:     model.ComplaintStatusOpen,
	}
	if err := s.complaintRepo.Create(complaint); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Int64("user_id", userID).
		Int64("provider_id", req.ProviderID).
		Int64("complaint_id", complaint.ID).
		Msg("complaint filed")
	return complaint, nil
}

func (s *ComplaintService) List(status string, page, pageSize int) ([]*model.Complaint, int64, error) {
	return s.complaintRepo.List(status, page, pageSize)
}

// Resolve closes an open complaint.
func (s *ComplaintService) Resolve(id int64, resolution string) error {
	if _, err := s.complaintRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrComplaintNotFound
		}
		return err
	}

	rows, err := s.complaintRepo.Resolve(id, resolution, time.Now().UTC())
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrComplaintResolved
	}
	return nil
}
