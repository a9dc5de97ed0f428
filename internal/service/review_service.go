package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/sevalink/marketplace_server/internal/model"
	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/repository"
)

type ReviewService struct {
	db            *gorm.DB
	bookingRepo   *repository.BookingRepository
	reviewRepo    *repository.ReviewRepository
	providerRepo  *repository.ProviderRepository
	notifications *NotificationService
}

func NewReviewService(db *gorm.DB, notifications *NotificationService) *ReviewService {
	return &ReviewService{
		db:            db,
		bookingRepo:   repository.NewBookingRepository(db),
		reviewRepo:    repository.NewReviewRepository(db),
		providerRepo:  repository.NewProviderRepository(db),
		notifications: notifications,
	}
}

// ListPending returns the user's review placeholders, oldest first.
func (s *ReviewService) ListPending(userID int64) ([]*dto.PendingReviewItem, error) {
	bookings, err := s.bookingRepo.ListPending(userID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PendingReviewItem, 0, len(bookings))
	for _, b := range bookings {
		item := &dto.PendingReviewItem{BookingID: b.ID, CreatedAt: b.CreatedAt}
		if b.Provider != nil {
			item.Provider = toProviderCard(b.Provider)
		}
		items = append(items, item)
	}
	return items, nil
}

// Submit closes a placeholder with a rating and refreshes the provider's
// rating summary.
func (s *ReviewService) Submit(ctx context.Context, userID int64, bookingID string, req *dto.SubmitReviewRequest) (*model.Review, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.UserID != userID || booking.IsReviewedByCustomer {
		return nil, ErrBookingNotFound
	}

	review := &model.Review{
		BookingID:  booking.ID,
		UserID:     userID,
		ProviderID: booking.ProviderID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		rows, err := s.bookingRepo.WithTx(tx).MarkReviewed(booking.ID, userID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrBookingNotFound
		}
		if err := repository.NewReviewRepository(tx).Create(review); err != nil {
			return err
		}
		return repository.NewProviderRepository(tx).RefreshRating(booking.ProviderID)
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Int64("user_id", userID).
		Int64("provider_id", booking.ProviderID).
		Int("rating", req.Rating).
		Msg("review submitted")

	if s.notifications != nil && booking.Provider != nil {
		s.notifications.ReviewReceived(ctx, booking.Provider, req.Rating)
	}
	return review, nil
}

// ListByProvider returns a provider's public reviews.
func (s *ReviewService) ListByProvider(providerID int64, page, pageSize int) ([]*dto.ReviewItem, int64, error) {
	reviews, total, err := s.reviewRepo.ListByProvider(providerID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.ReviewItem, len(reviews))
	for i, r := range reviews {
		items[i] = &dto.ReviewItem{
			ID:        r.ID,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		}
		if r.User != nil {
			items[i].UserName = r.User.Name
		}
	}
	return items, total, nil
}
