package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/sevalink/marketplace_server/config"
	"github.com/sevalink/marketplace_server/internal/model"
	"github.com/sevalink/marketplace_server/internal/pkg/queue"
	"github.com/sevalink/marketplace_server/internal/pkg/ws"
	"github.com/sevalink/marketplace_server/internal/repository"
)

// JobQueue accepts outbound email jobs.
type JobQueue interface {
	Push(ctx context.Context, job *queue.NotificationJob) error
}

// Pusher delivers a live message to a user's open websocket connections.
type Pusher interface {
	SendToUser(userID int64, msg *ws.Message) error
}

// NotificationService writes in-app inbox entries and queues emails. Every
// side effect is best-effort: failures are logged, never returned to the
// action that caused them.
type NotificationService struct {
	notifRepo    *repository.NotificationRepository
	userRepo     *repository.UserRepository
	providerRepo *repository.ProviderRepository
	jobs         JobQueue
	pusher       Pusher
	site         *config.SiteConfig
}

func NewNotificationService(
	notifRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	providerRepo *repository.ProviderRepository,
	jobs JobQueue,
	site *config.SiteConfig,
) *NotificationService {
	return &NotificationService{
		notifRepo:    notifRepo,
		userRepo:     userRepo,
		providerRepo: providerRepo,
		jobs:         jobs,
		site:         site,
	}
}

// SetPusher makes new inbox entries show up live for online users.
func (s *NotificationService) SetPusher(p Pusher) {
	s.pusher = p
}

// ConnectionGranted tells the provider about a new connection and queues the
// user, provider and operator emails.
func (s *NotificationService) ConnectionGranted(ctx context.Context, e *model.Entitlement) {
	logger := log.Ctx(ctx).With().
		Int64("user_id", e.UserID).
		Int64("provider_id", e.ProviderID).
		Logger()

	user, err := s.userRepo.GetByID(e.UserID)
	if err != nil {
		logger.Warn().Err(err).Msg("connection notification skipped: user lookup failed")
		return
	}
	provider, err := s.providerRepo.GetByID(e.ProviderID)
	if err != nil {
		logger.Warn().Err(err).Msg("connection notification skipped: provider lookup failed")
		return
	}

	s.notify(ctx, provider.UserID, model.NotificationNewConnection,
		"New customer connection",
		fmt.Sprintf("%s unlocked your contact details and may reach out soon.", user.Name))

	base := queue.NotificationJob{
		UserID:       user.ID,
		UserName:     user.Name,
		ProviderID:   provider.ID,
		ProviderName: provider.BusinessName,
		AccessType:   e.AccessType,
		ExpiresAt:    e.ExpiresAt,
	}
	if e.PaymentID != nil {
		base.PaymentID = *e.PaymentID
	}

	if user.Email != nil {
		s.enqueue(ctx, base, queue.JobConnectionUser, *user.Email)
	}
	providerEmail := provider.Email
	if providerEmail == "" {
		if owner, err := s.userRepo.GetByID(provider.UserID); err == nil && owner.Email != nil {
			providerEmail = *owner.Email
		}
	}
	if providerEmail != "" {
		s.enqueue(ctx, base, queue.JobConnectionProvider, providerEmail)
	}
	if s.site != nil && s.site.OperatorEmail != "" {
		s.enqueue(ctx, base, queue.JobConnectionOperator, s.site.OperatorEmail)
	}
}

// ProviderStatusChanged tells the provider their profile was approved or rejected.
func (s *NotificationService) ProviderStatusChanged(ctx context.Context, p *model.Provider) {
	var title, body string
	switch p.Status {
	case model.ProviderStatusApproved:
		title = "Your profile is live"
		body = fmt.Sprintf("%s is now visible to customers.", p.BusinessName)
	case model.ProviderStatusRejected:
		title = "Your profile needs changes"
		body = p.RejectReason
	default:
		return
	}
	s.notify(ctx, p.UserID, model.NotificationProviderStatus, title, body)
}

// ReviewReceived tells the provider about a new review.
func (s *NotificationService) ReviewReceived(ctx context.Context, p *model.Provider, rating int) {
	s.notify(ctx, p.UserID, model.NotificationProviderReview,
		"New review",
		fmt.Sprintf("A customer rated %s %d/5.", p.BusinessName, rating))
}

func (s *NotificationService) notify(ctx context.Context, userID int64, kind, title, body string) {
	n := &model.Notification{
		UserID: userID,
		Type:   kind,
		Title:  title,
		Body:   body,
	}
	if err := s.notifRepo.Create(n); err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("user_id", userID).Str("type", kind).Msg("failed to create notification")
		return
	}

	if s.pusher == nil {
		return
	}
	if err := s.pusher.SendToUser(userID, &ws.Message{Type: ws.MessageNotification, Data: n}); err != nil {
		log.Ctx(ctx).Debug().Err(err).Int64("user_id", userID).Msg("notification push skipped")
	}
}

func (s *NotificationService) enqueue(ctx context.Context, base queue.NotificationJob, kind, to string) {
	if s.jobs == nil {
		return
	}
	job := base
	job.Kind = kind
	job.To = to
	if err := s.jobs.Push(ctx, &job); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("kind", kind).Int64("provider_id", job.ProviderID).Msg("failed to queue notification email")
	}
}

// List returns a page of the user's inbox and the unread count.
func (s *NotificationService) List(userID int64, page, pageSize int) ([]*model.Notification, int64, int64, error) {
	list, total, err := s.notifRepo.ListByUser(userID, page, pageSize)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.notifRepo.CountUnread(userID)
	if err != nil {
		return nil, 0, 0, err
	}
	return list, total, unread, nil
}

func (s *NotificationService) MarkRead(userID, id int64) error {
	rows, err := s.notifRepo.MarkRead(id, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
