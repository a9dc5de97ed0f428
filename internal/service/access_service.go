package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/sevalink/marketplace_server/config"
	"github.com/sevalink/marketplace_server/internal/model"
	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/pkg/entitlement"
	"github.com/sevalink/marketplace_server/internal/pkg/lock"
	"github.com/sevalink/marketplace_server/internal/pkg/metrics"
	"github.com/sevalink/marketplace_server/internal/pkg/payment"
	"github.com/sevalink/marketplace_server/internal/pkg/pubsub"
	"github.com/sevalink/marketplace_server/internal/repository"
)

// Grant sources, used as a metrics label.
const (
	grantSourcePaid   = "paid"
	grantSourceFree   = "free"
	grantSourceDirect = "direct"
)

// Review trigger outcomes, used as a metrics label.
const (
	reviewRequested = "requested"
	reviewGuarded   = "guarded"
	reviewPending   = "pending"
	reviewRaced     = "raced"
	reviewBusy      = "busy"
	reviewError     = "error"
)

// Orders in these statuses may still be settled by a verified payment. The
// checkout widget lets the user retry after a reported failure.
var claimableStatuses = []string{
	model.OrderStatusCreated,
	model.OrderStatusFailed,
	model.OrderStatusCancelled,
	model.OrderStatusAbandoned,
}

// EntitlementPublisher fans entitlement changes out to listeners.
type EntitlementPublisher interface {
	PublishEntitlement(ctx context.Context, msg *pubsub.EntitlementUpdate) error
}

// ConnectionNotifier is told about every new grant. It must not fail the grant.
type ConnectionNotifier interface {
	ConnectionGranted(ctx context.Context, e *model.Entitlement)
}

// AccessDeps wires an AccessService.
type AccessDeps struct {
	DB        *gorm.DB
	Catalog   *CatalogService
	Gateway   payment.Gateway
	Locker    *lock.Locker
	Publisher EntitlementPublisher
	Broker    *pubsub.Broker
	Notifier  ConnectionNotifier
	Config    *config.AccessConfig
	Currency  string
}

// AccessService owns the connection-access flow: checkout, grants, lazy
// expiry evaluation and review solicitation.
type AccessService struct {
	db           *gorm.DB
	entRepo      *repository.EntitlementRepository
	orderRepo    *repository.PaymentOrderRepository
	bookingRepo  *repository.BookingRepository
	providerRepo *repository.ProviderRepository
	catalog      *CatalogService
	gateway      payment.Gateway
	locker       *lock.Locker
	publisher    EntitlementPublisher
	broker       *pubsub.Broker
	notifier     ConnectionNotifier
	cfg          *config.AccessConfig
	currency     string
	now          func() time.Time
}

func NewAccessService(deps AccessDeps) *AccessService {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.AccessConfig{}
	}
	broker := deps.Broker
	if broker == nil {
		broker = pubsub.NewBroker()
	}
	return &AccessService{
		db:           deps.DB,
		entRepo:      repository.NewEntitlementRepository(deps.DB),
		orderRepo:    repository.NewPaymentOrderRepository(deps.DB),
		bookingRepo:  repository.NewBookingRepository(deps.DB),
		providerRepo: repository.NewProviderRepository(deps.DB),
		catalog:      deps.Catalog,
		gateway:      deps.Gateway,
		locker:       deps.Locker,
		publisher:    deps.Publisher,
		broker:       broker,
		notifier:     deps.Notifier,
		cfg:          cfg,
		currency:     deps.Currency,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Grant records access to providerID for userID under an enabled tier,
// replacing any earlier grant at the same key.
func (s *AccessService) Grant(ctx context.Context, userID, providerID int64, tierID string, paymentID *string) (*model.Entitlement, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	snap, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	tier, ok := snap.Tier(tierID)
	if !ok {
		return nil, ErrInvalidTier
	}

	e, err := s.record(ctx, userID, providerID, tier, paymentID, grantSourceDirect)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return e, nil
}

// Read returns the stored grant, or nil when the user never had access.
func (s *AccessService) Read(ctx context.Context, userID, providerID int64) (*model.Entitlement, error) {
	if userID == 0 {
		return nil, nil
	}
	return s.entRepo.Get(userID, providerID)
}

// Check evaluates the viewer's access to providerID. The first observation
// after expiry solicits a review; trigger failures never fail the check.
func (s *AccessService) Check(ctx context.Context, userID, providerID int64) (*dto.AccessView, error) {
	if userID == 0 {
		return &dto.AccessView{
			ProviderID:   providerID,
			State:        string(entitlement.NoAccess),
			CallToAction: dto.ActionLogin,
		}, nil
	}

	e, err := s.Read(ctx, userID, providerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	state := s.observe(ctx, e, now)
	return accessView(providerID, e, state), nil
}

// observe evaluates e and fires the review trigger when this is the
// observation that first sees it expired.
func (s *AccessService) observe(ctx context.Context, e *model.Entitlement, now time.Time) entitlement.State {
	state := entitlement.Evaluate(e, now)
	if entitlement.NeedsReviewTrigger(e, now) {
		s.requestReview(ctx, e, now)
	}
	return state
}

// MarkReviewRequested sets the review flag on the grant. It is idempotent.
func (s *AccessService) MarkReviewRequested(ctx context.Context, userID, providerID int64) error {
	if err := s.entRepo.MarkReviewRequested(userID, providerID); err != nil {
		return err
	}
	e, err := s.entRepo.Get(userID, providerID)
	if err == nil && e != nil {
		s.publish(ctx, pubsub.EventReviewRequested, e)
	}
	return nil
}

// requestReview creates a pending-review placeholder for a lapsed grant and
// flips review_requested in one transaction. Only one placeholder may be
// pending per user, so creation is serialized per user across instances.
func (s *AccessService) requestReview(ctx context.Context, e *model.Entitlement, now time.Time) {
	logger := log.Ctx(ctx).With().
		Int64("user_id", e.UserID).
		Int64("provider_id", e.ProviderID).
		Logger()

	outcome := s.claimReview(ctx, e, now, &logger)
	metrics.ReviewTriggersTotal.WithLabelValues(outcome).Inc()

	if outcome == reviewRequested || outcome == reviewGuarded {
		e.ReviewRequested = true
		s.publish(ctx, pubsub.EventReviewRequested, e)
	}
}

func (s *AccessService) claimReview(ctx context.Context, e *model.Entitlement, now time.Time, logger *zerolog.Logger) string {
	if s.locker != nil {
		unlock, ok, err := s.locker.TryLock(ctx, lock.ReviewKey(e.UserID))
		if err != nil {
			logger.Warn().Err(err).Msg("review trigger lock unavailable")
			return reviewError
		}
		if !ok {
			return reviewBusy
		}
		defer unlock()
	}

	outcome := reviewRaced
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ents := s.entRepo.WithTx(tx)
		bookings := s.bookingRepo.WithTx(tx)

		pending, err := bookings.CountPending(e.UserID)
		if err != nil {
			return err
		}
		if pending > 0 {
			if !s.cfg.ReviewGuardWhenPending {
				outcome = reviewPending
				return nil
			}
			rows, err := ents.ClaimReviewRequest(e.UserID, e.ProviderID, now)
			if err != nil {
				return err
			}
			if rows > 0 {
				outcome = reviewGuarded
			}
			return nil
		}

		rows, err := ents.ClaimReviewRequest(e.UserID, e.ProviderID, now)
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}

		booking := &model.Booking{
			ID:         uuid.NewString(),
			UserID:     e.UserID,
			ProviderID: e.ProviderID,
			Source:     model.BookingSourceConnectionExpiry,
		}
		if err := bookings.Create(booking); err != nil {
			return err
		}
		outcome = reviewRequested
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("review trigger failed")
		return reviewError
	}

	if outcome == reviewRequested {
		logger.Info().Msg("review requested for lapsed connection")
	}
	return outcome
}

// CreateOrder opens a checkout for a paid tier. An order still open for the
// same purchase is handed back instead of opening a second one.
func (s *AccessService) CreateOrder(ctx context.Context, userID, providerID int64, tierID string) (*dto.CheckoutResponse, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	if err := s.requireProvider(providerID); err != nil {
		return nil, err
	}

	snap, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	tier, ok := snap.Tier(tierID)
	if !ok || tier.ID == model.TierFree {
		return nil, ErrInvalidTier
	}
	amount := payment.MinorUnits(tier.Price)

	if s.cfg.PendingOrderReuseMinutes > 0 {
		since := s.now().Add(-time.Duration(s.cfg.PendingOrderReuseMinutes) * time.Minute)
		existing, err := s.orderRepo.FindReusable(userID, providerID, tier.ID, since)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.Amount == amount {
			resp := s.checkoutResponse(existing, tier)
			resp.Reused = true
			return resp, nil
		}
	}

	if s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}

	receipt := uuid.NewString()
	order, err := s.gateway.CreateOrder(ctx, payment.OrderRequest{
		Amount:   amount,
		Currency: s.currency,
		Receipt:  receipt,
		Notes: map[string]string{
			"user_id":     strconv.FormatInt(userID, 10),
			"provider_id": strconv.FormatInt(providerID, 10),
			"tier_id":     tier.ID,
		},
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).
			Int64("user_id", userID).
			Int64("provider_id", providerID).
			Str("tier_id", tier.ID).
			Msg("failed to create payment order")
		metrics.PaymentOutcomesTotal.WithLabelValues("order_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	record := &model.PaymentOrder{
		OrderID:    order.ID,
		Receipt:    receipt,
		UserID:     userID,
		ProviderID: providerID,
		TierID:     tier.ID,
		Amount:     amount,
		Currency:   s.currency,
		Status:     model.OrderStatusCreated,
	}
	if err := s.orderRepo.Create(record); err != nil {
		return nil, err
	}
	metrics.PaymentOutcomesTotal.WithLabelValues("order_created").Inc()

	return s.checkoutResponse(record, tier), nil
}

func (s *AccessService) checkoutResponse(order *model.PaymentOrder, tier *model.AccessTier) *dto.CheckoutResponse {
	keyID := ""
	if s.gateway != nil {
		keyID = s.gateway.KeyID()
	}
	return &dto.CheckoutResponse{
		OrderID:    order.OrderID,
		KeyID:      keyID,
		Amount:     order.Amount,
		Currency:   order.Currency,
		TierID:     tier.ID,
		TierLabel:  tier.Label,
		ProviderID: order.ProviderID,
	}
}

// VerifyAndGrant verifies a checkout callback and records the grant. A
// payment id settles at most one order, and a repeated callback for the same
// payment returns the grant it already produced.
func (s *AccessService) VerifyAndGrant(ctx context.Context, userID, providerID int64, req *dto.VerifyPaymentRequest) (*model.Entitlement, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}

	order, err := s.ownOrder(userID, providerID, req.OrderID)
	if err != nil {
		return nil, err
	}

	logger := log.Ctx(ctx).With().
		Int64("user_id", userID).
		Int64("provider_id", providerID).
		Str("order_id", order.OrderID).
		Str("payment_id", req.PaymentID).
		Logger()

	switch order.Status {
	case model.OrderStatusPaid:
		return s.settledGrant(order, req.PaymentID)
	case model.OrderStatusNeedsReconciliation:
		return nil, ErrWriteFailed
	}

	if s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}
	verified, err := s.gateway.VerifyPayment(ctx, payment.Callback{
		OrderID:   order.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		var failure *payment.FailureError
		if errors.As(err, &failure) {
			return nil, s.failOrder(ctx, order, failure.Reason)
		}
		logger.Error().Err(err).Msg("payment verification unavailable")
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if verified.Amount != order.Amount {
		logger.Warn().Int64("expected", order.Amount).Int64("captured", verified.Amount).Msg("captured amount mismatch")
		return nil, s.failOrder(ctx, order, "captured amount does not match the order")
	}

	snap, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.orderRepo.ClaimPaid(order.OrderID, verified.PaymentID, claimableStatuses)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Warn().Msg("payment id already settled another order")
			return nil, ErrDuplicatePayment
		}
		return nil, err
	}
	if rows == 0 {
		current, err := s.orderRepo.GetByOrderID(order.OrderID)
		if err != nil {
			return nil, err
		}
		return s.settledGrant(current, verified.PaymentID)
	}
	metrics.PaymentOutcomesTotal.WithLabelValues("paid").Inc()

	// The order's tier is honoured even if it was disabled after checkout opened.
	tier, ok := snap.AnyTier(order.TierID)
	if !ok {
		return nil, s.reconcile(ctx, order, verified.PaymentID, fmt.Errorf("tier %s missing from catalog", order.TierID))
	}

	paymentID := verified.PaymentID
	e, err := s.record(ctx, userID, providerID, tier, &paymentID, grantSourcePaid)
	if err != nil {
		return nil, s.reconcile(ctx, order, paymentID, err)
	}
	return e, nil
}

// settledGrant answers a callback for an order that is already paid.
func (s *AccessService) settledGrant(order *model.PaymentOrder, paymentID string) (*model.Entitlement, error) {
	if order.Status != model.OrderStatusPaid || order.PaymentID == nil || *order.PaymentID != paymentID {
		return nil, ErrDuplicatePayment
	}
	e, err := s.entRepo.Get(order.UserID, order.ProviderID)
	if err != nil {
		return nil, err
	}
	if e == nil || e.PaymentID == nil || *e.PaymentID != paymentID {
		// a later grant replaced it, or the write never landed
		return nil, ErrDuplicatePayment
	}
	return e, nil
}

// reconcile flags a captured payment whose grant could not be written.
func (s *AccessService) reconcile(ctx context.Context, order *model.PaymentOrder, paymentID string, cause error) error {
	metrics.ReconciliationTotal.Inc()
	log.Ctx(ctx).Error().Err(cause).
		Bool("reconcile", true).
		Int64("user_id", order.UserID).
		Int64("provider_id", order.ProviderID).
		Str("order_id", order.OrderID).
		Str("payment_id", paymentID).
		Str("tier_id", order.TierID).
		Msg("payment captured but connection not recorded")

	if _, err := s.orderRepo.Transition(order.OrderID, []string{model.OrderStatusPaid},
		model.OrderStatusNeedsReconciliation, truncate(cause.Error(), 500)); err != nil {
		log.Ctx(ctx).Error().Err(err).Bool("reconcile", true).Str("order_id", order.OrderID).
			Msg("failed to flag order for reconciliation")
	}
	return ErrWriteFailed
}

func (s *AccessService) failOrder(ctx context.Context, order *model.PaymentOrder, reason string) error {
	metrics.PaymentOutcomesTotal.WithLabelValues("failed").Inc()
	if _, err := s.orderRepo.Transition(order.OrderID, claimableStatuses, model.OrderStatusFailed, truncate(reason, 500)); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("order_id", order.OrderID).Msg("failed to mark order failed")
	}
	return fmt.Errorf("%w: %s", ErrPaymentFailed, reason)
}

// CancelCheckout records a checkout the user dismissed or the gateway
// declined. A cancellation returns nil so the client goes back to tier
// selection; a failure returns ErrPaymentFailed with the reason.
func (s *AccessService) CancelCheckout(ctx context.Context, userID, providerID int64, req *dto.CheckoutOutcomeRequest) error {
	if userID == 0 {
		return ErrNotAuthenticated
	}
	order, err := s.ownOrder(userID, providerID, req.OrderID)
	if err != nil {
		return err
	}

	if req.Outcome == dto.OutcomeFailed {
		reason := req.Reason
		if reason == "" {
			reason = "payment was declined"
		}
		return s.failOrder(ctx, order, reason)
	}

	metrics.PaymentOutcomesTotal.WithLabelValues("cancelled").Inc()
	if _, err := s.orderRepo.Transition(order.OrderID, []string{model.OrderStatusCreated}, model.OrderStatusCancelled, ""); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("order_id", order.OrderID).Msg("failed to mark order cancelled")
	}
	return nil
}

// FreeGrant grants the free fallback tier. It never extends access the user
// already holds.
func (s *AccessService) FreeGrant(ctx context.Context, userID, providerID int64) (*model.Entitlement, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	if err := s.requireProvider(providerID); err != nil {
		return nil, err
	}

	snap, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !snap.FreeOffered() {
		return nil, ErrInvalidTier
	}

	existing, err := s.entRepo.Get(userID, providerID)
	if err != nil {
		return nil, err
	}
	if entitlement.Evaluate(existing, s.now()).Active() {
		return existing, nil
	}

	tier := snap.FreeTier()
	e, err := s.record(ctx, userID, providerID, &tier, nil, grantSourceFree)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return e, nil
}

// record writes a fresh grant and fires the best-effort side effects.
func (s *AccessService) record(ctx context.Context, userID, providerID int64, tier *model.AccessTier, paymentID *string, source string) (*model.Entitlement, error) {
	e, err := entitlement.New(userID, providerID, tier, paymentID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.entRepo.Upsert(e); err != nil {
		return nil, err
	}

	metrics.GrantsTotal.WithLabelValues(e.AccessType, source).Inc()
	log.Ctx(ctx).Info().
		Int64("user_id", userID).
		Int64("provider_id", providerID).
		Str("access_type", e.AccessType).
		Str("source", source).
		Msg("connection granted")

	s.publish(ctx, pubsub.EventGranted, e)
	if s.notifier != nil {
		s.notifier.ConnectionGranted(ctx, e)
	}
	return e, nil
}

func (s *AccessService) publish(ctx context.Context, eventType string, e *model.Entitlement) {
	update := &pubsub.EntitlementUpdate{
		Type:            eventType,
		UserID:          e.UserID,
		ProviderID:      e.ProviderID,
		AccessType:      e.AccessType,
		ExpiresAt:       e.ExpiresAt,
		ReviewRequested: e.ReviewRequested,
	}
	if eventType != pubsub.EventRevoked {
		grantedAt := e.GrantedAt
		update.GrantedAt = &grantedAt
	}

	if s.publisher == nil {
		s.broker.Publish(update)
		return
	}
	if err := s.publisher.PublishEntitlement(ctx, update); err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Int64("user_id", e.UserID).
			Int64("provider_id", e.ProviderID).
			Msg("failed to publish entitlement update")
	}
}

// Subscribe streams changes to the (user, provider) record. The returned
// cancel func must be called once the caller stops listening.
func (s *AccessService) Subscribe(userID, providerID int64) (<-chan *pubsub.EntitlementUpdate, func()) {
	return s.broker.Subscribe(userID, providerID)
}

// ListConnections returns the user's connections with evaluated states.
func (s *AccessService) ListConnections(ctx context.Context, userID int64) ([]*dto.ConnectionItem, error) {
	list, err := s.entRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]*dto.ConnectionItem, 0, len(list))
	for _, e := range list {
		state := s.observe(ctx, e, now)
		item := &dto.ConnectionItem{Access: accessView(e.ProviderID, e, state)}
		if e.Provider != nil {
			item.Provider = toProviderCard(e.Provider)
		}
		items = append(items, item)
	}
	return items, nil
}

// AdminList lists stored grants for the back-office. It does not trigger
// review solicitation.
func (s *AccessService) AdminList(filter repository.EntitlementFilter, page, pageSize int) ([]*dto.AdminConnectionItem, int64, error) {
	list, total, err := s.entRepo.List(filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	items := make([]*dto.AdminConnectionItem, 0, len(list))
	for _, e := range list {
		items = append(items, &dto.AdminConnectionItem{
			UserID:          e.UserID,
			ProviderID:      e.ProviderID,
			AccessType:      e.AccessType,
			GrantedAt:       e.GrantedAt,
			ExpiresAt:       e.ExpiresAt,
			PaymentID:       e.PaymentID,
			ReviewRequested: e.ReviewRequested,
			State:           string(entitlement.Evaluate(e, now).Kind),
		})
	}
	return items, total, nil
}

// AdminDelete hard-deletes a grant.
func (s *AccessService) AdminDelete(ctx context.Context, userID, providerID int64) error {
	existed, err := s.entRepo.Delete(userID, providerID)
	if err != nil {
		return err
	}
	if !existed {
		return ErrConnectionNotFound
	}

	log.Ctx(ctx).Info().Int64("user_id", userID).Int64("provider_id", providerID).Msg("connection revoked by admin")
	s.publish(ctx, pubsub.EventRevoked, &model.Entitlement{UserID: userID, ProviderID: providerID})
	return nil
}

// AdminListOrders lists payment orders, e.g. those needing reconciliation.
func (s *AccessService) AdminListOrders(status string, page, pageSize int) ([]*model.PaymentOrder, int64, error) {
	return s.orderRepo.List(status, page, pageSize)
}

func (s *AccessService) requireProvider(providerID int64) error {
	p, err := s.providerRepo.GetByID(providerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProviderNotFound
		}
		return err
	}
	if p.Status != model.ProviderStatusApproved {
		return ErrProviderNotFound
	}
	return nil
}

func (s *AccessService) ownOrder(userID, providerID int64, orderID string) (*model.PaymentOrder, error) {
	order, err := s.orderRepo.GetByOrderID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID || order.ProviderID != providerID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// accessView renders an evaluated state for clients.
func accessView(providerID int64, e *model.Entitlement, state entitlement.State) *dto.AccessView {
	view := &dto.AccessView{
		ProviderID: providerID,
		State:      string(state.Kind),
	}
	if e != nil {
		grantedAt := e.GrantedAt
		view.AccessType = e.AccessType
		view.GrantedAt = &grantedAt
		view.ExpiresAt = e.ExpiresAt
	}

	switch state.Kind {
	case entitlement.ActiveLifetime:
		view.Lifetime = true
		view.CallToAction = dto.ActionNone
	case entitlement.ActiveTimed:
		view.RemainingSeconds = int64(state.Remaining / time.Second)
		view.Remaining = formatRemaining(state.Remaining)
		view.CallToAction = dto.ActionNone
	case entitlement.Expired:
		view.CallToAction = dto.ActionRenew
	default:
		view.CallToAction = dto.ActionChooseTier
	}
	return view
}

// formatRemaining renders d as e.g. "2d 3h", "5h 10m" or "12m".
func formatRemaining(d time.Duration) string {
	if d < time.Minute {
		return "less than a minute"
	}
	days := int(d / entitlement.Day)
	hours := int((d % entitlement.Day) / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
