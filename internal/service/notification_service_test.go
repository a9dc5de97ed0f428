package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevalink/marketplace_server/config"
	"github.com/sevalink/marketplace_server/internal/model"
	"github.com/sevalink/marketplace_server/internal/pkg/queue"
	"github.com/sevalink/marketplace_server/internal/pkg/ws"
	"github.com/sevalink/marketplace_server/internal/repository"
	"github.com/sevalink/marketplace_server/internal/testutil"
)

type fakeJobQueue struct {
	jobs []*queue.NotificationJob
	err  error
}

func (q *fakeJobQueue) Push(ctx context.Context, job *queue.NotificationJob) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type fakePusher struct {
	sent map[int64][]*ws.Message
	err  error
}

func (p *fakePusher) SendToUser(userID int64, msg *ws.Message) error {
	if p.err != nil {
		return p.err
	}
	if p.sent == nil {
		p.sent = make(map[int64][]*ws.Message)
	}
	p.sent[userID] = append(p.sent[userID], msg)
	return nil
}

func TestNotificationService_ConnectionGranted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	jobs := &fakeJobQueue{}
	service := NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewUserRepository(db),
		repository.NewProviderRepository(db),
		jobs,
		&config.SiteConfig{Name: "Sevalink", OperatorEmail: "ops@example.com"},
	)

	category := testutil.TestCategory(t, db)
	provider := testutil.TestProvider(t, db, category.ID)
	user := testutil.TestUser(t, db, testutil.WithName("Priya"), testutil.WithEmail("priya@example.com"))

	expires := time.Now().UTC().Add(7 * 24 * time.Hour)
	service.ConnectionGranted(context.Background(), &model.Entitlement{
		UserID:     user.ID,
		ProviderID: provider.ID,
		AccessType: model.TierSevenDay,
		ExpiresAt:  &expires,
		PaymentID:  testutil.StringPtr("pay_1"),
	})

	require.Len(t, jobs.jobs, 3)
	recipients := map[string]string{}
	for _, job := range jobs.jobs {
		recipients[job.Kind] = job.To
		assert.Equal(t, "Priya", job.UserName)
		assert.Equal(t, provider.BusinessName, job.ProviderName)
		assert.Equal(t, "pay_1", job.PaymentID)
	}
	assert.Equal(t, "priya@example.com", recipients[queue.JobConnectionUser])
	assert.Equal(t, provider.Email, recipients[queue.JobConnectionProvider])
	assert.Equal(t, "ops@example.com", recipients[queue.JobConnectionOperator])

	inbox, total, unread, err := service.List(provider.UserID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(1), unread)
	assert.Equal(t, model.NotificationNewConnection, inbox[0].Type)
	assert.Contains(t, inbox[0].Body, "Priya")

	require.NoError(t, service.MarkRead(provider.UserID, inbox[0].ID))
	require.NoError(t, service.MarkRead(provider.UserID, inbox[0].ID))
	_, _, unread, err = service.List(provider.UserID, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, unread)

	assert.ErrorIs(t, service.MarkRead(user.ID, inbox[0].ID), ErrNotificationNotFound)
}

func TestNotificationService_QueueFailureIsSwallowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewUserRepository(db),
		repository.NewProviderRepository(db),
		&fakeJobQueue{err: errors.New("redis down")},
		&config.SiteConfig{},
	)

	category := testutil.TestCategory(t, db)
	provider := testutil.TestProvider(t, db, category.ID)
	user := testutil.TestUser(t, db)

	assert.NotPanics(t, func() {
		service.ConnectionGranted(context.Background(), &model.Entitlement{UserID: user.ID, ProviderID: provider.ID, AccessType: model.TierLifetime})
		service.ConnectionGranted(context.Background(), &model.Entitlement{UserID: 99999, ProviderID: provider.ID})
	})

	inbox, _, _, err := service.List(provider.UserID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, inbox, 1)
}

func TestNotificationService_PushesInboxEntries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewUserRepository(db),
		repository.NewProviderRepository(db),
		nil,
		&config.SiteConfig{},
	)
	pusher := &fakePusher{}
	service.SetPusher(pusher)

	category := testutil.TestCategory(t, db)
	provider := testutil.TestProvider(t, db, category.ID)
	user := testutil.TestUser(t, db, testutil.WithName("Ravi"))

	service.ConnectionGranted(context.Background(), &model.Entitlement{UserID: user.ID, ProviderID: provider.ID, AccessType: model.TierLifetime})

	require.Len(t, pusher.sent[provider.UserID], 1)
	msg := pusher.sent[provider.UserID][0]
	assert.Equal(t, ws.MessageNotification, msg.Type)
	n, ok := msg.Data.(*model.Notification)
	require.True(t, ok)
	assert.NotZero(t, n.ID)
	assert.Equal(t, model.NotificationNewConnection, n.Type)
	assert.Contains(t, n.Body, "Ravi")
	assert.Empty(t, pusher.sent[user.ID])

	// offline users still get the inbox entry
	pusher.err = errors.New("user not online")
	service.ReviewReceived(context.Background(), provider, 5)
	inbox, total, _, err := service.List(provider.UserID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, model.NotificationProviderReview, inbox[0].Type)
}
