package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevalink/marketplace_server/internal/model"
	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/repository"
	"github.com/sevalink/marketplace_server/internal/testutil"
)

func TestReviewService_SubmitUpdatesRating(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	notifications := NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewUserRepository(db),
		repository.NewProviderRepository(db),
		nil, nil,
	)
	service := NewReviewService(db, notifications)

	category := testutil.TestCategory(t, db)
	provider := testutil.TestProvider(t, db, category.ID)
	alice := testutil.TestUser(t, db, testutil.WithName("Alice"))
	bob := testutil.TestUser(t, db)

	first := testutil.TestPendingBooking(t, db, alice.ID, provider.ID)
	second := testutil.TestPendingBooking(t, db, bob.ID, provider.ID)

	pending, err := service.ListPending(alice.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].BookingID)
	require.NotNil(t, pending[0].Provider)
	assert.Equal(t, provider.ID, pending[0].Provider.ID)

	_, err = service.Submit(context.Background(), alice.ID, first.ID, &dto.SubmitReviewRequest{Rating: 5, Comment: "Great"})
	require.NoError(t, err)
	_, err = service.Submit(context.Background(), bob.ID, second.ID, &dto.SubmitReviewRequest{Rating: 2})
	require.NoError(t, err)

	updated, err := repository.NewProviderRepository(db).GetByID(provider.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.RatingCount)
	assert.InDelta(t, 3.5, updated.RatingAvg, 0.001)

	pending, err = service.ListPending(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	reviews, total, err := service.ListByProvider(provider.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	names := []string{reviews[0].UserName, reviews[1].UserName}
	assert.Contains(t, names, "Alice")

	inbox, _, unread, err := notifications.List(provider.UserID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, inbox, 2)
	assert.Equal(t, int64(2), unread)
	assert.Equal(t, model.NotificationProviderReview, inbox[0].Type)
}

func TestReviewService_SubmitRejectsOthersAndRepeats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := NewReviewService(db, nil)
	category := testutil.TestCategory(t, db)
	provider := testutil.TestProvider(t, db, category.ID)
	owner := testutil.TestUser(t, db)
	stranger := testutil.TestUser(t, db)
	booking := testutil.TestPendingBooking(t, db, owner.ID, provider.ID)

	_, err := service.Submit(context.Background(), stranger.ID, booking.ID, &dto.SubmitReviewRequest{Rating: 1})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = service.Submit(context.Background(), owner.ID, "missing", &dto.SubmitReviewRequest{Rating: 1})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = service.Submit(context.Background(), owner.ID, booking.ID, &dto.SubmitReviewRequest{Rating: 4})
	require.NoError(t, err)
	_, err = service.Submit(context.Background(), owner.ID, booking.ID, &dto.SubmitReviewRequest{Rating: 4})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
