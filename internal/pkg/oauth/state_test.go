package oauth

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func TestStateStore_GenerateState(t *testing.T) {
	rdb, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStateStore(rdb)

	state, err := store.GenerateState(context.Background(), StateData{ReturnTo: "/"})
	require.NoError(t, err)
	assert.Len(t, state, 64)
}

func TestStateStore_ValidateState_ReturnsIntent(t *testing.T) {
	rdb, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStateStore(rdb)
	ctx := context.Background()

	state, err := store.GenerateState(ctx, StateData{ReturnTo: "/providers/12?connect=1"})
	require.NoError(t, err)

	data, err := store.ValidateState(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "/providers/12?connect=1", data.ReturnTo)
}

func TestStateStore_ValidateState_Consumed(t *testing.T) {
	rdb, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStateStore(rdb)
	ctx := context.Background()

	state, err := store.GenerateState(ctx, StateData{})
	require.NoError(t, err)

	_, err = store.ValidateState(ctx, state)
	require.NoError(t, err)

	_, err = store.ValidateState(ctx, state)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStateStore_ValidateState_Invalid(t *testing.T) {
	rdb, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStateStore(rdb)

	_, err := store.ValidateState(context.Background(), "invalid-state")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = store.ValidateState(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty state")
}

func TestStateStore_GenerateState_Unique(t *testing.T) {
	rdb, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStateStore(rdb)
	ctx := context.Background()

	states := make(map[string]bool)
	for i := 0; i < 50; i++ {
		state, err := store.GenerateState(ctx, StateData{})
		require.NoError(t, err)
		assert.False(t, states[state], "duplicate state generated")
		states[state] = true
	}
}
