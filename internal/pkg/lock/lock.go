package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript deletes the key only if it still holds our token, so an
// expired lock re-acquired by someone else is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Locker hands out short-lived Redis locks.
type Locker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewLocker(rdb *redis.Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Locker{rdb: rdb, ttl: ttl}
}

// TryLock attempts to take key once. ok is false when someone else holds it.
// The returned unlock func is always safe to call.
func (l *Locker) TryLock(ctx context.Context, key string) (unlock func(), ok bool, err error) {
	noop := func() {}
	token := uuid.NewString()

	ok, err = l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return noop, false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return noop, false, nil
	}

	return func() {
		_ = releaseScript.Run(context.Background(), l.rdb, []string{key}, token).Err()
	}, true, nil
}

// ReviewKey is the per-user key serializing review placeholder creation.
func ReviewKey(userID int64) string {
	return fmt.Sprintf("lock:review:%d", userID)
}
