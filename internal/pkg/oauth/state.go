package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	stateKeyPrefix = "oauth:state:"
	stateTTL       = 10 * time.Minute
)

var ErrInvalidState = errors.New("invalid or expired state")

// StateStore keeps OAuth state tokens in Redis together with the page the
// user should land on after sign-in.
type StateStore struct {
	rdb *redis.Client
}

func NewStateStore(rdb *redis.Client) *StateStore {
	return &StateStore{rdb: rdb}
}

// StateData is stored under each state token.
type StateData struct {
	// ReturnTo is the relative path to resume, e.g. /providers/12?connect=1
	ReturnTo string `json:"return_to"`
}

// GenerateState creates a random state token bound to data.
func (s *StateStore) GenerateState(ctx context.Context, data StateData) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random state: %w", err)
	}
	state := hex.EncodeToString(buf)

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal state data: %w", err)
	}

	if err := s.rdb.Set(ctx, stateKeyPrefix+state, payload, stateTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}

	return state, nil
}

// ValidateState consumes the state token and returns its data.
// A token can be redeemed once.
func (s *StateStore) ValidateState(ctx context.Context, state string) (*StateData, error) {
	if state == "" {
		return nil, fmt.Errorf("empty state parameter")
	}

	key := stateKeyPrefix + state

	var raw string
	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return ErrInvalidState
		}
		if err != nil {
			return fmt.Errorf("failed to get state: %w", err)
		}
		raw = val

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)
	if err != nil {
		return nil, err
	}

	var data StateData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("failed to decode state data: %w", err)
	}
	return &data, nil
}
