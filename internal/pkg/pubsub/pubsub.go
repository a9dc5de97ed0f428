package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelEntitlementUpdates = "entitlement_updates"
)

// Update event types
const (
	EventGranted         = "granted"
	EventReviewRequested = "review_requested"
	EventRevoked         = "revoked"
)

// EntitlementUpdate is published whenever the record at (user, provider) changes.
type EntitlementUpdate struct {
	Type            string     `json:"type"`
	UserID          int64      `json:"user_id"`
	ProviderID      int64      `json:"provider_id"`
	AccessType      string     `json:"access_type,omitempty"`
	GrantedAt       *time.Time `json:"granted_at,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	ReviewRequested bool       `json:"review_requested"`
}

// Publisher Redis publisher
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishEntitlement publishes an entitlement change to every server instance.
func (p *Publisher) PublishEntitlement(ctx context.Context, msg *EntitlementUpdate) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal entitlement update: %w", err)
	}

	return p.client.Publish(ctx, ChannelEntitlementUpdates, data).Err()
}

// Subscriber Redis subscriber
type Subscriber struct {
	client *redis.Client
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe blocks until ctx is cancelled, passing every update to handler.
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*EntitlementUpdate)) error {
	pubsub := s.client.Subscribe(ctx, ChannelEntitlementUpdates)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var update EntitlementUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
				continue // skip malformed payloads
			}

			handler(&update)
		}
	}
}
