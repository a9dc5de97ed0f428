package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Notification job kinds
const (
	JobConnectionUser     = "connection_user"
	JobConnectionProvider = "connection_provider"
	JobConnectionOperator = "connection_operator"
)

type Queue struct {
	client    *redis.Client
	queueName string
}

// NotificationJob is one email to send after a connection is granted.
type NotificationJob struct {
	Kind         string     `json:"kind"`
	To           string     `json:"to"`
	UserID       int64      `json:"user_id"`
	UserName     string     `json:"user_name"`
	ProviderID   int64      `json:"provider_id"`
	ProviderName string     `json:"provider_name"`
	AccessType   string     `json:"access_type"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	PaymentID    string     `json:"payment_id,omitempty"`
	Attempt      int        `json:"attempt"`
}

func NewQueue(client *redis.Client, queueName string) *Queue {
	return &Queue{
		client:    client,
		queueName: queueName,
	}
}

// Push enqueues a job.
func (q *Queue) Push(ctx context.Context, msg *NotificationJob) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return q.client.LPush(ctx, q.queueName, data).Err()
}

// Pop blocks for up to timeout. A nil job with nil error means the wait timed out.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*NotificationJob, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var msg NotificationJob
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	return &msg, nil
}

// Length returns the number of queued jobs.
func (q *Queue) Length(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}
