package worker

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sevalink/marketplace_server/internal/pkg/queue"
)

const (
	defaultMaxAttempts = 3
	popTimeout         = 5 * time.Second
)

// Sender delivers one notification job.
type Sender interface {
	SendNotification(job *queue.NotificationJob) error
}

// JobQueue is the notification queue the processor pops from and requeues to.
type JobQueue interface {
	Push(ctx context.Context, job *queue.NotificationJob) error
	Pop(ctx context.Context, timeout time.Duration) (*queue.NotificationJob, error)
}

type Processor struct {
	sender      Sender
	queue       JobQueue
	maxAttempts int
	backoff     func(attempt int) time.Duration
}

func NewProcessor(sender Sender, q JobQueue, maxAttempts int) *Processor {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Processor{
		sender:      sender,
		queue:       q,
		maxAttempts: maxAttempts,
		backoff: func(attempt int) time.Duration {
			return time.Duration(math.Pow(2, float64(attempt))) * time.Second
		},
	}
}

// Process sends job. Transient failures are requeued with the attempt count
// bumped until maxAttempts; everything else is dropped and returned.
func (p *Processor) Process(ctx context.Context, job *queue.NotificationJob) error {
	logger := log.With().
		Str("kind", job.Kind).
		Int64("user_id", job.UserID).
		Int64("provider_id", job.ProviderID).
		Int("attempt", job.Attempt).
		Logger()

	err := p.sender.SendNotification(job)
	if err == nil {
		logger.Info().Msg("notification sent")
		return nil
	}

	sendErr := classifySendError(err)
	if !sendErr.Transient || job.Attempt+1 >= p.maxAttempts {
		logger.Error().Err(err).Bool("transient", sendErr.Transient).Msg("notification dropped")
		return sendErr
	}

	wait := p.backoff(job.Attempt)
	select {
	case <-ctx.Done():
	case <-time.After(wait):
	}

	// requeue even after shutdown starts so the job is not lost
	retry := *job
	retry.Attempt++
	if pushErr := p.queue.Push(context.Background(), &retry); pushErr != nil {
		logger.Error().Err(pushErr).Msg("failed to requeue notification")
		return sendErr
	}
	logger.Warn().Err(err).Dur("backoff", wait).Msg("notification requeued")
	return sendErr
}

// Run starts workers goroutines popping from the queue and blocks until ctx
// is cancelled and they have all returned.
func (p *Processor) Run(ctx context.Context, workers int) {
	if workers <= 0 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			logger := log.With().Int("worker", workerID).Logger()
			for {
				if ctx.Err() != nil {
					logger.Debug().Msg("worker shutting down")
					return
				}

				job, err := p.queue.Pop(ctx, popTimeout)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					logger.Error().Err(err).Msg("failed to pop notification job")
					time.Sleep(time.Second)
					continue
				}
				if job == nil {
					continue
				}

				_ = p.Process(ctx, job)
			}
		}(i)
	}
	wg.Wait()
}
