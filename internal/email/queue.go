package email

import (
	"context"
	"errors"
	"sync"
	"time"

	"reviwa-backend/internal/logger"

	"github.com/google/uuid"
)

var (
	ErrQueueFull   = errors.New("email queue is full")
	ErrQueueClosed = errors.New("email queue is closed")
)

type job struct {
	id        string
	msg       Message
	attempts  int
	createdAt time.Time
}

// Queue delivers messages on background workers. Send only enqueues, so
// callers never wait on the mail transport. Failed deliveries are retried
// with quadratic backoff up to maxRetries times and then dropped.
type Queue struct {
	sender     Sender
	jobs       chan job
	workers    int
	maxRetries int
	backoff    func(attempt int) time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewQueue(sender Sender, workers, queueSize, maxRetries int) *Queue {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	return &Queue{
		sender:     sender,
		jobs:       make(chan job, queueSize),
		workers:    workers,
		maxRetries: maxRetries,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt*attempt) * time.Second
		},
	}
}

// Start launches the workers. They exit when ctx is cancelled or after Stop
// has drained the queue.
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
}

// Stop refuses new messages, waits for queued ones to be attempted and for
// the workers to exit.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()
	q.wg.Wait()
}

// Send enqueues msg without blocking.
func (q *Queue) Send(ctx context.Context, msg Message) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	j := job{id: uuid.NewString(), msg: msg, createdAt: time.Now()}
	select {
	case q.jobs <- j:
		logger.DebugContext(ctx, "Email enqueued", "jobID", j.id, "to", msg.To)
		return nil
	default:
		logger.WarnContext(ctx, "Email queue full, dropping message", "to", msg.To, "subject", msg.Subject)
		return ErrQueueFull
	}
}

func (q *Queue) worker(ctx context.Context, id int) {
	defer q.wg.Done()
	logger.Debug("Email worker started", "worker", id)

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Email worker stopping", "worker", id)
			return
		case j, ok := <-q.jobs:
			if !ok {
				logger.Debug("Email worker drained", "worker", id)
				return
			}
			q.process(ctx, j)
		}
	}
}

func (q *Queue) process(ctx context.Context, j job) {
	for {
		err := q.sender.Send(ctx, j.msg)
		if err == nil {
			logger.Info("Email sent", "jobID", j.id, "to", j.msg.To, "attempts", j.attempts+1)
			return
		}
		if j.attempts >= q.maxRetries {
			logger.Error("Email failed after retries", "jobID", j.id, "to", j.msg.To, "retries", q.maxRetries, "error", err)
			return
		}
		j.attempts++
		wait := q.backoff(j.attempts)
		logger.Warn("Retrying email", "jobID", j.id, "in", wait, "attempt", j.attempts, "max", q.maxRetries, "error", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
