// Package notify fans notifications out to a user's accepted friends in the
// background so request handlers do not block on the writes.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hungertracker/hungerd/internal/logging"
	"github.com/hungertracker/hungerd/internal/models"
)

// FriendLister resolves the accepted friends of a user.
type FriendLister interface {
	AcceptedFriendIDs(ctx context.Context, userID string) ([]string, error)
}

// NotificationWriter persists notification rows.
type NotificationWriter interface {
	Create(ctx context.Context, notification models.Notification) error
}

// FanoutConfig controls the concurrency characteristics of the fanout worker.
type FanoutConfig struct {
	QueueSize int
	Workers   int
}

// Fanout delivers notifications to friends asynchronously.
type Fanout struct {
	friends FriendLister
	writer  NotificationWriter
	logger  *slog.Logger

	jobs   chan job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

type job struct {
	actorID          string
	notificationType string
	content          string
	// directTo, when set, targets a single user instead of the actor's friends.
	directTo string
}

var errFanoutClosed = errors.New("notification fanout closed")

// NewFanout constructs a background worker pool that writes notifications.
func NewFanout(friends FriendLister, writer NotificationWriter, cfg FanoutConfig, logger *slog.Logger) *Fanout {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	f := &Fanout{
		friends: friends,
		writer:  writer,
		logger:  logger,
		jobs:    make(chan job, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	f.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go f.worker()
	}

	return f
}

// NotifyFriends schedules a notification for every accepted friend of the actor.
func (f *Fanout) NotifyFriends(ctx context.Context, actorID, notificationType, content string) error {
	return f.enqueue(ctx, job{actorID: actorID, notificationType: notificationType, content: content})
}

// NotifyUser schedules a notification for a single user.
func (f *Fanout) NotifyUser(ctx context.Context, userID, notificationType, content string) error {
	return f.enqueue(ctx, job{directTo: userID, notificationType: notificationType, content: content})
}

// enqueue buffers a job for the worker pool. It holds a read lock for the
// duration of the send so Shutdown's write lock can only be taken once every
// accepted job has reached the queue: anything enqueue returns nil for is
// guaranteed to be delivered before Shutdown completes.
func (f *Fanout) enqueue(ctx context.Context, j job) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return errFanoutClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case f.jobs <- j:
		return nil
	}
}

// Shutdown stops accepting new jobs and waits for the worker pool to drain
// everything already queued. The jobs channel is never closed, so a producer
// racing the shutdown sees errFanoutClosed rather than a panic.
func (f *Fanout) Shutdown(ctx context.Context) error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()

	f.cancel()

	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (f *Fanout) worker() {
	defer f.wg.Done()

	for {
		select {
		case j := <-f.jobs:
			f.process(j)
		case <-f.ctx.Done():
			// Cancellation stops intake, not delivery: empty the queue
			// before exiting so accepted jobs are not dropped.
			for {
				select {
				case j := <-f.jobs:
					f.process(j)
				default:
					return
				}
			}
		}
	}
}

func (f *Fanout) process(j job) {
	// Jobs run on their own context so queued work survives the
	// originating request.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	f.deliver(ctx, j)
	cancel()
}

func (f *Fanout) deliver(ctx context.Context, j job) {
	ctx, span := logging.StartSpan(ctx, "notify.deliver")
	defer span.End()

	targets := []string{j.directTo}
	if j.directTo == "" {
		ids, err := f.friends.AcceptedFriendIDs(ctx, j.actorID)
		if err != nil {
			f.logger.Error("resolve friends for notification", "actorId", j.actorID, "error", err)
			return
		}
		targets = ids
	}

	now := time.Now().UTC()
	for _, target := range targets {
		n := models.Notification{
			ID:        uuid.NewString(),
			UserID:    target,
			Type:      j.notificationType,
			Content:   j.content,
			CreatedAt: now,
		}
		if err := f.writer.Create(ctx, n); err != nil {
			f.logger.Error("write notification", "userId", target, "type", j.notificationType, "error", err)
		}
	}
}
