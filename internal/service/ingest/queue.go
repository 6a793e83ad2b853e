package ingest

import (
	"context"
	"errors"
	"sync"

	"github.com/sandevgo/chatlens/internal/core"
	"github.com/sandevgo/chatlens/pkg/log"
)

const DefaultSize = 256

var (
	ErrQueueFull = errors.New("ingest queue is full")
	ErrClosed    = errors.New("ingest queue is closed")
)

// Sink receives messages in arrival order, one call at a time per chat.
type Sink func(ctx context.Context, chatID string, msg core.Message)

// Queue serializes submissions per conversation. Each chat gets a bounded
// lane drained by its own worker; a full lane rejects new messages
// instead of blocking the caller.
type Queue struct {
	size int
	sink Sink

	mu     sync.Mutex
	lanes  map[string]chan core.Message
	closed bool
	wg     sync.WaitGroup
	base   context.Context
}

func New(size int, sink Sink) *Queue {
	if size <= 0 {
		size = DefaultSize
	}
	return &Queue{
		size:  size,
		sink:  sink,
		lanes: make(map[string]chan core.Message),
		base:  context.Background(),
	}
}

// Enqueue hands msg to the chat's worker without waiting for it to be stored.
func (q *Queue) Enqueue(ctx context.Context, chatID string, msg core.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}

	lane, ok := q.lanes[chatID]
	if !ok {
		lane = make(chan core.Message, q.size)
		q.lanes[chatID] = lane
		q.wg.Add(1)
		go q.work(log.WithChat(q.workerContext(ctx), chatID), chatID, lane)
	}

	select {
	case lane <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// workerContext outlives the request that created the lane but keeps its logger.
func (q *Queue) workerContext(ctx context.Context) context.Context {
	return log.FromCtx(ctx).WithContext(q.base)
}

func (q *Queue) work(ctx context.Context, chatID string, lane <-chan core.Message) {
	defer q.wg.Done()
	logger := log.FromCtx(ctx)
	logger.Debug().Msg("ingest worker started")

	for msg := range lane {
		q.sink(ctx, chatID, msg)
	}
	logger.Debug().Msg("ingest worker stopped")
}

// Pending returns the number of queued messages across all lanes.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, lane := range q.lanes {
		n += len(lane)
	}
	return n
}

// Start records the service context for workers and blocks until it ends.
func (q *Queue) Start(ctx context.Context) error {
	q.mu.Lock()
	q.base = context.WithoutCancel(ctx)
	q.mu.Unlock()

	log.FromCtx(ctx).Info().Msg("ingest queue started")
	<-ctx.Done()
	return nil
}

// Shutdown stops accepting messages and waits for the lanes to drain.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		for _, lane := range q.lanes {
			close(lane)
		}
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
