// Package notifier turns producer calls into notification requests and
// delivers them, in order, to a single consumer.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/colonyops/toasty/internal/core/dispatch"
	"github.com/colonyops/toasty/internal/core/notify"
)

var ErrQueueRunning = errors.New("notification queue already running")

// Processor applies one dequeued request.
type Processor func(ctx context.Context, req notify.Request) error

// Queue is an unbounded FIFO of requests drained by a single consumer loop.
// Each processor call is marshaled through the dispatcher and awaited before
// the next request is dequeued.
type Queue struct {
	mu        sync.Mutex
	items     []notify.Request
	processor Processor
	signal    chan struct{}

	dispatcher dispatch.Dispatcher
	log        zerolog.Logger
	running    atomic.Bool
}

// NewQueue creates a queue that runs its processor on d. A nil dispatcher
// runs the processor on the consumer goroutine.
func NewQueue(d dispatch.Dispatcher, log zerolog.Logger) *Queue {
	if d == nil {
		d = dispatch.Inline{}
	}
	return &Queue{
		items:      make([]notify.Request, 0),
		signal:     make(chan struct{}, 1),
		dispatcher: d,
		log:        log,
	}
}

// Enqueue appends req and wakes the consumer. It never blocks.
func (q *Queue) Enqueue(req notify.Request) {
	q.mu.Lock()
	q.items = append(q.items, req)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// SetProcessor installs the handler for future dequeues. Requests dequeued
// while no processor is installed are dropped.
func (q *Queue) SetProcessor(p Processor) {
	q.mu.Lock()
	q.processor = p
	q.mu.Unlock()
}

// Len returns the number of buffered requests.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Run drains the queue until ctx is canceled.
func (q *Queue) Run(ctx context.Context) error {
	if !q.running.CompareAndSwap(false, true) {
		return ErrQueueRunning
	}
	defer q.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-q.signal:
		}

		for {
			if ctx.Err() != nil {
				return nil
			}
			req, p, ok := q.pop()
			if !ok {
				break
			}
			q.process(ctx, req, p)
		}
	}
}

func (q *Queue) pop() (notify.Request, Processor, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return notify.Request{}, nil, false
	}

	req := q.items[0]
	q.items[0] = notify.Request{}
	q.items = q.items[1:]
	return req, q.processor, true
}

func (q *Queue) process(ctx context.Context, req notify.Request, p Processor) {
	if p == nil {
		q.log.Debug().Stringer("id", req.ID).Msg("no processor installed, dropping request")
		return
	}

	err := q.dispatcher.RunOn(ctx, func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("processor panic: %v", r)
			}
		}()
		return p(ctx, req)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		q.log.Error().Err(err).Stringer("id", req.ID).Msg("failed to process notification")
	}
}
