// Package dispatch provides the affinity context: a single execution context
// on which all visual mutations run.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrLoopStopped = errors.New("dispatch loop stopped")
	ErrLoopRunning = errors.New("dispatch loop already running")
)

// Func is a unit of work run on the affinity context.
type Func func(ctx context.Context) error

// Dispatcher runs work on its affinity context and waits for the result.
// Implementations run fn inline when ctx already belongs to the context.
type Dispatcher interface {
	RunOn(ctx context.Context, fn Func) error
}

// Inline runs work directly on the calling goroutine.
type Inline struct{}

func (Inline) RunOn(ctx context.Context, fn Func) error {
	return fn(ctx)
}

type affinityKey struct{}

type task struct {
	ctx    context.Context
	fn     Func
	result chan error
}

// Loop is a single goroutine event loop. Work submitted with RunOn executes
// one item at a time in submission order.
type Loop struct {
	tasks   chan task
	done    chan struct{}
	started atomic.Bool
}

func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan task),
		done:  make(chan struct{}),
	}
}

// Run executes submitted work until ctx is canceled. It may only be called once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-l.tasks:
			t.result <- l.exec(t)
		}
	}
}

// HasAccess reports whether ctx was handed out by this loop, meaning the
// caller is already running on it.
func (l *Loop) HasAccess(ctx context.Context) bool {
	owner, _ := ctx.Value(affinityKey{}).(*Loop)
	return owner == l
}

// RunOn runs fn on the loop and waits for it to return. Errors and panics
// raised by fn are returned to the caller.
func (l *Loop) RunOn(ctx context.Context, fn Func) error {
	if l.HasAccess(ctx) {
		return fn(ctx)
	}

	result := make(chan error, 1)
	select {
	case l.tasks <- task{ctx: ctx, fn: fn, result: result}:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopStopped
	}

	return <-result
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) exec(t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dispatch: panic: %v", r)
		}
	}()

	return t.fn(context.WithValue(t.ctx, affinityKey{}, l))
}
