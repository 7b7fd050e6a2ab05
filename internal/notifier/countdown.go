package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/colonyops/toasty/internal/core/notify"
)

var ErrInvalidArgument = errors.New("invalid argument")

// DefaultCountdownInterval is the tick interval used when callers have no
// preference.
const DefaultCountdownInterval = time.Second

const defaultCancelMessage = "Countdown canceled."

// latch states for the one-shot terminal transition.
const (
	latchPending int32 = iota
	latchFinalizing
	latchDone
)

// CountdownNotification controls a notification created by
// Service.ShowCountdown. Exactly one of timer expiry, Cancel, and Complete
// emits the terminal update.
type CountdownNotification struct {
	id                uuid.UUID
	service           *Service
	title             string
	level             notify.Level
	completionMessage string
	duration          time.Duration
	interval          time.Duration
	startedAt         time.Time

	state atomic.Int32
	// emitMu orders tick updates against the terminal update so no tick
	// lands after it.
	emitMu sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// ShowCountdown shows a notification that counts down from duration,
// updating every interval, and emits completionMessage when it reaches zero.
func (s *Service) ShowCountdown(title string, duration time.Duration, level notify.Level, completionMessage string, interval time.Duration) (*CountdownNotification, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("countdown duration must be positive, got %s: %w", duration, ErrInvalidArgument)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("countdown interval must be positive, got %s: %w", interval, ErrInvalidArgument)
	}
	if level == "" {
		level = notify.LevelInfo
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &CountdownNotification{
		id:                notify.NewID(),
		service:           s,
		title:             title,
		level:             level,
		completionMessage: completionMessage,
		duration:          duration,
		interval:          interval,
		startedAt:         time.Now(),
		cancel:            cancel,
		done:              make(chan struct{}),
	}

	req := s.defaults.NewRequest()
	req.ID = c.id
	req.Level = level
	req.Message = FormatCountdown(title, duration)
	req.InProgress = true
	req.Progress = 0
	req.Duration = 0
	s.Show(req)

	go c.run(ctx)

	return c, nil
}

func (c *CountdownNotification) ID() uuid.UUID {
	return c.id
}

// Done is closed once the countdown has reached a terminal state.
func (c *CountdownNotification) Done() <-chan struct{} {
	return c.done
}

// Cancel stops the countdown and shows message. A blank message uses a
// default. It is a no-op once the countdown has finished.
func (c *CountdownNotification) Cancel(message string) {
	if message == "" {
		message = defaultCancelMessage
	}
	req := c.service.defaults.UpdateRequest(c.id)
	req.Message = message
	req.Level = notify.LevelWarning
	c.finalize(req)
}

// Complete finishes the countdown early. A blank message uses the
// completion message. It is a no-op once the countdown has finished.
func (c *CountdownNotification) Complete(message string) {
	if message == "" {
		message = c.completionMessage
	}
	c.finalize(c.completionRequest(message))
}

func (c *CountdownNotification) completionRequest(message string) notify.Request {
	req := c.service.defaults.UpdateRequest(c.id)
	req.Message = message
	req.Level = notify.LevelSuccess
	req.Progress = 100
	return req
}

// finalize emits req as the terminal update if no other caller got there
// first.
func (c *CountdownNotification) finalize(req notify.Request) bool {
	if !c.state.CompareAndSwap(latchPending, latchFinalizing) {
		return false
	}

	c.cancel()

	req.InProgress = false

	c.emitMu.Lock()
	c.service.Update(req)
	c.emitMu.Unlock()

	c.state.Store(latchDone)
	close(c.done)
	return true
}

func (c *CountdownNotification) run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			elapsed := now.Sub(c.startedAt)
			remaining := c.duration - elapsed
			if remaining <= 0 {
				c.finalize(c.completionRequest(c.completionMessage))
				return
			}

			if !c.tick(elapsed, remaining) {
				return
			}
		}
	}
}

func (c *CountdownNotification) tick(elapsed, remaining time.Duration) bool {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	if c.state.Load() != latchPending {
		return false
	}

	req := c.service.defaults.UpdateRequest(c.id)
	req.Message = FormatCountdown(c.title, remaining)
	req.Level = c.level
	req.InProgress = true
	req.Progress = countdownProgress(elapsed, c.duration)
	req.Duration = 0
	c.service.Update(req)
	return true
}

func countdownProgress(elapsed, total time.Duration) float64 {
	p := float64(elapsed) / float64(total) * 100
	return min(max(p, 0), 100)
}

// FormatCountdown renders "title (MM:SS remaining)", switching to
// HH:MM:SS once at least an hour remains. Remaining time is floored to
// whole seconds and never negative.
func FormatCountdown(title string, remaining time.Duration) string {
	secs := max(int64(remaining/time.Second), 0)

	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60

	if h > 0 {
		return fmt.Sprintf("%s (%02d:%02d:%02d remaining)", title, h, m, s)
	}
	return fmt.Sprintf("%s (%02d:%02d remaining)", title, m, s)
}
