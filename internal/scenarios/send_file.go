package scenarios

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/toasty/internal/core/notify"
)

const sendStepPercent = 5

// SendFile simulates a cancelable transfer. Its notification carries a
// Cancel action that pauses the transfer and asks for confirmation.
type SendFile struct {
	n       Notifier
	confirm Confirmer
	timing  Timing
	log     zerolog.Logger

	id       uuid.UUID
	paused   atomic.Bool
	canceled atomic.Bool
	asking   atomic.Bool

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

func NewSendFile(n Notifier, confirm Confirmer, timing Timing, log zerolog.Logger) *SendFile {
	return &SendFile{
		n:       n,
		confirm: confirm,
		timing:  timing,
		log:     log,
		id:      notify.NewID(),
	}
}

// ID is the id of the transfer notification.
func (s *SendFile) ID() uuid.UUID {
	return s.id
}

// Paused reports whether the transfer waits for a confirmation.
func (s *SendFile) Paused() bool {
	return s.paused.Load()
}

// Run performs the transfer. It returns ErrSendCanceled when the user
// confirmed cancellation and ctx.Err() when ctx ended first.
func (s *SendFile) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.ctx, s.cancel = ctx, cancel
	s.mu.Unlock()

	req := s.n.Defaults().NewRequest()
	req.ID = s.id
	req.Message = "Sending file..."
	req.InProgress = true
	req.Progress = notify.Indeterminate
	req.Duration = 0
	s.n.Show(s.withCancelAction(req))

	s.update("Establishing connection...", notify.Indeterminate)
	if err := sleep(runCtx, s.timing.ConnectDelay); err != nil {
		return s.stop(ctx)
	}

	for pct := 0; pct <= 100; pct += sendStepPercent {
		if err := s.waitWhilePaused(runCtx); err != nil {
			return s.stop(ctx)
		}
		if s.canceled.Load() {
			return s.stop(ctx)
		}

		s.update(fmt.Sprintf("Sending file... %d%%", pct), float64(pct))

		if err := sleep(runCtx, s.timing.SendStep); err != nil {
			return s.stop(ctx)
		}
	}

	// A confirmation may still be open after the last step.
	if err := s.waitWhilePaused(runCtx); err != nil || s.canceled.Load() {
		return s.stop(ctx)
	}

	s.finish("File sent successfully!", notify.LevelSuccess)
	return nil
}

// RequestCancel pauses the transfer and asks for confirmation in the
// background. Confirming cancels the transfer; declining resumes it. It is
// the handler of the Cancel action.
func (s *SendFile) RequestCancel() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	if ctx == nil || s.canceled.Load() || !s.asking.CompareAndSwap(false, true) {
		return
	}
	s.paused.Store(true)

	go func() {
		defer s.asking.Store(false)

		ok, err := s.confirm.Confirm(ctx, "Cancel sending?", "The file transfer will stop and cannot be resumed.")
		if err != nil {
			s.log.Debug().Err(err).Msg("cancel confirmation failed, resuming")
		}
		if ok && err == nil {
			s.Cancel()
		}
		s.paused.Store(false)
	}()
}

// Cancel stops the transfer without asking.
func (s *SendFile) Cancel() {
	if !s.canceled.CompareAndSwap(false, true) {
		return
	}

	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// stop ends the run after its context ended, either by cancellation or by
// the parent.
func (s *SendFile) stop(parent context.Context) error {
	if s.canceled.Load() {
		s.finish("Send canceled.", notify.LevelWarning)
		return ErrSendCanceled
	}

	s.n.Dismiss(s.id)
	return parent.Err()
}

func (s *SendFile) waitWhilePaused(ctx context.Context) error {
	for s.paused.Load() {
		if err := sleep(ctx, s.timing.PausePoll); err != nil {
			return err
		}
	}
	return nil
}

func (s *SendFile) update(message string, progress float64) {
	req := s.n.Defaults().UpdateRequest(s.id)
	req.Message = message
	req.InProgress = true
	req.Progress = progress
	req.Duration = 0
	s.n.Update(s.withCancelAction(req))
}

func (s *SendFile) finish(message string, level notify.Level) {
	req := s.n.Defaults().UpdateRequest(s.id)
	req.Message = message
	req.Level = level
	req.Progress = 100
	req.Duration = s.timing.ResultDuration
	s.n.Update(req)
}

func (s *SendFile) withCancelAction(req notify.Request) notify.Request {
	req.Closable = false
	req.ActionText = "Cancel"
	req.Action = s.RequestCancel
	return req
}
