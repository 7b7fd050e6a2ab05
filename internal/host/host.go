// Package host applies notification requests to rendered visuals and owns
// their lifecycle: creation, entry transition, updates, dismiss timers and
// exit transition.
package host

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/colonyops/toasty/internal/core/dispatch"
	"github.com/colonyops/toasty/internal/core/notify"
)

// Options configures a Host.
type Options struct {
	Anchor          Anchor              // Stack edge, defaults to AnchorBottom
	CloseTransition notify.Transition   // Exit transition for user close, defaults to slide-and-fade
	Dispatcher      dispatch.Dispatcher // Runs timer expiry and user close (optional)
	Logger          zerolog.Logger
}

// State is a snapshot of one live notification.
type State struct {
	ID         uuid.UUID
	Message    string
	Level      notify.Level
	Material   notify.Material
	Transition notify.Transition
	Closable   bool
	InProgress bool
	Progress   float64
	ActionText string
	Duration   time.Duration
}

type entry struct {
	state  State
	visual Visual
	timer  *time.Timer
	// gen invalidates timers armed before the latest restart.
	gen uint64
}

// Host maps notification ids to visuals on a Surface. Apply, timer expiry
// and Close are serialized by a host-wide gate.
type Host struct {
	surface    Surface
	anchor     Anchor
	closeTrans notify.Transition
	dispatcher dispatch.Dispatcher
	log        zerolog.Logger
	gate       *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	entries map[uuid.UUID]*entry
	order   []uuid.UUID
}

func New(surface Surface, opts Options) *Host {
	if !opts.Anchor.IsValid() {
		opts.Anchor = AnchorBottom
	}
	if !opts.CloseTransition.IsValid() {
		opts.CloseTransition = notify.TransitionSlideAndFade
	}
	if opts.Dispatcher == nil {
		opts.Dispatcher = dispatch.Inline{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Host{
		surface:    surface,
		anchor:     opts.Anchor,
		closeTrans: opts.CloseTransition,
		dispatcher: opts.Dispatcher,
		log:        opts.Logger,
		gate:       semaphore.NewWeighted(1),
		ctx:        ctx,
		cancel:     cancel,
		entries:    make(map[uuid.UUID]*entry),
	}
}

// Apply applies one request. It is the queue processor. Cancellation while
// waiting for the gate or an animation is not an error.
func (h *Host) Apply(ctx context.Context, req notify.Request) error {
	if err := h.gate.Acquire(ctx, 1); err != nil {
		return nil
	}
	defer h.gate.Release(1)

	if req.DismissRequested {
		ids := []uuid.UUID{req.ID}
		if req.IsDismissAll() {
			ids = h.IDs()
		}
		h.dismiss(ctx, ids, req.Transition)
		return nil
	}

	if req.ID == notify.AllID {
		h.log.Warn().Msg("ignoring notification without id")
		return nil
	}

	h.mu.Lock()
	e, ok := h.entries[req.ID]
	h.mu.Unlock()

	created := false
	if !ok {
		if req.IsUpdate {
			h.log.Debug().Stringer("id", req.ID).Msg("update for unknown notification")
			return nil
		}
		e = h.create(req)
		created = true
	}

	h.applyContent(e, req)
	h.restartTimer(e, req.Duration)

	if created {
		playEntry(ctx, e.visual, e.state.Transition)
	}
	return nil
}

// Close dismisses id with the close transition, as if the user pressed its
// close button. Notifications that are not closable ignore it. It returns
// immediately.
func (h *Host) Close(id uuid.UUID) {
	h.post(func(ctx context.Context) error {
		if err := h.gate.Acquire(ctx, 1); err != nil {
			return nil
		}
		defer h.gate.Release(1)

		if !h.closable(id) {
			h.log.Debug().Str("id", id.String()).Msg("close ignored")
			return nil
		}

		h.dismiss(ctx, []uuid.UUID{id}, h.closeTrans)
		return nil
	})
}

func (h *Host) closable(id uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, ok := h.entries[id]
	return ok && e.state.Closable
}

// Stop disarms every dismiss timer and drops pending callbacks. Visuals stay
// where they are.
func (h *Host) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, e := range h.entries {
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
		e.gen++
	}
}

// IDs returns the live ids in display order.
func (h *Host) IDs() []uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.order)
}

func (h *Host) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// HitTestVisible reports whether any notification is live.
func (h *Host) HitTestVisible() bool {
	return h.Len() > 0
}

// Snapshot returns the state of a live notification.
func (h *Host) Snapshot(id uuid.UUID) (State, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, ok := h.entries[id]
	if !ok {
		return State{}, false
	}
	return e.state, true
}

func (h *Host) create(req notify.Request) *entry {
	t := req.Transition
	if !t.IsValid() {
		t = notify.TransitionSlideAndFade
	}

	v := h.surface.CreateVisual(req.ID)
	initialPose(v, t)
	v.SetSeverity(notify.LevelInfo)
	v.SetBackground(notify.MaterialAcrylic)
	v.SetOpen(true)

	e := &entry{
		visual: v,
		state: State{
			ID:         req.ID,
			Level:      notify.LevelInfo,
			Material:   notify.MaterialAcrylic,
			Transition: t,
		},
	}

	atHead := h.anchor == AnchorTop
	h.surface.Insert(v, atHead)

	h.mu.Lock()
	h.entries[req.ID] = e
	if atHead {
		h.order = slices.Insert(h.order, 0, req.ID)
	} else {
		h.order = append(h.order, req.ID)
	}
	h.mu.Unlock()

	h.surface.SetHitTestVisible(true)
	h.log.Debug().Stringer("id", req.ID).Str("transition", string(t)).Msg("notification created")
	return e
}

func (h *Host) applyContent(e *entry, req notify.Request) {
	v := e.visual

	h.mu.Lock()
	defer h.mu.Unlock()

	if req.Level.IsValid() {
		e.state.Level = req.Level
		v.SetSeverity(req.Level)
	}
	if req.Material.IsValid() {
		e.state.Material = req.Material
		v.SetBackground(req.Material)
	}
	if req.Transition.IsValid() {
		e.state.Transition = req.Transition
	}
	if strings.TrimSpace(req.Message) != "" {
		e.state.Message = req.Message
		v.SetMessage(req.Message)
	}

	progress := req.Progress
	if progress < 0 {
		progress = notify.Indeterminate
	} else {
		progress = min(progress, 100)
	}
	e.state.InProgress = req.InProgress
	e.state.Progress = progress
	v.SetProgress(req.InProgress, progress)

	e.state.Closable = req.Closable
	v.SetClosable(req.Closable)

	e.state.ActionText = req.ActionText
	v.SetAction(req.ActionText, req.Action)
}

// restartTimer cancels the pending dismiss timer of e and arms a new one
// when d is positive.
func (h *Host) restartTimer(e *entry, d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
	e.state.Duration = d

	if d <= 0 {
		return
	}

	id, gen := e.state.ID, e.gen
	e.timer = time.AfterFunc(d, func() {
		h.post(func(ctx context.Context) error {
			return h.expire(ctx, id, gen)
		})
	})
}

func (h *Host) expire(ctx context.Context, id uuid.UUID, gen uint64) error {
	if err := h.gate.Acquire(ctx, 1); err != nil {
		return nil
	}
	defer h.gate.Release(1)

	h.mu.Lock()
	e, ok := h.entries[id]
	current := ok && e.gen == gen
	h.mu.Unlock()

	if !current {
		h.log.Debug().Stringer("id", id).Msg("stale dismiss timer")
		return nil
	}

	h.dismiss(ctx, []uuid.UUID{id}, "")
	return nil
}

// dismiss plays the exit transition of every live id in ids and removes
// them. An invalid transition uses each notification's own. Callers hold
// the gate.
func (h *Host) dismiss(ctx context.Context, ids []uuid.UUID, transition notify.Transition) {
	h.mu.Lock()
	targets := make([]*entry, 0, len(ids))
	for _, id := range ids {
		e, ok := h.entries[id]
		if !ok {
			continue
		}
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
		e.gen++
		targets = append(targets, e)
	}
	h.mu.Unlock()

	if len(targets) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, e := range targets {
		t := transition
		if !t.IsValid() {
			t = e.state.Transition
		}
		wg.Go(func() {
			playExit(ctx, e.visual, t)
		})
	}
	wg.Wait()

	for _, e := range targets {
		h.surface.Remove(e.visual)

		h.mu.Lock()
		delete(h.entries, e.state.ID)
		h.order = slices.DeleteFunc(h.order, func(id uuid.UUID) bool { return id == e.state.ID })
		h.mu.Unlock()

		h.log.Debug().Stringer("id", e.state.ID).Msg("notification removed")
	}

	h.surface.SetHitTestVisible(h.HitTestVisible())
}

// post runs fn through the dispatcher without waiting for it.
func (h *Host) post(fn dispatch.Func) {
	go func() {
		err := h.dispatcher.RunOn(h.ctx, fn)
		switch {
		case err == nil, errors.Is(err, context.Canceled):
		case errors.Is(err, dispatch.ErrLoopStopped):
			h.log.Debug().Msg("host callback dropped, loop stopped")
		default:
			h.log.Error().Err(err).Msg("host callback failed")
		}
	}()
}
