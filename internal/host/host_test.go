package host

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/toasty/internal/core/dispatch"
	"github.com/colonyops/toasty/internal/core/notify"
)

// fakeSurface records surface calls. Animations finish immediately.
type fakeSurface struct {
	mu       sync.Mutex
	visuals  map[uuid.UUID]*fakeVisual
	order    []uuid.UUID
	hitTests []bool
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{visuals: make(map[uuid.UUID]*fakeVisual)}
}

func (s *fakeSurface) CreateVisual(id uuid.UUID) Visual {
	v := &fakeVisual{id: id}
	s.mu.Lock()
	s.visuals[id] = v
	s.mu.Unlock()
	return v
}

func (s *fakeSurface) Insert(v Visual, atHead bool) {
	id := v.(*fakeVisual).id
	s.mu.Lock()
	defer s.mu.Unlock()
	if atHead {
		s.order = append([]uuid.UUID{id}, s.order...)
	} else {
		s.order = append(s.order, id)
	}
}

func (s *fakeSurface) Remove(v Visual) {
	id := v.(*fakeVisual).id
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func (s *fakeSurface) SetHitTestVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hitTests = append(s.hitTests, visible)
}

func (s *fakeSurface) Order() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.order...)
}

func (s *fakeSurface) Visual(id uuid.UUID) *fakeVisual {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visuals[id]
}

func (s *fakeSurface) LastHitTest() (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.hitTests) == 0 {
		return false, false
	}
	return s.hitTests[len(s.hitTests)-1], true
}

type fakeVisual struct {
	id uuid.UUID

	mu         sync.Mutex
	level      notify.Level
	material   notify.Material
	message    string
	inProgress bool
	progress   float64
	closable   bool
	actionText string
	open       bool
	opacity    float64
	offsetY    float64
	scale      float64
	entries    int
}

func (v *fakeVisual) SetSeverity(l notify.Level)      { v.set(func() { v.level = l }) }
func (v *fakeVisual) SetBackground(m notify.Material) { v.set(func() { v.material = m }) }
func (v *fakeVisual) SetMessage(m string)             { v.set(func() { v.message = m }) }
func (v *fakeVisual) SetClosable(c bool)              { v.set(func() { v.closable = c }) }
func (v *fakeVisual) SetOpen(o bool)                  { v.set(func() { v.open = o }) }
func (v *fakeVisual) SetOpacity(x float64)            { v.set(func() { v.opacity = x }) }
func (v *fakeVisual) SetOffsetY(x float64)            { v.set(func() { v.offsetY = x }) }
func (v *fakeVisual) SetScale(x float64)              { v.set(func() { v.scale = x }) }

func (v *fakeVisual) SetProgress(visible bool, value float64) {
	v.set(func() {
		v.inProgress = visible
		v.progress = value
	})
}

func (v *fakeVisual) SetAction(text string, _ func()) {
	v.set(func() { v.actionText = text })
}

func (v *fakeVisual) Fade(to float64, _ time.Duration) <-chan struct{} {
	return v.finish(func() {
		if to == 1 {
			v.entries++
		}
		v.opacity = to
	})
}

func (v *fakeVisual) Scale(to float64, _ time.Duration) <-chan struct{} {
	return v.finish(func() { v.scale = to })
}

func (v *fakeVisual) TranslateY(to float64, _ time.Duration) <-chan struct{} {
	return v.finish(func() { v.offsetY = to })
}

func (v *fakeVisual) set(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn()
}

func (v *fakeVisual) finish(fn func()) <-chan struct{} {
	v.set(fn)
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (v *fakeVisual) Message() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.message
}

func newTestHost(t *testing.T, opts Options) (*Host, *fakeSurface) {
	t.Helper()
	surface := newFakeSurface()
	opts.Logger = zerolog.Nop()
	h := New(surface, opts)
	t.Cleanup(h.Stop)
	return h, surface
}

func show(id uuid.UUID, message string, d time.Duration) notify.Request {
	req := notify.DefaultDefaults().NewRequest()
	req.ID = id
	req.Message = message
	req.Duration = d
	return req
}

func TestHost_Apply_creates_visual(t *testing.T) {
	h, surface := newTestHost(t, Options{})
	id := notify.NewID()

	require.NoError(t, h.Apply(context.Background(), show(id, "hello", 0)))

	assert.Equal(t, []uuid.UUID{id}, h.IDs())
	assert.True(t, h.HitTestVisible())

	v := surface.Visual(id)
	require.NotNil(t, v)
	assert.Equal(t, "hello", v.Message())
	assert.True(t, v.open)
	assert.InDelta(t, 1.0, v.opacity, 0.001, "entry transition ends opaque")
	assert.InDelta(t, 0.0, v.offsetY, 0.001, "entry transition ends in place")

	hit, ok := surface.LastHitTest()
	require.True(t, ok)
	assert.True(t, hit)
}

func TestHost_Apply_unknown_update_is_noop(t *testing.T) {
	h, surface := newTestHost(t, Options{})

	req := show(notify.NewID(), "ghost", time.Second)
	req.IsUpdate = true
	require.NoError(t, h.Apply(context.Background(), req))

	assert.Zero(t, h.Len())
	assert.Empty(t, surface.Order())
	assert.False(t, h.HitTestVisible())
}

func TestHost_Apply_update_does_not_replay_entry(t *testing.T) {
	h, surface := newTestHost(t, Options{})
	ctx := context.Background()
	id := notify.NewID()

	require.NoError(t, h.Apply(ctx, show(id, "first", 0)))

	update := show(id, "second", 0)
	update.IsUpdate = true
	require.NoError(t, h.Apply(ctx, update))

	again := show(id, "third", 0)
	require.NoError(t, h.Apply(ctx, again))

	v := surface.Visual(id)
	assert.Equal(t, "third", v.Message())
	assert.Equal(t, 1, v.entries)
	assert.Equal(t, 1, h.Len())
}

func TestHost_Apply_blank_message_keeps_text(t *testing.T) {
	h, surface := newTestHost(t, Options{})
	ctx := context.Background()
	id := notify.NewID()

	require.NoError(t, h.Apply(ctx, show(id, "Uploading", 0)))

	for _, blank := range []string{"", "   "} {
		update := show(id, blank, 0)
		update.IsUpdate = true
		update.InProgress = true
		update.Progress = 40
		require.NoError(t, h.Apply(ctx, update))
	}

	assert.Equal(t, "Uploading", surface.Visual(id).Message())

	state, ok := h.Snapshot(id)
	require.True(t, ok)
	assert.Equal(t, "Uploading", state.Message)
	assert.True(t, state.InProgress)
	assert.InDelta(t, 40.0, state.Progress, 0.001)
}

func TestHost_Apply_zero_enums_keep_current(t *testing.T) {
	h, _ := newTestHost(t, Options{})
	ctx := context.Background()
	id := notify.NewID()

	req := show(id, "x", 0)
	req.Level = notify.LevelError
	req.Material = notify.MaterialMica
	require.NoError(t, h.Apply(ctx, req))

	require.NoError(t, h.Apply(ctx, notify.Request{ID: id, IsUpdate: true, Message: "y"}))

	state, ok := h.Snapshot(id)
	require.True(t, ok)
	assert.Equal(t, notify.LevelError, state.Level)
	assert.Equal(t, notify.MaterialMica, state.Material)
	assert.Equal(t, "y", state.Message)
}

func TestHost_Apply_progress(t *testing.T) {
	tests := []struct {
		name       string
		inProgress bool
		progress   float64
		want       float64
	}{
		{"indeterminate", true, notify.Indeterminate, notify.Indeterminate},
		{"any negative is indeterminate", true, -42, notify.Indeterminate},
		{"value", true, 50, 50},
		{"clamped", true, 150, 100},
		{"hidden", false, 30, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, surface := newTestHost(t, Options{})
			id := notify.NewID()

			req := show(id, "p", 0)
			req.InProgress = tt.inProgress
			req.Progress = tt.progress
			require.NoError(t, h.Apply(context.Background(), req))

			v := surface.Visual(id)
			assert.Equal(t, tt.inProgress, v.inProgress)
			assert.InDelta(t, tt.want, v.progress, 0.001)
		})
	}
}

func TestHost_insertion_follows_anchor(t *testing.T) {
	tests := []struct {
		anchor Anchor
		head   bool
	}{
		{AnchorBottom, false},
		{AnchorTop, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.anchor), func(t *testing.T) {
			h, surface := newTestHost(t, Options{Anchor: tt.anchor})
			ctx := context.Background()
			a, b := notify.NewID(), notify.NewID()

			require.NoError(t, h.Apply(ctx, show(a, "a", 0)))
			require.NoError(t, h.Apply(ctx, show(b, "b", 0)))

			want := []uuid.UUID{a, b}
			if tt.head {
				want = []uuid.UUID{b, a}
			}
			assert.Equal(t, want, surface.Order())
			assert.Equal(t, want, h.IDs())
		})
	}
}

func TestHost_Dismiss(t *testing.T) {
	h, surface := newTestHost(t, Options{})
	ctx := context.Background()
	a, b := notify.NewID(), notify.NewID()

	require.NoError(t, h.Apply(ctx, show(a, "a", 0)))
	require.NoError(t, h.Apply(ctx, show(b, "b", 0)))

	dismiss := notify.Request{ID: a, IsUpdate: true, DismissRequested: true}
	require.NoError(t, h.Apply(ctx, dismiss))
	require.NoError(t, h.Apply(ctx, dismiss), "dismiss is idempotent")

	assert.Equal(t, []uuid.UUID{b}, h.IDs())
	assert.Equal(t, []uuid.UUID{b}, surface.Order())
	assert.False(t, surface.Visual(a).open)
	assert.True(t, h.HitTestVisible())
}

func TestHost_DismissAll(t *testing.T) {
	h, surface := newTestHost(t, Options{})
	ctx := context.Background()

	for range 3 {
		require.NoError(t, h.Apply(ctx, show(notify.NewID(), "n", 0)))
	}

	require.NoError(t, h.Apply(ctx, notify.Request{ID: notify.AllID, IsUpdate: true, DismissRequested: true}))

	assert.Zero(t, h.Len())
	assert.Empty(t, surface.Order())
	assert.False(t, h.HitTestVisible())

	hit, ok := surface.LastHitTest()
	require.True(t, ok)
	assert.False(t, hit)
}

func TestHost_dismiss_timer_expires(t *testing.T) {
	h, surface := newTestHost(t, Options{})
	id := notify.NewID()

	require.NoError(t, h.Apply(context.Background(), show(id, "bye", 50*time.Millisecond)))
	require.Equal(t, 1, h.Len())

	require.Eventually(t, func() bool { return h.Len() == 0 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, surface.Order())
}

func TestHost_dismiss_timer_restarts_on_update(t *testing.T) {
	h, _ := newTestHost(t, Options{})
	ctx := context.Background()
	id := notify.NewID()

	require.NoError(t, h.Apply(ctx, show(id, "first", 400*time.Millisecond)))

	time.Sleep(200 * time.Millisecond)
	update := show(id, "second", 400*time.Millisecond)
	update.IsUpdate = true
	require.NoError(t, h.Apply(ctx, update))

	// Past the original deadline, before the restarted one.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, h.Len(), "timer measured from the latest update")

	require.Eventually(t, func() bool { return h.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHost_zero_duration_disarms_timer(t *testing.T) {
	h, _ := newTestHost(t, Options{})
	ctx := context.Background()
	id := notify.NewID()

	require.NoError(t, h.Apply(ctx, show(id, "short", 30*time.Millisecond)))

	update := show(id, "sticky", 0)
	update.IsUpdate = true
	require.NoError(t, h.Apply(ctx, update))

	assert.Never(t, func() bool { return h.Len() == 0 }, 150*time.Millisecond, 10*time.Millisecond)
}

func TestHost_stale_timer_is_noop(t *testing.T) {
	h, _ := newTestHost(t, Options{})
	ctx := context.Background()
	id := notify.NewID()

	require.NoError(t, h.Apply(ctx, show(id, "x", time.Hour)))

	h.mu.Lock()
	gen := h.entries[id].gen
	h.mu.Unlock()

	update := show(id, "y", time.Hour)
	update.IsUpdate = true
	require.NoError(t, h.Apply(ctx, update))

	require.NoError(t, h.expire(ctx, id, gen))
	assert.Equal(t, 1, h.Len())
}

func TestHost_Close(t *testing.T) {
	h, surface := newTestHost(t, Options{CloseTransition: notify.TransitionFade})
	id := notify.NewID()

	require.NoError(t, h.Apply(context.Background(), show(id, "closable", time.Hour)))

	h.Close(id)
	h.Close(id)

	require.Eventually(t, func() bool { return h.Len() == 0 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, surface.Order())
	assert.InDelta(t, 0.0, surface.Visual(id).opacity, 0.001)
}

func TestHost_Close_ignores_non_closable(t *testing.T) {
	h, surface := newTestHost(t, Options{})
	ctx := context.Background()
	id := notify.NewID()

	req := show(id, "Connection not found. Retrying...", 0)
	req.Closable = false
	require.NoError(t, h.Apply(ctx, req))

	h.Close(id)

	assert.Never(t, func() bool { return h.Len() != 1 }, 100*time.Millisecond, 5*time.Millisecond)
	assert.Len(t, surface.Order(), 1)

	// Becoming closable later makes the close affordance work again.
	require.NoError(t, h.Apply(ctx, notify.Request{ID: id, IsUpdate: true, Closable: true}))
	h.Close(id)
	require.Eventually(t, func() bool { return h.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHost_runs_callbacks_on_dispatcher(t *testing.T) {
	loop := dispatch.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	h, _ := newTestHost(t, Options{Dispatcher: loop})
	id := notify.NewID()

	err := loop.RunOn(ctx, func(ctx context.Context) error {
		return h.Apply(ctx, show(id, "on loop", 20*time.Millisecond))
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return h.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHost_Apply_canceled_context(t *testing.T) {
	h, _ := newTestHost(t, Options{})

	require.NoError(t, h.gate.Acquire(context.Background(), 1))
	defer h.gate.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, h.Apply(ctx, show(notify.NewID(), "late", 0)))
	assert.Zero(t, h.Len())
}

func TestHost_Stop_disarms_timers(t *testing.T) {
	h, _ := newTestHost(t, Options{})
	id := notify.NewID()

	require.NoError(t, h.Apply(context.Background(), show(id, "x", 30*time.Millisecond)))
	h.Stop()

	assert.Never(t, func() bool { return h.Len() == 0 }, 120*time.Millisecond, 10*time.Millisecond)
}
