package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/toasty/internal/core/config"
	"github.com/colonyops/toasty/internal/core/notify"
	"github.com/colonyops/toasty/internal/host"
	"github.com/colonyops/toasty/internal/notifier"
	"github.com/colonyops/toasty/pkg/tuitest"
)

type capturingQueue struct {
	mu   sync.Mutex
	reqs []notify.Request
}

func (q *capturingQueue) Enqueue(req notify.Request) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.reqs = append(q.reqs, req)
}

func (q *capturingQueue) Last() notify.Request {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.reqs) == 0 {
		return notify.Request{}
	}
	return q.reqs[len(q.reqs)-1]
}

func (q *capturingQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.reqs)
}

func newTestModel(t *testing.T) (Model, *capturingQueue) {
	t.Helper()

	cfg := config.DefaultConfig()
	q := &capturingQueue{}
	surface := NewSurface()
	h := host.New(surface, host.Options{Logger: zerolog.Nop()})
	t.Cleanup(h.Stop)

	m := New(Options{
		Config:    &cfg,
		Service:   notifier.NewService(q),
		Host:      h,
		Surface:   surface,
		Confirmer: NewModalConfirmer(),
		Logger:    zerolog.Nop(),
	})
	t.Cleanup(m.cancel)
	return m, q
}

func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_level_keys(t *testing.T) {
	tests := []struct {
		key   rune
		level notify.Level
	}{
		{'s', notify.LevelSuccess},
		{'i', notify.LevelInfo},
		{'w', notify.LevelWarning},
		{'e', notify.LevelError},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			m, q := newTestModel(t)
			press(t, m, tuitest.KeyPress(tt.key))

			last := q.Last()
			assert.Equal(t, tt.level, last.Level)
			assert.NotEmpty(t, last.Message)
			assert.Equal(t, 3*time.Second, last.Duration)
		})
	}
}

func TestModel_dismiss_all(t *testing.T) {
	m, q := newTestModel(t)
	press(t, m, tuitest.KeyPress('d'))

	last := q.Last()
	assert.True(t, last.IsDismissAll())
}

func TestModel_connection_toggle(t *testing.T) {
	m, q := newTestModel(t)

	m = press(t, m, tuitest.KeyPress('c'))
	assert.Equal(t, notify.LevelWarning, q.Last().Level)
	assert.True(t, m.connection.Down())

	m = press(t, m, tuitest.KeyPress('c'))
	assert.Equal(t, "Connection restored!", q.Last().Message)
	assert.False(t, m.connection.Down())
}

func TestModel_countdown_keys(t *testing.T) {
	m, q := newTestModel(t)

	m = press(t, m, tuitest.KeyPress('t'))
	assert.True(t, q.Last().InProgress)

	press(t, m, tuitest.KeyPress('T'))
	assert.Equal(t, "Synchronous maintenance window canceled.", q.Last().Message)
}

func TestModel_scenario_commands(t *testing.T) {
	m, q := newTestModel(t)
	m.cfg.Scenarios.UploadStep = time.Millisecond

	_, cmd := m.Update(tuitest.KeyPress('p'))
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(scenarioDoneMsg)
	require.True(t, ok)
	assert.NoError(t, done.err)
	assert.Equal(t, "Upload completed!", q.Last().Message)
}

func TestModel_help_toggle(t *testing.T) {
	m, q := newTestModel(t)

	m = press(t, m, tuitest.KeyPress('?'))
	assert.True(t, m.showHelp)

	// Keys are swallowed while help is open.
	m = press(t, m, tuitest.KeyPress('s'))
	assert.Zero(t, q.Len())

	m = press(t, m, tuitest.KeyEsc())
	assert.False(t, m.showHelp)
}

func TestModel_confirm_modal(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.Msg
		want bool
	}{
		{"yes", []tea.Msg{tuitest.KeyPress('y')}, true},
		{"no", []tea.Msg{tuitest.KeyPress('n')}, false},
		{"escape", []tea.Msg{tuitest.KeyEsc()}, false},
		{"enter default", []tea.Msg{tuitest.KeyEnter()}, true},
		{"toggle then enter", []tea.Msg{tuitest.KeyRight(), tuitest.KeyEnter()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)

			answer := make(chan bool, 1)
			go func() {
				ok, err := m.confirmer.Confirm(context.Background(), "Cancel sending?", "Really?")
				assert.NoError(t, err)
				answer <- ok
			}()

			msg := m.confirmer.WaitForRequest()()
			m = press(t, m, msg)
			require.NotNil(t, m.modal)
			assert.Contains(t, tuitest.StripANSI(m.render()), "Cancel sending?")

			for _, k := range tt.keys {
				m = press(t, m, k)
			}
			assert.Nil(t, m.modal)

			select {
			case got := <-answer:
				assert.Equal(t, tt.want, got)
			case <-time.After(time.Second):
				t.Fatal("confirm never answered")
			}
		})
	}
}

func TestModalConfirmer_canceled(t *testing.T) {
	c := NewModalConfirmer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := c.Confirm(ctx, "t", "d")
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestModel_config_reload(t *testing.T) {
	m, q := newTestModel(t)

	cfg := config.DefaultConfig()
	cfg.TUI.Width = 70
	m = press(t, m, configReloadedMsg{cfg: &cfg})
	assert.Equal(t, 70, m.cfg.TUI.Width)
	assert.Equal(t, notify.LevelInfo, q.Last().Level)

	m = press(t, m, configReloadedMsg{err: assert.AnError})
	assert.Equal(t, notify.LevelError, q.Last().Level)
	assert.Equal(t, 70, m.cfg.TUI.Width)
}

func TestModel_quit(t *testing.T) {
	m, _ := newTestModel(t)

	next, cmd := m.Update(tuitest.KeyPress('q'))
	require.NotNil(t, cmd)
	assert.True(t, next.(Model).quitting)
	assert.Error(t, next.(Model).ctx.Err())
}

func TestModel_View_lists_keys(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, tuitest.WindowSize(100, 30))

	out := tuitest.StripANSI(m.render())
	assert.Contains(t, out, "toasty")
	assert.Contains(t, out, "dismiss all")
	assert.Contains(t, out, "visible: 0")
}
