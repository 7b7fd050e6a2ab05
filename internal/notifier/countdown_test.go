package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/toasty/internal/core/notify"
)

func terminalUpdates(reqs []notify.Request) []notify.Request {
	var out []notify.Request
	for _, r := range reqs {
		if r.IsUpdate && !r.InProgress {
			out = append(out, r)
		}
	}
	return out
}

func TestShowCountdown_invalid_arguments(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		interval time.Duration
	}{
		{"zero duration", 0, time.Second},
		{"negative duration", -time.Second, time.Second},
		{"zero interval", time.Second, 0},
		{"negative interval", time.Second, -time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &capturingQueue{}
			svc := NewService(q)

			handle, err := svc.ShowCountdown("title", tt.duration, notify.LevelInfo, "done", tt.interval)

			require.ErrorIs(t, err, ErrInvalidArgument)
			assert.Nil(t, handle)
			assert.Empty(t, q.All(), "nothing may be enqueued")
		})
	}
}

func TestShowCountdown_initial_request(t *testing.T) {
	q := &capturingQueue{}
	svc := NewService(q)

	handle, err := svc.ShowCountdown("Maintenance", 90*time.Second, notify.LevelInfo, "Started.", time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { handle.Cancel("") })

	first := q.All()[0]
	assert.Equal(t, handle.ID(), first.ID)
	assert.False(t, first.IsUpdate)
	assert.True(t, first.InProgress)
	assert.Equal(t, time.Duration(0), first.Duration)
	assert.Equal(t, "Maintenance (01:30 remaining)", first.Message)
}

func TestShowCountdown_ticks_then_completes(t *testing.T) {
	q := &capturingQueue{}
	svc := NewService(q)

	handle, err := svc.ShowCountdown("Window", 120*time.Millisecond, notify.LevelInfo, "Window started.", 20*time.Millisecond)
	require.NoError(t, err)

	select {
	case <-handle.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not finish")
	}

	reqs := q.All()
	terminal := terminalUpdates(reqs)
	require.Len(t, terminal, 1)
	assert.Equal(t, "Window started.", terminal[0].Message)
	assert.Equal(t, notify.LevelSuccess, terminal[0].Level)
	assert.Positive(t, terminal[0].Duration)

	// Terminal update is the last one emitted.
	assert.Equal(t, terminal[0], reqs[len(reqs)-1])

	var ticks int
	for _, r := range reqs {
		if r.IsUpdate && r.InProgress {
			ticks++
			assert.GreaterOrEqual(t, r.Progress, 0.0)
			assert.LessOrEqual(t, r.Progress, 100.0)
		}
	}
	assert.Positive(t, ticks)
}

func TestCountdown_Cancel_is_one_shot(t *testing.T) {
	q := &capturingQueue{}
	svc := NewService(q)

	handle, err := svc.ShowCountdown("Window", time.Minute, notify.LevelInfo, "Window started.", time.Second)
	require.NoError(t, err)

	handle.Cancel("Canceled.")
	handle.Cancel("Again.")
	handle.Complete("")

	terminal := terminalUpdates(q.All())
	require.Len(t, terminal, 1)
	assert.Equal(t, "Canceled.", terminal[0].Message)
	assert.Equal(t, notify.LevelWarning, terminal[0].Level)
}

func TestCountdown_Complete_uses_completion_message(t *testing.T) {
	q := &capturingQueue{}
	svc := NewService(q)

	handle, err := svc.ShowCountdown("Window", time.Minute, notify.LevelInfo, "Window started.", time.Second)
	require.NoError(t, err)

	handle.Complete("")

	terminal := terminalUpdates(q.All())
	require.Len(t, terminal, 1)
	assert.Equal(t, "Window started.", terminal[0].Message)
}

func TestCountdown_cancel_races_expiry(t *testing.T) {
	for range 50 {
		q := &capturingQueue{}
		svc := NewService(q)

		handle, err := svc.ShowCountdown("Race", 2*time.Millisecond, notify.LevelInfo, "Expired.", time.Millisecond)
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			time.Sleep(2 * time.Millisecond)
			handle.Cancel("Canceled.")
		}()
		go func() {
			defer wg.Done()
			handle.Complete("Completed.")
		}()
		wg.Wait()

		<-handle.Done()
		// Give a late tick the chance to misbehave.
		time.Sleep(5 * time.Millisecond)

		reqs := q.All()
		terminal := terminalUpdates(reqs)
		require.Len(t, terminal, 1)
		assert.Equal(t, terminal[0], reqs[len(reqs)-1], "no tick may follow the terminal update")
	}
}

func TestCountdown_cancel_against_timer(t *testing.T) {
	for range 50 {
		q := &capturingQueue{}
		svc := NewService(q)

		handle, err := svc.ShowCountdown("Race", 3*time.Millisecond, notify.LevelInfo, "Expired.", time.Millisecond)
		require.NoError(t, err)

		time.Sleep(3 * time.Millisecond)
		handle.Cancel("Canceled.")

		select {
		case <-handle.Done():
		case <-time.After(time.Second):
			t.Fatal("countdown did not finish")
		}
		time.Sleep(3 * time.Millisecond)

		terminal := terminalUpdates(q.All())
		require.Len(t, terminal, 1)
		assert.Contains(t, []string{"Canceled.", "Expired."}, terminal[0].Message)
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		name      string
		remaining time.Duration
		want      string
	}{
		{"seconds", 15 * time.Second, "T (00:15 remaining)"},
		{"floors fractions", 15*time.Second + 900*time.Millisecond, "T (00:15 remaining)"},
		{"minutes", 5*time.Minute + 3*time.Second, "T (05:03 remaining)"},
		{"just under an hour", time.Hour - time.Second, "T (59:59 remaining)"},
		{"an hour", time.Hour, "T (01:00:00 remaining)"},
		{"hours", 2*time.Hour + 5*time.Minute + 9*time.Second, "T (02:05:09 remaining)"},
		{"zero", 0, "T (00:00 remaining)"},
		{"negative clamps", -5 * time.Second, "T (00:00 remaining)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCountdown("T", tt.remaining))
		})
	}
}

func TestCountdownProgress_clamps(t *testing.T) {
	assert.InDelta(t, 0.0, countdownProgress(-time.Second, time.Minute), 0.001)
	assert.InDelta(t, 50.0, countdownProgress(30*time.Second, time.Minute), 0.001)
	assert.InDelta(t, 100.0, countdownProgress(2*time.Minute, time.Minute), 0.001)
}
