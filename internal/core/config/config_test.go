package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/toasty/internal/core/notify"
	"github.com/colonyops/toasty/internal/host"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_defaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := Load(path)
		require.NoError(t, err)

		want := DefaultConfig()
		assert.Equal(t, &want, cfg)
	}
}

func TestLoad_file(t *testing.T) {
	path := writeConfig(t, `
notifications:
  duration: 5s
  transition: fade
  material: mica
  closable: false
host:
  anchor: top
countdown:
  interval: 500ms
scenarios:
  pause_poll: 50ms
tui:
  theme: gruvbox
  width: 60
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Notifications.Duration)
	assert.Equal(t, notify.TransitionFade, cfg.Notifications.Transition)
	assert.Equal(t, notify.MaterialMica, cfg.Notifications.Material)
	assert.False(t, cfg.Notifications.Closable)
	assert.Equal(t, host.AnchorTop, cfg.Host.Anchor)
	assert.Equal(t, notify.TransitionSlideAndFade, cfg.Host.CloseTransition, "unset keys keep defaults")
	assert.Equal(t, 500*time.Millisecond, cfg.Countdown.Interval)
	assert.Equal(t, 50*time.Millisecond, cfg.Scenarios.PausePoll)
	assert.Equal(t, 150*time.Millisecond, cfg.Scenarios.StepDelay)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
	assert.Equal(t, 60, cfg.TUI.Width)
}

func TestLoad_empty_enums_take_defaults(t *testing.T) {
	path := writeConfig(t, `
notifications:
  transition: ""
host:
  anchor: ""
tui:
  theme: ""
  width: 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	want := DefaultConfig()
	assert.Equal(t, want.Notifications.Transition, cfg.Notifications.Transition)
	assert.Equal(t, want.Host.Anchor, cfg.Host.Anchor)
	assert.Equal(t, want.TUI, cfg.TUI)
}

func TestLoad_errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed yaml", "notifications: [", "parse config file"},
		{"bad duration", "notifications:\n  duration: soon\n", "parse config file"},
		{"invalid value", "host:\n  anchor: left\n", "invalid config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_skips_validation(t *testing.T) {
	path := writeConfig(t, "tui:\n  width: 5\n")

	cfg, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.TUI.Width)
	assert.Error(t, cfg.Validate())

	_, err = Load(path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestConfig_conversions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Notifications.Duration = 7 * time.Second
	cfg.Host.Anchor = host.AnchorTop
	cfg.Scenarios.StepDelay = time.Millisecond
	cfg.Countdown.Length = time.Hour

	d := cfg.RequestDefaults()
	assert.Equal(t, 7*time.Second, d.Duration)
	assert.True(t, d.Closable)
	assert.Equal(t, notify.TransitionSlideAndFade, d.Transition)
	assert.Equal(t, notify.MaterialAcrylic, d.Material)

	opts := cfg.HostOptions()
	assert.Equal(t, host.AnchorTop, opts.Anchor)
	assert.Equal(t, notify.TransitionSlideAndFade, opts.CloseTransition)

	timing := cfg.Timing()
	assert.Equal(t, time.Millisecond, timing.SendStep)
	assert.Equal(t, time.Hour, timing.CountdownLength)
	assert.Equal(t, time.Second, timing.CountdownInterval)
}
