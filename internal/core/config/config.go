// Package config handles configuration loading and validation for toasty.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/toasty/internal/core/notify"
	"github.com/colonyops/toasty/internal/core/styles"
	"github.com/colonyops/toasty/internal/host"
	"github.com/colonyops/toasty/internal/scenarios"
)

// Config holds the application configuration.
type Config struct {
	Notifications NotificationsConfig `yaml:"notifications"`
	Host          HostConfig          `yaml:"host"`
	Countdown     CountdownConfig     `yaml:"countdown"`
	Scenarios     ScenariosConfig     `yaml:"scenarios"`
	TUI           TUIConfig           `yaml:"tui"`
}

// NotificationsConfig holds the defaults applied to new requests.
type NotificationsConfig struct {
	Duration   time.Duration     `yaml:"duration"`   // auto-dismiss delay, 0 keeps notifications until dismissed
	Transition notify.Transition `yaml:"transition"` // entry/exit transition
	Material   notify.Material   `yaml:"material"`   // panel background
	Closable   bool              `yaml:"closable"`   // show a close button
}

// HostConfig controls where and how notifications are stacked.
type HostConfig struct {
	Anchor          host.Anchor       `yaml:"anchor"`           // top or bottom
	CloseTransition notify.Transition `yaml:"close_transition"` // transition used by the close button
}

type CountdownConfig struct {
	Interval time.Duration `yaml:"interval"`
	Length   time.Duration `yaml:"length"`
}

// ScenariosConfig paces the built-in scenarios.
type ScenariosConfig struct {
	UploadStep     time.Duration `yaml:"upload_step"`
	StepDelay      time.Duration `yaml:"step_delay"`
	ConnectDelay   time.Duration `yaml:"connect_delay"`
	PausePoll      time.Duration `yaml:"pause_poll"`
	ResultDuration time.Duration `yaml:"result_duration"`
}

type TUIConfig struct {
	Theme string `yaml:"theme"`
	Width int    `yaml:"width"` // toast panel width in cells
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	defaults := notify.DefaultDefaults()
	timing := scenarios.DefaultTiming()

	return Config{
		Notifications: NotificationsConfig{
			Duration:   defaults.Duration,
			Transition: defaults.Transition,
			Material:   defaults.Material,
			Closable:   defaults.Closable,
		},
		Host: HostConfig{
			Anchor:          host.AnchorBottom,
			CloseTransition: notify.TransitionSlideAndFade,
		},
		Countdown: CountdownConfig{
			Interval: timing.CountdownInterval,
			Length:   timing.CountdownLength,
		},
		Scenarios: ScenariosConfig{
			UploadStep:     timing.UploadStep,
			StepDelay:      timing.SendStep,
			ConnectDelay:   timing.ConnectDelay,
			PausePoll:      timing.PausePoll,
			ResultDuration: timing.ResultDuration,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
			Width: 50,
		},
	}
}

// Load reads configuration from the given path and validates it. If
// configPath is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg, err := Parse(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Parse reads configuration from the given path without validating it.
func Parse(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults sets default values for any unset enum options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Notifications.Transition == "" {
		c.Notifications.Transition = defaults.Notifications.Transition
	}
	if c.Notifications.Material == "" {
		c.Notifications.Material = defaults.Notifications.Material
	}
	if c.Host.Anchor == "" {
		c.Host.Anchor = defaults.Host.Anchor
	}
	if c.Host.CloseTransition == "" {
		c.Host.CloseTransition = defaults.Host.CloseTransition
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.Width == 0 {
		c.TUI.Width = defaults.TUI.Width
	}
}

// RequestDefaults returns the defaults the notification service applies to
// new requests.
func (c *Config) RequestDefaults() notify.Defaults {
	return notify.Defaults{
		Duration:   c.Notifications.Duration,
		Closable:   c.Notifications.Closable,
		Transition: c.Notifications.Transition,
		Material:   c.Notifications.Material,
	}
}

// HostOptions returns the host options described by the config. Dispatcher
// and logger are left for the caller.
func (c *Config) HostOptions() host.Options {
	return host.Options{
		Anchor:          c.Host.Anchor,
		CloseTransition: c.Host.CloseTransition,
	}
}

// Timing returns the scenario pacing described by the config.
func (c *Config) Timing() scenarios.Timing {
	return scenarios.Timing{
		UploadStep:        c.Scenarios.UploadStep,
		SendStep:          c.Scenarios.StepDelay,
		ConnectDelay:      c.Scenarios.ConnectDelay,
		PausePoll:         c.Scenarios.PausePoll,
		ResultDuration:    c.Scenarios.ResultDuration,
		CountdownLength:   c.Countdown.Length,
		CountdownInterval: c.Countdown.Interval,
	}
}
