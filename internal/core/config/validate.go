package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/toasty/internal/core/notify"
	"github.com/colonyops/toasty/internal/core/styles"
	"github.com/colonyops/toasty/internal/host"
)

const (
	minPanelWidth = 20
	maxPanelWidth = 200
)

// Validate checks that the configuration is valid. Problems are reported as
// criterio.FieldErrors keyed by yaml path.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("notifications.duration", c.Notifications.Duration, nonNegative),
		criterio.Run("notifications.transition", c.Notifications.Transition, validTransition),
		criterio.Run("notifications.material", c.Notifications.Material, validMaterial),
		criterio.Run("host.anchor", c.Host.Anchor, validAnchor),
		criterio.Run("host.close_transition", c.Host.CloseTransition, validTransition),
		criterio.Run("countdown.interval", c.Countdown.Interval, positive),
		criterio.Run("countdown.length", c.Countdown.Length, positive),
		c.validateScenarios(),
		criterio.Run("tui.theme", c.TUI.Theme, styles.ValidateTheme),
		criterio.Run("tui.width", c.TUI.Width, panelWidth),
	)
}

// ValidateDeep runs Validate and additionally checks that configPath, when
// given, is a readable file.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return validateConfigFile(configPath)
}

func (c *Config) validateScenarios() error {
	var errs criterio.FieldErrorsBuilder

	durations := []struct {
		field string
		value time.Duration
	}{
		{"scenarios.upload_step", c.Scenarios.UploadStep},
		{"scenarios.step_delay", c.Scenarios.StepDelay},
		{"scenarios.pause_poll", c.Scenarios.PausePoll},
		{"scenarios.result_duration", c.Scenarios.ResultDuration},
	}
	for _, d := range durations {
		if err := positive(d.value); err != nil {
			errs = errs.Append(d.field, err)
		}
	}

	if err := nonNegative(c.Scenarios.ConnectDelay); err != nil {
		errs = errs.Append("scenarios.connect_delay", err)
	}

	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func nonNegative(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("must not be negative, got %s", d)
	}
	return nil
}

func positive(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("must be positive, got %s", d)
	}
	return nil
}

func validTransition(t notify.Transition) error {
	if !t.IsValid() {
		return fmt.Errorf("invalid transition %q, expected one of slide-up, fade, scale, slide-and-fade", t)
	}
	return nil
}

func validMaterial(m notify.Material) error {
	if !m.IsValid() {
		return fmt.Errorf("invalid material %q, expected one of solid, acrylic, mica", m)
	}
	return nil
}

func validAnchor(a host.Anchor) error {
	if !a.IsValid() {
		return fmt.Errorf("invalid anchor %q, expected top or bottom", a)
	}
	return nil
}

func panelWidth(w int) error {
	if w < minPanelWidth || w > maxPanelWidth {
		return fmt.Errorf("must be between %d and %d, got %d", minPanelWidth, maxPanelWidth, w)
	}
	return nil
}
