package commands

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/toasty/internal/core/config"
	"github.com/colonyops/toasty/internal/tui"
)

type TuiCmd struct {
	flags    *Flags
	noReload bool
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "no-reload",
			Usage:       "do not watch the config file for changes",
			Sources:     cli.EnvVars("TOASTY_NO_RELOAD"),
			Destination: &cmd.noReload,
		},
	}
}

// Register adds the tui command to the application.
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "tui",
		Usage:       "Open the interactive notification playground",
		UsageText:   "toasty tui",
		Description: "Opens a terminal UI where notifications of every kind can be raised, updated, and dismissed.",
		Flags:       cmd.Flags(),
		Action:      cmd.run,
	})
	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := cmd.flags.ValidConfig()
	if err != nil {
		return err
	}
	logger := log.With().Str("component", "tui").Logger()

	surface := tui.NewSurface()
	p := startPipeline(ctx, cfg, surface, log.Logger)
	defer p.Stop()

	m := tui.New(tui.Options{
		Config:    cfg,
		Service:   p.Service,
		Host:      p.Host,
		Surface:   surface,
		Confirmer: tui.NewModalConfirmer(),
		Logger:    logger,
	})

	if !cmd.noReload {
		err = config.Watch(ctx, cmd.flags.ConfigPath, func(cfg *config.Config, err error) {
			m.ConfigReloaded(cfg, err)
		})
		if err != nil {
			logger.Warn().Err(err).Msg("config watch disabled")
		}
	}

	if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
