package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/toasty/internal/host"
	"github.com/colonyops/toasty/internal/printer"
	"github.com/colonyops/toasty/internal/scenarios"
	"github.com/colonyops/toasty/pkg/logutils"
	"github.com/colonyops/toasty/pkg/utils"
)

// drainPoll is how often demo checks whether the surface emptied.
const drainPoll = 50 * time.Millisecond

type DemoCmd struct {
	flags       *Flags
	cancelAfter time.Duration
	linger      time.Duration
	yes         bool
}

// NewDemoCmd creates a new demo command.
func NewDemoCmd(flags *Flags) *DemoCmd {
	return &DemoCmd{flags: flags}
}

// Register adds the demo command to the application.
func (cmd *DemoCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "demo",
		Usage:     "Run a notification scenario headless, narrating it to stderr",
		UsageText: "toasty demo [options] [scenario]",
		Description: `Runs one scenario against a log surface instead of the terminal UI.
Every change to a notification is written to stderr as it happens.

Scenarios: upload, send-file, connection, countdown.
Without a scenario argument an interactive picker is shown.`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:        "cancel-after",
				Usage:       "press the notification's cancel action after this delay (send-file, countdown)",
				Destination: &cmd.cancelAfter,
			},
			&cli.DurationFlag{
				Name:        "linger",
				Usage:       "how long to wait for remaining notifications to dismiss before exiting",
				Value:       5 * time.Second,
				Destination: &cmd.linger,
			},
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "answer confirmation prompts with yes",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *DemoCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	cfg, err := cmd.flags.ValidConfig()
	if err != nil {
		return err
	}
	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	name, err := cmd.pickScenario(c.Args().First(), interactive)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	// Log lines are held back while a prompt owns the terminal.
	out := utils.NewDeferredWriter(os.Stderr)
	logger, err := logutils.NewConsole(out, cmd.flags.LogLevel)
	if err != nil {
		return fmt.Errorf("setup console logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	surface := host.NewLogSurface(logger.With().Str("component", "surface").Logger())
	pl := startPipeline(ctx, cfg, surface, logger)
	defer pl.Stop()

	p.Infof("running %s", name)

	err = cmd.runScenario(ctx, name, pl, surface, logger, cmd.confirmer(interactive, out))
	switch {
	case err == nil:
		p.Successf("%s finished", name)
	case errors.Is(err, scenarios.ErrSendCanceled):
		p.Warnf("%s canceled", name)
	case errors.Is(err, context.Canceled):
		p.Warnf("%s interrupted", name)
		return nil
	default:
		return fmt.Errorf("%s: %w", name, err)
	}

	cmd.drain(ctx, pl)
	return nil
}

func (cmd *DemoCmd) pickScenario(arg string, interactive bool) (scenarios.Name, error) {
	if arg != "" {
		info, ok := scenarios.Lookup(arg)
		if !ok {
			return "", fmt.Errorf("unknown scenario %q", arg)
		}
		return info.Name, nil
	}

	if !interactive {
		return "", errors.New("scenario required when stdin is not a terminal")
	}

	var (
		picked  string
		options []huh.Option[string]
	)
	for _, info := range scenarios.All() {
		options = append(options, huh.NewOption(fmt.Sprintf("%s  %s", info.Name, info.Description), string(info.Name)))
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Scenario").
				Options(options...).
				Value(&picked),
		),
	).Run()
	if err != nil {
		return "", err
	}

	return scenarios.Name(picked), nil
}

func (cmd *DemoCmd) runScenario(ctx context.Context, name scenarios.Name, pl *pipeline, surface *host.LogSurface, log zerolog.Logger, confirm scenarios.Confirmer) error {
	timing := cmd.flags.Config.Timing()

	switch name {
	case scenarios.NameUpload:
		return scenarios.Upload(ctx, pl.Service, timing)

	case scenarios.NameSendFile:
		send := scenarios.NewSendFile(pl.Service, confirm, timing, log)
		if cmd.cancelAfter > 0 {
			timer := time.AfterFunc(cmd.cancelAfter, func() {
				if !surface.InvokeAction(send.ID()) {
					log.Warn().Msg("send-file has no cancel action to press")
				}
			})
			defer timer.Stop()
		}
		return send.Run(ctx)

	case scenarios.NameConnection:
		conn := scenarios.NewConnection(pl.Service)
		conn.Lost()
		if err := wait(ctx, timing.ConnectDelay); err != nil {
			conn.Restored()
			return err
		}
		conn.Restored()
		return nil

	case scenarios.NameCountdown:
		maint := scenarios.NewMaintenance(pl.Service, timing)
		countdown, err := maint.Start()
		if err != nil {
			return err
		}
		if cmd.cancelAfter > 0 {
			timer := time.AfterFunc(cmd.cancelAfter, func() { maint.Cancel() })
			defer timer.Stop()
		}
		select {
		case <-countdown.Done():
			return nil
		case <-ctx.Done():
			maint.Cancel()
			return ctx.Err()
		}
	}

	return fmt.Errorf("unknown scenario %q", name)
}

// confirmer answers the send-file cancel prompt. Non interactive runs and
// --yes always confirm.
func (cmd *DemoCmd) confirmer(interactive bool, out *utils.DeferredWriter) scenarios.Confirmer {
	return scenarios.ConfirmFunc(func(ctx context.Context, title, description string) (bool, error) {
		if cmd.yes || !interactive {
			return true, nil
		}

		out.Hold()
		defer func() { _ = out.Release() }()

		var ok bool
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(title).
					Description(description).
					Affirmative("Yes").
					Negative("No").
					Value(&ok),
			),
		).RunWithContext(ctx)
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return ok, err
	})
}

// drain waits until the pipeline has been idle for two polls in a row, up to
// the linger limit.
func (cmd *DemoCmd) drain(ctx context.Context, pl *pipeline) {
	deadline := time.Now().Add(cmd.linger)
	ticker := time.NewTicker(drainPoll)
	defer ticker.Stop()

	idle := 0
	for idle < 2 && time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if pl.Queue.Len() == 0 && pl.Host.Len() == 0 {
			idle++
		} else {
			idle = 0
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
