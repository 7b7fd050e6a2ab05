package commands

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/toasty/internal/core/config"
	"github.com/colonyops/toasty/internal/core/dispatch"
	"github.com/colonyops/toasty/internal/host"
	"github.com/colonyops/toasty/internal/notifier"
)

// pipeline is the running notification stack: the service enqueues, the
// queue drains onto the dispatch loop, and the host renders on surface.
type pipeline struct {
	Service *notifier.Service
	Host    *host.Host
	Queue   *notifier.Queue

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func startPipeline(ctx context.Context, cfg *config.Config, surface host.Surface, log zerolog.Logger) *pipeline {
	loop := dispatch.NewLoop()

	opts := cfg.HostOptions()
	opts.Dispatcher = loop
	opts.Logger = log.With().Str("component", "host").Logger()
	h := host.New(surface, opts)

	q := notifier.NewQueue(loop, log.With().Str("component", "queue").Logger())
	q.SetProcessor(h.Apply)

	ctx, cancel := context.WithCancel(ctx)
	p := &pipeline{
		Service: notifier.NewServiceWithDefaults(q, cfg.RequestDefaults()),
		Host:    h,
		Queue:   q,
		cancel:  cancel,
	}

	p.wg.Go(func() {
		if err := loop.Run(ctx); err != nil {
			log.Error().Err(err).Msg("dispatch loop stopped")
		}
	})
	p.wg.Go(func() {
		if err := q.Run(ctx); err != nil {
			log.Error().Err(err).Msg("notification queue stopped")
		}
	})

	return p
}

// Stop disarms pending dismiss timers and waits for the loop and queue to
// exit. Buffered requests are discarded.
func (p *pipeline) Stop() {
	p.Host.Stop()
	p.cancel()
	p.wg.Wait()
}
