// Command loadtest drives a local actor system with a configurable publisher
// fan-out and watches the worker pool grow and shrink. Runtime counters are
// exposed over HTTP as JSON under /stats and Prometheus text under /metrics.
//
// Configuration comes from the environment:
//
//	ACTORS=32 PUBLISHERS=8 RATE=2000 WORK=2ms DURATION=30s HTTP_ADDR=:8088 go run ./cmd/loadtest
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/codewandler/actors-go/adapters/monitor"
	promadapter "github.com/codewandler/actors-go/adapters/prometheus"
	"github.com/codewandler/actors-go/core/actor"
)

type config struct {
	Actors     int           `env:"ACTORS" envDefault:"32"`
	Publishers int           `env:"PUBLISHERS" envDefault:"8"`
	Rate       int           `env:"RATE" envDefault:"2000"` // messages per second per publisher
	Work       time.Duration `env:"WORK" envDefault:"2ms"`  // simulated handler latency
	Duration   time.Duration `env:"DURATION" envDefault:"30s"`
	HTTPAddr   string        `env:"HTTP_ADDR" envDefault:":8088"`
	MinWorkers int           `env:"MIN_WORKERS" envDefault:"2"`
	MaxWorkers int           `env:"MAX_WORKERS" envDefault:"64"`
}

type tick struct {
	Seq int
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("loadtest failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if cfg.Actors <= 0 || cfg.Publishers <= 0 || cfg.Rate <= 0 {
		return fmt.Errorf("ACTORS, PUBLISHERS and RATE must be positive")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancelAfter := context.WithTimeout(ctx, cfg.Duration)
	defer cancelAfter()

	reg := prometheus.NewRegistry()
	sys := actor.NewSystem(actor.Options{
		Name:    "loadtest",
		Context: ctx,
		Logger:  log,
		Metrics: promadapter.NewRuntimeMetrics(reg),
		Pool: actor.PoolOptions{
			MinWorkers: cfg.MinWorkers,
			MaxWorkers: cfg.MaxWorkers,
		},
	})
	defer sys.Stop()

	actors := make([]*actor.Actor, 0, cfg.Actors)
	for i := 0; i < cfg.Actors; i++ {
		a, err := sys.Spawn(fmt.Sprintf("worker-%d", i))
		if err != nil {
			return fmt.Errorf("spawn: %w", err)
		}
		actor.Subscribe(a, func(tick) {
			time.Sleep(cfg.Work)
		})
		actors = append(actors, a)
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: monitor.Mux(sys, reg)}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("monitor listening", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		return srv.Shutdown(shutdownCtx)
	})

	interval := time.Second / time.Duration(cfg.Rate)
	for p := 0; p < cfg.Publishers; p++ {
		p := p
		g.Go(func() error {
			t := time.NewTicker(interval)
			defer t.Stop()
			seq := p
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-t.C:
					actors[seq%len(actors)].Publish(tick{Seq: seq})
					seq += cfg.Publishers
				}
			}
		})
	}

	g.Go(func() error {
		t := time.NewTicker(time.Second)
		defer t.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-t.C:
				st := sys.Stats()
				log.Info("pool",
					slog.Int("workers", st.Workers),
					slog.Int("ready", st.Ready),
					slog.Uint64("dropped", st.Dropped),
				)
			}
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}

	final := sys.Stats()
	log.Info("done",
		slog.Int("workers", final.Workers),
		slog.Any("published", final.Published),
	)
	return nil
}
