// Copyright (c) 2026 Sidero Labs, Inc.
//
// Use of this software is governed by the Business Source License
// included in the LICENSE file.

// Package service implements the high-level peerfix entry point.
package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/talos-systems/go-debug"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/siderolabs/peerfix/internal/fixer"
	"github.com/siderolabs/peerfix/internal/report"
)

// Options are the configuration options for the service.
type Options struct {
	// Clock defaults to the real clock.
	Clock clockwork.Clock

	PeersDir        string
	ReportPath      string
	MetricsTextfile string

	// DebugAddr is the pprof listen address of the long-running modes, empty disables it.
	DebugAddr string

	// Interval between runs, zero runs once unless Watch is set.
	Interval time.Duration

	// Watch reruns the fix whenever the peer directory changes.
	Watch bool

	DryRun bool
}

// Run fixes the peer filenames with the given options.
//
// With a zero interval and no watch the directory is processed once and a listing failure is returned.
// Otherwise the directory is processed on every tick or watched change until ctx is canceled,
// and listing failures are logged.
func Run(ctx context.Context, options Options, logger *zap.Logger) error {
	logger.Info("peerfix starting", zap.String("dir", options.PeersDir), zap.Bool("dry_run", options.DryRun),
		zap.Duration("interval", options.Interval), zap.Bool("watch", options.Watch))

	defer logger.Info("peerfix finished")

	clock := options.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	f := fixer.New(fixer.Options{
		DryRun: options.DryRun,
		Clock:  clock,
	}, logger)

	registry := prom.NewRegistry()

	if err := registerCollectors(registry, f); err != nil {
		return fmt.Errorf("failed to register collectors: %w", err)
	}

	r := &runner{
		options:  options,
		fixer:    f,
		gatherer: registry,
		logger:   logger,
	}

	if options.Interval <= 0 && !options.Watch {
		return r.runOnce()
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return r.loop(ctx, clock)
	})

	if options.DebugAddr != "" {
		eg.Go(func() error {
			return debug.ListenAndServe(ctx, options.DebugAddr, func(msg string) { logger.Info(msg) })
		})
	}

	return eg.Wait()
}

type runner struct {
	gatherer prom.Gatherer
	fixer    *fixer.Fixer
	logger   *zap.Logger
	options  Options
}

func (r *runner) loop(ctx context.Context, clock clockwork.Clock) error {
	r.logger.Info("start fix loop", zap.Duration("interval", r.options.Interval), zap.Bool("watch", r.options.Watch))

	var tick <-chan time.Time

	if r.options.Interval > 0 {
		ticker := clock.NewTicker(r.options.Interval)

		defer ticker.Stop()

		tick = ticker.Chan()
	}

	var (
		events      <-chan fsnotify.Event
		watchErrors <-chan error
	)

	if r.options.Watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}

		defer watcher.Close() //nolint:errcheck

		if err = watcher.Add(r.options.PeersDir); err != nil {
			return fmt.Errorf("failed to watch %q: %w", r.options.PeersDir, err)
		}

		events, watchErrors = watcher.Events, watcher.Errors
	}

	for {
		if err := r.runOnce(); err != nil {
			r.logger.Error("failed to fix peer filenames", zap.Error(err))
		}

		if !r.wait(ctx, tick, events, watchErrors) {
			r.logger.Info("received shutdown signal")

			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}

			return ctx.Err()
		}
	}
}

// wait blocks until the next run is due and returns false once ctx is done.
func (r *runner) wait(ctx context.Context, tick <-chan time.Time, events <-chan fsnotify.Event, watchErrors <-chan error) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case <-tick:
			return true
		case event, ok := <-events:
			if !ok {
				events = nil

				continue
			}

			if !r.triggers(event) {
				continue
			}

			r.logger.Debug("peer directory changed", zap.Stringer("event", event))

			// one run covers every change queued so far
			for drained := false; !drained; {
				select {
				case <-events:
				default:
					drained = true
				}
			}

			return true
		case err, ok := <-watchErrors:
			if !ok {
				watchErrors = nil

				continue
			}

			r.logger.Warn("peer directory watch error", zap.Error(err))
		}
	}
}

// triggers reports whether event may have produced a misnamed peer file.
func (r *runner) triggers(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	name := filepath.Base(event.Name)
	if fixer.IsHidden(name) {
		return false
	}

	// our own outputs and their pending files, in case they live next to the peers
	for _, output := range []string{r.options.ReportPath, r.options.MetricsTextfile} {
		if output == "" || filepath.Dir(output) != filepath.Dir(event.Name) {
			continue
		}

		if strings.HasPrefix(name, filepath.Base(output)) {
			return false
		}
	}

	return true
}

// runOnce processes the peer directory and writes the configured outputs.
//
// Metrics are written even if the directory could not be listed.
func (r *runner) runOnce() error {
	rep, runErr := r.fixer.Run(r.options.PeersDir)

	if runErr == nil && r.options.ReportPath != "" {
		if err := report.Write(r.options.ReportPath, rep); err != nil {
			r.logger.Error("failed to write report", zap.String("path", r.options.ReportPath), zap.Error(err))
		}
	}

	if r.options.MetricsTextfile != "" {
		if err := prom.WriteToTextfile(r.options.MetricsTextfile, r.gatherer); err != nil {
			r.logger.Error("failed to write metrics", zap.String("path", r.options.MetricsTextfile), zap.Error(err))
		}
	}

	return runErr
}

func registerCollectors(registerer prom.Registerer, collectors ...prom.Collector) (err error) {
	for _, collector := range collectors {
		if collector == nil {
			continue
		}

		if err = registerer.Register(collector); err != nil {
			return fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return nil
}
