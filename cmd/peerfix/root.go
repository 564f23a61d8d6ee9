// Copyright (c) 2026 Sidero Labs, Inc.
//
// Use of this software is governed by the Business Source License
// included in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/talos-systems/go-debug"
	"go.uber.org/zap"

	"github.com/siderolabs/peerfix/pkg/service"
)

const envPrefix = "PEERFIX"

const (
	flagDebug           = "debug"
	flagDebugAddr       = "debug-addr"
	flagDryRun          = "dry-run"
	flagInterval        = "interval"
	flagMetricsTextfile = "metrics-textfile"
	flagReport          = "report"
	flagWatch           = "watch"
)

var errUsage = errors.New("invalid usage")

// newRootCommand returns the peerfix command and the viper instance its flags and environment are bound to.
func newRootCommand() (*cobra.Command, *viper.Viper) {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "peerfix /path/to/peers",
		Short: "Rename peer definition files to their canonical filenames",
		Long: `peerfix reads every peer definition file in the given directory and renames it to
<name>@<mac>@<vpn key>@<token>@<monitoring token> as derived from its content.

Flags can also be set via environment variables, e.g. PEERFIX_DRY_RUN=true.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("%w: expected exactly one peer directory, got %d arguments", errUsage, len(args))
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v, args[0])
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	flags := cmd.Flags()
	flags.Bool(flagDebug, false, "enable debug mode")
	flags.Bool(flagDryRun, false, "log the renames without touching the peer directory")
	flags.Duration(flagInterval, 0, "run every interval until interrupted (0 runs once)")
	flags.String(flagMetricsTextfile, "", "write prometheus metrics to this file after every run (set to empty to disable)")
	flags.String(flagReport, "", "write a YAML report to this file after every run (set to empty to disable)")
	flags.Bool(flagWatch, false, "run again whenever the peer directory changes, until interrupted")

	if debug.Enabled {
		flags.String(flagDebugAddr, ":2123", "debug (pprof, trace, expvar) listen addr in the long-running modes")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}

	return cmd, v
}

func run(ctx context.Context, v *viper.Viper, peersDir string) error {
	logger, err := newLogger(v.GetBool(flagDebug) || os.Getenv("MODE") == "dev")
	if err != nil {
		return err
	}

	defer logger.Sync() //nolint:errcheck

	zap.ReplaceGlobals(logger)
	zap.RedirectStdLog(logger)

	if err = signalHandler(ctx, logger, func(ctx context.Context, logger *zap.Logger) error {
		return service.Run(ctx, serviceOptions(v, peersDir), logger)
	}); err != nil {
		logger.Error("peerfix failed", zap.Error(err))

		return err
	}

	return nil
}

func newLogger(devMode bool) (*zap.Logger, error) {
	if devMode {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize development logger: %w", err)
		}

		return logger, nil
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger, nil
}

func signalHandler(ctx context.Context, logger *zap.Logger, f func(ctx context.Context, logger *zap.Logger) error) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return f(ctx, logger)
}

func serviceOptions(v *viper.Viper, peersDir string) service.Options {
	return service.Options{
		PeersDir:        peersDir,
		DebugAddr:       v.GetString(flagDebugAddr),
		DryRun:          v.GetBool(flagDryRun),
		Interval:        v.GetDuration(flagInterval),
		Watch:           v.GetBool(flagWatch),
		MetricsTextfile: v.GetString(flagMetricsTextfile),
		ReportPath:      v.GetString(flagReport),
	}
}
