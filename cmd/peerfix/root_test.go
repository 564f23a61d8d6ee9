// Copyright (c) 2026 Sidero Labs, Inc.
//
// Use of this software is governed by the Business Source License
// included in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgumentCount(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{
		{},
		{"a", "b"},
		{"--no-such-flag", "a"},
	} {
		cmd, _ := newRootCommand()
		cmd.SetArgs(args)

		require.ErrorIs(t, cmd.Execute(), errUsage)
	}
}

func TestPrintUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cmd, _ := newRootCommand()

	printUsage(cmd, &buf)

	assert.Contains(t, buf.String(), "usage: peerfix /path/to/peers\n")
	assert.Contains(t, buf.String(), "--dry-run")
	assert.Contains(t, buf.String(), "--watch")
}

func TestExecute(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "oldname"), []byte("# Knotenname: Foo\n"), 0o644))

	cmd, _ := newRootCommand()
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	_, err := os.Stat(filepath.Join(dir, "foo@@@@"))
	require.NoError(t, err)
}

func TestServiceOptionsFromFlags(t *testing.T) {
	t.Parallel()

	cmd, v := newRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--dry-run", "--interval=5m", "--watch", "--report=/tmp/report.yaml"}))

	options := serviceOptions(v, "/peers")

	assert.Equal(t, "/peers", options.PeersDir)
	assert.True(t, options.DryRun)
	assert.True(t, options.Watch)
	assert.Equal(t, 5*time.Minute, options.Interval)
	assert.Equal(t, "/tmp/report.yaml", options.ReportPath)
	assert.Empty(t, options.MetricsTextfile)
}

//nolint:paralleltest
func TestServiceOptionsFromEnv(t *testing.T) {
	t.Setenv("PEERFIX_DRY_RUN", "true")
	t.Setenv("PEERFIX_METRICS_TEXTFILE", "/var/lib/node_exporter/peerfix.prom")
	t.Setenv("PEERFIX_INTERVAL", "1m")

	cmd, v := newRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--interval=5m"}))

	options := serviceOptions(v, "/peers")

	assert.True(t, options.DryRun)
	assert.Equal(t, "/var/lib/node_exporter/peerfix.prom", options.MetricsTextfile)
	assert.Equal(t, 5*time.Minute, options.Interval, "flags take precedence over the environment")
}

//nolint:paralleltest
func TestExecuteDryRunFromEnv(t *testing.T) {
	t.Setenv("PEERFIX_DRY_RUN", "true")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "oldname"), []byte("# Knotenname: Foo\n"), 0o644))

	cmd, _ := newRootCommand()
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(dir, "oldname"))
	require.NoError(t, err, "dry run must not rename")
}
