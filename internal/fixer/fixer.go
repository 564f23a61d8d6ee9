// Copyright (c) 2026 Sidero Labs, Inc.
//
// Use of this software is governed by the Business Source License
// included in the LICENSE file.

// Package fixer renames peer definition files to their canonical filenames.
package fixer

import (
	"fmt"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/siderolabs/gen/xslices"
	"go.uber.org/zap"

	"github.com/siderolabs/peerfix/pkg/peer"
)

// Action is the outcome of processing a single peer file.
type Action string

// Actions.
const (
	ActionUnchanged Action = "unchanged"
	ActionRenamed   Action = "renamed"
	ActionFailed    Action = "failed"
)

// Result is the outcome of processing a single peer file.
//
// A failed result carries the error; the run goes on with the next file.
type Result struct {
	Err error

	Name      string
	Canonical string
	Action    Action

	// Changed lists the filename fields which differ between Name and Canonical.
	Changed []string
}

// Report summarizes a run over a peer directory.
type Report struct {
	StartedAt time.Time
	Dir       string
	Results   []Result
	Duration  time.Duration
	DryRun    bool
}

// Count returns the number of results with the given action.
func (report Report) Count(action Action) int {
	return len(report.Filter(action))
}

// Filter returns the results with the given action.
func (report Report) Filter(action Action) []Result {
	return xslices.Filter(report.Results, func(result Result) bool {
		return result.Action == action
	})
}

// Options configure the Fixer.
type Options struct {
	// Renamer defaults to OSRenamer, or DryRunRenamer if DryRun is set.
	Renamer Renamer
	// Clock defaults to the real clock.
	Clock clockwork.Clock

	DryRun bool
}

// Fixer brings the filenames of a peer directory into canonical form.
//
// Files are processed one at a time; the Fixer must not run concurrently on the same directory.
type Fixer struct {
	renamer Renamer
	clock   clockwork.Clock
	logger  *zap.Logger
	metrics *metrics
	dryRun  bool
}

// New creates a new Fixer.
func New(options Options, logger *zap.Logger) *Fixer {
	renamer := options.Renamer
	if renamer == nil {
		if options.DryRun {
			renamer = DryRunRenamer{}
		} else {
			renamer = OSRenamer{}
		}
	}

	clock := options.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Fixer{
		renamer: renamer,
		clock:   clock,
		logger:  logger.With(zap.String("component", "fixer")),
		metrics: newMetrics(),
		dryRun:  options.DryRun,
	}
}

// Run processes every peer file in dir.
//
// Only a failure to list dir is returned as an error, in which case no file has been touched.
// Per-file failures are logged and recorded in the report.
func (fixer *Fixer) Run(dir string) (Report, error) {
	start := fixer.clock.Now()

	entries, err := Scan(dir)
	if err != nil {
		fixer.metrics.runs.WithLabelValues(statusError).Inc()

		return Report{}, err
	}

	report := Report{
		StartedAt: start,
		Dir:       dir,
		DryRun:    fixer.dryRun,
		Results:   make([]Result, 0, len(entries)),
	}

	for _, entry := range entries {
		result := fixer.process(dir, entry)

		switch result.Action {
		case ActionFailed:
			fixer.logger.Error("failed to process peer file, ignoring peer", zap.String("path", entry.Path), zap.Error(result.Err))
		case ActionRenamed:
			fixer.logger.Info("peer file renamed", zap.String("from", result.Name), zap.String("to", result.Canonical),
				zap.Strings("changed", result.Changed), zap.Bool("dry_run", fixer.dryRun))
		case ActionUnchanged:
			fixer.logger.Debug("peer file already canonical", zap.String("name", result.Name))
		}

		fixer.metrics.files.WithLabelValues(string(result.Action)).Inc()

		report.Results = append(report.Results, result)
	}

	report.Duration = fixer.clock.Since(start)

	fixer.logger.Info("peer directory processed", zap.String("dir", dir), zap.Int("files", len(report.Results)),
		zap.Int("renamed", report.Count(ActionRenamed)), zap.Int("failed", report.Count(ActionFailed)),
		zap.Duration("duration", report.Duration))

	fixer.metrics.runs.WithLabelValues(statusSuccess).Inc()
	fixer.metrics.lastRunDuration.Set(report.Duration.Seconds())
	fixer.metrics.lastRunTimestamp.Set(float64(start.Unix()))

	return report, nil
}

func (fixer *Fixer) process(dir string, entry Entry) Result {
	result := Result{
		Name: entry.Name,
	}

	fail := func(err error) Result {
		result.Action = ActionFailed
		result.Err = err

		return result
	}

	record, err := readRecord(entry.Path)
	if err != nil {
		return fail(err)
	}

	canonical, err := record.CanonicalFilename()
	if err != nil {
		return fail(err)
	}

	result.Canonical = canonical

	if canonical == entry.Name {
		result.Action = ActionUnchanged

		return result
	}

	if err = fixer.renamer.Rename(dir, entry.Name, canonical); err != nil {
		return fail(err)
	}

	result.Action = ActionRenamed
	result.Changed = peer.Diff(peer.ParseFilename(entry.Name), record)

	return result
}

func readRecord(path string) (peer.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return peer.Record{}, fmt.Errorf("failed to open peer file: %w", err)
	}

	defer f.Close() //nolint:errcheck

	return peer.Parse(f)
}
