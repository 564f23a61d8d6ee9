// Copyright (c) 2026 Sidero Labs, Inc.
//
// Use of this software is governed by the Business Source License
// included in the LICENSE file.

// Package report persists the outcome of a peer directory run as a YAML document.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/siderolabs/gen/xslices"
	"gopkg.in/yaml.v3"

	"github.com/siderolabs/peerfix/internal/fixer"
)

// Document is the YAML representation of a fixer.Report.
type Document struct {
	Directory string  `yaml:"directory"`
	StartedAt string  `yaml:"started_at"`
	Duration  string  `yaml:"duration"`
	Files     []File  `yaml:"files,omitempty"`
	Summary   Summary `yaml:"summary"`
	DryRun    bool    `yaml:"dry_run"`
}

// Summary counts files by outcome.
type Summary struct {
	Total     int `yaml:"total"`
	Renamed   int `yaml:"renamed"`
	Unchanged int `yaml:"unchanged"`
	Failed    int `yaml:"failed"`
}

// File is the outcome for a single peer file.
type File struct {
	Name      string   `yaml:"name"`
	Canonical string   `yaml:"canonical,omitempty"`
	Action    string   `yaml:"action"`
	Error     string   `yaml:"error,omitempty"`
	Changed   []string `yaml:"changed,omitempty"`
}

// NewDocument converts a run report into its YAML representation.
func NewDocument(report fixer.Report) Document {
	return Document{
		Directory: report.Dir,
		StartedAt: report.StartedAt.UTC().Format(time.RFC3339),
		Duration:  report.Duration.String(),
		DryRun:    report.DryRun,
		Summary: Summary{
			Total:     len(report.Results),
			Renamed:   report.Count(fixer.ActionRenamed),
			Unchanged: report.Count(fixer.ActionUnchanged),
			Failed:    report.Count(fixer.ActionFailed),
		},
		Files: xslices.Map(report.Results, func(result fixer.Result) File {
			file := File{
				Name:      result.Name,
				Canonical: result.Canonical,
				Action:    string(result.Action),
				Changed:   result.Changed,
			}

			if result.Err != nil {
				file.Error = result.Err.Error()
			}

			return file
		}),
	}
}

// Encode writes the report as YAML to w.
func Encode(w io.Writer, report fixer.Report) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(NewDocument(report)); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}

	return nil
}

// Write stores the report at path.
//
// The report is encoded into a hidden temporary file next to path which then replaces path,
// so readers never observe a partially written report and a report placed in the peer directory
// is never picked up as a peer while it is being written.
func Write(path string, report fixer.Report) (err error) {
	dir := filepath.Dir(path)

	if err = os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	pending, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create pending report: %w", err)
	}

	published := false
	closePending := sync.OnceValue(pending.Close)

	defer func() {
		closePending() //nolint:errcheck

		if !published {
			os.Remove(pending.Name()) //nolint:errcheck
		}
	}()

	if err = Encode(pending, report); err != nil {
		return err
	}

	if err = pending.Chmod(0o644); err != nil {
		return fmt.Errorf("failed to set report permissions: %w", err)
	}

	if err = pending.Sync(); err != nil {
		return fmt.Errorf("failed to sync report %q: %w", path, err)
	}

	if err = closePending(); err != nil {
		return fmt.Errorf("failed to close report %q: %w", path, err)
	}

	if err = os.Rename(pending.Name(), path); err != nil {
		return fmt.Errorf("failed to publish report %q: %w", path, err)
	}

	published = true

	return nil
}
