// Copyright (c) 2026 Sidero Labs, Inc.
//
// Use of this software is governed by the Business Source License
// included in the LICENSE file.

package fixer

import (
	"fmt"
	"os"
	"path/filepath"
)

// Renamer moves a peer file to its canonical name within the same directory.
type Renamer interface {
	Rename(dir, from, to string) error
}

// OSRenamer renames files on disk.
//
// An existing file at the destination is handled as os.Rename does on the platform,
// on Unix systems it is replaced.
type OSRenamer struct{}

// Rename implements Renamer interface.
func (OSRenamer) Rename(dir, from, to string) error {
	if from == to {
		return nil
	}

	if err := os.Rename(filepath.Join(dir, from), filepath.Join(dir, to)); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}

// DryRunRenamer leaves the directory untouched.
type DryRunRenamer struct{}

// Rename implements Renamer interface.
func (DryRunRenamer) Rename(string, string, string) error {
	return nil
}
