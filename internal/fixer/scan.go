// Copyright (c) 2026 Sidero Labs, Inc.
//
// Use of this software is governed by the Business Source License
// included in the LICENSE file.

package fixer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/siderolabs/gen/xslices"
)

// Entry is a peer file candidate found in the peer directory.
type Entry struct {
	Name string
	Path string
}

// Scan lists the peer files directly inside dir.
//
// Hidden entries and anything that is not a regular file (after following symlinks) are skipped.
// Entries are returned in directory order.
func Scan(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDirectoryAccess, err)
	}

	visible := xslices.Filter(dirEntries, func(dirEntry os.DirEntry) bool {
		return !IsHidden(dirEntry.Name())
	})

	entries := make([]Entry, 0, len(visible))

	for _, dirEntry := range visible {
		path := filepath.Join(dir, dirEntry.Name())

		// dangling symlinks and entries removed since the listing are skipped as well
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		entries = append(entries, Entry{
			Name: dirEntry.Name(),
			Path: path,
		})
	}

	return entries, nil
}

// IsHidden reports whether a directory entry name is never treated as a peer file.
func IsHidden(name string) bool {
	return name == "" || strings.HasPrefix(name, ".")
}
