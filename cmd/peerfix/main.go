// Copyright (c) 2026 Sidero Labs, Inc.
//
// Use of this software is governed by the Business Source License
// included in the LICENSE file.

// Package main implements the peerfix entrypoint.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	cmd, _ := newRootCommand()

	if err := cmd.Execute(); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(cmd, os.Stdout)
		}

		os.Exit(1)
	}
}

func printUsage(cmd *cobra.Command, w io.Writer) {
	fmt.Fprintln(w, "usage: "+cmd.Use) //nolint:errcheck

	cmd.SetOut(w)
	cmd.Usage() //nolint:errcheck
}
