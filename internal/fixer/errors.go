// Copyright (c) 2026 Sidero Labs, Inc.
//
// Use of this software is governed by the Business Source License
// included in the LICENSE file.

package fixer

import "fmt"

// ErrDirectoryAccess is raised when the peer directory cannot be listed.
var ErrDirectoryAccess = fmt.Errorf("peer directory is not accessible")
