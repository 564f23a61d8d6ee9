// Copyright (c) 2026 Sidero Labs, Inc.
//
// Use of this software is governed by the Business Source License
// included in the LICENSE file.

package peer

import "fmt"

var (
	// ErrMalformedKeyLine is raised when a key line does not carry a quoted key.
	ErrMalformedKeyLine = fmt.Errorf("malformed key line")
	// ErrInvalidFilename is raised when a canonical filename would leave the peer directory.
	ErrInvalidFilename = fmt.Errorf("invalid canonical filename")
)
