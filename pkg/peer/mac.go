// Copyright (c) 2026 Sidero Labs, Inc.
//
// Use of this software is governed by the Business Source License
// included in the LICENSE file.

package peer

import "strings"

// NormalizeMAC brings a MAC address into the canonical lowercase, colon-separated form.
//
// Existing colons are dropped and the remaining bytes are regrouped in pairs,
// so "AA:BB:CC:DD:EE:FF" and "aabbccddeeff" both become "aa:bb:cc:dd:ee:ff".
// The input is not validated: odd lengths and non-hex bytes are grouped positionally.
func NormalizeMAC(mac string) string {
	mac = lowerASCII(strings.ReplaceAll(mac, ":", ""))

	var sb strings.Builder

	sb.Grow(len(mac) + len(mac)/2)

	for i := range len(mac) {
		if i > 0 && i%2 == 0 {
			sb.WriteByte(':')
		}

		sb.WriteByte(mac[i])
	}

	return sb.String()
}

// lowerASCII lowercases ASCII letters and keeps every other byte as is.
//
// Peer files are not necessarily UTF-8, and filenames must keep their bytes.
func lowerASCII(s string) string {
	b := []byte(s)

	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}

	return string(b)
}
