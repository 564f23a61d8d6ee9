// Copyright (c) 2026 Sidero Labs, Inc.
//
// Use of this software is governed by the Business Source License
// included in the LICENSE file.

package peer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siderolabs/peerfix/pkg/peer"
)

func TestFilename(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct { //nolint:govet
		name     string
		record   peer.Record
		expected string
	}{
		{
			name: "all fields",
			record: peer.Record{
				Name:            peer.Some("x"),
				MAC:             peer.Some("x"),
				VPN:             peer.Some("x"),
				Token:           peer.Some("x"),
				MonitoringToken: peer.Some("x"),
			},
			expected: "x@x@x@x@x",
		},
		{
			name:     "name only",
			record:   peer.Record{Name: peer.Some("bob")},
			expected: "bob@@@@",
		},
		{
			name:     "name and mac",
			record:   peer.Record{Name: peer.Some("foo"), MAC: peer.Some("aa:bb:cc:dd:ee:ff")},
			expected: "foo@aa:bb:cc:dd:ee:ff@@@",
		},
		{
			name:     "gaps between present fields",
			record:   peer.Record{Name: peer.Some("foo"), Token: peer.Some("tok")},
			expected: "foo@@@tok@",
		},
		{
			name:     "missing name",
			record:   peer.Record{MAC: peer.Some("aa"), MonitoringToken: peer.Some("m")},
			expected: "@aa@@@m",
		},
		{
			name:     "empty record",
			record:   peer.Record{},
			expected: "@@@@",
		},
		{
			name:     "present but empty field",
			record:   peer.Record{Name: peer.Some("foo"), MonitoringToken: peer.Some("")},
			expected: "foo@@@@",
		},
		{
			name:     "non utf-8 bytes",
			record:   peer.Record{Name: peer.Some("m\xfcller")},
			expected: "m\xfcller@@@@",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, tc.record.Filename())
		})
	}
}

func TestCanonicalFilename(t *testing.T) {
	t.Parallel()

	filename, err := peer.Record{Name: peer.Some("foo")}.CanonicalFilename()
	require.NoError(t, err)
	assert.Equal(t, "foo@@@@", filename)

	filename, err = peer.Record{}.CanonicalFilename()
	require.NoError(t, err)
	assert.Equal(t, "@@@@", filename)

	_, err = peer.Record{Name: peer.Some("../etc")}.CanonicalFilename()
	require.ErrorIs(t, err, peer.ErrInvalidFilename)

	_, err = peer.Record{Token: peer.Some(`a\b`)}.CanonicalFilename()
	require.ErrorIs(t, err, peer.ErrInvalidFilename)
}

func TestParseFilename(t *testing.T) {
	t.Parallel()

	record := peer.ParseFilename("foo@aa:bb:cc:dd:ee:ff@@tok")

	assert.Equal(t, peer.Record{
		Name:  peer.Some("foo"),
		MAC:   peer.Some("aa:bb:cc:dd:ee:ff"),
		Token: peer.Some("tok"),
	}, record)

	assert.Equal(t, peer.Record{}, peer.ParseFilename(""))
	assert.Equal(t, "m@x", peer.ParseFilename("a@b@c@d@m@x").MonitoringToken.Value())
}

func TestParseFilenameRoundTrip(t *testing.T) {
	t.Parallel()

	for _, filename := range []string{"x@x@x@x@x", "bob@@@@", "foo@@@tok@", "@aa@@@m", "@@@@"} {
		assert.Equal(t, filename, peer.ParseFilename(filename).Filename())
	}
}

func TestDiff(t *testing.T) {
	t.Parallel()

	a := peer.Record{Name: peer.Some("foo"), MAC: peer.Some("aa")}
	b := peer.Record{Name: peer.Some("foo"), MAC: peer.Some("bb"), Token: peer.Some("t")}

	assert.Equal(t, []string{peer.FieldMAC, peer.FieldToken}, peer.Diff(a, b))
	assert.Empty(t, peer.Diff(a, a))
	assert.Empty(t, peer.Diff(peer.Record{Token: peer.Some("")}, peer.Record{}))
}
