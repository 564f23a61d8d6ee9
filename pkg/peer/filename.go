// Copyright (c) 2026 Sidero Labs, Inc.
//
// Use of this software is governed by the Business Source License
// included in the LICENSE file.

package peer

import (
	"fmt"
	"strings"
)

// Separator joins the fields of a canonical filename.
const Separator = "@"

// Filename returns the canonical filename of the record.
//
// Every field is followed by a separator, in the fixed order name, mac, vpn, token, monitoring token,
// and the final separator is stripped. Absent fields are empty segments, so a canonical filename
// always has five segments: "bob@@@@" for a record holding only a name.
func (record Record) Filename() string {
	var sb strings.Builder

	for _, field := range record.Fields() {
		sb.WriteString(field.Value())
		sb.WriteString(Separator)
	}

	return strings.TrimSuffix(sb.String(), Separator)
}

// CanonicalFilename returns the canonical filename of the record, failing when it would leave the peer directory.
func (record Record) CanonicalFilename() (string, error) {
	filename := record.Filename()

	if strings.ContainsAny(filename, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}

	return filename, nil
}

// ParseFilename splits a canonical filename back into a record.
//
// Empty segments and missing trailing segments are absent fields.
// Anything after the fifth separator stays part of the monitoring token.
func ParseFilename(filename string) Record {
	fields := make([]Field, len(FieldNames))

	if filename != "" {
		for i, part := range strings.SplitN(filename, Separator, len(FieldNames)) {
			if part != "" {
				fields[i] = Some(part)
			}
		}
	}

	return Record{
		Name:            fields[0],
		MAC:             fields[1],
		VPN:             fields[2],
		Token:           fields[3],
		MonitoringToken: fields[4],
	}
}
