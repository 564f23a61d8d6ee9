// Copyright (c) 2026 Sidero Labs, Inc.
//
// Use of this software is governed by the Business Source License
// included in the LICENSE file.

package peer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Line keywords of a peer definition file.
//
// Attribute lines are written as comments ("# MAC: aa:bb:cc:dd:ee:ff"),
// the VPN key as a fastd statement (`key "..."`).
const (
	KeywordName            = "Knotenname:"
	KeywordMAC             = "MAC:"
	KeywordToken           = "Token:"
	KeywordMonitoringToken = "Monitoring-Token:"
	KeywordKey             = "key"
)

// Parse reads a peer definition file.
//
// Unknown lines are ignored, a repeated attribute overrides the earlier one.
// Lines are not length-limited.
func Parse(r io.Reader) (Record, error) {
	var b builder

	reader := bufio.NewReader(r)

	for lineNo := 1; ; lineNo++ {
		line, err := reader.ReadString('\n')

		if line != "" {
			if parseErr := b.parseLine(line); parseErr != nil {
				return Record{}, fmt.Errorf("line %d: %w", lineNo, parseErr)
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return Record{}, fmt.Errorf("failed to read peer definition: %w", err)
		}
	}

	return b.build(), nil
}

// ParseString is Parse for in-memory content.
func ParseString(content string) (Record, error) {
	return Parse(strings.NewReader(content))
}

// builder accumulates the fields of a single file.
type builder struct {
	record Record
}

func (b *builder) build() Record {
	return b.record
}

func (b *builder) parseLine(line string) error {
	tokens := strings.FieldsFunc(line, isASCIISpace)
	if len(tokens) == 0 {
		return nil
	}

	// the comment marker in front of an attribute keyword is optional
	if isAttributeKeyword(tokens[0]) {
		tokens = append([]string{""}, tokens...)
	}

	for len(tokens) < 3 {
		tokens = append(tokens, "")
	}

	switch {
	case tokens[1] == KeywordName:
		b.record.Name = Some(lowerASCII(tokens[2]))
	case tokens[1] == KeywordMAC:
		b.record.MAC = Some(NormalizeMAC(tokens[2]))
	case tokens[1] == KeywordToken:
		b.record.Token = Some(lowerASCII(tokens[2]))
	case tokens[1] == KeywordMonitoringToken:
		b.record.MonitoringToken = Some(lowerASCII(tokens[2]))
	case tokens[0] == KeywordKey:
		key, err := quoted(tokens[1])
		if err != nil {
			return err
		}

		b.record.VPN = Some(lowerASCII(key))
	}

	return nil
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

func isAttributeKeyword(token string) bool {
	switch token {
	case KeywordName, KeywordMAC, KeywordToken, KeywordMonitoringToken:
		return true
	default:
		return false
	}
}

// quoted returns the text between the first and the second double quote of s.
func quoted(s string) (string, error) {
	_, rest, ok := strings.Cut(s, `"`)
	if !ok {
		return "", fmt.Errorf("%w: no opening quote in %q", ErrMalformedKeyLine, s)
	}

	value, _, ok := strings.Cut(rest, `"`)
	if !ok {
		return "", fmt.Errorf("%w: no closing quote in %q", ErrMalformedKeyLine, s)
	}

	return value, nil
}
