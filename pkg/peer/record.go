// Copyright (c) 2026 Sidero Labs, Inc.
//
// Use of this software is governed by the Business Source License
// included in the LICENSE file.

// Package peer implements the peer definition file model: parsing, MAC normalization and canonical filenames.
package peer

// Field is an optional peer attribute.
//
// The zero value is an absent field.
type Field struct {
	value   string
	present bool
}

// Some returns a present field holding value.
func Some(value string) Field {
	return Field{value: value, present: true}
}

// Get returns the value and whether the field is present.
func (field Field) Get() (string, bool) {
	return field.value, field.present
}

// Value returns the field value, or an empty string if the field is absent.
func (field Field) Value() string {
	return field.value
}

// Present reports whether the field was set.
func (field Field) Present() bool {
	return field.present
}

// String implements fmt.Stringer.
func (field Field) String() string {
	if !field.present {
		return "<absent>"
	}

	return field.value
}

// Field names in canonical filename order.
const (
	FieldName            = "name"
	FieldMAC             = "mac"
	FieldVPN             = "vpn"
	FieldToken           = "token"
	FieldMonitoringToken = "monitoring-token"
)

// FieldNames lists the record fields in canonical filename order.
var FieldNames = []string{FieldName, FieldMAC, FieldVPN, FieldToken, FieldMonitoringToken}

// Record describes a single peer as parsed from its definition file.
type Record struct {
	Name            Field
	MAC             Field
	VPN             Field
	Token           Field
	MonitoringToken Field
}

// Fields returns the record fields in canonical filename order.
func (record Record) Fields() []Field {
	return []Field{record.Name, record.MAC, record.VPN, record.Token, record.MonitoringToken}
}

// IsEmpty reports whether no field is present.
func (record Record) IsEmpty() bool {
	for _, field := range record.Fields() {
		if field.Present() {
			return false
		}
	}

	return true
}

// Diff returns the names of the fields whose values differ between a and b.
//
// Absent fields compare as empty strings, as that is how they are rendered in filenames.
func Diff(a, b Record) []string {
	var changed []string

	aFields, bFields := a.Fields(), b.Fields()

	for i := range aFields {
		if aFields[i].Value() != bFields[i].Value() {
			changed = append(changed, FieldNames[i])
		}
	}

	return changed
}
