package model

import (
	"maps"
	"slices"

	"github.com/blockberries/wirebench/internal/wire"
)

// WireMessage is implemented by every binary record.
type WireMessage interface {
	// Size returns the exact encoded length of the record.
	Size() int

	// AppendWire appends the encoded record to b.
	AppendWire(b []byte) []byte

	// UnmarshalWire replaces the record with the decoded contents of data.
	// Unknown fields are skipped.
	UnmarshalWire(data []byte) error
}

var (
	_ WireMessage = (*Person)(nil)
	_ WireMessage = (*PhoneNumber)(nil)
	_ WireMessage = (*Address)(nil)
	_ WireMessage = (*EvolvedPerson)(nil)
	_ WireMessage = (*EvolvedPhoneNumber)(nil)
	_ WireMessage = (*EvolvedAddress)(nil)
)

// fieldFunc decodes the value of one field and returns the bytes consumed.
type fieldFunc func(num int, wt wire.WireType, data []byte) (int, error)

// decodeFields walks the tagged fields of a record body.
func decodeFields(typeName string, data []byte, fn fieldFunc) error {
	off := 0
	for off < len(data) {
		num, wt, n, err := wire.DecodeTag(data[off:])
		if err != nil {
			return wire.NewDecodeError(typeName, 0, off, err)
		}
		off += n

		m, err := fn(num, wt, data[off:])
		if err != nil {
			return wire.NewDecodeError(typeName, num, off, err)
		}
		off += m
	}
	return nil
}

func decodeString(wt wire.WireType, data []byte) (string, int, error) {
	if err := wire.ExpectWireType(wt, wire.WireBytes); err != nil {
		return "", 0, err
	}
	return wire.DecodeString(data)
}

func decodeInt32(wt wire.WireType, data []byte) (int32, int, error) {
	if err := wire.ExpectWireType(wt, wire.WireVarint); err != nil {
		return 0, 0, err
	}
	return wire.DecodeInt32(data)
}

func decodeBool(wt wire.WireType, data []byte) (bool, int, error) {
	if err := wire.ExpectWireType(wt, wire.WireVarint); err != nil {
		return false, 0, err
	}
	return wire.DecodeBool(data)
}

func decodeMessage(wt wire.WireType, data []byte) ([]byte, int, error) {
	if err := wire.ExpectWireType(wt, wire.WireBytes); err != nil {
		return nil, 0, err
	}
	return wire.DecodeBytes(data)
}

// Proto3 scalar helpers: zero values are not written.

func stringSize(num int, s string) int {
	if s == "" {
		return 0
	}
	return wire.StringFieldSize(num, s)
}

func appendString(b []byte, num int, s string) []byte {
	if s == "" {
		return b
	}
	return wire.AppendStringField(b, num, s)
}

func int32Size(num int, v int32) int {
	if v == 0 {
		return 0
	}
	return wire.Int32FieldSize(num, v)
}

func appendInt32(b []byte, num int, v int32) []byte {
	if v == 0 {
		return b
	}
	return wire.AppendInt32Field(b, num, v)
}

func boolSize(num int, v bool) int {
	if !v {
		return 0
	}
	return wire.BoolFieldSize(num)
}

func appendBool(b []byte, num int, v bool) []byte {
	if !v {
		return b
	}
	return wire.AppendBoolField(b, num, v)
}

// Metadata is a map<string, string>; entries are written in key order so
// the encoding is byte-for-byte deterministic.

func metadataEntrySize(k, v string) int {
	return wire.StringFieldSize(fieldMapKey, k) + wire.StringFieldSize(fieldMapValue, v)
}

func metadataSize(m map[string]string) int {
	n := 0
	for k, v := range m {
		n += wire.MessageFieldSize(fieldPersonMetadata, metadataEntrySize(k, v))
	}
	return n
}

func appendMetadata(b []byte, m map[string]string) []byte {
	if len(m) == 0 {
		return b
	}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		v := m[k]
		b = wire.AppendMessageField(b, fieldPersonMetadata, metadataEntrySize(k, v), func(b []byte) []byte {
			b = wire.AppendStringField(b, fieldMapKey, k)
			return wire.AppendStringField(b, fieldMapValue, v)
		})
	}
	return b
}

func decodeMetadataEntry(data []byte) (key, value string, err error) {
	err = decodeFields("MetadataEntry", data, func(num int, wt wire.WireType, data []byte) (int, error) {
		var n int
		var err error
		switch num {
		case fieldMapKey:
			key, n, err = decodeString(wt, data)
		case fieldMapValue:
			value, n, err = decodeString(wt, data)
		default:
			n, err = wire.SkipField(num, wt, data)
		}
		return n, err
	})
	return key, value, err
}

// decodeMetadataInto decodes one map entry into *m, allocating the map on first use.
func decodeMetadataInto(m *map[string]string, wt wire.WireType, data []byte) (int, error) {
	body, n, err := decodeMessage(wt, data)
	if err != nil {
		return 0, err
	}
	k, v, err := decodeMetadataEntry(body)
	if err != nil {
		return 0, err
	}
	if *m == nil {
		*m = make(map[string]string)
	}
	(*m)[k] = v
	return n, nil
}

func marshal(m WireMessage) []byte {
	return m.AppendWire(make([]byte, 0, m.Size()))
}
