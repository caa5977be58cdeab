package wire

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// WireType indicates how a value is encoded on the wire.
// The values match the Protocol Buffers wire types.
type WireType uint8

const (
	// WireVarint is used for integers, booleans, and enums.
	WireVarint WireType = WireType(protowire.VarintType)

	// WireFixed64 is used for fixed 64-bit values.
	WireFixed64 WireType = WireType(protowire.Fixed64Type)

	// WireBytes is used for length-prefixed data: strings, byte slices,
	// embedded messages, and map entries.
	// Format: [length: varint] [data: length bytes]
	WireBytes WireType = WireType(protowire.BytesType)

	// WireFixed32 is used for fixed 32-bit values.
	WireFixed32 WireType = WireType(protowire.Fixed32Type)
)

// Wire types 3 and 4 are the deprecated group markers. Records in this
// module never use groups, so both are rejected by DecodeTag.

// String returns a human-readable name for the wire type.
func (w WireType) String() string {
	switch w {
	case WireVarint:
		return "Varint"
	case WireFixed64:
		return "Fixed64"
	case WireBytes:
		return "Bytes"
	case WireFixed32:
		return "Fixed32"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the wire type is a known, non-group type.
func (w WireType) IsValid() bool {
	switch w {
	case WireVarint, WireFixed64, WireBytes, WireFixed32:
		return true
	default:
		return false
	}
}

// AppendTag appends a field tag to buf and returns the extended buffer.
func AppendTag(buf []byte, fieldNum int, wireType WireType) []byte {
	return protowire.AppendTag(buf, protowire.Number(fieldNum), protowire.Type(wireType))
}

// DecodeTag decodes a field tag from data.
// Returns the field number, wire type, bytes consumed, and any error.
//
// A field number outside the valid range is rejected with ErrInvalidFieldNumber,
// group wire types with ErrInvalidWireType.
func DecodeTag(data []byte) (fieldNum int, wireType WireType, n int, err error) {
	v, n := protowire.ConsumeVarint(data)
	if n < 0 {
		return 0, 0, 0, parseError(n)
	}
	num, typ := protowire.DecodeTag(v)
	if !num.IsValid() {
		return 0, 0, 0, ErrInvalidFieldNumber
	}
	wireType = WireType(typ)
	if !wireType.IsValid() {
		return 0, 0, n, ErrInvalidWireType
	}
	return int(num), wireType, n, nil
}

// TagSize returns the number of bytes required to encode a tag.
func TagSize(fieldNum int) int {
	return protowire.SizeTag(protowire.Number(fieldNum))
}

// MaxFieldNumber is the maximum allowed field number.
const MaxFieldNumber = int(protowire.MaxValidNumber)

// ValidateFieldNumber returns an error if the field number cannot be declared
// in a schema: outside 1..MaxFieldNumber or inside the range reserved for the
// protobuf implementation.
func ValidateFieldNumber(fieldNum int) error {
	if fieldNum <= 0 || fieldNum > MaxFieldNumber {
		return ErrInvalidFieldNumber
	}
	if n := protowire.Number(fieldNum); n >= protowire.FirstReservedNumber && n <= protowire.LastReservedNumber {
		return ErrInvalidFieldNumber
	}
	return nil
}
