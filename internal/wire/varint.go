package wire

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// MaxVarintLen64 is the maximum number of bytes for a varint-encoded uint64.
const MaxVarintLen64 = 10

// AppendUvarint appends the varint encoding of v to buf and returns the extended buffer.
//
// Example encodings:
//   - 0 → [0x00]
//   - 127 → [0x7f]
//   - 128 → [0x80, 0x01]
//   - 300 → [0xac, 0x02]
func AppendUvarint(buf []byte, v uint64) []byte {
	return protowire.AppendVarint(buf, v)
}

// AppendInt32 appends v using the proto3 int32 encoding: negative values are
// sign-extended to 64 bits and therefore always take ten bytes.
func AppendInt32(buf []byte, v int32) []byte {
	return protowire.AppendVarint(buf, uint64(int64(v)))
}

// DecodeUvarint decodes a varint from data and returns the value and the number of bytes consumed.
func DecodeUvarint(data []byte) (uint64, int, error) {
	v, n := protowire.ConsumeVarint(data)
	if n < 0 {
		return 0, 0, parseError(n)
	}
	return v, n, nil
}

// DecodeInt32 decodes a proto3 int32 varint.
// Values that do not survive the int64 → int32 truncation are rejected.
func DecodeInt32(data []byte) (int32, int, error) {
	v, n, err := DecodeUvarint(data)
	if err != nil {
		return 0, 0, err
	}
	s := int64(v)
	if s < math.MinInt32 || s > math.MaxInt32 {
		return 0, 0, ErrOverflow
	}
	return int32(s), n, nil
}

// DecodeBool decodes a varint-encoded boolean. Any non-zero value is true.
func DecodeBool(data []byte) (bool, int, error) {
	v, n, err := DecodeUvarint(data)
	if err != nil {
		return false, 0, err
	}
	return protowire.DecodeBool(v), n, nil
}

// UvarintSize returns the number of bytes required to encode v as a varint.
func UvarintSize(v uint64) int {
	return protowire.SizeVarint(v)
}

// Int32Size returns the number of bytes required to encode v as a proto3 int32.
func Int32Size(v int32) int {
	return protowire.SizeVarint(uint64(int64(v)))
}
