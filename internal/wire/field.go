package wire

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// AppendStringField appends a tagged, length-prefixed string.
func AppendStringField(buf []byte, fieldNum int, s string) []byte {
	buf = AppendTag(buf, fieldNum, WireBytes)
	return protowire.AppendString(buf, s)
}

// AppendInt32Field appends a tagged proto3 int32.
func AppendInt32Field(buf []byte, fieldNum int, v int32) []byte {
	buf = AppendTag(buf, fieldNum, WireVarint)
	return AppendInt32(buf, v)
}

// AppendBoolField appends a tagged boolean.
func AppendBoolField(buf []byte, fieldNum int, v bool) []byte {
	buf = AppendTag(buf, fieldNum, WireVarint)
	return protowire.AppendVarint(buf, protowire.EncodeBool(v))
}

// AppendMessageField appends a tagged embedded message. size must be the exact
// encoded length of the message; appendFn appends the message body.
func AppendMessageField(buf []byte, fieldNum int, size int, appendFn func([]byte) []byte) []byte {
	buf = AppendTag(buf, fieldNum, WireBytes)
	buf = AppendUvarint(buf, uint64(size))
	return appendFn(buf)
}

// StringFieldSize returns the encoded size of a tagged string field.
func StringFieldSize(fieldNum int, s string) int {
	return TagSize(fieldNum) + UvarintSize(uint64(len(s))) + len(s)
}

// Int32FieldSize returns the encoded size of a tagged int32 field.
func Int32FieldSize(fieldNum int, v int32) int {
	return TagSize(fieldNum) + Int32Size(v)
}

// BoolFieldSize returns the encoded size of a tagged boolean field.
func BoolFieldSize(fieldNum int) int {
	return TagSize(fieldNum) + 1
}

// MessageFieldSize returns the encoded size of a tagged embedded message
// whose body is size bytes long.
func MessageFieldSize(fieldNum int, size int) int {
	return TagSize(fieldNum) + UvarintSize(uint64(size)) + size
}

// DecodeBytes decodes a length-prefixed byte slice. The returned slice aliases data.
func DecodeBytes(data []byte) ([]byte, int, error) {
	v, n := protowire.ConsumeBytes(data)
	if n < 0 {
		return nil, 0, parseError(n)
	}
	return v, n, nil
}

// DecodeString decodes a length-prefixed string.
func DecodeString(data []byte) (string, int, error) {
	v, n := protowire.ConsumeString(data)
	if n < 0 {
		return "", 0, parseError(n)
	}
	return v, n, nil
}

// SkipField skips the value of a field with the given number and wire type and
// returns the number of bytes consumed. It is how readers of an older schema
// step over fields they do not know.
func SkipField(fieldNum int, wireType WireType, data []byte) (int, error) {
	if !wireType.IsValid() {
		return 0, ErrInvalidWireType
	}
	n := protowire.ConsumeFieldValue(protowire.Number(fieldNum), protowire.Type(wireType), data)
	if n < 0 {
		return 0, parseError(n)
	}
	return n, nil
}

// ExpectWireType returns ErrInvalidWireType if got differs from want.
func ExpectWireType(got, want WireType) error {
	if got != want {
		return ErrInvalidWireType
	}
	return nil
}
