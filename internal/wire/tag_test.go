package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireTypeString(t *testing.T) {
	tests := []struct {
		wireType WireType
		expected string
	}{
		{WireVarint, "Varint"},
		{WireFixed64, "Fixed64"},
		{WireBytes, "Bytes"},
		{WireFixed32, "Fixed32"},
		{WireType(3), "Unknown"},
		{WireType(4), "Unknown"},
		{WireType(100), "Unknown"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, tc.wireType.String(), "WireType(%d)", tc.wireType)
	}
}

func TestWireTypeIsValid(t *testing.T) {
	for _, wt := range []WireType{WireVarint, WireFixed64, WireBytes, WireFixed32} {
		assert.True(t, wt.IsValid(), "WireType(%d)", wt)
	}
	for _, wt := range []WireType{3, 4, 6, 7} {
		assert.False(t, wt.IsValid(), "WireType(%d)", wt)
	}
}

func TestTagRoundTrip(t *testing.T) {
	for _, fieldNum := range []int{1, 2, 15, 16, 2047, 2048, MaxFieldNumber} {
		for _, wt := range []WireType{WireVarint, WireFixed64, WireBytes, WireFixed32} {
			buf := AppendTag(nil, fieldNum, wt)
			assert.Equal(t, TagSize(fieldNum), len(buf))

			gotNum, gotType, n, err := DecodeTag(buf)
			require.NoError(t, err)
			assert.Equal(t, fieldNum, gotNum)
			assert.Equal(t, wt, gotType)
			assert.Equal(t, len(buf), n)
		}
	}
}

func TestDecodeTagErrors(t *testing.T) {
	_, _, _, err := DecodeTag([]byte{0x02})
	assert.ErrorIs(t, err, ErrInvalidFieldNumber, "field number zero")

	_, _, _, err = DecodeTag([]byte{0x0B})
	assert.ErrorIs(t, err, ErrInvalidWireType, "start group")

	_, _, _, err = DecodeTag(nil)
	assert.ErrorIs(t, err, ErrMalformed, "empty input")
}

func TestValidateFieldNumber(t *testing.T) {
	assert.NoError(t, ValidateFieldNumber(1))
	assert.NoError(t, ValidateFieldNumber(MaxFieldNumber))
	assert.ErrorIs(t, ValidateFieldNumber(0), ErrInvalidFieldNumber)
	assert.ErrorIs(t, ValidateFieldNumber(-1), ErrInvalidFieldNumber)
	assert.ErrorIs(t, ValidateFieldNumber(MaxFieldNumber+1), ErrInvalidFieldNumber)
	assert.ErrorIs(t, ValidateFieldNumber(19000), ErrInvalidFieldNumber, "reserved range")
	assert.ErrorIs(t, ValidateFieldNumber(19999), ErrInvalidFieldNumber, "reserved range")
	assert.NoError(t, ValidateFieldNumber(18999))
	assert.NoError(t, ValidateFieldNumber(20000))
}
