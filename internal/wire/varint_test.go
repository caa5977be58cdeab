package wire

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test cases for unsigned varint encoding
var uvarintTestCases = []struct {
	name     string
	value    uint64
	expected []byte
}{
	{"zero", 0, []byte{0x00}},
	{"one", 1, []byte{0x01}},
	{"max_1_byte", 127, []byte{0x7f}},
	{"min_2_byte", 128, []byte{0x80, 0x01}},
	{"300", 300, []byte{0xac, 0x02}},
	{"max_2_byte", 16383, []byte{0xff, 0x7f}},
	{"min_3_byte", 16384, []byte{0x80, 0x80, 0x01}},
	{"max_uint32", math.MaxUint32, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	{"max_uint64", math.MaxUint64, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
}

func TestAppendUvarint(t *testing.T) {
	for _, tc := range uvarintTestCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, AppendUvarint(nil, tc.value))
			assert.Equal(t, len(tc.expected), UvarintSize(tc.value))
		})
	}
}

func TestDecodeUvarint(t *testing.T) {
	for _, tc := range uvarintTestCases {
		t.Run(tc.name, func(t *testing.T) {
			value, n, err := DecodeUvarint(tc.expected)
			require.NoError(t, err)
			assert.Equal(t, tc.value, value)
			assert.Equal(t, len(tc.expected), n)
		})
	}
}

func TestDecodeUvarintErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"truncated_2byte", []byte{0x80}},
		{"truncated_3byte", []byte{0x80, 0x80}},
		{"overflow", []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x02}},
		{"too_long", []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := DecodeUvarint(tc.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecodeUvarintTruncatedIsUnexpectedEOF(t *testing.T) {
	_, _, err := DecodeUvarint([]byte{0x80})
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestInt32RoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 5, 12345, math.MaxInt32, math.MinInt32}
	for _, v := range values {
		encoded := AppendInt32(nil, v)
		assert.Equal(t, Int32Size(v), len(encoded))

		decoded, n, err := DecodeInt32(encoded)
		require.NoError(t, err, "value %d", v)
		assert.Equal(t, v, decoded)
		assert.Equal(t, len(encoded), n)
	}
}

func TestNegativeInt32TakesTenBytes(t *testing.T) {
	assert.Len(t, AppendInt32(nil, -1), MaxVarintLen64)
}

func TestDecodeInt32Overflow(t *testing.T) {
	_, _, err := DecodeInt32(AppendUvarint(nil, math.MaxInt32+1))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestDecodeBool(t *testing.T) {
	v, n, err := DecodeBool([]byte{0x01})
	require.NoError(t, err)
	assert.True(t, v)
	assert.Equal(t, 1, n)

	v, _, err = DecodeBool([]byte{0x00})
	require.NoError(t, err)
	assert.False(t, v)
}
