package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringFieldRoundTrip(t *testing.T) {
	buf := AppendStringField(nil, 3, "test@example.com")
	assert.Equal(t, StringFieldSize(3, "test@example.com"), len(buf))

	num, wt, n, err := DecodeTag(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, num)
	assert.Equal(t, WireBytes, wt)

	s, m, err := DecodeString(buf[n:])
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", s)
	assert.Equal(t, len(buf), n+m)
}

func TestMessageFieldSize(t *testing.T) {
	inner := AppendStringField(nil, 1, "555-1000")
	buf := AppendMessageField(nil, 4, len(inner), func(b []byte) []byte {
		return append(b, inner...)
	})
	assert.Equal(t, MessageFieldSize(4, len(inner)), len(buf))

	_, _, n, err := DecodeTag(buf)
	require.NoError(t, err)
	body, _, err := DecodeBytes(buf[n:])
	require.NoError(t, err)
	assert.Equal(t, inner, body)
}

func TestSkipField(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"varint", AppendInt32Field(nil, 8, 5)},
		{"bool", AppendBoolField(nil, 3, true)},
		{"string", AppendStringField(nil, 7, "New information")},
		{"fixed32", append(AppendTag(nil, 9, WireFixed32), 1, 2, 3, 4)},
		{"fixed64", append(AppendTag(nil, 9, WireFixed64), 1, 2, 3, 4, 5, 6, 7, 8)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			num, wt, n, err := DecodeTag(tc.buf)
			require.NoError(t, err)

			skipped, err := SkipField(num, wt, tc.buf[n:])
			require.NoError(t, err)
			assert.Equal(t, len(tc.buf), n+skipped)
		})
	}
}

func TestSkipFieldTruncated(t *testing.T) {
	buf := AppendStringField(nil, 7, "New information")
	num, wt, n, err := DecodeTag(buf)
	require.NoError(t, err)

	_, err = SkipField(num, wt, buf[n:len(buf)-3])
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeErrorMessage(t *testing.T) {
	err := NewDecodeError("Person", 4, 17, ErrInvalidWireType)
	assert.Equal(t, "wire: decode Person field 4 at offset 17: wire: invalid wire type", err.Error())
	assert.ErrorIs(t, err, ErrInvalidWireType)

	err = NewDecodeError("Person", 0, 0, ErrMalformed)
	assert.Equal(t, "wire: decode Person at offset 0: wire: malformed input", err.Error())
}
