// Package wire provides low-level encoding primitives for the Protocol Buffers
// wire format used by the binary records.
package wire

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Sentinel errors for common conditions.
// These can be checked using errors.Is().
var (
	// ErrMalformed indicates the input is not valid wire-format data.
	ErrMalformed = errors.New("wire: malformed input")

	// ErrInvalidWireType indicates an unknown, group, or unexpected wire type.
	ErrInvalidWireType = errors.New("wire: invalid wire type")

	// ErrInvalidFieldNumber indicates a field number outside the valid range.
	ErrInvalidFieldNumber = errors.New("wire: invalid field number")

	// ErrOverflow indicates a decoded integer does not fit its target type.
	ErrOverflow = errors.New("wire: integer overflow")
)

// parseError converts a negative protowire length into an error that matches
// both ErrMalformed and the underlying protowire cause (io.ErrUnexpectedEOF
// for truncated input).
func parseError(n int) error {
	return fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
}

// DecodeError provides detailed context for decoding failures.
// It implements the error interface and supports error unwrapping.
type DecodeError struct {
	// Type is the name of the record being decoded.
	Type string

	// FieldNumber is the wire field number, or 0 when the tag itself failed.
	FieldNumber int

	// Offset is the byte offset in the input where the error occurred.
	Offset int

	// Cause is the underlying error.
	Cause error
}

// Error returns a formatted error message.
func (e *DecodeError) Error() string {
	if e.FieldNumber > 0 {
		return fmt.Sprintf("wire: decode %s field %d at offset %d: %v", e.Type, e.FieldNumber, e.Offset, e.Cause)
	}
	return fmt.Sprintf("wire: decode %s at offset %d: %v", e.Type, e.Offset, e.Cause)
}

// Unwrap returns the underlying cause of the error.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// NewDecodeError creates a DecodeError for a record field.
func NewDecodeError(typeName string, fieldNum, offset int, cause error) *DecodeError {
	return &DecodeError{
		Type:        typeName,
		FieldNumber: fieldNum,
		Offset:      offset,
		Cause:       cause,
	}
}
