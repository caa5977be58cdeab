// Package codec defines the two serialization strategies under comparison and
// provides the backends that implement them.
//
// A binary codec writes the Protocol Buffers wire format for the records of
// package model; a text codec writes JSON. Backends register themselves by
// name so the command line can select them.
package codec

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/valyala/fastjson"
)

// ErrUnsupportedType is returned when a backend is asked to encode or decode
// a value it has no mapping for.
var ErrUnsupportedType = errors.New("codec: unsupported type")

// ErrUnknownCodec is returned by the registry lookups.
var ErrUnknownCodec = errors.New("codec: unknown codec")

func unsupported(v any) error {
	return fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

// BinaryCodec encodes records in the tagged-schema binary format.
type BinaryCodec interface {
	// Name returns the registry name of the backend.
	Name() string

	// Marshal encodes v. The returned slice is owned by the caller.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v, which must be a pointer to a record.
	// Truncated or corrupt input returns an error.
	Unmarshal(data []byte, v any) error
}

// Appender is implemented by codecs that can encode into a caller-supplied
// buffer, typically one obtained from GetBuffer.
type Appender interface {
	AppendMarshal(b []byte, v any) ([]byte, error)
}

// TextCodec encodes records as JSON.
type TextCodec interface {
	// Name returns the registry name of the backend.
	Name() string

	// Marshal encodes v as a JSON document.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes a JSON document into v.
	Unmarshal(data []byte, v any) error

	// NewDocumentParser returns a parser for the untyped document mode.
	NewDocumentParser() DocumentParser
}

// DocumentParser parses JSON into an untyped tree whose nodes are objects,
// arrays, strings, numbers, booleans or null. Key lookups on the tree return
// nil for absent keys and never coerce between node types.
//
// A DocumentParser is not safe for concurrent use, and the value returned by
// Parse is only valid until the next call to Parse.
type DocumentParser interface {
	Parse(data []byte) (*fastjson.Value, error)
}

type documentParser struct {
	p fastjson.Parser
}

// NewDocumentParser returns the fastjson-backed document parser shared by all
// text backends.
func NewDocumentParser() DocumentParser {
	return &documentParser{}
}

func (d *documentParser) Parse(data []byte) (*fastjson.Value, error) {
	v, err := d.p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("codec: parse document: %w", err)
	}
	return v, nil
}

// Default backend names.
const (
	DefaultBinary = "protowire"
	DefaultText   = "jsoniter"
)

var (
	mu             sync.RWMutex
	binaryRegistry = make(map[string]BinaryCodec)
	textRegistry   = make(map[string]TextCodec)
)

// RegisterBinary registers a binary backend under its name, replacing any
// backend already registered under that name.
func RegisterBinary(c BinaryCodec) {
	mu.Lock()
	defer mu.Unlock()
	binaryRegistry[c.Name()] = c
}

// RegisterText registers a text backend under its name.
func RegisterText(c TextCodec) {
	mu.Lock()
	defer mu.Unlock()
	textRegistry[c.Name()] = c
}

// GetBinary returns the binary backend registered under name.
func GetBinary(name string) (BinaryCodec, error) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := binaryRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: binary %q (available: %v)", ErrUnknownCodec, name, sortedKeys(binaryRegistry))
	}
	return c, nil
}

// GetText returns the text backend registered under name.
func GetText(name string) (TextCodec, error) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := textRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: text %q (available: %v)", ErrUnknownCodec, name, sortedKeys(textRegistry))
	}
	return c, nil
}

// BinaryNames returns the registered binary backend names in sorted order.
func BinaryNames() []string {
	mu.RLock()
	defer mu.RUnlock()
	return sortedKeys(binaryRegistry)
}

// TextNames returns the registered text backend names in sorted order.
func TextNames() []string {
	mu.RLock()
	defer mu.RUnlock()
	return sortedKeys(textRegistry)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func init() {
	RegisterBinary(protowireCodec{})
	RegisterBinary(protoreflectCodec{})
	RegisterText(jsoniterCodec{})
	RegisterText(gojsonCodec{})
	RegisterText(stdlibCodec{})
}
