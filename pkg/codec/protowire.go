package codec

import (
	"github.com/blockberries/wirebench/pkg/model"
)

// protowireCodec encodes through the hand-written wire marshalling of the
// model records. It never allocates more than the exact encoded size.
type protowireCodec struct{}

func (protowireCodec) Name() string { return "protowire" }

func (protowireCodec) Marshal(v any) ([]byte, error) {
	m, ok := v.(model.WireMessage)
	if !ok {
		return nil, unsupported(v)
	}
	return m.AppendWire(make([]byte, 0, m.Size())), nil
}

func (protowireCodec) AppendMarshal(b []byte, v any) ([]byte, error) {
	m, ok := v.(model.WireMessage)
	if !ok {
		return b, unsupported(v)
	}
	return m.AppendWire(b), nil
}

func (protowireCodec) Unmarshal(data []byte, v any) error {
	m, ok := v.(model.WireMessage)
	if !ok {
		return unsupported(v)
	}
	return m.UnmarshalWire(data)
}
