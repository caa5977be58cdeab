package codec

import (
	"encoding/json"
	"fmt"

	gojson "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"
)

// jsoniterCodec is the default text backend. The standard-library compatible
// configuration sorts map keys, so output is byte-deterministic.
type jsoniterCodec struct{}

var jsoniterAPI = jsoniter.ConfigCompatibleWithStandardLibrary

func (jsoniterCodec) Name() string { return "jsoniter" }

func (jsoniterCodec) Marshal(v any) ([]byte, error) {
	b, err := jsoniterAPI.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: jsoniter marshal: %w", err)
	}
	return b, nil
}

func (jsoniterCodec) Unmarshal(data []byte, v any) error {
	if err := jsoniterAPI.Unmarshal(data, v); err != nil {
		return fmt.Errorf("codec: jsoniter unmarshal: %w", err)
	}
	return nil
}

func (jsoniterCodec) NewDocumentParser() DocumentParser { return NewDocumentParser() }

// gojsonCodec uses goccy/go-json.
type gojsonCodec struct{}

func (gojsonCodec) Name() string { return "gojson" }

func (gojsonCodec) Marshal(v any) ([]byte, error) {
	b, err := gojson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: gojson marshal: %w", err)
	}
	return b, nil
}

func (gojsonCodec) Unmarshal(data []byte, v any) error {
	if err := gojson.Unmarshal(data, v); err != nil {
		return fmt.Errorf("codec: gojson unmarshal: %w", err)
	}
	return nil
}

func (gojsonCodec) NewDocumentParser() DocumentParser { return NewDocumentParser() }

// stdlibCodec is the encoding/json baseline the other text backends are
// usually measured against.
type stdlibCodec struct{}

func (stdlibCodec) Name() string { return "stdlib" }

func (stdlibCodec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: stdlib marshal: %w", err)
	}
	return b, nil
}

func (stdlibCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("codec: stdlib unmarshal: %w", err)
	}
	return nil
}

func (stdlibCodec) NewDocumentParser() DocumentParser { return NewDocumentParser() }
