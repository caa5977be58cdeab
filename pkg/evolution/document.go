package evolution

import (
	"errors"
	"fmt"

	"github.com/valyala/fastjson"
)

// Keys known to the base schema, in output order.
var (
	PersonKeys  = []string{"name", "id", "email", "phones", "addresses", "metadata"}
	PhoneKeys   = []string{"number", "type_"}
	AddressKeys = []string{"street", "city", "state", "zip", "country"}
)

// ErrDocumentShape is returned when a document does not have the structure
// of a person record.
var ErrDocumentShape = errors.New("evolution: unexpected document shape")

// FilterDocument builds, on arena a, a copy of doc restricted to the keys of
// the base schema. Keys missing from doc are written as null; nested phone
// and address entries are filtered element by element. The result may share
// leaf values with doc, so doc must stay valid until the result is consumed.
func FilterDocument(a *fastjson.Arena, doc *fastjson.Value) (*fastjson.Value, error) {
	if doc == nil || doc.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("%w: record is not an object", ErrDocumentShape)
	}

	out := a.NewObject()
	for _, k := range PersonKeys {
		switch k {
		case "phones":
			v, err := filterArray(a, doc, k, PhoneKeys)
			if err != nil {
				return nil, err
			}
			out.Set(k, v)
		case "addresses":
			v, err := filterArray(a, doc, k, AddressKeys)
			if err != nil {
				return nil, err
			}
			out.Set(k, v)
		default:
			out.Set(k, lookup(a, doc, k))
		}
	}
	return out, nil
}

func filterArray(a *fastjson.Arena, doc *fastjson.Value, key string, keys []string) (*fastjson.Value, error) {
	v := doc.Get(key)
	if v == nil || v.Type() == fastjson.TypeNull {
		return a.NewNull(), nil
	}
	items, err := v.Array()
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not an array", ErrDocumentShape, key)
	}

	out := a.NewArray()
	for i, item := range items {
		if item.Type() != fastjson.TypeObject {
			return nil, fmt.Errorf("%w: %s[%d] is not an object", ErrDocumentShape, key, i)
		}
		o := a.NewObject()
		for _, k := range keys {
			o.Set(k, lookup(a, item, k))
		}
		out.SetArrayItem(i, o)
	}
	return out, nil
}

func lookup(a *fastjson.Arena, v *fastjson.Value, key string) *fastjson.Value {
	if got := v.Get(key); got != nil {
		return got
	}
	return a.NewNull()
}
