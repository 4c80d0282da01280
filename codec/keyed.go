package codec

import (
	"fmt"

	"github.com/soialite/soialite/jsontext"
	"github.com/soialite/soialite/keyed"
	"github.com/soialite/soialite/reflection"
	"github.com/soialite/soialite/wire"
)

// keyedArrayAdapter handles arrays declared with a key chain. Decoded
// values are *keyed.Items so callers get indexed lookups; plain
// []interface{} slices are accepted on encode.
type keyedArrayAdapter struct {
	item     Adapter
	keyChain []string
	keyOf    keyed.KeyFunc
}

func newKeyedArrayAdapter(item Adapter, keyChain []string) (Adapter, error) {
	keyOf, err := buildKeyFunc(item, keyChain)
	if err != nil {
		return nil, err
	}
	return &keyedArrayAdapter{item: item, keyChain: keyChain, keyOf: keyOf}, nil
}

// buildKeyFunc resolves the key chain against the item type. Every step
// must name a struct field, and the leaf must be hashable: bool, integer,
// timestamp, string, or an enum keyed by its constant name.
func buildKeyFunc(item Adapter, keyChain []string) (keyed.KeyFunc, error) {
	adapters := make([]Adapter, 0, len(keyChain))
	current := item
	for _, name := range keyChain {
		sa, ok := current.(*structAdapter)
		if !ok {
			return nil, fmt.Errorf("key chain step %q: not a struct type", name)
		}
		var field *structField
		for i := range sa.fields {
			if sa.fields[i].name == name {
				field = &sa.fields[i]
				break
			}
		}
		if field == nil {
			return nil, fmt.Errorf("key chain step %q: no such field in %s", name, sa.record.ID)
		}
		adapters = append(adapters, field.adapter)
		current = field.adapter
	}
	if len(adapters) == 0 {
		return nil, fmt.Errorf("empty key chain")
	}
	switch current.(type) {
	case boolAdapter, int32Adapter, int64Adapter, uint64Adapter,
		timestampAdapter, stringAdapter, *enumAdapter:
	default:
		t := current.Type()
		desc := t.Kind
		if t.Kind == reflection.KindPrimitive {
			desc = string(t.Primitive)
		}
		return nil, fmt.Errorf("key chain leaf %q: %s cannot be used as a key",
			keyChain[len(keyChain)-1], desc)
	}
	names := append([]string(nil), keyChain...)
	return func(item interface{}) interface{} {
		v := item
		for i, name := range names {
			m, ok := coerceStruct(v)
			if !ok {
				panic(fmt.Sprintf("keyed item is not a struct: %T", v))
			}
			if field, ok := m[name]; ok && field != nil {
				v = field
			} else {
				v = adapters[i].Default()
			}
		}
		return enumKeyToScalar(v)
	}, nil
}

// enumKeyToScalar maps enum key values to their constant name so they can
// be hashed and compared.
func enumKeyToScalar(v interface{}) interface{} {
	switch x := v.(type) {
	case *EnumValue:
		return x.Kind
	case *UnrecognizedEnum:
		return int64(x.Number)
	}
	return v
}

func (a *keyedArrayAdapter) coerce(v interface{}) ([]interface{}, bool) {
	switch x := v.(type) {
	case nil:
		return nil, true
	case []interface{}:
		return x, true
	case *keyed.Items:
		return x.Slice(), true
	}
	return nil, false
}

func (a *keyedArrayAdapter) collect(items []interface{}) *keyed.Items {
	out := keyed.NewItems(a.keyOf)
	out.Push(items...)
	return out
}

func (a *keyedArrayAdapter) Type() reflection.Type {
	return reflection.KeyedArray(a.item.Type(), a.keyChain...)
}

func (a *keyedArrayAdapter) AppendBinary(sink *wire.ByteSink, v interface{}) error {
	items, ok := a.coerce(v)
	if !ok {
		return typeMismatch(a.Type(), v)
	}
	wire.AppendArrayPrefix(sink, len(items))
	for _, item := range items {
		if err := a.item.AppendBinary(sink, item); err != nil {
			return err
		}
	}
	return nil
}

func (a *keyedArrayAdapter) ParseBinary(src *wire.ByteSource, cfg *Config) interface{} {
	length := wire.ReadArrayPrefix(src)
	if src.Remaining() < length {
		src.Fail(wire.ErrUnexpectedEOF)
		return a.Default()
	}
	out := keyed.NewItems(a.keyOf)
	for i := 0; i < length && src.Err() == nil; i++ {
		out.Push(a.item.ParseBinary(src, cfg))
	}
	return out
}

func (a *keyedArrayAdapter) AppendDense(dst []byte, v interface{}) ([]byte, error) {
	items, ok := a.coerce(v)
	if !ok {
		return dst, typeMismatch(a.Type(), v)
	}
	dst = append(dst, '[')
	for i, item := range items {
		if i > 0 {
			dst = append(dst, ',')
		}
		var err error
		dst, err = a.item.AppendDense(dst, item)
		if err != nil {
			return dst, err
		}
	}
	return append(dst, ']'), nil
}

func (a *keyedArrayAdapter) AppendReadable(dst []byte, nl *jsontext.NewLine, v interface{}) ([]byte, error) {
	items, ok := a.coerce(v)
	if !ok {
		return dst, typeMismatch(a.Type(), v)
	}
	if len(items) == 0 {
		return append(dst, '[', ']'), nil
	}
	dst = append(dst, '[')
	dst = append(dst, nl.Indent()...)
	for i, item := range items {
		if i > 0 {
			dst = append(dst, ',')
			dst = append(dst, nl.Current()...)
		}
		var err error
		dst, err = a.item.AppendReadable(dst, nl, item)
		if err != nil {
			return dst, err
		}
	}
	dst = append(dst, nl.Dedent()...)
	return append(dst, ']'), nil
}

func (a *keyedArrayAdapter) ParseJSON(tok *jsontext.Tokenizer, cfg *Config) interface{} {
	switch tok.Token {
	case jsontext.TokenLeftSquare:
	case jsontext.TokenZero:
		tok.Next()
		return a.Default()
	default:
		tok.FailUnexpectedToken("'['")
		return a.Default()
	}
	out := keyed.NewItems(a.keyOf)
	reader := jsontext.NewArrayReader(tok)
	for reader.Next() {
		out.Push(a.item.ParseJSON(tok, cfg))
	}
	return out
}

func (a *keyedArrayAdapter) AppendDebug(dst []byte, nl *jsontext.NewLine, v interface{}) []byte {
	items, ok := a.coerce(v)
	if !ok {
		return append(dst, '?')
	}
	if len(items) == 0 {
		return append(dst, '{', '}')
	}
	dst = append(dst, '{')
	nl.Indent()
	for _, item := range items {
		dst = append(dst, nl.Current()...)
		dst = a.item.AppendDebug(dst, nl, item)
		dst = append(dst, ',')
	}
	dst = append(dst, nl.Dedent()...)
	return append(dst, '}')
}

func (a *keyedArrayAdapter) IsDefault(v interface{}) bool {
	items, ok := a.coerce(v)
	return ok && len(items) == 0
}

func (a *keyedArrayAdapter) Default() interface{} {
	return keyed.NewItems(a.keyOf)
}
