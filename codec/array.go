package codec

import (
	"github.com/soialite/soialite/jsontext"
	"github.com/soialite/soialite/reflection"
	"github.com/soialite/soialite/wire"
)

type arrayAdapter struct {
	item Adapter
}

func (a *arrayAdapter) Type() reflection.Type {
	return reflection.Array(a.item.Type())
}

func coerceSlice(v interface{}) ([]interface{}, bool) {
	switch x := v.(type) {
	case nil:
		return nil, true
	case []interface{}:
		return x, true
	}
	return nil, false
}

func (a *arrayAdapter) AppendBinary(sink *wire.ByteSink, v interface{}) error {
	items, ok := coerceSlice(v)
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

func (a *arrayAdapter) ParseBinary(src *wire.ByteSource, cfg *Config) interface{} {
	length := wire.ReadArrayPrefix(src)
	if src.Remaining() < length {
		src.Fail(wire.ErrUnexpectedEOF)
		return []interface{}(nil)
	}
	out := make([]interface{}, 0, length)
	for i := 0; i < length && src.Err() == nil; i++ {
		out = append(out, a.item.ParseBinary(src, cfg))
	}
	return out
}

func (a *arrayAdapter) AppendDense(dst []byte, v interface{}) ([]byte, error) {
	items, ok := coerceSlice(v)
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

func (a *arrayAdapter) AppendReadable(dst []byte, nl *jsontext.NewLine, v interface{}) ([]byte, error) {
	items, ok := coerceSlice(v)
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

func (a *arrayAdapter) ParseJSON(tok *jsontext.Tokenizer, cfg *Config) interface{} {
	switch tok.Token {
	case jsontext.TokenLeftSquare:
	case jsontext.TokenZero:
		tok.Next()
		return []interface{}(nil)
	default:
		tok.FailUnexpectedToken("'['")
		return []interface{}(nil)
	}
	var out []interface{}
	reader := jsontext.NewArrayReader(tok)
	for reader.Next() {
		out = append(out, a.item.ParseJSON(tok, cfg))
	}
	return out
}

func (a *arrayAdapter) AppendDebug(dst []byte, nl *jsontext.NewLine, v interface{}) []byte {
	items, ok := coerceSlice(v)
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

func (a *arrayAdapter) IsDefault(v interface{}) bool {
	items, ok := coerceSlice(v)
	return ok && len(items) == 0
}

func (a *arrayAdapter) Default() interface{} { return []interface{}(nil) }
