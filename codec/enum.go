package codec

import (
	"fmt"

	"github.com/soialite/soialite/jsontext"
	"github.com/soialite/soialite/reflection"
	"github.com/soialite/soialite/wire"
)

// EnumValue is an enum field that carries a value, e.g. the "error" field
// of a status enum. Constant fields are represented as their bare name.
type EnumValue struct {
	Kind  string
	Value interface{}
}

type enumField struct {
	name    string
	number  int32
	adapter Adapter // nil for constant fields
}

type enumAdapter struct {
	record    *reflection.Record
	byNumber  map[int32]*enumField
	byName    map[string]*enumField
	zeroConst *enumField // the number-0 constant, the default
}

func (b *builder) buildEnum(rec *reflection.Record) (*enumAdapter, error) {
	if a, ok := b.enums[rec.ID]; ok {
		return a, nil
	}
	a := &enumAdapter{
		record:   rec,
		byNumber: make(map[int32]*enumField),
		byName:   make(map[string]*enumField),
	}
	b.enums[rec.ID] = a
	for _, f := range rec.Fields {
		field := &enumField{name: f.Name, number: f.Number}
		if f.Type != nil {
			adapter, err := b.build(*f.Type)
			if err != nil {
				return nil, fmt.Errorf("enum %s: field %s: %w", rec.ID, f.Name, err)
			}
			field.adapter = adapter
		}
		a.byNumber[f.Number] = field
		a.byName[f.Name] = field
		if f.Number == 0 && f.Type == nil {
			a.zeroConst = field
		}
	}
	return a, nil
}

func (a *enumAdapter) Type() reflection.Type {
	return reflection.RecordRef(a.record.ID)
}

func (a *enumAdapter) Default() interface{} {
	if a.zeroConst != nil {
		return a.zeroConst.name
	}
	return &UnrecognizedEnum{}
}

func (a *enumAdapter) IsDefault(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		f, ok := a.byName[x]
		return ok && f.adapter == nil && f.number == 0
	case *UnrecognizedEnum:
		return x.Number == 0 && x.Values == nil
	}
	return false
}

func (a *enumAdapter) AppendBinary(sink *wire.ByteSink, v interface{}) error {
	switch x := a.normalize(v).(type) {
	case string:
		f, ok := a.byName[x]
		if !ok || f.adapter != nil {
			return fmt.Errorf("enum %s: unknown constant %q", a.record.Name(), x)
		}
		wire.AppendInt32(sink, f.number)
		return nil
	case *EnumValue:
		f, ok := a.byName[x.Kind]
		if !ok || f.adapter == nil {
			return fmt.Errorf("enum %s: unknown value field %q", a.record.Name(), x.Kind)
		}
		wire.AppendEnumValuePrefix(sink, f.number)
		if err := f.adapter.AppendBinary(sink, x.Value); err != nil {
			return wire.WrapWithField(err, f.name)
		}
		return nil
	case *UnrecognizedEnum:
		if x.Values == nil {
			wire.AppendInt32(sink, x.Number)
			return nil
		}
		wire.AppendEnumValuePrefix(sink, x.Number)
		x.Values.AppendBinary(sink)
		return nil
	}
	return typeMismatch(a.Type(), v)
}

// normalize maps nil to the default constant so callers can leave enum
// fields unset.
func (a *enumAdapter) normalize(v interface{}) interface{} {
	if v == nil {
		return a.Default()
	}
	return v
}

func (a *enumAdapter) ParseBinary(src *wire.ByteSource, cfg *Config) interface{} {
	hasValue, number := wire.ParseEnumPrefix(src)
	if src.Err() != nil {
		return a.Default()
	}
	f := a.byNumber[number]
	if !hasValue {
		if f != nil && f.adapter == nil {
			return f.name
		}
		if cfg.UnrecognizedFields == KeepUnrecognizedFields {
			return &UnrecognizedEnum{Number: number}
		}
		return a.Default()
	}
	if f != nil && f.adapter != nil {
		return &EnumValue{Kind: f.name, Value: f.adapter.ParseBinary(src, cfg)}
	}
	if cfg.UnrecognizedFields == KeepUnrecognizedFields {
		values := &UnrecognizedValues{}
		values.ParseBinary(src)
		return &UnrecognizedEnum{Number: number, Values: values}
	}
	wire.SkipValue(src)
	return a.Default()
}

func (a *enumAdapter) AppendDense(dst []byte, v interface{}) ([]byte, error) {
	switch x := a.normalize(v).(type) {
	case string:
		f, ok := a.byName[x]
		if !ok || f.adapter != nil {
			return dst, fmt.Errorf("enum %s: unknown constant %q", a.record.Name(), x)
		}
		return jsontext.AppendInt(dst, int64(f.number)), nil
	case *EnumValue:
		f, ok := a.byName[x.Kind]
		if !ok || f.adapter == nil {
			return dst, fmt.Errorf("enum %s: unknown value field %q", a.record.Name(), x.Kind)
		}
		dst = append(dst, '[')
		dst = jsontext.AppendInt(dst, int64(f.number))
		dst = append(dst, ',')
		out, err := f.adapter.AppendDense(dst, x.Value)
		if err != nil {
			return out, wire.WrapWithField(err, f.name)
		}
		return append(out, ']'), nil
	case *UnrecognizedEnum:
		if x.Values == nil {
			return jsontext.AppendInt(dst, int64(x.Number)), nil
		}
		dst = append(dst, '[')
		dst = jsontext.AppendInt(dst, int64(x.Number))
		dst = append(dst, ',')
		dst = x.Values.AppendDense(dst)
		return append(dst, ']'), nil
	}
	return dst, typeMismatch(a.Type(), v)
}

func (a *enumAdapter) AppendReadable(dst []byte, nl *jsontext.NewLine, v interface{}) ([]byte, error) {
	switch x := a.normalize(v).(type) {
	case string:
		f, ok := a.byName[x]
		if !ok || f.adapter != nil {
			return dst, fmt.Errorf("enum %s: unknown constant %q", a.record.Name(), x)
		}
		return jsontext.AppendQuoted(dst, f.name), nil
	case *EnumValue:
		f, ok := a.byName[x.Kind]
		if !ok || f.adapter == nil {
			return dst, fmt.Errorf("enum %s: unknown value field %q", a.record.Name(), x.Kind)
		}
		dst = append(dst, '{')
		dst = append(dst, nl.Indent()...)
		dst = append(dst, `"kind": `...)
		dst = jsontext.AppendQuoted(dst, f.name)
		dst = append(dst, ',')
		dst = append(dst, nl.Current()...)
		dst = append(dst, `"value": `...)
		out, err := f.adapter.AppendReadable(dst, nl, x.Value)
		if err != nil {
			return out, wire.WrapWithField(err, f.name)
		}
		out = append(out, nl.Dedent()...)
		return append(out, '}'), nil
	case *UnrecognizedEnum:
		// Unrecognized data has no readable form; fall back to dense.
		return a.AppendDense(dst, x)
	}
	return dst, typeMismatch(a.Type(), v)
}

// ParseJSON accepts a bare number or [number, value] (dense), a quoted
// constant name or {"kind", "value"} (readable).
func (a *enumAdapter) ParseJSON(tok *jsontext.Tokenizer, cfg *Config) interface{} {
	switch tok.Token {
	case jsontext.TokenZero, jsontext.TokenUnsignedInt, jsontext.TokenSignedInt, jsontext.TokenFloat:
		number := int32(parseJSONInt64(tok))
		if f := a.byNumber[number]; f != nil && f.adapter == nil {
			return f.name
		}
		if cfg.UnrecognizedFields == KeepUnrecognizedFields {
			return &UnrecognizedEnum{Number: number}
		}
		return a.Default()
	case jsontext.TokenString:
		name := tok.Str
		tok.Next()
		if f := a.byName[name]; f != nil && f.adapter == nil {
			return f.name
		}
		return a.Default()
	case jsontext.TokenLeftSquare:
		return a.parseJSONArray(tok, cfg)
	case jsontext.TokenLeftCurly:
		return a.parseJSONObject(tok, cfg)
	default:
		tok.FailUnexpectedToken("number")
		return a.Default()
	}
}

func (a *enumAdapter) parseJSONArray(tok *jsontext.Tokenizer, cfg *Config) interface{} {
	var number int32
	switch tok.Next() {
	case jsontext.TokenZero:
	case jsontext.TokenUnsignedInt:
		number = int32(tok.Uint)
	case jsontext.TokenSignedInt:
		number = int32(tok.Int)
	default:
		tok.FailUnexpectedToken("integer")
		return a.Default()
	}
	if tok.Next() != jsontext.TokenComma {
		tok.FailUnexpectedToken("','")
		return a.Default()
	}
	tok.Next()
	var out interface{}
	if f := a.byNumber[number]; f != nil && f.adapter != nil {
		out = &EnumValue{Kind: f.name, Value: f.adapter.ParseJSON(tok, cfg)}
	} else if cfg.UnrecognizedFields == KeepUnrecognizedFields {
		values := &UnrecognizedValues{}
		values.ParseJSON(tok)
		out = &UnrecognizedEnum{Number: number, Values: values}
	} else {
		jsontext.SkipValue(tok)
		out = a.Default()
	}
	if tok.Token == jsontext.TokenRightSquare {
		tok.Next()
	} else {
		tok.FailUnexpectedToken("']'")
	}
	return out
}

// parseJSONObject reads the readable {"kind", "value"} form. The value is
// buffered as wire bytes when it precedes the kind, so entry order does
// not matter.
func (a *enumAdapter) parseJSONObject(tok *jsontext.Tokenizer, cfg *Config) interface{} {
	kind := ""
	seenKind := false
	var direct interface{}
	var buffered *UnrecognizedValues
	reader := jsontext.NewObjectReader(tok)
	for reader.Next() {
		switch reader.Name() {
		case "kind":
			if tok.Token != jsontext.TokenString {
				tok.FailUnexpectedToken("string")
				return a.Default()
			}
			kind = tok.Str
			seenKind = true
			tok.Next()
		case "value":
			if seenKind {
				if f := a.byName[kind]; f != nil && f.adapter != nil {
					direct = f.adapter.ParseJSON(tok, cfg)
					continue
				}
			}
			buffered = &UnrecognizedValues{}
			buffered.ParseJSON(tok)
		default:
			jsontext.SkipValue(tok)
		}
	}
	if !seenKind {
		tok.Fail("object missing entry with name 'kind'")
		return a.Default()
	}
	f := a.byName[kind]
	if f == nil || f.adapter == nil {
		return a.Default()
	}
	if direct != nil {
		return &EnumValue{Kind: f.name, Value: direct}
	}
	if buffered != nil {
		var sink wire.ByteSink
		buffered.AppendBinary(&sink)
		src := wire.NewByteSource(sink.Bytes())
		return &EnumValue{Kind: f.name, Value: f.adapter.ParseBinary(src, cfg)}
	}
	return &EnumValue{Kind: f.name, Value: f.adapter.Default()}
}

func (a *enumAdapter) AppendDebug(dst []byte, nl *jsontext.NewLine, v interface{}) []byte {
	switch x := a.normalize(v).(type) {
	case string:
		return append(dst, x...)
	case *EnumValue:
		dst = append(dst, x.Kind...)
		dst = append(dst, '(')
		if f := a.byName[x.Kind]; f != nil && f.adapter != nil {
			dst = f.adapter.AppendDebug(dst, nl, x.Value)
		}
		return append(dst, ')')
	case *UnrecognizedEnum:
		dst = append(dst, "enum("...)
		dst = jsontext.AppendInt(dst, int64(x.Number))
		return append(dst, ')')
	}
	return append(dst, '?')
}
