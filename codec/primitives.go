package codec

import (
	"encoding/base64"
	"math"
	"strconv"

	"github.com/soialite/soialite/jsontext"
	"github.com/soialite/soialite/reflection"
	"github.com/soialite/soialite/wire"
)

// parseJSONInt64 reads a numeric JSON value as int64, accepting the quoted
// form used for integers beyond the safe JavaScript range.
func parseJSONInt64(tok *jsontext.Tokenizer) int64 {
	switch tok.Token {
	case jsontext.TokenTrue:
		tok.Next()
		return 1
	case jsontext.TokenFalse, jsontext.TokenZero:
		tok.Next()
		return 0
	case jsontext.TokenUnsignedInt:
		v := int64(tok.Uint)
		tok.Next()
		return v
	case jsontext.TokenSignedInt:
		v := tok.Int
		tok.Next()
		return v
	case jsontext.TokenFloat:
		v := int64(tok.Float)
		tok.Next()
		return v
	case jsontext.TokenString:
		s := tok.Str
		tok.Next()
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			tok.Fail("error while parsing JSON: not a number: " + strconv.Quote(s))
			return 0
		}
		return v
	default:
		tok.FailUnexpectedToken("number")
		return 0
	}
}

func parseJSONUint64(tok *jsontext.Tokenizer) uint64 {
	switch tok.Token {
	case jsontext.TokenTrue:
		tok.Next()
		return 1
	case jsontext.TokenFalse, jsontext.TokenZero:
		tok.Next()
		return 0
	case jsontext.TokenUnsignedInt:
		v := tok.Uint
		tok.Next()
		return v
	case jsontext.TokenSignedInt:
		v := uint64(tok.Int)
		tok.Next()
		return v
	case jsontext.TokenFloat:
		v := uint64(tok.Float)
		tok.Next()
		return v
	case jsontext.TokenString:
		s := tok.Str
		tok.Next()
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			tok.Fail("error while parsing JSON: not a number: " + strconv.Quote(s))
			return 0
		}
		return v
	default:
		tok.FailUnexpectedToken("number")
		return 0
	}
}

// parseJSONFloat64 additionally accepts the quoted "NaN", "Infinity" and
// "-Infinity" forms, which have no JSON number representation.
func parseJSONFloat64(tok *jsontext.Tokenizer) float64 {
	switch tok.Token {
	case jsontext.TokenTrue:
		tok.Next()
		return 1
	case jsontext.TokenFalse, jsontext.TokenZero:
		tok.Next()
		return 0
	case jsontext.TokenUnsignedInt:
		v := float64(tok.Uint)
		tok.Next()
		return v
	case jsontext.TokenSignedInt:
		v := float64(tok.Int)
		tok.Next()
		return v
	case jsontext.TokenFloat:
		v := tok.Float
		tok.Next()
		return v
	case jsontext.TokenString:
		s := tok.Str
		tok.Next()
		switch s {
		case "NaN":
			return math.NaN()
		case "Infinity":
			return math.Inf(1)
		case "-Infinity":
			return math.Inf(-1)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			tok.Fail("error while parsing JSON: not a number: " + strconv.Quote(s))
			return 0
		}
		return v
	default:
		tok.FailUnexpectedToken("number")
		return 0
	}
}

func coerceInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int32:
		return int64(x), true
	case int:
		return int64(x), true
	case uint64:
		return int64(x), true
	}
	return 0, false
}

func coerceUint64(v interface{}) (uint64, bool) {
	switch x := v.(type) {
	case uint64:
		return x, true
	case int64:
		return uint64(x), true
	case int32:
		return uint64(x), true
	case int:
		return uint64(x), true
	}
	return 0, false
}

func coerceFloat64(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case int:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

type boolAdapter struct{}

func (boolAdapter) Type() reflection.Type {
	return reflection.Primitive(reflection.PrimitiveBool)
}

func (boolAdapter) AppendBinary(sink *wire.ByteSink, v interface{}) error {
	b, ok := v.(bool)
	if !ok {
		return typeMismatch(reflection.Primitive(reflection.PrimitiveBool), v)
	}
	if b {
		sink.Push(1)
	} else {
		sink.Push(0)
	}
	return nil
}

func (boolAdapter) ParseBinary(src *wire.ByteSource, _ *Config) interface{} {
	return wire.ReadBool(src)
}

func (boolAdapter) AppendDense(dst []byte, v interface{}) ([]byte, error) {
	b, ok := v.(bool)
	if !ok {
		return dst, typeMismatch(reflection.Primitive(reflection.PrimitiveBool), v)
	}
	if b {
		return append(dst, '1'), nil
	}
	return append(dst, '0'), nil
}

func (boolAdapter) AppendReadable(dst []byte, _ *jsontext.NewLine, v interface{}) ([]byte, error) {
	b, ok := v.(bool)
	if !ok {
		return dst, typeMismatch(reflection.Primitive(reflection.PrimitiveBool), v)
	}
	return strconv.AppendBool(dst, b), nil
}

func (boolAdapter) ParseJSON(tok *jsontext.Tokenizer, _ *Config) interface{} {
	return parseJSONFloat64(tok) != 0
}

func (boolAdapter) AppendDebug(dst []byte, _ *jsontext.NewLine, v interface{}) []byte {
	if b, ok := v.(bool); ok {
		return strconv.AppendBool(dst, b)
	}
	return append(dst, '?')
}

func (boolAdapter) IsDefault(v interface{}) bool {
	b, ok := v.(bool)
	return ok && !b || v == nil
}

func (boolAdapter) Default() interface{} { return false }

type int32Adapter struct{}

func (int32Adapter) Type() reflection.Type {
	return reflection.Primitive(reflection.PrimitiveInt32)
}

func (int32Adapter) AppendBinary(sink *wire.ByteSink, v interface{}) error {
	n, ok := coerceInt64(v)
	if !ok {
		return typeMismatch(reflection.Primitive(reflection.PrimitiveInt32), v)
	}
	wire.AppendInt32(sink, int32(n))
	return nil
}

func (int32Adapter) ParseBinary(src *wire.ByteSource, _ *Config) interface{} {
	return wire.ReadInt32(src)
}

func (int32Adapter) AppendDense(dst []byte, v interface{}) ([]byte, error) {
	n, ok := coerceInt64(v)
	if !ok {
		return dst, typeMismatch(reflection.Primitive(reflection.PrimitiveInt32), v)
	}
	return strconv.AppendInt(dst, int64(int32(n)), 10), nil
}

func (a int32Adapter) AppendReadable(dst []byte, _ *jsontext.NewLine, v interface{}) ([]byte, error) {
	return a.AppendDense(dst, v)
}

func (int32Adapter) ParseJSON(tok *jsontext.Tokenizer, _ *Config) interface{} {
	return int32(parseJSONInt64(tok))
}

func (a int32Adapter) AppendDebug(dst []byte, _ *jsontext.NewLine, v interface{}) []byte {
	dst, _ = a.AppendDense(dst, v)
	return dst
}

func (int32Adapter) IsDefault(v interface{}) bool {
	n, ok := coerceInt64(v)
	return ok && n == 0 || v == nil
}

func (int32Adapter) Default() interface{} { return int32(0) }

type int64Adapter struct{}

func (int64Adapter) Type() reflection.Type {
	return reflection.Primitive(reflection.PrimitiveInt64)
}

func (int64Adapter) AppendBinary(sink *wire.ByteSink, v interface{}) error {
	n, ok := coerceInt64(v)
	if !ok {
		return typeMismatch(reflection.Primitive(reflection.PrimitiveInt64), v)
	}
	wire.AppendInt64(sink, n)
	return nil
}

func (int64Adapter) ParseBinary(src *wire.ByteSource, _ *Config) interface{} {
	return wire.ReadInt64(src)
}

func (int64Adapter) AppendDense(dst []byte, v interface{}) ([]byte, error) {
	n, ok := coerceInt64(v)
	if !ok {
		return dst, typeMismatch(reflection.Primitive(reflection.PrimitiveInt64), v)
	}
	return jsontext.AppendInt(dst, n), nil
}

func (a int64Adapter) AppendReadable(dst []byte, _ *jsontext.NewLine, v interface{}) ([]byte, error) {
	return a.AppendDense(dst, v)
}

func (int64Adapter) ParseJSON(tok *jsontext.Tokenizer, _ *Config) interface{} {
	return parseJSONInt64(tok)
}

func (int64Adapter) AppendDebug(dst []byte, _ *jsontext.NewLine, v interface{}) []byte {
	if n, ok := coerceInt64(v); ok {
		return strconv.AppendInt(dst, n, 10)
	}
	return append(dst, '?')
}

func (int64Adapter) IsDefault(v interface{}) bool {
	n, ok := coerceInt64(v)
	return ok && n == 0 || v == nil
}

func (int64Adapter) Default() interface{} { return int64(0) }

type uint64Adapter struct{}

func (uint64Adapter) Type() reflection.Type {
	return reflection.Primitive(reflection.PrimitiveUint64)
}

func (uint64Adapter) AppendBinary(sink *wire.ByteSink, v interface{}) error {
	n, ok := coerceUint64(v)
	if !ok {
		return typeMismatch(reflection.Primitive(reflection.PrimitiveUint64), v)
	}
	wire.AppendUint64(sink, n)
	return nil
}

func (uint64Adapter) ParseBinary(src *wire.ByteSource, _ *Config) interface{} {
	return wire.ReadUint64(src)
}

func (uint64Adapter) AppendDense(dst []byte, v interface{}) ([]byte, error) {
	n, ok := coerceUint64(v)
	if !ok {
		return dst, typeMismatch(reflection.Primitive(reflection.PrimitiveUint64), v)
	}
	return jsontext.AppendUint(dst, n), nil
}

func (a uint64Adapter) AppendReadable(dst []byte, _ *jsontext.NewLine, v interface{}) ([]byte, error) {
	return a.AppendDense(dst, v)
}

func (uint64Adapter) ParseJSON(tok *jsontext.Tokenizer, _ *Config) interface{} {
	return parseJSONUint64(tok)
}

func (uint64Adapter) AppendDebug(dst []byte, _ *jsontext.NewLine, v interface{}) []byte {
	if n, ok := coerceUint64(v); ok {
		return strconv.AppendUint(dst, n, 10)
	}
	return append(dst, '?')
}

func (uint64Adapter) IsDefault(v interface{}) bool {
	n, ok := coerceUint64(v)
	return ok && n == 0 || v == nil
}

func (uint64Adapter) Default() interface{} { return uint64(0) }

type float32Adapter struct{}

func (float32Adapter) Type() reflection.Type {
	return reflection.Primitive(reflection.PrimitiveFloat32)
}

func (float32Adapter) AppendBinary(sink *wire.ByteSink, v interface{}) error {
	f, ok := coerceFloat64(v)
	if !ok {
		return typeMismatch(reflection.Primitive(reflection.PrimitiveFloat32), v)
	}
	wire.AppendFloat32(sink, float32(f))
	return nil
}

func (float32Adapter) ParseBinary(src *wire.ByteSource, _ *Config) interface{} {
	return wire.ReadFloat32(src)
}

func (float32Adapter) AppendDense(dst []byte, v interface{}) ([]byte, error) {
	f, ok := coerceFloat64(v)
	if !ok {
		return dst, typeMismatch(reflection.Primitive(reflection.PrimitiveFloat32), v)
	}
	return jsontext.AppendFloat32(dst, float32(f)), nil
}

func (a float32Adapter) AppendReadable(dst []byte, _ *jsontext.NewLine, v interface{}) ([]byte, error) {
	return a.AppendDense(dst, v)
}

func (float32Adapter) ParseJSON(tok *jsontext.Tokenizer, _ *Config) interface{} {
	return float32(parseJSONFloat64(tok))
}

func (a float32Adapter) AppendDebug(dst []byte, _ *jsontext.NewLine, v interface{}) []byte {
	dst, _ = a.AppendDense(dst, v)
	return dst
}

func (float32Adapter) IsDefault(v interface{}) bool {
	f, ok := coerceFloat64(v)
	return ok && f == 0 || v == nil
}

func (float32Adapter) Default() interface{} { return float32(0) }

type float64Adapter struct{}

func (float64Adapter) Type() reflection.Type {
	return reflection.Primitive(reflection.PrimitiveFloat64)
}

func (float64Adapter) AppendBinary(sink *wire.ByteSink, v interface{}) error {
	f, ok := coerceFloat64(v)
	if !ok {
		return typeMismatch(reflection.Primitive(reflection.PrimitiveFloat64), v)
	}
	wire.AppendFloat64(sink, f)
	return nil
}

func (float64Adapter) ParseBinary(src *wire.ByteSource, _ *Config) interface{} {
	return wire.ReadFloat64(src)
}

func (float64Adapter) AppendDense(dst []byte, v interface{}) ([]byte, error) {
	f, ok := coerceFloat64(v)
	if !ok {
		return dst, typeMismatch(reflection.Primitive(reflection.PrimitiveFloat64), v)
	}
	return jsontext.AppendFloat(dst, f), nil
}

func (a float64Adapter) AppendReadable(dst []byte, _ *jsontext.NewLine, v interface{}) ([]byte, error) {
	return a.AppendDense(dst, v)
}

func (float64Adapter) ParseJSON(tok *jsontext.Tokenizer, _ *Config) interface{} {
	return parseJSONFloat64(tok)
}

func (a float64Adapter) AppendDebug(dst []byte, _ *jsontext.NewLine, v interface{}) []byte {
	dst, _ = a.AppendDense(dst, v)
	return dst
}

func (float64Adapter) IsDefault(v interface{}) bool {
	f, ok := coerceFloat64(v)
	return ok && f == 0 || v == nil
}

func (float64Adapter) Default() interface{} { return float64(0) }

type stringAdapter struct{}

func (stringAdapter) Type() reflection.Type {
	return reflection.Primitive(reflection.PrimitiveString)
}

func (stringAdapter) AppendBinary(sink *wire.ByteSink, v interface{}) error {
	s, ok := v.(string)
	if !ok {
		return typeMismatch(reflection.Primitive(reflection.PrimitiveString), v)
	}
	wire.AppendString(sink, s)
	return nil
}

func (stringAdapter) ParseBinary(src *wire.ByteSource, _ *Config) interface{} {
	return wire.ReadString(src)
}

func (stringAdapter) AppendDense(dst []byte, v interface{}) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return dst, typeMismatch(reflection.Primitive(reflection.PrimitiveString), v)
	}
	return jsontext.AppendQuoted(dst, s), nil
}

func (a stringAdapter) AppendReadable(dst []byte, _ *jsontext.NewLine, v interface{}) ([]byte, error) {
	return a.AppendDense(dst, v)
}

func (stringAdapter) ParseJSON(tok *jsontext.Tokenizer, _ *Config) interface{} {
	switch tok.Token {
	case jsontext.TokenString:
		s := tok.Str
		tok.Next()
		return s
	case jsontext.TokenZero:
		// Zero is the default for every type.
		tok.Next()
		return ""
	default:
		tok.FailUnexpectedToken("string")
		return ""
	}
}

func (stringAdapter) AppendDebug(dst []byte, _ *jsontext.NewLine, v interface{}) []byte {
	if s, ok := v.(string); ok {
		return jsontext.AppendQuoted(dst, s)
	}
	return append(dst, '?')
}

func (stringAdapter) IsDefault(v interface{}) bool {
	s, ok := v.(string)
	return ok && s == "" || v == nil
}

func (stringAdapter) Default() interface{} { return "" }

type bytesAdapter struct{}

func (bytesAdapter) Type() reflection.Type {
	return reflection.Primitive(reflection.PrimitiveBytes)
}

func (bytesAdapter) AppendBinary(sink *wire.ByteSink, v interface{}) error {
	b, ok := v.([]byte)
	if !ok && v != nil {
		return typeMismatch(reflection.Primitive(reflection.PrimitiveBytes), v)
	}
	wire.AppendBytes(sink, b)
	return nil
}

func (bytesAdapter) ParseBinary(src *wire.ByteSource, _ *Config) interface{} {
	return wire.ReadBytesValue(src)
}

func (bytesAdapter) AppendDense(dst []byte, v interface{}) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok && v != nil {
		return dst, typeMismatch(reflection.Primitive(reflection.PrimitiveBytes), v)
	}
	dst = append(dst, '"')
	dst = append(dst, base64.StdEncoding.EncodeToString(b)...)
	return append(dst, '"'), nil
}

func (a bytesAdapter) AppendReadable(dst []byte, _ *jsontext.NewLine, v interface{}) ([]byte, error) {
	return a.AppendDense(dst, v)
}

func (bytesAdapter) ParseJSON(tok *jsontext.Tokenizer, _ *Config) interface{} {
	switch tok.Token {
	case jsontext.TokenString:
		s := tok.Str
		tok.Next()
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			tok.Fail("error while parsing JSON: not a Base64 string")
			return []byte(nil)
		}
		return b
	case jsontext.TokenZero:
		tok.Next()
		return []byte(nil)
	default:
		tok.FailUnexpectedToken("Base64 string")
		return []byte(nil)
	}
}

func (bytesAdapter) AppendDebug(dst []byte, _ *jsontext.NewLine, v interface{}) []byte {
	b, _ := v.([]byte)
	dst = append(dst, "bytes("...)
	for i, c := range b {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = append(dst, "0x"...)
		dst = append(dst, hexDigits[c>>4], hexDigits[c&0x0F])
	}
	return append(dst, ')')
}

func (bytesAdapter) IsDefault(v interface{}) bool {
	b, ok := v.([]byte)
	return ok && len(b) == 0 || v == nil
}

func (bytesAdapter) Default() interface{} { return []byte(nil) }

const hexDigits = "0123456789abcdef"
