package codec

import (
	"github.com/soialite/soialite/jsontext"
	"github.com/soialite/soialite/reflection"
	"github.com/soialite/soialite/wire"
)

// optionalAdapter wraps another adapter and adds an absent state, which is
// the default. Absent values are nil in memory, 255 on the wire and null
// in JSON.
type optionalAdapter struct {
	other Adapter
}

func (a *optionalAdapter) Type() reflection.Type {
	return reflection.Optional(a.other.Type())
}

func (a *optionalAdapter) AppendBinary(sink *wire.ByteSink, v interface{}) error {
	if v == nil {
		sink.Push(255)
		return nil
	}
	return a.other.AppendBinary(sink, v)
}

func (a *optionalAdapter) ParseBinary(src *wire.ByteSource, cfg *Config) interface{} {
	if src.Peek() == 255 {
		src.ReadByte()
		return nil
	}
	return a.other.ParseBinary(src, cfg)
}

func (a *optionalAdapter) AppendDense(dst []byte, v interface{}) ([]byte, error) {
	if v == nil {
		return append(dst, "null"...), nil
	}
	return a.other.AppendDense(dst, v)
}

func (a *optionalAdapter) AppendReadable(dst []byte, nl *jsontext.NewLine, v interface{}) ([]byte, error) {
	if v == nil {
		return append(dst, "null"...), nil
	}
	return a.other.AppendReadable(dst, nl, v)
}

func (a *optionalAdapter) ParseJSON(tok *jsontext.Tokenizer, cfg *Config) interface{} {
	if tok.Token == jsontext.TokenNull {
		tok.Next()
		return nil
	}
	return a.other.ParseJSON(tok, cfg)
}

func (a *optionalAdapter) AppendDebug(dst []byte, nl *jsontext.NewLine, v interface{}) []byte {
	if v == nil {
		return append(dst, "null"...)
	}
	return a.other.AppendDebug(dst, nl, v)
}

func (a *optionalAdapter) IsDefault(v interface{}) bool {
	return v == nil
}

func (a *optionalAdapter) Default() interface{} { return nil }
