package codec

import (
	"fmt"

	"github.com/soialite/soialite/jsontext"
	"github.com/soialite/soialite/reflection"
	"github.com/soialite/soialite/wire"
)

// BinaryPrefix opens every standalone binary encoding.
const BinaryPrefix = "soia"

// Serializer converts values of one type to and from bytes and JSON text.
type Serializer struct {
	adapter Adapter
	cfg     Config
}

// NewSerializer builds a serializer for t, resolving record references
// through res.
func NewSerializer(t reflection.Type, res Resolver, cfg Config) (*Serializer, error) {
	adapter, err := ForType(t, res)
	if err != nil {
		return nil, err
	}
	return &Serializer{adapter: adapter, cfg: cfg}, nil
}

// NewSerializerForAdapter wraps an already-built adapter.
func NewSerializerForAdapter(adapter Adapter, cfg Config) *Serializer {
	return &Serializer{adapter: adapter, cfg: cfg}
}

// Adapter returns the underlying adapter.
func (s *Serializer) Adapter() Adapter { return s.adapter }

// ToBytes encodes v as a standalone binary string, prefix included.
func (s *Serializer) ToBytes(v interface{}) ([]byte, error) {
	var sink wire.ByteSink
	sink.WriteString(BinaryPrefix)
	if err := s.adapter.AppendBinary(&sink, v); err != nil {
		return nil, err
	}
	return sink.Bytes(), nil
}

// FromBytes decodes a standalone binary string produced by ToBytes.
func (s *Serializer) FromBytes(data []byte) (interface{}, error) {
	if len(data) < len(BinaryPrefix) || string(data[:len(BinaryPrefix)]) != BinaryPrefix {
		return nil, wire.ErrMissingPrefix
	}
	src := wire.NewByteSource(data[len(BinaryPrefix):])
	v := s.adapter.ParseBinary(src, &s.cfg)
	if err := src.Err(); err != nil {
		return nil, err
	}
	if src.Remaining() > 0 {
		return nil, fmt.Errorf("%d bytes left after decoding", src.Remaining())
	}
	return v, nil
}

// ToDenseJSON encodes v in the dense JSON flavor.
func (s *Serializer) ToDenseJSON(v interface{}) ([]byte, error) {
	return s.adapter.AppendDense(nil, v)
}

// ToReadableJSON encodes v in the readable JSON flavor.
func (s *Serializer) ToReadableJSON(v interface{}) ([]byte, error) {
	return s.adapter.AppendReadable(nil, jsontext.NewNewLine(), v)
}

// FromJSON decodes either JSON flavor.
func (s *Serializer) FromJSON(data []byte) (interface{}, error) {
	tok := jsontext.NewTokenizer(data)
	v := s.adapter.ParseJSON(tok, &s.cfg)
	if err := tok.Err(); err != nil {
		return nil, err
	}
	if tok.Token != jsontext.TokenEnd {
		tok.FailUnexpectedToken("end")
		return nil, tok.Err()
	}
	return v, nil
}

// Parse decodes data in whichever format it carries: binary when the
// prefix is present, JSON otherwise.
func (s *Serializer) Parse(data []byte) (interface{}, error) {
	if len(data) >= len(BinaryPrefix) && string(data[:len(BinaryPrefix)]) == BinaryPrefix {
		return s.FromBytes(data)
	}
	return s.FromJSON(data)
}

// ToDebugString renders v in the multi-line debug form.
func (s *Serializer) ToDebugString(v interface{}) string {
	return string(s.adapter.AppendDebug(nil, jsontext.NewNewLine(), v))
}

// IsDefault reports whether v is the default value of the type.
func (s *Serializer) IsDefault(v interface{}) bool {
	return s.adapter.IsDefault(v)
}

// Default returns the default value of the type.
func (s *Serializer) Default() interface{} {
	return s.adapter.Default()
}
