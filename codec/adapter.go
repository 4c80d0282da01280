// Package codec converts between in-memory values and the binary and JSON
// soia formats, driven by reflection types.
package codec

import (
	"fmt"

	"github.com/soialite/soialite/jsontext"
	"github.com/soialite/soialite/reflection"
	"github.com/soialite/soialite/wire"
)

// UnrecognizedFieldsPolicy controls what decoding does with fields that are
// not part of the schema.
type UnrecognizedFieldsPolicy int

const (
	// DropUnrecognizedFields discards data from fields added by a newer
	// version of the schema.
	DropUnrecognizedFields UnrecognizedFieldsPolicy = iota
	// KeepUnrecognizedFields preserves that data so re-encoding the value
	// reproduces the input.
	KeepUnrecognizedFields
)

// Config carries decoding options.
type Config struct {
	UnrecognizedFields UnrecognizedFieldsPolicy
}

// Resolver resolves record references found in field types.
type Resolver interface {
	ResolveRef(ref string) (*reflection.Record, error)
}

// Adapter encodes and decodes values of one type. Binary and JSON decode
// errors are sticky on the source/tokenizer; encode methods return an error
// when the value does not match the type.
type Adapter interface {
	Type() reflection.Type

	AppendBinary(sink *wire.ByteSink, v interface{}) error
	ParseBinary(src *wire.ByteSource, cfg *Config) interface{}

	AppendDense(dst []byte, v interface{}) ([]byte, error)
	AppendReadable(dst []byte, nl *jsontext.NewLine, v interface{}) ([]byte, error)
	ParseJSON(tok *jsontext.Tokenizer, cfg *Config) interface{}

	AppendDebug(dst []byte, nl *jsontext.NewLine, v interface{}) []byte

	IsDefault(v interface{}) bool
	Default() interface{}
}

type builder struct {
	res     Resolver
	structs map[string]*structAdapter
	enums   map[string]*enumAdapter
}

// ForType builds the adapter for t, resolving record references through
// res. Recursive records are supported.
func ForType(t reflection.Type, res Resolver) (Adapter, error) {
	b := &builder{
		res:     res,
		structs: make(map[string]*structAdapter),
		enums:   make(map[string]*enumAdapter),
	}
	return b.build(t)
}

func (b *builder) build(t reflection.Type) (Adapter, error) {
	switch t.Kind {
	case reflection.KindPrimitive:
		return primitiveAdapter(t.Primitive)
	case reflection.KindOptional:
		other, err := b.build(*t.Optional)
		if err != nil {
			return nil, err
		}
		return &optionalAdapter{other: other}, nil
	case reflection.KindArray:
		item, err := b.build(t.Array.Item)
		if err != nil {
			return nil, err
		}
		if len(t.Array.KeyChain) > 0 {
			return newKeyedArrayAdapter(item, t.Array.KeyChain)
		}
		return &arrayAdapter{item: item}, nil
	case reflection.KindRecord:
		rec, err := b.res.ResolveRef(t.Record)
		if err != nil {
			return nil, err
		}
		if rec.Kind == reflection.RecordEnum {
			return b.buildEnum(rec)
		}
		return b.buildStruct(rec)
	}
	return nil, fmt.Errorf("unknown type kind: %q", t.Kind)
}

func primitiveAdapter(p reflection.PrimitiveType) (Adapter, error) {
	switch p {
	case reflection.PrimitiveBool:
		return boolAdapter{}, nil
	case reflection.PrimitiveInt32:
		return int32Adapter{}, nil
	case reflection.PrimitiveInt64:
		return int64Adapter{}, nil
	case reflection.PrimitiveUint64:
		return uint64Adapter{}, nil
	case reflection.PrimitiveFloat32:
		return float32Adapter{}, nil
	case reflection.PrimitiveFloat64:
		return float64Adapter{}, nil
	case reflection.PrimitiveTimestamp:
		return timestampAdapter{}, nil
	case reflection.PrimitiveString:
		return stringAdapter{}, nil
	case reflection.PrimitiveBytes:
		return bytesAdapter{}, nil
	}
	return nil, fmt.Errorf("unknown primitive type: %q", p)
}

func typeMismatch(t reflection.Type, v interface{}) error {
	what := string(t.Primitive)
	if what == "" {
		what = t.Kind
	}
	return fmt.Errorf("value of type %T does not match %s", v, what)
}
