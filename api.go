// Package soialite serializes dynamically-typed values to and from the
// soia binary and JSON formats, driven by type descriptors loaded at
// runtime.
package soialite

import (
	"github.com/soialite/soialite/codec"
	"github.com/soialite/soialite/reflection"
	"github.com/soialite/soialite/registry"
)

// Soialite is the top-level entry point. Load one or more type
// descriptors, then marshal and parse values by record id.
type Soialite struct {
	registry *registry.Registry
	cfg      codec.Config
}

// New creates an instance that drops unrecognized fields on decode.
func New() *Soialite {
	return NewWithConfig(codec.Config{})
}

// NewWithConfig creates an instance with explicit decoding options.
func NewWithConfig(cfg codec.Config) *Soialite {
	return &Soialite{
		registry: registry.NewRegistry(),
		cfg:      cfg,
	}
}

// Registry exposes the record registry for direct use.
func (s *Soialite) Registry() *registry.Registry { return s.registry }

// LoadTypeDescriptor registers every record of a type-descriptor JSON
// document and returns the parsed descriptor.
func (s *Soialite) LoadTypeDescriptor(data []byte) (*reflection.TypeDescriptor, error) {
	return s.registry.LoadTypeDescriptor(data)
}

// Register adds records built in code.
func (s *Soialite) Register(records ...reflection.Record) error {
	return s.registry.Register(records...)
}

// Serializer builds a serializer for the record with the given id. The
// bare record name is accepted when unambiguous.
func (s *Soialite) Serializer(recordID string) (*codec.Serializer, error) {
	rec, err := s.registry.GetRecord(recordID)
	if err != nil {
		return nil, err
	}
	return codec.NewSerializer(reflection.RecordRef(rec.ID), s.registry, s.cfg)
}

// SerializerForType builds a serializer for an arbitrary type, record
// references resolved against the loaded descriptors.
func (s *Soialite) SerializerForType(t reflection.Type) (*codec.Serializer, error) {
	return codec.NewSerializer(t, s.registry, s.cfg)
}

// Marshal encodes v as a standalone binary string.
func (s *Soialite) Marshal(recordID string, v interface{}) ([]byte, error) {
	ser, err := s.Serializer(recordID)
	if err != nil {
		return nil, err
	}
	return ser.ToBytes(v)
}

// MarshalDense encodes v in the dense JSON flavor.
func (s *Soialite) MarshalDense(recordID string, v interface{}) ([]byte, error) {
	ser, err := s.Serializer(recordID)
	if err != nil {
		return nil, err
	}
	return ser.ToDenseJSON(v)
}

// MarshalReadable encodes v in the readable JSON flavor.
func (s *Soialite) MarshalReadable(recordID string, v interface{}) ([]byte, error) {
	ser, err := s.Serializer(recordID)
	if err != nil {
		return nil, err
	}
	return ser.ToReadableJSON(v)
}

// Parse decodes data in whichever format it carries.
func (s *Soialite) Parse(recordID string, data []byte) (interface{}, error) {
	ser, err := s.Serializer(recordID)
	if err != nil {
		return nil, err
	}
	return ser.Parse(data)
}

// DebugString renders v in the multi-line debug form.
func (s *Soialite) DebugString(recordID string, v interface{}) (string, error) {
	ser, err := s.Serializer(recordID)
	if err != nil {
		return "", err
	}
	return ser.ToDebugString(v), nil
}

// ListRecords returns the sorted ids of all loaded records.
func (s *Soialite) ListRecords() []string {
	return s.registry.ListRecords()
}

// Descriptor builds the type descriptor of a record, transitively
// referenced records included.
func (s *Soialite) Descriptor(recordID string) (*reflection.TypeDescriptor, error) {
	return s.registry.Descriptor(recordID)
}
