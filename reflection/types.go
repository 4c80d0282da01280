// Package reflection models soia types and records so values can be
// encoded and decoded without generated code.
package reflection

import (
	"fmt"
	"strings"
)

// PrimitiveType names one of the built-in scalar types.
type PrimitiveType string

const (
	PrimitiveBool      PrimitiveType = "BOOL"
	PrimitiveInt32     PrimitiveType = "INT32"
	PrimitiveInt64     PrimitiveType = "INT64"
	PrimitiveUint64    PrimitiveType = "UINT64"
	PrimitiveFloat32   PrimitiveType = "FLOAT32"
	PrimitiveFloat64   PrimitiveType = "FLOAT64"
	PrimitiveTimestamp PrimitiveType = "TIMESTAMP"
	PrimitiveString    PrimitiveType = "STRING"
	PrimitiveBytes     PrimitiveType = "BYTES"
)

// Type kinds.
const (
	KindPrimitive = "primitive"
	KindOptional  = "optional"
	KindArray     = "array"
	KindRecord    = "record"
)

// Record kinds.
const (
	RecordStruct = "STRUCT"
	RecordEnum   = "ENUM"
)

// Type is the type of a field or of a top-level value. Exactly one of the
// payload fields is set, matching Kind.
type Type struct {
	Kind      string
	Primitive PrimitiveType
	Optional  *Type
	Array     *ArrayType
	// Record references a record as "Name:path/to/file.soia".
	Record string
}

// ArrayType describes an array item type, plus the chain of field names
// leading to the key for keyed arrays.
type ArrayType struct {
	Item     Type
	KeyChain []string
}

// Primitive returns a primitive type.
func Primitive(p PrimitiveType) Type {
	return Type{Kind: KindPrimitive, Primitive: p}
}

// Optional returns an optional wrapping other.
func Optional(other Type) Type {
	return Type{Kind: KindOptional, Optional: &other}
}

// Array returns an array of item.
func Array(item Type) Type {
	return Type{Kind: KindArray, Array: &ArrayType{Item: item}}
}

// KeyedArray returns an array of item keyed by the given field chain.
func KeyedArray(item Type, keyChain ...string) Type {
	return Type{Kind: KindArray, Array: &ArrayType{Item: item, KeyChain: keyChain}}
}

// RecordRef returns a reference to the record with the given id.
func RecordRef(id string) Type {
	return Type{Kind: KindRecord, Record: IDToRef(id)}
}

// Field is one field of a struct or enum. For enum constant fields Type is
// nil. Number is the slot index in the dense forms.
type Field struct {
	Name   string
	Type   *Type
	Number int32
}

// Record describes a struct or enum.
type Record struct {
	Kind string
	// ID is "path/to/file.soia:Name".
	ID             string
	Fields         []Field
	RemovedNumbers []int32
}

// Name returns the record name part of the id.
func (r *Record) Name() string {
	if i := strings.LastIndexByte(r.ID, ':'); i >= 0 {
		return r.ID[i+1:]
	}
	return r.ID
}

// FieldByNumber returns the field with the given number, or nil.
func (r *Record) FieldByNumber(number int32) *Field {
	for i := range r.Fields {
		if r.Fields[i].Number == number {
			return &r.Fields[i]
		}
	}
	return nil
}

// FieldByName returns the field with the given name, or nil.
func (r *Record) FieldByName(name string) *Field {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return &r.Fields[i]
		}
	}
	return nil
}

// NumSlots returns one past the highest field number.
func (r *Record) NumSlots() int {
	var max int32 = -1
	for _, f := range r.Fields {
		if f.Number > max {
			max = f.Number
		}
	}
	return int(max) + 1
}

// NumSlotsInclRemoved returns one past the highest field number, counting
// removed numbers.
func (r *Record) NumSlotsInclRemoved() int {
	max := int32(r.NumSlots()) - 1
	for _, n := range r.RemovedNumbers {
		if n > max {
			max = n
		}
	}
	return int(max) + 1
}

// IsRemoved reports whether number belongs to a removed field.
func (r *Record) IsRemoved(number int32) bool {
	for _, n := range r.RemovedNumbers {
		if n == number {
			return true
		}
	}
	return false
}

// TypeDescriptor bundles a type with every record it transitively
// references.
type TypeDescriptor struct {
	Type    Type
	Records []Record
}

// RefToID converts a record reference ("Name:file.soia") to a record id
// ("file.soia:Name").
func RefToID(ref string) (string, error) {
	i := strings.IndexByte(ref, ':')
	if i < 0 {
		return "", fmt.Errorf("malformed record reference: %q", ref)
	}
	return ref[i+1:] + ":" + ref[:i], nil
}

// IDToRef converts a record id to a record reference.
func IDToRef(id string) string {
	i := strings.LastIndexByte(id, ':')
	if i < 0 {
		return id
	}
	return id[i+1:] + ":" + id[:i]
}
