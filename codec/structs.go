package codec

import (
	"fmt"
	"sort"

	"github.com/soialite/soialite/jsontext"
	"github.com/soialite/soialite/reflection"
	"github.com/soialite/soialite/wire"
)

// UnrecognizedKey is the reserved map key under which decoded structs carry
// their unrecognized fields, when the keep policy is in effect.
const UnrecognizedKey = "__unrecognized"

type structField struct {
	name    string
	number  int32
	adapter Adapter
}

// structAdapter encodes structs as maps keyed by field name. The dense
// forms index slots by field number; removed fields leave default-encoded
// holes.
type structAdapter struct {
	record *reflection.Record
	fields []structField // sorted by number
	// slots[number] points into fields, nil for removed or absent numbers.
	slots               []*structField
	numSlots            int
	numSlotsInclRemoved int
}

func (b *builder) buildStruct(rec *reflection.Record) (*structAdapter, error) {
	if a, ok := b.structs[rec.ID]; ok {
		return a, nil
	}
	a := &structAdapter{
		record:              rec,
		numSlots:            rec.NumSlots(),
		numSlotsInclRemoved: rec.NumSlotsInclRemoved(),
	}
	// Memoize before building fields so recursive records terminate.
	b.structs[rec.ID] = a
	for _, f := range rec.Fields {
		if f.Type == nil {
			return nil, fmt.Errorf("struct %s: field %s has no type", rec.ID, f.Name)
		}
		adapter, err := b.build(*f.Type)
		if err != nil {
			return nil, fmt.Errorf("struct %s: field %s: %w", rec.ID, f.Name, err)
		}
		a.fields = append(a.fields, structField{name: f.Name, number: f.Number, adapter: adapter})
	}
	sort.Slice(a.fields, func(i, j int) bool { return a.fields[i].number < a.fields[j].number })
	a.slots = make([]*structField, a.numSlots)
	for i := range a.fields {
		a.slots[a.fields[i].number] = &a.fields[i]
	}
	return a, nil
}

func (a *structAdapter) Type() reflection.Type {
	return reflection.RecordRef(a.record.ID)
}

func coerceStruct(v interface{}) (map[string]interface{}, bool) {
	switch x := v.(type) {
	case nil:
		return nil, true
	case map[string]interface{}:
		return x, true
	}
	return nil, false
}

func (a *structAdapter) fieldValue(m map[string]interface{}, f *structField) interface{} {
	if v, ok := m[f.name]; ok && v != nil {
		return v
	}
	return f.adapter.Default()
}

// lastSlot returns the index of the last slot holding a non-default value,
// or -1. Trailing defaults are omitted from the dense forms.
func (a *structAdapter) lastSlot(m map[string]interface{}) int {
	last := -1
	for i, slot := range a.slots {
		if slot != nil && !slot.adapter.IsDefault(m[slot.name]) {
			last = i
		}
	}
	return last
}

func unrecognizedOf(m map[string]interface{}) *UnrecognizedFieldsData {
	u, _ := m[UnrecognizedKey].(*UnrecognizedFieldsData)
	if u != nil && u.Values.IsEmpty() {
		return nil
	}
	return u
}

func (a *structAdapter) AppendBinary(sink *wire.ByteSink, v interface{}) error {
	m, ok := coerceStruct(v)
	if !ok {
		return wire.WrapWithField(typeMismatch(a.Type(), v), a.record.Name())
	}
	if unrec := unrecognizedOf(m); unrec != nil {
		wire.AppendArrayPrefix(sink, unrec.ArrayLen)
		for i := 0; i < a.numSlotsInclRemoved; i++ {
			if err := a.appendSlotBinary(sink, m, i); err != nil {
				return err
			}
		}
		unrec.Values.AppendBinary(sink)
		return nil
	}
	last := a.lastSlot(m)
	wire.AppendArrayPrefix(sink, last+1)
	for i := 0; i <= last; i++ {
		if err := a.appendSlotBinary(sink, m, i); err != nil {
			return err
		}
	}
	return nil
}

func (a *structAdapter) appendSlotBinary(sink *wire.ByteSink, m map[string]interface{}, i int) error {
	var slot *structField
	if i < len(a.slots) {
		slot = a.slots[i]
	}
	if slot == nil {
		sink.Push(0)
		return nil
	}
	if err := slot.adapter.AppendBinary(sink, a.fieldValue(m, slot)); err != nil {
		return wire.WrapWithField(err, slot.name)
	}
	return nil
}

func (a *structAdapter) ParseBinary(src *wire.ByteSource, cfg *Config) interface{} {
	length := wire.ReadArrayPrefix(src)
	m := make(map[string]interface{})
	n := length
	if n > a.numSlots {
		n = a.numSlots
	}
	for i := 0; i < n && src.Err() == nil; i++ {
		slot := a.slots[i]
		if slot == nil {
			wire.SkipValue(src)
			continue
		}
		m[slot.name] = slot.adapter.ParseBinary(src, cfg)
	}
	if length > a.numSlots && src.Err() == nil {
		if unrec := parseUnrecognizedFieldsBinary(src, length, a.numSlots, a.numSlotsInclRemoved, cfg); unrec != nil {
			m[UnrecognizedKey] = unrec
		}
	}
	return m
}

func (a *structAdapter) AppendDense(dst []byte, v interface{}) ([]byte, error) {
	m, ok := coerceStruct(v)
	if !ok {
		return dst, wire.WrapWithField(typeMismatch(a.Type(), v), a.record.Name())
	}
	dst = append(dst, '[')
	var err error
	if unrec := unrecognizedOf(m); unrec != nil {
		for i := 0; i < a.numSlotsInclRemoved; i++ {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst, err = a.appendSlotDense(dst, m, i)
			if err != nil {
				return dst, err
			}
		}
		if a.numSlotsInclRemoved > 0 {
			dst = append(dst, ',')
		}
		dst = unrec.Values.AppendDense(dst)
		return append(dst, ']'), nil
	}
	last := a.lastSlot(m)
	for i := 0; i <= last; i++ {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst, err = a.appendSlotDense(dst, m, i)
		if err != nil {
			return dst, err
		}
	}
	return append(dst, ']'), nil
}

func (a *structAdapter) appendSlotDense(dst []byte, m map[string]interface{}, i int) ([]byte, error) {
	var slot *structField
	if i < len(a.slots) {
		slot = a.slots[i]
	}
	if slot == nil {
		return append(dst, '0'), nil
	}
	out, err := slot.adapter.AppendDense(dst, a.fieldValue(m, slot))
	if err != nil {
		return out, wire.WrapWithField(err, slot.name)
	}
	return out, nil
}

func (a *structAdapter) AppendReadable(dst []byte, nl *jsontext.NewLine, v interface{}) ([]byte, error) {
	m, ok := coerceStruct(v)
	if !ok {
		return dst, wire.WrapWithField(typeMismatch(a.Type(), v), a.record.Name())
	}
	first := true
	dst = append(dst, '{')
	for i := range a.fields {
		f := &a.fields[i]
		value := m[f.name]
		if f.adapter.IsDefault(value) {
			continue
		}
		if first {
			dst = append(dst, nl.Indent()...)
			first = false
		} else {
			dst = append(dst, ',')
			dst = append(dst, nl.Current()...)
		}
		dst = jsontext.AppendQuoted(dst, f.name)
		dst = append(dst, ':', ' ')
		var err error
		dst, err = f.adapter.AppendReadable(dst, nl, value)
		if err != nil {
			return dst, wire.WrapWithField(err, f.name)
		}
	}
	if !first {
		dst = append(dst, nl.Dedent()...)
	}
	return append(dst, '}'), nil
}

// ParseJSON accepts the dense form (array of slots), the readable form
// (object keyed by field name) and the default 0.
func (a *structAdapter) ParseJSON(tok *jsontext.Tokenizer, cfg *Config) interface{} {
	switch tok.Token {
	case jsontext.TokenZero:
		tok.Next()
		return map[string]interface{}{}
	case jsontext.TokenLeftSquare:
		return a.parseJSONSlots(tok, cfg)
	case jsontext.TokenLeftCurly:
		return a.parseJSONObject(tok, cfg)
	default:
		tok.FailUnexpectedToken("'['")
		return map[string]interface{}{}
	}
}

func (a *structAdapter) parseJSONSlots(tok *jsontext.Tokenizer, cfg *Config) interface{} {
	m := make(map[string]interface{})
	reader := jsontext.NewArrayReader(tok)
	i := 0
	for reader.Next() {
		if i >= a.numSlots {
			if unrec := parseUnrecognizedFieldsJSON(reader, a.numSlots, a.numSlotsInclRemoved, cfg); unrec != nil {
				m[UnrecognizedKey] = unrec
			}
			return m
		}
		slot := a.slots[i]
		if slot == nil {
			jsontext.SkipValue(tok)
		} else {
			m[slot.name] = slot.adapter.ParseJSON(tok, cfg)
		}
		i++
	}
	return m
}

func (a *structAdapter) parseJSONObject(tok *jsontext.Tokenizer, cfg *Config) interface{} {
	m := make(map[string]interface{})
	reader := jsontext.NewObjectReader(tok)
	for reader.Next() {
		f := a.record.FieldByName(reader.Name())
		if f == nil {
			jsontext.SkipValue(tok)
			continue
		}
		slot := a.slots[f.Number]
		if slot == nil {
			jsontext.SkipValue(tok)
			continue
		}
		m[slot.name] = slot.adapter.ParseJSON(tok, cfg)
	}
	return m
}

func (a *structAdapter) AppendDebug(dst []byte, nl *jsontext.NewLine, v interface{}) []byte {
	m, ok := coerceStruct(v)
	if !ok {
		return append(dst, '?')
	}
	empty := true
	dst = append(dst, '{')
	nl.Indent()
	for i := range a.fields {
		f := &a.fields[i]
		value := m[f.name]
		if f.adapter.IsDefault(value) {
			continue
		}
		empty = false
		dst = append(dst, nl.Current()...)
		dst = append(dst, '.')
		dst = append(dst, f.name...)
		dst = append(dst, ':', ' ')
		dst = f.adapter.AppendDebug(dst, nl, value)
		dst = append(dst, ',')
	}
	if empty {
		nl.Dedent()
		return append(dst, '}')
	}
	dst = append(dst, nl.Dedent()...)
	return append(dst, '}')
}

func (a *structAdapter) IsDefault(v interface{}) bool {
	m, ok := coerceStruct(v)
	if !ok {
		return false
	}
	return unrecognizedOf(m) == nil && a.lastSlot(m) < 0
}

func (a *structAdapter) Default() interface{} {
	return map[string]interface{}{}
}
