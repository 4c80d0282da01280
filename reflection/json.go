package reflection

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

type typeJSON struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value,omitempty"`
}

type arrayTypeJSON struct {
	Item     json.RawMessage `json:"item"`
	KeyChain []string        `json:"key_chain,omitempty"`
}

type fieldJSON struct {
	Name   string          `json:"name"`
	Type   json.RawMessage `json:"type,omitempty"`
	Number int32           `json:"number,omitempty"`
}

type recordJSON struct {
	Kind           string      `json:"kind"`
	ID             string      `json:"id"`
	Fields         []fieldJSON `json:"fields,omitempty"`
	RemovedNumbers []int32     `json:"removed_fields,omitempty"`
}

type typeDescriptorJSON struct {
	Type    json.RawMessage `json:"type"`
	Records []recordJSON    `json:"records,omitempty"`
}

func (t Type) toJSON() (typeJSON, error) {
	out := typeJSON{Kind: t.Kind}
	var value interface{}
	switch t.Kind {
	case KindPrimitive:
		value = string(t.Primitive)
	case KindOptional:
		inner, err := t.Optional.toJSON()
		if err != nil {
			return out, err
		}
		value = inner
	case KindArray:
		item, err := t.Array.Item.toJSON()
		if err != nil {
			return out, err
		}
		raw, err := jsonAPI.Marshal(item)
		if err != nil {
			return out, err
		}
		value = arrayTypeJSON{Item: raw, KeyChain: t.Array.KeyChain}
	case KindRecord:
		value = t.Record
	default:
		return out, fmt.Errorf("unknown type kind: %q", t.Kind)
	}
	raw, err := jsonAPI.Marshal(value)
	if err != nil {
		return out, err
	}
	out.Value = raw
	return out, nil
}

func typeFromJSON(j typeJSON) (Type, error) {
	switch j.Kind {
	case KindPrimitive:
		var p string
		if err := jsonAPI.Unmarshal(j.Value, &p); err != nil {
			return Type{}, err
		}
		switch PrimitiveType(p) {
		case PrimitiveBool, PrimitiveInt32, PrimitiveInt64, PrimitiveUint64,
			PrimitiveFloat32, PrimitiveFloat64, PrimitiveTimestamp,
			PrimitiveString, PrimitiveBytes:
			return Primitive(PrimitiveType(p)), nil
		}
		return Type{}, fmt.Errorf("unknown primitive type: %q", p)
	case KindOptional:
		var inner typeJSON
		if err := jsonAPI.Unmarshal(j.Value, &inner); err != nil {
			return Type{}, err
		}
		other, err := typeFromJSON(inner)
		if err != nil {
			return Type{}, err
		}
		return Optional(other), nil
	case KindArray:
		var arr arrayTypeJSON
		if err := jsonAPI.Unmarshal(j.Value, &arr); err != nil {
			return Type{}, err
		}
		var item typeJSON
		if err := jsonAPI.Unmarshal(arr.Item, &item); err != nil {
			return Type{}, err
		}
		itemType, err := typeFromJSON(item)
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: KindArray, Array: &ArrayType{Item: itemType, KeyChain: arr.KeyChain}}, nil
	case KindRecord:
		var ref string
		if err := jsonAPI.Unmarshal(j.Value, &ref); err != nil {
			return Type{}, err
		}
		if _, err := RefToID(ref); err != nil {
			return Type{}, err
		}
		return Type{Kind: KindRecord, Record: ref}, nil
	}
	return Type{}, fmt.Errorf("unknown type kind: %q", j.Kind)
}

// MarshalJSON implements json.Marshaler.
func (t Type) MarshalJSON() ([]byte, error) {
	j, err := t.toJSON()
	if err != nil {
		return nil, err
	}
	return jsonAPI.Marshal(j)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Type) UnmarshalJSON(data []byte) error {
	var j typeJSON
	if err := jsonAPI.Unmarshal(data, &j); err != nil {
		return err
	}
	out, err := typeFromJSON(j)
	if err != nil {
		return err
	}
	*t = out
	return nil
}

func (r Record) toJSON() (recordJSON, error) {
	out := recordJSON{Kind: r.Kind, ID: r.ID, RemovedNumbers: r.RemovedNumbers}
	for _, f := range r.Fields {
		fj := fieldJSON{Name: f.Name, Number: f.Number}
		if f.Type != nil {
			raw, err := jsonAPI.Marshal(*f.Type)
			if err != nil {
				return out, err
			}
			fj.Type = raw
		}
		out.Fields = append(out.Fields, fj)
	}
	return out, nil
}

func recordFromJSON(j recordJSON) (Record, error) {
	if j.Kind != RecordStruct && j.Kind != RecordEnum {
		return Record{}, fmt.Errorf("unknown record kind: %q", j.Kind)
	}
	out := Record{Kind: j.Kind, ID: j.ID, RemovedNumbers: j.RemovedNumbers}
	for _, fj := range j.Fields {
		f := Field{Name: fj.Name, Number: fj.Number}
		if len(fj.Type) > 0 {
			var t Type
			if err := jsonAPI.Unmarshal(fj.Type, &t); err != nil {
				return Record{}, err
			}
			f.Type = &t
		}
		out.Fields = append(out.Fields, f)
	}
	return out, nil
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	j, err := r.toJSON()
	if err != nil {
		return nil, err
	}
	return jsonAPI.Marshal(j)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	var j recordJSON
	if err := jsonAPI.Unmarshal(data, &j); err != nil {
		return err
	}
	out, err := recordFromJSON(j)
	if err != nil {
		return err
	}
	*r = out
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d TypeDescriptor) MarshalJSON() ([]byte, error) {
	raw, err := jsonAPI.Marshal(d.Type)
	if err != nil {
		return nil, err
	}
	out := typeDescriptorJSON{Type: raw}
	for _, r := range d.Records {
		rj, err := r.toJSON()
		if err != nil {
			return nil, err
		}
		out.Records = append(out.Records, rj)
	}
	return jsonAPI.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *TypeDescriptor) UnmarshalJSON(data []byte) error {
	var j typeDescriptorJSON
	if err := jsonAPI.Unmarshal(data, &j); err != nil {
		return err
	}
	var t Type
	if err := jsonAPI.Unmarshal(j.Type, &t); err != nil {
		return err
	}
	out := TypeDescriptor{Type: t}
	for _, rj := range j.Records {
		r, err := recordFromJSON(rj)
		if err != nil {
			return err
		}
		out.Records = append(out.Records, r)
	}
	*d = out
	return nil
}

// MarshalReadable renders the descriptor with two-space indentation, the
// form emitted by AsJson on type descriptors.
func (d TypeDescriptor) MarshalReadable() (string, error) {
	compact, err := jsonAPI.Marshal(d)
	if err != nil {
		return "", err
	}
	return IndentJSON(compact)
}

// IndentJSON reformats compact JSON with two-space indentation.
func IndentJSON(compact []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}
