package reflection

import (
	"reflect"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
)

func TestRefToID(t *testing.T) {
	tests := []struct {
		ref string
		id  string
	}{
		{"FullName:full_name.soia", "full_name.soia:FullName"},
		{"Status:path/to/enums.soia", "path/to/enums.soia:Status"},
	}
	for _, test := range tests {
		id, err := RefToID(test.ref)
		if err != nil {
			t.Fatalf("RefToID(%q): %v", test.ref, err)
		}
		if id != test.id {
			t.Errorf("RefToID(%q) = %q, want %q", test.ref, id, test.id)
		}
		if got := IDToRef(id); got != test.ref {
			t.Errorf("IDToRef(%q) = %q, want %q", id, got, test.ref)
		}
	}
	if _, err := RefToID("no-colon"); err == nil {
		t.Error("expected an error for a malformed reference")
	}
}

func TestType_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		json string
	}{
		{
			"primitive",
			Primitive(PrimitiveString),
			`{"kind":"primitive","value":"STRING"}`,
		},
		{
			"optional",
			Optional(Primitive(PrimitiveBool)),
			`{"kind":"optional","value":{"kind":"primitive","value":"BOOL"}}`,
		},
		{
			"array",
			Array(Primitive(PrimitiveInt32)),
			`{"kind":"array","value":{"item":{"kind":"primitive","value":"INT32"}}}`,
		},
		{
			"keyed_array",
			KeyedArray(RecordRef("users.soia:User"), "user_id"),
			`{"kind":"array","value":{"item":{"kind":"record","value":"User:users.soia"},"key_chain":["user_id"]}}`,
		},
		{
			"record",
			RecordRef("full_name.soia:FullName"),
			`{"kind":"record","value":"FullName:full_name.soia"}`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			data, err := jsoniter.Marshal(test.typ)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != test.json {
				t.Errorf("marshal = %s, want %s", data, test.json)
			}
			var decoded Type
			if err := jsoniter.Unmarshal(data, &decoded); err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(decoded, test.typ) {
				t.Errorf("round trip = %+v, want %+v", decoded, test.typ)
			}
		})
	}
}

func TestType_UnmarshalErrors(t *testing.T) {
	tests := []string{
		`{"kind":"primitive","value":"NOT_A_TYPE"}`,
		`{"kind":"something_else","value":1}`,
		`{"kind":"record","value":"no-colon"}`,
	}
	for _, input := range tests {
		var decoded Type
		if err := jsoniter.Unmarshal([]byte(input), &decoded); err == nil {
			t.Errorf("unmarshal of %s should fail", input)
		}
	}
}

func TestRecord_JSONRoundTrip(t *testing.T) {
	stringType := Primitive(PrimitiveString)
	record := Record{
		Kind: RecordStruct,
		ID:   "full_name.soia:FullName",
		Fields: []Field{
			{Name: "first_name", Type: &stringType, Number: 1},
			{Name: "last_name", Type: &stringType, Number: 4},
		},
		RemovedNumbers: []int32{0, 2, 3, 5},
	}
	data, err := jsoniter.Marshal(record)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Record
	if err := jsoniter.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(decoded, record) {
		t.Errorf("round trip = %+v, want %+v", decoded, record)
	}
	if !strings.Contains(string(data), `"removed_fields":[0,2,3,5]`) {
		t.Errorf("marshal = %s", data)
	}

	var bad Record
	if err := jsoniter.Unmarshal([]byte(`{"kind":"UNION","id":"x.soia:X"}`), &bad); err == nil {
		t.Error("unknown record kinds should fail")
	}
}

func TestRecord_EnumConstantFieldsHaveNoType(t *testing.T) {
	record := Record{
		Kind: RecordEnum,
		ID:   "enums.soia:Status",
		Fields: []Field{
			{Name: "UNKNOWN", Number: 0},
			{Name: "OK", Number: 1},
		},
	}
	data, err := jsoniter.Marshal(record)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `"type"`) {
		t.Errorf("constant fields should omit the type entry: %s", data)
	}
	var decoded Record
	if err := jsoniter.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Fields[0].Type != nil {
		t.Error("constant field type should stay nil")
	}
}

func TestRecord_Accessors(t *testing.T) {
	stringType := Primitive(PrimitiveString)
	record := Record{
		Kind: RecordStruct,
		ID:   "full_name.soia:FullName",
		Fields: []Field{
			{Name: "first_name", Type: &stringType, Number: 1},
			{Name: "last_name", Type: &stringType, Number: 4},
		},
		RemovedNumbers: []int32{0, 2, 3, 5},
	}
	if record.Name() != "FullName" {
		t.Errorf("Name() = %q", record.Name())
	}
	if f := record.FieldByNumber(4); f == nil || f.Name != "last_name" {
		t.Errorf("FieldByNumber(4) = %v", f)
	}
	if record.FieldByNumber(2) != nil {
		t.Error("FieldByNumber(2) should be nil")
	}
	if f := record.FieldByName("first_name"); f == nil || f.Number != 1 {
		t.Errorf("FieldByName(first_name) = %v", f)
	}
	if record.NumSlots() != 5 {
		t.Errorf("NumSlots() = %d, want 5", record.NumSlots())
	}
	if record.NumSlotsInclRemoved() != 6 {
		t.Errorf("NumSlotsInclRemoved() = %d, want 6", record.NumSlotsInclRemoved())
	}
	if !record.IsRemoved(3) || record.IsRemoved(4) {
		t.Error("IsRemoved is wrong")
	}
}

func TestTypeDescriptor_JSONRoundTrip(t *testing.T) {
	stringType := Primitive(PrimitiveString)
	descriptor := TypeDescriptor{
		Type: RecordRef("full_name.soia:FullName"),
		Records: []Record{
			{
				Kind: RecordStruct,
				ID:   "full_name.soia:FullName",
				Fields: []Field{
					{Name: "first_name", Type: &stringType, Number: 1},
				},
			},
		},
	}
	data, err := jsoniter.Marshal(descriptor)
	if err != nil {
		t.Fatal(err)
	}
	var decoded TypeDescriptor
	if err := jsoniter.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(decoded, descriptor) {
		t.Errorf("round trip = %+v, want %+v", decoded, descriptor)
	}
}

func TestTypeDescriptor_MarshalReadable(t *testing.T) {
	descriptor := TypeDescriptor{Type: Primitive(PrimitiveBool)}
	out, err := descriptor.MarshalReadable()
	if err != nil {
		t.Fatal(err)
	}
	expected := "{\n  \"type\": {\n    \"kind\": \"primitive\",\n    \"value\": \"BOOL\"\n  }\n}"
	if out != expected {
		t.Errorf("readable = %q, want %q", out, expected)
	}
}
