package registry

import (
	"strings"
	"testing"

	"github.com/soialite/soialite/reflection"
)

const carOwnerDescriptorJSON = `{
  "type": {"kind": "record", "value": "CarOwner:car.soia"},
  "records": [
    {
      "kind": "STRUCT",
      "id": "car.soia:CarOwner",
      "fields": [
        {"name": "car", "type": {"kind": "record", "value": "Car:car.soia"}},
        {"name": "owner", "type": {"kind": "record", "value": "FullName:full_name.soia"}, "number": 1}
      ]
    },
    {
      "kind": "STRUCT",
      "id": "car.soia:Car",
      "fields": [
        {"name": "model", "type": {"kind": "primitive", "value": "STRING"}},
        {"name": "purchase_time", "type": {"kind": "primitive", "value": "TIMESTAMP"}, "number": 1}
      ]
    },
    {
      "kind": "STRUCT",
      "id": "full_name.soia:FullName",
      "fields": [
        {"name": "first_name", "type": {"kind": "primitive", "value": "STRING"}, "number": 1},
        {"name": "last_name", "type": {"kind": "primitive", "value": "STRING"}, "number": 4}
      ],
      "removed_fields": [0, 2, 3, 5]
    }
  ]
}`

func loadedRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	desc, err := reg.LoadTypeDescriptor([]byte(carOwnerDescriptorJSON))
	if err != nil {
		t.Fatal(err)
	}
	if desc.Type.Record != "CarOwner:car.soia" {
		t.Fatalf("descriptor type = %+v", desc.Type)
	}
	return reg
}

func TestLoadTypeDescriptor(t *testing.T) {
	reg := loadedRegistry(t)
	ids := reg.ListRecords()
	expected := []string{"car.soia:Car", "car.soia:CarOwner", "full_name.soia:FullName"}
	if len(ids) != len(expected) {
		t.Fatalf("ListRecords() = %v", ids)
	}
	for i, id := range expected {
		if ids[i] != id {
			t.Errorf("ListRecords()[%d] = %q, want %q", i, ids[i], id)
		}
	}

	if _, err := reg.LoadTypeDescriptor([]byte(`{"type": 3`)); err == nil {
		t.Error("malformed JSON should fail")
	}
	if _, err := reg.LoadTypeDescriptor([]byte(`{"type": {"kind": "record", "value": "X:x.soia"}, "records": [{"kind": "UNION", "id": "x.soia:X"}]}`)); err == nil {
		t.Error("unknown record kinds should fail")
	}
}

func TestGetRecord(t *testing.T) {
	reg := loadedRegistry(t)
	rec, err := reg.GetRecord("full_name.soia:FullName")
	if err != nil {
		t.Fatal(err)
	}
	if rec.NumSlotsInclRemoved() != 6 {
		t.Errorf("NumSlotsInclRemoved() = %d", rec.NumSlotsInclRemoved())
	}

	// The bare name works when unambiguous.
	rec, err = reg.GetRecord("Car")
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != "car.soia:Car" {
		t.Errorf("GetRecord(Car).ID = %q", rec.ID)
	}

	if _, err := reg.GetRecord("Motorcycle"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestGetRecord_AmbiguousName(t *testing.T) {
	reg := loadedRegistry(t)
	err := reg.Register(reflection.Record{Kind: reflection.RecordStruct, ID: "other.soia:Car"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reg.GetRecord("Car"); err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("err = %v, want ambiguous", err)
	}
	// The full id still resolves.
	if _, err := reg.GetRecord("car.soia:Car"); err != nil {
		t.Error(err)
	}
}

func TestRegister_Validation(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(reflection.Record{Kind: reflection.RecordStruct}); err == nil {
		t.Error("empty ids should fail")
	}
	if err := reg.Register(reflection.Record{Kind: "UNION", ID: "x.soia:X"}); err == nil {
		t.Error("unknown kinds should fail")
	}
}

func TestResolveRef(t *testing.T) {
	reg := loadedRegistry(t)
	rec, err := reg.ResolveRef("FullName:full_name.soia")
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != "full_name.soia:FullName" {
		t.Errorf("ResolveRef = %q", rec.ID)
	}
	if _, err := reg.ResolveRef("no-colon"); err == nil {
		t.Error("malformed refs should fail")
	}
}

func TestDescriptor_TransitiveClosure(t *testing.T) {
	reg := loadedRegistry(t)
	desc, err := reg.Descriptor("CarOwner")
	if err != nil {
		t.Fatal(err)
	}
	if desc.Type.Record != "CarOwner:car.soia" {
		t.Errorf("type = %+v", desc.Type)
	}
	var ids []string
	for _, rec := range desc.Records {
		ids = append(ids, rec.ID)
	}
	// Depth first from the root, each record once.
	expected := []string{"car.soia:CarOwner", "car.soia:Car", "full_name.soia:FullName"}
	if len(ids) != len(expected) {
		t.Fatalf("records = %v", ids)
	}
	for i := range expected {
		if ids[i] != expected[i] {
			t.Errorf("records[%d] = %q, want %q", i, ids[i], expected[i])
		}
	}

	// A leaf descriptor carries only the leaf.
	desc, err = reg.Descriptor("FullName")
	if err != nil {
		t.Fatal(err)
	}
	if len(desc.Records) != 1 {
		t.Errorf("records = %v", desc.Records)
	}
}

func TestDescriptorForType(t *testing.T) {
	reg := loadedRegistry(t)
	typ := reflection.Array(reflection.Optional(reflection.RecordRef("car.soia:Car")))
	desc, err := reg.DescriptorForType(typ)
	if err != nil {
		t.Fatal(err)
	}
	if len(desc.Records) != 1 || desc.Records[0].ID != "car.soia:Car" {
		t.Errorf("records = %v", desc.Records)
	}

	// Primitive types reference no records.
	desc, err = reg.DescriptorForType(reflection.Primitive(reflection.PrimitiveBool))
	if err != nil {
		t.Fatal(err)
	}
	if len(desc.Records) != 0 {
		t.Errorf("records = %v", desc.Records)
	}

	// Dangling references surface as errors.
	_, err = reg.DescriptorForType(reflection.RecordRef("missing.soia:Missing"))
	if err == nil {
		t.Error("expected an error for a dangling reference")
	}
}
