package codec

import (
	"strings"
	"testing"

	"github.com/soialite/soialite/keyed"
	"github.com/soialite/soialite/reflection"
)

func newKeyedNamesSerializer(t *testing.T) *Serializer {
	t.Helper()
	typ := reflection.KeyedArray(reflection.RecordRef("full_name.soia:FullName"), "first_name")
	return newTestSerializer(t, typ, Config{})
}

func fullName(first, last string) map[string]interface{} {
	return map[string]interface{}{"first_name": first, "last_name": last}
}

func TestKeyedArray_DecodeAndLookup(t *testing.T) {
	ser := newKeyedNamesSerializer(t)
	input := []interface{}{
		fullName("Osi", "Daro"),
		fullName("Ana", "Lim"),
	}
	data, err := ser.ToBytes(input)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := ser.FromBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	items, ok := decoded.(*keyed.Items)
	if !ok {
		t.Fatalf("decoded %T, want *keyed.Items", decoded)
	}
	if items.Len() != 2 {
		t.Fatalf("Len() = %d", items.Len())
	}
	found := items.FindOrNil("Ana")
	if found == nil {
		t.Fatal("FindOrNil(Ana) = nil")
	}
	if found.(map[string]interface{})["last_name"] != "Lim" {
		t.Errorf("found = %v", found)
	}
	if items.FindOrNil("Bob") != nil {
		t.Error("FindOrNil(Bob) should be nil")
	}
}

func TestKeyedArray_LastEntryWins(t *testing.T) {
	ser := newKeyedNamesSerializer(t)
	decoded, err := ser.FromJSON([]byte(`[[0,"Osi",0,0,"Daro"],[0,"Osi",0,0,"Lim"]]`))
	if err != nil {
		t.Fatal(err)
	}
	items := decoded.(*keyed.Items)
	// Both entries stay in the vector; lookups resolve to the later one.
	if items.Len() != 2 {
		t.Fatalf("Len() = %d", items.Len())
	}
	found := items.FindOrNil("Osi")
	if found == nil {
		t.Fatal("FindOrNil(Osi) = nil")
	}
	if got := found.(map[string]interface{})["last_name"]; got != "Lim" {
		t.Errorf("last_name = %v, want Lim", got)
	}
	// Encoding preserves the vector order, duplicates included.
	dense, err := ser.ToDenseJSON(items)
	if err != nil {
		t.Fatal(err)
	}
	if string(dense) != `[[0,"Osi",0,0,"Daro"],[0,"Osi",0,0,"Lim"]]` {
		t.Errorf("dense = %s", dense)
	}
}

func TestKeyedArray_MissingKeyFieldUsesDefault(t *testing.T) {
	ser := newKeyedNamesSerializer(t)
	decoded, err := ser.FromJSON([]byte(`[[],[0,"Osi"]]`))
	if err != nil {
		t.Fatal(err)
	}
	items := decoded.(*keyed.Items)
	if items.FindOrNil("") == nil {
		t.Error("the empty-key item should be findable")
	}
	if items.FindOrNil("Osi") == nil {
		t.Error("FindOrNil(Osi) = nil")
	}
}

func TestKeyedArray_EnumKey(t *testing.T) {
	reg := testRegistry(t)
	err := reg.Register(reflection.Record{
		Kind: reflection.RecordStruct,
		ID:   "task.soia:Task",
		Fields: []reflection.Field{
			{Name: "status", Type: refTo("simple_enum.soia:Status"), Number: 0},
			{Name: "note", Type: typeOf(reflection.PrimitiveString), Number: 1},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	typ := reflection.KeyedArray(reflection.RecordRef("task.soia:Task"), "status")
	ser, err := NewSerializer(typ, reg, Config{})
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := ser.FromJSON([]byte(`[[1,"a"],[[2,"boom"],"b"]]`))
	if err != nil {
		t.Fatal(err)
	}
	items := decoded.(*keyed.Items)
	// Constant fields key by name, value fields by their kind.
	ok := items.FindOrNil("OK")
	if ok == nil || ok.(map[string]interface{})["note"] != "a" {
		t.Errorf("FindOrNil(OK) = %v", ok)
	}
	withValue := items.FindOrNil("error")
	if withValue == nil || withValue.(map[string]interface{})["note"] != "b" {
		t.Errorf("FindOrNil(error) = %v", withValue)
	}
}

func TestKeyedArray_BadChain(t *testing.T) {
	reg := testRegistry(t)
	typ := reflection.KeyedArray(reflection.RecordRef("full_name.soia:FullName"), "no_such_field")
	if _, err := NewSerializer(typ, reg, Config{}); err == nil {
		t.Error("expected an error for an unknown key chain field")
	}
	typ = reflection.KeyedArray(reflection.Primitive(reflection.PrimitiveString), "len")
	if _, err := NewSerializer(typ, reg, Config{}); err == nil {
		t.Error("expected an error for a non-struct item type")
	}
}

func TestKeyedArray_UnhashableLeaf(t *testing.T) {
	reg := testRegistry(t)
	err := reg.Register(reflection.Record{
		Kind: reflection.RecordStruct,
		ID:   "sample.soia:Sample",
		Fields: []reflection.Field{
			{Name: "weight", Type: typeOf(reflection.PrimitiveFloat64), Number: 0},
			{Name: "blob", Type: typeOf(reflection.PrimitiveBytes), Number: 1},
			{Name: "owner", Type: refTo("full_name.soia:FullName"), Number: 2},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	// Key chains landing on unhashable types are rejected at build time,
	// even when the schema arrives from an external descriptor document.
	for _, leaf := range []string{"weight", "blob", "owner"} {
		typ := reflection.KeyedArray(reflection.RecordRef("sample.soia:Sample"), leaf)
		if _, err := NewSerializer(typ, reg, Config{}); err == nil {
			t.Errorf("key leaf %q should be rejected", leaf)
		} else if !strings.Contains(err.Error(), "cannot be used as a key") {
			t.Errorf("key leaf %q: err = %v", leaf, err)
		}
	}
	// Hashable leaves still build.
	typ := reflection.KeyedArray(reflection.RecordRef("sample.soia:Sample"), "owner", "first_name")
	if _, err := NewSerializer(typ, reg, Config{}); err != nil {
		t.Error(err)
	}
}
