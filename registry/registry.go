// Package registry resolves record ids to their descriptors.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/soialite/soialite/reflection"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Registry holds every record loaded from type-descriptor documents.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*reflection.Record
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[string]*reflection.Record),
	}
}

// LoadTypeDescriptor registers every record of a type-descriptor JSON
// document. Records already present are overwritten, which lets callers
// reload a newer version of the same schema.
func (r *Registry) LoadTypeDescriptor(data []byte) (*reflection.TypeDescriptor, error) {
	var desc reflection.TypeDescriptor
	if err := jsonAPI.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("failed to parse type descriptor: %w", err)
	}
	if err := r.Register(desc.Records...); err != nil {
		return nil, err
	}
	return &desc, nil
}

// Register adds records to the registry.
func (r *Registry) Register(records ...reflection.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range records {
		rec := records[i]
		if rec.ID == "" {
			return fmt.Errorf("record with empty id")
		}
		if rec.Kind != reflection.RecordStruct && rec.Kind != reflection.RecordEnum {
			return fmt.Errorf("record %s: unknown kind %q", rec.ID, rec.Kind)
		}
		r.records[rec.ID] = &rec
	}
	return nil
}

// GetRecord retrieves a record by id. If no record matches exactly, a
// record whose id ends with ":name" is accepted, so callers can use the
// bare record name when it is unambiguous.
func (r *Registry) GetRecord(id string) (*reflection.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rec, ok := r.records[id]; ok {
		return rec, nil
	}
	var found *reflection.Record
	for key, rec := range r.records {
		if strings.HasSuffix(key, ":"+id) {
			if found != nil {
				return nil, fmt.Errorf("record name %q is ambiguous", id)
			}
			found = rec
		}
	}
	if found == nil {
		return nil, fmt.Errorf("record %q not found", id)
	}
	return found, nil
}

// ResolveRef retrieves the record behind a "Name:file.soia" reference.
func (r *Registry) ResolveRef(ref string) (*reflection.Record, error) {
	id, err := reflection.RefToID(ref)
	if err != nil {
		return nil, err
	}
	return r.GetRecord(id)
}

// ListRecords returns the sorted ids of all registered records.
func (r *Registry) ListRecords() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Descriptor builds the type descriptor of the record with the given id,
// including every record it transitively references.
func (r *Registry) Descriptor(id string) (*reflection.TypeDescriptor, error) {
	rec, err := r.GetRecord(id)
	if err != nil {
		return nil, err
	}
	desc := &reflection.TypeDescriptor{Type: reflection.RecordRef(rec.ID)}
	seen := make(map[string]bool)
	if err := r.collectRecords(rec, seen, &desc.Records); err != nil {
		return nil, err
	}
	return desc, nil
}

// DescriptorForType builds the type descriptor of an arbitrary type,
// referenced records included.
func (r *Registry) DescriptorForType(t reflection.Type) (*reflection.TypeDescriptor, error) {
	desc := &reflection.TypeDescriptor{Type: t}
	seen := make(map[string]bool)
	if err := r.collectFromType(t, seen, &desc.Records); err != nil {
		return nil, err
	}
	return desc, nil
}

func (r *Registry) collectRecords(rec *reflection.Record, seen map[string]bool, out *[]reflection.Record) error {
	if seen[rec.ID] {
		return nil
	}
	seen[rec.ID] = true
	*out = append(*out, *rec)
	for _, f := range rec.Fields {
		if f.Type == nil {
			continue
		}
		if err := r.collectFromType(*f.Type, seen, out); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) collectFromType(t reflection.Type, seen map[string]bool, out *[]reflection.Record) error {
	switch t.Kind {
	case reflection.KindOptional:
		return r.collectFromType(*t.Optional, seen, out)
	case reflection.KindArray:
		return r.collectFromType(t.Array.Item, seen, out)
	case reflection.KindRecord:
		rec, err := r.ResolveRef(t.Record)
		if err != nil {
			return err
		}
		return r.collectRecords(rec, seen, out)
	}
	return nil
}
