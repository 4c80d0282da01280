// Package keyed provides an append-ordered container with a hash index
// over a key extracted from each item.
package keyed

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/spaolacci/murmur3"
)

const (
	// Each item gets two hash slots, keeping the load factor at 1/2.
	numSlotsPerItem = 2
	hashSeed        = 47
)

// KeyFunc extracts the key of an item.
type KeyFunc func(item interface{}) interface{}

// Items stores items in insertion order, duplicates included, and indexes
// them by key. Lookups return the item inserted last for a key.
type Items struct {
	items []interface{}
	keyOf KeyFunc
	slots slotTable
}

// NewItems creates an empty container with the given key extractor.
func NewItems(keyOf KeyFunc) *Items {
	return &Items{keyOf: keyOf}
}

// Len returns the number of items.
func (it *Items) Len() int {
	return len(it.items)
}

// At returns the item at index i in insertion order.
func (it *Items) At(i int) interface{} {
	return it.items[i]
}

// Slice returns the items in insertion order. The caller must not mutate
// the returned slice; use MutateVector for that.
func (it *Items) Slice() []interface{} {
	it.checkNotMutating()
	return it.items
}

// Push appends items, keeping the index current.
func (it *Items) Push(items ...interface{}) {
	it.checkNotMutating()
	for _, item := range items {
		index := len(it.items)
		it.items = append(it.items, item)
		if it.slots != nil && !it.slots.fits(len(it.items)) {
			it.rebuild()
			continue
		}
		it.ensureSlots()
		it.putSlot(NormalizeKey(it.keyOf(item)), index)
	}
}

// FindOrNil returns the last item inserted with the given key, or nil.
func (it *Items) FindOrNil(key interface{}) interface{} {
	it.checkNotMutating()
	if len(it.items) == 0 {
		return nil
	}
	it.ensureSlots()
	key = NormalizeKey(key)
	h := hashKey(key)
	n := it.slots.numSlots()
	for i := h % uint64(n); ; i = (i + 1) % uint64(n) {
		stored := it.slots.get(int(i))
		if stored == 0 {
			return nil
		}
		item := it.items[stored-1]
		if NormalizeKey(it.keyOf(item)) == key {
			return item
		}
	}
}

// FindOrDefault returns the last item inserted with the given key, or def.
func (it *Items) FindOrDefault(key, def interface{}) interface{} {
	if found := it.FindOrNil(key); found != nil {
		return found
	}
	return def
}

// SlotWidthBytes returns the byte width of an index slot, which grows with
// capacity. Exposed for tests.
func (it *Items) SlotWidthBytes() int {
	it.ensureSlots()
	return it.slots.widthBytes()
}

// NumSlots returns the size of the hash table. Exposed for tests.
func (it *Items) NumSlots() int {
	it.ensureSlots()
	return it.slots.numSlots()
}

func (it *Items) checkNotMutating() {
	if _, ok := it.slots.(mutationGuard); ok {
		panic("keyed: operation during active vector mutation")
	}
}

func (it *Items) ensureSlots() {
	if it.slots == nil {
		it.rebuild()
	}
}

// rebuild sizes a fresh table for the current item count and reinserts
// every item in order, so later duplicates win.
func (it *Items) rebuild() {
	it.slots = newSlotTable(len(it.items))
	for i, item := range it.items {
		it.putSlot(NormalizeKey(it.keyOf(item)), i)
	}
}

func (it *Items) putSlot(key interface{}, index int) {
	h := hashKey(key)
	n := it.slots.numSlots()
	for i := h % uint64(n); ; i = (i + 1) % uint64(n) {
		stored := it.slots.get(int(i))
		if stored == 0 {
			it.slots.set(int(i), uint64(index+1))
			return
		}
		if NormalizeKey(it.keyOf(it.items[stored-1])) == key {
			// Same key: the later item wins lookups.
			it.slots.set(int(i), uint64(index+1))
			return
		}
	}
}

// VectorMutator gives direct access to the item slice. While a mutator is
// open, any other operation on the container is a contract violation; the
// index is rebuilt when the mutator is closed.
type VectorMutator struct {
	owner  *Items
	closed bool
}

// MutateVector drops the index and opens a mutation scope.
func (it *Items) MutateVector() *VectorMutator {
	it.checkNotMutating()
	it.slots = mutationGuard{}
	return &VectorMutator{owner: it}
}

// Items returns the mutable item slice.
func (m *VectorMutator) Items() *[]interface{} {
	if m.closed {
		panic("keyed: use of closed mutator")
	}
	return &m.owner.items
}

// Close ends the mutation scope and rebuilds the index.
func (m *VectorMutator) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.owner.rebuild()
}

// NormalizeKey collapses equivalent key representations so that, for
// example, an int32 decoded from the wire matches an int passed by the
// caller.
func NormalizeKey(v interface{}) interface{} {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case uint64:
		return int64(x)
	case time.Time:
		return x.UnixMilli()
	case bool, string, int64:
		return x
	}
	panic(fmt.Sprintf("keyed: unsupported key type %T", v))
}

func hashKey(key interface{}) uint64 {
	var buf [8]byte
	switch x := key.(type) {
	case string:
		h, _ := murmur3.Sum128WithSeed([]byte(x), hashSeed)
		return h
	case int64:
		binary.LittleEndian.PutUint64(buf[:], uint64(x))
	case bool:
		if x {
			buf[0] = 1
		}
	}
	h, _ := murmur3.Sum128WithSeed(buf[:], hashSeed)
	return h
}
