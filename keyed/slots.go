package keyed

// slotTable is the open-addressing index. A slot holds an item index plus
// one; zero marks an empty slot. The element width grows with capacity so
// small containers spend one byte per slot.
type slotTable interface {
	numSlots() int
	get(i int) uint64
	set(i int, v uint64)
	fits(numItems int) bool
	widthBytes() int
}

func newSlotTable(numItems int) slotTable {
	n := tableSize(numItems)
	switch {
	case numItems <= 0xfe:
		return make(slots8, n)
	case numItems <= 0xfffe:
		return make(slots16, n)
	case numItems <= 0xfffffffe:
		return make(slots32, n)
	default:
		return make(slots64, n)
	}
}

// tableSize returns the smallest power of two holding numSlotsPerItem
// slots per item.
func tableSize(numItems int) int {
	n := 4
	for n < numItems*numSlotsPerItem {
		n <<= 1
	}
	return n
}

type slots8 []uint8

func (s slots8) numSlots() int       { return len(s) }
func (s slots8) get(i int) uint64    { return uint64(s[i]) }
func (s slots8) set(i int, v uint64) { s[i] = uint8(v) }
func (s slots8) fits(numItems int) bool {
	return numItems <= 0xfe && numItems*numSlotsPerItem <= len(s)
}
func (s slots8) widthBytes() int { return 1 }

type slots16 []uint16

func (s slots16) numSlots() int       { return len(s) }
func (s slots16) get(i int) uint64    { return uint64(s[i]) }
func (s slots16) set(i int, v uint64) { s[i] = uint16(v) }
func (s slots16) fits(numItems int) bool {
	return numItems <= 0xfffe && numItems*numSlotsPerItem <= len(s)
}
func (s slots16) widthBytes() int { return 2 }

type slots32 []uint32

func (s slots32) numSlots() int       { return len(s) }
func (s slots32) get(i int) uint64    { return uint64(s[i]) }
func (s slots32) set(i int, v uint64) { s[i] = uint32(v) }
func (s slots32) fits(numItems int) bool {
	return numItems <= 0xfffffffe && numItems*numSlotsPerItem <= len(s)
}
func (s slots32) widthBytes() int { return 4 }

type slots64 []uint64

func (s slots64) numSlots() int       { return len(s) }
func (s slots64) get(i int) uint64    { return s[i] }
func (s slots64) set(i int, v uint64) { s[i] = v }
func (s slots64) fits(numItems int) bool {
	return numItems*numSlotsPerItem <= len(s)
}
func (s slots64) widthBytes() int { return 8 }

// mutationGuard replaces the table while a VectorMutator is open.
type mutationGuard struct{}

func (mutationGuard) numSlots() int   { return 0 }
func (mutationGuard) get(int) uint64  { return 0 }
func (mutationGuard) set(int, uint64) {}
func (mutationGuard) fits(int) bool   { return false }
func (mutationGuard) widthBytes() int { return 0 }
