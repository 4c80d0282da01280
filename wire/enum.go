package wire

// AppendEnumValuePrefix introduces an enum value field with the given
// number. Numbers 1 through 4 have a single-byte form; anything else is
// written as a two-element array holding the number and the value.
func AppendEnumValuePrefix(s *ByteSink, number int32) {
	if 1 <= number && number <= 4 {
		s.Push(byte(250 + number))
		return
	}
	s.Push(wireArray0 + 2)
	AppendInt32(s, number)
}

// ParseEnumPrefix reads the start of an enum value and returns the field
// number and whether a value follows. A bare number is a constant field.
func ParseEnumPrefix(src *ByteSource) (hasValue bool, number int32) {
	w := src.ReadByte()
	if w <= wireInt64 {
		n := readNumberWithWire(src, w)
		switch n.kind {
		case numberInt:
			return false, int32(n.i)
		case numberFloat:
			return false, int32(n.f)
		default:
			return false, int32(n.u)
		}
	}
	switch {
	case w == wireArray0+2:
		return true, ReadInt32(src)
	case w == wireArrayN:
		if ReadLength(src) != 2 {
			src.Fail(ErrInvalidWireByte)
			return false, 0
		}
		return true, ReadInt32(src)
	case w >= wireEnumValue1 && w < wireNull:
		return true, int32(w - 250)
	}
	src.Fail(ErrInvalidWireByte)
	return false, 0
}
