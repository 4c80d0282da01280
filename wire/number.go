package wire

import (
	"encoding/binary"
	"math"
)

// Wire bytes 0-231 hold small unsigned integers inline. Larger numbers are
// introduced by one of the bytes below, followed by a little-endian payload.
const (
	wireUint16      = 232
	wireUint32      = 233
	wireUint64      = 234
	wireIntMinus256 = 235 // int8 payload, value = payload - 256
	wireIntMinus64K = 236 // uint16 payload, value = payload - 65536
	wireInt32       = 237
	wireInt64       = 238
	wireTimestamp   = 239 // int64 payload, milliseconds since epoch
	wireFloat32     = 240
	wireFloat64     = 241
	wireEmptyString = 242
	wireString      = 243
	wireEmptyBytes  = 244
	wireBytes       = 245
	wireArray0      = 246 // 246..249: array of length wireByte - 246
	wireArrayN      = 250 // length prefix follows
	wireEnumValue1  = 251 // 251..254: enum value field, number = wireByte - 250
	wireNull        = 255
)

// AppendUint64 appends v using the smallest unsigned encoding.
func AppendUint64(s *ByteSink, v uint64) {
	switch {
	case v < wireUint16:
		s.Push(byte(v))
	case v < 1<<16:
		s.Push(wireUint16, byte(v), byte(v>>8))
	case v < 1<<32:
		s.Push(wireUint32)
		s.buf = binary.LittleEndian.AppendUint32(s.buf, uint32(v))
	default:
		s.Push(wireUint64)
		s.buf = binary.LittleEndian.AppendUint64(s.buf, v)
	}
}

// AppendInt64 appends v using the smallest signed encoding. Non-negative
// values below 2^32 reuse the unsigned forms; larger ones take the int64
// tag even though they would fit the uint64 form.
func AppendInt64(s *ByteSink, v int64) {
	switch {
	case v >= 0 && v < 1<<32:
		AppendUint64(s, uint64(v))
	case v >= 1<<32:
		s.Push(wireInt64)
		s.buf = binary.LittleEndian.AppendUint64(s.buf, uint64(v))
	case v >= -256:
		s.Push(wireIntMinus256, byte(v+256))
	case v >= -65536:
		u := uint16(v + 65536)
		s.Push(wireIntMinus64K, byte(u), byte(u>>8))
	case v >= math.MinInt32:
		s.Push(wireInt32)
		s.buf = binary.LittleEndian.AppendUint32(s.buf, uint32(int32(v)))
	default:
		s.Push(wireInt64)
		s.buf = binary.LittleEndian.AppendUint64(s.buf, uint64(v))
	}
}

// AppendInt32 appends v using the smallest signed encoding.
func AppendInt32(s *ByteSink, v int32) {
	AppendInt64(s, int64(v))
}

// AppendFloat32 appends v. Zero collapses to the default byte.
func AppendFloat32(s *ByteSink, v float32) {
	if v == 0 {
		s.Push(0)
		return
	}
	s.Push(wireFloat32)
	s.buf = binary.LittleEndian.AppendUint32(s.buf, math.Float32bits(v))
}

// AppendFloat64 appends v. Zero collapses to the default byte.
func AppendFloat64(s *ByteSink, v float64) {
	if v == 0 {
		s.Push(0)
		return
	}
	s.Push(wireFloat64)
	s.buf = binary.LittleEndian.AppendUint64(s.buf, math.Float64bits(v))
}

// AppendTimestampMillis appends a timestamp as milliseconds since epoch.
// The epoch itself collapses to the default byte.
func AppendTimestampMillis(s *ByteSink, millis int64) {
	if millis == 0 {
		s.Push(0)
		return
	}
	s.Push(wireTimestamp)
	s.buf = binary.LittleEndian.AppendUint64(s.buf, uint64(millis))
}

// AppendLengthPrefix appends a string/bytes/array length. Lengths must fit
// in 32 bits; anything larger is a contract violation.
func AppendLengthPrefix(s *ByteSink, n int) {
	switch {
	case n < 0 || uint64(n) >= 1<<32:
		panic(ErrLengthOverflow)
	case n < wireUint16:
		s.Push(byte(n))
	case n < 1<<16:
		s.Push(wireUint16, byte(n), byte(n>>8))
	default:
		s.Push(wireUint32)
		s.buf = binary.LittleEndian.AppendUint32(s.buf, uint32(n))
	}
}

// AppendArrayPrefix appends the wire byte introducing an array of n items.
func AppendArrayPrefix(s *ByteSink, n int) {
	if n < 4 {
		s.Push(wireArray0 + byte(n))
		return
	}
	s.Push(wireArrayN)
	AppendLengthPrefix(s, n)
}

type numberKind int

const (
	numberUint numberKind = iota
	numberInt
	numberFloat
)

// decodedNumber is the payload of a numeric wire value, before casting to
// the field's declared type.
type decodedNumber struct {
	kind numberKind
	u    uint64
	i    int64
	f    float64
}

func readNumber(src *ByteSource) decodedNumber {
	return readNumberWithWire(src, src.ReadByte())
}

func readNumberWithWire(src *ByteSource, w byte) decodedNumber {
	switch {
	case w <= 231:
		return decodedNumber{kind: numberUint, u: uint64(w)}
	case w == wireUint16:
		b := src.ReadN(2)
		if b == nil {
			return decodedNumber{}
		}
		return decodedNumber{kind: numberUint, u: uint64(binary.LittleEndian.Uint16(b))}
	case w == wireUint32:
		b := src.ReadN(4)
		if b == nil {
			return decodedNumber{}
		}
		return decodedNumber{kind: numberUint, u: uint64(binary.LittleEndian.Uint32(b))}
	case w == wireUint64:
		b := src.ReadN(8)
		if b == nil {
			return decodedNumber{}
		}
		return decodedNumber{kind: numberUint, u: binary.LittleEndian.Uint64(b)}
	case w == wireIntMinus256:
		b := src.ReadByte()
		if src.err != nil {
			return decodedNumber{}
		}
		return decodedNumber{kind: numberInt, i: int64(b) - 256}
	case w == wireIntMinus64K:
		b := src.ReadN(2)
		if b == nil {
			return decodedNumber{}
		}
		return decodedNumber{kind: numberInt, i: int64(binary.LittleEndian.Uint16(b)) - 65536}
	case w == wireInt32:
		b := src.ReadN(4)
		if b == nil {
			return decodedNumber{}
		}
		return decodedNumber{kind: numberInt, i: int64(int32(binary.LittleEndian.Uint32(b)))}
	case w == wireInt64, w == wireTimestamp:
		b := src.ReadN(8)
		if b == nil {
			return decodedNumber{}
		}
		return decodedNumber{kind: numberInt, i: int64(binary.LittleEndian.Uint64(b))}
	case w == wireFloat32:
		b := src.ReadN(4)
		if b == nil {
			return decodedNumber{}
		}
		return decodedNumber{kind: numberFloat, f: float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))}
	case w == wireFloat64:
		b := src.ReadN(8)
		if b == nil {
			return decodedNumber{}
		}
		return decodedNumber{kind: numberFloat, f: math.Float64frombits(binary.LittleEndian.Uint64(b))}
	default:
		src.Fail(ErrInvalidWireByte)
		return decodedNumber{}
	}
}

// ReadUint64 decodes a numeric value and casts it to uint64.
func ReadUint64(src *ByteSource) uint64 {
	n := readNumber(src)
	switch n.kind {
	case numberInt:
		return uint64(n.i)
	case numberFloat:
		return uint64(n.f)
	default:
		return n.u
	}
}

// ReadInt64 decodes a numeric value and casts it to int64.
func ReadInt64(src *ByteSource) int64 {
	n := readNumber(src)
	switch n.kind {
	case numberInt:
		return n.i
	case numberFloat:
		return int64(n.f)
	default:
		return int64(n.u)
	}
}

// ReadInt32 decodes a numeric value and casts it to int32.
func ReadInt32(src *ByteSource) int32 {
	return int32(ReadInt64(src))
}

// ReadFloat64 decodes a numeric value and casts it to float64.
func ReadFloat64(src *ByteSource) float64 {
	n := readNumber(src)
	switch n.kind {
	case numberInt:
		return float64(n.i)
	case numberFloat:
		return n.f
	default:
		return float64(n.u)
	}
}

// ReadFloat32 decodes a numeric value and casts it to float32.
func ReadFloat32(src *ByteSource) float32 {
	return float32(ReadFloat64(src))
}

// ReadBool decodes a numeric value; anything nonzero is true.
func ReadBool(src *ByteSource) bool {
	n := readNumber(src)
	switch n.kind {
	case numberInt:
		return n.i != 0
	case numberFloat:
		return n.f != 0
	default:
		return n.u != 0
	}
}

// ReadLength decodes a string/bytes/array length prefix.
func ReadLength(src *ByteSource) int {
	w := src.ReadByte()
	switch {
	case w < wireUint16:
		return int(w)
	case w == wireUint16:
		b := src.ReadN(2)
		if b == nil {
			return 0
		}
		return int(binary.LittleEndian.Uint16(b))
	case w == wireUint32:
		b := src.ReadN(4)
		if b == nil {
			return 0
		}
		return int(binary.LittleEndian.Uint32(b))
	default:
		src.Fail(ErrInvalidWireByte)
		return 0
	}
}

// ReadArrayPrefix decodes the wire byte introducing an array and returns
// the number of items.
func ReadArrayPrefix(src *ByteSource) int {
	w := src.ReadByte()
	switch {
	case w == 0:
		return 0
	case w >= wireArray0 && w < wireArrayN:
		return int(w - wireArray0)
	case w == wireArrayN:
		return ReadLength(src)
	default:
		src.Fail(ErrInvalidWireByte)
		return 0
	}
}
