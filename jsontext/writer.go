package jsontext

import (
	"math"
	"strconv"
)

// Integers beyond this magnitude lose precision in a JavaScript number, so
// they are written as quoted strings.
const maxSafeInt = 1 << 53

// AppendInt appends v as a JSON number, quoting it when it falls outside
// the safe JavaScript integer range.
func AppendInt(dst []byte, v int64) []byte {
	if -maxSafeInt <= v && v <= maxSafeInt {
		return strconv.AppendInt(dst, v, 10)
	}
	dst = append(dst, '"')
	dst = strconv.AppendInt(dst, v, 10)
	return append(dst, '"')
}

// AppendUint appends v as a JSON number, quoting it when it falls outside
// the safe JavaScript integer range.
func AppendUint(dst []byte, v uint64) []byte {
	if v <= maxSafeInt {
		return strconv.AppendUint(dst, v, 10)
	}
	dst = append(dst, '"')
	dst = strconv.AppendUint(dst, v, 10)
	return append(dst, '"')
}

// AppendFloat appends v as a JSON number. NaN and the infinities have no
// JSON representation and are written as quoted strings.
func AppendFloat(dst []byte, v float64) []byte {
	if math.IsInf(v, 1) {
		return append(dst, `"Infinity"`...)
	}
	if math.IsInf(v, -1) {
		return append(dst, `"-Infinity"`...)
	}
	if math.IsNaN(v) {
		return append(dst, `"NaN"`...)
	}
	return strconv.AppendFloat(dst, v, 'g', -1, 64)
}

// AppendFloat32 is AppendFloat with the shortest form computed at 32-bit
// precision, so float32 values do not pick up float64 conversion noise.
func AppendFloat32(dst []byte, v float32) []byte {
	f := float64(v)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return AppendFloat(dst, f)
	}
	return strconv.AppendFloat(dst, f, 'g', -1, 32)
}

// NewLine tracks the current indentation of readable output. Dereferencing
// yields "\n" followed by two spaces per level.
type NewLine struct {
	s []byte
}

// NewNewLine creates a NewLine at depth zero.
func NewNewLine() *NewLine {
	return &NewLine{s: []byte{'\n'}}
}

// Indent increases the depth and returns the new line break.
func (n *NewLine) Indent() []byte {
	n.s = append(n.s, ' ', ' ')
	return n.s
}

// Dedent decreases the depth and returns the new line break.
func (n *NewLine) Dedent() []byte {
	n.s = n.s[:len(n.s)-2]
	return n.s
}

// Current returns the line break at the current depth.
func (n *NewLine) Current() []byte {
	return n.s
}
