package wire

// SkipValue consumes the value at the cursor without interpreting it. The
// wire byte alone determines how many payload bytes and nested values
// follow, so any value can be skipped without its schema.
func SkipValue(src *ByteSource) {
	SkipValues(src, 1)
}

// SkipValues consumes n consecutive values.
func SkipValues(src *ByteSource, n int) {
	for numValuesLeft := n; numValuesLeft > 0 && src.err == nil; numValuesLeft-- {
		w := src.ReadByte()
		switch {
		case w <= 231:
		case w == wireUint16, w == wireIntMinus64K:
			src.ReadN(2)
		case w == wireUint32, w == wireInt32, w == wireFloat32:
			src.ReadN(4)
		case w == wireUint64, w == wireInt64, w == wireTimestamp, w == wireFloat64:
			src.ReadN(8)
		case w == wireIntMinus256:
			src.ReadN(1)
		case w == wireString, w == wireBytes:
			src.ReadN(ReadLength(src))
		case w == wireEmptyString, w == wireEmptyBytes, w == wireNull:
		case w < wireArrayN:
			// 246..249
			numValuesLeft += int(w - wireArray0)
		case w == wireArrayN:
			numValuesLeft += ReadLength(src)
		default:
			// 251..254
			numValuesLeft++
		}
	}
}
