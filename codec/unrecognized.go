package codec

import (
	"encoding/base64"

	"github.com/soialite/soialite/jsontext"
	"github.com/soialite/soialite/wire"
)

// UnrecognizedValues holds values decoded from fields that are not part of
// the schema, in a form that can be re-emitted byte for byte. The values
// are stored as wire bytes; lengths of length-prefixed arrays are kept in
// a side table and re-derived on emission.
type UnrecognizedValues struct {
	bytes        wire.ByteSink
	arrayLengths []uint32
}

// IsEmpty reports whether no values were captured.
func (u *UnrecognizedValues) IsEmpty() bool {
	return u.bytes.Len() == 0
}

// ParseBinary captures one value from src.
func (u *UnrecognizedValues) ParseBinary(src *wire.ByteSource) {
	for numValuesLeft := 1; numValuesLeft > 0 && src.Err() == nil; numValuesLeft-- {
		w := src.ReadByte()
		switch {
		case w <= 231 || w == 242 || w == 244 || w == 255:
			u.bytes.Push(w)
		case w == 232 || w == 236:
			b := src.ReadN(2)
			u.bytes.Push(w)
			u.bytes.Push(b...)
		case w == 233 || w == 237 || w == 240:
			b := src.ReadN(4)
			u.bytes.Push(w)
			u.bytes.Push(b...)
		case w == 234 || w == 238 || w == 239 || w == 241:
			b := src.ReadN(8)
			u.bytes.Push(w)
			u.bytes.Push(b...)
		case w == 235:
			u.bytes.Push(w, src.ReadByte())
		case w == 243 || w == 245:
			start := src.Pos()
			length := wire.ReadLength(src)
			prefix := src.Window(start, src.Pos())
			payload := src.ReadN(length)
			if src.Err() != nil {
				return
			}
			u.bytes.Push(w)
			u.bytes.Push(prefix...)
			u.bytes.Push(payload...)
		case w >= 246 && w <= 249:
			numValuesLeft += int(w - 246)
			u.bytes.Push(w)
		case w == 250:
			length := wire.ReadLength(src)
			numValuesLeft += length
			u.arrayLengths = append(u.arrayLengths, uint32(length))
			u.bytes.Push(w)
		default:
			// 251..254
			numValuesLeft++
			u.bytes.Push(w)
		}
	}
}

// ParseJSON captures one dense JSON value from tok. JSON objects have no
// wire representation without a schema, so they collapse to the default
// byte; this is the one lossy case.
func (u *UnrecognizedValues) ParseJSON(tok *jsontext.Tokenizer) {
	// Indices into arrayLengths of the arrays currently open.
	var openArrays []int
	for {
		if len(openArrays) > 0 {
			u.arrayLengths[openArrays[len(openArrays)-1]]++
		}
		switch tok.Token {
		case jsontext.TokenTrue:
			u.bytes.Push(1)
			tok.Next()
		case jsontext.TokenFalse, jsontext.TokenZero:
			u.bytes.Push(0)
			tok.Next()
		case jsontext.TokenNull:
			u.bytes.Push(255)
			tok.Next()
		case jsontext.TokenUnsignedInt:
			wire.AppendUint64(&u.bytes, tok.Uint)
			tok.Next()
		case jsontext.TokenSignedInt:
			wire.AppendInt64(&u.bytes, tok.Int)
			tok.Next()
		case jsontext.TokenFloat:
			wire.AppendFloat64(&u.bytes, tok.Float)
			tok.Next()
		case jsontext.TokenString:
			wire.AppendString(&u.bytes, tok.Str)
			tok.Next()
		case jsontext.TokenLeftSquare:
			if tok.Next() == jsontext.TokenRightSquare {
				u.bytes.Push(246)
				tok.Next()
				break
			}
			u.bytes.Push(250)
			openArrays = append(openArrays, len(u.arrayLengths))
			u.arrayLengths = append(u.arrayLengths, 0)
			continue
		case jsontext.TokenLeftCurly:
			u.bytes.Push(0)
			jsontext.SkipValue(tok)
		default:
			tok.FailUnexpectedToken("value")
			return
		}
		for len(openArrays) > 0 && tok.Token == jsontext.TokenRightSquare {
			tok.Next()
			openArrays = openArrays[:len(openArrays)-1]
		}
		if len(openArrays) == 0 {
			return
		}
		if tok.Token == jsontext.TokenComma {
			tok.Next()
		} else {
			tok.FailUnexpectedToken("','")
			return
		}
	}
}

// AppendBinary re-emits every captured value.
func (u *UnrecognizedValues) AppendBinary(sink *wire.ByteSink) {
	indexOfArray := 0
	src := wire.NewByteSource(u.bytes.Bytes())
	for src.Remaining() > 0 {
		w := src.ReadByte()
		switch {
		case w <= 231 || w == 242 || w == 244 || w == 255 ||
			(w >= 246 && w <= 249) || (w >= 251 && w <= 254):
			sink.Push(w)
		case w == 232 || w == 236:
			sink.Push(w)
			sink.Push(src.ReadN(2)...)
		case w == 233 || w == 237 || w == 240:
			sink.Push(w)
			sink.Push(src.ReadN(4)...)
		case w == 234 || w == 238 || w == 239 || w == 241:
			sink.Push(w)
			sink.Push(src.ReadN(8)...)
		case w == 235:
			sink.Push(w, src.ReadByte())
		case w == 243 || w == 245:
			start := src.Pos()
			length := wire.ReadLength(src)
			prefix := src.Window(start, src.Pos())
			sink.Push(w)
			sink.Push(prefix...)
			sink.Push(src.ReadN(length)...)
		case w == 250:
			length := int(u.arrayLengths[indexOfArray])
			indexOfArray++
			wire.AppendArrayPrefix(sink, length)
		}
	}
}

// AppendDense re-emits every captured value as dense JSON, separated by
// commas.
func (u *UnrecognizedValues) AppendDense(dst []byte) []byte {
	indexOfArray := 0
	src := wire.NewByteSource(u.bytes.Bytes())
	// Number of items left in each open array.
	var numLeftStack []int
	for {
		if len(numLeftStack) > 0 {
			numLeftStack[len(numLeftStack)-1]--
		}
		if src.Remaining() == 0 {
			break
		}
		w := src.Peek()
		switch {
		case w <= 234:
			dst = jsontext.AppendUint(dst, wire.ReadUint64(src))
		case w >= 235 && w <= 239:
			dst = jsontext.AppendInt(dst, wire.ReadInt64(src))
		case w == 240 || w == 241:
			dst = jsontext.AppendFloat(dst, wire.ReadFloat64(src))
		case w == 242 || w == 244:
			src.ReadByte()
			dst = append(dst, '"', '"')
		case w == 243:
			dst = jsontext.AppendQuoted(dst, wire.ReadString(src))
		case w == 245:
			src.ReadByte()
			length := wire.ReadLength(src)
			dst = append(dst, '"')
			dst = append(dst, base64.StdEncoding.EncodeToString(src.ReadN(length))...)
			dst = append(dst, '"')
		case w >= 246 && w <= 249:
			src.ReadByte()
			numLeftStack = append(numLeftStack, int(w-246))
			dst = append(dst, '[')
		case w == 250:
			src.ReadByte()
			numLeftStack = append(numLeftStack, int(u.arrayLengths[indexOfArray]))
			indexOfArray++
			dst = append(dst, '[')
		case w >= 251 && w <= 254:
			src.ReadByte()
			numLeftStack = append(numLeftStack, 1)
			dst = append(dst, '[')
			dst = jsontext.AppendUint(dst, uint64(w-250))
			dst = append(dst, ',')
		default:
			// 255
			src.ReadByte()
			dst = append(dst, "null"...)
		}
		for len(numLeftStack) > 0 && numLeftStack[len(numLeftStack)-1] == 0 {
			numLeftStack = numLeftStack[:len(numLeftStack)-1]
			dst = append(dst, ']')
		}
		if len(dst) > 0 && dst[len(dst)-1] != '[' && dst[len(dst)-1] != ',' && src.Remaining() > 0 {
			dst = append(dst, ',')
		}
	}
	return dst
}

// UnrecognizedFieldsData preserves the slots of a struct array that came
// after the last field known to the schema. ArrayLen is the length of the
// original array, so re-encoding can reproduce it.
type UnrecognizedFieldsData struct {
	ArrayLen int
	Values   UnrecognizedValues
}

// UnrecognizedEnum preserves an enum field that is not part of the schema.
// Values is nil for constant fields.
type UnrecognizedEnum struct {
	Number int32
	Values *UnrecognizedValues
}

// parseUnrecognizedFieldsBinary handles the tail of a struct array beyond
// the known slots. On the keep policy the tail is captured, otherwise it is
// skipped.
func parseUnrecognizedFieldsBinary(src *wire.ByteSource, arrayLen, numSlots, numSlotsInclRemoved int, cfg *Config) *UnrecognizedFieldsData {
	if arrayLen > numSlotsInclRemoved && cfg.UnrecognizedFields == KeepUnrecognizedFields {
		wire.SkipValues(src, numSlotsInclRemoved-numSlots)
		out := &UnrecognizedFieldsData{ArrayLen: arrayLen}
		for i := numSlotsInclRemoved; i < arrayLen; i++ {
			if src.Err() != nil {
				return out
			}
			out.Values.ParseBinary(src)
		}
		return out
	}
	wire.SkipValues(src, arrayLen-numSlots)
	return nil
}

// parseUnrecognizedFieldsJSON is the dense JSON counterpart. The array
// reader must be positioned on the first slot past the known fields.
func parseUnrecognizedFieldsJSON(reader *jsontext.ArrayReader, numSlots, numSlotsInclRemoved int, cfg *Config) *UnrecognizedFieldsData {
	tok := reader.Tokenizer()
	if cfg.UnrecognizedFields == KeepUnrecognizedFields {
		for i := numSlots; i < numSlotsInclRemoved; i++ {
			jsontext.SkipValue(tok)
			if !reader.Next() {
				return nil
			}
		}
		out := &UnrecognizedFieldsData{ArrayLen: numSlotsInclRemoved}
		for {
			out.Values.ParseJSON(tok)
			out.ArrayLen++
			if !reader.Next() {
				return out
			}
		}
	}
	for {
		jsontext.SkipValue(tok)
		if !reader.Next() {
			return nil
		}
	}
}
