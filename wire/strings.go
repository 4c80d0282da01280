package wire

import (
	"encoding/base64"
	"strings"
)

// AppendString appends str with a length prefix. Malformed UTF-8 is
// replaced with U+FFFD so the payload is always valid UTF-8.
func AppendString(s *ByteSink, str string) {
	if str == "" {
		s.Push(wireEmptyString)
		return
	}
	str = strings.ToValidUTF8(str, "�")
	s.Push(wireString)
	AppendLengthPrefix(s, len(str))
	s.WriteString(str)
}

// AppendBytes appends raw bytes with a length prefix.
func AppendBytes(s *ByteSink, b []byte) {
	if len(b) == 0 {
		s.Push(wireEmptyBytes)
		return
	}
	s.Push(wireBytes)
	AppendLengthPrefix(s, len(b))
	s.Push(b...)
}

// ReadString decodes a string value. The default byte and the empty-string
// wire byte both decode to "".
func ReadString(src *ByteSource) string {
	w := src.ReadByte()
	switch w {
	case 0, wireEmptyString:
		return ""
	case wireString:
		n := ReadLength(src)
		b := src.ReadN(n)
		if b == nil {
			return ""
		}
		return strings.ToValidUTF8(string(b), "�")
	default:
		src.Fail(ErrInvalidWireByte)
		return ""
	}
}

// ReadBytesValue decodes a bytes value. A string wire value is accepted as
// the Base64 form of the payload, which is how bytes survive a round trip
// through unrecognized JSON data.
func ReadBytesValue(src *ByteSource) []byte {
	w := src.ReadByte()
	switch w {
	case 0, wireEmptyString, wireEmptyBytes:
		return nil
	case wireBytes:
		n := ReadLength(src)
		b := src.ReadN(n)
		if b == nil {
			return nil
		}
		out := make([]byte, n)
		copy(out, b)
		return out
	case wireString:
		n := ReadLength(src)
		b := src.ReadN(n)
		if b == nil {
			return nil
		}
		out, err := base64.StdEncoding.DecodeString(string(b))
		if err != nil {
			src.Fail(ErrInvalidWireByte)
			return nil
		}
		return out
	default:
		src.Fail(ErrInvalidWireByte)
		return nil
	}
}
