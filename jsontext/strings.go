package jsontext

import (
	"unicode/utf16"
	"unicode/utf8"
)

// scanString scans a string literal starting at the opening quote. Malformed
// UTF-8 in the input is replaced with U+FFFD rather than rejected.
func (t *Tokenizer) scanString() TokenType {
	t.pos++ // opening quote
	var out []byte
	for {
		if t.pos >= len(t.data) {
			t.Fail("error while parsing JSON: unterminated string literal")
			return TokenError
		}
		c := t.data[t.pos]
		if c < 0x80 {
			t.pos++
			switch c {
			case '"':
				t.Str = string(out)
				return TokenString
			case '\\':
				if t.pos >= len(t.data) {
					t.FailAtPosition("escape sequence")
					return TokenError
				}
				esc := t.data[t.pos]
				t.pos++
				switch esc {
				case '"', '\'', '\\', '/':
					out = append(out, esc)
				case 'b':
					out = append(out, '\b')
				case 'f':
					out = append(out, '\f')
				case 'n':
					out = append(out, '\n')
				case 'r':
					out = append(out, '\r')
				case 't':
					out = append(out, '\t')
				case 'u':
					var ok bool
					out, ok = t.scanUnicodeEscape(out)
					if !ok {
						t.Fail("error while parsing JSON: invalid unicode escape sequence")
						return TokenError
					}
				default:
					t.Fail("error while parsing JSON: invalid escape sequence")
					return TokenError
				}
			default:
				out = append(out, c)
			}
		} else {
			r, size := utf8.DecodeRune(t.data[t.pos:])
			t.pos += size
			out = utf8.AppendRune(out, r) // r is U+FFFD when malformed
		}
	}
}

func hexDigit(c byte) (int, bool) {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0'), true
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10, true
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}

func (t *Tokenizer) readHex4() (int, bool) {
	if t.pos+4 > len(t.data) {
		return 0, false
	}
	code := 0
	for i := 0; i < 4; i++ {
		d, ok := hexDigit(t.data[t.pos+i])
		if !ok {
			return 0, false
		}
		code = code<<4 | d
	}
	t.pos += 4
	return code, true
}

// scanUnicodeEscape decodes the four hex digits after "\u", pairing high
// surrogates with the low surrogate that must follow.
func (t *Tokenizer) scanUnicodeEscape(out []byte) ([]byte, bool) {
	code, ok := t.readHex4()
	if !ok {
		return out, false
	}
	r := rune(code)
	if utf16.IsSurrogate(r) {
		if r >= 0xDC00 {
			return out, false // lone low surrogate
		}
		if t.pos+6 > len(t.data) || t.data[t.pos] != '\\' || t.data[t.pos+1] != 'u' {
			return out, false
		}
		t.pos += 2
		lo, ok := t.readHex4()
		if !ok {
			return out, false
		}
		r = utf16.DecodeRune(r, rune(lo))
		if r == utf8.RuneError {
			return out, false
		}
	}
	return utf8.AppendRune(out, r), true
}

const hexDigits = "0123456789abcdef"

// AppendQuoted appends s as a quoted JSON string literal. Control characters
// are escaped and malformed UTF-8 is replaced with U+FFFD.
func AppendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < 0x80 {
			i++
			if c < 0x20 {
				switch c {
				case '\b':
					dst = append(dst, '\\', 'b')
				case '\f':
					dst = append(dst, '\\', 'f')
				case '\n':
					dst = append(dst, '\\', 'n')
				case '\r':
					dst = append(dst, '\\', 'r')
				case '\t':
					dst = append(dst, '\\', 't')
				default:
					dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0x0F])
				}
			} else if c == '"' {
				dst = append(dst, '\\', '"')
			} else if c == '\\' {
				dst = append(dst, '\\', '\\')
			} else {
				dst = append(dst, c)
			}
		} else {
			r, size := utf8.DecodeRuneInString(s[i:])
			i += size
			dst = utf8.AppendRune(dst, r)
		}
	}
	return append(dst, '"')
}
