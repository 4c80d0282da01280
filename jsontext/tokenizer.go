// Package jsontext implements the JSON scanner and printer underlying both
// the dense and readable flavors.
package jsontext

import (
	"errors"
	"fmt"
	"strconv"
)

// TokenType identifies the token the tokenizer currently points at.
type TokenType int

const (
	TokenError TokenType = iota
	TokenTrue
	TokenFalse
	TokenNull
	TokenZero // the literal 0, the default for every numeric type
	TokenUnsignedInt
	TokenSignedInt
	TokenFloat
	TokenString
	TokenLeftSquare
	TokenRightSquare
	TokenLeftCurly
	TokenRightCurly
	TokenComma
	TokenColon
	TokenEnd
)

func (t TokenType) String() string {
	switch t {
	case TokenError:
		return "ERROR"
	case TokenTrue:
		return "true"
	case TokenFalse:
		return "false"
	case TokenNull:
		return "null"
	case TokenZero, TokenUnsignedInt, TokenSignedInt, TokenFloat:
		return "number"
	case TokenString:
		return "string"
	case TokenLeftSquare:
		return "'['"
	case TokenRightSquare:
		return "']'"
	case TokenLeftCurly:
		return "'{'"
	case TokenRightCurly:
		return "'}'"
	case TokenComma:
		return "','"
	case TokenColon:
		return "':'"
	case TokenEnd:
		return "end"
	}
	return "ERROR"
}

// Tokenizer scans a JSON document one token at a time. The first error is
// sticky: once the scan fails, the token stays TokenError and Err() keeps
// reporting the original failure.
type Tokenizer struct {
	data []byte
	pos  int

	// Token is the token the tokenizer currently points at. The Uint, Int,
	// Float and Str fields hold its payload, depending on the type.
	Token TokenType
	Uint  uint64
	Int   int64
	Float float64
	Str   string

	err error
}

// NewTokenizer creates a tokenizer over data and advances it to the first
// token.
func NewTokenizer(data []byte) *Tokenizer {
	t := &Tokenizer{data: data}
	t.Next()
	return t
}

// Err returns the first error encountered, if any.
func (t *Tokenizer) Err() error {
	return t.err
}

// Fail records an error. Only the first error is kept.
func (t *Tokenizer) Fail(message string) {
	if t.err == nil {
		t.err = errors.New(message)
		t.Token = TokenError
	}
}

// FailAtPosition records an error pointing at the current scan offset.
func (t *Tokenizer) FailAtPosition(expected string) {
	t.Fail(fmt.Sprintf("error while parsing JSON at position %d: expected: %s", t.pos, expected))
}

// FailUnexpectedToken records an error naming the current token.
func (t *Tokenizer) FailUnexpectedToken(expected string) {
	t.Fail(fmt.Sprintf("error while parsing JSON: expected: %s; found: %s", expected, t.Token))
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// Next advances to the next token and returns its type.
func (t *Tokenizer) Next() TokenType {
	if t.err != nil {
		t.Token = TokenError
		return TokenError
	}
	for {
		if t.pos >= len(t.data) {
			t.Token = TokenEnd
			return TokenEnd
		}
		c := t.data[t.pos]
		switch c {
		case ' ', '\t', '\n', '\r':
			t.pos++
			continue
		case '[':
			t.pos++
			t.Token = TokenLeftSquare
		case ']':
			t.pos++
			t.Token = TokenRightSquare
		case '{':
			t.pos++
			t.Token = TokenLeftCurly
		case '}':
			t.pos++
			t.Token = TokenRightCurly
		case ',':
			t.pos++
			t.Token = TokenComma
		case ':':
			t.pos++
			t.Token = TokenColon
		case 't':
			if t.pos+4 > len(t.data) || string(t.data[t.pos:t.pos+4]) != "true" {
				t.FailAtPosition("JSON token")
				return TokenError
			}
			t.pos += 4
			t.Token = TokenTrue
		case 'f':
			if t.pos+5 > len(t.data) || string(t.data[t.pos:t.pos+5]) != "false" {
				t.FailAtPosition("JSON token")
				return TokenError
			}
			t.pos += 5
			t.Token = TokenFalse
		case 'n':
			if t.pos+4 > len(t.data) || string(t.data[t.pos:t.pos+4]) != "null" {
				t.FailAtPosition("JSON token")
				return TokenError
			}
			t.pos += 4
			t.Token = TokenNull
		case '"':
			t.Token = t.scanString()
		default:
			if c == '-' || isDigit(c) {
				t.Token = t.scanNumber()
			} else {
				t.FailAtPosition("JSON token")
				return TokenError
			}
		}
		return t.Token
	}
}

// scanNumber scans an integer or float starting at the current offset.
func (t *Tokenizer) scanNumber() TokenType {
	start := t.pos
	negative := false
	if t.data[t.pos] == '-' {
		negative = true
		t.pos++
		if t.pos >= len(t.data) || !isDigit(t.data[t.pos]) {
			t.FailAtPosition("digit")
			return TokenError
		}
	}
	var integral uint64
	for t.pos < len(t.data) && isDigit(t.data[t.pos]) {
		integral = integral*10 + uint64(t.data[t.pos]-'0')
		t.pos++
	}
	isFloat := false
	if t.pos < len(t.data) && t.data[t.pos] == '.' {
		t.pos++
		if t.pos >= len(t.data) || !isDigit(t.data[t.pos]) {
			t.FailAtPosition("digit")
			return TokenError
		}
		for t.pos < len(t.data) && isDigit(t.data[t.pos]) {
			t.pos++
		}
		isFloat = true
	}
	if t.pos < len(t.data) && (t.data[t.pos] == 'e' || t.data[t.pos] == 'E') {
		t.pos++
		if t.pos < len(t.data) && (t.data[t.pos] == '+' || t.data[t.pos] == '-') {
			t.pos++
		}
		if t.pos >= len(t.data) || !isDigit(t.data[t.pos]) {
			t.FailAtPosition("digit")
			return TokenError
		}
		for t.pos < len(t.data) && isDigit(t.data[t.pos]) {
			t.pos++
		}
		isFloat = true
	}
	if isFloat {
		f, err := strconv.ParseFloat(string(t.data[start:t.pos]), 64)
		if err != nil {
			t.FailAtPosition("number")
			return TokenError
		}
		t.Float = f
		return TokenFloat
	}
	if integral == 0 {
		return TokenZero
	}
	if negative {
		t.Int = -int64(integral)
		return TokenSignedInt
	}
	t.Uint = integral
	return TokenUnsignedInt
}
