package jsontext

// ArrayReader iterates over the elements of a JSON array. The tokenizer must
// point at the opening bracket when the reader is created.
type ArrayReader struct {
	tok       *Tokenizer
	zeroState bool
}

// NewArrayReader creates a reader over the array at the current token.
func NewArrayReader(tok *Tokenizer) *ArrayReader {
	return &ArrayReader{tok: tok, zeroState: true}
}

// Next advances to the next element. It returns false once the closing
// bracket, or an error, is reached.
func (r *ArrayReader) Next() bool {
	if r.zeroState {
		r.zeroState = false
		if r.tok.Next() == TokenRightSquare {
			r.tok.Next()
			return false
		}
		return r.tok.Token != TokenError && r.tok.Token != TokenEnd
	}
	switch r.tok.Token {
	case TokenComma:
		r.tok.Next()
		return true
	case TokenRightSquare:
		r.tok.Next()
		return false
	default:
		r.tok.FailUnexpectedToken("','")
		return false
	}
}

// Tokenizer returns the underlying tokenizer.
func (r *ArrayReader) Tokenizer() *Tokenizer {
	return r.tok
}

// ObjectReader iterates over the entries of a JSON object. The tokenizer
// must point at the opening brace when the reader is created.
type ObjectReader struct {
	tok       *Tokenizer
	name      string
	zeroState bool
}

// NewObjectReader creates a reader over the object at the current token.
func NewObjectReader(tok *Tokenizer) *ObjectReader {
	return &ObjectReader{tok: tok, zeroState: true}
}

// Name returns the name of the current entry. It is invalidated by the next
// call to Next.
func (r *ObjectReader) Name() string {
	return r.name
}

// Next advances to the next entry, leaving the tokenizer on the entry's
// value. It returns false once the closing brace, or an error, is reached.
func (r *ObjectReader) Next() bool {
	if r.zeroState {
		r.tok.Next()
	}
	switch r.tok.Token {
	case TokenRightCurly:
		r.tok.Next()
		return false
	case TokenComma:
		if r.zeroState {
			r.tok.FailUnexpectedToken("string")
			return false
		}
		r.tok.Next()
	default:
		if !r.zeroState {
			r.tok.FailUnexpectedToken("','")
			return false
		}
		r.zeroState = false
	}
	if r.tok.Token != TokenString {
		r.tok.FailUnexpectedToken("string")
		return false
	}
	r.name = r.tok.Str
	if r.tok.Next() != TokenColon {
		r.tok.FailUnexpectedToken("':'")
		return false
	}
	r.tok.Next()
	return true
}
