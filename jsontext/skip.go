package jsontext

// SkipValue consumes the value at the current token without interpreting
// it, leaving the tokenizer on the token that follows. It works for any
// value shape, which is what makes unknown fields skippable.
func SkipValue(t *Tokenizer) {
	depth := 0
	for {
		switch t.Token {
		case TokenLeftSquare, TokenLeftCurly:
			depth++
		case TokenRightSquare, TokenRightCurly:
			depth--
		case TokenError, TokenEnd:
			return
		}
		t.Next()
		if depth <= 0 {
			return
		}
	}
}
