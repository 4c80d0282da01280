package wire

// ByteSource is a read cursor over binary input. The first error is sticky:
// once a read fails, every later read returns zero values and Err() keeps
// reporting the original failure.
type ByteSource struct {
	buf []byte
	pos int
	err error
}

// NewByteSource creates a source over data.
func NewByteSource(data []byte) *ByteSource {
	return &ByteSource{buf: data}
}

// Err returns the first error encountered, if any.
func (s *ByteSource) Err() error {
	return s.err
}

// Pos returns the current read offset.
func (s *ByteSource) Pos() int {
	return s.pos
}

// Remaining returns the number of unread bytes.
func (s *ByteSource) Remaining() int {
	return len(s.buf) - s.pos
}

// Fail records err as the source's sticky error if none is set yet.
func (s *ByteSource) Fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Window returns the input bytes between two offsets previously obtained
// from Pos.
func (s *ByteSource) Window(from, to int) []byte {
	return s.buf[from:to]
}

// Peek returns the next byte without consuming it.
func (s *ByteSource) Peek() byte {
	if s.err != nil || s.pos >= len(s.buf) {
		return 0
	}
	return s.buf[s.pos]
}

// ReadByte consumes and returns one byte.
func (s *ByteSource) ReadByte() byte {
	if s.err != nil {
		return 0
	}
	if s.pos >= len(s.buf) {
		s.err = ErrUnexpectedEOF
		return 0
	}
	b := s.buf[s.pos]
	s.pos++
	return b
}

// ReadN consumes and returns the next n bytes. The returned slice aliases
// the underlying input.
func (s *ByteSource) ReadN(n int) []byte {
	if s.err != nil {
		return nil
	}
	if n < 0 || s.pos+n > len(s.buf) {
		s.err = ErrUnexpectedEOF
		return nil
	}
	out := s.buf[s.pos : s.pos+n]
	s.pos += n
	return out
}
