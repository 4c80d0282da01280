package wire

// ByteSink is a growable output buffer for binary encoding.
type ByteSink struct {
	buf []byte
}

// NewByteSink creates an empty sink.
func NewByteSink() *ByteSink {
	return &ByteSink{buf: make([]byte, 0)}
}

// Prepare makes room for at least n more bytes. Capacity grows by at least
// a factor of two so repeated appends stay amortized constant.
func (s *ByteSink) Prepare(n int) {
	if cap(s.buf)-len(s.buf) >= n {
		return
	}
	grow := cap(s.buf)
	if grow < n {
		grow = n
	}
	next := make([]byte, len(s.buf), cap(s.buf)+grow)
	copy(next, s.buf)
	s.buf = next
}

// Push appends the given bytes.
func (s *ByteSink) Push(b ...byte) {
	s.buf = append(s.buf, b...)
}

// Write appends p, implementing io.Writer.
func (s *ByteSink) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	return len(p), nil
}

// WriteString appends the raw bytes of str.
func (s *ByteSink) WriteString(str string) {
	s.buf = append(s.buf, str...)
}

// Bytes returns the encoded bytes.
func (s *ByteSink) Bytes() []byte {
	return s.buf
}

// Len returns the number of bytes written so far.
func (s *ByteSink) Len() int {
	return len(s.buf)
}

// Reset clears the sink buffer without releasing capacity.
func (s *ByteSink) Reset() {
	s.buf = s.buf[:0]
}
