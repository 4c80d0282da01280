package wire

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnexpectedEOF is raised when the input ends in the middle of a value.
	ErrUnexpectedEOF = errors.New("unexpected end of input")
	// ErrInvalidWireByte is raised when a wire byte cannot introduce a value
	// of the expected shape.
	ErrInvalidWireByte = errors.New("invalid wire byte")
	// ErrLengthOverflow is raised when a length does not fit in 32 bits.
	ErrLengthOverflow = errors.New("length exceeds uint32 range")
	// ErrMissingPrefix is raised when binary input lacks the "soia" prefix.
	ErrMissingPrefix = errors.New("missing soia prefix")
)

// FieldError represents an encoding/decoding error with a field path.
type FieldError struct {
	FieldPath []string // e.g., ["owner", "car", "purchase_time"]
	Err       error    // underlying error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if len(e.FieldPath) == 0 {
		return e.Err.Error()
	}

	return fmt.Sprintf("error at field path %s: %v", strings.Join(e.FieldPath, "."), e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for compatibility.
func (e *FieldError) Is(target error) bool {
	_, ok := target.(*FieldError)
	return ok
}

// WrapWithField wraps an error with a field name.
func WrapWithField(err error, fieldName string) error {
	if err == nil {
		return nil
	}

	if fe, ok := err.(*FieldError); ok {
		return &FieldError{
			FieldPath: append([]string{fieldName}, fe.FieldPath...),
			Err:       fe.Err,
		}
	}

	return &FieldError{
		FieldPath: []string{fieldName},
		Err:       err,
	}
}
