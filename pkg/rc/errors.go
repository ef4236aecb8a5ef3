package rc

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCommandTag indicates the first byte is not a known command.
	ErrInvalidCommandTag = errors.New("invalid command tag")
	// ErrInvalidMotorTag indicates a byte is not a known motor position.
	ErrInvalidMotorTag = errors.New("invalid motor tag")
	// ErrInvalidBoolean indicates a boolean byte other than 0 or 1.
	ErrInvalidBoolean = errors.New("invalid boolean")
	// ErrTruncated indicates the input ended before the payload was complete.
	ErrTruncated = errors.New("truncated")
	// ErrBufferFull indicates a fixed-capacity buffer can't take more bytes.
	ErrBufferFull = errors.New("buffer full")
	// ErrTrailingBytes is reported by strict codecs when bytes follow
	// a complete payload.
	ErrTrailingBytes = errors.New("trailing bytes")
	// ErrUnsupportedCommand indicates a Command which is not one of the
	// command value types, e.g. a pointer to StartMotor.
	ErrUnsupportedCommand = errors.New("unsupported command")
)

// FramingError wraps errors from the Framer.
type FramingError struct {
	Err error
}

// Error implements error.
func (e *FramingError) Error() string {
	return fmt.Sprintf("framing error: %v", e.Err)
}

// Unwrap returns the error from the Framer.
func (e *FramingError) Unwrap() error {
	return e.Err
}
