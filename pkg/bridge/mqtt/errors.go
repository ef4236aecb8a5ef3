package mqtt

import "errors"

var (
	// ErrTimeout indicates the broker didn't acknowledge in time.
	ErrTimeout = errors.New("mqtt timeout")
)
