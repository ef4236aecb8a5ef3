package link

import "errors"

var (
	// ErrNoSplitter indicates the Framer of the codec can't split a stream.
	ErrNoSplitter = errors.New("framer doesn't support stream splitting")
)
