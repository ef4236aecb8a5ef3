package rc

import "io"

// MaxFrameSize is the capacity of a FixedBuffer.
const MaxFrameSize = 32

// Buffer is the output sink for encoding.
// *bytes.Buffer is an unbounded Buffer, FixedBuffer is a bounded one.
type Buffer interface {
	io.ByteWriter
	Reset()
	Bytes() []byte
}

// FixedBuffer is an array backed Buffer which never allocates.
// The zero value has capacity MaxFrameSize.
type FixedBuffer struct {
	data  [MaxFrameSize]byte
	len   int
	limit int
}

// NewFixedBuffer creates a FixedBuffer with a capacity no more than
// MaxFrameSize. 0 means MaxFrameSize.
func NewFixedBuffer(capacity int) *FixedBuffer {
	if capacity < 0 || capacity > MaxFrameSize {
		panic("rc: invalid FixedBuffer capacity")
	}
	return &FixedBuffer{limit: capacity}
}

// Cap returns the capacity.
func (b *FixedBuffer) Cap() int {
	if b.limit == 0 {
		return MaxFrameSize
	}
	return b.limit
}

// Len returns the number of bytes written.
func (b *FixedBuffer) Len() int {
	return b.len
}

// Reset implements Buffer.
func (b *FixedBuffer) Reset() {
	b.len = 0
}

// WriteByte implements io.ByteWriter.
func (b *FixedBuffer) WriteByte(c byte) error {
	if b.len >= b.Cap() {
		return ErrBufferFull
	}
	b.data[b.len] = c
	b.len++
	return nil
}

// Bytes returns the written bytes. The slice aliases the buffer
// and is only valid until the next modification.
func (b *FixedBuffer) Bytes() []byte {
	return b.data[:b.len]
}
