package rc

import (
	"bytes"
	"io"

	"github.com/robotalks/rclink/pkg/slip"
)

// Framer delimits raw bytes for transmission.
type Framer interface {
	// Encode writes the frame of raw to dst.
	Encode(dst io.ByteWriter, raw []byte) error
	// Decode writes raw bytes recovered from frame to dst.
	Decode(dst io.ByteWriter, frame []byte) error
}

var defaultFramer Framer = slip.Framer{}

// NewBuffer creates a Buffer for raw bytes: a FixedBuffer if the codec
// uses bounded buffers, a bytes.Buffer otherwise. It can be reused as
// the scratch space of EncodeFrameWith and DecodeFrameWith.
func (c *Codec) NewBuffer() Buffer {
	if c.bounded {
		return &FixedBuffer{}
	}
	return &bytes.Buffer{}
}

// EncodeFrame encodes cmd and writes the frame to out after resetting it.
// It returns the size of the frame.
func (c *Codec) EncodeFrame(cmd Command, out Buffer) (int, error) {
	return c.EncodeFrameWith(cmd, c.NewBuffer(), out)
}

// EncodeFrameWith is EncodeFrame using raw as the scratch space for raw
// bytes. Nothing is allocated when raw and out are reused.
func (c *Codec) EncodeFrameWith(cmd Command, raw, out Buffer) (int, error) {
	if err := c.Encode(cmd, raw); err != nil {
		return 0, err
	}
	out.Reset()
	if err := c.framer.Encode(out, raw.Bytes()); err != nil {
		return 0, err
	}
	return len(out.Bytes()), nil
}

// DecodeFrame recovers raw bytes from frame and decodes the Command.
// Errors from the Framer are returned as *FramingError.
func (c *Codec) DecodeFrame(frame []byte) (Command, error) {
	return c.DecodeFrameWith(frame, c.NewBuffer())
}

// DecodeFrameWith is DecodeFrame using raw as the scratch space for raw bytes.
func (c *Codec) DecodeFrameWith(frame []byte, raw Buffer) (Command, error) {
	raw.Reset()
	if err := c.framer.Decode(raw, frame); err != nil {
		return nil, &FramingError{Err: err}
	}
	return c.Decode(raw.Bytes())
}
