package rc

import (
	"bytes"
	"fmt"
	"math"
)

// Codec converts commands to/from raw bytes and frames.
// A Codec is immutable and safe for concurrent use,
// Buffers passed to it are not.
type Codec struct {
	revision Revision
	strict   bool
	bounded  bool
	framer   Framer
}

// Option configures a Codec.
type Option func(*Codec)

// WithStrict rejects bytes following a complete payload.
func WithStrict() Option {
	return func(c *Codec) {
		c.strict = true
	}
}

// WithBoundedBuffers uses FixedBuffer for intermediate raw bytes,
// limiting them to MaxFrameSize.
func WithBoundedBuffers() Option {
	return func(c *Codec) {
		c.bounded = true
	}
}

// WithFramer specifies the Framer used by EncodeFrame/DecodeFrame.
func WithFramer(f Framer) Option {
	return func(c *Codec) {
		if f != nil {
			c.framer = f
		}
	}
}

// New creates a Codec for the revision. SLIP framing is used by default.
func New(rev Revision, opts ...Option) *Codec {
	if !rev.IsValid() {
		panic("rc: invalid revision " + rev.String())
	}
	c := &Codec{revision: rev, framer: defaultFramer}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Revision returns the wire revision.
func (c *Codec) Revision() Revision {
	return c.revision
}

// Strict indicates trailing bytes are rejected.
func (c *Codec) Strict() bool {
	return c.strict
}

// Framer returns the Framer used for frames.
func (c *Codec) Framer() Framer {
	return c.framer
}

// Encode writes raw bytes of cmd to out after resetting it.
// It fails when out is full, cmd is not one of the command value types
// or a Revision1 motor position is invalid.
func (c *Codec) Encode(cmd Command, out Buffer) error {
	out.Reset()
	switch cmd := cmd.(type) {
	case ToggleLed, GetMotionState:
		return out.WriteByte(byte(cmd.Tag()))
	case StartMotor:
		return c.encodeMotor(TagStartMotor, cmd.Motor, out)
	case StopMotor:
		return c.encodeMotor(TagStopMotor, cmd.Motor, out)
	case SendMotionState:
		if err := out.WriteByte(byte(TagSendMotionState)); err != nil {
			return err
		}
		for _, v := range cmd.AngularVelocity {
			if err := writeFloat32(out, v); err != nil {
				return err
			}
		}
		if c.revision == Revision2 {
			var armed byte
			if cmd.Armed {
				armed = 1
			}
			return out.WriteByte(armed)
		}
		return nil
	}
	return fmt.Errorf("%w %T", ErrUnsupportedCommand, cmd)
}

// Marshal encodes cmd into a newly allocated slice.
func (c *Codec) Marshal(cmd Command) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Encode(cmd, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Codec) encodeMotor(tag CommandTag, pos MotorPosition, out Buffer) error {
	if c.revision == Revision1 {
		if pos == 0 {
			pos = All
		}
		if !pos.IsValid() {
			return fmt.Errorf("%w 0x%02x", ErrInvalidMotorTag, pos.Byte())
		}
	}
	if err := out.WriteByte(byte(tag)); err != nil {
		return err
	}
	if c.revision == Revision1 {
		return out.WriteByte(pos.Byte())
	}
	return nil
}

func writeFloat32(out Buffer, v float32) error {
	bits := math.Float32bits(v)
	for shift := 24; shift >= 0; shift -= 8 {
		if err := out.WriteByte(byte(bits >> uint(shift))); err != nil {
			return err
		}
	}
	return nil
}

// Decode parses raw bytes into a Command.
// Nothing is returned on error.
func (c *Codec) Decode(data []byte) (Command, error) {
	r := reader{data: data}
	b, err := r.next()
	if err != nil {
		return nil, err
	}
	cmd, err := CommandFromTag(b)
	if err != nil {
		return nil, err
	}
	switch cmd.(type) {
	case StartMotor:
		pos, err := c.decodeMotor(&r)
		if err != nil {
			return nil, err
		}
		cmd = StartMotor{Motor: pos}
	case StopMotor:
		pos, err := c.decodeMotor(&r)
		if err != nil {
			return nil, err
		}
		cmd = StopMotor{Motor: pos}
	case SendMotionState:
		var state SendMotionState
		for n := range state.AngularVelocity {
			if state.AngularVelocity[n], err = r.float32(); err != nil {
				return nil, err
			}
		}
		if c.revision == Revision2 {
			if state.Armed, err = r.bool(); err != nil {
				return nil, err
			}
		}
		cmd = state
	}
	if c.strict && r.remaining() > 0 {
		return nil, ErrTrailingBytes
	}
	return cmd, nil
}

func (c *Codec) decodeMotor(r *reader) (MotorPosition, error) {
	if c.revision != Revision1 {
		return All, nil
	}
	b, err := r.next()
	if err != nil {
		return 0, err
	}
	return ParseMotorPosition(b)
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) next() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrTruncated
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) float32() (float32, error) {
	var bits uint32
	for i := 0; i < 4; i++ {
		b, err := r.next()
		if err != nil {
			return 0, err
		}
		bits = bits<<8 | uint32(b)
	}
	return math.Float32frombits(bits), nil
}

func (r *reader) bool() (bool, error) {
	b, err := r.next()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, ErrInvalidBoolean
}
