package rc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rclink/pkg/cobs"
	"github.com/robotalks/rclink/pkg/slip"
)

// xorFramer has escaping rules unrelated to SLIP/COBS.
type xorFramer struct{}

var errNoMarker = errors.New("missing marker")

func (xorFramer) Encode(dst io.ByteWriter, raw []byte) error {
	if err := dst.WriteByte(0x7e); err != nil {
		return err
	}
	for _, b := range raw {
		if err := dst.WriteByte(b ^ 0x55); err != nil {
			return err
		}
	}
	return nil
}

func (xorFramer) Decode(dst io.ByteWriter, frame []byte) error {
	if len(frame) == 0 || frame[0] != 0x7e {
		return errNoMarker
	}
	for _, b := range frame[1:] {
		if err := dst.WriteByte(b ^ 0x55); err != nil {
			return err
		}
	}
	return nil
}

func TestFrameRoundTrip(t *testing.T) {
	framers := map[string]Framer{
		"slip": slip.Framer{},
		"cobs": cobs.Framer{},
		"xor":  xorFramer{},
	}
	escapes := SendMotionState{AngularVelocity: Vector3{
		math.Float32frombits(0xc0dbc0db),
		math.Float32frombits(0xdbdcdd00),
		math.Float32frombits(0x00c00000),
	}, Armed: true}
	for name, framer := range framers {
		for _, rev := range []Revision{Revision1, Revision2} {
			for _, bounded := range []bool{false, true} {
				opts := []Option{WithFramer(framer)}
				if bounded {
					opts = append(opts, WithBoundedBuffers())
				}
				codec := New(rev, opts...)
				cmds := commandsOf(rev)
				if rev == Revision2 {
					cmds = append(cmds, escapes)
				}
				for _, cmd := range cmds {
					t.Run(fmt.Sprintf("%s %s bounded=%v %#v", name, rev, bounded, cmd), func(t *testing.T) {
						var frame FixedBuffer
						n, err := codec.EncodeFrame(cmd, &frame)
						require.NoError(t, err)
						require.Equal(t, frame.Len(), n)
						decoded, err := codec.DecodeFrame(frame.Bytes())
						require.NoError(t, err)
						require.Equal(t, cmd, decoded)
					})
				}
			}
		}
	}
}

func TestEncodeFrameSLIP(t *testing.T) {
	codec := New(Revision1)
	var buf bytes.Buffer
	n, err := codec.EncodeFrame(StartMotor{Motor: FrontLeft}, &buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []byte{slip.End, 0x0a, 0x01, slip.End}, buf.Bytes())

	cmd := SendMotionState{AngularVelocity: Vector3{-2, 0, 0}}
	n, err = codec.EncodeFrame(cmd, &buf)
	require.NoError(t, err)
	require.Equal(t, []byte{
		slip.End, 0x15,
		slip.Esc, slip.EscEnd, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		slip.End,
	}, buf.Bytes())
	require.Equal(t, 16, n)
}

func TestEncodeFrameBufferFull(t *testing.T) {
	codec := New(Revision2, WithBoundedBuffers())
	_, err := codec.EncodeFrame(SendMotionState{}, NewFixedBuffer(8))
	require.True(t, errors.Is(err, ErrBufferFull))
}

func TestDecodeFrameErrors(t *testing.T) {
	codec := New(Revision1)
	testCases := []struct {
		name     string
		frame    []byte
		framing  error
		codecErr error
	}{
		{"invalid escape", []byte{slip.End, 0x01, slip.Esc, 0x01, slip.End}, slip.ErrInvalidEscape, nil},
		{"unterminated escape", []byte{slip.End, 0x01, slip.Esc}, slip.ErrUnterminatedEscape, nil},
		{"end inside", []byte{0x01, slip.End, 0x01}, slip.ErrUnexpectedEnd, nil},
		{"empty", []byte{slip.End, slip.End}, nil, ErrTruncated},
		{"invalid tag", []byte{slip.End, 0x02, slip.End}, nil, ErrInvalidCommandTag},
		{"truncated", []byte{slip.End, 0x0b, slip.End}, nil, ErrTruncated},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := codec.DecodeFrame(tc.frame)
			require.Nil(t, cmd)
			require.Error(t, err)
			var framingErr *FramingError
			if tc.framing != nil {
				require.True(t, errors.As(err, &framingErr))
				require.Equal(t, tc.framing, framingErr.Err)
				require.True(t, errors.Is(err, tc.framing))
			} else {
				require.False(t, errors.As(err, &framingErr))
				require.True(t, errors.Is(err, tc.codecErr))
			}
		})
	}
}

func TestDecodeFrameCustomFramerError(t *testing.T) {
	codec := New(Revision2, WithFramer(xorFramer{}))
	_, err := codec.DecodeFrame([]byte{0x01})
	require.True(t, errors.Is(err, errNoMarker))
	require.Equal(t, "framing error: missing marker", err.Error())
}

func TestDecodeFrameBounded(t *testing.T) {
	codec := New(Revision1, WithBoundedBuffers(), WithFramer(cobs.Framer{}))
	frame := make([]byte, 0, 40)
	frame = append(frame, 40)
	for i := 0; i < 39; i++ {
		frame = append(frame, 0x01)
	}
	_, err := codec.DecodeFrame(frame)
	require.True(t, errors.Is(err, ErrBufferFull))
	var framingErr *FramingError
	require.True(t, errors.As(err, &framingErr))
}

func TestFrameWithReusedBuffers(t *testing.T) {
	codec := New(Revision2, WithBoundedBuffers())
	raw, out := codec.NewBuffer(), codec.NewBuffer()
	require.IsType(t, &FixedBuffer{}, raw)

	cmds := []Command{
		SendMotionState{AngularVelocity: Vector3{1, -2, 0.5}, Armed: true},
		ToggleLed{},
		StopMotor{Motor: All},
	}
	for _, cmd := range cmds {
		_, err := codec.EncodeFrameWith(cmd, raw, out)
		require.NoError(t, err)
		frame := append([]byte(nil), out.Bytes()...)
		// raw still holds the encoded bytes, decoding must reset it.
		decoded, err := codec.DecodeFrameWith(frame, raw)
		require.NoError(t, err)
		require.Equal(t, cmd, decoded)
	}

	cmd := Command(SendMotionState{AngularVelocity: Vector3{0, 0, 1}})
	allocs := testing.AllocsPerRun(100, func() {
		if _, err := codec.EncodeFrameWith(cmd, raw, out); err != nil {
			t.Fatal(err)
		}
	})
	require.Zero(t, allocs)
}
