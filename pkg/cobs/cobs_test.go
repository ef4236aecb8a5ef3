package cobs

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func seq(n int, start byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = start + byte(i%254)
	}
	return b
}

func TestEncode(t *testing.T) {
	long := seq(254, 1)
	testCases := []struct {
		name   string
		raw    []byte
		expect []byte
	}{
		{"empty", nil, []byte{0x01, 0x00}},
		{"zero", []byte{0x00}, []byte{0x01, 0x01, 0x00}},
		{"two zeros", []byte{0x00, 0x00}, []byte{0x01, 0x01, 0x01, 0x00}},
		{"plain", []byte{0x11, 0x22}, []byte{0x03, 0x11, 0x22, 0x00}},
		{"zero inside", []byte{0x11, 0x00, 0x22}, []byte{0x02, 0x11, 0x02, 0x22, 0x00}},
		{"trailing zero", []byte{0x11, 0x22, 0x00}, []byte{0x03, 0x11, 0x22, 0x01, 0x00}},
		{"full block", long, append(append([]byte{0xff}, long...), 0x00)},
		{"full block and zero", append(append([]byte(nil), long...), 0x00),
			append(append([]byte{0xff}, long...), 0x01, 0x01, 0x00)},
		{"full block and more", append(append([]byte(nil), long...), 0x33),
			append(append([]byte{0xff}, long...), 0x02, 0x33, 0x00)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, tc.raw))
			require.Equal(t, tc.expect, buf.Bytes())
			require.Equal(t, -1, bytes.IndexByte(buf.Bytes()[:buf.Len()-1], Delimiter))

			var decoded bytes.Buffer
			require.NoError(t, Decode(&decoded, buf.Bytes()))
			require.Equal(t, len(tc.raw), decoded.Len())
			if len(tc.raw) > 0 {
				require.Equal(t, tc.raw, decoded.Bytes())
			}
		})
	}
}

func TestDecode(t *testing.T) {
	testCases := []struct {
		name   string
		frame  []byte
		expect []byte
		err    error
	}{
		{"simple", []byte{0x03, 0x11, 0x22}, []byte{0x11, 0x22}, nil},
		{"with zero", []byte{0x02, 0x11, 0x02, 0x22}, []byte{0x11, 0x00, 0x22}, nil},
		{"delimited", []byte{0x02, 0x11, 0x02, 0x22, 0x00}, []byte{0x11, 0x00, 0x22}, nil},
		{"invalid code", []byte{0x00, 0x01}, nil, ErrInvalidCode},
		{"zero in block", []byte{0x03, 0x00, 0x01}, nil, ErrInvalidCode},
		{"truncated", []byte{0x04, 0x11, 0x22}, nil, ErrTruncated},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Decode(&buf, tc.frame)
			require.Equal(t, tc.err, err)
			if err == nil {
				require.Equal(t, tc.expect, buf.Bytes())
			}
		})
	}
}

func TestScanFrames(t *testing.T) {
	var stream bytes.Buffer
	require.NoError(t, Encode(&stream, []byte{0x01}))
	stream.WriteByte(Delimiter)
	require.NoError(t, Encode(&stream, []byte{0x15, 0x00, 0x00}))
	stream.Write([]byte{0x02, 0x14})

	scanner := bufio.NewScanner(&stream)
	scanner.Split(ScanFrames)
	var frames [][]byte
	for scanner.Scan() {
		frames = append(frames, append([]byte(nil), scanner.Bytes()...))
	}
	require.NoError(t, scanner.Err())
	require.Equal(t, [][]byte{
		{0x02, 0x01},
		{0x02, 0x15, 0x01, 0x01},
		{0x02, 0x14},
	}, frames)
}
