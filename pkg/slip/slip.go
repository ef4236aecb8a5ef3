// Package slip implements SLIP framing.
package slip

import (
	"bytes"
	"errors"
	"io"
)

// Special bytes.
const (
	End    byte = 0xC0
	Esc    byte = 0xDB
	EscEnd byte = 0xDC
	EscEsc byte = 0xDD
)

var (
	// ErrInvalidEscape indicates Esc is followed by neither EscEnd nor EscEsc.
	ErrInvalidEscape = errors.New("slip: invalid escape sequence")
	// ErrUnterminatedEscape indicates the frame ends with Esc.
	ErrUnterminatedEscape = errors.New("slip: unterminated escape sequence")
	// ErrUnexpectedEnd indicates End inside a frame.
	ErrUnexpectedEnd = errors.New("slip: unexpected END in frame")
)

// Encode writes raw wrapped by End with special bytes escaped.
func Encode(dst io.ByteWriter, raw []byte) error {
	if err := dst.WriteByte(End); err != nil {
		return err
	}
	for _, b := range raw {
		var err error
		switch b {
		case End:
			if err = dst.WriteByte(Esc); err == nil {
				err = dst.WriteByte(EscEnd)
			}
		case Esc:
			if err = dst.WriteByte(Esc); err == nil {
				err = dst.WriteByte(EscEsc)
			}
		default:
			err = dst.WriteByte(b)
		}
		if err != nil {
			return err
		}
	}
	return dst.WriteByte(End)
}

// Decode unescapes a frame. Leading and trailing End bytes are optional.
func Decode(dst io.ByteWriter, frame []byte) error {
	start, end := 0, len(frame)
	for start < end && frame[start] == End {
		start++
	}
	for end > start && frame[end-1] == End {
		end--
	}
	data := frame[start:end]
	for i := 0; i < len(data); i++ {
		b := data[i]
		switch b {
		case End:
			return ErrUnexpectedEnd
		case Esc:
			if i++; i >= len(data) {
				return ErrUnterminatedEscape
			}
			switch data[i] {
			case EscEnd:
				b = End
			case EscEsc:
				b = Esc
			default:
				return ErrInvalidEscape
			}
		}
		if err := dst.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}

// ScanFrames is a bufio.SplitFunc splitting a stream at End bytes.
// Tokens don't include End, empty frames are skipped.
func ScanFrames(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && data[start] == End {
		start++
	}
	if i := bytes.IndexByte(data[start:], End); i >= 0 {
		return start + i + 1, data[start : start+i], nil
	}
	if atEOF && start < len(data) {
		return len(data), data[start:], nil
	}
	// request more data, drop leading End bytes.
	return start, nil, nil
}

// Framer implements rc.Framer with SLIP.
type Framer struct{}

// Encode implements rc.Framer.
func (Framer) Encode(dst io.ByteWriter, raw []byte) error {
	return Encode(dst, raw)
}

// Decode implements rc.Framer.
func (Framer) Decode(dst io.ByteWriter, frame []byte) error {
	return Decode(dst, frame)
}

// Split implements bufio.SplitFunc.
func (Framer) Split(data []byte, atEOF bool) (int, []byte, error) {
	return ScanFrames(data, atEOF)
}
