// Package cobs implements Consistent Overhead Byte Stuffing framing.
// Frames are delimited by 0x00.
package cobs

import (
	"bytes"
	"errors"
	"io"
)

// Delimiter terminates every frame.
const Delimiter byte = 0x00

// maxBlock is the longest run of non-zero bytes in one block.
const maxBlock = 0xFE

var (
	// ErrInvalidCode indicates a 0x00 code byte inside a frame.
	ErrInvalidCode = errors.New("cobs: invalid code 0x00")
	// ErrTruncated indicates a block is shorter than its code.
	ErrTruncated = errors.New("cobs: frame truncated")
)

// Encode writes the COBS encoding of raw followed by Delimiter.
func Encode(dst io.ByteWriter, raw []byte) error {
	for i := 0; ; {
		j := i
		for j < len(raw) && raw[j] != 0 && j-i < maxBlock {
			j++
		}
		if err := dst.WriteByte(byte(j - i + 1)); err != nil {
			return err
		}
		for _, b := range raw[i:j] {
			if err := dst.WriteByte(b); err != nil {
				return err
			}
		}
		if j == len(raw) {
			break
		}
		if j-i == maxBlock {
			// block is full, the next byte starts a new block without
			// an implicit zero.
			i = j
			continue
		}
		if i = j + 1; i == len(raw) {
			// trailing zero.
			if err := dst.WriteByte(1); err != nil {
				return err
			}
			break
		}
	}
	return dst.WriteByte(Delimiter)
}

// Decode writes the bytes recovered from frame to dst.
// The trailing Delimiter is optional.
func Decode(dst io.ByteWriter, frame []byte) error {
	for len(frame) > 0 && frame[len(frame)-1] == Delimiter {
		frame = frame[:len(frame)-1]
	}
	for i := 0; i < len(frame); {
		code := frame[i]
		if code == 0 {
			return ErrInvalidCode
		}
		i++
		count := int(code) - 1
		if i+count > len(frame) {
			return ErrTruncated
		}
		for _, b := range frame[i : i+count] {
			if b == 0 {
				return ErrInvalidCode
			}
			if err := dst.WriteByte(b); err != nil {
				return err
			}
		}
		i += count
		if code != 0xFF && i < len(frame) {
			if err := dst.WriteByte(0); err != nil {
				return err
			}
		}
	}
	return nil
}

// ScanFrames is a bufio.SplitFunc splitting a stream at Delimiter.
// Tokens don't include the Delimiter, empty frames are skipped.
func ScanFrames(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && data[start] == Delimiter {
		start++
	}
	if i := bytes.IndexByte(data[start:], Delimiter); i >= 0 {
		return start + i + 1, data[start : start+i], nil
	}
	if atEOF && start < len(data) {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}

// Framer implements rc.Framer with COBS.
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
