// Package link transfers commands over a byte stream.
package link

// A Link frames every command with the codec's Framer and writes it to the
// underlying stream (usually a serial port). On the receiving side the
// stream is split into frames by the Framer, and each frame is decoded
// independently. A malformed frame is dropped and the Link waits for the
// next one. There is no retransmission or acknowledgement.
