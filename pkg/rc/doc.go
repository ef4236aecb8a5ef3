// Package rc provides the command codec of the vehicle serial link.
package rc

// Every command is a single self-contained frame: one tag byte followed by
// a payload whose layout is fully determined by the tag. There is no length
// prefix, sequence number or acknowledgement.
//
// Two wire revisions exist:
//
//   Revision1: StartMotor/StopMotor carry a MotorPosition byte,
//              SendMotionState carries 3 big-endian float32.
//   Revision2: StartMotor/StopMotor carry nothing,
//              SendMotionState carries 3 big-endian float32 and an armed byte.
//
// Raw bytes are handed to a Framer (SLIP, COBS) for delimiting before they
// go on the wire.
//
// Producer: vehicle firmware / controller
// Consumer: controller / vehicle firmware
