package rc

import "fmt"

// CommandTag is the first byte of every raw command.
type CommandTag byte

// Command tags, the same in all revisions.
const (
	TagToggleLed       CommandTag = 1
	TagStartMotor      CommandTag = 10
	TagStopMotor       CommandTag = 11
	TagGetMotionState  CommandTag = 20
	TagSendMotionState CommandTag = 21
)

// String implements fmt.Stringer.
func (t CommandTag) String() string {
	switch t {
	case TagToggleLed:
		return "ToggleLed"
	case TagStartMotor:
		return "StartMotor"
	case TagStopMotor:
		return "StopMotor"
	case TagGetMotionState:
		return "GetMotionState"
	case TagSendMotionState:
		return "SendMotionState"
	}
	return fmt.Sprintf("command(0x%02x)", byte(t))
}

// Revision selects the wire layout.
type Revision int

// Known revisions.
const (
	// Revision1 addresses motors in StartMotor/StopMotor.
	Revision1 Revision = 1
	// Revision2 drops motor targeting and appends the armed flag
	// to SendMotionState.
	Revision2 Revision = 2
)

// IsValid checks if it's a known revision.
func (r Revision) IsValid() bool {
	return r == Revision1 || r == Revision2
}

// String implements fmt.Stringer.
func (r Revision) String() string {
	return fmt.Sprintf("rev%d", int(r))
}

// Vector3 is an angular velocity vector.
type Vector3 [3]float32

// Command is one of ToggleLed, StartMotor, StopMotor,
// GetMotionState and SendMotionState. Commands are values,
// Codec rejects pointers to them.
type Command interface {
	Tag() CommandTag
	isCommand()
}

// ToggleLed toggles the status LED.
type ToggleLed struct{}

// StartMotor starts motors.
// Motor is only transferred in Revision1, the zero value means All.
type StartMotor struct {
	Motor MotorPosition
}

// StopMotor stops motors.
// Motor is only transferred in Revision1, the zero value means All.
type StopMotor struct {
	Motor MotorPosition
}

// GetMotionState queries the motion state.
type GetMotionState struct{}

// SendMotionState reports the motion state.
// Armed is only transferred in Revision2.
type SendMotionState struct {
	AngularVelocity Vector3
	Armed           bool
}

// Tag implements Command.
func (ToggleLed) Tag() CommandTag { return TagToggleLed }

// Tag implements Command.
func (StartMotor) Tag() CommandTag { return TagStartMotor }

// Tag implements Command.
func (StopMotor) Tag() CommandTag { return TagStopMotor }

// Tag implements Command.
func (GetMotionState) Tag() CommandTag { return TagGetMotionState }

// Tag implements Command.
func (SendMotionState) Tag() CommandTag { return TagSendMotionState }

func (ToggleLed) isCommand()       {}
func (StartMotor) isCommand()      {}
func (StopMotor) isCommand()       {}
func (GetMotionState) isCommand()  {}
func (SendMotionState) isCommand() {}

// CommandFromTag creates a command with default payload from the tag byte:
// All motors, zero vector and disarmed.
// The payload is filled in by Codec.Decode.
func CommandFromTag(b byte) (Command, error) {
	switch CommandTag(b) {
	case TagToggleLed:
		return ToggleLed{}, nil
	case TagStartMotor:
		return StartMotor{Motor: All}, nil
	case TagStopMotor:
		return StopMotor{Motor: All}, nil
	case TagGetMotionState:
		return GetMotionState{}, nil
	case TagSendMotionState:
		return SendMotionState{}, nil
	}
	return nil, fmt.Errorf("%w 0x%02x", ErrInvalidCommandTag, b)
}
