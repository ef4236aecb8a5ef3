package sh

import (
	"fmt"

	"github.com/robotalks/rclink/pkg/rc"
)

// CommandView is the JSON form of a command.
type CommandView struct {
	Command         string      `json:"command"`
	Motor           string      `json:"motor,omitempty"`
	AngularVelocity *rc.Vector3 `json:"angularVelocity,omitempty"`
	Armed           *bool       `json:"armed,omitempty"`
}

// NewCommandView converts cmd into CommandView.
func NewCommandView(cmd rc.Command) CommandView {
	v := CommandView{Command: cmd.Tag().String()}
	switch cmd := cmd.(type) {
	case rc.StartMotor:
		if cmd.Motor != 0 {
			v.Motor = cmd.Motor.String()
		}
	case rc.StopMotor:
		if cmd.Motor != 0 {
			v.Motor = cmd.Motor.String()
		}
	case rc.SendMotionState:
		v.AngularVelocity = &cmd.AngularVelocity
		v.Armed = &cmd.Armed
	}
	return v
}

// FormatCommand prints cmd into friendly string for display.
func FormatCommand(cmd rc.Command) string {
	v := NewCommandView(cmd)
	str := v.Command
	if v.Motor != "" {
		str += " " + v.Motor
	}
	if vec := v.AngularVelocity; vec != nil {
		str += fmt.Sprintf(" angular-velocity=(%g, %g, %g) armed=%v", vec[0], vec[1], vec[2], *v.Armed)
	}
	return str
}
