// Package sim simulates the vehicle side of the link.
package sim

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rclink/pkg/link"
	"github.com/robotalks/rclink/pkg/rc"
)

// Vehicle executes commands like the vehicle firmware does and
// replies GetMotionState with SendMotionState.
type Vehicle struct {
	Sender link.Sender
	Name   string
	// Throttle is applied to motors started by StartMotor.
	Throttle float32
	Engine   Engine
	Clock    func() time.Time

	lock   sync.Mutex
	motors rc.MotorState
	led    bool
}

// NewVehicle creates a Vehicle replying with sender.
func NewVehicle(sender link.Sender) *Vehicle {
	return &Vehicle{
		Sender:   sender,
		Name:     "vehicle",
		Throttle: 1,
		Engine:   Engine{YawGain: 1, Accel: 2},
		Clock:    time.Now,
	}
}

// LED gets the LED state.
func (v *Vehicle) LED() bool {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.led
}

// Motors gets the motor state.
func (v *Vehicle) Motors() rc.MotorState {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.motors
}

// State builds the motion state report.
func (v *Vehicle) State() rc.SendMotionState {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.motors.Report(v.Engine.AngularVelocity(v.Clock()))
}

// HandleCommand implements link.CommandHandler.
func (v *Vehicle) HandleCommand(ctx context.Context, cmd rc.Command) {
	switch cmd := cmd.(type) {
	case rc.ToggleLed:
		v.lock.Lock()
		v.led = !v.led
		glog.V(1).Infof("%s LED on=%v", v.Name, v.led)
		v.lock.Unlock()
	case rc.StartMotor:
		v.setMotor(cmd.Motor, v.Throttle)
	case rc.StopMotor:
		v.setMotor(cmd.Motor, 0)
	case rc.GetMotionState:
		if err := v.Sender.Send(v.State()); err != nil {
			glog.Errorf("%s send motion state error: %v", v.Name, err)
		}
	default:
		glog.Warningf("%s unexpected command %s", v.Name, cmd.Tag())
	}
}

func (v *Vehicle) setMotor(pos rc.MotorPosition, throttle float32) {
	if !pos.IsValid() {
		glog.Warningf("%s invalid motor %s", v.Name, pos)
		return
	}
	v.lock.Lock()
	defer v.lock.Unlock()
	v.motors.SetThrottle(pos, throttle)
	v.motors.Armed = v.motors.FrontLeft != 0 || v.motors.FrontRight != 0 ||
		v.motors.BackLeft != 0 || v.motors.BackRight != 0
	v.Engine.SetThrottle(v.Clock(), v.motors)
	glog.V(1).Infof("%s motor %s throttle=%g", v.Name, pos, throttle)
}
