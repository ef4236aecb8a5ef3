package rc

// MotorState is the in-memory state of the motors (Revision2).
type MotorState struct {
	FrontLeft  float32
	FrontRight float32
	BackLeft   float32
	BackRight  float32
	Armed      bool
}

func (s *MotorState) throttle(pos MotorPosition) *float32 {
	switch pos {
	case FrontLeft:
		return &s.FrontLeft
	case FrontRight:
		return &s.FrontRight
	case BackLeft:
		return &s.BackLeft
	case BackRight:
		return &s.BackRight
	}
	return nil
}

// SetThrottle sets throttle of all motors addressed by pos.
func (s *MotorState) SetThrottle(pos MotorPosition, value float32) {
	for _, m := range pos.Motors() {
		*s.throttle(m) = value
	}
}

// Throttle gets the throttle of an individual motor.
func (s MotorState) Throttle(pos MotorPosition) (float32, bool) {
	if p := s.throttle(pos); p != nil {
		return *p, true
	}
	return 0, false
}

// Report creates the SendMotionState command reporting this state.
func (s MotorState) Report(angularVelocity Vector3) SendMotionState {
	return SendMotionState{AngularVelocity: angularVelocity, Armed: s.Armed}
}
