package sim

import (
	"math"
	"time"

	"github.com/robotalks/rclink/pkg/rc"
)

// Engine estimates the yaw rate of a skid-steer vehicle from
// motor throttles.
type Engine struct {
	// YawGain converts throttle difference (right - left) into rad/s.
	YawGain float64
	// Accel limits the change of yaw rate in rad/s^2, 0 means immediate.
	Accel float64

	startTime    time.Time
	startRate    float64
	desiredRate  float64
	accel        float64
	accelEndTime time.Time
}

// SetThrottle updates the target yaw rate from motor throttles.
func (e *Engine) SetThrottle(now time.Time, motors rc.MotorState) {
	rate := e.YawRate(now)
	left := float64(motors.FrontLeft+motors.BackLeft) / 2
	right := float64(motors.FrontRight+motors.BackRight) / 2
	e.desiredRate = (right - left) * e.YawGain
	e.startTime, e.startRate = now, rate
	if e.Accel <= 0 {
		e.startRate, e.accelEndTime = e.desiredRate, now
		return
	}
	diff := math.Abs(e.desiredRate - rate)
	e.accelEndTime = now.Add(time.Duration(diff / e.Accel * float64(time.Second)))
	e.accel = e.Accel
	if rate > e.desiredRate {
		e.accel = -e.accel
	}
}

// YawRate estimates the yaw rate at now.
func (e *Engine) YawRate(now time.Time) float64 {
	if !now.Before(e.accelEndTime) {
		return e.desiredRate
	}
	return e.startRate + e.accel*now.Sub(e.startTime).Seconds()
}

// AngularVelocity estimates the angular velocity (x, y, z) at now.
func (e *Engine) AngularVelocity(now time.Time) rc.Vector3 {
	return rc.Vector3{0, 0, float32(e.YawRate(now))}
}
