package rc

import (
	"fmt"
	"strings"
)

// MotorPosition addresses a single motor or a group of motors.
// The value is the wire tag.
type MotorPosition byte

// Individual motors use 0x01-0x04, groups use 0xF1-0xFF.
const (
	FrontLeft  MotorPosition = 0x01
	FrontRight MotorPosition = 0x02
	BackLeft   MotorPosition = 0x03
	BackRight  MotorPosition = 0x04
	Left       MotorPosition = 0xF1
	Right      MotorPosition = 0xF2
	Front      MotorPosition = 0xF3
	Back       MotorPosition = 0xF4
	All        MotorPosition = 0xFF
)

var motorNames = map[MotorPosition]string{
	FrontLeft:  "front-left",
	FrontRight: "front-right",
	BackLeft:   "back-left",
	BackRight:  "back-right",
	Left:       "left",
	Right:      "right",
	Front:      "front",
	Back:       "back",
	All:        "all",
}

var motorAbbrevs = map[string]MotorPosition{
	"fl": FrontLeft,
	"fr": FrontRight,
	"bl": BackLeft,
	"br": BackRight,
	"l":  Left,
	"r":  Right,
	"f":  Front,
	"b":  Back,
	"a":  All,
}

// ParseMotorPosition converts a wire tag into MotorPosition.
func ParseMotorPosition(b byte) (MotorPosition, error) {
	if pos := MotorPosition(b); pos.IsValid() {
		return pos, nil
	}
	return 0, fmt.Errorf("%w 0x%02x", ErrInvalidMotorTag, b)
}

// ParseMotorName parses names like "front-left", "fl" or "all".
func ParseMotorName(name string) (MotorPosition, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if pos, ok := motorAbbrevs[name]; ok {
		return pos, nil
	}
	name = strings.Replace(name, "_", "-", -1)
	for pos, n := range motorNames {
		if n == name {
			return pos, nil
		}
	}
	return 0, fmt.Errorf("unknown motor %q", name)
}

// Byte returns the wire tag.
func (p MotorPosition) Byte() byte {
	return byte(p)
}

// IsValid checks if it's one of the defined positions.
func (p MotorPosition) IsValid() bool {
	_, ok := motorNames[p]
	return ok
}

// IsGroup indicates the position addresses more than one motor.
func (p MotorPosition) IsGroup() bool {
	return p.IsValid() && p >= Left
}

// Motors expands the position to individual motors.
func (p MotorPosition) Motors() []MotorPosition {
	switch p {
	case FrontLeft, FrontRight, BackLeft, BackRight:
		return []MotorPosition{p}
	case Left:
		return []MotorPosition{FrontLeft, BackLeft}
	case Right:
		return []MotorPosition{FrontRight, BackRight}
	case Front:
		return []MotorPosition{FrontLeft, FrontRight}
	case Back:
		return []MotorPosition{BackLeft, BackRight}
	case All:
		return []MotorPosition{FrontLeft, FrontRight, BackLeft, BackRight}
	}
	return nil
}

// String implements fmt.Stringer.
func (p MotorPosition) String() string {
	if name, ok := motorNames[p]; ok {
		return name
	}
	return fmt.Sprintf("motor(0x%02x)", byte(p))
}
