package transport

import (
	"fmt"
	"strings"

	"go.bug.st/serial"
)

// PortOptions describes the serial connection parameters.
type PortOptions struct {
	BaudRate int    `yaml:"baud_rate" json:"baudRate"`
	DataBits int    `yaml:"data_bits" json:"dataBits"`
	StopBits int    `yaml:"stop_bits" json:"stopBits"`
	Parity   string `yaml:"parity" json:"parity"`
}

// DefaultBaudRate is used when BaudRate is not set.
const DefaultBaudRate = 115200

// Normalize validates the options and applies defaults (115200 8N1).
func (o PortOptions) Normalize() (PortOptions, error) {
	opts := o
	if opts.BaudRate <= 0 {
		opts.BaudRate = DefaultBaudRate
	}
	if opts.DataBits == 0 {
		opts.DataBits = 8
	}
	if opts.DataBits < 5 || opts.DataBits > 8 {
		return opts, fmt.Errorf("invalid data bits %d: must be between 5 and 8", opts.DataBits)
	}
	if opts.StopBits == 0 {
		opts.StopBits = 1
	}
	if opts.StopBits != 1 && opts.StopBits != 2 {
		return opts, fmt.Errorf("invalid stop bits %d: supported values are 1 or 2", opts.StopBits)
	}
	switch parity := strings.ToUpper(strings.TrimSpace(opts.Parity)); parity {
	case "", "N", "NONE":
		opts.Parity = "N"
	case "E", "EVEN":
		opts.Parity = "E"
	case "O", "ODD":
		opts.Parity = "O"
	default:
		return opts, fmt.Errorf("unsupported parity %q: expected N, E, or O", o.Parity)
	}
	return opts, nil
}

// SerialMode converts the options into serial.Mode.
func (o PortOptions) SerialMode() (*serial.Mode, error) {
	opts, err := o.Normalize()
	if err != nil {
		return nil, err
	}
	mode := &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
		StopBits: serial.OneStopBit,
		Parity:   serial.NoParity,
	}
	if opts.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}
	switch opts.Parity {
	case "E":
		mode.Parity = serial.EvenParity
	case "O":
		mode.Parity = serial.OddParity
	}
	return mode, nil
}

// OpenSerial opens the serial port at path.
func OpenSerial(path string, opts PortOptions) (serial.Port, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s error: %w", path, err)
	}
	return port, nil
}
