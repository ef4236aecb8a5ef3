// Package vehicle adds vehicle commands to the shell.
package vehicle

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rclink/pkg/cli/sh"
	"github.com/robotalks/rclink/pkg/rc"
)

const defaultWatchDuration = 10 * time.Second

// ParseMotor parses the optional motor argument, defaults to all motors.
func ParseMotor(args []string) (rc.MotorPosition, error) {
	if len(args) == 0 {
		return rc.All, nil
	}
	return rc.ParseMotorName(args[0])
}

// ParseHex parses bytes like "0a f3" or "0af3".
func ParseHex(args []string) ([]byte, error) {
	str := strings.Join(args, "")
	str = strings.TrimPrefix(strings.ToLower(str), "0x")
	data, err := hex.DecodeString(str)
	if err != nil {
		return nil, fmt.Errorf("invalid hex bytes: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("bytes expected")
	}
	return data, nil
}

// ParseWatchDuration parses the optional seconds argument of watch.
func ParseWatchDuration(args []string) (time.Duration, error) {
	if len(args) == 0 {
		return defaultWatchDuration, nil
	}
	secs, err := strconv.ParseFloat(args[0], 64)
	if err != nil || secs <= 0 {
		return 0, fmt.Errorf("invalid duration %q", args[0])
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func motorCmd(build func(rc.MotorPosition) rc.Command) func(c *ishell.Context) {
	return sh.MustBeConnected(func(c *ishell.Context) {
		motor, err := ParseMotor(c.Args)
		if err != nil {
			c.Err(err)
			return
		}
		sh.DoCommand(c, build(motor))
	})
}

var (
	// ToggleLedCmd exposes ToggleLed command.
	ToggleLedCmd = ishell.Cmd{
		Name:    "led",
		Aliases: []string{"l"},
		Help:    "toggle LED",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, rc.ToggleLed{})
		}),
	}

	// StartMotorCmd exposes StartMotor command.
	StartMotorCmd = ishell.Cmd{
		Name:     "start",
		Help:     "[MOTOR] start motor(s), MOTOR is ignored in revision 2",
		LongHelp: "MOTOR: fl, fr, bl, br, left, right, front, back, all (default)",
		Func: motorCmd(func(motor rc.MotorPosition) rc.Command {
			return rc.StartMotor{Motor: motor}
		}),
	}

	// StopMotorCmd exposes StopMotor command.
	StopMotorCmd = ishell.Cmd{
		Name:     "stop",
		Help:     "[MOTOR] stop motor(s), MOTOR is ignored in revision 2",
		LongHelp: "MOTOR: fl, fr, bl, br, left, right, front, back, all (default)",
		Func: motorCmd(func(motor rc.MotorPosition) rc.Command {
			return rc.StopMotor{Motor: motor}
		}),
	}

	// MotionStateCmd queries motion state.
	MotionStateCmd = ishell.Cmd{
		Name:    "state",
		Aliases: []string{"s"},
		Help:    "query motion state",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
			defer cancel()
			state, err := s.Conn.Client.MotionState(ctx)
			if err != nil {
				c.Err(fmt.Errorf("motion state: %w", err))
				return
			}
			if err := s.Print(c, state); err != nil {
				c.Err(err)
			}
		}),
	}

	// WatchCmd prints commands received from the vehicle.
	WatchCmd = ishell.Cmd{
		Name:    "watch",
		Aliases: []string{"w"},
		Help:    "[SECONDS] print commands from vehicle",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			duration, err := ParseWatchDuration(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			s := sh.ShellFrom(c)
			timer := time.NewTimer(duration)
			defer timer.Stop()
			for {
				select {
				case cmd := <-s.Conn.Client.CommandChan():
					if err := s.Print(c, cmd); err != nil {
						c.Err(err)
					}
				case <-timer.C:
					return
				}
			}
		}),
	}

	// RawCmd sends a command given in raw bytes.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "HEX... send raw command bytes, e.g. raw 0a ff",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			data, err := ParseHex(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			cmd, err := sh.ShellFrom(c).Conn.Client.Link().Codec.Decode(data)
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(sh.FormatCommand(cmd))
			sh.DoCommand(c, cmd)
		}),
	}
)

func init() {
	sh.AddCmds(
		&ToggleLedCmd,
		&StartMotorCmd,
		&StopMotorCmd,
		&MotionStateCmd,
		&WatchCmd,
		&RawCmd,
	)
}
