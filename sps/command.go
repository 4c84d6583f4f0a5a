package sps

import (
	"bytes"
	"fmt"

	"github.com/arloliu/go-sps/bitfield"
)

// Command is the command word written to byte 24 of the outbound block.
type Command byte

const (
	CmdIdle            Command = 0
	CmdStartPump       Command = 1
	CmdStopPump        Command = 2
	CmdLockGateValve   Command = 4
	CmdUnlockGateValve Command = 8
	CmdResetFaults     Command = 128
)

// Valid reports whether c is one of the defined command words.
func (c Command) Valid() bool {
	switch c {
	case CmdIdle, CmdStartPump, CmdStopPump, CmdLockGateValve, CmdUnlockGateValve, CmdResetFaults:
		return true
	default:
		return false
	}
}

func (c Command) String() string {
	switch c {
	case CmdIdle:
		return "idle"
	case CmdStartPump:
		return "start pump"
	case CmdStopPump:
		return "stop pump"
	case CmdLockGateValve:
		return "lock gate valve"
	case CmdUnlockGateValve:
		return "unlock gate valve"
	case CmdResetFaults:
		return "reset faults"
	default:
		return fmt.Sprintf("Command(%d)", byte(c))
	}
}

// setpointCommands maps the host output variable to command words.
var setpointCommands = [...]Command{
	CmdIdle,
	CmdStartPump,
	CmdStopPump,
	CmdLockGateValve,
	CmdUnlockGateValve,
	CmdResetFaults,
}

// CommandFromSetpoint converts the value of the host output variable
// (0 idle, 1 start, 2 stop, 3 lock, 4 unlock, 5 reset) into a command word.
func CommandFromSetpoint(v float32) (Command, error) {
	i := int(v)
	if float32(i) != v || i < 0 || i >= len(setpointCommands) {
		return CmdIdle, fmt.Errorf("%w: setpoint %v", ErrInvalidCommand, v)
	}

	return setpointCommands[i], nil
}

// ParseCommand converts a command name ("start", "stop", "lock", "unlock",
// "reset", "idle") into a command word.
func ParseCommand(name string) (Command, error) {
	switch name {
	case "idle":
		return CmdIdle, nil
	case "start":
		return CmdStartPump, nil
	case "stop":
		return CmdStopPump, nil
	case "lock":
		return CmdLockGateValve, nil
	case "unlock":
		return CmdUnlockGateValve, nil
	case "reset":
		return CmdResetFaults, nil
	default:
		return CmdIdle, fmt.Errorf("%w: %q", ErrInvalidCommand, name)
	}
}

// OutBuffer is the persistent outbound block. Only the command byte is
// changed by Encode; all other bytes keep whatever was last loaded.
//
// The zero value is an all-zero block ready for use.
type OutBuffer struct {
	buf [FrameSize]byte
}

// Encode places cmd at the command offset.
func (o *OutBuffer) Encode(cmd Command) error {
	if !cmd.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidCommand, byte(cmd))
	}

	_, err := bitfield.SetField(o.buf[:], uint32(cmd), OffsetCommand*8, 8, false)

	return err
}

// Command returns the command word currently at the command offset.
func (o *OutBuffer) Command() (Command, error) {
	v, err := bitfield.GetField(o.buf[:], OffsetCommand*8, 8, false)
	if err != nil {
		return CmdIdle, err
	}

	cmd := Command(v)
	if !cmd.Valid() {
		return cmd, fmt.Errorf("%w: %d", ErrInvalidCommand, v)
	}

	return cmd, nil
}

// Load mirrors a received frame into the outbound block, as the controller
// expects the block it sent to be echoed with the command byte filled in.
func (o *OutBuffer) Load(f Frame) {
	o.buf = f
}

// Bytes returns a copy of the outbound block.
func (o *OutBuffer) Bytes() []byte {
	return bytes.Clone(o.buf[:])
}
