package sps

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode is the parent of every frame decoding error.
	ErrDecode = errors.New("sps: decode error")

	// ErrFrameSize indicates a frame whose length is not FrameSize.
	ErrFrameSize = fmt.Errorf("%w: invalid frame size", ErrDecode)

	// ErrPumpOff indicates a frame sent while the pumping station is off.
	// The frame carries no valid measurements.
	ErrPumpOff = fmt.Errorf("%w: pumping station is off", ErrDecode)
)

var (
	// ErrInvalidChannel indicates a channel index outside the ChannelSet.
	ErrInvalidChannel = errors.New("sps: invalid channel")

	// ErrInvalidCommand indicates a value that is not a command word.
	ErrInvalidCommand = errors.New("sps: invalid command")
)
