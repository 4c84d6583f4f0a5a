package sps

import (
	"fmt"

	"github.com/arloliu/go-sps/bitfield"
)

// FrameSize is the length of the data block exchanged with the controller.
const FrameSize = 28

// Byte offsets inside a frame.
const (
	OffsetStatus1    = 0
	OffsetStatus2    = 1
	OffsetStatus3    = 2
	OffsetMessage1   = 4
	OffsetMessage2   = 5
	OffsetMessage3   = 6
	OffsetTurboSpeed = 8
	OffsetGP         = 12
	OffsetGti        = 16
	OffsetCommand    = 24
)

// pumpOnBit is the absolute bit position of the "station on" flag.
const pumpOnBit = OffsetStatus1*8 + 0

// Frame is one data block received from the controller.
type Frame [FrameSize]byte

// ParseFrame copies b into a Frame. b must be exactly FrameSize bytes long.
func ParseFrame(b []byte) (Frame, error) {
	var f Frame
	if len(b) != FrameSize {
		return f, fmt.Errorf("%w: got %d bytes, want %d", ErrFrameSize, len(b), FrameSize)
	}
	copy(f[:], b)

	return f, nil
}

// PumpOn reports whether bit 0 of status byte 1 is set.
func (f Frame) PumpOn() bool {
	v, _ := bitfield.GetField(f[:], pumpOnBit, 1, false)
	return v == 1
}

// Status returns status bytes 1-3.
func (f Frame) Status() [3]byte {
	return [3]byte{f[OffsetStatus1], f[OffsetStatus2], f[OffsetStatus3]}
}

// Messages returns message bytes 1-3.
func (f Frame) Messages() [3]byte {
	return [3]byte{f[OffsetMessage1], f[OffsetMessage2], f[OffsetMessage3]}
}

// TurboSpeed returns the decoded turbo pump speed.
func (f Frame) TurboSpeed() int16 {
	return ToNumber(f[OffsetTurboSpeed : OffsetTurboSpeed+2])
}

// GaugePirani returns the decoded GP (Pirani) pressure.
func (f Frame) GaugePirani() float32 {
	return ToFloat(f[OffsetGP : OffsetGP+4])
}

// GaugeTI returns the decoded Gti pressure.
func (f Frame) GaugeTI() float32 {
	return ToFloat(f[OffsetGti : OffsetGti+4])
}

// Builder assembles frames in controller layout. It is used by simulators and
// tests; the zero value is an empty frame with the station off.
type Builder struct {
	f Frame
}

// PumpOn sets or clears the station on flag.
func (b *Builder) PumpOn(on bool) *Builder {
	var v uint32
	if on {
		v = 1
	}
	_, _ = bitfield.SetField(b.f[:], v, pumpOnBit, 1, false)

	return b
}

// Status sets status bytes 2 and 3. Status byte 1 is controlled by PumpOn
// and Status1.
func (b *Builder) Status(s2, s3 byte) *Builder {
	b.f[OffsetStatus2] = s2
	b.f[OffsetStatus3] = s3

	return b
}

// Status1 sets the reserved bits 1-7 of status byte 1, keeping the on flag.
func (b *Builder) Status1(bits byte) *Builder {
	b.f[OffsetStatus1] = b.f[OffsetStatus1]&0x01 | bits&^0x01
	return b
}

// Messages sets message bytes 1-3.
func (b *Builder) Messages(m1, m2, m3 byte) *Builder {
	b.f[OffsetMessage1] = m1
	b.f[OffsetMessage2] = m2
	b.f[OffsetMessage3] = m3

	return b
}

// TurboSpeed sets the turbo pump speed.
func (b *Builder) TurboSpeed(v int16) *Builder {
	enc := FromNumber(v)
	copy(b.f[OffsetTurboSpeed:], enc[:])

	return b
}

// Pressures sets the GP and Gti pressures.
func (b *Builder) Pressures(gp, gti float32) *Builder {
	enc := FromFloat(gp)
	copy(b.f[OffsetGP:], enc[:])
	enc = FromFloat(gti)
	copy(b.f[OffsetGti:], enc[:])

	return b
}

// Command sets the command byte.
func (b *Builder) Command(cmd Command) *Builder {
	b.f[OffsetCommand] = byte(cmd)
	return b
}

// Frame returns a copy of the assembled frame.
func (b *Builder) Frame() Frame {
	return b.f
}
