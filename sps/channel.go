package sps

import "fmt"

// Channel indexes the values of a ChannelSet in host variable order.
type Channel int

const (
	ChannelLifeSign Channel = iota
	ChannelGaugePirani
	ChannelGaugeTI
	ChannelTurboSpeed
	ChannelStatus1
	ChannelStatus2
	ChannelStatus3
	ChannelMessage1
	ChannelMessage2
	ChannelMessage3

	// NumChannels is the number of input channels.
	NumChannels = int(ChannelMessage3) + 1
)

// OutputLabel is the host label of the single output (command) channel.
const OutputLabel = "Cmd"

var channelLabels = [NumChannels]string{
	"Life Sign",
	"GP Pirani",
	"Gti",
	"Turbo Speed",
	"Status Byte 1",
	"Status Byte 2",
	"Status Byte 3",
	"Message Byte 1",
	"Message Byte 2",
	"Message Byte 3",
}

// Valid reports whether ch is an input channel.
func (ch Channel) Valid() bool {
	return ch >= 0 && int(ch) < NumChannels
}

// Label returns the host variable label of ch.
func (ch Channel) Label() string {
	if !ch.Valid() {
		return fmt.Sprintf("Channel(%d)", int(ch))
	}

	return channelLabels[ch]
}

func (ch Channel) String() string {
	return ch.Label()
}

// ChannelSet is the decoded view of the last valid frame.
type ChannelSet struct {
	// LifeSign counts decoded frames, cycling through 0..999.
	LifeSign int
	// GaugePirani is the GP (Pirani) pressure.
	GaugePirani float32
	// GaugeTI is the Gti pressure.
	GaugeTI float32
	// TurboSpeed is the turbo pump speed.
	TurboSpeed int16
	// Status holds status bytes 1-3.
	Status [3]byte
	// Message holds message bytes 1-3.
	Message [3]byte
}

// Value returns channel ch as a float, the representation used by the host
// variable store.
func (cs ChannelSet) Value(ch Channel) (float32, error) {
	switch ch {
	case ChannelLifeSign:
		return float32(cs.LifeSign), nil
	case ChannelGaugePirani:
		return cs.GaugePirani, nil
	case ChannelGaugeTI:
		return cs.GaugeTI, nil
	case ChannelTurboSpeed:
		return float32(cs.TurboSpeed), nil
	case ChannelStatus1, ChannelStatus2, ChannelStatus3:
		return float32(cs.Status[ch-ChannelStatus1]), nil
	case ChannelMessage1, ChannelMessage2, ChannelMessage3:
		return float32(cs.Message[ch-ChannelMessage1]), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidChannel, int(ch))
	}
}

// Values returns all channels in index order.
func (cs ChannelSet) Values() [NumChannels]float32 {
	var out [NumChannels]float32
	for i := range out {
		out[i], _ = cs.Value(Channel(i))
	}

	return out
}

// PumpOn reports whether the station was on in the frame this set came from.
func (cs ChannelSet) PumpOn() bool {
	return cs.Status[0]&0x01 != 0
}
