package sps

import (
	"github.com/arloliu/go-sps/logger"
)

// lifeSignModulo bounds the life sign counter to 0..999.
const lifeSignModulo = 1000

// Codec decodes frames into channel sets. It keeps the last decoded set so a
// frame sent while the station is off leaves the previous values visible.
//
// Codec is not goroutine-safe.
type Codec struct {
	logger logger.Logger

	channels ChannelSet
	lifeSign int
	pumpOff  bool
}

// NewCodec returns a Codec logging to l. A nil l selects the package default
// logger.
func NewCodec(l logger.Logger) *Codec {
	if l == nil {
		l = logger.GetLogger()
	}

	return &Codec{logger: l}
}

// Decode interprets f.
//
// If the station is off, the previous ChannelSet is returned unchanged along
// with a single FaultPumpOff condition and ErrPumpOff. Otherwise the set is
// replaced with the values of f, the life sign advances and the message bytes
// are decoded with DecodeMessages.
func (c *Codec) Decode(f Frame) (ChannelSet, []FaultCondition, error) {
	if !f.PumpOn() {
		if !c.pumpOff {
			c.pumpOff = true
			c.logger.Info("sps: pumping station is off")
		}

		return c.channels, []FaultCondition{{Code: FaultPumpOff, Severity: SeverityInfo}}, ErrPumpOff
	}

	if c.pumpOff {
		c.pumpOff = false
		c.logger.Info("sps: pumping station is on")
	}

	c.channels = ChannelSet{
		LifeSign:    c.lifeSign,
		GaugePirani: f.GaugePirani(),
		GaugeTI:     f.GaugeTI(),
		TurboSpeed:  f.TurboSpeed(),
		Status:      f.Status(),
		Message:     f.Messages(),
	}
	c.lifeSign = (c.lifeSign + 1) % lifeSignModulo

	return c.channels, DecodeMessages(c.channels.Message), nil
}

// Channels returns the last decoded ChannelSet.
func (c *Codec) Channels() ChannelSet {
	return c.channels
}
