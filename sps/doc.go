// Package sps implements the binary data block exchanged with the Siemens
// programmable controller (SPS) of a vacuum pumping station.
//
// The controller's basic unit interface sends a fixed 28-byte [Frame] every
// cycle and accepts a 28-byte block whose byte 24 carries a [Command].
//
// # Frame Layout
//
//	byte  0      status byte 1 (bit 0: pumping station on)
//	byte  1      status byte 2
//	byte  2      status byte 3
//	bytes 4-6    message bytes 1-3, one fault condition per bit
//	bytes 8-9    turbo pump speed, controller specific sign-magnitude
//	bytes 12-15  pressure GP (Pirani), big-endian IEEE-754 float32
//	bytes 16-19  pressure Gti, big-endian IEEE-754 float32
//	byte  24     command byte (outbound direction)
//
// # Decoding
//
// [Codec.Decode] turns a frame into a [ChannelSet] plus the list of
// [FaultCondition] values reported by the message bytes. Within one message
// byte only the lowest set bit is reported; alarm handling downstream keys off
// that first message.
//
// When the station is off, Decode keeps the previous ChannelSet, reports a
// single [FaultPumpOff] condition and returns [ErrPumpOff].
package sps
