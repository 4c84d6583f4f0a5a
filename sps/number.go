package sps

import (
	"encoding/binary"
	"math"
)

// ToNumber decodes the 2-byte integer format used by the controller for the
// turbo pump speed.
//
// The high byte contributes its low 7 bits shifted by 8; its bit 7 is a sign
// flag that the controller sets but that is dropped, not applied. The low byte
// contributes all 8 bits, bit 7 counting as 128. The result is therefore
// always in [0, 32767] and is not a two's complement value.
//
// b must hold at least 2 bytes.
func ToNumber(b []byte) int16 {
	var val int

	if b[0]&0x80 != 0 {
		val = int(b[0]&0x7F) << 8
	} else {
		val = int(b[0]) << 8
	}

	if b[1]&0x80 != 0 {
		val += int(b[1]&0x7F) + 128
	} else {
		val += int(b[1])
	}

	return int16(val)
}

// FromNumber encodes v in the layout read by ToNumber. Negative values are
// encoded by magnitude with the sign flag set, which ToNumber drops.
func FromNumber(v int16) [2]byte {
	mag := int(v)
	var sign byte
	if mag < 0 {
		mag = -mag
		sign = 0x80
	}
	mag &= 0x7FFF

	return [2]byte{byte(mag>>8) | sign, byte(mag)}
}

// ToFloat decodes a 4-byte IEEE-754 single precision value whose first byte
// is the most significant one.
//
// The bytes are reversed into a scratch word and read back little-endian, so
// the result does not depend on the host byte order.
//
// b must hold at least 4 bytes.
func ToFloat(b []byte) float32 {
	var scratch [4]byte
	for i := 0; i < 4; i++ {
		scratch[3-i] = b[i]
	}

	return math.Float32frombits(binary.LittleEndian.Uint32(scratch[:]))
}

// FromFloat encodes f in the layout read by ToFloat.
func FromFloat(f float32) [4]byte {
	var out [4]byte
	binary.BigEndian.PutUint32(out[:], math.Float32bits(f))

	return out
}
