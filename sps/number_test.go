package sps

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToNumber(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want int16
	}{
		{name: "small", in: []byte{0x00, 0x05}, want: 5},
		{name: "low byte high bit", in: []byte{0x80, 0x85}, want: 133},
		{name: "high byte", in: []byte{0x01, 0x00}, want: 256},
		{name: "sign flag dropped", in: []byte{0x81, 0x02}, want: 258},
		{name: "max", in: []byte{0x7F, 0xFF}, want: math.MaxInt16},
		{name: "all ones", in: []byte{0xFF, 0xFF}, want: math.MaxInt16},
		{name: "zero", in: []byte{0x00, 0x00}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToNumber(tt.in))
		})
	}
}

func TestFromNumber(t *testing.T) {
	assert.Equal(t, [2]byte{0x00, 0x85}, FromNumber(133))
	assert.Equal(t, [2]byte{0x5D, 0xC0}, FromNumber(24000))

	neg := FromNumber(-5)
	assert.Equal(t, [2]byte{0x80, 0x05}, neg)
	assert.Equal(t, int16(5), ToNumber(neg[:]))

	for _, v := range []int16{0, 1, 127, 128, 255, 1000, 24000, math.MaxInt16} {
		enc := FromNumber(v)
		assert.Equal(t, v, ToNumber(enc[:]), "value %d", v)
	}
}

func TestToFloat(t *testing.T) {
	// 1.0 is 0x3F800000; the frame carries the most significant byte first.
	assert.Equal(t, float32(1.0), ToFloat([]byte{0x3F, 0x80, 0x00, 0x00}))
	assert.Equal(t, float32(-2.0), ToFloat([]byte{0xC0, 0x00, 0x00, 0x00}))

	// only the first four bytes are used
	assert.Equal(t, float32(1.0), ToFloat([]byte{0x3F, 0x80, 0x00, 0x00, 0xAA}))
}

func TestFloatRoundTrip(t *testing.T) {
	values := []float32{
		0, 1, -1, 1e-3, 2.5e-7, 1013.25, 5e-10,
		math.MaxFloat32, math.SmallestNonzeroFloat32,
		float32(math.Inf(1)),
	}

	for _, f := range values {
		enc := FromFloat(f)
		assert.Equal(t, f, ToFloat(enc[:]), "value %g", f)
	}

	nan := FromFloat(float32(math.NaN()))
	assert.True(t, math.IsNaN(float64(ToFloat(nan[:]))))
}

func TestFromFloat_ReversesNativeLayout(t *testing.T) {
	enc := FromFloat(1.0)
	assert.Equal(t, [4]byte{0x3F, 0x80, 0x00, 0x00}, enc)
}
