package bitfield

import (
	"errors"
	"fmt"
)

// MaxWidth is the widest field that can be packed in a single call.
const MaxWidth = 32

// ErrOutOfRange is returned when a field does not fit into the target buffer
// or its offset/width are invalid.
var ErrOutOfRange = errors.New("bitfield: field out of range")

// SetField writes the low width bits of value into buf starting at bit offset.
//
// If inverted is false, bit i of value is written to absolute bit offset+i.
// If inverted is true, bit i of value is written to absolute bit
// offset+width-1-i.
//
// It returns offset+width so consecutive fields can be chained:
//
//	off, _ := bitfield.SetField(buf, a, 0, 3, false)
//	off, _ = bitfield.SetField(buf, b, off, 5, false)
//
// Bits of buf outside the field are preserved. On error buf is not modified.
func SetField(buf []byte, value uint32, offset, width int, inverted bool) (int, error) {
	if err := checkRange(buf, offset, width); err != nil {
		return offset, err
	}

	value = mask(value, width)
	for i := 0; i < width; i++ {
		pos := position(offset, width, i, inverted)
		bit := byte(1) << (pos % 8)

		if value&(1<<i) != 0 {
			buf[pos/8] |= bit
		} else {
			buf[pos/8] &^= bit
		}
	}

	return offset + width, nil
}

// GetField reads a width-bit field from buf starting at bit offset.
//
// It is the exact inverse of [SetField] with the same offset, width and
// inverted arguments.
func GetField(buf []byte, offset, width int, inverted bool) (uint32, error) {
	if err := checkRange(buf, offset, width); err != nil {
		return 0, err
	}

	var value uint32
	for i := 0; i < width; i++ {
		pos := position(offset, width, i, inverted)
		if buf[pos/8]&(1<<(pos%8)) != 0 {
			value |= 1 << i
		}
	}

	return value, nil
}

// mask returns value truncated to its low width bits.
func mask(value uint32, width int) uint32 {
	if width >= MaxWidth {
		return value
	}
	if width <= 0 {
		return 0
	}

	return value & (1<<width - 1)
}

func position(offset, width, i int, inverted bool) int {
	if inverted {
		return offset + width - 1 - i
	}

	return offset + i
}

func checkRange(buf []byte, offset, width int) error {
	switch {
	case offset < 0:
		return fmt.Errorf("%w: negative offset %d", ErrOutOfRange, offset)
	case width < 0 || width > MaxWidth:
		return fmt.Errorf("%w: width %d not in [0, %d]", ErrOutOfRange, width, MaxWidth)
	case offset > len(buf)*8-width:
		return fmt.Errorf("%w: %d bits at offset %d exceed buffer of %d bits",
			ErrOutOfRange, width, offset, len(buf)*8)
	}

	return nil
}
