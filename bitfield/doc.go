// Package bitfield packs and unpacks integer values into byte buffers at
// arbitrary bit offsets.
//
// Bit addressing is little-endian within a byte: absolute bit position p lives
// in byte p/8 at bit p%8, where bit 0 is the least significant bit.
//
// A field is written either in natural order (value bit i goes to position
// offset+i) or inverted (value bit i goes to position offset+width-1-i). The
// inverted form mirrors the bit order of the value inside its field; it does
// not change how bytes themselves are addressed.
//
// Every write is bounds-checked against the buffer capacity and fails with
// [ErrOutOfRange] before any byte is modified. Buffers produced by older tools
// that wrote past the declared end are not reinterpreted; such layouts must be
// migrated explicitly.
//
// The functions in this package are pure and safe for concurrent use on
// distinct buffers.
package bitfield
