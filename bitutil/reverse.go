// Package bitutil provides bit manipulation utilities for codec
// processing: per-byte bit reversal and bit-offset addressing.
package bitutil

import "math/bits"

// Reversed returns a copy of b with the bit order reversed within each
// byte. Byte order is unchanged.
func Reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[i] = bits.Reverse8(v)
	}
	return out
}

// ReverseInPlace reverses the bit order within each byte of b.
func ReverseInPlace(b []byte) {
	for i, v := range b {
		b[i] = bits.Reverse8(v)
	}
}

// ByteMask splits an absolute bit offset into a byte index and the mask
// selecting the bit within that byte. Bit numbering is little-endian
// within a byte: offset 0 is bit 0x01 of byte 0.
func ByteMask(offset uint32) (int, byte) {
	return int(offset / 8), 1 << (offset & 7)
}
