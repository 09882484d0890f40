package galois

import "fmt"

// Encode accumulates BCH parity over data into ecc in place. ecc must be
// exactly ECCBytes long; its incoming contents seed the division
// remainder, so chaining Encode calls over message chunks produces the
// parity of the concatenated message. An all-zero ecc starts a fresh
// message.
func (c *Code) Encode(data, ecc []byte) error {
	if len(ecc) != c.eccBytes {
		return fmt.Errorf("%w: ecc is %d bytes, want %d", ErrInvalidParams, len(ecc), c.eccBytes)
	}

	// Bit-serial polynomial division: the remainder lives in ecc using
	// the same stream layout as genLow. Each message bit enters at the
	// top; a set feedback bit subtracts the generator.
	last := c.eccBytes - 1
	for _, b := range data {
		for bit := 0; bit < 8; bit++ {
			feedback := (b>>bit)&1 ^ ecc[0]&1
			for i := 0; i < last; i++ {
				ecc[i] = ecc[i]>>1 | ecc[i+1]<<7
			}
			ecc[last] >>= 1
			if feedback != 0 {
				for i, g := range c.genLow {
					ecc[i] ^= g
				}
			}
		}
	}
	return nil
}
