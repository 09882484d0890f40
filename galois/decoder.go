package galois

import (
	"errors"
	"fmt"
)

// ErrUncorrectable indicates the received word carries more errors than
// the code can resolve.
var ErrUncorrectable = errors.New("galois: uncorrectable word")

// Decode derives syndromes from the supplied inputs, runs the error
// locator and writes the located bit offsets into errloc, returning how
// many were found. Offsets index the combined bit space of dataLen*8
// message bits followed by the parity bits, little-endian within a byte.
//
// Syndromes come from exactly one source: a raw syn vector of 2t
// elements, or the discrepancy between recvECC and calcECC (either may be
// nil, meaning all zeros; calcECC is recomputed from data when absent).
// The syndromes are kept in the persistent buffer exposed by Syndromes.
func (c *Code) Decode(data []byte, dataLen int, recvECC, calcECC []byte, syn []uint32, errloc []uint32) (int, error) {
	if dataLen < 0 {
		return 0, fmt.Errorf("%w: negative data length", ErrInvalidParams)
	}
	if dataLen*8+c.eccBits > c.n {
		return 0, fmt.Errorf("%w: %d message bytes exceed the %d-bit capacity of the code", ErrInvalidParams, dataLen, c.n-c.eccBits)
	}
	if len(errloc) < c.t {
		return 0, fmt.Errorf("%w: errloc holds %d locations, want %d", ErrInvalidParams, len(errloc), c.t)
	}

	switch {
	case syn != nil:
		if len(syn) != 2*c.t {
			return 0, fmt.Errorf("%w: got %d syndromes, want %d", ErrInvalidParams, len(syn), 2*c.t)
		}
		copy(c.syn, syn)
	case recvECC != nil || calcECC != nil:
		if calcECC == nil {
			if data == nil {
				return 0, fmt.Errorf("%w: no message to recompute ecc from", ErrInvalidParams)
			}
			calc := make([]byte, c.eccBytes)
			if err := c.Encode(data, calc); err != nil {
				return 0, err
			}
			calcECC = calc
		}
		if len(calcECC) != c.eccBytes || (recvECC != nil && len(recvECC) != c.eccBytes) {
			return 0, fmt.Errorf("%w: ecc length must be %d bytes", ErrInvalidParams, c.eccBytes)
		}
		c.computeSyndromes(recvECC, calcECC)
	default:
		return 0, fmt.Errorf("%w: nothing to derive syndromes from", ErrInvalidParams)
	}

	zero := true
	for _, s := range c.syn {
		if s != 0 {
			zero = false
			break
		}
	}
	if zero {
		return 0, nil
	}

	sigma := c.berlekampMassey()
	deg := len(sigma) - 1
	if deg == 0 {
		return 0, fmt.Errorf("%w: nonzero syndromes with empty locator", ErrUncorrectable)
	}
	if deg > c.t {
		return 0, fmt.Errorf("%w: locator degree %d exceeds t=%d", ErrUncorrectable, deg, c.t)
	}

	nbits := dataLen*8 + c.eccBits
	nerr := c.findRoots(sigma, nbits, errloc)
	if nerr != deg {
		return 0, fmt.Errorf("%w: %d roots for locator degree %d", ErrUncorrectable, nerr, deg)
	}
	return nerr, nil
}

// computeSyndromes fills the persistent syndrome buffer from the parity
// discrepancy recvECC xor calcECC. A received message with its recomputed
// parity forms a codeword, so the received word's syndromes equal those
// of the discrepancy alone; only the parity region needs scanning.
func (c *Code) computeSyndromes(recvECC, calcECC []byte) {
	f := c.field
	for i := range c.syn {
		c.syn[i] = 0
	}
	for j := 0; j < c.eccBits; j++ {
		diff := calcECC[j/8] >> (j & 7) & 1
		if recvECC != nil {
			diff ^= recvECC[j/8] >> (j & 7) & 1
		}
		if diff == 0 {
			continue
		}
		deg := c.eccBits - 1 - j
		for i := range c.syn {
			c.syn[i] ^= uint32(f.Exp((i + 1) * deg))
		}
	}
}

// berlekampMassey builds the error locator polynomial from the 2t
// syndromes. Coefficients are returned lowest degree first with the
// constant term fixed at 1.
func (c *Code) berlekampMassey() []int {
	f := c.field
	cur := make([]int, 1, c.t+1)
	prev := make([]int, 1, c.t+1)
	cur[0] = 1
	prev[0] = 1
	l := 0
	shift := 1
	b := 1

	for i := 0; i < 2*c.t; i++ {
		d := int(c.syn[i])
		for k := 1; k <= l && k < len(cur); k++ {
			d ^= f.Multiply(cur[k], int(c.syn[i-k]))
		}
		if d == 0 {
			shift++
			continue
		}
		coef := f.Multiply(d, f.Inverse(b))
		if 2*l <= i {
			saved := make([]int, len(cur))
			copy(saved, cur)
			cur = addShifted(f, cur, prev, coef, shift)
			l = i + 1 - l
			prev = saved
			b = d
			shift = 1
		} else {
			cur = addShifted(f, cur, prev, coef, shift)
			shift++
		}
	}

	// trim trailing zero coefficients
	deg := len(cur) - 1
	for deg > 0 && cur[deg] == 0 {
		deg--
	}
	return cur[:deg+1]
}

// addShifted returns cur + coef * x^shift * prev.
func addShifted(f *Field, cur, prev []int, coef, shift int) []int {
	out := cur
	if need := len(prev) + shift; need > len(out) {
		grown := make([]int, need)
		copy(grown, out)
		out = grown
	}
	for k, p := range prev {
		out[k+shift] ^= f.Multiply(coef, p)
	}
	return out
}

// findRoots scans every position of the nbits-wide word for roots of the
// locator polynomial and writes the matching bit offsets into errloc in
// ascending order.
func (c *Code) findRoots(sigma []int, nbits int, errloc []uint32) int {
	f := c.field
	count := 0
	for deg := nbits - 1; deg >= 0; deg-- {
		// position deg corresponds to locator root alpha^-deg
		x := f.Exp(c.n - deg%c.n)
		acc := sigma[len(sigma)-1]
		for k := len(sigma) - 2; k >= 0; k-- {
			acc = f.Multiply(acc, x) ^ sigma[k]
		}
		if acc == 0 {
			if count == len(errloc) {
				return count + 1
			}
			errloc[count] = uint32(nbits - 1 - deg)
			count++
		}
	}
	return count
}

// ComputeEvenSyndromes fills in the even-indexed syndromes of syn from
// the odd ones, in place. For binary BCH codes S_2i = S_i^2, so only the
// odd syndromes carry information. syn must have exactly 2t elements.
func (c *Code) ComputeEvenSyndromes(syn []uint32) error {
	if len(syn) != 2*c.t {
		return fmt.Errorf("%w: got %d syndromes, want %d", ErrInvalidParams, len(syn), 2*c.t)
	}
	for i := 0; i < c.t; i++ {
		syn[2*i+1] = uint32(c.field.Sqr(int(syn[i])))
	}
	return nil
}
