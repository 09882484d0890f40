package galois

import "fmt"

// primPolyTab holds the conventional primitive polynomial for each field
// order m in [5,15], indexed by m-5.
var primPolyTab = []uint32{
	0x25, 0x43, 0x83, 0x11d, 0x211, 0x409, 0x805, 0x1053, 0x201b, 0x402b, 0x8003,
}

// DefaultPrimPoly returns the standard primitive polynomial for GF(2^m).
func DefaultPrimPoly(m int) (uint32, error) {
	if m < 5 || m > 15 {
		return 0, fmt.Errorf("%w: m=%d outside [5,15]", ErrInvalidParams, m)
	}
	return primPolyTab[m-5], nil
}

// Code is a binary BCH code over GF(2^m) correcting up to t bit errors.
// It holds the field tables, the generator polynomial and a persistent
// syndrome buffer reused across decodes. A Code is not safe for
// concurrent use.
type Code struct {
	field *Field

	m        int
	t        int
	n        int
	primPoly uint32
	eccBits  int
	eccBytes int

	// genLow is the generator polynomial without its leading term, laid
	// out in codeword stream order: bit j of the stream (byte j/8, mask
	// 1<<(j&7)) is the coefficient of x^(eccBits-1-j). Trailing pad bits
	// are zero.
	genLow []byte

	syn []uint32 // 2t syndromes from the last decode
}

// NewCode constructs the code for field order m, correction strength t
// and the given primitive polynomial.
func NewCode(m, t int, primPoly uint32) (*Code, error) {
	field, err := NewField(m, primPoly)
	if err != nil {
		return nil, err
	}
	n := field.Size() - 1
	if t < 1 || m*t >= n {
		return nil, fmt.Errorf("%w: t=%d too large for GF(2^%d)", ErrInvalidParams, t, m)
	}

	c := &Code{
		field:    field,
		m:        m,
		t:        t,
		n:        n,
		primPoly: primPoly,
		syn:      make([]uint32, 2*t),
	}
	if err := c.buildGenerator(); err != nil {
		return nil, err
	}
	return c, nil
}

// buildGenerator computes g(x), the product of the distinct minimal
// polynomials of alpha^1..alpha^2t, and stores its low coefficients in
// stream order.
func (c *Code) buildGenerator() error {
	f := c.field

	// g over GF(2), coefficients lowest degree first
	g := []byte{1}
	covered := make([]bool, c.n)
	for i := 1; i <= 2*c.t; i++ {
		e := i % c.n
		if e == 0 || covered[e] {
			continue
		}

		// cyclotomic coset of e: {e, 2e, 4e, ...} mod n
		var coset []int
		for j := e; ; j = j * 2 % c.n {
			if covered[j] {
				break
			}
			covered[j] = true
			coset = append(coset, j)
		}

		// minimal polynomial of alpha^e: product of (x + alpha^j) over
		// the coset, computed with field coefficients
		mp := []int{1}
		for _, j := range coset {
			next := make([]int, len(mp)+1)
			root := f.Exp(j)
			for k, coeff := range mp {
				next[k+1] ^= coeff
				next[k] ^= f.Multiply(coeff, root)
			}
			mp = next
		}

		// coefficients of a minimal polynomial land in GF(2)
		next := make([]byte, len(g)+len(mp)-1)
		for k, coeff := range mp {
			if coeff == 0 {
				continue
			}
			if coeff != 1 {
				return fmt.Errorf("%w: generator coefficient %d not binary", ErrInvalidParams, coeff)
			}
			for l, gb := range g {
				next[k+l] ^= gb
			}
		}
		g = next
	}

	c.eccBits = len(g) - 1
	c.eccBytes = (c.eccBits + 7) / 8
	if c.eccBits >= c.n {
		return fmt.Errorf("%w: %d parity bits exceed codeword length %d", ErrInvalidParams, c.eccBits, c.n)
	}

	// stream bit j <- coefficient of x^(eccBits-1-j), leading term dropped
	c.genLow = make([]byte, c.eccBytes)
	for j := 0; j < c.eccBits; j++ {
		if g[c.eccBits-1-j] != 0 {
			c.genLow[j/8] |= 1 << (j & 7)
		}
	}
	return nil
}

// M returns the field order.
func (c *Code) M() int { return c.m }

// T returns the correction strength in bits.
func (c *Code) T() int { return c.t }

// N returns the maximum codeword length in bits, 2^m - 1.
func (c *Code) N() int { return c.n }

// ECCBits returns the degree of the generator polynomial.
func (c *Code) ECCBits() int { return c.eccBits }

// ECCBytes returns the number of bytes holding the parity bits.
func (c *Code) ECCBytes() int { return c.eccBytes }

// PrimPoly returns the primitive polynomial of the field.
func (c *Code) PrimPoly() uint32 { return c.primPoly }

// Syndromes exposes the persistent syndrome buffer, updated by Decode.
func (c *Code) Syndromes() []uint32 { return c.syn }
