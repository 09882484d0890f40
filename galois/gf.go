// Package galois implements the Galois-field core of a binary BCH code:
// field tables, generator polynomial construction, parity accumulation,
// syndrome computation and the error locator.
package galois

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrInvalidParams indicates a rejected field or decode parameter.
var ErrInvalidParams = errors.New("galois: invalid parameters")

// Field represents GF(2^m) built from a primitive polynomial.
type Field struct {
	expTable  []int
	logTable  []int
	size      int
	primitive uint32
	m         int
}

// NewField creates GF(2^m) using the given primitive polynomial. The
// polynomial must have degree m and generate the full multiplicative
// group.
func NewField(m int, primitive uint32) (*Field, error) {
	if m < 5 || m > 15 {
		return nil, fmt.Errorf("%w: m=%d outside [5,15]", ErrInvalidParams, m)
	}
	if bits.Len32(primitive)-1 != m {
		return nil, fmt.Errorf("%w: polynomial 0x%x does not have degree %d", ErrInvalidParams, primitive, m)
	}
	size := 1 << m
	f := &Field{
		primitive: primitive,
		size:      size,
		m:         m,
		expTable:  make([]int, size),
		logTable:  make([]int, size),
	}

	x := 1
	for i := 0; i < size-1; i++ {
		if x == 1 && i > 0 {
			return nil, fmt.Errorf("%w: polynomial 0x%x is not primitive", ErrInvalidParams, primitive)
		}
		f.expTable[i] = x
		f.logTable[x] = i
		x *= 2
		if x >= size {
			x ^= int(primitive)
			x &= size - 1
		}
	}
	if x != 1 {
		return nil, fmt.Errorf("%w: polynomial 0x%x is not primitive", ErrInvalidParams, primitive)
	}
	f.expTable[size-1] = 1

	return f, nil
}

// Exp returns alpha^a in this field. a may be any non-negative exponent.
func (f *Field) Exp(a int) int {
	return f.expTable[a%(f.size-1)]
}

// Log returns the discrete log of a.
func (f *Field) Log(a int) int {
	if a == 0 {
		panic("galois: log(0)")
	}
	return f.logTable[a]
}

// Multiply returns a * b in this field.
func (f *Field) Multiply(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return f.expTable[(f.logTable[a]+f.logTable[b])%(f.size-1)]
}

// Inverse returns the multiplicative inverse of a.
func (f *Field) Inverse(a int) int {
	if a == 0 {
		panic("galois: inverse(0)")
	}
	return f.expTable[f.size-1-f.logTable[a]]
}

// Sqr returns a squared in this field.
func (f *Field) Sqr(a int) int {
	if a == 0 {
		return 0
	}
	return f.expTable[(2*f.logTable[a])%(f.size-1)]
}

// Size returns the number of field elements, 2^m.
func (f *Field) Size() int { return f.size }

// String returns a string representation.
func (f *Field) String() string {
	return fmt.Sprintf("GF(0x%x,%d)", f.primitive, f.size)
}
