// Package bchgo implements session-oriented BCH error correction: encode
// computes parity over a message, decode locates bit errors from a
// message/ecc pair or from raw syndromes, and correct applies the located
// flips in place.
package bchgo

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/ericlevine/bchgo/bitutil"
	"github.com/ericlevine/bchgo/galois"
)

// Engine is the Galois-field core a Codec delegates to. The default engine
// is galois.Code; tests and hardware offload can substitute their own.
type Engine interface {
	M() int
	T() int
	N() int
	ECCBits() int
	ECCBytes() int
	PrimPoly() uint32

	// Encode accumulates parity over data into ecc in place. ecc must be
	// exactly ECCBytes long.
	Encode(data, ecc []byte) error

	// Decode derives syndromes from whichever of data/recvECC/calcECC/syn
	// is non-nil, runs the error locator, and writes bit offsets into
	// errloc. It returns the number of located errors,
	// galois.ErrUncorrectable when the word cannot be decoded, or
	// galois.ErrInvalidParams on malformed inputs.
	Decode(data []byte, dataLen int, recvECC, calcECC []byte, syn []uint32, errloc []uint32) (int, error)

	// ComputeEvenSyndromes fills in the even-indexed syndromes of syn from
	// the odd ones, in place.
	ComputeEvenSyndromes(syn []uint32) error

	// Syndromes exposes the engine's persistent syndrome buffer of length
	// 2t, updated by every Decode.
	Syndromes() []uint32
}

// Config holds the code parameters for a Codec. T is required; at least
// one of M and Poly must be set. A missing M is derived from Poly's
// highest set bit, a missing Poly from the standard primitive polynomial
// for M.
type Config struct {
	// T is the maximum number of correctable bit errors.
	T int

	// M is the Galois field order; the field is GF(2^M).
	M int

	// Poly is the primitive polynomial of the field.
	Poly uint32

	// SwapBits reverses the bit order within each data byte on the way in
	// and out of the engine.
	SwapBits bool
}

// Codec is a BCH codec session. It owns one engine plus the decode state
// (error locations and count) consumed by a following Correct. A Codec is
// not safe for concurrent use; callers must serialize operations on it.
type Codec struct {
	engine   Engine
	swapBits bool

	t        int
	eccBytes int

	errloc  []uint32 // capacity t, reused across decodes
	nerr    int
	dataLen int // message bytes covered by the last decode
	decoded bool
}

// New constructs a Codec for the given configuration.
func New(cfg Config) (*Codec, error) {
	if cfg.T <= 0 {
		return nil, fmt.Errorf("%w: t must be positive", ErrConfig)
	}
	m := cfg.M
	poly := cfg.Poly
	if m == 0 && poly == 0 {
		return nil, fmt.Errorf("%w: either m or polynomial required", ErrConfig)
	}
	if m == 0 {
		m = bits.Len32(poly) - 1
	}
	if poly == 0 {
		p, err := galois.DefaultPrimPoly(m)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		poly = p
	}
	code, err := galois.NewCode(m, cfg.T, poly)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return NewFromEngine(code, cfg.SwapBits), nil
}

// NewFromEngine constructs a Codec around an existing engine.
func NewFromEngine(e Engine, swapBits bool) *Codec {
	return &Codec{
		engine:   e,
		swapBits: swapBits,
		t:        e.T(),
		eccBytes: e.ECCBytes(),
		errloc:   make([]uint32, e.T()),
	}
}

// Encode computes ecc bytes for data. A non-nil prevECC seeds the parity
// accumulator, so encoding a message in chunks chained through prevECC
// equals encoding the concatenation. prevECC must be exactly ECCBytes
// long when present.
func (c *Codec) Encode(data, prevECC []byte) ([]byte, error) {
	ecc := make([]byte, c.eccBytes)
	if prevECC != nil {
		if len(prevECC) != c.eccBytes {
			return nil, fmt.Errorf("%w: ecc is %d bytes, want %d", ErrECCLength, len(prevECC), c.eccBytes)
		}
		copy(ecc, prevECC)
	}
	if c.swapBits {
		data = bitutil.Reversed(data)
	}
	if err := c.engine.Encode(data, ecc); err != nil {
		return nil, err
	}
	return ecc, nil
}

// Decode locates bit errors from in and records them as session state for
// a following Correct. It returns the number of located errors, or -1
// when the word is uncorrectable (too many errors); -1 is a normal
// outcome, not an error. Located offsets index the combined bit space of
// message bits followed by ecc bits, little-endian within each byte.
func (c *Codec) Decode(in Input) (int, error) {
	var data []byte
	switch in.mode {
	case modeDataAndECC:
		if len(in.recvECC) != c.eccBytes {
			return 0, fmt.Errorf("%w: recv ecc is %d bytes, want %d", ErrECCLength, len(in.recvECC), c.eccBytes)
		}
		data = in.data
		if c.swapBits {
			data = bitutil.Reversed(data)
		}
	case modeECCPair:
		if len(in.recvECC) != c.eccBytes {
			return 0, fmt.Errorf("%w: recv ecc is %d bytes, want %d", ErrECCLength, len(in.recvECC), c.eccBytes)
		}
		if len(in.calcECC) != c.eccBytes {
			return 0, fmt.Errorf("%w: calc ecc is %d bytes, want %d", ErrECCLength, len(in.calcECC), c.eccBytes)
		}
	case modeCalcECC:
		if len(in.calcECC) != c.eccBytes {
			return 0, fmt.Errorf("%w: calc ecc is %d bytes, want %d", ErrECCLength, len(in.calcECC), c.eccBytes)
		}
	case modeSyndromes:
		if len(in.syn) != 2*c.t {
			return 0, fmt.Errorf("%w: got %d syndromes, want %d", ErrSyndromeCount, len(in.syn), 2*c.t)
		}
	default:
		return 0, fmt.Errorf("%w: empty decode input", ErrInvalidParams)
	}

	nerr, err := c.engine.Decode(data, in.dataLen, in.recvECC, in.calcECC, in.syn, c.errloc)
	if err != nil {
		switch {
		case errors.Is(err, galois.ErrUncorrectable):
			nerr = -1
		case errors.Is(err, galois.ErrInvalidParams):
			return 0, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		default:
			return 0, err
		}
	}
	c.nerr = nerr
	c.dataLen = in.dataLen
	c.decoded = true
	return nerr, nil
}

// Correct applies the bit flips located by the last Decode. Errors in the
// message region are flipped in data; errors in the ecc region are
// flipped in ecc when it is present and writable, and skipped otherwise
// (message-only correction is valid). A read-only data buffer is rejected
// outright. After an uncorrectable decode (NErr() < 0) Correct is a
// no-op. Buffer lengths are validated against the session geometry and no
// buffer byte is modified before all located offsets pass the bounds
// check.
func (c *Codec) Correct(data, ecc *Buffer) error {
	if data != nil && data.IsReadOnly() {
		return fmt.Errorf("%w: data", ErrReadOnlyBuffer)
	}
	if c.nerr <= 0 {
		return nil
	}
	if data != nil && data.Len() < c.dataLen {
		return fmt.Errorf("%w: data is %d bytes, want at least %d", ErrInvalidParams, data.Len(), c.dataLen)
	}
	if ecc != nil && ecc.Len() != c.eccBytes {
		return fmt.Errorf("%w: ecc is %d bytes, want %d", ErrECCLength, ecc.Len(), c.eccBytes)
	}

	msgBits := c.dataLen * 8
	limit := (c.dataLen + c.eccBytes) * 8
	for _, loc := range c.errloc[:c.nerr] {
		if int(loc) >= limit {
			return fmt.Errorf("%w: bit %d outside %d-bit space", ErrBitRange, loc, limit)
		}
		if int(loc) < msgBits && data == nil {
			return fmt.Errorf("%w: no data buffer for message bit %d", ErrInvalidParams, loc)
		}
	}

	if c.swapBits && data != nil {
		bitutil.ReverseInPlace(data.Bytes())
		defer bitutil.ReverseInPlace(data.Bytes())
	}
	for _, loc := range c.errloc[:c.nerr] {
		if int(loc) < msgBits {
			i, mask := bitutil.ByteMask(loc)
			data.Bytes()[i] ^= mask
		} else if ecc != nil && !ecc.IsReadOnly() {
			i, mask := bitutil.ByteMask(loc)
			ecc.Bytes()[i-c.dataLen] ^= mask
		}
	}
	return nil
}

// ComputeEvenSyndromes derives the even-indexed syndromes that accompany
// the given odd ones. syn must have exactly 2t elements; the result is a
// new slice and session state is untouched.
func (c *Codec) ComputeEvenSyndromes(syn []uint32) ([]uint32, error) {
	if len(syn) != 2*c.t {
		return nil, fmt.Errorf("%w: got %d syndromes, want %d", ErrSyndromeCount, len(syn), 2*c.t)
	}
	out := make([]uint32, len(syn))
	copy(out, syn)
	if err := c.engine.ComputeEvenSyndromes(out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetDataLen sets the message length in bytes used to split located bit
// offsets between the message and ecc regions. Decode sets it from its
// input; this override exists for callers that correct against state
// assembled out of band.
func (c *Codec) SetDataLen(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative data length", ErrInvalidParams)
	}
	c.dataLen = n
	return nil
}

// DataLen returns the message length in bytes covered by the last decode.
func (c *Codec) DataLen() int { return c.dataLen }

// T returns the maximum number of correctable bit errors.
func (c *Codec) T() int { return c.t }

// M returns the Galois field order.
func (c *Codec) M() int { return c.engine.M() }

// N returns the maximum codeword length in bits, 2^m - 1.
func (c *Codec) N() int { return c.engine.N() }

// ECCBits returns the number of parity bits.
func (c *Codec) ECCBits() int { return c.engine.ECCBits() }

// ECCBytes returns the number of bytes holding the parity bits.
func (c *Codec) ECCBytes() int { return c.eccBytes }

// PrimPoly returns the primitive polynomial of the field.
func (c *Codec) PrimPoly() uint32 { return c.engine.PrimPoly() }

// NErr returns the error count from the last decode: a non-negative count
// of located errors, or -1 when the word was uncorrectable.
func (c *Codec) NErr() int { return c.nerr }

// ErrLoc returns the bit offsets located by the last decode. It is empty
// before the first decode and after an uncorrectable one.
func (c *Codec) ErrLoc() []uint32 {
	if c.nerr <= 0 {
		return []uint32{}
	}
	out := make([]uint32, c.nerr)
	copy(out, c.errloc[:c.nerr])
	return out
}

// Syn returns a copy of the engine's persistent syndrome vector. It is
// empty before the first decode.
func (c *Codec) Syn() []uint32 {
	if !c.decoded {
		return []uint32{}
	}
	syn := c.engine.Syndromes()
	out := make([]uint32, len(syn))
	copy(out, syn)
	return out
}
