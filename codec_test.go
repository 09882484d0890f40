package bchgo

import (
	"bytes"
	"errors"
	"testing"
)

func newTestCodec(t *testing.T, cfg Config) *Codec {
	t.Helper()
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New(%+v) failed: %v", cfg, err)
	}
	return c
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Config{T: 4}); !errors.Is(err, ErrConfig) {
		t.Errorf("neither m nor polynomial: err = %v, want ErrConfig", err)
	}
	if _, err := New(Config{M: 5, Poly: 0x25}); !errors.Is(err, ErrConfig) {
		t.Errorf("t=0: err = %v, want ErrConfig", err)
	}
	if _, err := New(Config{T: 12, M: 5}); !errors.Is(err, ErrConfig) {
		t.Errorf("t too large for field: err = %v, want ErrConfig", err)
	}
	if _, err := New(Config{T: 4, M: 6, Poly: 0x25}); !errors.Is(err, ErrConfig) {
		t.Errorf("m/polynomial mismatch: err = %v, want ErrConfig", err)
	}
}

func TestDerivedParameters(t *testing.T) {
	// m from the polynomial's highest set bit
	c := newTestCodec(t, Config{T: 4, Poly: 0x25})
	if c.M() != 5 {
		t.Errorf("M() = %d, want 5", c.M())
	}

	// polynomial from m
	c = newTestCodec(t, Config{T: 16, M: 13})
	if c.PrimPoly() != 0x201b {
		t.Errorf("PrimPoly() = 0x%x, want 0x201b", c.PrimPoly())
	}
	if c.N() != 8191 {
		t.Errorf("N() = %d, want 8191", c.N())
	}
}

func TestEncodeIdempotent(t *testing.T) {
	c := newTestCodec(t, Config{T: 4, M: 8})
	data := []byte("same in, same out")
	ecc1, err := c.Encode(data, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	ecc2, err := c.Encode(data, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(ecc1, ecc2) {
		t.Errorf("ecc differs between identical encodes: %x vs %x", ecc1, ecc2)
	}
	if len(ecc1) != c.ECCBytes() {
		t.Errorf("len(ecc) = %d, want %d", len(ecc1), c.ECCBytes())
	}
}

func TestEncodeRejectsWrongPrevECCLength(t *testing.T) {
	c := newTestCodec(t, Config{T: 4, M: 8})
	if _, err := c.Encode([]byte("x"), make([]byte, c.ECCBytes()+1)); !errors.Is(err, ErrECCLength) {
		t.Errorf("err = %v, want ErrECCLength", err)
	}
}

func TestEncodeChainsThroughPrevECC(t *testing.T) {
	c := newTestCodec(t, Config{T: 4, M: 8})
	msg := []byte("split across two encode calls")

	whole, err := c.Encode(msg, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	first, err := c.Encode(msg[:9], nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	chained, err := c.Encode(msg[9:], first)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(whole, chained) {
		t.Errorf("chained ecc = %x, want %x", chained, whole)
	}
}

// The t=4 GF(2^5) code: a 1-byte message plus 20 parity bits fills the
// 31-bit codeword to 28 bits. Every flipped offset from the first message
// bit to the last parity bit is located and corrected exactly.
func TestSingleBitRoundTrip(t *testing.T) {
	c := newTestCodec(t, Config{T: 4, M: 5, Poly: 0x25})
	if c.ECCBytes() != 3 {
		t.Fatalf("ECCBytes() = %d, want 3", c.ECCBytes())
	}

	data := []byte{0x12}
	ecc, err := c.Encode(data, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// 0 and 27 are the first and last valid offsets
	for _, off := range []uint32{0, 6, 10, 27} {
		corrupt := append([]byte(nil), data...)
		recv := append([]byte(nil), ecc...)
		if off < 8 {
			corrupt[0] ^= 1 << off
		} else {
			recv[off/8-1] ^= 1 << (off & 7)
		}

		nerr, err := c.Decode(WithDataAndECC(corrupt, recv))
		if err != nil {
			t.Fatalf("bit %d: Decode failed: %v", off, err)
		}
		if nerr != 1 {
			t.Fatalf("bit %d: nerr = %d, want 1", off, nerr)
		}
		if loc := c.ErrLoc(); len(loc) != 1 || loc[0] != off {
			t.Fatalf("bit %d: ErrLoc() = %v, want [%d]", off, loc, off)
		}

		if err := c.Correct(NewBuffer(corrupt), NewBuffer(recv)); err != nil {
			t.Fatalf("bit %d: Correct failed: %v", off, err)
		}
		if !bytes.Equal(corrupt, data) {
			t.Errorf("bit %d: data = %x, want %x", off, corrupt, data)
		}
		if !bytes.Equal(recv, ecc) {
			t.Errorf("bit %d: ecc = %x, want %x", off, recv, ecc)
		}
	}
}

func TestDecodeRejectsOversizedMessage(t *testing.T) {
	// 2 message bytes plus 20 parity bits exceed the 31-bit codeword
	c := newTestCodec(t, Config{T: 4, M: 5, Poly: 0x25})
	data := []byte{0x12, 0x34}
	if _, err := c.Decode(WithDataAndECC(data, make([]byte, c.ECCBytes()))); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("data mode: err = %v, want ErrInvalidParams", err)
	}
	if _, err := c.Decode(WithSyndromes(2, make([]uint32, 8))); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("syndrome mode: err = %v, want ErrInvalidParams", err)
	}
}

func TestECCRegionCorrection(t *testing.T) {
	c := newTestCodec(t, Config{T: 4, M: 5, Poly: 0x25})
	data := []byte{0x12}
	ecc, err := c.Encode(data, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	recv := append([]byte(nil), ecc...)
	recv[1] ^= 0x10 // absolute bit offset 20, inside the ecc region

	nerr, err := c.Decode(WithDataAndECC(data, recv))
	if err != nil || nerr != 1 {
		t.Fatalf("Decode: nerr=%d err=%v, want 1, nil", nerr, err)
	}
	if loc := c.ErrLoc(); loc[0] != 20 {
		t.Fatalf("ErrLoc() = %v, want [20]", loc)
	}

	// writable ecc gets repaired
	work := append([]byte(nil), data...)
	if err := c.Correct(NewBuffer(work), NewBuffer(recv)); err != nil {
		t.Fatalf("Correct failed: %v", err)
	}
	if !bytes.Equal(recv, ecc) {
		t.Errorf("ecc = %x, want %x", recv, ecc)
	}
	if !bytes.Equal(work, data) {
		t.Errorf("data changed: %x, want %x", work, data)
	}
}

func TestECCRegionSkippedWhenAbsentOrReadOnly(t *testing.T) {
	c := newTestCodec(t, Config{T: 4, M: 5, Poly: 0x25})
	data := []byte{0x12}
	ecc, err := c.Encode(data, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	recv := append([]byte(nil), ecc...)
	recv[1] ^= 0x10

	if nerr, err := c.Decode(WithDataAndECC(data, recv)); err != nil || nerr != 1 {
		t.Fatalf("Decode: nerr=%d err=%v", nerr, err)
	}

	// no ecc buffer: message-only correction is a valid use
	work := append([]byte(nil), data...)
	if err := c.Correct(NewBuffer(work), nil); err != nil {
		t.Fatalf("Correct without ecc failed: %v", err)
	}
	if !bytes.Equal(work, data) {
		t.Errorf("data changed: %x, want %x", work, data)
	}

	// read-only ecc: the flip is skipped, not an error
	frozen := append([]byte(nil), recv...)
	if err := c.Correct(NewBuffer(work), NewReadOnlyBuffer(frozen)); err != nil {
		t.Fatalf("Correct with read-only ecc failed: %v", err)
	}
	if !bytes.Equal(frozen, recv) {
		t.Errorf("read-only ecc mutated: %x", frozen)
	}
}

func TestCorrectRejectsShortECCBuffer(t *testing.T) {
	c := newTestCodec(t, Config{T: 4, M: 5, Poly: 0x25})
	data := []byte{0x12}
	ecc, err := c.Encode(data, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	recv := append([]byte(nil), ecc...)
	recv[1] ^= 0x10
	if nerr, err := c.Decode(WithDataAndECC(data, recv)); err != nil || nerr != 1 {
		t.Fatalf("Decode: nerr=%d err=%v", nerr, err)
	}

	work := append([]byte(nil), data...)
	if err := c.Correct(NewBuffer(work), NewBuffer([]byte{0})); !errors.Is(err, ErrECCLength) {
		t.Fatalf("err = %v, want ErrECCLength", err)
	}
	if !bytes.Equal(work, data) {
		t.Errorf("data mutated before length check: %x", work)
	}
}

func TestCorrectRejectsReadOnlyData(t *testing.T) {
	c := newTestCodec(t, Config{T: 4, M: 5, Poly: 0x25})
	data := []byte{0x12}
	ecc, err := c.Encode(data, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	corrupt := append([]byte(nil), data...)
	corrupt[0] ^= 0x40
	if _, err := c.Decode(WithDataAndECC(corrupt, ecc)); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	before := append([]byte(nil), corrupt...)
	err = c.Correct(NewReadOnlyBuffer(corrupt), NewBuffer(ecc))
	if !errors.Is(err, ErrReadOnlyBuffer) {
		t.Fatalf("err = %v, want ErrReadOnlyBuffer", err)
	}
	if !bytes.Equal(corrupt, before) {
		t.Errorf("read-only data mutated: %x", corrupt)
	}
}

func TestDecodeSyndromeArity(t *testing.T) {
	c := newTestCodec(t, Config{T: 4, M: 5, Poly: 0x25})
	if _, err := c.Decode(WithSyndromes(1, make([]uint32, 7))); !errors.Is(err, ErrSyndromeCount) {
		t.Errorf("err = %v, want ErrSyndromeCount", err)
	}

	// correct arity, all zeros: clean word
	nerr, err := c.Decode(WithSyndromes(1, make([]uint32, 8)))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if nerr != 0 {
		t.Errorf("nerr = %d, want 0", nerr)
	}
}

func TestDecodeRejectsEmptyInput(t *testing.T) {
	c := newTestCodec(t, Config{T: 4, M: 5, Poly: 0x25})
	if _, err := c.Decode(Input{}); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("err = %v, want ErrInvalidParams", err)
	}
}

func TestDecodeECCLengthChecks(t *testing.T) {
	c := newTestCodec(t, Config{T: 4, M: 5, Poly: 0x25})
	short := make([]byte, c.ECCBytes()-1)
	good := make([]byte, c.ECCBytes())
	if _, err := c.Decode(WithDataAndECC([]byte{1}, short)); !errors.Is(err, ErrECCLength) {
		t.Errorf("recv ecc: err = %v, want ErrECCLength", err)
	}
	if _, err := c.Decode(WithECCPair(1, good, short)); !errors.Is(err, ErrECCLength) {
		t.Errorf("calc ecc: err = %v, want ErrECCLength", err)
	}
	if _, err := c.Decode(WithCalcECC(1, short)); !errors.Is(err, ErrECCLength) {
		t.Errorf("calc-only ecc: err = %v, want ErrECCLength", err)
	}
}

func TestDecodeModesAgree(t *testing.T) {
	c := newTestCodec(t, Config{T: 4, M: 8})
	data := []byte("four roads, one syndrome")
	ecc, err := c.Encode(data, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	corrupt := append([]byte(nil), data...)
	corrupt[3] ^= 0x08 // bit 27

	nerr, err := c.Decode(WithDataAndECC(corrupt, ecc))
	if err != nil || nerr != 1 {
		t.Fatalf("data mode: nerr=%d err=%v", nerr, err)
	}
	wantLoc := c.ErrLoc()
	wantSyn := c.Syn()

	calc, err := c.Encode(corrupt, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	nerr, err = c.Decode(WithECCPair(len(data), ecc, calc))
	if err != nil || nerr != 1 {
		t.Fatalf("ecc-pair mode: nerr=%d err=%v", nerr, err)
	}
	if got := c.ErrLoc(); got[0] != wantLoc[0] {
		t.Errorf("ecc-pair mode located bit %d, want %d", got[0], wantLoc[0])
	}

	nerr, err = c.Decode(WithSyndromes(len(data), wantSyn))
	if err != nil || nerr != 1 {
		t.Fatalf("syndrome mode: nerr=%d err=%v", nerr, err)
	}
	if got := c.ErrLoc(); got[0] != wantLoc[0] {
		t.Errorf("syndrome mode located bit %d, want %d", got[0], wantLoc[0])
	}
}

func TestCalcECCOnlyMode(t *testing.T) {
	c := newTestCodec(t, Config{T: 4, M: 8})
	data := []byte("implicit zero recv ecc")

	// a word whose received ecc is all zeros: syndromes derive from the
	// recomputed parity alone
	calc, err := c.Encode(data, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	zero := make([]byte, c.ECCBytes())
	nerrPair, err := c.Decode(WithECCPair(len(data), zero, calc))
	if err != nil {
		t.Fatalf("ecc-pair decode failed: %v", err)
	}
	nerrCalc, err := c.Decode(WithCalcECC(len(data), calc))
	if err != nil {
		t.Fatalf("calc-only decode failed: %v", err)
	}
	if nerrCalc != nerrPair {
		t.Errorf("calc-only nerr = %d, ecc-pair nerr = %d", nerrCalc, nerrPair)
	}
}

func TestUncorrectableIsSentinelNotError(t *testing.T) {
	c := newTestCodec(t, Config{T: 2, M: 8})
	data := []byte("weight over t!!!")
	ecc, err := c.Encode(data, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	corrupt := append([]byte(nil), data...)

	// syndromes no correctable pattern can produce: S1 = 0 but S3 != 0
	nerr, err := c.Decode(WithSyndromes(len(data), []uint32{0, 0, 5, 0}))
	if err != nil {
		t.Fatalf("Decode returned error %v, want nerr sentinel", err)
	}
	if nerr != -1 {
		t.Fatalf("nerr = %d, want -1", nerr)
	}
	if c.NErr() != -1 {
		t.Errorf("NErr() = %d, want -1", c.NErr())
	}
	if loc := c.ErrLoc(); len(loc) != 0 {
		t.Errorf("ErrLoc() = %v, want empty", loc)
	}

	// correction after an uncorrectable decode is a no-op
	before := append([]byte(nil), corrupt...)
	if err := c.Correct(NewBuffer(corrupt), NewBuffer(ecc)); err != nil {
		t.Fatalf("Correct failed: %v", err)
	}
	if !bytes.Equal(corrupt, before) {
		t.Errorf("no-op correction mutated data")
	}
}

func TestSwapBitsRoundTrip(t *testing.T) {
	c := newTestCodec(t, Config{T: 4, M: 8, SwapBits: true})
	data := []byte("msb-first firmware dump")
	ecc, err := c.Encode(data, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	corrupt := append([]byte(nil), data...)
	corrupt[1] ^= 0x04
	nerr, err := c.Decode(WithDataAndECC(corrupt, ecc))
	if err != nil || nerr != 1 {
		t.Fatalf("Decode: nerr=%d err=%v", nerr, err)
	}
	// caller bit 2 of byte 1 is engine bit 5 of byte 1
	if loc := c.ErrLoc(); loc[0] != 13 {
		t.Errorf("ErrLoc() = %v, want [13]", loc)
	}

	if err := c.Correct(NewBuffer(corrupt), NewBuffer(ecc)); err != nil {
		t.Fatalf("Correct failed: %v", err)
	}
	if !bytes.Equal(corrupt, data) {
		t.Errorf("data = %x, want %x", corrupt, data)
	}
}

func TestAccessorsBeforeFirstDecode(t *testing.T) {
	c := newTestCodec(t, Config{T: 4, M: 5, Poly: 0x25})
	if syn := c.Syn(); len(syn) != 0 {
		t.Errorf("Syn() = %v before first decode, want empty", syn)
	}
	if loc := c.ErrLoc(); len(loc) != 0 {
		t.Errorf("ErrLoc() = %v before first decode, want empty", loc)
	}
	if c.NErr() != 0 {
		t.Errorf("NErr() = %d before first decode, want 0", c.NErr())
	}
	if c.T() != 4 || c.M() != 5 || c.N() != 31 || c.ECCBits() != 20 {
		t.Errorf("geometry = t=%d m=%d n=%d eccBits=%d", c.T(), c.M(), c.N(), c.ECCBits())
	}
}

func TestComputeEvenSyndromes(t *testing.T) {
	c := newTestCodec(t, Config{T: 4, M: 8})
	data := []byte("derive the evens")
	ecc, err := c.Encode(data, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	corrupt := append([]byte(nil), data...)
	corrupt[4] ^= 0x01
	if _, err := c.Decode(WithDataAndECC(corrupt, ecc)); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	full := c.Syn()

	odds := append([]uint32(nil), full...)
	for i := 0; i < c.T(); i++ {
		odds[2*i+1] = 0
	}
	got, err := c.ComputeEvenSyndromes(odds)
	if err != nil {
		t.Fatalf("ComputeEvenSyndromes failed: %v", err)
	}
	for i := range got {
		if got[i] != full[i] {
			t.Errorf("syn[%d] = %d, want %d", i, got[i], full[i])
		}
	}
	// input untouched, session state untouched
	if odds[1] != 0 {
		t.Errorf("input mutated: %v", odds)
	}
	if s := c.Syn(); s[0] != full[0] {
		t.Errorf("session syndromes mutated")
	}

	if _, err := c.ComputeEvenSyndromes(make([]uint32, 5)); !errors.Is(err, ErrSyndromeCount) {
		t.Errorf("arity: err = %v, want ErrSyndromeCount", err)
	}
}
