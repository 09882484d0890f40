package bchgo

import "errors"

var (
	// ErrConfig is returned when a codec cannot be constructed from the
	// given parameters.
	ErrConfig = errors.New("invalid code configuration")

	// ErrECCLength is returned when a supplied ecc buffer does not match
	// the code's fixed ecc size.
	ErrECCLength = errors.New("ecc length mismatch")

	// ErrSyndromeCount is returned when a syndrome sequence does not have
	// exactly 2t elements.
	ErrSyndromeCount = errors.New("syndrome count mismatch")

	// ErrReadOnlyBuffer is returned when a correction targets a buffer
	// that is missing or marked read-only.
	ErrReadOnlyBuffer = errors.New("buffer is read-only")

	// ErrBitRange is returned when a located error bit lies outside the
	// message-plus-ecc bit space.
	ErrBitRange = errors.New("error location out of range")

	// ErrInvalidParams is returned when the decoder rejects its inputs.
	ErrInvalidParams = errors.New("invalid parameters")
)
