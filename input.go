package bchgo

// inputMode identifies which combination of decode inputs was supplied.
type inputMode int

const (
	modeNone inputMode = iota
	modeDataAndECC
	modeECCPair
	modeCalcECC
	modeSyndromes
)

// Input selects one of the four ways a decode can obtain syndromes. Values
// are built with the With* constructors; the zero Input carries no
// information and is rejected by Decode.
type Input struct {
	mode    inputMode
	data    []byte
	recvECC []byte
	calcECC []byte
	syn     []uint32
	dataLen int
}

// WithDataAndECC decodes message bytes against the ecc received with them.
// The decoder recomputes parity over data and compares it to recvECC.
func WithDataAndECC(data, recvECC []byte) Input {
	return Input{mode: modeDataAndECC, data: data, recvECC: recvECC, dataLen: len(data)}
}

// WithECCPair decodes from the discrepancy between received and recomputed
// parity, without the message bytes themselves. dataLen is the message
// length in bytes, used to place error bits in the combined bit space.
func WithECCPair(dataLen int, recvECC, calcECC []byte) Input {
	return Input{mode: modeECCPair, recvECC: recvECC, calcECC: calcECC, dataLen: dataLen}
}

// WithCalcECC decodes from recomputed parity alone, equivalent to
// WithECCPair with an all-zero received ecc.
func WithCalcECC(dataLen int, calcECC []byte) Input {
	return Input{mode: modeCalcECC, calcECC: calcECC, dataLen: dataLen}
}

// WithSyndromes decodes from a raw syndrome vector of exactly 2t elements,
// bypassing syndrome computation. The vector is copied into the engine's
// persistent syndrome buffer before the locator runs.
func WithSyndromes(dataLen int, syn []uint32) Input {
	return Input{mode: modeSyndromes, syn: syn, dataLen: dataLen}
}
