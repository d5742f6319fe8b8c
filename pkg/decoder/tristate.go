// Package decoder synthesizes a greedy bit-selection decision tree that
// recognizes which per-instruction decode context a raw instruction
// encoding belongs to, and emits it as Go source.
package decoder

import "github.com/bits-and-blooms/bitset"

// EncodingWidth is the width, in bits, of the raw instruction encoding
// contexts are decoded against.
const EncodingWidth = 120

// MaxEncodingBytes bounds the byte length a single context's
// length-delimiter may claim. Sixteen bytes (128 bits) would overrun
// EncodingWidth, so fifteen is the largest length that still fits.
const MaxEncodingBytes = 15

// TriState tracks, for one decode context, which of the EncodingWidth bits
// are pinned to 0, pinned to 1, or irrelevant (Ignore) to recognizing that
// context. Zeros and Ones are always disjoint; any bit absent from both is
// implicitly Ignore.
type TriState struct {
	Zeros *bitset.BitSet
	Ones  *bitset.BitSet
}

// NewTriState returns a TriState with every bit initially Ignore.
func NewTriState() *TriState {
	return &TriState{
		Zeros: bitset.New(EncodingWidth),
		Ones:  bitset.New(EncodingWidth),
	}
}

// Pin fixes bit i to value (0 or 1).
func (t *TriState) Pin(i uint, value uint) {
	if value == 0 {
		t.Zeros.Set(i)
		t.Ones.Clear(i)
	} else {
		t.Ones.Set(i)
		t.Zeros.Clear(i)
	}
}

// IsIgnore reports whether bit i is unconstrained.
func (t *TriState) IsIgnore(i uint) bool {
	return !t.Zeros.Test(i) && !t.Ones.Test(i)
}

// Value returns (0, true) or (1, true) if bit i is pinned, or (0, false) if
// it is Ignore.
func (t *TriState) Value(i uint) (uint, bool) {
	if t.Zeros.Test(i) {
		return 0, true
	}
	if t.Ones.Test(i) {
		return 1, true
	}
	return 0, false
}

// IgnoreMask returns the bits that are Ignore, as a bitset with one bit set
// per ignored position.
func (t *TriState) IgnoreMask() *bitset.BitSet {
	pinned := t.Zeros.Union(t.Ones)
	ignore := bitset.New(EncodingWidth)
	for i := uint(0); i < EncodingWidth; i++ {
		if !pinned.Test(i) {
			ignore.Set(i)
		}
	}
	return ignore
}

// PinnedBits returns, in ascending order, the bit indices this TriState
// pins to 0 or 1. It is the complement of IgnoreMask: every bit not pinned
// is Ignore and carries no recognition requirement.
func (t *TriState) PinnedBits() []uint {
	ignore := t.IgnoreMask()
	var bits []uint
	for i := uint(0); i < EncodingWidth; i++ {
		if !ignore.Test(i) {
			bits = append(bits, i)
		}
	}
	return bits
}
