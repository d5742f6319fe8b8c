// Package ir implements the circuit intermediate representation: a typed DAG
// of bit-vector operations describing the semantics of a single machine
// instruction.
package ir

import (
	"fmt"
	"math/big"
)

var (
	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
)

// BitVector is a masked arbitrary-width unsigned integer used to represent
// Constant payloads and the intermediate values produced while strength
// reducing PopCount into a balanced-tree of shifts and masks.
type BitVector struct {
	Width uint
	mask  *big.Int
	value *big.Int
}

func mask(width uint) *big.Int {
	v := big.NewInt(0)
	for i := uint(0); i < width; i++ {
		v.SetBit(v, int(i), 1)
	}
	return v
}

// NewBitVector constructs a BitVector of the given width from a signed
// integer, wrapping negative values into their two's-complement
// representation.
func NewBitVector(value int64, width uint) *BitVector {
	if width == 0 {
		return nil
	}
	m := mask(width)
	v := big.NewInt(value)
	if v.Cmp(big0) < 0 {
		v = v.Neg(v)
		v = v.Sub(v, big1)
		v = v.Sub(m, v)
		v = v.And(v, m)
	}
	return &BitVector{Width: width, mask: m, value: v}
}

// NewBitVectorFromBigInt constructs a BitVector from an arbitrary-precision
// integer, masking it to width bits.
func NewBitVectorFromBigInt(value *big.Int, width uint) *BitVector {
	if width == 0 {
		return nil
	}
	m := mask(width)
	v := new(big.Int).Set(value)
	if v.Cmp(big0) < 0 {
		v = v.Neg(v)
		v = v.Sub(v, big1)
		v = v.Sub(m, v)
		v = v.And(v, m)
	}
	v.And(v, m)
	return &BitVector{Width: width, mask: m, value: v}
}

// Copy returns a deep copy of this bit-vector.
func (bv *BitVector) Copy() *BitVector {
	return &BitVector{
		Width: bv.Width,
		mask:  new(big.Int).Set(bv.mask),
		value: new(big.Int).Set(bv.value),
	}
}

// IsZero reports whether every bit of this constant is clear.
func (bv *BitVector) IsZero() bool { return bv.value.Sign() == 0 }

// IsOne reports whether this constant equals 1.
func (bv *BitVector) IsOne() bool { return bv.value.Cmp(big1) == 0 }

// Bit returns the i'th bit (0 = least significant) of this constant.
func (bv *BitVector) Bit(i uint) uint {
	if i >= bv.Width {
		return 0
	}
	return bv.value.Bit(int(i))
}

// Uint64 returns the low 64 bits of this constant.
func (bv *BitVector) Uint64() uint64 {
	return bv.value.Uint64()
}

// BigInt returns the underlying value.
func (bv *BitVector) BigInt() *big.Int {
	return new(big.Int).Set(bv.value)
}

// Eq reports whether two bit-vectors of equal width hold the same value.
func (bv *BitVector) Eq(other *BitVector) bool {
	return bv.Width == other.Width && bv.value.Cmp(other.value) == 0
}

// And returns the bitwise AND of two equal-width bit-vectors.
func (bv *BitVector) And(other *BitVector) *BitVector {
	r := new(big.Int).And(bv.value, other.value)
	return &BitVector{Width: bv.Width, mask: bv.mask, value: r}
}

// Add returns the masked sum of two equal-width bit-vectors.
func (bv *BitVector) Add(other *BitVector) *BitVector {
	r := new(big.Int).Add(bv.value, other.value)
	r.And(r, bv.mask)
	return &BitVector{Width: bv.Width, mask: bv.mask, value: r}
}

// Shl returns this bit-vector shifted left by n bits, masked to Width.
func (bv *BitVector) Shl(n uint) *BitVector {
	r := new(big.Int).Lsh(bv.value, n)
	r.And(r, bv.mask)
	return &BitVector{Width: bv.Width, mask: bv.mask, value: r}
}

// Lshr returns this bit-vector shifted right by n bits (logical).
func (bv *BitVector) Lshr(n uint) *BitVector {
	r := new(big.Int).Rsh(bv.value, n)
	return &BitVector{Width: bv.Width, mask: bv.mask, value: r}
}

// Not returns the bitwise complement of this bit-vector, masked to Width.
func (bv *BitVector) Not() *BitVector {
	r := new(big.Int).Xor(bv.value, bv.mask)
	return &BitVector{Width: bv.Width, mask: bv.mask, value: r}
}

// Concat returns a bit-vector of width bv.Width+low.Width whose high bits
// are bv and whose low bits are low, matching the circuit IR's Concat
// operand order (first operand is most significant).
func (bv *BitVector) Concat(low *BitVector) *BitVector {
	width := bv.Width + low.Width
	r := new(big.Int).Lsh(bv.value, low.Width)
	r.Or(r, low.value)
	return NewBitVectorFromBigInt(r, width)
}

// ExtractBits returns the [low, high) bit slice of this bit-vector as a
// (high-low)-wide bit-vector.
func (bv *BitVector) ExtractBits(low, high uint) *BitVector {
	r := new(big.Int).Rsh(bv.value, low)
	return NewBitVectorFromBigInt(r, high-low)
}

// String renders the bit-vector as a sized hex literal, e.g. "0x0f:8".
func (bv *BitVector) String() string {
	return fmt.Sprintf("0x%x:%d", bv.value, bv.Width)
}

// Bits renders the bit-vector as a big-endian string of '0'/'1' characters,
// matching the encoding used by DecodeCondition constants.
func (bv *BitVector) Bits() string {
	out := make([]byte, bv.Width)
	for i := uint(0); i < bv.Width; i++ {
		if bv.value.Bit(int(bv.Width-1-i)) == 1 {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}

// alternatingMask returns the classic popcount half-adder mask for level k:
// groups of 2^k zero bits followed by 2^k one bits, repeated to fill width
// bits. This is the "m_k" constant from the PopCount strength-reduction pass.
func alternatingMask(width uint, k uint) *BitVector {
	period := uint(1) << (k + 1)
	half := uint(1) << k
	v := big.NewInt(0)
	for i := uint(0); i < width; i++ {
		if i%period < half {
			v.SetBit(v, int(i), 1)
		}
	}
	return NewBitVectorFromBigInt(v, width)
}
