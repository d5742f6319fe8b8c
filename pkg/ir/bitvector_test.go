package ir_test

import (
	"testing"

	"github.com/circuitlift/circuitlift/pkg/ir"
)

func TestBitVectorString(t *testing.T) {
	bv := ir.NewBitVector(-1294871, 32)
	if bv.String() != "0xffec3de9:32" {
		t.Errorf("incorrect bitvector: %s", bv)
	}
}

func TestBitVectorAdd(t *testing.T) {
	bv1 := ir.NewBitVector(-10, 32)
	bv2 := ir.NewBitVector(128, 32)
	sum := bv1.Add(bv2)
	if sum.Uint64() != 118 {
		t.Errorf("incorrect sum: %d", sum.Uint64())
	}
}

func TestBitVectorBitEndianness(t *testing.T) {
	bv := ir.NewBitVector(0b1010, 4)
	if bv.Bit(0) != 0 || bv.Bit(1) != 1 || bv.Bit(2) != 0 || bv.Bit(3) != 1 {
		t.Errorf("incorrect bit layout for %s", bv.Bits())
	}
}

func TestBitVectorIsZeroIsOne(t *testing.T) {
	if !ir.NewBitVector(0, 8).IsZero() {
		t.Errorf("expected zero")
	}
	if !ir.NewBitVector(1, 8).IsOne() {
		t.Errorf("expected one")
	}
}

func TestBitVectorShlMasksToWidth(t *testing.T) {
	bv := ir.NewBitVector(0x0f, 8)
	shifted := bv.Shl(4)
	if shifted.Uint64() != 0xf0 {
		t.Errorf("expected 0xf0, got 0x%x", shifted.Uint64())
	}
	shifted = bv.Shl(8)
	if shifted.Uint64() != 0 {
		t.Errorf("expected overflow to mask away, got 0x%x", shifted.Uint64())
	}
}
