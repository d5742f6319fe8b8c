package decoder_test

import (
	"strings"
	"testing"

	"github.com/circuitlift/circuitlift/pkg/decoder"
	"github.com/circuitlift/circuitlift/pkg/ir"
)

func buildContext(t *testing.T, c *ir.Circuit, name string, low, high uint, value, length uint) *ir.Operation {
	t.Helper()
	bits := c.NewInputInstructionBits(decoder.EncodingWidth)
	ext, err := c.NewExtract(bits, low, high)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	constant := c.NewConstant(ir.NewBitVector(int64(value), high-low))
	eq, err := c.Create(ir.KindIcmpEq, 1, ext, constant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dc, err := c.Create(ir.KindDecodeCondition, 1, eq)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lenExt, err := c.NewExtract(bits, length*8, decoder.EncodingWidth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lenConst := c.NewConstant(ir.NewBitVector(0, decoder.EncodingWidth-length*8))
	lenEq, err := c.Create(ir.KindIcmpEq, 1, lenExt, lenConst)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lenDC, err := c.Create(ir.KindDecodeCondition, 1, lenEq)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	verify, err := c.Create(ir.KindVerifyInstruction, 1, dc, lenDC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	verify.SetMeta("name", name)
	return verify
}

func TestExtractContextsReadsPinnedBitsAndLength(t *testing.T) {
	c := ir.NewCircuit()
	addInstr := buildContext(t, c, "add", 0, 8, 0x01, 2)
	subInstr := buildContext(t, c, "sub", 0, 8, 0x02, 2)
	root, err := c.Create(ir.KindCircuit, 1, addInstr, subInstr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.SetRoot(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	contexts, err := decoder.ExtractContexts(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contexts) != 2 {
		t.Fatalf("expected 2 contexts, got %d", len(contexts))
	}
	// add pins its low byte to 0x01 and sub to 0x02, so bit 0 is 1 and 0.
	wantBit0 := map[string]uint{"add": 1, "sub": 0}
	for _, ctx := range contexts {
		if ctx.EncodingLength != 2 {
			t.Errorf("expected encoding length 2 for %s, got %d", ctx.Name, ctx.EncodingLength)
		}
		if v, pinned := ctx.State.Value(0); !pinned || v != wantBit0[ctx.Name] {
			t.Errorf("expected bit 0 pinned to %d for %s", wantBit0[ctx.Name], ctx.Name)
		}
	}
}

func TestExtractContextsRejectsConflictingBits(t *testing.T) {
	c := ir.NewCircuit()
	bits := c.NewInputInstructionBits(decoder.EncodingWidth)

	ext1, _ := c.NewExtract(bits, 0, 8)
	dc1, _ := c.Create(ir.KindDecodeCondition, 1, mustEq(t, c, ext1, 0x01))
	ext2, _ := c.NewExtract(bits, 0, 8)
	dc2, _ := c.Create(ir.KindDecodeCondition, 1, mustEq(t, c, ext2, 0x02))

	verify, err := c.Create(ir.KindVerifyInstruction, 1, dc1, dc2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	verify.SetMeta("name", "broken")
	root, err := c.Create(ir.KindCircuit, 1, verify)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.SetRoot(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = decoder.ExtractContexts(c)
	if err == nil {
		t.Errorf("expected DecodeConstraintError for conflicting pinned bits")
	}
}

func mustEq(t *testing.T, c *ir.Circuit, ext *ir.Operation, value int64) *ir.Operation {
	t.Helper()
	constant := c.NewConstant(ir.NewBitVector(value, ext.Width()))
	eq, err := c.Create(ir.KindIcmpEq, 1, ext, constant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return eq
}

func TestBuildSelectionTreeDistinguishesContexts(t *testing.T) {
	c := ir.NewCircuit()
	addInstr := buildContext(t, c, "add", 0, 8, 0x01, 2)
	subInstr := buildContext(t, c, "sub", 0, 8, 0x02, 2)
	root, err := c.Create(ir.KindCircuit, 1, addInstr, subInstr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.SetRoot(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	contexts, err := decoder.ExtractContexts(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tree, err := decoder.BuildSelectionTree(contexts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Leaf != nil {
		t.Errorf("expected an internal node distinguishing add and sub")
	}
}

func TestBuildSelectionTreeRejectsAmbiguousContexts(t *testing.T) {
	c := ir.NewCircuit()
	a := buildContext(t, c, "a", 0, 8, 0x01, 2)
	b := buildContext(t, c, "b", 0, 8, 0x01, 2)
	root, err := c.Create(ir.KindCircuit, 1, a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.SetRoot(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	contexts, err := decoder.ExtractContexts(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = decoder.BuildSelectionTree(contexts)
	if err == nil {
		t.Errorf("expected AmbiguousContextsError for identical contexts")
	}
}

func TestEmitGoProducesDecodeFunction(t *testing.T) {
	c := ir.NewCircuit()
	addInstr := buildContext(t, c, "add", 0, 8, 0x01, 2)
	subInstr := buildContext(t, c, "sub", 0, 8, 0x02, 2)
	root, err := c.Create(ir.KindCircuit, 1, addInstr, subInstr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.SetRoot(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	contexts, err := decoder.ExtractContexts(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tree, err := decoder.BuildSelectionTree(contexts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf strings.Builder
	if err := decoder.EmitGo(&buf, "decoded", tree); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "package decoded") {
		t.Errorf("expected package clause in output")
	}
	if !strings.Contains(out, "func Decode(lo, hi uint64) (string, bool)") {
		t.Errorf("expected Decode entry point in output")
	}
	if !strings.Contains(out, `"add"`) || !strings.Contains(out, `"sub"`) {
		t.Errorf("expected both context names to appear as leaves")
	}
	if !strings.Contains(out, `return "", false`) {
		t.Errorf("expected generated leaves to verify their remaining pinned bits and report no match on failure")
	}
}
