package circuitfile_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/circuitlift/circuitlift/pkg/circuitfile"
	"github.com/circuitlift/circuitlift/pkg/ir"
)

func TestRoundTripPreservesShapeAndMetadata(t *testing.T) {
	c := ir.NewCircuit()
	a := c.NewInputRegister("a", 8)
	b := c.NewInputRegister("b", 8)
	ext, err := c.NewExtract(a, 0, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum, err := c.Create(ir.KindAdd, 8, a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum.SetMeta("note", "shared-operand-add")
	root, err := c.Create(ir.KindConcat, 12, ext, sum)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := circuitfile.Write(&buf, c, root); err != nil {
		t.Fatalf("unexpected error writing: %v", err)
	}

	readBack, readRoot, err := circuitfile.Read(&buf)
	if err != nil {
		t.Fatalf("unexpected error reading: %v", err)
	}

	var originalShapes, readShapes []string
	c.Traverse(root, func(op *ir.Operation) {
		originalShapes = append(originalShapes, op.Kind().String())
	})
	readBack.Traverse(readRoot, func(op *ir.Operation) {
		readShapes = append(readShapes, op.Kind().String())
	})
	if diff := cmp.Diff(originalShapes, readShapes); diff != "" {
		t.Errorf("traversal shape mismatch (-original +read-back):\n%s", diff)
	}

	var sumBack *ir.Operation
	readBack.Traverse(readRoot, func(op *ir.Operation) {
		if op.Kind() == ir.KindAdd {
			sumBack = op
		}
	})
	if sumBack == nil {
		t.Fatalf("expected an Add node after round-trip")
	}
	if v, ok := sumBack.Meta("note"); !ok || v != "shared-operand-add" {
		t.Errorf("expected metadata to round-trip, got %q, %v", v, ok)
	}
}

func TestRoundTripRejectsBadMagic(t *testing.T) {
	_, _, err := circuitfile.Read(bytes.NewReader([]byte("not-a-circuitfile-at-all")))
	if err == nil {
		t.Errorf("expected an error for malformed input")
	}
}
