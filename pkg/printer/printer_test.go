package printer_test

import (
	"strings"
	"testing"

	"github.com/circuitlift/circuitlift/pkg/ir"
	"github.com/circuitlift/circuitlift/pkg/printer"
)

func buildSmallCircuit(t *testing.T) (*ir.Circuit, *ir.Operation) {
	t.Helper()
	c := ir.NewCircuit()
	a := c.NewInputRegister("a", 8)
	b := c.NewInputRegister("b", 8)
	sum, err := c.Create(ir.KindAdd, 8, a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c, sum
}

func TestWriteDotProducesValidDigraph(t *testing.T) {
	c, root := buildSmallCircuit(t)
	var buf strings.Builder
	if err := printer.WriteDot(&buf, c, root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "digraph circuit {") {
		t.Errorf("expected digraph header, got %q", out[:30])
	}
	if !strings.Contains(out, "->") {
		t.Errorf("expected at least one edge")
	}
}

func TestWriteSMTDeclaresLeavesAndAssertsRoot(t *testing.T) {
	c := ir.NewCircuit()
	a := c.NewInputRegister("a", 1)
	dc, err := c.Create(ir.KindDecodeCondition, 1, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf strings.Builder
	if err := printer.WriteSMT(&buf, c, dc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "declare-fun") {
		t.Errorf("expected a leaf declaration")
	}
	if !strings.Contains(out, "(assert (=") {
		t.Errorf("expected a final assertion")
	}
}

func TestWriteJSONRoundTripsNodeCount(t *testing.T) {
	c, root := buildSmallCircuit(t)
	var buf strings.Builder
	if err := printer.WriteJSON(&buf, c, root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"kind": "Add"`) {
		t.Errorf("expected Add node in JSON output, got %s", out)
	}
	if strings.Count(out, `"id":`) != 3 {
		t.Errorf("expected 3 nodes (a, b, sum), got: %s", out)
	}
}
