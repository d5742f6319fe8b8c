package egraph_test

import (
	"testing"

	"github.com/circuitlift/circuitlift/pkg/egraph"
	"github.com/circuitlift/circuitlift/pkg/ir"
)

func TestAddCircuitHashConsesSharedSubterm(t *testing.T) {
	c := ir.NewCircuit()
	a := c.NewInputRegister("a", 8)
	sum1, err := c.Create(ir.KindAdd, 8, a, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum2, err := c.Create(ir.KindAdd, 8, a, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g := egraph.New()
	id1 := g.AddCircuit(sum1)
	id2 := g.AddCircuit(sum2)
	if g.Find(id1) != g.Find(id2) {
		t.Errorf("expected structurally identical adds to hash-cons to one class")
	}
}

func TestMergePropagatesCongruenceOnRebuild(t *testing.T) {
	c := ir.NewCircuit()
	a := c.NewInputRegister("a", 8)
	b := c.NewInputRegister("b", 8)
	sumA, err := c.Create(ir.KindAdd, 8, a, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sumB, err := c.Create(ir.KindAdd, 8, b, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g := egraph.New()
	idA := g.AddCircuit(a)
	idB := g.AddCircuit(b)
	idSumA := g.AddCircuit(sumA)
	idSumB := g.AddCircuit(sumB)

	if g.Find(idSumA) == g.Find(idSumB) {
		t.Fatalf("sums should not be congruent before a and b are merged")
	}

	g.Merge(idA, idB)
	g.Rebuild()

	if g.Find(idSumA) != g.Find(idSumB) {
		t.Errorf("expected Add(a,a) and Add(b,b) to become congruent after merging a and b")
	}
}

func TestRebuildWithNoMergesIsNoop(t *testing.T) {
	c := ir.NewCircuit()
	a := c.NewInputRegister("a", 8)
	g := egraph.New()
	g.AddCircuit(a)
	before := g.NumClasses()
	g.Rebuild()
	if g.NumClasses() != before {
		t.Errorf("expected no-op rebuild to leave class count unchanged")
	}
}
