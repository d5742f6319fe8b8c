package rewrite

import (
	"testing"

	"github.com/circuitlift/circuitlift/internal/unionfind"
	"github.com/circuitlift/circuitlift/pkg/egraph"
	"github.com/circuitlift/circuitlift/pkg/ir"
)

func TestApplyRuleMergesAddZeroToIdentity(t *testing.T) {
	rules, err := ParseRules(`(rule add-zero (Add ?x (const 0 8)) => ?x)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := ir.NewCircuit()
	a := c.NewInputRegister("a", 8)
	zero := c.NewConstant(ir.NewBitVector(0, 8))
	sum, err := c.Create(ir.KindAdd, 8, a, zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g := egraph.New()
	idA := g.AddCircuit(a)
	idSum := g.AddCircuit(sum)

	n, err := ApplyRule(rules[0], g, []unionfind.ID{idSum})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 merge, got %d", n)
	}
	g.Rebuild()

	if g.Find(idSum) != g.Find(idA) {
		t.Errorf("expected Add(a, 0) to be merged into a's e-class")
	}
}

func TestSaturateReachesFixpoint(t *testing.T) {
	rules, err := ParseRules(`(rule add-zero (Add ?x (const 0 8)) => ?x)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := ir.NewCircuit()
	a := c.NewInputRegister("a", 8)
	zero := c.NewConstant(ir.NewBitVector(0, 8))
	sum, err := c.Create(ir.KindAdd, 8, a, zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g := egraph.New()
	idSum := g.AddCircuit(sum)
	idA := g.AddCircuit(a)

	if err := Saturate(rules, g, []unionfind.ID{idSum}, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Find(idSum) != g.Find(idA) {
		t.Errorf("expected saturation to merge Add(a, 0) with a")
	}
}

func TestSaturateBudgetExceededBeforeFixpoint(t *testing.T) {
	// The first round of Not(x) => Not(Not(x)) always performs a merge, so
	// a fixpoint needs at least a second, merge-free round. With a budget
	// of one round, Saturate must stop and report the exhausted budget.
	rules, err := ParseRules(`(rule double-negate (Not ?x) => (Not (Not ?x)))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := ir.NewCircuit()
	a := c.NewInputRegister("a", 1)
	notA, err := c.Create(ir.KindNot, 1, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g := egraph.New()
	idNotA := g.AddCircuit(notA)

	err = Saturate(rules, g, []unionfind.ID{idNotA}, 1)
	if _, ok := err.(*SaturationBudgetExceeded); !ok {
		t.Errorf("expected SaturationBudgetExceeded, got %v", err)
	}
}
