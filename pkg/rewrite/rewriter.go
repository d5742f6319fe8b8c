package rewrite

import (
	"fmt"

	"github.com/circuitlift/circuitlift/internal/unionfind"
	"github.com/circuitlift/circuitlift/pkg/egraph"
	"github.com/circuitlift/circuitlift/pkg/ir"
)

// SaturationBudgetExceeded reports that Saturate ran out of fuel before
// reaching a fixpoint. The e-graph is left in whatever state the last
// completed round produced; it is safe to keep using, just not guaranteed
// saturated.
type SaturationBudgetExceeded struct {
	Rounds int
}

func (e *SaturationBudgetExceeded) Error() string {
	return fmt.Sprintf("rewrite: saturation budget exceeded after %d rounds", e.Rounds)
}

// ApplyRule matches rule.LHS against each e-class listed in classes and,
// for each match, builds rule.RHS under that match's bindings and merges it
// into the matched e-class. It returns the number of merges performed.
func ApplyRule(rule *Rule, g *egraph.EGraph, classes []unionfind.ID) (int, error) {
	merges := 0
	for _, root := range classes {
		for _, m := range Match(rule.LHS, g, root) {
			built, err := build(rule.RHS, g, m.Places)
			if err != nil {
				return merges, err
			}
			before := g.Find(m.Root)
			after := g.Find(built)
			if before != after {
				g.Merge(m.Root, built)
				merges++
			}
		}
	}
	return merges, nil
}

// build constructs an e-node tree for pattern under the given place
// bindings, inserting every node via AddNode (hash-consing it against
// whatever already exists) and returning the resulting e-class id.
func build(pattern *Pattern, g *egraph.EGraph, places map[string]unionfind.ID) (unionfind.ID, error) {
	switch pattern.tag {
	case tagPlace:
		id, ok := places[pattern.name]
		if !ok {
			return 0, &PatternError{Reason: fmt.Sprintf("unbound place %s while building replacement", pattern.name)}
		}
		return id, nil

	case tagConstant:
		if pattern.constAny {
			return 0, &PatternError{Reason: "wildcard constant _ cannot appear on a rule's right-hand side"}
		}
		return g.AddNode(egraph.ENode{
			Kind:  ir.KindConstant,
			Width: pattern.constValue.Width,
			Bits:  pattern.constValue,
		}), nil

	case tagOperation:
		operands := make([]unionfind.ID, len(pattern.children))
		for i, c := range pattern.children {
			id, err := build(c, g, places)
			if err != nil {
				return 0, err
			}
			operands[i] = id
		}
		return g.AddNode(egraph.ENode{Kind: pattern.kind, Operands: operands}), nil

	default:
		return 0, &PatternError{Reason: "unsupported pattern form on right-hand side"}
	}
}

// Saturate repeatedly applies every rule in rules to every e-class until no
// rule produces a new merge (a fixpoint, meaning the e-graph is saturated
// with respect to these rules) or maxRounds is exhausted, in which case
// SaturationBudgetExceeded is returned alongside the partially-saturated
// graph.
func Saturate(rules []*Rule, g *egraph.EGraph, roots []unionfind.ID, maxRounds int) error {
	for round := 0; round < maxRounds; round++ {
		classes := allClasses(g, roots)
		total := 0
		for _, rule := range rules {
			n, err := ApplyRule(rule, g, classes)
			if err != nil {
				return err
			}
			total += n
		}
		g.Rebuild()
		if total == 0 {
			return nil
		}
	}
	return &SaturationBudgetExceeded{Rounds: maxRounds}
}

// allClasses returns every e-class reachable from roots, deduplicated by
// canonical id.
func allClasses(g *egraph.EGraph, roots []unionfind.ID) []unionfind.ID {
	seen := make(map[unionfind.ID]bool)
	var out []unionfind.ID
	var walk func(unionfind.ID)
	walk = func(id unionfind.ID) {
		id = g.Find(id)
		if seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
		class := g.Class(id)
		if class == nil {
			return
		}
		for _, n := range class.Nodes {
			for _, o := range n.Operands {
				walk(o)
			}
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return out
}
