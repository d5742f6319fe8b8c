package rewrite

import (
	"github.com/circuitlift/circuitlift/internal/unionfind"
	"github.com/circuitlift/circuitlift/pkg/egraph"
)

// MatchResult is one way a Pattern's LHS matched a subterm rooted at Root,
// together with the e-class each place was bound to.
type MatchResult struct {
	Root   unionfind.ID
	Places map[string]unionfind.ID
}

// Match finds every way pattern matches some e-node in the e-class rooted
// at root, returning one MatchResult per match. Results are buffered into a
// slice rather than streamed: saturation passes need the full match set
// before they start rewriting, since a rewrite can itself create new
// matches that a lazy generator would race against.
func Match(pattern *Pattern, g *egraph.EGraph, root unionfind.ID) []MatchResult {
	var out []MatchResult
	places := make(map[string]unionfind.ID)
	matchInto(pattern, g, root, places, func(bound map[string]unionfind.ID) {
		out = append(out, MatchResult{Root: g.Find(root), Places: copyPlaces(bound)})
	})
	return out
}

func copyPlaces(places map[string]unionfind.ID) map[string]unionfind.ID {
	out := make(map[string]unionfind.ID, len(places))
	for k, v := range places {
		out[k] = v
	}
	return out
}

// matchInto attempts to match pattern against the e-class id, calling emit
// once for every successful binding of places. Bindings made while matching
// pattern's children are visible to later siblings (Go map passed by
// reference), and are rolled back before matchInto returns so sibling
// alternatives at a higher level don't see a previous alternative's
// bindings.
func matchInto(pattern *Pattern, g *egraph.EGraph, id unionfind.ID, places map[string]unionfind.ID, emit func(map[string]unionfind.ID)) {
	id = g.Find(id)

	switch pattern.tag {
	case tagPlace:
		if bound, ok := places[pattern.name]; ok {
			if g.Find(bound) == id {
				emit(places)
			}
			return
		}
		places[pattern.name] = id
		emit(places)
		delete(places, pattern.name)

	case tagConstant:
		class := g.Class(id)
		if class == nil {
			return
		}
		for _, n := range class.Nodes {
			if n.Bits == nil {
				continue
			}
			if pattern.constAny || n.Bits.Eq(pattern.constValue) {
				emit(places)
			}
		}

	case tagOperation:
		class := g.Class(id)
		if class == nil {
			return
		}
		for _, n := range class.Nodes {
			if n.Kind != pattern.kind || len(n.Operands) != len(pattern.children) {
				continue
			}
			matchChildren(pattern.children, g, n.Operands, places, emit)
		}

	case tagLabel:
		// label patterns are rejected at compile time; unreachable.
	}
}

// matchChildren matches an operation pattern's child patterns against the
// corresponding operand e-classes, left to right, threading the shared
// bindings map so a repeated place is checked for equality against its
// earlier occurrence rather than rebound.
func matchChildren(patterns []*Pattern, g *egraph.EGraph, operands []unionfind.ID, places map[string]unionfind.ID, emit func(map[string]unionfind.ID)) {
	if len(patterns) == 0 {
		emit(places)
		return
	}
	matchInto(patterns[0], g, operands[0], places, func(bound map[string]unionfind.ID) {
		matchChildren(patterns[1:], g, operands[1:], bound, emit)
	})
}
