package egraph

import "github.com/circuitlift/circuitlift/internal/unionfind"

// EClass is the set of e-nodes known to be equivalent, plus the set of
// parent e-nodes that reference this class: the parent list is what the
// rebuild pass replays congruence checks against after a merge.
type EClass struct {
	ID      unionfind.ID
	Nodes   []ENode
	Parents []parentEdge
}

// parentEdge records that node (whose own e-class is id), at the time it was
// inserted, had one of its operands resolve to the owning e-class. Rebuild reprocesses these
// edges after every merge to detect newly-congruent parents.
type parentEdge struct {
	node ENode
	id   unionfind.ID
}
