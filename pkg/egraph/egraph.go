package egraph

import (
	"github.com/circuitlift/circuitlift/internal/unionfind"
	"github.com/circuitlift/circuitlift/pkg/ir"
)

// EGraph is a hash-consed set of e-classes, congruence-closed by a
// union-find forest. Merge leaves the graph's hash-cons map
// (hashcons) possibly stale with respect to the most recent merges; Rebuild
// restores the invariant that any two congruent e-nodes live in the same
// class before the caller reads matches back out.
type EGraph struct {
	uf       *unionfind.UnionFind
	classes  map[unionfind.ID]*EClass
	hashcons map[uint64][]hashconsEntry
	dirty    []unionfind.ID
}

// hashconsEntry is one bucket slot: key is the exact-match tie-break for
// entries whose ENode.hash() digests collide.
type hashconsEntry struct {
	key string
	id  unionfind.ID
}

// New returns an empty e-graph.
func New() *EGraph {
	return &EGraph{
		uf:       unionfind.New(),
		classes:  make(map[unionfind.ID]*EClass),
		hashcons: make(map[uint64][]hashconsEntry),
	}
}

// lookupHashcons finds the e-class already recorded for a canonicalized
// e-node, bucketing first by its xxhash digest and tie-breaking collisions
// within the bucket by exact key() comparison.
func (g *EGraph) lookupHashcons(n ENode) (unionfind.ID, bool) {
	key := n.key()
	for _, e := range g.hashcons[n.hash()] {
		if e.key == key {
			return e.id, true
		}
	}
	return 0, false
}

// insertHashcons records a canonicalized e-node's class under its hash
// bucket.
func (g *EGraph) insertHashcons(n ENode, id unionfind.ID) {
	h := n.hash()
	g.hashcons[h] = append(g.hashcons[h], hashconsEntry{key: n.key(), id: id})
}

// Find returns the canonical e-class id that id currently belongs to.
func (g *EGraph) Find(id unionfind.ID) unionfind.ID {
	return g.uf.FindCompress(id)
}

// Class returns the e-class for a canonical id.
func (g *EGraph) Class(id unionfind.ID) *EClass {
	return g.classes[g.Find(id)]
}

// canonicalize rewrites an e-node's operands to their current canonical
// representatives, so hash-cons lookups always compare against up-to-date
// shapes.
func (g *EGraph) canonicalize(n ENode) ENode {
	if len(n.Operands) == 0 {
		return n
	}
	out := n
	out.Operands = make([]unionfind.ID, len(n.Operands))
	for i, o := range n.Operands {
		out.Operands[i] = g.Find(o)
	}
	return out
}

// AddNode inserts an e-node, returning the id of the e-class it belongs to.
// If a congruent e-node already exists, its class is returned and no new
// class is created: this is the hash-consing step that keeps structurally
// equal subterms from being duplicated.
func (g *EGraph) AddNode(n ENode) unionfind.ID {
	n = g.canonicalize(n)
	if id, ok := g.lookupHashcons(n); ok {
		return g.Find(id)
	}

	id := g.uf.MakeSet()
	g.classes[id] = &EClass{ID: id, Nodes: []ENode{n}}
	g.insertHashcons(n, id)

	for _, operand := range n.Operands {
		oc := g.classes[g.Find(operand)]
		oc.Parents = append(oc.Parents, parentEdge{node: n, id: id})
	}
	return id
}

// AddCircuit inserts every node reachable from root into the e-graph,
// returning the e-class id of root. Sharing already present in the circuit
// IR (two Operations that are the same *ir.Operation pointer) is preserved
// as sharing in the e-graph; sharing only visible after rewriting is
// discovered later by Rebuild's congruence closure.
func (g *EGraph) AddCircuit(root *ir.Operation) unionfind.ID {
	seen := make(map[ir.ID]unionfind.ID)
	var visit func(*ir.Operation) unionfind.ID
	visit = func(op *ir.Operation) unionfind.ID {
		if id, ok := seen[op.ID()]; ok {
			return id
		}
		operands := make([]unionfind.ID, len(op.Operands()))
		for i, operand := range op.Operands() {
			operands[i] = visit(operand)
		}
		n := ENode{Kind: op.Kind(), Width: op.Width(), Operands: operands}
		switch op.Kind() {
		case ir.KindInputRegister, ir.KindOutputRegister:
			n.Name = op.Name()
		case ir.KindConstant:
			n.Bits = op.ConstantValue()
		case ir.KindExtract:
			n.Low, n.High = op.ExtractBounds()
		}
		id := g.AddNode(n)
		seen[op.ID()] = id
		return id
	}
	return visit(root)
}

// Merge unions the e-classes of a and b and marks the survivor for
// recongruence in the next Rebuild. Returns the merged class id.
func (g *EGraph) Merge(a, b unionfind.ID) unionfind.ID {
	ra, rb := g.Find(a), g.Find(b)
	if ra == rb {
		return ra
	}
	merged := g.uf.Merge(ra, rb)
	loser := ra
	if merged == ra {
		loser = rb
	}
	survivor := g.classes[merged]
	dead := g.classes[loser]
	survivor.Nodes = append(survivor.Nodes, dead.Nodes...)
	survivor.Parents = append(survivor.Parents, dead.Parents...)
	delete(g.classes, loser)
	g.dirty = append(g.dirty, merged)
	return merged
}

// Rebuild restores congruence closure: for every e-class touched by a merge
// since the last Rebuild, its parent e-nodes are re-canonicalized and
// re-inserted into the hash-cons map, merging any parents that turn out to
// denote the same canonicalized shape. Rebuild is idempotent and a no-op
// when nothing is dirty.
func (g *EGraph) Rebuild() {
	for len(g.dirty) > 0 {
		todo := g.dirty
		g.dirty = nil
		seenClass := make(map[unionfind.ID]bool)
		for _, id := range todo {
			seenClass[g.Find(id)] = true
		}
		for id := range seenClass {
			g.repairClass(id)
		}
	}
}

func (g *EGraph) repairClass(id unionfind.ID) {
	class := g.classes[g.Find(id)]
	if class == nil {
		return
	}
	seen := make(map[string]unionfind.ID)
	for _, edge := range class.Parents {
		canon := g.canonicalize(edge.node)
		key := canon.key()

		if existing, ok := seen[key]; ok {
			if g.Find(existing) != g.Find(edge.id) {
				g.Merge(existing, edge.id)
			}
			continue
		}
		seen[key] = edge.id

		if existing, ok := g.lookupHashcons(canon); ok {
			if g.Find(existing) != g.Find(edge.id) {
				g.Merge(existing, edge.id)
			}
		} else {
			g.insertHashcons(canon, edge.id)
		}
	}
}

// NumClasses returns the number of distinct e-classes currently live.
func (g *EGraph) NumClasses() int { return len(g.classes) }
