// Package unionfind implements a disjoint-set forest over dense integer
// ids, the union-by-rank-with-path-halving structure the e-graph uses to
// track which e-nodes have been merged into the same e-class.
package unionfind

// ID identifies a set element. Ids are dense and allocated by MakeSet in
// order starting at 0.
type ID int32

// UnionFind is a union-by-rank disjoint-set forest with path halving on
// Find. Merge always points to a canonical representative, not to whichever
// argument happened to be passed first, so repeated merges stay cheap.
type UnionFind struct {
	parent []ID
	rank   []uint8
}

// New returns an empty union-find forest.
func New() *UnionFind {
	return &UnionFind{}
}

// MakeSet allocates a new singleton set and returns its id.
func (uf *UnionFind) MakeSet() ID {
	id := ID(len(uf.parent))
	uf.parent = append(uf.parent, id)
	uf.rank = append(uf.rank, 0)
	return id
}

// Len returns the number of elements ever allocated via MakeSet.
func (uf *UnionFind) Len() int { return len(uf.parent) }

// Find returns the canonical representative of id's set without modifying
// the forest.
func (uf *UnionFind) Find(id ID) ID {
	for uf.parent[id] != id {
		id = uf.parent[id]
	}
	return id
}

// FindCompress returns the canonical representative of id's set, applying
// path halving: every node visited is repointed at its grandparent, which
// keeps amortized Find cost near-constant without the bookkeeping of full
// path compression.
func (uf *UnionFind) FindCompress(id ID) ID {
	for uf.parent[id] != id {
		uf.parent[id] = uf.parent[uf.parent[id]]
		id = uf.parent[id]
	}
	return id
}

// Merge unions the sets containing a and b, using union by rank, and
// returns the resulting canonical representative. Merge is a no-op, and
// returns the shared representative, if a and b are already in the same
// set.
func (uf *UnionFind) Merge(a, b ID) ID {
	ra, rb := uf.FindCompress(a), uf.FindCompress(b)
	if ra == rb {
		return ra
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
	return ra
}

// Connected reports whether a and b are in the same set.
func (uf *UnionFind) Connected(a, b ID) bool {
	return uf.Find(a) == uf.Find(b)
}
