package ir

import (
	"fmt"
	"sort"
)

// ID is a stable, monotonically assigned, never-reused node identifier.
type ID uint32

// Operation is a single node of the circuit IR: a kind-tagged, width
// annotated value with an ordered operand list and the set of users that
// reference it. Operations are never mutated in place once created, except
// by Circuit.ReplaceAllUses redirecting operand slots during a rewrite pass.
type Operation struct {
	id       ID
	kind     Kind
	width    uint
	operands []*Operation
	users    map[ID]*Operation
	meta     map[string]string

	// Leaf / kind-specific payload. Only the fields relevant to Kind are
	// populated; see the typed accessors below.
	name  string     // InputRegister/OutputRegister name
	bits  *BitVector // Constant value
	low   uint        // Extract: low_inc
	high  uint        // Extract: high_exc
}

// ID returns this node's stable identifier.
func (op *Operation) ID() ID { return op.id }

// Kind returns this node's kind tag.
func (op *Operation) Kind() Kind { return op.kind }

// Width returns the semantic bit-vector width of the value this node
// produces.
func (op *Operation) Width() uint { return op.width }

// Operands returns the ordered operand list. Callers must not mutate the
// returned slice.
func (op *Operation) Operands() []*Operation { return op.operands }

// Operand returns the i'th operand.
func (op *Operation) Operand(i int) *Operation { return op.operands[i] }

// Users returns the set of nodes that reference this node as an operand, in
// ascending id order for deterministic iteration.
func (op *Operation) Users() []*Operation {
	ids := make([]ID, 0, len(op.users))
	for id := range op.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*Operation, len(ids))
	for i, id := range ids {
		out[i] = op.users[id]
	}
	return out
}

// Name returns the register/leaf name; only meaningful for InputRegister and
// OutputRegister.
func (op *Operation) Name() string { return op.name }

// ConstantValue returns the constant payload; only meaningful for Constant.
func (op *Operation) ConstantValue() *BitVector { return op.bits }

// ExtractBounds returns (low_inc, high_exc); only meaningful for Extract.
func (op *Operation) ExtractBounds() (uint, uint) { return op.low, op.high }

// Meta returns the metadata value stored under key, and whether it was
// present.
func (op *Operation) Meta(key string) (string, bool) {
	v, ok := op.meta[key]
	return v, ok
}

// SetMeta attaches a metadata value. Metadata never affects typing or
// semantics; it exists for diagnostics and serialization round-tripping.
func (op *Operation) SetMeta(key, value string) {
	if op.meta == nil {
		op.meta = make(map[string]string)
	}
	op.meta[key] = value
}

// MetaKeys returns the sorted metadata keys, for deterministic
// serialization.
func (op *Operation) MetaKeys() []string {
	keys := make([]string, 0, len(op.meta))
	for k := range op.meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (op *Operation) addUser(user *Operation) {
	if op.users == nil {
		op.users = make(map[ID]*Operation)
	}
	op.users[user.id] = user
}

func (op *Operation) removeUser(user *Operation) {
	delete(op.users, user.id)
}

// Circuit exclusively owns all IR nodes reachable from its root. Nodes are
// created via Circuit.Create and its typed leaf constructors; ids are
// assigned monotonically and never reused, even across ReplaceAllUses.
type Circuit struct {
	nodes  map[ID]*Operation
	nextID ID
	root   *Operation
}

// NewCircuit constructs an empty circuit with no root.
func NewCircuit() *Circuit {
	return &Circuit{nodes: make(map[ID]*Operation)}
}

// Lookup returns the node with the given id, or nil if it has never been
// created in this circuit (or has been created in a different one).
func (c *Circuit) Lookup(id ID) *Operation { return c.nodes[id] }

// Root returns the single Circuit-kind node that owns this IR, or nil if
// SetRoot has not been called yet.
func (c *Circuit) Root() *Operation { return c.root }

// SetRoot installs the circuit's root node. op must be of KindCircuit and
// must already belong to this Circuit.
func (c *Circuit) SetRoot(op *Operation) error {
	if op.kind != KindCircuit {
		return &TypingError{Kind: op.kind, Reason: "root must be a Circuit node"}
	}
	if c.nodes[op.id] != op {
		return &IRInvariantViolation{NodeID: op.id, Reason: "root does not belong to this circuit"}
	}
	c.root = op
	return nil
}

// NumNodes returns the number of nodes ever created in this circuit. Nodes
// orphaned by ReplaceAllUses stay in the node table and are still counted.
func (c *Circuit) NumNodes() int { return len(c.nodes) }

func (c *Circuit) alloc(kind Kind, width uint, operands []*Operation) *Operation {
	op := &Operation{
		id:       c.nextID,
		kind:     kind,
		width:    width,
		operands: operands,
	}
	c.nextID++
	c.nodes[op.id] = op
	for _, operand := range operands {
		operand.addUser(op)
	}
	return op
}

// Create appends a new node of the given kind, width and operands to this
// circuit, validating the kind-specific typing rule first. On failure no
// node is created and operand user sets are left untouched.
func (c *Circuit) Create(kind Kind, width uint, operands ...*Operation) (*Operation, error) {
	if err := typecheck(kind, width, operands); err != nil {
		return nil, err
	}
	return c.alloc(kind, width, operands), nil
}

// ReplaceAllUses rewrites every operand slot across the circuit that
// currently points at old to instead point at new. old becomes orphaned
// (reachable only if it is still explicitly listed as an operand somewhere,
// which after this call it no longer is, or if it is the circuit root).
func (c *Circuit) ReplaceAllUses(old, new *Operation) error {
	if old == new {
		return nil
	}
	for _, user := range old.Users() {
		changed := false
		for i, operand := range user.operands {
			if operand == old {
				user.operands[i] = new
				changed = true
			}
		}
		if changed {
			new.addUser(user)
			old.removeUser(user)
		}
	}
	return nil
}

// Traverse performs a DFS over the DAG reachable from root, visiting each
// node exactly once (unique-visit guard), in post-order (operands before the
// node that references them). visit has no way to prune the traversal.
func (c *Circuit) Traverse(root *Operation, visit func(*Operation)) {
	visited := make(map[ID]bool)
	var walk func(*Operation)
	walk = func(op *Operation) {
		if visited[op.id] {
			return
		}
		visited[op.id] = true
		for _, operand := range op.operands {
			walk(operand)
		}
		visit(op)
	}
	walk(root)
}

// NodesOfKind returns every node of the given kind reachable from root, in
// the order Traverse would visit them. This is the attr<Kind>() iterator
// from the component design.
func (c *Circuit) NodesOfKind(root *Operation, kind Kind) []*Operation {
	var out []*Operation
	c.Traverse(root, func(op *Operation) {
		if op.kind == kind {
			out = append(out, op)
		}
	})
	return out
}

// ---------------------------------------------------------------------------
// Typed constructors
// ---------------------------------------------------------------------------

// NewInputRegister creates an InputRegister leaf.
func (c *Circuit) NewInputRegister(name string, width uint) *Operation {
	op := c.alloc(KindInputRegister, width, nil)
	op.name = name
	return op
}

// NewOutputRegister creates an OutputRegister leaf.
func (c *Circuit) NewOutputRegister(name string, width uint) *Operation {
	op := c.alloc(KindOutputRegister, width, nil)
	op.name = name
	return op
}

// NewConstant creates a Constant leaf carrying the given bit-vector value.
func (c *Circuit) NewConstant(value *BitVector) *Operation {
	op := c.alloc(KindConstant, value.Width, nil)
	op.bits = value
	return op
}

// NewAdvice creates an Advice leaf: a nondeterministic oracle input used as
// a rewrite target.
func (c *Circuit) NewAdvice(width uint) *Operation {
	return c.alloc(KindAdvice, width, nil)
}

// NewUndefined creates an Undefined leaf.
func (c *Circuit) NewUndefined(width uint) *Operation {
	return c.alloc(KindUndefined, width, nil)
}

// NewInputInstructionBits creates the raw instruction-encoding leaf. width
// is normally 120.
func (c *Circuit) NewInputInstructionBits(width uint) *Operation {
	return c.alloc(KindInputInstructionBits, width, nil)
}

// NewExtract creates an Extract(low_inc, high_exc) node over operand.
func (c *Circuit) NewExtract(operand *Operation, low, high uint) (*Operation, error) {
	if high < low {
		return nil, &TypingError{Kind: KindExtract, Reason: "high_exc < low_inc"}
	}
	if high > operand.width {
		return nil, &TypingError{Kind: KindExtract, Reason: "high_exc exceeds operand width"}
	}
	op := c.alloc(KindExtract, high-low, []*Operation{operand})
	op.low, op.high = low, high
	return op, nil
}

func validShiftAndLogic(kind Kind, operands []*Operation, width uint) error {
	for _, o := range operands {
		if o.width != width {
			return &TypingError{Kind: kind, Reason: fmt.Sprintf("operand width %d does not match result width %d", o.width, width)}
		}
	}
	return nil
}
