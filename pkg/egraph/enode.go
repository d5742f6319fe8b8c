// Package egraph implements equality saturation over the circuit IR: a
// hash-consed e-graph of e-nodes grouped into e-classes, congruence-closed
// by a union-find forest, with a rebuild protocol that restores congruence
// after a batch of merges.
package egraph

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/circuitlift/circuitlift/internal/unionfind"
	"github.com/circuitlift/circuitlift/pkg/ir"
)

// ENode is a single operator application whose operands have already been
// canonicalized to e-class ids. Two e-nodes with equal Kind, Width,
// Operands and leaf payload (register name, constant bits, extract bounds)
// are the same e-node and are hash-consed to one slot; this is
// exactly the circuit IR's Operation shape with operand *Operation pointers
// replaced by e-class ids.
type ENode struct {
	Kind     ir.Kind
	Width    uint
	Operands []unionfind.ID

	// Leaf payload, set only for the kinds that carry one.
	Name string
	Bits *ir.BitVector
	Low  uint
	High uint
}

// key returns a canonical string distinguishing this e-node's shape from
// every other shape, used as the hash-cons map key. Operand ids are already
// canonical representatives by the time an e-node is inserted, so two
// e-nodes that denote the same value after congruence closure produce equal
// keys.
func (n ENode) key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d:%d:", n.Kind, n.Width)
	for _, o := range n.Operands {
		fmt.Fprintf(&b, "%d,", o)
	}
	switch n.Kind {
	case ir.KindInputRegister, ir.KindOutputRegister:
		b.WriteString(n.Name)
	case ir.KindConstant:
		b.WriteString(n.Bits.String())
	case ir.KindExtract:
		fmt.Fprintf(&b, "%d:%d", n.Low, n.High)
	}
	return b.String()
}

// hash returns a 64-bit digest of this e-node's shape, used to pre-bucket
// candidates before the exact key() comparison, mirroring the teacher's
// xxhash-over-children fingerprint.
func (n ENode) hash() uint64 {
	h := xxhash.New()
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(n.Kind)<<32|uint64(n.Width))
	h.Write(raw)
	for _, o := range n.Operands {
		binary.BigEndian.PutUint64(raw, uint64(o))
		h.Write(raw)
	}
	h.Write([]byte(n.Name))
	if n.Bits != nil {
		h.Write([]byte(n.Bits.String()))
	}
	return h.Sum64()
}
