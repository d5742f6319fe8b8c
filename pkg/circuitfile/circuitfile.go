// Package circuitfile implements circuitlift's binary IR serialization
// format: a topologically-ordered node list, each entry self-contained, with
// ids given by list position rather than by an explicit on-disk id field.
//
// The original implementation this format is modeled on emitted a
// back-reference tag ahead of every shared subterm, since its serializer
// wrote directly to a single-pass ostream and needed a way to say "this
// operand is the node N positions back" without random access. circuitlift
// requires operands be written before the nodes that reference them (the
// DAG invariant guarantees a topological order exists) and keys every
// operand reference by absolute position in the node list instead, which
// removes the need for that back-reference tag machinery entirely.
package circuitfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/circuitlift/circuitlift/pkg/ir"
)

// Magic identifies a circuitlift binary IR file.
var Magic = [4]byte{'C', 'L', 'I', 'R'}

// Version is the current on-disk format version. Readers reject any other
// version rather than guess at a compatible decoding.
const Version uint32 = 1

// SerializationError reports that a byte stream is not a well-formed circuitfile,
// distinct from the underlying io error that produced it (if any).
type SerializationError struct {
	Reason string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("circuitfile: %s", e.Reason)
}

// Write serializes the subgraph reachable from root to w, in topological
// order (every operand appears before the node that references it).
//
// Layout:
//
//	magic[4] version[u32] node_count[u32]
//	for each node, in topological order:
//	  kind[u8] width[u32] operand_count[u32] operand_index[u32]*
//	  leaf_payload (kind-dependent)
//	  meta_count[u32] (key_len[u32] key[]byte value_len[u32] value[]byte)*
//	root_index[u32]
func Write(w io.Writer, c *ir.Circuit, root *ir.Operation) error {
	bw := bufio.NewWriter(w)

	var order []*ir.Operation
	index := make(map[ir.ID]uint32)
	c.Traverse(root, func(op *ir.Operation) {
		index[op.ID()] = uint32(len(order))
		order = append(order, op)
	})

	if _, err := bw.Write(Magic[:]); err != nil {
		return err
	}
	if err := writeU32(bw, Version); err != nil {
		return err
	}
	if err := writeU32(bw, uint32(len(order))); err != nil {
		return err
	}

	for _, op := range order {
		if err := writeNode(bw, op, index); err != nil {
			return err
		}
	}

	if err := writeU32(bw, index[root.ID()]); err != nil {
		return err
	}

	return bw.Flush()
}

func writeNode(w *bufio.Writer, op *ir.Operation, index map[ir.ID]uint32) error {
	if err := w.WriteByte(byte(op.Kind())); err != nil {
		return err
	}
	if err := writeU32(w, uint32(op.Width())); err != nil {
		return err
	}
	operands := op.Operands()
	if err := writeU32(w, uint32(len(operands))); err != nil {
		return err
	}
	for _, o := range operands {
		if err := writeU32(w, index[o.ID()]); err != nil {
			return err
		}
	}

	if err := writeLeafPayload(w, op); err != nil {
		return err
	}

	keys := op.MetaKeys()
	if err := writeU32(w, uint32(len(keys))); err != nil {
		return err
	}
	for _, k := range keys {
		v, _ := op.Meta(k)
		if err := writeString(w, k); err != nil {
			return err
		}
		if err := writeString(w, v); err != nil {
			return err
		}
	}
	return nil
}

func writeLeafPayload(w *bufio.Writer, op *ir.Operation) error {
	switch op.Kind() {
	case ir.KindInputRegister, ir.KindOutputRegister:
		return writeString(w, op.Name())
	case ir.KindConstant:
		return writeString(w, op.ConstantValue().BigInt().Text(16))
	case ir.KindExtract:
		low, high := op.ExtractBounds()
		if err := writeU32(w, uint32(low)); err != nil {
			return err
		}
		return writeU32(w, uint32(high))
	default:
		return nil
	}
}

func writeU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeString(w *bufio.Writer, s string) error {
	if err := writeU32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}
