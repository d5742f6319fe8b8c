package printer

import (
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/circuitlift/circuitlift/pkg/ir"
)

// jsonNode is the wire shape one Operation is rendered as: flat, with
// operand ids rather than nested objects, so the document size is linear
// in node count rather than exponential in DAG sharing.
type jsonNode struct {
	ID       ir.ID    `json:"id"`
	Kind     string   `json:"kind"`
	Width    uint     `json:"width"`
	Operands []ir.ID  `json:"operands,omitempty"`
	Name     string   `json:"name,omitempty"`
	Constant string   `json:"constant,omitempty"`
	Low      *uint    `json:"low,omitempty"`
	High     *uint    `json:"high,omitempty"`
	Meta     []metaKV `json:"meta,omitempty"`
}

type metaKV struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type jsonCircuit struct {
	Root  ir.ID      `json:"root"`
	Nodes []jsonNode `json:"nodes"`
}

// WriteJSON renders the subgraph reachable from root as structured JSON:
// one entry per node in traversal order, referencing operands by id.
func WriteJSON(w io.Writer, c *ir.Circuit, root *ir.Operation) error {
	doc := jsonCircuit{Root: root.ID()}

	c.Traverse(root, func(op *ir.Operation) {
		node := jsonNode{
			ID:    op.ID(),
			Kind:  op.Kind().String(),
			Width: op.Width(),
		}
		for _, o := range op.Operands() {
			node.Operands = append(node.Operands, o.ID())
		}
		switch op.Kind() {
		case ir.KindInputRegister, ir.KindOutputRegister:
			node.Name = op.Name()
		case ir.KindConstant:
			node.Constant = op.ConstantValue().String()
		case ir.KindExtract:
			low, high := op.ExtractBounds()
			node.Low, node.High = &low, &high
		}
		for _, key := range op.MetaKeys() {
			value, _ := op.Meta(key)
			node.Meta = append(node.Meta, metaKV{Key: key, Value: value})
		}
		doc.Nodes = append(doc.Nodes, node)
	})

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
