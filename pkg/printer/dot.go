// Package printer renders a circuit IR into the output sinks circuitlift's
// CLI exposes: Graphviz DOT, SMT-LIB v2 text, and structured JSON.
package printer

import (
	"fmt"
	"io"

	"github.com/circuitlift/circuitlift/pkg/ir"
)

// WriteDot renders the subgraph reachable from root as a Graphviz DOT
// digraph, one node per Operation and one edge per operand, labeled with
// the operator's symbolic name and width.
func WriteDot(w io.Writer, c *ir.Circuit, root *ir.Operation) error {
	if _, err := fmt.Fprintln(w, "digraph circuit {"); err != nil {
		return err
	}
	var err error
	c.Traverse(root, func(op *ir.Operation) {
		if err != nil {
			return
		}
		label := nodeLabel(op)
		if _, werr := fmt.Fprintf(w, "  n%d [label=%q, shape=box];\n", op.ID(), label); werr != nil {
			err = werr
			return
		}
		for i, operand := range op.Operands() {
			if _, werr := fmt.Fprintf(w, "  n%d -> n%d [label=\"%d\"];\n", op.ID(), operand.ID(), i); werr != nil {
				err = werr
				return
			}
		}
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, "}")
	return err
}

func nodeLabel(op *ir.Operation) string {
	switch op.Kind() {
	case ir.KindInputRegister, ir.KindOutputRegister:
		return fmt.Sprintf("%s(%s):%d", op.Kind(), op.Name(), op.Width())
	case ir.KindConstant:
		return fmt.Sprintf("%s:%d", op.ConstantValue(), op.Width())
	case ir.KindExtract:
		low, high := op.ExtractBounds()
		return fmt.Sprintf("Extract[%d,%d):%d", low, high, op.Width())
	default:
		return fmt.Sprintf("%s:%d", op.Kind(), op.Width())
	}
}
