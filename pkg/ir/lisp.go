package ir

import (
	"fmt"
	"strings"
)

// WriteLisp renders the subgraph reachable from root as an s-expression,
// one let-bound line per node in traversal order followed by the root
// reference, e.g.:
//
//	(let ((%0 (InputRegister "rax" 64)))
//	  (let ((%1 (Extract %0 0 8)))
//	    %1))
//
// The output is meant for reading, not for re-parsing: the rewrite rule DSL
// in pkg/rewrite has no let, string or %id forms and does not accept it.
func WriteLisp(c *Circuit, root *Operation) string {
	var b strings.Builder
	depth := 0
	c.Traverse(root, func(op *Operation) {
		b.WriteString(strings.Repeat("  ", depth))
		fmt.Fprintf(&b, "(let ((%s %s))\n", ref(op), lispNode(op))
		depth++
	})
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(ref(root))
	for i := 0; i < depth; i++ {
		b.WriteString(")")
	}
	return b.String()
}

func ref(op *Operation) string {
	return fmt.Sprintf("%%%d", op.id)
}

func lispNode(op *Operation) string {
	switch op.kind {
	case KindInputRegister, KindOutputRegister:
		return fmt.Sprintf("(%s %q %d)", op.kind, op.name, op.width)
	case KindConstant:
		return fmt.Sprintf("(Constant %s)", op.bits)
	case KindAdvice, KindUndefined, KindInputInstructionBits:
		return fmt.Sprintf("(%s %d)", op.kind, op.width)
	case KindExtract:
		return fmt.Sprintf("(Extract %s %d %d)", ref(op.Operand(0)), op.low, op.high)
	default:
		parts := make([]string, len(op.operands))
		for i, o := range op.operands {
			parts[i] = ref(o)
		}
		if len(parts) == 0 {
			return fmt.Sprintf("(%s)", op.kind)
		}
		return fmt.Sprintf("(%s %s)", op.kind, strings.Join(parts, " "))
	}
}
