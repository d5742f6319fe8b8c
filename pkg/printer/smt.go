package printer

import (
	"fmt"
	"io"

	"github.com/circuitlift/circuitlift/pkg/ir"
)

// WriteSMT renders the subgraph reachable from root as SMT-LIB v2 text: a
// declare-fun per non-constant leaf, a define-fun per constant and per
// operator, and a final assertion that the root predicate holds. No solver
// is invoked; this package only produces the textual query a downstream
// SMT-LIB consumer would read.
func WriteSMT(w io.Writer, c *ir.Circuit, root *ir.Operation) error {
	var err error
	declared := make(map[ir.ID]bool)

	write := func(format string, args ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, args...)
	}

	c.Traverse(root, func(op *ir.Operation) {
		if declared[op.ID()] {
			return
		}
		declared[op.ID()] = true

		switch op.Kind() {
		case ir.KindInputRegister, ir.KindOutputRegister:
			write("(declare-fun %s () (_ BitVec %d))\n", smtRef(op), op.Width())
		case ir.KindAdvice, ir.KindUndefined, ir.KindInputInstructionBits:
			write("(declare-fun %s () (_ BitVec %d))\n", smtRef(op), op.Width())
		case ir.KindConstant:
			write("(define-fun %s () (_ BitVec %d) %s)\n", smtRef(op), op.Width(), smtLiteral(op.ConstantValue()))
		default:
			write("(define-fun %s () (_ BitVec %d) %s)\n", smtRef(op), op.Width(), smtTerm(op))
		}
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "(assert (= %s #b1))\n", smtRef(root))
	return err
}

func smtRef(op *ir.Operation) string {
	return fmt.Sprintf("t%d", op.ID())
}

func smtLiteral(bv *ir.BitVector) string {
	return fmt.Sprintf("#b%s", bv.Bits())
}

var smtBinOp = map[ir.Kind]string{
	ir.KindAdd: "bvadd", ir.KindSub: "bvsub", ir.KindMul: "bvmul",
	ir.KindAnd: "bvand", ir.KindOr: "bvor", ir.KindXor: "bvxor",
	ir.KindShl: "bvshl", ir.KindLShr: "bvlshr", ir.KindAShr: "bvashr",
	ir.KindIcmpUlt: "bvult", ir.KindIcmpUle: "bvule",
	ir.KindIcmpSlt: "bvslt", ir.KindIcmpSle: "bvsle",
}

func smtTerm(op *ir.Operation) string {
	if name, ok := smtBinOp[op.Kind()]; ok {
		return fmt.Sprintf("(%s %s %s)", name, smtRef(op.Operand(0)), smtRef(op.Operand(1)))
	}
	switch op.Kind() {
	case ir.KindNot:
		return fmt.Sprintf("(bvnot %s)", smtRef(op.Operand(0)))
	case ir.KindIcmpEq:
		return fmt.Sprintf("(ite (= %s %s) #b1 #b0)", smtRef(op.Operand(0)), smtRef(op.Operand(1)))
	case ir.KindIcmpNe:
		return fmt.Sprintf("(ite (= %s %s) #b0 #b1)", smtRef(op.Operand(0)), smtRef(op.Operand(1)))
	case ir.KindSelect:
		return fmt.Sprintf("(ite (= %s #b1) %s %s)", smtRef(op.Operand(0)), smtRef(op.Operand(1)), smtRef(op.Operand(2)))
	case ir.KindConcat:
		return concatTerm(op)
	case ir.KindExtract:
		low, high := op.ExtractBounds()
		return fmt.Sprintf("((_ extract %d %d) %s)", high-1, low, smtRef(op.Operand(0)))
	case ir.KindZExt:
		return fmt.Sprintf("((_ zero_extend %d) %s)", op.Width()-op.Operand(0).Width(), smtRef(op.Operand(0)))
	case ir.KindSExt:
		return fmt.Sprintf("((_ sign_extend %d) %s)", op.Width()-op.Operand(0).Width(), smtRef(op.Operand(0)))
	case ir.KindParity:
		return fmt.Sprintf("(bvxor %s)", smtRef(op.Operand(0)))
	case ir.KindPopCount:
		return fmt.Sprintf("(_popcount %s)", smtRef(op.Operand(0)))
	case ir.KindDecodeCondition, ir.KindRegConstraint:
		return smtRef(op.Operand(0))
	case ir.KindVerifyInstruction:
		return conjunction(op)
	default:
		return fmt.Sprintf("; unsupported operator %s\n(_ unsupported %d)", op.Kind(), op.Width())
	}
}

func concatTerm(op *ir.Operation) string {
	operands := op.Operands()
	term := smtRef(operands[0])
	for _, o := range operands[1:] {
		term = fmt.Sprintf("(concat %s %s)", term, smtRef(o))
	}
	return term
}

func conjunction(op *ir.Operation) string {
	operands := op.Operands()
	term := smtRef(operands[0])
	for _, o := range operands[1:] {
		term = fmt.Sprintf("(ite (= %s #b1) %s #b0)", term, smtRef(o))
	}
	return term
}
