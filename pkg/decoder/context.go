package decoder

import (
	"fmt"

	"github.com/circuitlift/circuitlift/pkg/ir"
)

// DecodeConstraintError reports that a VerifyInstruction's decode
// conditions could not be turned into a consistent tri-state bit pattern:
// a condition is not an IcmpEq of an Extract against a Constant, two
// conditions pin the same bit to different values, the length-delimiter
// condition is missing, does not start on a byte boundary, or claims an
// encoding longer than MaxEncodingBytes.
type DecodeConstraintError struct {
	Context string
	Reason  string
}

func (e *DecodeConstraintError) Error() string {
	return fmt.Sprintf("decoder: context %q: %s", e.Context, e.Reason)
}

// Context is one instruction's decode recognition requirements: a
// tri-state bit pattern over the raw encoding, the encoding length it
// implies, and the VerifyInstruction node it was extracted from (carried
// along so a later pass can emit the semantic side of the decoder, not just
// the recognizer).
type Context struct {
	Name           string
	State          *TriState
	EncodingLength uint
	Verify         *ir.Operation
}

// ExtractContexts walks every VerifyInstruction reachable from circuit's
// root and extracts one Context per instruction, by reading the constant
// bit positions pinned by its DecodeCondition nodes.
func ExtractContexts(circuit *ir.Circuit) ([]*Context, error) {
	root := circuit.Root()
	if root == nil || root.Kind() != ir.KindCircuit {
		return nil, fmt.Errorf("decoder: circuit has no root")
	}

	var contexts []*Context
	for _, verify := range root.Operands() {
		if verify.Kind() != ir.KindVerifyInstruction {
			continue
		}
		ctx, err := extractContext(circuit, verify)
		if err != nil {
			return nil, err
		}
		contexts = append(contexts, ctx)
	}
	return contexts, nil
}

func extractContext(circuit *ir.Circuit, verify *ir.Operation) (*Context, error) {
	name, ok := verify.Meta("name")
	if !ok {
		name = fmt.Sprintf("instr_%d", verify.ID())
	}

	ctx := &Context{Name: name, State: NewTriState(), Verify: verify}
	sawLengthDelimiter := false

	for _, dc := range circuit.NodesOfKind(verify, ir.KindDecodeCondition) {
		low, high, value, err := decodeConditionBits(dc)
		if err != nil {
			return nil, &DecodeConstraintError{Context: name, Reason: err.Error()}
		}

		if high == EncodingWidth {
			if low%8 != 0 {
				return nil, &DecodeConstraintError{Context: name, Reason: "length delimiter does not start on a byte boundary"}
			}
			length := low / 8
			if length > MaxEncodingBytes {
				return nil, &DecodeConstraintError{Context: name, Reason: fmt.Sprintf("encoding length %d exceeds %d bytes", length, MaxEncodingBytes)}
			}
			ctx.EncodingLength = length
			sawLengthDelimiter = true
			continue
		}

		for i := uint(0); i < high-low; i++ {
			bit := value.Bit(i)
			abs := low + i
			if existing, pinned := ctx.State.Value(abs); pinned && existing != bit {
				return nil, &DecodeConstraintError{Context: name, Reason: fmt.Sprintf("bit %d pinned to both %d and %d", abs, existing, bit)}
			}
			ctx.State.Pin(abs, bit)
		}
	}

	if !sawLengthDelimiter {
		return nil, &DecodeConstraintError{Context: name, Reason: "no length-delimiter decode condition found"}
	}

	return ctx, nil
}

// decodeConditionBits extracts (low_inc, high_exc, constant) from a
// DecodeCondition node, expecting its child predicate to be
// IcmpEq(Extract(InputInstructionBits, low, high), Constant) in either
// operand order.
func decodeConditionBits(dc *ir.Operation) (low, high uint, value *ir.BitVector, err error) {
	pred := dc.Operand(0)
	if pred.Kind() != ir.KindIcmpEq {
		return 0, 0, nil, fmt.Errorf("decode condition predicate must be IcmpEq, got %s", pred.Kind())
	}

	var extract, constant *ir.Operation
	for _, o := range pred.Operands() {
		switch o.Kind() {
		case ir.KindExtract:
			extract = o
		case ir.KindConstant:
			constant = o
		}
	}
	if extract == nil || constant == nil {
		return 0, 0, nil, fmt.Errorf("decode condition must compare an Extract against a Constant")
	}

	low, high = extract.ExtractBounds()
	return low, high, constant.ConstantValue(), nil
}
