package ir

import "fmt"

// EvalError reports that Evaluate reached a leaf it had no interpretation
// for: an InputRegister/Advice/Undefined/InputInstructionBits with no entry
// in the environment passed to Evaluate.
type EvalError struct {
	Leaf *Operation
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("eval: no value bound for %s %q", e.Leaf.Kind(), e.Leaf.Name())
}

// Evaluate computes the concrete value of op under env, a binding from
// InputRegister/OutputRegister name to a ground BitVector. It is a ground
// interpreter, not a symbolic one: every leaf reachable from op must either
// be a Constant or have an entry in env, or Evaluate returns an EvalError.
// Results are memoized per node id so a DAG with shared subterms is
// evaluated once per subterm, not once per path to it.
func Evaluate(op *Operation, env map[string]*BitVector) (*BitVector, error) {
	cache := make(map[ID]*BitVector)
	return evalInternal(op, env, cache)
}

func evalInternal(op *Operation, env map[string]*BitVector, cache map[ID]*BitVector) (*BitVector, error) {
	if v, ok := cache[op.id]; ok {
		return v, nil
	}

	v, err := evalNode(op, env, cache)
	if err != nil {
		return nil, err
	}
	cache[op.id] = v
	return v, nil
}

func evalNode(op *Operation, env map[string]*BitVector, cache map[ID]*BitVector) (*BitVector, error) {
	switch op.kind {
	case KindConstant:
		return op.bits, nil

	case KindInputRegister, KindOutputRegister:
		if v, ok := env[op.name]; ok {
			return v, nil
		}
		return nil, &EvalError{Leaf: op}

	case KindAdvice, KindUndefined, KindInputInstructionBits:
		return nil, &EvalError{Leaf: op}

	case KindExtract:
		child, err := evalInternal(op.operands[0], env, cache)
		if err != nil {
			return nil, err
		}
		return child.ExtractBits(op.low, op.high), nil

	case KindNot:
		child, err := evalInternal(op.operands[0], env, cache)
		if err != nil {
			return nil, err
		}
		return child.Not(), nil

	case KindAdd:
		return evalBinary(op, env, cache, (*BitVector).Add)

	case KindAnd:
		return evalBinary(op, env, cache, (*BitVector).And)

	case KindShl:
		lhs, err := evalInternal(op.operands[0], env, cache)
		if err != nil {
			return nil, err
		}
		rhs, err := evalInternal(op.operands[1], env, cache)
		if err != nil {
			return nil, err
		}
		return lhs.Shl(uint(rhs.Uint64())), nil

	case KindLShr:
		lhs, err := evalInternal(op.operands[0], env, cache)
		if err != nil {
			return nil, err
		}
		rhs, err := evalInternal(op.operands[1], env, cache)
		if err != nil {
			return nil, err
		}
		return lhs.Lshr(uint(rhs.Uint64())), nil

	case KindIcmpEq:
		lhs, err := evalInternal(op.operands[0], env, cache)
		if err != nil {
			return nil, err
		}
		rhs, err := evalInternal(op.operands[1], env, cache)
		if err != nil {
			return nil, err
		}
		return boolBV(lhs.Eq(rhs)), nil

	case KindIcmpNe:
		lhs, err := evalInternal(op.operands[0], env, cache)
		if err != nil {
			return nil, err
		}
		rhs, err := evalInternal(op.operands[1], env, cache)
		if err != nil {
			return nil, err
		}
		return boolBV(!lhs.Eq(rhs)), nil

	case KindSelect:
		cond, err := evalInternal(op.operands[0], env, cache)
		if err != nil {
			return nil, err
		}
		branch := op.operands[2]
		if cond.IsOne() {
			branch = op.operands[1]
		}
		return evalInternal(branch, env, cache)

	case KindConcat:
		acc, err := evalInternal(op.operands[0], env, cache)
		if err != nil {
			return nil, err
		}
		for _, c := range op.operands[1:] {
			next, err := evalInternal(c, env, cache)
			if err != nil {
				return nil, err
			}
			acc = acc.Concat(next)
		}
		return acc, nil

	default:
		return nil, fmt.Errorf("eval: unsupported kind %s", op.kind)
	}
}

func evalBinary(op *Operation, env map[string]*BitVector, cache map[ID]*BitVector, f func(*BitVector, *BitVector) *BitVector) (*BitVector, error) {
	lhs, err := evalInternal(op.operands[0], env, cache)
	if err != nil {
		return nil, err
	}
	rhs, err := evalInternal(op.operands[1], env, cache)
	if err != nil {
		return nil, err
	}
	return f(lhs, rhs), nil
}

func boolBV(b bool) *BitVector {
	if b {
		return NewBitVector(1, 1)
	}
	return NewBitVector(0, 1)
}
