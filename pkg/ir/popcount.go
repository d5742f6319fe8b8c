package ir

// FoldPopCountToParity rewrites every occurrence of a PopCount's low bit
// back into Parity(x), the cheaper primitive it is equivalent to. Two
// syntactic shapes are recognized, both matched purely by kind and operand
// structure: the bare low bit, Extract(PopCount(x), 0, 1), and the low bit
// compared for truth, Icmp_eq(PopCount(x) & 1, 1), where the "& 1" mask may
// itself be spelled as And(PopCount(x), Constant(1, width)) or as
// Extract(PopCount(x), 0, 1). The comparison shape is matched and replaced
// as a whole, so a circuit built around "is the parity bit set" collapses
// straight to Parity(x) rather than leaving a redundant Icmp_eq(Parity(x),
// 1) behind.
func FoldPopCountToParity(c *Circuit, root *Operation) error {
	for _, eq := range c.NodesOfKind(root, KindIcmpEq) {
		x, ok := matchPopCountEqualsOne(eq)
		if !ok {
			continue
		}
		parity, err := c.Create(KindParity, 1, x)
		if err != nil {
			return err
		}
		if err := c.ReplaceAllUses(eq, parity); err != nil {
			return err
		}
	}

	for _, ext := range c.NodesOfKind(root, KindExtract) {
		x, ok := matchPopCountLowBit(ext)
		if !ok {
			continue
		}
		parity, err := c.Create(KindParity, 1, x)
		if err != nil {
			return err
		}
		if err := c.ReplaceAllUses(ext, parity); err != nil {
			return err
		}
	}
	return nil
}

// matchPopCountLowBit reports whether ext is exactly Extract(PopCount(x), 0,
// 1) and, if so, returns x.
func matchPopCountLowBit(ext *Operation) (*Operation, bool) {
	low, high := ext.ExtractBounds()
	if low != 0 || high != 1 {
		return nil, false
	}
	operand := ext.Operand(0)
	if operand.kind != KindPopCount {
		return nil, false
	}
	return operand.Operand(0), true
}

// matchPopCountMaskedLowBit reports whether and is exactly
// And(PopCount(x), Constant(1, width)) in either operand order and, if so,
// returns x.
func matchPopCountMaskedLowBit(and *Operation) (*Operation, bool) {
	var popcount, constant *Operation
	for _, o := range and.Operands() {
		switch o.kind {
		case KindPopCount:
			popcount = o
		case KindConstant:
			constant = o
		}
	}
	if popcount == nil || constant == nil || !constant.bits.IsOne() {
		return nil, false
	}
	return popcount.Operand(0), true
}

func isConstantOne(op *Operation) bool {
	return op.kind == KindConstant && op.bits.IsOne()
}

// matchPopCountEqualsOne reports whether eq is Icmp_eq(lowbit, 1) in either
// operand order, where lowbit is a low-bit-of-PopCount expression in either
// of the shapes matchPopCountLowBit or matchPopCountMaskedLowBit recognize.
// On a match it returns the PopCount's operand.
func matchPopCountEqualsOne(eq *Operation) (*Operation, bool) {
	operands := eq.Operands()
	for i := 0; i < 2; i++ {
		candidate, one := operands[i], operands[1-i]
		if !isConstantOne(one) {
			continue
		}
		switch candidate.kind {
		case KindExtract:
			if x, ok := matchPopCountLowBit(candidate); ok {
				return x, true
			}
		case KindAnd:
			if x, ok := matchPopCountMaskedLowBit(candidate); ok {
				return x, true
			}
		}
	}
	return nil, false
}

// StrengthReducePopCount rewrites every PopCount(x) node reachable from root
// into a balanced tree of masked shift-and-add steps, the standard
// bit-parallel population count algorithm. Operating on an n-bit operand
// takes ceil(log2(n)) levels; each level k sums adjacent 2^k-bit groups
// using the alternatingMask(width, k) constant.
//
// The pass is idempotent: a circuit with no remaining PopCount nodes is left
// unchanged.
func StrengthReducePopCount(c *Circuit, root *Operation) error {
	targets := c.NodesOfKind(root, KindPopCount)
	for _, pc := range targets {
		reduced, err := popcountTree(c, pc.Operand(0))
		if err != nil {
			return err
		}
		if reduced.width != pc.width {
			if reduced.width > pc.width {
				reduced, err = c.NewExtract(reduced, 0, pc.width)
			} else {
				reduced, err = c.Create(KindZExt, pc.width, reduced)
			}
			if err != nil {
				return err
			}
		}
		if err := c.ReplaceAllUses(pc, reduced); err != nil {
			return err
		}
	}
	return nil
}

func popcountTree(c *Circuit, x *Operation) (*Operation, error) {
	width := x.width
	levels := uint(0)
	for (uint(1) << levels) < width {
		levels++
	}

	cur := x
	for k := uint(0); k < levels; k++ {
		m := c.NewConstant(alternatingMask(width, k))
		lo, err := c.Create(KindAnd, width, cur, m)
		if err != nil {
			return nil, err
		}
		shiftAmt := c.NewConstant(NewBitVector(int64(uint(1)<<k), width))
		shifted, err := c.Create(KindLShr, width, cur, shiftAmt)
		if err != nil {
			return nil, err
		}
		hi, err := c.Create(KindAnd, width, shifted, m)
		if err != nil {
			return nil, err
		}
		cur, err = c.Create(KindAdd, width, lo, hi)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}
