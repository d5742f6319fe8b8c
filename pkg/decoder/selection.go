package decoder

import "fmt"

// DecisionNode is one node of the greedy bit-selection decision tree: a
// Leaf names the single context reached once every discriminating bit has
// been checked, a Branch tests one bit of the raw encoding and descends
// into Zero or One.
type DecisionNode struct {
	Leaf *Context

	BitIndex uint
	Zero     *DecisionNode
	One      *DecisionNode
}

// AmbiguousContextsError reports that two or more contexts pin identical
// values on every bit available to discriminate on, so no decision tree can
// tell them apart.
type AmbiguousContextsError struct {
	Names []string
}

func (e *AmbiguousContextsError) Error() string {
	return fmt.Sprintf("decoder: contexts %v are indistinguishable by their pinned bits", e.Names)
}

// BuildSelectionTree constructs the decision tree that recognizes which of
// contexts a raw encoding belongs to. At each level it greedily picks the
// bit index that best balances the remaining contexts: the one maximizing
// min(|contexts pinning 0|, |contexts pinning 1|). Bit EncodingWidth-1 is
// never selected; it is reserved as the sentinel the length-delimiter
// condition is framed against and carries no decode information of its
// own, matching the convention the original decode condition encoding used.
func BuildSelectionTree(contexts []*Context) (*DecisionNode, error) {
	decided := make(map[uint]bool)
	return buildTree(contexts, decided)
}

func buildTree(contexts []*Context, decided map[uint]bool) (*DecisionNode, error) {
	if len(contexts) == 1 {
		return &DecisionNode{Leaf: contexts[0]}, nil
	}

	bit, ok := pickSplitBit(contexts, decided)
	if !ok {
		names := make([]string, len(contexts))
		for i, c := range contexts {
			names[i] = c.Name
		}
		return nil, &AmbiguousContextsError{Names: names}
	}

	var zeroBranch, oneBranch []*Context
	for _, c := range contexts {
		v, pinned := c.State.Value(bit)
		if !pinned {
			zeroBranch = append(zeroBranch, c)
			oneBranch = append(oneBranch, c)
			continue
		}
		if v == 0 {
			zeroBranch = append(zeroBranch, c)
		} else {
			oneBranch = append(oneBranch, c)
		}
	}

	nextDecided := make(map[uint]bool, len(decided)+1)
	for k := range decided {
		nextDecided[k] = true
	}
	nextDecided[bit] = true

	zeroNode, err := buildTree(zeroBranch, nextDecided)
	if err != nil {
		return nil, err
	}
	oneNode, err := buildTree(oneBranch, nextDecided)
	if err != nil {
		return nil, err
	}

	return &DecisionNode{BitIndex: bit, Zero: zeroNode, One: oneNode}, nil
}

// pickSplitBit returns the undecided bit (excluding EncodingWidth-1) that
// maximizes min(zeros, ones) among contexts, where a context pinning
// Ignore at a bit counts toward neither tally. Ignored bits are
// deliberately excluded from the score itself, matching the heuristic the
// original selection algorithm used: a context that doesn't care about a
// bit contributes no discriminating power at that bit, so weighing it in
// either direction would bias the split toward bits chosen for the wrong
// reason.
func pickSplitBit(contexts []*Context, decided map[uint]bool) (uint, bool) {
	bestBit := uint(0)
	bestScore := -1
	for bit := uint(0); bit < EncodingWidth-1; bit++ {
		if decided[bit] {
			continue
		}
		zeros, ones := 0, 0
		for _, c := range contexts {
			v, pinned := c.State.Value(bit)
			if !pinned {
				continue
			}
			if v == 0 {
				zeros++
			} else {
				ones++
			}
		}
		score := zeros
		if ones < score {
			score = ones
		}
		if score > bestScore {
			bestScore = score
			bestBit = bit
		}
	}
	if bestScore <= 0 {
		return 0, false
	}
	return bestBit, true
}
