package rewrite

import "fmt"

// Rule is a single compiled rewrite rule: whenever LHS matches a subterm,
// RHS (with the matched places substituted in) is added to the same
// e-class.
type Rule struct {
	Name string
	LHS  *Pattern
	RHS  *Pattern
}

// ParseRules reads zero or more `(rule name lhs => rhs)` forms from source
// text and compiles each into a Rule. Every place referenced on a rule's
// RHS must also appear on its LHS; a rule that binds nothing on the right
// it didn't already bind on the left is rejected at compile time rather
// than failing unpredictably during rewriting.
func ParseRules(source string) ([]*Rule, error) {
	forms, err := newSexpParser(source).parseAll()
	if err != nil {
		return nil, err
	}
	rules := make([]*Rule, 0, len(forms))
	for _, form := range forms {
		rule, err := compileRule(form)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func compileRule(form *sexp) (*Rule, error) {
	if form.isSymbol() || len(form.list) < 2 {
		return nil, &syntaxError{Msg: "expected (rule name lhs => rhs)"}
	}
	head := form.list[0]
	if !head.isSymbol() || head.symbol != "rule" {
		return nil, &syntaxError{Msg: fmt.Sprintf("expected 'rule', got %q", head.String())}
	}
	if !form.list[1].isSymbol() {
		return nil, &syntaxError{Msg: "rule name must be a symbol"}
	}
	name := form.list[1].symbol

	arrow := -1
	for i, e := range form.list {
		if e.isSymbol() && e.symbol == "=>" {
			arrow = i
			break
		}
	}
	if arrow < 0 {
		return nil, &PatternError{Rule: name, Reason: "missing => separator"}
	}
	lhsForms := form.list[2:arrow]
	rhsForms := form.list[arrow+1:]
	if len(lhsForms) != 1 || len(rhsForms) != 1 {
		return nil, &PatternError{Rule: name, Reason: "expected exactly one pattern on each side of =>"}
	}

	lhs, err := compilePattern(name, lhsForms[0])
	if err != nil {
		return nil, err
	}
	rhs, err := compilePattern(name, rhsForms[0])
	if err != nil {
		return nil, err
	}

	bound := make(map[string]bool)
	for _, p := range lhs.Places() {
		bound[p] = true
	}
	for _, p := range rhs.Places() {
		if !bound[p] {
			return nil, &PatternError{Rule: name, Reason: fmt.Sprintf("place %s appears on the right-hand side but is never bound on the left", p)}
		}
	}

	return &Rule{Name: name, LHS: lhs, RHS: rhs}, nil
}
