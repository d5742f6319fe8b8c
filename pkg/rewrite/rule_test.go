package rewrite

import "testing"

func TestParseRulesAcceptsBoundPlaces(t *testing.T) {
	rules, err := ParseRules(`(rule add-zero (Add ?x (const 0 8)) => ?x)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	if rules[0].Name != "add-zero" {
		t.Errorf("expected name add-zero, got %s", rules[0].Name)
	}
}

func TestParseRulesRejectsUnboundPlace(t *testing.T) {
	_, err := ParseRules(`(rule bad (Add ?x ?y) => (Add ?x ?z))`)
	if err == nil {
		t.Errorf("expected place-coverage error for unbound ?z")
	}
}

func TestParseRulesRejectsLabelPatterns(t *testing.T) {
	_, err := ParseRules(`(rule bad (label foo ?x) => ?x)`)
	if err == nil {
		t.Errorf("expected error for unsupported label pattern")
	}
}

func TestParseRulesRequiresArrow(t *testing.T) {
	_, err := ParseRules(`(rule bad (Add ?x ?y) ?x)`)
	if err == nil {
		t.Errorf("expected error for missing =>")
	}
}
