package lr

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestBuildRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.lr")
	defer teardown()
	//
	rules, err := BuildRules([]string{
		"S -> A b | c",
		"",
		"A -> a $single_or A | ",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 4 {
		t.Fatalf("Expected 4 rules, have %d", len(rules))
	}
	expected := []string{"S -> A b", "S -> c", "A -> a | A", "A ->"}
	for i, r := range rules {
		if r.Serial != i {
			t.Errorf("Expected rule #%d to have serial %d, is %d", i, i, r.Serial)
		}
		if r.String() != expected[i] {
			t.Errorf("Expected rule #%d to be %q, is %q", i, expected[i], r.String())
		}
	}
	if !rules[3].IsEps() {
		t.Errorf("Expected rule 3 to be an epsilon-rule")
	}
}

func TestGrammarErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.lr")
	defer teardown()
	//
	var tests = []struct {
		caption     string
		description []string
		err         error
		line        int
	}{
		{"missing arrow", []string{"S -> a", "A a b"}, ErrMissingArrow, 2},
		{"missing lhs", []string{"-> a"}, ErrMissingLHS, 1},
		{"scattered rules", []string{"S -> A", "A -> a", "S -> b"}, ErrNonContiguousRules, 3},
		{"empty grammar", []string{"", "  "}, ErrEmptyGrammar, 0},
	}
	for _, test := range tests {
		_, err := NewGrammar(test.caption, test.description)
		if !errors.Is(err, test.err) {
			t.Errorf("%s: expected error %v, is %v", test.caption, test.err, err)
			continue
		}
		var gerr *GrammarError
		if !errors.As(err, &gerr) {
			t.Errorf("%s: expected a GrammarError, is %T", test.caption, err)
		} else if gerr.Line != test.line {
			t.Errorf("%s: expected error in line %d, is %d", test.caption, test.line, gerr.Line)
		}
	}
}

func TestSymbols(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.lr")
	defer teardown()
	//
	g, err := NewGrammar("G0", grammar0)
	if err != nil {
		t.Fatal(err)
	}
	checkStrings(t, "non-terminals", g.NonTerminals(), []string{"S", "E", "T"})
	checkStrings(t, "terminals", g.Terminals(), []string{"$", "(", ")", "+", "n"})
	if g.StartSymbol() != "S" {
		t.Errorf("Expected start symbol to be S, is %s", g.StartSymbol())
	}
	if rs := g.RulesFor("T"); len(rs) != 3 || rs[0].Serial != 3 {
		t.Errorf("Expected 3 rules for T, starting with rule 3, have %v", rs)
	}
	if !g.IsTerminal("$") || g.IsTerminal("E") || !g.IsNonTerminal("E") {
		t.Errorf("Expected $ to be a terminal and E to be a non-terminal")
	}
}

func checkStrings(t *testing.T, what string, is, expected []string) {
	t.Helper()
	if len(is) != len(expected) {
		t.Errorf("Expected %s to be %v, is %v", what, expected, is)
		return
	}
	for i := range is {
		if is[i] != expected[i] {
			t.Errorf("Expected %s to be %v, is %v", what, expected, is)
			return
		}
	}
}
