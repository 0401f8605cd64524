package lr1

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/inclr"
	"github.com/npillmayer/inclr/lr"
	"github.com/npillmayer/inclr/lr/cst"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var precedence = []string{
	"Start -> Addition",
	"Addition -> Addition + Multiplication | Multiplication",
	"Multiplication -> Multiplication * Basic | Basic",
	"Basic -> number | ( Addition )",
}

var numbers = inclr.TypedTerminals(map[inclr.WordType]string{inclr.Number: "number"})

func makeTables(t *testing.T, description []string) *lr.Tables {
	t.Helper()
	g, err := lr.NewGrammar("test", description)
	if err != nil {
		t.Fatal(err)
	}
	tables, err := lr.BuildTables(g)
	if err != nil {
		t.Fatal(err)
	}
	return tables
}

// words splits s at blanks, typing digits as numbers and punctuation as symbols.
func words(s string) []inclr.Word {
	var r []inclr.Word
	col := 1
	for _, f := range strings.Fields(s) {
		w := inclr.Word{Value: f, Type: inclr.Alphanumeric, Loc: inclr.SourceLocation{Line: 1, Column: col}}
		switch {
		case f[0] >= '0' && f[0] <= '9':
			w.Type = inclr.Number
		case strings.ContainsAny(f[:1], "+-*/()"):
			w.Type = inclr.Symbol
		}
		r = append(r, w)
		col += len(f) + 1
	}
	return r
}

func TestParsePrecedence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.lr")
	defer teardown()
	//
	p := NewParser(makeTables(t, precedence), numbers, Trace(true))
	tree, err := p.Parse(words("1 + 2 * 3"))
	if err != nil {
		t.Fatal(err)
	}
	if err = tree.Verify(); err != nil {
		t.Error(err)
	}
	if text := tree.Text(tree.Root()); text != "1 + 2 * 3" {
		t.Errorf("Expected tree to cover input, is %q", text)
	}
	var tests = []struct {
		pos   cst.Position
		label string
	}{
		{cst.Position{}, "Start"},
		{cst.Position{0}, "Addition"},
		{cst.Position{0, 0}, "Addition"},
		{cst.Position{0, 1}, "+"},
		{cst.Position{0, 2}, "Multiplication"},
		{cst.Position{0, 2, 0}, "Multiplication"},
		{cst.Position{0, 2, 1}, "*"},
		{cst.Position{0, 2, 2, 0}, "3"},
		{cst.Position{0, 0, 0, 0, 0}, "1"},
	}
	for _, test := range tests {
		id := tree.At(test.pos)
		if id == cst.NoNode {
			t.Errorf("Expected a node at %v", test.pos)
			continue
		}
		if l := tree.Node(id).Label(); l != test.label {
			t.Errorf("Expected %s at %v, is %s", test.label, test.pos, l)
		}
	}
	if n := tree.Node(tree.At(cst.Position{0, 2})); n.Word.Loc.Column != 5 {
		t.Errorf("Expected Multiplication to start at column 5, is %s", n.Word.Loc)
	}
	if n := tree.Node(tree.Root()); n.Rule != 0 || n.State != cst.NoState {
		t.Errorf("Expected root to be reduced by rule 0 without a state")
	}
}

func TestParseGrammar5(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.lr")
	defer teardown()
	//
	tables := makeTables(t, []string{
		"S -> A B",
		"A -> a A B | a A C | h A h | l",
		"B -> b B | c",
		"C -> D c",
		"D -> b E",
		"E -> g g",
	})
	p := NewParser(tables, nil)
	var tests = []struct {
		input string
		pos   cst.Position
		label string
	}{
		{"a l b b c c", cst.Position{0, 2, 1, 1, 0}, "c"},
		{"a l b g g c c", cst.Position{0, 2, 0, 1}, "E"},
		{"h l h c", cst.Position{0, 1}, "A"},
	}
	for _, test := range tests {
		tree, err := p.Parse(words(test.input))
		if err != nil {
			t.Errorf("%s: %v", test.input, err)
			continue
		}
		if l := tree.Node(tree.At(test.pos)).Label(); l != test.label {
			t.Errorf("%s: expected %s at %v, is %s", test.input, test.label, test.pos, l)
		}
	}
}

func TestSyntaxErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.lr")
	defer teardown()
	//
	p := NewParser(makeTables(t, precedence), numbers)
	var tests = []struct {
		caption  string
		input    string
		offender string
		column   int
	}{
		{"operator instead of operand", "1 + * 2", "*", 5},
		{"premature end", "1 +", "$", 4},
		{"unbalanced parenthesis", "( 1 + 2", "$", 8},
		{"empty input", "", "$", 1},
	}
	for _, test := range tests {
		tree, err := p.Parse(words(test.input))
		if tree != nil {
			t.Errorf("%s: expected no tree", test.caption)
		}
		var serr *SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("%s: expected syntax error, is %v", test.caption, err)
			continue
		}
		if serr.Word.Value != test.offender || serr.Word.Loc.Column != test.column {
			t.Errorf("%s: expected error at %q/%d, is %v", test.caption, test.offender, test.column, serr.Word)
		}
	}
	_, err := p.Parse(words("1 + * 2"))
	serr := err.(*SyntaxError)
	if serr.Message() != "Did not expect '*'." {
		t.Errorf("Unexpected message %q", serr.Message())
	}
	if len(serr.Expected) != 2 || serr.Expected[0] != "(" || serr.Expected[1] != "number" {
		t.Errorf("Expected ( or number, is %v", serr.Expected)
	}
}
