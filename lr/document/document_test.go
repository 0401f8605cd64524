package document

import (
	"errors"
	"testing"

	"github.com/npillmayer/inclr"
	"github.com/npillmayer/inclr/lr"
	"github.com/npillmayer/inclr/lr/cst"
	"github.com/npillmayer/inclr/lr/lr1"
	"github.com/npillmayer/inclr/lr/scanner"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var precedence = []string{
	"Start -> Addition",
	"Addition -> Addition + Multiplication | Multiplication",
	"Multiplication -> Multiplication * Basic | Basic",
	"Basic -> number | ( Addition )",
}

var numbers = inclr.TypedTerminals(map[inclr.WordType]string{inclr.Number: "number"})

func makeDocument(t *testing.T) *Document {
	t.Helper()
	g, err := lr.NewGrammar("precedence", precedence)
	if err != nil {
		t.Fatal(err)
	}
	tables, err := lr.BuildTables(g)
	if err != nil {
		t.Fatal(err)
	}
	return New(tables, numbers, Trace(true))
}

func scan(t *testing.T, input string) []inclr.Word {
	t.Helper()
	sc, err := scanner.New()
	if err != nil {
		t.Fatal(err)
	}
	words, err := sc.Scan(input)
	if err != nil {
		t.Fatal(err)
	}
	return words
}

func text(d *Document) string {
	if d.Tree().Empty() {
		return ""
	}
	return d.Tree().Text(d.Tree().Root())
}

func TestReplace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.lr")
	defer teardown()
	//
	var tests = []struct {
		caption  string
		old      string
		offset   int
		length   int
		words    string
		expected string
	}{
		{"replace operand", "1+2*3", 2, 1, "4", "1 + 4 * 3"},
		{"append", "1+2", 3, 0, "*3", "1 + 2 * 3"},
		{"insert", "1+2", 2, 0, "3*", "1 + 3 * 2"},
		{"delete tail", "1+2*3", 3, 2, "", "1 + 2"},
	}
	for _, test := range tests {
		t.Logf("--- %s ---", test.caption)
		d := makeDocument(t)
		if err := d.Load(scan(t, test.old)); err != nil {
			t.Fatal(err)
		}
		outcome, err := d.Replace(test.offset, test.length, scan(t, test.words))
		if err != nil {
			t.Errorf("Expected %s to succeed, have %v", test.caption, err)
			continue
		}
		if !outcome.Incremental || len(outcome.Changes) == 0 {
			t.Errorf("Expected %s to be incremental, is %v", test.caption, outcome)
		}
		if text(d) != test.expected {
			t.Errorf("Expected %q, is %q", test.expected, text(d))
		}
		if n := len(d.Words()); n != len(d.Tree().Terminals()) {
			t.Errorf("Expected words and terminals to correspond, have %d and %d", n, len(d.Tree().Terminals()))
		}
		if err := d.Tree().Verify(); err != nil {
			t.Error(err)
		}
	}
}

func TestReplaceFailure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.lr")
	defer teardown()
	//
	d := makeDocument(t)
	if err := d.Load(scan(t, "1 + 2")); err != nil {
		t.Fatal(err)
	}
	_, err := d.Replace(2, 1, scan(t, "*"))
	var serr *lr1.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("Expected a syntax error, is %v", err)
	}
	if serr.Message() != "Did not expect '*'." {
		t.Errorf("Unexpected syntax error %q", serr.Message())
	}
	if text(d) != "1 + 2" || len(d.Words()) != 3 {
		t.Errorf("Expected document to stay unchanged, is %q", text(d))
	}
	if _, err = d.Replace(2, 2, nil); !errors.Is(err, ErrRange) {
		t.Errorf("Expected range error, is %v", err)
	}
	if err = d.Load(scan(t, "1 +")); err == nil {
		t.Errorf("Expected load of incomplete input to fail")
	}
	if text(d) != "1 + 2" {
		t.Errorf("Expected failed load to keep the document, is %q", text(d))
	}
}

func TestFailingChanges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.lr")
	defer teardown()
	//
	d := makeDocument(t)
	if err := d.Load(scan(t, "1 + 2")); err != nil {
		t.Fatal(err)
	}
	words := scan(t, "7")
	seven := d.Tree().NewTerminal(words[0], 0)
	changes := []cst.Change{
		cst.Modify{Position: cst.Position{0}, Node: seven},
		cst.Modify{Position: cst.Position{4, 4}, Node: seven},
	}
	if err := d.commit(changes, words); !errors.Is(err, cst.ErrInvalidPosition) {
		t.Errorf("Expected invalid position error, is %v", err)
	}
	if text(d) != "1 + 2" || len(d.Words()) != 3 {
		t.Errorf("Expected document to stay unchanged, is %q", text(d))
	}
	if err := d.Tree().Verify(); err != nil {
		t.Error(err)
	}
	if _, err := d.Replace(2, 1, scan(t, "3")); err != nil || text(d) != "1 + 3" {
		t.Errorf("Expected document to accept edits after failed changes, is %q/%v", text(d), err)
	}
}

func TestUpdate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.lr")
	defer teardown()
	//
	d := makeDocument(t)
	outcome, err := d.Update(scan(t, "1 + 2"))
	if err != nil {
		t.Fatal(err)
	}
	if !outcome.Incremental || len(outcome.Changes) != 1 || !outcome.Changes[0].Pos().Equal(cst.Position{}) {
		t.Errorf("Expected initial parse to modify the root, is %v", outcome.Changes)
	}
	for _, input := range []string{"1 + 2 * 3", "(1 + 2) * 3", "(1 + 2) * 3 + 4"} {
		if _, err = d.Update(scan(t, input)); err != nil {
			t.Fatalf("update to %q: %v", input, err)
		}
		other, err := lr1.NewParser(d.tables, numbers).Parse(scan(t, input))
		if err != nil {
			t.Fatal(err)
		}
		if !cst.Equal(d.Tree(), d.Tree().Root(), other, other.Root()) {
			t.Errorf("Expected tree for %q to equal the batch parse", input)
		}
	}
	n := d.Tree().Len()
	d.Compact()
	if d.Tree().Len() >= n || text(d) != "( 1 + 2 ) * 3 + 4" {
		t.Errorf("Expected compaction to drop old nodes, have %d of %d", d.Tree().Len(), n)
	}
	outcome, err = d.Update(d.Words())
	if err != nil || len(outcome.Changes) != 0 {
		t.Errorf("Expected unchanged words to yield no changes, have %v, %v", outcome.Changes, err)
	}
}

func TestDiffWords(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.lr")
	defer teardown()
	//
	var tests = []struct {
		caption        string
		old, new       string
		offset, length int
		inserted       int
	}{
		{"equal", "a b c", "a b c", 3, 0, 0},
		{"replace middle", "a b c", "a x c", 1, 1, 1},
		{"insert", "a c", "a b c", 1, 0, 1},
		{"delete", "a b c", "a c", 1, 1, 0},
		{"append", "a", "a b c", 1, 0, 2},
		{"from empty", "", "a b", 0, 0, 2},
		{"repeated word", "a a", "a a a", 2, 0, 1},
		{"everything", "a b", "x y z", 0, 2, 3},
	}
	for _, test := range tests {
		offset, length, words := DiffWords(scan(t, test.old), scan(t, test.new))
		if offset != test.offset || length != test.length || len(words) != test.inserted {
			t.Errorf("%s: expected %d/%d/%d, is %d/%d/%d", test.caption,
				test.offset, test.length, test.inserted, offset, length, len(words))
		}
	}
}
