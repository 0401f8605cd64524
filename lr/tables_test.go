package lr

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var grammar0 = []string{
	"S -> E",
	"E -> T | ( E )",
	"T -> n | + T | T + n",
}

var grammar2 = []string{
	"Start -> S",
	"S -> A A",
	"A -> a A | b",
}

var precedence = []string{
	"Start -> Addition",
	"Addition -> Addition + Multiplication | Multiplication",
	"Multiplication -> Multiplication * Basic | Basic",
	"Basic -> number | ( Addition )",
}

func analyse(t *testing.T, description []string) *LRAnalysis {
	t.Helper()
	g, err := NewGrammar("test", description)
	if err != nil {
		t.Fatal(err)
	}
	return Analysis(g)
}

func TestFirstAndFollow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.lr")
	defer teardown()
	//
	ga := analyse(t, grammar0)
	checkStrings(t, "FIRST(T)", ga.First("T"), []string{"+", "n"})
	checkStrings(t, "FIRST(E)", ga.First("E"), []string{"(", "+", "n"})
	checkStrings(t, "FIRST(+)", ga.First("+"), []string{"+"})
	checkStrings(t, "FOLLOW(T)", ga.Follow("T"), []string{"$", ")", "+"})
	checkStrings(t, "FOLLOW(S)", ga.Follow("S"), []string{"$"})
}

func TestNullable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.lr")
	defer teardown()
	//
	ga := analyse(t, []string{
		"S -> A a",
		"A -> B D",
		"B -> b | ",
		"D -> d | ",
	})
	for _, A := range []string{"A", "B", "D"} {
		if !ga.Nullable(A) {
			t.Errorf("Expected %s to be nullable", A)
		}
	}
	if ga.Nullable("S") || ga.Nullable("a") {
		t.Errorf("Expected S and a not to be nullable")
	}
	checkStrings(t, "FIRST(S)", ga.First("S"), []string{"a", "b", "d"})
	checkStrings(t, "FIRST(A)", ga.First("A"), []string{"b", "d"})
	checkStrings(t, "FOLLOW(B)", ga.Follow("B"), []string{"a", "d"})
	checkStrings(t, "FIRST(B D | x)", ga.FirstOfSequence([]string{"B", "D"}, "x"), []string{"b", "d", "x"})
}

func TestClosure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.lr")
	defer teardown()
	//
	ga := analyse(t, grammar2)
	items := ga.Closure([]Item{StartItem()})
	expected := []Item{
		{0, 0, "$"}, {1, 0, "$"}, {2, 0, "a"}, {2, 0, "b"}, {3, 0, "a"}, {3, 0, "b"},
	}
	if len(items) != len(expected) {
		t.Fatalf("Expected closure of start item to have %d items, has %d", len(expected), len(items))
	}
	for i := range items {
		if items[i] != expected[i] {
			t.Errorf("Expected item #%d to be %s, is %s", i,
				ga.Grammar().ItemString(expected[i]), ga.Grammar().ItemString(items[i]))
		}
	}
	next := ga.Goto(items, "a")
	if next[0].Dot != 1 || next[0].Rule != 2 {
		t.Errorf("Expected goto(a) to start with advanced items, is %s", ga.Grammar().ItemString(next[0]))
	}
}

func TestAutomatonEdges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.lr")
	defer teardown()
	//
	a := BuildAutomaton(analyse(t, grammar2))
	expected := []Edge{
		{0, 1, "A"}, {0, 2, "S"}, {0, 3, "a"}, {0, 4, "b"},
		{1, 5, "A"}, {1, 6, "a"}, {1, 7, "b"},
		{3, 8, "A"}, {3, 3, "a"}, {3, 4, "b"},
		{6, 9, "A"}, {6, 6, "a"}, {6, 7, "b"},
	}
	edges := a.Edges()
	if len(edges) != 13 {
		t.Fatalf("Expected 13 edges, have %d: %v", len(edges), edges)
	}
	for i, e := range edges {
		if e != expected[i] {
			t.Errorf("Expected edge #%d to be %v, is %v", i, expected[i], e)
		}
	}
	if a.Size() != 10 {
		t.Errorf("Expected 10 states, have %d", a.Size())
	}
	if !a.State(2).Accept {
		t.Errorf("Expected state 2 to be accepting")
	}
}

func TestTablesDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.lr")
	defer teardown()
	//
	tracer().SetTraceLevel(tracing.LevelError)
	build := func() *Tables {
		g, _ := NewGrammar("precedence", precedence)
		tables, err := BuildTables(g)
		if err != nil {
			t.Fatal(err)
		}
		return tables
	}
	t1, t2 := build(), build()
	if t1.StateCount() != t2.StateCount() {
		t.Fatalf("Expected equal state counts, have %d and %d", t1.StateCount(), t2.StateCount())
	}
	g := t1.Grammar()
	for state := 0; state < t1.StateCount(); state++ {
		for _, a := range g.Terminals() {
			x1, ok1 := t1.Action(state, a)
			x2, ok2 := t2.Action(state, a)
			if ok1 != ok2 || ok1 && x1 != x2 {
				t.Errorf("Expected action(%d,%s) to be equal, is %v and %v", state, a, x1, x2)
			}
		}
		for _, A := range g.NonTerminals() {
			s1, ok1 := t1.Goto(state, A)
			s2, ok2 := t2.Goto(state, A)
			if ok1 != ok2 || s1 != s2 {
				t.Errorf("Expected goto(%d,%s) to be equal, is %d and %d", state, A, s1, s2)
			}
		}
	}
}

func TestTablesActions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.lr")
	defer teardown()
	//
	g, _ := NewGrammar("precedence", precedence)
	tables, err := BuildTables(g)
	if err != nil {
		t.Fatal(err)
	}
	checkStrings(t, "expected(0)", tables.Expected(0), []string{"(", "number"})
	if a, ok := tables.Action(0, "number"); !ok {
		t.Errorf("Expected shift on number in state 0")
	} else if _, isShift := a.(Shift); !isShift {
		t.Errorf("Expected shift on number in state 0, is %v", a)
	}
	if _, ok := tables.Action(0, "+"); ok {
		t.Errorf("Expected no action on + in state 0")
	}
	s, ok := tables.Goto(0, "Addition")
	if !ok {
		t.Fatalf("Expected goto(0, Addition)")
	}
	a, ok := tables.Action(s, "$")
	if acc, isAccept := a.(Accept); !ok || !isAccept || acc.LHS != "Start" || acc.Count != 1 {
		t.Errorf("Expected accept after Addition on $, is %v", a)
	}
	a, _ = tables.Action(s, "+")
	if _, isShift := a.(Shift); !isShift {
		t.Errorf("Expected shift on + after Addition, is %v", a)
	}
}

func TestConflicts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.lr")
	defer teardown()
	//
	g, _ := NewGrammar("ambiguous", []string{"S -> E", "E -> E + E | n"})
	_, err := BuildTables(g)
	var cerr *ConflictError
	if !errors.As(err, &cerr) || !errors.Is(err, ErrConflicts) {
		t.Fatalf("Expected a conflict error, is %v", err)
	}
	c := cerr.Conflicts[0]
	if c.Terminal != "+" || len(c.Actions) != 2 {
		t.Errorf("Expected shift/reduce conflict on +, is %v", c)
	}
	if _, isReduce := c.Actions[0].(Reduce); !isReduce {
		t.Errorf("Expected reduce to be registered first, is %v", c.Actions[0])
	}
	tables, err := BuildTables(g, TolerateConflicts(true))
	if err != nil {
		t.Errorf("Expected conflicts to be tolerated, have %v", err)
	}
	if !tables.HasConflicts() {
		t.Errorf("Expected tables to record conflicts")
	}
	a, _ := tables.Action(c.State, "+")
	if a != c.Actions[0] {
		t.Errorf("Expected first registered action %v to win, is %v", c.Actions[0], a)
	}
}

func TestExport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inclr.lr")
	defer teardown()
	//
	lrgen := NewTableGenerator(analyse(t, grammar2))
	if err := lrgen.CreateTables(); err != nil {
		t.Fatal(err)
	}
	var dot bytes.Buffer
	if err := lrgen.Automaton().ToGraphViz(&dot); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(dot.String(), "digraph {") || !strings.Contains(dot.String(), "s000 -> s001 [label=\"A\"]") {
		t.Errorf("Expected Graphviz output with edge s000 -> s001, is\n%s", dot.String())
	}
	var html bytes.Buffer
	if err := ActionTableAsHTML(lrgen.Tables(), &html); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html.String(), "<td>acc</td>") {
		t.Errorf("Expected ACTION table to contain an accept entry")
	}
	html.Reset()
	if err := GotoTableAsHTML(lrgen.Tables(), &html); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html.String(), "GOTO table") {
		t.Errorf("Expected GOTO table header")
	}
}
