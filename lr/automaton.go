package lr

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"

	"github.com/npillmayer/inclr"
)

// === Automaton Construction ================================================

// State is a state within the LR(1) automaton for a grammar.
type State struct {
	ID     int    // serial ID of this state
	items  []Item // sorted, deduplicated configuration items
	Accept bool   // does this state contain the completed start item?
}

// Items returns the items of a state, sorted.
func (s *State) Items() []Item {
	return s.items
}

func (s *State) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, len(s.items))
}

// Edge is a transition of the automaton, labeled with the grammar symbol consumed.
type Edge struct {
	From, To int
	Label    string
}

func (e Edge) String() string {
	return fmt.Sprintf("(%d -%s-> %d)", e.From, e.Label, e.To)
}

// Automaton is the canonical LR(1) automaton for a grammar. It will be
// constructed by a TableGenerator.
// Clients normally do not use it directly. Nevertheless, there are some methods
// defined on it, e.g, for debugging purposes.
type Automaton struct {
	g      *Grammar
	states *arraylist.List  // all the states, ordered by ID
	edges  *arraylist.List  // all the edges between states
	index  map[string][]int // state IDs by structural hash of their items
}

func emptyAutomaton(g *Grammar) *Automaton {
	return &Automaton{
		g:      g,
		states: arraylist.New(),
		edges:  arraylist.New(),
		index:  make(map[string][]int),
	}
}

// BuildAutomaton constructs the canonical LR(1) automaton for an analysed grammar.
// State 0 is the closure of the start item. States are expanded in order of creation,
// with the symbols after the dots of a state in sorted order, which makes state
// numbering and edges reproducible.
func BuildAutomaton(ga *LRAnalysis) *Automaton {
	tracer().Debugf("=== build LR(1) automaton ==============================")
	a := emptyAutomaton(ga.g)
	a.addState(ga.Closure([]Item{StartItem()}))
	for n := 0; n < a.states.Size(); n++ {
		s := a.State(n)
		for _, A := range a.labels(s) {
			next := ga.Goto(s.items, A)
			target := a.findState(next)
			if target == nil {
				target = a.addState(next)
			}
			a.edges.Add(Edge{From: s.ID, To: target.ID, Label: A})
		}
	}
	tracer().Debugf("automaton has %d states and %d edges", a.states.Size(), a.edges.Size())
	return a
}

// labels returns the distinct symbols after a dot in s, sorted.
func (a *Automaton) labels(s *State) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, i := range s.items {
		if A, ok := a.g.PeekSymbol(i); ok && !seen[A] {
			seen[A] = true
			labels = append(labels, A)
		}
	}
	sort.Strings(labels)
	return labels
}

func (a *Automaton) addState(items []Item) *State {
	s := &State{ID: a.states.Size(), items: items}
	for _, i := range items {
		if i.Rule == 0 && i.Lookahead == inclr.EndMarker && i.Dot == a.g.rules[0].Len() {
			s.Accept = true
		}
	}
	a.states.Add(s)
	h := itemsHash(items)
	a.index[h] = append(a.index[h], s.ID)
	return s
}

// findState finds a state by the contained items. Hash collisions are
// resolved by comparing the items.
func (a *Automaton) findState(items []Item) *State {
	for _, id := range a.index[itemsHash(items)] {
		s := a.State(id)
		if equalItems(s.items, items) {
			return s
		}
	}
	return nil
}

func itemsHash(items []Item) string {
	h, err := structhash.Hash(items, 1)
	if err != nil {
		panic(fmt.Sprintf("cannot hash item set: %v", err))
	}
	return h
}

func equalItems(i1, i2 []Item) bool {
	if len(i1) != len(i2) {
		return false
	}
	for k := range i1 {
		if i1[k] != i2[k] {
			return false
		}
	}
	return true
}

// Grammar returns the grammar of the automaton.
func (a *Automaton) Grammar() *Grammar {
	return a.g
}

// Size returns the number of states.
func (a *Automaton) Size() int {
	return a.states.Size()
}

// State returns the state with the given ID, or nil.
func (a *Automaton) State(id int) *State {
	s, ok := a.states.Get(id)
	if !ok {
		return nil
	}
	return s.(*State)
}

// States returns all states, ordered by ID.
func (a *Automaton) States() []*State {
	states := make([]*State, 0, a.states.Size())
	it := a.states.Iterator()
	for it.Next() {
		states = append(states, it.Value().(*State))
	}
	return states
}

// Edges returns all edges, in order of creation.
func (a *Automaton) Edges() []Edge {
	edges := make([]Edge, 0, a.edges.Size())
	it := a.edges.Iterator()
	for it.Next() {
		edges = append(edges, it.Value().(Edge))
	}
	return edges
}

// EdgesFrom returns the edges leaving state id.
func (a *Automaton) EdgesFrom(id int) []Edge {
	var r []Edge
	it := a.edges.Iterator()
	for it.Next() {
		if e := it.Value().(Edge); e.From == id {
			r = append(r, e)
		}
	}
	return r
}

// Dump is a debugging helper.
func (a *Automaton) Dump() {
	for _, s := range a.States() {
		tracer().Debugf("--- state %03d -----------", s.ID)
		for _, i := range s.items {
			tracer().Debugf("    %s", a.g.ItemString(i))
		}
	}
	tracer().Debugf("-------------------------")
}

// ToGraphViz exports the automaton to the Graphviz Dot format.
func (a *Automaton) ToGraphViz(w io.Writer) error {
	var b bytes.Buffer
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range a.States() {
		b.WriteString(fmt.Sprintf("s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, a.forGraphviz(s)))
	}
	for _, e := range a.Edges() {
		b.WriteString(fmt.Sprintf("s%03d -> s%03d [label=\"%s\"]\n", e.From, e.To, escapeDot(e.Label)))
	}
	b.WriteString("}\n")
	_, err := w.Write(b.Bytes())
	return err
}

func nodecolor(state *State) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

func (a *Automaton) forGraphviz(s *State) string {
	var b bytes.Buffer
	for k, i := range s.items {
		if k > 0 {
			b.WriteString("\\l")
		}
		b.WriteString(escapeDot(a.g.ItemString(i)))
	}
	b.WriteString("\\l")
	return b.String()
}

var dotReplacer = map[rune]string{
	'"': `\"`, '{': `\{`, '}': `\}`, '|': `\|`, '<': `\<`, '>': `\>`, '[': `\[`, ']': `\]`,
}

func escapeDot(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		if esc, ok := dotReplacer[r]; ok {
			b.WriteString(esc)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
