package lr

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/tools/container/intsets"

	"github.com/npillmayer/inclr"
	"github.com/npillmayer/inclr/lr/sparse"
)

// === Parser Actions ========================================================

// Action is an entry of the ACTION table. It is one of Shift, Reduce or Accept.
type Action interface {
	isAction()
	String() string
}

// Shift consumes the lookahead and enters state Next.
type Shift struct {
	Next int
}

// Reduce replaces the Count topmost stack entries by a node for LHS, using rule Rule.
type Reduce struct {
	Rule  int
	LHS   string
	Count int
}

// Accept finishes a parse by reducing the start rule.
type Accept struct {
	Rule  int
	LHS   string
	Count int
}

func (Shift) isAction()  {}
func (Reduce) isAction() {}
func (Accept) isAction() {}

func (a Shift) String() string  { return fmt.Sprintf("s%d", a.Next) }
func (a Reduce) String() string { return fmt.Sprintf("r%d", a.Rule) }
func (a Accept) String() string { return "acc" }

// Actions are stored in a sparse matrix as int32:
//
//     shift n   =>  n ≥ 0
//     accept    =>  -1
//     reduce r  =>  -(r+2)
//
const acceptCode = -1

func encodeAction(a Action) int32 {
	switch a := a.(type) {
	case Shift:
		return int32(a.Next)
	case Accept:
		return acceptCode
	case Reduce:
		return int32(-(a.Rule + 2))
	}
	panic(fmt.Sprintf("unknown parser action %v", a))
}

func (t *Tables) decodeAction(v int32) Action {
	switch {
	case v >= 0:
		return Shift{Next: int(v)}
	case v == acceptCode:
		r := t.g.rules[0]
		return Accept{Rule: 0, LHS: r.LHS, Count: r.Len()}
	default:
		r := t.g.rules[-v-2]
		return Reduce{Rule: r.Serial, LHS: r.LHS, Count: r.Len()}
	}
}

// === Tables ================================================================

// Conflict records two or more actions registered for the same (state, terminal) pair.
type Conflict struct {
	State    int
	Terminal string
	Actions  []Action
}

func (c Conflict) String() string {
	s := make([]string, len(c.Actions))
	for i, a := range c.Actions {
		s[i] = a.String()
	}
	return fmt.Sprintf("state %d on %q: %s", c.State, c.Terminal, strings.Join(s, "/"))
}

// ErrConflicts is wrapped by ConflictError.
var ErrConflicts = errors.New("grammar is not LR(1)")

// ConflictError is returned by table construction if the grammar has conflicts.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: %d conflict(s), first is %s", ErrConflicts, len(e.Conflicts), e.Conflicts[0])
}

func (e *ConflictError) Unwrap() error {
	return ErrConflicts
}

// Tables holds the ACTION and GOTO tables for a grammar. Tables are immutable
// after construction and may be shared between parsers.
type Tables struct {
	g         *Grammar
	states    int
	actions   *sparse.IntMatrix // states x terminals
	gotos     *sparse.IntMatrix // states x non-terminals
	conflicts []Conflict
}

// Grammar returns the grammar the tables are built for.
func (t *Tables) Grammar() *Grammar {
	return t.g
}

// StateCount returns the number of states (rows) of the tables.
func (t *Tables) StateCount() int {
	return t.states
}

// Action returns the parser action for a state and a lookahead terminal.
// If more than one action has been registered, the first one wins.
func (t *Tables) Action(state int, terminal string) (Action, bool) {
	j, ok := t.g.tIndex[terminal]
	if !ok || state < 0 || state >= t.states {
		return nil, false
	}
	v := t.actions.Value(state, j)
	if v == t.actions.NullValue() {
		return nil, false
	}
	return t.decodeAction(v), true
}

// Goto returns the state to enter after reducing to non-terminal A in state.
func (t *Tables) Goto(state int, A string) (int, bool) {
	j, ok := t.g.ntIndex[A]
	if !ok || state < 0 || state >= t.states {
		return 0, false
	}
	v := t.gotos.Value(state, j)
	if v == t.gotos.NullValue() {
		return 0, false
	}
	return int(v), true
}

// Expected returns the terminals with an action in state, in table order.
func (t *Tables) Expected(state int) []string {
	var r []string
	t.actions.Row(state, func(j int, a, b int32) {
		r = append(r, t.g.terminals[j])
	})
	return r
}

// HasConflicts returns true if at least one (state, terminal) pair has more than one action.
func (t *Tables) HasConflicts() bool {
	return len(t.conflicts) > 0
}

// Conflicts returns all conflicts found during table construction.
func (t *Tables) Conflicts() []Conflict {
	return t.conflicts
}

// === Table Generation ======================================================

// TableGenerator is a generator object to construct LR(1) parser tables.
// Clients usually create a Grammar G, then an LRAnalysis-object for G,
// and then a table generator. TableGenerator.CreateTables() constructs
// the automaton and parser tables for an LR(1)-parser recognizing grammar G.
type TableGenerator struct {
	g                 *Grammar
	ga                *LRAnalysis
	dfa               *Automaton
	tables            *Tables
	tolerateConflicts bool
	HasConflicts      bool
}

// TableOption configures a TableGenerator.
type TableOption func(*TableGenerator)

// TolerateConflicts makes CreateTables succeed for grammars with conflicts.
// The conflicts are still recorded, and lookup chooses the first registered action.
func TolerateConflicts(b bool) TableOption {
	return func(lrgen *TableGenerator) {
		lrgen.tolerateConflicts = b
	}
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed) grammar.
func NewTableGenerator(ga *LRAnalysis, opts ...TableOption) *TableGenerator {
	lrgen := &TableGenerator{
		g:  ga.Grammar(),
		ga: ga,
	}
	for _, opt := range opts {
		opt(lrgen)
	}
	return lrgen
}

// Automaton returns the LR(1) automaton for a grammar.
// Usually clients call lrgen.CreateTables() beforehand, but it is possible
// to call lrgen.Automaton() directly. The automaton will be created, if it has not
// been constructed previously.
func (lrgen *TableGenerator) Automaton() *Automaton {
	if lrgen.dfa == nil {
		lrgen.dfa = BuildAutomaton(lrgen.ga)
	}
	return lrgen.dfa
}

// Tables returns the parser tables. The tables have to be built by calling
// CreateTables() previously.
func (lrgen *TableGenerator) Tables() *Tables {
	if lrgen.tables == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.tables
}

// CreateTables creates the ACTION and GOTO tables. If the grammar is not
// LR(1), a *ConflictError is returned (unless conflicts are tolerated).
// The tables are available in either case.
func (lrgen *TableGenerator) CreateTables() error {
	dfa := lrgen.Automaton()
	t := &Tables{
		g:       lrgen.g,
		states:  dfa.Size(),
		actions: sparse.NewIntMatrix(dfa.Size(), len(lrgen.g.terminals), sparse.DefaultNullValue),
		gotos:   sparse.NewIntMatrix(dfa.Size(), len(lrgen.g.nonterminals), sparse.DefaultNullValue),
	}
	for _, s := range dfa.States() {
		lrgen.buildRow(t, s)
	}
	lrgen.tables = t
	lrgen.HasConflicts = t.HasConflicts()
	tracer().Infof("%s: %d states, %d action entries, %d goto entries, %d conflicts",
		lrgen.g.Name, t.states, t.actions.ValueCount(), t.gotos.ValueCount(), len(t.conflicts))
	if lrgen.HasConflicts && !lrgen.tolerateConflicts {
		return &ConflictError{Conflicts: t.conflicts}
	}
	return nil
}

// BuildTables is a shortcut to analyse a grammar and create its tables.
func BuildTables(g *Grammar, opts ...TableOption) (*Tables, error) {
	lrgen := NewTableGenerator(Analysis(g), opts...)
	err := lrgen.CreateTables()
	return lrgen.Tables(), err
}

// buildRow fills the table rows for state s. Reduce entries are registered
// first, then shift entries in edge order. A second action for the same
// terminal is recorded as a conflict.
//
// Completed items become reduce entries for their lookahead, except the
// completed start item with lookahead "$", which becomes the accept entry.
func (lrgen *TableGenerator) buildRow(t *Tables, s *State) {
	var touched intsets.Sparse
	seen := make(map[int][]Action)
	register := func(terminal string, a Action) {
		j := lrgen.g.tIndex[terminal]
		if touched.Insert(j) {
			t.actions.Set(s.ID, j, encodeAction(a))
		} else {
			t.actions.Add(s.ID, j, encodeAction(a))
		}
		seen[j] = append(seen[j], a)
	}
	for _, i := range s.items {
		r := lrgen.g.rules[i.Rule]
		if i.Dot < r.Len() {
			continue
		}
		if i.Rule == 0 && i.Lookahead == inclr.EndMarker {
			register(i.Lookahead, Accept{Rule: 0, LHS: r.LHS, Count: r.Len()})
		} else {
			register(i.Lookahead, Reduce{Rule: r.Serial, LHS: r.LHS, Count: r.Len()})
		}
	}
	for _, e := range lrgen.dfa.EdgesFrom(s.ID) {
		if j, ok := lrgen.g.ntIndex[e.Label]; ok {
			t.gotos.Set(s.ID, j, int32(e.To))
		} else {
			register(e.Label, Shift{Next: e.To})
		}
	}
	for _, j := range touched.AppendTo(nil) {
		if actions := seen[j]; len(actions) > 1 {
			c := Conflict{State: s.ID, Terminal: lrgen.g.terminals[j], Actions: actions}
			tracer().Debugf("conflict: %s", c)
			t.conflicts = append(t.conflicts, c)
		}
	}
}

// === Export ================================================================

// GotoTableAsHTML exports a GOTO-table in HTML-format.
func GotoTableAsHTML(t *Tables, w io.Writer) error {
	return parserTableAsHTML(t, "GOTO", t.g.nonterminals, t.gotos, w, func(v int32) string {
		return fmt.Sprintf("%d", v)
	})
}

// ActionTableAsHTML exports the ACTION-table in HTML-format.
// Conflicting entries are shown separated by a slash.
func ActionTableAsHTML(t *Tables, w io.Writer) error {
	return parserTableAsHTML(t, "ACTION", t.g.terminals, t.actions, w, func(v int32) string {
		return t.decodeAction(v).String()
	})
}

func parserTableAsHTML(t *Tables, tname string, columns []string, m *sparse.IntMatrix,
	w io.Writer, cell func(int32) string) error {
	//
	var b strings.Builder
	b.WriteString("<html><body>\n")
	b.WriteString(fmt.Sprintf("%s table of size = %d<p>", tname, m.ValueCount()))
	b.WriteString("<table border=1 cellspacing=0 cellpadding=5>\n")
	b.WriteString("<tr bgcolor=#cccccc><td></td>\n")
	for _, A := range columns {
		b.WriteString(fmt.Sprintf("<td>%s</td>", htmlEscape(A)))
	}
	b.WriteString("</tr>\n")
	for state := 0; state < t.states; state++ {
		b.WriteString(fmt.Sprintf("<tr><td>state %d</td>\n", state))
		for j := range columns {
			td := "&nbsp;"
			if v1, v2 := m.Values(state, j); v1 != m.NullValue() {
				td = cell(v1)
				if v2 != m.NullValue() {
					td = td + "/" + cell(v2)
				}
			}
			b.WriteString("<td>" + td + "</td>\n")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table></body></html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func htmlEscape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
