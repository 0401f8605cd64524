package lr

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/inclr"
)

// Symbols with special meaning in grammar descriptions.
const (
	Arrow    = "->"
	Bar      = "|"
	SingleOr = "$single_or" // stands for a literal bar terminal
)

// Errors reported when building a grammar from a description.
var (
	ErrMissingArrow       = errors.New("rule lacks arrow '->'")
	ErrMissingLHS         = errors.New("rule lacks a left hand side")
	ErrNonContiguousRules = errors.New("rules for non-terminal are not contiguous")
	ErrEmptyGrammar       = errors.New("grammar has no rules")
)

// GrammarError is returned for malformed grammar descriptions.
// Line is 1-based, 0 if the error does not refer to a single line.
type GrammarError struct {
	Line int
	Text string
	Err  error
}

func (e *GrammarError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("grammar error: %v", e.Err)
	}
	return fmt.Sprintf("grammar error in line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *GrammarError) Unwrap() error {
	return e.Err
}

// --- Rules -----------------------------------------------------------------

// Rule is a type for rules of a grammar. Rules are immutable once built and are
// identified by their serial number, which is the index into the grammar's rule list.
type Rule struct {
	Serial int      // order number of this rule within a grammar
	LHS    string   // symbol of left hand side
	rhs    []string // right hand side symbols, empty for epsilon-rules
}

// RHS returns the right hand side symbols of a rule.
func (r *Rule) RHS() []string {
	return r.rhs
}

// Len returns the number of symbols of the right hand side.
func (r *Rule) Len() int {
	return len(r.rhs)
}

// IsEps returns true if r is an epsilon-rule.
func (r *Rule) IsEps() bool {
	return len(r.rhs) == 0
}

func (r *Rule) String() string {
	if len(r.rhs) == 0 {
		return fmt.Sprintf("%s %s", r.LHS, Arrow)
	}
	return fmt.Sprintf("%s %s %s", r.LHS, Arrow, strings.Join(r.rhs, " "))
}

// BuildRules creates rules from grammar description lines of the form
//
//     A -> B c | d
//
// producing one rule per alternative, preserving source order. Blank lines are skipped.
// An empty alternative denotes an epsilon-rule. Rules for one left hand side
// symbol have to be contiguous.
func BuildRules(description []string) ([]*Rule, error) {
	var rules []*Rule
	seen := make(map[string]bool)
	lastLHS := ""
	for n, line := range description {
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		if words[0] == Arrow {
			return nil, &GrammarError{Line: n + 1, Text: line, Err: ErrMissingLHS}
		}
		if len(words) < 2 || words[1] != Arrow {
			return nil, &GrammarError{Line: n + 1, Text: line, Err: ErrMissingArrow}
		}
		lhs := words[0]
		if lhs != lastLHS && seen[lhs] {
			return nil, &GrammarError{Line: n + 1, Text: line, Err: ErrNonContiguousRules}
		}
		seen[lhs], lastLHS = true, lhs
		rhs := []string{}
		for _, w := range append(words[2:], Bar) {
			switch w {
			case Bar:
				rules = append(rules, &Rule{Serial: len(rules), LHS: lhs, rhs: rhs})
				rhs = []string{}
			case SingleOr:
				rhs = append(rhs, Bar)
			default:
				rhs = append(rhs, w)
			}
		}
	}
	if len(rules) == 0 {
		return nil, &GrammarError{Err: ErrEmptyGrammar}
	}
	return rules, nil
}

// NonTerminals returns the distinct left hand side symbols of rules, in order of
// first appearance.
func NonTerminals(rules []*Rule) []string {
	var nts []string
	for i, r := range rules {
		if i == 0 || rules[i-1].LHS != r.LHS {
			nts = append(nts, r.LHS)
		}
	}
	return nts
}

// Terminals returns every symbol appearing on a right hand side which is not
// a non-terminal, plus the end marker. The result is sorted.
func Terminals(rules []*Rule, nonterminals []string) []string {
	isNT := make(map[string]bool, len(nonterminals))
	for _, nt := range nonterminals {
		isNT[nt] = true
	}
	set := map[string]bool{inclr.EndMarker: true}
	for _, r := range rules {
		for _, sym := range r.rhs {
			if !isNT[sym] {
				set[sym] = true
			}
		}
	}
	terminals := make([]string, 0, len(set))
	for t := range set {
		terminals = append(terminals, t)
	}
	sort.Strings(terminals)
	return terminals
}

// --- Grammars --------------------------------------------------------------

// Grammar is a type for a context free grammar, consisting of rules, terminals
// and non-terminals. Grammars are immutable after creation and may be shared
// between parsers.
type Grammar struct {
	Name         string
	rules        []*Rule
	nonterminals []string
	terminals    []string
	ntIndex      map[string]int
	tIndex       map[string]int
	ruleRange    map[string][2]int // [first, last+1] rule serials per non-terminal
}

// NewGrammar creates a grammar from a description. See BuildRules for the format.
func NewGrammar(name string, description []string) (*Grammar, error) {
	rules, err := BuildRules(description)
	if err != nil {
		return nil, err
	}
	g := &Grammar{
		Name:      name,
		rules:     rules,
		ntIndex:   make(map[string]int),
		tIndex:    make(map[string]int),
		ruleRange: make(map[string][2]int),
	}
	g.nonterminals = NonTerminals(rules)
	g.terminals = Terminals(rules, g.nonterminals)
	for i, nt := range g.nonterminals {
		g.ntIndex[nt] = i
	}
	for i, t := range g.terminals {
		g.tIndex[t] = i
	}
	for _, r := range rules {
		rng, ok := g.ruleRange[r.LHS]
		if !ok {
			rng[0] = r.Serial
		}
		rng[1] = r.Serial + 1
		g.ruleRange[r.LHS] = rng
	}
	return g, nil
}

// Size returns the number of rules in a grammar.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Rule gets a grammar rule.
func (g *Grammar) Rule(no int) *Rule {
	if no < 0 || no >= len(g.rules) {
		return nil
	}
	return g.rules[no]
}

// Rules returns all rules of g.
func (g *Grammar) Rules() []*Rule {
	return g.rules
}

// StartSymbol returns the left hand side of rule 0.
func (g *Grammar) StartSymbol() string {
	return g.rules[0].LHS
}

// NonTerminals returns the non-terminals of g, in order of first appearance.
func (g *Grammar) NonTerminals() []string {
	return g.nonterminals
}

// Terminals returns the terminals of g, including the end marker, sorted.
func (g *Grammar) Terminals() []string {
	return g.terminals
}

// IsTerminal returns true if sym is a terminal of g.
func (g *Grammar) IsTerminal(sym string) bool {
	_, ok := g.tIndex[sym]
	return ok
}

// IsNonTerminal returns true if sym is a non-terminal of g.
func (g *Grammar) IsNonTerminal(sym string) bool {
	_, ok := g.ntIndex[sym]
	return ok
}

// TerminalIndex returns the column of terminal sym in the ACTION table.
func (g *Grammar) TerminalIndex(sym string) (int, bool) {
	i, ok := g.tIndex[sym]
	return i, ok
}

// NonTerminalIndex returns the column of non-terminal sym in the GOTO table.
func (g *Grammar) NonTerminalIndex(sym string) (int, bool) {
	i, ok := g.ntIndex[sym]
	return i, ok
}

// RulesFor returns the rules with left hand side lhs.
func (g *Grammar) RulesFor(lhs string) []*Rule {
	rng, ok := g.ruleRange[lhs]
	if !ok {
		return nil
	}
	return g.rules[rng[0]:rng[1]]
}

// Dump is a debugging helper.
func (g *Grammar) Dump() {
	tracer().Debugf("--- %s --------------------------------------------", g.Name)
	for _, r := range g.rules {
		tracer().Debugf("%3d: %s", r.Serial, r)
	}
	tracer().Debugf("-------------------------------------------------------")
}
