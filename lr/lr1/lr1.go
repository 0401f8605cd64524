/*
Package lr1 provides a canonical LR(1) batch parser. Clients have to use the tools
of package lr to prepare the necessary parse tables. The parser utilizes these
tables to create a concrete syntax tree for a given sequence of scanned words.

The main focus for this implementation is adaptability and on-the-fly usage.
Clients are able to construct the parse tables from a grammar and use the
parser directly, without a code-generation or compile step.

Usage

Clients construct a grammar from a description:

	g, err := lr.NewGrammar("Signed Variables", []string{
		"Var  -> Sign id",
		"Sign -> + | - | ",
	})

This grammar is subjected to grammar analysis and table generation.

	tables, err := lr.BuildTables(g)
	if err != nil { ... }  // grammar is not LR(1)

Finally parse some input:

	p := lr1.NewParser(tables, inclr.TypedTerminals(map[inclr.WordType]string{
		inclr.Alphanumeric: "id",
	}))
	tree, err := p.Parse(words)

The tree is a cst.Tree, which may later be re-parsed incrementally with package incr.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr1

import (
	"errors"
	"fmt"

	"github.com/npillmayer/inclr"
	"github.com/npillmayer/inclr/lr"
	"github.com/npillmayer/inclr/lr/cst"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'inclr.lr'.
func tracer() tracing.Trace {
	return tracing.Select("inclr.lr")
}

// ErrStackUnderflow is reported if a reduction needs more stack entries than present.
var ErrStackUnderflow = errors.New("parser stack underflow")

// SyntaxError is returned if the input does not conform to the grammar.
type SyntaxError struct {
	Word     inclr.Word // offending word, the end marker for premature end of input
	State    int        // parser state at the error
	Expected []string   // terminals with an action in State
	Err      error      // underlying cause, if any
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Word.Loc, e.Message())
}

// Message returns a short diagnostic message for editor display.
func (e *SyntaxError) Message() string {
	return fmt.Sprintf("Did not expect '%s'.", e.Word.Value)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Parser is an LR(1)-parser type. Create and initialize one with lr1.NewParser(...)
type Parser struct {
	tables *lr.Tables
	mapper inclr.TerminalMapper
	trace  bool
}

// Option configures a parser.
type Option func(*Parser)

// Trace turns tracing of every parser step on or off.
func Trace(b bool) Option {
	return func(p *Parser) {
		p.trace = b
	}
}

// NewParser creates an LR(1) parser. mapper maps scanned words to terminals of the
// grammar; if it is nil, inclr.LiteralTerminals is used.
func NewParser(tables *lr.Tables, mapper inclr.TerminalMapper, opts ...Option) *Parser {
	if mapper == nil {
		mapper = inclr.LiteralTerminals
	}
	p := &Parser{tables: tables, mapper: mapper}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// We store pairs of states and tree nodes on the parse stack.
type stackitem struct {
	state int
	node  cst.NodeID
}

// Parse parses a sequence of words and returns the syntax tree for it.
// If the words do not form a sentence of the grammar, no tree is returned,
// but a *SyntaxError anchored at the offending word.
func (p *Parser) Parse(words []inclr.Word) (*cst.Tree, error) {
	if p.tables == nil {
		return nil, fmt.Errorf("LR(1)-parser not initialized")
	}
	tree := cst.NewTree()
	stack := make([]stackitem, 1, 64)
	stack[0] = stackitem{state: 0, node: cst.NoNode} // bottom
	pos := 0
	for {
		la := EndWord(words)
		terminal := inclr.EndMarker
		if pos < len(words) {
			la, terminal = words[pos], p.mapper(words[pos])
		}
		tos := stack[len(stack)-1]
		action, ok := p.tables.Action(tos.state, terminal)
		if p.trace {
			tracer().Debugf("action(%d, %q) = %v", tos.state, terminal, action)
		}
		if !ok {
			return nil, p.syntaxError(la, tos.state, nil)
		}
		switch a := action.(type) {
		case lr.Shift:
			stack = append(stack, stackitem{state: a.Next, node: tree.NewTerminal(la, a.Next)})
			pos++
		case lr.Reduce:
			if len(stack)-1 < a.Count {
				return nil, p.syntaxError(la, tos.state, ErrStackUnderflow)
			}
			handle := stack[len(stack)-a.Count:]
			below := stack[len(stack)-a.Count-1]
			next, ok := p.tables.Goto(below.state, a.LHS)
			if !ok {
				return nil, p.syntaxError(la, tos.state, nil)
			}
			node := tree.NewNonTerminal(a.LHS, a.Rule, next, location(tree, handle, la), nodes(handle))
			if p.trace {
				tracer().Debugf("reduce %v, goto %d", p.tables.Grammar().Rule(a.Rule), next)
			}
			stack = append(stack[:len(stack)-a.Count], stackitem{state: next, node: node})
		case lr.Accept:
			if len(stack)-1 != a.Count {
				return nil, p.syntaxError(la, tos.state, ErrStackUnderflow)
			}
			handle := stack[1:]
			root := tree.NewNonTerminal(a.LHS, a.Rule, cst.NoState, location(tree, handle, la), nodes(handle))
			tree.SetRoot(root)
			tracer().Debugf("accepted input of %d words", len(words))
			return tree, nil
		}
	}
}

func (p *Parser) syntaxError(w inclr.Word, state int, err error) *SyntaxError {
	e := &SyntaxError{
		Word:     w,
		State:    state,
		Expected: p.tables.Expected(state),
		Err:      err,
	}
	tracer().Infof("%v, expected one of %v", e, e.Expected)
	return e
}

// EndWord creates the end marker word, located behind the last word.
func EndWord(words []inclr.Word) inclr.Word {
	loc := inclr.SourceLocation{Line: 1, Column: 1}
	if len(words) > 0 {
		last := words[len(words)-1]
		loc = last.End()
		loc.Line += last.NewlinesAfter
	}
	return inclr.Word{Value: inclr.EndMarker, Type: inclr.Symbol, Loc: loc}
}

// --- Helpers ----------------------------------------------------------

func nodes(handle []stackitem) []cst.NodeID {
	ids := make([]cst.NodeID, len(handle))
	for i, h := range handle {
		ids[i] = h.node
	}
	return ids
}

// location returns the location of the first word covered by a handle.
// Epsilon handles are located at the lookahead.
func location(tree *cst.Tree, handle []stackitem, la inclr.Word) inclr.SourceLocation {
	if len(handle) == 0 {
		return la.Loc
	}
	return tree.Node(handle[0].node).Word.Loc
}
