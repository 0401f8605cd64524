/*
Package incr implements an incremental LR(1) parser.

The parser re-parses a concrete syntax tree after an edit of its text. It does
not re-derive the complete tree, but starts from the configuration the parser
had just before the edited region and replays only the new words. After the
new words are consumed, the parser continues with the terminals of the old
tree behind the edit ("matching mode"). At every reduction in matching mode,
the parser checks whether the node being reduced can take the place of an
old subtree: if the reduction consumes exactly the old siblings to the left
of the edit, produces the old parent's symbol and ends right where the old
parent ended, the remainder of the parse would be identical to the old one.
The parser then stops and reports a single change replacing the old parent.

The old tree is never modified. New nodes are allocated in the tree's arena
and clients receive a list of cst.Change operations, which they apply when
they are done with the old version. If the parse fails, the nodes allocated
for it are dropped from the arena again:

	p := incr.NewParser(tables, mapper)
	result := p.Parse(tree, incr.Edit{
		Start: startPos,   // first terminal replaced by the edit
		Words: newWords,   // words inserted in place of the replaced ones
		After: afterPos,   // first terminal not replaced by the edit
	})
	if result.Status == incr.Accept {
		err = tree.Apply(result.Changes)
	}

Parsing an empty tree, the incremental parser behaves like a batch parser and
reports the new root as a single modification of the root position.

Parent nodes below the edit are re-used if all of their children are
re-used and the automaton enters the same state. Terminals behind the edit are
re-used, too. Such nodes keep the source locations of the text they were
scanned from.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package incr

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

// ErrInvalidEdit is reported for edits with positions not present in a tree.
var ErrInvalidEdit = errors.New("invalid edit positions")

// Status is the outcome of a parse step.
type Status int

// A parse either is in progress, has accepted the input or failed.
const (
	Continue Status = iota
	Accept
	Failed
)

func (s Status) String() string {
	switch s {
	case Continue:
		return "Continue"
	case Accept:
		return "Accept"
	case Failed:
		return "Failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Edit describes a modification of the text of a tree: the terminals from
// Start up to (not including) After are replaced by Words.
//
// A nil Start appends Words behind the last terminal. A nil After replaces
// everything from Start to the end. Start == After inserts Words before the
// terminal at Start. Positions may address non-terminals; they then stand for
// the first terminal of the subtree.
type Edit struct {
	Start cst.Position
	Words []inclr.Word
	After cst.Position
}

// Diagnostic is a message anchored at a range of the source text.
type Diagnostic struct {
	Message  string
	Start    inclr.SourceLocation
	End      inclr.SourceLocation
	Expected []string // terminals which would have been accepted
}

// Result is the outcome of an incremental parse.
type Result struct {
	Status         Status
	ProcessedWords int          // new words and old terminals consumed
	Changes        []cst.Change // tree modifications, valid for Status Accept
	Diagnostics    []Diagnostic // syntax errors, for Status Failed
	Err            error        // cause of a failure which is not a syntax error
}

// Parser is an incremental LR(1) parser. It holds no state between calls
// and may be used for any number of trees built from the same tables.
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

// NewParser creates an incremental parser for tables. mapper maps words to
// terminals; if it is nil, inclr.LiteralTerminals is used.
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

// Parse re-parses tree for an edit and returns the changes to apply to tree.
// tree must not be nil, but may be empty.
func (p *Parser) Parse(tree *cst.Tree, edit Edit) Result {
	s := p.Begin(tree, edit)
	for s.Step() == Continue {
	}
	return s.Result()
}

// AllowedLabels returns the terminals which may start an edit at position
// start, i.e. the terminals the parser would accept after the words in front
// of start. A nil start denotes the end of the text.
func (p *Parser) AllowedLabels(tree *cst.Tree, start cst.Position) []string {
	state := 0
	if !tree.Empty() {
		var pos cst.Position
		var ok bool
		if start == nil {
			pos, ok = tree.LastTerminal(cst.Position{})
		} else {
			pos, ok = tree.LastTerminalBefore(start)
		}
		if ok {
			state = tree.Node(tree.At(pos)).State
		}
	}
	return p.tables.Expected(state)
}
