package incr

import (
	"fmt"

	"github.com/npillmayer/inclr"
	"github.com/npillmayer/inclr/lr"
	"github.com/npillmayer/inclr/lr/cst"
	"github.com/npillmayer/inclr/lr/lr1"
)

// Session is a single incremental parse, driven step by step. Clients usually
// call Parser.Parse, which runs a session to completion.
type Session struct {
	p           *Parser
	tree        *cst.Tree
	st          stack
	words       []inclr.Word // new words
	wi          int          // index of next new word
	old         cst.Position // next old terminal in matching mode, nil at end of input
	oldConsumed int
	arena       int        // arena size of the tree before the parse
	last        inclr.Word // last word consumed
	hasLast     bool
	result      Result
}

// lookahead is the current input symbol: a new word, an old terminal or the end marker.
type lookahead struct {
	word     inclr.Word
	terminal string
	pos      cst.Position // position of an old terminal
	end      bool
}

func (la lookahead) isOld() bool {
	return la.pos != nil
}

// Begin starts an incremental parse of tree for an edit.
func (p *Parser) Begin(tree *cst.Tree, edit Edit) *Session {
	s := &Session{p: p, tree: tree, words: edit.Words}
	s.st = stack{tree: tree, mark: bottom}
	if tree == nil {
		s.result = Result{Status: Failed, Err: fmt.Errorf("%w: no tree", ErrInvalidEdit)}
		return s
	}
	s.arena = tree.Len()
	if tree.Empty() {
		return s
	}
	if (edit.Start != nil && !tree.IsValid(edit.Start)) || (edit.After != nil && !tree.IsValid(edit.After)) {
		s.result = Result{Status: Failed, Err: fmt.Errorf("%w: %v to %v", ErrInvalidEdit, edit.Start, edit.After)}
		return s
	}
	var markpos cst.Position
	var ok bool
	if edit.Start == nil {
		markpos, ok = tree.LastTerminal(cst.Position{})
	} else {
		markpos, ok = tree.LastTerminalBefore(edit.Start)
	}
	if ok {
		s.st.mark = s.st.oldElement(markpos)
		s.consumed(tree.Node(s.st.mark.node).Word)
	}
	if edit.After != nil {
		if s.old, ok = tree.FirstTerminal(edit.After); !ok {
			s.old, _ = tree.NextTerminalAfter(edit.After)
		}
		if s.old != nil && markpos != nil && s.old.Compare(markpos) <= 0 {
			s.result = Result{Status: Failed, Err: fmt.Errorf("%w: %v does not follow %v", ErrInvalidEdit,
				edit.After, edit.Start)}
			return s
		}
	}
	tracer().Debugf("incremental parse from %v, %d new words, resuming at %v", markpos, len(s.words), s.old)
	return s
}

// Result returns the result of the session. As long as the session is in
// progress, its Status is Continue.
func (s *Session) Result() Result {
	r := s.result
	r.ProcessedWords = s.wi + s.oldConsumed
	return r
}

// Step performs a single parser action.
func (s *Session) Step() Status {
	if s.result.Status != Continue {
		return s.result.Status
	}
	la := s.lookahead()
	top, _ := s.st.at(0)
	state := s.st.state(top)
	action, ok := s.p.tables.Action(state, la.terminal)
	if s.p.trace {
		tracer().Debugf("action(%d, %q) = %v", state, la.terminal, action)
	}
	if !ok {
		return s.fail(la, state, nil)
	}
	switch a := action.(type) {
	case lr.Shift:
		s.shift(a, la)
	case lr.Reduce:
		if s.matching() && s.matchingCondition(a, la) {
			return s.replaceMarkParent(a)
		}
		if err := s.reduce(a, la); err != nil {
			return s.fail(la, state, err)
		}
	case lr.Accept:
		return s.accept(a, la)
	}
	return Continue
}

func (s *Session) lookahead() lookahead {
	switch {
	case s.wi < len(s.words):
		w := s.words[s.wi]
		return lookahead{word: w, terminal: s.p.mapper(w)}
	case s.old != nil:
		w := s.tree.Node(s.tree.At(s.old)).Word
		return lookahead{word: w, terminal: s.p.mapper(w), pos: s.old}
	}
	w := lr1.EndWord(nil)
	if s.hasLast {
		w = lr1.EndWord([]inclr.Word{s.last})
	}
	return lookahead{word: w, terminal: inclr.EndMarker, end: true}
}

func (s *Session) consumed(w inclr.Word) {
	s.last, s.hasLast = w, true
}

// matching is true after all new words have been consumed.
func (s *Session) matching() bool {
	return s.wi >= len(s.words) && !s.tree.Empty()
}

func (s *Session) shift(a lr.Shift, la lookahead) {
	if !la.isOld() {
		s.st.push(element{node: s.tree.NewTerminal(la.word, a.Next), orig: cst.NoNode})
		s.consumed(la.word)
		s.wi++
		return
	}
	e := s.st.oldElement(la.pos)
	if s.tree.Node(e.orig).State != a.Next {
		e.node = s.tree.Clone(e.orig, a.Next)
	}
	s.st.push(e)
	s.oldConsumed++
	s.consumed(la.word)
	s.old, _ = s.tree.NextTerminalAfter(la.pos)
	s.fastForward(e)
}

// fastForward pushes the old right siblings of an unchanged element e, if the
// input following e is the same as in the old tree. The parser would derive
// the same siblings from the same state and input.
func (s *Session) fastForward(e element) {
	if !e.unchanged() || len(e.pos) == 0 || !s.matching() {
		return
	}
	if next, ok := s.tree.NextTerminalAfter(e.pos); ok != (s.old != nil) || (ok && !next.Equal(s.old)) {
		return
	}
	parent := e.pos.Parent()
	siblings := s.tree.Node(s.tree.At(parent)).Children
	if e.pos.Index()+1 >= len(siblings) {
		return
	}
	for i := e.pos.Index() + 1; i < len(siblings); i++ {
		sib := s.st.oldElement(parent.Child(i))
		s.st.push(sib)
		s.oldConsumed += countTerminals(s.tree, sib.node)
		if p, ok := s.tree.LastTerminal(sib.pos); ok {
			s.consumed(s.tree.Node(s.tree.At(p)).Word)
		}
	}
	s.old, _ = s.tree.NextTerminalAfter(parent.Child(len(siblings) - 1))
	if s.p.trace {
		tracer().Debugf("fast forward over %d siblings of %v", len(siblings)-e.pos.Index()-1, e.pos)
	}
}

func (s *Session) reduce(a lr.Reduce, la lookahead) error {
	if !s.st.materialize(a.Count) {
		return lr1.ErrStackUnderflow
	}
	below, _ := s.st.at(a.Count)
	next, ok := s.p.tables.Goto(s.st.state(below), a.LHS)
	if !ok {
		return fmt.Errorf("no goto for %s in state %d", a.LHS, s.st.state(below))
	}
	e, reused := s.st.reusable(a.Count, a.Rule, next)
	if reused && len(e.pos) > 0 {
		s.st.pop(a.Count)
	} else {
		loc := s.location(s.st.top(a.Count), la)
		e = element{node: s.tree.NewNonTerminal(a.LHS, a.Rule, next, loc, s.st.pop(a.Count)), orig: cst.NoNode}
		reused = false
	}
	s.st.push(e)
	if s.p.trace {
		tracer().Debugf("reduce %v, goto %d, re-used = %v", s.p.tables.Grammar().Rule(a.Rule), next, reused)
	}
	if reused {
		s.fastForward(e)
	}
	return nil
}

// matchingCondition checks if a reduction produces a replacement for the
// parent of the mark: it consumes the explicit part of the stack together with
// the mark and its left siblings, yields the parent's symbol, and the input
// following the reduction is the input following the old parent.
func (s *Session) matchingCondition(a lr.Reduce, la lookahead) bool {
	m := s.st.mark
	if m.isBottom() {
		return false
	}
	if v := s.st.virtual(a.Count); v <= 0 || v != m.pos.Index()+1 {
		return false
	}
	parent := m.pos.Parent()
	if len(parent) == 0 {
		return false
	}
	if p := s.tree.Node(s.tree.At(parent)); p.IsTerminal() || p.Label() != a.LHS {
		return false
	}
	next, ok := s.tree.NextTerminalAfter(parent)
	if la.end {
		return !ok
	}
	return ok && la.isOld() && next.Equal(la.pos)
}

// replaceMarkParent finishes a parse by replacing the mark's parent with a node
// for reduction a. The new node keeps the parent's left children up to the mark.
func (s *Session) replaceMarkParent(a lr.Reduce) Status {
	parent := s.st.mark.pos.Parent()
	pid := s.tree.At(parent)
	p := s.tree.Node(pid)
	idx := s.st.mark.pos.Index()
	explicit := s.st.pop(len(s.st.elements))
	if len(explicit) == 0 && idx+1 == len(p.Children) && p.Rule == a.Rule {
		tracer().Infof("edit did not change the tree")
		return s.finish(nil)
	}
	children := append(append([]cst.NodeID(nil), p.Children[:idx+1]...), explicit...)
	state, loc := p.State, p.Word.Loc
	node := s.tree.NewNonTerminal(a.LHS, a.Rule, state, loc, children)
	tracer().Infof("matching condition holds, re-using %v", parent)
	return s.finish([]cst.Change{cst.Modify{Position: parent, Node: node}})
}

func (s *Session) accept(a lr.Accept, la lookahead) Status {
	top, _ := s.st.at(0)
	state := s.st.state(top)
	if !s.st.materialize(a.Count) || len(s.st.elements) != a.Count || !s.st.mark.isBottom() {
		return s.fail(la, state, lr1.ErrStackUnderflow)
	}
	if e, ok := s.st.reusable(a.Count, a.Rule, cst.NoState); ok && len(e.pos) == 0 {
		tracer().Infof("edit did not change the tree")
		return s.finish(nil)
	}
	loc := s.location(s.st.top(a.Count), la)
	root := s.tree.NewNonTerminal(a.LHS, a.Rule, cst.NoState, loc, s.st.pop(a.Count))
	return s.finish([]cst.Change{cst.Modify{Position: cst.Position{}, Node: root}})
}

func (s *Session) finish(changes []cst.Change) Status {
	s.result.Status = Accept
	s.result.Changes = changes
	tracer().Debugf("accepted after %d new words and %d old terminals, changes = %v",
		s.wi, s.oldConsumed, changes)
	return Accept
}

func (s *Session) fail(la lookahead, state int, err error) Status {
	s.result.Status = Failed
	s.result.Err = err
	s.tree.Truncate(s.arena)
	s.result.Diagnostics = []Diagnostic{{
		Message:  fmt.Sprintf("Did not expect '%s'.", la.word.Value),
		Start:    la.word.Loc,
		End:      la.word.End(),
		Expected: s.p.tables.Expected(state),
	}}
	tracer().Infof("incremental parse failed at %v: %s", la.word, s.result.Diagnostics[0].Message)
	return Failed
}

// location returns the location of the first word covered by a handle.
// Epsilon handles are located at the lookahead.
func (s *Session) location(handle []element, la lookahead) inclr.SourceLocation {
	if len(handle) == 0 {
		return la.word.Loc
	}
	return s.tree.Node(handle[0].node).Word.Loc
}

func countTerminals(t *cst.Tree, id cst.NodeID) int {
	n := t.Node(id)
	if n.IsTerminal() {
		return 1
	}
	c := 0
	for _, ch := range n.Children {
		c += countTerminals(t, ch)
	}
	return c
}
