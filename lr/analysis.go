package lr

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"golang.org/x/tools/container/intsets"

	"github.com/npillmayer/inclr"
)

// LRAnalysis is an object for grammar analysis (compute FIRST and FOLLOW sets,
// and the set of nullable non-terminals).
type LRAnalysis struct {
	g        *Grammar
	nullable intsets.Sparse          // non-terminal indices deriving epsilon
	first    map[string]*treeset.Set // FIRST sets of non-terminals
	follow   map[string]*treeset.Set // FOLLOW sets of non-terminals
}

// Analysis creates an analyser for a grammar. The analyser immediately
// starts its work and computes FIRST and FOLLOW.
func Analysis(g *Grammar) *LRAnalysis {
	ga := &LRAnalysis{
		g:      g,
		first:  make(map[string]*treeset.Set, len(g.nonterminals)),
		follow: make(map[string]*treeset.Set, len(g.nonterminals)),
	}
	for _, nt := range g.nonterminals {
		ga.first[nt] = treeset.NewWith(utils.StringComparator)
		ga.follow[nt] = treeset.NewWith(utils.StringComparator)
	}
	ga.computeFirst()
	ga.computeFollow()
	return ga
}

// Grammar returns the grammar this analyser operates on.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

// Nullable returns true if sym is a non-terminal deriving the empty string.
// Terminals are never nullable.
func (ga *LRAnalysis) Nullable(sym string) bool {
	i, ok := ga.g.ntIndex[sym]
	return ok && ga.nullable.Has(i)
}

// First returns FIRST(sym), sorted. Terminals map to themselves, unknown symbols
// to nil.
func (ga *LRAnalysis) First(sym string) []string {
	if ga.g.IsTerminal(sym) {
		return []string{sym}
	}
	set, ok := ga.first[sym]
	if !ok {
		return nil
	}
	return termList(set)
}

// Follow returns FOLLOW(A) for a non-terminal A, sorted.
func (ga *LRAnalysis) Follow(A string) []string {
	set, ok := ga.follow[A]
	if !ok {
		return nil
	}
	return termList(set)
}

// FirstOfSequence returns the terminals which may start the sentential form
// "syms lookahead", sorted. This is the lookahead set for items created during
// LR(1) closure.
func (ga *LRAnalysis) FirstOfSequence(syms []string, lookahead string) []string {
	set := treeset.NewWith(utils.StringComparator)
	if ga.addFirstOfSequence(set, syms) {
		set.Add(lookahead)
	}
	return termList(set)
}

// addFirstOfSequence adds FIRST(syms) to set and reports whether syms is nullable.
func (ga *LRAnalysis) addFirstOfSequence(set *treeset.Set, syms []string) bool {
	for _, sym := range syms {
		if ga.g.IsTerminal(sym) {
			set.Add(sym)
			return false
		}
		if f, ok := ga.first[sym]; ok {
			set.Add(f.Values()...)
		}
		if !ga.Nullable(sym) {
			return false
		}
	}
	return true
}

// computeFirst is a fixed point iteration over all rules. Recursive
// non-terminals are handled without recursion, as every round only uses the
// sets of the previous one.
func (ga *LRAnalysis) computeFirst() {
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			set := ga.first[r.LHS]
			size := set.Size()
			if ga.addFirstOfSequence(set, r.rhs) {
				if ga.nullable.Insert(ga.g.ntIndex[r.LHS]) {
					changed = true
				}
			}
			changed = changed || set.Size() != size
		}
	}
}

func (ga *LRAnalysis) computeFollow() {
	ga.follow[ga.g.StartSymbol()].Add(inclr.EndMarker)
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			for i, B := range r.rhs {
				set, ok := ga.follow[B]
				if !ok { // B is a terminal
					continue
				}
				size := set.Size()
				if ga.addFirstOfSequence(set, r.rhs[i+1:]) && B != r.LHS {
					set.Add(ga.follow[r.LHS].Values()...)
				}
				changed = changed || set.Size() != size
			}
		}
	}
}

// termList converts a set of terminals to a sorted slice.
func termList(set *treeset.Set) []string {
	values := set.Values()
	r := make([]string, len(values))
	for i, v := range values {
		r[i] = v.(string)
	}
	return r
}
