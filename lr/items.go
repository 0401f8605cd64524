package lr

import (
	"bytes"
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"

	"github.com/npillmayer/inclr"
)

// Item is an LR(1) item: a rule with a dot position and a single lookahead
// terminal. Item equality is structural equality.
type Item struct {
	Rule      int    // serial of the rule
	Dot       int    // position of the dot within the right hand side
	Lookahead string // lookahead terminal
}

// StartItem returns the item every LR(1) automaton starts with:
//
//     (rule 0, dot 0, "$")
//
func StartItem() Item {
	return Item{Rule: 0, Dot: 0, Lookahead: inclr.EndMarker}
}

// itemComparator sorts items by dot position descending, then by rule and lookahead.
// Identical logical item sets always serialize identically.
func itemComparator(i1, i2 interface{}) int {
	a, b := i1.(Item), i2.(Item)
	if a.Dot != b.Dot {
		return -utils.IntComparator(a.Dot, b.Dot)
	}
	if a.Rule != b.Rule {
		return utils.IntComparator(a.Rule, b.Rule)
	}
	return utils.StringComparator(a.Lookahead, b.Lookahead)
}

func newItemSet(items ...Item) *treeset.Set {
	S := treeset.NewWith(itemComparator)
	for _, i := range items {
		S.Add(i)
	}
	return S
}

func itemsOf(S *treeset.Set) []Item {
	values := S.Values()
	items := make([]Item, len(values))
	for k, v := range values {
		items[k] = v.(Item)
	}
	return items
}

// PeekSymbol returns the symbol after the dot of item i, if any.
func (g *Grammar) PeekSymbol(i Item) (string, bool) {
	r := g.rules[i.Rule]
	if i.Dot >= len(r.rhs) {
		return "", false
	}
	return r.rhs[i.Dot], true
}

// ItemString returns a readable representation of an item, e.g.
//
//     [A -> a • B c, $]
//
func (g *Grammar) ItemString(i Item) string {
	var b bytes.Buffer
	r := g.rules[i.Rule]
	b.WriteString("[")
	b.WriteString(r.LHS)
	b.WriteString(" ")
	b.WriteString(Arrow)
	for k, sym := range r.rhs {
		if k == i.Dot {
			b.WriteString(" •")
		}
		b.WriteString(" ")
		b.WriteString(sym)
	}
	if i.Dot >= len(r.rhs) {
		b.WriteString(" •")
	}
	b.WriteString(fmt.Sprintf(", %s]", i.Lookahead))
	return b.String()
}

// === Closure and Goto-Set Operations =======================================

// Closure computes the LR(1) closure of a set of items.
// For every item
//
//     [A -> α • B β, a]
//
// and every rule B -> γ, items [B -> • γ, b] are added for every terminal b
// in FIRST(β a). The result is sorted (see Item).
func (ga *LRAnalysis) Closure(items []Item) []Item {
	return itemsOf(ga.closureSet(newItemSet(items...)))
}

func (ga *LRAnalysis) closureSet(S *treeset.Set) *treeset.Set {
	C := newItemSet(itemsOf(S)...)
	work := itemsOf(S)
	for len(work) > 0 {
		item := work[len(work)-1]
		work = work[:len(work)-1]
		B, ok := ga.g.PeekSymbol(item)
		if !ok || !ga.g.IsNonTerminal(B) {
			continue
		}
		beta := ga.g.rules[item.Rule].rhs[item.Dot+1:]
		lookaheads := ga.FirstOfSequence(beta, item.Lookahead)
		for _, r := range ga.g.RulesFor(B) {
			for _, la := range lookaheads {
				i := Item{Rule: r.Serial, Dot: 0, Lookahead: la}
				if !C.Contains(i) {
					C.Add(i)
					work = append(work, i)
				}
			}
		}
	}
	return C
}

// Goto computes the item set reached from items by advancing the dot over sym,
// including closure.
func (ga *LRAnalysis) Goto(items []Item, sym string) []Item {
	return itemsOf(ga.gotoSetClosure(items, sym))
}

func (ga *LRAnalysis) gotoSetClosure(items []Item, A string) *treeset.Set {
	gotoset := newItemSet()
	for _, i := range items {
		if B, ok := ga.g.PeekSymbol(i); ok && B == A {
			gotoset.Add(Item{Rule: i.Rule, Dot: i.Dot + 1, Lookahead: i.Lookahead})
		}
	}
	return ga.closureSet(gotoset)
}
