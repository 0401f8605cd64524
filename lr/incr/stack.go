package incr

import (
	"github.com/npillmayer/inclr/lr/cst"
)

// element is an entry of the parse stack. Elements of the old tree carry
// their position; orig is the old node an element stands for. An old node
// which has been re-used unchanged has node == orig.
type element struct {
	node cst.NodeID
	orig cst.NodeID
	pos  cst.Position
}

// bottom is the bottom-of-stack sentinel, in state 0.
var bottom = element{node: cst.NoNode, orig: cst.NoNode}

func (e element) isBottom() bool {
	return e.node == cst.NoNode
}

func (e element) unchanged() bool {
	return e.pos != nil && e.node == e.orig
}

// stack is the parse stack. Its upper part is explicit; the lower part is
// virtual: it starts at mark and continues with the nodes of the old tree
// which were on the stack when mark had been shifted. Virtual elements are
// moved to the explicit part as reductions need them.
type stack struct {
	tree     *cst.Tree
	elements []element
	mark     element
}

func (st *stack) oldElement(pos cst.Position) element {
	id := st.tree.At(pos)
	return element{node: id, orig: id, pos: pos}
}

// below returns the virtual element below e.
func (st *stack) below(e element) element {
	if e.isBottom() {
		return bottom
	}
	prev, ok := st.tree.PreviousOnStack(e.pos)
	if !ok {
		return bottom
	}
	return st.oldElement(prev)
}

// at returns the element at depth d, with 0 being the top of stack.
func (st *stack) at(d int) (element, bool) {
	if d < len(st.elements) {
		return st.elements[len(st.elements)-1-d], true
	}
	e := st.mark
	for k := len(st.elements); k < d; k++ {
		if e.isBottom() {
			return bottom, false
		}
		e = st.below(e)
	}
	return e, true
}

func (st *stack) state(e element) int {
	if e.isBottom() {
		return 0
	}
	return st.tree.Node(e.node).State
}

// virtual returns how many elements a reduction of n elements takes from the
// virtual part of the stack.
func (st *stack) virtual(n int) int {
	return n - len(st.elements)
}

// materialize moves virtual elements to the explicit part until it holds at
// least n elements. It returns false if the bottom is reached before.
func (st *stack) materialize(n int) bool {
	need := st.virtual(n)
	if need <= 0 {
		return true
	}
	moved := make([]element, need)
	e := st.mark
	for k := need - 1; k >= 0; k-- {
		if e.isBottom() {
			return false
		}
		moved[k] = e
		e = st.below(e)
	}
	st.elements = append(moved, st.elements...)
	st.mark = e
	return true
}

func (st *stack) push(e element) {
	st.elements = append(st.elements, e)
}

// pop removes the n topmost elements and returns their nodes.
func (st *stack) pop(n int) []cst.NodeID {
	handle := st.elements[len(st.elements)-n:]
	ids := make([]cst.NodeID, n)
	for i, e := range handle {
		ids[i] = e.node
	}
	st.elements = st.elements[:len(st.elements)-n]
	return ids
}

// top returns the n topmost elements.
func (st *stack) top(n int) []element {
	return st.elements[len(st.elements)-n:]
}

// reusable checks if the n topmost elements are the unchanged children of an
// old parent, which has been reduced by rule and entered state. If so, an
// element for the old parent is returned.
func (st *stack) reusable(n int, rule, state int) (element, bool) {
	if n == 0 {
		return element{}, false
	}
	handle := st.top(n)
	parent := handle[0].pos.Parent()
	for k, e := range handle {
		if !e.unchanged() || e.pos.Index() != k || !e.pos.Parent().Equal(parent) {
			return element{}, false
		}
	}
	pid := st.tree.At(parent)
	p := st.tree.Node(pid)
	if p.Rule != rule || len(p.Children) != n {
		return element{}, false
	}
	if len(parent) > 0 && p.State != state {
		return element{}, false
	}
	return element{node: pid, orig: pid, pos: parent}, true
}
