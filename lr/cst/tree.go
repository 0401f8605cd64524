/*
Package cst implements concrete syntax trees for LR parsing.

Trees are stored in an arena of nodes addressed by NodeID. Every node knows
its children, its parent and its index within the parent's children. Nodes are
never removed from the arena while a tree is in use: parsers append new nodes
and share untouched nodes between the previous and the new version of a tree.
Changes to a tree are expressed as a list of Change operations addressed by
Position, which clients apply with Tree.Apply.

Positions are paths of child indices, relative to the root:

    []        root
    [0]       first child of the root
    [0 2 1]   second child of the third child of the first child of the root

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cst

import (
	"fmt"
	"strings"

	"github.com/npillmayer/inclr"
)

// NodeID addresses a node within the arena of a tree.
type NodeID int32

// NoNode is the null value for node references.
const NoNode NodeID = -1

// NoRule marks terminal nodes, NoState nodes without an automaton state (roots).
const (
	NoRule  = -1
	NoState = -1
)

// Node is a node of a concrete syntax tree. Non-terminal nodes carry the left hand side
// symbol of their rule as their word's value.
type Node struct {
	Word          inclr.Word
	State         int      // automaton state after shifting or reducing into this node
	Rule          int      // rule of a non-terminal node, NoRule for terminals
	Children      []NodeID // ordered children
	Parent        NodeID   // NoNode for the root and for detached nodes
	IndexInParent int
}

// IsTerminal returns true for nodes of scanned words.
func (n *Node) IsTerminal() bool {
	return n.Rule == NoRule
}

// Label returns the grammar symbol of a node. For terminals this is the word's
// value, for non-terminals the left hand side of the node's rule.
func (n *Node) Label() string {
	return n.Word.Value
}

// Tree is a concrete syntax tree, backed by an arena of nodes.
type Tree struct {
	nodes []Node
	root  NodeID
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{root: NoNode}
}

// Root returns the root node of t, or NoNode for an empty tree.
func (t *Tree) Root() NodeID {
	return t.root
}

// Empty returns true if t has no root.
func (t *Tree) Empty() bool {
	return t == nil || t.root == NoNode
}

// Len returns the number of nodes in the arena, including unreachable ones.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node for id. The node may be inspected, but clients should
// change trees through Apply only. The pointer is valid until the next node is
// allocated in the arena.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// Truncate drops the nodes with IDs n and above from the arena. It is used to
// discard detached nodes of an abandoned parse; no node of the tree may refer
// to a dropped node.
func (t *Tree) Truncate(n int) {
	if n < 0 || n >= len(t.nodes) || (t.root != NoNode && int(t.root) >= n) {
		return
	}
	for i := n; i < len(t.nodes); i++ {
		t.nodes[i] = Node{}
	}
	t.nodes = t.nodes[:n]
}

// NewTerminal appends a detached leaf node for a scanned word.
func (t *Tree) NewTerminal(w inclr.Word, state int) NodeID {
	t.nodes = append(t.nodes, Node{
		Word:   w,
		State:  state,
		Rule:   NoRule,
		Parent: NoNode,
	})
	return NodeID(len(t.nodes) - 1)
}

// NewNonTerminal appends a detached node for a reduction of rule, labeled lhs.
// The children are not re-linked to the new node: this happens when the node
// becomes part of the tree (see SetRoot and Apply).
func (t *Tree) NewNonTerminal(lhs string, rule, state int, loc inclr.SourceLocation,
	children []NodeID) NodeID {
	//
	t.nodes = append(t.nodes, Node{
		Word:     inclr.Word{Value: lhs, Type: inclr.Symbol, Loc: loc},
		State:    state,
		Rule:     rule,
		Children: append([]NodeID(nil), children...),
		Parent:   NoNode,
	})
	return NodeID(len(t.nodes) - 1)
}

// Clone appends a detached copy of node id with a different state. The copy
// shares no children slice with node id.
func (t *Tree) Clone(id NodeID, state int) NodeID {
	n := t.nodes[id]
	n.State = state
	n.Children = append([]NodeID(nil), n.Children...)
	n.Parent, n.IndexInParent = NoNode, 0
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// SetRoot makes id the root of t and links the complete subtree below it.
func (t *Tree) SetRoot(id NodeID) {
	t.root = id
	t.nodes[id].Parent, t.nodes[id].IndexInParent = NoNode, 0
	t.linkAll(id)
}

func (t *Tree) linkAll(id NodeID) {
	for i, c := range t.nodes[id].Children {
		t.nodes[c].Parent, t.nodes[c].IndexInParent = id, i
		t.linkAll(c)
	}
}

// link sets the parent references of the children of id. Detached children
// (new nodes) are linked recursively; attached children are shared nodes
// whose subtrees are already consistent.
func (t *Tree) link(id NodeID) {
	for i, c := range t.nodes[id].Children {
		detached := t.nodes[c].Parent == NoNode && c != t.root
		t.nodes[c].Parent, t.nodes[c].IndexInParent = id, i
		if detached {
			t.link(c)
		}
	}
}

// --- Navigation ------------------------------------------------------------

// At returns the node at position pos, or NoNode if pos is not valid for t.
func (t *Tree) At(pos Position) NodeID {
	if t.Empty() {
		return NoNode
	}
	id := t.root
	for _, i := range pos {
		ch := t.nodes[id].Children
		if i < 0 || i >= len(ch) {
			return NoNode
		}
		id = ch[i]
	}
	return id
}

// IsValid returns true if pos addresses a node of t.
func (t *Tree) IsValid(pos Position) bool {
	return t.At(pos) != NoNode
}

// PositionOf returns the position of an attached node, following parent links.
func (t *Tree) PositionOf(id NodeID) Position {
	var rev []int
	for id != t.root && id != NoNode {
		rev = append(rev, t.nodes[id].IndexInParent)
		id = t.nodes[id].Parent
	}
	if id == NoNode {
		return nil
	}
	pos := make(Position, len(rev))
	for i, x := range rev {
		pos[len(rev)-1-i] = x
	}
	return pos
}

// PreviousOnStack returns the position of the node below pos on the parse stack
// which produced the tree: its previous sibling or, if pos is a first child,
// the previous sibling of the nearest ancestor having one. If there is no such
// node, the bottom of the stack has been reached and ok is false.
func (t *Tree) PreviousOnStack(pos Position) (prev Position, ok bool) {
	for len(pos) > 0 {
		if i := pos.Index(); i > 0 {
			return pos.Parent().Child(i - 1), true
		}
		pos = pos.Parent()
	}
	return nil, false
}

// NextTerminalAfter returns the position of the first terminal following the
// subtree at pos, in document order.
func (t *Tree) NextTerminalAfter(pos Position) (Position, bool) {
	for len(pos) > 0 {
		parent := pos.Parent()
		pid := t.At(parent)
		if pid == NoNode {
			return nil, false
		}
		ch := t.nodes[pid].Children
		for i := pos.Index() + 1; i < len(ch); i++ {
			if p, ok := t.FirstTerminal(parent.Child(i)); ok {
				return p, true
			}
		}
		pos = parent
	}
	return nil, false
}

// LastTerminalBefore returns the position of the last terminal preceding the
// subtree at pos, in document order.
func (t *Tree) LastTerminalBefore(pos Position) (Position, bool) {
	for len(pos) > 0 {
		parent := pos.Parent()
		for i := pos.Index() - 1; i >= 0; i-- {
			if p, ok := t.LastTerminal(parent.Child(i)); ok {
				return p, true
			}
		}
		pos = parent
	}
	return nil, false
}

// FirstTerminal returns the position of the leftmost terminal within the subtree at pos.
func (t *Tree) FirstTerminal(pos Position) (Position, bool) {
	id := t.At(pos)
	if id == NoNode {
		return nil, false
	}
	if t.nodes[id].IsTerminal() {
		return pos, true
	}
	for i := range t.nodes[id].Children {
		if p, ok := t.FirstTerminal(pos.Child(i)); ok {
			return p, true
		}
	}
	return nil, false
}

// LastTerminal returns the position of the rightmost terminal within the subtree at pos.
func (t *Tree) LastTerminal(pos Position) (Position, bool) {
	id := t.At(pos)
	if id == NoNode {
		return nil, false
	}
	if t.nodes[id].IsTerminal() {
		return pos, true
	}
	for i := len(t.nodes[id].Children) - 1; i >= 0; i-- {
		if p, ok := t.LastTerminal(pos.Child(i)); ok {
			return p, true
		}
	}
	return nil, false
}

// Terminals returns the positions of all terminals of t, in document order.
func (t *Tree) Terminals() []Position {
	var r []Position
	t.Walk(func(id NodeID, pos Position) bool {
		if t.nodes[id].IsTerminal() {
			r = append(r, pos)
		}
		return true
	})
	return r
}

// Walk visits the nodes of t in pre-order. If f returns false, the children of
// the current node are skipped.
func (t *Tree) Walk(f func(NodeID, Position) bool) {
	if t.Empty() {
		return
	}
	t.walk(t.root, Position{}, f)
}

func (t *Tree) walk(id NodeID, pos Position, f func(NodeID, Position) bool) {
	if !f(id, pos) {
		return
	}
	for i, c := range t.nodes[id].Children {
		t.walk(c, pos.Child(i), f)
	}
}

// Text joins the values of the terminals below id, separated by blanks.
func (t *Tree) Text(id NodeID) string {
	var words []string
	var collect func(NodeID)
	collect = func(n NodeID) {
		if t.nodes[n].IsTerminal() {
			words = append(words, t.nodes[n].Word.Value)
		}
		for _, c := range t.nodes[n].Children {
			collect(c)
		}
	}
	collect(id)
	return strings.Join(words, " ")
}

// Verify checks the parent links of all nodes reachable from the root.
func (t *Tree) Verify() error {
	if t.Empty() {
		return nil
	}
	if p := t.nodes[t.root].Parent; p != NoNode {
		return fmt.Errorf("root %d has parent %d", t.root, p)
	}
	var err error
	t.Walk(func(id NodeID, pos Position) bool {
		for i, c := range t.nodes[id].Children {
			n := &t.nodes[c]
			if n.Parent != id || n.IndexInParent != i {
				err = fmt.Errorf("node %d at %v has parent %d/%d, expected %d/%d",
					c, pos.Child(i), n.Parent, n.IndexInParent, id, i)
				return false
			}
		}
		return err == nil
	})
	return err
}

// Compact removes all nodes from the arena which are not reachable from the root.
// Node IDs change, positions stay valid.
func (t *Tree) Compact() {
	if t.Empty() {
		t.nodes = nil
		return
	}
	nodes := make([]Node, 0, len(t.nodes))
	var copyNode func(NodeID) NodeID
	copyNode = func(id NodeID) NodeID {
		n := t.nodes[id]
		nid := NodeID(len(nodes))
		nodes = append(nodes, n)
		children := make([]NodeID, len(n.Children))
		for i, c := range n.Children {
			children[i] = copyNode(c)
			nodes[children[i]].Parent = nid
			nodes[children[i]].IndexInParent = i
		}
		nodes[nid].Children = children
		return nid
	}
	root := copyNode(t.root)
	nodes[root].Parent = NoNode
	t.nodes, t.root = nodes, root
}

// Equal compares the subtree at n1 in t1 with the subtree at n2 in t2 structurally:
// labels, word types, rules and children have to be equal. States, source
// locations and node IDs are not compared.
func Equal(t1 *Tree, n1 NodeID, t2 *Tree, n2 NodeID) bool {
	if n1 == NoNode || n2 == NoNode {
		return n1 == n2
	}
	a, b := &t1.nodes[n1], &t2.nodes[n2]
	if a.Word.Value != b.Word.Value || a.Word.Type != b.Word.Type || a.Rule != b.Rule ||
		len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(t1, a.Children[i], t2, b.Children[i]) {
			return false
		}
	}
	return true
}
