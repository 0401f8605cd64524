package cst

import (
	"errors"
	"fmt"
)

// Change is a modification of a tree, produced by a parser. It is one of Add,
// Remove or Modify.
type Change interface {
	isChange()
	Pos() Position
}

// Add inserts Node at Position, moving subsequent siblings to the right.
type Add struct {
	Position Position
	Node     NodeID
}

// Remove deletes the node at Position, moving subsequent siblings to the left.
type Remove struct {
	Position Position
}

// Modify replaces the node at Position by Node. A Modify at the root position
// replaces the whole tree.
type Modify struct {
	Position Position
	Node     NodeID
}

func (Add) isChange()    {}
func (Remove) isChange() {}
func (Modify) isChange() {}

// Pos is part of interface Change.
func (c Add) Pos() Position { return c.Position }

// Pos is part of interface Change.
func (c Remove) Pos() Position { return c.Position }

// Pos is part of interface Change.
func (c Modify) Pos() Position { return c.Position }

func (c Add) String() string    { return fmt.Sprintf("add %v: %d", c.Position, c.Node) }
func (c Remove) String() string { return fmt.Sprintf("remove %v", c.Position) }
func (c Modify) String() string { return fmt.Sprintf("modify %v: %d", c.Position, c.Node) }

// ErrInvalidPosition is returned when applying a change to a position not present in a tree.
var ErrInvalidPosition = errors.New("invalid tree position")

// Apply applies changes to t, in order. New nodes referenced by changes have to
// live in t's arena. Parent links of new nodes and of re-used nodes moved into a
// new parent are updated.
func (t *Tree) Apply(changes []Change) error {
	for _, c := range changes {
		if err := t.apply(c); err != nil {
			return fmt.Errorf("cannot apply %v: %w", c, err)
		}
	}
	return nil
}

func (t *Tree) apply(c Change) error {
	pos := c.Pos()
	if len(pos) == 0 {
		m, ok := c.(Modify)
		if !ok {
			return fmt.Errorf("%w: only modify may address the root", ErrInvalidPosition)
		}
		t.root = m.Node
		t.nodes[m.Node].Parent, t.nodes[m.Node].IndexInParent = NoNode, 0
		t.link(m.Node)
		return nil
	}
	pid := t.At(pos.Parent())
	if pid == NoNode {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, pos)
	}
	parent := &t.nodes[pid]
	i := pos.Index()
	switch c := c.(type) {
	case Modify:
		if i >= len(parent.Children) {
			return fmt.Errorf("%w: %v", ErrInvalidPosition, pos)
		}
		parent.Children[i] = c.Node
		t.nodes[c.Node].Parent = NoNode
		t.link(pid)
	case Add:
		if i > len(parent.Children) {
			return fmt.Errorf("%w: %v", ErrInvalidPosition, pos)
		}
		parent.Children = append(parent.Children, NoNode)
		copy(parent.Children[i+1:], parent.Children[i:])
		parent.Children[i] = c.Node
		t.nodes[c.Node].Parent = NoNode
		t.link(pid)
	case Remove:
		if i >= len(parent.Children) {
			return fmt.Errorf("%w: %v", ErrInvalidPosition, pos)
		}
		parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
		t.link(pid)
	}
	return nil
}

// SimplifyChanges merges a Remove immediately followed by an Add at the same
// position into a single Modify.
func SimplifyChanges(changes []Change) []Change {
	r := make([]Change, 0, len(changes))
	for i := 0; i < len(changes); i++ {
		if rm, ok := changes[i].(Remove); ok && i+1 < len(changes) {
			if add, ok := changes[i+1].(Add); ok && add.Position.Equal(rm.Position) {
				r = append(r, Modify{Position: rm.Position, Node: add.Node})
				i++
				continue
			}
		}
		r = append(r, changes[i])
	}
	return r
}
