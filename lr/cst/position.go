package cst

import (
	"fmt"
	"strings"
)

// Position is a root-relative path of child indices. The empty position denotes the root.
// Positions are values: operations never modify the receiver's backing array.
type Position []int

// Parent returns the position of the parent. The root's parent is the root.
func (p Position) Parent() Position {
	if len(p) == 0 {
		return p
	}
	return p[: len(p)-1 : len(p)-1]
}

// Index returns the index within the parent, or -1 for the root.
func (p Position) Index() int {
	if len(p) == 0 {
		return -1
	}
	return p[len(p)-1]
}

// Child returns the position of the i-th child.
func (p Position) Child(i int) Position {
	c := make(Position, len(p)+1)
	copy(c, p)
	c[len(p)] = i
	return c
}

// Equal returns true if p and q address the same node.
func (p Position) Equal(q Position) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// IsPrefixOf returns true if p is an ancestor-or-self position of q.
func (p Position) IsPrefixOf(q Position) bool {
	return len(p) <= len(q) && p.Equal(q[:len(p)])
}

// Compare orders positions in document pre-order.
func (p Position) Compare(q Position) int {
	for i := 0; i < len(p) && i < len(q); i++ {
		if p[i] != q[i] {
			if p[i] < q[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(p) < len(q):
		return -1
	case len(p) > len(q):
		return 1
	}
	return 0
}

func (p Position) String() string {
	s := make([]string, len(p))
	for i, x := range p {
		s[i] = fmt.Sprintf("%d", x)
	}
	return "[" + strings.Join(s, ",") + "]"
}
