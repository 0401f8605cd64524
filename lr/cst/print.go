package cst

import (
	"fmt"
	"io"
)

// Print writes an indented representation of t to w, using box drawing characters:
//
//     Start
//     └─ Addition
//        ├─ Addition
//        │  └─ …
//        ├─ "+"
//        └─ Multiplication
//
func (t *Tree) Print(w io.Writer) {
	if t.Empty() {
		return
	}
	t.printTree(w, t.root, "", "")
}

func (t *Tree) printTree(w io.Writer, id NodeID, ruledLine string, childRuledLinePrefix string) {
	n := &t.nodes[id]
	if n.IsTerminal() {
		fmt.Fprintf(w, "%v%#v\n", ruledLine, n.Word.Value)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, n.Word.Value)
	}
	num := len(n.Children)
	for i, child := range n.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}
		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}
		t.printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

// Leveled calls f for every node of t in pre-order, together with its depth.
// This is useful for building indented displays.
func (t *Tree) Leveled(f func(level int, n *Node)) {
	t.Walk(func(id NodeID, pos Position) bool {
		f(len(pos), &t.nodes[id])
		return true
	})
}
