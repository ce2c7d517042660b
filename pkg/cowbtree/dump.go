package cowbtree

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// Dump renders the tree's node structure for debugging, printing every
// item in order and, for branches, a nested branch per child labelled
// with the child's index and refcount. format
// controls how an individual item is rendered; pass nil to use fmt's
// default verb.
func (t *Tree[T]) Dump(format func(item T) string) string {
	tp := treeprint.New()
	if format == nil {
		format = func(item T) string { return fmt.Sprintf("%v", item) }
	}
	if t.root == nil {
		tp.SetValue("(empty)")
		return tp.String()
	}
	tp.SetValue(fmt.Sprintf("root (rc=%d)", t.root.rc.Load()))
	dumpNode(tp, t.root, format)
	return tp.String()
}

func dumpNode[T any](branch treeprint.Tree, n *node[T], format func(item T) string) {
	if n.leaf {
		for i := 0; i < n.nitems(); i++ {
			branch.AddNode(format(n.get(i)))
		}
		return
	}
	for i := 0; i < n.nitems(); i++ {
		child := branch.AddBranch(fmt.Sprintf("child[%d] (rc=%d)", i, n.children[i].rc.Load()))
		dumpNode(child, n.children[i], format)
		branch.AddNode(format(n.get(i)))
	}
	last := branch.AddBranch(fmt.Sprintf("child[%d] (rc=%d)", n.nitems(), n.children[n.nitems()].rc.Load()))
	dumpNode(last, n.children[n.nitems()], format)
}

// String implements fmt.Stringer using default item formatting.
func (t *Tree[T]) String() string {
	return t.Dump(nil)
}
