package cowbtree

import "sync/atomic"

// node is either a leaf or a branch of the tree. rc counts references held
// by anything beyond the conventional parent-owns-child edge: zero means
// this node is exclusively owned by its parent slot and may be mutated in
// place; a positive count means at least one clone also reaches this node,
// so any write must first go through cowEnsure.
//
// items and children are plain slices rather than a hand-laid-out
// contiguous region with separate header/items/children offsets: the
// type system already enforces item size and alignment, so there is
// nothing left for a manual single-allocation layout to buy us.
type node[T any] struct {
	rc       atomic.Int32
	leaf     bool
	items    []T
	children []*node[T]
}

func newNode[T any](alloc Allocator[T], maxItems int, leaf bool) (*node[T], bool) {
	return alloc.Alloc(maxItems, leaf)
}

func (n *node[T]) nitems() int {
	return len(n.items)
}

func (n *node[T]) get(i int) T {
	return n.items[i]
}

func (n *node[T]) set(i int, v T) {
	n.items[i] = v
}

// swap replaces the item at i with v and returns the previous value.
func (n *node[T]) swap(i int, v T) T {
	prev := n.items[i]
	n.items[i] = v
	return prev
}

// shiftRight opens a slot at i: items [i..n) move to [i+1..n+1); for a
// branch, children [i..n] move to [i+1..n+1]. nitems grows by one. The
// caller is responsible for writing the new item (and, for a branch, the
// new child) into the freed slot afterward.
func (n *node[T]) shiftRight(i int) {
	var zero T
	n.items = append(n.items, zero)
	copy(n.items[i+1:], n.items[i:])
	if !n.leaf {
		n.children = append(n.children, nil)
		copy(n.children[i+1:], n.children[i:])
	}
}

// shiftLeft removes slot i: items [i+1..n) move to [i..n-1). For a branch,
// when forMerge is false the left child (index i) is dropped: the normal
// case after a leaf delete or before replacing a separator. When forMerge
// is true the right child (index i+1) is dropped instead: post-merge
// bookkeeping, where children[i] has just absorbed children[i+1] and must
// survive.
func (n *node[T]) shiftLeft(i int, forMerge bool) {
	copy(n.items[i:], n.items[i+1:])
	n.items = n.items[:len(n.items)-1]
	if !n.leaf {
		if forMerge {
			copy(n.children[i+1:], n.children[i+2:])
		} else {
			copy(n.children[i:], n.children[i+1:])
		}
		n.children = n.children[:len(n.children)-1]
	}
}

// join appends right's items and children onto left. No separator is
// added; the caller copies the parent separator into left first.
func join[T any](left, right *node[T]) {
	left.items = append(left.items, right.items...)
	if !left.leaf {
		left.children = append(left.children, right.children...)
	}
}
