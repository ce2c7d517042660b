package cowbtree

// cowEnsure is the mutation protocol's entry gate: before any write to a
// node reachable from a tree's root, the reference held by *ref must be
// exclusive. If another tree shares it (rc > 0), a private copy is
// materialized and swapped in; the shared original's rc is dropped by
// one to account for this tree no longer pointing at it directly.
func (t *Tree[T]) cowEnsure(ref **node[T]) bool {
	n := *ref
	if n.rc.Load() <= 0 {
		return true
	}
	cp, ok := t.deepCopy(n)
	if !ok {
		t.oom = true
		return false
	}
	t.drop(n)
	*ref = cp
	return true
}

// deepCopy allocates a fresh node of the same shape as n. For a branch,
// child pointers are copied and each child's rc is bumped: the copy
// shares every child with n, so only nodes actually on a write path ever
// get duplicated. Items are bytewise-copied unless an item-clone hook is
// installed, in which case the hook runs per item with rollback (drop
// the child rc-bumps, free already-cloned items) on first failure.
func (t *Tree[T]) deepCopy(n *node[T]) (*node[T], bool) {
	cp, ok := newNode[T](t.alloc, t.maxItems, n.leaf)
	if !ok {
		return nil, false
	}

	if !n.leaf {
		cp.children = append(cp.children, n.children...)
		for _, c := range cp.children {
			c.rc.Add(1)
		}
	}

	if t.cloneFn == nil {
		cp.items = append(cp.items, n.items...)
		return cp, true
	}

	cp.items = cp.items[:0]
	for i := 0; i < len(n.items); i++ {
		v, ok := t.cloneFn(n.items[i])
		if !ok {
			if !n.leaf {
				for _, c := range cp.children {
					t.drop(c)
				}
			}
			if t.freeFn != nil {
				for _, cloned := range cp.items {
					t.freeFn(cloned)
				}
			}
			t.alloc.Free(cp)
			return nil, false
		}
		cp.items = append(cp.items, v)
	}
	return cp, true
}

// drop decrements n's refcount. If the value observed just before the
// decrement was zero, this call was the last reference: n's children are
// recursively dropped, the item-free hook (if any) runs on every stored
// item, and the node itself returns to the allocator.
func (t *Tree[T]) drop(n *node[T]) {
	if n == nil {
		return
	}
	prev := n.rc.Add(-1) + 1
	if prev > 0 {
		return
	}
	if !n.leaf {
		for _, c := range n.children {
			t.drop(c)
		}
	}
	if t.freeFn != nil {
		for _, item := range n.items {
			t.freeFn(item)
		}
	}
	t.alloc.Free(n)
}
