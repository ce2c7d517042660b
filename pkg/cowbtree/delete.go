package cowbtree

// deleteAction selects the variant of the delete engine being run.
// actPopMax is internal-only: it is never invoked directly by the
// façade, only by nodeDelete itself as the predecessor-substitution step
// when a key is deleted out of a branch.
type deleteAction int

const (
	actDeleteKey deleteAction = iota
	actPopFront
	actPopBack
	actPopMax
)

// nodeDelete implements the delete/pop half of the mutation core. It
// chooses a position according to act, removes directly if this is a
// leaf, or otherwise recurses and rebalances the child it touched once
// that child reports underflow.
func (t *Tree[T]) nodeDelete(nref **node[T], act deleteAction, key T, hint *Hint, depth int) (removed T, found bool, result setResult) {
	n := *nref

	var i int
	switch act {
	case actDeleteKey:
		i, found = find(n, key, t.cmp, hint, depth)
	case actPopMax:
		i = n.nitems() - 1
		found = true
	case actPopFront:
		i = 0
		found = n.leaf
	case actPopBack:
		if n.leaf {
			i = n.nitems() - 1
			found = true
		} else {
			i = n.nitems()
			found = false
		}
	}

	if n.leaf {
		if !found {
			var zero T
			return zero, false, resNoChange
		}
		removed = n.get(i)
		n.shiftLeft(i, false)
		return removed, true, resDeleted
	}

	if act == actPopMax {
		last := i + 1 // last child index; i == nitems-1 here
		if !t.cowEnsure(&n.children[last]) {
			var zero T
			return zero, false, resNoMemory
		}
		r, f, res := t.nodeDelete(&n.children[last], actPopMax, key, hint, depth+1)
		if res == resDeleted {
			if !t.rebalance(n, last) {
				var zero T
				return zero, false, resNoMemory
			}
		}
		return r, f, res
	}

	if found {
		// DeleteKey matched an item stored in this branch: remove it and
		// substitute its in-order predecessor, popped from the left
		// child via PopMax.
		removed = n.get(i)
		if !t.cowEnsure(&n.children[i]) {
			var zero T
			return zero, false, resNoMemory
		}
		pred, _, res := t.nodeDelete(&n.children[i], actPopMax, key, hint, depth+1)
		if res == resNoMemory {
			var zero T
			return zero, false, resNoMemory
		}
		n.set(i, pred)
		if !t.rebalance(n, i) {
			var zero T
			return zero, false, resNoMemory
		}
		return removed, true, resDeleted
	}

	if !t.cowEnsure(&n.children[i]) {
		var zero T
		return zero, false, resNoMemory
	}
	r, f, res := t.nodeDelete(&n.children[i], act, key, hint, depth+1)
	if res == resDeleted {
		if !t.rebalance(n, i) {
			var zero T
			return zero, false, resNoMemory
		}
	}
	return r, f, res
}

// rebalance restores the minItems invariant on n.children[idx] after a
// deletion has shrunk it, merging it with a sibling or rotating one item
// across the separator. idx is the index of the child that may have
// underflowed; if it names the last child, the pair is shifted left by
// one so a right sibling always exists.
func (t *Tree[T]) rebalance(n *node[T], idx int) bool {
	if n.children[idx].nitems() >= t.minItems {
		return true
	}

	i := idx
	if i == n.nitems() {
		i--
	}
	if !t.cowEnsure(&n.children[i]) {
		return false
	}
	if !t.cowEnsure(&n.children[i+1]) {
		return false
	}
	left := n.children[i]
	right := n.children[i+1]

	if left.nitems()+right.nitems() < t.maxItems {
		left.items = append(left.items, n.get(i))
		join(left, right)
		t.drop(right)
		n.shiftLeft(i, true)
		return true
	}

	if left.nitems() > right.nitems() {
		right.shiftRight(0)
		right.set(0, n.get(i))
		n.set(i, left.get(left.nitems()-1))
		if !left.leaf {
			last := len(left.children) - 1
			right.children[0] = left.children[last]
			left.children = left.children[:last]
		}
		left.items = left.items[:left.nitems()-1]
		return true
	}

	left.items = append(left.items, n.get(i))
	n.set(i, right.get(0))
	if !right.leaf {
		left.children = append(left.children, right.children[0])
	}
	right.shiftLeft(0, false)
	return true
}

// finishDelete is the façade-level cleanup shared by Delete, PopMin and
// PopMax: it drops a root that has become empty, replacing it with its
// sole child (if a branch) or nothing (if a leaf), and decrements height
// to match.
func (t *Tree[T]) finishDelete() {
	if t.root == nil {
		return
	}
	if t.root.nitems() > 0 {
		return
	}
	if t.root.leaf {
		t.drop(t.root)
		t.root = nil
		t.height = 0
		return
	}
	old := t.root
	t.root = old.children[0]
	old.children = old.children[:0]
	t.drop(old)
	t.height--
}

// Delete removes key and returns the removed item, if present.
func (t *Tree[T]) Delete(key T) (prev T, found bool) {
	return t.DeleteHint(key, nil)
}

// DeleteHint is Delete threaded through an explicit search hint.
func (t *Tree[T]) DeleteHint(key T, hint *Hint) (prev T, found bool) {
	t.oom = false
	if t.root == nil {
		var zero T
		return zero, false
	}
	if !t.cowEnsure(&t.root) {
		var zero T
		return zero, false
	}
	removed, found, result := t.nodeDelete(&t.root, actDeleteKey, key, hint, 0)
	if result == resNoMemory {
		t.oom = true
		var zero T
		return zero, false
	}
	if !found {
		var zero T
		return zero, false
	}
	t.count--
	t.finishDelete()
	return removed, true
}

// PopMin removes and returns the smallest item in the tree.
func (t *Tree[T]) PopMin() (item T, ok bool) {
	return t.popEnd(actPopFront)
}

// PopMax removes and returns the largest item in the tree.
func (t *Tree[T]) PopMax() (item T, ok bool) {
	return t.popEnd(actPopBack)
}

// popEnd implements the fast pop-min/pop-max descent: it walks straight
// down the first-child (resp. last-child) spine COW-ensuring along the
// way, and removes in place at the leaf when that leaf still has room to
// spare; otherwise it falls back to the generic delete path, which knows
// how to rebalance.
func (t *Tree[T]) popEnd(act deleteAction) (item T, ok bool) {
	t.oom = false
	if t.root == nil {
		var zero T
		return zero, false
	}
	if !t.cowEnsure(&t.root) {
		var zero T
		return zero, false
	}

	n := t.root
	for !n.leaf {
		var idx int
		if act == actPopFront {
			idx = 0
		} else {
			idx = len(n.children) - 1
		}
		if !t.cowEnsure(&n.children[idx]) {
			t.oom = true
			var zero T
			return zero, false
		}
		n = n.children[idx]
	}

	if n.nitems() > t.minItems {
		if act == actPopFront {
			item = n.get(0)
			n.shiftLeft(0, false)
		} else {
			item = n.get(n.nitems() - 1)
			n.items = n.items[:n.nitems()-1]
		}
		t.count--
		t.finishDelete()
		return item, true
	}

	var zero T
	removed, found, result := t.nodeDelete(&t.root, act, zero, nil, 0)
	if result == resNoMemory {
		t.oom = true
		return zero, false
	}
	if !found {
		return zero, false
	}
	t.count--
	t.finishDelete()
	return removed, true
}
