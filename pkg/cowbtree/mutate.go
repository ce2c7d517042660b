package cowbtree

// setResult mirrors the mutation core's result enum. NoMemory and
// MustSplit are control-flow signals consumed internally; callers of the
// façade only ever observe Inserted/Replaced (mapped to "previous value,
// replaced bool"); NoMemory surfaces only through the tree's Oom flag.
type setResult int

const (
	resNoChange setResult = iota
	resInserted
	resReplaced
	resMustSplit
	resDeleted
	resNoMemory
)

// splitPolicy selects between the two node-split variants that coexist
// in this engine: balanced (used by Set/Delete) and lean-left (used by
// Load and its set fallback). They must never be unified: lean-left
// exists purely to make bulk ascending loads cheap.
type splitPolicy int

const (
	splitBalanced splitPolicy = iota
	splitLeanLeft
)

// splitNode splits a full node n into (left=n, median, right) under the
// given policy. Balanced promotes the middle item, leaving both halves
// roughly even. Lean-left instead stuffs as many items as possible into
// the left half, leaving right at exactly minItems: ideal for a
// monotonically increasing append stream, since right then has maximal
// room to keep absorbing tail inserts before it must split again.
func (t *Tree[T]) splitNode(n *node[T], policy splitPolicy) (median T, right *node[T], ok bool) {
	right, ok = newNode[T](t.alloc, t.maxItems, n.leaf)
	if !ok {
		var zero T
		return zero, nil, false
	}

	var mid int
	switch policy {
	case splitLeanLeft:
		// n holds exactly maxItems items; reserve minItems for right
		// (including the item past mid, hence the extra -1) so right
		// never drops below the minimum.
		mid = t.maxItems - t.minItems - 1
	default:
		mid = t.maxItems / 2
	}

	if n.leaf {
		median = n.items[mid]
		right.items = append(right.items, n.items[mid+1:]...)
		n.items = n.items[:mid]
		return median, right, true
	}

	median = n.items[mid]
	right.items = append(right.items, n.items[mid+1:]...)
	right.children = append(right.children, n.children[mid+1:]...)
	n.items = n.items[:mid]
	n.children = n.children[:mid+1]
	return median, right, true
}

// nodeSet implements the set/replace half of the mutation core. It
// recurses down, COW-ensuring each child it is about to write through,
// and loops in place (rather than recursing again) when a child reports
// MustSplit, since the target item now lives in one of the two
// post-split children at this same depth.
func (t *Tree[T]) nodeSet(nref **node[T], item T, hint *Hint, depth int, policy splitPolicy) (prev T, result setResult) {
	for {
		n := *nref
		i, found := find(n, item, t.cmp, hint, depth)
		if found {
			prev = n.swap(i, item)
			return prev, resReplaced
		}

		if n.leaf {
			if n.nitems() >= t.maxItems {
				var zero T
				return zero, resMustSplit
			}
			n.shiftRight(i)
			n.set(i, item)
			return prev, resInserted
		}

		if !t.cowEnsure(&n.children[i]) {
			var zero T
			return zero, resNoMemory
		}
		childResult := func() setResult {
			p, r := t.nodeSet(&n.children[i], item, hint, depth+1, policy)
			prev = p
			return r
		}()

		switch childResult {
		case resInserted, resReplaced, resNoMemory:
			return prev, childResult
		case resMustSplit:
			if n.nitems() >= t.maxItems {
				var zero T
				return zero, resMustSplit
			}
			median, right, ok := t.splitNode(n.children[i], policy)
			if !ok {
				var zero T
				return zero, resNoMemory
			}
			n.shiftRight(i)
			n.set(i, median)
			n.children[i+1] = right
			// retry at this depth: the item lands in one of the two
			// freshly split children.
			continue
		default:
			var zero T
			return zero, resNoChange
		}
	}
}

// Set inserts item, or replaces the existing item with the same key. It
// returns the replaced item and true if a replacement occurred.
func (t *Tree[T]) Set(item T) (prev T, replaced bool) {
	return t.SetHint(item, nil)
}

// SetHint is Set with an explicit search hint threaded through. Pass a
// zeroed Hint on first use; reuse it across calls touching nearby keys.
func (t *Tree[T]) SetHint(item T, hint *Hint) (prev T, replaced bool) {
	t.oom = false

	if t.root == nil {
		leaf, ok := newNode[T](t.alloc, t.maxItems, true)
		if !ok {
			t.oom = true
			var zero T
			return zero, false
		}
		leaf.items = append(leaf.items, item)
		t.root = leaf
		t.count = 1
		t.height = 1
		var zero T
		return zero, false
	}

	if !t.cowEnsure(&t.root) {
		var zero T
		return zero, false
	}

	for {
		p, result := t.nodeSet(&t.root, item, hint, 0, splitBalanced)
		switch result {
		case resInserted:
			t.count++
			var zero T
			return zero, false
		case resReplaced:
			return p, true
		case resNoMemory:
			t.oom = true
			var zero T
			return zero, false
		case resMustSplit:
			branch, ok := newNode[T](t.alloc, t.maxItems, false)
			if !ok {
				t.oom = true
				var zero T
				return zero, false
			}
			median, right, ok := t.splitNode(t.root, splitBalanced)
			if !ok {
				t.alloc.Free(branch)
				t.oom = true
				var zero T
				return zero, false
			}
			branch.items = append(branch.items, median)
			branch.children = append(branch.children, t.root, right)
			t.root = branch
			t.height++
			continue
		default:
			var zero T
			return zero, false
		}
	}
}

// Load is the bulk-append fast path: optimized for strictly ascending
// input. It walks the rightmost spine, COW-ensuring along the way; if the
// rightmost leaf is full or item does not strictly exceed the leaf's last
// item, it falls back to a generic set using the lean-left split policy.
// For perfectly ascending input each lean-left split leaves the left leaf
// with maxItems-minItems-1 items; since maxItems = 2*Degree-1 is always
// odd here, that equals the maxItems/2 the balanced split keeps.
func (t *Tree[T]) Load(item T) (prev T, replaced bool) {
	t.oom = false

	if t.root == nil {
		return t.SetHint(item, nil)
	}
	if !t.cowEnsure(&t.root) {
		var zero T
		return zero, false
	}

	n := t.root
	for {
		if n.leaf {
			if n.nitems() < t.maxItems && t.cmp(item, n.items[n.nitems()-1]) > 0 {
				n.items = append(n.items, item)
				t.count++
				var zero T
				return zero, false
			}
			break
		}
		last := len(n.children) - 1
		if !t.cowEnsure(&n.children[last]) {
			t.oom = true
			var zero T
			return zero, false
		}
		n = n.children[last]
	}

	return t.setWithPolicy(item, nil, splitLeanLeft)
}

// setWithPolicy is SetHint generalized over the split policy, used by
// Load's fallback so a non-ascending or full-leaf insertion still gets
// lean-left splitting.
func (t *Tree[T]) setWithPolicy(item T, hint *Hint, policy splitPolicy) (prev T, replaced bool) {
	for {
		p, result := t.nodeSet(&t.root, item, hint, 0, policy)
		switch result {
		case resInserted:
			t.count++
			var zero T
			return zero, false
		case resReplaced:
			return p, true
		case resNoMemory:
			t.oom = true
			var zero T
			return zero, false
		case resMustSplit:
			branch, ok := newNode[T](t.alloc, t.maxItems, false)
			if !ok {
				t.oom = true
				var zero T
				return zero, false
			}
			median, right, ok := t.splitNode(t.root, policy)
			if !ok {
				t.alloc.Free(branch)
				t.oom = true
				var zero T
				return zero, false
			}
			branch.items = append(branch.items, median)
			branch.children = append(branch.children, t.root, right)
			t.root = branch
			t.height++
			continue
		default:
			var zero T
			return zero, false
		}
	}
}
