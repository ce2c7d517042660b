package cowbtree

// IterFunc is a read-only traversal callback. Returning false stops the
// traversal early; the public Scan/Ascend/Descend call then reports
// "did not finish".
type IterFunc[T any] func(item T) bool

// Action is the outcome an ActionFunc may request from an action-iteration
// step.
type Action int

const (
	// ActionNone leaves the item untouched and continues.
	ActionNone Action = iota
	// ActionUpdate asks the engine to write the (possibly edited) item
	// back in place, provided its key compares equal to the original.
	ActionUpdate
	// ActionDelete removes the current item and continues from its
	// former position.
	ActionDelete
	// ActionStop ends the traversal immediately.
	ActionStop
)

// ActionFunc is invoked with a pointer to a mutable copy of the current
// item. Editing *item and returning ActionUpdate writes it back only if
// the edit preserved the item's key under the tree's comparator.
type ActionFunc[T any] func(item *T) Action

// scanNode walks n's subtree strictly in order.
func (t *Tree[T]) scanNode(n *node[T], fn IterFunc[T]) bool {
	for i := 0; i < n.nitems(); i++ {
		if !n.leaf {
			if !t.scanNode(n.children[i], fn) {
				return false
			}
		}
		if !fn(n.get(i)) {
			return false
		}
	}
	if !n.leaf {
		if !t.scanNode(n.children[n.nitems()], fn) {
			return false
		}
	}
	return true
}

// Scan visits every item in ascending order. It returns false if fn
// requested early termination.
func (t *Tree[T]) Scan(fn IterFunc[T]) bool {
	if t.root == nil {
		return true
	}
	return t.scanNode(t.root, fn)
}

func (t *Tree[T]) ascendReadNode(n *node[T], pivot *T, fn IterFunc[T]) bool {
	i := 0
	found := false
	if pivot != nil {
		i, found = bsearch(n, *pivot, t.cmp)
	}
	first := true
	for ; i < n.nitems(); i++ {
		if !n.leaf && !(found && first) {
			var childPivot *T
			if first {
				childPivot = pivot
			}
			if !t.ascendReadNode(n.children[i], childPivot, fn) {
				return false
			}
		}
		first = false
		if !fn(n.get(i)) {
			return false
		}
	}
	if !n.leaf {
		var childPivot *T
		if first {
			childPivot = pivot
		}
		if !t.ascendReadNode(n.children[i], childPivot, fn) {
			return false
		}
	}
	return true
}

// Ascend visits items in ascending order starting from the first item
// greater than or equal to pivot. Pass nil for pivot to visit everything.
func (t *Tree[T]) Ascend(pivot *T, fn IterFunc[T]) bool {
	if t.root == nil {
		return true
	}
	return t.ascendReadNode(t.root, pivot, fn)
}

func (t *Tree[T]) descendReadNode(n *node[T], pivot *T, fn IterFunc[T]) bool {
	i := n.nitems() - 1
	found := false
	if pivot != nil {
		idx, f := bsearch(n, *pivot, t.cmp)
		found = f
		if found {
			i = idx
		} else {
			i = idx - 1
		}
	}
	first := true
	for ; i >= 0; i-- {
		if !n.leaf && !(found && first) {
			var childPivot *T
			if first {
				childPivot = pivot
			}
			if !t.descendReadNode(n.children[i+1], childPivot, fn) {
				return false
			}
		}
		first = false
		if !fn(n.get(i)) {
			return false
		}
	}
	if !n.leaf {
		var childPivot *T
		if first {
			childPivot = pivot
		}
		if !t.descendReadNode(n.children[0], childPivot, fn) {
			return false
		}
	}
	return true
}

// Descend visits items in descending order starting from the first item
// less than or equal to pivot. Pass nil for pivot to visit everything.
func (t *Tree[T]) Descend(pivot *T, fn IterFunc[T]) bool {
	if t.root == nil {
		return true
	}
	return t.descendReadNode(t.root, pivot, fn)
}

// Min returns the smallest item in the tree.
func (t *Tree[T]) Min() (item T, ok bool) {
	if t.root == nil {
		return item, false
	}
	n := t.root
	for !n.leaf {
		n = n.children[0]
	}
	if n.nitems() == 0 {
		return item, false
	}
	return n.get(0), true
}

// Max returns the largest item in the tree.
func (t *Tree[T]) Max() (item T, ok bool) {
	if t.root == nil {
		return item, false
	}
	n := t.root
	for !n.leaf {
		n = n.children[len(n.children)-1]
	}
	if n.nitems() == 0 {
		return item, false
	}
	return n.get(n.nitems() - 1), true
}

// actionOutcome communicates how an action-iteration subtree call ended:
// stopped (ActionStop reached), or restart (a Delete forced a generic
// delete + rebalance, so the whole traversal must resume from pivot), or
// neither (finished this subtree normally).
type actionOutcome[T any] struct {
	stopped bool
	restart bool
	pivot   T
}

// resolveAction runs fn against n.items[i], applying the "silently retry
// on key-changing update" policy: an ActionUpdate whose edited key no
// longer compares equal to the original is never written back; the
// callback is invoked again against a fresh copy of the original until
// it stops asking for a key-changing update.
func (t *Tree[T]) resolveAction(n *node[T], i int, fn ActionFunc[T]) Action {
	orig := n.get(i)
	item := orig
	action := fn(&item)
	for action == ActionUpdate {
		if t.cmp(item, orig) == 0 {
			n.set(i, item)
			return ActionNone
		}
		item = orig
		action = fn(&item)
	}
	return action
}

func (t *Tree[T]) actionAscendNode(nref **node[T], pivot *T, fn ActionFunc[T]) actionOutcome[T] {
	n := *nref
	i := 0
	if pivot != nil {
		i, _ = bsearch(n, *pivot, t.cmp)
	}
	first := true
	for i < n.nitems() {
		if !n.leaf {
			var childPivot *T
			if first {
				childPivot = pivot
			}
			if !t.cowEnsure(&n.children[i]) {
				t.oom = true
				return actionOutcome[T]{stopped: true}
			}
			out := t.actionAscendNode(&n.children[i], childPivot, fn)
			if out.stopped || out.restart {
				return out
			}
		}
		first = false

		switch t.resolveAction(n, i, fn) {
		case ActionStop:
			return actionOutcome[T]{stopped: true}
		case ActionDelete:
			orig := n.get(i)
			if n.leaf && n.nitems() > t.minItems {
				n.shiftLeft(i, false)
				t.count--
				continue
			}
			return actionOutcome[T]{restart: true, pivot: orig}
		}
		i++
	}
	if !n.leaf {
		if !t.cowEnsure(&n.children[i]) {
			t.oom = true
			return actionOutcome[T]{stopped: true}
		}
		out := t.actionAscendNode(&n.children[i], nil, fn)
		if out.stopped || out.restart {
			return out
		}
	}
	return actionOutcome[T]{}
}

func (t *Tree[T]) actionDescendNode(nref **node[T], pivot *T, fn ActionFunc[T]) actionOutcome[T] {
	n := *nref
	i := n.nitems() - 1
	if pivot != nil {
		idx, found := bsearch(n, *pivot, t.cmp)
		if found {
			i = idx
		} else {
			i = idx - 1
		}
	}
	first := true
	for i >= 0 {
		if !n.leaf {
			var childPivot *T
			if first {
				childPivot = pivot
			}
			if !t.cowEnsure(&n.children[i+1]) {
				t.oom = true
				return actionOutcome[T]{stopped: true}
			}
			out := t.actionDescendNode(&n.children[i+1], childPivot, fn)
			if out.stopped || out.restart {
				return out
			}
		}
		first = false

		switch t.resolveAction(n, i, fn) {
		case ActionStop:
			return actionOutcome[T]{stopped: true}
		case ActionDelete:
			orig := n.get(i)
			if n.leaf && n.nitems() > t.minItems {
				n.shiftLeft(i, false)
				t.count--
				i--
				continue
			}
			return actionOutcome[T]{restart: true, pivot: orig}
		}
		i--
	}
	if !n.leaf {
		if !t.cowEnsure(&n.children[0]) {
			t.oom = true
			return actionOutcome[T]{stopped: true}
		}
		out := t.actionDescendNode(&n.children[0], nil, fn)
		if out.stopped || out.restart {
			return out
		}
	}
	return actionOutcome[T]{}
}

// ActionAscend traverses ascending from pivot (nil = from the start),
// allowing fn to update or delete items in place. A delete request that
// cannot be satisfied by a simple leaf-local shift (the item lives in a
// branch, or its leaf would underflow) is carried out through the
// regular delete engine, which may copy-on-write and rebalance anywhere
// on the path from the root; the walk then restarts from that item's
// former key, bounded by the strictly decreasing item count.
func (t *Tree[T]) ActionAscend(pivot *T, fn ActionFunc[T]) {
	t.oom = false
	for {
		if t.root == nil {
			return
		}
		if !t.cowEnsure(&t.root) {
			t.oom = true
			return
		}
		out := t.actionAscendNode(&t.root, pivot, fn)
		if out.stopped {
			t.finishDelete()
			return
		}
		if out.restart {
			if !t.performRestartDelete(out.pivot) {
				return
			}
			pv := out.pivot
			pivot = &pv
			continue
		}
		t.finishDelete()
		return
	}
}

// ActionDescend is ActionAscend in descending order.
func (t *Tree[T]) ActionDescend(pivot *T, fn ActionFunc[T]) {
	t.oom = false
	for {
		if t.root == nil {
			return
		}
		if !t.cowEnsure(&t.root) {
			t.oom = true
			return
		}
		out := t.actionDescendNode(&t.root, pivot, fn)
		if out.stopped {
			t.finishDelete()
			return
		}
		if out.restart {
			if !t.performRestartDelete(out.pivot) {
				return
			}
			pv := out.pivot
			pivot = &pv
			continue
		}
		t.finishDelete()
		return
	}
}

// performRestartDelete runs the full delete engine against key, from the
// root, on behalf of an action-iteration step that could not remove its
// item in place. The root has already been made exclusive by the caller;
// nodeDelete's own cowEnsure calls along the path are no-ops wherever
// this pass already walked (rc is already zero there).
func (t *Tree[T]) performRestartDelete(key T) bool {
	_, found, result := t.nodeDelete(&t.root, actDeleteKey, key, nil, 0)
	if result == resNoMemory {
		t.oom = true
		t.finishDelete()
		return false
	}
	if found {
		t.count--
	}
	t.finishDelete()
	return true
}
