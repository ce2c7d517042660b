// Package cowbtree implements an in-memory ordered B-tree with
// copy-on-write snapshot cloning. Trees store items of a caller-chosen
// type T ordered by a caller-supplied CompareFunc; cloning a tree is an
// O(1) operation that shares every node with the original until one side
// or the other writes through it, at which point only the nodes on the
// write path are duplicated.
//
// A Tree is not safe for concurrent use by multiple goroutines. Clone it
// first: the original and the clone may then be used from different
// goroutines independently, since every node either belongs to exactly
// one of them or is immutable shared structure protected by an atomic
// refcount.
package cowbtree

// CloneFunc, if installed, deep-copies an item into a fresh value,
// reporting false on allocation failure. FreeFunc, if installed, releases
// resources owned by an item that the tree is discarding for good. Both
// are optional: a tree holding plain value types (ints, fixed structs)
// needs neither.
type (
	CloneFunc[T any] func(item T) (T, bool)
	FreeFunc[T any]  func(item T)
)

// Options configures a Tree at construction.
type Options[T any] struct {
	// Compare is the total order over items. Required.
	Compare CompareFunc[T]
	// Degree sets the per-node fan-out: maxItems = 2*Degree-1, clamped to
	// [3, 2045]. Zero selects a default of 128 (maxItems ~= 255).
	Degree int
	// Allocator supplies node storage. Defaults to a garbage-collected
	// allocator when nil.
	Allocator Allocator[T]
	// Clone and Free are the optional per-item hooks run by the COW
	// engine and by Clear/Free.
	Clone CloneFunc[T]
	Free  FreeFunc[T]
}

const (
	minDegree     = 2
	maxDegreeCap  = 1023
	defaultDegree = 128
)

// Tree is the public B-tree handle. The zero value is not usable;
// construct with New or NewOptions.
type Tree[T any] struct {
	root     *node[T]
	count    int
	height   int
	oom      bool
	cmp      CompareFunc[T]
	alloc    Allocator[T]
	cloneFn  CloneFunc[T]
	freeFn   FreeFunc[T]
	maxItems int
	minItems int
}

// New returns a tree ordered by cmp, using default fan-out and the
// garbage-collected allocator.
func New[T any](cmp CompareFunc[T]) (*Tree[T], error) {
	return NewOptions(Options[T]{Compare: cmp})
}

// NewOptions returns a tree configured per opts. It fails only when
// Compare is nil; no allocation happens until the first mutation.
func NewOptions[T any](opts Options[T]) (*Tree[T], error) {
	if opts.Compare == nil {
		return nil, ErrNilCompare
	}

	degree := opts.Degree
	if degree == 0 {
		degree = defaultDegree
	}
	if degree < minDegree {
		degree = minDegree
	}
	if degree > maxDegreeCap {
		degree = maxDegreeCap
	}
	maxItems := 2*degree - 1
	if maxItems < 3 {
		maxItems = 3
	}
	if maxItems > 2045 {
		maxItems = 2045
	}

	alloc := opts.Allocator
	if alloc == nil {
		alloc = NewAllocator[T]()
	}

	return &Tree[T]{
		cmp:      opts.Compare,
		alloc:    alloc,
		cloneFn:  opts.Clone,
		freeFn:   opts.Free,
		maxItems: maxItems,
		minItems: maxItems / 2,
	}, nil
}

// SetItemHooks installs or replaces the clone/free hooks used by the COW
// engine. Either may be nil to disable that hook. Affects only
// subsequent operations.
func (t *Tree[T]) SetItemHooks(clone CloneFunc[T], free FreeFunc[T]) {
	t.cloneFn = clone
	t.freeFn = free
}

// Get returns the item matching key, if any.
func (t *Tree[T]) Get(key T) (item T, ok bool) {
	return t.GetHint(key, nil)
}

// GetHint is Get threaded through an explicit search hint.
func (t *Tree[T]) GetHint(key T, hint *Hint) (item T, ok bool) {
	n := t.root
	depth := 0
	for n != nil {
		i, found := find(n, key, t.cmp, hint, depth)
		if found {
			return n.get(i), true
		}
		if n.leaf {
			break
		}
		n = n.children[i]
		depth++
	}
	var zero T
	return zero, false
}

// Count returns the number of items in the tree.
func (t *Tree[T]) Count() int { return t.count }

// Height returns the number of node levels on any root-to-leaf path, or
// zero for an empty tree.
func (t *Tree[T]) Height() int { return t.height }

// Oom reports whether the most recent mutation failed due to allocator
// exhaustion. It is cleared at the start of every mutating operation.
func (t *Tree[T]) Oom() bool { return t.oom }

// Clone returns a new Tree sharing t's current root. The clone is O(1):
// it bumps the root's refcount and copies configuration. Mutations on
// either tree thereafter are invisible to the other.
func (t *Tree[T]) Clone() *Tree[T] {
	t2 := &Tree[T]{
		root:     t.root,
		count:    t.count,
		height:   t.height,
		cmp:      t.cmp,
		alloc:    t.alloc,
		cloneFn:  t.cloneFn,
		freeFn:   t.freeFn,
		maxItems: t.maxItems,
		minItems: t.minItems,
	}
	if t2.root != nil {
		t2.root.rc.Add(1)
	}
	return t2
}

// Clear frees every node in the tree, leaving it empty. A shared root is
// merely released (its rc decremented); a solely owned subtree is
// recursively freed.
func (t *Tree[T]) Clear() {
	if t.root != nil {
		t.drop(t.root)
	}
	t.root = nil
	t.count = 0
	t.height = 0
	t.oom = false
}

// Free releases the tree's root. After Free the tree must not be used
// again. It is equivalent to Clear, provided for symmetry with the
// external-allocator surface.
func (t *Tree[T]) Free() {
	t.Clear()
}
