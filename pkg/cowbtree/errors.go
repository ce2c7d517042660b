package cowbtree

import "errors"

// ErrNilCompare is returned by New/NewOptions when no comparator is supplied.
// The engine refuses to build a tree rather than risk corrupting one with an
// undefined ordering.
var ErrNilCompare = errors.New("cowbtree: compare function must not be nil")
