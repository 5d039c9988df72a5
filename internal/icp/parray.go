package icp

// maxTrailSz bounds the number of per-node overrides before a persistent
// array is rebased onto its own full copy.
const maxTrailSz = 16

// parray is a persistent array shared between a node and its descendants.
// Each node either owns a full backing slice or records a small trail of
// overrides on top of its parent's array. Lookups walk the override chain up
// to the nearest full copy.
//
// Writes are only permitted while the owning node has no children: a node's
// array is frozen once a child view has been taken from it.
type parray[T any] struct {
	base   []T
	parent *parray[T]
	keys   []int
	vals   []T

	// shared is true once a child view of this array exists. In-place writes
	// to the backing slice are only allowed while unshared.
	shared bool
}

// newPArray returns a root array of n zero values.
func newPArray[T any](n int) *parray[T] {
	return &parray[T]{base: make([]T, n)}
}

// child returns a new array that shares all of p's slots.
func (p *parray[T]) child() *parray[T] {
	p.shared = true
	return &parray[T]{parent: p}
}

func (p *parray[T]) get(i int) T {
	for a := p; ; a = a.parent {
		for k := len(a.keys) - 1; k >= 0; k-- {
			if a.keys[k] == i {
				return a.vals[k]
			}
		}
		if a.base != nil {
			return a.base[i]
		}
	}
}

// set overrides slot i in p only. Ancestors keep their view of the slot;
// previously created children read through p and see the new value unless
// they override the slot themselves.
func (p *parray[T]) set(i int, v T) {
	if p.base != nil && !p.shared && p.parent == nil && len(p.keys) == 0 {
		p.base[i] = v
		return
	}
	for k := len(p.keys) - 1; k >= 0; k-- {
		if p.keys[k] == i {
			p.vals[k] = v
			return
		}
	}
	p.keys = append(p.keys, i)
	p.vals = append(p.vals, v)
	if len(p.keys) > maxTrailSz {
		p.rebase()
	}
}

// rebase materializes the array into its own backing slice and drops the
// override trail and the parent link.
func (p *parray[T]) rebase() {
	n := p.len()
	base := make([]T, n)
	for i := 0; i < n; i++ {
		base[i] = p.get(i)
	}
	p.base = base
	p.parent = nil
	p.keys = nil
	p.vals = nil
}

func (p *parray[T]) len() int {
	a := p
	for a.base == nil {
		a = a.parent
	}
	return len(a.base)
}
