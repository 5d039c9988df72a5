package icp

import (
	"fmt"
	"math/big"
)

// AtomKind discriminates the three atom shapes. The order of the constants
// matters: literals are sorted by (variable, kind) with bool < ineq < eq.
type AtomKind uint8

const (
	KindBool AtomKind = iota
	KindIneq
	KindEq
)

// Atom is a leaf formula on a single variable: a boolean assertion, an
// equality x = k (or its negation), or an inequality against a rational
// constant. Atoms are reference counted by the context that created them.
type Atom struct {
	id    int
	kind  AtomKind
	varID int

	// Val is the constant of an equality or inequality atom; nil for boolean
	// atoms.
	Val *big.Rat

	// Neg negates boolean atoms (x = false) and equalities (x != k).
	Neg bool

	// Lower and Open qualify inequality atoms: Lower means x >= Val (x > Val
	// when Open), otherwise x <= Val (x < Val when Open).
	Lower bool
	Open  bool

	refs int
}

func (a *Atom) Kind() AtomKind { return a.kind }
func (a *Atom) Var() int       { return a.varID }

func (a *Atom) String() string {
	switch a.kind {
	case KindBool:
		if a.Neg {
			return fmt.Sprintf("!x%d", a.varID)
		}
		return fmt.Sprintf("x%d", a.varID)
	case KindEq:
		op := "="
		if a.Neg {
			op = "!="
		}
		return fmt.Sprintf("x%d %s %s", a.varID, op, a.Val.RatString())
	default:
		op := "<="
		switch {
		case a.Lower && a.Open:
			op = ">"
		case a.Lower:
			op = ">="
		case a.Open:
			op = "<"
		}
		return fmt.Sprintf("x%d %s %s", a.varID, op, a.Val.RatString())
	}
}

// litLess orders literals by variable first, then by kind.
func litLess(a, b *Atom) bool {
	if a.varID != b.varID {
		return a.varID < b.varID
	}
	return a.kind < b.kind
}

// ineqCmp compares two inequality literals on the same variable and side.
// It returns 1 if a is strictly tighter than b, 0 if they are equivalent,
// and -1 if a is looser.
func ineqCmp(a, b *Atom) int {
	c := a.Val.Cmp(b.Val)
	if a.Lower {
		c = -c
	}
	switch {
	case c < 0:
		return 1
	case c > 0:
		return -1
	case a.Open == b.Open:
		return 0
	case a.Open:
		return 1
	default:
		return -1
	}
}
