package icp

import (
	"fmt"
	"math/big"
)

// jstKind discriminates bound justifications.
type jstKind uint8

const (
	jstAxiom jstKind = iota
	jstAssumption
	jstClause
	jstVarDef
)

// justification records why a bound was added: a unit axiom, a splitting
// assumption, unit propagation of a clause, or propagation of a variable
// definition.
type justification struct {
	kind   jstKind
	clause *Clause
	defVar int
}

func axiomJst() justification       { return justification{kind: jstAxiom} }
func assumptionJst() justification  { return justification{kind: jstAssumption} }
func clauseJst(c *Clause) justification {
	return justification{kind: jstClause, clause: c}
}
func varDefJst(y int) justification {
	return justification{kind: jstVarDef, defVar: y}
}

// Bound is one entry of a node's trail. For an arithmetic variable it
// constrains one side of the variable's interval. For a boolean variable Val
// is nil and Lower means the variable is asserted false.
type Bound struct {
	varID int
	Val   *big.Rat
	Lower bool
	Open  bool

	timestamp uint64
	prev      *Bound
	jst       justification
}

func (b *Bound) Var() int          { return b.varID }
func (b *Bound) Timestamp() uint64 { return b.timestamp }
func (b *Bound) Prev() *Bound      { return b.prev }

func (b *Bound) String() string {
	if b.Val == nil {
		if b.Lower {
			return fmt.Sprintf("x%d = false", b.varID)
		}
		return fmt.Sprintf("x%d = true", b.varID)
	}
	op := "<="
	switch {
	case b.Lower && b.Open:
		op = ">"
	case b.Lower:
		op = ">="
	case b.Open:
		op = "<"
	}
	return fmt.Sprintf("x%d %s %s", b.varID, op, b.Val.RatString())
}

// conflictingBounds returns true if the pair (lo, hi) describes an empty
// interval: hi < lo, or hi = lo with at least one open endpoint.
func conflictingBounds(lo, hi *Bound) bool {
	if lo == nil || hi == nil {
		return false
	}
	switch hi.Val.Cmp(lo.Val) {
	case -1:
		return true
	case 0:
		return lo.Open || hi.Open
	default:
		return false
	}
}
