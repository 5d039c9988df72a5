package icp

import (
	"math/big"

	"github.com/zmylinxi99/AriParti-Distributed/internal/interval"
)

// propagateMonomial tightens y = prod xi^di in both directions. When some
// term has collapsed to [0, 0] the product is pinned to zero and the terms
// carry no further information.
func (c *Context) propagateMonomial(n *Node, m *Monomial) error {
	terms := make([]interval.Interval, len(m.vars))
	for i, x := range m.vars {
		terms[i] = n.Interval(x)
		if terms[i].IsZeroPoint() {
			return c.pinZero(n, m.y)
		}
	}

	if err := c.monomialUp(n, m, terms); err != nil {
		return err
	}
	if n.Inconsistent() {
		return nil
	}
	return c.monomialDown(n, m, terms)
}

// pinZero installs the two closed zero bounds on y.
func (c *Context) pinZero(n *Node, y int) error {
	jst := varDefJst(y)
	zero := new(big.Rat)
	if err := c.propagateBound(n, y, zero, true, false, jst, false); err != nil {
		return err
	}
	if n.Inconsistent() {
		return nil
	}
	return c.propagateBound(n, y, zero, false, false, jst, false)
}

// monomialUp propagates from the terms to y. The pass is skipped when any
// odd-degree term lacks a finite endpoint; even-degree terms are exempt from
// this check and still contribute a sign constraint.
func (c *Context) monomialUp(n *Node, m *Monomial, terms []interval.Interval) error {
	for i, t := range terms {
		if m.degs[i]%2 == 1 && (t.Lo == nil || t.Hi == nil) {
			return nil
		}
	}
	j := interval.Pow(terms[0], m.degs[0])
	for i := 1; i < len(terms); i++ {
		j = interval.Mul(j, interval.Pow(terms[i], m.degs[i]))
	}
	return c.propagateInterval(n, m.y, j, varDefJst(m.y))
}

// monomialDown propagates from y back to the terms. Division only yields
// information when y is bounded. If exactly one term contains zero it is the
// only one worth revisiting; otherwise every term is tried in turn.
func (c *Context) monomialDown(n *Node, m *Monomial, terms []interval.Interval) error {
	iy := n.Interval(m.y)
	if !iy.Bounded() {
		return nil
	}

	target := -1
	for i, t := range terms {
		if !t.ContainsZero() {
			continue
		}
		if target >= 0 {
			target = -1
			break
		}
		target = i
	}

	for j := range terms {
		if target >= 0 && j != target {
			continue
		}
		if err := c.monomialDownTerm(n, m, terms, iy, j); err != nil {
			return err
		}
		if n.Inconsistent() {
			return nil
		}
	}
	return nil
}

// monomialDownTerm solves xj^dj = y / prod_{i != j} xi^di for term j. Degrees
// above two have no rational root extraction and are left alone.
func (c *Context) monomialDownTerm(n *Node, m *Monomial, terms []interval.Interval, iy interval.Interval, j int) error {
	if m.degs[j] > 2 {
		return nil
	}

	d := interval.Interval{Lo: new(big.Rat).SetInt64(1), Hi: new(big.Rat).SetInt64(1)}
	for i, t := range terms {
		if i == j {
			continue
		}
		d = interval.Mul(d, interval.Pow(t, m.degs[i]))
	}
	if d.ContainsZero() {
		return nil
	}

	q := interval.Div(iy, d)
	if m.degs[j] == 2 {
		root, err := interval.NthRoot(q, 2, c.opts.NthRootPrec)
		if err != nil {
			c.arithFailed = true
			return nil
		}
		q = root
	}
	return c.propagateInterval(n, m.vars[j], q, varDefJst(m.y))
}
