package icp

import (
	"math/big"

	"github.com/zmylinxi99/AriParti-Distributed/internal/interval"
)

// propagatePolynomial tightens y = sum ai*xi. Each propagation target is
// solved for by subtracting the other terms from y. With two or more
// unbounded variables in the equation no target can get a finite bound, and
// with exactly one only that variable is worth solving for.
func (c *Context) propagatePolynomial(n *Node, p *Polynomial) error {
	iy := n.Interval(p.y)
	terms := make([]interval.Interval, len(p.vars))

	unbounded := 0
	unboundedAt := -1 // index into terms, or len(terms) for y
	if !iy.Bounded() {
		unbounded++
		unboundedAt = len(terms)
	}
	for i, x := range p.vars {
		terms[i] = n.Interval(x)
		if !terms[i].Bounded() {
			unbounded++
			unboundedAt = i
		}
	}
	if unbounded >= 2 {
		return nil
	}

	if unbounded == 0 || unboundedAt == len(terms) {
		sum := interval.MulRat(terms[0], p.coeffs[0])
		for i := 1; i < len(terms); i++ {
			sum = interval.Add(sum, interval.MulRat(terms[i], p.coeffs[i]))
		}
		if err := c.propagateInterval(n, p.y, sum, varDefJst(p.y)); err != nil {
			return err
		}
		if n.Inconsistent() || unbounded == 1 {
			return nil
		}
	}

	for j := range terms {
		if unbounded == 1 && j != unboundedAt {
			continue
		}
		if err := c.polynomialDownTerm(n, p, terms, j); err != nil {
			return err
		}
		if n.Inconsistent() {
			return nil
		}
	}
	return nil
}

// polynomialDownTerm solves aj*xj = y - sum_{i != j} ai*xi for term j.
func (c *Context) polynomialDownTerm(n *Node, p *Polynomial, terms []interval.Interval, j int) error {
	rest := interval.Point(new(big.Rat))
	for i, t := range terms {
		if i == j {
			continue
		}
		rest = interval.Add(rest, interval.MulRat(t, p.coeffs[i]))
	}
	r := interval.Sub(n.Interval(p.y), rest)
	r = interval.MulRat(r, new(big.Rat).Inv(p.coeffs[j]))
	return c.propagateInterval(n, p.vars[j], r, varDefJst(p.y))
}
