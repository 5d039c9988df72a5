package icp

import (
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/pkg/errors"

	"github.com/zmylinxi99/AriParti-Distributed/internal/interval"
)

// Real bounds whose denominator exceeds maxDenom are relaxed outward to
// multiples of 1/adjustDenom to keep rationals from blowing up.
var (
	maxDenom    = new(big.Int).Exp(big.NewInt(10), big.NewInt(15), nil)
	adjustDenom = interval.TenPow(10)
)

// checkpoint polls the cancellation token and the memory ceiling. It is
// called at the top of every propagation iteration and before long loops.
func (c *Context) checkpoint() error {
	if c.runCtx != nil {
		select {
		case <-c.runCtx.Done():
			return errors.Wrap(ErrCanceled, c.runCtx.Err().Error())
		default:
		}
	}
	if c.opts.MaxMemoryMB > 0 && c.arena.allocated > c.opts.MaxMemoryMB*(1<<20) {
		return errors.WithStack(ErrMemoryLimit)
	}
	return nil
}

// normalizeBound rounds a candidate bound into canonical form. Integer
// bounds move toward the interior and close; real bounds with an oversized
// denominator are relaxed outward and opened.
func (c *Context) normalizeBound(x int, val *big.Rat, lower, open bool) (*big.Rat, bool) {
	if c.vars[x].isInt {
		if !val.IsInt() {
			if lower {
				val = interval.Ceil(val)
			} else {
				val = interval.Floor(val)
			}
			return val, false
		}
		if open {
			if lower {
				val = interval.Inc(val)
			} else {
				val = interval.Dec(val)
			}
		}
		return val, false
	}
	if val.Denom().Cmp(maxDenom) > 0 {
		scaled := new(big.Rat).Mul(val, adjustDenom)
		if lower {
			scaled = interval.Floor(scaled)
		} else {
			scaled = interval.Ceil(scaled)
		}
		val = scaled.Quo(scaled, adjustDenom)
		open = true
	}
	return val, open
}

// acceptBound decides whether a normalized candidate bound is worth
// installing: it must either trigger a conflict against the opposite bound
// or improve the same-side bound. With useEps, improvements must beat the
// epsilon margin, and one-sided bounds beyond the max-bound threshold are
// discarded.
func (c *Context) acceptBound(n *Node, x int, val *big.Rat, lower, open bool, useEps bool) bool {
	var same, opp *Bound
	if lower {
		same, opp = n.LowerBound(x), n.UpperBound(x)
	} else {
		same, opp = n.UpperBound(x), n.LowerBound(x)
	}

	if opp != nil {
		cmp := opp.Val.Cmp(val)
		if lower {
			cmp = -cmp
		}
		if cmp > 0 || (cmp == 0 && (open || opp.Open)) {
			return true // installing forces a conflict
		}
	}

	if useEps && opp == nil && c.opts.MaxBoundPow > 0 {
		thres := interval.TenPow(c.opts.MaxBoundPow)
		if lower && val.Cmp(thres) > 0 {
			return false
		}
		if !lower && val.Cmp(new(big.Rat).Neg(thres)) < 0 {
			return false
		}
	}

	if same == nil {
		return true
	}

	cmp := val.Cmp(same.Val)
	if !lower {
		cmp = -cmp
	}
	if !useEps || c.opts.Epsilon <= 0 {
		return cmp > 0 || (cmp == 0 && open && !same.Open)
	}
	if cmp <= 0 {
		return false
	}

	// Require the improvement to exceed eps * max(min(width, |same|), 1).
	base := new(big.Rat).Abs(same.Val)
	if opp != nil {
		var width *big.Rat
		if lower {
			width = new(big.Rat).Sub(opp.Val, same.Val)
		} else {
			width = new(big.Rat).Sub(same.Val, opp.Val)
		}
		if width.Cmp(base) < 0 {
			base = width
		}
	}
	one := new(big.Rat).SetInt64(1)
	if base.Cmp(one) < 0 {
		base = one
	}
	margin := new(big.Rat).Quo(base, new(big.Rat).SetInt64(c.opts.Epsilon))
	diff := new(big.Rat).Sub(val, same.Val)
	if !lower {
		diff.Neg(diff)
	}
	return diff.Cmp(margin) > 0
}

// mkBound allocates a bound with the current timestamp, links it onto n's
// trail, installs it, flags any conflict, and enqueues it for propagation.
func (c *Context) mkBound(n *Node, x int, val *big.Rat, lower, open bool, jst justification) error {
	if c.timestamp == math.MaxUint64 {
		return errors.WithStack(ErrTimestampOverflow)
	}
	b := c.arena.bound()
	*b = Bound{
		varID:     x,
		Val:       val,
		Lower:     lower,
		Open:      open,
		timestamp: c.timestamp,
		prev:      n.trail,
		jst:       jst,
	}
	c.timestamp++
	n.trail = b
	c.push(n, b)

	if c.vars[x].isBool {
		if n.bval.get(x) == BConflict {
			n.conflictVar = x
		}
	} else if conflictingBounds(n.lower.get(x), n.upper.get(x)) {
		n.conflictVar = x
	}

	c.queue.Push(b)
	c.stats.incBounds()
	return nil
}

// propagateBound normalizes, filters, and installs a candidate bound on an
// arithmetic variable.
func (c *Context) propagateBound(n *Node, x int, val *big.Rat, lower, open bool, jst justification, useEps bool) error {
	val, open = c.normalizeBound(x, val, lower, open)
	if !c.acceptBound(n, x, val, lower, open, useEps) {
		return nil
	}
	return c.mkBound(n, x, val, lower, open, jst)
}

// propagateBvarBound asserts a boolean variable's value.
func (c *Context) propagateBvarBound(n *Node, x int, isFalse bool, jst justification) error {
	want := BTrue
	if isFalse {
		want = BFalse
	}
	if n.bval.get(x) == want {
		return nil
	}
	return c.mkBound(n, x, nil, isFalse, false, jst)
}

// propagateInterval installs the finite ends of iv as bounds on x, subject
// to the relevance filter.
func (c *Context) propagateInterval(n *Node, x int, iv interval.Interval, jst justification) error {
	if iv.Lo != nil {
		if err := c.propagateBound(n, x, iv.Lo, true, iv.LoOpen, jst, true); err != nil {
			return err
		}
	}
	if n.Inconsistent() {
		return nil
	}
	if iv.Hi != nil {
		return c.propagateBound(n, x, iv.Hi, false, iv.HiOpen, jst, true)
	}
	return nil
}

// isLatest returns true if no later bound has superseded b on its variable.
func (n *Node) isLatest(b *Bound) bool {
	if lo := n.lower.get(b.varID); lo != nil && lo.timestamp > b.timestamp {
		return false
	}
	if hi := n.upper.get(b.varID); hi != nil && hi.timestamp > b.timestamp {
		return false
	}
	return true
}

// propagate drains the bound queue for node n. It stops on conflict, on
// queue exhaustion, when the per-call propagation count limit is reached, or
// when the node's wall-clock budget runs out. The queue is reset on return.
func (c *Context) propagate(n *Node) error {
	budget := c.opts.NodePropBudget
	if n.id == 0 {
		budget = c.opts.RootPropBudget
	}
	deadline := time.Now().Add(budget)
	count := 0
	defer c.queue.Clear()

	for !c.queue.Empty() && !n.Inconsistent() {
		if err := c.checkpoint(); err != nil {
			return err
		}
		if count >= c.maxPropPer || time.Now().After(deadline) {
			break
		}
		count++
		c.stats.incPropagations()
		if err := c.propagateTriggers(n, c.queue.Pop()); err != nil {
			return err
		}
	}

	c.rep.Debug(fmt.Sprintf("propagate node %d: %d rounds, conflict=%v", n.id, count, n.Inconsistent()))
	return nil
}

// propagateTriggers revisits every constraint watching the dequeued bound's
// variable, then the variable's own definition.
func (c *Context) propagateTriggers(n *Node, b *Bound) error {
	x := b.varID
	if c.vars[x].isBool {
		for _, w := range c.watches[x] {
			if w.clause == nil || b.timestamp < w.clause.visited {
				continue
			}
			if err := c.propagateClause(n, w.clause); err != nil {
				return err
			}
			if n.Inconsistent() {
				return nil
			}
		}
		return nil
	}

	if !n.isLatest(b) {
		return nil
	}
	for _, w := range c.watches[x] {
		var err error
		if w.clause != nil {
			if b.timestamp >= w.clause.visited {
				err = c.propagateClause(n, w.clause)
			}
		} else if def := c.vars[w.defVar].def; b.timestamp >= def.lastVisit() {
			err = c.propagateDef(n, def)
		}
		if err != nil {
			return err
		}
		if n.Inconsistent() {
			return nil
		}
	}
	if def := c.vars[x].def; def != nil {
		if err := c.propagateDef(n, def); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) propagateDef(n *Node, d definition) error {
	d.visit(c.timestamp)
	switch def := d.(type) {
	case *Monomial:
		return c.propagateMonomial(n, def)
	case *Polynomial:
		return c.propagatePolynomial(n, def)
	default:
		c.log.Fatalf("unknown definition type %T", d)
		return nil
	}
}

// propagateClause runs unit-literal propagation of cl at n. If all atoms
// evaluate false, atom 0 is propagated anyway to trigger the conflict.
func (c *Context) propagateClause(n *Node, cl *Clause) error {
	cl.visited = c.timestamp
	defer func() { cl.visited = c.timestamp }()

	undefAt := -1
	undefCount := 0
	for i, a := range cl.atoms {
		switch c.value(a, n) {
		case BTrue:
			return nil // clause satisfied
		case BUndef:
			undefCount++
			if undefCount >= 2 {
				return nil
			}
			undefAt = i
		}
	}

	j := 0
	if undefCount == 1 {
		j = undefAt
		n.upAtoms = append(n.upAtoms, cl.atoms[j])
	}

	a := cl.atoms[j]
	jst := clauseJst(cl)
	switch a.kind {
	case KindBool:
		return c.propagateBvarBound(n, a.varID, a.Neg, jst)
	case KindEq:
		if a.Neg {
			// A disequality cannot be expressed as interval bounds. When it
			// is the conflict trigger the clause is unsatisfied outright.
			if undefCount == 0 {
				n.conflictVar = a.varID
			}
			return nil
		}
		if err := c.propagateBound(n, a.varID, a.Val, true, false, jst, false); err != nil {
			return err
		}
		if n.Inconsistent() {
			return nil
		}
		return c.propagateBound(n, a.varID, a.Val, false, false, jst, false)
	default:
		return c.propagateBound(n, a.varID, a.Val, a.Lower, a.Open, jst, false)
	}
}

// assertUnits pushes every representable unit axiom onto n. Disequality
// units are carried through to task conversion instead.
func (c *Context) assertUnits(n *Node) error {
	for _, a := range c.units {
		if err := c.checkpoint(); err != nil {
			return err
		}
		jst := axiomJst()
		var err error
		switch a.kind {
		case KindBool:
			err = c.propagateBvarBound(n, a.varID, a.Neg, jst)
		case KindEq:
			if a.Neg {
				continue
			}
			if err = c.propagateBound(n, a.varID, a.Val, true, false, jst, false); err == nil && !n.Inconsistent() {
				err = c.propagateBound(n, a.varID, a.Val, false, false, jst, false)
			}
		default:
			err = c.propagateBound(n, a.varID, a.Val, a.Lower, a.Open, jst, false)
		}
		if err != nil {
			return err
		}
		if n.Inconsistent() {
			return nil
		}
	}
	return nil
}

// propagateAllDefinitions runs one pass of definition propagation over every
// defined variable.
func (c *Context) propagateAllDefinitions(n *Node) error {
	for x := range c.vars {
		def := c.vars[x].def
		if def == nil {
			continue
		}
		if err := c.checkpoint(); err != nil {
			return err
		}
		if err := c.propagateDef(n, def); err != nil {
			return err
		}
		if n.Inconsistent() {
			return nil
		}
	}
	return nil
}
