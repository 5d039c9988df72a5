package icp

import (
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/zmylinxi99/AriParti-Distributed/internal/interval"
)

// Width substitute for intervals missing an endpoint.
const unboundedPenalty = 1024

// initCandidates computes the static split candidates (free arithmetic
// variables) and the maximum degree each variable reaches across all
// definitions.
func (c *Context) initCandidates() {
	if c.candsReady {
		return
	}
	c.occ = make([]int, len(c.vars))
	c.maxDeg = make([]int, len(c.vars))
	for x := range c.vars {
		if !c.vars[x].isBool && c.vars[x].def == nil {
			c.candidates = append(c.candidates, x)
		}
		switch def := c.vars[x].def.(type) {
		case *Monomial:
			for i, v := range def.vars {
				if def.degs[i] > c.maxDeg[v] {
					c.maxDeg[v] = def.degs[i]
				}
			}
		case *Polynomial:
			for _, v := range def.vars {
				if c.maxDeg[v] < 1 {
					c.maxDeg[v] = 1
				}
			}
		}
	}
	c.candsReady = true
}

// computeOcc counts how often each variable occurs in the task, then folds
// the counts of defined variables into their terms. Definitions only refer
// to earlier variables, so one descending pass settles nested chains.
func (c *Context) computeOcc(t *Task) {
	for i := range c.occ {
		c.occ[i] = 0
	}
	for _, cl := range t.Clauses {
		for _, a := range cl {
			c.occ[a.varID]++
		}
	}
	for _, a := range t.VarBounds {
		c.occ[a.varID]++
	}
	for y := len(c.vars) - 1; y >= 0; y-- {
		if c.occ[y] == 0 {
			continue
		}
		def := c.vars[y].def
		if def == nil {
			continue
		}
		for _, x := range def.Vars() {
			c.occ[x] += c.occ[y]
		}
	}
}

// splitScore rates x as a split candidate at n. Variables with fewer finite
// endpoints, higher degree, more occurrences, and fewer splits score higher; an interval spanning
// zero doubles the score. Nearly collapsed intervals are flagged so they are
// only split as a last resort.
func (c *Context) splitScore(n *Node, x int) (score float64, tooShort bool) {
	iv := n.Interval(x)
	var width *big.Rat
	widthScore := 1.0
	switch {
	case iv.Lo == nil && iv.Hi == nil:
		width = new(big.Rat).SetInt64(unboundedPenalty * unboundedPenalty)
	case iv.Lo == nil:
		width = new(big.Rat).Add(new(big.Rat).SetInt64(unboundedPenalty), iv.Hi)
		widthScore = 0.95
	case iv.Hi == nil:
		width = new(big.Rat).Sub(new(big.Rat).SetInt64(unboundedPenalty), iv.Lo)
		widthScore = 0.95
	default:
		width = new(big.Rat).Sub(iv.Hi, iv.Lo)
		widthScore = 0.9
	}
	tooShort = width.Cmp(big.NewRat(1, 4)) <= 0

	cz := 1.0
	if iv.ContainsZero() {
		cz = 2.0
	}
	avg := float64(c.unsolvedSplitCnt[x]) / float64(c.unsolvedTasks+1)
	score = cz * math.Pow(2, float64(c.maxDeg[x])) * float64(c.occ[x]) / (2.0 + avg) * widthScore
	return score, tooShort
}

// chooseSplitVar returns the best-scoring candidate with occurrences in t
// whose interval has not collapsed. Ties go to the lowest variable id.
func (c *Context) chooseSplitVar(n *Node, t *Task) (int, error) {
	c.initCandidates()
	c.computeOcc(t)

	best, bestShort := -1, -1
	bestScore, bestShortScore := math.Inf(-1), math.Inf(-1)
	for _, x := range c.candidates {
		if c.occ[x] == 0 || n.SinglePoint(x) != nil {
			continue
		}
		score, short := c.splitScore(n, x)
		if short {
			if score > bestShortScore {
				bestShort, bestShortScore = x, score
			}
		} else if score > bestScore {
			best, bestScore = x, score
		}
	}
	if best < 0 {
		best = bestShort
	}
	if best < 0 {
		return -1, errors.Wrap(ErrUnsplittable, "no split candidate")
	}
	return best, nil
}

// splitPoint picks the constraint applied to the left child. Inequality
// literals on x in the surviving clauses are preferred; one is sampled
// uniformly. Otherwise the interval is cut at zero, at a shifted endpoint,
// or at its midpoint.
func (c *Context) splitPoint(n *Node, t *Task, x int) (val *big.Rat, lower, open bool, err error) {
	var lits []*Atom
	for _, cl := range t.Clauses {
		for _, a := range cl {
			if a.varID == x && a.kind == KindIneq {
				lits = append(lits, a)
			}
		}
	}
	if len(lits) > 0 {
		a := lits[c.rng.Intn(len(lits))]
		return a.Val, a.Lower, a.Open, nil
	}

	iv := n.Interval(x)
	delta := new(big.Rat).SetInt64(c.opts.SplitDelta)
	switch {
	case strictlySpansZero(iv):
		return new(big.Rat), false, false, nil
	case iv.Lo == nil:
		return new(big.Rat).Sub(interval.Floor(iv.Hi), delta), false, false, nil
	case iv.Hi == nil:
		return new(big.Rat).Add(interval.Ceil(iv.Lo), delta), false, false, nil
	default:
		mid := new(big.Rat).Add(iv.Lo, iv.Hi)
		mid.Quo(mid, new(big.Rat).SetInt64(2))
		width := new(big.Rat).Sub(iv.Hi, iv.Lo)
		if width.Cmp(new(big.Rat).SetInt64(10)) > 0 {
			mid = interval.Ceil(mid)
		}
		if mid.Cmp(iv.Lo) <= 0 || mid.Cmp(iv.Hi) >= 0 {
			return nil, false, false, errors.Wrapf(ErrUnsplittable, "midpoint %s of node %d not interior", mid.RatString(), n.id)
		}
		return mid, false, false, nil
	}
}

// strictlySpansZero reports whether zero lies in the interior of iv, so that
// cutting at zero leaves both halves non-degenerate.
func strictlySpansZero(iv interval.Interval) bool {
	return (iv.Lo == nil || iv.Lo.Sign() < 0) && (iv.Hi == nil || iv.Hi.Sign() > 0)
}

// split subdivides leaf n into two children along the chosen variable. The
// left child receives the sampled constraint, the right child its
// complement. Children that become inconsistent on the spot are closed and
// reported refuted; the rest join the leaf schedule with the parent task's
// undefined counts.
func (c *Context) split(n *Node, t *Task) error {
	x, err := c.chooseSplitVar(n, t)
	if err != nil {
		return err
	}
	val, lower, open, err := c.splitPoint(n, t, x)
	if err != nil {
		return err
	}
	t.SplitVar = x
	c.removeLeaf(n)
	c.stats.incSplits()

	left, err := c.mkChild(n, x, val, lower, open)
	if err != nil {
		return err
	}
	right, err := c.mkChild(n, x, val, !lower, !open)
	if err != nil {
		return err
	}
	t.LeftChild, t.RightChild = left.id, right.id

	// Closing waits until both children exist so that a refuted first child
	// cannot push unsat onto the parent mid-split.
	for _, ch := range []*Node{left, right} {
		if ch.Inconsistent() {
			c.rep.UnsatNode(ch.id, n.id)
			c.markUnsat(ch)
		} else {
			c.sched.push(ch, t.UndefClauses, t.UndefLits)
		}
	}
	return nil
}

func (c *Context) mkChild(parent *Node, x int, val *big.Rat, lower, open bool) (*Node, error) {
	child := c.mkNode(parent)
	child.splitVars = append(child.splitVars, x)
	c.unsolvedTasks++
	for _, v := range child.splitVars {
		c.unsolvedSplitCnt[v]++
	}

	if err := c.propagateBound(child, x, val, lower, open, assumptionJst(), false); err != nil {
		return nil, err
	}
	if !child.Inconsistent() {
		if err := c.propagate(child); err != nil {
			return nil, err
		}
	}
	return child, nil
}
