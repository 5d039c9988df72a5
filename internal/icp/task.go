package icp

import "math/big"

// Task is the self-contained sub-formula published for one leaf: the
// surviving clauses, the tightened variable bounds, and the split applied to
// produce the leaf's children.
type Task struct {
	NodeID int
	Depth  int

	Clauses   [][]*Atom
	VarBounds []*Atom

	UndefClauses int
	UndefLits    int

	SplitVar   int
	LeftChild  int
	RightChild int
}

// Task literals are plain values, not registered in the atom store.
func boolLit(x int, neg bool) *Atom {
	return &Atom{kind: KindBool, varID: x, Neg: neg}
}

func eqLit(x int, k *big.Rat, neg bool) *Atom {
	return &Atom{kind: KindEq, varID: x, Val: k, Neg: neg}
}

func ineqLit(x int, k *big.Rat, lower, open bool) *Atom {
	return &Atom{kind: KindIneq, varID: x, Val: k, Lower: lower, Open: open}
}

// convert builds the task for leaf n: filter every clause against n's
// bounds, simplify the residuals, remove dominated clauses, and collapse
// the node's bounds into unit literals. It returns unsat=true when
// filtering or unit simplification refutes the node.
func (c *Context) convert(n *Node) (task *Task, unsat bool, err error) {
	var tempClauses [][]*Atom
	var tempUnits []*Atom

	for _, cl := range c.clauses {
		if err := c.checkpoint(); err != nil {
			return nil, false, err
		}
		residual := allocLits(len(cl.atoms))
		sat := false
		for _, a := range cl.atoms {
			switch c.value(a, n) {
			case BTrue:
				sat = true
			case BUndef:
				*residual = append(*residual, a)
			}
			if sat {
				break
			}
		}
		if sat {
			freeLits(residual)
			continue
		}
		switch len(*residual) {
		case 0:
			freeLits(residual)
			return nil, true, nil
		case 1:
			tempUnits = append(tempUnits, (*residual)[0])
		default:
			covered, simp := simplifyLits(*residual, false)
			switch {
			case covered:
			case len(simp) == 1:
				tempUnits = append(tempUnits, simp[0])
			default:
				tempClauses = append(tempClauses, simp)
			}
		}
		freeLits(residual)
	}

	tempClauses = removeDominated(tempClauses)

	bounds, unsat, err := c.collectBounds(n, tempUnits)
	if err != nil || unsat {
		return nil, unsat, err
	}

	task = &Task{
		NodeID:    n.id,
		Depth:     n.depth,
		Clauses:   tempClauses,
		VarBounds: bounds,
		SplitVar:  -1,
	}
	task.UndefClauses = len(tempClauses)
	for _, cl := range tempClauses {
		task.UndefLits += len(cl)
	}
	return task, false, nil
}

// collectBounds gathers the unit literals of the task: units discovered
// during filtering, axiom and propagated units on defined variables (whose
// derived bounds the consumer cannot reconstruct) plus disequalities, and
// one literal per active bound of every variable. The set is then
// simplified as a conjunction.
func (c *Context) collectBounds(n *Node, tempUnits []*Atom) ([]*Atom, bool, error) {
	units := append([]*Atom(nil), tempUnits...)
	for _, a := range c.units {
		if c.keepUnit(a) {
			units = append(units, a)
		}
	}
	for _, a := range n.upAtoms {
		if c.keepUnit(a) {
			units = append(units, a)
		}
	}

	for x := range c.vars {
		if err := c.checkpoint(); err != nil {
			return nil, false, err
		}
		if c.vars[x].isBool {
			switch n.BoolValue(x) {
			case BTrue:
				units = append(units, boolLit(x, false))
			case BFalse:
				units = append(units, boolLit(x, true))
			}
			continue
		}
		if pt := n.SinglePoint(x); pt != nil {
			units = append(units, eqLit(x, pt, false))
			continue
		}
		if lo := n.LowerBound(x); lo != nil {
			units = append(units, ineqLit(x, lo.Val, true, lo.Open))
		}
		if hi := n.UpperBound(x); hi != nil {
			units = append(units, ineqLit(x, hi.Val, false, hi.Open))
		}
	}

	covered, bounds := simplifyLits(units, true)
	return bounds, covered, nil
}

func (c *Context) keepUnit(a *Atom) bool {
	return c.vars[a.varID].def != nil || (a.kind == KindEq && a.Neg)
}
