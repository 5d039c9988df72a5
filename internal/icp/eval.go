package icp

// value evaluates atom a against n's bounds. The result is BTrue, BFalse, or
// BUndef; conflicting nodes are never evaluated.
func (c *Context) value(a *Atom, n *Node) BValue {
	switch a.kind {
	case KindBool:
		switch n.BoolValue(a.varID) {
		case BTrue:
			return Lift(!a.Neg)
		case BFalse:
			return Lift(a.Neg)
		default:
			return BUndef
		}

	case KindEq:
		x := a.varID
		if c.vars[x].isInt && !a.Val.IsInt() {
			// An integer variable can never equal a fractional constant.
			return Lift(a.Neg)
		}
		lo, hi := n.LowerBound(x), n.UpperBound(x)
		if lo != nil && hi != nil && !lo.Open && !hi.Open &&
			lo.Val.Cmp(a.Val) == 0 && hi.Val.Cmp(a.Val) == 0 {
			return Lift(!a.Neg)
		}
		if hi != nil {
			if cmp := hi.Val.Cmp(a.Val); cmp < 0 || (cmp == 0 && hi.Open) {
				return Lift(a.Neg)
			}
		}
		if lo != nil {
			if cmp := lo.Val.Cmp(a.Val); cmp > 0 || (cmp == 0 && lo.Open) {
				return Lift(a.Neg)
			}
		}
		return BUndef

	default:
		x := a.varID
		lo, hi := n.LowerBound(x), n.UpperBound(x)
		if a.Lower {
			if lo != nil {
				if cmp := lo.Val.Cmp(a.Val); cmp > 0 || (cmp == 0 && (lo.Open || !a.Open)) {
					return BTrue
				}
			}
			if hi != nil {
				if cmp := hi.Val.Cmp(a.Val); cmp < 0 || (cmp == 0 && (hi.Open || a.Open)) {
					return BFalse
				}
			}
			return BUndef
		}
		if hi != nil {
			if cmp := hi.Val.Cmp(a.Val); cmp < 0 || (cmp == 0 && (hi.Open || !a.Open)) {
				return BTrue
			}
		}
		if lo != nil {
			if cmp := lo.Val.Cmp(a.Val); cmp > 0 || (cmp == 0 && (lo.Open || a.Open)) {
				return BFalse
			}
		}
		return BUndef
	}
}
