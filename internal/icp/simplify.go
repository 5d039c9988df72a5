package icp

import (
	"math/big"
	"sort"
)

// satisfiesIneq reports whether the point k satisfies the inequality atom a.
func satisfiesIneq(a *Atom, k *big.Rat) bool {
	cmp := k.Cmp(a.Val)
	if a.Lower {
		return cmp > 0 || (cmp == 0 && !a.Open)
	}
	return cmp < 0 || (cmp == 0 && !a.Open)
}

// simplifyLits reduces a literal vector interpreted as a conjunction or a
// disjunction. Per variable it keeps the strictest lower and upper
// inequality (weakest under disjunction), resolves equalities against that
// window, and detects trivial unsat and tautologies. Boolean literals pass
// through. When covered is true the set is trivially unsat (conjunction) or
// a tautology (disjunction) and out is nil.
func simplifyLits(lits []*Atom, conj bool) (covered bool, out []*Atom) {
	sorted := append([]*Atom(nil), lits...)
	sort.SliceStable(sorted, func(i, j int) bool { return litLess(sorted[i], sorted[j]) })

	out = make([]*Atom, 0, len(sorted))
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j].varID == sorted[i].varID {
			j++
		}
		group := sorted[i:j]
		i = j

		if group[0].kind == KindBool {
			out = appendBoolGroup(out, group)
			continue
		}
		var cov bool
		if conj {
			cov, out = simplifyConj(out, group)
		} else {
			cov, out = simplifyDisj(out, group)
		}
		if cov {
			return true, nil
		}
	}
	return false, out
}

// appendBoolGroup copies boolean literals, collapsing duplicates.
func appendBoolGroup(out []*Atom, group []*Atom) []*Atom {
	for k, a := range group {
		dup := false
		for _, b := range group[:k] {
			if b.Neg == a.Neg {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, a)
		}
	}
	return out
}

// simplifyConj reduces one variable's literals under conjunction. The kept
// lower and upper bounds form a window; an equality inside the window
// replaces it, an equality outside it is a contradiction.
func simplifyConj(out []*Atom, group []*Atom) (bool, []*Atom) {
	var lo, hi *Atom
	var eq *Atom
	var neqs []*Atom
	for _, a := range group {
		switch {
		case a.kind == KindIneq && a.Lower:
			if lo == nil || ineqCmp(a, lo) == 1 {
				lo = a
			}
		case a.kind == KindIneq:
			if hi == nil || ineqCmp(a, hi) == 1 {
				hi = a
			}
		case a.Neg:
			neqs = append(neqs, a)
		default:
			if eq != nil && eq.Val.Cmp(a.Val) != 0 {
				return true, nil
			}
			eq = a
		}
	}

	if lo != nil && hi != nil {
		cmp := lo.Val.Cmp(hi.Val)
		if cmp > 0 || (cmp == 0 && (lo.Open || hi.Open)) {
			return true, nil
		}
	}

	if eq != nil {
		if lo != nil && !satisfiesIneq(lo, eq.Val) {
			return true, nil
		}
		if hi != nil && !satisfiesIneq(hi, eq.Val) {
			return true, nil
		}
		for _, a := range neqs {
			if a.Val.Cmp(eq.Val) == 0 {
				return true, nil
			}
		}
		// The equality covers the window; the bounds and the remaining
		// disequalities are implied.
		return false, append(out, eq)
	}

	if lo != nil {
		out = append(out, lo)
	}
	if hi != nil {
		out = append(out, hi)
	}
	for _, a := range neqs {
		if lo != nil && !satisfiesIneq(lo, a.Val) {
			continue
		}
		if hi != nil && !satisfiesIneq(hi, a.Val) {
			continue
		}
		out = append(out, a)
	}
	return false, out
}

// simplifyDisj reduces one variable's literals under disjunction. The kept
// bounds cover everything outside the gap between them; a disequality whose
// point lies in the gap subsumes the bounds, one outside it is a tautology.
func simplifyDisj(out []*Atom, group []*Atom) (bool, []*Atom) {
	var lo, hi *Atom
	var neq *Atom
	var eqs []*Atom
	for _, a := range group {
		switch {
		case a.kind == KindIneq && a.Lower:
			if lo == nil || ineqCmp(a, lo) == -1 {
				lo = a
			}
		case a.kind == KindIneq:
			if hi == nil || ineqCmp(a, hi) == -1 {
				hi = a
			}
		case !a.Neg:
			eqs = append(eqs, a)
		default:
			if neq != nil && neq.Val.Cmp(a.Val) != 0 {
				return true, nil
			}
			neq = a
		}
	}

	if lo != nil && hi != nil {
		cmp := lo.Val.Cmp(hi.Val)
		if cmp < 0 || (cmp == 0 && (!lo.Open || !hi.Open)) {
			return true, nil
		}
	}

	if neq != nil {
		if lo != nil && satisfiesIneq(lo, neq.Val) {
			return true, nil
		}
		if hi != nil && satisfiesIneq(hi, neq.Val) {
			return true, nil
		}
		for _, a := range eqs {
			if a.Val.Cmp(neq.Val) == 0 {
				return true, nil
			}
		}
		// The disequality covers everything but its point; the bounds and
		// the remaining equalities are implied.
		return false, append(out, neq)
	}

	if lo != nil {
		out = append(out, lo)
	}
	if hi != nil {
		out = append(out, hi)
	}
	for _, a := range eqs {
		if lo != nil && satisfiesIneq(lo, a.Val) {
			continue
		}
		if hi != nil && satisfiesIneq(hi, a.Val) {
			continue
		}
		out = append(out, a)
	}
	return false, out
}
