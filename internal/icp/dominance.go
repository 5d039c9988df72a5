package icp

import "sort"

// Dominance removal is skipped above this clause count.
const maxDominanceSz = 10000

// litMatches reports whether l1 implies l2: same shape on the same variable,
// with l2 no tighter than l1 for inequalities.
func litMatches(l1, l2 *Atom) bool {
	if l1.kind != l2.kind || l1.varID != l2.varID {
		return false
	}
	switch l1.kind {
	case KindBool:
		return l1.Neg == l2.Neg
	case KindEq:
		return l1.Neg == l2.Neg && l1.Val.Cmp(l2.Val) == 0
	default:
		return l1.Lower == l2.Lower && ineqCmp(l2, l1) != 1
	}
}

// dominates reports whether every literal of c1 is matched in c2, so that
// any assignment satisfying the disjunction c1 also satisfies c2. Both
// clauses must be sorted by variable.
func dominates(c1, c2 []*Atom) bool {
	j := 0
	for _, l1 := range c1 {
		for j < len(c2) && c2[j].varID < l1.varID {
			j++
		}
		matched := false
		for k := j; k < len(c2) && c2[k].varID == l1.varID; k++ {
			if litMatches(l1, c2[k]) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// removeDominated drops every clause implied by a shorter one. Large inputs
// pass through untouched.
func removeDominated(clauses [][]*Atom) [][]*Atom {
	if len(clauses) > maxDominanceSz {
		return clauses
	}
	sort.SliceStable(clauses, func(i, j int) bool { return len(clauses[i]) < len(clauses[j]) })

	kept := clauses[:0]
	for _, cl := range clauses {
		dominated := false
		for _, earlier := range kept {
			if dominates(earlier, cl) {
				dominated = true
				break
			}
		}
		if !dominated {
			kept = append(kept, cl)
		}
	}
	return kept
}
