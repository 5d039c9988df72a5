package icp

import (
	"math/big"
	"testing"
)

func boundedNode(t *testing.T, c *Context, x int, lo, hi string, loOpen, hiOpen bool) *Node {
	t.Helper()
	n := c.mkNode(nil)
	if lo != "" {
		if err := c.propagateBound(n, x, ratVal(t, lo), true, loOpen, axiomJst(), false); err != nil {
			t.Fatalf("propagateBound: %v", err)
		}
	}
	if hi != "" {
		if err := c.propagateBound(n, x, ratVal(t, hi), false, hiOpen, axiomJst(), false); err != nil {
			t.Fatalf("propagateBound: %v", err)
		}
	}
	return n
}

func TestValue_Bool(t *testing.T) {
	c := NewContext(DefaultOptions)
	b := c.MkBVar()
	n := c.mkNode(nil)

	posAtom, posErr := c.MkBoolAtom(b, false)
	pos := mustAtom(t, posAtom, posErr)
	negAtom, negErr := c.MkBoolAtom(b, true)
	neg := mustAtom(t, negAtom, negErr)
	if got := c.value(pos, n); got != BUndef {
		t.Errorf("unassigned bool = %v, want undef", got)
	}
	if err := c.propagateBvarBound(n, b, false, axiomJst()); err != nil {
		t.Fatalf("propagateBvarBound: %v", err)
	}
	if got := c.value(pos, n); got != BTrue {
		t.Errorf("asserted bool = %v, want true", got)
	}
	if got := c.value(neg, n); got != BFalse {
		t.Errorf("negated asserted bool = %v, want false", got)
	}
}

func TestValue_EqFractionalOnInt(t *testing.T) {
	c := NewContext(DefaultOptions)
	x := c.MkVar(true)
	n := c.mkNode(nil)

	eqAtom, eqErr := c.MkEqAtom(x, ratVal(t, "1/2"), false)
	eq := mustAtom(t, eqAtom, eqErr)
	neqAtom, neqErr := c.MkEqAtom(x, ratVal(t, "1/2"), true)
	neq := mustAtom(t, neqAtom, neqErr)
	if got := c.value(eq, n); got != BFalse {
		t.Errorf("int = 1/2 should be false, got %v", got)
	}
	if got := c.value(neq, n); got != BTrue {
		t.Errorf("int != 1/2 should be true, got %v", got)
	}
}

func TestValue_Eq(t *testing.T) {
	c := NewContext(DefaultOptions)
	x := c.MkVar(false)

	point := boundedNode(t, c, x, "2", "2", false, false)
	below := boundedNode(t, c, x, "", "1", false, false)
	wide := boundedNode(t, c, x, "0", "5", false, false)

	eqAtom, eqErr := c.MkEqAtom(x, big.NewRat(2, 1), false)
	eq := mustAtom(t, eqAtom, eqErr)
	neqAtom, neqErr := c.MkEqAtom(x, big.NewRat(2, 1), true)
	neq := mustAtom(t, neqAtom, neqErr)

	if got := c.value(eq, point); got != BTrue {
		t.Errorf("eq on the collapsed point = %v, want true", got)
	}
	if got := c.value(neq, point); got != BFalse {
		t.Errorf("neq on the collapsed point = %v, want false", got)
	}
	if got := c.value(eq, below); got != BFalse {
		t.Errorf("eq above the interval = %v, want false", got)
	}
	if got := c.value(neq, below); got != BTrue {
		t.Errorf("neq above the interval = %v, want true", got)
	}
	if got := c.value(eq, wide); got != BUndef {
		t.Errorf("eq inside a wide interval = %v, want undef", got)
	}
}

func TestValue_Ineq(t *testing.T) {
	c := NewContext(DefaultOptions)
	x := c.MkVar(false)

	tests := []struct {
		name       string
		lo, hi     string
		loOp, hiOp bool
		lower, open bool
		val        string
		want       BValue
	}{
		{"lower bound implies geq", "3", "", false, false, true, false, "2", BTrue},
		{"upper bound refutes geq", "", "1", false, false, true, false, "2", BFalse},
		{"wide interval leaves geq open", "0", "5", false, false, true, false, "2", BUndef},
		{"closed endpoint satisfies geq", "2", "", false, false, true, false, "2", BTrue},
		{"closed endpoint leaves strict gt open", "2", "", false, false, true, true, "2", BUndef},
		{"open endpoint satisfies strict gt", "2", "", true, false, true, true, "2", BTrue},
		{"upper endpoint refutes strict gt", "", "2", false, false, true, true, "2", BFalse},
		{"upper bound implies leq", "", "1", false, false, false, false, "2", BTrue},
		{"lower bound refutes lt", "2", "", false, false, false, true, "2", BFalse},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := boundedNode(t, c, x, tc.lo, tc.hi, tc.loOp, tc.hiOp)
			atom, atomErr := c.MkIneqAtom(x, ratVal(t, tc.val), tc.lower, tc.open)
			a := mustAtom(t, atom, atomErr)
			if got := c.value(a, n); got != tc.want {
				t.Errorf("value = %v, want %v", got, tc.want)
			}
		})
	}
}
