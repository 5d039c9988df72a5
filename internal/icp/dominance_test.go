package icp

import (
	"math/big"
	"reflect"
	"testing"
)

func clauseStrings(clauses [][]*Atom) [][]string {
	out := make([][]string, len(clauses))
	for i, cl := range clauses {
		out[i] = litStrings(cl)
	}
	return out
}

func TestLitMatches(t *testing.T) {
	tests := []struct {
		name   string
		l1, l2 *Atom
		want   bool
	}{
		{"same bool", boolLit(0, true), boolLit(0, true), true},
		{"opposite bool", boolLit(0, true), boolLit(0, false), false},
		{"other variable", boolLit(0, false), boolLit(1, false), false},
		{"same eq", eqLit(0, big.NewRat(2, 1), false), eqLit(0, big.NewRat(2, 1), false), true},
		{"eq other constant", eqLit(0, big.NewRat(2, 1), false), eqLit(0, big.NewRat(3, 1), false), false},
		{"ineq implies looser", ineqLit(0, big.NewRat(3, 1), true, false), ineqLit(0, big.NewRat(1, 1), true, false), true},
		{"ineq tighter not implied", ineqLit(0, big.NewRat(1, 1), true, false), ineqLit(0, big.NewRat(3, 1), true, false), false},
		{"ineq open implies closed", ineqLit(0, big.NewRat(1, 1), true, true), ineqLit(0, big.NewRat(1, 1), true, false), true},
		{"ineq closed not implies open", ineqLit(0, big.NewRat(1, 1), true, false), ineqLit(0, big.NewRat(1, 1), true, true), false},
		{"opposite sides", ineqLit(0, big.NewRat(1, 1), true, false), ineqLit(0, big.NewRat(1, 1), false, false), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := litMatches(tc.l1, tc.l2); got != tc.want {
				t.Errorf("litMatches(%s, %s) = %v, want %v", tc.l1, tc.l2, got, tc.want)
			}
		})
	}
}

func TestRemoveDominated(t *testing.T) {
	short := []*Atom{boolLit(0, false), ineqLit(1, big.NewRat(1, 1), true, true)}
	long := []*Atom{boolLit(0, false), ineqLit(1, big.NewRat(1, 1), true, true), ineqLit(2, big.NewRat(0, 1), false, false)}
	other := []*Atom{boolLit(3, true)}

	got := removeDominated([][]*Atom{{long[0], long[1], long[2]}, {short[0], short[1]}, {other[0]}})
	want := [][]string{{"!x3"}, {"x0", "x1 > 1"}}
	if !reflect.DeepEqual(clauseStrings(got), want) {
		t.Errorf("removeDominated = %v, want %v", clauseStrings(got), want)
	}
}

func TestRemoveDominated_TighterUnitImpliesLooserClause(t *testing.T) {
	// (x0 >= 3) implies (x0 >= 1 or x1), so the longer clause is redundant.
	tight := []*Atom{ineqLit(0, big.NewRat(3, 1), true, false)}
	loose := []*Atom{ineqLit(0, big.NewRat(1, 1), true, false), boolLit(1, false)}

	got := removeDominated([][]*Atom{{loose[0], loose[1]}, {tight[0]}})
	want := [][]string{{"x0 >= 3"}}
	if !reflect.DeepEqual(clauseStrings(got), want) {
		t.Errorf("removeDominated = %v, want %v", clauseStrings(got), want)
	}

	// The reverse direction keeps both: (x0 >= 1) does not imply x0 >= 3.
	got = removeDominated([][]*Atom{
		{ineqLit(0, big.NewRat(3, 1), true, false), boolLit(1, false)},
		{ineqLit(0, big.NewRat(1, 1), true, false)},
	})
	if len(got) != 2 {
		t.Errorf("looser unit must not dominate a tighter clause, got %d clauses", len(got))
	}
}

func TestRemoveDominated_Incomparable(t *testing.T) {
	a := []*Atom{boolLit(0, false)}
	b := []*Atom{boolLit(1, false)}
	got := removeDominated([][]*Atom{{a[0]}, {b[0]}})
	if len(got) != 2 {
		t.Errorf("incomparable clauses must both survive, got %d", len(got))
	}
}
