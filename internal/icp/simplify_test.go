package icp

import (
	"math/big"
	"reflect"
	"testing"
)

func ratVal(t *testing.T, s string) *big.Rat {
	t.Helper()
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		t.Fatalf("bad rational %q", s)
	}
	return r
}

func litStrings(lits []*Atom) []string {
	if len(lits) == 0 {
		return nil
	}
	out := make([]string, len(lits))
	for i, a := range lits {
		out[i] = a.String()
	}
	return out
}

func TestSimplifyConj(t *testing.T) {
	tests := []struct {
		name    string
		lits    []*Atom
		covered bool
		want    []string
	}{
		{
			name: "keeps strictest bounds",
			lits: []*Atom{
				ineqLit(0, big.NewRat(1, 1), true, false),
				ineqLit(0, big.NewRat(2, 1), true, true),
				ineqLit(0, big.NewRat(9, 1), false, false),
				ineqLit(0, big.NewRat(5, 1), false, false),
			},
			want: []string{"x0 > 2", "x0 <= 5"},
		},
		{
			name: "empty window is unsat",
			lits: []*Atom{
				ineqLit(0, big.NewRat(3, 1), true, false),
				ineqLit(0, big.NewRat(3, 1), false, true),
			},
			covered: true,
		},
		{
			name: "equality inside window replaces bounds",
			lits: []*Atom{
				ineqLit(0, big.NewRat(1, 1), true, false),
				ineqLit(0, big.NewRat(5, 1), false, false),
				eqLit(0, big.NewRat(3, 1), false),
			},
			want: []string{"x0 = 3"},
		},
		{
			name: "equality outside window is unsat",
			lits: []*Atom{
				ineqLit(0, big.NewRat(1, 1), true, false),
				eqLit(0, big.NewRat(0, 1), false),
			},
			covered: true,
		},
		{
			name: "distinct equalities are unsat",
			lits: []*Atom{
				eqLit(0, big.NewRat(1, 1), false),
				eqLit(0, big.NewRat(2, 1), false),
			},
			covered: true,
		},
		{
			name: "equality meeting its disequality is unsat",
			lits: []*Atom{
				eqLit(0, big.NewRat(2, 1), false),
				eqLit(0, big.NewRat(2, 1), true),
			},
			covered: true,
		},
		{
			name: "disequality outside window dropped",
			lits: []*Atom{
				ineqLit(0, big.NewRat(0, 1), true, false),
				ineqLit(0, big.NewRat(4, 1), false, false),
				eqLit(0, big.NewRat(7, 1), true),
				eqLit(0, big.NewRat(2, 1), true),
			},
			want: []string{"x0 >= 0", "x0 <= 4", "x0 != 2"},
		},
		{
			name: "variables stay independent",
			lits: []*Atom{
				ineqLit(1, big.NewRat(1, 1), true, false),
				ineqLit(0, big.NewRat(2, 1), false, false),
			},
			want: []string{"x0 <= 2", "x1 >= 1"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			covered, out := simplifyLits(tc.lits, true)
			if covered != tc.covered {
				t.Fatalf("covered = %v, want %v", covered, tc.covered)
			}
			if got := litStrings(out); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("simplified = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSimplifyDisj(t *testing.T) {
	tests := []struct {
		name    string
		lits    []*Atom
		covered bool
		want    []string
	}{
		{
			name: "keeps weakest bounds",
			lits: []*Atom{
				ineqLit(0, big.NewRat(5, 1), true, false),
				ineqLit(0, big.NewRat(7, 1), true, false),
				ineqLit(0, big.NewRat(1, 1), false, true),
				ineqLit(0, big.NewRat(0, 1), false, false),
			},
			want: []string{"x0 >= 5", "x0 < 1"},
		},
		{
			name: "overlapping bounds are a tautology",
			lits: []*Atom{
				ineqLit(0, big.NewRat(2, 1), true, false),
				ineqLit(0, big.NewRat(3, 1), false, false),
			},
			covered: true,
		},
		{
			name: "touching closed bounds are a tautology",
			lits: []*Atom{
				ineqLit(0, big.NewRat(3, 1), true, false),
				ineqLit(0, big.NewRat(3, 1), false, true),
			},
			covered: true,
		},
		{
			name: "disequality in the gap subsumes bounds",
			lits: []*Atom{
				ineqLit(0, big.NewRat(5, 1), true, false),
				ineqLit(0, big.NewRat(1, 1), false, true),
				eqLit(0, big.NewRat(3, 1), true),
			},
			want: []string{"x0 != 3"},
		},
		{
			name: "disequality outside the gap is a tautology",
			lits: []*Atom{
				ineqLit(0, big.NewRat(5, 1), true, false),
				eqLit(0, big.NewRat(7, 1), true),
			},
			covered: true,
		},
		{
			name: "distinct disequalities are a tautology",
			lits: []*Atom{
				eqLit(0, big.NewRat(1, 1), true),
				eqLit(0, big.NewRat(2, 1), true),
			},
			covered: true,
		},
		{
			name: "disequality meeting its equality is a tautology",
			lits: []*Atom{
				eqLit(0, big.NewRat(2, 1), true),
				eqLit(0, big.NewRat(2, 1), false),
			},
			covered: true,
		},
		{
			name: "equality covered by a bound dropped",
			lits: []*Atom{
				ineqLit(0, big.NewRat(5, 1), true, false),
				eqLit(0, big.NewRat(7, 1), false),
				eqLit(0, big.NewRat(2, 1), false),
			},
			want: []string{"x0 >= 5", "x0 = 2"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			covered, out := simplifyLits(tc.lits, false)
			if covered != tc.covered {
				t.Fatalf("covered = %v, want %v", covered, tc.covered)
			}
			if got := litStrings(out); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("simplified = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSimplifyBoolsPassThrough(t *testing.T) {
	lits := []*Atom{boolLit(0, false), boolLit(0, false), boolLit(1, true)}
	covered, out := simplifyLits(lits, true)
	if covered {
		t.Fatal("boolean literals should never cover")
	}
	want := []string{"x0", "!x1"}
	if got := litStrings(out); !reflect.DeepEqual(got, want) {
		t.Errorf("simplified = %v, want %v", got, want)
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	lits := []*Atom{
		ineqLit(0, ratVal(t, "1/2"), true, true),
		ineqLit(0, big.NewRat(6, 1), false, false),
		eqLit(0, big.NewRat(4, 1), true),
		boolLit(1, true),
		ineqLit(2, big.NewRat(0, 1), true, false),
	}
	_, once := simplifyLits(lits, true)
	_, twice := simplifyLits(once, true)
	if !reflect.DeepEqual(litStrings(once), litStrings(twice)) {
		t.Errorf("not idempotent: first %v, second %v", litStrings(once), litStrings(twice))
	}
}
