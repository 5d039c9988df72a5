package icp

import (
	"math/big"
	"sort"

	"github.com/pkg/errors"
)

// varInfo describes one variable of the constraint store. A variable with a
// definition abbreviates its defining expression; boolean variables never
// carry one.
type varInfo struct {
	isInt  bool
	isBool bool
	def    definition
}

// definition is a monomial or polynomial equation defining a variable.
type definition interface {
	DefVar() int
	Vars() []int
	lastVisit() uint64
	visit(ts uint64)
}

// Monomial defines y as the product of its variables raised to their degrees.
type Monomial struct {
	y       int
	vars    []int
	degs    []int
	visited uint64
}

func (m *Monomial) DefVar() int        { return m.y }
func (m *Monomial) Vars() []int        { return m.vars }
func (m *Monomial) Degs() []int        { return m.degs }
func (m *Monomial) lastVisit() uint64  { return m.visited }
func (m *Monomial) visit(ts uint64)    { m.visited = ts }

// Polynomial defines y as a linear sum of its variables with non-zero
// rational coefficients.
type Polynomial struct {
	y       int
	vars    []int
	coeffs  []*big.Rat
	visited uint64
}

func (p *Polynomial) DefVar() int         { return p.y }
func (p *Polynomial) Vars() []int         { return p.vars }
func (p *Polynomial) Coeffs() []*big.Rat  { return p.coeffs }
func (p *Polynomial) lastVisit() uint64   { return p.visited }
func (p *Polynomial) visit(ts uint64)     { p.visited = ts }

// watcher is one entry of a variable's watch list: either a clause with an
// atom on the variable, or a variable whose definition mentions it.
type watcher struct {
	clause *Clause
	defVar int
}

// MkVar allocates a new arithmetic variable and returns its index.
func (c *Context) MkVar(isInt bool) int {
	x := len(c.vars)
	c.vars = append(c.vars, varInfo{isInt: isInt})
	c.watches = append(c.watches, nil)
	c.unsolvedSplitCnt = append(c.unsolvedSplitCnt, 0)
	c.seen.Grow(len(c.vars))
	return x
}

// MkBVar allocates a new boolean variable and returns its index.
func (c *Context) MkBVar() int {
	x := len(c.vars)
	c.vars = append(c.vars, varInfo{isBool: true})
	c.watches = append(c.watches, nil)
	c.unsolvedSplitCnt = append(c.unsolvedSplitCnt, 0)
	c.seen.Grow(len(c.vars))
	return x
}

// MkMonomial allocates a variable y defined as prod vars[i]^degs[i] and
// returns y. All degrees must be at least 1.
func (c *Context) MkMonomial(vars []int, degs []int) (int, error) {
	if len(vars) == 0 || len(vars) != len(degs) {
		return -1, errors.Errorf("malformed monomial: %d variables, %d degrees", len(vars), len(degs))
	}
	isInt := true
	for i, x := range vars {
		if degs[i] < 1 {
			return -1, errors.Errorf("monomial degree %d on x%d", degs[i], x)
		}
		if err := c.checkDefTerm(x); err != nil {
			return -1, err
		}
		isInt = isInt && c.vars[x].isInt
	}
	m := &Monomial{
		vars: append([]int(nil), vars...),
		degs: append([]int(nil), degs...),
	}
	sort.Sort(&monomialSort{m})

	y := c.MkVar(isInt)
	m.y = y
	c.vars[y].def = m
	for _, x := range m.vars {
		c.watches[x] = append(c.watches[x], watcher{defVar: y})
	}
	return y, nil
}

// MkSum allocates a variable y defined as sum coeffs[i]*vars[i] and returns
// y. All coefficients must be non-zero.
func (c *Context) MkSum(coeffs []*big.Rat, vars []int) (int, error) {
	if len(vars) == 0 || len(vars) != len(coeffs) {
		return -1, errors.Errorf("malformed sum: %d variables, %d coefficients", len(vars), len(coeffs))
	}
	isInt := true
	for i, x := range vars {
		if coeffs[i].Sign() == 0 {
			return -1, errors.Errorf("zero coefficient on x%d", x)
		}
		if err := c.checkDefTerm(x); err != nil {
			return -1, err
		}
		isInt = isInt && c.vars[x].isInt && coeffs[i].IsInt()
	}
	p := &Polynomial{
		vars:   append([]int(nil), vars...),
		coeffs: append([]*big.Rat(nil), coeffs...),
	}
	sort.Sort(&polynomialSort{p})

	y := c.MkVar(isInt)
	p.y = y
	c.vars[y].def = p
	for _, x := range p.vars {
		c.watches[x] = append(c.watches[x], watcher{defVar: y})
	}
	return y, nil
}

func (c *Context) checkDefTerm(x int) error {
	if x < 0 || x >= len(c.vars) {
		return errors.Errorf("unknown variable x%d", x)
	}
	if c.vars[x].isBool {
		return errors.Errorf("boolean variable x%d in a numeric definition", x)
	}
	return nil
}

// Definition returns the definition of x, or nil if x is a free variable.
func (c *Context) Definition(x int) definition {
	return c.vars[x].def
}

// IsInt returns true if x ranges over the integers.
func (c *Context) IsInt(x int) bool { return c.vars[x].isInt }

// IsBool returns true if x is boolean valued.
func (c *Context) IsBool(x int) bool { return c.vars[x].isBool }

type monomialSort struct{ m *Monomial }

func (s *monomialSort) Len() int           { return len(s.m.vars) }
func (s *monomialSort) Less(i, j int) bool { return s.m.vars[i] < s.m.vars[j] }
func (s *monomialSort) Swap(i, j int) {
	s.m.vars[i], s.m.vars[j] = s.m.vars[j], s.m.vars[i]
	s.m.degs[i], s.m.degs[j] = s.m.degs[j], s.m.degs[i]
}

type polynomialSort struct{ p *Polynomial }

func (s *polynomialSort) Len() int           { return len(s.p.vars) }
func (s *polynomialSort) Less(i, j int) bool { return s.p.vars[i] < s.p.vars[j] }
func (s *polynomialSort) Swap(i, j int) {
	s.p.vars[i], s.p.vars[j] = s.p.vars[j], s.p.vars[i]
	s.p.coeffs[i], s.p.coeffs[j] = s.p.coeffs[j], s.p.coeffs[i]
}
