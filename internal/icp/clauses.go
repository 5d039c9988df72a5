package icp

import (
	"math/big"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Clause is a disjunction of atoms. Atoms are kept sorted by (kind group,
// variable); the clause is watched on every distinct variable it mentions.
type Clause struct {
	id      int
	atoms   []*Atom
	visited uint64
}

func (cl *Clause) ID() int        { return cl.id }
func (cl *Clause) Atoms() []*Atom { return cl.atoms }

func (cl *Clause) String() string {
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	for i, a := range cl.atoms {
		if i > 0 {
			sb.WriteString(" v ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// MkBoolAtom allocates the atom x (or !x if neg). The reference count starts
// at zero.
func (c *Context) MkBoolAtom(x int, neg bool) (*Atom, error) {
	if !c.vars[x].isBool {
		return nil, errors.Errorf("x%d is not boolean", x)
	}
	return c.newAtom(&Atom{kind: KindBool, varID: x, Neg: neg}), nil
}

// MkEqAtom allocates the atom x = k (or x != k if neg).
func (c *Context) MkEqAtom(x int, k *big.Rat, neg bool) (*Atom, error) {
	if c.vars[x].isBool {
		return nil, errors.Errorf("equality atom on boolean x%d", x)
	}
	return c.newAtom(&Atom{kind: KindEq, varID: x, Val: k, Neg: neg}), nil
}

// MkIneqAtom allocates the atom x >= k (lower) or x <= k, strict when open.
func (c *Context) MkIneqAtom(x int, k *big.Rat, lower, open bool) (*Atom, error) {
	if c.vars[x].isBool {
		return nil, errors.Errorf("inequality atom on boolean x%d", x)
	}
	return c.newAtom(&Atom{kind: KindIneq, varID: x, Val: k, Lower: lower, Open: open}), nil
}

func (c *Context) newAtom(a *Atom) *Atom {
	a.id = len(c.atoms)
	c.atoms = append(c.atoms, a)
	return a
}

// IncRef increments the reference count of a.
func (c *Context) IncRef(a *Atom) { a.refs++ }

// DecRef decrements the reference count of a.
func (c *Context) DecRef(a *Atom) { a.refs-- }

// AddClause adds the disjunction of the given atoms to the store. A single
// atom becomes a unit axiom; larger clauses are watched on every distinct
// variable they mention.
func (c *Context) AddClause(atoms []*Atom) error {
	if c.initialized {
		return errors.New("cannot add clauses after initialization")
	}
	switch len(atoms) {
	case 0:
		return errors.New("empty clause")
	case 1:
		c.IncRef(atoms[0])
		c.units = append(c.units, atoms[0])
		return nil
	}

	lits := append([]*Atom(nil), atoms...)
	sort.SliceStable(lits, func(i, j int) bool {
		bi, bj := lits[i].kind == KindBool, lits[j].kind == KindBool
		if bi != bj {
			return !bi
		}
		return lits[i].varID < lits[j].varID
	})

	cl := &Clause{id: len(c.clauses), atoms: lits}
	c.clauses = append(c.clauses, cl)
	c.seen.Clear()
	for _, a := range lits {
		c.IncRef(a)
		if c.seen.Contains(a.varID) {
			continue
		}
		c.seen.Add(a.varID)
		c.watches[a.varID] = append(c.watches[a.varID], watcher{clause: cl})
	}
	return nil
}
