// Package parsers loads partitioner instances: boolean CNF in DIMACS form,
// and a line-oriented text format for non-linear arithmetic instances.
package parsers

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/rhartert/dimacs"

	"github.com/zmylinxi99/AriParti-Distributed/internal/icp"
)

func reader(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// LoadDIMACS parses the DIMACS CNF file and loads its formula into the
// partitioner as boolean variables and clauses.
func LoadDIMACS(filename string, gzipped bool, ctx *icp.Context) error {
	reader, err := reader(filename, gzipped)
	if err != nil {
		return fmt.Errorf("error reading file %q: %s", filename, err)
	}
	defer reader.Close()

	b := &builder{ctx: ctx}
	return dimacs.ReadBuilder(reader, b)
}

// builder wraps the partitioner to implement dimacs.Builder.
type builder struct {
	ctx  *icp.Context
	vars []int
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("not a CNF problem")
	}
	for i := 0; i < nVars; i++ {
		b.vars = append(b.vars, b.ctx.MkBVar())
	}
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	atoms := make([]*icp.Atom, len(tmpClause))
	for i, l := range tmpClause {
		v := l
		if v < 0 {
			v = -v
		}
		if v > len(b.vars) {
			return fmt.Errorf("literal %d out of range", l)
		}
		a, err := b.ctx.MkBoolAtom(b.vars[v-1], l < 0)
		if err != nil {
			return err
		}
		atoms[i] = a
	}
	return b.ctx.AddClause(atoms)
}

func (b *builder) Comment(_ string) error {
	return nil // ignore comments
}

// LoadArith parses the arithmetic instance format. Lines are one of:
//
//	var <name> int|real
//	bvar <name>
//	mono <name> = <x>[^d] ...
//	sum <name> = <coeff> <x> ...
//	clause <lit> ...
//
// where a literal is a boolean name (optionally prefixed with -), or
// <x><op><rat> with op one of >=, >, <=, <, =, !=. Blank lines and lines
// starting with # are skipped.
func LoadArith(filename string, ctx *icp.Context) error {
	rd, err := reader(filename, false)
	if err != nil {
		return fmt.Errorf("error reading file %q: %s", filename, err)
	}
	defer rd.Close()

	ld := &arithLoader{ctx: ctx, names: map[string]int{}}
	sc := bufio.NewScanner(rd)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := ld.line(line); err != nil {
			return fmt.Errorf("%s:%d: %s", filename, lineNo, err)
		}
	}
	return sc.Err()
}

type arithLoader struct {
	ctx   *icp.Context
	names map[string]int
}

func (ld *arithLoader) line(line string) error {
	fields := strings.Fields(line)
	switch fields[0] {
	case "var":
		return ld.declVar(fields[1:])
	case "bvar":
		return ld.declBVar(fields[1:])
	case "mono":
		return ld.declMono(fields[1:])
	case "sum":
		return ld.declSum(fields[1:])
	case "clause":
		return ld.declClause(fields[1:])
	default:
		return fmt.Errorf("unknown directive %q", fields[0])
	}
}

func (ld *arithLoader) declare(name string, x int) error {
	if _, ok := ld.names[name]; ok {
		return fmt.Errorf("redeclared %q", name)
	}
	ld.names[name] = x
	return nil
}

func (ld *arithLoader) lookup(name string) (int, error) {
	x, ok := ld.names[name]
	if !ok {
		return -1, fmt.Errorf("unknown variable %q", name)
	}
	return x, nil
}

func (ld *arithLoader) declVar(args []string) error {
	if len(args) != 2 || (args[1] != "int" && args[1] != "real") {
		return fmt.Errorf("want: var <name> int|real")
	}
	return ld.declare(args[0], ld.ctx.MkVar(args[1] == "int"))
}

func (ld *arithLoader) declBVar(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("want: bvar <name>")
	}
	return ld.declare(args[0], ld.ctx.MkBVar())
}

func (ld *arithLoader) declMono(args []string) error {
	if len(args) < 3 || args[1] != "=" {
		return fmt.Errorf("want: mono <name> = <x>[^d] ...")
	}
	var vars, degs []int
	for _, term := range args[2:] {
		name, deg := term, 1
		if at := strings.IndexByte(term, '^'); at >= 0 {
			d, err := strconv.Atoi(term[at+1:])
			if err != nil {
				return fmt.Errorf("bad degree in %q", term)
			}
			name, deg = term[:at], d
		}
		x, err := ld.lookup(name)
		if err != nil {
			return err
		}
		vars = append(vars, x)
		degs = append(degs, deg)
	}
	y, err := ld.ctx.MkMonomial(vars, degs)
	if err != nil {
		return err
	}
	return ld.declare(args[0], y)
}

func (ld *arithLoader) declSum(args []string) error {
	if len(args) < 4 || args[1] != "=" || len(args)%2 != 0 {
		return fmt.Errorf("want: sum <name> = <coeff> <x> ...")
	}
	var coeffs []*big.Rat
	var vars []int
	for i := 2; i < len(args); i += 2 {
		k, ok := new(big.Rat).SetString(args[i])
		if !ok {
			return fmt.Errorf("bad coefficient %q", args[i])
		}
		x, err := ld.lookup(args[i+1])
		if err != nil {
			return err
		}
		coeffs = append(coeffs, k)
		vars = append(vars, x)
	}
	y, err := ld.ctx.MkSum(coeffs, vars)
	if err != nil {
		return err
	}
	return ld.declare(args[0], y)
}

var atomOps = []string{">=", "<=", "!=", ">", "<", "="} // longest first

func (ld *arithLoader) declClause(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("empty clause")
	}
	atoms := make([]*icp.Atom, 0, len(args))
	for _, lit := range args {
		a, err := ld.atom(lit)
		if err != nil {
			return err
		}
		atoms = append(atoms, a)
	}
	return ld.ctx.AddClause(atoms)
}

func (ld *arithLoader) atom(lit string) (*icp.Atom, error) {
	for _, op := range atomOps {
		at := strings.Index(lit, op)
		if at < 0 {
			continue
		}
		x, err := ld.lookup(lit[:at])
		if err != nil {
			return nil, err
		}
		k, ok := new(big.Rat).SetString(lit[at+len(op):])
		if !ok {
			return nil, fmt.Errorf("bad constant in %q", lit)
		}
		switch op {
		case "=":
			return ld.ctx.MkEqAtom(x, k, false)
		case "!=":
			return ld.ctx.MkEqAtom(x, k, true)
		case ">=":
			return ld.ctx.MkIneqAtom(x, k, true, false)
		case ">":
			return ld.ctx.MkIneqAtom(x, k, true, true)
		case "<=":
			return ld.ctx.MkIneqAtom(x, k, false, false)
		default:
			return ld.ctx.MkIneqAtom(x, k, false, true)
		}
	}
	name, neg := lit, false
	if strings.HasPrefix(lit, "-") {
		name, neg = lit[1:], true
	}
	x, err := ld.lookup(name)
	if err != nil {
		return nil, err
	}
	return ld.ctx.MkBoolAtom(x, neg)
}
