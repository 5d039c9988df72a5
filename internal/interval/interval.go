// Package interval implements interval arithmetic over arbitrary-precision
// rationals with open, closed, and infinite endpoints.
package interval

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
)

// Interval represents a possibly unbounded interval over the rationals. A nil
// endpoint means the interval is unbounded on that side. An open endpoint is
// excluded from the interval.
type Interval struct {
	Lo     *big.Rat
	Hi     *big.Rat
	LoOpen bool
	HiOpen bool
}

// Unbounded returns the interval (-oo, +oo).
func Unbounded() Interval {
	return Interval{}
}

// Point returns the degenerate interval [v, v].
func Point(v *big.Rat) Interval {
	return Interval{Lo: v, Hi: v}
}

// Bounded returns true if both endpoints are finite.
func (i Interval) Bounded() bool {
	return i.Lo != nil && i.Hi != nil
}

// IsZeroPoint returns true if the interval is exactly [0, 0].
func (i Interval) IsZeroPoint() bool {
	return i.Lo != nil && i.Hi != nil && !i.LoOpen && !i.HiOpen &&
		i.Lo.Sign() == 0 && i.Hi.Sign() == 0
}

// ContainsZero returns true if 0 is an element of the interval.
func (i Interval) ContainsZero() bool {
	if i.Lo != nil {
		if s := i.Lo.Sign(); s > 0 || (s == 0 && i.LoOpen) {
			return false
		}
	}
	if i.Hi != nil {
		if s := i.Hi.Sign(); s < 0 || (s == 0 && i.HiOpen) {
			return false
		}
	}
	return true
}

func (i Interval) String() string {
	lb, rb := "[", "]"
	lo, hi := "-oo", "+oo"
	if i.Lo == nil || i.LoOpen {
		lb = "("
	}
	if i.Hi == nil || i.HiOpen {
		rb = ")"
	}
	if i.Lo != nil {
		lo = i.Lo.RatString()
	}
	if i.Hi != nil {
		hi = i.Hi.RatString()
	}
	return fmt.Sprintf("%s%s, %s%s", lb, lo, hi, rb)
}

// Add returns the interval {a + b | a in x, b in y}.
func Add(x, y Interval) Interval {
	out := Interval{}
	if x.Lo != nil && y.Lo != nil {
		out.Lo = new(big.Rat).Add(x.Lo, y.Lo)
		out.LoOpen = x.LoOpen || y.LoOpen
	}
	if x.Hi != nil && y.Hi != nil {
		out.Hi = new(big.Rat).Add(x.Hi, y.Hi)
		out.HiOpen = x.HiOpen || y.HiOpen
	}
	return out
}

// Neg returns the interval {-a | a in x}.
func Neg(x Interval) Interval {
	out := Interval{}
	if x.Hi != nil {
		out.Lo = new(big.Rat).Neg(x.Hi)
		out.LoOpen = x.HiOpen
	}
	if x.Lo != nil {
		out.Hi = new(big.Rat).Neg(x.Lo)
		out.HiOpen = x.LoOpen
	}
	return out
}

// Sub returns the interval {a - b | a in x, b in y}.
func Sub(x, y Interval) Interval {
	return Add(x, Neg(y))
}

// MulRat returns the interval {k * a | a in x}.
func MulRat(x Interval, k *big.Rat) Interval {
	if k.Sign() == 0 {
		return Point(new(big.Rat))
	}
	if k.Sign() < 0 {
		x = Neg(x)
		k = new(big.Rat).Neg(k)
	}
	out := Interval{LoOpen: x.LoOpen, HiOpen: x.HiOpen}
	if x.Lo != nil {
		out.Lo = new(big.Rat).Mul(x.Lo, k)
	}
	if x.Hi != nil {
		out.Hi = new(big.Rat).Mul(x.Hi, k)
	}
	if x.Lo == nil {
		out.LoOpen = false
	}
	if x.Hi == nil {
		out.HiOpen = false
	}
	return out
}

// extRat is a rational extended with the two infinities. val is nil when the
// value is infinite, in which case inf holds its sign.
type extRat struct {
	val  *big.Rat
	inf  int
	open bool
}

func (x Interval) loEnd() extRat {
	if x.Lo == nil {
		return extRat{inf: -1, open: true}
	}
	return extRat{val: x.Lo, open: x.LoOpen}
}

func (x Interval) hiEnd() extRat {
	if x.Hi == nil {
		return extRat{inf: 1, open: true}
	}
	return extRat{val: x.Hi, open: x.HiOpen}
}

func (e extRat) sign() int {
	if e.val != nil {
		return e.val.Sign()
	}
	return e.inf
}

func cmpExt(a, b extRat) int {
	if a.val != nil && b.val != nil {
		return a.val.Cmp(b.val)
	}
	ai, bi := 0, 0
	if a.val == nil {
		ai = a.inf
	}
	if b.val == nil {
		bi = b.inf
	}
	switch {
	case ai < bi:
		return -1
	case ai > bi:
		return 1
	case ai != 0: // same infinity
		return 0
	case ai == 0 && bi < 0:
		return 1
	case ai == 0 && bi > 0:
		return -1
	default:
		return 0
	}
}

// mulEnds multiplies two extended endpoints. A zero endpoint absorbs an
// infinite one: the extremum contributed by such a pair is zero.
func mulEnds(a, b extRat) extRat {
	if a.val != nil && b.val != nil {
		return extRat{val: new(big.Rat).Mul(a.val, b.val), open: a.open || b.open}
	}
	if a.val != nil && a.val.Sign() == 0 {
		return extRat{val: new(big.Rat), open: a.open}
	}
	if b.val != nil && b.val.Sign() == 0 {
		return extRat{val: new(big.Rat), open: b.open}
	}
	return extRat{inf: a.sign() * b.sign(), open: true}
}

// Mul returns the interval {a * b | a in x, b in y}. The extrema are taken
// over the four endpoint products; an endpoint is open only if every product
// attaining the extremum is open.
func Mul(x, y Interval) Interval {
	cands := [4]extRat{
		mulEnds(x.loEnd(), y.loEnd()),
		mulEnds(x.loEnd(), y.hiEnd()),
		mulEnds(x.hiEnd(), y.loEnd()),
		mulEnds(x.hiEnd(), y.hiEnd()),
	}
	lo, hi := cands[0], cands[0]
	for _, c := range cands[1:] {
		switch cmpExt(c, lo) {
		case -1:
			lo = c
		case 0:
			lo.open = lo.open && c.open
		}
		switch cmpExt(c, hi) {
		case 1:
			hi = c
		case 0:
			hi.open = hi.open && c.open
		}
	}
	out := Interval{}
	if lo.val != nil {
		out.Lo = lo.val
		out.LoOpen = lo.open
	}
	if hi.val != nil {
		out.Hi = hi.val
		out.HiOpen = hi.open
	}
	return out
}

// Div returns an interval containing {a / b | a in x, b in y}. If the divisor
// can reach zero, the quotient is unbounded.
func Div(x, y Interval) Interval {
	if y.ContainsZero() {
		return Unbounded()
	}
	return Mul(x, inv(y))
}

// inv inverts an interval that lies strictly on one side of zero. Inversion
// is decreasing on each sign side, so the endpoints swap.
func inv(y Interval) Interval {
	out := Interval{}
	switch {
	case y.Hi == nil: // positive side reaching +oo
		out.Lo = new(big.Rat)
		out.LoOpen = true
	case y.Hi.Sign() == 0: // negative side with open zero endpoint
		// 1/0- is -oo; keep the lower end unbounded.
	default:
		out.Lo = new(big.Rat).Inv(y.Hi)
		out.LoOpen = y.HiOpen
	}
	switch {
	case y.Lo == nil: // negative side reaching -oo
		out.Hi = new(big.Rat)
		out.HiOpen = true
	case y.Lo.Sign() == 0: // positive side with open zero endpoint
		// 1/0+ is +oo; keep the upper end unbounded.
	default:
		out.Hi = new(big.Rat).Inv(y.Lo)
		out.HiOpen = y.LoOpen
	}
	return out
}

// Pow returns the interval {a^d | a in x} for d >= 1. An even power of an
// interval spanning zero has an attained lower bound of zero.
func Pow(x Interval, d int) Interval {
	if d <= 1 {
		return x
	}
	if d%2 == 1 {
		out := Interval{LoOpen: x.LoOpen, HiOpen: x.HiOpen}
		if x.Lo != nil {
			out.Lo = ratPow(x.Lo, d)
		} else {
			out.LoOpen = false
		}
		if x.Hi != nil {
			out.Hi = ratPow(x.Hi, d)
		} else {
			out.HiOpen = false
		}
		return out
	}
	switch {
	case x.Lo != nil && x.Lo.Sign() >= 0:
		out := Interval{Lo: ratPow(x.Lo, d), LoOpen: x.LoOpen}
		if x.Hi != nil {
			out.Hi = ratPow(x.Hi, d)
			out.HiOpen = x.HiOpen
		}
		return out
	case x.Hi != nil && x.Hi.Sign() <= 0:
		out := Interval{Lo: ratPow(x.Hi, d), LoOpen: x.HiOpen}
		if x.Lo != nil {
			out.Hi = ratPow(x.Lo, d)
			out.HiOpen = x.LoOpen
		}
		return out
	default: // spans zero
		out := Interval{Lo: new(big.Rat)}
		if x.Lo == nil || x.Hi == nil {
			return out
		}
		al := new(big.Rat).Abs(x.Lo)
		ah := new(big.Rat).Abs(x.Hi)
		switch al.Cmp(ah) {
		case 1:
			out.Hi = ratPow(al, d)
			out.HiOpen = x.LoOpen
		case -1:
			out.Hi = ratPow(ah, d)
			out.HiOpen = x.HiOpen
		default:
			out.Hi = ratPow(al, d)
			out.HiOpen = x.LoOpen && x.HiOpen
		}
		return out
	}
}

// NthRoot returns an interval containing every x whose n-th power lies in y.
// Root endpoints are approximated to within 1/prec and rounded outward, so
// the result is always a superset. For even n only the magnitude bound is
// derived: the result is symmetric around zero.
func NthRoot(y Interval, n int, prec int64) (Interval, error) {
	if n < 2 {
		return y, nil
	}
	if n%2 == 0 {
		if y.Hi == nil {
			return Unbounded(), nil
		}
		if y.Hi.Sign() < 0 {
			return Interval{}, errors.Errorf("no real %d-th root of negative interval %s", n, y)
		}
		r := rootUpper(y.Hi, n, prec)
		return Interval{Lo: new(big.Rat).Neg(r), Hi: r}, nil
	}
	out := Interval{}
	if y.Lo != nil {
		out.Lo = signedRootLower(y.Lo, n, prec)
	}
	if y.Hi != nil {
		out.Hi = signedRootUpper(y.Hi, n, prec)
	}
	return out, nil
}

// rootUpper returns the smallest multiple of 1/prec whose n-th power is at
// least v. Requires v >= 0.
func rootUpper(v *big.Rat, n int, prec int64) *big.Rat {
	p := big.NewInt(prec)
	limit := new(big.Rat).SetInt64(1)
	if v.Cmp(limit) > 0 {
		limit = v
	}
	hiK := new(big.Int).Mul(Ceil(limit).Num(), p)
	loK := big.NewInt(0)
	for loK.Cmp(hiK) < 0 {
		mid := new(big.Int).Rsh(new(big.Int).Add(loK, hiK), 1)
		r := new(big.Rat).SetFrac(mid, p)
		if ratPow(r, n).Cmp(v) >= 0 {
			hiK = mid
		} else {
			loK = new(big.Int).Add(mid, intOne)
		}
	}
	return new(big.Rat).SetFrac(hiK, p)
}

// rootLower returns the largest multiple of 1/prec whose n-th power is at
// most v. Requires v >= 0.
func rootLower(v *big.Rat, n int, prec int64) *big.Rat {
	r := rootUpper(v, n, prec)
	if ratPow(r, n).Cmp(v) > 0 {
		r = new(big.Rat).Sub(r, new(big.Rat).SetFrac(intOne, big.NewInt(prec)))
	}
	if r.Sign() < 0 {
		return new(big.Rat)
	}
	return r
}

func signedRootLower(v *big.Rat, n int, prec int64) *big.Rat {
	if v.Sign() >= 0 {
		return rootLower(v, n, prec)
	}
	r := rootUpper(new(big.Rat).Neg(v), n, prec)
	return r.Neg(r)
}

func signedRootUpper(v *big.Rat, n int, prec int64) *big.Rat {
	if v.Sign() >= 0 {
		return rootUpper(v, n, prec)
	}
	r := rootLower(new(big.Rat).Neg(v), n, prec)
	return r.Neg(r)
}
