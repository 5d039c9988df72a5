package interval

import "math/big"

var intOne = big.NewInt(1)

// Floor returns the largest integer that is smaller than or equal to r.
func Floor(r *big.Rat) *big.Rat {
	q := new(big.Int).Div(r.Num(), r.Denom())
	return new(big.Rat).SetInt(q)
}

// Ceil returns the smallest integer that is larger than or equal to r.
func Ceil(r *big.Rat) *big.Rat {
	f := Floor(new(big.Rat).Neg(r))
	return f.Neg(f)
}

// Inc returns r + 1.
func Inc(r *big.Rat) *big.Rat {
	return new(big.Rat).Add(r, new(big.Rat).SetInt(intOne))
}

// Dec returns r - 1.
func Dec(r *big.Rat) *big.Rat {
	return new(big.Rat).Sub(r, new(big.Rat).SetInt(intOne))
}

// TenPow returns 10^k as a rational for k >= 0.
func TenPow(k int) *big.Rat {
	p := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(k)), nil)
	return new(big.Rat).SetInt(p)
}

func ratPow(v *big.Rat, d int) *big.Rat {
	e := big.NewInt(int64(d))
	num := new(big.Int).Exp(v.Num(), e, nil)
	den := new(big.Int).Exp(v.Denom(), e, nil)
	return new(big.Rat).SetFrac(num, den)
}
