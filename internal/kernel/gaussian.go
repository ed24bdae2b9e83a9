// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"errors"
	"math/big"
)

// ErrSigmaInvalid is returned when sigma is zero or negative (spec.md
// section 7, the SigmaInvalid taxonomy entry; mirrors
// pox/src/math/kernel/gaussian.rs's Error::SigmaZeroOrNegative).
var ErrSigmaInvalid = errors.New("kernel: sigma must be positive")

// GaussianTaylor approximates exp(-d^2/(2*sigma^2)) by its truncated Taylor
// series to order MaxOrder, returned as an exact rational numer/denom
// (spec.md section 4.2).
//
// Sigma is expressed at the same exp as the coordinates it is compared
// against. SigmaRange is dimensionless (a ratio cutoff), typically 2.0-3.0.
type GaussianTaylor struct {
	Sigma      *big.Int
	MaxOrder   int
	SigmaRange *big.Rat
}

func NewGaussianTaylor(sigma *big.Int, maxOrder int, sigmaRange *big.Rat) (*GaussianTaylor, error) {
	if sigma.Sign() <= 0 {
		return nil, ErrSigmaInvalid
	}
	return &GaussianTaylor{Sigma: sigma, MaxOrder: maxOrder, SigmaRange: sigmaRange}, nil
}

// fallingFactorial returns product_{j=k+1}^{m} j, i.e. m!/k!.
func fallingFactorial(m, k int) *big.Int {
	r := big.NewInt(1)
	for j := k + 1; j <= m; j++ {
		r.Mul(r, big.NewInt(int64(j)))
	}
	return r
}

func factorial(n int) *big.Int {
	r := big.NewInt(1)
	for j := 2; j <= n; j++ {
		r.Mul(r, big.NewInt(int64(j)))
	}
	return r
}

// sigma2 returns sigma^2.
func (g *GaussianTaylor) sigma2() *big.Int {
	return new(big.Int).Mul(g.Sigma, g.Sigma)
}

// withinRange reports whether d2/sigma2 <= sigma_range^2.
func (g *GaussianTaylor) withinRange(d2, sigma2 *big.Int) bool {
	ratio := new(big.Rat).SetFrac(d2, sigma2)
	threshold := new(big.Rat).Mul(g.SigmaRange, g.SigmaRange)
	return ratio.Cmp(threshold) <= 0
}

// Numer returns the truncated-Taylor numerator for the pair (a, b), clamped
// to zero if out of range or if the truncated value would be negative.
func (g *GaussianTaylor) Numer(a, b Pos2D) *big.Int {
	d2 := DistSqr(a, b)
	s2 := g.sigma2()
	if !g.withinRange(d2, s2) {
		return big.NewInt(0)
	}
	m := g.MaxOrder
	numer := big.NewInt(0)
	dPow := big.NewInt(1) // d2^k
	for k := 0; k <= m; k++ {
		if k > 0 {
			dPow = new(big.Int).Mul(dPow, d2)
		}
		ck := new(big.Int).Mul(fallingFactorial(m, k), new(big.Int).Exp(big.NewInt(2), big.NewInt(int64(m-k)), nil))
		sigmaPow := new(big.Int).Exp(s2, big.NewInt(int64(m-k)), nil)
		ck.Mul(ck, sigmaPow)
		term := new(big.Int).Mul(dPow, ck)
		if k%2 == 1 {
			term.Neg(term)
		}
		numer.Add(numer, term)
	}
	if numer.Sign() < 0 {
		return big.NewInt(0)
	}
	return numer
}

// Denom returns M! * 2^M * sigma^(2M).
func (g *GaussianTaylor) Denom() *big.Int {
	m := g.MaxOrder
	d := factorial(m)
	d.Mul(d, new(big.Int).Exp(big.NewInt(2), big.NewInt(int64(m)), nil))
	d.Mul(d, new(big.Int).Exp(g.sigma2(), big.NewInt(int64(m)), nil))
	return d
}
