// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fixedpoint implements the three scalar domains the scoring engine
// shares: human-facing Decimal, the canonical scaled-integer representation,
// and conversion into the ZK prover's scalar field.
package fixedpoint

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/shopspring/decimal"
)

var (
	ErrScalarParse  = errors.New("fixedpoint: scalar parse/overflow")
	ErrNegativeRoot = errors.New("fixedpoint: sqrt of negative value")
)

// Decimal is the human-facing scalar domain: raw telemetry and configuration
// values arrive as Decimal before being scaled into the engine's canonical
// integer representation.
type Decimal = decimal.Decimal

// pow10 returns 10^exp as a *big.Int. exp must be >= 0.
func pow10(exp int32) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
}

// FromDecimal scales d by 10^exp and truncates toward zero, producing the
// canonical scaled-integer representation at the declared exp.
func FromDecimal(d Decimal, exp int32) (*big.Int, error) {
	if exp < 0 {
		return nil, fmt.Errorf("%w: negative exp %d", ErrScalarParse, exp)
	}
	scale := decimal.New(1, exp)
	scaled := d.Mul(scale)
	r := scaled.Rat()
	if r == nil {
		return nil, fmt.Errorf("%w: could not scale decimal", ErrScalarParse)
	}
	return truncToInt(r), nil
}

// ToDecimal divides v by 10^exp exactly, returning a Decimal.
func ToDecimal(v *big.Int, exp int32) (Decimal, error) {
	if exp < 0 {
		return Decimal{}, fmt.Errorf("%w: negative exp %d", ErrScalarParse, exp)
	}
	return decimal.NewFromBigInt(v, -exp), nil
}

// truncToInt truncates a rational toward zero, matching the reference's
// rounding rule: (*big.Int).Quo truncates, (*big.Int).Div floors.
func truncToInt(r *big.Rat) *big.Int {
	return new(big.Int).Quo(r.Num(), r.Denom())
}

// TruncRatToInt truncates r toward zero into an integer. Used throughout the
// PoX engine to collapse transient ratio arithmetic (Open Question in
// spec.md section 9: truncation toward zero, never floor).
func TruncRatToInt(r *big.Rat) *big.Int {
	return truncToInt(r)
}

// IsZero reports whether v is the zero scaled integer.
func IsZero(v *big.Int) bool { return v.Sign() == 0 }

// IsNegative reports whether v is strictly negative.
func IsNegative(v *big.Int) bool { return v.Sign() < 0 }

// Sqr returns v*v. Callers are responsible for tracking that the result now
// lives at twice the input's exp (spec.md section 9: "fixed-point precision").
func Sqr(v *big.Int) *big.Int {
	return new(big.Int).Mul(v, v)
}

// Sqrt returns the integer square root of v, failing on negative input.
func Sqrt(v *big.Int) (*big.Int, error) {
	if v.Sign() < 0 {
		return nil, ErrNegativeRoot
	}
	return new(big.Int).Sqrt(v), nil
}

// RatSqrt computes sqrt(p/q) for a rational p/q as sqrt(p*q)/q, per
// spec.md section 4.1: "sqrt on a rational p/q returns sqrt(p*q)/q (integer
// sqrt of the numerator after cross-multiplication)". Fails on any negative
// input.
func RatSqrt(r *big.Rat) (*big.Rat, error) {
	if r.Sign() < 0 {
		return nil, ErrNegativeRoot
	}
	p, q := r.Num(), r.Denom()
	numer := new(big.Int).Mul(p, q)
	sqrtNumer, err := Sqrt(numer)
	if err != nil {
		return nil, err
	}
	return new(big.Rat).SetFrac(sqrtNumer, q), nil
}

// MagnitudeToUint64 clamps |v| into a uint64, per spec.md section 3
// ("magnitude-to-u64 (clamped)").
func MagnitudeToUint64(v *big.Int) uint64 {
	mag := new(big.Int).Abs(v)
	max := new(big.Int).SetUint64(^uint64(0))
	if mag.Cmp(max) > 0 {
		return ^uint64(0)
	}
	return mag.Uint64()
}

// ToFieldElement converts a scaled integer into the ZK prover's scalar
// field: the magnitude is packed into the field's internal 64-bit limb
// representation and negated if the integer is negative (spec.md section 3,
// section 4.1).
func ToFieldElement(v *big.Int) fr.Element {
	mag := new(big.Int).Abs(v)
	var e fr.Element
	e.SetBigInt(mag)
	if v.Sign() < 0 {
		e.Neg(&e)
	}
	return e
}
