// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package kernel implements the spatial coefficient functions (Quadratic,
// Gaussian-Taylor) and the linear penalty used by the PoX engine.
package kernel

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Pos2D is a position in scaled-integer coordinates.
type Pos2D struct {
	X, Y *big.Int
}

// DistSqr returns (x1-x2)^2 + (y1-y2)^2, implicitly at twice the input exp
// (spec.md section 9: "fixed-point precision"). Coordinates small enough to
// fit uint256 (the overwhelming common case for real positions) take a
// bounded-arithmetic fast path; anything larger falls back to math/big.
func DistSqr(a, b Pos2D) *big.Int {
	if v, ok := distSqrFast(a, b); ok {
		return v
	}
	dx := new(big.Int).Sub(a.X, b.X)
	dy := new(big.Int).Sub(a.Y, b.Y)
	dx2 := new(big.Int).Mul(dx, dx)
	dy2 := new(big.Int).Mul(dy, dy)
	return dx2.Add(dx2, dy2)
}

// distSqrFast computes the same value using holiman/uint256, reporting ok =
// false if either coordinate's magnitude doesn't fit a uint256 (in which
// case the caller retries with unbounded math/big).
func distSqrFast(a, b Pos2D) (*big.Int, bool) {
	dx, ok := absDiffU256(a.X, b.X)
	if !ok {
		return nil, false
	}
	dy, ok := absDiffU256(a.Y, b.Y)
	if !ok {
		return nil, false
	}
	var dx2, dy2, sum uint256.Int
	if dx2.MulOverflow(dx, dx) {
		return nil, false
	}
	if dy2.MulOverflow(dy, dy) {
		return nil, false
	}
	if sum.AddOverflow(&dx2, &dy2) {
		return nil, false
	}
	return sum.ToBig(), true
}

// absDiffU256 returns |x-y| as a uint256, or ok=false if x or y doesn't fit
// one (both are signed scaled integers; the engine only takes this path for
// in-range coordinates).
func absDiffU256(x, y *big.Int) (*uint256.Int, bool) {
	xu, overflow := uint256.FromBig(new(big.Int).Abs(x))
	if overflow {
		return nil, false
	}
	yu, overflow := uint256.FromBig(new(big.Int).Abs(y))
	if overflow {
		return nil, false
	}
	if x.Sign() >= 0 && y.Sign() >= 0 || x.Sign() < 0 && y.Sign() < 0 {
		// same sign: |x-y| = |xu - yu|
		if xu.Cmp(yu) >= 0 {
			return new(uint256.Int).Sub(xu, yu), true
		}
		return new(uint256.Int).Sub(yu, xu), true
	}
	// opposite sign: |x-y| = xu + yu, which may overflow uint256 for huge
	// inputs; fall back to big.Int in that case.
	var sum uint256.Int
	if sum.AddOverflow(xu, yu) {
		return nil, false
	}
	return &sum, true
}

// Kernel maps a pair of positions to a non-negative coefficient, expressed
// as an exact rational numer/denom (spec.md section 4.2).
type Kernel interface {
	// Numer returns the coefficient's numerator for the pair (a, b).
	Numer(a, b Pos2D) *big.Int
	// Denom returns the coefficient's (position-independent) denominator.
	Denom() *big.Int
}

// Penalty maps a non-negative diff to a non-negative weight.
type Penalty interface {
	Eval(diff *big.Int) *big.Int
}
