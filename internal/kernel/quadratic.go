// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import "math/big"

// Quadratic implements numer = max(0, max_dis_sqr - |x1-x2|^2), denom = 1
// (spec.md section 4.2). MaxDisSqr is expected to already be expressed at
// coord_exp*2, per configuration.
type Quadratic struct {
	MaxDisSqr *big.Int
}

func NewQuadratic(maxDisSqr *big.Int) *Quadratic {
	return &Quadratic{MaxDisSqr: maxDisSqr}
}

func (q *Quadratic) Numer(a, b Pos2D) *big.Int {
	d2 := DistSqr(a, b)
	n := new(big.Int).Sub(q.MaxDisSqr, d2)
	if n.Sign() < 0 {
		return big.NewInt(0)
	}
	return n
}

func (q *Quadratic) Denom() *big.Int {
	return big.NewInt(1)
}
