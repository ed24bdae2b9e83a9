// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import "math/big"

// LinearPenalty implements eval(diff) = max(0, max_diff - diff) for diff in
// [0, max_diff]; negative or over-range diffs yield 0 (spec.md section 4.2).
type LinearPenalty struct {
	MaxDiff *big.Int
}

func NewLinearPenalty(maxDiff *big.Int) *LinearPenalty {
	return &LinearPenalty{MaxDiff: maxDiff}
}

func (p *LinearPenalty) Eval(diff *big.Int) *big.Int {
	if diff.Sign() < 0 || diff.Cmp(p.MaxDiff) > 0 {
		return big.NewInt(0)
	}
	return new(big.Int).Sub(p.MaxDiff, diff)
}
