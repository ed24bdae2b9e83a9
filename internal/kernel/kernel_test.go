// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuadraticNumerClamp(t *testing.T) {
	q := NewQuadratic(big.NewInt(25))
	a := Pos2D{X: big.NewInt(0), Y: big.NewInt(0)}
	b := Pos2D{X: big.NewInt(10), Y: big.NewInt(0)}
	assert.Equal(t, big.NewInt(0), q.Numer(a, b)) // dist_sqr = 100 > 25
	c := Pos2D{X: big.NewInt(3), Y: big.NewInt(0)}
	assert.Equal(t, big.NewInt(16), q.Numer(a, c)) // 25 - 9 = 16
}

func TestLinearPenalty(t *testing.T) {
	p := NewLinearPenalty(big.NewInt(20))
	assert.Equal(t, big.NewInt(15), p.Eval(big.NewInt(5)))
	assert.Equal(t, big.NewInt(0), p.Eval(big.NewInt(25)))
	assert.Equal(t, big.NewInt(0), p.Eval(big.NewInt(-1)))
}

func TestGaussianTaylorOutOfRangeIsZero(t *testing.T) {
	g, err := NewGaussianTaylor(big.NewInt(2), 1, big.NewRat(2, 1))
	require.NoError(t, err)
	a := Pos2D{X: big.NewInt(0), Y: big.NewInt(0)}
	far := Pos2D{X: big.NewInt(10), Y: big.NewInt(0)}
	assert.Equal(t, big.NewInt(0), g.Numer(a, far))
}

func TestGaussianTaylorSelfTermEqualsDenom(t *testing.T) {
	g, err := NewGaussianTaylor(big.NewInt(2), 1, big.NewRat(2, 1))
	require.NoError(t, err)
	a := Pos2D{X: big.NewInt(1), Y: big.NewInt(1)}
	assert.Equal(t, 0, g.Numer(a, a).Cmp(g.Denom()))
}

func TestNewGaussianTaylorRejectsNonPositiveSigma(t *testing.T) {
	_, err := NewGaussianTaylor(big.NewInt(0), 1, big.NewRat(2, 1))
	assert.ErrorIs(t, err, ErrSigmaInvalid)

	_, err = NewGaussianTaylor(big.NewInt(-5), 1, big.NewRat(2, 1))
	assert.ErrorIs(t, err, ErrSigmaInvalid)
}
