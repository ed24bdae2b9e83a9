// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fixedpoint

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDecimalRoundTrip(t *testing.T) {
	d := decimal.NewFromFloat(-70.5)
	v, err := FromDecimal(d, 4)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(-705000), v)

	back, err := ToDecimal(v, 4)
	require.NoError(t, err)
	assert.True(t, d.Equal(back))
}

func TestFromDecimalTruncatesTowardZero(t *testing.T) {
	d := decimal.NewFromFloat(1.23456)
	v, err := FromDecimal(d, 2)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(123), v)
}

func TestSqrtNegativeFails(t *testing.T) {
	_, err := Sqrt(big.NewInt(-4))
	assert.ErrorIs(t, err, ErrNegativeRoot)
}

func TestSqrtExact(t *testing.T) {
	v, err := Sqrt(big.NewInt(25))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5), v)
}

func TestRatSqrt(t *testing.T) {
	r := big.NewRat(25, 4) // 6.25
	got, err := RatSqrt(r)
	require.NoError(t, err)
	want := big.NewRat(5, 2)
	assert.Equal(t, 0, got.Cmp(want))
}

func TestRatSqrtNegative(t *testing.T) {
	_, err := RatSqrt(big.NewRat(-1, 2))
	assert.ErrorIs(t, err, ErrNegativeRoot)
}

func TestMagnitudeToUint64Clamped(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 128)
	assert.Equal(t, ^uint64(0), MagnitudeToUint64(huge))
	assert.Equal(t, uint64(42), MagnitudeToUint64(big.NewInt(-42)))
}

func TestToFieldElementSignNegation(t *testing.T) {
	pos := ToFieldElement(big.NewInt(7))
	neg := ToFieldElement(big.NewInt(-7))
	sum := pos
	sum.Add(&pos, &neg)
	assert.True(t, sum.IsZero())
}
