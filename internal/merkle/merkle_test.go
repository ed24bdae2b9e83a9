// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package merkle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leafSet(vals ...[]byte) [][]byte { return vals }

func TestNewEmptyFails(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestCompareFindsDifferingIndices(t *testing.T) {
	ref, err := New(leafSet([]byte("1"), []byte("2"), []byte("3"), []byte("4")))
	require.NoError(t, err)
	dropped, err := New(leafSet([]byte("1"), nil, []byte("3"), nil))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, Compare(ref, dropped))
}

func TestComparisonProofRoundTrip(t *testing.T) {
	ref, err := New(leafSet([]byte("1"), []byte("2"), []byte("3"), []byte("4")))
	require.NoError(t, err)
	dropped, err := New(leafSet(nil, []byte("2"), nil, []byte("4")))
	require.NoError(t, err)

	proof, err := ComparisonProofWithDroppingDifference(ref, dropped)
	require.NoError(t, err)
	valid, invalid, ok := proof.Verify()
	assert.True(t, ok)
	assert.Equal(t, 2, valid)
	assert.Equal(t, 2, invalid)
	assert.Equal(t, []int{0, 2}, proof.Indices)
}

func TestComparisonProofNoDifferenceSucceeds(t *testing.T) {
	ref, err := New(leafSet([]byte("1"), []byte("2"), []byte("3"), []byte("4")))
	require.NoError(t, err)
	same, err := New(leafSet([]byte("1"), []byte("2"), []byte("3"), []byte("4")))
	require.NoError(t, err)
	proof, err := ComparisonProofWithDroppingDifference(ref, same)
	require.NoError(t, err)
	valid, invalid, ok := proof.Verify()
	assert.True(t, ok)
	assert.Equal(t, 4, valid)
	assert.Equal(t, 0, invalid)
}

func TestEmptyProofFails(t *testing.T) {
	p := Empty()
	valid, invalid, ok := p.Verify()
	assert.False(t, ok)
	assert.Equal(t, 0, valid)
	assert.Equal(t, 0, invalid)
}

func TestBlake3TreeSamePaddingAndCompareBehavior(t *testing.T) {
	ref, err := NewWithBlake3(leafSet([]byte("1"), []byte("2"), []byte("3")))
	require.NoError(t, err)
	dropped, err := NewWithBlake3(leafSet([]byte("1"), nil, []byte("3")))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, Compare(ref, dropped))
	assert.NotEqual(t, [32]byte{}, ref.Root())
}
