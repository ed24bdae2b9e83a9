// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package zkhook

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubProverGenAndVerify(t *testing.T) {
	var c1, c2, x1, x2 fr.Element
	c1.SetInt64(3)
	c2.SetInt64(5)
	x1.SetInt64(7)
	x2.SetInt64(11)

	p := NewStubProver()
	public, proof, err := p.GenProof([]fr.Element{c1, c2}, []fr.Element{x1, x2})
	require.NoError(t, err)

	ok, err := p.VerifyProof(public, proof)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 1, p.TotalProofsValid)
}

func TestStubProverDeterministic(t *testing.T) {
	var c, x fr.Element
	c.SetInt64(2)
	x.SetInt64(21)
	p := NewStubProver()
	pub1, _, _ := p.GenProof([]fr.Element{c}, []fr.Element{x})
	pub2, _, _ := p.GenProof([]fr.Element{c}, []fr.Element{x})
	assert.Equal(t, pub1, pub2)
}
