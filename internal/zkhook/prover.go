// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package zkhook defines the abstract ZK-proof contract the PoX engine
// invokes per terminal (spec.md section 4.6), grounded on the verifying
// patterns in the teacher's zk package: registration of verifying material,
// a stateless verify path, and public/proof byte blobs handled opaquely by
// the core.
package zkhook

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

// Prover is the abstract contract for the per-terminal linear-combination
// attestation: it proves that public = sum(coefs_i * xs_i) in the scalar
// field, and can replay that proof statelessly.
type Prover interface {
	// GenProof computes a proof that public = sum(coefs_i * xs_i). The core
	// stores (public, proof) opaquely alongside the terminal's result.
	GenProof(coefs, xs []fr.Element) (public []byte, proof []byte, err error)

	// VerifyProof replays verification. Stateless: no external references.
	VerifyProof(public, proof []byte) (bool, error)
}

// Setupper is an optional one-shot used by concrete provers that need
// circuit/parameter setup before GenProof/VerifyProof are usable.
type Setupper interface {
	Setup() error
}
