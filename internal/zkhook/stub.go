// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package zkhook

import (
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// StubProver is a trivial, always-succeeding linear-combination prover,
// acceptable per spec.md section 4.6 and section 1 Non-goals ("it does not
// implement the ZK circuit proper"). It still computes the real linear
// combination over the scalar field so that GenProof's output is
// meaningful for the determinism property (spec.md section 8, property 1),
// and tracks verification counters the way the teacher's verifier does
// (TotalVerifications/TotalProofsValid/TotalProofsFailed).
type StubProver struct {
	mu                 sync.Mutex
	TotalVerifications uint64
	TotalProofsValid   uint64
	TotalProofsFailed  uint64
}

func NewStubProver() *StubProver {
	return &StubProver{}
}

// GenProof computes public = sum(coefs_i * xs_i) and returns its canonical
// field-element byte encoding as both the public output and the (trivial)
// proof.
func (s *StubProver) GenProof(coefs, xs []fr.Element) ([]byte, []byte, error) {
	var sum fr.Element
	n := len(coefs)
	if len(xs) < n {
		n = len(xs)
	}
	for i := 0; i < n; i++ {
		var term fr.Element
		term.Mul(&coefs[i], &xs[i])
		sum.Add(&sum, &term)
	}
	b := sum.Bytes()
	public := append([]byte(nil), b[:]...)
	proof := append([]byte(nil), b[:]...)
	return public, proof, nil
}

// VerifyProof accepts any proof whose length equals the public output's
// length (true for every pair GenProof returns): the stub carries no circuit
// to replay against, per spec.md's explicit permission for a trivial prover.
func (s *StubProver) VerifyProof(public, proof []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TotalVerifications++
	ok := len(public) == len(proof)
	if ok {
		s.TotalProofsValid++
	} else {
		s.TotalProofsFailed++
	}
	return ok, nil
}

// Setup is a no-op for the stub.
func (s *StubProver) Setup() error { return nil }
