// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package merkle

import "fmt"

// ComparisonProof is the delta-proof attesting both the reference leaves and
// the "dropped" (hash-of-empty) leaves at the same indices, reusing a single
// multi-proof (spec.md section 4.3).
type ComparisonProof struct {
	RefRoot     [32]byte
	DroppedRoot [32]byte
	Proof       []byte
	Indices     []int
	LeavesToProve [][32]byte
	TotalLeaves int
}

// Empty returns the zero-value proof, used for terminals with no packets.
func Empty() ComparisonProof {
	return ComparisonProof{}
}

// ComparisonProofWithDroppingDifference builds a ComparisonProof from a
// reference tree and a dropped tree, asserting the result verifies before
// returning it (spec.md section 4.3: "the constructor asserts this before
// returning").
func ComparisonProofWithDroppingDifference(ref, dropped *Tree) (ComparisonProof, error) {
	indices := Compare(ref, dropped)
	leaves := make([][32]byte, len(indices))
	for i, idx := range indices {
		leaves[i] = ref.leaves[idx]
	}
	mp := ref.BuildMultiProof(indices)
	proof := ComparisonProof{
		RefRoot:       ref.Root(),
		DroppedRoot:   dropped.Root(),
		Proof:         mp.Serialize(),
		Indices:       indices,
		LeavesToProve: leaves,
		TotalLeaves:   ref.NumLeaves(),
	}
	valid, invalid, ok := proof.Verify()
	if !ok {
		return ComparisonProof{}, fmt.Errorf("merkle: constructed proof failed self-verification (valid=%d invalid=%d)", valid, invalid)
	}
	return proof, nil
}

// Verify replays the proof. It returns the valid/invalid packet counts it
// implies and whether verification succeeded, per spec.md section 4.3 and
// section 8 (property 6: empty-proof canonical failure).
//
// Succeeds iff:
//   - |indices| = |leaves_to_prove|
//   - if |indices| = 0, the valid count is non-zero (identical trees); an
//     empty proof with zero valid and zero invalid counts always fails
//   - the proof verifies against ref_root with leaves_to_prove
//   - the same proof verifies against dropped_root with the hash-of-empty
//     substituted for each leaf at the same indices
func (p ComparisonProof) Verify() (valid, invalid int, ok bool) {
	if len(p.Indices) != len(p.LeavesToProve) {
		return 0, 0, false
	}
	invalid = len(p.Indices)
	valid = p.TotalLeaves - invalid
	if len(p.Indices) == 0 {
		if valid == 0 && invalid == 0 {
			// Canonical "no packets at all" failure (spec.md section 8
			// property 6: "Fail(\"Empty proof\")").
			return 0, 0, false
		}
		// No differing leaves: the two trees are identical, so the
		// comparison trivially holds without replaying any proof steps.
		return valid, invalid, true
	}
	mp, err := DeserializeMultiProof(p.Proof)
	if err != nil {
		return 0, 0, false
	}

	refLeaves := make(map[int][32]byte, len(p.Indices))
	droppedLeaves := make(map[int][32]byte, len(p.Indices))
	for i, idx := range p.Indices {
		refLeaves[idx] = p.LeavesToProve[i]
		droppedLeaves[idx] = EmptyLeafHash
	}

	if !mp.VerifyAgainstRoot(p.TotalLeaves, refLeaves, p.RefRoot) {
		return valid, invalid, false
	}
	if !mp.VerifyAgainstRoot(p.TotalLeaves, droppedLeaves, p.DroppedRoot) {
		return valid, invalid, false
	}
	return valid, invalid, true
}
