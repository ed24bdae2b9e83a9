// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package merkle

import "github.com/zeebo/blake3"

// NewWithBlake3 builds a tree identical in shape to New but hashing leaves
// and pairs with blake3 instead of SHA-256. It exists as a self-test
// fixture confirming the tree/padding/compare logic is hash-algorithm
// agnostic; production trees always use New (spec.md section 4.3 fixes
// SHA-256 on the wire path).
func NewWithBlake3(leafData [][]byte) (*Tree, error) {
	if len(leafData) == 0 {
		return nil, ErrEmpty
	}
	leaves := make([][32]byte, len(leafData))
	for i, d := range leafData {
		leaves[i] = blake3.Sum256(d)
	}
	return newFromHashesWith(leaves, blake3PairHash)
}

func blake3PairHash(a, b [32]byte) [32]byte {
	buf := make([]byte, 64)
	copy(buf[:32], a[:])
	copy(buf[32:], b[:])
	return blake3.Sum256(buf)
}
