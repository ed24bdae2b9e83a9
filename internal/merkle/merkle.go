// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package merkle implements hash-tree build, compare and delta-proof for
// dropped-packet sets (spec.md section 4.3). The tree is a binary Merkle
// tree with duplicate-last-leaf padding, SHA-256 over raw leaf bytes.
package merkle

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"sort"
)

var (
	ErrEmpty = errors.New("merkle: cannot build a tree from zero leaves")
)

// EmptyLeafHash is the leaf hash used for a dropped (None) packet.
var EmptyLeafHash = sha256.Sum256(nil)

func hashLeaf(data []byte) [32]byte {
	return sha256.Sum256(data)
}

func hashPair(a, b [32]byte) [32]byte {
	buf := make([]byte, 64)
	copy(buf[:32], a[:])
	copy(buf[32:], b[:])
	return sha256.Sum256(buf)
}

// Tree is a binary Merkle tree over leaf hashes, padded by duplicating the
// last leaf at every level with an odd node count.
type Tree struct {
	leaves [][32]byte
	layers [][][32]byte
}

// New builds a tree from raw leaf byte-strings (a nil entry denotes an empty
// leaf, hashed as sha256 of the empty string).
func New(leafData [][]byte) (*Tree, error) {
	if len(leafData) == 0 {
		return nil, ErrEmpty
	}
	leaves := make([][32]byte, len(leafData))
	for i, d := range leafData {
		leaves[i] = hashLeaf(d)
	}
	return newFromHashes(leaves)
}

func newFromHashes(leaves [][32]byte) (*Tree, error) {
	return newFromHashesWith(leaves, hashPair)
}

func newFromHashesWith(leaves [][32]byte, pairHash func(a, b [32]byte) [32]byte) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmpty
	}
	t := &Tree{leaves: leaves}
	t.layers = append(t.layers, leaves)
	cur := leaves
	for len(cur) > 1 {
		var next [][32]byte
		for i := 0; i < len(cur); i += 2 {
			if i+1 < len(cur) {
				next = append(next, pairHash(cur[i], cur[i+1]))
			} else {
				next = append(next, pairHash(cur[i], cur[i])) // duplicate-last-leaf padding
			}
		}
		t.layers = append(t.layers, next)
		cur = next
	}
	return t, nil
}

// Root returns the tree's root hash.
func (t *Tree) Root() [32]byte {
	top := t.layers[len(t.layers)-1]
	return top[0]
}

// NumLeaves returns the number of leaves the tree was built from.
func (t *Tree) NumLeaves() int {
	return len(t.leaves)
}

// Compare returns the ordered list of leaf indices where ref and other differ
// (spec.md section 4.3). Both trees must have the same leaf count.
func Compare(ref, other *Tree) []int {
	var indices []int
	n := ref.NumLeaves()
	if other.NumLeaves() < n {
		n = other.NumLeaves()
	}
	for i := 0; i < n; i++ {
		if ref.leaves[i] != other.leaves[i] {
			indices = append(indices, i)
		}
	}
	return indices
}

// MultiProof carries the minimal set of internal-node hashes needed to
// jointly reconstruct a tree's root from a known subset of its leaves
// (spec.md section 4.3, section 9). Unlike independent per-leaf paths, two
// proven leaves that share an ancestor reuse each other's hash instead of
// each separately supplying that ancestor's sibling, so the same proof
// replays correctly against any tree whose leaves agree with the supplied
// ones at every other position — in particular a tree with substituted
// (dropped) leaves at the proven indices, which is exactly what
// ComparisonProof needs to verify against both RefRoot and DroppedRoot.
type MultiProof struct {
	Indices []int
	helpers [][32]byte
}

// BuildMultiProof constructs a MultiProof for the given leaf indices.
func (t *Tree) BuildMultiProof(indices []int) *MultiProof {
	sorted := append([]int(nil), indices...)
	sort.Ints(sorted)

	known := make(map[int][32]byte, len(sorted))
	for _, idx := range sorted {
		known[idx] = t.leaves[idx]
	}

	var helpers [][32]byte
	for level := 0; level < len(t.layers)-1; level++ {
		known, helpers = climbBuild(known, t.layers[level], helpers)
	}
	return &MultiProof{Indices: sorted, helpers: helpers}
}

// VerifyAgainstRoot replays the proof, reconstructing shared internal nodes
// from leafValues (keyed by the same indices the proof was built with) and
// the proof's helper hashes, then compares the result to root. total is the
// leaf count of the tree the proof was built from.
func (p *MultiProof) VerifyAgainstRoot(total int, leafValues map[int][32]byte, root [32]byte) bool {
	lens := layerLens(total)
	known := leafValues
	helpers := p.helpers
	for level := 0; level < len(lens)-1; level++ {
		var ok bool
		known, helpers, ok = climbVerify(known, lens[level], helpers)
		if !ok {
			return false
		}
	}
	if len(helpers) != 0 || len(known) != 1 {
		return false
	}
	v, ok := known[0]
	return ok && v == root
}

// climbBuild combines known nodes at one layer into their parents, reading
// any hash not already known directly from the tree's layer and recording
// it as a helper.
func climbBuild(known map[int][32]byte, layer [][32]byte, helpers [][32]byte) (map[int][32]byte, [][32]byte) {
	next := make(map[int][32]byte, len(known))
	for _, p := range neededParents(known) {
		left, right := children(p, len(layer))
		lv, lok := known[left]
		rv, rok := known[right]
		if !lok {
			lv = layer[left]
			helpers = append(helpers, lv)
		}
		if right == left {
			rv = lv
		} else if !rok {
			rv = layer[right]
			helpers = append(helpers, rv)
		}
		next[p] = hashPair(lv, rv)
	}
	return next, helpers
}

// climbVerify mirrors climbBuild, but pulls missing hashes from the proof's
// helper list instead of a live tree layer, consuming it in the same order
// the builder produced it.
func climbVerify(known map[int][32]byte, layerLen int, helpers [][32]byte) (map[int][32]byte, [][32]byte, bool) {
	next := make(map[int][32]byte, len(known))
	for _, p := range neededParents(known) {
		left, right := children(p, layerLen)
		lv, lok := known[left]
		rv, rok := known[right]
		if !lok {
			if len(helpers) == 0 {
				return nil, nil, false
			}
			lv, helpers = helpers[0], helpers[1:]
		}
		if right == left {
			rv = lv
		} else if !rok {
			if len(helpers) == 0 {
				return nil, nil, false
			}
			rv, helpers = helpers[0], helpers[1:]
		}
		next[p] = hashPair(lv, rv)
	}
	return next, helpers, true
}

// neededParents returns, in ascending order, the distinct parent positions
// of every position in known.
func neededParents(known map[int][32]byte) []int {
	seen := make(map[int]bool, len(known))
	var parents []int
	for idx := range known {
		p := idx / 2
		if !seen[p] {
			seen[p] = true
			parents = append(parents, p)
		}
	}
	sort.Ints(parents)
	return parents
}

// children returns p's child positions in a layer of length layerLen,
// collapsing to a single duplicated child when p is the last, unpaired node.
func children(p, layerLen int) (left, right int) {
	left = 2 * p
	right = 2*p + 1
	if right >= layerLen {
		right = left
	}
	return left, right
}

// layerLens returns the node count of every layer from the leaves (total)
// up to and including the root.
func layerLens(total int) []int {
	lens := []int{total}
	for lens[len(lens)-1] > 1 {
		lens = append(lens, (lens[len(lens)-1]+1)/2)
	}
	return lens
}

// Serialize encodes the proof as a flat byte blob: indexCount(4) | indices
// (4 bytes each) | helperCount(4) | helpers (32 bytes each).
func (p *MultiProof) Serialize() []byte {
	var buf bytes.Buffer
	putU32(&buf, uint32(len(p.Indices)))
	for _, idx := range p.Indices {
		putU32(&buf, uint32(idx))
	}
	putU32(&buf, uint32(len(p.helpers)))
	for _, h := range p.helpers {
		buf.Write(h[:])
	}
	return buf.Bytes()
}

// DeserializeMultiProof parses a proof blob produced by Serialize.
func DeserializeMultiProof(data []byte) (*MultiProof, error) {
	r := bytes.NewReader(data)
	n, err := getU32(r)
	if err != nil {
		return nil, err
	}
	p := &MultiProof{}
	for i := uint32(0); i < n; i++ {
		idx, err := getU32(r)
		if err != nil {
			return nil, err
		}
		p.Indices = append(p.Indices, int(idx))
	}
	hn, err := getU32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < hn; i++ {
		var h [32]byte
		if _, err := r.Read(h[:]); err != nil {
			return nil, err
		}
		p.helpers = append(p.helpers, h)
	}
	return p, nil
}

func putU32(buf *bytes.Buffer, v uint32) {
	buf.WriteByte(byte(v >> 24))
	buf.WriteByte(byte(v >> 16))
	buf.WriteByte(byte(v >> 8))
	buf.WriteByte(byte(v))
}

func getU32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}
