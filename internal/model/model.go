// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package model defines the Terminal/Remote/Packet entities and the
// Decimal-to-scaled-integer conversion path (spec.md section 3, section
// 4.4).
package model

import (
	"math/big"
	"sort"

	"github.com/luxfi/zkrpc/internal/fixedpoint"
	"github.com/luxfi/zkrpc/internal/kernel"
)

// Pos3D is a position in scaled-integer coordinates with a height
// component (used at the Remote level only; scoring operates on the 2D
// projection).
type Pos3D struct {
	X, Y, Height *big.Int
}

func (p Pos3D) To2D() kernel.Pos2D {
	return kernel.Pos2D{X: p.X, Y: p.Y}
}

// Packet is one forwarded unit.
type Packet struct {
	Data []byte
}

// Packets is the terminal-side view: a nil entry denotes dropped-at-this-
// terminal. Length equals the remote's packet count.
type Packets struct {
	Data []*Packet
}

// CompletePackets is the remote-side ground truth.
type CompletePackets struct {
	Data []Packet
}

// Alpha is the measured per-terminal received-signal-power.
type Alpha struct {
	Rspr *big.Int
}

// TerminalDecimal is a Terminal expressed in the Decimal scalar domain, as
// delivered by the DA-layer collaborator.
type TerminalDecimal struct {
	Address         string
	X, Y            fixedpoint.Decimal
	Rspr            fixedpoint.Decimal
	TerminalPackets *Packets
}

// RemoteDecimal is a Remote expressed in the Decimal scalar domain.
type RemoteDecimal struct {
	Epoch          uint64
	Address        string
	X, Y, Height   fixedpoint.Decimal
	Terminals      []TerminalDecimal
	RemotePackets  *CompletePackets
}

// Terminal is the canonical scaled-integer form used throughout scoring.
type Terminal struct {
	Address         string
	Position        kernel.Pos2D
	Alpha           Alpha
	TerminalPackets *Packets
}

// Remote is the canonical scaled-integer form used throughout scoring.
type Remote struct {
	Epoch         uint64
	Address       string
	Position      Pos3D
	Terminals     []Terminal
	RemotePackets *CompletePackets
}

// ConvertRemote scales a RemoteDecimal into a Remote using coordExp for
// positions and rsprExp for signal-power values (spec.md section 4.4).
// Terminals whose position fails to convert are dropped and logged by the
// caller (the error returned here is per-terminal, non-fatal by contract).
func ConvertRemote(r RemoteDecimal, coordExp, rsprExp int32) (Remote, []error) {
	var warnings []error
	x, err := fixedpoint.FromDecimal(r.X, coordExp)
	if err != nil {
		warnings = append(warnings, err)
		x = big.NewInt(0)
	}
	y, err := fixedpoint.FromDecimal(r.Y, coordExp)
	if err != nil {
		warnings = append(warnings, err)
		y = big.NewInt(0)
	}
	h, err := fixedpoint.FromDecimal(r.Height, coordExp)
	if err != nil {
		warnings = append(warnings, err)
		h = big.NewInt(0)
	}

	out := Remote{
		Epoch:         r.Epoch,
		Address:       r.Address,
		Position:      Pos3D{X: x, Y: y, Height: h},
		RemotePackets: r.RemotePackets,
	}

	for _, td := range r.Terminals {
		tx, err := fixedpoint.FromDecimal(td.X, coordExp)
		if err != nil {
			warnings = append(warnings, err)
			continue // position out of representable range: drop, non-fatal
		}
		ty, err := fixedpoint.FromDecimal(td.Y, coordExp)
		if err != nil {
			warnings = append(warnings, err)
			continue
		}
		rspr, err := fixedpoint.FromDecimal(td.Rspr, rsprExp)
		if err != nil {
			warnings = append(warnings, err)
			continue
		}
		out.Terminals = append(out.Terminals, Terminal{
			Address:         td.Address,
			Position:        kernel.Pos2D{X: tx, Y: ty},
			Alpha:           Alpha{Rspr: rspr},
			TerminalPackets: td.TerminalPackets,
		})
	}

	return out, warnings
}

// DedupAndSort keeps the first terminal for each address, drops later
// terminals with the same address, and sorts the remainder ascending by
// address (spec.md section 3, invariant 1).
func DedupAndSort(terminals []Terminal) []Terminal {
	seen := make(map[string]bool, len(terminals))
	out := make([]Terminal, 0, len(terminals))
	for _, t := range terminals {
		if !seen[t.Address] {
			seen[t.Address] = true
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// MerkleLeaves builds the ordered leaf byte-strings for a CompletePackets
// sequence (hash inputs; hashing itself happens in package merkle).
func (c *CompletePackets) MerkleLeaves() [][]byte {
	out := make([][]byte, len(c.Data))
	for i, p := range c.Data {
		out[i] = p.Data
	}
	return out
}

// MerkleLeaves builds the ordered leaf byte-strings for a terminal's Packets
// sequence; a nil entry (dropped) hashes as the empty byte string.
func (p *Packets) MerkleLeaves() [][]byte {
	out := make([][]byte, len(p.Data))
	for i, pkt := range p.Data {
		if pkt == nil {
			out[i] = nil
		} else {
			out[i] = pkt.Data
		}
	}
	return out
}
