// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pox

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/zkrpc/internal/kernel"
	"github.com/luxfi/zkrpc/internal/model"
	"github.com/luxfi/zkrpc/internal/zkhook"
)

const (
	coordExp = 3
	rsprExp  = 4
)

func scaled(v int64, exp int) *big.Int {
	e := big.NewInt(1)
	ten := big.NewInt(10)
	for i := 0; i < exp; i++ {
		e.Mul(e, ten)
	}
	return new(big.Int).Mul(big.NewInt(v), e)
}

func scenarioTerminals() []model.Terminal {
	type tp struct {
		addr    string
		x, y    int64
		rsprDec int64
	}
	raw := []tp{
		{"0x1", 0, 0, -70},
		{"0x2", -1, 0, -80},
		{"0x3", 0, 2, -40},
		{"0x4", 3, 0, -60},
		{"0x5", 0, -4, -50},
	}
	out := make([]model.Terminal, len(raw))
	for i, r := range raw {
		out[i] = model.Terminal{
			Address:  r.addr,
			Position: kernel.Pos2D{X: scaled(r.x, coordExp), Y: scaled(r.y, coordExp)},
			Alpha:    model.Alpha{Rspr: scaled(r.rsprDec, rsprExp)},
		}
	}
	return out
}

func TestScenarioA_QuadraticKernel(t *testing.T) {
	remote := model.Remote{Address: "sat-a", Terminals: scenarioTerminals()}
	q := kernel.NewQuadratic(scaled(25, 2*coordExp))
	penalty := kernel.NewLinearPenalty(scaled(20, rsprExp))
	cfg := Config{
		Kernel:      q,
		Penalty:     penalty,
		PodMaxValue: scaled(-100, rsprExp),
	}
	px := New(remote, zkhook.NewStubProver(), cfg, nil)
	res, err := px.EvalPoD(context.Background())
	require.NoError(t, err)

	wantWeights := []int64{123158, 30233, 0, 183871, 100000}
	wantValues := []int64{-623157, -630232, -614102, -616129, -600000}
	require.Len(t, res.TerminalResults, 5)
	for i, r := range res.TerminalResults {
		assert.Equal(t, wantWeights[i], r.Weight.Int64(), "weight[%d]", i)
		assert.Equal(t, wantValues[i], r.Value.Int64(), "value[%d]", i)
	}
	assert.Equal(t, int64(384606), res.Score.Int64())
}

func TestScenarioB_GaussianTaylorKernel(t *testing.T) {
	remote := model.Remote{Address: "sat-b", Terminals: scenarioTerminals()}
	g, err := kernel.NewGaussianTaylor(scaled(2, coordExp), 1, big.NewRat(2, 1))
	require.NoError(t, err)
	penalty := kernel.NewLinearPenalty(scaled(20, rsprExp))
	cfg := Config{
		Kernel:      g,
		Penalty:     penalty,
		PodMaxValue: scaled(-100, rsprExp),
	}
	px := New(remote, zkhook.NewStubProver(), cfg, nil)
	res, err := px.EvalPoD(context.Background())
	require.NoError(t, err)

	wantWeights := []int64{173685, 94445, 40000, 200000, 200000}
	wantValues := []int64{-673684, -694444, -560000, -600000, -500000}
	for i, r := range res.TerminalResults {
		assert.Equal(t, wantWeights[i], r.Weight.Int64(), "weight[%d]", i)
		assert.Equal(t, wantValues[i], r.Value.Int64(), "value[%d]", i)
	}
	assert.Equal(t, int64(399834), res.Score.Int64())
}

func packet(s string) model.Packet { return model.Packet{Data: []byte(s)} }
func pp(s string) *model.Packet    { p := packet(s); return &p }

func TestScenarioC_PoFAccounting(t *testing.T) {
	remotePackets := &model.CompletePackets{Data: []model.Packet{packet("1"), packet("2"), packet("3"), packet("4")}}
	terminals := []model.Terminal{
		{Address: "0x1", TerminalPackets: &model.Packets{Data: []*model.Packet{pp("1"), nil, pp("3"), nil}}},
		{Address: "0x2", TerminalPackets: &model.Packets{Data: []*model.Packet{nil, pp("2"), nil, pp("4")}}},
		{Address: "0x3", TerminalPackets: &model.Packets{Data: []*model.Packet{pp("1"), pp("2"), pp("3"), pp("4")}}},
		{Address: "0x4", TerminalPackets: &model.Packets{Data: []*model.Packet{nil, nil, nil, nil}}},
		{Address: "0x5", TerminalPackets: nil},
	}
	remote := model.Remote{Address: "sat-c", Terminals: terminals, RemotePackets: remotePackets}
	cfg := Config{Kernel: kernel.NewQuadratic(big.NewInt(0)), Penalty: kernel.NewLinearPenalty(big.NewInt(0))}
	px := New(remote, zkhook.NewStubProver(), cfg, nil)

	res, err := px.EvalPoF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, res.Value)

	wantValid := map[string]int{"0x1": 2, "0x2": 2, "0x3": 4, "0x4": 0, "0x5": 0}
	wantInvalid := map[string]int{"0x1": 2, "0x2": 2, "0x3": 0, "0x4": 4, "0x5": 0}
	for _, r := range res.TerminalResults {
		assert.Equal(t, wantValid[r.TerminalAddress], r.ValidPacketsNum, r.TerminalAddress)
		assert.Equal(t, wantInvalid[r.TerminalAddress], r.InvalidPacketsNum, r.TerminalAddress)
	}

	verifications := res.Verify()
	for i, r := range res.TerminalResults {
		if r.TerminalAddress == "0x5" {
			assert.False(t, verifications[i].Success)
			assert.Equal(t, "Empty proof", verifications[i].Reason)
		} else {
			assert.True(t, verifications[i].Success, r.TerminalAddress)
		}
	}
}
