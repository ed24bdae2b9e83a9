// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDedupAndSort(t *testing.T) {
	ts := []Terminal{
		{Address: "0x3"},
		{Address: "0x1"},
		{Address: "0x2"},
		{Address: "0x1"}, // duplicate, dropped
	}
	out := DedupAndSort(ts)
	assert.Len(t, out, 3)
	assert.Equal(t, "0x1", out[0].Address)
	assert.Equal(t, "0x2", out[1].Address)
	assert.Equal(t, "0x3", out[2].Address)
}

func TestConvertRemoteScalesCoordinatesAndRspr(t *testing.T) {
	r := RemoteDecimal{
		Address: "sat-1",
		X:       decimal.NewFromInt(0),
		Y:       decimal.NewFromInt(0),
		Height:  decimal.NewFromInt(0),
		Terminals: []TerminalDecimal{
			{Address: "0x1", X: decimal.NewFromInt(0), Y: decimal.NewFromInt(0), Rspr: decimal.NewFromInt(-70)},
		},
	}
	out, warnings := ConvertRemote(r, 3, 4)
	assert.Empty(t, warnings)
	assert.Len(t, out.Terminals, 1)
	assert.Equal(t, int64(-700000), out.Terminals[0].Alpha.Rspr.Int64())
}
