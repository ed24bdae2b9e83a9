// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpcsvc

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/luxfi/zkrpc/internal/codec"
	"github.com/luxfi/zkrpc/internal/dalayer"
	"github.com/luxfi/zkrpc/internal/fixedpoint"
	"github.com/luxfi/zkrpc/internal/kernel"
	"github.com/luxfi/zkrpc/internal/model"
	"github.com/luxfi/zkrpc/internal/pox"
	"github.com/luxfi/zkrpc/internal/zkhook"

	"math/big"
)

func dec(s string) fixedpoint.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seededDaLayer() *dalayer.MemoryDaLayer {
	da := dalayer.NewMemoryDaLayer()
	da.Seed("sat-a", model.RemoteDecimal{
		Epoch:   1,
		Address: "sat-a",
		Terminals: []model.TerminalDecimal{
			{Address: "0x1", X: dec("0"), Y: dec("0"), Rspr: dec("-70")},
			{Address: "0x2", X: dec("-1"), Y: dec("0"), Rspr: dec("-80")},
		},
	})
	return da
}

func testConfig(timeout time.Duration) Config {
	return Config{
		PoxConfig: pox.Config{
			Kernel:      kernel.NewQuadratic(big.NewInt(25000000)),
			Penalty:     kernel.NewLinearPenalty(big.NewInt(200000)),
			PodMaxValue: big.NewInt(-1000000),
		},
		CoordExp:  3,
		RsprExp:   4,
		Codec:     codec.Config{Flate2: codec.Flate2Config{Level: 6, Flate2Type: codec.Flate2Zlib}},
		CodecKind: codec.Raw,
		Timeout:   timeout,
	}
}

func TestGenProofRoundTripsThroughVerifyProof(t *testing.T) {
	svc := New(seededDaLayer(), zkhook.NewStubProver(), testConfig(5*time.Second), nil)
	genResp, err := svc.GenProof(context.Background(), GenProofRequest{RemoteAddress: "sat-a", BlockHeightFromForProof: 1, BlockHeightToForProof: 10})
	require.NoError(t, err)
	assert.Len(t, genResp.TerminalWeights, 2)
	assert.NotEmpty(t, genResp.AlphaProofMerkleRoot)
	assert.NotEmpty(t, genResp.BetaProofMerkleRoot)

	verifyResp, err := svc.VerifyProof(context.Background(), VerifyProofRequest{
		GenProofRequest:      GenProofRequest{RemoteAddress: "sat-a"},
		AlphaProofMerkleRoot: genResp.AlphaProofMerkleRoot,
		BetaProofMerkleRoot:  genResp.BetaProofMerkleRoot,
	})
	require.NoError(t, err)
	assert.True(t, verifyResp.IsValid)
}

func TestGenProofMissingRemoteIsDataLoss(t *testing.T) {
	svc := New(seededDaLayer(), zkhook.NewStubProver(), testConfig(5*time.Second), nil)
	_, err := svc.GenProof(context.Background(), GenProofRequest{RemoteAddress: "does-not-exist"})
	require.Error(t, err)
	assert.Equal(t, codes.DataLoss, status.Code(err))
}

func TestGenProofZeroDeadlineExceeded(t *testing.T) {
	svc := New(seededDaLayer(), zkhook.NewStubProver(), testConfig(0), nil)
	_, err := svc.GenProof(context.Background(), GenProofRequest{RemoteAddress: "sat-a"})
	require.Error(t, err)
	assert.Equal(t, codes.DeadlineExceeded, status.Code(err))
}

func TestVerifyProofMalformedHexIsInvalidArgument(t *testing.T) {
	svc := New(seededDaLayer(), zkhook.NewStubProver(), testConfig(5*time.Second), nil)
	_, err := svc.VerifyProof(context.Background(), VerifyProofRequest{AlphaProofMerkleRoot: "not-hex"})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
