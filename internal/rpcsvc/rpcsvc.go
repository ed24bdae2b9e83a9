// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package rpcsvc implements the two-method RPC surface (spec.md section
// 4.8, section 6): gen_proof wraps a DA-layer fetch and the PoX engine;
// verify_proof replays a previously-issued proof pair. Errors map onto
// google.golang.org/grpc/codes, served here over an HTTP+JSON transport
// (see DESIGN.md for the transport substitution rationale).
package rpcsvc

import (
	"context"
	"encoding/hex"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/luxfi/zkrpc/internal/codec"
	"github.com/luxfi/zkrpc/internal/dalayer"
	"github.com/luxfi/zkrpc/internal/fixedpoint"
	"github.com/luxfi/zkrpc/internal/model"
	"github.com/luxfi/zkrpc/internal/pox"
	"github.com/luxfi/zkrpc/internal/zkhook"

	logpkg "github.com/luxfi/log"
)

// GenProofRequest is the gen_proof wire request (spec.md section 6).
type GenProofRequest struct {
	ProverAddress           string
	RemoteAddress           string
	EpochForProof           uint64
	BlockHeightFromForProof uint64
	BlockHeightToForProof   uint64
}

// TerminalWeight is one entry of gen_proof's terminal_weights sequence.
type TerminalWeight struct {
	Address     string
	AlphaWeight uint64
	BetaWeight  uint64
}

// GenProofResponse is the gen_proof wire response (spec.md section 6).
type GenProofResponse struct {
	AlphaProofMerkleRoot string
	BetaProofMerkleRoot  string
	RemoteAlphaWeight    uint64
	RemoteBetaWeight     uint64
	TerminalWeights      []TerminalWeight
}

// VerifyProofRequest is the verify_proof wire request.
type VerifyProofRequest struct {
	GenProofRequest
	AlphaProofMerkleRoot string
	BetaProofMerkleRoot  string
}

// VerifyProofResponse is the verify_proof wire response.
type VerifyProofResponse struct {
	IsValid bool
}

// Config binds the scoring parameters shared across calls (spec.md section
// 6, the "pox" YAML section) plus the per-call deadline.
type Config struct {
	PoxConfig  pox.Config
	CoordExp   int32
	RsprExp    int32
	Codec      codec.Config
	CodecKind  codec.Kind
	Timeout    time.Duration
}

// Service implements gen_proof/verify_proof.
type Service struct {
	da     dalayer.DaLayer
	prover zkhook.Prover
	cfg    Config
	log    logpkg.Logger
}

// New constructs a Service wired to a DA-layer collaborator and a ZK
// prover.
func New(da dalayer.DaLayer, prover zkhook.Prover, cfg Config, logger logpkg.Logger) *Service {
	return &Service{da: da, prover: prover, cfg: cfg, log: logger}
}

// proofEnvelope is the bincode-equivalent payload carried (compressed,
// hex-encoded) inside *ProofMerkleRoot: the PoD and PoF results needed to
// replay verification.
type proofEnvelope struct {
	PoD pox.PoDRemoteResult
	PoF pox.PoFRemoteResult
}

// GenProof scores the single snapshot the DA layer returns for the requested
// block range and returns the wire response (spec.md section 4.8). It does
// not itself select among snapshots by block height.
func (s *Service) GenProof(ctx context.Context, req GenProofRequest) (GenProofResponse, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	if ctx.Err() != nil {
		return GenProofResponse{}, status.Error(codes.DeadlineExceeded, "gen_proof: deadline exceeded")
	}

	track, err := s.da.FetchRemoteWithTerminalsBlockFromTo(ctx, req.RemoteAddress, req.BlockHeightFromForProof, req.BlockHeightToForProof)
	if err != nil {
		if ctx.Err() != nil {
			return GenProofResponse{}, status.Error(codes.DeadlineExceeded, "gen_proof: deadline exceeded")
		}
		return GenProofResponse{}, status.Errorf(codes.DataLoss, "gen_proof: no snapshot for %s in range [%d,%d]: %v", req.RemoteAddress, req.BlockHeightFromForProof, req.BlockHeightToForProof, err)
	}
	if ctx.Err() != nil {
		return GenProofResponse{}, status.Error(codes.DeadlineExceeded, "gen_proof: deadline exceeded")
	}

	remote, warnings := model.ConvertRemote(track, s.cfg.CoordExp, s.cfg.RsprExp)
	for _, w := range warnings {
		if s.log != nil {
			s.log.Warn("rpcsvc: terminal dropped during conversion", "remote", req.RemoteAddress, "err", w)
		}
	}

	engine := pox.New(remote, s.prover, s.cfg.PoxConfig, s.log)

	podRes, err := engine.EvalPoD(ctx)
	if err != nil {
		return GenProofResponse{}, mapEvalErr(err, "gen_proof: PoD evaluation")
	}
	pofRes, err := engine.EvalPoF(ctx)
	if err != nil {
		return GenProofResponse{}, mapEvalErr(err, "gen_proof: PoF evaluation")
	}

	alphaBlob, err := codec.SerializeCompress(proofEnvelope{PoD: podRes}, s.cfg.CodecKind, s.cfg.Codec)
	if err != nil {
		return GenProofResponse{}, status.Errorf(codes.Internal, "gen_proof: serialize PoD: %v", err)
	}
	betaBlob, err := codec.SerializeCompress(proofEnvelope{PoF: pofRes}, s.cfg.CodecKind, s.cfg.Codec)
	if err != nil {
		return GenProofResponse{}, status.Errorf(codes.Internal, "gen_proof: serialize PoF: %v", err)
	}

	terminalWeights := make([]TerminalWeight, len(podRes.TerminalResults))
	betaByAddr := make(map[string]uint64, len(pofRes.TerminalResults))
	for _, t := range pofRes.TerminalResults {
		betaByAddr[t.TerminalAddress] = uint64(t.ValidPacketsNum + t.InvalidPacketsNum)
	}
	for i, t := range podRes.TerminalResults {
		terminalWeights[i] = TerminalWeight{
			Address:     t.TerminalAddress,
			AlphaWeight: fixedpoint.MagnitudeToUint64(t.Weight),
			BetaWeight:  betaByAddr[t.TerminalAddress],
		}
	}

	return GenProofResponse{
		AlphaProofMerkleRoot: hex.EncodeToString(alphaBlob),
		BetaProofMerkleRoot:  hex.EncodeToString(betaBlob),
		RemoteAlphaWeight:    fixedpoint.MagnitudeToUint64(podRes.Score),
		RemoteBetaWeight:     uint64(pofRes.Value),
		TerminalWeights:      terminalWeights,
	}, nil
}

// VerifyProof decodes the two blobs and replays verification: all PoD
// terminals must verify against the ZK prover and all PoF terminals must
// verify their Merkle comparison proof (spec.md section 4.8).
func (s *Service) VerifyProof(ctx context.Context, req VerifyProofRequest) (VerifyProofResponse, error) {
	_, cancel := s.withDeadline(ctx)
	defer cancel()

	alphaBlob, err := hex.DecodeString(req.AlphaProofMerkleRoot)
	if err != nil {
		return VerifyProofResponse{}, status.Errorf(codes.InvalidArgument, "verify_proof: malformed alpha hex: %v", err)
	}
	betaBlob, err := hex.DecodeString(req.BetaProofMerkleRoot)
	if err != nil {
		return VerifyProofResponse{}, status.Errorf(codes.InvalidArgument, "verify_proof: malformed beta hex: %v", err)
	}

	var alphaEnv, betaEnv proofEnvelope
	if err := codec.DecompressDeserialize(alphaBlob, &alphaEnv, s.cfg.Codec); err != nil {
		return VerifyProofResponse{}, status.Errorf(codes.InvalidArgument, "verify_proof: deserialize alpha blob: %v", err)
	}
	if err := codec.DecompressDeserialize(betaBlob, &betaEnv, s.cfg.Codec); err != nil {
		return VerifyProofResponse{}, status.Errorf(codes.InvalidArgument, "verify_proof: deserialize beta blob: %v", err)
	}

	podOK := alphaEnv.PoD.Verify(s.prover)
	pofOK := pox.AllSucceeded(betaEnv.PoF.Verify())

	return VerifyProofResponse{IsValid: podOK && pofOK}, nil
}

// withDeadline applies the configured per-call deadline (spec.md section
// 5, section 8 scenario E). A zero Timeout yields an already-expired
// deadline, matching the literal "scoring deadline of 0s" scenario.
func (s *Service) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.Timeout)
}

func mapEvalErr(err error, what string) error {
	return status.Errorf(codes.Internal, "%s: %v", what, err)
}
