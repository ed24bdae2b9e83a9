// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pox implements the PoX engine: pairwise coefficient computation,
// weighted aggregation, PoD/PoF assembly and parallel execution
// (spec.md section 4.5).
package pox

import (
	"context"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	logpkg "github.com/luxfi/log"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/zkrpc/internal/fixedpoint"
	"github.com/luxfi/zkrpc/internal/kernel"
	"github.com/luxfi/zkrpc/internal/merkle"
	"github.com/luxfi/zkrpc/internal/model"
	"github.com/luxfi/zkrpc/internal/util"
	"github.com/luxfi/zkrpc/internal/zkhook"
)

// Config holds the per-construction parameters the engine needs: the kernel
// and penalty variants, the PoD offset, and the worker-pool size.
type Config struct {
	Kernel      kernel.Kernel
	Penalty     kernel.Penalty
	PodMaxValue *big.Int // e.g. -100 in rspr_exp units
	WorkerCount int       // 0 = library default (errgroup unlimited)
}

// PoX is the scoring engine for a single Remote snapshot.
type PoX struct {
	terminals     []model.Terminal
	remotePackets *model.CompletePackets
	prover        zkhook.Prover
	cfg           Config
	log           logpkg.Logger
}

// New deduplicates terminals by address and sorts them (spec.md section 3
// invariant 1, section 4.5 "Construction").
func New(remote model.Remote, prover zkhook.Prover, cfg Config, logger logpkg.Logger) *PoX {
	deduped := model.DedupAndSort(remote.Terminals)
	if logger != nil && len(deduped) != len(remote.Terminals) {
		logger.Debug("pox: removed duplicate terminals", "remote", util.AddressBrief(remote.Address), "before", len(remote.Terminals), "after", len(deduped))
	}
	return &PoX{
		terminals:     deduped,
		remotePackets: remote.RemotePackets,
		prover:        prover,
		cfg:           cfg,
		log:           logger,
	}
}

// PoDTerminalResult is the per-terminal PoD output (spec.md section 4.5).
type PoDTerminalResult struct {
	TerminalAddress string
	Weight          *big.Int
	Value           *big.Int
	Public          []byte
	Proof           []byte
}

// PoDRemoteResult aggregates PoD over a Remote's terminals.
type PoDRemoteResult struct {
	Score           *big.Int
	TerminalResults []PoDTerminalResult
}

// EvalPoD runs the PoD (distance) evaluation over all terminal pairs.
// Pair evaluation is parallel across terminals i; reduction happens after
// all goroutines complete, in the deterministic sorted-address order
// established by New, so output never depends on goroutine scheduling
// (spec.md section 5, testable property 1).
func (p *PoX) EvalPoD(ctx context.Context) (PoDRemoteResult, error) {
	n := len(p.terminals)
	results := make([]PoDTerminalResult, n)

	g, gctx := errgroup.WithContext(ctx)
	if p.cfg.WorkerCount > 0 {
		g.SetLimit(p.cfg.WorkerCount)
	}

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = p.evalPoDTerminal(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return PoDRemoteResult{}, fmt.Errorf("pox: PoD evaluation: %w", err)
	}

	totalWeight := big.NewInt(0)
	totalValue := big.NewInt(0)
	for _, r := range results {
		totalWeight.Add(totalWeight, r.Weight)
		totalValue.Add(totalValue, new(big.Int).Mul(r.Weight, r.Value))
	}

	score := big.NewInt(0)
	if totalWeight.Sign() != 0 {
		ratio := new(big.Rat).SetFrac(totalValue, totalWeight)
		val := fixedpoint.TruncRatToInt(ratio)
		score = new(big.Int).Sub(val, p.cfg.PodMaxValue)
		if score.Sign() < 0 {
			score = big.NewInt(0)
		}
	}

	return PoDRemoteResult{Score: score, TerminalResults: results}, nil
}

// evalPoDTerminal computes terminal i's weight/value/proof. Errors (ZK
// prover failure, overflow) degrade to a zero-weight result with a warning
// log rather than aborting the batch (spec.md section 4.5, section 7).
func (p *PoX) evalPoDTerminal(i int) PoDTerminalResult {
	n := len(p.terminals)
	ti := p.terminals[i]
	W := big.NewInt(0)
	V := big.NewInt(0)
	var coefs, xs []fr.Element

	for j := 0; j < n; j++ {
		tj := p.terminals[j]
		c := p.cfg.Kernel.Numer(ti.Position, tj.Position)
		if c.Sign() == 0 {
			continue
		}
		W.Add(W, c)
		V.Add(V, new(big.Int).Mul(c, tj.Alpha.Rspr))
		coefs = append(coefs, fixedpoint.ToFieldElement(c))
		xs = append(xs, fixedpoint.ToFieldElement(tj.Alpha.Rspr))
	}

	if W.Sign() == 0 {
		return PoDTerminalResult{TerminalAddress: ti.Address, Weight: big.NewInt(0), Value: big.NewInt(0)}
	}

	ratio := new(big.Rat).SetFrac(V, W)
	value := fixedpoint.TruncRatToInt(ratio)

	diffNum := new(big.Int).Sub(new(big.Int).Mul(W, ti.Alpha.Rspr), V)
	diffNum.Abs(diffNum)
	diffRat := new(big.Rat).SetFrac(diffNum, W)
	diff := fixedpoint.TruncRatToInt(diffRat)
	weight := p.cfg.Penalty.Eval(diff)

	if p.log != nil {
		p.log.Debug("pox: terminal coefficients", "terminal", util.AddressBrief(ti.Address), "weight", weight.String(), "value", value.String(), "diff", diff.String())
	}

	public, proof, err := p.prover.GenProof(coefs, xs)
	if err != nil {
		if p.log != nil {
			p.log.Warn("pox: ZK proof generation failed, emitting zero-weight result", "terminal", ti.Address, "err", err)
		}
		return PoDTerminalResult{TerminalAddress: ti.Address, Weight: big.NewInt(0), Value: big.NewInt(0)}
	}

	return PoDTerminalResult{TerminalAddress: ti.Address, Weight: weight, Value: value, Public: public, Proof: proof}
}

// Verify calls the prover's VerifyProof for every terminal that carries a
// proof (terminals with zero weight and no proof are trivially consistent).
// Succeeds only if every per-terminal verification succeeds (spec.md
// section 4.5, section 4.8).
func (r PoDRemoteResult) Verify(prover zkhook.Prover) bool {
	for _, t := range r.TerminalResults {
		if t.Public == nil {
			continue
		}
		ok, err := prover.VerifyProof(t.Public, t.Proof)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// PoFTerminalResult is the per-terminal PoF output (spec.md section 4.5).
type PoFTerminalResult struct {
	TerminalAddress   string
	ValidPacketsNum   int
	InvalidPacketsNum int
	Proof             merkle.ComparisonProof
}

// PoFRemoteResult aggregates PoF over a Remote's terminals.
type PoFRemoteResult struct {
	Value           int
	TerminalResults []PoFTerminalResult
}

// PoFVerify is the verification outcome for one terminal's PoF proof.
type PoFVerify struct {
	Success bool
	Reason  string
}

// EvalPoF runs the PoF (forwarding) evaluation via Merkle comparison
// against the remote's complete packet sequence.
func (p *PoX) EvalPoF(ctx context.Context) (PoFRemoteResult, error) {
	if p.remotePackets == nil {
		return PoFRemoteResult{}, nil
	}
	refTree, err := merkle.New(p.remotePackets.MerkleLeaves())
	if err != nil {
		return PoFRemoteResult{}, fmt.Errorf("pox: reference packet tree: %w", err)
	}

	n := len(p.terminals)
	results := make([]PoFTerminalResult, n)

	g, gctx := errgroup.WithContext(ctx)
	if p.cfg.WorkerCount > 0 {
		g.SetLimit(p.cfg.WorkerCount)
	}
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = p.evalPoFTerminal(refTree, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return PoFRemoteResult{}, fmt.Errorf("pox: PoF evaluation: %w", err)
	}

	value := 0
	for _, r := range results {
		value += r.ValidPacketsNum
	}
	return PoFRemoteResult{Value: value, TerminalResults: results}, nil
}

func (p *PoX) evalPoFTerminal(refTree *merkle.Tree, i int) PoFTerminalResult {
	t := p.terminals[i]
	if t.TerminalPackets == nil {
		return PoFTerminalResult{TerminalAddress: t.Address, Proof: merkle.Empty()}
	}
	droppedTree, err := merkle.New(t.TerminalPackets.MerkleLeaves())
	if err != nil {
		if p.log != nil {
			p.log.Warn("pox: could not build dropped-packet tree, emitting empty result", "terminal", t.Address, "err", err)
		}
		return PoFTerminalResult{TerminalAddress: t.Address, Proof: merkle.Empty()}
	}
	proof, err := merkle.ComparisonProofWithDroppingDifference(refTree, droppedTree)
	if err != nil {
		if p.log != nil {
			p.log.Warn("pox: comparison proof construction failed, emitting empty result", "terminal", t.Address, "err", err)
		}
		return PoFTerminalResult{TerminalAddress: t.Address, Proof: merkle.Empty()}
	}
	invalid := len(proof.Indices)
	valid := proof.TotalLeaves - invalid
	return PoFTerminalResult{
		TerminalAddress:   t.Address,
		ValidPacketsNum:   valid,
		InvalidPacketsNum: invalid,
		Proof:             proof,
	}
}

// Verify replays every terminal's Merkle comparison proof.
func (r PoFRemoteResult) Verify() []PoFVerify {
	out := make([]PoFVerify, len(r.TerminalResults))
	for i, t := range r.TerminalResults {
		_, _, ok := t.Proof.Verify()
		if ok {
			out[i] = PoFVerify{Success: true}
		} else {
			out[i] = PoFVerify{Success: false, Reason: "Empty proof"}
		}
	}
	return out
}

// AllSucceeded reports whether every PoF verification succeeded.
func AllSucceeded(verifications []PoFVerify) bool {
	for _, v := range verifications {
		if !v.Success {
			return false
		}
	}
	return true
}
