// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command zkrpcd wires configuration, the DA-layer collaborator, the ZK
// prover and the RPC service together and serves the gen_proof/verify_proof
// surface over HTTP+JSON (spec.md section 6, section 4.8).
package main

import (
	"fmt"
	"math/big"
	"net/http"
	"os"
	"time"

	log "github.com/luxfi/log"

	"github.com/luxfi/zkrpc/internal/codec"
	"github.com/luxfi/zkrpc/internal/config"
	"github.com/luxfi/zkrpc/internal/dalayer"
	"github.com/luxfi/zkrpc/internal/kernel"
	"github.com/luxfi/zkrpc/internal/pox"
	"github.com/luxfi/zkrpc/internal/rpcsvc"
	"github.com/luxfi/zkrpc/internal/zkhook"
)

func main() {
	logger := log.NewTestLogger(log.InfoLevel)

	root, err := config.RootPath()
	if err != nil {
		logger.Error("zkrpcd: resolving root path", "err", err)
		os.Exit(1)
	}

	cfg, err := config.Load(root)
	if err != nil {
		logger.Error("zkrpcd: loading config", "root", root, "err", err)
		os.Exit(1)
	}

	da := dalayer.NewMemoryDaLayer()
	prover := zkhook.NewStubProver()

	rpcCfg, err := buildRpcConfig(cfg)
	if err != nil {
		logger.Error("zkrpcd: building rpc config", "err", err)
		os.Exit(1)
	}

	svc := rpcsvc.New(da, prover, rpcCfg, logger)
	handler := rpcsvc.NewHandler(svc)

	addr := fmt.Sprintf("%s:%d", cfg.Rpc.RpcHost, cfg.Rpc.RpcPort)
	logger.Info("zkrpcd: listening", "addr", addr, "root", root)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("zkrpcd: server exited", "err", err)
		os.Exit(1)
	}
}

// buildRpcConfig translates the YAML pox/compressor sections into the
// engine's scaled-integer Config (spec.md section 4.2, section 4.7).
func buildRpcConfig(cfg config.Config) (rpcsvc.Config, error) {
	coordExp := cfg.Pox.CoordinatePrecisionBigint
	rsprExp := cfg.Pox.RsprPrecisionBigint

	var ker kernel.Kernel
	switch cfg.Pox.Kernel.KernelType {
	case "GaussianTaylor":
		sigma := floatToScaled(cfg.Pox.Kernel.Gaussian.Sigma, coordExp)
		gaussian, err := kernel.NewGaussianTaylor(sigma, cfg.Pox.Kernel.Gaussian.Taylor.MaxOrder, big.NewRat(int64(cfg.Pox.Kernel.Gaussian.Taylor.SigmaRange*1000), 1000))
		if err != nil {
			return rpcsvc.Config{}, fmt.Errorf("zkrpcd: building gaussian kernel: %w", err)
		}
		ker = gaussian
	default:
		maxDisSqr := floatToScaled(cfg.Pox.Kernel.Quadratic.MaxDisSqr, 2*coordExp)
		ker = kernel.NewQuadratic(maxDisSqr)
	}
	penalty := kernel.NewLinearPenalty(floatToScaled(cfg.Pox.Penalty.MaxDiff, rsprExp))
	podMaxValue := floatToScaled(cfg.Pox.PodMaxValue, rsprExp)

	flate2Type := codec.Flate2Zlib
	switch cfg.Compressor.Flate2.Flate2Type {
	case "Gzip":
		flate2Type = codec.Flate2Gzip
	case "Deflate":
		flate2Type = codec.Flate2Deflate
	}

	return rpcsvc.Config{
		PoxConfig: pox.Config{
			Kernel:      ker,
			Penalty:     penalty,
			PodMaxValue: podMaxValue,
			WorkerCount: cfg.Pox.RayonNumThreads,
		},
		CoordExp: coordExp,
		RsprExp:  rsprExp,
		Codec: codec.Config{
			Brotli: codec.BrotliConfig{
				Quality:    cfg.Compressor.Brotli.Quality,
				LgWin:      cfg.Compressor.Brotli.LgWin,
				BufferSize: cfg.Compressor.Brotli.BufferSize,
			},
			Flate2: codec.Flate2Config{
				Level:      cfg.Compressor.Flate2.Level,
				Flate2Type: flate2Type,
			},
		},
		CodecKind: codec.Flate2,
		Timeout:   time.Duration(cfg.Rpc.TimeoutSecs) * time.Second,
	}, nil
}

func floatToScaled(v float64, exp int32) *big.Int {
	scale := new(big.Float).SetFloat64(v)
	scale.Mul(scale, new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)))
	out, _ := scale.Int(nil)
	return out
}
