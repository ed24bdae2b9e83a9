// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads the process-wide YAML configuration and resolves
// the environment-selected root directory (spec.md section 6).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LogConfig is the (out-of-core) logging section; only its shape is fixed
// here, per spec.md section 1.
type LogConfig struct {
	Level string `yaml:"level"`
}

// RpcConfig configures the RPC listener and per-call timeout.
type RpcConfig struct {
	RpcPort       int    `yaml:"rpc_port"`
	RpcHost       string `yaml:"rpc_host"`
	ClientHost    string `yaml:"client_host"`
	TimeoutSecs   int    `yaml:"timeout"`
	EnableMeshRpc bool   `yaml:"enable_mesh_rpc"`
}

// DaLayerConfig is the (out-of-core) DA-layer section.
type DaLayerConfig struct {
	Kind string `yaml:"kind"`
}

// GaussianKernelConfig configures the Gaussian-Taylor kernel variant.
type GaussianKernelConfig struct {
	Sigma  float64 `yaml:"sigma"`
	Taylor struct {
		MaxOrder   int     `yaml:"max_order"`
		SigmaRange float64 `yaml:"sigma_range"`
	} `yaml:"taylor"`
}

// QuadraticKernelConfig configures the Quadratic kernel variant.
type QuadraticKernelConfig struct {
	MaxDisSqr float64 `yaml:"max_dis_sqr"`
}

// KernelConfig selects and configures the kernel variant by tag.
type KernelConfig struct {
	KernelType string                `yaml:"kernel_type"` // "GaussianTaylor" | "Quadratic"
	Gaussian   GaussianKernelConfig  `yaml:"gaussian"`
	Quadratic  QuadraticKernelConfig `yaml:"quadratic"`
}

// PenaltyConfig configures the linear penalty.
type PenaltyConfig struct {
	MaxDiff float64 `yaml:"max_diff"`
}

// PoxConfig is the scoring-engine configuration (spec.md section 6).
type PoxConfig struct {
	CoordinatePrecisionBigint int32         `yaml:"coordinate_precision_bigint"`
	RsprPrecisionBigint       int32         `yaml:"rspr_precision_bigint"`
	PodMaxValue               float64       `yaml:"pod_max_value"`
	Kernel                    KernelConfig  `yaml:"kernel"`
	Penalty                   PenaltyConfig `yaml:"penalty"`
	RayonNumThreads           int           `yaml:"rayon_num_threads"`
}

// CompressorConfig configures the serialization envelope's compressors.
type CompressorConfig struct {
	Brotli struct {
		Quality    int `yaml:"quality"`
		LgWin      int `yaml:"lgwin"`
		BufferSize int `yaml:"buffer_size"`
	} `yaml:"brotli"`
	Flate2 struct {
		Level      int    `yaml:"level"`
		Flate2Type string `yaml:"flate2_type"` // "Gzip" | "Zlib" | "Deflate"
	} `yaml:"flate2"`
}

// Config is the top-level YAML document loaded from
// <root>/config/config.yaml (spec.md section 6).
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Rpc        RpcConfig        `yaml:"rpc"`
	DaLayer    DaLayerConfig    `yaml:"da_layer"`
	Pox        PoxConfig        `yaml:"pox"`
	Compressor CompressorConfig `yaml:"compressor"`
}

// Default returns the documented default configuration (spec.md section
// 6, grounded on original_source/config/src/config/pox_config.rs and
// compressor_config.rs defaults).
func Default() Config {
	var c Config
	c.Log.Level = "info"
	c.Rpc = RpcConfig{RpcPort: 15937, RpcHost: "127.0.0.1", ClientHost: "127.0.0.1", TimeoutSecs: 60, EnableMeshRpc: true}
	c.DaLayer = DaLayerConfig{Kind: "memory"}
	c.Pox.CoordinatePrecisionBigint = 3
	c.Pox.RsprPrecisionBigint = 4
	c.Pox.PodMaxValue = -100
	c.Pox.Kernel.KernelType = "Quadratic"
	c.Pox.Kernel.Gaussian.Sigma = 40000
	c.Pox.Kernel.Gaussian.Taylor.MaxOrder = 1
	c.Pox.Kernel.Gaussian.Taylor.SigmaRange = 3.0
	c.Pox.Kernel.Quadratic.MaxDisSqr = 10000
	c.Pox.Penalty.MaxDiff = 10
	c.Pox.RayonNumThreads = 0
	c.Compressor.Brotli.Quality = 11
	c.Compressor.Brotli.LgWin = 20
	c.Compressor.Brotli.BufferSize = 4096
	c.Compressor.Flate2.Level = 9
	c.Compressor.Flate2.Flate2Type = "Zlib"
	return c
}

// RootPath resolves the environment-selected root directory (spec.md
// section 6): ENV=prod -> $HOME/.space, ENV=dev -> $HOME/.space-dev, any
// other value (including unset) -> ../.space-test.
func RootPath() (string, error) {
	switch os.Getenv("ENV") {
	case "prod":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: resolving home directory: %w", err)
		}
		return filepath.Join(home, ".space"), nil
	case "dev":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: resolving home directory: %w", err)
		}
		return filepath.Join(home, ".space-dev"), nil
	default:
		return "../.space-test", nil
	}
}

// Load reads <root>/config/config.yaml, writing out Default() if the file
// is absent (spec.md section 6). Configuration errors at startup are fatal
// by contract (spec.md section 7); Load returns the error for the caller
// to treat as such.
func Load(root string) (Config, error) {
	path := filepath.Join(root, "config", "config.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		def := Default()
		if werr := Save(root, def); werr != nil {
			return Config{}, fmt.Errorf("config: writing default config: %w", werr)
		}
		return def, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return c, nil
}

// Save serializes c to <root>/config/config.yaml, creating the directory
// if necessary.
func Save(root string, c Config) error {
	dir := filepath.Join(root, "config")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: creating %s: %w", dir, err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644)
}
