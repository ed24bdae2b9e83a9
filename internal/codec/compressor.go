// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package codec implements the serialization envelope: a canonical binary
// codec plus a pluggable compressor tagged by a one-byte kind prefix
// (spec.md section 4.7).
package codec

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Kind is the one-byte compressor tag prefixed to every wire blob.
type Kind byte

const (
	Raw    Kind = 0
	Brotli Kind = 1 // see DESIGN.md: implemented via zstd, tag byte preserved
	Flate2 Kind = 2
)

func (k Kind) String() string {
	switch k {
	case Raw:
		return "Raw"
	case Brotli:
		return "Brotli"
	case Flate2:
		return "Flate2"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Flate2Type selects the concrete stdlib deflate-family writer.
type Flate2Type int

const (
	Flate2Gzip Flate2Type = iota
	Flate2Zlib
	Flate2Deflate
)

// BrotliConfig configures the tag-1 compressor (see BrotliCompressor: backed
// by zstd, not a literal Brotli implementation).
type BrotliConfig struct {
	Quality    int // mapped onto zstd's encoder level
	LgWin      int // unused by the zstd substitute, kept for config-shape parity
	BufferSize int
}

// Flate2Config configures the tag-2 compressor.
type Flate2Config struct {
	Level      int
	Flate2Type Flate2Type
}

// Compressor is the pluggable compression contract (spec.md section 4.7).
type Compressor interface {
	Kind() Kind
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// RawCompressor is a no-op pass-through.
type RawCompressor struct{}

func (RawCompressor) Kind() Kind                          { return Raw }
func (RawCompressor) Compress(data []byte) ([]byte, error)   { return data, nil }
func (RawCompressor) Decompress(data []byte) ([]byte, error) { return data, nil }

// BrotliCompressor is tag 1, backed by zstd (see DESIGN.md substitution
// note); klauspost/compress ships no Brotli encoder, so the "high-ratio"
// slot is filled with zstd while the wire tag byte is preserved exactly.
type BrotliCompressor struct {
	cfg BrotliConfig
}

func NewBrotliCompressor(cfg BrotliConfig) *BrotliCompressor { return &BrotliCompressor{cfg: cfg} }

func (c *BrotliCompressor) Kind() Kind { return Brotli }

func (c *BrotliCompressor) level() zstd.EncoderLevel {
	switch {
	case c.cfg.Quality >= 10:
		return zstd.SpeedBestCompression
	case c.cfg.Quality >= 5:
		return zstd.SpeedDefault
	default:
		return zstd.SpeedFastest
	}
}

func (c *BrotliCompressor) Compress(data []byte) ([]byte, error) {
	w, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(c.level()))
	if err != nil {
		return nil, fmt.Errorf("codec: brotli(zstd) encoder: %w", err)
	}
	defer w.Close()
	return w.EncodeAll(data, make([]byte, 0, len(data))), nil
}

func (c *BrotliCompressor) Decompress(data []byte) ([]byte, error) {
	r, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("codec: brotli(zstd) decoder: %w", err)
	}
	defer r.Close()
	return r.DecodeAll(data, nil)
}

// Flate2Compressor is tag 2, one of Gzip/Zlib/Deflate per configuration.
type Flate2Compressor struct {
	cfg Flate2Config
}

func NewFlate2Compressor(cfg Flate2Config) *Flate2Compressor { return &Flate2Compressor{cfg: cfg} }

func (c *Flate2Compressor) Kind() Kind { return Flate2 }

func (c *Flate2Compressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error
	switch c.cfg.Flate2Type {
	case Flate2Gzip:
		w, err = gzip.NewWriterLevel(&buf, c.cfg.Level)
	case Flate2Zlib:
		w, err = zlib.NewWriterLevel(&buf, c.cfg.Level)
	default:
		w, err = flate.NewWriter(&buf, c.cfg.Level)
	}
	if err != nil {
		return nil, fmt.Errorf("codec: flate2 encoder: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("codec: flate2 write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("codec: flate2 close: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Flate2Compressor) Decompress(data []byte) ([]byte, error) {
	var r io.ReadCloser
	var err error
	switch c.cfg.Flate2Type {
	case Flate2Gzip:
		r, err = gzip.NewReader(bytes.NewReader(data))
	case Flate2Zlib:
		r, err = zlib.NewReader(bytes.NewReader(data))
	default:
		r = flate.NewReader(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("codec: flate2 decoder: %w", err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

// ForKind returns the Compressor implementation for a given wire tag.
func ForKind(k Kind, brotli BrotliConfig, flate2 Flate2Config) (Compressor, error) {
	switch k {
	case Raw:
		return RawCompressor{}, nil
	case Brotli:
		return NewBrotliCompressor(brotli), nil
	case Flate2:
		return NewFlate2Compressor(flate2), nil
	default:
		return nil, fmt.Errorf("codec: unknown compressor kind %d", k)
	}
}
