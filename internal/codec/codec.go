// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	cbor "github.com/fxamacker/cbor/v2"
)

// Config recognizes the options named in spec.md section 4.7.
type Config struct {
	Brotli BrotliConfig
	Flate2 Flate2Config
}

var encMode = func() cbor.EncMode {
	// Deterministic (canonical) encoding mode mirrors bincode's fixed-layout
	// guarantee closely enough to preserve the determinism property.
	opts := cbor.CanonicalEncOptions()
	m, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	return m
}()

// SerializeCompress encodes v with the canonical binary codec, compresses
// it with the compressor named by kind, and prepends the one-byte kind tag
// (spec.md section 4.7).
func SerializeCompress(v interface{}, kind Kind, cfg Config) ([]byte, error) {
	raw, err := encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal: %w", err)
	}
	c, err := ForKind(kind, cfg.Brotli, cfg.Flate2)
	if err != nil {
		return nil, err
	}
	compressed, err := c.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("codec: compress: %w", err)
	}
	out := make([]byte, 0, len(compressed)+1)
	out = append(out, byte(kind))
	out = append(out, compressed...)
	return out, nil
}

// DecompressDeserialize strips the leading kind byte, decompresses with the
// matching compressor, and decodes into v (a pointer).
func DecompressDeserialize(data []byte, v interface{}, cfg Config) error {
	if len(data) == 0 {
		return fmt.Errorf("codec: empty blob")
	}
	kind := Kind(data[0])
	c, err := ForKind(kind, cfg.Brotli, cfg.Flate2)
	if err != nil {
		return err
	}
	raw, err := c.Decompress(data[1:])
	if err != nil {
		return fmt.Errorf("codec: decompress: %w", err)
	}
	if err := cbor.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("codec: unmarshal: %w", err)
	}
	return nil
}
