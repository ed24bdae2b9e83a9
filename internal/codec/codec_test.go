// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	Score   int64
	Weights []int64
}

func TestCompressionRoundTripAllKinds(t *testing.T) {
	cfg := Config{
		Brotli: BrotliConfig{Quality: 11, LgWin: 20, BufferSize: 4096},
		Flate2: Flate2Config{Level: 9, Flate2Type: Flate2Zlib},
	}
	f := fixture{Score: 384606, Weights: []int64{123158, 30233, 0, 183871, 100000}}

	for _, kind := range []Kind{Raw, Brotli, Flate2} {
		t.Run(kind.String(), func(t *testing.T) {
			blob, err := SerializeCompress(f, kind, cfg)
			require.NoError(t, err)
			assert.Equal(t, byte(kind), blob[0])

			var out fixture
			require.NoError(t, DecompressDeserialize(blob, &out, cfg))
			assert.Equal(t, f, out)
		})
	}
}
