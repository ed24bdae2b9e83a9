// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package dalayer is the data-availability collaborator: it hands the
// scoring engine the remote/terminal track recorded for a block range
// (spec.md section 4.1, grounded on original_source/da-layer/src/lib.rs's
// DaLayerTrait).
package dalayer

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxfi/zkrpc/internal/model"
)

// ErrNotFound is returned when no track exists for the requested remote
// over the requested block range (spec.md section 7, DataLoss case).
var ErrNotFound = errors.New("dalayer: no track for remote in block range")

// DaLayer fetches the recorded remote/terminal track for a block range.
// Implementations may reach an external store; callers must pass a
// context that carries the per-call deadline (spec.md section 5).
type DaLayer interface {
	FetchRemoteWithTerminalsBlockFromTo(ctx context.Context, remoteAddress string, blockFrom, blockTo uint64) (model.RemoteDecimal, error)
}

// MemoryDaLayer is an in-memory stand-in for the MySQL/sea_orm-backed
// store in original_source/da-layer/src/mock/db.rs. It is keyed by
// remote address and populated by tests or a development seed step;
// production deployments plug in a real DaLayer.
type MemoryDaLayer struct {
	tracks map[string]model.RemoteDecimal
}

// NewMemoryDaLayer constructs an empty store.
func NewMemoryDaLayer() *MemoryDaLayer {
	return &MemoryDaLayer{tracks: make(map[string]model.RemoteDecimal)}
}

// Seed records the track that should be returned for remoteAddress,
// regardless of the requested block range (the mock does not model
// block-height history).
func (m *MemoryDaLayer) Seed(remoteAddress string, track model.RemoteDecimal) {
	m.tracks[remoteAddress] = track
}

func (m *MemoryDaLayer) FetchRemoteWithTerminalsBlockFromTo(_ context.Context, remoteAddress string, blockFrom, blockTo uint64) (model.RemoteDecimal, error) {
	if blockFrom > blockTo {
		return model.RemoteDecimal{}, fmt.Errorf("dalayer: invalid block range [%d, %d]", blockFrom, blockTo)
	}
	track, ok := m.tracks[remoteAddress]
	if !ok {
		return model.RemoteDecimal{}, fmt.Errorf("%w: remote=%s range=[%d,%d]", ErrNotFound, remoteAddress, blockFrom, blockTo)
	}
	return track, nil
}
