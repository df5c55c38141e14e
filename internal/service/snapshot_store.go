package service

import (
	"sync"

	"github.com/noah-isme/media-lookup-api/internal/models"
	appErrors "github.com/noah-isme/media-lookup-api/pkg/errors"
)

// SnapshotStore holds the currently served snapshot. It is the single piece
// of shared mutable state in the service: written by the ingest run,
// read concurrently by every query. Readers always observe a whole
// generation, never a mix, because Install swaps one pointer under the lock
// and snapshots are immutable after that.
type SnapshotStore struct {
	mu      sync.RWMutex
	current *models.Snapshot
}

// NewSnapshotStore returns an empty, not-ready store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Ready reports whether a snapshot has been installed.
func (s *SnapshotStore) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Current returns the installed snapshot, or ErrNotReady before the first
// install completes.
func (s *SnapshotStore) Current() (*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, appErrors.ErrNotReady
	}
	return s.current, nil
}

// Install atomically replaces the visible snapshot and marks the store
// ready. The generation counter advances on every install, which keeps
// cursors and cached pages from one generation from leaking into the next.
func (s *SnapshotStore) Install(assets []models.AssetView) *models.Snapshot {
	if assets == nil {
		assets = []models.AssetView{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	generation := uint64(1)
	if s.current != nil {
		generation = s.current.Generation + 1
	}
	s.current = &models.Snapshot{Assets: assets, Generation: generation}
	return s.current
}
