package memory

import (
	"context"
	"sync"
	"time"

	"github.com/CalebUK/kicker-genius-app-sub000/internal/engine"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/models"
)

// Repository keeps the latest snapshot, live sync and per-chat scoring in
// process memory.
type Repository struct {
	metadata   *models.LeagueMetadata
	snapshot   *models.Snapshot
	snapshotAt time.Time
	live       *models.LiveState
	scoring    map[int64]engine.ScoringConfig
	mu         sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{scoring: make(map[int64]engine.ScoringConfig)}
}

func (r *Repository) SaveMetadata(metadata *models.LeagueMetadata) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metadata = metadata
}

func (r *Repository) GetMetadata() *models.LeagueMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.metadata
}

func (r *Repository) SaveSnapshot(snapshot *models.Snapshot, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot = snapshot
	r.snapshotAt = at
}

// GetSnapshot returns the cached snapshot and when it was stored. The
// snapshot is shared; callers must not modify it.
func (r *Repository) GetSnapshot() (*models.Snapshot, time.Time) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot, r.snapshotAt
}

func (r *Repository) SaveLiveState(state *models.LiveState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live = state
}

func (r *Repository) GetLiveState() *models.LiveState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.live
}

func (r *Repository) GetScoring(_ context.Context, chatID int64) (engine.ScoringConfig, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.scoring[chatID]
	return cfg, ok, nil
}

func (r *Repository) SaveScoring(_ context.Context, chatID int64, cfg engine.ScoringConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scoring[chatID] = cfg
	return nil
}

func (r *Repository) DeleteScoring(_ context.Context, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scoring, chatID)
	return nil
}
