package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/model"
)

// Snapshot is an immutable point-in-time view of the four collections the
// derived views (kanban, calendar, dashboard) are computed from. Callers must
// not mutate it; a refresh replaces the whole snapshot.
type Snapshot struct {
	Requests  []model.MaintenanceRequest
	Equipment []model.Equipment
	Users     []model.User
	Teams     []model.Team
	LoadedAt  time.Time
}

// Source produces a fresh snapshot, typically from the database.
type Source interface {
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
}

// Holder keeps the last successfully loaded snapshot. A failed load leaves
// the previous snapshot untouched. Loads are generation-tagged so a slow,
// superseded load can never overwrite the result of a newer one.
type Holder struct {
	mu      sync.RWMutex
	current *Snapshot
	applied uint64

	genMu sync.Mutex
	gen   uint64
}

// NewHolder creates an empty holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Load fetches a fresh snapshot from the source and installs it, unless a
// load that started later has already been applied.
func (h *Holder) Load(ctx context.Context, src Source) error {
	h.genMu.Lock()
	h.gen++
	gen := h.gen
	h.genMu.Unlock()

	snap, err := src.LoadSnapshot(ctx)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if gen < h.applied {
		// A newer load already finished; keep its result.
		return nil
	}
	h.current = snap
	h.applied = gen
	return nil
}

// Current returns the last successfully loaded snapshot, or nil if no load
// has succeeded yet.
func (h *Holder) Current() *Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Ensure returns the current snapshot, loading one first if none exists.
func (h *Holder) Ensure(ctx context.Context, src Source) (*Snapshot, error) {
	if snap := h.Current(); snap != nil {
		return snap, nil
	}
	if err := h.Load(ctx, src); err != nil {
		return nil, err
	}
	return h.Current(), nil
}
