// Package catalog loads the working set of auctions and owns the
// in-memory cache the other workflows read and update.
package catalog

import (
	"context"
	"time"

	"github.com/laplataremata/remata-engine/internal/auctionerrors"
	"github.com/laplataremata/remata-engine/internal/logging"
	"github.com/laplataremata/remata-engine/internal/models"
)

// Store is the record API surface the loader needs.
type Store interface {
	Health(ctx context.Context) error
	ListActiveAuctions(ctx context.Context, now time.Time) ([]models.Auction, error)
}

// Snapshot is the one-shot result of a catalog load. An empty snapshot
// is a distinct "no active auctions" state, not an error.
type Snapshot struct {
	Auctions []models.Auction
	LoadedAt time.Time
}

func (s Snapshot) Empty() bool {
	return len(s.Auctions) == 0
}

type Loader struct {
	store   Store
	catalog *Catalog
}

func NewLoader(store Store, catalog *Catalog) *Loader {
	return &Loader{store: store, catalog: catalog}
}

// LoadAuctions fetches all non-expired auctions sorted by ascending end
// time, seeds the per-auction drafts and returns a snapshot. Failures
// come back classified: ServiceUnavailable when the backend is
// unreachable, NotFound/Unauthorized when the collection is missing or
// restricted, Unknown otherwise. The cache is left untouched on
// failure.
func (l *Loader) LoadAuctions(ctx context.Context) (Snapshot, error) {
	now := time.Now().UTC()

	// Probe the service before querying so an outage yields a single
	// actionable diagnostic.
	if err := l.store.Health(ctx); err != nil {
		logging.Warn("catalog load aborted, backend unreachable", map[string]any{"error": err.Error()})
		return Snapshot{}, auctionerrors.Ensure(err)
	}

	auctions, err := l.store.ListActiveAuctions(ctx, now)
	if err != nil {
		return Snapshot{}, auctionerrors.Ensure(err)
	}

	l.catalog.Replace(auctions)

	logging.Info("catalog loaded", map[string]any{"auctions": len(auctions)})
	return Snapshot{Auctions: l.catalog.Auctions(), LoadedAt: now}, nil
}
