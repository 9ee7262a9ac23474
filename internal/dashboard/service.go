package dashboard

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Service assembles dashboard snapshots. Aggregate queries run concurrently;
// concurrent requests for the same tenant share one computation.
type Service struct {
	metrics MetricsPort
	cache   *Cache
	group   singleflight.Group
	now     func() time.Time
}

// NewService builds a Service instance.
func NewService(metrics MetricsPort, cache *Cache) *Service {
	return &Service{metrics: metrics, cache: cache, now: time.Now}
}

// Snapshot returns the tenant's dashboard counters, from cache when fresh.
func (s *Service) Snapshot(ctx context.Context, tenantID int64) (Snapshot, error) {
	if snap, ok := s.cache.Get(ctx, tenantID); ok {
		return snap, nil
	}

	result, err, _ := s.group.Do(strconv.FormatInt(tenantID, 10), func() (any, error) {
		return s.compute(ctx, tenantID)
	})
	if err != nil {
		return Snapshot{}, err
	}
	return result.(Snapshot), nil
}

func (s *Service) compute(ctx context.Context, tenantID int64) (Snapshot, error) {
	var snap Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Customers, err = s.metrics.CountCustomers(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.ActiveMembers, err = s.metrics.CountActiveMembers(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.OccupiedRooms, err = s.metrics.CountOccupiedRooms(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.OpenFolios, err = s.metrics.CountOpenFolios(gctx, tenantID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	snap.GeneratedAt = s.now().UTC()
	s.cache.Set(ctx, tenantID, snap)
	return snap, nil
}
