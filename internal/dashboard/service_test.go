package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type stubMetrics struct {
	customers int64
	members   int64
	rooms     int64
	folios    int64
	calls     atomic.Int64
	err       error
}

func (s *stubMetrics) CountCustomers(ctx context.Context, tenantID int64) (int64, error) {
	s.calls.Add(1)
	return s.customers, s.err
}

func (s *stubMetrics) CountActiveMembers(ctx context.Context, tenantID int64) (int64, error) {
	s.calls.Add(1)
	return s.members, s.err
}

func (s *stubMetrics) CountOccupiedRooms(ctx context.Context, tenantID int64) (int64, error) {
	s.calls.Add(1)
	return s.rooms, s.err
}

func (s *stubMetrics) CountOpenFolios(ctx context.Context, tenantID int64) (int64, error) {
	s.calls.Add(1)
	return s.folios, s.err
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
}

func TestSnapshotAggregates(t *testing.T) {
	metrics := &stubMetrics{customers: 120, members: 14, rooms: 38, folios: 9}
	svc := NewService(metrics, newTestCache(t))

	snap, err := svc.Snapshot(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, int64(120), snap.Customers)
	require.Equal(t, int64(14), snap.ActiveMembers)
	require.Equal(t, int64(38), snap.OccupiedRooms)
	require.Equal(t, int64(9), snap.OpenFolios)
	require.False(t, snap.GeneratedAt.IsZero())
}

func TestSnapshotCached(t *testing.T) {
	metrics := &stubMetrics{customers: 1}
	svc := NewService(metrics, newTestCache(t))
	ctx := context.Background()

	_, err := svc.Snapshot(ctx, 7)
	require.NoError(t, err)
	first := metrics.calls.Load()
	require.Equal(t, int64(4), first)

	_, err = svc.Snapshot(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, first, metrics.calls.Load())
}

func TestSnapshotErrorPropagates(t *testing.T) {
	metrics := &stubMetrics{err: errors.New("pg down")}
	svc := NewService(metrics, newTestCache(t))

	_, err := svc.Snapshot(context.Background(), 7)
	require.Error(t, err)
}

func TestSnapshotPerTenantCacheKeys(t *testing.T) {
	metrics := &stubMetrics{customers: 5}
	svc := NewService(metrics, newTestCache(t))
	ctx := context.Background()

	_, err := svc.Snapshot(ctx, 7)
	require.NoError(t, err)
	_, err = svc.Snapshot(ctx, 8)
	require.NoError(t, err)
	require.Equal(t, int64(8), metrics.calls.Load())
}
