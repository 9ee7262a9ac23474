package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hms/meridian-hms/internal/acl"
)

type stubChecker struct {
	present map[string]bool
	err     error
}

func (s *stubChecker) MembershipExists(ctx context.Context, userID, tenantID int64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.present[fmt.Sprintf("%d:%d", tenantID, userID)], nil
}

func seedOverride(t *testing.T, client *redis.Client, tenantID, userID int64) {
	t.Helper()
	doc, err := json.Marshal(acl.OverrideDocument{Add: []string{"pos.use"}, Remove: []string{}})
	require.NoError(t, err)
	require.NoError(t, client.Set(context.Background(), acl.OverrideKey(tenantID, userID), doc, 0).Err())
}

func orphanTask(t *testing.T) *asynq.Task {
	t.Helper()
	task, err := NewOrphanScanTask(OrphanScanPayload{BatchSize: 10})
	require.NoError(t, err)
	return task
}

func TestOrphanScanFindsOrphans(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	seedOverride(t, client, 7, 99)
	seedOverride(t, client, 7, 100)
	seedOverride(t, client, 8, 99)

	checker := &stubChecker{present: map[string]bool{"7:99": true}}
	job := NewOrphanScanJob(client, checker, nil)

	scanned, orphans, err := job.scan(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 3, scanned)
	require.Len(t, orphans, 2)
	for _, o := range orphans {
		require.NotEqual(t, "7:99", fmt.Sprintf("%d:%d", o.TenantID, o.UserID))
	}
}

func TestOrphanScanReportOnly(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	seedOverride(t, client, 7, 100)
	checker := &stubChecker{present: map[string]bool{}}
	job := NewOrphanScanJob(client, checker, nil)

	require.NoError(t, job.Handle(context.Background(), orphanTask(t)))

	// The orphaned document must survive the scan.
	exists, err := client.Exists(context.Background(), acl.OverrideKey(7, 100)).Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), exists)
}

func TestOrphanScanSkipsForeignKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	require.NoError(t, client.Set(context.Background(), "acl:user:not-a-number:1", "{}", 0).Err())
	require.NoError(t, client.Set(context.Background(), "session:abc", "{}", 0).Err())
	seedOverride(t, client, 7, 99)

	checker := &stubChecker{present: map[string]bool{"7:99": true}}
	job := NewOrphanScanJob(client, checker, nil)

	scanned, orphans, err := job.scan(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 1, scanned)
	require.Empty(t, orphans)
}

func TestOrphanScanCheckerFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	seedOverride(t, client, 7, 99)
	checker := &stubChecker{err: errors.New("pg down")}
	job := NewOrphanScanJob(client, checker, nil)

	require.Error(t, job.Handle(context.Background(), orphanTask(t)))
}

func TestOrphanScanRejectsMalformedPayload(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	job := NewOrphanScanJob(client, &stubChecker{}, nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskOrphanScan, []byte("{broken")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}
