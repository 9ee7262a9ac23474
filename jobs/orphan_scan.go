package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/meridian-hms/meridian-hms/internal/acl"
)

// MembershipChecker reports whether a (tenant, user) membership exists.
type MembershipChecker interface {
	MembershipExists(ctx context.Context, userID, tenantID int64) (bool, error)
}

// OrphanScanJob walks the stored override documents and reports documents
// whose (tenant, user) pair no longer has a membership row. The scan is
// report-only: override documents are never deleted automatically, because a
// membership may be restored and the overrides with it.
type OrphanScanJob struct {
	Redis       *redis.Client
	Memberships MembershipChecker
	Logger      *slog.Logger
	clock       func() time.Time
}

// NewOrphanScanJob initialises the orphan scan handler.
func NewOrphanScanJob(client *redis.Client, memberships MembershipChecker, logger *slog.Logger) *OrphanScanJob {
	return &OrphanScanJob{
		Redis:       client,
		Memberships: memberships,
		Logger:      logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the orphan scan logic.
func (j *OrphanScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Redis == nil || j.Memberships == nil {
		return errors.New("orphan scan: handler not configured")
	}
	var payload OrphanScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.BatchSize <= 0 {
		payload.BatchSize = 100
	}

	start := j.now()
	logger := j.logger()
	logger.Info("starting orphan scan", slog.Int64("batch_size", payload.BatchSize))

	scanned, orphans, err := j.scan(ctx, payload.BatchSize)
	if err != nil {
		logger.Error("scan failed", slog.Any("error", err))
		return err
	}

	for _, o := range orphans {
		logger.Warn("orphaned override document",
			slog.String("key", o.Key),
			slog.Int64("tenant_id", o.TenantID),
			slog.Int64("user_id", o.UserID),
		)
	}

	logger.Info("completed orphan scan",
		slog.Int("scanned", scanned),
		slog.Int("orphans", len(orphans)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

type orphanedOverride struct {
	Key      string
	TenantID int64
	UserID   int64
}

func (j *OrphanScanJob) scan(ctx context.Context, batchSize int64) (int, []orphanedOverride, error) {
	var (
		cursor  uint64
		scanned int
		orphans []orphanedOverride
	)
	for {
		keys, next, err := j.Redis.Scan(ctx, cursor, acl.OverrideKeyPrefix+"*", batchSize).Result()
		if err != nil {
			return scanned, orphans, err
		}
		for _, key := range keys {
			tenantID, userID, ok := acl.ParseOverrideKey(key)
			if !ok {
				j.logger().Warn("malformed override key", slog.String("key", key))
				continue
			}
			scanned++
			exists, err := j.Memberships.MembershipExists(ctx, userID, tenantID)
			if err != nil {
				return scanned, orphans, err
			}
			if !exists {
				orphans = append(orphans, orphanedOverride{Key: key, TenantID: tenantID, UserID: userID})
			}
		}
		cursor = next
		if cursor == 0 {
			return scanned, orphans, nil
		}
	}
}

func (j *OrphanScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskOrphanScan))
	}
	return slog.Default().With(slog.String("job", TaskOrphanScan))
}

func (j *OrphanScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
