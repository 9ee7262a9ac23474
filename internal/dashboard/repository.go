package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MetricsPort defines the aggregate queries behind the dashboard.
type MetricsPort interface {
	CountCustomers(ctx context.Context, tenantID int64) (int64, error)
	CountActiveMembers(ctx context.Context, tenantID int64) (int64, error)
	CountOccupiedRooms(ctx context.Context, tenantID int64) (int64, error)
	CountOpenFolios(ctx context.Context, tenantID int64) (int64, error)
}

// Repository provides PostgreSQL backed aggregates.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) CountCustomers(ctx context.Context, tenantID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM customers WHERE tenant_id = $1 AND is_active`, tenantID)
}

func (r *Repository) CountActiveMembers(ctx context.Context, tenantID int64) (int64, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM tenant_memberships m JOIN users u ON u.id = m.user_id
		 WHERE m.tenant_id = $1 AND u.is_active`, tenantID)
}

func (r *Repository) CountOccupiedRooms(ctx context.Context, tenantID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM rooms WHERE tenant_id = $1 AND status = 'OCCUPIED'`, tenantID)
}

func (r *Repository) CountOpenFolios(ctx context.Context, tenantID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM folios WHERE tenant_id = $1 AND status = 'OPEN'`, tenantID)
}

func (r *Repository) count(ctx context.Context, query string, tenantID int64) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, query, tenantID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
