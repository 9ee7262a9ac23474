package users

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hms/meridian-hms/internal/acl"
)

// RepositoryPort defines data access for tenant-scoped user management.
type RepositoryPort interface {
	ListByTenant(ctx context.Context, tenantID int64) ([]TenantUser, error)
	UpsertMembership(ctx context.Context, tenantID, userID int64, role acl.Role) error
	RemoveMembership(ctx context.Context, tenantID, userID int64) (bool, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByTenant returns all members of a tenant with their roles.
func (r *Repository) ListByTenant(ctx context.Context, tenantID int64) ([]TenantUser, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.email, u.name, m.role, u.is_active, m.created_at
		 FROM tenant_memberships m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.tenant_id = $1
		 ORDER BY u.name`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []TenantUser
	for rows.Next() {
		var member TenantUser
		var role string
		if err := rows.Scan(&member.UserID, &member.Email, &member.Name, &role, &member.IsActive, &member.JoinedAt); err != nil {
			return nil, err
		}
		member.Role = acl.Role(role)
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

// UpsertMembership provisions a user into a tenant or changes their role.
// (tenant_id, user_id) is unique, so a member holds exactly one role.
func (r *Repository) UpsertMembership(ctx context.Context, tenantID, userID int64, role acl.Role) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tenant_memberships (tenant_id, user_id, role)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (tenant_id, user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()`,
		tenantID, userID, string(role),
	)
	return err
}

// RemoveMembership deletes the membership row. Returns false when no row
// existed.
func (r *Repository) RemoveMembership(ctx context.Context, tenantID, userID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM tenant_memberships WHERE tenant_id = $1 AND user_id = $2`,
		tenantID, userID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
