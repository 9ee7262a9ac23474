package acl

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MembershipResolver answers "does user U belong to tenant T, and with what
// role?". A missing membership is an expected outcome, reported via ok=false,
// never an error.
type MembershipResolver interface {
	ResolveRole(ctx context.Context, userID, tenantID int64) (Role, bool, error)
}

// MembershipRepository resolves memberships against the authoritative
// tenant_memberships relation. (tenant_id, user_id) is unique at the storage
// layer, so a single-row lookup is sufficient.
type MembershipRepository struct {
	pool *pgxpool.Pool
}

// NewMembershipRepository constructs a repository.
func NewMembershipRepository(pool *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{pool: pool}
}

// ResolveRole looks up the membership relation.
func (r *MembershipRepository) ResolveRole(ctx context.Context, userID, tenantID int64) (Role, bool, error) {
	var role string
	err := r.pool.QueryRow(ctx,
		`SELECT role FROM tenant_memberships WHERE tenant_id = $1 AND user_id = $2`,
		tenantID, userID,
	).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", false, fmt.Errorf("%w: resolve role: %v", ErrDependencyUnavailable, err)
	}
	return Role(role), true, nil
}

// MembershipExists reports whether a membership row is present. Used by
// maintenance scans that reconcile stored override documents.
func (r *MembershipRepository) MembershipExists(ctx context.Context, userID, tenantID int64) (bool, error) {
	_, ok, err := r.ResolveRole(ctx, userID, tenantID)
	return ok, err
}
