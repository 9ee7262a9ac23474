package users

import (
	"context"
	"fmt"

	"github.com/meridian-hms/meridian-hms/internal/acl"
)

// Service handles tenant membership management.
type Service struct {
	repo    RepositoryPort
	catalog *acl.Catalog
}

// NewService builds a Service instance. The catalog is the authority for
// which roles may be assigned.
func NewService(repo RepositoryPort, catalog *acl.Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// ListMembers returns all members of the tenant.
func (s *Service) ListMembers(ctx context.Context, tenantID int64) ([]TenantUser, error) {
	return s.repo.ListByTenant(ctx, tenantID)
}

// AssignRole provisions a user into the tenant with the given role, or
// changes the role of an existing member.
func (s *Service) AssignRole(ctx context.Context, tenantID, userID int64, role acl.Role) error {
	if _, err := s.catalog.DefaultsForRole(role); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}
	return s.repo.UpsertMembership(ctx, tenantID, userID, role)
}

// RemoveMember deletes the user's membership in the tenant. Any stored
// override document stays behind; without a membership it resolves to
// nothing and the orphan scan reports it.
func (s *Service) RemoveMember(ctx context.Context, tenantID, userID int64) error {
	removed, err := s.repo.RemoveMembership(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotMember
	}
	return nil
}
