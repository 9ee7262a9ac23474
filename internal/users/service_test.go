package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-hms/meridian-hms/internal/acl"
)

type memoryMemberships struct {
	roles map[string]acl.Role
}

func newMemoryMemberships() *memoryMemberships {
	return &memoryMemberships{roles: make(map[string]acl.Role)}
}

func memberKey(tenantID, userID int64) string {
	return fmt.Sprintf("%d:%d", tenantID, userID)
}

func (m *memoryMemberships) ListByTenant(ctx context.Context, tenantID int64) ([]TenantUser, error) {
	var members []TenantUser
	for key, role := range m.roles {
		var tid, uid int64
		if _, err := fmt.Sscanf(key, "%d:%d", &tid, &uid); err != nil {
			return nil, err
		}
		if tid == tenantID {
			members = append(members, TenantUser{UserID: uid, Role: role})
		}
	}
	return members, nil
}

func (m *memoryMemberships) UpsertMembership(ctx context.Context, tenantID, userID int64, role acl.Role) error {
	m.roles[memberKey(tenantID, userID)] = role
	return nil
}

func (m *memoryMemberships) RemoveMembership(ctx context.Context, tenantID, userID int64) (bool, error) {
	key := memberKey(tenantID, userID)
	if _, ok := m.roles[key]; !ok {
		return false, nil
	}
	delete(m.roles, key)
	return true, nil
}

func newTestService(t *testing.T) (*Service, *memoryMemberships) {
	t.Helper()
	catalog, err := acl.DefaultCatalog()
	require.NoError(t, err)
	repo := newMemoryMemberships()
	return NewService(repo, catalog), repo
}

func TestAssignRole(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AssignRole(ctx, 7, 99, acl.RoleManager))
	require.Equal(t, acl.RoleManager, repo.roles[memberKey(7, 99)])

	// Role change replaces, one role per member.
	require.NoError(t, svc.AssignRole(ctx, 7, 99, acl.RoleCashier))
	require.Equal(t, acl.RoleCashier, repo.roles[memberKey(7, 99)])
}

func TestAssignRoleRejectsUnknown(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.AssignRole(context.Background(), 7, 99, acl.Role("OWNER"))
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestRemoveMember(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AssignRole(ctx, 7, 99, acl.RoleWaiter))
	require.NoError(t, svc.RemoveMember(ctx, 7, 99))
	require.ErrorIs(t, svc.RemoveMember(ctx, 7, 99), ErrNotMember)
}

func TestRolesDifferPerTenant(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AssignRole(ctx, 7, 99, acl.RoleManager))
	require.NoError(t, svc.AssignRole(ctx, 8, 99, acl.RoleWaiter))

	require.Equal(t, acl.RoleManager, repo.roles[memberKey(7, 99)])
	require.Equal(t, acl.RoleWaiter, repo.roles[memberKey(8, 99)])
}
