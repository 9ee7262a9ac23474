package acl

import (
	"fmt"
	"sort"
)

// Catalog holds the immutable permission universe and the default key set
// per role. Built once at process start; changes require redeploy.
type Catalog struct {
	universe map[string]struct{}
	defaults map[Role]map[string]struct{}
}

// NewCatalog validates and builds a catalog. Every key referenced by a role
// default must exist in the universe; a violation is a construction error
// (fatal at startup).
func NewCatalog(universe []string, defaults map[Role][]string) (*Catalog, error) {
	c := &Catalog{
		universe: make(map[string]struct{}, len(universe)),
		defaults: make(map[Role]map[string]struct{}, len(defaults)),
	}
	for _, key := range universe {
		if _, dup := c.universe[key]; dup {
			return nil, fmt.Errorf("acl: duplicate permission key %q", key)
		}
		c.universe[key] = struct{}{}
	}
	for role, keys := range defaults {
		set := make(map[string]struct{}, len(keys))
		for _, key := range keys {
			if _, ok := c.universe[key]; !ok {
				return nil, fmt.Errorf("acl: role %s references unknown permission %q", role, key)
			}
			set[key] = struct{}{}
		}
		c.defaults[role] = set
	}
	return c, nil
}

// DefaultCatalog builds the production role table.
func DefaultCatalog() (*Catalog, error) {
	universe := []string{
		PermDashboardView,
		PermCustomersRead,
		PermCustomersWrite,
		PermUsersRead,
		PermUsersWrite,
		PermRoomsRead,
		PermRoomsWrite,
		PermPOSUse,
		PermFoliosRead,
		PermFoliosWrite,
		PermHousekeepingTasks,
		PermReportsView,
		PermPermissionsManage,
	}
	defaults := map[Role][]string{
		RoleAdmin: universe,
		RoleManager: {
			PermDashboardView,
			PermCustomersRead,
			PermCustomersWrite,
			PermUsersRead,
			PermRoomsRead,
			PermRoomsWrite,
			PermFoliosRead,
			PermReportsView,
		},
		RoleReceptionist: {
			PermDashboardView,
			PermCustomersRead,
			PermCustomersWrite,
			PermRoomsRead,
			PermFoliosRead,
			PermFoliosWrite,
		},
		RoleCashier: {
			PermDashboardView,
			PermPOSUse,
			PermFoliosRead,
			PermFoliosWrite,
		},
		RoleWaiter: {
			PermPOSUse,
		},
		RoleHousekeeping: {
			PermRoomsRead,
			PermHousekeepingTasks,
		},
	}
	return NewCatalog(universe, defaults)
}

// AllPermissions returns the complete permission universe, sorted.
func (c *Catalog) AllPermissions() []string {
	keys := make([]string, 0, len(c.universe))
	for key := range c.universe {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Contains reports whether the key exists in the universe.
func (c *Catalog) Contains(key string) bool {
	_, ok := c.universe[key]
	return ok
}

// DefaultsForRole returns the role's baseline permission set as a fresh,
// mutable copy. Unknown roles yield ErrUnknownRole; with the closed Role set
// this should be unreachable, but the contract holds for dynamically decoded
// input.
func (c *Catalog) DefaultsForRole(role Role) (map[string]struct{}, error) {
	set, ok := c.defaults[role]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	working := make(map[string]struct{}, len(set))
	for key := range set {
		working[key] = struct{}{}
	}
	return working, nil
}

// Roles lists the roles present in the catalog, sorted.
func (c *Catalog) Roles() []Role {
	roles := make([]Role, 0, len(c.defaults))
	for role := range c.defaults {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}
