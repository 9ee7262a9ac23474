// Package acl computes the effective permission set for a (user, tenant)
// pair: role defaults from the catalog, layered with per-user override
// documents, scoped by tenant membership.
package acl

import "errors"

// Role is a job-function label carried by a tenant membership. The set is
// closed; stored membership rows outside it indicate data drift and surface
// as ErrUnknownRole at resolution time.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleManager      Role = "MANAGER"
	RoleReceptionist Role = "RECEPTIONIST"
	RoleCashier      Role = "CASHIER"
	RoleWaiter       Role = "WAITER"
	RoleHousekeeping Role = "HOUSEKEEPING"
)

// Permission keys, namespaced <resource>.<action>.
const (
	PermDashboardView     = "dashboard.view"
	PermCustomersRead     = "customers.read"
	PermCustomersWrite    = "customers.write"
	PermUsersRead         = "users.read"
	PermUsersWrite        = "users.write"
	PermRoomsRead         = "rooms.read"
	PermRoomsWrite        = "rooms.write"
	PermPOSUse            = "pos.use"
	PermFoliosRead        = "folios.read"
	PermFoliosWrite       = "folios.write"
	PermHousekeepingTasks = "housekeeping.tasks"
	PermReportsView       = "reports.view"
	PermPermissionsManage = "permissions.manage"
)

// OverrideDocument is the per-(tenant,user) delta layered on role defaults.
// A key may legitimately appear in both sets; resolution applies add first,
// then remove, so remove wins.
type OverrideDocument struct {
	Add    []string `json:"add"`
	Remove []string `json:"remove"`
}

// Empty reports whether the document carries no deltas.
func (d OverrideDocument) Empty() bool {
	return len(d.Add) == 0 && len(d.Remove) == 0
}

var (
	// ErrUnknownRole indicates a membership row references a role outside
	// the catalog's closed set. Internal/fatal class, never a per-user
	// failure.
	ErrUnknownRole = errors.New("acl: unknown role")
	// ErrDependencyUnavailable indicates a backing store could not be
	// reached. Transient; eligible for caller-driven retry.
	ErrDependencyUnavailable = errors.New("acl: dependency unavailable")
)
