package users

import (
	"errors"
	"time"

	"github.com/meridian-hms/meridian-hms/internal/acl"
)

// TenantUser is a user as seen from inside one tenant: account fields plus
// the single role held in that tenant.
type TenantUser struct {
	UserID   int64
	Email    string
	Name     string
	Role     acl.Role
	IsActive bool
	JoinedAt time.Time
}

var (
	// ErrNotMember indicates the user holds no membership in the tenant.
	ErrNotMember = errors.New("users: not a member of tenant")
	// ErrInvalidRole indicates a role outside the catalog's closed set.
	ErrInvalidRole = errors.New("users: invalid role")
)
