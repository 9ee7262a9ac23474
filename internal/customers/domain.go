package customers

import (
	"errors"
	"time"
)

// Customer is a hotel guest or corporate account, scoped to one tenant.
type Customer struct {
	ID        int64
	TenantID  int64
	Code      string
	Name      string
	Email     *string
	Phone     *string
	Notes     *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

var (
	// ErrNotFound indicates the customer does not exist in this tenant.
	ErrNotFound = errors.New("customers: not found")
	// ErrCodeTaken indicates the customer code is already used in this tenant.
	ErrCodeTaken = errors.New("customers: code already in use")
)
