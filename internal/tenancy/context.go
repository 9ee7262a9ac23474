// Package tenancy enforces tenant isolation for every tenant-scoped route.
package tenancy

import (
	"context"
	"strconv"
)

// TenantRef is a normalized tenant claim. Numeric claims are coerced to
// int64; anything else keeps its original string form so non-numeric tenant
// codes survive normalization.
type TenantRef struct {
	id      int64
	code    string
	numeric bool
}

// NormalizeTenant coerces a raw claim value. A value that fully parses as a
// base-10 integer becomes the numeric form; otherwise the original string is
// kept.
func NormalizeTenant(raw string) TenantRef {
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return TenantRef{id: id, numeric: true}
	}
	return TenantRef{code: raw}
}

// NumericTenant builds a TenantRef from a known tenant ID.
func NumericTenant(id int64) TenantRef {
	return TenantRef{id: id, numeric: true}
}

// IsNumeric reports whether the claim normalized to an integer.
func (t TenantRef) IsNumeric() bool {
	return t.numeric
}

// ID returns the numeric tenant ID. Only meaningful when IsNumeric is true.
func (t TenantRef) ID() int64 {
	return t.id
}

// String renders the normalized claim.
func (t TenantRef) String() string {
	if t.numeric {
		return strconv.FormatInt(t.id, 10)
	}
	return t.code
}

// Value returns the normalized claim as it appears in API payloads: int64
// for numeric tenants, the original string otherwise.
func (t TenantRef) Value() any {
	if t.numeric {
		return t.id
	}
	return t.code
}

type tenantContextKey struct{}

// ContextWithTenant attaches the validated tenant to the request context.
func ContextWithTenant(ctx context.Context, ref TenantRef) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, ref)
}

// TenantFromContext extracts the validated tenant from context.
func TenantFromContext(ctx context.Context) (TenantRef, bool) {
	ref, ok := ctx.Value(tenantContextKey{}).(TenantRef)
	return ref, ok
}
