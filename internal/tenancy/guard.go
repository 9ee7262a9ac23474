package tenancy

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
	"github.com/meridian-hms/meridian-hms/internal/shared"
)

const (
	// TenantHeader carries the claimed tenant; it takes precedence over the
	// query parameter.
	TenantHeader = "x-tenant-id"
	// TenantQueryParam is the fallback claim channel.
	TenantQueryParam = "tenantId"
)

// GuardMode selects how the guard treats principals without recorded
// memberships.
type GuardMode string

const (
	// GuardStrict rejects requests when the session carries no membership
	// data. This is the default.
	GuardStrict GuardMode = "strict"
	// GuardLegacy passes requests through when the session carries no
	// membership data. Kept only for migration windows where older
	// authentication payloads omit memberships; every pass-through is logged.
	GuardLegacy GuardMode = "legacy"
)

var (
	// ErrMissingTenantClaim indicates the request carried no tenant claim.
	ErrMissingTenantClaim = errors.New("tenancy: missing tenant claim")
	// ErrForbiddenTenantAccess indicates the claimed tenant is not among the
	// principal's memberships.
	ErrForbiddenTenantAccess = errors.New("tenancy: forbidden tenant access")
)

// Guard validates the claimed tenant against the authenticated principal's
// memberships before any tenant-scoped work runs.
type Guard struct {
	Logger *slog.Logger
	Mode   GuardMode
}

// Middleware extracts the tenant claim, validates it and attaches the
// normalized tenant to the request context. Validation failures short-circuit
// before any downstream handler executes.
func (g Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(TenantHeader)
		if raw == "" {
			raw = r.URL.Query().Get(TenantQueryParam)
		}
		if raw == "" {
			httpx.Problem(w, http.StatusBadRequest, "Missing Tenant Claim", ErrMissingTenantClaim.Error())
			return
		}

		ref := NormalizeTenant(raw)

		memberships := sessionMemberships(r)
		if len(memberships) == 0 {
			if g.mode() == GuardLegacy {
				if g.Logger != nil {
					g.Logger.Warn("tenant guard pass-through, no memberships on principal",
						slog.String("tenant", ref.String()), slog.String("path", r.URL.Path))
				}
				next.ServeHTTP(w, r.WithContext(ContextWithTenant(r.Context(), ref)))
				return
			}
			httpx.Problem(w, http.StatusForbidden, "Forbidden Tenant Access", ErrForbiddenTenantAccess.Error())
			return
		}

		if !memberOf(ref, memberships) {
			if g.Logger != nil {
				g.Logger.Warn("cross-tenant access rejected",
					slog.String("tenant", ref.String()), slog.String("path", r.URL.Path))
			}
			httpx.Problem(w, http.StatusForbidden, "Forbidden Tenant Access", ErrForbiddenTenantAccess.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithTenant(r.Context(), ref)))
	})
}

func (g Guard) mode() GuardMode {
	if g.Mode == GuardLegacy {
		return GuardLegacy
	}
	return GuardStrict
}

func sessionMemberships(r *http.Request) []int64 {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return nil
	}
	return sess.Tenants()
}

func memberOf(ref TenantRef, memberships []int64) bool {
	if !ref.IsNumeric() {
		return false
	}
	for _, id := range memberships {
		if id == ref.ID() {
			return true
		}
	}
	return false
}
