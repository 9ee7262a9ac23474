package tenancy_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-hms/meridian-hms/internal/shared"
	"github.com/meridian-hms/meridian-hms/internal/tenancy"
)

func TestNormalizeTenant(t *testing.T) {
	ref := tenancy.NormalizeTenant("42")
	require.True(t, ref.IsNumeric())
	require.Equal(t, int64(42), ref.ID())
	require.Equal(t, int64(42), ref.Value())
	require.Equal(t, "42", ref.String())

	ref = tenancy.NormalizeTenant("acme-hotel")
	require.False(t, ref.IsNumeric())
	require.Equal(t, "acme-hotel", ref.Value())
	require.Equal(t, "acme-hotel", ref.String())

	// Partial numbers stay strings.
	ref = tenancy.NormalizeTenant("42b")
	require.False(t, ref.IsNumeric())
}

type guardResult struct {
	called bool
	tenant tenancy.TenantRef
	found  bool
}

func runGuard(t *testing.T, guard tenancy.Guard, req *http.Request, tenants []int64) (*httptest.ResponseRecorder, *guardResult) {
	t.Helper()
	if tenants != nil {
		sess := &shared.Session{}
		sess.SetUser("1")
		sess.SetTenants(tenants)
		req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	}
	result := &guardResult{}
	handler := guard.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result.called = true
		result.tenant, result.found = tenancy.TenantFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res, result
}

func TestGuardMissingClaim(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	res, result := runGuard(t, tenancy.Guard{}, req, []int64{7})

	require.Equal(t, http.StatusBadRequest, res.Code)
	require.False(t, result.called)
}

func TestGuardHeaderPrecedenceOverQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/customers?tenantId=8", nil)
	req.Header.Set("x-tenant-id", "7")
	res, result := runGuard(t, tenancy.Guard{}, req, []int64{7})

	require.Equal(t, http.StatusOK, res.Code)
	require.True(t, result.called)
	require.True(t, result.found)
	require.Equal(t, int64(7), result.tenant.ID())
}

func TestGuardQueryFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/customers?tenantId=7", nil)
	res, result := runGuard(t, tenancy.Guard{}, req, []int64{7})

	require.Equal(t, http.StatusOK, res.Code)
	require.True(t, result.called)
	require.Equal(t, int64(7), result.tenant.ID())
}

func TestGuardCrossTenantRejected(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	req.Header.Set("x-tenant-id", "7")
	res, result := runGuard(t, tenancy.Guard{}, req, []int64{1, 2})

	require.Equal(t, http.StatusForbidden, res.Code)
	require.False(t, result.called)
}

func TestGuardStrictRejectsWithoutMemberships(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	req.Header.Set("x-tenant-id", "7")
	res, result := runGuard(t, tenancy.Guard{Mode: tenancy.GuardStrict}, req, nil)

	require.Equal(t, http.StatusForbidden, res.Code)
	require.False(t, result.called)
}

func TestGuardLegacyPassThroughWithoutMemberships(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	req.Header.Set("x-tenant-id", "7")
	res, result := runGuard(t, tenancy.Guard{Mode: tenancy.GuardLegacy}, req, nil)

	require.Equal(t, http.StatusOK, res.Code)
	require.True(t, result.called)
	require.Equal(t, int64(7), result.tenant.ID())
}

func TestGuardNonNumericCode(t *testing.T) {
	// A non-numeric code can never match numeric memberships.
	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	req.Header.Set("x-tenant-id", "acme-hotel")
	res, result := runGuard(t, tenancy.Guard{}, req, []int64{7})
	require.Equal(t, http.StatusForbidden, res.Code)
	require.False(t, result.called)

	// Legacy pass-through keeps the string form intact.
	req = httptest.NewRequest(http.MethodGet, "/customers", nil)
	req.Header.Set("x-tenant-id", "acme-hotel")
	res, result = runGuard(t, tenancy.Guard{Mode: tenancy.GuardLegacy}, req, nil)
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, "acme-hotel", result.tenant.Value())
}

func TestGuardDefaultModeIsStrict(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	req.Header.Set("x-tenant-id", "7")
	res, _ := runGuard(t, tenancy.Guard{}, req, nil)

	require.Equal(t, http.StatusForbidden, res.Code)
}
