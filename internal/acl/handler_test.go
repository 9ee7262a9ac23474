package acl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hms/meridian-hms/internal/shared"
	"github.com/meridian-hms/meridian-hms/internal/tenancy"
)

func newHandlerFixture(t *testing.T) (*chi.Mux, *memoryOverrides) {
	t.Helper()
	cat, err := NewCatalog(
		[]string{PermDashboardView, PermCustomersRead, PermCustomersWrite, PermPOSUse, PermPermissionsManage},
		map[Role][]string{
			RoleAdmin:   {PermDashboardView, PermCustomersRead, PermCustomersWrite, PermPOSUse, PermPermissionsManage},
			RoleManager: {PermDashboardView, PermCustomersRead, PermCustomersWrite},
		},
	)
	require.NoError(t, err)

	memberships := &stubMemberships{roles: map[string]Role{
		membershipKey(10, 7): RoleAdmin,
		membershipKey(99, 7): RoleManager,
	}}
	overrides := newMemoryOverrides()
	engine := NewEngine(memberships, cat, overrides, nil)
	handler := NewHandler(nil, engine, Middleware{Engine: engine})

	router := chi.NewRouter()
	router.Route("/acl", handler.MountRoutes)
	return router, overrides
}

func authedRequest(method, target, body string, userID string, tenantID int64) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	sess := &shared.Session{}
	sess.SetUser(userID)
	sess.SetTenants([]int64{tenantID})
	ctx := shared.ContextWithSession(req.Context(), sess)
	ctx = tenancy.ContextWithTenant(ctx, tenancy.NumericTenant(tenantID))
	return req.WithContext(ctx)
}

func TestEffectivePermissionsEndpoint(t *testing.T) {
	router, overrides := newHandlerFixture(t)
	require.NoError(t, overrides.SetOverrides(context.Background(), 7, 99, OverrideDocument{
		Add:    []string{PermPOSUse},
		Remove: []string{PermCustomersWrite},
	}))

	res := httptest.NewRecorder()
	router.ServeHTTP(res, authedRequest(http.MethodGet, "/acl/permissions", "", "99", 7))

	require.Equal(t, http.StatusOK, res.Code)
	var body PermissionsResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.Equal(t, []string{PermCustomersRead, PermDashboardView, PermPOSUse}, body.Permissions)
}

func TestEffectivePermissionsEmptyIsArray(t *testing.T) {
	router, _ := newHandlerFixture(t)

	// User 5 has no membership in tenant 7.
	res := httptest.NewRecorder()
	router.ServeHTTP(res, authedRequest(http.MethodGet, "/acl/permissions", "", "5", 7))

	require.Equal(t, http.StatusOK, res.Code)
	require.JSONEq(t, `{"permissions":[]}`, res.Body.String())
}

func TestSetOverridesEndpoint(t *testing.T) {
	router, _ := newHandlerFixture(t)

	body := `{"add":["pos.use"],"remove":["customers.write"]}`
	res := httptest.NewRecorder()
	router.ServeHTTP(res, authedRequest(http.MethodPut, "/acl/users/99/overrides", body, "10", 7))

	require.Equal(t, http.StatusOK, res.Code)
	var out SetOverridesResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &out))
	require.True(t, out.OK)
	require.Equal(t, []string{PermCustomersRead, PermDashboardView, PermPOSUse}, out.Permissions)
}

func TestSetOverridesRejectsUnknownKey(t *testing.T) {
	router, _ := newHandlerFixture(t)

	body := `{"add":["rooms.demolish"]}`
	res := httptest.NewRecorder()
	router.ServeHTTP(res, authedRequest(http.MethodPut, "/acl/users/99/overrides", body, "10", 7))

	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestSetOverridesRequiresManagePermission(t *testing.T) {
	router, _ := newHandlerFixture(t)

	// User 99 is a manager without permissions.manage.
	body := `{"add":["pos.use"]}`
	res := httptest.NewRecorder()
	router.ServeHTTP(res, authedRequest(http.MethodPut, "/acl/users/99/overrides", body, "99", 7))

	require.Equal(t, http.StatusForbidden, res.Code)
}

func TestCatalogEndpoint(t *testing.T) {
	router, _ := newHandlerFixture(t)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, authedRequest(http.MethodGet, "/acl/catalog", "", "10", 7))

	require.Equal(t, http.StatusOK, res.Code)
	var out CatalogResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &out))
	require.Contains(t, out.Permissions, PermPermissionsManage)
	require.Contains(t, out.Roles, string(RoleManager))
	require.ElementsMatch(t, []string{PermDashboardView, PermCustomersRead, PermCustomersWrite}, out.Roles[string(RoleManager)])
}
