package acl

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
	"github.com/meridian-hms/meridian-hms/internal/tenancy"
)

// Handler exposes the permission resolution surface as JSON endpoints.
type Handler struct {
	logger    *slog.Logger
	engine    *Engine
	validator *validator.Validate
	acl       Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, engine *Engine, acl Middleware) *Handler {
	return &Handler{
		logger:    logger,
		engine:    engine,
		validator: validator.New(),
		acl:       acl,
	}
}

// MountRoutes registers ACL routes. The tenant guard runs upstream, so every
// request here carries a validated tenant in context.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/permissions", h.effectivePermissions)

	r.Group(func(r chi.Router) {
		r.Use(h.acl.RequireAny(PermPermissionsManage))
		r.Get("/catalog", h.catalog)
		r.Get("/users/{userID}/overrides", h.getOverrides)
		r.Put("/users/{userID}/overrides", h.setOverrides)
	})
}

// effectivePermissions returns the current principal's effective set in the
// request's tenant. Always an array, never null.
func (h *Handler) effectivePermissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r, h.logger)
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	tenant, _ := tenancy.TenantFromContext(r.Context())
	if !tenant.IsNumeric() {
		// Non-numeric tenant codes carry no membership rows; fail closed.
		httpx.JSON(w, http.StatusOK, PermissionsResponse{Permissions: []string{}})
		return
	}
	perms, err := h.engine.Resolve(r.Context(), userID, tenant.ID())
	if err != nil {
		h.respondResolveError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, PermissionsResponse{Permissions: perms})
}

func (h *Handler) catalog(w http.ResponseWriter, r *http.Request) {
	cat := h.engine.Catalog()
	roles := make(map[string][]string, len(cat.Roles()))
	for _, role := range cat.Roles() {
		defaults, err := cat.DefaultsForRole(role)
		if err != nil {
			h.respondResolveError(w, err)
			return
		}
		keys := make([]string, 0, len(defaults))
		for key := range defaults {
			keys = append(keys, key)
		}
		roles[string(role)] = sorted(keys)
	}
	httpx.JSON(w, http.StatusOK, CatalogResponse{
		Permissions: cat.AllPermissions(),
		Roles:       roles,
	})
}

func (h *Handler) getOverrides(w http.ResponseWriter, r *http.Request) {
	tenantID, userID, ok := h.overrideTarget(w, r)
	if !ok {
		return
	}
	doc, err := h.engine.Overrides(r.Context(), tenantID, userID)
	if err != nil {
		h.respondResolveError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) setOverrides(w http.ResponseWriter, r *http.Request) {
	tenantID, userID, ok := h.overrideTarget(w, r)
	if !ok {
		return
	}

	var req SetOverridesRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.validateKeys(append(append([]string{}, req.Add...), req.Remove...)); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	perms, err := h.engine.ApplyOverrides(r.Context(), tenantID, userID, OverrideDocument{
		Add:    req.Add,
		Remove: req.Remove,
	})
	if err != nil {
		h.respondResolveError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, SetOverridesResponse{OK: true, Permissions: perms})
}

// overrideTarget extracts the (tenant, user) pair addressed by an override
// route. Override documents are keyed by numeric tenant IDs only.
func (h *Handler) overrideTarget(w http.ResponseWriter, r *http.Request) (tenantID, userID int64, ok bool) {
	tenant, found := tenancy.TenantFromContext(r.Context())
	if !found || !tenant.IsNumeric() {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "override documents require a numeric tenant")
		return 0, 0, false
	}
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return 0, 0, false
	}
	return tenant.ID(), userID, true
}

// validateKeys rejects keys outside the catalog universe. The universe is
// the validation source for every admin-facing write.
func (h *Handler) validateKeys(keys []string) error {
	for _, key := range keys {
		if !h.engine.Catalog().Contains(key) {
			return fmt.Errorf("unknown permission key %q", key)
		}
	}
	return nil
}

func (h *Handler) respondResolveError(w http.ResponseWriter, err error) {
	if h.logger != nil {
		h.logger.Error("acl handler", slog.Any("error", err))
	}
	switch {
	case errors.Is(err, ErrDependencyUnavailable):
		httpx.Problem(w, http.StatusServiceUnavailable, "Dependency Unavailable", err.Error())
	case errors.Is(err, ErrUnknownRole):
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "role catalog out of sync")
	default:
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func sorted(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Strings(out)
	return out
}
