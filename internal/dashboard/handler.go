package dashboard

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-hms/meridian-hms/internal/acl"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
	"github.com/meridian-hms/meridian-hms/internal/tenancy"
)

// Handler exposes the dashboard snapshot endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
	acl     acl.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, aclmw acl.Middleware) *Handler {
	return &Handler{logger: logger, service: service, acl: aclmw}
}

// MountRoutes registers dashboard routes. Runs behind the tenant guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.acl.RequireAny(acl.PermDashboardView))
		r.Get("/", h.snapshot)
	})
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenancy.TenantFromContext(r.Context())
	if !ok || !tenant.IsNumeric() {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "numeric tenant required")
		return
	}
	snap, err := h.service.Snapshot(r.Context(), tenant.ID())
	if err != nil {
		h.logger.Error("dashboard snapshot", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, snap)
}
