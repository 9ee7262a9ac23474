package users

import (
	"errors"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-hms/meridian-hms/internal/acl"
	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
	"github.com/meridian-hms/meridian-hms/internal/tenancy"
)

// Handler exposes tenant member management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	acl       acl.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, aclmw acl.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
		acl:       aclmw,
	}
}

type assignRoleRequest struct {
	Role string `json:"role" validate:"required,max=50"`
}

type memberResponse struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// MountRoutes registers member routes. Runs behind the tenant guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.acl.RequireAny(acl.PermUsersRead, acl.PermUsersWrite))
		r.Get("/", h.list)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.acl.RequireAny(acl.PermUsersWrite))
		r.Put("/{userID}/role", h.assignRole)
		r.Delete("/{userID}", h.remove)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	members, err := h.service.ListMembers(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("list members", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, memberResponse{
			UserID:   m.UserID,
			Email:    m.Email,
			Name:     m.Name,
			Role:     string(m.Role),
			IsActive: m.IsActive,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"members": out})
}

func (h *Handler) assignRole(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req assignRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.AssignRole(r.Context(), tenantID, userID, acl.Role(req.Role)); err != nil {
		if errors.Is(err, ErrInvalidRole) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		h.logger.Error("assign role", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if err := h.service.RemoveMember(r.Context(), tenantID, userID); err != nil {
		if errors.Is(err, ErrNotMember) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("remove member", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) tenantID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	tenant, ok := tenancy.TenantFromContext(r.Context())
	if !ok || !tenant.IsNumeric() {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "numeric tenant required")
		return 0, false
	}
	return tenant.ID(), true
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return 0, false
	}
	return id, true
}
