package handler

import (
	"encoding/json"
	"net/http"

	"github.com/exchange-admin/internal/application/auth"
	"github.com/exchange-admin/internal/application/role"
	"github.com/exchange-admin/internal/pkg/validate"
	"github.com/exchange-admin/internal/transport/http/middleware"
)

// AuthHandler serves admin login and the current-admin profile.
type AuthHandler struct {
	svc      auth.Service
	registry *role.Registry
}

func NewAuthHandler(svc auth.Service, registry *role.Registry) *AuthHandler {
	return &AuthHandler{svc: svc, registry: registry}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	res, err := h.svc.Login(r.Context(), req, middleware.ClientIP(r))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginEnvelope{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		Admin: AdminView{
			ID:          res.Admin.AdminID,
			Email:       res.Admin.Email,
			Role:        res.Admin.Role,
			Permissions: res.Permissions,
		},
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, AdminView{
		ID:          p.AdminID,
		Email:       p.Email,
		Role:        p.Role,
		Permissions: h.registry.PermissionsOf(p.Role).List(),
	})
}
