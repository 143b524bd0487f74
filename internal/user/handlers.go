package user

import (
	"net/http"

	"github.com/noah-isme/storefront/internal/common"
)

// Handler exposes the profile endpoints and the admin role grant.
type Handler struct {
	Service *Service
}

type grantRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

// Me handles GET /me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
		return
	}
	profile, err := h.Service.Me(r.Context(), userID, common.Email(r.Context()))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": profile})
}

// Update handles PATCH /me.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
		return
	}
	var req UpdateInput
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	profile, err := h.Service.Update(r.Context(), userID, common.Email(r.Context()), req)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": profile})
}

// GrantCashier handles POST /admin/cashiers.
func (h *Handler) GrantCashier(w http.ResponseWriter, r *http.Request) {
	var req grantRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Service.GrantCashier(r.Context(), req.UserID); err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": map[string]any{"userId": req.UserID, "role": common.RoleCashier}})
}
