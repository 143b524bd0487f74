package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/storefront/internal/common"
)

// AdminHandler serves the cashier and admin order endpoints.
type AdminHandler struct {
	Svc *Service
}

// List handles GET /staff/orders and GET /admin/orders with an optional ?status filter.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order service not configured", nil)
		return
	}
	status, err := ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	p := common.ParsePagination(r, 50)
	orders, err := h.Svc.ListWithCustomer(r.Context(), status, p)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": orders, "pagination": p})
}

// Approve handles POST /staff/orders/{id}/approve.
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, DecisionApprove)
}

// Reject handles POST /staff/orders/{id}/reject.
func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, DecisionReject)
}

func (h *AdminHandler) review(w http.ResponseWriter, r *http.Request, decision Decision) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order service not configured", nil)
		return
	}
	reviewer, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	sum, err := h.Svc.Review(r.Context(), chi.URLParam(r, "id"), reviewer, decision)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": sum})
}
