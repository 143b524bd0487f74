package booking

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/storefront/internal/common"
	"github.com/noah-isme/storefront/internal/pricing"
)

type Handler struct {
	Svc *Service
}

// Create handles POST /bookings.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	var in CreateInput
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	b, err := h.Svc.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": b})
}

// List handles GET /bookings.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	list, err := h.Svc.ListMine(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": list})
}

// Cancel handles POST /bookings/{id}/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	b, err := h.Svc.Cancel(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": b})
}

func (h *Handler) user(w http.ResponseWriter, r *http.Request) (string, bool) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "booking service not configured", nil)
		return "", false
	}
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return "", false
	}
	return userID, true
}

func writeError(w http.ResponseWriter, err error) {
	var verr *pricing.ValidationError
	switch {
	case errors.As(err, &verr):
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_QUANTITY", verr.Reason, map[string]any{
			"productId": verr.ProductID,
			"requested": verr.Requested,
			"available": verr.Available,
		})
	case errors.Is(err, ErrInvalidDate):
		common.JSONError(w, http.StatusBadRequest, "INVALID_PICKUP_DATE", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "booking not found", nil)
	case errors.Is(err, ErrNotCancellable):
		common.JSONError(w, http.StatusConflict, "INVALID_STATE", err.Error(), nil)
	default:
		common.WriteError(w, err)
	}
}
