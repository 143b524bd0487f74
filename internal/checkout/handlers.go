package checkout

import (
	"errors"
	"net/http"

	"github.com/noah-isme/storefront/internal/cart"
	"github.com/noah-isme/storefront/internal/common"
	"github.com/noah-isme/storefront/internal/lock"
	"github.com/noah-isme/storefront/internal/pricing"
)

type Handler struct {
	Svc *Service
}

type submitRequest struct {
	CartID string `json:"cartId" validate:"required,uuid"`
}

// Checkout handles POST /checkout.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var req submitRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	out, err := h.Svc.Submit(r.Context(), userID, req.CartID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": out})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var (
		verr *pricing.ValidationError
		serr *SubmissionError
	)
	switch {
	case errors.As(err, &verr):
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_QUANTITY", verr.Reason, map[string]any{
			"productId": verr.ProductID,
			"requested": verr.Requested,
			"available": verr.Available,
		})
	case errors.Is(err, ErrEmptyCart):
		common.JSONError(w, http.StatusBadRequest, "EMPTY_CART", "cart is empty", nil)
	case errors.Is(err, cart.ErrInvalidCart):
		common.JSONError(w, http.StatusBadRequest, "INVALID_CART", "invalid cart id", nil)
	case errors.Is(err, lock.ErrBusy):
		common.JSONError(w, http.StatusConflict, "CHECKOUT_IN_PROGRESS", "cart is already being checked out", nil)
	case errors.As(err, &serr):
		common.JSONError(w, http.StatusInternalServerError, "SUBMISSION_FAILED", serr.Err.Error(), map[string]any{"stage": serr.Stage})
	default:
		common.WriteError(w, err)
	}
}
