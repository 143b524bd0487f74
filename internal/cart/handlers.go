package cart

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/storefront/internal/common"
	"github.com/noah-isme/storefront/internal/lock"
	"github.com/noah-isme/storefront/internal/pricing"
)

// Handler wires cart services to HTTP.
type Handler struct {
	Svc *Service
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

type updateItemRequest struct {
	Delta    *int `json:"delta"`
	Quantity *int `json:"quantity"`
	// Clamp bounds Quantity to the available stock instead of rejecting it.
	Clamp bool `json:"clamp"`
}

// Create issues a new cart id. Nothing is stored until the first item is added.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	common.JSON(w, http.StatusCreated, map[string]any{"data": map[string]any{"cartId": NewCartID()}})
}

// Get returns the priced cart.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	view, err := h.Svc.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// AddItem handles POST /carts/{id}/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var req addItemRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	view, err := h.Svc.Add(r.Context(), chi.URLParam(r, "id"), req.ProductID, req.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// UpdateItem handles PATCH /carts/{id}/items/{productId} with either a delta or an absolute quantity.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var req updateItemRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	if (req.Delta == nil) == (req.Quantity == nil) {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "provide exactly one of delta or quantity", nil)
		return
	}
	cartID, productID := chi.URLParam(r, "id"), chi.URLParam(r, "productId")
	var (
		view View
		err  error
	)
	switch {
	case req.Delta != nil:
		view, err = h.Svc.Change(r.Context(), cartID, productID, *req.Delta)
	case req.Clamp:
		view, err = h.Svc.SetQuantityClamped(r.Context(), cartID, productID, *req.Quantity)
	default:
		view, err = h.Svc.SetQuantity(r.Context(), cartID, productID, *req.Quantity)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// RemoveItem handles DELETE /carts/{id}/items/{productId}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	view, err := h.Svc.Remove(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// Clear handles DELETE /carts/{id}.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	if err := h.Svc.Clear(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr *pricing.ValidationError
	switch {
	case errors.As(err, &verr):
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_QUANTITY", verr.Reason, map[string]any{
			"productId": verr.ProductID,
			"requested": verr.Requested,
			"available": verr.Available,
		})
	case errors.Is(err, ErrInvalidCart):
		common.JSONError(w, http.StatusBadRequest, "INVALID_CART", "invalid cart id", nil)
	case errors.Is(err, ErrUnknownProduct):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
	case errors.Is(err, lock.ErrBusy):
		common.JSONError(w, http.StatusConflict, "CART_BUSY", "cart is being updated, retry shortly", nil)
	default:
		common.WriteError(w, err)
	}
}
