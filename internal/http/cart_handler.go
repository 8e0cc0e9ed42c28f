package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/cart"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/repository"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/service"
)

type CartHandler struct {
	svc     *service.CartService
	timeout time.Duration
}

func NewCartHandler(svc *service.CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		svc:     svc,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type ApplyPromoRequestDTO struct {
	Code string `json:"code"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing cart session")
		return
	}

	respondJSON(w, http.StatusOK, h.svc.Get(sessionID))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing cart session")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	view, err := h.svc.AddItem(ctx, sessionID, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidProductID):
			respondError(w, http.StatusBadRequest, "invalid_product_id", "invalid product ID format")
		case errors.Is(err, repository.ErrProductNotFound):
			respondError(w, http.StatusNotFound, "not_found", "product not found")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to add item")
		}
		return
	}

	respondJSON(w, http.StatusCreated, view)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing cart session")
		return
	}

	productID := chi.URLParam(r, "product_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// Quantities below 1 never mutate the cart; removal is explicit.
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1; use remove instead")
		return
	}

	view, err := h.svc.UpdateQuantity(sessionID, productID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "item not found in cart")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update quantity")
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing cart session")
		return
	}

	productID := chi.URLParam(r, "product_id")
	respondJSON(w, http.StatusOK, h.svc.RemoveItem(sessionID, productID))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing cart session")
		return
	}

	respondJSON(w, http.StatusOK, h.svc.Clear(sessionID))
}

func (h *CartHandler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing cart session")
		return
	}

	var req ApplyPromoRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	view, err := h.svc.ApplyPromo(sessionID, req.Code)
	if err != nil {
		if errors.Is(err, cart.ErrUnknownPromoCode) {
			respondError(w, http.StatusBadRequest, "invalid_promo_code", "please check your code and try again")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to apply promo code")
		return
	}

	respondJSON(w, http.StatusOK, view)
}
