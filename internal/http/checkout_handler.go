package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/checkout"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/service"
)

type CheckoutHandler struct {
	svc     *service.CheckoutService
	timeout time.Duration
}

func NewCheckoutHandler(svc *service.CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		svc:     svc,
		timeout: timeout,
	}
}

type CheckoutRequestDTO struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type CheckoutResponseDTO struct {
	URL string `json:"url"`
}

// WhatsAppCheckout validates the customer info and returns the prefilled
// messaging deep link for the session's cart.
func (h *CheckoutHandler) WhatsAppCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing cart session")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	url, err := h.svc.WhatsAppCheckout(ctx, sessionID, checkout.CustomerInfo{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrMissingCustomerInfo):
			respondError(w, http.StatusBadRequest, "missing_information", "please fill in your name and phone number")
		case errors.Is(err, checkout.ErrEmptyCart):
			respondError(w, http.StatusBadRequest, "empty_cart", "your cart is empty")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to prepare checkout")
		}
		return
	}

	respondJSON(w, http.StatusOK, CheckoutResponseDTO{URL: url})
}

// CallToOrder returns the dialer deep link.
func (h *CheckoutHandler) CallToOrder(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, CheckoutResponseDTO{URL: h.svc.DialURL()})
}
