package service

import (
	"context"
	"log"
	"time"

	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/checkout"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/events"
)

// EventPublisher receives the best-effort checkout handoff events. May be
// nil when no broker is configured.
type EventPublisher interface {
	PublishOrderRequested(ctx context.Context, event events.OrderRequested) error
}

// CheckoutService turns a session's cart into the external checkout
// handoffs: the prefilled messaging deep link and the dialer link.
type CheckoutService struct {
	carts          *CartService
	publisher      EventPublisher
	businessNumber string
}

func NewCheckoutService(carts *CartService, publisher EventPublisher, businessNumber string) *CheckoutService {
	return &CheckoutService{
		carts:          carts,
		publisher:      publisher,
		businessNumber: businessNumber,
	}
}

// WhatsAppCheckout validates the customer info against the session's cart
// and returns the wa.me deep link. The handoff is one-way: once the URL is
// produced there is no delivery confirmation, so the published event is
// best-effort and publish failures are only logged.
func (s *CheckoutService) WhatsAppCheckout(ctx context.Context, sessionID string, customer checkout.CustomerInfo) (string, error) {
	view := s.carts.Get(sessionID)

	url, err := checkout.WhatsAppURL(s.businessNumber, customer, view.Items, view.Totals)
	if err != nil {
		return "", err
	}

	if s.publisher != nil {
		event := events.OrderRequested{
			SessionID:     sessionID,
			CustomerName:  customer.Name,
			CustomerPhone: customer.Phone,
			Items:         view.Items,
			Total:         view.Totals.Total.StringFixed(2),
			RequestedAt:   time.Now(),
		}
		if err := s.publisher.PublishOrderRequested(ctx, event); err != nil {
			log.Printf("publish order requested error: %v \n", err)
		}
	}

	return url, nil
}

// DialURL returns the telephony deep link for call-to-order.
func (s *CheckoutService) DialURL() string {
	return checkout.DialURL(s.businessNumber)
}
