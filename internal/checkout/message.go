// Package checkout builds the prefilled order message and the external
// deep links (messaging, dialer) the storefront hands it to. The handoff is
// one-way and fire-and-forget; nothing here waits for a delivery signal.
package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/cart"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/domain"
)

var (
	// ErrMissingCustomerInfo rejects a checkout before any state is touched
	// when the required contact fields are absent.
	ErrMissingCustomerInfo = errors.New("customer name and phone are required")

	// ErrEmptyCart rejects checkout of an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
)

// CustomerInfo is the contact block of the order message. Address is
// optional.
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (c CustomerInfo) validate() error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Phone) == "" {
		return ErrMissingCustomerInfo
	}
	return nil
}

// OrderMessage renders the itemized order text sent over the messaging
// deep link. Amounts always come from the supplied totals so the message
// agrees with the cart summary by construction.
func OrderMessage(customer CustomerInfo, items []domain.CartItem, totals cart.Totals) string {
	var b strings.Builder

	b.WriteString("🛒 *New Order Request*\n\n")
	b.WriteString("👤 *Customer Details:*\n")
	fmt.Fprintf(&b, "Name: %s\n", customer.Name)
	fmt.Fprintf(&b, "Phone: %s\n", customer.Phone)
	fmt.Fprintf(&b, "Address: %s\n\n", customer.Address)

	b.WriteString("📦 *Order Items:*\n")
	for i, item := range items {
		lineTotal := decimal.NewFromFloat(item.Price).
			Mul(decimal.NewFromInt(int64(item.Quantity)))
		fmt.Fprintf(&b, "%d. *%s*\n", i+1, item.Name)
		fmt.Fprintf(&b, "   Brand: %s\n", item.Brand)
		fmt.Fprintf(&b, "   Price: RWF%s\n", formatPrice(item.Price))
		fmt.Fprintf(&b, "   Quantity: %d\n", item.Quantity)
		fmt.Fprintf(&b, "   Subtotal: RWF%s\n\n", lineTotal.StringFixed(2))
	}

	b.WriteString("💰 *Order Summary:*\n")
	fmt.Fprintf(&b, "Subtotal: RWF%s\n", totals.Subtotal.StringFixed(2))
	if totals.Shipping.IsZero() {
		b.WriteString("Shipping: Free\n")
	} else {
		fmt.Fprintf(&b, "Shipping: RWF%s\n", totals.Shipping.StringFixed(2))
	}
	fmt.Fprintf(&b, "Tax: RWF%s\n", totals.Tax.StringFixed(2))
	if totals.Discount.IsPositive() {
		fmt.Fprintf(&b, "Discount: -RWF%s\n", totals.Discount.StringFixed(2))
	}
	fmt.Fprintf(&b, "*Total: RWF%s*\n\n", totals.Total.StringFixed(2))
	b.WriteString("Please confirm this order and provide payment details. Thank you! 🙏")

	return b.String()
}

// WhatsAppURL validates the checkout and returns the wa.me deep link with
// the order message URL-encoded into the text parameter.
func WhatsAppURL(businessNumber string, customer CustomerInfo, items []domain.CartItem, totals cart.Totals) (string, error) {
	if err := customer.validate(); err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", ErrEmptyCart
	}

	message := OrderMessage(customer, items, totals)
	return fmt.Sprintf("https://wa.me/%s?text=%s", businessNumber, url.QueryEscape(message)), nil
}

// DialURL returns the telephony deep link for the business number.
func DialURL(businessNumber string) string {
	return "tel:" + businessNumber
}

// formatPrice renders a unit price without forcing decimal places, the way
// the storefront displays it (RWF549 rather than RWF549.00).
func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
