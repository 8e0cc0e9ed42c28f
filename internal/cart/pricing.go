package cart

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/domain"
)

// ErrUnknownPromoCode signals a promo code outside the fixed table. Surfaced
// to the caller as a rejection, never swallowed as a zero discount.
var ErrUnknownPromoCode = errors.New("unknown promo code")

// Pricing policy constants. Orders above the threshold ship free; the
// threshold itself still pays the flat fee.
var (
	freeShippingThreshold = decimal.NewFromInt(100)
	shippingFee           = decimal.RequireFromString("9.99")
	taxRate               = decimal.RequireFromString("0.08")
)

// promoCodes is the fixed promo table. Codes match case-insensitively.
var promoCodes = map[string]decimal.Decimal{
	"SAVE10":  decimal.RequireFromString("0.10"),
	"WELCOME": decimal.RequireFromString("0.05"),
	"FIRST20": decimal.RequireFromString("0.20"),
}

// LookupPromo resolves a promo code to its discount rate and canonical
// (uppercase) spelling.
func LookupPromo(code string) (decimal.Decimal, string, error) {
	canonical := strings.ToUpper(strings.TrimSpace(code))
	rate, ok := promoCodes[canonical]
	if !ok {
		return decimal.Zero, "", ErrUnknownPromoCode
	}
	return rate, canonical, nil
}

// Totals is the single source of truth for cart money. Every surface that
// shows or sends an amount (cart summary, order message) goes through it.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Tax       decimal.Decimal `json:"tax"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// ComputeTotals derives totals from the given lines and promo rate.
// An empty cart yields all-zero totals; the shipping fee only applies once
// there is something to ship. The grand total is floored at zero.
func ComputeTotals(items []domain.CartItem, promoRate decimal.Decimal) Totals {
	if len(items) == 0 {
		return Totals{
			Subtotal: decimal.Zero,
			Shipping: decimal.Zero,
			Tax:      decimal.Zero,
			Discount: decimal.Zero,
			Total:    decimal.Zero,
		}
	}

	subtotal := decimal.Zero
	count := 0
	for _, item := range items {
		price := decimal.NewFromFloat(item.Price)
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	subtotal = subtotal.Round(2)

	shipping := shippingFee
	if subtotal.GreaterThan(freeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(taxRate).Round(2)
	discount := subtotal.Mul(promoRate).Round(2)

	total := subtotal.Add(shipping).Add(tax).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal:  subtotal,
		Shipping:  shipping,
		Tax:       tax,
		Discount:  discount,
		Total:     total,
		ItemCount: count,
	}
}

// FreeShippingGap returns how much more must be added to the subtotal to
// reach free shipping, or zero when shipping is already free.
func FreeShippingGap(t Totals) decimal.Decimal {
	if t.Shipping.IsZero() {
		return decimal.Zero
	}
	gap := freeShippingThreshold.Sub(t.Subtotal)
	if gap.IsNegative() {
		return decimal.Zero
	}
	return gap
}
