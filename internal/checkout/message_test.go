package checkout

import (
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/cart"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/domain"
)

const businessNumber = "+250780612354"

func sampleCustomer() CustomerInfo {
	return CustomerInfo{
		Name:    "Jane Doe",
		Phone:   "+250788000111",
		Address: "Kigali, Rwanda",
	}
}

func sampleItems() []domain.CartItem {
	return []domain.CartItem{
		{ProductID: "p1", Name: "Galaxy S24", Brand: "Samsung", Price: 549, Quantity: 2},
		{ProductID: "p2", Name: "AirPods Pro", Brand: "Apple", Price: 249.99, Quantity: 1},
	}
}

func sampleTotals(items []domain.CartItem, promoRate decimal.Decimal) cart.Totals {
	return cart.ComputeTotals(items, promoRate)
}

func TestOrderMessage_Layout(t *testing.T) {
	items := sampleItems()
	msg := OrderMessage(sampleCustomer(), items, sampleTotals(items, decimal.Zero))

	assert.True(t, strings.HasPrefix(msg, "🛒 *New Order Request*\n\n"))
	assert.Contains(t, msg, "👤 *Customer Details:*\nName: Jane Doe\nPhone: +250788000111\nAddress: Kigali, Rwanda\n")
	assert.Contains(t, msg, "📦 *Order Items:*\n")
	assert.Contains(t, msg, "1. *Galaxy S24*\n   Brand: Samsung\n   Price: RWF549\n   Quantity: 2\n   Subtotal: RWF1098.00\n")
	assert.Contains(t, msg, "2. *AirPods Pro*\n   Brand: Apple\n   Price: RWF249.99\n   Quantity: 1\n   Subtotal: RWF249.99\n")
	assert.Contains(t, msg, "💰 *Order Summary:*\n")
	assert.True(t, strings.HasSuffix(msg, "Please confirm this order and provide payment details. Thank you! 🙏"))
}

func TestOrderMessage_SummaryAgreesWithTotals(t *testing.T) {
	items := sampleItems()
	totals := sampleTotals(items, decimal.Zero)

	msg := OrderMessage(sampleCustomer(), items, totals)

	// subtotal is over 100, so shipping is free and no fee line appears
	assert.Contains(t, msg, "Subtotal: RWF"+totals.Subtotal.StringFixed(2))
	assert.Contains(t, msg, "Shipping: Free\n")
	assert.NotContains(t, msg, "Shipping: RWF")
	assert.Contains(t, msg, "Tax: RWF"+totals.Tax.StringFixed(2))
	assert.Contains(t, msg, "*Total: RWF"+totals.Total.StringFixed(2)+"*")
}

func TestOrderMessage_ShippingFeeShownBelowThreshold(t *testing.T) {
	items := []domain.CartItem{{ProductID: "p1", Name: "Case", Brand: "Spigen", Price: 25, Quantity: 1}}

	msg := OrderMessage(sampleCustomer(), items, sampleTotals(items, decimal.Zero))

	assert.Contains(t, msg, "Shipping: RWF9.99\n")
	assert.NotContains(t, msg, "Shipping: Free")
}

func TestOrderMessage_DiscountLineOnlyWhenApplied(t *testing.T) {
	items := sampleItems()

	without := OrderMessage(sampleCustomer(), items, sampleTotals(items, decimal.Zero))
	assert.NotContains(t, without, "Discount:")

	rate, _, err := cart.LookupPromo("SAVE10")
	require.NoError(t, err)
	with := OrderMessage(sampleCustomer(), items, sampleTotals(items, rate))
	assert.Contains(t, with, "Discount: -RWF")
}

func TestWhatsAppURL(t *testing.T) {
	items := sampleItems()

	link, err := WhatsAppURL(businessNumber, sampleCustomer(), items, sampleTotals(items, decimal.Zero))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://wa.me/"+businessNumber+"?text="))

	// the text parameter must round-trip back to the exact message
	parsed, err := url.Parse(link)
	require.NoError(t, err)
	decoded := parsed.Query().Get("text")
	assert.Equal(t, OrderMessage(sampleCustomer(), items, sampleTotals(items, decimal.Zero)), decoded)
}

func TestWhatsAppURL_RequiresNameAndPhone(t *testing.T) {
	items := sampleItems()
	totals := sampleTotals(items, decimal.Zero)

	tests := []struct {
		name     string
		customer CustomerInfo
	}{
		{"missing name", CustomerInfo{Phone: "+250788000111"}},
		{"missing phone", CustomerInfo{Name: "Jane"}},
		{"whitespace only", CustomerInfo{Name: "  ", Phone: "\t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := WhatsAppURL(businessNumber, tt.customer, items, totals)
			assert.ErrorIs(t, err, ErrMissingCustomerInfo)
		})
	}
}

func TestWhatsAppURL_MissingAddressIsAllowed(t *testing.T) {
	customer := CustomerInfo{Name: "Jane", Phone: "+250788000111"}
	items := sampleItems()

	_, err := WhatsAppURL(businessNumber, customer, items, sampleTotals(items, decimal.Zero))

	assert.NoError(t, err)
}

func TestWhatsAppURL_EmptyCart(t *testing.T) {
	_, err := WhatsAppURL(businessNumber, sampleCustomer(), nil, cart.ComputeTotals(nil, decimal.Zero))

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestDialURL(t *testing.T) {
	assert.Equal(t, "tel:+250780612354", DialURL(businessNumber))
}
