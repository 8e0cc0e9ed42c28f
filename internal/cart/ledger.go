// Package cart implements the shopping-cart ledger: an insertion-ordered,
// quantity-keyed map of line items with derived monetary totals.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/domain"
)

// Ledger holds one session's cart contents. At most one line exists per
// product id. The session store hands out a shared *Ledger per session, so
// all mutators take the lock; reads return copies.
type Ledger struct {
	mu        sync.Mutex
	items     []domain.CartItem
	index     map[string]int // productID -> position in items
	promoCode string
	promoRate decimal.Decimal
}

func NewLedger() *Ledger {
	return &Ledger{index: make(map[string]int)}
}

// Add inserts the product with quantity 1, or increments the existing line
// by 1. The item's Quantity field is ignored. No upper bound is enforced.
func (l *Ledger) Add(item domain.CartItem) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if pos, ok := l.index[item.ProductID]; ok {
		l.items[pos].Quantity++
		return
	}
	item.Quantity = 1
	l.index[item.ProductID] = len(l.items)
	l.items = append(l.items, item)
}

// UpdateQuantity sets the line's quantity. Updates below 1 are ignored;
// removal must go through Remove. Reports whether the line exists.
func (l *Ledger) UpdateQuantity(productID string, quantity int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.index[productID]
	if !ok {
		return false
	}
	if quantity >= 1 {
		l.items[pos].Quantity = quantity
	}
	return true
}

// Remove deletes the line unconditionally. A no-op when absent.
func (l *Ledger) Remove(productID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.index[productID]
	if !ok {
		return
	}
	l.items = append(l.items[:pos], l.items[pos+1:]...)
	delete(l.index, productID)
	for i := pos; i < len(l.items); i++ {
		l.index[l.items[i].ProductID] = i
	}
}

// Clear empties the ledger, including any applied promo code.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil
	l.index = make(map[string]int)
	l.promoCode = ""
	l.promoRate = decimal.Zero
}

// ApplyPromo validates the code against the fixed promo table and retains
// its rate; the discount amount itself is always derived from the current
// subtotal at totals time. Unknown codes return ErrUnknownPromoCode and
// leave the ledger untouched.
func (l *Ledger) ApplyPromo(code string) error {
	rate, canonical, err := LookupPromo(code)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.promoCode = canonical
	l.promoRate = rate
	return nil
}

// Items returns a copy of the lines in insertion order.
func (l *Ledger) Items() []domain.CartItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.CartItem, len(l.items))
	copy(out, l.items)
	return out
}

// PromoCode returns the applied promo code, empty when none.
func (l *Ledger) PromoCode() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.promoCode
}

// Totals computes the ledger's derived monetary totals.
func (l *Ledger) Totals() Totals {
	l.mu.Lock()
	items := make([]domain.CartItem, len(l.items))
	copy(items, l.items)
	rate := l.promoRate
	l.mu.Unlock()

	return ComputeTotals(items, rate)
}
