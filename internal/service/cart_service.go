package service

import (
	"context"
	"errors"

	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/cart"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/domain"
)

// ErrCartItemNotFound signals a quantity update against a line that is not
// in the cart. Removal of an absent line is deliberately NOT an error.
var ErrCartItemNotFound = errors.New("item not found in cart")

// ProductGetter is the slice of the catalog the cart needs: resolving a
// product id into a full record when a line is added.
type ProductGetter interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
}

// CartView is the read-only projection handed to every surface that renders
// the cart.
type CartView struct {
	Items     []domain.CartItem `json:"items"`
	PromoCode string            `json:"promo_code,omitempty"`
	Totals    cart.Totals       `json:"totals"`
}

// CartService mediates all cart mutations. The session store is the single
// writer of cart state; views elsewhere only see CartView snapshots.
type CartService struct {
	products ProductGetter
	sessions *cart.SessionStore
}

func NewCartService(products ProductGetter, sessions *cart.SessionStore) *CartService {
	return &CartService{
		products: products,
		sessions: sessions,
	}
}

// Get returns the session's current cart.
func (s *CartService) Get(sessionID string) CartView {
	return s.view(s.sessions.Ledger(sessionID))
}

// AddItem resolves the product and adds it to the session's ledger,
// incrementing the quantity when the line already exists. Repository
// not-found and invalid-id errors pass through untouched so the handler can
// map them distinctly.
func (s *CartService) AddItem(ctx context.Context, sessionID, productID string) (CartView, error) {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return CartView{}, err
	}

	ledger := s.sessions.Ledger(sessionID)
	ledger.Add(domain.CartItem{
		ProductID: product.ID.Hex(),
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.MainImage(),
		Brand:     product.Brand,
		Category:  product.Category,
	})

	return s.view(ledger), nil
}

// UpdateQuantity sets a line's quantity. Quantities below 1 are ignored by
// the ledger; callers wanting removal must call RemoveItem.
func (s *CartService) UpdateQuantity(sessionID, productID string, quantity int) (CartView, error) {
	ledger := s.sessions.Ledger(sessionID)
	if !ledger.UpdateQuantity(productID, quantity) {
		return CartView{}, ErrCartItemNotFound
	}
	return s.view(ledger), nil
}

// RemoveItem deletes a line. A no-op when the line is absent.
func (s *CartService) RemoveItem(sessionID, productID string) CartView {
	ledger := s.sessions.Ledger(sessionID)
	ledger.Remove(productID)
	return s.view(ledger)
}

// Clear empties the session's cart.
func (s *CartService) Clear(sessionID string) CartView {
	ledger := s.sessions.Ledger(sessionID)
	ledger.Clear()
	return s.view(ledger)
}

// ApplyPromo applies a promo code to the session's cart. Unknown codes
// return cart.ErrUnknownPromoCode.
func (s *CartService) ApplyPromo(sessionID, code string) (CartView, error) {
	ledger := s.sessions.Ledger(sessionID)
	if err := ledger.ApplyPromo(code); err != nil {
		return CartView{}, err
	}
	return s.view(ledger), nil
}

func (s *CartService) view(ledger *cart.Ledger) CartView {
	return CartView{
		Items:     ledger.Items(),
		PromoCode: ledger.PromoCode(),
		Totals:    ledger.Totals(),
	}
}
