package repository

import (
	"context"
	"errors"

	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/domain"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidProductID = errors.New("invalid product id")
)

// ProductRepository defines the interface for product data operations.
// Consumers define this interface, not the MongoDB implementation.
type ProductRepository interface {
	// List returns every product, newest first.
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	// Create inserts the product and returns its assigned id.
	Create(ctx context.Context, p *domain.Product) (string, error)
	Update(ctx context.Context, id string, p *domain.Product) error
	Delete(ctx context.Context, id string) error
}
