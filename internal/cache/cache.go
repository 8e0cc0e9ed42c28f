package cache

import (
	"context"
	"errors"

	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/domain"
)

// CatalogCache fronts the product list. The catalog is read on every
// storefront page, so the whole list is cached as one entry and invalidated
// on any admin write.
type CatalogCache interface {
	Get(ctx context.Context) ([]domain.Product, error)
	Set(ctx context.Context, products []domain.Product) error
	Delete(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
