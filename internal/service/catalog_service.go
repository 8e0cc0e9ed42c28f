package service

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/cache"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/catalog"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/domain"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/repository"
)

// FeaturedCount is how many products the home page highlights.
const FeaturedCount = 8

const listKey = "catalog" // singleflight key for the one cached list

// CatalogService serves storefront reads through the cache and routes admin
// writes to the repository, invalidating the cache after each write.
type CatalogService struct {
	repo  repository.ProductRepository
	cache cache.CatalogCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCatalogService(repo repository.ProductRepository, cache cache.CatalogCache) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
	}
}

// List returns the full catalog, newest first. Concurrent cache misses are
// collapsed into a single repository read.
func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do(listKey, func() (interface{}, error) {

		products, err := s.cache.Get(ctx)
		if err == nil {
			return products, nil // catalog is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		products, errList := s.repo.List(ctx)
		if errList != nil {
			return nil, errList
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), products)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return products, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]domain.Product), nil
}

// Query runs the catalog query engine over the cached list.
func (s *CatalogService) Query(ctx context.Context, spec catalog.FilterSpec, key catalog.SortKey, page, pageSize int) (catalog.Page, error) {
	products, err := s.List(ctx)
	if err != nil {
		return catalog.Page{}, err
	}
	return catalog.Query(products, spec, key, page, pageSize), nil
}

// Facets returns the facet index for the current catalog.
func (s *CatalogService) Facets(ctx context.Context) (catalog.Facets, error) {
	products, err := s.List(ctx)
	if err != nil {
		return catalog.Facets{}, err
	}
	return catalog.BuildFacets(products), nil
}

// Featured returns the newest products shown on the home page.
func (s *CatalogService) Featured(ctx context.Context) ([]domain.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) > FeaturedCount {
		products = products[:FeaturedCount]
	}
	return products, nil
}

// Get fetches a single product straight from the repository.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Create inserts a product and invalidates the cached list.
func (s *CatalogService) Create(ctx context.Context, p *domain.Product) (string, error) {
	id, err := s.repo.Create(ctx, p)
	if err != nil {
		log.Printf("repo create product error: %v \n", err)
		return "", err
	}

	s.invalidateCache()
	return id, nil
}

// Update rewrites a product and invalidates the cached list.
func (s *CatalogService) Update(ctx context.Context, id string, p *domain.Product) error {
	if err := s.repo.Update(ctx, id, p); err != nil {
		log.Printf("repo update product error: %v \n", err)
		return err
	}

	s.invalidateCache()
	return nil
}

// Delete removes a product and invalidates the cached list.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		log.Printf("repo delete product error: %v \n", err)
		return err
	}

	s.invalidateCache()
	return nil
}

func (s *CatalogService) invalidateCache() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx); err != nil {
		log.Printf("cache invalidate error: %v \n", err)
	}
}
