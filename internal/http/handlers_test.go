package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/cache"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/cart"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/domain"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/repository"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/service"
)

const testTimeout = 5 * time.Second

type stubRepository struct {
	m        sync.RWMutex
	products []domain.Product
	err      error
}

func (s *stubRepository) List(context.Context) ([]domain.Product, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *stubRepository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, repository.ErrInvalidProductID
	}
	s.m.RLock()
	defer s.m.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.products {
		if s.products[i].ID.Hex() == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (s *stubRepository) Create(_ context.Context, p *domain.Product) (string, error) {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return "", s.err
	}
	p.ID = primitive.NewObjectID()
	s.products = append(s.products, *p)
	return p.ID.Hex(), nil
}

func (s *stubRepository) Update(_ context.Context, id string, p *domain.Product) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return repository.ErrInvalidProductID
	}
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return s.err
	}
	for i := range s.products {
		if s.products[i].ID.Hex() == id {
			p.ID = s.products[i].ID
			s.products[i] = *p
			return nil
		}
	}
	return repository.ErrProductNotFound
}

func (s *stubRepository) Delete(_ context.Context, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return repository.ErrInvalidProductID
	}
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return s.err
	}
	for i := range s.products {
		if s.products[i].ID.Hex() == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return repository.ErrProductNotFound
}

// stubCache always misses so handler tests exercise the repository path.
type stubCache struct{}

func (stubCache) Get(context.Context) ([]domain.Product, error) { return nil, cache.ErrCacheMiss }
func (stubCache) Set(context.Context, []domain.Product) error   { return nil }
func (stubCache) Delete(context.Context) error                  { return nil }

type stubUploader struct {
	m     sync.Mutex
	urls  []string
	calls int
	err   error
}

func (s *stubUploader) Upload(_ context.Context, filename string, file io.Reader) (string, error) {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return "", s.err
	}
	io.Copy(io.Discard, file)
	url := "https://res.cloudinary.com/demo/products/" + filename
	s.urls = append(s.urls, url)
	s.calls++
	return url, nil
}

type fixture struct {
	router   *chi.Mux
	repo     *stubRepository
	uploader *stubUploader
}

// newFixture wires the full handler stack over stub infrastructure, with the
// same route layout the server mounts.
func newFixture(t *testing.T, products ...domain.Product) *fixture {
	t.Helper()

	repo := &stubRepository{products: products}
	catalogSvc := service.NewCatalogService(repo, stubCache{})

	sessions := cart.NewSessionStore()
	t.Cleanup(sessions.Close)
	cartSvc := service.NewCartService(catalogSvc, sessions)
	checkoutSvc := service.NewCheckoutService(cartSvc, nil, "+250780612354")

	uploader := &stubUploader{}

	catalogHandler := NewCatalogHandler(catalogSvc, testTimeout)
	cartHandler := NewCartHandler(cartSvc, testTimeout)
	checkoutHandler := NewCheckoutHandler(checkoutSvc, testTimeout)
	adminHandler := NewAdminHandler(catalogSvc, uploader, testTimeout)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.GetProducts)
			r.Get("/featured", catalogHandler.GetFeatured)
			r.Get("/{id}", catalogHandler.GetProduct)
		})
		r.Get("/facets", catalogHandler.GetFacets)

		r.Route("/cart", func(r chi.Router) {
			r.Use(SessionMiddleware)
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Post("/promo", cartHandler.ApplyPromo)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(SessionMiddleware)
			r.Post("/whatsapp", checkoutHandler.WhatsAppCheckout)
			r.Get("/call", checkoutHandler.CallToOrder)
		})
	})
	r.Route("/admin", func(r chi.Router) {
		r.Use(MockAdminMiddleware)
		r.Get("/products", adminHandler.ListProducts)
		r.Post("/products", adminHandler.CreateProduct)
		r.Put("/products/{id}", adminHandler.UpdateProduct)
		r.Delete("/products/{id}", adminHandler.DeleteProduct)
	})

	return &fixture{router: r, repo: repo, uploader: uploader}
}

// do runs one request through the router. A non-empty sessionID is sent via
// the X-Session-ID header, the same way the storefront client pins a session.
func (f *fixture) do(t *testing.T, method, target, sessionID string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if body != nil && method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) doJSON(t *testing.T, method, target, sessionID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	return f.do(t, method, target, sessionID, reader)
}

func storefrontProduct(name, brand, category string, price float64) domain.Product {
	return domain.Product{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Brand:    brand,
		Category: category,
		Price:    price,
		Images:   []string{"https://cdn.example.com/p.jpg"},
		Image:    "https://cdn.example.com/p.jpg",
	}
}

func requireJSON(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
