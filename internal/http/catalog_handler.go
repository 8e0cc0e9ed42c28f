package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/catalog"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/repository"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/service"
)

type CatalogHandler struct {
	svc     *service.CatalogService
	timeout time.Duration
}

func NewCatalogHandler(svc *service.CatalogService, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		svc:     svc,
		timeout: timeout,
	}
}

// GetProducts serves the product listing page: filter, sort, and paginate
// query params applied over the catalog.
//
//	GET /api/v1/products?search=&category=&brand=&min_price=&max_price=&sort=&page=&page_size=
//
// category and brand repeat for multi-select.
func (h *CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := r.URL.Query()

	spec := catalog.FilterSpec{
		Search:     q.Get("search"),
		Categories: q["category"],
		Brands:     q["brand"],
	}
	if v := q.Get("min_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_price", "min_price must be a number")
			return
		}
		spec.MinPrice = f
	}
	if v := q.Get("max_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_price", "max_price must be a number")
			return
		}
		spec.MaxPrice = f
	}

	page := 1
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	pageSize := catalog.DefaultPageSize
	if v := q.Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pageSize = n
		}
	}

	result, err := h.svc.Query(ctx, spec, catalog.ParseSortKey(q.Get("sort")), page, pageSize)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load products")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetProduct serves the product detail view.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	product, err := h.svc.Get(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidProductID):
			respondError(w, http.StatusBadRequest, "invalid_product_id", "invalid product ID format")
		case errors.Is(err, repository.ErrProductNotFound):
			respondError(w, http.StatusNotFound, "not_found", "product not found")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		}
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// GetFeatured serves the home page highlight strip.
func (h *CatalogHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.svc.Featured(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load products")
		return
	}

	respondJSON(w, http.StatusOK, products)
}

// GetFacets serves the data-derived category and brand counts.
func (h *CatalogHandler) GetFacets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	facets, err := h.svc.Facets(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load facets")
		return
	}

	respondJSON(w, http.StatusOK, facets)
}
