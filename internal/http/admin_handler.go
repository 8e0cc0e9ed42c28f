package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/domain"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/imagestore"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/repository"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/service"
)

const maxUploadSize = 32 << 20 // 32MB across all images in one form

// AdminHandler serves the product-management console API: multipart
// create/update with image uploads, and delete. Image bytes go straight to
// the external image host; only the returned URLs are stored.
type AdminHandler struct {
	svc      *service.CatalogService
	uploader imagestore.Uploader
	timeout  time.Duration
}

func NewAdminHandler(svc *service.CatalogService, uploader imagestore.Uploader, timeout time.Duration) *AdminHandler {
	return &AdminHandler{
		svc:      svc,
		uploader: uploader,
		timeout:  timeout,
	}
}

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.svc.List(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load products")
		return
	}

	respondJSON(w, http.StatusOK, products)
}

// CreateProduct handles the admin upload form: product fields plus
// image_0..image_N files, all uploaded to the image host before anything is
// written to the database.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid multipart form")
		return
	}

	product, err := productFromForm(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	imageURLs, err := h.uploadImages(ctx, r, "image_%d")
	if err != nil {
		respondError(w, http.StatusBadGateway, "upload_failed", err.Error())
		return
	}
	if len(imageURLs) == 0 {
		respondError(w, http.StatusBadRequest, "missing_images", "at least one image is required")
		return
	}
	product.Images = imageURLs
	product.Image = imageURLs[0]

	id, err := h.svc.Create(ctx, product)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save product")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"id":      id,
		"message": "product uploaded successfully",
	})
}

// UpdateProduct handles the admin edit form: product fields, the surviving
// existing image URLs, and new_image_0..N files to append.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid multipart form")
		return
	}

	product, err := productFromForm(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var existing []string
	if raw := r.FormValue("existing_images"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &existing); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "existing_images must be a JSON array")
			return
		}
	}

	uploaded, err := h.uploadImages(ctx, r, "new_image_%d")
	if err != nil {
		respondError(w, http.StatusBadGateway, "upload_failed", err.Error())
		return
	}

	allImages := append(existing, uploaded...)
	if len(allImages) == 0 {
		respondError(w, http.StatusBadRequest, "missing_images", "at least one image is required")
		return
	}
	product.Images = allImages
	product.Image = allImages[0]

	if err := h.svc.Update(ctx, id, product); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidProductID):
			respondError(w, http.StatusBadRequest, "invalid_product_id", "invalid product ID format")
		case errors.Is(err, repository.ErrProductNotFound):
			respondError(w, http.StatusNotFound, "not_found", "product not found")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to update product")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "product updated successfully"})
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidProductID):
			respondError(w, http.StatusBadRequest, "invalid_product_id", "invalid product ID format")
		case errors.Is(err, repository.ErrProductNotFound):
			respondError(w, http.StatusNotFound, "not_found", "product not found")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete product")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "product deleted successfully"})
}

// productFromForm reads the shared create/update fields. Validation stays at
// type coercion; anything beyond that is the store owner's problem.
func productFromForm(r *http.Request) (*domain.Product, error) {
	p := &domain.Product{
		Name:        r.FormValue("name"),
		Brand:       r.FormValue("brand"),
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
	}
	if p.Name == "" {
		return nil, errors.New("name is required")
	}

	// The edit form sends "none" to clear a badge.
	if badge := r.FormValue("badge"); badge != "" && badge != "none" {
		p.Badge = badge
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		return nil, errors.New("price must be a number")
	}
	p.Price = price

	if v := r.FormValue("original_price"); v != "" {
		original, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.New("original_price must be a number")
		}
		p.OriginalPrice = original
	}

	if v := r.FormValue("rating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.New("rating must be a number")
		}
		p.Rating = rating
	}

	if v := r.FormValue("reviews"); v != "" {
		reviews, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("reviews must be an integer")
		}
		p.Reviews = reviews
	}

	if raw := r.FormValue("specs"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &p.Specs); err != nil {
			return nil, errors.New("specs must be a JSON array of strings")
		}
	}

	return p, nil
}

// uploadImages pushes every file matching the indexed field pattern to the
// image host, in order, stopping at the first gap in the indexes the same
// way the admin form emits them.
func (h *AdminHandler) uploadImages(ctx context.Context, r *http.Request, pattern string) ([]string, error) {
	var urls []string
	for i := 0; ; i++ {
		file, header, err := r.FormFile(fmt.Sprintf(pattern, i))
		if err != nil {
			break
		}

		url, uploadErr := h.uploader.Upload(ctx, header.Filename, file)
		file.Close()
		if uploadErr != nil {
			return nil, fmt.Errorf("failed to upload image %s: %w", header.Filename, uploadErr)
		}
		urls = append(urls, url)
	}
	return urls, nil
}
