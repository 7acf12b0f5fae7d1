package transport

import (
	"errors"
	"net/http"
	"strings"

	"linkshelf/internal/middleware"
	"linkshelf/internal/repository"
	"linkshelf/internal/service"
	"linkshelf/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for the product catalog
type ProductHandler struct {
	catalog  service.CatalogService
	images   *storage.ImageStore
	maxBytes int64
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, images *storage.ImageStore, maxBytes int64, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		images:   images,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Get("/api/products", h.List)
	r.Get("/api/products/{id}", h.Get)
	r.Get("/api/categories", h.Categories)

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Post("/api/products", h.Create)
		r.Put("/api/products/{id}", h.Update)
		r.Delete("/api/products/{id}", h.Delete)
	})
}

// List returns the catalog, newest first, with optional ?q= substring
// and ?category= filters
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.ListFilter{
		Text:     r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}

	products, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Get returns a single product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Categories returns the distinct categories for filter options
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// Create adds a product from a multipart form with an optional image
// upload or image_url
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.productInput(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.Create(r.Context(), input)
	if err != nil {
		h.respondCatalogError(w, err, "failed to create product")
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update edits a product. Without an image upload or image_url the
// stored image reference is kept.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	input, ok := h.productInput(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.Update(r.Context(), id, input)
	if err != nil {
		h.respondCatalogError(w, err, "failed to update product")
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete removes a product and its click history
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// productInput reads the submitted form fields and resolves the image
// reference: a valid upload wins, then an explicit image_url, then
// empty (meaning "keep what is stored" on edits).
func (h *ProductHandler) productInput(w http.ResponseWriter, r *http.Request) (service.ProductInput, bool) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxBytes); err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid form data")
			return service.ProductInput{}, false
		}
	} else {
		if err := r.ParseForm(); err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid form data")
			return service.ProductInput{}, false
		}
	}

	input := service.ProductInput{
		Name:         r.FormValue("name"),
		Price:        r.FormValue("price"),
		Category:     r.FormValue("category"),
		Link:         r.FormValue("link"),
		Description:  r.FormValue("description"),
		SKU:          r.FormValue("sku"),
		Source:       r.FormValue("source"),
		Availability: r.FormValue("availability"),
	}

	if r.MultipartForm != nil {
		if file, header, err := r.FormFile("image"); err == nil {
			defer file.Close()

			if storage.Allowed(header.Filename) {
				name, err := h.images.Save(header.Filename, file)
				if err != nil {
					h.logger.Error("Failed to save image upload", zap.Error(err))
					middleware.RespondWithError(w, http.StatusInternalServerError, "failed to save image")
					return service.ProductInput{}, false
				}
				input.Image = name
			} else {
				h.logger.Debug("Ignoring upload with disallowed extension",
					zap.String("filename", header.Filename),
				)
			}
		}
	}

	if input.Image == "" {
		input.Image = r.FormValue("image_url")
	}

	return input, true
}

func (h *ProductHandler) respondCatalogError(w http.ResponseWriter, err error, fallback string) {
	if ve, ok := service.AsValidationError(err); ok {
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, "validation failed", map[string]interface{}{
			"field":  ve.Field,
			"reason": ve.Message,
		})
		return
	}
	if errors.Is(err, repository.ErrProductNotFound) {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	h.logger.Error(fallback, zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
}
