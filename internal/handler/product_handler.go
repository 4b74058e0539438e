package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles catalogue item HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products requests with pagination.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	sortBy, sortDir := querySort(r)
	filter := model.ProductFilter{
		Name:           r.URL.Query().Get("name"),
		CategoryID:     queryUUIDPtr(r, "categoryId"),
		MinPrice:       queryFloatPtr(r, "minPrice"),
		MaxPrice:       queryFloatPtr(r, "maxPrice"),
		InStock:        queryBoolPtr(r, "inStock"),
		IncludeDeleted: queryBool(r, "includeDeleted"),
		SortBy:         sortBy,
		SortDir:        sortDir,
		PageRequest:    queryPage(r),
	}

	page, err := h.service.List(r.Context(), middleware.ActorFromContext(r.Context()), filter)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid product id")
		return
	}

	product, err := h.service.GetByID(r.Context(), middleware.ActorFromContext(r.Context()), id, queryBool(r, "includeDeleted"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if product == nil {
		writeNotFound(w, "Product not found")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Create handles POST /api/products requests.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	product, err := h.service.Create(r.Context(), middleware.ActorFromContext(r.Context()), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id} requests.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid product id")
		return
	}

	var req model.UpdateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	product, err := h.service.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id} requests.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid product id")
		return
	}

	product, err := h.service.Delete(r.Context(), middleware.ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Restore handles POST /api/products/{id}/restore requests. Restoring
// an id with no tombstone is a no-op answered with 204.
func (h *ProductHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid product id")
		return
	}

	product, err := h.service.Restore(r.Context(), middleware.ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if product == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, product)
}
