package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// CategoryHandler handles category HTTP requests.
type CategoryHandler struct {
	service service.CategoryService
	logger  zerolog.Logger
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(service service.CategoryService, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  logger.With().Str("handler", "category").Logger(),
	}
}

// List handles GET /api/categories requests with pagination.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	sortBy, sortDir := querySort(r)
	filter := model.CategoryFilter{
		Name:           r.URL.Query().Get("name"),
		ParentID:       queryUUIDPtr(r, "parentId"),
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

// GetByID handles GET /api/categories/{id} requests.
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid category id")
		return
	}

	category, err := h.service.GetByID(r.Context(), middleware.ActorFromContext(r.Context()), id, queryBool(r, "includeDeleted"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if category == nil {
		writeNotFound(w, "Category not found")
		return
	}

	writeJSON(w, http.StatusOK, category)
}

// Create handles POST /api/categories requests.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	category, err := h.service.Create(r.Context(), middleware.ActorFromContext(r.Context()), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

// Update handles PUT /api/categories/{id} requests.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid category id")
		return
	}

	var req model.UpdateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	category, err := h.service.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, category)
}

// Delete handles DELETE /api/categories/{id} requests. A category still
// referenced by any product, tombstoned products included, answers 409.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid category id")
		return
	}

	category, err := h.service.Delete(r.Context(), middleware.ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, category)
}

// Restore handles POST /api/categories/{id}/restore requests. Restoring
// an id with no tombstone is a no-op answered with 204.
func (h *CategoryHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid category id")
		return
	}

	category, err := h.service.Restore(r.Context(), middleware.ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if category == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, category)
}
