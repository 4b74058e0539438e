package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// UserHandler handles account-related HTTP requests.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("handler", "user").Logger(),
	}
}

// List handles GET /api/users requests with pagination.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	sortBy, sortDir := querySort(r)
	filter := model.UserFilter{
		Email:          r.URL.Query().Get("email"),
		Name:           r.URL.Query().Get("name"),
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

// GetByID handles GET /api/users/{id} requests.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}

	user, err := h.service.GetByID(r.Context(), middleware.ActorFromContext(r.Context()), id, queryBool(r, "includeDeleted"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if user == nil {
		writeNotFound(w, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Update handles PUT /api/users/{id} requests.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}

	var req model.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	user, err := h.service.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// ChangePassword handles PUT /api/users/{id}/password requests.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}

	var req model.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if err := h.service.ChangePassword(r.Context(), middleware.ActorFromContext(r.Context()), id, req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/users/{id} requests.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}

	user, err := h.service.Delete(r.Context(), middleware.ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Restore handles POST /api/users/{id}/restore requests. Restoring an
// id with no tombstone is a no-op answered with 204.
func (h *UserHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}

	user, err := h.service.Restore(r.Context(), middleware.ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if user == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
