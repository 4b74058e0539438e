package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Response is already committed; nothing useful to do
		return
	}
}

// writeError translates a service error into the standard error envelope.
// Authorization failures are 401 for anonymous callers and 403 for
// authenticated ones.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{
			Error:   model.ErrCodeValidation,
			Message: "Request validation failed",
			Fields:  verr.Fields,
		})
		return
	}

	var derr *model.DomainError
	if errors.As(err, &derr) {
		status := http.StatusInternalServerError
		code := derr.Code
		switch derr.Code {
		case model.ErrCodeConflict:
			status = http.StatusConflict
		case model.ErrCodeNotFound:
			status = http.StatusNotFound
		case model.ErrCodeUnauthorized:
			if middleware.ActorFromContext(r.Context()).Anonymous() {
				status = http.StatusUnauthorized
			} else {
				status = http.StatusForbidden
				code = model.ErrCodeForbidden
			}
		}
		writeJSON(w, status, model.ErrorResponse{
			Error:   code,
			Message: derr.Message,
			Field:   derr.Field,
		})
		return
	}

	logger.Error().Err(err).Str("path", r.URL.Path).Msg("handler error")
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error:   model.ErrCodeInternal,
		Message: "internal server error",
	})
}

// writeNotFound reports an absent resource on a read path.
func writeNotFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, model.ErrorResponse{
		Error:   model.ErrCodeNotFound,
		Message: message,
	})
}

// decodeJSON decodes the request body, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeBadRequest reports a malformed request before validation runs.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
		Error:   model.ErrCodeValidation,
		Message: message,
	})
}

// pathID parses the {id} path segment as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}

// queryPage parses page and perPage query parameters. Out-of-range
// values are normalised by the service, not rejected here.
func queryPage(r *http.Request) model.PageRequest {
	return model.PageRequest{
		Page:    queryInt(r, "page"),
		PerPage: queryInt(r, "perPage"),
	}
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	if err != nil {
		return false
	}
	return v
}

func queryBoolPtr(r *http.Request, key string) *bool {
	if r.URL.Query().Get(key) == "" {
		return nil
	}
	v := queryBool(r, key)
	return &v
}

func queryFloatPtr(r *http.Request, key string) *float64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func queryUUIDPtr(r *http.Request, key string) *uuid.UUID {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &v
}

func querySort(r *http.Request) (string, model.SortDirection) {
	dir := model.SortAsc
	if r.URL.Query().Get("sortDir") == string(model.SortDesc) {
		dir = model.SortDesc
	}
	return r.URL.Query().Get("sortBy"), dir
}
