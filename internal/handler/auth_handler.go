package handler

import (
	"net/http"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// AuthHandler handles account registration and credential sign-in.
type AuthHandler struct {
	users  service.UserService
	tokens *auth.JWTer
	logger zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(users service.UserService, tokens *auth.JWTer, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		logger: logger.With().Str("handler", "auth").Logger(),
	}
}

// LoginResponse carries the bearer token and the authenticated account.
type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register handles POST /api/auth/register requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	user, err := h.users.Authenticate(r.Context(), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	token, err := h.tokens.Issue(user.ID.String(), user.IsAdmin)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: user})
}
