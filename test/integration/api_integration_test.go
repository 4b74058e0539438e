package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/auth"
	"storefront/internal/handler"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	userRepo := repository.NewUserRepository(testDB.Pool, logger)
	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	categoryRepo := repository.NewCategoryRepository(testDB.Pool, logger)

	gate := service.NewGate(logger)
	userService := service.NewUserService(userRepo, gate, logger)
	productService := service.NewProductService(productRepo, categoryRepo, gate, logger)
	categoryService := service.NewCategoryService(categoryRepo, productRepo, gate, logger)

	tokens := &auth.JWTer{Secret: []byte("integration-secret"), Issuer: "storefront", TTL: time.Hour}
	authHandler := handler.NewAuthHandler(userService, tokens, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	productHandler := handler.NewProductHandler(productService, logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, logger)

	return router.New(authHandler, userHandler, productHandler, categoryHandler, tokens, logger)
}

// seedAdmin inserts an admin account and returns its id.
func seedAdmin(t *testing.T, testDB *TestDB, email, password string) uuid.UUID {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	id := uuid.New()
	_, err = testDB.Pool.Exec(context.Background(),
		`INSERT INTO users (id, email, password_hash, first_name, last_name, is_admin)
		 VALUES ($1, $2, $3, 'Admin', 'User', TRUE)`,
		id, email, hash,
	)
	require.NoError(t, err)
	return id
}

func login(t *testing.T, server http.Handler, email, password string) string {
	t.Helper()

	body, _ := json.Marshal(model.LoginRequest{Email: email, Password: password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp handler.LoginResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func doJSON(server http.Handler, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestAPI_ProductLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	CleanupDB(t, testDB.Pool)
	seedAdmin(t, testDB, "admin@example.com", "admin-password")
	token := login(t, server, "admin@example.com", "admin-password")

	// Create a category to hang products off
	w := doJSON(server, http.MethodPost, "/api/categories", token, model.CreateCategoryRequest{Name: "Furniture"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var category model.Category
	require.NoError(t, json.NewDecoder(w.Body).Decode(&category))
	assert.Equal(t, "furniture", category.Slug)

	t.Run("Create, delete, recreate under the same name", func(t *testing.T) {
		w := doJSON(server, http.MethodPost, "/api/products", token, model.CreateProductRequest{
			Name: "Chair", Price: 49.99, Stock: 3, CategoryID: category.ID,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var chair model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&chair))
		assert.Equal(t, "chair", chair.Slug)

		w = doJSON(server, http.MethodDelete, "/api/products/"+chair.ID.String(), token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		// A tombstoned product no longer blocks its name
		w = doJSON(server, http.MethodPost, "/api/products", token, model.CreateProductRequest{
			Name: "Chair", Price: 59.99, Stock: 1, CategoryID: category.ID,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		// Restoring the original now collides on its name
		w = doJSON(server, http.MethodPost, "/api/products/"+chair.ID.String()+"/restore", token, nil)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
		var errResp model.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
		assert.Equal(t, model.ErrCodeConflict, errResp.Error)
		assert.Equal(t, "name", errResp.Field)
	})

	t.Run("Guest reads are public, mutations are not", func(t *testing.T) {
		w := doJSON(server, http.MethodGet, "/api/products", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(server, http.MethodPost, "/api/products", "", model.CreateProductRequest{
			Name: "Table", Price: 99.99, CategoryID: category.ID,
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Listing carries the page envelope", func(t *testing.T) {
		w := doJSON(server, http.MethodGet, "/api/products?page=1&perPage=10", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var page model.Page[model.Product]
		require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
		assert.Equal(t, page.TotalCount, page.ShownEntryCount)
		assert.False(t, page.HasPrev)
	})
}

func TestAPI_CategoryDeleteGuard(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	CleanupDB(t, testDB.Pool)
	seedAdmin(t, testDB, "admin@example.com", "admin-password")
	token := login(t, server, "admin@example.com", "admin-password")

	w := doJSON(server, http.MethodPost, "/api/categories", token, model.CreateCategoryRequest{Name: "Outdoor"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var category model.Category
	require.NoError(t, json.NewDecoder(w.Body).Decode(&category))

	w = doJSON(server, http.MethodPost, "/api/products", token, model.CreateProductRequest{
		Name: "Bench", Price: 79.99, CategoryID: category.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var bench model.Product
	require.NoError(t, json.NewDecoder(w.Body).Decode(&bench))

	// Tombstone the product; the category is still pinned by it
	w = doJSON(server, http.MethodDelete, "/api/products/"+bench.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(server, http.MethodDelete, "/api/categories/"+category.ID.String(), token, nil)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	var errResp model.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
	assert.Equal(t, model.ErrCodeConflict, errResp.Error)
}

func TestAPI_UserLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	CleanupDB(t, testDB.Pool)
	seedAdmin(t, testDB, "admin@example.com", "admin-password")
	adminToken := login(t, server, "admin@example.com", "admin-password")

	register := func(email string) model.User {
		w := doJSON(server, http.MethodPost, "/api/auth/register", "", model.RegisterUserRequest{
			Email: email, Password: "user-password", FirstName: "Jane", LastName: "Doe",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var u model.User
		require.NoError(t, json.NewDecoder(w.Body).Decode(&u))
		return u
	}

	t.Run("Deleted email can register again, restore then collides", func(t *testing.T) {
		first := register("jane@example.com")

		w := doJSON(server, http.MethodDelete, "/api/users/"+first.ID.String(), adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		register("jane@example.com")

		w = doJSON(server, http.MethodPost, "/api/users/"+first.ID.String()+"/restore", adminToken, nil)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
		var errResp model.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
		assert.Equal(t, "email", errResp.Field)
	})

	t.Run("A user cannot read another user's profile", func(t *testing.T) {
		alice := register("alice@example.com")
		bob := register("bob@example.com")
		aliceToken := login(t, server, "alice@example.com", "user-password")

		w := doJSON(server, http.MethodGet, "/api/users/"+bob.ID.String(), aliceToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = doJSON(server, http.MethodGet, "/api/users/"+alice.ID.String(), aliceToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Password change is self-only", func(t *testing.T) {
		carol := register("carol@example.com")
		carolToken := login(t, server, "carol@example.com", "user-password")

		// Admin on behalf is refused
		w := doJSON(server, http.MethodPut, fmt.Sprintf("/api/users/%s/password", carol.ID), adminToken, model.ChangePasswordRequest{
			CurrentPassword: "user-password", NewPassword: "replacement-pass",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = doJSON(server, http.MethodPut, fmt.Sprintf("/api/users/%s/password", carol.ID), carolToken, model.ChangePasswordRequest{
			CurrentPassword: "user-password", NewPassword: "replacement-pass",
		})
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		login(t, server, "carol@example.com", "replacement-pass")
	})

	t.Run("Restore with no tombstone is a no-op", func(t *testing.T) {
		dave := register("dave@example.com")

		w := doJSON(server, http.MethodPost, "/api/users/"+dave.ID.String()+"/restore", adminToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
