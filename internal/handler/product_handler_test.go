package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductService is a mock implementation of service.ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetByID(ctx context.Context, actor service.Actor, id uuid.UUID, includeDeleted bool) (*model.Product, error) {
	args := m.Called(ctx, actor, id, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) List(ctx context.Context, actor service.Actor, filter model.ProductFilter) (model.Page[model.Product], error) {
	args := m.Called(ctx, actor, filter)
	return args.Get(0).(model.Page[model.Product]), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, actor service.Actor, req model.CreateProductRequest) (*model.Product, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, actor service.Actor, id uuid.UUID, req model.UpdateProductRequest) (*model.Product, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, actor service.Actor, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Restore(ctx context.Context, actor service.Actor, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func newProductServer(svc service.ProductService) http.Handler {
	h := NewProductHandler(svc, zerolog.Nop())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", h.List)
	mux.HandleFunc("GET /api/products/{id}", h.GetByID)
	mux.HandleFunc("POST /api/products", h.Create)
	mux.HandleFunc("POST /api/products/{id}/restore", h.Restore)
	return mux
}

func asActor(req *http.Request, actor service.Actor) *http.Request {
	return req.WithContext(middleware.WithActor(req.Context(), actor))
}

func TestProductHandler_GetByID(t *testing.T) {
	id := uuid.New()

	t.Run("Found product is returned", func(t *testing.T) {
		svc := new(MockProductService)
		server := newProductServer(svc)

		svc.On("GetByID", mock.Anything, mock.Anything, id, false).
			Return(&model.Product{ID: id, Name: "Chair"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/products/"+id.String(), nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var p model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
		assert.Equal(t, "Chair", p.Name)
	})

	t.Run("Absent product is 404", func(t *testing.T) {
		svc := new(MockProductService)
		server := newProductServer(svc)

		svc.On("GetByID", mock.Anything, mock.Anything, id, false).Return(nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/products/"+id.String(), nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Malformed id is 400", func(t *testing.T) {
		svc := new(MockProductService)
		server := newProductServer(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/products/not-a-uuid", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProductHandler_Create(t *testing.T) {
	categoryID := uuid.New()
	payload := model.CreateProductRequest{Name: "Chair", Price: 49.99, CategoryID: categoryID}

	t.Run("Created product answers 201", func(t *testing.T) {
		svc := new(MockProductService)
		server := newProductServer(svc)

		svc.On("Create", mock.Anything, mock.Anything, payload).
			Return(&model.Product{ID: uuid.New(), Name: "Chair", Slug: "chair"}, nil)

		body, _ := json.Marshal(payload)
		req := asActor(httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body)),
			service.Actor{ID: uuid.New(), Admin: true})
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Denial maps to 401 for anonymous callers", func(t *testing.T) {
		svc := new(MockProductService)
		server := newProductServer(svc)

		svc.On("Create", mock.Anything, mock.Anything, payload).Return(nil, model.ErrUnauthorized)

		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body))
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Denial maps to 403 for authenticated callers", func(t *testing.T) {
		svc := new(MockProductService)
		server := newProductServer(svc)

		svc.On("Create", mock.Anything, mock.Anything, payload).Return(nil, model.ErrUnauthorized)

		body, _ := json.Marshal(payload)
		req := asActor(httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body)),
			service.Actor{ID: uuid.New()})
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		var resp model.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, model.ErrCodeForbidden, resp.Error)
	})

	t.Run("Conflict maps to 409 naming the field", func(t *testing.T) {
		svc := new(MockProductService)
		server := newProductServer(svc)

		svc.On("Create", mock.Anything, mock.Anything, payload).
			Return(nil, model.NewConflictError("name", "An active record already holds this name"))

		body, _ := json.Marshal(payload)
		req := asActor(httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body)),
			service.Actor{ID: uuid.New(), Admin: true})
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		var resp model.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "name", resp.Field)
	})

	t.Run("Validation failure maps to 422 with field details", func(t *testing.T) {
		svc := new(MockProductService)
		server := newProductServer(svc)

		bad := model.CreateProductRequest{Name: ""}
		svc.On("Create", mock.Anything, mock.Anything, bad).
			Return(nil, &model.ValidationError{Fields: []model.FieldError{
				{Path: "name", Message: "name is required"},
				{Path: "price", Message: "price must be greater than 0"},
			}})

		body, _ := json.Marshal(bad)
		req := asActor(httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body)),
			service.Actor{ID: uuid.New(), Admin: true})
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var resp model.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Len(t, resp.Fields, 2)
	})

	t.Run("Unknown body fields are rejected", func(t *testing.T) {
		svc := new(MockProductService)
		server := newProductServer(svc)

		req := asActor(httptest.NewRequest(http.MethodPost, "/api/products",
			bytes.NewReader([]byte(`{"name": "Chair", "surprise": true}`))),
			service.Actor{ID: uuid.New(), Admin: true})
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProductHandler_Restore(t *testing.T) {
	id := uuid.New()

	t.Run("Restored product is returned", func(t *testing.T) {
		svc := new(MockProductService)
		server := newProductServer(svc)

		svc.On("Restore", mock.Anything, mock.Anything, id).
			Return(&model.Product{ID: id, Name: "Chair"}, nil)

		req := asActor(httptest.NewRequest(http.MethodPost, "/api/products/"+id.String()+"/restore", nil),
			service.Actor{ID: uuid.New(), Admin: true})
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("No tombstone answers 204", func(t *testing.T) {
		svc := new(MockProductService)
		server := newProductServer(svc)

		svc.On("Restore", mock.Anything, mock.Anything, id).Return(nil, nil)

		req := asActor(httptest.NewRequest(http.MethodPost, "/api/products/"+id.String()+"/restore", nil),
			service.Actor{ID: uuid.New(), Admin: true})
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestProductHandler_List(t *testing.T) {
	t.Run("Query parameters populate the filter", func(t *testing.T) {
		svc := new(MockProductService)
		server := newProductServer(svc)

		svc.On("List", mock.Anything, mock.Anything, mock.MatchedBy(func(f model.ProductFilter) bool {
			return f.Name == "chair" &&
				f.MinPrice != nil && *f.MinPrice == 10 &&
				f.InStock != nil && *f.InStock &&
				f.Page == 2 && f.PerPage == 50
		})).Return(model.NewPage([]model.Product{}, 0, model.PageRequest{Page: 2, PerPage: 50}), nil)

		req := httptest.NewRequest(http.MethodGet,
			"/api/products?name=chair&minPrice=10&inStock=true&page=2&perPage=50", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})
}
