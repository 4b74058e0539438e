package service

import (
	"context"
	"strings"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	gate         *Gate
	logger       zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	gate *Gate,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		gate:         gate,
		logger:       logger.With().Str("service", "product").Logger(),
	}
}

// GetByID retrieves a product. Tombstoned products are only visible to
// admins asking for them explicitly. Returns (nil, nil) when absent.
func (s *productService) GetByID(ctx context.Context, actor Actor, id uuid.UUID, includeDeleted bool) (*model.Product, error) {
	return s.productRepo.GetByID(ctx, id, includeDeleted && actor.Admin)
}

// List retrieves a page of products. The caller's filter is never
// mutated; visibility defaults are applied to a copy.
func (s *productService) List(ctx context.Context, actor Actor, filter model.ProductFilter) (model.Page[model.Product], error) {
	f := filter
	if !actor.Admin {
		f.IncludeDeleted = false
	}
	f.PageRequest = f.PageRequest.Normalize()

	return fetchPage(ctx, f.PageRequest,
		func(ctx context.Context) (int, error) {
			return s.productRepo.Count(ctx, f)
		},
		func(ctx context.Context, limit, offset int) ([]model.Product, error) {
			return s.productRepo.List(ctx, f, limit, offset)
		},
	)
}

// Create inserts an active product; admin only. The category must exist
// and be active.
func (s *productService) Create(ctx context.Context, actor Actor, req model.CreateProductRequest) (*model.Product, error) {
	if err := s.gate.RequireAdmin(actor, "product.create"); err != nil {
		return nil, err
	}
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	exists, err := s.categoryRepo.ExistsActive(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrCategoryNotFound
	}

	name := strings.TrimSpace(req.Name)
	now := time.Now().UTC()
	product := &model.Product{
		ID:          uuid.New(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Insert(ctx, product); err != nil {
		if model.IsConflict(err) {
			s.logger.Warn().Str("name", name).Msg("product creation conflicts with active product")
		}
		return nil, err
	}

	s.logger.Info().Str("product_id", product.ID.String()).Msg("product created")
	return product, nil
}

// Update patches an active product; admin only. A name change
// recomputes the slug; collisions are resolved by the uniqueness check,
// not by the slug function.
func (s *productService) Update(ctx context.Context, actor Actor, id uuid.UUID, req model.UpdateProductRequest) (*model.Product, error) {
	if err := s.gate.RequireAdmin(actor, "product.update"); err != nil {
		return nil, err
	}
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	updated := *product
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != product.Name {
			updated.Name = name
			updated.Slug = slug.Make(name)
		}
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Price != nil {
		updated.Price = *req.Price
	}
	if req.Stock != nil {
		updated.Stock = *req.Stock
	}
	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		exists, err := s.categoryRepo.ExistsActive(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, model.ErrCategoryNotFound
		}
		updated.CategoryID = *req.CategoryID
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := s.productRepo.Update(ctx, &updated); err != nil {
		if model.IsConflict(err) {
			s.logger.Warn().Str("product_id", id.String()).Msg("product update conflicts with active product")
		}
		return nil, err
	}

	return &updated, nil
}

// Delete tombstones an active product; admin only.
func (s *productService) Delete(ctx context.Context, actor Actor, id uuid.UUID) (*model.Product, error) {
	if err := s.gate.RequireAdmin(actor, "product.delete"); err != nil {
		return nil, err
	}

	product, err := s.productRepo.SoftDelete(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product soft-deleted")
	return product, nil
}

// Restore clears a product tombstone; admin only. A collision on either
// name or slug with any active product blocks the restore; the partial
// unique indexes remain the backstop under races.
func (s *productService) Restore(ctx context.Context, actor Actor, id uuid.UUID) (*model.Product, error) {
	if err := s.gate.RequireAdmin(actor, "product.restore"); err != nil {
		return nil, err
	}

	record, err := s.productRepo.GetDeletedByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		// absent or already active: a no-op, not an error
		return nil, nil
	}

	collider, err := s.productRepo.FindActiveCollider(ctx, record.ID, record.Name, record.Slug)
	if err != nil {
		return nil, err
	}
	if collider != nil {
		field := "slug"
		if collider.Name == record.Name {
			field = "name"
		}
		s.logger.Warn().
			Str("product_id", id.String()).
			Str("collider_id", collider.ID.String()).
			Str("field", field).
			Msg("restore blocked: active product holds the value")
		return nil, model.NewConflictError(field, "An active product already holds this "+field)
	}

	restored, err := s.productRepo.Restore(ctx, id)
	if err != nil {
		if model.IsConflict(err) {
			s.logger.Warn().Str("product_id", id.String()).Msg("restore lost uniqueness race")
		}
		return nil, err
	}
	if restored == nil {
		return nil, nil
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product restored")
	return restored, nil
}
