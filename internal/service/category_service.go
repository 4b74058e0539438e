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

// categoryService implements CategoryService.
type categoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	gate         *Gate
	logger       zerolog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	gate *Gate,
	logger zerolog.Logger,
) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		gate:         gate,
		logger:       logger.With().Str("service", "category").Logger(),
	}
}

// GetByID retrieves a category. Returns (nil, nil) when absent.
func (s *categoryService) GetByID(ctx context.Context, actor Actor, id uuid.UUID, includeDeleted bool) (*model.Category, error) {
	return s.categoryRepo.GetByID(ctx, id, includeDeleted && actor.Admin)
}

// List retrieves a page of categories. The caller's filter is never
// mutated; visibility defaults are applied to a copy.
func (s *categoryService) List(ctx context.Context, actor Actor, filter model.CategoryFilter) (model.Page[model.Category], error) {
	f := filter
	if !actor.Admin {
		f.IncludeDeleted = false
	}
	f.PageRequest = f.PageRequest.Normalize()

	return fetchPage(ctx, f.PageRequest,
		func(ctx context.Context) (int, error) {
			return s.categoryRepo.Count(ctx, f)
		},
		func(ctx context.Context, limit, offset int) ([]model.Category, error) {
			return s.categoryRepo.List(ctx, f, limit, offset)
		},
	)
}

// Create inserts an active category; admin only. A parent, when given,
// must exist and be active.
func (s *categoryService) Create(ctx context.Context, actor Actor, req model.CreateCategoryRequest) (*model.Category, error) {
	if err := s.gate.RequireAdmin(actor, "category.create"); err != nil {
		return nil, err
	}
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		exists, err := s.categoryRepo.ExistsActive(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, model.ErrCategoryNotFound
		}
	}

	name := strings.TrimSpace(req.Name)
	now := time.Now().UTC()
	category := &model.Category{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug.Make(name),
		ParentID:  req.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.categoryRepo.Insert(ctx, category); err != nil {
		if model.IsConflict(err) {
			s.logger.Warn().Str("name", name).Msg("category creation conflicts with active category")
		}
		return nil, err
	}

	s.logger.Info().Str("category_id", category.ID.String()).Msg("category created")
	return category, nil
}

// Update patches an active category; admin only. A name change
// recomputes the slug.
func (s *categoryService) Update(ctx context.Context, actor Actor, id uuid.UUID, req model.UpdateCategoryRequest) (*model.Category, error) {
	if err := s.gate.RequireAdmin(actor, "category.update"); err != nil {
		return nil, err
	}
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, model.ErrCategoryNotFound
	}

	updated := *category
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != category.Name {
			updated.Name = name
			updated.Slug = slug.Make(name)
		}
	}
	if req.ParentID != nil {
		if *req.ParentID == id {
			return nil, &model.ValidationError{Fields: []model.FieldError{
				{Path: "parentId", Message: "cannot be the category itself"},
			}}
		}
		exists, err := s.categoryRepo.ExistsActive(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, model.ErrCategoryNotFound
		}
		updated.ParentID = req.ParentID
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := s.categoryRepo.Update(ctx, &updated); err != nil {
		if model.IsConflict(err) {
			s.logger.Warn().Str("category_id", id.String()).Msg("category update conflicts with active category")
		}
		return nil, err
	}

	return &updated, nil
}

// Delete tombstones an active category; admin only. A category
// referenced by any product, including tombstoned products, cannot be
// deleted; the reference must be moved first.
func (s *categoryService) Delete(ctx context.Context, actor Actor, id uuid.UUID) (*model.Category, error) {
	if err := s.gate.RequireAdmin(actor, "category.delete"); err != nil {
		return nil, err
	}

	count, err := s.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		s.logger.Warn().
			Str("category_id", id.String()).
			Int("product_count", count).
			Msg("delete blocked: category has assigned products")
		return nil, model.ErrCategoryInUse
	}

	category, err := s.categoryRepo.SoftDelete(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, model.ErrCategoryNotFound
	}

	s.logger.Info().Str("category_id", id.String()).Msg("category soft-deleted")
	return category, nil
}

// Restore clears a category tombstone; admin only.
func (s *categoryService) Restore(ctx context.Context, actor Actor, id uuid.UUID) (*model.Category, error) {
	if err := s.gate.RequireAdmin(actor, "category.restore"); err != nil {
		return nil, err
	}

	record, err := s.categoryRepo.GetDeletedByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		// absent or already active: a no-op, not an error
		return nil, nil
	}

	collider, err := s.categoryRepo.FindActiveCollider(ctx, record.ID, record.Name, record.Slug)
	if err != nil {
		return nil, err
	}
	if collider != nil {
		field := "slug"
		if collider.Name == record.Name {
			field = "name"
		}
		s.logger.Warn().
			Str("category_id", id.String()).
			Str("collider_id", collider.ID.String()).
			Str("field", field).
			Msg("restore blocked: active category holds the value")
		return nil, model.NewConflictError(field, "An active category already holds this "+field)
	}

	restored, err := s.categoryRepo.Restore(ctx, id)
	if err != nil {
		if model.IsConflict(err) {
			s.logger.Warn().Str("category_id", id.String()).Msg("restore lost uniqueness race")
		}
		return nil, err
	}
	if restored == nil {
		return nil, nil
	}

	s.logger.Info().Str("category_id", id.String()).Msg("category restored")
	return restored, nil
}
