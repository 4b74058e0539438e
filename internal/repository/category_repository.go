package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const categoryColumns = "id, name, slug, parent_id, created_at, updated_at, deleted_at"

// categoryRepository implements the CategoryRepository interface using PostgreSQL.
type categoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) CategoryRepository {
	return &categoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "category").Logger(),
	}
}

func scanCategory(row pgx.Row) (*model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Insert persists a new category.
func (r *categoryRepository) Insert(ctx context.Context, category *model.Category) error {
	query := `
		INSERT INTO categories (id, name, slug, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		category.ID, category.Name, category.Slug, category.ParentID,
		category.CreatedAt, category.UpdatedAt)
	if err != nil {
		if translated := translateError(err); isDomainError(translated) {
			return translated
		}
		r.logger.Error().Err(err).Str("category_id", category.ID.String()).Msg("failed to insert category")
		return fmt.Errorf("failed to insert category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by ID, honouring tombstone visibility.
func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Category, error) {
	query := fmt.Sprintf("SELECT %s FROM categories WHERE id = $1", categoryColumns)
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	c, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("category_id", id.String()).Msg("failed to query category")
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return c, nil
}

// GetDeletedByID retrieves a category by ID requiring a tombstone.
func (r *categoryRepository) GetDeletedByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	query := fmt.Sprintf("SELECT %s FROM categories WHERE id = $1 AND deleted_at IS NOT NULL", categoryColumns)

	c, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("category_id", id.String()).Msg("failed to query deleted category")
		return nil, fmt.Errorf("failed to query deleted category: %w", err)
	}

	return c, nil
}

// List retrieves one page of categories matching the filter.
func (r *categoryRepository) List(ctx context.Context, filter model.CategoryFilter, limit, offset int) ([]model.Category, error) {
	fq := buildCategoryQuery(filter)
	query := fmt.Sprintf("SELECT %s FROM categories%s%s LIMIT $%d OFFSET $%d",
		categoryColumns, fq.where(),
		orderClause(filter.SortBy, filter.SortDir, categorySortColumns, "name"),
		fq.next(), fq.next()+1)
	args := append(fq.args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating category rows")
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// Count counts all categories matching the filter.
func (r *categoryRepository) Count(ctx context.Context, filter model.CategoryFilter) (int, error) {
	fq := buildCategoryQuery(filter)
	query := "SELECT COUNT(*) FROM categories" + fq.where()

	var count int
	if err := r.pool.QueryRow(ctx, query, fq.args...).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count categories")
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}

	return count, nil
}

// Update rewrites an existing category.
func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	query := `
		UPDATE categories
		SET name = $1, slug = $2, parent_id = $3, updated_at = $4
		WHERE id = $5
	`

	tag, err := r.pool.Exec(ctx, query,
		category.Name, category.Slug, category.ParentID, category.UpdatedAt, category.ID)
	if err != nil {
		if translated := translateError(err); isDomainError(translated) {
			return translated
		}
		r.logger.Error().Err(err).Str("category_id", category.ID.String()).Msg("failed to update category")
		return fmt.Errorf("failed to update category: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}

	return nil
}

// SoftDelete tombstones an active category and returns its final state.
// The referential guard against assigned products lives in the service
// layer; this method only flips the tombstone.
func (r *categoryRepository) SoftDelete(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	query := fmt.Sprintf(`
		UPDATE categories SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING %s
	`, categoryColumns)

	c, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("category_id", id.String()).Msg("failed to soft-delete category")
		return nil, fmt.Errorf("failed to soft-delete category: %w", err)
	}

	return c, nil
}

// Restore clears the tombstone of a deleted category.
func (r *categoryRepository) Restore(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	query := fmt.Sprintf(`
		UPDATE categories SET deleted_at = NULL, updated_at = now()
		WHERE id = $1 AND deleted_at IS NOT NULL
		RETURNING %s
	`, categoryColumns)

	c, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if translated := translateError(err); isDomainError(translated) {
			return nil, translated
		}
		r.logger.Error().Err(err).Str("category_id", id.String()).Msg("failed to restore category")
		return nil, fmt.Errorf("failed to restore category: %w", err)
	}

	return c, nil
}

// FindActiveCollider finds an active category other than excludeID
// holding the given name or slug.
func (r *categoryRepository) FindActiveCollider(ctx context.Context, excludeID uuid.UUID, name, slug string) (*model.Category, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM categories
		WHERE deleted_at IS NULL AND id <> $1 AND (name = $2 OR slug = $3)
		LIMIT 1
	`, categoryColumns)

	c, err := scanCategory(r.pool.QueryRow(ctx, query, excludeID, name, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("category_id", excludeID.String()).Msg("failed to scan for name collision")
		return nil, fmt.Errorf("failed to scan for name collision: %w", err)
	}

	return c, nil
}

// ExistsActive reports whether an active category has the ID.
func (r *categoryRepository) ExistsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1 AND deleted_at IS NULL)"

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		r.logger.Error().Err(err).Str("category_id", id.String()).Msg("failed to check category existence")
		return false, fmt.Errorf("failed to check category existence: %w", err)
	}

	return exists, nil
}
