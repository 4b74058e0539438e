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

const productColumns = "id, name, slug, description, price, stock, category_id, created_at, updated_at, deleted_at"

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Stock,
		&p.CategoryID, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Insert persists a new product.
func (r *productRepository) Insert(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (id, name, slug, description, price, stock, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID, product.Name, product.Slug, product.Description, product.Price,
		product.Stock, product.CategoryID, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		if translated := translateError(err); isDomainError(translated) {
			return translated
		}
		r.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to insert product")
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by ID, honouring tombstone visibility.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// GetDeletedByID retrieves a product by ID requiring a tombstone.
func (r *productRepository) GetDeletedByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1 AND deleted_at IS NOT NULL", productColumns)

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query deleted product")
		return nil, fmt.Errorf("failed to query deleted product: %w", err)
	}

	return p, nil
}

// List retrieves one page of products matching the filter.
func (r *productRepository) List(ctx context.Context, filter model.ProductFilter, limit, offset int) ([]model.Product, error) {
	fq := buildProductQuery(filter)
	query := fmt.Sprintf("SELECT %s FROM products%s%s LIMIT $%d OFFSET $%d",
		productColumns, fq.where(),
		orderClause(filter.SortBy, filter.SortDir, productSortColumns, "name"),
		fq.next(), fq.next()+1)
	args := append(fq.args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Count counts all products matching the filter.
func (r *productRepository) Count(ctx context.Context, filter model.ProductFilter) (int, error) {
	fq := buildProductQuery(filter)
	query := "SELECT COUNT(*) FROM products" + fq.where()

	var count int
	if err := r.pool.QueryRow(ctx, query, fq.args...).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

// Update rewrites an existing product.
func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	query := `
		UPDATE products
		SET name = $1, slug = $2, description = $3, price = $4, stock = $5, category_id = $6, updated_at = $7
		WHERE id = $8
	`

	tag, err := r.pool.Exec(ctx, query,
		product.Name, product.Slug, product.Description, product.Price,
		product.Stock, product.CategoryID, product.UpdatedAt, product.ID)
	if err != nil {
		if translated := translateError(err); isDomainError(translated) {
			return translated
		}
		r.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

// SoftDelete tombstones an active product and returns its final state.
func (r *productRepository) SoftDelete(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := fmt.Sprintf(`
		UPDATE products SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING %s
	`, productColumns)

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to soft-delete product")
		return nil, fmt.Errorf("failed to soft-delete product: %w", err)
	}

	return p, nil
}

// Restore clears the tombstone of a deleted product. The partial unique
// indexes on name and slug still arbitrate concurrent restores.
func (r *productRepository) Restore(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := fmt.Sprintf(`
		UPDATE products SET deleted_at = NULL, updated_at = now()
		WHERE id = $1 AND deleted_at IS NOT NULL
		RETURNING %s
	`, productColumns)

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if translated := translateError(err); isDomainError(translated) {
			return nil, translated
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to restore product")
		return nil, fmt.Errorf("failed to restore product: %w", err)
	}

	return p, nil
}

// FindActiveCollider finds an active product other than excludeID holding
// the given name or slug. A collision on either field blocks a restore.
func (r *productRepository) FindActiveCollider(ctx context.Context, excludeID uuid.UUID, name, slug string) (*model.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE deleted_at IS NULL AND id <> $1 AND (name = $2 OR slug = $3)
		LIMIT 1
	`, productColumns)

	p, err := scanProduct(r.pool.QueryRow(ctx, query, excludeID, name, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", excludeID.String()).Msg("failed to scan for name collision")
		return nil, fmt.Errorf("failed to scan for name collision: %w", err)
	}

	return p, nil
}

// CountByCategory counts every product referencing the category,
// including tombstoned products.
func (r *productRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	query := "SELECT COUNT(*) FROM products WHERE category_id = $1"

	var count int
	if err := r.pool.QueryRow(ctx, query, categoryID).Scan(&count); err != nil {
		r.logger.Error().Err(err).Str("category_id", categoryID.String()).Msg("failed to count products by category")
		return 0, fmt.Errorf("failed to count products by category: %w", err)
	}

	return count, nil
}
