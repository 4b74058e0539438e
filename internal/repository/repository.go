package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// Insert persists a new user. A duplicate active email surfaces as a
	// conflict domain error.
	Insert(ctx context.Context, user *model.User) error

	// GetByID retrieves a user by ID. Tombstoned users are only visible
	// when includeDeleted is true. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.User, error)

	// GetByEmail retrieves the active user holding the email, if any.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetDeletedByID retrieves a user by ID requiring a tombstone.
	// Returns (nil, nil) when the user is absent or active.
	GetDeletedByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// List retrieves one page of users matching the filter.
	List(ctx context.Context, filter model.UserFilter, limit, offset int) ([]model.User, error)

	// Count counts all users matching the filter.
	Count(ctx context.Context, filter model.UserFilter) (int, error)

	// Update rewrites the profile fields of an existing user.
	Update(ctx context.Context, user *model.User) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// SoftDelete tombstones an active user and returns its final state.
	// Returns (nil, nil) when no active user has the ID.
	SoftDelete(ctx context.Context, id uuid.UUID) (*model.User, error)

	// Restore clears the tombstone of a deleted user. Returns (nil, nil)
	// when no tombstoned user has the ID. A store-level uniqueness
	// violation surfaces as a conflict domain error.
	Restore(ctx context.Context, id uuid.UUID) (*model.User, error)

	// FindActiveCollider finds an active user other than excludeID that
	// holds the given email. Returns (nil, nil) when there is none.
	FindActiveCollider(ctx context.Context, excludeID uuid.UUID, email string) (*model.User, error)
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	Insert(ctx context.Context, product *model.Product) error

	GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Product, error)

	GetDeletedByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	List(ctx context.Context, filter model.ProductFilter, limit, offset int) ([]model.Product, error)

	Count(ctx context.Context, filter model.ProductFilter) (int, error)

	Update(ctx context.Context, product *model.Product) error

	SoftDelete(ctx context.Context, id uuid.UUID) (*model.Product, error)

	Restore(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// FindActiveCollider finds an active product other than excludeID
	// holding the given name or slug. Returns (nil, nil) when there is
	// none.
	FindActiveCollider(ctx context.Context, excludeID uuid.UUID, name, slug string) (*model.Product, error)

	// CountByCategory counts every product referencing the category,
	// including tombstoned products.
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)
}

// CategoryRepository defines the interface for category data access operations.
type CategoryRepository interface {
	Insert(ctx context.Context, category *model.Category) error

	GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Category, error)

	GetDeletedByID(ctx context.Context, id uuid.UUID) (*model.Category, error)

	List(ctx context.Context, filter model.CategoryFilter, limit, offset int) ([]model.Category, error)

	Count(ctx context.Context, filter model.CategoryFilter) (int, error)

	Update(ctx context.Context, category *model.Category) error

	SoftDelete(ctx context.Context, id uuid.UUID) (*model.Category, error)

	Restore(ctx context.Context, id uuid.UUID) (*model.Category, error)

	FindActiveCollider(ctx context.Context, excludeID uuid.UUID, name, slug string) (*model.Category, error)

	// ExistsActive reports whether an active category has the ID.
	ExistsActive(ctx context.Context, id uuid.UUID) (bool, error)
}
