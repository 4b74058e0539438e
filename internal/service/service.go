package service

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// UserService defines account lifecycle operations. Every method runs
// behind the authorization gate except Register and Authenticate, which
// serve guests.
type UserService interface {
	// Register creates an active account after validation; a duplicate
	// active email is a conflict.
	Register(ctx context.Context, req model.RegisterUserRequest) (*model.User, error)

	// Authenticate verifies credentials against the active account
	// holding the email.
	Authenticate(ctx context.Context, req model.LoginRequest) (*model.User, error)

	// GetByID retrieves a profile; self or admin. Returns (nil, nil)
	// when absent. includeDeleted is honoured for admins only.
	GetByID(ctx context.Context, actor Actor, id uuid.UUID, includeDeleted bool) (*model.User, error)

	// GetByEmail retrieves the active account holding the email; admin
	// only. Returns (nil, nil) when absent.
	GetByEmail(ctx context.Context, actor Actor, email string) (*model.User, error)

	// List retrieves a page of accounts; admin only.
	List(ctx context.Context, actor Actor, filter model.UserFilter) (model.Page[model.User], error)

	// Update patches a profile; self or admin.
	Update(ctx context.Context, actor Actor, id uuid.UUID, req model.UpdateUserRequest) (*model.User, error)

	// ChangePassword replaces the account password; self only, never
	// admin-on-behalf.
	ChangePassword(ctx context.Context, actor Actor, id uuid.UUID, req model.ChangePasswordRequest) error

	// Delete tombstones an account; self or admin.
	Delete(ctx context.Context, actor Actor, id uuid.UUID) (*model.User, error)

	// Restore clears an account tombstone after re-validating email
	// uniqueness; admin only. Restoring a missing or already-active id
	// is a no-op returning (nil, nil).
	Restore(ctx context.Context, actor Actor, id uuid.UUID) (*model.User, error)
}

// ProductService defines catalogue item lifecycle operations. Reads are
// public; mutations are admin only.
type ProductService interface {
	GetByID(ctx context.Context, actor Actor, id uuid.UUID, includeDeleted bool) (*model.Product, error)

	List(ctx context.Context, actor Actor, filter model.ProductFilter) (model.Page[model.Product], error)

	Create(ctx context.Context, actor Actor, req model.CreateProductRequest) (*model.Product, error)

	Update(ctx context.Context, actor Actor, id uuid.UUID, req model.UpdateProductRequest) (*model.Product, error)

	Delete(ctx context.Context, actor Actor, id uuid.UUID) (*model.Product, error)

	// Restore clears a product tombstone after re-validating name and
	// slug uniqueness against active products.
	Restore(ctx context.Context, actor Actor, id uuid.UUID) (*model.Product, error)
}

// CategoryService defines category lifecycle operations. Reads are
// public; mutations are admin only. A category referenced by any
// product, tombstoned or not, cannot be deleted.
type CategoryService interface {
	GetByID(ctx context.Context, actor Actor, id uuid.UUID, includeDeleted bool) (*model.Category, error)

	List(ctx context.Context, actor Actor, filter model.CategoryFilter) (model.Page[model.Category], error)

	Create(ctx context.Context, actor Actor, req model.CreateCategoryRequest) (*model.Category, error)

	Update(ctx context.Context, actor Actor, id uuid.UUID, req model.UpdateCategoryRequest) (*model.Category, error)

	Delete(ctx context.Context, actor Actor, id uuid.UUID) (*model.Category, error)

	Restore(ctx context.Context, actor Actor, id uuid.UUID) (*model.Category, error)
}
