package model

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalogue item. Name and Slug are unique among
// active products only; tombstoned products may share them.
type Product struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Slug        string     `json:"slug" db:"slug"`
	Description string     `json:"description" db:"description"`
	Price       float64    `json:"price" db:"price"`
	Stock       int        `json:"stock" db:"stock"`
	CategoryID  uuid.UUID  `json:"categoryId" db:"category_id"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// Active reports whether the product carries no tombstone.
func (p *Product) Active() bool {
	return p.DeletedAt == nil
}

// CreateProductRequest represents the payload for creating a product.
type CreateProductRequest struct {
	Name        string    `json:"name" validate:"required,min=1,max=255"`
	Description string    `json:"description" validate:"max=2000"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Stock       int       `json:"stock" validate:"gte=0"`
	CategoryID  uuid.UUID `json:"categoryId" validate:"required"`
}

// UpdateProductRequest represents a partial product update. Nil fields
// are left unchanged; changing Name recomputes the slug.
type UpdateProductRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price       *float64   `json:"price,omitempty" validate:"omitempty,gt=0"`
	Stock       *int       `json:"stock,omitempty" validate:"omitempty,gte=0"`
	CategoryID  *uuid.UUID `json:"categoryId,omitempty"`
}
