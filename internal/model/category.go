package model

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a catalogue grouping. Categories form a tree via
// ParentID; a category cannot be soft-deleted while any product, even a
// tombstoned one, still references it.
type Category struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Slug      string     `json:"slug" db:"slug"`
	ParentID  *uuid.UUID `json:"parentId,omitempty" db:"parent_id"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// Active reports whether the category carries no tombstone.
func (c *Category) Active() bool {
	return c.DeletedAt == nil
}

// CreateCategoryRequest represents the payload for creating a category.
type CreateCategoryRequest struct {
	Name     string     `json:"name" validate:"required,min=1,max=100"`
	ParentID *uuid.UUID `json:"parentId,omitempty"`
}

// UpdateCategoryRequest represents a partial category update. Nil fields
// are left unchanged; changing Name recomputes the slug.
type UpdateCategoryRequest struct {
	Name     *string    `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	ParentID *uuid.UUID `json:"parentId,omitempty"`
}
