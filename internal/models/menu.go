package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID           int64      `bun:"id,pk,autoincrement" json:"id"`
	Name         string     `bun:"name,notnull,unique:restaurant_category" json:"name"`
	Icon         string     `bun:"icon" json:"icon,omitempty"`
	RestaurantID int64      `bun:"restaurant_id,notnull,unique:restaurant_category" json:"restaurantId"`
	Items        []MenuItem `bun:"-" json:"items,omitempty"`
}

type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items,alias:mi"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Image       string    `bun:"image" json:"image,omitempty"`
	Title       string    `bun:"title,notnull" json:"title"`
	Description string    `bun:"description" json:"description,omitempty"`
	Fee         int64     `bun:"fee,notnull" json:"fee"`
	Available   bool      `bun:"available,notnull" json:"available"`
	CategoryID  int64     `bun:"category_id,notnull" json:"categoryId"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=255"`
	Icon string `json:"icon,omitempty"`
}

type CreateMenuItemRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Fee         int64  `json:"fee" validate:"min=0"`
	Available   *bool  `json:"available,omitempty"`
	CategoryID  int64  `json:"categoryId" validate:"required,min=1"`
}

// UpdateMenuItemRequest is a partial update. Fee changes never touch orders
// already placed.
type UpdateMenuItemRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
	Fee         *int64  `json:"fee,omitempty" validate:"omitempty,min=0"`
	Available   *bool   `json:"available,omitempty"`
}
