package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Restaurant struct {
	bun.BaseModel `bun:"table:restaurants,alias:rest"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description" json:"description,omitempty"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// Table is a physical table inside a restaurant.
type Table struct {
	bun.BaseModel `bun:"table:restaurant_tables,alias:rt"`

	ID           int64       `bun:"id,pk,autoincrement" json:"id"`
	Name         string      `bun:"name,notnull" json:"name"`
	Description  string      `bun:"description" json:"description,omitempty"`
	Capacity     int         `bun:"capacity,notnull" json:"capacity"`
	Photo        string      `bun:"photo" json:"photo,omitempty"`
	RestaurantID int64       `bun:"restaurant_id,notnull" json:"restaurantId"`
	Restaurant   *Restaurant `bun:"rel:belongs-to,join:restaurant_id=id" json:"restaurant,omitempty"`
}

type CreateRestaurantRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description,omitempty"`
}

type CreateTableRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description,omitempty"`
	Capacity    int    `json:"capacity" validate:"required,min=1"`
	Photo       string `json:"photo,omitempty"`
}
