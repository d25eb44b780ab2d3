package models

import (
	"time"

	"github.com/uptrace/bun"
)

// CartItem is one line of a session's in-progress order. Rows are kept with
// Ordered=true once an order consumes them.
type CartItem struct {
	bun.BaseModel `bun:"table:cart_items,alias:ci"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	MenuItemID int64     `bun:"menu_item_id,notnull" json:"menuItemId"`
	MenuItem   *MenuItem `bun:"rel:belongs-to,join:menu_item_id=id" json:"menuItem,omitempty"`
	Quantity   int       `bun:"quantity,notnull" json:"quantity"`
	SessionID  string    `bun:"session_id,notnull" json:"sessionId"`
	Ordered    bool      `bun:"ordered,notnull" json:"ordered"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

type AddToCartRequest struct {
	MenuItemID int64 `json:"menuItemId" validate:"required,min=1"`
	Quantity   int   `json:"quantity" validate:"omitempty,min=1"`
}

type AddMultipleItemsRequest struct {
	Items []AddToCartRequest `json:"items" validate:"required,min=1,dive"`
}
