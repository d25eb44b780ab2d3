package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	CustomerName string    `bun:"customer_name,notnull" json:"customerName"`
	PhoneNumber  string    `bun:"phone_number,notnull" json:"phoneNumber"`
	Description  string    `bun:"description" json:"description,omitempty"`
	TotalPrice   int64     `bun:"total_price,notnull" json:"totalPrice"`
	TrackingCode string    `bun:"tracking_code,notnull,unique" json:"trackingCode"`
	ClientID     int64     `bun:"client_id,notnull" json:"clientId"`
	TableID      int64     `bun:"table_id,notnull" json:"tableId"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`

	Items []OrderItem `bun:"-" json:"items"`
	Table *Table      `bun:"-" json:"table,omitempty"`
}

// OrderItem.Fee is the menu item price captured when the order was placed.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	OrderID    int64     `bun:"order_id,notnull" json:"orderId"`
	MenuItemID int64     `bun:"menu_item_id,notnull" json:"menuItemId"`
	MenuItem   *MenuItem `bun:"rel:belongs-to,join:menu_item_id=id" json:"menuItem,omitempty"`
	Quantity   int       `bun:"quantity,notnull" json:"quantity"`
	Fee        int64     `bun:"fee,notnull" json:"fee"`
}

type PlaceOrderRequest struct {
	CustomerName string `json:"customerName" validate:"required,max=100"`
	PhoneNumber  string `json:"phoneNumber" validate:"required,max=15"`
	Description  string `json:"description,omitempty"`
	TableID      int64  `json:"tableId" validate:"required,min=1"`
}
