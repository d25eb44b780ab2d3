package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Reservation keeps date and hour as the strings the API receives.
type Reservation struct {
	bun.BaseModel `bun:"table:reservations,alias:rsv"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	TableID      int64     `bun:"table_id,notnull" json:"tableId"`
	Date         string    `bun:"date,notnull" json:"date"`
	Hour         string    `bun:"hour,notnull" json:"hour"`
	Duration     int       `bun:"duration,notnull" json:"duration"`
	People       int       `bun:"people,notnull" json:"people"`
	Phone        string    `bun:"phone,notnull" json:"phone"`
	Description  string    `bun:"description" json:"description,omitempty"`
	TrackingCode string    `bun:"tracking_code,notnull,unique" json:"trackingCode"`
	ClientID     int64     `bun:"client_id,notnull" json:"clientId"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`

	Table *Table `bun:"-" json:"table,omitempty"`
}

type CheckAvailabilityRequest struct {
	Date         string `json:"date" validate:"required"`
	Hour         string `json:"hour" validate:"required"`
	Duration     int    `json:"duration" validate:"required,min=1"`
	People       int    `json:"people" validate:"required,min=1"`
	RestaurantID int64  `json:"restaurantId" validate:"required,min=1"`
}

type CreateReservationRequest struct {
	TableID     int64  `json:"tableId" validate:"required,min=1"`
	Date        string `json:"date" validate:"required"`
	Hour        string `json:"hour" validate:"required"`
	Duration    int    `json:"duration" validate:"required,min=1"`
	People      int    `json:"people" validate:"required,min=1"`
	Phone       string `json:"phone" validate:"required,max=15"`
	FullName    string `json:"fullName" validate:"required,max=100"`
	Description string `json:"description,omitempty"`
}

type CreateReservationResponse struct {
	TrackingCode string `json:"trackingCode"`
}

// UpdateReservationRequest is a partial update; nil fields are left untouched.
type UpdateReservationRequest struct {
	TableID     *int64  `json:"tableId,omitempty" validate:"omitempty,min=1"`
	Date        *string `json:"date,omitempty"`
	Hour        *string `json:"hour,omitempty"`
	Duration    *int    `json:"duration,omitempty" validate:"omitempty,min=1"`
	People      *int    `json:"people,omitempty" validate:"omitempty,min=1"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=15"`
	Description *string `json:"description,omitempty"`
}

type ReservationFilter struct {
	Search        string
	CreatedAfter  string
	CreatedBefore string
}
