package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Client is identified solely by phone number.
type Client struct {
	bun.BaseModel `bun:"table:clients,alias:cl"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	FullName  string    `bun:"full_name,notnull" json:"fullName"`
	Phone     string    `bun:"phone,notnull,unique" json:"phone"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}
