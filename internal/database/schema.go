package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"rose-booking/internal/models"
)

// Models in creation order; parents before children.
var schemaModels = []interface{}{
	(*models.Restaurant)(nil),
	(*models.Table)(nil),
	(*models.Category)(nil),
	(*models.MenuItem)(nil),
	(*models.Client)(nil),
	(*models.Reservation)(nil),
	(*models.CartItem)(nil),
	(*models.Order)(nil),
	(*models.OrderItem)(nil),
}

// CreateSchema builds the schema from the bun models. Used for sqlite, where the
// embedded postgres migrations do not apply.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range schemaModels {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}

	indexes := []struct {
		model   interface{}
		name    string
		columns []string
	}{
		{(*models.Reservation)(nil), "reservations_table_date_idx", []string{"table_id", "date"}},
		{(*models.CartItem)(nil), "cart_items_session_idx", []string{"session_id", "ordered"}},
		{(*models.Order)(nil), "orders_phone_idx", []string{"phone_number"}},
	}
	for _, idx := range indexes {
		if _, err := db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column(idx.columns...).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}
