package analytics

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"rose-booking/internal/database"
	"rose-booking/internal/models"
)

// DB handles analytics database operations
type DB struct {
	bun *bun.DB
}

// NewDB creates a new analytics DB handler
func NewDB(db *bun.DB) *DB {
	return &DB{bun: db}
}

func (db *DB) RestaurantExists(ctx context.Context, restaurantID int64) (bool, error) {
	return database.Conn(ctx, db.bun).NewSelect().
		Model((*models.Restaurant)(nil)).
		Where("rest.id = ?", restaurantID).
		Exists(ctx)
}

// CountTables counts every table of the restaurant.
func (db *DB) CountTables(ctx context.Context, restaurantID int64) (int, error) {
	return database.Conn(ctx, db.bun).NewSelect().
		Model((*models.Table)(nil)).
		Where("rt.restaurant_id = ?", restaurantID).
		Count(ctx)
}

// CountMenuItems counts menu items of the restaurant, split into total and available.
func (db *DB) CountMenuItems(ctx context.Context, restaurantID int64) (total int, available int, err error) {
	err = database.Conn(ctx, db.bun).NewRaw(`
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN mi.available THEN 1 ELSE 0 END), 0) AS available
		FROM menu_items AS mi
		JOIN categories AS cat ON cat.id = mi.category_id
		WHERE cat.restaurant_id = ?
	`, restaurantID).Scan(ctx, &total, &available)
	return total, available, err
}

// ReservationsOnDate returns the restaurant's reservations stored under the date string.
func (db *DB) ReservationsOnDate(ctx context.Context, restaurantID int64, date string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := database.Conn(ctx, db.bun).NewSelect().
		Model(&reservations).
		Join("JOIN restaurant_tables AS rt ON rt.id = rsv.table_id").
		Where("rt.restaurant_id = ?", restaurantID).
		Where("rsv.date = ?", date).
		Order("rsv.hour ASC").
		Scan(ctx)
	return reservations, err
}

// OrdersBetween returns orders placed at the restaurant's tables in [from, to).
func (db *DB) OrdersBetween(ctx context.Context, restaurantID int64, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := database.Conn(ctx, db.bun).NewSelect().
		Model(&orders).
		Join("JOIN restaurant_tables AS rt ON rt.id = o.table_id").
		Where("rt.restaurant_id = ?", restaurantID).
		Where("o.created_at >= ?", from.UTC()).
		Where("o.created_at < ?", to.UTC()).
		Order("o.created_at ASC").
		Scan(ctx)
	return orders, err
}

// TopMenuItems sums ordered quantities per menu item, best sellers first.
func (db *DB) TopMenuItems(ctx context.Context, restaurantID int64, from, to time.Time, limit int) ([]MenuItemSales, error) {
	var rows []MenuItemSales
	err := database.Conn(ctx, db.bun).NewRaw(`
		SELECT
			oi.menu_item_id AS menu_item_id,
			mi.title AS title,
			SUM(oi.quantity) AS quantity,
			SUM(oi.quantity * oi.fee) AS revenue
		FROM order_items AS oi
		JOIN orders AS o ON o.id = oi.order_id
		JOIN restaurant_tables AS rt ON rt.id = o.table_id
		JOIN menu_items AS mi ON mi.id = oi.menu_item_id
		WHERE rt.restaurant_id = ?
			AND o.created_at >= ?
			AND o.created_at < ?
		GROUP BY oi.menu_item_id, mi.title
		ORDER BY quantity DESC, oi.menu_item_id ASC
		LIMIT ?
	`, restaurantID, from.UTC(), to.UTC(), limit).Scan(ctx, &rows)
	return rows, err
}
