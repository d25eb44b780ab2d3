package db

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"rose-booking/internal/apperr"
	"rose-booking/internal/database"
	"rose-booking/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func New(bunDB *bun.DB) *DB {
	return &DB{Bun: bunDB}
}

// ---------------- RESTAURANTS ----------------

func (d *DB) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	restaurants := []models.Restaurant{}
	err := database.Conn(ctx, d.Bun).NewSelect().
		Model(&restaurants).
		Order("rest.id ASC").
		Scan(ctx)
	return restaurants, err
}

func (d *DB) GetRestaurant(ctx context.Context, id int64) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := database.Conn(ctx, d.Bun).NewSelect().
		Model(&restaurant).
		Where("rest.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, apperr.NotFoundIfNoRows(err, "restaurant not found")
	}
	return &restaurant, nil
}

func (d *DB) CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	restaurant.CreatedAt = time.Now()
	_, err := database.Conn(ctx, d.Bun).NewInsert().Model(restaurant).Exec(ctx)
	return err
}

// DeleteRestaurant removes the restaurant together with its tables, categories
// and menu items. Rows referencing removed tables or items (reservations,
// orders, cart lines) are removed as well so no orphan keeps a dangling id.
func (d *DB) DeleteRestaurant(ctx context.Context, id int64) error {
	return database.RunInTx(ctx, d.Bun, func(ctx context.Context) error {
		if _, err := d.GetRestaurant(ctx, id); err != nil {
			return err
		}
		conn := database.Conn(ctx, d.Bun)

		tableIDs := conn.NewSelect().Model((*models.Table)(nil)).Column("id").Where("restaurant_id = ?", id)
		categoryIDs := conn.NewSelect().Model((*models.Category)(nil)).Column("id").Where("restaurant_id = ?", id)
		itemIDs := conn.NewSelect().Model((*models.MenuItem)(nil)).Column("id").Where("category_id IN (?)", categoryIDs)
		orderIDs := conn.NewSelect().Model((*models.Order)(nil)).Column("id").Where("table_id IN (?)", tableIDs)

		steps := []struct {
			name string
			q    *bun.DeleteQuery
		}{
			{"order items", conn.NewDelete().Model((*models.OrderItem)(nil)).
				Where("order_id IN (?) OR menu_item_id IN (?)", orderIDs, itemIDs)},
			{"orders", conn.NewDelete().Model((*models.Order)(nil)).Where("table_id IN (?)", tableIDs)},
			{"reservations", conn.NewDelete().Model((*models.Reservation)(nil)).Where("table_id IN (?)", tableIDs)},
			{"cart items", conn.NewDelete().Model((*models.CartItem)(nil)).Where("menu_item_id IN (?)", itemIDs)},
			{"menu items", conn.NewDelete().Model((*models.MenuItem)(nil)).Where("category_id IN (?)", categoryIDs)},
			{"categories", conn.NewDelete().Model((*models.Category)(nil)).Where("restaurant_id = ?", id)},
			{"tables", conn.NewDelete().Model((*models.Table)(nil)).Where("restaurant_id = ?", id)},
			{"restaurant", conn.NewDelete().Model((*models.Restaurant)(nil)).Where("id = ?", id)},
		}
		for _, step := range steps {
			if _, err := step.q.Exec(ctx); err != nil {
				return fmt.Errorf("failed to delete %s: %w", step.name, err)
			}
		}
		return nil
	})
}

// ---------------- TABLES ----------------

func (d *DB) ListTables(ctx context.Context, restaurantID int64) ([]models.Table, error) {
	tables := []models.Table{}
	err := database.Conn(ctx, d.Bun).NewSelect().
		Model(&tables).
		Where("rt.restaurant_id = ?", restaurantID).
		Order("rt.capacity ASC", "rt.id ASC").
		Scan(ctx)
	return tables, err
}

// GetTable loads a table with its restaurant.
func (d *DB) GetTable(ctx context.Context, id int64) (*models.Table, error) {
	var table models.Table
	err := database.Conn(ctx, d.Bun).NewSelect().
		Model(&table).
		Relation("Restaurant").
		Where("rt.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, apperr.NotFoundIfNoRows(err, "table not found")
	}
	return &table, nil
}

func (d *DB) CreateTable(ctx context.Context, table *models.Table) error {
	_, err := database.Conn(ctx, d.Bun).NewInsert().Model(table).Exec(ctx)
	return err
}

// ---------------- MENU ----------------

func (d *DB) CreateCategory(ctx context.Context, category *models.Category) error {
	_, err := database.Conn(ctx, d.Bun).NewInsert().Model(category).Exec(ctx)
	return err
}

func (d *DB) ListCategories(ctx context.Context, restaurantID int64) ([]models.Category, error) {
	categories := []models.Category{}
	err := database.Conn(ctx, d.Bun).NewSelect().
		Model(&categories).
		Where("cat.restaurant_id = ?", restaurantID).
		Order("cat.id ASC").
		Scan(ctx)
	return categories, err
}

func (d *DB) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := database.Conn(ctx, d.Bun).NewSelect().
		Model(&category).
		Where("cat.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, apperr.NotFoundIfNoRows(err, "category not found")
	}
	return &category, nil
}

// ListMenuItems returns items of the given categories; onlyAvailable hides items marked unavailable.
func (d *DB) ListMenuItems(ctx context.Context, categoryIDs []int64, onlyAvailable bool) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	if len(categoryIDs) == 0 {
		return items, nil
	}
	q := database.Conn(ctx, d.Bun).NewSelect().
		Model(&items).
		Where("mi.category_id IN (?)", bun.In(categoryIDs)).
		Order("mi.id ASC")
	if onlyAvailable {
		q = q.Where("mi.available = ?", true)
	}
	err := q.Scan(ctx)
	return items, err
}

func (d *DB) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	var item models.MenuItem
	err := database.Conn(ctx, d.Bun).NewSelect().
		Model(&item).
		Where("mi.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, apperr.NotFoundIfNoRows(err, "menu item not found")
	}
	return &item, nil
}

func (d *DB) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	_, err := database.Conn(ctx, d.Bun).NewInsert().Model(item).Exec(ctx)
	return err
}

func (d *DB) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	item.UpdatedAt = time.Now()
	_, err := database.Conn(ctx, d.Bun).NewUpdate().
		Model(item).
		Column("image", "title", "description", "fee", "available", "category_id", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}
