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

func (d *DB) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	var item models.MenuItem
	err := database.Conn(ctx, d.Bun).NewSelect().
		Model(&item).
		Where("mi.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, apperr.NotFoundIfNoRows(err, fmt.Sprintf("menu item %d not found", id))
	}
	return &item, nil
}

// FindOpenItem returns the session's un-ordered line for a menu item, or nil.
func (d *DB) FindOpenItem(ctx context.Context, sessionID string, menuItemID int64) (*models.CartItem, error) {
	var items []models.CartItem
	err := database.Conn(ctx, d.Bun).NewSelect().
		Model(&items).
		Where("ci.session_id = ?", sessionID).
		Where("ci.menu_item_id = ?", menuItemID).
		Where("ci.ordered = ?", false).
		Order("ci.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}

func (d *DB) InsertItem(ctx context.Context, item *models.CartItem) error {
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	_, err := database.Conn(ctx, d.Bun).NewInsert().Model(item).Exec(ctx)
	return err
}

func (d *DB) UpdateQuantity(ctx context.Context, item *models.CartItem) error {
	item.UpdatedAt = time.Now()
	_, err := database.Conn(ctx, d.Bun).NewUpdate().
		Model(item).
		Column("quantity", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

// OpenItems returns the session's un-ordered lines with their menu items, oldest first.
func (d *DB) OpenItems(ctx context.Context, sessionID string) ([]models.CartItem, error) {
	items := []models.CartItem{}
	err := database.Conn(ctx, d.Bun).NewSelect().
		Model(&items).
		Relation("MenuItem").
		Where("ci.session_id = ?", sessionID).
		Where("ci.ordered = ?", false).
		Order("ci.id ASC").
		Scan(ctx)
	return items, err
}

// DeleteOpenItem removes one un-ordered line owned by the session.
func (d *DB) DeleteOpenItem(ctx context.Context, id int64, sessionID string) error {
	res, err := database.Conn(ctx, d.Bun).NewDelete().
		Model((*models.CartItem)(nil)).
		Where("id = ?", id).
		Where("session_id = ?", sessionID).
		Where("ordered = ?", false).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("cart item not found")
	}
	return nil
}

func (d *DB) DeleteOpenItems(ctx context.Context, sessionID string) (int64, error) {
	res, err := database.Conn(ctx, d.Bun).NewDelete().
		Model((*models.CartItem)(nil)).
		Where("session_id = ?", sessionID).
		Where("ordered = ?", false).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}
	return res.RowsAffected()
}

// MarkOrdered flips the given lines to ordered. Lines already ordered are left
// alone, so the count tells the caller whether someone else got there first.
func (d *DB) MarkOrdered(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := database.Conn(ctx, d.Bun).NewUpdate().
		Model((*models.CartItem)(nil)).
		Set("ordered = ?", true).
		Set("updated_at = ?", time.Now()).
		Where("id IN (?)", bun.In(ids)).
		Where("ordered = ?", false).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to mark cart items ordered: %w", err)
	}
	return res.RowsAffected()
}
