package db

import (
	"context"
	"fmt"
	"strings"
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

// ---------------- ORDERS ----------------

// CreateOrder inserts the order and its items; item rows get the order id.
func (d *DB) CreateOrder(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	conn := database.Conn(ctx, d.Bun)
	if _, err := conn.NewInsert().Model(order).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	if len(order.Items) == 0 {
		return nil
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	if _, err := conn.NewInsert().Model(&order.Items).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}
	return nil
}

func (d *DB) TrackingCodeExists(ctx context.Context, code string) (bool, error) {
	return database.Conn(ctx, d.Bun).NewSelect().
		Model((*models.Order)(nil)).
		Where("o.tracking_code = ?", code).
		Exists(ctx)
}

// GetOrderByID loads an order with its items and table.
func (d *DB) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := database.Conn(ctx, d.Bun).NewSelect().
		Model(&order).
		Where("o.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, apperr.NotFoundIfNoRows(err, "order not found")
	}
	return &order, d.attach(ctx, []*models.Order{&order})
}

func (d *DB) GetOrderByTrackingCode(ctx context.Context, code string) (*models.Order, error) {
	var order models.Order
	err := database.Conn(ctx, d.Bun).NewSelect().
		Model(&order).
		Where("o.tracking_code = ?", strings.ToUpper(code)).
		Scan(ctx)
	if err != nil {
		return nil, apperr.NotFoundIfNoRows(err, "order not found")
	}
	return &order, d.attach(ctx, []*models.Order{&order})
}

// ListOrders returns orders newest first; an empty phone lists every order.
func (d *DB) ListOrders(ctx context.Context, phone string) ([]models.Order, error) {
	orders := []models.Order{}
	q := database.Conn(ctx, d.Bun).NewSelect().
		Model(&orders).
		Order("o.created_at DESC", "o.id DESC")
	if phone != "" {
		q = q.Where("o.phone_number = ?", phone)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	ptrs := make([]*models.Order, len(orders))
	for i := range orders {
		ptrs[i] = &orders[i]
	}
	return orders, d.attach(ctx, ptrs)
}

// DeleteOrder removes the order and its items.
func (d *DB) DeleteOrder(ctx context.Context, id int64) error {
	return database.RunInTx(ctx, d.Bun, func(ctx context.Context) error {
		conn := database.Conn(ctx, d.Bun)
		if _, err := conn.NewDelete().
			Model((*models.OrderItem)(nil)).
			Where("order_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		res, err := conn.NewDelete().
			Model((*models.Order)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.NotFound("order not found")
		}
		return nil
	})
}

// ---------------- RELATION QUERIES ----------------

func (d *DB) GetTable(ctx context.Context, id int64) (*models.Table, error) {
	var table models.Table
	err := database.Conn(ctx, d.Bun).NewSelect().
		Model(&table).
		Where("rt.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, apperr.NotFoundIfNoRows(err, "table not found")
	}
	return &table, nil
}

// attach loads items (with menu items) and tables for the given orders.
func (d *DB) attach(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	orderIDs := make([]int64, len(orders))
	tableSet := make(map[int64]bool)
	var tableIDs []int64
	for i, o := range orders {
		orderIDs[i] = o.ID
		if !tableSet[o.TableID] {
			tableSet[o.TableID] = true
			tableIDs = append(tableIDs, o.TableID)
		}
	}

	conn := database.Conn(ctx, d.Bun)

	var items []models.OrderItem
	if err := conn.NewSelect().
		Model(&items).
		Relation("MenuItem").
		Where("oi.order_id IN (?)", bun.In(orderIDs)).
		Order("oi.id ASC").
		Scan(ctx); err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}

	var tables []models.Table
	if err := conn.NewSelect().
		Model(&tables).
		Where("rt.id IN (?)", bun.In(tableIDs)).
		Scan(ctx); err != nil {
		return fmt.Errorf("failed to load tables: %w", err)
	}

	itemsByOrder := make(map[int64][]models.OrderItem, len(orders))
	for _, item := range items {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}
	tablesByID := make(map[int64]*models.Table, len(tables))
	for i := range tables {
		tablesByID[tables[i].ID] = &tables[i]
	}
	for _, o := range orders {
		o.Items = itemsByOrder[o.ID]
		if o.Items == nil {
			o.Items = []models.OrderItem{}
		}
		o.Table = tablesByID[o.TableID]
	}
	return nil
}
