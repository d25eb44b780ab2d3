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

// GetTable loads a table by id.
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

func (d *DB) RestaurantExists(ctx context.Context, id int64) (bool, error) {
	return database.Conn(ctx, d.Bun).NewSelect().
		Model((*models.Restaurant)(nil)).
		Where("rest.id = ?", id).
		Exists(ctx)
}

func (d *DB) TablesByRestaurant(ctx context.Context, restaurantID int64) ([]models.Table, error) {
	var tables []models.Table
	err := database.Conn(ctx, d.Bun).NewSelect().
		Model(&tables).
		Where("rt.restaurant_id = ?", restaurantID).
		Scan(ctx)
	return tables, err
}

// ReservationsOnDate returns reservations of the restaurant's tables stored
// under exactly the given date string.
func (d *DB) ReservationsOnDate(ctx context.Context, restaurantID int64, date string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := database.Conn(ctx, d.Bun).NewSelect().
		Model(&reservations).
		Join("JOIN restaurant_tables AS rt ON rt.id = rsv.table_id").
		Where("rt.restaurant_id = ?", restaurantID).
		Where("rsv.date = ?", date).
		Scan(ctx)
	return reservations, err
}

func (d *DB) TrackingCodeExists(ctx context.Context, code string) (bool, error) {
	return database.Conn(ctx, d.Bun).NewSelect().
		Model((*models.Reservation)(nil)).
		Where("rsv.tracking_code = ?", code).
		Exists(ctx)
}

func (d *DB) CreateReservation(ctx context.Context, r *models.Reservation) error {
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	_, err := database.Conn(ctx, d.Bun).NewInsert().Model(r).Exec(ctx)
	return err
}

func (d *DB) GetReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	var r models.Reservation
	err := database.Conn(ctx, d.Bun).NewSelect().
		Model(&r).
		Where("rsv.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, apperr.NotFoundIfNoRows(err, "reservation not found")
	}
	return &r, d.attachTables(ctx, []*models.Reservation{&r})
}

func (d *DB) GetByTrackingCode(ctx context.Context, code string) (*models.Reservation, error) {
	var r models.Reservation
	err := database.Conn(ctx, d.Bun).NewSelect().
		Model(&r).
		Where("rsv.tracking_code = ?", strings.ToUpper(code)).
		Scan(ctx)
	if err != nil {
		return nil, apperr.NotFoundIfNoRows(err, "reservation not found")
	}
	return &r, d.attachTables(ctx, []*models.Reservation{&r})
}

// ListReservations returns reservations newest first with their tables attached.
func (d *DB) ListReservations(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	q := database.Conn(ctx, d.Bun).NewSelect().
		Model(&reservations).
		Order("rsv.created_at DESC", "rsv.id DESC")

	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("LOWER(rsv.phone) LIKE ?", pattern).
				WhereOr("LOWER(rsv.tracking_code) LIKE ?", pattern)
		})
	}
	if filter.CreatedAfter != "" {
		after, err := time.Parse("2006-01-02", filter.CreatedAfter)
		if err != nil {
			return nil, apperr.Validation("createdAfter must be YYYY-MM-DD")
		}
		q = q.Where("rsv.created_at >= ?", after)
	}
	if filter.CreatedBefore != "" {
		before, err := time.Parse("2006-01-02", filter.CreatedBefore)
		if err != nil {
			return nil, apperr.Validation("createdBefore must be YYYY-MM-DD")
		}
		// inclusive of the whole day
		q = q.Where("rsv.created_at < ?", before.AddDate(0, 0, 1))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	ptrs := make([]*models.Reservation, len(reservations))
	for i := range reservations {
		ptrs[i] = &reservations[i]
	}
	return reservations, d.attachTables(ctx, ptrs)
}

func (d *DB) UpdateReservation(ctx context.Context, r *models.Reservation) error {
	r.UpdatedAt = time.Now()
	_, err := database.Conn(ctx, d.Bun).NewUpdate().
		Model(r).
		Column("table_id", "date", "hour", "duration", "people", "phone", "description", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

func (d *DB) DeleteReservation(ctx context.Context, id int64) error {
	res, err := database.Conn(ctx, d.Bun).NewDelete().
		Model((*models.Reservation)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("reservation not found")
	}
	return nil
}

func (d *DB) attachTables(ctx context.Context, reservations []*models.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}
	seen := make(map[int64]bool)
	var tableIDs []int64
	for _, r := range reservations {
		if !seen[r.TableID] {
			seen[r.TableID] = true
			tableIDs = append(tableIDs, r.TableID)
		}
	}

	var tables []models.Table
	err := database.Conn(ctx, d.Bun).NewSelect().
		Model(&tables).
		Where("rt.id IN (?)", bun.In(tableIDs)).
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tables: %w", err)
	}

	byID := make(map[int64]*models.Table, len(tables))
	for i := range tables {
		byID[tables[i].ID] = &tables[i]
	}
	for _, r := range reservations {
		r.Table = byID[r.TableID]
	}
	return nil
}
