// Package dbtest provides an in-memory sqlite database with the full schema.
package dbtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"rose-booking/internal/database"
	"rose-booking/internal/models"
)

func NewSQLite(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}
	// every connection to :memory: is a separate database
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	if err := database.CreateSchema(context.Background(), bunDB); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { bunDB.Close() })
	return bunDB
}

// Fixture holds rows most service tests need.
type Fixture struct {
	Restaurant models.Restaurant
	Tables     []models.Table
	Category   models.Category
	MenuItems  []models.MenuItem
}

// Seed inserts one restaurant with tables of the given capacities, one category
// and menu items with the given fees.
func Seed(t *testing.T, db *bun.DB, capacities []int, fees []int64) Fixture {
	t.Helper()
	ctx := context.Background()

	f := Fixture{Restaurant: models.Restaurant{Name: "Rose", Description: "test restaurant"}}
	_, err := db.NewInsert().Model(&f.Restaurant).Exec(ctx)
	mustInsert(t, err)

	for i, capacity := range capacities {
		table := models.Table{
			Name:         "T" + string(rune('A'+i)),
			Capacity:     capacity,
			RestaurantID: f.Restaurant.ID,
		}
		_, err := db.NewInsert().Model(&table).Exec(ctx)
		mustInsert(t, err)
		f.Tables = append(f.Tables, table)
	}

	f.Category = models.Category{Name: "Mains", RestaurantID: f.Restaurant.ID}
	_, err = db.NewInsert().Model(&f.Category).Exec(ctx)
	mustInsert(t, err)

	for i, fee := range fees {
		item := models.MenuItem{
			Title:      "Dish " + string(rune('A'+i)),
			Fee:        fee,
			Available:  true,
			CategoryID: f.Category.ID,
		}
		_, err := db.NewInsert().Model(&item).Exec(ctx)
		mustInsert(t, err)
		f.MenuItems = append(f.MenuItems, item)
	}
	return f
}

func mustInsert(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}
}
