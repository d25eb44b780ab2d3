package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/joho/godotenv"

	"rose-booking/internal/catalog"
	catalog_db "rose-booking/internal/catalog/db"
	"rose-booking/internal/config"
	"rose-booking/internal/database"
	"rose-booking/internal/database/migrations"
	"rose-booking/internal/logger"
	"rose-booking/internal/models"
)

func main() {
	down := flag.Bool("down", false, "roll back every migration (postgres only)")
	seed := flag.Bool("seed", false, "insert a demo restaurant with tables and a menu")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := logger.NewLogger("rose-migrate", "", cfg.Log.Level)
	defer logger.Close()

	ctx := context.Background()
	bunDB, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	if *down {
		if cfg.Database.Driver == "sqlite" {
			logger.Fatal("MIGRATE", "-down is only supported on postgres")
		}
		runner := migrations.NewRunner(bunDB, logger)
		if err := runner.MigrateDown(); err != nil {
			logger.Fatal("MIGRATE", err.Error())
		}
		runner.Close()
		logger.Info("MIGRATE", "✅ All migrations rolled back")
		return
	}

	if err := migrations.Apply(ctx, bunDB, cfg.Database.Driver, logger); err != nil {
		logger.Fatal("MIGRATE", err.Error())
	}
	logger.Info("MIGRATE", "✅ Schema up to date")

	if *seed {
		svc := catalog.NewService(catalog_db.New(bunDB), logger)
		if err := seedDemo(ctx, svc); err != nil {
			logger.Fatal("SEED", err.Error())
		}
		logger.Info("SEED", "✅ Demo data inserted")
	}
}

func seedDemo(ctx context.Context, svc *catalog.Service) error {
	restaurant, err := svc.CreateRestaurant(ctx, models.CreateRestaurantRequest{
		Name:        "Rose Garden",
		Description: "Demo restaurant",
	})
	if err != nil {
		return err
	}

	for i, capacity := range []int{2, 2, 4, 4, 6, 8} {
		_, err := svc.CreateTable(ctx, restaurant.ID, models.CreateTableRequest{
			Name:     fmt.Sprintf("Table %d", i+1),
			Capacity: capacity,
		})
		if err != nil {
			return err
		}
	}

	menu := map[string][]models.CreateMenuItemRequest{
		"Starters": {
			{Title: "Lentil Soup", Fee: 120000},
			{Title: "Shirazi Salad", Fee: 90000},
		},
		"Mains": {
			{Title: "Chelo Kabab", Fee: 450000},
			{Title: "Ghormeh Sabzi", Fee: 380000},
		},
		"Drinks": {
			{Title: "Doogh", Fee: 60000},
			{Title: "Tea", Fee: 40000},
		},
	}
	for _, name := range []string{"Starters", "Mains", "Drinks"} {
		category, err := svc.CreateCategory(ctx, restaurant.ID, models.CreateCategoryRequest{Name: name})
		if err != nil {
			return err
		}
		for _, item := range menu[name] {
			item.CategoryID = category.ID
			if _, err := svc.CreateMenuItem(ctx, item); err != nil {
				return err
			}
		}
	}
	return nil
}
