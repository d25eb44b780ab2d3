package catalog

import (
	"context"
	"fmt"
	"strings"

	"rose-booking/internal/apperr"
	catalogdb "rose-booking/internal/catalog/db"
	"rose-booking/internal/logger"
	"rose-booking/internal/models"
	"rose-booking/internal/utils"
)

// Service manages restaurants, their tables and menus.
type Service struct {
	DB     *catalogdb.DB
	logger *logger.Logger
}

func NewService(db *catalogdb.DB, logger *logger.Logger) *Service {
	return &Service{DB: db, logger: logger}
}

func (s *Service) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	return s.DB.ListRestaurants(ctx)
}

func (s *Service) CreateRestaurant(ctx context.Context, req models.CreateRestaurantRequest) (*models.Restaurant, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	restaurant := &models.Restaurant{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := s.DB.CreateRestaurant(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("failed to create restaurant: %w", err)
	}
	s.logger.LogDatabase("INSERT", "restaurants", fmt.Sprintf("restaurant %d created", restaurant.ID))
	return restaurant, nil
}

func (s *Service) DeleteRestaurant(ctx context.Context, id int64) error {
	if err := s.DB.DeleteRestaurant(ctx, id); err != nil {
		return err
	}
	s.logger.LogDatabase("DELETE", "restaurants", fmt.Sprintf("restaurant %d removed with its tables and menu", id))
	return nil
}

func (s *Service) ListTables(ctx context.Context, restaurantID int64) ([]models.Table, error) {
	if _, err := s.DB.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	return s.DB.ListTables(ctx, restaurantID)
}

func (s *Service) GetTable(ctx context.Context, id int64) (*models.Table, error) {
	return s.DB.GetTable(ctx, id)
}

func (s *Service) CreateTable(ctx context.Context, restaurantID int64, req models.CreateTableRequest) (*models.Table, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.DB.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	table := &models.Table{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Capacity:     req.Capacity,
		Photo:        req.Photo,
		RestaurantID: restaurantID,
	}
	if err := s.DB.CreateTable(ctx, table); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return table, nil
}

func (s *Service) CreateCategory(ctx context.Context, restaurantID int64, req models.CreateCategoryRequest) (*models.Category, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.DB.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	existing, err := s.DB.ListCategories(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if strings.EqualFold(c.Name, name) {
			return nil, apperr.Conflict("category already exists in this restaurant")
		}
	}

	category := &models.Category{Name: name, Icon: req.Icon, RestaurantID: restaurantID}
	if err := s.DB.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// GetMenu returns the restaurant's categories, each with its available items.
func (s *Service) GetMenu(ctx context.Context, restaurantID int64) ([]models.Category, error) {
	if _, err := s.DB.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	categories, err := s.DB.ListCategories(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	items, err := s.DB.ListMenuItems(ctx, ids, true)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[int64][]models.MenuItem, len(categories))
	for _, item := range items {
		byCategory[item.CategoryID] = append(byCategory[item.CategoryID], item)
	}
	for i := range categories {
		categories[i].Items = byCategory[categories[i].ID]
		if categories[i].Items == nil {
			categories[i].Items = []models.MenuItem{}
		}
	}
	return categories, nil
}

func (s *Service) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	return s.DB.GetMenuItem(ctx, id)
}

func (s *Service) CreateMenuItem(ctx context.Context, req models.CreateMenuItemRequest) (*models.MenuItem, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.DB.GetCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Image:       req.Image,
		Fee:         req.Fee,
		Available:   true,
		CategoryID:  req.CategoryID,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if err := s.DB.CreateMenuItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}
	return item, nil
}

func (s *Service) UpdateMenuItem(ctx context.Context, id int64, req models.UpdateMenuItemRequest) (*models.MenuItem, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	item, err := s.DB.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		item.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Image != nil {
		item.Image = *req.Image
	}
	if req.Fee != nil {
		item.Fee = *req.Fee
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := s.DB.UpdateMenuItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	return item, nil
}
