package cart

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"rose-booking/internal/apperr"
	cartdb "rose-booking/internal/cart/db"
	"rose-booking/internal/database"
	"rose-booking/internal/logger"
	"rose-booking/internal/models"
	"rose-booking/internal/utils"
)

// Service keeps one un-ordered line per (session, menu item).
type Service struct {
	Bun    *bun.DB
	DB     *cartdb.DB
	logger *logger.Logger
}

func NewService(bunDB *bun.DB, logger *logger.Logger) *Service {
	return &Service{Bun: bunDB, DB: cartdb.New(bunDB), logger: logger}
}

func requireSession(sessionID string) error {
	if sessionID == "" {
		return apperr.Validation("session id is required")
	}
	return nil
}

// AddItem adds quantity (default 1) of a menu item, merging into the existing line.
func (s *Service) AddItem(ctx context.Context, sessionID string, menuItemID int64, quantity int) (*models.CartItem, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, apperr.Validation("quantity must be at least 1")
	}

	var line *models.CartItem
	err := database.RunInTx(ctx, s.Bun, func(ctx context.Context) error {
		item, err := s.DB.GetMenuItem(ctx, menuItemID)
		if err != nil {
			return err
		}

		existing, err := s.DB.FindOpenItem(ctx, sessionID, menuItemID)
		if err != nil {
			return fmt.Errorf("failed to read cart: %w", err)
		}
		if existing != nil {
			existing.Quantity += quantity
			if err := s.DB.UpdateQuantity(ctx, existing); err != nil {
				return fmt.Errorf("failed to update cart item: %w", err)
			}
			line = existing
		} else {
			line = &models.CartItem{MenuItemID: menuItemID, Quantity: quantity, SessionID: sessionID}
			if err := s.DB.InsertItem(ctx, line); err != nil {
				return fmt.Errorf("failed to add cart item: %w", err)
			}
		}
		line.MenuItem = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogCart("ADD", sessionID, fmt.Sprintf("menu item %d now x%d", menuItemID, line.Quantity))
	return line, nil
}

// AddMultiple applies every entry in one transaction; any failure adds nothing.
func (s *Service) AddMultiple(ctx context.Context, sessionID string, req models.AddMultipleItemsRequest) ([]models.CartItem, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	lines := make([]models.CartItem, 0, len(req.Items))
	err := database.RunInTx(ctx, s.Bun, func(ctx context.Context) error {
		lines = lines[:0]
		for _, entry := range req.Items {
			line, err := s.AddItem(ctx, sessionID, entry.MenuItemID, entry.Quantity)
			if err != nil {
				return err
			}
			lines = append(lines, *line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Service) GetCart(ctx context.Context, sessionID string) ([]models.CartItem, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	return s.DB.OpenItems(ctx, sessionID)
}

func (s *Service) RemoveItem(ctx context.Context, id int64, sessionID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	if err := s.DB.DeleteOpenItem(ctx, id, sessionID); err != nil {
		return err
	}
	s.logger.LogCart("REMOVE", sessionID, fmt.Sprintf("cart item %d", id))
	return nil
}

// ClearCart drops the session's un-ordered lines and reports how many went.
func (s *Service) ClearCart(ctx context.Context, sessionID string) (int64, error) {
	if err := requireSession(sessionID); err != nil {
		return 0, err
	}
	n, err := s.DB.DeleteOpenItems(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	s.logger.LogCart("CLEAR", sessionID, fmt.Sprintf("%d items removed", n))
	return n, nil
}
