package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"rose-booking/internal/apperr"
	cartdb "rose-booking/internal/cart/db"
	"rose-booking/internal/clients"
	"rose-booking/internal/config"
	"rose-booking/internal/database"
	"rose-booking/internal/kafka"
	"rose-booking/internal/logger"
	"rose-booking/internal/models"
	orderdb "rose-booking/internal/order/db"
	"rose-booking/internal/tracking"
	"rose-booking/internal/utils"
)

type OrderService struct {
	Bun       *bun.DB
	DB        *orderdb.DB
	Cart      *cartdb.DB
	Clients   *clients.Store
	Publisher kafka.Publisher
	Codes     *tracking.Generator
	QR        *tracking.QRGenerator

	topic  string
	logger *logger.Logger
}

func NewOrderService(
	bunDB *bun.DB,
	publisher kafka.Publisher,
	qr *tracking.QRGenerator,
	cfg *config.Config,
	logger *logger.Logger,
) *OrderService {
	return &OrderService{
		Bun:       bunDB,
		DB:        orderdb.New(bunDB),
		Cart:      cartdb.New(bunDB),
		Clients:   clients.NewStore(bunDB),
		Publisher: publisher,
		Codes:     tracking.NewGenerator(cfg.Reservation.TrackingCodeLength),
		QR:        qr,
		topic:     cfg.Kafka.Topics.OrderPlaced,
		logger:    logger,
	}
}

// PlaceOrder turns the session's open cart into an order. Fees are copied from
// the menu at this moment and the cart lines are flagged ordered, all in one
// transaction.
func (s *OrderService) PlaceOrder(ctx context.Context, sessionID string, req models.PlaceOrderRequest) (*models.Order, error) {
	if sessionID == "" {
		return nil, apperr.Validation("session id is required")
	}
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	var placed *models.Order
	err := database.RunInTx(ctx, s.Bun, func(ctx context.Context) error {
		lines, err := s.Cart.OpenItems(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to read cart: %w", err)
		}
		if len(lines) == 0 {
			return apperr.Validation("cart is empty")
		}

		table, err := s.DB.GetTable(ctx, req.TableID)
		if err != nil {
			return err
		}

		client, err := s.Clients.Upsert(ctx, req.CustomerName, req.PhoneNumber)
		if err != nil {
			return err
		}

		code, err := s.Codes.Unique(ctx, s.DB.TrackingCodeExists)
		if err != nil {
			return err
		}

		order := &models.Order{
			CustomerName: strings.TrimSpace(req.CustomerName),
			PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
			Description:  req.Description,
			TrackingCode: code,
			ClientID:     client.ID,
			TableID:      table.ID,
			Items:        make([]models.OrderItem, 0, len(lines)),
		}
		lineIDs := make([]int64, 0, len(lines))
		for _, line := range lines {
			if line.MenuItem == nil {
				return fmt.Errorf("cart item %d has no menu item", line.ID)
			}
			order.Items = append(order.Items, models.OrderItem{
				MenuItemID: line.MenuItemID,
				Quantity:   line.Quantity,
				Fee:        line.MenuItem.Fee,
			})
			order.TotalPrice += line.MenuItem.Fee * int64(line.Quantity)
			lineIDs = append(lineIDs, line.ID)
		}

		if err := s.DB.CreateOrder(ctx, order); err != nil {
			return err
		}

		flipped, err := s.Cart.MarkOrdered(ctx, lineIDs)
		if err != nil {
			return err
		}
		if flipped != int64(len(lineIDs)) {
			return apperr.Conflict("cart was modified while placing the order, please retry")
		}

		placed, err = s.DB.GetOrderByID(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogOrder("PLACE", placed.TrackingCode,
		fmt.Sprintf("%d items, total %d, table %d", len(placed.Items), placed.TotalPrice, placed.TableID))
	kafka.PublishJSON(ctx, s.Publisher, s.logger, s.topic, placed.TrackingCode, models.NewOrderPlacedEvent(*placed))
	return placed, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.DB.GetOrderByID(ctx, id)
}

func (s *OrderService) GetByTrackingCode(ctx context.Context, code string) (*models.Order, error) {
	return s.DB.GetOrderByTrackingCode(ctx, strings.TrimSpace(code))
}

func (s *OrderService) TrackingQR(ctx context.Context, code string) ([]byte, error) {
	o, err := s.GetByTrackingCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.QR.Generate("orders", o.TrackingCode)
}

// ListByPhone is the customer-facing history; a phone is mandatory.
func (s *OrderService) ListByPhone(ctx context.Context, phone string) ([]models.Order, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, apperr.Validation("phone is required")
	}
	return s.DB.ListOrders(ctx, phone)
}

// ListOrders is the admin listing; phone optionally narrows it.
func (s *OrderService) ListOrders(ctx context.Context, phone string) ([]models.Order, error) {
	return s.DB.ListOrders(ctx, strings.TrimSpace(phone))
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.DB.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.logger.LogOrder("DELETE", fmt.Sprintf("#%d", id), "order removed")
	return nil
}
