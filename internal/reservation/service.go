package reservation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"rose-booking/internal/apperr"
	"rose-booking/internal/clients"
	"rose-booking/internal/config"
	"rose-booking/internal/database"
	"rose-booking/internal/kafka"
	"rose-booking/internal/logger"
	"rose-booking/internal/models"
	resdb "rose-booking/internal/reservation/db"
	"rose-booking/internal/tracking"
	"rose-booking/internal/utils"
)

// ErrTableUnavailable is returned when the chosen table is taken or too small.
var ErrTableUnavailable = apperr.Conflict("this table is not available at this time")

type Service struct {
	Bun       *bun.DB
	DB        *resdb.DB
	Clients   *clients.Store
	Locker    SlotLocker
	Publisher kafka.Publisher
	Codes     *tracking.Generator
	QR        *tracking.QRGenerator

	maxDuration int
	location    *time.Location
	topics      config.TopicConfig
	logger      *logger.Logger
	now         func() time.Time
}

func NewService(
	bunDB *bun.DB,
	locker SlotLocker,
	publisher kafka.Publisher,
	qr *tracking.QRGenerator,
	cfg *config.Config,
	logger *logger.Logger,
) *Service {
	return &Service{
		Bun:         bunDB,
		DB:          resdb.New(bunDB),
		Clients:     clients.NewStore(bunDB),
		Locker:      locker,
		Publisher:   publisher,
		Codes:       tracking.NewGenerator(cfg.Reservation.TrackingCodeLength),
		QR:          qr,
		maxDuration: cfg.Reservation.MaxDurationHours,
		location:    cfg.Reservation.Location(),
		topics:      cfg.Kafka.Topics,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock replaces the clock used for the not-in-the-past check.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) window(date, hour string, duration int) (Window, error) {
	if duration < 1 || duration > s.maxDuration {
		return Window{}, apperr.Validation(fmt.Sprintf("duration must be between 1 and %d hours", s.maxDuration))
	}
	return ParseWindow(date, hour, duration, s.location)
}

func (s *Service) futureWindow(date, hour string, duration int) (Window, error) {
	w, err := s.window(date, hour, duration)
	if err != nil {
		return Window{}, err
	}
	if w.Start.Before(s.now()) {
		return Window{}, apperr.Validation("cannot reserve a time in the past")
	}
	return w, nil
}

// GetAvailableTables lists the restaurant's tables free for the whole requested
// window and seating at least req.People. An empty result is not an error.
func (s *Service) GetAvailableTables(ctx context.Context, req models.CheckAvailabilityRequest) ([]models.Table, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	w, err := s.futureWindow(req.Date, req.Hour, req.Duration)
	if err != nil {
		return nil, err
	}
	return s.availableTables(ctx, req.RestaurantID, req.Date, w, req.People, 0)
}

// availableTables runs the selection against current rows. exclude skips one
// reservation id so an edited reservation does not conflict with itself.
func (s *Service) availableTables(ctx context.Context, restaurantID int64, date string, w Window, people int, exclude int64) ([]models.Table, error) {
	tables, err := s.DB.TablesByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tables: %w", err)
	}
	reservations, err := s.DB.ReservationsOnDate(ctx, restaurantID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations: %w", err)
	}
	if exclude != 0 {
		kept := reservations[:0]
		for _, r := range reservations {
			if r.ID != exclude {
				kept = append(kept, r)
			}
		}
		reservations = kept
	}
	return SelectAvailable(tables, reservations, w, people, s.location), nil
}

func containsTable(tables []models.Table, id int64) bool {
	for _, t := range tables {
		if t.ID == id {
			return true
		}
	}
	return false
}

// withSlot runs fn while holding the (table, date) slot lock.
func (s *Service) withSlot(ctx context.Context, tableID int64, date string, fn func() error) error {
	owner := uuid.NewString()
	ok, err := s.Locker.LockSlot(ctx, tableID, date, owner)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Conflict("this table is being reserved by someone else, please try again")
	}
	defer func() {
		if err := s.Locker.UnlockSlot(context.WithoutCancel(ctx), tableID, date, owner); err != nil {
			s.logger.Warn("RESERVATION", fmt.Sprintf("failed to release slot %d/%s: %v", tableID, date, err))
		}
	}()
	return fn()
}

// CreateReservation books a table. Availability is re-checked inside the
// transaction while the slot lock is held.
func (s *Service) CreateReservation(ctx context.Context, req models.CreateReservationRequest) (*models.CreateReservationResponse, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	w, err := s.futureWindow(req.Date, req.Hour, req.Duration)
	if err != nil {
		return nil, err
	}

	var created models.Reservation
	var restaurantID int64
	err = s.withSlot(ctx, req.TableID, req.Date, func() error {
		return database.RunInTx(ctx, s.Bun, func(ctx context.Context) error {
			table, err := s.DB.GetTable(ctx, req.TableID)
			if err != nil {
				return err
			}
			restaurantID = table.RestaurantID

			client, err := s.Clients.Upsert(ctx, req.FullName, req.Phone)
			if err != nil {
				return err
			}

			candidates, err := s.availableTables(ctx, table.RestaurantID, req.Date, w, req.People, 0)
			if err != nil {
				return err
			}
			if !containsTable(candidates, table.ID) {
				return ErrTableUnavailable
			}

			code, err := s.Codes.Unique(ctx, s.DB.TrackingCodeExists)
			if err != nil {
				return err
			}

			created = models.Reservation{
				TableID:      table.ID,
				Date:         req.Date,
				Hour:         req.Hour,
				Duration:     req.Duration,
				People:       req.People,
				Phone:        strings.TrimSpace(req.Phone),
				Description:  req.Description,
				TrackingCode: code,
				ClientID:     client.ID,
			}
			if err := s.DB.CreateReservation(ctx, &created); err != nil {
				return fmt.Errorf("failed to create reservation: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogReservation("CREATE", created.TrackingCode,
		fmt.Sprintf("table %d on %s %s for %dh", created.TableID, created.Date, created.Hour, created.Duration))
	kafka.PublishJSON(ctx, s.Publisher, s.logger, s.topics.ReservationCreated, created.TrackingCode,
		models.NewReservationEvent(created, restaurantID))

	return &models.CreateReservationResponse{TrackingCode: created.TrackingCode}, nil
}

func (s *Service) GetReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	return s.DB.GetReservation(ctx, id)
}

func (s *Service) GetByTrackingCode(ctx context.Context, code string) (*models.Reservation, error) {
	return s.DB.GetByTrackingCode(ctx, strings.TrimSpace(code))
}

// TrackingQR renders the lookup QR for an existing reservation.
func (s *Service) TrackingQR(ctx context.Context, code string) ([]byte, error) {
	r, err := s.GetByTrackingCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.QR.Generate("reservations", r.TrackingCode)
}

func (s *Service) ListReservations(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error) {
	return s.DB.ListReservations(ctx, filter)
}

// UpdateReservation applies a partial edit. When the slot changes the new slot
// must be free, ignoring the reservation being edited.
func (s *Service) UpdateReservation(ctx context.Context, id int64, req models.UpdateReservationRequest) (*models.Reservation, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	current, err := s.DB.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *current
	if req.TableID != nil {
		next.TableID = *req.TableID
	}
	if req.Date != nil {
		next.Date = *req.Date
	}
	if req.Hour != nil {
		next.Hour = *req.Hour
	}
	if req.Duration != nil {
		next.Duration = *req.Duration
	}
	if req.People != nil {
		next.People = *req.People
	}
	if req.Phone != nil {
		next.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Description != nil {
		next.Description = *req.Description
	}

	w, err := s.window(next.Date, next.Hour, next.Duration)
	if err != nil {
		return nil, err
	}

	err = s.withSlot(ctx, next.TableID, next.Date, func() error {
		return database.RunInTx(ctx, s.Bun, func(ctx context.Context) error {
			table, err := s.DB.GetTable(ctx, next.TableID)
			if err != nil {
				return err
			}
			candidates, err := s.availableTables(ctx, table.RestaurantID, next.Date, w, next.People, id)
			if err != nil {
				return err
			}
			if !containsTable(candidates, table.ID) {
				return ErrTableUnavailable
			}
			return s.DB.UpdateReservation(ctx, &next)
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogReservation("UPDATE", next.TrackingCode, fmt.Sprintf("table %d on %s %s", next.TableID, next.Date, next.Hour))
	return s.DB.GetReservation(ctx, id)
}

func (s *Service) DeleteReservation(ctx context.Context, id int64) error {
	var removed *models.Reservation
	err := database.RunInTx(ctx, s.Bun, func(ctx context.Context) error {
		r, err := s.DB.GetReservation(ctx, id)
		if err != nil {
			return err
		}
		removed = r
		return s.DB.DeleteReservation(ctx, id)
	})
	if err != nil {
		return err
	}

	var restaurantID int64
	if removed.Table != nil {
		restaurantID = removed.Table.RestaurantID
	}
	s.logger.LogReservation("DELETE", removed.TrackingCode, "reservation removed")
	kafka.PublishJSON(ctx, s.Publisher, s.logger, s.topics.ReservationDeleted, removed.TrackingCode,
		models.NewReservationEvent(*removed, restaurantID))
	return nil
}
