package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/uptrace/bun"

	"rose-booking/internal/apperr"
	"rose-booking/internal/logger"
	"rose-booking/internal/reservation"
)

const dateLayout = "2006-01-02"

// Service builds the admin dashboard figures for a restaurant.
type Service struct {
	db       *DB
	location *time.Location
	logger   *logger.Logger
	now      func() time.Time
}

func NewService(bunDB *bun.DB, location *time.Location, logger *logger.Logger) *Service {
	if location == nil {
		location = time.Local
	}
	return &Service{
		db:       NewDB(bunDB),
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the time source; tests use it to pin "now".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// DashboardSummary is the one-day overview shown on the admin landing page.
type DashboardSummary struct {
	RestaurantID       int64  `json:"restaurantId"`
	Date               string `json:"date"`
	Reservations       int    `json:"reservations"`
	UpcomingToday      int    `json:"upcoming"`
	Guests             int    `json:"guests"`
	TablesReserved     int    `json:"tablesReserved"`
	TotalTables        int    `json:"totalTables"`
	OccupiedNow        int    `json:"occupiedNow"`
	MenuItems          int    `json:"menuItems"`
	AvailableMenuItems int    `json:"availableMenuItems"`
	Orders             int    `json:"orders"`
	Revenue            int64  `json:"revenue"`
}

// DailySales contains order metrics for a single day
type DailySales struct {
	Date    string `json:"date"`
	Orders  int    `json:"orders"`
	Revenue int64  `json:"revenue"`
}

type MenuItemSales struct {
	MenuItemID int64  `bun:"menu_item_id" json:"menuItemId"`
	Title      string `bun:"title" json:"title"`
	Quantity   int    `bun:"quantity" json:"quantity"`
	Revenue    int64  `bun:"revenue" json:"revenue"`
}

// SalesReport covers the inclusive day range [From, To].
type SalesReport struct {
	RestaurantID int64           `json:"restaurantId"`
	From         string          `json:"from"`
	To           string          `json:"to"`
	TotalOrders  int             `json:"totalOrders"`
	TotalRevenue int64           `json:"totalRevenue"`
	Daily        []DailySales    `json:"daily"`
	TopItems     []MenuItemSales `json:"topItems"`
}

func (s *Service) ensureRestaurant(ctx context.Context, restaurantID int64) error {
	if restaurantID <= 0 {
		return apperr.Validation("restaurantId is required")
	}
	ok, err := s.db.RestaurantExists(ctx, restaurantID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("restaurant not found")
	}
	return nil
}

func (s *Service) parseDay(value, field string) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, value, s.location)
	if err != nil {
		return time.Time{}, apperr.Validation(field + " must be YYYY-MM-DD")
	}
	return day, nil
}

// Dashboard summarizes reservations, menu and orders of the restaurant for
// date, which defaults to today.
func (s *Service) Dashboard(ctx context.Context, restaurantID int64, date string) (*DashboardSummary, error) {
	if err := s.ensureRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	now := s.now().In(s.location)
	if date == "" {
		date = now.Format(dateLayout)
	}
	day, err := s.parseDay(date, "date")
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{RestaurantID: restaurantID, Date: date}

	if summary.TotalTables, err = s.db.CountTables(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("count tables: %w", err)
	}
	if summary.MenuItems, summary.AvailableMenuItems, err = s.db.CountMenuItems(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("count menu items: %w", err)
	}

	reservations, err := s.db.ReservationsOnDate(ctx, restaurantID, date)
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}
	reserved := map[int64]struct{}{}
	occupied := map[int64]struct{}{}
	for _, r := range reservations {
		summary.Reservations++
		summary.Guests += r.People
		reserved[r.TableID] = struct{}{}

		w, err := reservation.ParseWindow(r.Date, r.Hour, r.Duration, s.location)
		if err != nil {
			// rows that no longer parse still count, they just have no window
			continue
		}
		if w.Start.After(now) {
			summary.UpcomingToday++
		}
		if !now.Before(w.Start) && now.Before(w.End) {
			occupied[r.TableID] = struct{}{}
		}
	}
	summary.TablesReserved = len(reserved)
	summary.OccupiedNow = len(occupied)

	orders, err := s.db.OrdersBetween(ctx, restaurantID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	for _, o := range orders {
		summary.Orders++
		summary.Revenue += o.TotalPrice
	}

	s.logger.Debug("ANALYTICS", fmt.Sprintf("dashboard restaurant=%d date=%s reservations=%d orders=%d",
		restaurantID, date, summary.Reservations, summary.Orders))
	return summary, nil
}

// Sales reports order totals per day for the inclusive range. Empty bounds
// default to the last seven days ending today.
func (s *Service) Sales(ctx context.Context, restaurantID int64, from, to string, top int) (*SalesReport, error) {
	if err := s.ensureRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	today := s.now().In(s.location).Format(dateLayout)
	if to == "" {
		to = today
	}
	end, err := s.parseDay(to, "to")
	if err != nil {
		return nil, err
	}
	if from == "" {
		from = end.AddDate(0, 0, -6).Format(dateLayout)
	}
	start, err := s.parseDay(from, "from")
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, apperr.Validation("from must not be after to")
	}
	if top <= 0 {
		top = 5
	}

	until := end.AddDate(0, 0, 1)
	orders, err := s.db.OrdersBetween(ctx, restaurantID, start, until)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	report := &SalesReport{RestaurantID: restaurantID, From: from, To: to, Daily: []DailySales{}}
	byDay := map[string]*DailySales{}
	for _, o := range orders {
		key := o.CreatedAt.In(s.location).Format(dateLayout)
		d, ok := byDay[key]
		if !ok {
			d = &DailySales{Date: key}
			byDay[key] = d
		}
		d.Orders++
		d.Revenue += o.TotalPrice
		report.TotalOrders++
		report.TotalRevenue += o.TotalPrice
	}
	for _, d := range byDay {
		report.Daily = append(report.Daily, *d)
	}
	sort.Slice(report.Daily, func(i, j int) bool { return report.Daily[i].Date < report.Daily[j].Date })

	report.TopItems, err = s.db.TopMenuItems(ctx, restaurantID, start, until, top)
	if err != nil {
		return nil, fmt.Errorf("top menu items: %w", err)
	}
	if report.TopItems == nil {
		report.TopItems = []MenuItemSales{}
	}
	return report, nil
}
