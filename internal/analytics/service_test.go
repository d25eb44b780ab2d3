package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"rose-booking/internal/apperr"
	"rose-booking/internal/database/dbtest"
	"rose-booking/internal/logger"
	"rose-booking/internal/models"
)

type fixture struct {
	db  *bun.DB
	fx  dbtest.Fixture
	svc *Service
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	db := dbtest.NewSQLite(t)
	fx := dbtest.Seed(t, db, []int{2, 4}, []int64{100, 50})

	_, err := db.NewUpdate().Model((*models.MenuItem)(nil)).
		Set("available = ?", false).
		Where("id = ?", fx.MenuItems[1].ID).
		Exec(ctx)
	require.NoError(t, err)

	client := models.Client{FullName: "Sara", Phone: "09120000001"}
	_, err = db.NewInsert().Model(&client).Exec(ctx)
	require.NoError(t, err)

	reservations := []models.Reservation{
		{TableID: fx.Tables[0].ID, Date: "2030-05-01", Hour: "19:00", Duration: 2, People: 2, Phone: client.Phone, TrackingCode: "AAAA0001", ClientID: client.ID},
		{TableID: fx.Tables[1].ID, Date: "2030-05-01", Hour: "21:00", Duration: 1, People: 3, Phone: client.Phone, TrackingCode: "AAAA0002", ClientID: client.ID},
		{TableID: fx.Tables[0].ID, Date: "2030-05-02", Hour: "12:00", Duration: 1, People: 2, Phone: client.Phone, TrackingCode: "AAAA0003", ClientID: client.ID},
	}
	_, err = db.NewInsert().Model(&reservations).Exec(ctx)
	require.NoError(t, err)

	placeOrder(t, db, fx.Tables[0].ID, client.ID, "BBBB0001", time.Date(2030, 5, 1, 10, 0, 0, 0, time.UTC),
		models.OrderItem{MenuItemID: fx.MenuItems[0].ID, Quantity: 2, Fee: 100},
		models.OrderItem{MenuItemID: fx.MenuItems[1].ID, Quantity: 1, Fee: 50})
	placeOrder(t, db, fx.Tables[1].ID, client.ID, "BBBB0002", time.Date(2030, 4, 30, 18, 0, 0, 0, time.UTC),
		models.OrderItem{MenuItemID: fx.MenuItems[1].ID, Quantity: 1, Fee: 50})

	svc := NewService(db, time.UTC, logger.NewDiscardLogger()).
		WithClock(func() time.Time { return time.Date(2030, 5, 1, 20, 0, 0, 0, time.UTC) })
	return fixture{db: db, fx: fx, svc: svc}
}

func placeOrder(t *testing.T, db *bun.DB, tableID, clientID int64, code string, at time.Time, items ...models.OrderItem) {
	t.Helper()
	ctx := context.Background()

	var total int64
	for _, it := range items {
		total += it.Fee * int64(it.Quantity)
	}
	order := models.Order{
		CustomerName: "Sara",
		PhoneNumber:  "09120000001",
		TotalPrice:   total,
		TrackingCode: code,
		ClientID:     clientID,
		TableID:      tableID,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
	_, err := db.NewInsert().Model(&order).Exec(ctx)
	require.NoError(t, err)

	for i := range items {
		items[i].OrderID = order.ID
	}
	_, err = db.NewInsert().Model(&items).Exec(ctx)
	require.NoError(t, err)
}

func TestDashboard(t *testing.T) {
	f := setup(t)

	summary, err := f.svc.Dashboard(context.Background(), f.fx.Restaurant.ID, "")
	require.NoError(t, err)

	assert.Equal(t, "2030-05-01", summary.Date)
	assert.Equal(t, 2, summary.Reservations)
	assert.Equal(t, 1, summary.UpcomingToday)
	assert.Equal(t, 5, summary.Guests)
	assert.Equal(t, 2, summary.TablesReserved)
	assert.Equal(t, 2, summary.TotalTables)
	assert.Equal(t, 1, summary.OccupiedNow)
	assert.Equal(t, 2, summary.MenuItems)
	assert.Equal(t, 1, summary.AvailableMenuItems)
	assert.Equal(t, 1, summary.Orders)
	assert.Equal(t, int64(250), summary.Revenue)
}

func TestDashboardOtherDay(t *testing.T) {
	f := setup(t)

	summary, err := f.svc.Dashboard(context.Background(), f.fx.Restaurant.ID, "2030-05-02")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Reservations)
	assert.Equal(t, 1, summary.UpcomingToday)
	assert.Equal(t, 0, summary.OccupiedNow)
	assert.Equal(t, 0, summary.Orders)
}

func TestDashboardErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Dashboard(ctx, 0, "")
	assert.True(t, apperr.IsValidation(err))

	_, err = f.svc.Dashboard(ctx, 9999, "")
	assert.True(t, apperr.IsNotFound(err))

	_, err = f.svc.Dashboard(ctx, f.fx.Restaurant.ID, "01/05/2030")
	assert.True(t, apperr.IsValidation(err))
}

func TestSales(t *testing.T) {
	f := setup(t)

	report, err := f.svc.Sales(context.Background(), f.fx.Restaurant.ID, "", "", 0)
	require.NoError(t, err)

	assert.Equal(t, "2030-04-25", report.From)
	assert.Equal(t, "2030-05-01", report.To)
	assert.Equal(t, 2, report.TotalOrders)
	assert.Equal(t, int64(300), report.TotalRevenue)
	assert.Equal(t, []DailySales{
		{Date: "2030-04-30", Orders: 1, Revenue: 50},
		{Date: "2030-05-01", Orders: 1, Revenue: 250},
	}, report.Daily)

	require.Len(t, report.TopItems, 2)
	assert.Equal(t, f.fx.MenuItems[0].ID, report.TopItems[0].MenuItemID)
	assert.Equal(t, 2, report.TopItems[0].Quantity)
	assert.Equal(t, int64(200), report.TopItems[0].Revenue)
	assert.Equal(t, int64(100), report.TopItems[1].Revenue)
}

func TestSalesRange(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	report, err := f.svc.Sales(ctx, f.fx.Restaurant.ID, "2030-05-01", "2030-05-01", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalOrders)
	assert.Len(t, report.TopItems, 1)

	_, err = f.svc.Sales(ctx, f.fx.Restaurant.ID, "2030-05-02", "2030-05-01", 0)
	assert.True(t, apperr.IsValidation(err))
}
