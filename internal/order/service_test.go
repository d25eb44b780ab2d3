package order_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"rose-booking/internal/apperr"
	"rose-booking/internal/cart"
	"rose-booking/internal/config"
	"rose-booking/internal/database/dbtest"
	"rose-booking/internal/logger"
	"rose-booking/internal/models"
	"rose-booking/internal/order"
	"rose-booking/internal/tracking"
)

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic, key string, value []byte) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

type fixture struct {
	orders *order.OrderService
	cart   *cart.Service
	pub    *MockPublisher
	db     *bun.DB
	fx     dbtest.Fixture
}

func setup(t *testing.T) fixture {
	db := dbtest.NewSQLite(t)
	fx := dbtest.Seed(t, db, []int{4}, []int64{100, 50})

	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, "rose.order.placed", mock.AnythingOfType("string"), mock.Anything).Return(nil)

	cfg := &config.Config{
		Kafka:       config.KafkaConfig{Topics: config.TopicConfig{OrderPlaced: "rose.order.placed"}},
		Reservation: config.ReservationConfig{TrackingCodeLength: 8},
	}
	log := logger.NewDiscardLogger()
	return fixture{
		orders: order.NewOrderService(db, pub, tracking.NewQRGenerator("http://rose.test"), cfg, log),
		cart:   cart.NewService(db, log),
		pub:    pub,
		db:     db,
		fx:     fx,
	}
}

func (f fixture) fillCart(t *testing.T, session string) {
	_, err := f.cart.AddItem(context.Background(), session, f.fx.MenuItems[0].ID, 2)
	require.NoError(t, err)
	_, err = f.cart.AddItem(context.Background(), session, f.fx.MenuItems[1].ID, 1)
	require.NoError(t, err)
}

func (f fixture) request() models.PlaceOrderRequest {
	return models.PlaceOrderRequest{CustomerName: "Sara", PhoneNumber: "09120000001", TableID: f.fx.Tables[0].ID}
}

func TestPlaceOrder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.fillCart(t, "s1")

	placed, err := f.orders.PlaceOrder(ctx, "s1", f.request())
	require.NoError(t, err)

	assert.Equal(t, int64(250), placed.TotalPrice)
	assert.Regexp(t, `^[A-Z0-9]{8}$`, placed.TrackingCode)
	require.Len(t, placed.Items, 2)
	assert.Equal(t, int64(100), placed.Items[0].Fee)
	assert.Equal(t, 2, placed.Items[0].Quantity)
	require.NotNil(t, placed.Items[0].MenuItem)
	require.NotNil(t, placed.Table)
	assert.Equal(t, f.fx.Tables[0].ID, placed.Table.ID)

	items, err := f.cart.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, items)

	orderedRows, err := f.db.NewSelect().Model((*models.CartItem)(nil)).
		Where("session_id = ?", "s1").Where("ordered = ?", true).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, orderedRows)

	f.pub.AssertCalled(t, "Publish", mock.Anything, "rose.order.placed", placed.TrackingCode, mock.Anything)
}

func TestPlaceOrderSnapshotsFees(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.fillCart(t, "s1")

	placed, err := f.orders.PlaceOrder(ctx, "s1", f.request())
	require.NoError(t, err)

	_, err = f.db.NewUpdate().Model((*models.MenuItem)(nil)).
		Set("fee = ?", 999).Where("id = ?", f.fx.MenuItems[0].ID).Exec(ctx)
	require.NoError(t, err)

	reloaded, err := f.orders.GetByTrackingCode(ctx, placed.TrackingCode)
	require.NoError(t, err)
	assert.Equal(t, int64(250), reloaded.TotalPrice)
	assert.Equal(t, int64(100), reloaded.Items[0].Fee)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := setup(t)

	_, err := f.orders.PlaceOrder(context.Background(), "s1", f.request())
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, "cart is empty", apperr.Message(err))
	f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrderUnknownTableLeavesCartUntouched(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.fillCart(t, "s1")

	req := f.request()
	req.TableID = 999
	_, err := f.orders.PlaceOrder(ctx, "s1", req)
	assert.True(t, apperr.IsNotFound(err))

	items, err := f.cart.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	count, err := f.db.NewSelect().Model((*models.Order)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	count, err = f.db.NewSelect().Model((*models.Client)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPlaceOrderTwiceNeedsNewItems(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.fillCart(t, "s1")

	_, err := f.orders.PlaceOrder(ctx, "s1", f.request())
	require.NoError(t, err)

	_, err = f.orders.PlaceOrder(ctx, "s1", f.request())
	assert.True(t, apperr.IsValidation(err))
}

func TestListAndDeleteOrders(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.fillCart(t, "s1")
	first, err := f.orders.PlaceOrder(ctx, "s1", f.request())
	require.NoError(t, err)

	f.fillCart(t, "s2")
	other := f.request()
	other.PhoneNumber = "09350000002"
	_, err = f.orders.PlaceOrder(ctx, "s2", other)
	require.NoError(t, err)

	mine, err := f.orders.ListByPhone(ctx, "09120000001")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Len(t, mine[0].Items, 2)

	_, err = f.orders.ListByPhone(ctx, " ")
	assert.True(t, apperr.IsValidation(err))

	all, err := f.orders.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, f.orders.DeleteOrder(ctx, first.ID))
	_, err = f.orders.GetOrder(ctx, first.ID)
	assert.True(t, apperr.IsNotFound(err))

	items, err := f.db.NewSelect().Model((*models.OrderItem)(nil)).Where("order_id = ?", first.ID).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, items)

	assert.True(t, apperr.IsNotFound(f.orders.DeleteOrder(ctx, first.ID)))
}

func TestOrderTrackingQR(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.fillCart(t, "s1")

	placed, err := f.orders.PlaceOrder(ctx, "s1", f.request())
	require.NoError(t, err)

	png, err := f.orders.TrackingQR(ctx, placed.TrackingCode)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}
