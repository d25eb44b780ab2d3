package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rose-booking/internal/apperr"
	"rose-booking/internal/database"
	"rose-booking/internal/database/dbtest"
	"rose-booking/internal/models"
	"rose-booking/internal/order/db"
)

func TestCreateOrderInsertsItems(t *testing.T) {
	bunDB := dbtest.NewSQLite(t)
	fx := dbtest.Seed(t, bunDB, []int{2}, []int64{30, 40})
	orderDB := db.New(bunDB)
	ctx := context.Background()

	client := models.Client{FullName: "Ali", Phone: "09120000000"}
	_, err := bunDB.NewInsert().Model(&client).Exec(ctx)
	require.NoError(t, err)

	o := &models.Order{
		CustomerName: "Ali",
		PhoneNumber:  "09120000000",
		TotalPrice:   100,
		TrackingCode: "ABCD1234",
		ClientID:     client.ID,
		TableID:      fx.Tables[0].ID,
		Items: []models.OrderItem{
			{MenuItemID: fx.MenuItems[0].ID, Quantity: 2, Fee: 30},
			{MenuItemID: fx.MenuItems[1].ID, Quantity: 1, Fee: 40},
		},
	}
	require.NoError(t, database.RunInTx(ctx, bunDB, func(ctx context.Context) error {
		return orderDB.CreateOrder(ctx, o)
	}))
	assert.NotZero(t, o.ID)

	loaded, err := orderDB.GetOrderByTrackingCode(ctx, "abcd1234")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "Dish A", loaded.Items[0].MenuItem.Title)
	assert.Equal(t, fx.Tables[0].ID, loaded.Table.ID)

	exists, err := orderDB.TrackingCodeExists(ctx, "ABCD1234")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = orderDB.GetOrderByID(ctx, 42)
	assert.True(t, apperr.IsNotFound(err))
}
