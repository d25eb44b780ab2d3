package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"rose-booking/internal/apperr"
	"rose-booking/internal/database/dbtest"
	"rose-booking/internal/logger"
	"rose-booking/internal/models"
)

func newTestService(t *testing.T) (*Service, *bun.DB, dbtest.Fixture) {
	db := dbtest.NewSQLite(t)
	fx := dbtest.Seed(t, db, []int{4}, []int64{100, 50})
	return NewService(db, logger.NewDiscardLogger()), db, fx
}

func TestAddItemMergesIntoOneLine(t *testing.T) {
	svc, _, fx := newTestService(t)
	ctx := context.Background()
	dish := fx.MenuItems[0].ID

	_, err := svc.AddItem(ctx, "s1", dish, 2)
	require.NoError(t, err)
	line, err := svc.AddItem(ctx, "s1", dish, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)

	items, err := svc.GetCart(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	require.NotNil(t, items[0].MenuItem)
	assert.Equal(t, int64(100), items[0].MenuItem.Fee)
}

func TestAddItemErrors(t *testing.T) {
	svc, _, fx := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", 999, 1)
	assert.True(t, apperr.IsNotFound(err))

	_, err = svc.AddItem(ctx, "s1", fx.MenuItems[0].ID, -1)
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.AddItem(ctx, "", fx.MenuItems[0].ID, 1)
	assert.True(t, apperr.IsValidation(err))
}

func TestSessionsAreIsolated(t *testing.T) {
	svc, _, fx := newTestService(t)
	ctx := context.Background()

	line, err := svc.AddItem(ctx, "s1", fx.MenuItems[0].ID, 1)
	require.NoError(t, err)

	items, err := svc.GetCart(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.True(t, apperr.IsNotFound(svc.RemoveItem(ctx, line.ID, "s2")))
	require.NoError(t, svc.RemoveItem(ctx, line.ID, "s1"))
	assert.True(t, apperr.IsNotFound(svc.RemoveItem(ctx, line.ID, "s1")))
}

func TestAddMultipleIsAllOrNothing(t *testing.T) {
	svc, _, fx := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddMultiple(ctx, "s1", models.AddMultipleItemsRequest{Items: []models.AddToCartRequest{
		{MenuItemID: fx.MenuItems[0].ID, Quantity: 2},
		{MenuItemID: 999, Quantity: 1},
	}})
	assert.True(t, apperr.IsNotFound(err))

	items, err := svc.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, items)

	lines, err := svc.AddMultiple(ctx, "s1", models.AddMultipleItemsRequest{Items: []models.AddToCartRequest{
		{MenuItemID: fx.MenuItems[0].ID, Quantity: 2},
		{MenuItemID: fx.MenuItems[1].ID},
		{MenuItemID: fx.MenuItems[0].ID, Quantity: 1},
	}})
	require.NoError(t, err)
	assert.Len(t, lines, 3)

	items, err = svc.GetCart(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)

	_, err = svc.AddMultiple(ctx, "s1", models.AddMultipleItemsRequest{})
	assert.True(t, apperr.IsValidation(err))
}

func TestClearCartKeepsOrderedLines(t *testing.T) {
	svc, db, fx := newTestService(t)
	ctx := context.Background()

	ordered, err := svc.AddItem(ctx, "s1", fx.MenuItems[0].ID, 1)
	require.NoError(t, err)
	n, err := svc.DB.MarkOrdered(ctx, []int64{ordered.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = svc.AddItem(ctx, "s1", fx.MenuItems[0].ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "s1", fx.MenuItems[1].ID, 1)
	require.NoError(t, err)

	removed, err := svc.ClearCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	total, err := db.NewSelect().Model((*models.CartItem)(nil)).Where("session_id = ?", "s1").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	// an ordered line can be neither removed nor re-marked
	assert.True(t, apperr.IsNotFound(svc.RemoveItem(ctx, ordered.ID, "s1")))
	n, err = svc.DB.MarkOrdered(ctx, []int64{ordered.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
