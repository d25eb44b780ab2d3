package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rose-booking/internal/database"
	"rose-booking/internal/database/dbtest"
	"rose-booking/internal/models"
)

func TestRunInTxRollsBackOnError(t *testing.T) {
	db := dbtest.NewSQLite(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := database.RunInTx(ctx, db, func(ctx context.Context) error {
		client := models.Client{FullName: "Ali", Phone: "09120000000"}
		if _, err := database.Conn(ctx, db).NewInsert().Model(&client).Exec(ctx); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	count, err := db.NewSelect().Model((*models.Client)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRunInTxNestedJoinsOuter(t *testing.T) {
	db := dbtest.NewSQLite(t)
	ctx := context.Background()

	err := database.RunInTx(ctx, db, func(ctx context.Context) error {
		return database.RunInTx(ctx, db, func(ctx context.Context) error {
			client := models.Client{FullName: "Sara", Phone: "09121111111"}
			_, err := database.Conn(ctx, db).NewInsert().Model(&client).Exec(ctx)
			return err
		})
	})
	require.NoError(t, err)

	count, err := db.NewSelect().Model((*models.Client)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestConnWithoutTxReturnsDB(t *testing.T) {
	db := dbtest.NewSQLite(t)
	assert.Equal(t, db, database.Conn(context.Background(), db))
}
