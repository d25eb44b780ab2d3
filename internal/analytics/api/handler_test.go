package api

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"rose-booking/internal/analytics"
	"rose-booking/internal/database/dbtest"
	"rose-booking/internal/logger"
)

func TestDashboardEndpoint(t *testing.T) {
	db := dbtest.NewSQLite(t)
	fx := dbtest.Seed(t, db, []int{2}, []int64{100})

	svc := analytics.NewService(db, time.UTC, logger.NewDiscardLogger()).
		WithClock(func() time.Time { return time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC) })
	h := NewHandler(svc, logger.NewDiscardLogger())

	r := chi.NewRouter()
	r.Get("/api/admin/stats/dashboard", h.Dashboard)
	r.Get("/api/admin/stats/sales", h.Sales)

	cases := []struct {
		path string
		code int
	}{
		{"/api/admin/stats/dashboard?restaurantId=" + strconv.FormatInt(fx.Restaurant.ID, 10), http.StatusOK},
		{"/api/admin/stats/dashboard", http.StatusBadRequest},
		{"/api/admin/stats/dashboard?restaurantId=999", http.StatusNotFound},
		{"/api/admin/stats/sales?restaurantId=" + strconv.FormatInt(fx.Restaurant.ID, 10) + "&top=3", http.StatusOK},
		{"/api/admin/stats/sales?restaurantId=" + strconv.FormatInt(fx.Restaurant.ID, 10) + "&top=x", http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		assert.Equal(t, tc.code, rec.Code, tc.path)
	}
}
