package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rose-booking/internal/cart"
	"rose-booking/internal/database/dbtest"
	"rose-booking/internal/logger"
	"rose-booking/internal/session"
	"rose-booking/internal/utils"
)

func TestCartRoundTripWithSessionHeader(t *testing.T) {
	db := dbtest.NewSQLite(t)
	fx := dbtest.Seed(t, db, []int{2}, []int64{100})
	h := &Handler{CartService: cart.NewService(db, logger.NewDiscardLogger()), Logger: logger.NewDiscardLogger()}

	r := chi.NewRouter()
	r.Use(session.Middleware)
	r.Post("/api/cart/add", h.AddItem)
	r.Get("/api/cart", h.GetCart)
	r.Delete("/api/cart/clear", h.ClearCart)

	req := httptest.NewRequest(http.MethodPost, "/api/cart/add",
		strings.NewReader(fmt.Sprintf(`{"menuItemId":%d,"quantity":2}`, fx.MenuItems[0].ID)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	sid := rec.Header().Get(session.Header)
	require.NotEmpty(t, sid)

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set(session.Header, sid)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	items := resp.Data.([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, float64(2), items[0].(map[string]interface{})["quantity"])

	// a new session sees an empty cart
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	var fresh utils.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fresh))
	assert.Empty(t, fresh.Data)

	req = httptest.NewRequest(http.MethodPost, "/api/cart/add", strings.NewReader(`{"menuItemId":999}`))
	req.Header.Set(session.Header, sid)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
