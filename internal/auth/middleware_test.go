package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rose-booking/internal/logger"
)

func TestHMACVerifierRoundTrip(t *testing.T) {
	v := NewHMACVerifier("secret", "rose-booking")

	token, err := v.Issue("admin-1", []string{"Admin"}, time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(t.Context(), token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.Subject)
	assert.True(t, claims.HasRole("admin"))
	assert.False(t, claims.HasRole("staff"))
}

func TestHMACVerifierRejects(t *testing.T) {
	v := NewHMACVerifier("secret", "rose-booking")

	expired, err := v.Issue("admin-1", []string{"admin"}, -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(t.Context(), expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, err := NewHMACVerifier("other", "rose-booking").Issue("admin-1", []string{"admin"}, time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(t.Context(), foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer, err := NewHMACVerifier("secret", "someone-else").Issue("admin-1", []string{"admin"}, time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(t.Context(), wrongIssuer)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(t.Context(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequireRole(t *testing.T) {
	v := NewHMACVerifier("secret", "")
	admin, err := v.Issue("admin-1", []string{"admin"}, time.Hour)
	require.NoError(t, err)
	guest, err := v.Issue("guest-1", nil, time.Hour)
	require.NoError(t, err)

	var seen string
	h := RequireRole(v, "admin", logger.NewDiscardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context()).Subject
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"missing role", "Bearer " + guest, http.StatusForbidden},
		{"admin", "Bearer " + admin, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
	assert.Equal(t, "admin-1", seen)
	assert.Nil(t, FromContext(t.Context()))
}
