package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rose-booking/internal/apperr"
	"rose-booking/internal/models"
)

func mustWindow(t *testing.T, date, hour string, duration int) Window {
	t.Helper()
	w, err := ParseWindow(date, hour, duration, time.UTC)
	require.NoError(t, err)
	return w
}

func ids(tables []models.Table) []int64 {
	out := make([]int64, len(tables))
	for i, t := range tables {
		out[i] = t.ID
	}
	return out
}

func TestParseWindowStrictFormat(t *testing.T) {
	w := mustWindow(t, "2030-05-01", "19:00", 2)
	assert.Equal(t, time.Date(2030, 5, 1, 19, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2030, 5, 1, 21, 0, 0, 0, time.UTC), w.End)

	bad := [][2]string{
		{"2030-5-1", "19:00"},
		{"2030-05-01", "7:00"},
		{"01-05-2030", "19:00"},
		{"2030-05-01", "25:00"},
		{"2030-13-01", "19:00"},
		{"", ""},
	}
	for _, b := range bad {
		_, err := ParseWindow(b[0], b[1], 1, time.UTC)
		assert.True(t, apperr.IsValidation(err), "%v should be rejected", b)
	}
}

func TestOverlapsIsHalfOpen(t *testing.T) {
	existing := mustWindow(t, "2030-05-01", "19:00", 2)

	assert.True(t, mustWindow(t, "2030-05-01", "20:00", 1).Overlaps(existing))
	assert.True(t, mustWindow(t, "2030-05-01", "18:00", 2).Overlaps(existing))
	assert.True(t, mustWindow(t, "2030-05-01", "18:00", 3).Overlaps(existing))
	assert.False(t, mustWindow(t, "2030-05-01", "21:00", 1).Overlaps(existing))
	assert.False(t, mustWindow(t, "2030-05-01", "17:00", 2).Overlaps(existing))
}

func TestSelectAvailable(t *testing.T) {
	tables := []models.Table{
		{ID: 1, Capacity: 6},
		{ID: 2, Capacity: 2},
		{ID: 3, Capacity: 4},
		{ID: 4, Capacity: 4},
	}
	reservations := []models.Reservation{
		{TableID: 3, Date: "2030-05-01", Hour: "19:00", Duration: 2},
	}

	cases := []struct {
		name   string
		hour   string
		people int
		want   []int64
	}{
		{"overlapping slot excludes booked table", "20:00", 4, []int64{4, 1}},
		{"slot starting at the end is free", "21:00", 4, []int64{3, 4, 1}},
		{"capacity filter", "12:00", 5, []int64{1}},
		{"sorted by capacity then id", "12:00", 1, []int64{2, 3, 4, 1}},
		{"nobody fits", "12:00", 7, []int64{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := mustWindow(t, "2030-05-01", tc.hour, 1)
			got := SelectAvailable(tables, reservations, w, tc.people, time.UTC)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestSelectAvailableIgnoresCorruptReservations(t *testing.T) {
	tables := []models.Table{{ID: 1, Capacity: 2}}
	reservations := []models.Reservation{{TableID: 1, Date: "2030/05/01", Hour: "19:00", Duration: 2}}

	got := SelectAvailable(tables, reservations, mustWindow(t, "2030-05-01", "19:00", 1), 2, time.UTC)
	assert.Equal(t, []int64{1}, ids(got))
}
