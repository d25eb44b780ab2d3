package reservation

import (
	"sort"
	"time"

	"rose-booking/internal/apperr"
	"rose-booking/internal/models"
)

const (
	dateLayout     = "2006-01-02"
	hourLayout     = "15:04"
	dateTimeLayout = dateLayout + " " + hourLayout
)

// Window is the half-open interval [Start, End) a table is occupied.
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseWindow builds a window from a YYYY-MM-DD date, an HH:mm hour and a
// duration in hours. Both strings must have exactly the expected width.
func ParseWindow(date, hour string, duration int, loc *time.Location) (Window, error) {
	if len(date) != len(dateLayout) || len(hour) != len(hourLayout) {
		return Window{}, apperr.Validation("invalid date or hour format, expected YYYY-MM-DD and HH:mm")
	}
	if loc == nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation(dateTimeLayout, date+" "+hour, loc)
	if err != nil {
		return Window{}, apperr.Validation("invalid date or hour format, expected YYYY-MM-DD and HH:mm")
	}
	return Window{Start: start, End: start.Add(time.Duration(duration) * time.Hour)}, nil
}

// Overlaps reports whether two windows share any instant. Windows that only
// touch at an endpoint do not overlap.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && w.End.After(other.Start)
}

// SelectAvailable returns the tables seating at least people whose existing
// reservations do not overlap window, ordered by ascending capacity.
// Reservations whose stored date or hour cannot be parsed are ignored.
func SelectAvailable(tables []models.Table, reservations []models.Reservation, window Window, people int, loc *time.Location) []models.Table {
	busy := make(map[int64]bool)
	for _, r := range reservations {
		existing, err := ParseWindow(r.Date, r.Hour, r.Duration, loc)
		if err != nil {
			continue
		}
		if window.Overlaps(existing) {
			busy[r.TableID] = true
		}
	}

	available := []models.Table{}
	for _, t := range tables {
		if t.Capacity >= people && !busy[t.ID] {
			available = append(available, t)
		}
	}

	sort.SliceStable(available, func(i, j int) bool {
		if available[i].Capacity != available[j].Capacity {
			return available[i].Capacity < available[j].Capacity
		}
		return available[i].ID < available[j].ID
	})
	return available
}
