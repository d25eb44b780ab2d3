package models

import "time"

type ReservationEvent struct {
	ReservationID int64     `json:"reservation_id"`
	TrackingCode  string    `json:"tracking_code"`
	RestaurantID  int64     `json:"restaurant_id"`
	TableID       int64     `json:"table_id"`
	Date          string    `json:"date"`
	Hour          string    `json:"hour"`
	Duration      int       `json:"duration"`
	People        int       `json:"people"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type OrderPlacedEvent struct {
	OrderID      int64     `json:"order_id"`
	TrackingCode string    `json:"tracking_code"`
	RestaurantID int64     `json:"restaurant_id,omitempty"`
	TableID      int64     `json:"table_id"`
	TotalPrice   int64     `json:"total_price"`
	ItemCount    int       `json:"item_count"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func NewReservationEvent(r Reservation, restaurantID int64) ReservationEvent {
	return ReservationEvent{
		ReservationID: r.ID,
		TrackingCode:  r.TrackingCode,
		RestaurantID:  restaurantID,
		TableID:       r.TableID,
		Date:          r.Date,
		Hour:          r.Hour,
		Duration:      r.Duration,
		People:        r.People,
		OccurredAt:    time.Now().UTC(),
	}
}

func NewOrderPlacedEvent(o Order) OrderPlacedEvent {
	var restaurantID int64
	if o.Table != nil {
		restaurantID = o.Table.RestaurantID
	}
	return OrderPlacedEvent{
		OrderID:      o.ID,
		TrackingCode: o.TrackingCode,
		RestaurantID: restaurantID,
		TableID:      o.TableID,
		TotalPrice:   o.TotalPrice,
		ItemCount:    len(o.Items),
		OccurredAt:   time.Now().UTC(),
	}
}
