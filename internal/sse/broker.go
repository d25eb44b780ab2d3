package sse

import (
	"context"
	"encoding/json"
	"sync"

	"rose-booking/internal/kafka"
)

// AllRestaurants subscribes to events of every restaurant.
const AllRestaurants int64 = 0

// Event is one domain event relayed to admin dashboards.
type Event struct {
	Topic        string
	RestaurantID int64
	Payload      json.RawMessage
}

// Broker fans events out to connected dashboard clients, keyed by restaurant.
type Broker struct {
	mu      sync.RWMutex
	clients map[int64][]chan Event
}

func NewBroker() *Broker {
	return &Broker{clients: make(map[int64][]chan Event)}
}

// Subscribe registers a client until ctx is done; the channel is closed then.
func (b *Broker) Subscribe(ctx context.Context, restaurantID int64) <-chan Event {
	ch := make(chan Event, 10)

	b.mu.Lock()
	b.clients[restaurantID] = append(b.clients[restaurantID], ch)
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.remove(restaurantID, ch)
	}()
	return ch
}

// Broadcast delivers ev to subscribers of its restaurant and to AllRestaurants.
// Slow clients whose buffer is full miss the event.
func (b *Broker) Broadcast(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	targets := [][]chan Event{b.clients[AllRestaurants]}
	if ev.RestaurantID != AllRestaurants {
		targets = append(targets, b.clients[ev.RestaurantID])
	}
	for _, clients := range targets {
		for _, ch := range clients {
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

func (b *Broker) remove(restaurantID int64, ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	clients := b.clients[restaurantID]
	for i, c := range clients {
		if c == ch {
			b.clients[restaurantID] = append(clients[:i], clients[i+1:]...)
			close(ch)
			break
		}
	}
	if len(b.clients[restaurantID]) == 0 {
		delete(b.clients, restaurantID)
	}
}

func (b *Broker) ClientCount(restaurantID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients[restaurantID])
}

// Tee forwards every message to Next and relays it to the broker.
type Tee struct {
	Next   kafka.Publisher
	Broker *Broker
}

func (t *Tee) Publish(ctx context.Context, topic, key string, value []byte) error {
	err := t.Next.Publish(ctx, topic, key, value)

	var head struct {
		RestaurantID int64 `json:"restaurant_id"`
	}
	// payloads that are not JSON objects still reach every-restaurant subscribers
	_ = json.Unmarshal(value, &head)
	t.Broker.Broadcast(Event{Topic: topic, RestaurantID: head.RestaurantID, Payload: value})
	return err
}
