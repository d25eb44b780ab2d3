package sse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rose-booking/internal/kafka"
	"rose-booking/internal/logger"
)

func TestBrokerRoutesByRestaurant(t *testing.T) {
	b := NewBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rose := b.Subscribe(ctx, 1)
	other := b.Subscribe(ctx, 2)
	all := b.Subscribe(ctx, AllRestaurants)

	b.Broadcast(Event{Topic: "rose.order.placed", RestaurantID: 1, Payload: []byte(`{}`)})

	assert.Equal(t, "rose.order.placed", (<-rose).Topic)
	assert.Equal(t, "rose.order.placed", (<-all).Topic)
	select {
	case <-other:
		t.Fatal("restaurant 2 must not receive restaurant 1 events")
	default:
	}
}

func TestBrokerDropsClientOnCancel(t *testing.T) {
	b := NewBroker()
	ctx, cancel := context.WithCancel(context.Background())

	ch := b.Subscribe(ctx, 7)
	assert.Equal(t, 1, b.ClientCount(7))

	cancel()
	require.Eventually(t, func() bool { return b.ClientCount(7) == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-ch
	assert.False(t, open)
}

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, string, string, []byte) error {
	f.calls++
	return errors.New("broker down")
}

func TestTeeRelaysEvenWhenNextFails(t *testing.T) {
	b := NewBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := b.Subscribe(ctx, 3)

	next := &failingPublisher{}
	var p kafka.Publisher = &Tee{Next: next, Broker: b}
	err := p.Publish(ctx, "rose.reservation.created", "AB12CD34", []byte(`{"restaurant_id":3,"table_id":9}`))

	assert.Error(t, err)
	assert.Equal(t, 1, next.calls)
	ev := <-ch
	assert.Equal(t, int64(3), ev.RestaurantID)
	assert.JSONEq(t, `{"restaurant_id":3,"table_id":9}`, string(ev.Payload))
}

func TestStreamWritesEvents(t *testing.T) {
	b := NewBroker()
	h := NewHandler(b, logger.NewDiscardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats/live?restaurantId=5", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.Stream(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return b.ClientCount(5) == 1 }, time.Second, 5*time.Millisecond)
	b.Broadcast(Event{Topic: "rose.order.placed", RestaurantID: 5, Payload: []byte(`{"order_id":1}`)})
	// let the stream loop drain the event before disconnecting
	require.Eventually(t, func() bool {
		b.mu.RLock()
		defer b.mu.RUnlock()
		return len(b.clients[5]) == 1 && len(b.clients[5][0]) == 0
	}, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.True(t, strings.Contains(body, "event: rose.order.placed\ndata: {\"order_id\":1}\n\n"), body)
}

func TestStreamRejectsBadRestaurant(t *testing.T) {
	h := NewHandler(NewBroker(), logger.NewDiscardLogger())
	rec := httptest.NewRecorder()
	h.Stream(rec, httptest.NewRequest(http.MethodGet, "/api/admin/stats/live?restaurantId=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
